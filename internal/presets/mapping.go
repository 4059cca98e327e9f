package presets

import "github.com/photomaton/presetsync/pkg/repository"

const columns = "id, preset_id, name, description, enabled, icon, image_path, prompt, order_index, created_at, updated_at"

func scanPreset(s repository.Scanner) (Preset, error) {
	var (
		p       Preset
		enabled int
	)

	err := s.Scan(
		&p.ID,
		&p.PresetID,
		&p.Name,
		&p.Description,
		&enabled,
		&p.Icon,
		&p.ImagePath,
		&p.Prompt,
		&p.OrderIndex,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	p.Enabled = enabled != 0
	return p, err
}

// enabledFlag coerces the enabled boolean to the 0/1 integer
// representation the table stores.
func enabledFlag(enabled *bool) int {
	if enabled != nil && *enabled {
		return 1
	}
	return 0
}
