package presets

import "context"

// System defines the public contract for preset domain operations.
type System interface {
	// Import reconciles every record of doc against the preset_prompts
	// table in document order and commits once at the end.
	Import(ctx context.Context, doc *Document) (*ImportResult, error)

	// List returns all presets ordered by order_index.
	List(ctx context.Context) ([]Preset, error)

	// Find returns the preset matching the given business key.
	Find(ctx context.Context, presetID string) (*Preset, error)
}
