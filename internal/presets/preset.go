// Package presets implements the preset prompt domain for the photomaton
// tooling. It provides types, data access, and the import reconciliation
// logic for the preset_prompts table.
package presets

import "time"

// Preset represents a persisted prompt template row.
type Preset struct {
	ID          string  `json:"id"`
	PresetID    string  `json:"preset_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Enabled     bool    `json:"enabled"`
	Icon        *string `json:"icon"`
	ImagePath   *string `json:"image_path"`
	Prompt      string  `json:"prompt"`
	OrderIndex  int     `json:"order_index"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Record is a preset entry as it appears in an export document.
// Enabled and OrderIndex decode through pointers so a missing field
// is distinguishable from a zero value. Timestamps are carried as
// opaque strings: created_at is preserved verbatim on insert and
// never interpreted.
type Record struct {
	ID          string  `json:"id"`
	PresetID    string  `json:"preset_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled"`
	Icon        *string `json:"icon,omitempty"`
	ImagePath   *string `json:"image_path,omitempty"`
	Prompt      string  `json:"prompt"`
	OrderIndex  *int    `json:"order_index"`
	CreatedAt   string  `json:"created_at"`
}

// Validate checks that every required field is present.
// Optional fields (description, icon, image_path) are not checked.
func (r Record) Validate() error {
	for _, field := range []struct {
		name    string
		missing bool
	}{
		{"id", r.ID == ""},
		{"preset_id", r.PresetID == ""},
		{"name", r.Name == ""},
		{"enabled", r.Enabled == nil},
		{"prompt", r.Prompt == ""},
		{"order_index", r.OrderIndex == nil},
		{"created_at", r.CreatedAt == ""},
	} {
		if field.missing {
			return missingField(field.name)
		}
	}
	return nil
}

// Action identifies the outcome applied to a single record.
type Action string

const (
	ActionInserted Action = "inserted"
	ActionUpdated  Action = "updated"
	ActionSkipped  Action = "skipped"
)

// RecordResult reports the outcome of a single record within an import run.
// On skip, Err holds the cause.
type RecordResult struct {
	Action   Action
	Name     string
	PresetID string
	Err      error
}

// ImportResult tallies an import run. Records preserves document order.
type ImportResult struct {
	Inserted int
	Updated  int
	Skipped  int
	Records  []RecordResult
}

// Total returns the number of records processed.
func (r *ImportResult) Total() int {
	return r.Inserted + r.Updated + r.Skipped
}

// Timestamp returns the current UTC time in RFC 3339 format with a
// trailing Z, the representation stored in created_at and updated_at.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
