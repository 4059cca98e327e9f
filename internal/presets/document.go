package presets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Document is the export artifact consumed by the importer and
// produced by the exporter.
type Document struct {
	Presets      []Record `json:"presets"`
	PresetsCount int      `json:"presetsCount"`
	ExportedAt   string   `json:"exportedAt"`
}

// ParseDocument decodes and validates an export document. A document
// whose presets key is absent or null is malformed. PresetsCount is
// informational only and is never checked against the actual sequence
// length.
func ParseDocument(data []byte) (*Document, error) {
	var raw struct {
		Presets      *[]Record `json:"presets"`
		PresetsCount int       `json:"presetsCount"`
		ExportedAt   string    `json:"exportedAt"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	if raw.Presets == nil {
		return nil, fmt.Errorf("%w: missing presets sequence", ErrMalformedDocument)
	}

	return &Document{
		Presets:      *raw.Presets,
		PresetsCount: raw.PresetsCount,
		ExportedAt:   raw.ExportedAt,
	}, nil
}

// ReadDocument loads and parses an export document from disk.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read document: %w", err)
	}

	return ParseDocument(data)
}

// NewDocument builds an export document from persisted presets,
// stamping the export time.
func NewDocument(items []Preset) *Document {
	records := make([]Record, 0, len(items))
	for _, p := range items {
		records = append(records, newRecord(p))
	}

	return &Document{
		Presets:      records,
		PresetsCount: len(records),
		ExportedAt:   Timestamp(),
	}
}

// Encode marshals the document as indented JSON.
func (d *Document) Encode() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func newRecord(p Preset) Record {
	enabled := p.Enabled
	orderIndex := p.OrderIndex
	return Record{
		ID:          p.ID,
		PresetID:    p.PresetID,
		Name:        p.Name,
		Description: p.Description,
		Enabled:     &enabled,
		Icon:        p.Icon,
		ImagePath:   p.ImagePath,
		Prompt:      p.Prompt,
		OrderIndex:  &orderIndex,
		CreatedAt:   p.CreatedAt,
	}
}
