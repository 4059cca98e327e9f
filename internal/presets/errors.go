package presets

import (
	"errors"
	"fmt"
)

// Fatal setup errors. These halt the run before any store mutation.
var (
	ErrFileNotFound      = errors.New("import file not found")
	ErrMalformedDocument = errors.New("invalid export document")
)

// Recoverable per-record errors. The offending record is counted as
// skipped and the run continues.
var (
	ErrMissingField = errors.New("missing required field")
	ErrNotFound     = errors.New("preset not found")
	ErrDuplicate    = errors.New("preset_id already exists")
)

func missingField(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
