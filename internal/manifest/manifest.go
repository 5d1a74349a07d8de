// Package manifest loads batch job descriptions from JSONC files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/idelchi/gogen/pkg/validator"
	"github.com/tidwall/jsonc"

	"github.com/pixcrypt/pixcrypt/internal/config"
)

// Entry describes one image to process. Empty Key and zero Workers fall back to the command line.
type Entry struct {
	Name        string `json:"name"`
	Source      string `json:"source"      validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Key         string `json:"key"`
	Operation   string `json:"operation"   validate:"required,oneof=encrypt decrypt"`
	Mode        string `json:"mode"        validate:"required,ciphermode"`
	Workers     int    `json:"workers"     validate:"min=0"`
}

// ErrEmpty is returned for a manifest without entries.
var ErrEmpty = errors.New("manifest has no entries")

// Load reads a JSONC file holding an array of entries and validates every entry.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading manifest %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes and validates manifest content. Comments and trailing commas are allowed.
func Parse(data []byte) ([]Entry, error) {
	var entries []Entry
	if err := json.Unmarshal(jsonc.ToJSON(data), &entries); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrEmpty
	}

	validate := validator.NewValidator()

	if err := config.RegisterCipherMode(validate); err != nil {
		return nil, err //nolint:wrapcheck
	}

	for i := range entries {
		if errs := validate.Validate(entries[i]); len(errs) > 0 {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entries[i].Source, errors.Join(errs...))
		}

		if entries[i].Name == "" {
			entries[i].Name = entries[i].Source
		}
	}

	return entries, nil
}
