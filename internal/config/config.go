// Package config holds the runtime configuration shared by all commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/pixcrypt/pixcrypt/internal/pipeline"
)

// Config is populated from flags, PIXCRYPT_* environment variables and an optional config file.
type Config struct {
	// Show prints the configuration and exits
	Show bool

	// Key material, given inline or as a file. Raw bytes, normalized to 16 bytes.
	Key     string `mapstructure:"key"      label:"--key"      mask:"filled" validate:"exclusive=KeyFile"`
	KeyFile string `mapstructure:"key-file" label:"--key-file"`

	// Mode is ECB or CBC.
	Mode string `mapstructure:"mode" label:"--mode" validate:"ciphermode"`

	// Workers is the number of partitions per image.
	Workers int `mapstructure:"workers" label:"--workers" validate:"min=1"`

	// Threads bounds the goroutines per worker in ECB mode, 0 means one per CPU.
	Threads int `mapstructure:"threads" label:"--threads" validate:"min=0"`

	// Parallel is the number of images processed at once.
	Parallel int `mapstructure:"parallel" label:"--parallel" validate:"min=1"`

	HeaderSize int   `mapstructure:"header-size" label:"--header-size" validate:"min=0"`
	MaxSize    int64 `mapstructure:"max-size"    label:"--max-size"    validate:"min=0"`

	EncryptSuffix string `mapstructure:"encrypt-ext"`
	DecryptSuffix string `mapstructure:"decrypt-ext"`

	// Exclude holds patterns for files skipped while walking directories.
	Exclude []string `mapstructure:"exclude"`

	// Output overrides the derived output path when a single file is processed.
	Output string `mapstructure:"output"`

	// Store is the directory of the result store, empty disables recording.
	Store string `mapstructure:"store"`

	Quiet              bool `mapstructure:"quiet"`
	Stats              bool `mapstructure:"stats"`
	Dry                bool `mapstructure:"dry"`
	Verbose            bool `mapstructure:"verbose"`
	PreserveTimestamps bool `mapstructure:"preserve-timestamps"`

	// Delete removes each input once its output is written.
	Delete bool

	// Set by the subcommands.
	Decrypt  bool     `mapstructure:"-"`
	Files    []string `mapstructure:"-"`
	Manifest string   `mapstructure:"-"`
}

var (
	// ErrUsage indicates an error in command-line usage or configuration.
	ErrUsage = errors.New("usage error")

	// ErrMissingKey is returned when neither --key nor --key-file was given.
	ErrMissingKey = errors.New("one of --key or --key-file is required")
)

// Display returns the value of the Show field.
func (c *Config) Display() bool {
	return c.Show
}

// Validate checks config against its struct tags and c against the cross-field rules.
// It returns a wrapped ErrUsage if any rule is violated.
func (c *Config) Validate(config any) error {
	validator := validator.NewValidator()

	if err := registerExclusive(validator); err != nil {
		return fmt.Errorf("registering exclusive: %w", err)
	}

	if err := RegisterCipherMode(validator); err != nil {
		return fmt.Errorf("registering ciphermode: %w", err)
	}

	errs := validator.Validate(config)

	switch {
	case len(errs) == 1:
		return fmt.Errorf("%w: %w", ErrUsage, errs[0])
	case len(errs) > 1:
		return fmt.Errorf("%ws:\n%w", ErrUsage, errors.Join(errs...))
	}

	if c.Output != "" && len(c.Files) > 1 {
		return fmt.Errorf("%w: --output can only be used with a single file, got %d", ErrUsage, len(c.Files))
	}

	return nil
}

// RequireKey fails if no key source is configured.
func (c *Config) RequireKey() error {
	if c.Key == "" && c.KeyFile == "" {
		return ErrMissingKey
	}

	return nil
}

// KeyBytes returns the raw key material. A trailing newline in a key file is ignored.
func (c *Config) KeyBytes() ([]byte, error) {
	if c.KeyFile == "" {
		return []byte(c.Key), nil
	}

	data, err := os.ReadFile(filepath.Clean(c.KeyFile))
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}

	return bytes.TrimRight(data, "\r\n"), nil
}

// PipelineMode parses the configured mode.
func (c *Config) PipelineMode() (pipeline.Mode, error) {
	return pipeline.ParseMode(c.Mode) //nolint:wrapcheck
}

// Direction returns the transform direction selected by the subcommand.
func (c *Config) Direction() pipeline.Direction {
	if c.Decrypt {
		return pipeline.Inverse
	}

	return pipeline.Forward
}
