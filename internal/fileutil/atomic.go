// Package fileutil writes output files atomically.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pixcrypt/pixcrypt/internal/bitmap"
)

// ErrIO is returned when the destination cannot be written. It is the same
// sentinel bitmap uses for read failures.
var ErrIO = bitmap.ErrIO

// Output describes where and how an output file is written.
type Output struct {
	// Path is the final destination.
	Path string

	// Perm is applied to the file before it is renamed into place.
	Perm os.FileMode

	// ModTime, if non-zero, is set as access and modification time after the rename.
	ModTime time.Time
}

// Write stores data in a temporary file next to out.Path and renames it into place,
// so readers never observe a partially written output. It returns the final size.
func Write(out Output, data []byte) (size int64, err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(out.Path), ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("%w: creating temporary file: %w", ErrIO, err)
	}

	tmpName := tmpFile.Name()

	defer func() {
		tmpFile.Close() //nolint:errcheck,gosec // best-effort cleanup

		if err != nil {
			os.Remove(tmpName) //nolint:errcheck,gosec // best-effort cleanup
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return 0, fmt.Errorf("%w: writing temporary file: %w", ErrIO, err)
	}

	if err := tmpFile.Chmod(out.Perm); err != nil {
		return 0, fmt.Errorf("%w: setting file permissions: %w", ErrIO, err)
	}

	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("%w: closing temporary file: %w", ErrIO, err)
	}

	if err := os.Rename(tmpName, out.Path); err != nil {
		return 0, fmt.Errorf("%w: renaming output file: %w", ErrIO, err)
	}

	if !out.ModTime.IsZero() {
		if err := os.Chtimes(out.Path, out.ModTime, out.ModTime); err != nil {
			return 0, fmt.Errorf("%w: preserving timestamps: %w", ErrIO, err)
		}
	}

	info, err := os.Stat(out.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: stat output %q: %w", ErrIO, out.Path, err)
	}

	return info.Size(), nil
}
