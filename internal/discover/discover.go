// Package discover expands command-line arguments into the bitmap files to process.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoFiles is returned when no argument resolved to a file.
var ErrNoFiles = errors.New("no bitmap files found")

// Selector decides which files found in directories are processed.
// Explicit file arguments are never filtered.
type Selector struct {
	// Extensions lists the accepted extensions, compared case-insensitively.
	Extensions []string

	// Excludes are find -path style patterns matched against slash-separated paths.
	Excludes []string

	// Suffix is the marker inserted before the extension of encrypted outputs.
	Suffix string

	// Encrypted selects files carrying Suffix instead of skipping them.
	Encrypted bool
}

// Resolve returns the files named by args. Directories are walked recursively and
// their entries filtered by s; duplicates are dropped while keeping argument order.
func (s Selector) Resolve(args []string) ([]string, error) {
	excludes, err := compileAll(s.Excludes)
	if err != nil {
		return nil, err
	}

	var files []string

	seen := make(map[string]struct{})
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			add(arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			if s.accepts(path) && !excludes.matchAny(filepath.ToSlash(path)) {
				add(path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, args)
	}

	return files, nil
}

// accepts checks the extension and the encrypted marker of path.
func (s Selector) accepts(path string) bool {
	ext := filepath.Ext(path)

	if len(s.Extensions) > 0 {
		known := false

		for _, e := range s.Extensions {
			if strings.EqualFold(e, ext) {
				known = true

				break
			}
		}

		if !known {
			return false
		}
	}

	if s.Suffix == "" {
		return true
	}

	marked := strings.HasSuffix(strings.TrimSuffix(filepath.Base(path), ext), s.Suffix)

	return marked == s.Encrypted
}
