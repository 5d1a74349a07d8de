// Package bitmap splits uncompressed bitmap files into a fixed-size header and the pixel payload.
package bitmap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultHeaderSize is the size of BITMAPFILEHEADER followed by BITMAPINFOHEADER.
const DefaultHeaderSize = 54

var (
	// ErrSourceTooSmall is returned when the source is shorter than the header.
	ErrSourceTooSmall = errors.New("source too small")
	// ErrAllocation is returned when a source exceeds the configured size limit.
	ErrAllocation = errors.New("allocation failure")
	// ErrIO is returned when a source cannot be read or an output cannot be written.
	ErrIO = errors.New("i/o failure")
)

// Split returns the header and the payload of data. Both alias data.
func Split(data []byte, headerSize int) (header, payload []byte, err error) {
	if headerSize < 0 {
		return nil, nil, fmt.Errorf("invalid header size %d", headerSize)
	}

	if len(data) < headerSize {
		return nil, nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrSourceTooSmall, len(data), headerSize)
	}

	return data[:headerSize], data[headerSize:], nil
}

// Join returns a new buffer holding header followed by payload.
func Join(header, payload []byte) []byte {
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)

	return append(out, payload...)
}

// Read loads the file at path, refusing files larger than limit bytes.
// A non-positive limit disables the check.
func Read(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit is %d", ErrAllocation, path, info.Size(), limit)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrIO, path, err)
	}

	return data, nil
}
