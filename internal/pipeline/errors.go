package pipeline

import "errors"

var (
	// ErrInvalidWorkerCount is returned when fewer than one worker is requested.
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	// ErrMisalignedLength is returned when a buffer handed to the primitive is not a multiple of BlockSize.
	ErrMisalignedLength = errors.New("length is not a multiple of block size")
	// ErrPrimitive is returned when the underlying cipher call fails.
	ErrPrimitive = errors.New("cipher primitive failure")
)
