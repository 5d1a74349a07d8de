package processor

import "github.com/pixcrypt/pixcrypt/internal/pipeline"

// Job is one bitmap to transform.
type Job struct {
	// Name identifies the job in the result store, defaults to the output file name.
	Name string

	Input  string
	Output string

	Key       pipeline.Key
	Direction pipeline.Direction
	Mode      pipeline.Mode
	Workers   int
}
