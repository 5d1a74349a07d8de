package processor

// Result represents the outcome of processing a single job.
type Result struct {
	// Input file path
	Input string

	// Output file path
	Output string

	// Output file size in bytes
	OutputSize int64

	// Store id of the recorded output, empty when no store is configured
	RecordID string

	// Any error that occurred during processing
	Error error
}
