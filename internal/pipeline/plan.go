package pipeline

import "fmt"

// Partition is the byte range of the payload assigned to one worker.
type Partition struct {
	Offset int
	Length int
}

// End returns the exclusive end offset of the partition.
func (p Partition) End() int {
	return p.Offset + p.Length
}

// Plan is a block-aligned division of a payload across workers.
type Plan struct {
	// Partitions holds one entry per worker, in worker order.
	Partitions []Partition

	// Size is the full payload length, tail included.
	Size int

	// Aligned is the number of leading bytes covered by partitions.
	Aligned int
}

// NewPlan divides the aligned part of a payload of size bytes across workers.
// Blocks are shared evenly; the first size/BlockSize % workers workers receive one extra block.
// Workers beyond the number of blocks receive zero-length partitions.
func NewPlan(size, workers int) (Plan, error) {
	if workers < 1 {
		return Plan{}, fmt.Errorf("%w: %d (must be at least 1)", ErrInvalidWorkerCount, workers)
	}

	if size < 0 {
		return Plan{}, fmt.Errorf("%w: negative payload size %d", ErrMisalignedLength, size)
	}

	alignedSize := aligned(size)
	blocks := alignedSize / BlockSize
	base, rem := blocks/workers, blocks%workers

	partitions := make([]Partition, workers)
	offset := 0

	for i := range partitions {
		share := base
		if i < rem {
			share++
		}

		partitions[i] = Partition{Offset: offset, Length: share * BlockSize}
		offset += partitions[i].Length
	}

	return Plan{Partitions: partitions, Size: size, Aligned: alignedSize}, nil
}

// Workers returns the number of partitions in the plan.
func (p Plan) Workers() int {
	return len(p.Partitions)
}

// Tail returns the number of trailing bytes left untransformed.
func (p Plan) Tail() int {
	return p.Size - p.Aligned
}
