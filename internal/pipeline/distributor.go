package pipeline

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Scatter copies every partition of payload into a freshly allocated buffer.
// Empty partitions receive a non-nil zero-length buffer.
func Scatter(payload []byte, plan Plan) ([][]byte, error) {
	if len(payload) < plan.Aligned {
		return nil, fmt.Errorf("%w: payload has %d bytes, plan covers %d", ErrMisalignedLength, len(payload), plan.Aligned)
	}

	locals := make([][]byte, plan.Workers())

	for i, part := range plan.Partitions {
		local := make([]byte, part.Length)
		copy(local, payload[part.Offset:part.End()])

		locals[i] = local
	}

	return locals, nil
}

// Gather copies each local buffer back to its partition range in dst.
// Ranges are disjoint, so the copies run concurrently.
func Gather(dst []byte, locals [][]byte, plan Plan) error {
	if len(locals) != plan.Workers() {
		return fmt.Errorf("gathering: got %d buffers for %d workers", len(locals), plan.Workers())
	}

	if len(dst) < plan.Aligned {
		return fmt.Errorf("%w: destination has %d bytes, plan covers %d", ErrMisalignedLength, len(dst), plan.Aligned)
	}

	for i, part := range plan.Partitions {
		if len(locals[i]) != part.Length {
			return fmt.Errorf("%w: worker %d returned %d bytes, expected %d",
				ErrMisalignedLength, i, len(locals[i]), part.Length)
		}
	}

	group := errgroup.Group{}

	for i, part := range plan.Partitions {
		if part.Length == 0 {
			continue
		}

		local := locals[i]

		group.Go(func() error {
			copy(dst[part.Offset:part.End()], local)

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck // copies never fail
}
