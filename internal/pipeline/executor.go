package pipeline

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Executor applies a Primitive to one worker's local buffer.
type Executor struct {
	primitive Primitive

	// threads bounds the goroutines used for ECB blocks within one buffer
	threads int
}

// NewExecutor returns an Executor using at most threads goroutines per buffer in ECB mode.
// A non-positive threads value defaults to the number of CPUs.
func NewExecutor(primitive Primitive, threads int) *Executor {
	if threads < 1 {
		threads = runtime.NumCPU()
	}

	return &Executor{primitive: primitive, threads: threads}
}

// Run transforms buf in place. ECB invokes the primitive once per block and spreads
// contiguous spans of blocks over the executor's goroutines. CBC invokes it once on the
// whole buffer, starting from ZeroSeed.
func (e *Executor) Run(ctx context.Context, buf []byte, key Key, dir Direction, mode Mode) error {
	if len(buf) == 0 {
		return nil
	}

	if len(buf)%BlockSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrMisalignedLength, len(buf))
	}

	switch mode {
	case ModeIndependent:
		return e.runIndependent(ctx, buf, key, dir)
	case ModeChained:
		if err := ctx.Err(); err != nil {
			return err //nolint:wrapcheck
		}

		if err := e.primitive.Transform(buf, key, dir, mode, ZeroSeed); err != nil {
			return fmt.Errorf("transforming %d bytes: %w", len(buf), err)
		}

		return nil
	default:
		return fmt.Errorf("%w: unsupported mode %s", ErrPrimitive, mode)
	}
}

// runIndependent splits the blocks of buf into at most e.threads contiguous spans.
func (e *Executor) runIndependent(ctx context.Context, buf []byte, key Key, dir Direction) error {
	blocks := len(buf) / BlockSize
	spans := min(e.threads, blocks)
	perSpan := (blocks + spans - 1) / spans

	group, ctx := errgroup.WithContext(ctx)

	for first := 0; first < blocks; first += perSpan {
		last := min(first+perSpan, blocks)

		group.Go(func() error {
			for b := first; b < last; b++ {
				if err := ctx.Err(); err != nil {
					return err //nolint:wrapcheck
				}

				block := buf[b*BlockSize : (b+1)*BlockSize]
				if err := e.primitive.Transform(block, key, dir, ModeIndependent, ZeroSeed); err != nil {
					return fmt.Errorf("transforming block %d: %w", b, err)
				}
			}

			return nil
		})
	}

	return group.Wait() //nolint:wrapcheck
}
