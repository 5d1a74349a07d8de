package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Request describes one transform run over a payload.
type Request struct {
	Key       Key
	Direction Direction
	Mode      Mode

	// Workers is the number of partitions. Decrypting CBC output requires
	// the same value that was used to encrypt it.
	Workers int
}

// Pipeline plans, scatters, transforms, gathers and restores the tail of a payload.
type Pipeline struct {
	executor *Executor
	log      logrus.FieldLogger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for run and worker diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithThreads bounds the goroutines each worker uses for ECB blocks.
func WithThreads(threads int) Option {
	return func(p *Pipeline) {
		p.executor = NewExecutor(p.executor.primitive, threads)
	}
}

// New returns a Pipeline over the given primitive.
func New(primitive Primitive, opts ...Option) *Pipeline {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Pipeline{
		executor: NewExecutor(primitive, 0),
		log:      discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run transforms payload according to req and returns a new buffer of the same length.
// payload itself is left untouched. Any worker failure cancels the remaining workers
// and no output is returned.
func (p *Pipeline) Run(ctx context.Context, payload []byte, req Request) ([]byte, error) {
	plan, err := NewPlan(len(payload), req.Workers)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}

	log := p.log.WithFields(logrus.Fields{
		"direction": req.Direction,
		"mode":      req.Mode,
		"workers":   req.Workers,
		"payload":   plan.Size,
		"tail":      plan.Tail(),
	})

	log.Debug("starting run")

	locals, err := Scatter(payload, plan)
	if err != nil {
		return nil, fmt.Errorf("scattering: %w", err)
	}

	group, gctx := errgroup.WithContext(ctx)

	for i, part := range plan.Partitions {
		local := locals[i]

		group.Go(func() error {
			log.WithFields(logrus.Fields{
				"worker": i,
				"offset": part.Offset,
				"length": part.Length,
			}).Debug("transforming partition")

			if err := p.executor.Run(gctx, local, req.Key, req.Direction, req.Mode); err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.WithError(err).Debug("run aborted")

		return nil, err //nolint:wrapcheck // already carries the worker index
	}

	out := make([]byte, plan.Size)

	if err := Gather(out, locals, plan); err != nil {
		return nil, fmt.Errorf("gathering: %w", err)
	}

	PreserveTail(out, payload, plan)

	log.Debug("run complete")

	return out, nil
}
