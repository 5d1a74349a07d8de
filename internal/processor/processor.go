package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pixcrypt/pixcrypt/internal/bitmap"
	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/fileutil"
	"github.com/pixcrypt/pixcrypt/internal/pipeline"
	"github.com/pixcrypt/pixcrypt/internal/store"
)

// Processor handles the encryption and decryption of bitmap files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// pipeline transforms the pixel payload of every job
	pipeline *pipeline.Pipeline

	// store records outputs when non-nil
	store *store.Store

	log logrus.FieldLogger

	stdout io.Writer
	stderr io.Writer
}

// Option configures a Processor.
type Option func(*Processor)

// WithStore records every output in s.
func WithStore(s *store.Store) Option {
	return func(p *Processor) {
		p.store = s
	}
}

// WithLogger sets the logger passed down to the pipeline.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Processor) {
		p.log = log
	}
}

// WithOutput redirects the per-job report lines.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(p *Processor) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// NewProcessor creates a new Processor with the given configuration.
func NewProcessor(cfg *config.Config, opts ...Option) *Processor {
	processor := &Processor{
		cfg:    cfg,
		log:    logrus.StandardLogger(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(processor)
	}

	processor.pipeline = pipeline.New(pipeline.AES{},
		pipeline.WithThreads(cfg.Threads),
		pipeline.WithLogger(processor.log),
	)

	return processor
}

// Process runs all jobs concurrently, at most cfg.Parallel at a time.
// Returns the number of successfully processed jobs, the number of errors and the total output size.
//
//nolint:cyclop
func (p *Processor) Process(ctx context.Context, jobs []Job) (processed, errored int, totalSize int64, err error) {
	results := make(chan Result, len(jobs))

	group := errgroup.Group{}
	group.SetLimit(max(1, p.cfg.Parallel))

	done := make(chan struct{})

	go func() {
		defer close(done)

		for result := range results {
			if result.Error != nil {
				errored++

				fmt.Fprintf(p.stderr, "Error processing %q: %v\n", result.Input, result.Error)

				continue
			}

			processed++

			totalSize += result.OutputSize

			if !p.cfg.Quiet {
				if result.RecordID != "" {
					fmt.Fprintf(p.stdout, "Processed %q -> %q (record %s)\n", result.Input, result.Output, result.RecordID)
				} else {
					fmt.Fprintf(p.stdout, "Processed %q -> %q\n", result.Input, result.Output)
				}
			}

			if p.cfg.Delete && result.Input != result.Output {
				if err := os.Remove(result.Input); err != nil {
					fmt.Fprintf(p.stderr, "Error deleting %q: %v\n", result.Input, err)
				} else if !p.cfg.Quiet {
					fmt.Fprintf(p.stdout, "Deleted %q\n", result.Input)
				}
			}
		}
	}()

	for _, job := range jobs {
		group.Go(func() error {
			size, id, err := p.processJob(ctx, job)
			if err != nil {
				results <- Result{Input: job.Input, Error: err}

				return err
			}

			results <- Result{Input: job.Input, Output: job.Output, OutputSize: size, RecordID: id}

			return nil
		})
	}

	err = group.Wait()

	close(results)

	<-done // Wait for printer to finish

	if err != nil {
		return processed, errored, totalSize, fmt.Errorf("processing files: %w", err)
	}

	return processed, errored, totalSize, nil
}

// processJob transforms a single bitmap and writes it atomically to job.Output.
func (p *Processor) processJob(ctx context.Context, job Job) (size int64, id string, err error) {
	info, err := os.Stat(job.Input)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", bitmap.ErrIO, err)
	}

	data, err := bitmap.Read(job.Input, p.cfg.MaxSize)
	if err != nil {
		return 0, "", err //nolint:wrapcheck
	}

	header, payload, err := bitmap.Split(data, p.cfg.HeaderSize)
	if err != nil {
		return 0, "", fmt.Errorf("%q: %w", job.Input, err)
	}

	transformed, err := p.pipeline.Run(ctx, payload, pipeline.Request{
		Key:       job.Key,
		Direction: job.Direction,
		Mode:      job.Mode,
		Workers:   job.Workers,
	})
	if err != nil {
		return 0, "", fmt.Errorf("%sing pixels: %w", job.Direction, err)
	}

	output := bitmap.Join(header, transformed)

	out := fileutil.Output{Path: job.Output, Perm: info.Mode().Perm()}
	if p.cfg.PreserveTimestamps {
		out.ModTime = info.ModTime()
	}

	size, err = fileutil.Write(out, output)
	if err != nil {
		return 0, "", fmt.Errorf("writing output: %w", err)
	}

	if p.store == nil {
		return size, "", nil
	}

	name := job.Name
	if name == "" {
		name = filepath.Base(job.Output)
	}

	rec, err := p.store.Put(store.Record{
		Name:      name,
		Operation: job.Direction.String(),
		Mode:      job.Mode.String(),
		Workers:   job.Workers,
	}, output)
	if err != nil {
		return 0, "", fmt.Errorf("recording output: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"record": rec.ID,
		"size":   rec.Size,
		"stored": rec.Stored,
	}).Debug("output recorded")

	return size, rec.ID, nil
}
