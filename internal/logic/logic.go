// Package logic implements the core business logic behind the commands.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/pixcrypt/pixcrypt/internal/bitmap"
	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/discover"
	"github.com/pixcrypt/pixcrypt/internal/manifest"
	"github.com/pixcrypt/pixcrypt/internal/pipeline"
	"github.com/pixcrypt/pixcrypt/internal/processor"
	"github.com/pixcrypt/pixcrypt/internal/store"
)

// ErrOutputAmbiguous is returned when --output is combined with more than one input.
var ErrOutputAmbiguous = errors.New("--output requires a single input file")

// Run encrypts or decrypts cfg.Files.
func Run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireKey(); err != nil {
		return err //nolint:wrapcheck
	}

	jobs, err := filesToJobs(cfg)
	if err != nil {
		return err
	}

	return execute(ctx, cfg, jobs)
}

// RunBatch processes every entry of the manifest at cfg.Manifest. Entries without
// a key or worker count use the command-line values.
func RunBatch(ctx context.Context, cfg *config.Config) error {
	entries, err := manifest.Load(cfg.Manifest)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	jobs, err := entriesToJobs(cfg, entries)
	if err != nil {
		return err
	}

	return execute(ctx, cfg, jobs)
}

// execute runs jobs through a processor, or only prints them in dry mode.
func execute(ctx context.Context, cfg *config.Config, jobs []processor.Job) (err error) {
	start := time.Now()

	if cfg.Dry {
		return dryRun(cfg, jobs, os.Stdout)
	}

	log := NewLogger(cfg.Verbose, os.Stderr)

	opts := []processor.Option{processor.WithLogger(log)}

	if cfg.Store != "" {
		var storeLog logrus.FieldLogger
		if cfg.Verbose {
			storeLog = log
		}

		s, openErr := store.Open(cfg.Store, storeLog)
		if openErr != nil {
			return fmt.Errorf("opening result store: %w", openErr)
		}

		defer closeInto(&err, s, "result store")

		opts = append(opts, processor.WithStore(s))
	}

	proc := processor.NewProcessor(cfg, opts...)

	processed, errored, totalSize, err := proc.Process(ctx, jobs)

	if cfg.Stats {
		printStats(os.Stderr, len(jobs), processed, errored, totalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// closeInto closes c and joins a failure into *err, so deferred closes are not lost.
func closeInto(err *error, c io.Closer, what string) {
	if cerr := c.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("closing %s: %w", what, cerr))
	}
}

func filesToJobs(cfg *config.Config) ([]processor.Job, error) {
	raw, err := cfg.KeyBytes()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	mode, err := cfg.PipelineMode()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	selector := discover.Selector{
		Extensions: []string{".bmp", ".dib"},
		Excludes:   cfg.Exclude,
		Suffix:     cfg.EncryptSuffix,
		Encrypted:  cfg.Decrypt,
	}

	files, err := selector.Resolve(cfg.Files)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if cfg.Output != "" && len(files) > 1 {
		return nil, fmt.Errorf("%w: %d files matched", ErrOutputAmbiguous, len(files))
	}

	key := pipeline.NormalizeKey(raw)
	jobs := make([]processor.Job, 0, len(files))

	for _, file := range files {
		jobs = append(jobs, processor.Job{
			Input:     file,
			Output:    outputPath(file, cfg),
			Key:       key,
			Direction: cfg.Direction(),
			Mode:      mode,
			Workers:   cfg.Workers,
		})
	}

	return jobs, nil
}

func entriesToJobs(cfg *config.Config, entries []manifest.Entry) ([]processor.Job, error) {
	fallback, err := cfg.KeyBytes()
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	jobs := make([]processor.Job, 0, len(entries))

	for _, entry := range entries {
		raw := []byte(entry.Key)
		if entry.Key == "" {
			if len(fallback) == 0 {
				return nil, fmt.Errorf("entry %q: %w", entry.Name, config.ErrMissingKey)
			}

			raw = fallback
		}

		dir, err := pipeline.ParseDirection(entry.Operation)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.Name, err)
		}

		mode, err := pipeline.ParseMode(entry.Mode)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", entry.Name, err)
		}

		workers := entry.Workers
		if workers == 0 {
			workers = cfg.Workers
		}

		jobs = append(jobs, processor.Job{
			Name:      entry.Name,
			Input:     entry.Source,
			Output:    entry.Destination,
			Key:       pipeline.NormalizeKey(raw),
			Direction: dir,
			Mode:      mode,
			Workers:   workers,
		})
	}

	return jobs, nil
}

// outputPath inserts the encrypt suffix before the file extension, so "a.bmp" becomes "a.enc.bmp".
// Decryption strips it again and inserts the decrypt suffix instead.
func outputPath(filename string, cfg *config.Config) string {
	if cfg.Output != "" {
		return cfg.Output
	}

	dir, base := filepath.Split(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if cfg.Decrypt {
		stem = strings.TrimSuffix(stem, cfg.EncryptSuffix) + cfg.DecryptSuffix
	} else {
		stem += cfg.EncryptSuffix
	}

	return filepath.Join(dir, stem+ext)
}

// dryRun prints the partition plan of every job without transforming anything.
func dryRun(cfg *config.Config, jobs []processor.Job, w io.Writer) error {
	for _, job := range jobs {
		info, err := os.Stat(job.Input)
		if err != nil {
			return fmt.Errorf("stat %q: %w", job.Input, err)
		}

		if info.Size() < int64(cfg.HeaderSize) {
			return fmt.Errorf("%q: %w: got %d bytes, need at least %d",
				job.Input, bitmap.ErrSourceTooSmall, info.Size(), cfg.HeaderSize)
		}

		plan, err := pipeline.NewPlan(int(info.Size())-cfg.HeaderSize, job.Workers)
		if err != nil {
			return fmt.Errorf("planning %q: %w", job.Input, err)
		}

		if cfg.Quiet {
			continue
		}

		fmt.Fprintf(w, "Would %s %q -> %q (%s, %d workers, %s payload, %d tail bytes)\n",
			job.Direction, job.Input, job.Output, job.Mode, plan.Workers(),
			humanize.IBytes(uint64(plan.Size)), plan.Tail()) //nolint:gosec // sizes are non-negative

		for i, part := range plan.Partitions {
			fmt.Fprintf(w, "  worker %d: offset %d, %d bytes\n", i, part.Offset, part.Length)
		}
	}

	return nil
}

// NewLogger returns a text logger on w, at debug level when verbose.
func NewLogger(verbose bool, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose, FullTimestamp: verbose})
	log.SetLevel(logrus.InfoLevel)

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func printStats(w io.Writer, jobs, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Jobs:      %d\n", jobs)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
