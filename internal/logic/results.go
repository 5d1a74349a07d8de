package logic

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/pixcrypt/pixcrypt/internal/config"
	"github.com/pixcrypt/pixcrypt/internal/fileutil"
	"github.com/pixcrypt/pixcrypt/internal/store"
)

// ErrNoStore is returned by the result commands when --store is not set.
var ErrNoStore = errors.New("--store is required")

// ListResults prints every stored record, oldest first.
func ListResults(cfg *config.Config, w io.Writer) error {
	return withStore(cfg, func(s *store.Store) error {
		records, err := s.List()
		if err != nil {
			return err //nolint:wrapcheck
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tOPERATION\tMODE\tWORKERS\tSIZE\tCREATED")

		for _, rec := range records {
			printRecord(tw, rec)
		}

		return tw.Flush() //nolint:wrapcheck
	})
}

// LastResult prints the most recently stored record.
func LastResult(cfg *config.Config, w io.Writer) error {
	return withStore(cfg, func(s *store.Store) error {
		rec, err := s.Last()
		if err != nil {
			return err //nolint:wrapcheck
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		printRecord(tw, rec)

		return tw.Flush() //nolint:wrapcheck
	})
}

// ExportResult writes the image stored under id to path.
func ExportResult(cfg *config.Config, id, path string) error {
	return withStore(cfg, func(s *store.Store) error {
		_, data, err := s.Get(id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		const ownerReadWrite = 0o600

		if _, err := fileutil.Write(fileutil.Output{Path: path, Perm: ownerReadWrite}, data); err != nil {
			return fmt.Errorf("exporting %s: %w", id, err)
		}

		return nil
	})
}

func withStore(cfg *config.Config, fn func(*store.Store) error) error {
	if cfg.Store == "" {
		return ErrNoStore
	}

	s, err := store.Open(cfg.Store, nil)
	if err != nil {
		return fmt.Errorf("opening result store: %w", err)
	}

	fnErr := fn(s)

	return errors.Join(fnErr, s.Close())
}

func printRecord(w io.Writer, rec store.Record) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
		rec.ID, rec.Name, rec.Operation, rec.Mode, rec.Workers,
		humanize.IBytes(uint64(max(0, rec.Size))), //nolint:gosec // clamped above
		humanize.Time(rec.Created))
}
