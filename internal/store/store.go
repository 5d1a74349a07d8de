// Package store keeps processed images and their metadata in a badger database.
// Image bytes are zstd-compressed; records are addressed by a monotonically increasing id.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when no record matches the request.
var ErrNotFound = errors.New("record not found")

const (
	metaPrefix = "meta/"
	blobPrefix = "blob/"
	seqKey     = "seq/records"

	seqBandwidth = 64
)

// Record describes one processed image.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Operation string    `json:"operation"`
	Mode      string    `json:"mode"`
	Workers   int       `json:"workers"`
	Size      int64     `json:"size"`
	Stored    int64     `json:"stored"`
	Created   time.Time `json:"created"`
}

// Store is a badger-backed result store. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence

	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open opens or creates the store in dir. An empty dir keeps everything in memory.
// A nil log silences badger.
func Open(dir string, log logrus.FieldLogger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithInMemory(dir == "").WithLogger(nil)
	if log != nil {
		opts = opts.WithLogger(log)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening store %q: %w", dir, err)
	}

	seq, err := db.GetSequence([]byte(seqKey), seqBandwidth)
	if err != nil {
		db.Close() //nolint:errcheck,gosec // already failing

		return nil, fmt.Errorf("acquiring id sequence: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating compressor: %w", err), seq.Release(), db.Close())
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("creating decompressor: %w", err), encoder.Close(), seq.Release(), db.Close())
	}

	return &Store{db: db, seq: seq, encoder: encoder, decoder: decoder}, nil
}

// Close releases the id sequence and closes the database.
func (s *Store) Close() error {
	s.decoder.Close()

	errs := []error{s.encoder.Close(), s.seq.Release(), s.db.Close()}

	return errors.Join(errs...)
}

// Put stores data under a new id. Name, Operation, Mode and Workers are taken from rec;
// ID, Size, Stored and Created are filled in and returned.
func (s *Store) Put(rec Record, data []byte) (Record, error) {
	next, err := s.seq.Next()
	if err != nil {
		return Record{}, fmt.Errorf("allocating id: %w", err)
	}

	compressed := s.encoder.EncodeAll(data, nil)

	rec.ID = fmt.Sprintf("%016x", next+1)
	rec.Size = int64(len(data))
	rec.Stored = int64(len(compressed))
	rec.Created = time.Now().UTC()

	meta, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("encoding record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(blobPrefix+rec.ID), compressed); err != nil {
			return err //nolint:wrapcheck
		}

		return txn.Set([]byte(metaPrefix+rec.ID), meta) //nolint:wrapcheck
	})
	if err != nil {
		return Record{}, fmt.Errorf("writing record %s: %w", rec.ID, err)
	}

	return rec, nil
}

// Get returns the record and the decompressed image stored under id.
func (s *Store) Get(id string) (Record, []byte, error) {
	var (
		rec        Record
		compressed []byte
	)

	err := s.db.View(func(txn *badger.Txn) error {
		var err error

		if rec, err = readRecord(txn, []byte(metaPrefix+id)); err != nil {
			return err
		}

		item, err := txn.Get([]byte(blobPrefix + id))
		if err != nil {
			return err //nolint:wrapcheck
		}

		compressed, err = item.ValueCopy(nil)

		return err //nolint:wrapcheck
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return Record{}, nil, fmt.Errorf("reading record %s: %w", id, err)
	}

	data, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return Record{}, nil, fmt.Errorf("decompressing record %s: %w", id, err)
	}

	return rec, data, nil
}

// Last returns the most recently stored record.
func (s *Store) Last() (Record, error) {
	var (
		rec   Record
		found bool
	)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(metaPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration starts at the largest key not above the seek key.
		it.Seek(append([]byte(metaPrefix), 0xFF))

		if !it.ValidForPrefix([]byte(metaPrefix)) {
			return nil
		}

		var err error

		rec, err = decodeItem(it.Item())
		found = err == nil

		return err
	})
	if err != nil {
		return Record{}, fmt.Errorf("reading last record: %w", err)
	}

	if !found {
		return Record{}, fmt.Errorf("%w: store is empty", ErrNotFound)
	}

	return rec, nil
}

// List returns all records, oldest first.
func (s *Store) List() ([]Record, error) {
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(metaPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			rec, err := decodeItem(it.Item())
			if err != nil {
				return err
			}

			records = append(records, rec)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	return records, nil
}

func readRecord(txn *badger.Txn, key []byte) (Record, error) {
	item, err := txn.Get(key)
	if err != nil {
		return Record{}, err //nolint:wrapcheck
	}

	return decodeItem(item)
}

func decodeItem(item *badger.Item) (Record, error) {
	var rec Record

	err := item.Value(func(val []byte) error {
		return json.NewDecoder(bytes.NewReader(val)).Decode(&rec)
	})
	if err != nil {
		return Record{}, fmt.Errorf("decoding record %s: %w", item.Key(), err)
	}

	return rec, nil
}
