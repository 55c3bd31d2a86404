// Package store archives the best sequence found for every length N in a
// BadgerDB key-value store. A record is replaced only by a strictly lower
// energy, so the archive is monotone across runs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/katalvlaran/labsearch/sequence"
)

// ErrNotFound indicates no record for the requested length.
var ErrNotFound = errors.New("store: not found")

// keyPrefix namespaces best-sequence records; N is zero-padded so that key
// order is numeric order.
const keyPrefix = "best/"

// maxConflictRetries bounds how often Put re-runs a transaction that lost a
// write race for the same N.
const maxConflictRetries = 32

// Record is one archived best sequence. Sequence holds the canonical
// (symmetry-reduced) text form. MeritFactor is derived from N and Energy on
// read and never stored, since it is +Inf for N = 1.
type Record struct {
	N           int       `json:"n"`
	Sequence    string    `json:"sequence"`
	Energy      int       `json:"energy"`
	MeritFactor float64   `json:"-"`
	RunID       string    `json:"run_id,omitempty"`
	Found       time.Time `json:"found"`
}

// Options configures Open.
type Options struct {
	// Path is the database directory; ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests.
	InMemory bool
	// Logger receives Badger's internal logs; nil silences them.
	Logger *slog.Logger
}

// Store is the archive handle. Safe for concurrent use: concurrent Puts for
// the same N are serialized by retrying on transaction conflicts.
type Store struct {
	db  *badger.DB
	now func() time.Time
}

// Open opens (creating if needed) the archive.
func Open(opts Options) (*Store, error) {
	var bo badger.Options
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("store: path is required for a persistent archive")
		}
		if err := os.MkdirAll(opts.Path, 0o750); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", opts.Path, err)
		}
		bo = badger.DefaultOptions(opts.Path).WithSyncWrites(true)
	}
	bo = bo.WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bo = bo.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		bo = bo.WithLogger(nil)
	}

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Put archives seq if it beats the stored record for its length. It
// returns the record now on file and whether seq replaced it.
//
// Errors: sequence.ErrInvalidSequence (wrapped), Badger errors.
func (s *Store) Put(seq sequence.Sequence, runID string) (Record, bool, error) {
	if err := sequence.Validate(seq, 0); err != nil {
		return Record{}, false, fmt.Errorf("store: %w", err)
	}
	energy := sequence.Energy(seq)
	rec := Record{
		N:           seq.Len(),
		Sequence:    sequence.Key(seq),
		Energy:      energy,
		MeritFactor: sequence.MeritFactorOf(seq.Len(), energy),
		RunID:       runID,
		Found:       s.now().UTC(),
	}

	var (
		kept     Record
		improved bool
		err      error
	)
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		kept, improved, err = s.put(rec)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("store: put N=%d: %w", rec.N, err)
	}

	return kept, improved, nil
}

// put runs one read-compare-write transaction for rec.
func (s *Store) put(rec Record) (Record, bool, error) {
	var (
		kept     Record
		improved bool
	)
	err := s.db.Update(func(txn *badger.Txn) error {
		cur, err := get(txn, rec.N)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return err
		case cur.Energy <= rec.Energy:
			kept = cur
			return nil
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		kept, improved = rec, true

		return txn.Set(key(rec.N), raw)
	})
	if err != nil {
		return Record{}, false, err
	}

	return kept, improved, nil
}

// Best returns the record for length n, or ErrNotFound.
func (s *Store) Best(n int) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		rec, err = get(txn, n)
		return err
	})

	return rec, err
}

// List returns every record in ascending N.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return decode(val, &rec)
			}); err != nil {
				return fmt.Errorf("store: decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}

		return nil
	})

	return out, err
}

func key(n int) []byte { return []byte(fmt.Sprintf("%s%08d", keyPrefix, n)) }

func get(txn *badger.Txn, n int) (Record, error) {
	item, err := txn.Get(key(n))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: N=%d", ErrNotFound, n)
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	err = item.Value(func(val []byte) error { return decode(val, &rec) })

	return rec, err
}

func decode(val []byte, rec *Record) error {
	if err := json.Unmarshal(val, rec); err != nil {
		return err
	}
	rec.MeritFactor = sequence.MeritFactorOf(rec.N, rec.Energy)

	return nil
}

// badgerLogger routes Badger's printf-style logs into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
