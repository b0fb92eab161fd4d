// Package ledger holds the in-memory record collection, its write-through
// persistence and the two entry forms that feed it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"saldo/internal/core"
	"saldo/internal/kv"
	"saldo/internal/log"
)

// DefaultKey is the storage key the collection is saved under.
const DefaultKey = "saldo_records"

var (
	ErrDuplicateID   = errors.New("duplicate record id")
	ErrPersistFailed = errors.New("persist records")
)

// Store is the single source of truth for records. Every mutation writes
// the whole collection back to the kv store before returning.
type Store struct {
	mu      sync.RWMutex
	kv      kv.Store
	key     string
	clock   Clock
	ids     *IDGenerator
	logger  *log.Logger
	records []core.Record
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty store. Call Load to pick up persisted records.
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:      store,
		key:     DefaultKey,
		clock:   SystemClock{},
		records: []core.Record{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)
	s.ids = NewIDGenerator(s.clock)
	return s
}

// Load replaces the in-memory collection with the persisted one. It never
// fails: a missing, unreadable or malformed payload yields an empty
// collection and a warning.
func (s *Store) Load(ctx context.Context) {
	records := s.read(ctx)

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	for _, r := range records {
		s.ids.Observe(r.ID)
	}
	s.logger.InfoContext(ctx, "Records loaded",
		log.FieldStorageKey, s.key,
		log.FieldCount, len(records))
}

func (s *Store) read(ctx context.Context) []core.Record {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []core.Record{}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to read records, starting empty",
			log.FieldStorageKey, s.key, log.FieldError, err)
		return []core.Record{}
	}

	decoded, rejected, err := decodeRecords(data)
	if err != nil {
		s.logger.WarnContext(ctx, "Stored records unreadable, starting empty",
			log.FieldStorageKey, s.key, log.FieldError, err)
		return []core.Record{}
	}
	for _, rej := range rejected {
		s.logger.WarnContext(ctx, "Dropping invalid stored record", log.FieldError, rej)
	}

	seen := make(map[string]struct{}, len(decoded))
	out := make([]core.Record, 0, len(decoded))
	for _, r := range decoded {
		if _, dup := seen[r.ID]; dup {
			s.logger.WarnContext(ctx, "Dropping duplicate stored record", log.FieldRecordID, r.ID)
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Append adds a validated record to the end of the collection and persists.
// On a persistence failure the record stays in memory and an error wrapping
// ErrPersistFailed is returned.
func (s *Store) Append(ctx context.Context, r core.Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if r.Kind == core.KindIncome {
		r.Category = ""
	}

	// The lock is held through the write so payloads land in mutation order.
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.records {
		if existing.ID == r.ID {
			return fmt.Errorf("append record %s: %w", r.ID, ErrDuplicateID)
		}
	}
	s.records = append(s.records, r)

	s.ids.Observe(r.ID)
	s.logger.InfoContext(ctx, "Record appended",
		log.FieldOperation, log.OpAppend,
		log.FieldRecordID, r.ID,
		log.FieldRecordKind, string(r.Kind))
	s.logger.DebugContext(ctx, "Record appended",
		log.NewFields().
			WithOperation(log.OpAppend).
			WithRecord(r.ID, string(r.Kind), r.Description, r.Amount.StringFixed(2), string(r.Category)).
			ToSlice()...)

	return s.writeLocked(ctx)
}

// Remove deletes the record with id. An unknown id leaves the collection
// unchanged and reports false. The collection is persisted either way.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := false
	kept := s.records[:0:0]
	for _, r := range s.records {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if removed {
		s.records = kept
	}

	s.logger.InfoContext(ctx, "Record removal",
		log.FieldOperation, log.OpRemove,
		log.FieldRecordID, id,
		"found", removed)

	return removed, s.writeLocked(ctx)
}

// Persist writes the current collection to the kv store.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx)
}

func (s *Store) writeLocked(ctx context.Context) error {
	data, err := encodeRecords(s.records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist records",
			log.FieldOperation, log.OpPersist,
			log.FieldStorageKey, s.key,
			log.FieldError, err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	s.logger.DebugContext(ctx, "Records persisted",
		log.FieldStorageKey, s.key, log.FieldCount, len(s.records))
	return nil
}

// Records returns a copy of the collection in insertion order.
func (s *Store) Records() []core.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() []core.Record {
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Get(id string) (core.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return core.Record{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Summary recomputes every aggregate from the current collection.
func (s *Store) Summary() core.Summary {
	return core.Summarize(s.Records())
}

// NextID returns a fresh record id.
func (s *Store) NextID() string {
	return s.ids.Next()
}

// Today is the current date according to the store's clock.
func (s *Store) Today() core.Date {
	return core.DateOf(s.clock.Now())
}

// Key is the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Ping reports whether the underlying kv store is reachable. Stores that
// cannot tell are assumed healthy.
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.kv.(kv.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
