package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
	"saldo/internal/kv"
	"saldo/internal/kv/memory"
)

var errDiskFull = errors.New("disk full")

// flakyKV wraps a memory store and fails Set while failSet is true.
type flakyKV struct {
	*memory.Store
	mu      sync.Mutex
	failSet bool
	failGet bool
	sets    int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{Store: memory.New()}
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, errDiskFull
	}
	return f.Store.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.sets++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return f.Store.Set(ctx, key, value)
}

func (f *flakyKV) Sets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

var _ kv.Store = (*flakyKV)(nil)

// fixedClock returns the same instant forever.
func fixedClock() Clock {
	t := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	return ClockFunc(func() time.Time { return t })
}

func newTestStore(store kv.Store) *Store {
	return New(store, WithClock(fixedClock()))
}

func rec(id string, kind core.Kind, desc, amount string, cat core.Category, date core.Date) core.Record {
	return core.Record{
		ID:          id,
		Kind:        kind,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    cat,
		Date:        date,
	}
}
