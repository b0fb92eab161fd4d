package memory

import (
	"context"
	"errors"
	"testing"

	"saldo/internal/kv"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	in := []byte(`[1,2]`)
	if err := s.Set(ctx, "k", in); err != nil {
		t.Fatalf("set: %v", err)
	}
	in[0] = 'x' // caller mutation must not leak into the store

	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != `[1,2]` {
		t.Fatalf("unexpected get: %q err=%v", got, err)
	}
	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != `[1,2]` {
		t.Fatalf("returned slice aliases store: %q", again)
	}
}

func TestNewWithValuesAndClose(t *testing.T) {
	s := NewWithValues(map[string][]byte{"a": []byte("1")})
	v, err := s.Get(context.Background(), "a")
	if err != nil || string(v) != "1" {
		t.Fatalf("unexpected seed: %q err=%v", v, err)
	}
	if s.Closed() {
		t.Fatal("new store reports closed")
	}
	if err := s.Close(); err != nil || !s.Closed() {
		t.Fatalf("close: err=%v closed=%v", err, s.Closed())
	}
}
