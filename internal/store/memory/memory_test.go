package memory

import (
	"context"
	"errors"
	"testing"

	"bankai/backend/internal/store"
)

func TestPutRequiresCurrentVersion(t *testing.T) {
	s := New()
	ctx := context.Background()

	data, version, err := s.Get(ctx, "k")
	if err != nil || data != nil || version != "" {
		t.Fatalf("expected absent key, got %q %q %v", data, version, err)
	}

	v1, err := s.Put(ctx, "k", []byte("one"), "")
	if err != nil {
		t.Fatalf("first put: %v", err)
	}

	if _, err := s.Put(ctx, "k", []byte("stale"), ""); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict for create over existing key, got %v", err)
	}

	v2, err := s.Put(ctx, "k", []byte("two"), v1)
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	if v2 == v1 {
		t.Fatalf("expected version to change")
	}

	if _, err := s.Put(ctx, "k", []byte("late"), v1); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict for stale version, got %v", err)
	}

	data, version, _ = s.Get(ctx, "k")
	if string(data) != "two" || version != v2 {
		t.Fatalf("unexpected state %q %q", data, version)
	}
}

func TestDeleteInvalidatesOldVersion(t *testing.T) {
	s := New()
	ctx := context.Background()

	v1, _ := s.Put(ctx, "k", []byte("one"), "")
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Put(ctx, "k", []byte("again"), v1); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("expected conflict after delete, got %v", err)
	}
	if _, err := s.Put(ctx, "k", []byte("again"), ""); err != nil {
		t.Fatalf("recreate: %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Put(ctx, "k", []byte("abc"), "")

	data, _, _ := s.Get(ctx, "k")
	data[0] = 'z'

	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored blob was mutated through returned slice")
	}
}
