package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Fixed keys of the three independently persisted records.
const (
	StateKey       = "bankai_erp_v1"
	UsersKey       = "bankai_users_v1"
	PreferencesKey = "bankai_prefs_v1"
)

// BlobStore persists one opaque blob per key. Every blob carries a version
// token; Get returns "" for an absent key. Put succeeds only when expected
// matches the current version ("" meaning the key must not exist yet) and
// returns the new version. A mismatch is reported as *ConflictError.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, string, error)
	Put(ctx context.Context, key string, data []byte, expected string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ConflictError reports that a blob changed between load and save.
type ConflictError struct {
	Key string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s was modified by another writer; reload and retry", e.Key)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// DecodeError describes a persisted blob that could not be parsed. It is
// recovered by the document loader and never returned to callers.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
