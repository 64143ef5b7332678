package store

import (
	"context"
	"encoding/json"
	"log"

	"bankai/backend/internal/domain"
)

// Documents loads and saves the persisted records on top of a BlobStore.
// Loading never fails on absent or malformed content: missing or unreadable
// parts fall back to their defaults. Only backend I/O errors are returned.
type Documents struct {
	blobs BlobStore
}

func NewDocuments(blobs BlobStore) *Documents {
	return &Documents{blobs: blobs}
}

func (d *Documents) Load(ctx context.Context) (domain.Document, string, error) {
	raw, version, err := d.blobs.Get(ctx, StateKey)
	if err != nil {
		return domain.Document{}, "", err
	}
	return decodeDocument(raw), version, nil
}

func (d *Documents) Save(ctx context.Context, doc domain.Document, expected string) (string, error) {
	doc.Normalize()
	payload, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return d.blobs.Put(ctx, StateKey, payload, expected)
}

func (d *Documents) LoadUsers(ctx context.Context) ([]domain.User, string, error) {
	raw, version, err := d.blobs.Get(ctx, UsersKey)
	if err != nil {
		return nil, "", err
	}
	users := []domain.User{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &users); err != nil {
			logDecode(&DecodeError{Key: UsersKey, Err: err})
			users = []domain.User{}
		}
		if users == nil {
			users = []domain.User{}
		}
	}
	return users, version, nil
}

func (d *Documents) SaveUsers(ctx context.Context, users []domain.User, expected string) (string, error) {
	if users == nil {
		users = []domain.User{}
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return "", err
	}
	return d.blobs.Put(ctx, UsersKey, payload, expected)
}

func (d *Documents) LoadPreferences(ctx context.Context) (domain.Preferences, string, error) {
	raw, version, err := d.blobs.Get(ctx, PreferencesKey)
	if err != nil {
		return domain.Preferences{}, "", err
	}
	var prefs domain.Preferences
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &prefs); err != nil {
			logDecode(&DecodeError{Key: PreferencesKey, Err: err})
			prefs = domain.Preferences{}
		}
	}
	return prefs, version, nil
}

func (d *Documents) SavePreferences(ctx context.Context, prefs domain.Preferences, expected string) (string, error) {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return "", err
	}
	return d.blobs.Put(ctx, PreferencesKey, payload, expected)
}

// Reset removes the business-state and preferences records. Users are kept.
func (d *Documents) Reset(ctx context.Context) error {
	if err := d.blobs.Delete(ctx, StateKey); err != nil {
		return err
	}
	return d.blobs.Delete(ctx, PreferencesKey)
}

func decodeDocument(raw []byte) domain.Document {
	doc := domain.NewDocument()
	if len(raw) == 0 {
		return doc
	}

	var parts map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		logDecode(&DecodeError{Key: StateKey, Err: err})
		return doc
	}

	decodePart(parts, "cashflows", &doc.Cashflows)
	decodePart(parts, "products", &doc.Products)
	decodePart(parts, "customers", &doc.Customers)
	decodePart(parts, "sales", &doc.Sales)
	doc.Normalize()
	return doc
}

// decodePart fills dest from parts[name]. One unreadable element makes the
// whole part unreadable; it keeps its default so the rest of the document
// survives.
func decodePart[T any](parts map[string]json.RawMessage, name string, dest *[]T) {
	raw, ok := parts[name]
	if !ok {
		return
	}
	var decoded []T
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logDecode(&DecodeError{Key: StateKey + "." + name, Err: err})
		return
	}
	*dest = decoded
}

// logDecode reports a recovered decode failure. The defaulted part replaces
// the stored content on the next save of that record.
func logDecode(err *DecodeError) {
	log.Printf("[store] WARN: %v; using defaults, stored content will be overwritten on next save", err)
}
