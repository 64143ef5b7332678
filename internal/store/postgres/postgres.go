package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"bankai/backend/internal/store"
)

// Versions come from one sequence shared by all keys, so a token issued
// before a delete never matches a re-created row.
const schema = `
	CREATE SEQUENCE IF NOT EXISTS ledger_document_versions;
	CREATE TABLE IF NOT EXISTS ledger_documents (
		key        TEXT PRIMARY KEY,
		body       BYTEA NOT NULL,
		version    BIGINT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// Store keeps each blob as one row. body is BYTEA rather than JSONB so the
// bytes read back are exactly the bytes written.
type Store struct {
	db *sql.DB
}

var _ store.BlobStore = (*Store)(nil)

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	var body []byte
	var version int64
	err := s.db.QueryRowContext(ctx, `
		SELECT body, version
		FROM ledger_documents
		WHERE key = $1
	`, key).Scan(&body, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", nil
		}
		return nil, "", err
	}
	return body, formatVersion(version), nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte, expected string) (string, error) {
	if expected == "" {
		var version int64
		err := s.db.QueryRowContext(ctx, `
			INSERT INTO ledger_documents (key, body, version, updated_at)
			VALUES ($1, $2, nextval('ledger_document_versions'), now())
			RETURNING version
		`, key, data).Scan(&version)
		if err != nil {
			if isUniqueViolation(err) {
				return "", &store.ConflictError{Key: key}
			}
			return "", err
		}
		return formatVersion(version), nil
	}

	current, err := strconv.ParseInt(expected, 10, 64)
	if err != nil {
		return "", &store.ConflictError{Key: key}
	}

	var version int64
	err = s.db.QueryRowContext(ctx, `
		UPDATE ledger_documents
		SET body = $2, version = nextval('ledger_document_versions'), updated_at = now()
		WHERE key = $1 AND version = $3
		RETURNING version
	`, key, data, current).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &store.ConflictError{Key: key}
		}
		return "", err
	}
	return formatVersion(version), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ledger_documents WHERE key = $1`, key)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func formatVersion(v int64) string {
	return strconv.FormatInt(v, 10)
}
