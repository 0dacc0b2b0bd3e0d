package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hub-go/internal/blob/migrations"
	"hub-go/internal/hub"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the BlobStore interface on a SQLite database.
// The revision check rides on a conditional UPDATE, so concurrent writers
// from any process are serialized by the database itself.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite blob database at path and
// runs schema migrations. path can be ":memory:" for an in-memory store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating blob database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get retrieves the document at key along with its current revision.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var data []byte
	var revision int64
	err := s.db.QueryRowContext(ctx,
		"SELECT data, revision FROM blobs WHERE key = ?", key,
	).Scan(&data, &revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, hub.ErrNotFound
		}
		return nil, 0, fmt.Errorf("querying blob: %w", err)
	}
	return data, revision, nil
}

// Put stores data at key when expectedRevision matches the stored revision.
func (s *SQLiteStore) Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	if expectedRevision == 0 {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO blobs (key, data, revision, updated_at) VALUES (?, ?, 1, ?)",
			key, data, now,
		)
		if err != nil {
			// A unique constraint failure means the key was created
			// underneath us.
			return 0, hub.ErrRevisionMismatch
		}
		return 1, nil
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE blobs SET data = ?, revision = revision + 1, updated_at = ? WHERE key = ? AND revision = ?",
		data, now, key, expectedRevision,
	)
	if err != nil {
		return 0, fmt.Errorf("updating blob: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return 0, hub.ErrRevisionMismatch
	}
	return expectedRevision + 1, nil
}

// Ping verifies the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements hub.BlobStore
var _ hub.BlobStore = (*SQLiteStore)(nil)
