package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/docfusion/docfusion/pkg/types"
)

// Store owns the SQLite database and hands out the dense and sparse
// index adapters that share it.
type Store struct {
	db *sql.DB
}

// CollectionStats summarizes one collection's footprint in both indices.
type CollectionStats struct {
	Name          string
	VectorChunks  int
	LexicalChunks int
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Open opens (or creates) the database at dbPath and applies migrations.
func Open(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Vector returns the dense index adapter backed by this store.
func (s *Store) Vector() *VectorStore {
	return &VectorStore{store: s}
}

// Lexical returns the sparse index adapter backed by this store.
func (s *Store) Lexical() *LexicalStore {
	return &LexicalStore{store: s}
}

// createCollection registers a collection name, idempotently.
func (s *Store) createCollection(ctx context.Context, name string) error {
	if err := types.ValidateCollectionName(name); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO collections (name) VALUES (?) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}
	return nil
}

// collectionExists reports whether a collection is registered.
func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, "SELECT id FROM collections WHERE name = ?", name).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// requireCollection maps a missing collection to ErrCollectionNotFound.
func (s *Store) requireCollection(ctx context.Context, name string) error {
	ok, err := s.collectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrCollectionNotFound, name)
	}
	return nil
}

// ListCollections returns all registered collection names in sorted order.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM collections ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Stats returns chunk counts for one collection.
func (s *Store) Stats(ctx context.Context, name string) (*CollectionStats, error) {
	if err := s.requireCollection(ctx, name); err != nil {
		return nil, err
	}

	stats := &CollectionStats{Name: name}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vector_chunks WHERE collection = ?", name).Scan(&stats.VectorChunks)
	if err != nil {
		return nil, err
	}
	err = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM lexical_chunks WHERE collection = ?", name).Scan(&stats.LexicalChunks)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteCollection removes a collection from both indices in a single
// transaction, so a partial delete can never be observed.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if err := s.requireCollection(ctx, name); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM vector_chunks WHERE collection = ?", name); err != nil {
		return fmt.Errorf("failed to delete vector chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM lexical_chunks WHERE collection = ?", name); err != nil {
		return fmt.Errorf("failed to delete lexical chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	return tx.Commit()
}

// marshalMetadata encodes metadata as a JSON object, never null.
func marshalMetadata(m types.Metadata) (string, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(data), nil
}

// unmarshalMetadata decodes a metadata JSON column.
func unmarshalMetadata(data string) (types.Metadata, error) {
	if data == "" {
		return types.Metadata{}, nil
	}
	var m types.Metadata
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return m, nil
}
