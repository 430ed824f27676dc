package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidSet is returned when vectors disagree with their set
	ErrInvalidSet = errors.New("invalid embedding set")
)

// SQLiteStorage implements Storage on SQLite
type SQLiteStorage struct {
	db *sql.DB
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

// NewSQLiteStorage opens (or creates) the embedding cache at dbPath
func NewSQLiteStorage(ctx context.Context, dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// SaveEmbeddingSet replaces the set for set.Provider and set.Model in one
// transaction. set.ID and set.CreatedAt are filled in.
func (s *SQLiteStorage) SaveEmbeddingSet(ctx context.Context, set *EmbeddingSet, vectors []ItemVector) error {
	if set.Provider == "" || set.Model == "" {
		return fmt.Errorf("%w: provider and model are required", ErrInvalidSet)
	}
	if len(vectors) != set.ItemCount {
		return fmt.Errorf("%w: %d vectors for %d items", ErrInvalidSet, len(vectors), set.ItemCount)
	}
	for _, v := range vectors {
		if len(v.Vector) != set.Dimension {
			return fmt.Errorf("%w: %q has dimension %d, want %d", ErrInvalidSet, v.ItemName, len(v.Vector), set.Dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := saveSetWithQuerier(ctx, tx, set, vectors); err != nil {
		return err
	}
	return tx.Commit()
}

func saveSetWithQuerier(ctx context.Context, q querier, set *EmbeddingSet, vectors []ItemVector) error {
	if _, err := q.ExecContext(ctx,
		"DELETE FROM embedding_sets WHERE provider = ? AND model = ?", set.Provider, set.Model); err != nil {
		return fmt.Errorf("failed to replace embedding set: %w", err)
	}

	now := time.Now().UTC()
	result, err := q.ExecContext(ctx, `
		INSERT INTO embedding_sets (name_set_hash, item_count, provider, model, dimension, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, set.NameSetHash, set.ItemCount, set.Provider, set.Model, set.Dimension, now)
	if err != nil {
		return fmt.Errorf("failed to insert embedding set: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, v := range vectors {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO item_embeddings (set_id, position, item_name, vector)
			VALUES (?, ?, ?, ?)
		`, id, v.Position, v.ItemName, serializeVector(v.Vector)); err != nil {
			return fmt.Errorf("failed to insert embedding for %q: %w", v.ItemName, err)
		}
	}

	set.ID = id
	set.CreatedAt = now
	return nil
}

// LoadEmbeddingSet returns the stored set for provider and model
func (s *SQLiteStorage) LoadEmbeddingSet(ctx context.Context, provider, model string) (*EmbeddingSet, []ItemVector, error) {
	set := &EmbeddingSet{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name_set_hash, item_count, provider, model, dimension, created_at
		FROM embedding_sets WHERE provider = ? AND model = ?
	`, provider, model).Scan(&set.ID, &set.NameSetHash, &set.ItemCount, &set.Provider, &set.Model, &set.Dimension, &set.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load embedding set: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT position, item_name, vector FROM item_embeddings
		WHERE set_id = ? ORDER BY position
	`, set.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load embeddings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	vectors := make([]ItemVector, 0, set.ItemCount)
	for rows.Next() {
		var v ItemVector
		var blob []byte
		if err := rows.Scan(&v.Position, &v.ItemName, &blob); err != nil {
			return nil, nil, err
		}
		v.Vector = deserializeVector(blob)
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(vectors) != set.ItemCount {
		return nil, nil, fmt.Errorf("%w: set %d has %d of %d vectors", ErrInvalidSet, set.ID, len(vectors), set.ItemCount)
	}
	return set, vectors, nil
}

// ListEmbeddingSets returns every stored set, newest first
func (s *SQLiteStorage) ListEmbeddingSets(ctx context.Context) ([]*EmbeddingSet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name_set_hash, item_count, provider, model, dimension, created_at
		FROM embedding_sets ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list embedding sets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sets []*EmbeddingSet
	for rows.Next() {
		set := &EmbeddingSet{}
		if err := rows.Scan(&set.ID, &set.NameSetHash, &set.ItemCount, &set.Provider, &set.Model, &set.Dimension, &set.CreatedAt); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, rows.Err()
}

// DeleteEmbeddingSet removes a set; its vectors cascade
func (s *SQLiteStorage) DeleteEmbeddingSet(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM embedding_sets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete embedding set: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetStatus reports cache statistics
func (s *SQLiteStorage) GetStatus(ctx context.Context) (*CacheStatus, error) {
	status := &CacheStatus{BuildMode: BuildMode, DriverName: DriverName}

	v, err := currentVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = v.String()

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embedding_sets").Scan(&status.Sets); err != nil {
		return nil, fmt.Errorf("failed to count sets: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM item_embeddings").Scan(&status.Vectors); err != nil {
		return nil, fmt.Errorf("failed to count vectors: %w", err)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err != nil {
		return nil, err
	}
	status.SizeBytes = pageCount * pageSize
	return status, nil
}
