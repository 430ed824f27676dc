package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	storage, err := NewSQLiteStorage(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NotNil(t, storage)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func testSet(provider, model, hash string, names ...string) (*EmbeddingSet, []ItemVector) {
	set := &EmbeddingSet{
		NameSetHash: hash,
		ItemCount:   len(names),
		Provider:    provider,
		Model:       model,
		Dimension:   3,
	}
	vectors := make([]ItemVector, len(names))
	for i, name := range names {
		vectors[i] = ItemVector{
			Position: i,
			ItemName: name,
			Vector:   []float32{float32(i), 0.5, -float32(i)},
		}
	}
	return set, vectors
}

func TestNewSQLiteStorage(t *testing.T) {
	storage := setupTestDB(t)
	assert.NotNil(t, storage.db)
}

func TestSaveAndLoadEmbeddingSet(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	set, vectors := testSet("local", "hashed-trigrams-v1", "abc",
		"AK-47 | Redline (Field-Tested)", "AWP | Asiimov (Field-Tested)")
	require.NoError(t, storage.SaveEmbeddingSet(ctx, set, vectors))
	assert.Greater(t, set.ID, int64(0))
	assert.False(t, set.CreatedAt.IsZero())

	loaded, loadedVectors, err := storage.LoadEmbeddingSet(ctx, "local", "hashed-trigrams-v1")
	require.NoError(t, err)
	assert.Equal(t, set.ID, loaded.ID)
	assert.Equal(t, "abc", loaded.NameSetHash)
	assert.Equal(t, 2, loaded.ItemCount)
	assert.Equal(t, 3, loaded.Dimension)
	require.Len(t, loadedVectors, 2)
	assert.Equal(t, vectors, loadedVectors)
}

func TestSaveEmbeddingSet_ReplacesSameProviderModel(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	first, firstVectors := testSet("local", "m", "one", "a", "b", "c")
	require.NoError(t, storage.SaveEmbeddingSet(ctx, first, firstVectors))

	second, secondVectors := testSet("local", "m", "two", "d")
	require.NoError(t, storage.SaveEmbeddingSet(ctx, second, secondVectors))

	loaded, vectors, err := storage.LoadEmbeddingSet(ctx, "local", "m")
	require.NoError(t, err)
	assert.Equal(t, "two", loaded.NameSetHash)
	assert.Len(t, vectors, 1)

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Sets)
	assert.Equal(t, 1, status.Vectors, "old vectors cascade away")
}

func TestSaveEmbeddingSet_Invalid(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*EmbeddingSet, []ItemVector) []ItemVector
	}{
		{"missing provider", func(s *EmbeddingSet, v []ItemVector) []ItemVector { s.Provider = ""; return v }},
		{"count mismatch", func(s *EmbeddingSet, v []ItemVector) []ItemVector { return v[:1] }},
		{"dimension mismatch", func(s *EmbeddingSet, v []ItemVector) []ItemVector {
			v[1].Vector = []float32{1}
			return v
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, vectors := testSet("local", "m", "h", "a", "b")
			vectors = tt.mutate(set, vectors)
			err := storage.SaveEmbeddingSet(ctx, set, vectors)
			assert.ErrorIs(t, err, ErrInvalidSet)
		})
	}

	_, _, err := storage.LoadEmbeddingSet(ctx, "local", "m")
	assert.ErrorIs(t, err, ErrNotFound, "nothing is written for invalid sets")
}

func TestLoadEmbeddingSet_NotFound(t *testing.T) {
	storage := setupTestDB(t)

	_, _, err := storage.LoadEmbeddingSet(context.Background(), "jina", "jina-embeddings-v3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListAndDeleteEmbeddingSets(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	a, av := testSet("local", "m1", "h1", "x")
	b, bv := testSet("openai", "m2", "h2", "x", "y")
	require.NoError(t, storage.SaveEmbeddingSet(ctx, a, av))
	require.NoError(t, storage.SaveEmbeddingSet(ctx, b, bv))

	sets, err := storage.ListEmbeddingSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 2)

	require.NoError(t, storage.DeleteEmbeddingSet(ctx, a.ID))
	assert.ErrorIs(t, storage.DeleteEmbeddingSet(ctx, a.ID), ErrNotFound)

	sets, err = storage.ListEmbeddingSets(ctx)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "openai", sets[0].Provider)
}

func TestGetStatus(t *testing.T) {
	storage := setupTestDB(t)
	ctx := context.Background()

	status, err := storage.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
	assert.Equal(t, 0, status.Sets)
	assert.Equal(t, BuildMode, status.BuildMode)
	assert.Equal(t, DriverName, status.DriverName)
	assert.Greater(t, status.SizeBytes, int64(0))
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.db")

	storage, err := NewSQLiteStorage(ctx, path)
	require.NoError(t, err)
	set, vectors := testSet("local", "m", "h", "a", "b")
	require.NoError(t, storage.SaveEmbeddingSet(ctx, set, vectors))
	require.NoError(t, storage.Close())

	reopened, err := NewSQLiteStorage(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, loadedVectors, err := reopened.LoadEmbeddingSet(ctx, "local", "m")
	require.NoError(t, err)
	assert.Equal(t, "h", loaded.NameSetHash)
	assert.Equal(t, vectors, loadedVectors)
}

func TestMigrations(t *testing.T) {
	ctx := context.Background()
	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, ApplyMigrations(ctx, db))
	v, err := currentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, v.String())

	// Applying again is a no-op
	require.NoError(t, ApplyMigrations(ctx, db))

	require.NoError(t, RollbackMigration(ctx, db))
	v, err = currentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	require.NoError(t, RollbackMigration(ctx, db))
	v, err = currentVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0", v.String())

	assert.Error(t, RollbackMigration(ctx, db))
}
