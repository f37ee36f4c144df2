package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batiwork/batisearch/ai/mock"
	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/storage"
)

// memVectors is an in-memory storage.VectorRepository for tests.
type memVectors struct {
	mu   sync.Mutex
	data map[core.ID][]float32
}

func newMemVectors() *memVectors {
	return &memVectors{data: make(map[core.ID][]float32)}
}

func (m *memVectors) GetVector(_ context.Context, id core.ID) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vector, ok := m.data[id]
	if !ok {
		return nil, storage.ErrVectorNotFound
	}
	return vector, nil
}

func (m *memVectors) PutVector(_ context.Context, id core.ID, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = vector
	return nil
}

func (m *memVectors) Close() error { return nil }

func writeTestLibrary(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testCatalog), 0644))
}

func TestManagerLibrary(t *testing.T) {
	dir := t.TempDir()
	writeTestLibrary(t, dir, "prix2026.csv")

	m, err := NewManager(dir)
	require.NoError(t, err)
	defer m.Release()

	lib, err := m.Library(context.Background(), "prix2026.csv")
	require.NoError(t, err)
	assert.Equal(t, "prix2026.csv", lib.Name)
	assert.Len(t, lib.Entries, 4)
	assert.NotEmpty(t, lib.Tree.Titles)

	t.Run("entries are pre-tokenized", func(t *testing.T) {
		for _, entry := range lib.Entries {
			assert.NotEmpty(t, entry.NormDesignation)
		}
	})

	t.Run("second call hits the cache", func(t *testing.T) {
		again, err := m.Library(context.Background(), "prix2026.csv")
		require.NoError(t, err)
		assert.Same(t, lib, again)
	})

	t.Run("name without extension resolves", func(t *testing.T) {
		again, err := m.Library(context.Background(), "prix2026")
		require.NoError(t, err)
		assert.Same(t, lib, again)
	})
}

func TestManagerLibraryNotFound(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	defer m.Release()

	_, err = m.Library(context.Background(), "absente.csv")
	assert.ErrorIs(t, err, core.ErrLibraryNotFound)
}

func TestManagerReload(t *testing.T) {
	dir := t.TempDir()
	writeTestLibrary(t, dir, "prix2026.csv")

	m, err := NewManager(dir)
	require.NoError(t, err)
	defer m.Release()

	first, err := m.Library(context.Background(), "prix2026.csv")
	require.NoError(t, err)

	second, err := m.Reload(context.Background(), "prix2026.csv")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Name, second.Name)
}

func TestManagerListLibraries(t *testing.T) {
	dir := t.TempDir()
	writeTestLibrary(t, dir, "b.csv")
	writeTestLibrary(t, dir, "a.csv")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)
	defer m.Release()

	names, err := m.ListLibraries()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.csv"}, names)
	assert.Empty(t, m.Loaded())
}

func TestManagerPrecomputesVectors(t *testing.T) {
	dir := t.TempDir()
	writeTestLibrary(t, dir, "prix2026.csv")

	embedder := mock.NewMockEmbedder()
	vectors := newMemVectors()

	m, err := NewManager(dir,
		WithEmbedder(embedder, "embeddinggemma"),
		WithVectorCache(vectors),
		WithPoolSize(2))
	require.NoError(t, err)
	defer m.Release()

	lib, err := m.Library(context.Background(), "prix2026.csv")
	require.NoError(t, err)
	for _, entry := range lib.Entries {
		assert.NotEmpty(t, entry.Vector, "entry %q has no vector", entry.Designation)
	}
	firstCalls := embedder.CallCount()
	assert.Positive(t, firstCalls)

	t.Run("reload serves vectors from the cache", func(t *testing.T) {
		_, err := m.Reload(context.Background(), "prix2026.csv")
		require.NoError(t, err)
		assert.Equal(t, firstCalls, embedder.CallCount())
	})
}

func TestManagerEmbedderFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	writeTestLibrary(t, dir, "prix2026.csv")

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, assert.AnError
	}

	m, err := NewManager(dir, WithEmbedder(embedder, "embeddinggemma"))
	require.NoError(t, err)
	defer m.Release()

	lib, err := m.Library(context.Background(), "prix2026.csv")
	require.NoError(t, err)
	for _, entry := range lib.Entries {
		assert.Empty(t, entry.Vector)
	}
}
