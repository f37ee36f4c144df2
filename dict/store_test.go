package dict

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0644)
}

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, slog.Default())
	require.NoError(t, err)

	terms := map[string][]string{
		"beton":   {"beton", "ciment", "mortier"},
		"semelle": {"semelle", "fondation"},
	}
	require.NoError(t, store.SaveSynonyms(terms))

	loaded, err := store.LoadSynonyms()
	require.NoError(t, err)
	assert.Equal(t, terms, loaded)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := NewFileStore(dir, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, slog.Default())
	require.NoError(t, err)

	require.NoError(t, store.SaveSynonyms(map[string][]string{"beton": {"beton"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, synonymsFile, entries[0].Name())
	assert.False(t, strings.Contains(entries[0].Name(), ".tmp"))
}

func TestFileStoreLoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	_, err = store.LoadSynonyms()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = store.LoadCorrections()
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = store.LoadHeadings()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileStoreLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, slog.Default())
	require.NoError(t, err)

	require.NoError(t, writeFile(t, filepath.Join(dir, synonymsFile), "[1, 2"))

	_, err = store.LoadSynonyms()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), synonymsFile)
}

func TestFileStoreHeadingsRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	configs := map[string]HeadingConfig{
		"BATIMENT NEUF": {
			Patterns:  []string{"BATIMENT", "NEUF"},
			Subtitles: map[string][]string{"TOITURE": {"CHARPENTE", "COUVERTURE"}},
		},
	}
	require.NoError(t, store.SaveHeadings(configs))

	loaded, err := store.LoadHeadings()
	require.NoError(t, err)
	assert.Equal(t, configs, loaded)
}
