package dict

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDictionary(t *testing.T, opts ...Option) *Dictionary {
	t.Helper()
	return NewDictionary(map[string][]string{
		"beton":        {"beton", "ciment", "mortier"},
		"terrassement": {"terrassement", "excavation", "fouille"},
	}, opts...)
}

func TestDictionaryExpand(t *testing.T) {
	d := testDictionary(t)

	t.Run("pulls every synonym of the matched group", func(t *testing.T) {
		// "ciment" maps back to the "beton" group and injects its siblings.
		expanded := d.Expand("ciment", 10)
		assert.Contains(t, expanded, "ciment")
		assert.Contains(t, expanded, "beton")
		assert.Contains(t, expanded, "mortier")
	})

	t.Run("query tokens always come first", func(t *testing.T) {
		expanded := d.Expand("ciment acier", 10)
		require.GreaterOrEqual(t, len(expanded), 2)
		assert.Equal(t, []string{"ciment", "acier"}, expanded[:2])
	})

	t.Run("unknown tokens expand to themselves", func(t *testing.T) {
		assert.Equal(t, []string{"acier"}, d.Expand("acier", 10))
	})

	t.Run("accents fold before lookup", func(t *testing.T) {
		expanded := d.Expand("Béton", 10)
		assert.Contains(t, expanded, "mortier")
	})

	t.Run("truncation is deterministic", func(t *testing.T) {
		// Token first, then group members in dictionary list order.
		assert.Equal(t, []string{"ciment", "beton"}, d.Expand("ciment", 2))
	})

	t.Run("no duplicates", func(t *testing.T) {
		expanded := d.Expand("beton ciment", 10)
		seen := make(map[string]int)
		for _, term := range expanded {
			seen[term]++
		}
		for term, n := range seen {
			assert.Equal(t, 1, n, "term %q repeated", term)
		}
	})

	t.Run("non-positive limit uses the default cap", func(t *testing.T) {
		expanded := d.Expand("ciment excavation", 0)
		assert.LessOrEqual(t, len(expanded), DefaultMaxExpansions)
		assert.Contains(t, expanded, "mortier")
	})
}

func TestDictionaryAddSynonym(t *testing.T) {
	t.Run("inserts and updates the reverse index", func(t *testing.T) {
		d := testDictionary(t)

		added, err := d.AddSynonym("beton", "gravier")
		require.NoError(t, err)
		assert.True(t, added)

		expanded := d.Expand("gravier", 10)
		assert.Contains(t, expanded, "ciment")
	})

	t.Run("duplicate detection is case-insensitive", func(t *testing.T) {
		d := testDictionary(t)

		added, err := d.AddSynonym("beton", "CIMENT")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, []string{"beton", "ciment", "mortier"}, d.Snapshot()["beton"])
	})

	t.Run("unknown canonical term is seeded with itself", func(t *testing.T) {
		d := testDictionary(t)

		added, err := d.AddSynonym("enduit", "crepissage")
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, []string{"enduit", "crepissage"}, d.Snapshot()["enduit"])
	})

	t.Run("persists through the attached store", func(t *testing.T) {
		store, err := NewFileStore(t.TempDir(), slog.Default())
		require.NoError(t, err)
		d := testDictionary(t, WithStore(store))

		_, err = d.AddSynonym("beton", "gravier")
		require.NoError(t, err)

		saved, err := store.LoadSynonyms()
		require.NoError(t, err)
		assert.Contains(t, saved["beton"], "gravier")
	})
}

func TestDictionarySetTerm(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), slog.Default())
	require.NoError(t, err)
	d := testDictionary(t, WithStore(store))

	require.NoError(t, d.SetTerm("beton", []string{"beton", "agglo"}))

	assert.Equal(t, []string{"beton", "agglo"}, d.Snapshot()["beton"])
	assert.NotContains(t, d.Expand("agglo", 10), "ciment")

	saved, err := store.LoadSynonyms()
	require.NoError(t, err)
	assert.Equal(t, []string{"beton", "agglo"}, saved["beton"])
}

func TestLoadDictionaryDegradesToEmpty(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), slog.Default())
	require.NoError(t, err)

	d := LoadDictionary(store, slog.Default())
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, []string{"acier"}, d.Expand("acier", 10))
}
