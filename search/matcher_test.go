package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
	"github.com/batiwork/batisearch/textproc"
)

func catalogEntry(code, designation, unit string) *core.CatalogEntry {
	norm := textproc.Normalize(designation)
	return &core.CatalogEntry{
		Code:            code,
		Designation:     designation,
		Unit:            unit,
		Prices:          core.PriceSet{Minimum: "90", Mean: "100", Maximum: "110"},
		NormDesignation: norm,
		Tokens:          textproc.Tokenize(norm, true),
	}
}

func newTestMatcher(t *testing.T, corrections, synonyms map[string][]string) *Matcher {
	t.Helper()
	m, err := NewMatcher(
		dict.NewCorrector(corrections, nil),
		dict.NewDictionary(synonyms),
	)
	require.NoError(t, err)
	return m
}

func foundationEntries() []*core.CatalogEntry {
	return []*core.CatalogEntry{
		catalogEntry("03.1.1.1.0.001", "Semelle beton arme", "m3"),
		catalogEntry("03.1.1.1.0.002", "Semelle beton", "m3"),
		catalogEntry("03.1.1.1.0.003", "Semelle filante", "ml"),
	}
}

func TestMatcherCompleteTier(t *testing.T) {
	m := newTestMatcher(t, nil, nil)

	results := m.Search(foundationEntries(), "semelle beton", core.PriceMean, 20)

	// Both query tokens appear in the first two entries; the third misses
	// "beton" and must not survive the complete tier.
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, core.MatchComplete, r.Match)
		// 2 matches x 10, +5 literal phrase, +50 complete.
		assert.Equal(t, 75.0, r.Score)
		assert.ElementsMatch(t, []string{"semelle", "beton"}, r.MatchedTerms)
	}

	t.Run("ties keep catalog order", func(t *testing.T) {
		assert.Equal(t, "Semelle beton arme", results[0].Designation)
		assert.Equal(t, "Semelle beton", results[1].Designation)
	})
}

func TestMatcherPartialTier(t *testing.T) {
	m := newTestMatcher(t, nil, nil)

	t.Run("single-token queries never reach the complete tier", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelle", core.PriceMean, 20)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Equal(t, core.MatchPartial, r.Match)
			assert.Equal(t, 15.0, r.Score) // 1 match x 10, +5 literal phrase
		}
	})

	t.Run("multi-token query without a complete hit returns partials", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelle introuvable", core.PriceMean, 20)
		require.Len(t, results, 3)
		for _, r := range results {
			assert.Equal(t, core.MatchPartial, r.Match)
			assert.Equal(t, []string{"semelle"}, r.MatchedTerms)
		}
	})

	t.Run("plural bridges to singular through prefix matching", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelles", core.PriceMean, 20)
		assert.Len(t, results, 3)
	})
}

func TestMatcherLiteralPhraseBonus(t *testing.T) {
	m := newTestMatcher(t, nil, nil)
	entries := []*core.CatalogEntry{
		catalogEntry("03.1.1.1.0.001", "Beton arme pour semelle", "m3"),
		catalogEntry("03.1.1.1.0.002", "Semelle beton", "m3"),
	}

	results := m.Search(entries, "semelle beton", core.PriceMean, 20)

	// Both are complete matches, but only the second contains the query
	// verbatim and its phrase bonus must put it first.
	require.Len(t, results, 2)
	assert.Equal(t, "Semelle beton", results[0].Designation)
	assert.Equal(t, 75.0, results[0].Score)
	assert.Equal(t, 70.0, results[1].Score)
}

func TestMatcherCorrectionFirst(t *testing.T) {
	m := newTestMatcher(t, map[string][]string{
		"semelle": {"semell", "semele"},
	}, nil)

	results := m.Search(foundationEntries(), "semell beton", core.PriceMean, 20)
	require.NotEmpty(t, results)
	assert.Equal(t, core.MatchComplete, results[0].Match)
}

func TestMatcherSynonymTier(t *testing.T) {
	synonyms := map[string][]string{
		"beton": {"beton", "ciment", "mortier"},
	}

	t.Run("fires only when no query token matches", func(t *testing.T) {
		m := newTestMatcher(t, nil, synonyms)
		results := m.Search(foundationEntries(), "mortier", core.PriceMean, 20)

		// "mortier" appears nowhere, but its group includes "beton".
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Equal(t, core.MatchSynonym, r.Match)
			assert.Equal(t, 5.0, r.Score)
			assert.Equal(t, []string{"beton"}, r.MatchedTerms)
		}
	})

	t.Run("not reached when a keyword tier produced results", func(t *testing.T) {
		m := newTestMatcher(t, nil, synonyms)
		results := m.Search(foundationEntries(), "beton", core.PriceMean, 20)
		require.NotEmpty(t, results)
		for _, r := range results {
			assert.NotEqual(t, core.MatchSynonym, r.Match)
		}
	})

	t.Run("empty without synonyms", func(t *testing.T) {
		m := newTestMatcher(t, nil, nil)
		results := m.Search(foundationEntries(), "introuvable", core.PriceMean, 20)
		assert.Empty(t, results)
	})
}

func TestMatcherShortQuery(t *testing.T) {
	m := newTestMatcher(t, nil, nil)

	assert.Empty(t, m.Search(foundationEntries(), "", core.PriceMean, 20))
	assert.Empty(t, m.Search(foundationEntries(), "a", core.PriceMean, 20))
	assert.Empty(t, m.Search(foundationEntries(), "  b  ", core.PriceMean, 20))
}

func TestMatcherLimitAndOrdering(t *testing.T) {
	m := newTestMatcher(t, nil, nil)

	t.Run("respects the limit", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelle", core.PriceMean, 2)
		assert.Len(t, results, 2)
	})

	t.Run("non-positive limit uses the default", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelle", core.PriceMean, 0)
		assert.Len(t, results, 3)
	})

	t.Run("scores are positive and descending", func(t *testing.T) {
		results := m.Search(foundationEntries(), "semelle beton arme", core.PriceMean, 20)
		require.NotEmpty(t, results)
		for i, r := range results {
			assert.Positive(t, r.Score)
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Score, r.Score)
			}
		}
	})
}

func TestMatcherPriceSelection(t *testing.T) {
	m := newTestMatcher(t, nil, nil)

	results := m.Search(foundationEntries(), "semelle", core.PriceMinimum, 1)
	require.Len(t, results, 1)
	assert.Equal(t, "90", results[0].Price)
}

func TestFlexibleMatches(t *testing.T) {
	designation := []string{"semelle", "beton", "arme"}

	t.Run("prefix mode", func(t *testing.T) {
		assert.Equal(t, []string{"semelles", "beton"},
			flexibleMatches([]string{"semelles", "beton", "acier"}, designation, MatchModePrefix))
		assert.Empty(t,
			flexibleMatches([]string{"elle"}, designation, MatchModePrefix))
	})

	t.Run("substring mode", func(t *testing.T) {
		assert.Equal(t, []string{"elle"},
			flexibleMatches([]string{"elle"}, designation, MatchModeSubstring))
	})
}

func TestNewMatcherValidation(t *testing.T) {
	_, err := NewMatcher(nil, dict.NewDictionary(nil))
	assert.ErrorIs(t, err, ErrCorrectorRequired)

	_, err = NewMatcher(dict.NewCorrector(nil, nil), nil)
	assert.ErrorIs(t, err, ErrDictionaryRequired)
}
