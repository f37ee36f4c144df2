package dict

import (
	"log/slog"
	"strings"

	"github.com/batiwork/batisearch/textproc"
)

// Corrector fixes common misspellings in queries using a precomputed
// variant-to-canonical index. Correction is strictly per token; no context
// is used. The zero-value index acts as a no-op corrector.
type Corrector struct {
	index  map[string]string
	logger *slog.Logger
}

// NewCorrector builds a corrector from a canonical-word to misspelled-variants
// source. Every variant is normalized and mapped back to its canonical word;
// when two canonical words claim the same variant the last one wins.
func NewCorrector(source map[string][]string, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	index := make(map[string]string)
	for canonical, variants := range source {
		for _, variant := range variants {
			index[textproc.Normalize(variant)] = canonical
		}
	}
	return &Corrector{
		index:  index,
		logger: logger.With("component", "corrector"),
	}
}

// LoadCorrector builds a corrector from the store's correction document.
// A missing or malformed document degrades to a no-op corrector.
func LoadCorrector(store *FileStore, logger *slog.Logger) *Corrector {
	if logger == nil {
		logger = slog.Default()
	}
	source, err := store.LoadCorrections()
	if err != nil {
		logger.Warn("correction dictionary unavailable, queries pass through uncorrected", "err", err)
		return NewCorrector(nil, logger)
	}
	corrector := NewCorrector(source, logger)
	logger.Info("correction dictionary loaded", "variants", len(corrector.index))
	return corrector
}

// Correct normalizes the query, replaces each whitespace-separated token that
// appears in the correction index, and rejoins with single spaces. Unknown
// tokens pass through unchanged.
func (c *Corrector) Correct(query string) string {
	if len(c.index) == 0 {
		return query
	}

	tokens := strings.Fields(textproc.Normalize(query))
	corrected := make([]string, len(tokens))
	for i, token := range tokens {
		if canonical, ok := c.index[token]; ok {
			corrected[i] = canonical
		} else {
			corrected[i] = token
		}
	}
	result := strings.Join(corrected, " ")

	if result != query {
		c.logger.Debug("query corrected", "from", query, "to", result)
	}
	return result
}

// Len returns the number of indexed variants.
func (c *Corrector) Len() int {
	return len(c.index)
}
