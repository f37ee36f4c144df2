package search

import (
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
	"github.com/batiwork/batisearch/textproc"
)

// Config holds the tuning thresholds of the ranking pipeline.
type Config struct {
	// HighConfidenceScore is the keyword score above which global results are
	// considered trustworthy: no semantic supplement runs and weak trailing
	// results are trimmed.
	// Default: 40
	HighConfidenceScore float64

	// SimilarityThreshold is the minimum cosine similarity for the semantic
	// supplement to surface an entry.
	// Default: 0.55
	SimilarityThreshold float64

	// MaxExpansions caps the number of terms produced by synonym expansion.
	// Default: dict.DefaultMaxExpansions
	MaxExpansions int

	// DefaultLimit is the result count used when callers pass a non-positive
	// limit.
	// Default: 20
	DefaultLimit int
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		HighConfidenceScore: 40,
		SimilarityThreshold: 0.55,
		MaxExpansions:       dict.DefaultMaxExpansions,
		DefaultLimit:        20,
	}
}

// MatchMode selects how flexible token matching compares two tokens.
type MatchMode int

const (
	// MatchModePrefix matches tokens when one is a prefix of the other.
	// Used by the keyword tiers to bridge singular/plural variants.
	MatchModePrefix MatchMode = iota
	// MatchModeSubstring matches tokens when one contains the other.
	// More lenient; used by the synonym tier.
	MatchModeSubstring
)

// Scoring weights of the keyword tiers.
const (
	partialMatchWeight   = 10
	literalPhraseBonus   = 5
	completeMatchBonus   = 50
	synonymMatchWeight   = 5
	semanticScoreScale   = 10
	minQueryLength       = 2
	highConfidenceKeep   = 0.5
)

// Matcher implements the tiered keyword ranking over a set of catalog
// entries. It is stateless per query and safe for concurrent use.
type Matcher struct {
	corrector  *dict.Corrector
	dictionary *dict.Dictionary
	config     Config
	logger     *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithConfig overrides the default thresholds.
func WithConfig(config Config) Option {
	return func(m *Matcher) error {
		m.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a matcher from its query-rewriting collaborators.
func NewMatcher(corrector *dict.Corrector, dictionary *dict.Dictionary, opts ...Option) (*Matcher, error) {
	if corrector == nil {
		return nil, ErrCorrectorRequired
	}
	if dictionary == nil {
		return nil, ErrDictionaryRequired
	}

	m := &Matcher{
		corrector:  corrector,
		dictionary: dictionary,
		config:     DefaultConfig(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	m.logger = m.logger.With("component", "matcher")
	return m, nil
}

// Search ranks the entries against the query and returns at most limit
// results, sorted by score descending with ties preserving catalog order.
// Queries shorter than 2 characters yield an empty result.
func (m *Matcher) Search(entries []*core.CatalogEntry, query string, kind core.PriceKind, limit int) []core.SearchResult {
	outcome := m.rank(entries, query, kind, nil)
	return truncate(outcome.results, m.effectiveLimit(limit))
}

func (m *Matcher) effectiveLimit(limit int) int {
	if limit <= 0 {
		return m.config.DefaultLimit
	}
	return limit
}

// rankOutcome carries the full (untruncated) ranking plus the query rewrite
// artifacts the global search path builds on.
type rankOutcome struct {
	results   []core.SearchResult
	corrected string
	tokens    []string
	expanded  []string
}

// rank runs the tiered keyword pipeline over the entries.
//
// Tier D1 scores every entry by its flexible prefix matches; tier D2 keeps
// only entries matching every query token and outranks everything else; tier
// D3 falls back to dictionary synonyms and runs only when D1 found nothing.
func (m *Matcher) rank(entries []*core.CatalogEntry, query string, kind core.PriceKind, monitor SearchMonitor) rankOutcome {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	var outcome rankOutcome
	if utf8.RuneCountInString(strings.TrimSpace(query)) < minQueryLength {
		return outcome
	}

	corrected := m.corrector.Correct(query)
	monitor.QueryCorrected(query, corrected)
	outcome.corrected = corrected

	queryNorm := textproc.Normalize(corrected)
	tokens := uniqueTokens(textproc.Tokenize(queryNorm, false))
	monitor.QueryTokens(tokens)
	outcome.tokens = tokens
	outcome.expanded = m.dictionary.Expand(corrected, m.config.MaxExpansions)
	if len(tokens) == 0 {
		return outcome
	}

	// Tier D1: partial keyword matches.
	var partial []core.SearchResult
	for _, entry := range entries {
		matches := flexibleMatches(tokens, entry.Tokens, MatchModePrefix)
		if len(matches) == 0 {
			continue
		}
		score := float64(len(matches) * partialMatchWeight)
		if strings.Contains(entry.NormDesignation, queryNorm) {
			score += literalPhraseBonus
		}
		partial = append(partial, result(entry, kind, score, core.MatchPartial, matches))
	}
	monitor.TierEvaluated(core.MatchPartial, len(partial))

	if len(partial) > 0 {
		// Tier D2: entries matching every query token, only meaningful for
		// multi-token queries.
		if len(tokens) > 1 {
			var complete []core.SearchResult
			for _, r := range partial {
				if len(r.MatchedTerms) == len(tokens) {
					r.Score += completeMatchBonus
					r.Match = core.MatchComplete
					complete = append(complete, r)
				}
			}
			monitor.TierEvaluated(core.MatchComplete, len(complete))
			if len(complete) > 0 {
				outcome.results = sortByScore(complete)
				monitor.Finish(outcome.results)
				return outcome
			}
		}
		outcome.results = sortByScore(partial)
		monitor.Finish(outcome.results)
		return outcome
	}

	// Tier D3: pure synonyms, reached only when no query token matched.
	m.logger.Debug("no keyword match, trying synonyms", "query", corrected)
	synonyms := subtract(outcome.expanded, tokens)
	if len(synonyms) == 0 {
		monitor.Finish(nil)
		return outcome
	}

	var fallback []core.SearchResult
	for _, entry := range entries {
		matches := flexibleMatches(synonyms, entry.Tokens, MatchModeSubstring)
		if len(matches) == 0 {
			continue
		}
		score := float64(len(matches) * synonymMatchWeight)
		fallback = append(fallback, result(entry, kind, score, core.MatchSynonym, matches))
	}
	monitor.TierEvaluated(core.MatchSynonym, len(fallback))

	outcome.results = sortByScore(fallback)
	monitor.Finish(outcome.results)
	return outcome
}

// flexibleMatches returns the query tokens that have at least one flexible
// match among the designation tokens, in query order.
func flexibleMatches(queryTokens, designationTokens []string, mode MatchMode) []string {
	var matches []string
	for _, q := range queryTokens {
		for _, d := range designationTokens {
			if tokensMatch(q, d, mode) {
				matches = append(matches, q)
				break
			}
		}
	}
	return matches
}

func tokensMatch(a, b string, mode MatchMode) bool {
	if mode == MatchModeSubstring {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

func result(entry *core.CatalogEntry, kind core.PriceKind, score float64, match core.MatchType, terms []string) core.SearchResult {
	return core.SearchResult{
		Designation:  entry.Designation,
		Price:        entry.Prices.ByKind(kind),
		Unit:         entry.Unit,
		Code:         entry.Code,
		Score:        score,
		Match:        match,
		MatchedTerms: terms,
	}
}

// sortByScore orders results by score descending. The sort is stable so tied
// entries keep their catalog scan order.
func sortByScore(results []core.SearchResult) []core.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func truncate(results []core.SearchResult, limit int) []core.SearchResult {
	if len(results) > limit {
		return results[:limit]
	}
	return results
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, token := range tokens {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func subtract(terms, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, term := range remove {
		removed[term] = struct{}{}
	}
	var out []string
	for _, term := range terms {
		if _, drop := removed[term]; !drop {
			out = append(out, term)
		}
	}
	return out
}
