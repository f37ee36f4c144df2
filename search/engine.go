package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/batiwork/batisearch/ai"
	"github.com/batiwork/batisearch/catalog"
	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
)

// Engine runs queries against loaded catalog libraries. It resolves
// hierarchical scopes, widens empty scopes to the full catalog, and
// supplements low-confidence global results with embedding similarity.
type Engine struct {
	manager  *catalog.Manager
	matcher  *Matcher
	headings *dict.HeadingDictionary
	embedder ai.Embedder
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithHeadings sets the curated title/subtitle dictionary used for
// hierarchical scope resolution. Without one, only fuzzy label matching runs.
func WithHeadings(headings *dict.HeadingDictionary) EngineOption {
	return func(e *Engine) error {
		e.headings = headings
		return nil
	}
}

// WithSemanticFallback enables the embedding-similarity supplement for
// low-confidence global searches.
func WithSemanticFallback(embedder ai.Embedder) EngineOption {
	return func(e *Engine) error {
		e.embedder = embedder
		return nil
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a search engine over the manager's libraries.
func NewEngine(manager *catalog.Manager, matcher *Matcher, opts ...EngineOption) (*Engine, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	if matcher == nil {
		return nil, ErrMatcherRequired
	}

	e := &Engine{
		manager: manager,
		matcher: matcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "engine")
	return e, nil
}

// Request describes one search call.
type Request struct {
	// Library is the catalog file name to search in.
	Library string
	// Query is the free-text query.
	Query string
	// Price selects which price column results quote.
	Price core.PriceKind
	// Titles optionally restricts the search to matching catalog sections.
	Titles []string
	// Subtitle optionally narrows the matched sections further.
	Subtitle string
	// Limit caps the result count; non-positive means the default.
	Limit int
}

// Search ranks catalog entries against the request.
// Returns core.ErrLibraryNotFound when the library does not exist.
func (e *Engine) Search(ctx context.Context, req Request) ([]core.SearchResult, error) {
	return e.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor is Search with observation hooks.
//
// When the request names section titles, the scope is resolved against the
// library's tree; an empty resolution widens to the full catalog so a valid
// query never comes back empty just because its section labels missed.
func (e *Engine) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) ([]core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	lib, err := e.manager.Library(ctx, req.Library)
	if err != nil {
		return nil, err
	}
	limit := e.matcher.effectiveLimit(req.Limit)

	if len(req.Titles) > 0 {
		scope := catalog.ResolveScope(lib.Tree, e.headings, req.Titles, req.Subtitle)
		if len(scope.Entries) > 0 {
			e.logger.Debug("hierarchical scope resolved",
				"titles", scope.MatchedTitles, "entries", len(scope.Entries))
			outcome := e.matcher.rank(scope.Entries, req.Query, req.Price, monitor)
			return truncate(outcome.results, limit), nil
		}
		e.logger.Info("empty hierarchical scope, widening to full catalog",
			"requested", req.Titles, "subtitle", req.Subtitle)
	}

	return e.searchGlobal(ctx, lib, req, limit, monitor), nil
}

// searchGlobal runs the unrestricted pipeline. A confident keyword ranking is
// trimmed to results within half of the top score; anything weaker is
// supplemented by embedding similarity over the precomputed entry vectors.
func (e *Engine) searchGlobal(ctx context.Context, lib *catalog.Library, req Request, limit int, monitor SearchMonitor) []core.SearchResult {
	outcome := e.matcher.rank(lib.Entries, req.Query, req.Price, monitor)
	results := outcome.results

	if len(results) > 0 && results[0].Score > e.matcher.config.HighConfidenceScore {
		threshold := results[0].Score * highConfidenceKeep
		cut := len(results)
		for i, r := range results {
			if r.Score < threshold {
				cut = i
				break
			}
		}
		return truncate(results[:cut], limit)
	}

	supplements := e.semanticSupplement(ctx, outcome, lib.Entries, req.Price)
	monitor.SemanticSupplement(len(supplements))
	if len(supplements) > 0 {
		results = sortByScore(append(results, supplements...))
	}
	return truncate(results, limit)
}

// semanticSupplement encodes the expanded query once and surfaces entries the
// keyword tiers missed. Provider failures degrade to keyword-only results.
func (e *Engine) semanticSupplement(ctx context.Context, outcome rankOutcome, entries []*core.CatalogEntry, kind core.PriceKind) []core.SearchResult {
	if e.embedder == nil || len(outcome.expanded) == 0 {
		return nil
	}

	vector, err := e.embedder.EmbedText(ctx, strings.Join(outcome.expanded, " "))
	if err != nil {
		e.logger.Error("semantic fallback failed, keyword results only", "err", err)
		return nil
	}

	surfaced := make(map[string]struct{}, len(outcome.results))
	for _, r := range outcome.results {
		surfaced[r.Designation] = struct{}{}
	}

	var supplements []core.SearchResult
	for _, entry := range entries {
		if len(entry.Vector) == 0 {
			continue
		}
		if _, done := surfaced[entry.Designation]; done {
			continue
		}
		similarity := ai.Cosine(vector, entry.Vector)
		if similarity > e.matcher.config.SimilarityThreshold {
			supplements = append(supplements,
				result(entry, kind, similarity*semanticScoreScale, core.MatchSemantic, nil))
		}
	}
	return supplements
}

// Count returns how many entries of the library mention any expanded term of
// the query, along with the expansion itself.
func (e *Engine) Count(ctx context.Context, library, query string) (int, []string, error) {
	lib, err := e.manager.Library(ctx, library)
	if err != nil {
		return 0, nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, nil
	}

	expanded := e.matcher.dictionary.Expand(query, e.matcher.config.MaxExpansions)
	count := 0
	for _, entry := range lib.Entries {
		for _, term := range expanded {
			if strings.Contains(entry.NormDesignation, term) {
				count++
				break
			}
		}
	}
	return count, expanded, nil
}
