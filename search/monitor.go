package search

import "github.com/batiwork/batisearch/core"

// SearchMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate steps during a search.
type SearchMonitor interface {
	Start(query string)
	QueryCorrected(original, corrected string)
	QueryTokens(tokens []string)
	TierEvaluated(tier core.MatchType, hits int)
	SemanticSupplement(hits int)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor.
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) QueryCorrected(_, _ string)              {}
func (n *noopMonitor) QueryTokens(_ []string)                  {}
func (n *noopMonitor) TierEvaluated(_ core.MatchType, _ int)   {}
func (n *noopMonitor) SemanticSupplement(_ int)                {}
func (n *noopMonitor) Finish(_ []core.SearchResult)            {}
