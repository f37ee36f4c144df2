package catalog

import (
	"strings"

	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
)

// Scope is the subset of catalog entries a query runs against, together with
// the tree nodes that produced it.
type Scope struct {
	Entries       []*core.CatalogEntry
	MatchedTitles []string
}

// matchedTitle pairs a matched tree node with the curated mapping of the
// requested label that selected it.
type matchedTitle struct {
	node    *TitleNode
	cfg     dict.HeadingConfig
	curated bool
}

// ResolveScope restricts the catalog to the sections named by the caller.
// Each requested title is matched against the tree twice: through the curated
// heading dictionary's substring patterns, then through a fuzzy pass where any
// word longer than 3 characters of the requested label matching the node label
// case-insensitively counts.
//
// A non-empty subtitle narrows the matched titles to their matching subtitle
// nodes and the scope becomes their content only. The curated keyword lists
// are consulted first across every matched title; the fuzzy word pass runs
// only when they produced no subtitle at all, so a curated mapping keeps its
// narrow intent.
//
// An empty scope is a valid outcome; callers fall back to the full catalog.
func ResolveScope(tree *Tree, headings *dict.HeadingDictionary, titles []string, subtitle string) Scope {
	var scope Scope
	if tree == nil || len(titles) == 0 {
		return scope
	}

	seen := make(map[*core.CatalogEntry]struct{})
	add := func(entries []*core.CatalogEntry) {
		for _, entry := range entries {
			if _, dup := seen[entry]; dup {
				continue
			}
			seen[entry] = struct{}{}
			scope.Entries = append(scope.Entries, entry)
		}
	}

	var matched []matchedTitle
	for _, requested := range titles {
		var cfg dict.HeadingConfig
		var curated bool
		if headings != nil {
			cfg, curated = headings.Config(requested)
		}

		for _, key := range sortedKeys(tree.Titles) {
			title := tree.Titles[key]
			if !titleMatches(title.Label, requested, cfg, curated) {
				continue
			}
			scope.MatchedTitles = append(scope.MatchedTitles, title.Key)
			matched = append(matched, matchedTitle{node: title, cfg: cfg, curated: curated})
		}
	}

	if subtitle == "" {
		for _, m := range matched {
			add(m.node.Entries())
		}
		return scope
	}

	// Curated subtitle keywords win outright.
	found := false
	for _, m := range matched {
		if !m.curated {
			continue
		}
		keywords, ok := m.cfg.Subtitles[strings.ToUpper(subtitle)]
		if !ok {
			continue
		}
		for _, subKey := range sortedKeys(m.node.Subtitles) {
			sub := m.node.Subtitles[subKey]
			if keywordsMatch(sub.Label, keywords) {
				add(sub.Content)
				found = true
			}
		}
	}
	if found {
		return scope
	}

	for _, m := range matched {
		for _, subKey := range sortedKeys(m.node.Subtitles) {
			sub := m.node.Subtitles[subKey]
			if fuzzyLabelMatch(sub.Label, subtitle) {
				add(sub.Content)
			}
		}
	}
	return scope
}

func titleMatches(label, requested string, cfg dict.HeadingConfig, curated bool) bool {
	if curated && keywordsMatch(label, cfg.Patterns) {
		return true
	}
	return fuzzyLabelMatch(label, requested)
}

// keywordsMatch reports whether any keyword appears inside the catalog label,
// case-insensitively.
func keywordsMatch(label string, keywords []string) bool {
	upper := strings.ToUpper(label)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(upper, strings.ToUpper(keyword)) {
			return true
		}
	}
	return false
}

// fuzzyLabelMatch reports whether any word longer than 3 characters of the
// requested label appears inside the catalog label, case-insensitively.
func fuzzyLabelMatch(label, requested string) bool {
	upper := strings.ToUpper(label)
	for _, word := range strings.Fields(strings.ToUpper(requested)) {
		if len(word) > 3 && strings.Contains(upper, word) {
			return true
		}
	}
	return false
}
