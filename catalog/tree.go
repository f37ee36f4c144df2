package catalog

import (
	"sort"

	"github.com/batiwork/batisearch/core"
)

// Tree is the title/subtitle/content hierarchy of a catalog, keyed by the
// dotted prefix of the entry codes.
type Tree struct {
	Titles map[string]*TitleNode
}

// TitleNode is a catalog section. Content whose code carries no subsubtitle
// segment, or whose subtitle node does not exist, attaches here directly.
type TitleNode struct {
	Key       string
	Label     string
	Subtitles map[string]*SubtitleNode
	Content   []*core.CatalogEntry
}

// SubtitleNode is a catalog sub-section.
type SubtitleNode struct {
	Key     string
	Label   string
	Content []*core.CatalogEntry
}

// BuildTree assembles the hierarchy from catalog entries in two passes: the
// first materializes every title and subtitle node, the second attaches
// content rows. Row order therefore does not matter; a content row whose
// heading appears later in the file still lands under it. Entries whose code
// has fewer than 3 segments stay out of the tree entirely.
func BuildTree(entries []*core.CatalogEntry) *Tree {
	t := &Tree{Titles: make(map[string]*TitleNode)}

	for _, entry := range entries {
		h, ok := core.ParseCodeHierarchy(entry.Code)
		if !ok {
			continue
		}
		switch core.KindOfCode(entry.Code) {
		case core.EntryTitle:
			t.titleNode(h.TitleKey()).Label = entry.Designation
		case core.EntrySubtitle:
			title := t.titleNode(h.TitleKey())
			title.subtitleNode(h.SubtitleKey()).Label = entry.Designation
		}
	}

	for _, entry := range entries {
		h, ok := core.ParseCodeHierarchy(entry.Code)
		if !ok || core.KindOfCode(entry.Code) != core.EntryContent {
			continue
		}
		title := t.titleNode(h.TitleKey())
		if h.SubSubtitle != "" {
			if sub, exists := title.Subtitles[h.SubtitleKey()]; exists {
				sub.Content = append(sub.Content, entry)
				continue
			}
		}
		title.Content = append(title.Content, entry)
	}
	return t
}

func (t *Tree) titleNode(key string) *TitleNode {
	node, ok := t.Titles[key]
	if !ok {
		node = &TitleNode{Key: key, Subtitles: make(map[string]*SubtitleNode)}
		t.Titles[key] = node
	}
	return node
}

func (n *TitleNode) subtitleNode(key string) *SubtitleNode {
	node, ok := n.Subtitles[key]
	if !ok {
		node = &SubtitleNode{Key: key}
		n.Subtitles[key] = node
	}
	return node
}

// Entries returns the content attached to the title directly plus the content
// of all its subtitles.
func (n *TitleNode) Entries() []*core.CatalogEntry {
	out := append([]*core.CatalogEntry(nil), n.Content...)
	for _, key := range sortedKeys(n.Subtitles) {
		out = append(out, n.Subtitles[key].Content...)
	}
	return out
}

// TitleOutline summarizes one title node for transport responses.
type TitleOutline struct {
	Key       string            `json:"key"`
	Title     string            `json:"title"`
	Subtitles []SubtitleOutline `json:"subtitles"`
	Items     int               `json:"items"`
}

// SubtitleOutline summarizes one subtitle node for transport responses.
type SubtitleOutline struct {
	Key      string `json:"key"`
	Subtitle string `json:"subtitle"`
	Items    int    `json:"items"`
}

// Outline flattens the tree into a deterministic, JSON-friendly shape ordered
// by node key.
func (t *Tree) Outline() []TitleOutline {
	outlines := make([]TitleOutline, 0, len(t.Titles))
	for _, key := range sortedKeys(t.Titles) {
		title := t.Titles[key]
		outline := TitleOutline{
			Key:       title.Key,
			Title:     title.Label,
			Items:     len(title.Content),
			Subtitles: make([]SubtitleOutline, 0, len(title.Subtitles)),
		}
		for _, subKey := range sortedKeys(title.Subtitles) {
			sub := title.Subtitles[subKey]
			outline.Subtitles = append(outline.Subtitles, SubtitleOutline{
				Key:      sub.Key,
				Subtitle: sub.Label,
				Items:    len(sub.Content),
			})
		}
		outlines = append(outlines, outline)
	}
	return outlines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
