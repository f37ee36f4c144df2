package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PriceKind selects which price column of a catalog entry is quoted.
type PriceKind int

const (
	// PriceMean is the default price column.
	PriceMean PriceKind = iota
	// PriceMinimum is the lowest quoted price.
	PriceMinimum
	// PriceMaximum is the highest quoted price.
	PriceMaximum
)

// ParsePriceKind maps a price selector label to a PriceKind.
// It accepts the catalog column labels ("Minimum", "Moyen", "Maximum") and
// their English equivalents, case-insensitively. Anything else falls back to
// PriceMean.
func ParsePriceKind(label string) PriceKind {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "MINIMUM", "MIN":
		return PriceMinimum
	case "MAXIMUM", "MAX":
		return PriceMaximum
	default:
		return PriceMean
	}
}

// String returns the catalog column label for the price kind.
func (k PriceKind) String() string {
	switch k {
	case PriceMinimum:
		return "Minimum"
	case PriceMaximum:
		return "Maximum"
	default:
		return "Moyen"
	}
}

// PriceSet holds the three price tiers of a catalog entry as display strings.
// Missing prices are represented as "N/A".
type PriceSet struct {
	Minimum string
	Mean    string
	Maximum string
}

// ByKind returns the price for the requested kind.
func (p PriceSet) ByKind(kind PriceKind) string {
	switch kind {
	case PriceMinimum:
		return p.Minimum
	case PriceMaximum:
		return p.Maximum
	default:
		return p.Mean
	}
}

// CatalogEntry is a single priced line item of a construction-pricing catalog.
// Entries are immutable once loaded.
type CatalogEntry struct {
	Code        string
	Designation string
	Unit        string
	Prices      PriceSet

	// Derived at load time by the catalog manager.
	NormDesignation string    // accent-stripped, lower-cased designation
	Tokens          []string  // domain tokens with technical terms preserved
	Vector          []float32 // embedding of the designation (may be empty)
}

// CodeHierarchy is the decomposition of a dotted hierarchical catalog code.
// Missing trailing segments are empty strings.
type CodeHierarchy struct {
	Main        string
	Title       string
	Subtitle    string
	SubSubtitle string
	Item        string
	Detail      string
}

// TitleKey returns the key identifying the title node this code belongs to.
func (h CodeHierarchy) TitleKey() string {
	return h.Main + "." + h.Title + "." + h.Subtitle
}

// SubtitleKey returns the key identifying the subtitle node this code belongs
// to. Codes without a subsubtitle segment collapse to the title key.
func (h CodeHierarchy) SubtitleKey() string {
	if h.SubSubtitle == "" {
		return h.TitleKey()
	}
	return h.TitleKey() + "." + h.SubSubtitle
}

// ParseCodeHierarchy parses a dotted catalog code into its components.
// Codes with fewer than 3 segments are not part of the hierarchy; for those
// ok is false and the zero hierarchy is returned.
func ParseCodeHierarchy(code string) (h CodeHierarchy, ok bool) {
	parts := strings.Split(code, ".")
	if len(parts) < 3 {
		return CodeHierarchy{}, false
	}
	var segs [6]string
	for i := 0; i < len(parts) && i < 6; i++ {
		segs[i] = parts[i]
	}
	return CodeHierarchy{
		Main:        segs[0],
		Title:       segs[1],
		Subtitle:    segs[2],
		SubSubtitle: segs[3],
		Item:        segs[4],
		Detail:      segs[5],
	}, true
}

// EntryKind classifies a catalog row by its position in the hierarchy.
type EntryKind int

const (
	// EntryContent is a priced line item.
	EntryContent EntryKind = iota
	// EntryTitle is a section heading (e.g. "03.1.1" or "03.1.0").
	EntryTitle
	// EntrySubtitle is a sub-section heading (e.g. "03.1.1.1").
	EntrySubtitle
)

// KindOfCode derives the entry kind from the segment count of a code and
// whether its last present segment is empty or zero. Anything that does not
// look like a heading is content.
func KindOfCode(code string) EntryKind {
	parts := strings.Split(code, ".")
	switch {
	case len(parts) == 3 && (parts[2] == "0" || parts[2] == ""):
		return EntryTitle
	case len(parts) == 4 && (parts[3] == "0" || parts[3] == ""):
		return EntrySubtitle
	default:
		return EntryContent
	}
}

// MatchType tags how a search result was found.
type MatchType int

const (
	// MatchPartial means some of the query tokens matched the designation.
	MatchPartial MatchType = iota
	// MatchComplete means every query token matched the designation.
	MatchComplete
	// MatchSynonym means only dictionary synonyms of the query matched.
	MatchSynonym
	// MatchSemantic means the result was found by embedding similarity.
	MatchSemantic
)

// String returns a stable label for the match type.
func (m MatchType) String() string {
	switch m {
	case MatchComplete:
		return "complete"
	case MatchSynonym:
		return "synonym"
	case MatchSemantic:
		return "semantic"
	default:
		return "partial"
	}
}

// SearchResult is a ranked answer to a catalog query. Results are built per
// query and never persisted.
type SearchResult struct {
	Designation  string
	Price        string
	Unit         string
	Code         string
	Score        float64
	Match        MatchType
	MatchedTerms []string
}
