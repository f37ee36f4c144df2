package dict

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/batiwork/batisearch/textproc"
)

// DefaultMaxExpansions caps how many terms Expand returns when callers pass a
// non-positive limit.
const DefaultMaxExpansions = 10

// Dictionary is the technical synonym dictionary with a reverse index for
// query expansion. It is safe for concurrent use; mutation through AddSynonym
// or SetTerm rebuilds the reverse index and persists the dictionary when a
// store is attached.
type Dictionary struct {
	mu      sync.RWMutex
	terms   map[string][]string            // normalized canonical term -> synonyms
	reverse map[string]map[string]struct{} // normalized synonym -> normalized canonical terms
	store   *FileStore
	logger  *slog.Logger
}

// Option configures a Dictionary.
type Option func(*Dictionary)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dictionary) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// WithStore attaches a persistence target; mutations are saved through it.
func WithStore(store *FileStore) Option {
	return func(d *Dictionary) {
		d.store = store
	}
}

// NewDictionary creates a dictionary from a canonical-term to synonyms map.
// Canonical keys are normalized so lookups stay consistent with query tokens.
func NewDictionary(terms map[string][]string, opts ...Option) *Dictionary {
	d := &Dictionary{
		terms:  make(map[string][]string, len(terms)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	for canonical, synonyms := range terms {
		d.terms[textproc.Normalize(canonical)] = append([]string(nil), synonyms...)
	}
	d.rebuildReverseIndex()
	return d
}

// LoadDictionary creates a dictionary from the store's synonym document.
// A missing or malformed document degrades to an empty dictionary.
func LoadDictionary(store *FileStore, logger *slog.Logger) *Dictionary {
	if logger == nil {
		logger = slog.Default()
	}
	terms, err := store.LoadSynonyms()
	if err != nil {
		logger.Warn("synonym dictionary unavailable, starting empty", "err", err)
		terms = nil
	}
	d := NewDictionary(terms, WithLogger(logger), WithStore(store))
	logger.Info("synonym dictionary loaded", "terms", d.Len())
	return d
}

// rebuildReverseIndex recomputes the synonym-to-canonical index.
// Callers must hold the write lock (or be the constructor).
func (d *Dictionary) rebuildReverseIndex() {
	d.reverse = make(map[string]map[string]struct{})
	for canonical, synonyms := range d.terms {
		for _, synonym := range synonyms {
			key := textproc.Normalize(synonym)
			if d.reverse[key] == nil {
				d.reverse[key] = make(map[string]struct{})
			}
			d.reverse[key][canonical] = struct{}{}
		}
	}
}

// Expand widens a query with dictionary synonyms.
//
// The query is tokenized without technical preservation. Every token present
// in the reverse index pulls in all synonyms of every canonical term it maps
// to, not just the matching one; a dictionary that groups loosely related
// terms under one canonical entry deliberately injects them all. The original
// query tokens are always part of the result.
//
// Truncation to maxTerms is deterministic: query tokens come first in input
// order, then synonyms in first-seen order with canonical terms visited in
// sorted order. Returned terms are normalized.
func (d *Dictionary) Expand(query string, maxTerms int) []string {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxExpansions
	}

	tokens := textproc.Tokenize(textproc.Normalize(query), false)

	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]struct{}, maxTerms)
	expanded := make([]string, 0, maxTerms)
	add := func(term string) {
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		expanded = append(expanded, term)
	}

	for _, token := range tokens {
		add(token)
	}
	for _, token := range tokens {
		canonicals, ok := d.reverse[token]
		if !ok {
			continue
		}
		ordered := make([]string, 0, len(canonicals))
		for canonical := range canonicals {
			ordered = append(ordered, canonical)
		}
		sort.Strings(ordered)
		for _, canonical := range ordered {
			for _, synonym := range d.terms[canonical] {
				add(textproc.Normalize(synonym))
			}
		}
	}

	if len(expanded) > maxTerms {
		expanded = expanded[:maxTerms]
	}
	return expanded
}

// AddSynonym registers a new synonym for a canonical term. The canonical
// entry is created, seeded with itself, when absent. Duplicate synonyms are
// detected case-insensitively and leave the dictionary untouched. On actual
// insertion the reverse index is rebuilt and the dictionary persisted.
// It reports whether the synonym was inserted.
func (d *Dictionary) AddSynonym(canonical, synonym string) (bool, error) {
	key := textproc.Normalize(strings.ToLower(canonical))

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.terms[key]; !ok {
		d.terms[key] = []string{canonical}
	}

	lower := strings.ToLower(synonym)
	for _, existing := range d.terms[key] {
		if strings.ToLower(existing) == lower {
			d.logger.Debug("synonym already present", "term", key, "synonym", synonym)
			return false, nil
		}
	}

	d.terms[key] = append(d.terms[key], synonym)
	d.rebuildReverseIndex()
	d.logger.Info("synonym added", "term", key, "synonym", synonym)
	return true, d.persistLocked()
}

// SetTerm replaces the full synonym list of a canonical term, rebuilds the
// reverse index and persists the dictionary.
func (d *Dictionary) SetTerm(canonical string, synonyms []string) error {
	key := textproc.Normalize(strings.ToLower(canonical))

	d.mu.Lock()
	defer d.mu.Unlock()

	d.terms[key] = append([]string(nil), synonyms...)
	d.rebuildReverseIndex()
	return d.persistLocked()
}

// persistLocked saves the dictionary through the attached store, if any.
// Callers must hold the write lock.
func (d *Dictionary) persistLocked() error {
	if d.store == nil {
		return nil
	}
	if err := d.store.SaveSynonyms(d.terms); err != nil {
		d.logger.Error("failed to persist synonym dictionary", "err", err)
		return err
	}
	return nil
}

// Snapshot returns a copy of the dictionary contents.
func (d *Dictionary) Snapshot() map[string][]string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string][]string, len(d.terms))
	for canonical, synonyms := range d.terms {
		out[canonical] = append([]string(nil), synonyms...)
	}
	return out
}

// Len returns the number of canonical terms.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.terms)
}

// DefaultSynonyms is the seed dictionary written when no synonym document
// exists yet.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"remblai":      {"remblai", "remblayage", "comblement", "remplissage"},
		"terrassement": {"terrassement", "excavation", "deblai", "fouille"},
		"fouille":      {"fouille", "excavation", "creusement", "terrassement"},
		"semelle":      {"semelle", "fondation", "base"},
		"beton":        {"beton", "mortier", "ciment"},
		"maconnerie":   {"maconnerie", "construction", "batiment"},
		"peinture":     {"peinture", "badigeon", "revetement", "finition", "enduit"},
	}
}
