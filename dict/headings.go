package dict

import (
	"log/slog"
	"strings"
	"sync"
)

// HeadingConfig is the curated mapping for one requested section title: the
// substring patterns that identify matching catalog titles, and per-subtitle
// keyword lists used to narrow within a matched title.
type HeadingConfig struct {
	Patterns  []string            `json:"patterns"`
	Subtitles map[string][]string `json:"subtitles"`
}

// HeadingDictionary holds curated title/subtitle mappings keyed by the
// requested (human-authored) section label, upper-cased. It is safe for
// concurrent use.
type HeadingDictionary struct {
	mu      sync.RWMutex
	configs map[string]HeadingConfig
	store   *FileStore
	logger  *slog.Logger
}

// NewHeadingDictionary creates a heading dictionary from curated configs.
func NewHeadingDictionary(configs map[string]HeadingConfig, store *FileStore, logger *slog.Logger) *HeadingDictionary {
	if logger == nil {
		logger = slog.Default()
	}
	h := &HeadingDictionary{
		configs: make(map[string]HeadingConfig, len(configs)),
		store:   store,
		logger:  logger.With("component", "headings"),
	}
	for label, cfg := range configs {
		h.configs[strings.ToUpper(label)] = cfg
	}
	return h
}

// LoadHeadingDictionary creates a heading dictionary from the store's mapping
// document. When the document is missing the default mapping is installed and
// saved; a malformed document degrades to the defaults without saving.
func LoadHeadingDictionary(store *FileStore, logger *slog.Logger) *HeadingDictionary {
	if logger == nil {
		logger = slog.Default()
	}
	configs, err := store.LoadHeadings()
	if err != nil {
		logger.Warn("heading dictionary unavailable, using defaults", "err", err)
		h := NewHeadingDictionary(DefaultHeadings(), store, logger)
		if saveErr := store.SaveHeadings(h.Snapshot()); saveErr != nil {
			logger.Warn("could not write default heading dictionary", "err", saveErr)
		}
		return h
	}
	h := NewHeadingDictionary(configs, store, logger)
	logger.Info("heading dictionary loaded", "titles", h.Len())
	return h
}

// Config returns the curated mapping for a requested label, if any.
func (h *HeadingDictionary) Config(label string) (HeadingConfig, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cfg, ok := h.configs[strings.ToUpper(label)]
	return cfg, ok
}

// Set installs or replaces the mapping for a requested label and persists the
// dictionary.
func (h *HeadingDictionary) Set(label string, cfg HeadingConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.configs[strings.ToUpper(label)] = cfg
	if h.store == nil {
		return nil
	}
	if err := h.store.SaveHeadings(h.snapshotLocked()); err != nil {
		h.logger.Error("failed to persist heading dictionary", "err", err)
		return err
	}
	return nil
}

// Snapshot returns a copy of the heading configs.
func (h *HeadingDictionary) Snapshot() map[string]HeadingConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshotLocked()
}

func (h *HeadingDictionary) snapshotLocked() map[string]HeadingConfig {
	out := make(map[string]HeadingConfig, len(h.configs))
	for label, cfg := range h.configs {
		out[label] = cfg
	}
	return out
}

// Len returns the number of curated titles.
func (h *HeadingDictionary) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.configs)
}

// DefaultHeadings is the seed title/subtitle mapping written when no mapping
// document exists yet.
func DefaultHeadings() map[string]HeadingConfig {
	return map[string]HeadingConfig{
		"BATIMENT NEUF": {
			Patterns: []string{"BATIMENT", "NEUF", "REZ DE CHAUSSEE", "CONSTRUCTION"},
			Subtitles: map[string][]string{
				"TERRASSEMENT":   {"INSTALLATION GENERALE DE CHANTIER", "TRAVAUX PREPARATOIRES ET TERRASSEMENT", "IMPLANTATION", "TERRASSEMENT GENERAL"},
				"INFRASTRUCTURE": {"FONDATION", "SEMELLE", "RADIER", "SOUBASSEMENT", "INFRASTRUCTURE"},
				"ELEVATION":      {"SUPERSTRUCTURE", "MUR", "POTEAU", "POUTRE", "DALLE", "VOILE", "MACONNERIE"},
				"TOITURE":        {"CHARPENTE", "COUVERTURE", "TOITURE", "TUILE"},
			},
		},
		"REFECTION BATIMENT": {
			Patterns: []string{"REFECTION", "RENOVATION", "REPARATION", "REHABILITATION"},
			Subtitles: map[string][]string{
				"TERRASSEMENT":   {"REPRISE FONDATION", "TERRASSEMENT REFECTION"},
				"INFRASTRUCTURE": {"CONSOLIDATION", "REPRISE INFRASTRUCTURE"},
				"ELEVATION":      {"REFECTION ELEVATION", "REPARATION MUR"},
				"TOITURE":        {"REFECTION TOITURE", "REPARATION CHARPENTE"},
				"FINITION":       {"ENDUIT", "CREPISSAGE", "PEINTURE", "REVETEMENT"},
			},
		},
	}
}
