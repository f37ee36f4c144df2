package dict

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Dictionary document file names inside the data directory.
const (
	synonymsFile    = "technical_dictionary.json"
	correctionsFile = "corrections.json"
	headingsFile    = "title_subtitle_dictionary.json"
)

// FileStore reads and writes the dictionary documents of a data directory.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created if it
// does not exist.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create dictionary directory: %w", err)
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With("component", "dict-store"),
	}, nil
}

// Dir returns the data directory the store is rooted at.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) load(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// save writes v as indented JSON to a temporary file and renames it into
// place, so a crash mid-write never leaves a truncated document behind.
func (s *FileStore) save(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// LoadSynonyms reads the synonym dictionary document.
func (s *FileStore) LoadSynonyms() (map[string][]string, error) {
	var terms map[string][]string
	if err := s.load(synonymsFile, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

// SaveSynonyms writes the synonym dictionary document.
func (s *FileStore) SaveSynonyms(terms map[string][]string) error {
	return s.save(synonymsFile, terms)
}

// LoadCorrections reads the spelling-correction source document, shaped as
// canonical word to misspelled variants.
func (s *FileStore) LoadCorrections() (map[string][]string, error) {
	var corrections map[string][]string
	if err := s.load(correctionsFile, &corrections); err != nil {
		return nil, err
	}
	return corrections, nil
}

// LoadHeadings reads the curated title/subtitle mapping document.
func (s *FileStore) LoadHeadings() (map[string]HeadingConfig, error) {
	var configs map[string]HeadingConfig
	if err := s.load(headingsFile, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// SaveHeadings writes the curated title/subtitle mapping document.
func (s *FileStore) SaveHeadings(configs map[string]HeadingConfig) error {
	return s.save(headingsFile, configs)
}
