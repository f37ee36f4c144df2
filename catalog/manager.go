package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"

	"github.com/batiwork/batisearch/ai"
	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/storage"
	"github.com/batiwork/batisearch/textproc"
)

// Library is a fully loaded catalog: the flat search set (deduplicated by
// designation, pre-tokenized, optionally embedded) and the code hierarchy.
type Library struct {
	Name     string
	Entries  []*core.CatalogEntry
	Tree     *Tree
	LoadedAt time.Time
}

// Manager loads catalog libraries from a directory of CSV exports and caches
// them by name. Concurrent first loads of the same library are collapsed into
// one; the cache has no eviction beyond explicit Reload.
type Manager struct {
	dir       string
	embedder  ai.Embedder
	vectors   storage.VectorRepository
	model     string
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[string]*Library
	group singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager) error

// WithEmbedder sets the embedding provider used to precompute designation
// vectors at load time. Without one, libraries load keyword-only.
func WithEmbedder(embedder ai.Embedder, model string) Option {
	return func(m *Manager) error {
		m.embedder = embedder
		m.model = model
		return nil
	}
}

// WithVectorCache sets a persistent cache consulted before the embedder, so
// reloading a library does not re-encode unchanged designations.
func WithVectorCache(vectors storage.VectorRepository) Option {
	return func(m *Manager) error {
		m.vectors = vectors
		return nil
	}
}

// WithPoolSize sets the worker pool size for embedding precompute.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewManager creates a manager over a directory of catalog CSV files.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		dir:       dir,
		pool:      pool,
		batchSize: 64,
		logger:    slog.Default(),
		cache:     make(map[string]*Library),
	}
	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}
	m.logger = m.logger.With("component", "catalog")
	return m, nil
}

// Library returns the loaded catalog of the given name, loading and caching
// it on first reference. Concurrent callers asking for the same library share
// one load.
func (m *Manager) Library(ctx context.Context, name string) (*Library, error) {
	key := libraryKey(name)

	m.mu.RLock()
	lib, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return lib, nil
	}

	value, err, _ := m.group.Do(key, func() (any, error) {
		m.mu.RLock()
		cached, hit := m.cache[key]
		m.mu.RUnlock()
		if hit {
			return cached, nil
		}

		loaded, loadErr := m.load(ctx, key)
		if loadErr != nil {
			return nil, loadErr
		}
		m.mu.Lock()
		m.cache[key] = loaded
		m.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*Library), nil
}

// Reload drops the cached library and loads it from disk again.
func (m *Manager) Reload(ctx context.Context, name string) (*Library, error) {
	key := libraryKey(name)
	m.mu.Lock()
	delete(m.cache, key)
	m.mu.Unlock()
	return m.Library(ctx, name)
}

// Loaded returns the names of the currently cached libraries, sorted.
func (m *Manager) Loaded() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.cache))
	for name := range m.cache {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListLibraries returns the catalog file names available in the directory,
// sorted.
func (m *Manager) ListLibraries() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, filepath.Base(match))
	}
	sort.Strings(names)
	return names, nil
}

// Release frees the embedding worker pool. The manager should not be used
// after calling Release.
func (m *Manager) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// libraryKey maps a caller-supplied library name to a cache key and file
// name. The base name guards against path traversal.
func libraryKey(name string) string {
	key := filepath.Base(strings.TrimSpace(name))
	if !strings.HasSuffix(strings.ToLower(key), ".csv") {
		key += ".csv"
	}
	return key
}

func (m *Manager) load(ctx context.Context, key string) (*Library, error) {
	started := time.Now()

	f, err := os.Open(filepath.Join(m.dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrLibraryNotFound, key)
		}
		return nil, fmt.Errorf("open library %s: %w", key, err)
	}
	defer f.Close()

	rows, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("parse library %s: %w", key, err)
	}

	entries := make([]*core.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		norm := textproc.Normalize(row.Designation)
		entries = append(entries, &core.CatalogEntry{
			Code:            row.Code,
			Designation:     row.Designation,
			Unit:            row.Unit,
			Prices:          row.Prices,
			NormDesignation: norm,
			Tokens:          textproc.Tokenize(norm, true),
		})
	}

	tree := BuildTree(entries)

	// Flat search set keeps one entry per designation.
	seen := make(map[string]struct{}, len(entries))
	flat := make([]*core.CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		if _, dup := seen[entry.NormDesignation]; dup {
			continue
		}
		seen[entry.NormDesignation] = struct{}{}
		flat = append(flat, entry)
	}

	if m.embedder != nil {
		m.precomputeVectors(ctx, flat)
	}

	m.logger.Info("library loaded",
		"library", key,
		"entries", len(flat),
		"titles", len(tree.Titles),
		"took", time.Since(started))

	return &Library{
		Name:     key,
		Entries:  flat,
		Tree:     tree,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// precomputeVectors fills entry vectors from the persistent cache where
// possible and batches the rest through the embedder on the worker pool.
// Failures are logged and leave the affected entries keyword-only.
func (m *Manager) precomputeVectors(ctx context.Context, entries []*core.CatalogEntry) {
	var misses []*core.CatalogEntry
	for _, entry := range entries {
		if m.vectors != nil {
			vector, err := m.vectors.GetVector(ctx, m.vectorID(entry))
			if err == nil {
				entry.Vector = vector
				continue
			}
		}
		misses = append(misses, entry)
	}
	if len(misses) == 0 {
		return
	}
	m.logger.Info("computing embeddings", "count", len(misses))

	var wg sync.WaitGroup
	for start := 0; start < len(misses); start += m.batchSize {
		end := start + m.batchSize
		if end > len(misses) {
			end = len(misses)
		}
		batch := misses[start:end]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			m.embedBatch(ctx, batch)
		}
		if err := m.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
}

func (m *Manager) embedBatch(ctx context.Context, batch []*core.CatalogEntry) {
	texts := make([]string, len(batch))
	for i, entry := range batch {
		texts[i] = entry.Designation
	}

	vectors, err := m.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		m.logger.Error("embedding batch failed", "count", len(batch), "err", err)
		return
	}
	if len(vectors) != len(batch) {
		m.logger.Error("embedder returned wrong vector count",
			"want", len(batch), "got", len(vectors))
		return
	}

	for i, entry := range batch {
		entry.Vector = vectors[i]
		if m.vectors == nil {
			continue
		}
		if err := m.vectors.PutVector(ctx, m.vectorID(entry), vectors[i]); err != nil {
			m.logger.Warn("could not cache vector", "designation", entry.Designation, "err", err)
		}
	}
}

// vectorID keys the persistent vector cache by model and normalized
// designation, so switching models never serves stale vectors.
func (m *Manager) vectorID(entry *core.CatalogEntry) core.ID {
	return core.IDFromContent(m.model + "\x00" + entry.NormDesignation)
}
