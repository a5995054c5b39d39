package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jarlens/pkg/javaapi"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/observability"
)

// DefaultFlushDelay is the quiet period after the last write before the
// store is written to disk.
const DefaultFlushDelay = 30 * time.Second

// Store names, as used in Stats and cache hooks.
const (
	Manifests = "manifests"
	Trees     = "trees"
	Archives  = "archives"
	Sidecars  = "sidecars"
	Docs      = "docs"
)

// Options configures a [Store].
type Options struct {
	FlushDelay time.Duration // Debounce delay (default: DefaultFlushDelay)
	Logger     *log.Logger   // Warnings for corrupt snapshots and failed flushes
}

// Store is the persistent memoization layer. It holds five independent
// tables (manifests and resolved trees keyed by manifest path, extracted
// classes keyed by coordinate, sidecar source text keyed by [SidecarKey],
// and class documentation keyed by fully-qualified class name).
//
// Every table lives in memory and is mirrored to dir. Writes reset a debounce
// timer; after FlushDelay without further writes all dirty tables are flushed
// in one pass. Close forces a final flush.
//
// A Store is safe for concurrent use.
type Store struct {
	dir    string
	delay  time.Duration
	logger *log.Logger

	manifests *table[maven.Project]
	trees     *table[[]maven.Dependency]
	archives  *table[[]javaapi.Class]
	sidecars  *table[string]
	docs      *table[string]

	flushMu sync.Mutex // serializes Flush and Clear

	mu     sync.Mutex // guards timer and closed
	timer  *time.Timer
	closed bool
}

// Open creates the cache directory if needed and eagerly loads every
// snapshot found there. Missing or corrupt snapshot files are logged and
// treated as empty tables; only an unusable directory is an error.
func Open(dir string, opts Options) (*Store, error) {
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = DefaultFlushDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	s := &Store{
		dir:       dir,
		delay:     opts.FlushDelay,
		logger:    opts.Logger,
		manifests: newTable[maven.Project](Manifests, false),
		trees:     newTable[[]maven.Dependency](Trees, false),
		archives:  newTable[[]javaapi.Class](Archives, true),
		sidecars:  newTable[string](Sidecars, false),
		docs:      newTable[string](Docs, false),
	}
	for _, t := range s.tables() {
		if err := t.load(dir); err != nil {
			s.logger.Warn("ignoring cache snapshot", "store", t.label(), "err", err)
		}
	}
	return s, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) tables() []persister {
	return []persister{s.manifests, s.trees, s.archives, s.sidecars, s.docs}
}

// =============================================================================
// Read-through accessors (pure lookups)
// =============================================================================

// CachedManifest returns the parsed manifest stored for an absolute path.
func (s *Store) CachedManifest(path string) (*maven.Project, bool) {
	p, ok := lookup(s.manifests, path)
	if !ok {
		return nil, false
	}
	p.Dependencies = slices.Clone(p.Dependencies)
	return &p, true
}

// CachedTree returns the resolved set stored for a root manifest path.
func (s *Store) CachedTree(path string) ([]maven.Dependency, bool) {
	deps, ok := lookup(s.trees, path)
	return slices.Clone(deps), ok
}

// CachedArchive returns the classes extracted for a coordinate.
func (s *Store) CachedArchive(c maven.Coordinate) ([]javaapi.Class, bool) {
	classes, ok := lookup(s.archives, c.String())
	return slices.Clone(classes), ok
}

// CachedSidecarText returns source text stored under a [SidecarKey].
func (s *Store) CachedSidecarText(key string) (string, bool) {
	return lookup(s.sidecars, key)
}

// CachedDoc returns the documentation text stored for a qualified class name.
func (s *Store) CachedDoc(qualifiedName string) (string, bool) {
	return lookup(s.docs, qualifiedName)
}

func lookup[V any](t *table[V], key string) (V, bool) {
	v, ok := t.get(key)
	if ok {
		observability.Cache().OnCacheHit(context.Background(), t.name)
	} else {
		observability.Cache().OnCacheMiss(context.Background(), t.name)
	}
	return v, ok
}

// =============================================================================
// Write accessors
// =============================================================================

// CacheManifest stores a parsed manifest under its absolute path.
func (s *Store) CacheManifest(path string, p *maven.Project) {
	s.manifests.set(path, *p)
	s.schedule()
}

// CacheTree stores a resolved set under its root manifest path.
func (s *Store) CacheTree(path string, deps []maven.Dependency) {
	s.trees.set(path, slices.Clone(deps))
	s.schedule()
}

// CacheArchive stores the classes extracted for a coordinate.
func (s *Store) CacheArchive(c maven.Coordinate, classes []javaapi.Class) {
	s.archives.set(c.String(), slices.Clone(classes))
	s.schedule()
}

// CacheSidecarText stores source text under a [SidecarKey].
func (s *Store) CacheSidecarText(key, text string) {
	s.sidecars.set(key, text)
	s.schedule()
}

// CacheDoc stores documentation text for a qualified class name.
func (s *Store) CacheDoc(qualifiedName, text string) {
	s.docs.set(qualifiedName, text)
	s.schedule()
}

// SidecarKey builds the composite key for a sidecar entry:
// "groupId:artifactId:version!path/in/archive".
func SidecarKey(c maven.Coordinate, entry string) string {
	return c.String() + "!" + entry
}

// =============================================================================
// Persistence
// =============================================================================

// schedule (re)starts the debounce timer.
func (s *Store) schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.flushLater)
		return
	}
	s.timer.Reset(s.delay)
}

func (s *Store) flushLater() {
	if err := s.Flush(context.Background()); err != nil {
		s.logger.Warn("cache flush failed", "dir", s.dir, "err", err)
	}
}

// Flush writes every dirty table to disk, in parallel. Clean tables are
// skipped, so calling Flush repeatedly is cheap.
func (s *Store) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	start := time.Now()
	written := make([]bool, len(s.tables()))
	g, _ := errgroup.WithContext(ctx)
	for i, t := range s.tables() {
		g.Go(func() error {
			ok, err := t.save(s.dir)
			if err != nil {
				return fmt.Errorf("flush %s: %w", t.label(), err)
			}
			written[i] = ok
			return nil
		})
	}
	err := g.Wait()

	n := 0
	for _, ok := range written {
		if ok {
			n++
		}
	}
	if n > 0 || err != nil {
		observability.Cache().OnCacheFlush(ctx, n, time.Since(start), err)
		s.logger.Debug("cache flushed", "stores", n, "duration", time.Since(start).Round(time.Millisecond))
	}
	return err
}

// Close stops the debounce timer and forces a final flush. Further writes
// update memory only.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()
	return s.Flush(context.Background())
}

// Clear wipes every table and deletes the cache directory, recreating it
// empty. Subsequent lookups miss until recomputed values are written.
func (s *Store) Clear() error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mu.Unlock()

	for _, t := range s.tables() {
		t.reset()
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove cache dir: %w", err)
	}
	return os.MkdirAll(s.dir, 0o755)
}

// Stats returns the number of entries per store.
func (s *Store) Stats() map[string]int {
	stats := make(map[string]int, 5)
	for _, t := range s.tables() {
		stats[t.label()] = t.len()
	}
	return stats
}

// DefaultDir returns the cache directory following the XDG convention:
// $XDG_CACHE_HOME/jarlens, or ~/.cache/jarlens.
func DefaultDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "jarlens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "jarlens"), nil
}
