package resolver

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/fsutil"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/observability"
)

// Cache is the memoization the resolver reads through. [store.Store]
// implements it.
type Cache interface {
	CachedManifest(path string) (*maven.Project, bool)
	CacheManifest(path string, p *maven.Project)
	CachedTree(path string) ([]maven.Dependency, bool)
	CacheTree(path string, deps []maven.Dependency)
}

// POMFetcher downloads a POM from a remote repository.
// The maven integration client implements it.
type POMFetcher interface {
	FetchPOM(ctx context.Context, coord maven.Coordinate) ([]byte, error)
}

// Options configures a [Resolver].
type Options struct {
	LocalRepository string      // Root of the local repository layout ("" disables local lookups)
	Remote          POMFetcher  // Remote fallback (nil disables remote lookups)
	Cache           Cache       // Memoization (nil disables caching)
	Logger          *log.Logger // Subtree failures and parent warnings (default: log.Default())
}

// Resolver parses manifests and resolves their dependency trees.
//
// A Resolver is safe for concurrent use if its Cache and POMFetcher are.
type Resolver struct {
	local  string
	remote POMFetcher
	cache  Cache
	logger *log.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Resolver{
		local:  opts.LocalRepository,
		remote: opts.Remote,
		cache:  opts.Cache,
		logger: opts.Logger,
	}
}

// ParseManifest reads and parses the POM at path. The result is cached by
// absolute path; a cached entry is returned without touching the file.
//
// Malformed XML fails with code MANIFEST_PARSE. An unreadable file fails
// with INVALID_INPUT.
func (r *Resolver) ParseManifest(path string) (*maven.Project, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "manifest path %q", path)
	}
	if r.cache != nil {
		if p, ok := r.cache.CachedManifest(abs); ok {
			return p, nil
		}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read manifest %s", abs)
	}
	p, err := maven.ParsePOM(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "%s", abs)
	}
	r.warnInherited(abs, p)

	if r.cache != nil {
		r.cache.CacheManifest(abs, p)
	}
	return p, nil
}

func (r *Resolver) warnInherited(path string, p *maven.Project) {
	missing := p.MissingFields()
	if len(missing) == 0 {
		return
	}
	if p.Parent != nil {
		r.logger.Warn("parent inheritance not supported; fields left empty",
			"manifest", path, "fields", missing, "parent", p.Parent.String())
		return
	}
	r.logger.Warn("manifest has empty coordinate fields", "manifest", path, "fields", missing)
}

// ResolveTree returns the deduplicated transitive dependency set of the
// manifest at path, in depth-first declaration order.
//
// Only a failure to read or parse the root manifest, or cancellation of ctx,
// is returned as an error. Failures below the root abandon the affected
// subtree and are logged. Successful results are cached under the absolute
// root path.
func (r *Resolver) ResolveTree(ctx context.Context, path string) (deps []maven.Dependency, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "manifest path %q", path)
	}
	if r.cache != nil {
		if deps, ok := r.cache.CachedTree(abs); ok {
			return deps, nil
		}
	}

	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, abs)
	defer func() {
		hooks.OnResolveComplete(ctx, abs, len(deps), time.Since(start), err)
	}()

	root, err := r.ParseManifest(abs)
	if err != nil {
		return nil, err
	}

	w := &walk{processed: make(map[maven.Coordinate]bool), result: []maven.Dependency{}}
	r.expand(ctx, w, root.Dependencies, true)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.CacheTree(abs, w.result)
	}
	return w.result, nil
}

// walk is the state threaded through one ResolveTree call.
type walk struct {
	processed map[maven.Coordinate]bool
	result    []maven.Dependency
}

func (r *Resolver) expand(ctx context.Context, w *walk, deps []maven.Dependency, top bool) {
	for _, d := range deps {
		if ctx.Err() != nil {
			return
		}
		if d.Optional || w.processed[d.Coordinate] {
			continue
		}
		if !top && d.Excluded() {
			continue
		}

		w.processed[d.Coordinate] = true
		w.result = append(w.result, d)

		if d.Excluded() {
			continue
		}
		if err := d.Validate(); err != nil {
			r.logger.Debug("not expanding dependency", "dependency", maven.Describe(d), "reason", errors.UserMessage(err))
			continue
		}

		child, err := r.childManifest(ctx, d.Coordinate)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			observability.Resolve().OnSubtreeFailed(ctx, d.String(), err)
			r.logger.Warn("abandoning subtree", "dependency", d.String(), "err", errors.UserMessage(err))
			continue
		}
		r.expand(ctx, w, child.Dependencies, false)
	}
}

// childManifest obtains the POM of a dependency: local layout first, then
// the remote repository. A fetched POM is written to the local layout.
func (r *Resolver) childManifest(ctx context.Context, c maven.Coordinate) (*maven.Project, error) {
	var local string
	if r.local != "" {
		local = maven.LocalPath(r.local, c, maven.ClassifierNone, maven.ExtPOM)
		if fsutil.Exists(local) {
			return r.ParseManifest(local)
		}
	}
	if r.remote == nil {
		return nil, errors.New(errors.ErrCodeNotFoundLocally, "no manifest for %s", c)
	}

	data, err := r.remote.FetchPOM(ctx, c)
	if err != nil {
		return nil, err
	}
	p, err := maven.ParsePOM(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestParse, err, "remote manifest for %s", c)
	}
	if local == "" {
		return p, nil
	}

	if err := fsutil.WriteFileAtomic(local, data, 0o644); err != nil {
		r.logger.Debug("could not persist manifest", "path", local, "err", err)
		return p, nil
	}
	r.warnInherited(local, p)
	if r.cache != nil {
		r.cache.CacheManifest(local, p)
	}
	return p, nil
}
