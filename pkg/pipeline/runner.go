package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jarlens/pkg/acquire"
	"github.com/matzehuels/jarlens/pkg/javaapi"
	"github.com/matzehuels/jarlens/pkg/maven"
)

// Resolver produces the dependency list of a manifest.
type Resolver interface {
	ResolveTree(ctx context.Context, path string) ([]maven.Dependency, error)
}

// Acquirer turns a coordinate into archive bytes.
type Acquirer interface {
	Acquire(ctx context.Context, c maven.Coordinate) (*acquire.Bundle, error)
}

// Extractor turns archive bytes into class metadata.
type Extractor interface {
	Extract(ctx context.Context, b *acquire.Bundle) ([]javaapi.Class, error)
}

// Cache memoizes extraction results per coordinate.
type Cache interface {
	CachedArchive(c maven.Coordinate) ([]javaapi.Class, bool)
	CacheArchive(c maven.Coordinate, classes []javaapi.Class)
}

// Options configures a [Runner].
type Options struct {
	Resolver  Resolver
	Acquirer  Acquirer
	Extractor Extractor
	Cache     Cache // optional; nil disables archive memoization
	Logger    *log.Logger
}

// Runner executes analysis runs. It holds no per-run state, so one Runner
// can serve several runs.
type Runner struct {
	resolver  Resolver
	acquirer  Acquirer
	extractor Extractor
	cache     Cache
	logger    *log.Logger
}

// NewRunner creates a runner. A nil logger uses log.Default().
func NewRunner(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Runner{
		resolver:  opts.Resolver,
		acquirer:  opts.Acquirer,
		extractor: opts.Extractor,
		cache:     opts.Cache,
		logger:    opts.Logger,
	}
}

// Analyze resolves the manifest at path and extracts the API of every
// runtime dependency. Test and provided dependencies are listed in
// Report.Excluded and not acquired.
//
// The returned error is non-nil only when the root manifest cannot be
// resolved or ctx is cancelled; in the latter case the partial report is
// returned alongside the error.
func (r *Runner) Analyze(ctx context.Context, path string) (*Report, error) {
	report := &Report{Manifest: path, Artifacts: []Artifact{}}

	resolveStart := time.Now()
	deps, err := r.resolver.ResolveTree(ctx, path)
	if err != nil {
		return nil, err
	}
	report.Resolved = len(deps)
	report.Stats.ResolveTime = time.Since(resolveStart)

	r.logger.Info("resolved dependencies",
		"count", len(deps),
		"duration", report.Stats.ResolveTime.Round(time.Millisecond))

	analyzeStart := time.Now()
	defer func() { report.Stats.AnalyzeTime = time.Since(analyzeStart) }()

	for _, d := range deps {
		if d.Excluded() {
			report.Excluded = append(report.Excluded, d)
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		art, err := r.AnalyzeCoordinate(ctx, d.Coordinate)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return report, ctxErr
			}
			f := NewFailure(d.Coordinate, err)
			r.logger.Warn("dependency not analyzed", "coordinate", f.Coordinate, "code", f.Code, "reason", f.Message)
			report.Failures = append(report.Failures, f)
			continue
		}
		report.add(art)
	}

	r.logger.Info("analysis complete",
		"artifacts", len(report.Artifacts),
		"failures", len(report.Failures),
		"classes", report.Stats.Classes)
	return report, nil
}

// AnalyzeCoordinate extracts the API of a single coordinate, consulting the
// archive cache first.
func (r *Runner) AnalyzeCoordinate(ctx context.Context, c maven.Coordinate) (*Artifact, error) {
	if r.cache != nil {
		if classes, ok := r.cache.CachedArchive(c); ok {
			r.logger.Debug("archive cache hit", "coordinate", c)
			return &Artifact{Coordinate: c, Cached: true, Classes: classes}, nil
		}
	}

	bundle, err := r.acquirer.Acquire(ctx, c)
	if err != nil {
		return nil, err
	}
	classes, err := r.extractor.Extract(ctx, bundle)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.CacheArchive(c, classes)
	}

	r.logger.Info("analyzed", "coordinate", c, "classes", len(classes), "sources", bundle.SourcesMode)
	return &Artifact{Coordinate: c, Classes: classes}, nil
}

func (rep *Report) add(a *Artifact) {
	rep.Artifacts = append(rep.Artifacts, *a)
	rep.Stats.Classes += len(a.Classes)
	if a.Cached {
		rep.Stats.CacheHits++
	}
}
