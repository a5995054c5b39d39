package acquire

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jarlens/pkg/errors"
	"github.com/matzehuels/jarlens/pkg/maven"
	"github.com/matzehuels/jarlens/pkg/observability"
)

// State is a step of the acquisition state machine.
type State string

const (
	StateCheckLocalMain    State = "CheckLocalMain"
	StateCheckLocalSources State = "CheckLocalSources"
	StateDecide            State = "Decide"
	StateDownload          State = "Download"
	StateOfflineFallback   State = "OfflineFallback"
	StateResolved          State = "Resolved"
	StateSkipped           State = "Skipped"
	StateBlocked           State = "Blocked"
)

// Bundle holds the archives obtained for one coordinate. It lives for one
// extraction pass and is never persisted.
type Bundle struct {
	Coordinate maven.Coordinate
	// Primary is the archive to extract from. In sources mode it is the
	// sources jar, otherwise the compiled jar.
	Primary     []byte
	SourcesMode bool
	// Sources and Javadoc are best-effort sidecars; nil when unavailable.
	// Sources is always nil in sources mode.
	Sources []byte
	Javadoc []byte
}

// Fetcher downloads an archive from a remote repository.
// The maven integration client implements it.
type Fetcher interface {
	FetchArchive(ctx context.Context, coord maven.Coordinate, classifier string) ([]byte, error)
}

// Options configures an [Acquirer].
type Options struct {
	LocalRepository string           // Root of the local repository layout
	Remote          Fetcher          // Remote repository (nil: downloads fail with REMOTE_FETCH)
	Decisions       DecisionProvider // Operator (default: skip everything)
	Offline         bool             // Initial offline flag
	// NoRemoteSidecars restricts sidecar enrichment to the local repository.
	NoRemoteSidecars bool
	Logger           *log.Logger // default: log.Default()
}

// Acquirer resolves coordinates to archive bytes.
//
// Acquire may be called concurrently. Coordinates that need a decision are
// handled one at a time.
type Acquirer struct {
	local            LocalRepository
	remote           Fetcher
	decisions        DecisionProvider
	noRemoteSidecars bool
	logger           *log.Logger

	offline  atomic.Bool
	promptMu sync.Mutex
}

// New creates an Acquirer.
func New(opts Options) *Acquirer {
	if opts.Decisions == nil {
		opts.Decisions = Fixed{Choice: StrategySkip}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	a := &Acquirer{
		local:            LocalRepository{Root: opts.LocalRepository},
		remote:           opts.Remote,
		decisions:        opts.Decisions,
		noRemoteSidecars: opts.NoRemoteSidecars,
		logger:           opts.Logger,
	}
	a.offline.Store(opts.Offline)
	return a
}

// Offline reports whether the acquirer refuses network access.
func (a *Acquirer) Offline() bool { return a.offline.Load() }

// SetOffline sets or clears the offline flag.
func (a *Acquirer) SetOffline(v bool) { a.offline.Store(v) }

// Acquire returns the archives for c.
//
// Errors carry one of the codes INVALID_COORDINATE, USER_SKIPPED,
// DOWNLOAD_DECLINED, OFFLINE_BLOCKED, REMOTE_FETCH or NOT_FOUND_REMOTELY.
// All of them are specific to c.
func (a *Acquirer) Acquire(ctx context.Context, c maven.Coordinate) (*Bundle, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b, err := a.primary(ctx, c)
	if err != nil {
		return nil, err
	}
	a.enrich(ctx, b)
	return b, nil
}

func (a *Acquirer) primary(ctx context.Context, c maven.Coordinate) (*Bundle, error) {
	if data, err := a.local.Read(c, maven.ClassifierNone); err == nil {
		a.transition(ctx, c, StateCheckLocalMain, StateResolved)
		return &Bundle{Coordinate: c, Primary: data}, nil
	}
	a.transition(ctx, c, StateCheckLocalMain, StateCheckLocalSources)

	if data, err := a.local.Read(c, maven.ClassifierSources); err == nil {
		a.transition(ctx, c, StateCheckLocalSources, StateResolved)
		return &Bundle{Coordinate: c, Primary: data, SourcesMode: true}, nil
	}
	a.transition(ctx, c, StateCheckLocalSources, StateDecide)

	return a.decide(ctx, c)
}

func (a *Acquirer) decide(ctx context.Context, c maven.Coordinate) (*Bundle, error) {
	if a.Offline() {
		a.transition(ctx, c, StateDecide, StateBlocked)
		return nil, errors.New(errors.ErrCodeOfflineBlocked, "%s: offline and not in local repository", c)
	}

	a.promptMu.Lock()
	defer a.promptMu.Unlock()

	// Another coordinate may have switched to offline while we waited.
	if a.Offline() {
		a.transition(ctx, c, StateDecide, StateBlocked)
		return nil, errors.New(errors.ErrCodeOfflineBlocked, "%s: offline and not in local repository", c)
	}

	strategy, err := a.decisions.Choose(ctx, c)
	if err != nil {
		a.logger.Debug("decision failed, skipping", "coordinate", c.String(), "err", err)
		strategy = StrategySkip
	}
	a.logger.Debug("decision", "coordinate", c.String(), "strategy", strategy)

	switch strategy {
	case StrategySources:
		data, err := a.download(ctx, c, KindSources)
		if err != nil {
			return nil, err
		}
		a.transition(ctx, c, StateDownload, StateResolved)
		return &Bundle{Coordinate: c, Primary: data, SourcesMode: true}, nil

	case StrategyMain:
		data, err := a.download(ctx, c, KindMain)
		if err != nil {
			return nil, err
		}
		a.transition(ctx, c, StateDownload, StateResolved)
		return &Bundle{Coordinate: c, Primary: data}, nil

	case StrategyBoth:
		return a.downloadBoth(ctx, c)

	case StrategyOffline:
		a.SetOffline(true)
		a.transition(ctx, c, StateDecide, StateOfflineFallback)
		a.transition(ctx, c, StateOfflineFallback, StateBlocked)
		return nil, errors.New(errors.ErrCodeOfflineBlocked, "%s: offline mode selected", c)

	default:
		a.transition(ctx, c, StateDecide, StateSkipped)
		return nil, errors.New(errors.ErrCodeUserSkipped, "%s: skipped", c)
	}
}

// downloadBoth fetches sources then the primary jar. Sources mode wins when
// the sources download succeeded; either half alone is enough to resolve.
func (a *Acquirer) downloadBoth(ctx context.Context, c maven.Coordinate) (*Bundle, error) {
	src, srcErr := a.download(ctx, c, KindSources)
	jar, jarErr := a.download(ctx, c, KindMain)

	switch {
	case srcErr == nil:
		a.transition(ctx, c, StateDownload, StateResolved)
		return &Bundle{Coordinate: c, Primary: src, SourcesMode: true}, nil
	case jarErr == nil:
		a.transition(ctx, c, StateDownload, StateResolved)
		return &Bundle{Coordinate: c, Primary: jar}, nil
	}
	return nil, srcErr
}

// download confirms, fetches and persists one archive.
func (a *Acquirer) download(ctx context.Context, c maven.Coordinate, kind Kind) ([]byte, error) {
	ok, err := a.decisions.Confirm(ctx, c, kind)
	if err != nil || !ok {
		a.logger.Debug("download declined", "coordinate", c.String(), "archive", kind)
		return nil, errors.New(errors.ErrCodeDownloadDeclined, "%s: %s download declined", c, kind)
	}
	if a.remote == nil {
		return nil, errors.New(errors.ErrCodeRemoteFetch, "%s: no remote repository configured", c)
	}

	a.transition(ctx, c, StateDecide, StateDownload)
	return a.fetch(ctx, c, kind.classifier())
}

// fetch downloads one archive and writes it to the local repository. A
// failed write is logged; the bytes are still returned.
func (a *Acquirer) fetch(ctx context.Context, c maven.Coordinate, classifier string) ([]byte, error) {
	start := time.Now()
	data, err := a.remote.FetchArchive(ctx, c, classifier)
	if err != nil {
		return nil, err
	}
	observability.Acquire().OnDownload(ctx, c.String(), classifier, len(data), time.Since(start))

	path, err := a.local.Write(c, classifier, data)
	if err != nil {
		a.logger.Warn("could not store download", "path", path, "err", err)
	} else if path != "" {
		a.logger.Debug("stored download", "path", path, "bytes", len(data))
	}
	return data, nil
}

// enrich attaches sidecars to b. Failures are swallowed.
func (a *Acquirer) enrich(ctx context.Context, b *Bundle) {
	if !b.SourcesMode {
		b.Sources = a.sidecar(ctx, b.Coordinate, maven.ClassifierSources)
	}
	b.Javadoc = a.sidecar(ctx, b.Coordinate, maven.ClassifierJavadoc)
}

func (a *Acquirer) sidecar(ctx context.Context, c maven.Coordinate, classifier string) []byte {
	if data, err := a.local.Read(c, classifier); err == nil {
		return data
	}
	if a.Offline() || a.noRemoteSidecars || a.remote == nil {
		return nil
	}
	data, err := a.fetch(ctx, c, classifier)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeEnrichment, err, "%s %s sidecar", c, classifier)
		a.logger.Debug("sidecar unavailable", "err", errors.UserMessage(err))
		return nil
	}
	return data
}

func (a *Acquirer) transition(ctx context.Context, c maven.Coordinate, from, to State) {
	observability.Acquire().OnTransition(ctx, c.String(), string(from), string(to))
}
