package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jarlens/pkg/observability"
)

// traceHooks turns pipeline events into debug log lines. It is installed
// with --verbose.
type traceHooks struct {
	observability.NoopResolveHooks
	logger *log.Logger
}

func installTraceHooks(l *log.Logger) {
	h := traceHooks{logger: l}
	observability.SetResolveHooks(h)
	observability.SetAcquireHooks(h)
	observability.SetHTTPHooks(h)
}

func (h traceHooks) OnSubtreeFailed(_ context.Context, coordinate string, err error) {
	h.logger.Debug("subtree failed", "dependency", coordinate, "err", err)
}

func (h traceHooks) OnTransition(_ context.Context, coordinate, from, to string) {
	h.logger.Debug("acquire", "coordinate", coordinate, "from", from, "to", to)
}

func (h traceHooks) OnDownload(_ context.Context, coordinate, classifier string, size int, d time.Duration) {
	if classifier == "" {
		classifier = "main"
	}
	h.logger.Debug("downloaded", "coordinate", coordinate, "archive", classifier, "bytes", size, "duration", d.Round(time.Millisecond))
}

func (h traceHooks) OnRequest(context.Context, string, string, string) {}

func (h traceHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "url", host+path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h traceHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "url", host+path, "err", err)
}
