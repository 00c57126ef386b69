package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorgraph/pkg/observability"
)

// logHooks forwards observability events to the CLI logger at debug level,
// and failures at warn level.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetIOHooks(h)
	observability.SetEditHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("loading", "file", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, nodes, edges, skipped int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("load failed", "file", source, "err", err)
		return
	}
	h.logger.Debug("loaded", "file", source, "nodes", nodes, "edges", edges, "skipped", skipped, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnSaveStart(_ context.Context, dest string) {
	h.logger.Debug("saving", "file", dest)
}

func (h logHooks) OnSaveComplete(_ context.Context, dest string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("save failed", "file", dest, "err", err)
		return
	}
	h.logger.Debug("saved", "file", dest, "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnMutation(_ context.Context, op, target string, ok bool) {
	h.logger.Debug("mutation", "op", op, "target", target, "ok", ok)
}

func (h logHooks) OnHitTest(_ context.Context, kind string, hit bool, d time.Duration) {
	h.logger.Debug("hit test", "kind", kind, "hit", hit, "took", d)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {}

// OnResponse reports server errors only; the server logs every request
// itself.
func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status, "took", d)
	}
}
