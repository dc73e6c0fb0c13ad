package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Tee returns hooks that forward every event to each of hs in order.
func Tee(hs ...Hooks) Hooks {
	return tee(hs)
}

type tee []Hooks

func (t tee) OnScanStart(ctx context.Context, language, root string) {
	for _, h := range t {
		h.OnScanStart(ctx, language, root)
	}
}

func (t tee) OnScanComplete(ctx context.Context, language string, files int, d time.Duration, err error) {
	for _, h := range t {
		h.OnScanComplete(ctx, language, files, d, err)
	}
}

func (t tee) OnAnalyzeStart(ctx context.Context, packages int) {
	for _, h := range t {
		h.OnAnalyzeStart(ctx, packages)
	}
}

func (t tee) OnAnalyzeComplete(ctx context.Context, cycles int, d time.Duration, err error) {
	for _, h := range t {
		h.OnAnalyzeComplete(ctx, cycles, d, err)
	}
}

func (t tee) OnRenderStart(ctx context.Context, format string) {
	for _, h := range t {
		h.OnRenderStart(ctx, format)
	}
}

func (t tee) OnRenderComplete(ctx context.Context, format string, d time.Duration, err error) {
	for _, h := range t {
		h.OnRenderComplete(ctx, format, d, err)
	}
}

func (t tee) OnCacheHit(ctx context.Context, stage string) {
	for _, h := range t {
		h.OnCacheHit(ctx, stage)
	}
}

func (t tee) OnCacheMiss(ctx context.Context, stage string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, stage)
	}
}

func (t tee) OnCacheSet(ctx context.Context, stage string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, stage, size)
	}
}

func (t tee) OnRequest(ctx context.Context, method, route string) {
	for _, h := range t {
		h.OnRequest(ctx, method, route)
	}
}

func (t tee) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	for _, h := range t {
		h.OnResponse(ctx, method, route, status, d)
	}
}

// LogHooks logs cache traffic and failed stages. Cache events go out at
// debug level; stage failures at warn.
type LogHooks struct {
	NoopPipelineHooks
	NoopHTTPHooks
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnScanComplete(_ context.Context, language string, files int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("scan failed", "language", language, "files", files, "took", d, "error", err)
	}
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "format", format, "took", d, "error", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, stage string) {
	h.logger.Debug("cache hit", "stage", stage)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, stage string) {
	h.logger.Debug("cache miss", "stage", stage)
}

func (h *LogHooks) OnCacheSet(_ context.Context, stage string, size int) {
	h.logger.Debug("cache write", "stage", stage, "bytes", size)
}
