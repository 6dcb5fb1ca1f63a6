package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries to
// a structured logger. Errors are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

// OnSourceStart implements PipelineHooks.
func (h *LogHooks) OnSourceStart(_ context.Context, boardID string) {
	h.logger.Debug("source start", "board", boardID)
}

// OnSourceComplete implements PipelineHooks.
func (h *LogHooks) OnSourceComplete(_ context.Context, boardID string, n int, d time.Duration, err error) {
	h.done("source complete", err, "board", boardID, "keywords", n, "duration", d)
}

// OnLayoutStart implements PipelineHooks.
func (h *LogHooks) OnLayoutStart(_ context.Context, measurer string, n int) {
	h.logger.Debug("layout start", "measurer", measurer, "words", n)
}

// OnLayoutComplete implements PipelineHooks.
func (h *LogHooks) OnLayoutComplete(_ context.Context, measurer string, fallbacks int, d time.Duration, err error) {
	h.done("layout complete", err, "measurer", measurer, "fallbacks", fallbacks, "duration", d)
}

// OnRenderStart implements PipelineHooks.
func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

// OnRenderComplete implements PipelineHooks.
func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", err, "formats", formats, "duration", d)
}

// OnCacheHit implements CacheHooks.
func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

// OnCacheMiss implements CacheHooks.
func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

// OnCacheSet implements CacheHooks.
func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// OnRequest implements HTTPHooks.
func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

// OnResponse implements HTTPHooks.
func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

// OnError implements HTTPHooks.
func (h *LogHooks) OnError(_ context.Context, method, route string, err error) {
	h.logger.Warn("request failed", "method", method, "route", route, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
