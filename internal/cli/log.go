package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms"
// (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a message with the time elapsed since it was created.
// Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Rendered 3 formats (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached with withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports export and session events as debug logs.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnExportStart(_ context.Context, formats []string) {
	h.logger.Debug("export started", "formats", formats)
}

func (h *logHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("export failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("export complete", "formats", formats, "duration", d)
}

func (h *logHooks) OnArtifact(_ context.Context, format string, size int, d time.Duration) {
	h.logger.Debug("artifact", "format", format, "bytes", size, "duration", d)
}

func (h *logHooks) OnSessionCreate(_ context.Context, id string) {
	h.logger.Debug("session created", "id", id)
}

func (h *logHooks) OnSessionDelete(_ context.Context, id string) {
	h.logger.Debug("session deleted", "id", id)
}

func (h *logHooks) OnSessionExpire(id string, idle time.Duration) {
	h.logger.Info("session expired", "id", id, "idle", idle.Round(time.Second))
}

func (h *logHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.logger.Warn("request", "method", method, "route", route, "status", status, "duration", d)
	}
}
