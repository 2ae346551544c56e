// Package cli implements the latticeview command-line interface.
//
// This package provides commands for rendering subgroup lattice diagrams,
// exporting their layout, exploring them in the terminal and serving them
// over HTTP. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Draw a diagram to PNG, optionally re-rendering on change
//   - positions, layout, dot: Export node positions, layout JSON or Graphviz
//   - browse: Explore a diagram and its info panel in the terminal
//   - serve: Serve live diagram sessions over HTTP and websockets
//   - cache, config: Manage the response cache and the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Verbose mode
// also installs observability hooks that log layout, drawing, cache and HTTP
// activity. Loggers are passed through context.Context.
//
// # Example
//
//	import "github.com/lmfdb/latticeview/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lmfdb/latticeview/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Loaded 8.3 from mongo (41ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports library activity at debug level.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetDiagramHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnLayout(mode string, nodes, edges int, d time.Duration) {
	h.logger.Debug("layout", "mode", mode, "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnDraw(nodes, edges int, d time.Duration) {
	h.logger.Debug("draw", "nodes", nodes, "edges", edges, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnSelect(ambient, key string) {
	h.logger.Debug("select", "ambient", ambient, "key", key)
}

func (h logHooks) OnHover(ambient, key string) {
	h.logger.Debug("hover", "ambient", ambient, "key", key)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, service, method, url string) {
	h.logger.Debug("request", "service", service, "method", method, "url", url)
}

func (h logHooks) OnResponse(_ context.Context, service, method, url string, status int, d time.Duration) {
	h.logger.Debug("response", "service", service, "method", method, "url", url, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, service, method, url string, err error) {
	h.logger.Warn("request failed", "service", service, "method", method, "url", url, "err", err)
}

var (
	_ observability.DiagramHooks = logHooks{}
	_ observability.CacheHooks   = logHooks{}
	_ observability.HTTPHooks    = logHooks{}
)
