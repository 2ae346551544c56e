// Package cli implements the latticeview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/config"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/httputil"
	"github.com/lmfdb/latticeview/pkg/icon"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/session"
	"github.com/lmfdb/latticeview/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "latticeview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
	src        sourceFlags
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// verbose reports whether debug output is enabled.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// loadConfig reads the config file and applies the global flags.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.src.apply(&cfg.Source)
	return cfg, nil
}

// =============================================================================
// Cache & Icons
// =============================================================================

// openCache opens the configured cache. A backend that cannot be opened is
// logged and replaced by a null cache.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	store, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return store
}

// iconLoader loads icons over HTTP through the response cache. Relative
// references resolve against iconBase, falling back to the input file's
// directory.
func iconLoader(cfg *config.Config, store cache.Cache, inputDir string) icon.Loader {
	base := cfg.Session.IconBase
	if base == "" {
		base = inputDir
	}
	client := httputil.NewClient(cache.Prefixed(store, "icon:"), cfg.Info.TTL,
		httputil.WithRetry(cfg.Info.Attempts, cfg.Info.RetryDelay))
	return &icon.URLLoader{Client: client, Base: base, Scale: cfg.Session.IconScale}
}

// =============================================================================
// Documents & Sessions
// =============================================================================

// loadDocument reads arg as a JSON file when it names one, and otherwise
// asks the configured source for the ambient object called arg.
func (c *CLI) loadDocument(ctx context.Context, cfg *config.Config, arg string) (*pkgio.Document, string, error) {
	if isFile(arg) {
		doc, err := pkgio.ReadDocumentFile(arg)
		return doc, filepath.Dir(arg), err
	}
	if strings.HasSuffix(arg, ".json") {
		return nil, "", errors.New(errors.ErrCodeFileNotFound, "file not found: %s", arg)
	}

	if cfg.Source.Kind() == "none" {
		return nil, "", errors.New(errors.ErrCodeInvalidInput, "%q is not a file and no diagram source is configured", arg)
	}
	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return nil, "", err
	}
	defer src.Close(ctx)

	prog := newProgress(c.Logger)
	doc, err := src.Load(ctx, arg)
	if err != nil {
		return nil, "", err
	}
	prog.done("Loaded " + arg + " from " + cfg.Source.Kind())
	return doc, cfg.Source.Dir, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// newSession builds a diagram session with icons loaded through the cache.
func (c *CLI) newSession(ctx context.Context, cfg *config.Config, doc *pkgio.Document, inputDir string, opts ...session.Option) (*session.Session, error) {
	store := c.openCache(ctx, cfg)
	opts = append([]session.Option{
		session.WithIconLoader(iconLoader(cfg, store, inputDir)),
		session.WithLogger(c.Logger),
	}, opts...)
	return session.New(doc, cfg.Session, opts...)
}
