package infopanel

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/httputil"
	"github.com/lmfdb/latticeview/pkg/render"
)

// State describes what the panel currently shows.
type State int

const (
	// StateEmpty shows the placeholder text.
	StateEmpty State = iota
	// StateLoading means a fetch for the selected node is in flight.
	StateLoading
	// StateReady holds fetched markup.
	StateReady
	// StateFailed shows the failure text.
	StateFailed
)

var stateNames = [...]string{"empty", "loading", "ready", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Content is a snapshot of the panel.
type Content struct {
	State   State
	Ambient string
	Key     string
	Markup  string
	Text    string
	Err     error
}

// Panel fetches and holds information about the selected node. Selections
// are numbered; a response that arrives after a newer Show or Clear is
// discarded, so a slow fetch never overwrites the current selection.
type Panel struct {
	cfg    Config
	client *httputil.Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	seq      uint64
	content  Content
	onUpdate func(Content)
}

// Option configures a Panel.
type Option func(*Panel)

// WithCache stores fetched markup in c under the "info:" prefix.
func WithCache(c cache.Cache) Option {
	return func(p *Panel) {
		p.client = httputil.NewClient(cache.Prefixed(c, "info:"), p.cfg.TTL, p.clientOpts()...)
	}
}

// WithClient replaces the HTTP client.
func WithClient(c *httputil.Client) Option {
	return func(p *Panel) { p.client = c }
}

// WithUpdateFunc registers fn to run after every change of content. It is
// called without the panel lock held, from the goroutine that finished the
// fetch.
func WithUpdateFunc(fn func(Content)) Option {
	return func(p *Panel) { p.onUpdate = fn }
}

// New creates a panel. Background fetches are bound to ctx.
func New(ctx context.Context, cfg Config, opts ...Option) (*Panel, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Panel{cfg: cfg}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.client = httputil.NewClient(nil, cfg.TTL, p.clientOpts()...)
	for _, opt := range opts {
		opt(p)
	}
	p.content = Content{State: StateEmpty, Text: cfg.Placeholder}
	return p, nil
}

func (p *Panel) clientOpts() []httputil.ClientOption {
	return []httputil.ClientOption{httputil.WithRetry(p.cfg.Attempts, p.cfg.RetryDelay)}
}

// URL returns the info address for a node of the ambient object.
func (p *Panel) URL(ambient, key string) string {
	prefix := "/" + strings.Trim(p.cfg.PathPrefix, "/")
	return strings.TrimRight(p.cfg.BaseURL, "/") + prefix + "/" + url.PathEscape(ambient) + "/" + url.PathEscape(key)
}

// Fetch retrieves the info markup for one node synchronously.
func (p *Panel) Fetch(ctx context.Context, ambient, key string) (string, error) {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}
	u := p.URL(ambient, key)
	body, err := p.client.Cached(ctx, cache.Key(ambient, key), false, func() ([]byte, error) {
		return p.client.Get(ctx, "info", u)
	})
	return string(body), err
}

// Show starts fetching the info for key and marks the panel loading.
func (p *Panel) Show(ambient, key string) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	c := Content{State: StateLoading, Ambient: ambient, Key: key}
	p.content = c
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(c)
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		markup, err := p.Fetch(p.ctx, ambient, key)
		p.finish(seq, ambient, key, markup, err)
	}()
}

func (p *Panel) finish(seq uint64, ambient, key, markup string, err error) {
	c := Content{State: StateReady, Ambient: ambient, Key: key, Markup: markup}
	if err != nil {
		c = Content{State: StateFailed, Ambient: ambient, Key: key, Text: p.cfg.Failure, Err: err}
	} else if c.Text, err = Text(markup); err != nil {
		c.Text = markup
	}

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return
	}
	p.content = c
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}

// Clear shows the placeholder and discards any in-flight response.
func (p *Panel) Clear() {
	p.mu.Lock()
	p.seq++
	c := Content{State: StateEmpty, Text: p.cfg.Placeholder}
	p.content = c
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(c)
	}
}

// Content returns the current panel content.
func (p *Panel) Content() Content {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.content
}

// Wait blocks until every in-flight fetch has finished.
func (p *Panel) Wait() { p.wg.Wait() }

// Close cancels in-flight fetches and waits for them.
func (p *Panel) Close() error {
	p.cancel()
	p.wg.Wait()
	return nil
}

var _ render.InfoPanel = (*Panel)(nil)
