package session

import (
	"context"
	"image"
	"io"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/icon"
	"github.com/lmfdb/latticeview/pkg/interact"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/layout"
	"github.com/lmfdb/latticeview/pkg/observability"
	"github.com/lmfdb/latticeview/pkg/render"
)

// Hint tuple positions of the two layouts of a variant.
const (
	hintByLevel = 6
	hintByOrder = 7
)

// Mode is the display mode: which variant, and whether heights follow the
// order table (false) or the simple by-order ranking (true).
type Mode struct {
	Variant int
	ByOrder bool
}

// Option configures a Session.
type Option func(*Session)

// WithInfoPanel sets the panel told about selections.
func WithInfoPanel(p render.InfoPanel) Option {
	return func(s *Session) { s.panel = p }
}

// WithIconLoader replaces the loader used for node icons.
func WithIconLoader(l icon.Loader) Option {
	return func(s *Session) { s.loader = l }
}

// WithLinker sets the linker told about hover changes.
func WithLinker(l interact.Linker) Option {
	return func(s *Session) { s.linker = l }
}

// WithLogger logs icon failures and event-loop activity at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithFrameFunc registers fn to run on the event loop after every change
// that redrew the surface.
func WithFrameFunc(fn func(*Session)) Option {
	return func(s *Session) { s.onFrame = fn }
}

// Session owns the graphs, renderer and controller of one diagram page.
type Session struct {
	cfg     Config
	ambient string
	orders  []graph.OrderRow

	// graphs[v][0] is the leveled graph of variant v, graphs[v][1] the
	// by-order one.
	graphs [][2]*graph.Graph
	modes  [][2]layout.Mode
	mode   Mode

	engine     *layout.Engine
	renderer   *render.Renderer
	controller *interact.Controller
	fetcher    *icon.Fetcher

	loader    icon.Loader
	panel     render.InfoPanel
	linker    interact.Linker
	logger    *log.Logger
	onFrame   func(*Session)
	requested map[string]bool

	calls   chan call
	results chan icon.Result
}

type call struct {
	fn   func(*Session) error
	done chan error
}

// New builds every graph of doc, lays them out and draws the initial mode.
func New(doc *pkgio.Document, cfg Config, opts ...Option) (*Session, error) {
	if doc == nil || len(doc.Diagrams) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no diagrams")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.InitialVariant >= len(doc.Diagrams) {
		return nil, errors.New(errors.ErrCodeInvalidMode, "initial variant %d out of range, document has %d", cfg.InitialVariant, len(doc.Diagrams))
	}

	engine, err := layout.New(cfg.Layout)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		ambient:   doc.Ambient,
		orders:    doc.Orders,
		engine:    engine,
		mode:      Mode{Variant: cfg.InitialVariant, ByOrder: cfg.InitialByOrder},
		requested: make(map[string]bool),
		calls:     make(chan call),
		results:   make(chan icon.Result),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = &icon.URLLoader{Base: cfg.IconBase, Scale: cfg.IconScale}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	s.fetcher = icon.NewFetcher(s.loader, cfg.IconConcurrency)

	s.build(doc)

	rcfg := cfg.Render
	rcfg.Width, rcfg.Height = s.canvasSize(doc)
	if cfg.Render.Height == 0 {
		if h, ok := s.rowsHeight(doc.NumLayers); ok {
			rcfg.Height = h
		}
	}
	rcfg.SetDefaults()

	var ropts []render.Option
	if s.panel != nil {
		ropts = append(ropts, render.WithInfoPanel(s.panel, s.ambient))
	}
	s.renderer, err = render.New(s.Graph(), rcfg, ropts...)
	if err != nil {
		return nil, err
	}

	iopts := []interact.Option{}
	if s.panel != nil {
		iopts = append(iopts, interact.WithInfoPanel(s.panel, s.ambient))
	}
	if s.linker != nil {
		iopts = append(iopts, interact.WithLinker(s.linker))
	}
	s.controller, err = interact.New(s.renderer, cfg.Interact, iopts...)
	if err != nil {
		return nil, err
	}

	s.renderer.SetOrderLabels(s.orderLabels())
	s.renderer.Draw()
	return s, nil
}

func (s *Session) build(doc *pkgio.Document) {
	byLevel := graph.NewOrderTable(doc.Orders)
	byOrder := graph.SimpleOrdering(doc.Orders)

	s.graphs = make([][2]*graph.Graph, len(doc.Diagrams))
	s.modes = make([][2]layout.Mode, len(doc.Diagrams))
	for v, d := range doc.Diagrams {
		for i, lookup := range []graph.OrderLookup{byLevel, byOrder} {
			g := graph.New(graph.WithIconRequester(s.requestIcon))
			g.AddNodes(d.Nodes, lookup, hintByLevel+i)
			for _, e := range d.Edges {
				g.AddEdge(e[0], e[1])
			}
			s.modes[v][i] = s.engine.Layout(g)
			s.graphs[v][i] = g
		}
	}
}

func (s *Session) requestIcon(n *graph.Node) {
	id := n.Key + "\x00" + n.Icon.URL
	if s.requested[id] {
		return
	}
	s.requested[id] = true
	s.fetcher.Request(n.Key, n.Icon.URL)
}

// canvasSize picks the configured size, else the document's, else one
// derived from the widest level and the layer count.
func (s *Session) canvasSize(doc *pkgio.Document) (w, h int) {
	w, h = s.cfg.Render.Width, s.cfg.Render.Height
	if w == 0 {
		w = doc.Width
	}
	if h == 0 {
		h = doc.Height
	}
	if w > 0 && h > 0 {
		return w, h
	}

	g := s.graphs[s.mode.Variant][0]
	perLevel := make(map[graph.Level]int)
	widest := 0
	for _, n := range g.Nodes() {
		perLevel[n.Level]++
		widest = max(widest, perLevel[n.Level])
	}
	layers := doc.NumLayers
	if layers == 0 {
		layers = len(perLevel)
	}
	if w == 0 {
		w = max(minDimension, min(pixelsPerNode*widest, render.MaxDimension))
	}
	if h == 0 {
		h = max(minDimension, min(pixelsPerLayer*layers, render.MaxDimension))
	}
	return w, h
}

func (s *Session) orderLabels() []render.OrderLabel {
	if !s.mode.ByOrder || !s.cfg.ShowOrders {
		return nil
	}
	simple := graph.SimpleOrdering(s.orders)
	out := make([]render.OrderLabel, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, render.OrderLabel{Text: o.Raw, Y: s.engine.Height(simple[o.Raw])})
	}
	return out
}

// Ambient returns the identifier of the ambient object.
func (s *Session) Ambient() string { return s.ambient }

// Mode returns the display mode.
func (s *Session) Mode() Mode { return s.mode }

// LayoutMode returns the layout strategy used for the displayed graph.
func (s *Session) LayoutMode() layout.Mode {
	return s.modes[s.mode.Variant][btoi(s.mode.ByOrder)]
}

// Variants returns the names of the variants present in the document.
func (s *Session) Variants() []string {
	out := make([]string, len(s.graphs))
	for i := range out {
		out[i] = s.variantName(i)
	}
	return out
}

func (s *Session) variantName(i int) string {
	if i < len(s.cfg.Variants) {
		return s.cfg.Variants[i]
	}
	return strconv.Itoa(i)
}

// Graph returns the displayed graph.
func (s *Session) Graph() *graph.Graph {
	return s.graphs[s.mode.Variant][btoi(s.mode.ByOrder)]
}

// GraphFor returns the graph shown in mode m.
func (s *Session) GraphFor(m Mode) (*graph.Graph, bool) {
	if m.Variant < 0 || m.Variant >= len(s.graphs) {
		return nil, false
	}
	return s.graphs[m.Variant][btoi(m.ByOrder)], true
}

// Renderer returns the renderer.
func (s *Session) Renderer() *render.Renderer { return s.renderer }

// Controller returns the interaction controller.
func (s *Session) Controller() *interact.Controller { return s.controller }

// Image returns the current surface.
func (s *Session) Image() image.Image { return s.renderer.Image() }

// EncodePNG writes the current surface as PNG.
func (s *Session) EncodePNG(w io.Writer) error { return s.renderer.EncodePNG(w) }

// Show switches to the given variant and height mode. The selection carries
// over by node position; the highlight does not.
func (s *Session) Show(variant int, byOrder bool) error {
	next, ok := s.GraphFor(Mode{Variant: variant, ByOrder: byOrder})
	if !ok {
		return errors.New(errors.ErrCodeInvalidMode, "variant %d out of range, document has %d", variant, len(s.graphs))
	}
	cur := s.Graph()
	if next != cur {
		next.CopySelection(cur)
	}
	cur.SetHighlit(nil)
	next.SetHighlit(nil)
	s.controller.Reset()

	s.mode = Mode{Variant: variant, ByOrder: byOrder}
	s.renderer.SetOrderLabels(s.orderLabels())
	s.renderer.NewGraph(next)
	return nil
}

// ToggleHeights flips between order-table and by-order heights.
func (s *Session) ToggleHeights() error {
	return s.Show(s.mode.Variant, !s.mode.ByOrder)
}

// SwitchVariant shows the named variant, keeping the height mode.
func (s *Session) SwitchVariant(name string) error {
	for i := range s.graphs {
		if s.variantName(i) == name {
			return s.Show(i, s.mode.ByOrder)
		}
	}
	return errors.New(errors.ErrCodeInvalidMode, "unknown variant %q", name)
}

// NewHeight grows the surface to RowHeight pixels per row when more than
// RowThreshold rows are shown, then redraws. Fewer rows leave it as is.
// New applies it to the document's layer count unless a height is
// configured.
func (s *Session) NewHeight(rows int) {
	h, ok := s.rowsHeight(rows)
	if !ok {
		return
	}
	w, _ := s.renderer.Size()
	s.renderer.Resize(w, h)
	s.renderer.Draw()
}

func (s *Session) rowsHeight(rows int) (int, bool) {
	if rows <= s.cfg.RowThreshold {
		return 0, false
	}
	return min(s.cfg.RowHeight*rows, render.MaxDimension), true
}

// Positions returns the position export of the displayed graph.
func (s *Session) Positions() string {
	return pkgio.Positions(s.ambient, s.Graph())
}

// Layout returns a JSON-ready snapshot of the displayed graph.
func (s *Session) Layout() pkgio.Layout {
	return pkgio.NewLayout(s.ambient, s.Graph())
}

// Selected returns the key of the selected node, or "".
func (s *Session) Selected() string {
	if n := s.Graph().Selected(); n != nil {
		return n.Key
	}
	return ""
}

// Select selects the node with key as a click would, without starting a
// drag. An empty or unknown key clears the selection.
func (s *Session) Select(key string) bool {
	ok := s.Graph().Select(key)
	s.renderer.Draw()
	if ok {
		observability.Diagram().OnSelect(s.ambient, key)
	}
	if s.panel != nil {
		if ok {
			s.panel.Show(s.ambient, key)
		} else {
			s.panel.Clear()
		}
	}
	return ok
}

// Hover highlights the node with key as if the pointer were over it.
func (s *Session) Hover(key string) {
	s.controller.HoverKey(key)
}

// Handle dispatches one pointer event.
func (s *Session) Handle(ev interact.Event) {
	s.controller.Handle(ev)
}

// ResolveIcon records a finished icon load on every graph that has the node
// and redraws it if it is on display.
func (s *Session) ResolveIcon(r icon.Result) {
	if r.Err != nil {
		s.logger.Debug("icon failed", "key", r.Key, "url", r.URL, "err", r.Err)
	}
	shown := s.Graph()
	for _, pair := range s.graphs {
		for _, g := range pair {
			n, ok := g.Node(r.Key)
			if !ok || n.Icon.URL != r.URL {
				continue
			}
			n.Icon.Resolve(r.Image, r.Err)
			if g == shown {
				s.renderer.RedrawNode(n)
			}
		}
	}
}

// PendingIcons reports how many icon requests have not been fetched.
func (s *Session) PendingIcons() int { return s.fetcher.Pending() }

// FetchIcons loads every queued icon and resolves it before returning.
// Each observe func runs after a result is applied, one result at a time.
func (s *Session) FetchIcons(ctx context.Context, observe ...func(icon.Result)) error {
	return s.fetcher.Fetch(ctx, func(r icon.Result) {
		s.ResolveIcon(r)
		for _, fn := range observe {
			fn(r)
		}
	})
}

// Run is the session event loop. It loads queued icons in the background
// and applies pointer events, icon results and Do calls one at a time until
// ctx is done or events is closed.
func (s *Session) Run(ctx context.Context, events <-chan interact.Event) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		err := s.fetcher.Fetch(ctx, func(r icon.Result) {
			select {
			case s.results <- r:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Debug("icon fetch stopped", "err", err)
		}
	}()

	s.frame()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.Handle(ev)
		case r := <-s.results:
			s.ResolveIcon(r)
		case c := <-s.calls:
			c.done <- c.fn(s)
		}
		s.frame()
	}
}

// Do runs fn on the event loop and returns its error. It must only be used
// while Run is running.
func (s *Session) Do(ctx context.Context, fn func(*Session) error) error {
	c := call{fn: fn, done: make(chan error, 1)}
	select {
	case s.calls <- c:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) frame() {
	if s.onFrame != nil {
		s.onFrame(s)
	}
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
