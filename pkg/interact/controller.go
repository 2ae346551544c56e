package interact

import (
	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/observability"
	"github.com/lmfdb/latticeview/pkg/render"
)

// Surface is the drawing side of a diagram. *render.Renderer implements it.
type Surface interface {
	Graph() *graph.Graph
	NodeAt(p graph.Point) *graph.Node
	Untranslate(p graph.Point) graph.Point
	Highlight(key string)
	Unhighlight(key string)
	Draw()
}

// Linker marks elements outside the diagram that share a node's key.
type Linker interface {
	Activate(key, class string)
	Deactivate(key, class string)
}

// State is the drag state.
type State int

const (
	Idle State = iota
	Dragging
)

// String returns the state name.
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Option configures a Controller.
type Option func(*Controller)

// WithInfoPanel notifies p of selections within the ambient object.
func WithInfoPanel(p render.InfoPanel, ambient string) Option {
	return func(c *Controller) {
		c.panel = p
		c.ambient = ambient
	}
}

// WithLinker sets the linker told about hover changes.
func WithLinker(l Linker) Option {
	return func(c *Controller) { c.linker = l }
}

// Controller dispatches events to handlers keyed by Kind. It is not safe for
// concurrent use; a session feeds it from one goroutine.
type Controller struct {
	cfg     Config
	surface Surface
	panel   render.InfoPanel
	ambient string
	linker  Linker

	handlers map[Kind][]func(Event)

	state     State
	active    *graph.Node
	moved     bool
	hoverKey  string
	lastTouch graph.Point
}

// New creates a controller over surface.
func New(surface Surface, cfg Config, opts ...Option) (*Controller, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{cfg: cfg, surface: surface}
	for _, opt := range opts {
		opt(c)
	}
	c.handlers = map[Kind][]func(Event){
		Press:      {c.press},
		Move:       {c.move},
		Release:    {c.release},
		TouchStart: {c.touchStart},
		TouchMove:  {c.touchMove},
		TouchEnd:   {c.touchEnd},
		Leave:      {c.leave},
		HoverEnter: {c.hoverEnter},
		HoverLeave: {c.hoverLeave},
	}
	return c, nil
}

// On appends fn to the handlers of kind. Handlers run in registration order,
// after the built-in one.
func (c *Controller) On(kind Kind, fn func(Event)) {
	c.handlers[kind] = append(c.handlers[kind], fn)
}

// Handle dispatches ev.
func (c *Controller) Handle(ev Event) {
	for _, fn := range c.handlers[ev.Kind] {
		fn(ev)
	}
}

// State returns the drag state.
func (c *Controller) State() State { return c.state }

// Active returns the node being dragged, or nil.
func (c *Controller) Active() *graph.Node { return c.active }

// Hovered returns the key of the node under the pointer.
func (c *Controller) Hovered() string { return c.hoverKey }

// Reset drops any drag and hover state. Call it after the surface switches
// to another graph.
func (c *Controller) Reset() {
	c.state = Idle
	c.active = nil
	if c.hoverKey != "" && c.linker != nil {
		c.linker.Deactivate(c.hoverKey, c.cfg.LinkClass)
	}
	c.hoverKey = ""
}

// HoverKey moves the hover to key as if the pointer had entered that node.
// An empty key removes the hover. Linked elements outside the diagram use
// this to highlight their node.
func (c *Controller) HoverKey(key string) {
	if key == c.hoverKey {
		return
	}
	if c.hoverKey != "" {
		c.Handle(Event{Kind: HoverLeave, Key: c.hoverKey})
	}
	if key != "" {
		c.Handle(Event{Kind: HoverEnter, Key: key})
	}
}

func (c *Controller) press(ev Event) {
	if ev.Button != ButtonLeft {
		return
	}
	g := c.surface.Graph()
	n := c.surface.NodeAt(ev.Point())
	if n == nil {
		g.ClearSelection()
		c.surface.Draw()
		if c.panel != nil {
			c.panel.Clear()
		}
		return
	}

	g.Select(n.Key)
	c.surface.Draw()
	observability.Diagram().OnSelect(c.ambient, n.Key)
	if c.panel != nil {
		c.panel.Show(c.ambient, n.Key)
	}
	c.state = Dragging
	c.active = n
	c.moved = false
}

func (c *Controller) move(ev Event) {
	if c.state == Dragging {
		c.drag(ev.Point())
	}
	key := ""
	if n := c.surface.NodeAt(ev.Point()); n != nil {
		key = n.Key
	}
	c.HoverKey(key)
}

func (c *Controller) drag(p graph.Point) {
	c.moved = true
	c.active.Center.X = p.X
	if c.cfg.CanMoveVertically {
		c.active.Center.Y = p.Y
	}
	c.surface.Draw()
}

func (c *Controller) release(ev Event) {
	if c.state != Dragging {
		return
	}
	n := c.active
	c.state = Idle
	c.active = nil

	// A click without movement leaves the node where it is.
	if c.moved {
		n.Center.X = ev.X
		if c.cfg.CanMoveVertically {
			n.Center.Y = ev.Y
		}
	}
	pos := c.surface.Untranslate(n.Center)
	n.Pos.X = pos.X
	if c.cfg.CanMoveVertically {
		n.Pos.Y = pos.Y
	}
	c.surface.Draw()
}

func (c *Controller) touchStart(ev Event) {
	if len(ev.Touches) == 0 {
		return
	}
	c.lastTouch = ev.Touches[0]
	c.Handle(Event{Kind: Press, X: c.lastTouch.X, Y: c.lastTouch.Y, Button: ButtonLeft})
}

func (c *Controller) touchMove(ev Event) {
	if len(ev.Touches) == 0 {
		return
	}
	c.lastTouch = ev.Touches[0]
	c.Handle(Event{Kind: Move, X: c.lastTouch.X, Y: c.lastTouch.Y})
}

// touchEnd carries no position, so the release happens where the last touch
// was seen.
func (c *Controller) touchEnd(Event) {
	c.Handle(Event{Kind: Release, X: c.lastTouch.X, Y: c.lastTouch.Y})
}

func (c *Controller) leave(Event) {
	c.HoverKey("")
}

func (c *Controller) hoverEnter(ev Event) {
	c.hoverKey = ev.Key
	c.surface.Highlight(ev.Key)
	observability.Diagram().OnHover(c.ambient, ev.Key)
	if c.linker != nil {
		c.linker.Activate(ev.Key, c.cfg.LinkClass)
	}
}

func (c *Controller) hoverLeave(ev Event) {
	if c.hoverKey == ev.Key {
		c.hoverKey = ""
	}
	c.surface.Unhighlight(ev.Key)
	if c.linker != nil {
		c.linker.Deactivate(ev.Key, c.cfg.LinkClass)
	}
}
