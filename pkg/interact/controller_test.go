package interact

import (
	"math"
	"testing"

	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/render"
)

// fixture lays out nodes 1 and 2 on the bottom level with 3 above them.
func fixture(t *testing.T, cfg Config, opts ...Option) (*Controller, *render.Renderer) {
	t.Helper()
	g := graph.New()
	g.AddNode(graph.NodeTuple{Key: "1", Label: "e"}, 0, nil)
	g.AddNode(graph.NodeTuple{Key: "2", Label: "a"}, 10, nil)
	g.AddNode(graph.NodeTuple{Key: "3", Label: "G"}, 20, nil)
	g.AddEdge("1", "3")
	g.AddEdge("2", "3")
	pos := []graph.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: -10}}
	for i, n := range g.Nodes() {
		n.Pos = pos[i]
	}
	g.Bounds = graph.Bounds{MinX: 0, MaxX: 20, MinY: -10, MaxY: 0}

	rcfg := render.DefaultConfig()
	rcfg.Width, rcfg.Height = 410, 260
	r, err := render.New(g, rcfg)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	c, err := New(r, cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, r
}

func node(t *testing.T, r *render.Renderer, key string) *graph.Node {
	t.Helper()
	n, ok := r.Graph().Node(key)
	if !ok {
		t.Fatalf("no node %s", key)
	}
	return n
}

func at(kind Kind, p graph.Point) Event { return Event{Kind: kind, X: p.X, Y: p.Y} }

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

type recordingPanel struct {
	shown   []string
	cleared int
}

func (p *recordingPanel) Show(ambient, key string) { p.shown = append(p.shown, ambient+"/"+key) }
func (p *recordingPanel) Clear()                   { p.cleared++ }

type recordingLinker struct{ log []string }

func (l *recordingLinker) Activate(key, class string)   { l.log = append(l.log, "+"+key+":"+class) }
func (l *recordingLinker) Deactivate(key, class string) { l.log = append(l.log, "-"+key+":"+class) }

func TestDragCommit(t *testing.T) {
	tests := []struct {
		name     string
		vertical bool
	}{
		{"level locked", false},
		{"free", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, r := fixture(t, Config{CanMoveVertically: tt.vertical})
			n1 := node(t, r, "1")
			others := []graph.Point{node(t, r, "2").Pos, node(t, r, "3").Pos}

			start := r.Translate(n1.Pos)
			c.Handle(at(Press, start))
			if c.State() != Dragging || c.Active() != n1 {
				t.Fatalf("press did not start a drag: %v", c.State())
			}
			c.Handle(at(Move, graph.Point{X: start.X + 50, Y: 100}))
			if n1.Center.X != start.X+50 {
				t.Errorf("center did not follow pointer: %v", n1.Center)
			}
			if !tt.vertical && n1.Center.Y != start.Y {
				t.Errorf("locked drag moved y: %v", n1.Center)
			}

			end := graph.Point{X: start.X + 60, Y: 120}
			c.Handle(at(Release, end))
			if c.State() != Idle {
				t.Errorf("state after release = %v", c.State())
			}

			want := r.Untranslate(end)
			if !near(n1.Pos.X, want.X) {
				t.Errorf("Pos.X = %v, want %v", n1.Pos.X, want.X)
			}
			if tt.vertical && !near(n1.Pos.Y, want.Y) {
				t.Errorf("Pos.Y = %v, want %v", n1.Pos.Y, want.Y)
			}
			if !tt.vertical && n1.Pos.Y != 0 {
				t.Errorf("locked drag committed y = %v", n1.Pos.Y)
			}
			if node(t, r, "2").Pos != others[0] || node(t, r, "3").Pos != others[1] {
				t.Error("drag moved another node")
			}
		})
	}
}

func TestClickWithoutMoveKeepsPosition(t *testing.T) {
	c, r := fixture(t, DefaultConfig())
	n := node(t, r, "2")
	before := n.Pos
	p := r.Translate(n.Pos)
	c.Handle(at(Press, graph.Point{X: p.X + 5, Y: p.Y}))
	c.Handle(at(Release, graph.Point{X: p.X + 5, Y: p.Y}))
	if !near(n.Pos.X, before.X) {
		t.Errorf("Pos moved from %v to %v", before, n.Pos)
	}
}

func TestSelectionExclusive(t *testing.T) {
	panel := &recordingPanel{}
	c, r := fixture(t, DefaultConfig(), WithInfoPanel(panel, "8.3"))
	a, b := node(t, r, "1"), node(t, r, "2")

	for _, n := range []*graph.Node{a, b} {
		p := r.Translate(n.Pos)
		c.Handle(at(Press, p))
		c.Handle(at(Release, p))
	}
	if a.Selected || !b.Selected {
		t.Errorf("selected: a=%v b=%v", a.Selected, b.Selected)
	}
	if len(panel.shown) != 2 || panel.shown[1] != "8.3/2" {
		t.Errorf("panel shown = %v", panel.shown)
	}

	c.Handle(at(Press, graph.Point{X: 200, Y: 100}))
	if r.Graph().Selected() != nil {
		t.Error("press on empty space should clear the selection")
	}
	if panel.cleared != 1 {
		t.Errorf("panel cleared %d times", panel.cleared)
	}
	if c.State() != Idle {
		t.Error("miss should not start a drag")
	}
}

func TestNonLeftPressIgnored(t *testing.T) {
	c, r := fixture(t, DefaultConfig())
	p := r.Translate(node(t, r, "1").Pos)
	c.Handle(Event{Kind: Press, X: p.X, Y: p.Y, Button: ButtonRight})
	if r.Graph().Selected() != nil || c.State() != Idle {
		t.Error("right button should not select")
	}
}

func TestHoverHighlightsAndLinks(t *testing.T) {
	linker := &recordingLinker{}
	c, r := fixture(t, DefaultConfig(), WithLinker(linker))
	a, b := node(t, r, "1"), node(t, r, "2")

	c.Handle(at(Move, r.Translate(a.Pos)))
	if !a.Highlit || c.Hovered() != "1" {
		t.Fatalf("hover on 1: highlit=%v hovered=%q", a.Highlit, c.Hovered())
	}
	c.Handle(at(Move, r.Translate(b.Pos)))
	if a.Highlit || !b.Highlit {
		t.Errorf("hover moved: a=%v b=%v", a.Highlit, b.Highlit)
	}
	c.Handle(Event{Kind: Leave})
	if b.Highlit || c.Hovered() != "" {
		t.Error("leave should clear the hover")
	}

	want := []string{"+1:active", "-1:active", "+2:active", "-2:active"}
	if len(linker.log) != len(want) {
		t.Fatalf("linker log = %v", linker.log)
	}
	for i := range want {
		if linker.log[i] != want[i] {
			t.Errorf("linker[%d] = %q, want %q", i, linker.log[i], want[i])
		}
	}
}

func TestHoverKeyFromLinkedElement(t *testing.T) {
	c, r := fixture(t, DefaultConfig())
	c.HoverKey("3")
	if !node(t, r, "3").Highlit {
		t.Error("HoverKey did not highlight")
	}
	c.HoverKey("")
	if node(t, r, "3").Highlit {
		t.Error("empty HoverKey did not clear")
	}
}

func TestTouchTranslatesToPointer(t *testing.T) {
	c, r := fixture(t, DefaultConfig())
	n := node(t, r, "1")
	start := r.Translate(n.Pos)
	end := graph.Point{X: start.X + 40, Y: start.Y}

	c.Handle(Event{Kind: TouchStart, Touches: []graph.Point{start}})
	if !n.Selected || c.State() != Dragging {
		t.Fatal("touchstart did not press")
	}
	c.Handle(Event{Kind: TouchMove, Touches: []graph.Point{end}})
	c.Handle(Event{Kind: TouchEnd})

	if want := r.Untranslate(end).X; !near(n.Pos.X, want) {
		t.Errorf("Pos.X = %v, want %v", n.Pos.X, want)
	}
	if c.State() != Idle {
		t.Error("touchend did not release")
	}
}

func TestOnRunsAfterBuiltin(t *testing.T) {
	c, r := fixture(t, DefaultConfig())
	var seen []string
	c.On(Press, func(Event) {
		if s := r.Graph().Selected(); s != nil {
			seen = append(seen, s.Key)
		}
	})
	c.On(HoverEnter, func(ev Event) { seen = append(seen, "hover "+ev.Key) })

	p := r.Translate(node(t, r, "3").Pos)
	c.Handle(at(Press, p))
	c.Handle(at(Move, p))
	if len(seen) != 2 || seen[0] != "3" || seen[1] != "hover 3" {
		t.Errorf("seen = %v", seen)
	}
}

func TestReset(t *testing.T) {
	linker := &recordingLinker{}
	c, r := fixture(t, DefaultConfig(), WithLinker(linker))
	p := r.Translate(node(t, r, "1").Pos)
	c.Handle(at(Press, p))
	c.Handle(at(Move, p))
	c.Reset()
	if c.State() != Idle || c.Active() != nil || c.Hovered() != "" {
		t.Error("Reset left state behind")
	}
	if last := linker.log[len(linker.log)-1]; last != "-1:active" {
		t.Errorf("Reset should deactivate the link, got %q", last)
	}
}

func TestKindNames(t *testing.T) {
	for k := Press; k <= HoverLeave; k++ {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("wheel"); ok {
		t.Error("unknown kind parsed")
	}
}

func TestConfigValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.LinkClass != DefaultLinkClass {
		t.Errorf("LinkClass = %q", cfg.LinkClass)
	}
	if err := (Config{}).Validate(); err == nil {
		t.Error("empty link class should be invalid")
	}
}
