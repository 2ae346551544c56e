package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/lmfdb/latticeview/pkg/graph"
	"github.com/lmfdb/latticeview/pkg/infopanel"
)

// keysAfter yields keys once ready is closed, then EOF.
type keysAfter struct {
	ready <-chan struct{}
	keys  []byte
	sent  bool
}

func (k *keysAfter) Read(p []byte) (int, error) {
	if k.sent {
		return 0, io.EOF
	}
	<-k.ready
	k.sent = true
	return copy(p, k.keys), nil
}

func TestBrowseWithSelect(t *testing.T) {
	input := isolate(t)

	hit := make(chan struct{})
	paths := make(chan string, 8)
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case paths <- r.URL.Path:
		default:
		}
		w.Write([]byte("<p>Subgroup <b>C4</b></p>"))
		once.Do(func() { close(hit) })
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[info]\nbase_url = \""+srv.URL+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs, screen bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetIn(&keysAfter{ready: hit, keys: []byte("q")})
	root.SetOut(io.Discard)
	root.SetErr(&screen)
	root.SetArgs([]string{"--no-cache", "--config", cfgPath, "browse", input, "--select", "4"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("browse: %v", err)
	}
	select {
	case path := <-paths:
		if path != "/Groups/Abstract/subinfo/8.3/4" {
			t.Errorf("info fetched from %q", path)
		}
	default:
		t.Error("selected node info was never fetched")
	}
}

func TestSortedNodesTopLevelFirst(t *testing.T) {
	g := graph.New()
	orders := graph.NewOrderTable([]graph.OrderRow{{Raw: "1"}, {Raw: "2", Major: 1}})
	g.AddNode(graph.NodeTuple{Key: "a", RawOrder: "1"}, 0, orders)
	g.AddNode(graph.NodeTuple{Key: "c", RawOrder: "2"}, 0, orders)
	g.AddNode(graph.NodeTuple{Key: "b", RawOrder: "2"}, 0, orders)
	for i, key := range []string{"a", "b", "c"} {
		n, _ := g.Node(key)
		n.Pos.X = float64(i)
	}

	var keys []string
	for _, n := range sortedNodes(g) {
		keys = append(keys, n.Key)
	}
	if want := []string{"b", "c", "a"}; !slices.Equal(keys, want) {
		t.Errorf("order = %v, want %v", keys, want)
	}
}

func TestBrowseModelInitReadsPanel(t *testing.T) {
	if cmd := (browseModel{}).Init(); cmd != nil {
		t.Error("Init without a panel should return no command")
	}

	panel, err := infopanel.New(context.Background(), infopanel.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer panel.Close()

	cmd := browseModel{panel: panel}.Init()
	if cmd == nil {
		t.Fatal("Init with a panel should return a command")
	}
	msg, ok := cmd().(infoMsg)
	if !ok {
		t.Fatalf("Init command returned %T", cmd())
	}
	if msg.State != infopanel.StateEmpty {
		t.Errorf("state = %v, want empty", msg.State)
	}
}
