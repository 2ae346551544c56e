package infopanel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lmfdb/latticeview/pkg/cache"
	"github.com/lmfdb/latticeview/pkg/errors"
)

func testConfig(base string) Config {
	return Config{BaseURL: base, Attempts: 1, RetryDelay: time.Millisecond}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var c Config
	c.SetDefaults()
	if c.PathPrefix != DefaultPathPrefix || c.Placeholder != DefaultPlaceholder {
		t.Errorf("defaults not applied: %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"non-http base", func(c *Config) { c.BaseURL = "ftp://example.org" }},
		{"negative ttl", func(c *Config) { c.TTL = -time.Second }},
		{"zero attempts", func(c *Config) { c.Attempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate = %v", err)
			}
		})
	}
}

func TestURL(t *testing.T) {
	p, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	got := p.URL("8.3", "2")
	want := "https://www.lmfdb.org/Groups/Abstract/subinfo/8.3/2"
	if got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestShowFetchesAndConverts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Groups/Abstract/subinfo/8.3/2" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<h3>Subgroup C2</h3><p>order  2</p>"))
	}))
	defer srv.Close()

	var mu sync.Mutex
	var updates []State
	p, err := New(context.Background(), testConfig(srv.URL), WithUpdateFunc(func(c Content) {
		mu.Lock()
		updates = append(updates, c.State)
		mu.Unlock()
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	p.Show("8.3", "2")
	p.Wait()

	c := p.Content()
	if c.State != StateReady || c.Key != "2" || c.Ambient != "8.3" {
		t.Fatalf("content = %+v", c)
	}
	if c.Text != "Subgroup C2\norder 2" {
		t.Errorf("Text = %q", c.Text)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(updates) != 2 || updates[0] != StateLoading || updates[1] != StateReady {
		t.Errorf("updates = %v", updates)
	}
}

func TestShowFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, _ := New(context.Background(), testConfig(srv.URL))
	defer p.Close()

	p.Show("8.3", "4")
	p.Wait()
	c := p.Content()
	if c.State != StateFailed || c.Text != DefaultFailure || c.Err == nil {
		t.Errorf("content = %+v", c)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/slow") {
			<-release
		}
		w.Write([]byte("<p>" + r.URL.Path + "</p>"))
	}))
	defer srv.Close()

	p, _ := New(context.Background(), testConfig(srv.URL))
	defer p.Close()

	p.Show("8.3", "slow")
	p.Show("8.3", "fast")
	close(release)
	p.Wait()

	if c := p.Content(); c.Key != "fast" || c.State != StateReady {
		t.Errorf("content = %+v, want the newer selection", c)
	}

	p.Show("8.3", "fast")
	p.Clear()
	p.Wait()
	if c := p.Content(); c.State != StateEmpty || c.Text != DefaultPlaceholder {
		t.Errorf("content after Clear = %+v", c)
	}
}

func TestFetchUsesCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte("<p>info</p>"))
	}))
	defer srv.Close()

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	p, _ := New(context.Background(), testConfig(srv.URL), WithCache(store))
	defer p.Close()

	for range 3 {
		if _, err := p.Fetch(context.Background(), "8.3", "2"); err != nil {
			t.Fatal(err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
	if _, ok, _ := store.Get(context.Background(), "info:8.3/2"); !ok {
		t.Error("markup not stored under the info prefix")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "hello   world", "hello world"},
		{"blocks", "<div>a</div><div>b</div>", "a\nb"},
		{"br", "x<br>y", "x\ny"},
		{"script dropped", "<p>keep</p><script>var x</script>", "keep"},
		{"table", "<table><tr><td>1</td><td>2</td></tr></table>", "1 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
