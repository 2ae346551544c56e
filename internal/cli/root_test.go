package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lmfdb/latticeview/pkg/buildinfo"
	"github.com/lmfdb/latticeview/pkg/source"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	want := []string{"render", "positions", "layout", "dot", "browse", "serve", "cache", "config", "completion", "version"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil || cmd.Name() != name {
				t.Errorf("subcommand %q not registered", name)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, buildinfo.Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestSourceFlagsApply(t *testing.T) {
	cfg := source.Config{Dir: "keep", MongoDatabase: "lmfdb"}
	f := sourceFlags{mongoURI: "mongodb://db", postgresTable: "diagrams"}
	f.apply(&cfg)

	if cfg.Dir != "keep" || cfg.MongoDatabase != "lmfdb" {
		t.Errorf("unset flags changed config: %+v", cfg)
	}
	if cfg.MongoURI != "mongodb://db" || cfg.PostgresTable != "diagrams" {
		t.Errorf("set flags not applied: %+v", cfg)
	}
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "lv", "config.toml")

	out, err := execute(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}

	if _, err := execute(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err = execute(t, "--config", path, "--postgres-dsn", "postgres://x", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[session]") || !strings.Contains(out, "postgres://x") {
		t.Errorf("config show output missing sections or flag override:\n%s", out)
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{":8080": ":8080", "0.0.0.0:9000": ":9000", "bogus": ""}
	for addr, want := range tests {
		if got := portOf(addr); got != want {
			t.Errorf("portOf(%q) = %q, want %q", addr, got, want)
		}
	}
}
