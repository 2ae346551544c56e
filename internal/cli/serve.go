package cli

import (
	"context"
	"net"

	"github.com/spf13/cobra"

	"github.com/lmfdb/latticeview/internal/server"
	"github.com/lmfdb/latticeview/pkg/config"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/source"
)

// serveCommand starts the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noInfo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live diagram sessions over HTTP",
		Long: `Serve loads diagrams from the configured source on first request and keeps
one interactive session per ambient object. Clients fetch frames as PNG or JSON
and send pointer events over POST or a websocket.`,
		Example: `  latticeview serve --input-dir ./diagrams
  latticeview serve --addr :9000 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, !noInfo)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noInfo, "no-info", false, "do not fetch subgroup info on the server")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config, withInfo bool) error {
	logger := loggerFromContext(ctx)

	src, err := source.Open(ctx, cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close(context.Background())

	store := c.openCache(ctx, cfg)
	defer store.Close()

	scfg := server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Session:        cfg.Session,
	}
	if withInfo {
		info := cfg.Info
		scfg.Info = &info
	}

	load := func(ctx context.Context, ambient string) (*pkgio.Document, error) {
		prog := newProgress(logger)
		doc, err := src.Load(ctx, ambient)
		if err != nil {
			return nil, err
		}
		prog.done("Loaded " + ambient + " from " + cfg.Source.Kind())
		return doc, nil
	}

	srv, err := server.New(load, scfg,
		server.WithLogger(logger),
		server.WithCache(store),
		server.WithIconLoader(iconLoader(cfg, store, cfg.Source.Dir)),
	)
	if err != nil {
		return err
	}

	printSuccess("Serving diagrams from %s", StyleHighlight.Render(cfg.Source.Kind()))
	printKeyValue("Address", cfg.Server.Addr)
	printNextStep("Try", "curl http://localhost"+portOf(cfg.Server.Addr)+"/healthz")
	return srv.ListenAndServe(ctx)
}

// portOf returns the ":port" part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil && port != "" {
		return ":" + port
	}
	return ""
}
