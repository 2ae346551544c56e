package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lmfdb/latticeview/pkg/config"
	"github.com/lmfdb/latticeview/pkg/errors"
	"github.com/lmfdb/latticeview/pkg/icon"
	"github.com/lmfdb/latticeview/pkg/session"
)

// watchDebounce coalesces the bursts of events editors produce on save.
const watchDebounce = 150 * time.Millisecond

// viewOpts holds the flags that pick and shape the displayed diagram.
// They are shared by every command that builds a session.
type viewOpts struct {
	variant    string // variant name, e.g. "C" or "A"
	byOrder    bool   // lay heights out by the simple order ranking
	relax      bool   // run the spring relaxation after the initial layout
	flip       bool   // draw larger orders lower
	showOrders bool   // draw the order list beside by-order layouts
	width      int    // canvas width in pixels, 0 derives it
	height     int    // canvas height in pixels, 0 derives it
	selectKey  string // node to select before output
}

func (o *viewOpts) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.variant, "variant", "", "diagram variant to show (default: first configured)")
	flags.BoolVar(&o.byOrder, "by-order", false, "place levels by order instead of the order table")
	flags.BoolVar(&o.relax, "relax", false, "relax horizontal positions with the spring model")
	flags.BoolVar(&o.flip, "flip", false, "flip the diagram vertically")
	flags.BoolVar(&o.showOrders, "show-orders", false, "draw the order list in by-order mode")
	flags.IntVar(&o.width, "width", 0, "canvas width (default derived from the diagram)")
	flags.IntVar(&o.height, "height", 0, "canvas height (default derived from the diagram)")
	flags.StringVar(&o.selectKey, "select", "", "select the node with this key")
}

// apply overrides the session config with the flags that were set.
func (o *viewOpts) apply(cfg *session.Config) error {
	if o.variant != "" {
		idx := -1
		for i, v := range cfg.Variants {
			if v == o.variant {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.New(errors.ErrCodeInvalidMode, "unknown variant %q (have %s)", o.variant, strings.Join(cfg.Variants, ", "))
		}
		cfg.InitialVariant = idx
	}
	if o.byOrder {
		cfg.InitialByOrder = true
	}
	if o.relax {
		cfg.Layout.Relax = true
	}
	if o.flip {
		cfg.Layout.FlipVertical = true
	}
	if o.showOrders {
		cfg.ShowOrders = true
	}
	if o.width > 0 {
		cfg.Render.Width = o.width
	}
	if o.height > 0 {
		cfg.Render.Height = o.height
	}
	cfg.SetDefaults()
	return nil
}

// openSession loads input and builds a session shaped by opts.
func (c *CLI) openSession(ctx context.Context, input string, opts *viewOpts, sopts ...session.Option) (*session.Session, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := opts.apply(&cfg.Session); err != nil {
		return nil, nil, err
	}
	doc, dir, err := c.loadDocument(ctx, cfg, input)
	if err != nil {
		return nil, nil, err
	}
	sess, err := c.newSession(ctx, cfg, doc, dir, sopts...)
	if err != nil {
		return nil, nil, err
	}
	if opts.selectKey != "" && !sess.Select(opts.selectKey) {
		return nil, nil, errors.New(errors.ErrCodeNotFound, "no node with key %q", opts.selectKey)
	}
	return sess, cfg, nil
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	view   viewOpts
	output string // output PNG path, default <ambient>.png
	watch  bool   // re-render whenever the input file changes
}

// renderCommand creates the render command for drawing a diagram to PNG.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file|ambient>",
		Short: "Render a diagram to PNG",
		Long: `Render lays out a diagram document and draws it to a PNG file.

The input is a JSON document, or an ambient label looked up in the
configured source. Icons are loaded before the image is written.`,
		Example: `  latticeview render 8.3.json -o 8.3.png
  latticeview render 8.3.json --variant A --by-order --show-orders
  latticeview render 8.3.json --watch
  latticeview render 8.3 --mongo-uri mongodb://localhost:27017`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return c.watchRender(cmd.Context(), args[0], &opts)
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.view.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <ambient>.png)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the input file changes")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sess, _, err := c.openSession(ctx, input, &opts.view)
	if err != nil {
		return err
	}

	if n := sess.PendingIcons(); n > 0 {
		var loaded atomic.Int64
		spin := newSpinner(ctx, "Loading icons", withStatus(func() string {
			return fmt.Sprintf("%d/%d", loaded.Load(), n)
		}))
		spin.Start()
		err := sess.FetchIcons(ctx, func(icon.Result) { loaded.Add(1) })
		spin.Stop()
		if err != nil {
			return err
		}
		logger.Debug("icons loaded", "count", n)
	}

	out := opts.output
	if out == "" {
		out = outputName(sess.Ambient(), input) + ".png"
	}
	if err := sess.Renderer().SavePNG(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", out)
	}

	prog.done("Rendered " + sess.Ambient())
	printSuccess("Rendered %s", StyleHighlight.Render(sess.Ambient()))
	printStats(statsOf(sess))
	printFile(out)
	return nil
}

// watchRender renders once, then again after every change to input until
// ctx is cancelled.
func (c *CLI) watchRender(ctx context.Context, input string, opts *renderOpts) error {
	if !isFile(input) {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs a file, got %q", input)
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "start watcher")
	}
	defer watcher.Close()
	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", filepath.Dir(abs))
	}

	render := func() {
		if err := c.runRender(ctx, input, opts); err != nil {
			printError("%s", errors.UserMessage(err))
		}
	}
	render()
	printInfo("Watching %s (ctrl+c to stop)", input)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch: %v", err)
		case <-fire:
			fire = nil
			render()
		}
	}
}

// outputName derives a file stem from the ambient label, falling back to
// the input file name.
func outputName(ambient, input string) string {
	if ambient != "" {
		return strings.NewReplacer("/", "_", "\\", "_").Replace(ambient)
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
