package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmfdb/latticeview/pkg/errors"
	pkgio "github.com/lmfdb/latticeview/pkg/io"
	"github.com/lmfdb/latticeview/pkg/render/nodelink"
)

// positionsCommand prints the position export of a diagram.
func (c *CLI) positionsCommand() *cobra.Command {
	var view viewOpts

	cmd := &cobra.Command{
		Use:   "positions <file|ambient>",
		Short: "Print node positions as [ambient,[[key,x],...]]",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := c.openSession(cmd.Context(), args[0], &view)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.Positions())
			return nil
		},
	}
	view.register(cmd)
	return cmd
}

// layoutCommand writes the laid out graph as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var view viewOpts
	var output string

	cmd := &cobra.Command{
		Use:   "layout <file|ambient>",
		Short: "Write node positions, levels and bounds as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := c.openSession(cmd.Context(), args[0], &view)
			if err != nil {
				return err
			}
			l := sess.Layout()
			if output == "" {
				return pkgio.WriteLayout(l, cmd.OutOrStdout())
			}
			if err := pkgio.WriteLayoutFile(l, output); err != nil {
				return err
			}
			printSuccess("Layout of %s", StyleHighlight.Render(sess.Ambient()))
			printFile(output)
			return nil
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// dotCommand exports the displayed graph to Graphviz.
func (c *CLI) dotCommand() *cobra.Command {
	var view viewOpts
	var output, format string

	cmd := &cobra.Command{
		Use:   "dot <file|ambient>",
		Short: "Export a diagram as Graphviz DOT or SVG with pinned positions",
		Example: `  latticeview dot 8.3.json > 8.3.dot
  latticeview dot 8.3.json -o 8.3.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeInvalidInput, "invalid format: %s (must be 'dot' or 'svg')", format)
			}

			ctx := cmd.Context()
			sess, cfg, err := c.openSession(ctx, args[0], &view)
			if err != nil {
				return err
			}
			dot := nodelink.ToDOT(sess.Graph(), nodelink.Options{
				Ambient:       sess.Ambient(),
				SelectedColor: cfg.Session.Render.Palette.Selected,
			})

			data := []byte(dot)
			if format == "svg" {
				spin := newSpinner(ctx, "Running graphviz...")
				spin.Start()
				data, err = nodelink.RenderSVG(ctx, dot)
				spin.Stop()
				if err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Exported %s as %s", StyleHighlight.Render(sess.Ambient()), format)
			printFile(output)
			return nil
		},
	}
	view.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "dot or svg (default from the output extension, else dot)")
	return cmd
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return "svg"
	}
	return "dot"
}
