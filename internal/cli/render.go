package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string        // output directory
	formats []sink.Format // output formats
	scale   float64       // PNG device pixel ratio; 0 keeps the configured one
	layout  bool          // lay DOT output out with neato and write SVG
	noCache bool          // bypass the figure cache
}

// renderCommand creates the render command for drawing figures.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{output: ".", scale: 1}

	cmd := &cobra.Command{
		Use:   "render [figure...]",
		Short: "Render the paper's figures",
		Long: `Render draws the named figures (transport, project), or all of them, and
writes one file per figure and format into the output directory.`,
		ValidArgs: render.Names(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			if !cmd.Flags().Changed("scale") {
				opts.scale = 0
			}
			if len(args) == 0 {
				args = render.Names()
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG device pixel ratio (1-4)")
	cmd.Flags().BoolVar(&opts.layout, "layout", false, "lay DOT output out with neato (writes .dot.svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the figure cache")

	return cmd
}

// parseFormats parses the --format flag. An empty flag means svg.
func parseFormats(s string) ([]sink.Format, error) {
	if strings.TrimSpace(s) == "" {
		return []sink.Format{sink.FormatSVG}, nil
	}
	var out []sink.Format
	seen := make(map[sink.Format]bool)
	for _, part := range strings.Split(s, ",") {
		f, err := sink.ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// outputName returns the file name for a figure in format f.
func outputName(name string, f sink.Format, layout bool) string {
	if f == sink.FormatDOT && layout {
		return name + ".dot.svg"
	}
	return name + "." + f.Ext()
}

func (c *CLI) runRender(ctx context.Context, names []string, opts renderOpts) error {
	if opts.scale != 0 && (opts.scale < 1 || opts.scale > 4) {
		return errors.New(errors.ErrCodeInvalidInput, "--scale must be between 1 and 4, got %g", opts.scale)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	renderer := c.newRenderer(cfg, opts.noCache)
	defer renderer.Cache.Close()

	sinkOpts := cfg.SinkOptions()
	if opts.scale != 0 {
		sinkOpts.Scale = opts.scale
	}
	sinkOpts.Layout = opts.layout

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	w := c.stdout()

	for _, name := range names {
		d, err := render.Lookup(name)
		if err != nil {
			return err
		}
		printSuccess(w, "%s", d.Caption)

		for _, f := range opts.formats {
			data, cached, err := renderer.RenderHit(ctx, name, f, sinkOpts)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.output, outputName(name, f, opts.layout))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			logger.Debug("Wrote figure", "figure", name, "format", f, "bytes", len(data), "cached", cached)
			printFile(w, path)
			nodes, edges := figureSize(d)
			printStats(w, nodes, edges, len(data), cached)
		}
	}

	prog.done("Rendered figures", "count", len(names), "formats", len(opts.formats))
	return nil
}

// figureSize returns the node and edge counts of d.
func figureSize(d render.Diagram) (nodes, edges int) {
	switch {
	case d.Graph != nil:
		return len(d.Graph.Nodes), len(d.Graph.Edges)
	case d.Network != nil:
		return len(d.Network.Activities), len(d.Network.Connections)
	}
	return 0, 0
}
