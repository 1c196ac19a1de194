package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/config"
	"github.com/matzehuels/coursepaper/pkg/document"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/render"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// figuresDir is the build subdirectory holding the figure files.
const figuresDir = "diagrams"

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output  string // output directory
	content string // paper YAML; empty uses the built-in paper
	noCache bool   // bypass the figure cache
}

// buildCommand creates the build command, which writes a static copy of the page.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{output: "site"}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the page, its figures and the Word export into a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVar(&opts.content, "content", "", "paper content YAML (default: built-in)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the figure cache")

	return cmd
}

// loadPaper loads the paper from path, or the built-in paper when path is empty.
func loadPaper(path string) (*document.Paper, error) {
	if path == "" {
		return document.Default()
	}
	return document.Load(path)
}

func (c *CLI) runBuild(ctx context.Context, opts buildOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	paper, err := loadPaper(opts.content)
	if err != nil {
		return err
	}
	renderer := c.newRenderer(cfg, opts.noCache)
	defer renderer.Cache.Close()

	w := c.stdout()
	prog := newProgress(loggerFromContext(ctx))

	spinner := newSpinner(ctx, w, "Building "+opts.output+"...")
	spinner.Start()

	files, err := buildSite(ctx, cfg, paper, renderer, opts.output)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Built %s", opts.output))
	for _, f := range files {
		printFile(w, f)
	}
	prog.done("Built site", "dir", opts.output, "files", len(files))

	printNewline(w)
	printNextStep(w, "Open the page", "open "+filepath.Join(opts.output, "index.html"))
	return nil
}

// buildSite writes index.html, every figure as PNG and SVG, and the Word
// document into dir. It returns the written paths.
func buildSite(ctx context.Context, cfg config.Config, paper *document.Paper, renderer *sink.Cached, dir string) ([]string, error) {
	figDir := filepath.Join(dir, figuresDir)
	if err := os.MkdirAll(figDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	write := func(path string, data []byte) error {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		files = append(files, path)
		return nil
	}

	opts := cfg.SinkOptions()
	for _, name := range paper.Figures() {
		if _, err := render.Lookup(name); err != nil {
			return nil, err
		}
		for _, f := range []sink.Format{sink.FormatPNG, sink.FormatSVG} {
			data, err := renderer.Render(ctx, name, f, opts)
			if err != nil {
				return nil, err
			}
			if err := write(filepath.Join(figDir, outputName(name, f, false)), data); err != nil {
				return nil, err
			}
		}
	}

	exportURL := ""
	doc, ok, err := exportPaper(ctx, cfg, paper, renderer)
	if err != nil {
		return nil, err
	}
	if ok {
		exportURL = doc.Filename
	}

	var page bytes.Buffer
	err = document.Page(ctx, &page, paper, document.PageOptions{
		ExportURL: exportURL,
		Figures:   document.LinkedFigures(figuresDir + "/%s.png"),
	})
	if err != nil {
		return nil, err
	}
	if err := write(filepath.Join(dir, "index.html"), page.Bytes()); err != nil {
		return nil, err
	}

	if ok {
		path, err := doc.WriteFile(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}

// inlinePage renders the page with figures embedded as data URIs, the form
// the Word export is made from.
func inlinePage(ctx context.Context, cfg config.Config, paper *document.Paper, renderer *sink.Cached) (*bytes.Buffer, error) {
	var page bytes.Buffer
	err := document.Page(ctx, &page, paper, document.PageOptions{
		Figures: document.InlineFigures(renderer.Render, cfg.SinkOptions()),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render page")
	}
	return &page, nil
}
