package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/config"
	"github.com/matzehuels/coursepaper/pkg/document"
	"github.com/matzehuels/coursepaper/pkg/errors"
	"github.com/matzehuels/coursepaper/pkg/export"
	"github.com/matzehuels/coursepaper/pkg/render/sink"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output   string // output directory
	content  string // paper YAML; empty uses the built-in paper
	filename string // overrides the configured filename
	noCache  bool   // bypass the figure cache
}

// exportCommand creates the export command, which produces the Word document.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "export [page.html]",
		Short: "Export the paper (or an HTML page) as a Word document",
		Long: `Export wraps the content of the page's #document-content element in a
Word-compatible HTML document and writes it as a .doc file. Without an argument
the built-in page is exported. A page without the container exports nothing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page := ""
			if len(args) == 1 {
				page = args[0]
			}
			return c.runExport(cmd.Context(), page, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVar(&opts.content, "content", "", "paper content YAML (default: built-in)")
	cmd.Flags().StringVar(&opts.filename, "filename", "", "document filename (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the figure cache")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, pagePath string, opts exportOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.filename != "" {
		cfg.Export.Filename = opts.filename
	}
	exporter := cfg.Exporter()
	if err := exporter.Validate(); err != nil {
		return err
	}

	var (
		artifact export.Artifact
		ok       bool
	)
	if pagePath != "" {
		artifact, ok, err = exportFile(exporter, pagePath)
	} else {
		var paper *document.Paper
		paper, err = loadPaper(opts.content)
		if err != nil {
			return err
		}
		renderer := c.newRenderer(cfg, opts.noCache)
		defer renderer.Cache.Close()
		artifact, ok, err = exportPaper(ctx, cfg, paper, renderer)
	}
	if err != nil {
		return err
	}

	w := c.stdout()
	if !ok {
		printWarning(w, "No #%s element; nothing exported", exporter.ContainerID)
		return nil
	}

	path, err := artifact.WriteFile(opts.output)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("Exported", "path", path, "bytes", len(artifact.Data))
	printSuccess(w, "Exported %s", artifact.Filename)
	printFile(w, path)
	return nil
}

// exportFile exports the HTML page at path.
func exportFile(e *export.Exporter, path string) (export.Artifact, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return export.Artifact{}, false, errors.New(errors.ErrCodeFileNotFound, "page %s not found", path)
		}
		return export.Artifact{}, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return e.Export(f)
}

// exportPaper exports the paper as rendered with inline figures.
func exportPaper(ctx context.Context, cfg config.Config, paper *document.Paper, renderer *sink.Cached) (export.Artifact, bool, error) {
	page, err := inlinePage(ctx, cfg, paper, renderer)
	if err != nil {
		return export.Artifact{}, false, err
	}
	return cfg.Exporter().Export(page)
}
