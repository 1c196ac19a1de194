package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string // overrides server.addr
	content string // paper YAML; empty uses the built-in paper
}

// serveCommand creates the serve command, which runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the paper over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.content, "content", "", "paper content YAML (default: built-in)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	paper, err := loadPaper(opts.content)
	if err != nil {
		return err
	}

	store, err := cfg.Cache.Open(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(cfg,
		server.WithPaper(paper),
		server.WithCache(store),
		server.WithLogger(loggerFromContext(ctx)),
	)
	if err != nil {
		return err
	}

	printInfo(c.stdout(), "Serving %s on %s", StyleValue.Render(paper.Title), StyleLink.Render(cfg.Server.Addr))
	return srv.Run(ctx)
}
