package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Coursepaper renders and serves the graph and network models paper",
		Long: `Coursepaper renders the course paper "Графовые и сетевые модели": its two
figures, the HTML page that presents them and the Word document exported from it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(c.commandContext(cmd))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.stdout())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ./coursepaper.toml if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.outlineCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
