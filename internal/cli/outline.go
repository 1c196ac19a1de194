package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/document"
)

// outlineOpts holds the command-line flags for the outline command.
type outlineOpts struct {
	content string // paper YAML; empty uses the built-in paper
	list    bool   // print the outline instead of starting the browser
}

// outlineCommand creates the outline command for browsing the paper.
func (c *CLI) outlineCommand() *cobra.Command {
	var opts outlineOpts

	cmd := &cobra.Command{
		Use:   "outline [section]",
		Short: "Browse the paper's sections",
		Long: `Outline opens an interactive list of the paper's sections; selecting one
prints it as plain text. With a section id the text is printed directly, and
--list prints the outline without the browser.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paper, err := loadPaper(opts.content)
			if err != nil {
				return err
			}
			switch {
			case len(args) == 1:
				return c.printSection(paper, args[0])
			case opts.list:
				c.printOutline(paper)
				return nil
			}
			return c.runOutline(cmd.Context(), paper)
		},
	}

	cmd.Flags().StringVar(&opts.content, "content", "", "paper content YAML (default: built-in)")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "print the outline and exit")

	return cmd
}

func (c *CLI) runOutline(ctx context.Context, paper *document.Paper) error {
	p := tea.NewProgram(NewOutlineModel(paper), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("outline browser: %w", err)
	}
	m, ok := final.(OutlineModel)
	if !ok || m.Selected == nil {
		return nil
	}
	return c.printSection(paper, m.Selected.ID)
}

func (c *CLI) printSection(paper *document.Paper, id string) error {
	text, err := paper.PlainText(id)
	if err != nil {
		return err
	}
	fmt.Fprint(c.stdout(), text)
	return nil
}

func (c *CLI) printOutline(paper *document.Paper) {
	w := c.stdout()
	fmt.Fprintln(w, StyleTitle.Render(paper.Title))
	for _, e := range paper.Outline() {
		printKeyValue(w, e.ID, e.Title)
		for _, h := range e.Headings {
			printDetail(w, "%s%s", strings.Repeat("  ", max(h.Level-2, 0)), h.Text)
		}
		if len(e.Figures) > 0 {
			printDetail(w, "figures: %s", strings.Join(e.Figures, ", "))
		}
		printDetail(w, "%s blocks", strconv.Itoa(e.Blocks))
	}
}
