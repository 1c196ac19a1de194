package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/coursepaper/pkg/diagram"
	"github.com/matzehuels/coursepaper/pkg/errors"
)

// checkCommand creates the check command, which recomputes the routes the
// figures highlight and compares them with what is drawn.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the highlighted shortest and critical paths",
		Long: `Check runs Dijkstra's algorithm on the transport graph and the critical
path method on the project network, and fails if the highlighted edges of
either figure disagree with the computed path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context())
		},
	}
}

func (c *CLI) runCheck(ctx context.Context) error {
	w := c.stdout()
	logger := loggerFromContext(ctx)

	routeOK, err := checkTransport(w, diagram.TransportGraph())
	if err != nil {
		return err
	}
	printNewline(w)
	pathOK, err := checkProject(w, diagram.ProjectNetwork(), diagram.ProjectDurations())
	if err != nil {
		return err
	}

	logger.Debug("Check finished", "route", routeOK, "critical", pathOK)
	if !routeOK || !pathOK {
		return errors.New(errors.ErrCodeInvalidContent, "highlighted paths do not match the analysis")
	}
	return nil
}

// checkTransport compares the highlighted route from the first to the last
// node with the shortest path between them.
func checkTransport(w io.Writer, g diagram.Graph) (bool, error) {
	if len(g.Nodes) < 2 {
		return false, errors.New(errors.ErrCodeInvalidInput, "transport graph needs two nodes")
	}
	src, dst := g.Nodes[0].ID, g.Nodes[len(g.Nodes)-1].ID

	shortest, err := diagram.ShortestPath(g, src, dst)
	if err != nil {
		return false, err
	}
	printKeyValue(w, "shortest", formatRoute(shortest, g.Unit))

	drawn, err := diagram.HighlightedRoute(g, src, dst)
	if err != nil {
		printError(w, "Highlighted route: %s", errors.UserMessage(err))
		return false, nil
	}
	printKeyValue(w, "highlighted", formatRoute(drawn, g.Unit))

	if drawn.Length != shortest.Length {
		printError(w, "Highlighted route is %s longer than the shortest",
			formatLength(drawn.Length-shortest.Length, g.Unit))
		return false, nil
	}
	printSuccess(w, "Highlighted route is a shortest path (%s)", formatLength(shortest.Length, g.Unit))
	return true, nil
}

// checkProject compares the critical connections with the critical path.
func checkProject(w io.Writer, n diagram.Network, durations map[int]float64) (bool, error) {
	sched, err := diagram.CriticalPath(n, durations)
	if err != nil {
		return false, err
	}
	printKeyValue(w, "critical", formatChain(sched.Path))
	printKeyValue(w, "duration", strconv.FormatFloat(sched.Length, 'f', -1, 64)+" д")

	var want []diagram.Connection
	for i := 1; i < len(sched.Path); i++ {
		want = append(want, diagram.Connection{From: sched.Path[i-1], To: sched.Path[i]})
	}
	got := n.CriticalConnections()

	same := len(got) == len(want)
	for _, c := range want {
		same = same && slices.ContainsFunc(got, func(g diagram.Connection) bool {
			return g.From == c.From && g.To == c.To
		})
	}
	if !same {
		drawn := make([]string, len(got))
		for i, c := range got {
			drawn[i] = fmt.Sprintf("%d→%d", c.From, c.To)
		}
		printError(w, "Highlighted connections %s differ from the critical path", strings.Join(drawn, ", "))
		return false, nil
	}
	printSuccess(w, "Highlighted connections follow the critical path")
	return true, nil
}

func formatRoute(p diagram.Path, unit string) string {
	return strings.Join(p.Nodes, " → ") + " (" + formatLength(p.Length, unit) + ")"
}

func formatLength(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit != "" {
		s += " " + unit
	}
	return s
}

func formatChain(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " → ")
}
