package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genelayout/pkg/layout"
	"github.com/matzehuels/genelayout/pkg/pipeline"
)

// depthCommand prints the call depth of every node and the X offset of each
// depth column, as used by the column layouts.
func (c *CLI) depthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "depth [graph.json]",
		Short: "Print call depths and column offsets of a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			g, err := pipeline.Load(data, pipeline.LoadOptions{})
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			depths, resolved := layout.CallDepths(g)
			columns := layout.ColumnPositions(g, depths)

			fmt.Fprintln(stdout, depthTable(g, depths, columns))
			if !resolved {
				printWarning("Call depths did not settle; nodes in a dependency cycle were placed after their resolved suppliers")
			}
			printStats(g.Len(), len(g.Connections), false)
			return nil
		},
	}
}
