package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meshgrad/pkg/compose"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	gio "github.com/matzehuels/meshgrad/pkg/io"
	"github.com/matzehuels/meshgrad/pkg/proximity"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var showCSS bool

	cmd := &cobra.Command{
		Use:   "inspect <gradient.json>",
		Short: "Print a gradient's blobs, colors and proximity edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := gio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("loaded gradient", "path", args[0], "blobs", st.Len())
			printInspect(args[0], st, showCSS)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCSS, "css", false, "also print the preview style declarations")
	return cmd
}

func printInspect(title string, st gradient.State, showCSS bool) {
	edges := proximity.Build(st, proximity.Focus{})

	fmt.Fprintln(stdout, StyleTitle.Render(title))
	printKeyValue("Background", swatch(st.Background)+" "+st.Background)
	printStats(st.Len(), len(edges))
	printNewline()

	if st.Len() == 0 {
		printWarning("no blobs")
		return
	}
	fmt.Fprintln(stdout, blobTable(st))

	if len(edges) > 0 {
		printNewline()
		fmt.Fprintln(stdout, StyleTitle.Render("Proximity"))
		for _, line := range edgeLines(edges) {
			fmt.Fprintln(stdout, "  "+line)
		}
	}

	if showCSS {
		printNewline()
		fmt.Fprintln(stdout, StyleTitle.Render("Style"))
		fmt.Fprintln(stdout, "  "+compose.Composite(st).CSS())
	}
}
