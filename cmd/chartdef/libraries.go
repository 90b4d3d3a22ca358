package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/angas/chartdef-go/chart"
	"github.com/angas/chartdef-go/render"
	"github.com/spf13/cobra"
)

func newLibrariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "List the chart libraries and the chart types they draw",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := render.Default()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LIBRARY\tTYPES")
			for _, l := range registry.Libraries() {
				var types []string
				for _, t := range chart.Types {
					if registry.Supports(l, t) {
						types = append(types, string(t))
					}
				}
				fmt.Fprintf(w, "%s\t%s\n", l, strings.Join(types, ", "))
			}
			return w.Flush()
		},
	}
}
