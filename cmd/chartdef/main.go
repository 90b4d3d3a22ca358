// Command chartdef renders chart documents into chart library
// definitions from the command line.
package main

import (
	"log/slog"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/angas/chartdef-go/logging"
	"github.com/spf13/cobra"
)

var Version = "?.?.?"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "chartdef",
		Short: "Render chart documents into chart library definitions",
		Long: heredoc.Doc(`
			chartdef turns library-neutral chart documents (YAML or JSON) into
			the configuration objects of Billboard.js, Chart.js and Highcharts.
		`),
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(logging.NewConsoleHandler(cmd.ErrOrStderr(), level)))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(
		newRenderCmd(),
		newValidateCmd(),
		newImportCmd(),
		newLibrariesCmd(),
	)
	return rootCmd
}
