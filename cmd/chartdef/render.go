package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/angas/chartdef-go/catalog"
	"github.com/angas/chartdef-go/render"
	"github.com/spf13/cobra"
)

const defaultLibrary = "billboard"

func readDocument(path string) (*catalog.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.ParseDocument(path, data)
}

// renderDocument renders the document at path. library falls back to the
// document's own library, then to Billboard.
func renderDocument(path, library string, opts render.Options) ([]byte, string, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, "", err
	}
	if library == "" {
		library = doc.Library
	}
	if library == "" {
		library = defaultLibrary
	}

	in, err := doc.Input(filepath.Dir(path))
	if err != nil {
		return nil, library, err
	}

	slog.Debug("rendering chart", slog.String("chart", doc.ID), slog.String("library", library))
	body, err := render.Default().RenderJSON(library, in, opts)
	return body, library, err
}

func newRenderCmd() *cobra.Command {
	var (
		library    string
		outputPath string
		pretty     bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render a chart document",
		Long: heredoc.Doc(`
			Render a chart document into the definition of one chart library
			and print it as JSON. Without --library the document's own library
			is used, or billboard when it names none.
		`),
		Example: heredoc.Doc(`
			chartdef render charts/sales.yaml --library highcharts --pretty
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _, err := renderDocument(args[0], library, render.Options{StrictMerge: strict})
			if err != nil {
				return err
			}

			if pretty {
				var buf bytes.Buffer
				if err := json.Indent(&buf, body, "", "  "); err != nil {
					return err
				}
				body = buf.Bytes()
			}
			body = append(body, '\n')

			if outputPath != "" {
				if err := os.WriteFile(outputPath, body, 0o644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	cmd.Flags().StringVarP(&library, "library", "l", "", "Chart library: billboard, chartjs, highcharts")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when raw options conflict with the generated definition")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Check chart documents",
		Long: heredoc.Doc(`
			Check that chart documents are valid and render. With --all every
			library able to draw the chart type is tried, otherwise only the
			document's own library.
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			registry := render.Default()
			failed := 0

			for _, path := range args {
				libraries := []string{""}
				if all {
					doc, err := readDocument(path)
					if err != nil {
						failed++
						fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
						continue
					}
					libraries = libraries[:0]
					for _, l := range registry.Libraries() {
						if registry.Supports(l, doc.Chart.Type) {
							libraries = append(libraries, l)
						}
					}
				}

				for _, l := range libraries {
					_, library, err := renderDocument(path, l, render.Options{StrictMerge: true})
					if err != nil {
						failed++
						fmt.Fprintf(out, "FAIL %s (%s): %v\n", path, library, err)
						continue
					}
					fmt.Fprintf(out, "ok   %s (%s)\n", path, library)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of the checks failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Validate against every library supporting the chart type")
	return cmd
}
