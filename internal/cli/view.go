// internal/cli/view.go
package evalview

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mwiater/evalview/internal/logging"
	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/report/termview"
	"github.com/mwiater/evalview/internal/results"
	"github.com/mwiater/evalview/internal/tui"
)

var viewOpts struct {
	plain      bool
	showConfig bool
	width      int
}

// viewCmd opens a log in the terminal viewer.
var viewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Browse a log in the terminal",
	Long: `Open an evaluation log in the interactive terminal viewer. Without a file
argument a file picker restricted to .json files is shown.

With --plain the report is printed to stdout instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, args, viewOpts.plain)
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewOpts.plain, "plain", false, "print the report to stdout and exit")
	viewCmd.Flags().BoolVar(&viewOpts.showConfig, "show-config", false, "include the raw run configuration (with --plain)")
	viewCmd.Flags().IntVar(&viewOpts.width, "width", 0, "line width for --plain output (default: terminal width)")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string, plain bool) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	var doc *results.Document
	if path != "" {
		var err error
		doc, err = loadDocument(path)
		if err != nil {
			return err
		}
		for _, w := range doc.Warnings {
			printWarning(cmd.ErrOrStderr(), "%s", w)
		}
	}

	if plain {
		if doc == nil {
			printWarning(cmd.ErrOrStderr(), "No file specified. Pass a JSON file to print its report.")
			return nil
		}
		return writePlain(cmd, doc)
	}

	// The terminal belongs to the UI; keep logs out of it.
	cfg := getConfig()
	if cfg.LogFile == "" {
		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("unable to initialize logging: %w", err)
		}
	}
	return tui.Run(cmd.Context(), tui.Options{Path: path, Selection: selection()})
}

func writePlain(cmd *cobra.Command, doc *results.Document) error {
	width := viewOpts.width
	if width <= 0 {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			width = w
		}
	}
	out, err := termview.Render(report.Build(doc, selection()), termview.Options{
		Width:             width,
		ShowConfiguration: viewOpts.showConfig,
	})
	if err != nil {
		return fmt.Errorf("unable to render report: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
