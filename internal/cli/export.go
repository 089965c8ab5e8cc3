// internal/cli/export.go
package evalview

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mwiater/evalview/internal/export"
	"github.com/mwiater/evalview/internal/logging"
	"github.com/mwiater/evalview/internal/report"
	"github.com/mwiater/evalview/internal/util"
)

type exportOptions struct {
	format string
	output string
}

var exportOpts exportOptions

// exportCmd writes a report file for one log.
var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write a report file (html, markdown, json, yaml, csv)",
	Long: `Render an evaluation log to a file. The format comes from --format, then
the --output extension, then the exportFormat config key. Use --output - to
write to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := runExport(args[0], exportOpts, cmd.Flags().Changed("format"), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if path != "-" {
			printSuccess(cmd.ErrOrStderr(), "Report written to %s", path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOpts.format, "format", "f", "", "output format: "+fmt.Sprint(export.Formats()))
	exportCmd.Flags().StringVarP(&exportOpts.output, "output", "o", "", "output path (default: <input>-report.<ext>)")
	rootCmd.AddCommand(exportCmd)
}

// resolveFormat picks the export format: explicit flag, output extension,
// then config.
func resolveFormat(opts exportOptions, explicit bool) (export.Format, error) {
	if explicit || opts.format != "" {
		return export.ParseFormat(opts.format)
	}
	if opts.output != "" && opts.output != "-" {
		if f, ok := export.FormatFromPath(opts.output); ok {
			return f, nil
		}
	}
	return export.ParseFormat(getConfig().ExportFormatName())
}

// runExport renders input and writes it to the resolved output, returning
// the path written ("-" for stdout).
func runExport(input string, opts exportOptions, explicit bool, stdout io.Writer) (string, error) {
	format, err := resolveFormat(opts, explicit)
	if err != nil {
		return "", err
	}

	doc, err := loadDocument(input)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, report.Build(doc, selection())); err != nil {
		return "", fmt.Errorf("unable to export %s: %w", input, err)
	}

	output := opts.output
	if output == "" {
		output = export.DefaultOutput(input, format)
	}
	if output == "-" {
		_, err := buf.WriteTo(stdout)
		return output, err
	}
	if err := util.WriteFile(output, buf.Bytes()); err != nil {
		return "", fmt.Errorf("unable to write report %s: %w", output, err)
	}
	logging.LogEvent("exported %s as %s to %s", input, format, output)
	return output, nil
}
