// internal/cli/validate.go
package evalview

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/evalview/internal/results"
)

var validateStrict bool

// validateCmd checks a log against the expected format.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a log file against the expected format",
	Long: `Parse a log and run the schema check. Schema issues are advisory: the log
still renders. Use --strict to exit non-zero when issues are found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issues, err := runValidate(args[0], cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if validateStrict && issues > 0 {
			return fmt.Errorf("%s: %d schema issue(s)", args[0], issues)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "fail when schema issues are found")
	rootCmd.AddCommand(validateCmd)
}

// runValidate reports parse and schema results for path and returns the
// number of schema issues.
func runValidate(path string, out io.Writer) (int, error) {
	doc, err := results.Load(path)
	if err != nil {
		return 0, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", path, err)
	}
	issues, err := results.Validate(raw)
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(out, "%s: %d results (total_tests=%d)\n", path, doc.Len(), doc.Metadata.TotalTests)
	if doc.Len() != doc.Metadata.TotalTests {
		printWarning(out, "result count %d does not match total_tests %d", doc.Len(), doc.Metadata.TotalTests)
	}
	for _, w := range doc.Warnings {
		printWarning(out, "%s", w)
	}
	for _, issue := range issues {
		printWarning(out, "%s", issue)
	}
	if len(issues) == 0 {
		printSuccess(out, "Schema check passed")
	}
	return len(issues), nil
}
