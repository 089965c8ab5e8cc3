// internal/cli/root.go
package evalview

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/evalview/internal/appconfig"
	"github.com/mwiater/evalview/internal/logging"
	"github.com/mwiater/evalview/internal/results"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

// boolFlags maps persistent flags to the viper keys whose config value is
// copied back into the flag when the user did not set it.
var boolFlags = map[string]string{
	"debug":      "debug",
	"successful": "showSuccessful",
	"failed":     "showFailed",
}

var rootCmd = &cobra.Command{
	Use:   "evalview [file]",
	Short: "Browse evaluation harness logs as reports",
	Long: `evalview reads the JSON log written by an evaluation run and renders it as
a report: run metadata, summary statistics, latency and response length
charts, a result table and per-test details.

Without a subcommand it opens the interactive terminal viewer.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults)
		found, err := ensureConfigLoaded()
		if err != nil {
			return err
		}

		// 2) Keep pflags and viper in agreement on the final value.
		for name, key := range boolFlags {
			if f := cmd.Flags().Lookup(name); f != nil && !f.Changed {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(key)))
			}
		}

		// 3) Materialize flags > config > defaults into currentConfig.
		cfg, err := appconfig.Decode(viper.GetViper())
		if err != nil {
			return err
		}
		if !found {
			cfg.ConfigPath = ""
		}
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
			return fmt.Errorf("unable to initialize logging: %w", err)
		}
		logging.Logger().WithField("config", cfg.ConfigPath).Debug("Configuration loaded")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runView(cmd, args, false)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("successful", true, "include successful tests")
	rootCmd.PersistentFlags().Bool("failed", true, "include failed tests")
	rootCmd.PersistentFlags().String("logFile", "", "write logs to this file instead of stderr")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("showSuccessful", rootCmd.PersistentFlags().Lookup("successful"))
	_ = viper.BindPFlag("showFailed", rootCmd.PersistentFlags().Lookup("failed"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() (bool, error) {
	v := viper.GetViper()
	appconfig.SetDefaults(v)
	return appconfig.Read(v)
}

// getConfig returns the merged configuration. Before the root pre-run has
// executed it falls back to the config file and defaults alone.
func getConfig() appconfig.Config {
	if currentConfig != nil {
		return *currentConfig
	}
	cfg, err := appconfig.Load(cfgFile)
	if err != nil {
		logging.LogEvent("falling back to default configuration: %v", err)
		cfg = appconfig.Defaults()
	}
	return cfg
}

// selection returns the filter state requested by --successful/--failed.
func selection() results.Selection {
	return getConfig().Selection()
}

// DebugEnabled reflects the merged viper state.
func DebugEnabled() bool { return viper.GetBool("debug") }

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(w, "Error: %v\n", err)
}

func printWarning(w io.Writer, format string, args ...any) {
	_, _ = color.New(color.FgYellow).Fprintf(w, "⚠️  "+format+"\n", args...)
}

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = color.New(color.FgGreen).Fprintf(w, "✅ "+format+"\n", args...)
}

// loadDocument loads path and, at debug level, logs any schema issues. The
// schema check never blocks rendering.
func loadDocument(path string) (*results.Document, error) {
	doc, err := results.Load(path)
	if err != nil {
		return nil, err
	}
	if DebugEnabled() {
		if raw, err := os.ReadFile(path); err == nil {
			if issues, err := results.Validate(raw); err == nil && len(issues) > 0 {
				logging.Logger().WithField("file", path).WithField("issues", len(issues)).Debugf("Schema check: %s", issues[0])
			}
		}
	}
	return doc, nil
}
