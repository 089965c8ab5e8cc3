// internal/cli/serve.go
package evalview

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/mwiater/evalview/internal/logging"
	"github.com/mwiater/evalview/internal/server"
)

// serveCmd runs the HTTP dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Serve reports as an HTTP dashboard",
	Long: `Start the HTTP dashboard. With a file argument the log is shown at /;
otherwise / offers an upload form and each upload gets its own session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()

		opts := server.Options{
			Listen:           cfg.ListenAddress(),
			UploadsPerMinute: cfg.UploadRate(),
			SessionCacheSize: cfg.SessionCapacity(),
			CORSOrigins:      cfg.CORSOrigins,
			ShutdownTimeout:  cfg.ShutdownTimeout(),
			Selection:        cfg.Selection(),
		}
		limit, err := cfg.MaxUploadBytes()
		if err != nil {
			return err
		}
		opts.MaxUploadBytes = limit

		if len(args) == 1 {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			opts.Document = doc
			opts.DocumentName = filepath.Base(args[0])
		}

		srv, err := server.New(logging.Logger(), opts)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(gctx); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Dashboard listening on http://%s", srv.Addr())
			<-gctx.Done()
			fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
			return srv.Stop()
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "listen address (default from config, 127.0.0.1:8050)")
	serveCmd.Flags().String("maxUploadSize", "", "maximum upload size, e.g. 10MB")
	_ = viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
	_ = viper.BindPFlag("maxUploadSize", serveCmd.Flags().Lookup("maxUploadSize"))
	rootCmd.AddCommand(serveCmd)
}
