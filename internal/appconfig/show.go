package appconfig

import (
	"fmt"
	"io"

	units "github.com/docker/go-units"
	"github.com/k0kubun/pp"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, pp.Sprint(cfg))

	fmt.Fprintf(out, "  Log file:        %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Listen:          %s\n", cfg.ListenAddress())
	if n, err := cfg.MaxUploadBytes(); err == nil {
		fmt.Fprintf(out, "  Max upload:      %s\n", units.HumanSize(float64(n)))
	}
	fmt.Fprintf(out, "  Uploads/minute:  %d\n", cfg.UploadRate())
	fmt.Fprintf(out, "  Session cache:   %d\n", cfg.SessionCapacity())
}
