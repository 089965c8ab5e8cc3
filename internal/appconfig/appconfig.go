// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/mwiater/evalview/internal/results"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultListen is the address the dashboard binds to when none is configured.
	DefaultListen = "127.0.0.1:8050"
	// DefaultMaxUploadSize caps uploaded log files.
	DefaultMaxUploadSize = "10MB"
	// DefaultUploadsPerMinute limits uploads per client address.
	DefaultUploadsPerMinute = 30
	// DefaultSessionCacheSize is the number of uploaded documents kept in memory.
	DefaultSessionCacheSize = 64
	// DefaultExportFormat is used by the export command without --format.
	DefaultExportFormat = "html"
	// defaultLogFile is used when logFile is unset.
	defaultLogFile = "evalview.log"
	// defaultShutdownTimeout bounds dashboard shutdown.
	defaultShutdownTimeout = 10 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	Debug            bool     `mapstructure:"debug" json:"debug"`
	LogFile          string   `mapstructure:"logFile" json:"logFile,omitempty"`
	Listen           string   `mapstructure:"listen" json:"listen"`
	MaxUploadSize    string   `mapstructure:"maxUploadSize" json:"maxUploadSize"`
	UploadsPerMinute int      `mapstructure:"uploadsPerMinute" json:"uploadsPerMinute"`
	SessionCacheSize int      `mapstructure:"sessionCacheSize" json:"sessionCacheSize"`
	CORSOrigins      []string `mapstructure:"corsOrigins" json:"corsOrigins,omitempty"`
	ShowSuccessful   bool     `mapstructure:"showSuccessful" json:"showSuccessful"`
	ShowFailed       bool     `mapstructure:"showFailed" json:"showFailed"`
	ExportFormat     string   `mapstructure:"exportFormat" json:"exportFormat"`
	ConfigPath       string   `mapstructure:"-" json:"-"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logFile", "")
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("maxUploadSize", DefaultMaxUploadSize)
	v.SetDefault("uploadsPerMinute", DefaultUploadsPerMinute)
	v.SetDefault("sessionCacheSize", DefaultSessionCacheSize)
	v.SetDefault("corsOrigins", []string{})
	v.SetDefault("showSuccessful", true)
	v.SetDefault("showFailed", true)
	v.SetDefault("exportFormat", DefaultExportFormat)
}

// Read loads the config file named on v, if any. A missing file is not an
// error; defaults and flags remain in effect.
func Read(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	return true, nil
}

// Decode materializes the merged state of v (flags > config > defaults).
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if _, err := cfg.MaxUploadBytes(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the configuration with every key at its default.
func Defaults() Config {
	v := viper.New()
	SetDefaults(v)
	cfg, _ := Decode(v)
	return cfg
}

// Load is SetDefaults, Read and Decode over a fresh viper instance for path.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	if path == "" {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	found, err := Read(v)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(v)
	if err != nil {
		return Config{}, err
	}
	if !found {
		cfg.ConfigPath = ""
	}
	return cfg, nil
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return defaultLogFile
}

// ListenAddress returns the dashboard bind address.
func (c Config) ListenAddress() string {
	if addr := strings.TrimSpace(c.Listen); addr != "" {
		return addr
	}
	return DefaultListen
}

// MaxUploadBytes parses maxUploadSize, e.g. "10MB" or "512k".
func (c Config) MaxUploadBytes() (int64, error) {
	size := strings.TrimSpace(c.MaxUploadSize)
	if size == "" {
		size = DefaultMaxUploadSize
	}
	n, err := units.FromHumanSize(size)
	if err != nil {
		return 0, fmt.Errorf("invalid maxUploadSize %q: %w", c.MaxUploadSize, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid maxUploadSize %q: must be positive", c.MaxUploadSize)
	}
	return n, nil
}

// UploadRate returns the per-client upload budget per minute. Zero or
// negative values fall back to the default.
func (c Config) UploadRate() int {
	if c.UploadsPerMinute <= 0 {
		return DefaultUploadsPerMinute
	}
	return c.UploadsPerMinute
}

// SessionCapacity returns the number of uploaded documents kept in memory.
func (c Config) SessionCapacity() int {
	if c.SessionCacheSize <= 0 {
		return DefaultSessionCacheSize
	}
	return c.SessionCacheSize
}

// ShutdownTimeout bounds how long the dashboard waits for in-flight requests.
func (c Config) ShutdownTimeout() time.Duration {
	return defaultShutdownTimeout
}

// Selection is the initial filter state for a session.
func (c Config) Selection() results.Selection {
	return results.Selection{IncludeSuccessful: c.ShowSuccessful, IncludeFailed: c.ShowFailed}
}

// ExportFormatName returns the configured export format, defaulting to html.
func (c Config) ExportFormatName() string {
	if f := strings.TrimSpace(c.ExportFormat); f != "" {
		return f
	}
	return DefaultExportFormat
}
