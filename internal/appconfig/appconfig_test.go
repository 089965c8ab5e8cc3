// internal/appconfig/appconfig_test.go
package appconfig

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load() with missing file failed: %v", err)
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("expected no config path, got %q", cfg.ConfigPath)
	}
	if cfg.ListenAddress() != DefaultListen {
		t.Fatalf("expected default listen, got %q", cfg.ListenAddress())
	}
	if !cfg.ShowSuccessful || !cfg.ShowFailed {
		t.Fatalf("expected both selection flags on by default, got %+v", cfg.Selection())
	}
	if n, err := cfg.MaxUploadBytes(); err != nil || n != 10_000_000 {
		t.Fatalf("expected 10MB default upload size, got %d (%v)", n, err)
	}
	if cfg.LogFilePath() != "evalview.log" {
		t.Fatalf("unexpected default log file %q", cfg.LogFilePath())
	}
}

func TestLoadJSONAndYAML(t *testing.T) {
	jsonPath := writeConfig(t, "config.json", `{"debug": true, "listen": ":9000", "showFailed": false, "maxUploadSize": "512kB", "corsOrigins": ["https://a.example"]}`)
	cfg, err := Load(jsonPath)
	if err != nil {
		t.Fatalf("Load() json failed: %v", err)
	}
	if !cfg.Debug || cfg.ListenAddress() != ":9000" || cfg.ShowFailed {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ConfigPath != jsonPath {
		t.Fatalf("expected config path %q, got %q", jsonPath, cfg.ConfigPath)
	}
	if n, _ := cfg.MaxUploadBytes(); n != 512_000 {
		t.Fatalf("expected 512000 bytes, got %d", n)
	}
	if len(cfg.CORSOrigins) != 1 {
		t.Fatalf("expected one CORS origin, got %v", cfg.CORSOrigins)
	}

	yamlPath := writeConfig(t, "config.yaml", "sessionCacheSize: 3\nexportFormat: csv\n")
	cfg, err = Load(yamlPath)
	if err != nil {
		t.Fatalf("Load() yaml failed: %v", err)
	}
	if cfg.SessionCapacity() != 3 || cfg.ExportFormatName() != "csv" {
		t.Fatalf("unexpected yaml config %+v", cfg)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	if _, err := Load(writeConfig(t, "config.json", `{ "debug": `)); err == nil {
		t.Fatal("Load() with invalid JSON should have failed")
	}
	if _, err := Load(writeConfig(t, "config.json", `{"maxUploadSize": "lots"}`)); err == nil {
		t.Fatal("Load() with invalid upload size should have failed")
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if !cfg.ShowSuccessful || !cfg.ShowFailed || cfg.ListenAddress() != DefaultListen {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestAccessorFallbacks(t *testing.T) {
	var cfg Config
	if cfg.UploadRate() != DefaultUploadsPerMinute {
		t.Fatalf("expected default upload rate, got %d", cfg.UploadRate())
	}
	if cfg.SessionCapacity() != DefaultSessionCacheSize {
		t.Fatalf("expected default cache size, got %d", cfg.SessionCapacity())
	}
	if cfg.ExportFormatName() != "html" {
		t.Fatalf("expected html export, got %q", cfg.ExportFormatName())
	}
	sel := cfg.Selection()
	if sel.IncludeSuccessful || sel.IncludeFailed {
		t.Fatalf("zero config should yield an empty selection, got %+v", sel)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(writeConfig(t, "config.json", `{"listen": ":9000"}`))
	if _, err := Read(v); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	v.Set("listen", ":9100")
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if cfg.Listen != ":9100" {
		t.Fatalf("expected override to win, got %q", cfg.Listen)
	}
}

func TestShowConfig(t *testing.T) {
	var buf bytes.Buffer
	ShowConfig(&buf, Config{Listen: ":9000", MaxUploadSize: "1MB"})
	out := buf.String()
	for _, want := range []string{"No config file loaded", "Listen", ":9000", "Max upload:      1MB", "Session cache:   64"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
