package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/manhtrinhmkt-stack/kiemso/internal/model"
)

func TestLoadConfigFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if info.PortSpecified {
		t.Fatalf("port should not be marked as specified")
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Fatalf("Port=%d", cfg.Server.Port)
	}
	if got := cfg.SessionLabels(); got != model.DefaultLabels() {
		t.Fatalf("unexpected labels: %+v", got)
	}
}

func TestLoadConfigFrom_OverridesAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
port = 9000
open_browser = false

[upload]
max_bytes = 1024

[labels]
match = "CÒN VÉ"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("KIEMSO_DATA_DIR", filepath.Join(dir, "du-lieu"))

	cfg, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !info.PortSpecified || cfg.Server.Port != 9000 {
		t.Fatalf("port not applied: info=%+v port=%d", info, cfg.Server.Port)
	}
	if cfg.Server.OpenBrowser {
		t.Fatalf("open_browser should be false")
	}
	if cfg.Upload.MaxBytes != 1024 {
		t.Fatalf("MaxBytes=%d", cfg.Upload.MaxBytes)
	}
	labels := cfg.SessionLabels()
	if labels.Match != "CÒN VÉ" || labels.NoMatch != model.DefaultNoMatchLabel {
		t.Fatalf("unexpected labels: %+v", labels)
	}

	dataDir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	if dataDir != filepath.Join(dir, "du-lieu") {
		t.Fatalf("dataDir=%q", dataDir)
	}
	if _, err := os.Stat(dataDir); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if DatabasePath(cfg) != filepath.Join(dataDir, "kiemso.db") {
		t.Fatalf("DatabasePath=%q", DatabasePath(cfg))
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport = "), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := LoadConfigFrom(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 8123
	cfg.Labels.NoMatch = "ĐÃ BÁN"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if !info.PortSpecified || loaded.Server.Port != 8123 || loaded.Labels.NoMatch != "ĐÃ BÁN" {
		t.Fatalf("unexpected round trip: %+v", loaded)
	}
}
