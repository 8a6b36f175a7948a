package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "" || cfg.Aliases == nil {
		t.Fatalf("expected empty config with alias map, got %+v", cfg)
	}
}

func TestLoadFileDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
base_url = "http://fed.local:8080"
token = "secret"
timeout_ms = 2500
locale = "sv"

[aliases]
home = "srv-1"

[defaults]
server = "home"
sort = "title-asc"

[assets]
margin_px = 200
max_bytes = 1048576

[log]
level = "debug"
output = "file"
file = "/tmp/mf.log"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://fed.local:8080" || cfg.Token != "secret" || cfg.Locale != "sv" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Timeout() != 2500*time.Millisecond {
		t.Fatalf("unexpected timeout %s", cfg.Timeout())
	}
	if cfg.Aliases["home"] != "srv-1" || cfg.Defaults.Server != "home" || cfg.Defaults.Sort != "title-asc" {
		t.Fatalf("unexpected aliases/defaults %+v %+v", cfg.Aliases, cfg.Defaults)
	}
	if cfg.Assets.MarginPx != 200 || cfg.Assets.MaxBytes != 1048576 {
		t.Fatalf("unexpected assets %+v", cfg.Assets)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Output != "file" || cfg.Log.File != "/tmp/mf.log" {
		t.Fatalf("unexpected log %+v", cfg.Log)
	}
}

func TestLoadFileRejectsDirectory(t *testing.T) {
	if _, err := LoadFile(t.TempDir()); err == nil {
		t.Fatalf("expected directory error")
	}
}

func TestEnvironPrefersProcessEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("MF_BASE_URL=http://from-file\nMF_TOKEN=file-token\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv(EnvToken, "process-token")

	env, err := Environ(envFile)
	if err != nil {
		t.Fatalf("environ: %v", err)
	}
	if env[EnvBaseURL] != "http://from-file" || env[EnvToken] != "process-token" {
		t.Fatalf("unexpected env %v", env)
	}

	if _, err := Environ(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Config{BaseURL: "http://file", Token: "file", Log: Log{Level: "warn"}}
	ApplyEnv(&cfg, map[string]string{EnvBaseURL: "http://env", EnvToken: "", EnvLogLevel: "debug"})
	if cfg.BaseURL != "http://env" || cfg.Token != "file" || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadUsesXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvBaseURL, "")
	if err := os.MkdirAll(filepath.Join(dir, "mf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mf", "config.toml"), []byte(`base_url = "http://xdg"`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://xdg" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
}
