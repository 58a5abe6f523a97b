package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// isolate points HOME and the working directory at fresh temp dirs and
// blanks the override variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	for _, k := range []string{config.EnvUser, config.EnvDB, config.EnvTimeScale} {
		t.Setenv(k, "")
	}
	return home
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected no config file in a fresh HOME")
	}
	if resolved != filepath.Join(home, ".config", "recipebox", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Storage.Driver != config.DriverSQLite {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if want := filepath.Join(home, ".local", "share", "recipebox", "recipebox.db"); cfg.Storage.Path != want {
		t.Fatalf("storage path = %q, want %q", cfg.Storage.Path, want)
	}
	if cfg.Playback.TimeScale != 1 {
		t.Fatalf("time scale = %v", cfg.Playback.TimeScale)
	}
	if cfg.Level() != logger.LevelNormal || cfg.Logging.Format != logger.FormatTint {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.User.ID != "" {
		t.Fatalf("expected no default user, got %q", cfg.User.ID)
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := isolate(t)

	writeFile(t, "recipebox.toml", "[user]\nid = \"project\"\n")
	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || !strings.HasSuffix(resolved, "recipebox.toml") || cfg.User.ID != "project" {
		t.Fatalf("expected the project file, got %q (user %q)", resolved, cfg.User.ID)
	}

	writeFile(t, filepath.Join(home, ".config", "recipebox", "config.toml"), "[user]\nid = \"home\"\n")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "home" {
		t.Fatalf("the per-user file should win, got %q", cfg.User.ID)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `
[storage]
driver = "Memory"

[playback]
time_scale = 12.5

[logging]
level = "verbose"
format = "json"
file = "stderr"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path || !exists {
		t.Fatalf("resolved %q exists=%v", resolved, exists)
	}
	if cfg.Storage.Driver != config.DriverMemory || cfg.Playback.TimeScale != 12.5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Level() != logger.LevelVerbose || cfg.Logging.File != config.LogToStderr {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}

	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("an explicit path that does not exist should fail")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.toml")
	writeFile(t, path, "[storage]\ndriver = \"sqlite\"\nflavour = \"spicy\"\n")
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	writeFile(t, envFile, "RECIPEBOX_USER=dotenv-chef\nRECIPEBOX_TIME_SCALE=4\n")

	cfg, _, _, err := config.Load("", envFile, filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// The blank process values set by isolate still win over the file.
	if cfg.User.ID != "" || cfg.Playback.TimeScale != 1 {
		t.Fatalf("process environment should shadow dotenv, got %+v", cfg)
	}

	os.Unsetenv(config.EnvUser)
	os.Unsetenv(config.EnvTimeScale)
	t.Setenv(config.EnvDB, ":memory:")
	cfg, _, _, err = config.Load("", envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.User.ID != "dotenv-chef" || cfg.Playback.TimeScale != 4 {
		t.Fatalf("expected dotenv values, got %+v", cfg)
	}
	if cfg.Storage.Driver != config.DriverMemory {
		t.Fatalf(":memory: should select the memory driver, got %q", cfg.Storage.Driver)
	}

	t.Setenv(config.EnvDB, "./box.db")
	cfg, _, _, err = config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != config.DriverSQLite || !filepath.IsAbs(cfg.Storage.Path) {
		t.Fatalf("expected an absolute sqlite path, got %+v", cfg.Storage)
	}

	t.Setenv(config.EnvTimeScale, "fast")
	if _, _, _, err := config.Load(""); err == nil {
		t.Fatal("expected a bad time scale to fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		ok     bool
	}{
		{"defaults", func(*config.Config) {}, true},
		{"unknown driver", func(c *config.Config) { c.Storage.Driver = "postgres" }, false},
		{"sqlite without path", func(c *config.Config) { c.Storage.Path = "" }, false},
		{"memory without path", func(c *config.Config) { c.Storage.Driver = config.DriverMemory; c.Storage.Path = "" }, true},
		{"zero time scale", func(c *config.Config) { c.Playback.TimeScale = 0 }, false},
		{"negative time scale", func(c *config.Config) { c.Playback.TimeScale = -2 }, false},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, false},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var fromSample config.Config
	if err := toml.Unmarshal(data, &fromSample); err != nil {
		t.Fatalf("sample does not parse: %v", err)
	}
	if fromSample != config.Default() {
		t.Fatalf("sample drifted from defaults:\n got %+v\nwant %+v", fromSample, config.Default())
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(base, "data", "box.db")
	cfg.Logging.File = filepath.Join(base, "logs", "box.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{"data", "logs"} {
		if info, err := os.Stat(filepath.Join(base, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s to exist: %v", dir, err)
		}
	}
}
