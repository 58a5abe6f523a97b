// Package config loads RecipeBox settings from a TOML file, a .env file
// and the process environment, in increasing order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variables that override file values.
const (
	EnvUser      = "RECIPEBOX_USER"
	EnvDB        = "RECIPEBOX_DB"
	EnvTimeScale = "RECIPEBOX_TIME_SCALE"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// LogToStderr as logging.file sends logs to the console.
const LogToStderr = "stderr"

// User identifies who the wizard authors as.
type User struct {
	ID string `toml:"id"`
}

// Storage selects the recipe and ingredient backend.
type Storage struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

// Playback tunes the cooking player.
type Playback struct {
	TimeScale float64 `toml:"time_scale"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config is the full set of RecipeBox settings.
type Config struct {
	User     User     `toml:"user"`
	Storage  Storage  `toml:"storage"`
	Playback Playback `toml:"playback"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Storage: Storage{
			Driver: DriverSQLite,
			Path:   "~/.local/share/recipebox/recipebox.db",
		},
		Playback: Playback{TimeScale: 1},
		Logging: Logging{
			Level:  "normal",
			Format: "tint",
			File:   "~/.local/state/recipebox/recipebox.log",
		},
	}
}

// DefaultConfigPath returns the per-user configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/recipebox/config.toml")
}

// Load reads path, or the first of ~/.config/recipebox/config.toml and
// ./recipebox.toml that exists, applies dotenv files and the environment
// on top, then normalizes and validates the result. It returns the file
// it considered and whether that file existed.
func Load(path string, envFiles ...string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		f, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := toml.NewDecoder(f)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	dotenv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, "", false, err
	}
	if err := cfg.applyEnv(lookupWith(dotenv)); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// EnsureDirectories creates the parent directories of the database and
// log file.
func (c *Config) EnsureDirectories() error {
	var dirs []string
	if c.Storage.Driver == DriverSQLite {
		dirs = append(dirs, filepath.Dir(c.Storage.Path))
	}
	if c.Logging.File != "" && c.Logging.File != LogToStderr {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath applies the same ~ and absolute-path rules Load uses.
func ExpandPath(p string) (string, error) {
	return expandPath(p)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config %s: %w", expanded, err)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("recipebox.toml")
	if err != nil {
		return "", false, err
	}

	for _, p := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true, nil
		}
	}
	return defaultPath, false, nil
}

// readEnvFiles merges dotenv files, earlier files winning like
// godotenv.Load. Missing files are skipped.
func readEnvFiles(files []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, name := range files {
		vals, err := godotenv.Read(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for k, v := range vals {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// lookupWith resolves a variable from the process environment first and
// the dotenv values second.
func lookupWith(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvUser); ok {
		c.User.ID = v
	}
	if v, ok := lookup(EnvDB); ok && strings.TrimSpace(v) != "" {
		if v == ":memory:" {
			c.Storage.Driver = DriverMemory
		} else {
			c.Storage.Driver = DriverSQLite
			c.Storage.Path = v
		}
	}
	if v, ok := lookup(EnvTimeScale); ok && strings.TrimSpace(v) != "" {
		scale, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeScale, err)
		}
		c.Playback.TimeScale = scale
	}
	return nil
}

func (c *Config) normalize() error {
	c.User.ID = strings.TrimSpace(c.User.ID)
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "tint"
	}

	var err error
	if c.Storage.Driver == DriverSQLite {
		if c.Storage.Path, err = expandPath(c.Storage.Path); err != nil {
			return fmt.Errorf("storage.path: %w", err)
		}
	}
	if f := strings.TrimSpace(c.Logging.File); f != "" && f != LogToStderr {
		if c.Logging.File, err = expandPath(f); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func expandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
