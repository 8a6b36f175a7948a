package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override config.toml.
const (
	EnvBaseURL  = "MF_BASE_URL"
	EnvToken    = "MF_TOKEN"
	EnvLogLevel = "MF_LOG_LEVEL"
)

// Config holds CLI configuration from config.toml.
type Config struct {
	BaseURL   string            `toml:"base_url"`
	Token     string            `toml:"token"`
	TimeoutMS int               `toml:"timeout_ms"`
	Locale    string            `toml:"locale"`
	Aliases   map[string]string `toml:"aliases"`
	Defaults  Defaults          `toml:"defaults"`
	Assets    Assets            `toml:"assets"`
	Log       Log               `toml:"log"`
}

// Defaults defines default selector and view values.
type Defaults struct {
	Server string `toml:"server"`
	Filter string `toml:"filter"`
	Sort   string `toml:"sort"`
}

// Assets configures artwork loading.
type Assets struct {
	MarginPx int    `toml:"margin_px"`
	Dir      string `toml:"dir"`
	MaxBytes int64  `toml:"max_bytes"`
}

// Log configures diagnostics.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
	File   string `toml:"file"`
}

// Timeout returns the request timeout, zero when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Load loads config.toml if present, then applies .env and environment overrides.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	env, err := Environ(".env")
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg, env)
	return cfg, nil
}

// LoadFile decodes a config file. Missing file returns an empty config.
func LoadFile(path string) (Config, error) {
	cfg := Config{Aliases: map[string]string{}}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, errors.New("config path is a directory")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Aliases == nil {
		cfg.Aliases = map[string]string{}
	}
	return cfg, nil
}

// Environ reads override variables from envFile, if present, and the process
// environment. Process variables win.
func Environ(envFile string) (map[string]string, error) {
	env := map[string]string{}
	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		for k, v := range values {
			env[k] = v
		}
	}
	for _, key := range []string{EnvBaseURL, EnvToken, EnvLogLevel} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides cfg with non-empty variables from env.
func ApplyEnv(cfg *Config, env map[string]string) {
	if v := env[EnvBaseURL]; v != "" {
		cfg.BaseURL = v
	}
	if v := env[EnvToken]; v != "" {
		cfg.Token = v
	}
	if v := env[EnvLogLevel]; v != "" {
		cfg.Log.Level = v
	}
}

func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mf", "config.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mf", "config.toml"), nil
}
