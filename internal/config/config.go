package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the client settings.
type Config struct {
	APIURL         string
	TokenFile      string
	RequestTimeout time.Duration
	Store          string
	StorePath      string
	LogFile        string
	LogLevel       string
	MockToken      string

	// Token comes from LOSTFOUND_TOKEN or --token, never from the file.
	Token string
}

const (
	defaultConfigPath     = "~/.config/lostfound/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultTokenFile      = "~/.config/lostfound/token"
	defaultRequestTimeout = 30 * time.Second
	defaultStore          = "file"
	defaultStorePath      = "~/.local/state/lostfound/store.toml"
	defaultSQLitePath     = "~/.local/state/lostfound/store.db"
	defaultLogFile        = "~/.local/state/lostfound/lostfound.log"
	defaultLogLevel       = "info"
	defaultMockToken      = "dev-token"

	EnvAPIURL = "LOSTFOUND_API_URL"
	EnvToken  = "LOSTFOUND_TOKEN"
)

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		TokenFile:      mustExpand(defaultTokenFile),
		RequestTimeout: defaultRequestTimeout,
		Store:          defaultStore,
		StorePath:      mustExpand(defaultStorePath),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		MockToken:      defaultMockToken,
	}
}

// Load reads the config at path (or the default location), falling back to
// defaults when the file is missing, and then applies environment overrides.
// A .env file in the working directory is loaded first when present; a
// malformed one is an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		TokenFile      string `toml:"token_file"`
		RequestTimeout string `toml:"request_timeout"`
		Store          string `toml:"store"`
		StorePath      string `toml:"store_path"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		MockToken      string `toml:"mock_token"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.TokenFile); v != "" {
		cfg.TokenFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout %q is not a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Store)); v != "" {
		if v != "file" && v != "sqlite" {
			return Config{}, fmt.Errorf("parse config: store must be \"file\" or \"sqlite\", got %q", v)
		}
		cfg.Store = v
		if v == "sqlite" {
			cfg.StorePath = mustExpand(defaultSQLitePath)
		}
	}
	if v := strings.TrimSpace(raw.StorePath); v != "" {
		cfg.StorePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		if _, err := zerolog.ParseLevel(v); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level %q is not a known level", v)
		}
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.MockToken); v != "" {
		cfg.MockToken = v
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
