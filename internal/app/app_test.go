package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/auth"
	"github.com/five82/lostfound/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvToken, "")
	t.Chdir(t.TempDir())
	return home
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvAPIURL, "http://env:1")
	t.Setenv(config.EnvToken, "env-token")

	cfg, err := LoadConfig(Options{})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIURL != "http://env:1" || cfg.Token != "env-token" {
		t.Fatalf("env not applied: %+v", cfg)
	}

	cfg, err = LoadConfig(Options{APIURL: " http://flag:2 ", Token: "flag-token"})
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.APIURL != "http://flag:2" || cfg.Token != "flag-token" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`store = "redis"`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(Options{ConfigPath: path}); err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("err = %v, want load config error", err)
	}
}

func TestTokenSource_Order(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("from-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	ctx := context.Background()

	got, err := TokenSource(config.Config{Token: "explicit", TokenFile: tokenFile}).Token(ctx)
	if err != nil || got != "explicit" {
		t.Fatalf("Token = %q, %v; want explicit", got, err)
	}
	got, err = TokenSource(config.Config{TokenFile: tokenFile}).Token(ctx)
	if err != nil || got != "from-file" {
		t.Fatalf("Token = %q, %v; want from-file", got, err)
	}
	_, err = TokenSource(config.Config{TokenFile: filepath.Join(dir, "missing")}).Token(ctx)
	if !errors.Is(err, auth.ErrNoCredential) {
		t.Fatalf("err = %v, want ErrNoCredential", err)
	}
}

func TestNewClient_UsesConfiguredURL(t *testing.T) {
	cfg := config.Default()
	cfg.APIURL = "https://items.example.com/ignored"
	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.BaseURL() != "https://items.example.com" {
		t.Fatalf("BaseURL = %q", client.BaseURL())
	}
}

func TestSetupFileLogging(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "nested", "lostfound.log")
	cfg.LogLevel = "warn"

	closer, err := SetupFileLogging(cfg)
	if err != nil {
		t.Fatalf("SetupFileLogging: %v", err)
	}
	log.Info().Msg("dropped")
	log.Warn().Str("item", "42").Msg("kept")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("log lines = %q, want one", lines)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "kept" || entry["item"] != "42" || entry["level"] != "warn" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
