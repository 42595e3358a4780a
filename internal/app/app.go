package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/five82/lostfound/internal/auth"
	"github.com/five82/lostfound/internal/config"
	"github.com/five82/lostfound/internal/favorites"
	"github.com/five82/lostfound/internal/kv"
	"github.com/five82/lostfound/internal/lostfound"
	"github.com/five82/lostfound/internal/share"
	"github.com/five82/lostfound/internal/state"
	"github.com/five82/lostfound/internal/ui"
)

// Options carry command-line overrides. Blank fields keep the configured
// value.
type Options struct {
	ConfigPath string
	APIURL     string
	Token      string
}

// LoadConfig reads the config file and applies opts on top of it.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(opts.Token); v != "" {
		cfg.Token = v
	}
	return cfg, nil
}

// TokenSource returns the credential lookup order: an explicit token from a
// flag or LOSTFOUND_TOKEN, then the token file.
func TokenSource(cfg config.Config) auth.TokenSource {
	return auth.Chain{auth.Static(cfg.Token), auth.File(cfg.TokenFile)}
}

// NewClient builds the API client for cfg.
func NewClient(cfg config.Config) (*lostfound.Client, error) {
	client, err := lostfound.NewClient(cfg.APIURL, TokenSource(cfg), lostfound.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return client, nil
}

// SetupFileLogging points the global logger at cfg.LogFile. The TUI owns the
// terminal, so nothing may be written to stdout or stderr while it runs.
func SetupFileLogging(cfg config.Config) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger().Level(parseLevel(cfg.LogLevel))
	return f, nil
}

// SetupConsoleLogging writes human-readable logs to stderr.
func SetupConsoleLogging(level string) {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(parseLevel(level))
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// Run boots the TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	logFile, err := SetupFileLogging(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	store, err := kv.Open(cfg.Store, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open local store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close local store")
		}
	}()

	themeName, _, err := store.Get(ctx, ui.ThemeKey)
	if err != nil {
		log.Warn().Err(err).Msg("read theme preference")
	}

	log.Info().
		Str("api", client.BaseURL()).
		Str("store", cfg.Store).
		Str("store_path", cfg.StorePath).
		Dur("timeout", cfg.RequestTimeout).
		Msg("starting lostfound")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Repo:      client,
		Store:     &state.Store{},
		Favorites: favorites.NewStore(store),
		Prefs:     store,
		Sharer:    share.Clipboard{},
		ThemeName: themeName,
		APIURL:    client.BaseURL(),
	})
	if err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		return err
	}
	log.Info().Msg("lostfound exited")
	return nil
}
