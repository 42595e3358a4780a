// Command lostfound-mock serves the items API from memory for local
// development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/five82/lostfound/internal/config"
	"github.com/five82/lostfound/internal/mockapi"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	configPath := pflag.String("config", "", "config file providing mock_token")
	addr := pflag.String("addr", "127.0.0.1:8080", "listen address")
	token := pflag.String("token", "", "bearer token to accept (overrides mock_token)")
	noSeed := pflag.Bool("empty", false, "start with no items")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	accept := cfg.MockToken
	if *token != "" {
		accept = *token
	}

	seed := mockapi.Seed(time.Now())
	if *noSeed {
		seed = nil
	}
	server := mockapi.New(accept, seed)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("address", srv.Addr).
			Int("items", len(seed)).
			Bool("auth", accept != "").
			Msg("mock API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("mock API stopped")
}
