// Package main implements the lostfound CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/lostfound/internal/app"
	"github.com/five82/lostfound/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "lostfound: %v\n", err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lostfound",
	Short: "Browse and report lost and found items",
	Long: `Browse and report lost and found items.

Without a subcommand, starts the terminal UI. The API URL and credential come
from the config file, LOSTFOUND_API_URL and LOSTFOUND_TOKEN, or the flags below.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Run(cmd.Context(), globalOptions())
	},
}

var (
	flagConfig string
	flagAPI    string
	flagToken  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.config/lostfound/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "API base URL (overrides "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (overrides "+config.EnvToken+")")
}

func globalOptions() app.Options {
	return app.Options{ConfigPath: flagConfig, APIURL: flagAPI, Token: flagToken}
}

// loadConsole resolves the config for a non-interactive subcommand and sends
// logs to stderr.
func loadConsole() (config.Config, error) {
	cfg, err := app.LoadConfig(globalOptions())
	if err != nil {
		return config.Config{}, err
	}
	app.SetupConsoleLogging(cfg.LogLevel)
	return cfg, nil
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }
