package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/lostfound/internal/app"
	"github.com/five82/lostfound/internal/logtail"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the tail of the client log",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

var (
	logsLines   int
	logsNoColor bool
)

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVar(&logsNoColor, "no-color", false, "Disable colored output")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(_ *cobra.Command, _ []string) error {
	cfg, err := app.LoadConfig(globalOptions())
	if err != nil {
		return err
	}
	lines, err := logtail.Read(cfg.LogFile, logsLines)
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}
	if len(lines) == 0 {
		fmt.Fprintf(os.Stderr, "No log entries in %s\n", cfg.LogFile)
		return nil
	}
	color := !logsNoColor && isatty.IsTerminal(os.Stdout.Fd())
	return logtail.Format(os.Stdout, lines, color)
}
