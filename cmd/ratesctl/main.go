package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ratesctl",
		Short:         "Operational commands for the currency API",
		Version:       "v1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	debug bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Debug logging")
	rootCmd.AddCommand(refreshCommand(), migrateCommand(), seedCommand())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newLogger().Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
