package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bikeshare-dashboard/internal/app"
	"bikeshare-dashboard/internal/config"
	"bikeshare-dashboard/internal/logging"
)

var datasetPath string

// Set by the root pre-run for every command.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Bike sharing analysis dashboard",
	Long: `Renders a one-page report over the daily bike sharing dataset: a data preview,
outlier and distribution charts, a correlation heatmap and the weather and
working-day comparisons. Without a subcommand it serves the report over HTTP.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report over HTTP (default)",
	RunE:  runServe,
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd.
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "dataset file (default $DATASET_PATH or ./day.csv)")
	rootCmd.AddCommand(serveCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if cfg, err = loaded.WithDatasetPath(datasetPath); err != nil {
		return err
	}

	// Offline commands may write the report to stdout; keep logs off it.
	var out io.Writer = os.Stdout
	if cmd != serveCmd && cmd != rootCmd {
		out = os.Stderr
	}
	logger = logging.NewWithWriter(out, cfg, version, appName)
	slog.SetDefault(logger)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "err", err)
		return err
	}

	logger.Info("shutting down")
	return nil
}
