package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"bikeshare-dashboard/internal/config"
	httpapi "bikeshare-dashboard/internal/httpapi"
	"bikeshare-dashboard/internal/metrics"
	"bikeshare-dashboard/internal/modules/report"
	reportviews "bikeshare-dashboard/internal/modules/report/views"
)

// Run serves the report until ctx is cancelled, then shuts the server down.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"datasetPath", cfg.DatasetPath,
		"datasetTable", cfg.DatasetTable,
		"previewRows", cfg.PreviewRows,
	)

	if err := reportviews.LoadTemplates(); err != nil {
		return err
	}

	m := metrics.New()
	mux := httpapi.NewMux(cfg.DatasetPath, m)
	report.RegisterFeature(mux, cfg, m, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, mux, logger, m)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err := <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
