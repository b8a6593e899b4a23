package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/FlyingNightBird/2022Spring-Finals/internal/adapter/charts"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/adapter/csvfile"
	httpadapter "github.com/FlyingNightBird/2022Spring-Finals/internal/adapter/http"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/config"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/observability"
	"github.com/FlyingNightBird/2022Spring-Finals/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	var loader pipeline.DatasetLoader = csvfile.NewLoader(logger)
	loader = csvfile.NewCachedLoader(loader, cfg.LoaderCacheSize, metrics)

	// Materialization and charts are feature-flagged; a nil collaborator
	// turns the concern off inside the pipeline.
	var writer pipeline.TableWriter
	if cfg.Materialize {
		writer = csvfile.NewWriter(cfg.OutDir, logger)
	} else {
		logger.Info("table materialization disabled")
	}
	var renderer pipeline.Renderer
	if cfg.Charts {
		renderer = charts.NewRenderer(cfg.OutDir, logger)
	} else {
		logger.Info("chart rendering disabled")
	}

	opts := pipeline.Options{
		Sources: pipeline.Sources{
			CrimePath:     cfg.CrimeCSV,
			WeatherPath:   cfg.WeatherCSV,
			BuildingsPath: cfg.BuildingsCSV,
		},
		HolidayYears: cfg.HolidayYears,
	}
	p := pipeline.New(loader, writer, renderer, opts, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the diagnostics server if configured.
	var srv *httpadapter.Server
	if cfg.DiagEnabled() {
		srv = httpadapter.NewServer(cfg.DiagAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("diagnostics server error", "error", err)
			}
		}()
	}

	// Run the analysis. The job exits when the run finishes or a signal
	// arrives, whichever comes first.
	runDone := make(chan error, 1)
	go func() {
		summary, err := p.Run(ctx)
		if err == nil && srv != nil {
			srv.SetSummary(summary)
		}
		runDone <- err
	}()

	var failed bool
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-runDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("pipeline error", "error", err)
			failed = true
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("diagnostics server shutdown error", "error", err)
		}
		cancel()
	}

	logger.Info("shutdown complete")
	if failed {
		os.Exit(1)
	}
}
