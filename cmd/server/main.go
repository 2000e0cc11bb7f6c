package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/levantkite/windforecast/internal/adapter/httpapi"
	kafkaadapter "github.com/levantkite/windforecast/internal/adapter/kafka"
	"github.com/levantkite/windforecast/internal/config"
	"github.com/levantkite/windforecast/internal/observability"
	"github.com/levantkite/windforecast/internal/openmeteo"
	"github.com/levantkite/windforecast/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)

	spots, err := config.LoadSpotsFile(cfg.SpotsPath)
	if err != nil {
		logger.Error("failed to load spot config", "path", cfg.SpotsPath, "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(spots.DomainSpots(), openmeteo.Params{
		Model:         spots.Forecast.Model,
		HourlyVars:    spots.Forecast.HourlyVars,
		WaveVars:      spots.Forecast.WaveVars,
		ForecastHours: spots.Forecast.ForecastHoursHourly,
		ForecastMin15: spots.Forecast.ForecastMin15,
	}, cfg.FetchTimeout, logger)
	fetcher := openmeteo.NewCachedClient(client, cfg.CacheSize)

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	p := pipeline.New(fetcher, publisher, spots.DomainConditions(), spots.Window(),
		cfg.RefreshInterval, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
