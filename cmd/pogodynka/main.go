package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/pogodynka/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pogodynka/internal/adapter/kafka"
	"github.com/couchcryptid/pogodynka/internal/adapter/weatherapi"
	"github.com/couchcryptid/pogodynka/internal/config"
	"github.com/couchcryptid/pogodynka/internal/domain"
	"github.com/couchcryptid/pogodynka/internal/lookup"
	"github.com/couchcryptid/pogodynka/internal/observability"
)

const author = "Paweł Peterwas"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	shutdownTracer, err := observability.InitTracer("pogodynka", cfg.ZipkinURL, logger)
	if err != nil {
		logger.Error("failed to init tracing", "error", err)
		os.Exit(1)
	}

	var provider domain.WeatherProvider = weatherapi.NewClient(cfg, metrics, logger)
	if cfg.CacheTTL > 0 {
		provider = weatherapi.NewCachedProvider(provider, cfg.CacheSize, cfg.CacheTTL, metrics)
		logger.Info("snapshot cache enabled", "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
	}

	opts := []lookup.Option{lookup.WithEnforcedLocations(cfg.EnforceLocations)}

	var writer *kafkaadapter.Writer
	if cfg.EventsEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts = append(opts, lookup.WithPublisher(writer))
		logger.Info("lookup events enabled", "topic", cfg.KafkaLookupTopic, "brokers", cfg.KafkaBrokers)
	}

	svc := lookup.New(provider, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	logStartup(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
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
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

func logStartup(logger *slog.Logger, cfg *config.Config) {
	logger.Info("application starting",
		"author", author,
		"addr", cfg.HTTPAddr,
		"lang", cfg.WeatherAPILang,
		"enforce_locations", cfg.EnforceLocations,
	)
}
