package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/hazard-fusion/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hazard-fusion/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-fusion/internal/config"
	"github.com/couchcryptid/hazard-fusion/internal/domain"
	"github.com/couchcryptid/hazard-fusion/internal/fusion"
	"github.com/couchcryptid/hazard-fusion/internal/ingest"
	"github.com/couchcryptid/hazard-fusion/internal/observability"
	"github.com/couchcryptid/hazard-fusion/internal/storage"
)

func main() {
	_ = godotenv.Load() // optional .env for local development

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	fuser, err := fusion.New(cfg.Rules)
	if err != nil {
		logger.Error("invalid fusion rules", "error", err)
		os.Exit(1)
	}

	var fetchers []fusion.Fetcher
	if cfg.SeismicEnabled {
		fetchers = append(fetchers, ingest.NewUSGSFetcher(cfg.SeismicURL))
	}
	if cfg.WeatherEnabled {
		fetchers = append(fetchers, ingest.NewNWSFetcher(cfg.WeatherURL))
	}
	if cfg.FireEnabled {
		fetchers = append(fetchers, ingest.NewFIRMSFetcher(cfg.FireURL))
	}

	var news fusion.TextFetcher
	if cfg.NewsEnabled {
		news = ingest.NewRSSFetcher(cfg.NewsFeeds, logger)
		logger.Info("news correlation enabled", "feeds", len(cfg.NewsFeeds))
	} else {
		logger.Info("news correlation disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sinks []fusion.Sink

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	}

	store, err := storage.NewStore(cfg.StorageDriver, cfg.StorageDSN)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	if store != nil {
		if err := store.Init(ctx); err != nil {
			logger.Error("failed to initialize store", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, fusion.SinkFunc{
			SinkName: cfg.StorageDriver,
			Fn: func(ctx context.Context, events []domain.Event) error {
				return store.SaveEvents(ctx, events)
			},
		})
		logger.Info("event persistence enabled", "driver", cfg.StorageDriver)
	}

	svc := fusion.NewService(fuser, fetchers, news, sinks, logger, metrics, fusion.ServiceConfig{
		Interval:      cfg.PollInterval,
		SourceTimeout: cfg.SourceTimeout,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("fusion service error", "error", err)
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
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
