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

	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/firebasestore"
	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/httpapi"
	kafkaadapter "github.com/gaga2159318-del/KalawFloodMap/internal/adapter/kafka"
	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/memstore"
	"github.com/gaga2159318-del/KalawFloodMap/internal/adapter/openweather"
	"github.com/gaga2159318-del/KalawFloodMap/internal/config"
	"github.com/gaga2159318-del/KalawFloodMap/internal/domain"
	"github.com/gaga2159318-del/KalawFloodMap/internal/engine"
	"github.com/gaga2159318-del/KalawFloodMap/internal/observability"
	"github.com/gaga2159318-del/KalawFloodMap/internal/refresh"
)

func main() {
	// Local development convenience; absence of a .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Persistence: Firestore when a project is configured, in-memory otherwise.
	var store domain.Store
	var closeStore func() error
	if cfg.FirestoreProjectID != "" {
		fs, err := firebasestore.New(ctx, cfg, logger)
		if err != nil {
			logger.Error("firestore init failed", "error", err)
			os.Exit(1)
		}
		store = fs
		closeStore = fs.Close
		logger.Info("firestore persistence enabled", "project", cfg.FirestoreProjectID)
	} else {
		store = memstore.New()
		logger.Warn("no FIRESTORE_PROJECT_ID set, state will not survive restarts")
	}

	// Weather provider (synthetic fallback when no API key is configured).
	var weather engine.WeatherProvider
	if cfg.OpenWeatherAPIKey != "" {
		weather = openweather.NewClient(cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL,
			cfg.WeatherLat, cfg.WeatherLon, cfg.OpenWeatherTimeout, logger)
		logger.Info("openweathermap enabled", "lat", cfg.WeatherLat, "lon", cfg.WeatherLon)
	} else {
		logger.Warn("no OPENWEATHER_API_KEY set, using synthetic weather")
	}

	// Alert publishing (feature-flagged via KAFKA_ENABLED).
	var publisher engine.AlertPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka alert publishing enabled", "topic", cfg.KafkaAlertsTopic)
	} else {
		logger.Info("kafka alert publishing disabled")
	}

	eng := engine.New(store, weather, publisher, cfg.AutoSimulation, logger, metrics)
	if err := eng.LoadState(ctx); err != nil {
		logger.Error("failed to load persisted state", "error", err)
		os.Exit(1)
	}

	refresher := refresh.New(eng, cfg.RefreshInterval, logger)
	if err := refresher.Start(ctx); err != nil {
		logger.Error("failed to start refresh schedule", "error", err)
		os.Exit(1)
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, eng, store, cfg.AllowedOrigins, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	refresher.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
