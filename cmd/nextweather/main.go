package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/Neerajpokala/NextWeather/internal/api/http"
	"github.com/Neerajpokala/NextWeather/internal/assistant"
	"github.com/Neerajpokala/NextWeather/internal/cache"
	"github.com/Neerajpokala/NextWeather/internal/config"
	"github.com/Neerajpokala/NextWeather/internal/geocode"
	"github.com/Neerajpokala/NextWeather/internal/logging"
	"github.com/Neerajpokala/NextWeather/internal/nws"
	"github.com/Neerajpokala/NextWeather/internal/scheduler"
	"github.com/Neerajpokala/NextWeather/internal/weather"
)

const appName = "nextweather"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(os.Stdout, cfg, appName))

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	nwsClient := nws.NewClient(httpClient, cfg.NWSBaseURL, cfg.NWSUserAgent)

	var geo geocode.Geocoder = geocode.NewNominatim(httpClient, cfg.NominatimBaseURL, cfg.NominatimUserAgent)
	if cfg.GoogleGeocoderKey != "" {
		geo = geocode.NewGoogle(cfg.GoogleGeocoderKey)
		slog.Info("using Google geocoding")
	}

	// Bundle cache with configured retention.
	bundles := cache.New[*weather.Bundle](cfg.CacheTTL, cfg.CacheMaxEntries, nil)

	service := weather.NewService(nwsClient, geo, bundles, nil)

	var responder assistant.Responder = assistant.Echo{}
	if cfg.OpenAIAPIKey != "" {
		responder = assistant.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		slog.Info("chat replies enabled", "model", cfg.OpenAIModel)
	}
	sessions := assistant.NewSessions(cfg.ChatMaxHistory, cfg.ChatMaxSessions, nil)
	chat := assistant.New(sessions, service, responder, cfg.LocationNames())

	// Scheduler that keeps prewarm locations cached.
	sched := scheduler.New(cfg.PrewarmLocations, cfg.PrewarmInterval, service)
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(appName)
	httpapi.RegisterRoutes(app, service, chat)

	go func() {
		slog.Info("listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
