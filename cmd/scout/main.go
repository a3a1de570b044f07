package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/locale-scout/internal/adapter/exifreader"
	httpadapter "github.com/couchcryptid/locale-scout/internal/adapter/http"
	"github.com/couchcryptid/locale-scout/internal/adapter/nominatim"
	openaiadapter "github.com/couchcryptid/locale-scout/internal/adapter/openai"
	"github.com/couchcryptid/locale-scout/internal/chat"
	"github.com/couchcryptid/locale-scout/internal/config"
	"github.com/couchcryptid/locale-scout/internal/dialect"
	"github.com/couchcryptid/locale-scout/internal/observability"
	"github.com/couchcryptid/locale-scout/internal/resolve"
	"github.com/couchcryptid/locale-scout/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	dialects := dialect.Default()
	if cfg.DialectSamplesPath != "" {
		dialects, err = dialect.LoadFile(cfg.DialectSamplesPath)
		if err != nil {
			logger.Error("failed to load dialect samples", "path", cfg.DialectSamplesPath, "error", err)
			os.Exit(1)
		}
		logger.Info("dialect samples loaded", "path", cfg.DialectSamplesPath, "regions", dialects.Len())
	}

	geocoder := nominatim.NewCachedGeocoder(
		nominatim.NewClient(cfg.NominatimBaseURL, cfg.NominatimTimeout, metrics, logger),
		cfg.GeocodeCacheSize,
		metrics,
	)
	model := openaiadapter.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenAITimeout, metrics, logger)

	resolver := resolve.New(exifreader.NewReader(logger), geocoder, model, cfg.GeocodeLanguage, logger, metrics)
	engine := chat.NewEngine(model, cfg.MaxContextTurns, logger, metrics)
	sessions := session.NewManager(cfg.SessionTTL, nil, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sessions, resolver, engine, dialects, sessions, cfg.MaxUploadBytes, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start session pruning.
	go sessions.Run(ctx, cfg.SessionPruneEvery)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
