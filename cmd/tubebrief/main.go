package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tubebrief/tubebrief/internal/classifier"
	"github.com/tubebrief/tubebrief/internal/config"
	"github.com/tubebrief/tubebrief/internal/model"
	"github.com/tubebrief/tubebrief/internal/pipeline"
	"github.com/tubebrief/tubebrief/internal/provider"
	"github.com/tubebrief/tubebrief/internal/server"
	"github.com/tubebrief/tubebrief/internal/summarizer"
	"github.com/tubebrief/tubebrief/internal/transcript"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up logging
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("starting tubebrief", "port", cfg.Port)

	// Provider registry with the configured default credentials; a
	// request-level credential overrides these per call.
	registry := provider.NewRegistry(map[model.Provider]provider.Config{
		model.ProviderAnthropic: {APIKey: cfg.AnthropicAPIKey},
		model.ProviderOpenAI:    {APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL},
		model.ProviderGemini:    {APIKey: cfg.GeminiAPIKey},
	})

	fetcher := transcript.NewFetcher(cfg.YouTubeAPIKey)
	if cfg.YouTubeAPIKey == "" {
		slog.Warn("YouTube API key not configured, metadata falls back to page scraping and playlists are unavailable")
	}

	runner := pipeline.New(
		fetcher,
		classifier.New(registry),
		summarizer.New(registry),
		cfg.PlaylistWorkers,
	)

	// Create server
	srv := server.New(cfg, runner)

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // analysis runs span many provider calls
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	<-shutdownChan
	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
