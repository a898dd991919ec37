package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/config"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/handlers"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
)

func main() {
	configPath := flag.String("config", "arb-calculator.toml", "path to configuration file (optional)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// Create handler
	handler, err := handlers.NewHandler(cfg, metrics.NewCalculatorMetrics(), logger)
	if err != nil {
		logger.Error("failed to build calculator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handlers.NewRouter(handler, cfg.Server.CORSOrigins, cfg.Server.RequestTimeout.Duration, logger),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	go func() {
		logger.Info("arb calculator started",
			slog.Int("port", cfg.Server.Port),
			slog.Any("allowed_steps", cfg.Optimizer.AllowedSteps),
			slog.Int64("default_step", cfg.Optimizer.DefaultStep),
			slog.String("tie_break", cfg.Filter.TieBreak),
			slog.Any("flagged_bookmakers", cfg.Filter.FlaggedBookmakers),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("arb calculator stopped")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
