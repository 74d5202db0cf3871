package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pumpbrain/pumpbrain/internal/app"
	"github.com/pumpbrain/pumpbrain/internal/config"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"github.com/pumpbrain/pumpbrain/pkg/version"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const stopTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load() // Load .env if present

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Options{Level: cfg.App.LogLevel, Format: cfg.App.LogFormat})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	err = run(cfg, log, sigChan)
	// os.Exit skips deferred calls, so flush explicitly.
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run starts the application, blocks until shutdown is received and stops it.
func run(cfg *config.Config, log *logger.Logger, shutdown <-chan os.Signal) error {
	warnMissingKeys(cfg, log)

	application := fx.New(
		fx.Supply(cfg),
		fx.Supply(log),
		app.Module,
		app.ServerModule,
		fx.WithLogger(func() fxevent.Logger {
			return fxevent.NopLogger
		}),
	)

	log.Info("Starting application", zap.String("version", version.GetVersionString()), zap.String("env", cfg.App.Env))

	if err := application.Start(context.Background()); err != nil {
		log.Error("Failed to start application", zap.Error(err))
		return err
	}

	<-shutdown
	log.Info("Shutting down application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	if err := application.Stop(stopCtx); err != nil {
		log.Error("Failed to stop application gracefully", zap.Error(err))
		return err
	}

	log.Info("Application stopped successfully")
	return nil
}

// warnMissingKeys names unset credentials without logging their values.
func warnMissingKeys(cfg *config.Config, log *logger.Logger) {
	for name, v := range map[string]string{
		"solana.api_key":  cfg.Solana.APIKey,
		"moralis.api_key": cfg.Moralis.APIKey,
		"ai.api_key":      cfg.AI.APIKey,
	} {
		if v == "" {
			log.Warn("credential not configured", zap.String("key", name))
		}
	}
}
