package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinical-ui-manifest/internal/api"
	"github.com/clinical-ui-manifest/internal/config"
	"github.com/clinical-ui-manifest/internal/logging"
	"github.com/clinical-ui-manifest/internal/manifest"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger, err := logging.FromConfig(*configManager.GetLoggingConfig())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	cfg := configManager.GetConfig()
	logger.WithField("config_file", configManager.ConfigFileUsed()).
		Infof("Starting clinical UI manifest server on %s:%d", cfg.Server.Host, cfg.Server.Port)

	generator, err := manifest.NewDefaultGenerator(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create manifest generator")
	}

	// Create server
	server, err := api.NewServer(configManager, generator, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create server")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}
