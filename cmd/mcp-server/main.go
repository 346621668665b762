// Package main is the stdio MCP server entry point. It is configured from
// MANIFEST_* environment variables only.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinical-ui-manifest/internal/config"
	"github.com/clinical-ui-manifest/internal/mcp"
)

func main() {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	cfg := config.LoadLiteConfig()

	server, err := mcp.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, gracefully shutting down MCP server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}

	log.Println("Clinical UI manifest MCP server stopped")
}
