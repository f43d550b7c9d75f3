package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/docfusion/docfusion/internal/config"
	"github.com/docfusion/docfusion/internal/mcp"
	"github.com/docfusion/docfusion/internal/service"
	"github.com/docfusion/docfusion/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("DocFusion MCP Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	// Log startup info to stderr (stdout reserved for MCP protocol)
	log.SetOutput(os.Stderr)
	logger := log.New(os.Stderr, "", log.LstdFlags)
	logger.Printf("DocFusion MCP Server v%s starting...", version)
	logger.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

	cfg, cfgPath, err := config.LoadDefault()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if cfgPath != "" {
		logger.Printf("Loaded config from %s", cfgPath)
	}
	if path := os.Getenv("DOCFUSION_DB_PATH"); path != "" {
		cfg.Storage.Path = path
	}

	svc, err := service.NewFromConfig(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to create service: %v", err)
	}

	server := mcp.NewServer(svc, logger)

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Println("MCP server ready, listening on stdio...")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatalf("Server error: %v", err)
		}
	}

	logger.Println("Server stopped")
}
