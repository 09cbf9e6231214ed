package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/replog/internal/config"
	"github.com/claude/replog/internal/ingest"
	"github.com/claude/replog/internal/mcp"
	"github.com/claude/replog/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "RepLog server URL for remote mode (default: local database via -config)")
	apiKey := flag.String("api-key", "", "API key for remote writes (default $REPLOG_AUTH_API_KEY)")
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("replog-mcp", Version)
		return
	}

	// Stdout carries the MCP protocol; all logging goes to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource

	if *serverURL != "" {
		if *apiKey == "" {
			*apiKey = os.Getenv("REPLOG_AUTH_API_KEY")
		}
		ds = mcp.NewHTTPClient(*serverURL, *apiKey)
		log.Info("remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ds = &mcp.LocalSource{DB: db, Provider: ingest.NewProvider(db, log)}
		log.Info("local mode", "database", cfg.Database.Host)
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
