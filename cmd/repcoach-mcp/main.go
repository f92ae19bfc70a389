package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/config"
	"github.com/claude/repcoach/internal/library"
	"github.com/claude/repcoach/internal/mcp"
	"github.com/claude/repcoach/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	noDB := flag.Bool("no-db", false, "run without a database (no workout history tools)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("repcoach-mcp", Version)
		return
	}

	// Logs go to stderr; stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var hist mcp.History
	if !*noDB {
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
		hist = db
	}

	engine := analysis.NewEngine(analysis.NewSessionStore(), analysis.NewRegistry(), log)

	s := mcp.New(engine, hist, library.New(), Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
