// cmd/verite/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", DefaultConfigPath, "path to the configuration file")
	flag.Parse()

	// Load .env first so it can feed the config overrides
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := InitLogger(cfg.LogPath, ParseLogLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging unavailable: %v\n", err)
	}
	Logger().Info("%s v%s starting up", AppName, cfg.Version)

	// Persistence: Postgres when enabled, in-memory otherwise
	var store Store
	if cfg.EnableDatabase {
		db, err := OpenDatabase(cfg.DatabaseURL)
		if err != nil {
			Logger().Error("Failed to initialize database: %v", err)
			os.Exit(1)
		}
		store = NewSQLStore(db)
		Logger().Info("Database initialized")
	} else {
		store = NewMemoryStore()
		Logger().Warning("Database disabled, using in-memory store")
	}
	defer store.Close()

	if cfg.OpenAIAPIKey == "" {
		Logger().Warning("OPENAI_API_KEY is not set, AI analysis calls will fail")
	}
	if cfg.AdminToken == "" {
		Logger().Warning("Admin token is not set, admin endpoints are disabled")
	}

	analyzer := NewAnalyzer(AnalyzerConfig{
		APIKey:            cfg.OpenAIAPIKey,
		BaseURL:           cfg.OpenAIBaseURL,
		Model:             cfg.AIModel,
		Temperature:       float32(cfg.AITemperature),
		MaxTokens:         cfg.AIMaxTokens,
		Timeout:           cfg.AITimeout(),
		RequestsPerMinute: cfg.AIRequestsPerMinute,
	})

	var extractor *URLExtractor
	if cfg.EnableURLExtraction {
		extractor = NewURLExtractor(cfg.UserAgent)
	}

	hub := NewHub()
	analysis := NewAnalysisService(store, analyzer, extractor, hub)
	server := NewServer(cfg, store, analysis, hub)

	// Optional feed watcher
	var watcher *FeedWatcher
	if cfg.EnableFeedWatcher {
		sources, err := LoadFeedSources(cfg.FeedsPath)
		if err != nil {
			Logger().Warning("Feed watcher disabled: %v", err)
		} else {
			watcher = NewFeedWatcher(store, hub, sources, cfg.UserAgent, cfg.MaxPostsPerFeed)
			Logger().Info("Feed watcher monitoring %d sources", len(sources))
		}
	}

	scheduler, err := StartScheduler(cfg, watcher, store)
	if err != nil {
		Logger().Error("Failed to start scheduler: %v", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			Logger().Error("HTTP server failed: %v", err)
		}
	case sig := <-stop:
		Logger().Info("Received %v, shutting down", sig)
	}

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownGracePeriod)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		Logger().Error("Shutdown error: %v", err)
	}
	Logger().Info("Shutdown complete")
}
