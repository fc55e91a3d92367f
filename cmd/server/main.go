package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cedoromal/persons-admin/internal/api"
	"github.com/cedoromal/persons-admin/internal/cache"
	"github.com/cedoromal/persons-admin/internal/config"
	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/logging"
	"github.com/cedoromal/persons-admin/internal/web"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"api_proxy_prefix", cfg.API.ProxyPrefix,
		"storage_proxy_prefix", cfg.Storage.ProxyPrefix,
		"cache_enabled", cfg.Cache.Enabled,
		"import_max_file_size", cfg.Import.MaxFileSize,
	)

	ctx := context.Background()

	// Record query cache (optional)
	var listingCache *cache.Listing
	if cfg.Cache.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
			DB:   cfg.Cache.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", "addr", cfg.Cache.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		listingCache = cache.NewListing(rdb, cfg.Cache.TTL)
		slog.Info("connected to redis", "addr", cfg.Cache.RedisAddr)
	}

	// Backend client
	client, err := api.New(cfg.API.BaseURL, cfg.API.PathPrefix, cfg.API.Timeout, nil)
	if err != nil {
		slog.Error("failed to create backend client", "error", err)
		os.Exit(1)
	}

	// Workflow notifications surface as toasts via the flash store
	flashes := web.NewFlashStore()

	service, err := core.NewService(client, core.Options{
		Cache:           listingCache,
		Notifier:        flashes,
		StorageBaseURL:  cfg.Storage.BaseURL,
		TransferBaseURL: cfg.Server.PublicURL,
		MaxImportSize:   cfg.Import.MaxFileSize,
		ImportTimeout:   cfg.Import.Timeout,
	})
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(service, cfg, flashes)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
