package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/storelink/woo-mcp-gateway/internal/config"
	"github.com/storelink/woo-mcp-gateway/internal/dispatch"
	"github.com/storelink/woo-mcp-gateway/internal/safehttp"
	"github.com/storelink/woo-mcp-gateway/internal/server"
	"github.com/storelink/woo-mcp-gateway/internal/storage"
	"github.com/storelink/woo-mcp-gateway/internal/storage/memory"
	"github.com/storelink/woo-mcp-gateway/internal/storage/sqlite"
	"github.com/storelink/woo-mcp-gateway/internal/telemetry"
	"github.com/storelink/woo-mcp-gateway/internal/tenant"
	"github.com/storelink/woo-mcp-gateway/internal/tools"
	"github.com/storelink/woo-mcp-gateway/internal/woo"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("woo-mcp-gateway", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	records := make([]tenant.Record, 0, len(cfg.Clients))
	for _, cl := range cfg.Clients {
		records = append(records, tenant.Record{
			ClientID:       cl.ClientID,
			StoreURL:       cl.StoreURL,
			ConsumerKey:    cl.ConsumerKey,
			ConsumerSecret: cl.ConsumerSecret,
		})
	}
	directory, err := tenant.NewDirectory(records)
	if err != nil {
		log.Fatalf("Failed to build tenant directory: %v", err)
	}
	logger.Info("tenant directory loaded", slog.Int("tenants", directory.Len()))

	registry, err := tools.NewRegistry(tools.Defaults()...)
	if err != nil {
		log.Fatalf("Failed to build tool registry: %v", err)
	}

	var store storage.Store
	switch cfg.Storage.Type {
	case "memory":
		store = memory.New()
	case "sqlite":
		store, err = sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open invocation store: %v", err)
		}
	}
	if store != nil {
		defer store.Close()
	}

	dispatcherOpts := []dispatch.Option{
		dispatch.WithLogger(logger),
		dispatch.WithClientFactory(func(rec tenant.Record) *woo.Client {
			return woo.NewClient(rec.StoreURL, rec.ConsumerKey, rec.ConsumerSecret,
				woo.WithHTTPClient(safehttp.Client))
		}),
	}
	if store != nil {
		dispatcherOpts = append(dispatcherOpts, dispatch.WithStore(store))
	}
	dispatcher := dispatch.New(directory, registry, dispatcherOpts...)

	srv := server.New(cfg.Server.Port, logger, dispatcher)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case <-sigChan:
		logger.Info("shutdown signal received, draining...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("gateway stopped")
}
