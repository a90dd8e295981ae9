package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/veloparts/storefront/internal/admin"
	"github.com/veloparts/storefront/internal/config"
	"github.com/veloparts/storefront/internal/dataset"
	"github.com/veloparts/storefront/internal/fitment"
	"github.com/veloparts/storefront/internal/related"
	"github.com/veloparts/storefront/internal/reseller"
	"github.com/veloparts/storefront/internal/search"
	"github.com/veloparts/storefront/internal/server"
	"github.com/veloparts/storefront/internal/shipping"
	"github.com/veloparts/storefront/internal/store"
	"github.com/veloparts/storefront/internal/version"
	"github.com/veloparts/storefront/pkg/tenants"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("storefront server starting", zap.String("version", version.Short()))

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Pick the dataset source: SQLite when configured, JSON files otherwise.
	var (
		source dataset.Source
		db     *store.Store
	)
	if path := cfg.GetString("data.sqlite"); path != "" {
		db, err = store.New(path)
		if err != nil {
			logger.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()

		ctx := context.Background()
		if err := db.Migrate(ctx, "dataset", dataset.Migrations()); err != nil {
			logger.Fatal("dataset migrations failed", zap.Error(err))
		}
		if err := db.Migrate(ctx, "admin", admin.Migrations()); err != nil {
			logger.Fatal("admin migrations failed", zap.Error(err))
		}
		source = dataset.NewSQLiteSource(db, logger)
		logger.Info("using sqlite dataset source", zap.String("path", path))
	} else {
		dir := cfg.GetString("data.dir")
		source = dataset.NewDirSource(dir, logger)
		logger.Info("using json dataset source", zap.String("dir", dir))
	}

	loader := dataset.NewLoader(source, logger)
	if _, err := loader.Load(context.Background()); err != nil {
		logger.Fatal("failed to load datasets", zap.Error(err))
	}

	var stockStore *admin.StockStore
	if db != nil {
		stockStore = admin.NewStockStore(db)
	}

	registry := tenants.NewRegistry()

	registrars := []server.RouteRegistrar{
		search.NewHandler(loader, logger),
		fitment.NewHandler(loader, logger),
		related.NewHandler(loader, logger),
		shipping.NewHandler(loader, logger),
		reseller.NewHandler(registry, loader, logger),
		admin.NewHandler(admin.AuthConfigFrom(cfg), stockStore, loader, logger),
	}

	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	srv := server.New(addr, logger, registrars...)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("storefront server ready", zap.String("addr", addr))

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("storefront server stopped")
}
