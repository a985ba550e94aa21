package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beinghadibadami/medinexus-connect/catalog"
	"github.com/beinghadibadami/medinexus-connect/config"
	"github.com/beinghadibadami/medinexus-connect/data"
	"github.com/beinghadibadami/medinexus-connect/handlers"
	"github.com/beinghadibadami/medinexus-connect/health"
	"github.com/beinghadibadami/medinexus-connect/interfaces"
	"github.com/beinghadibadami/medinexus-connect/logging"
	"github.com/beinghadibadami/medinexus-connect/scheduler"
	"github.com/beinghadibadami/medinexus-connect/search"
	"github.com/beinghadibadami/medinexus-connect/server"
	"github.com/beinghadibadami/medinexus-connect/validation"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine, the environment may be set by the process manager
		fmt.Fprintln(os.Stderr, "No .env file loaded, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions(logging.Options{
		Dir:            "logs",
		RetentionWeeks: cfg.LogRetentionWeeks,
		MaxFileSize:    cfg.MaxLogFileSize,
		Level:          logging.ParseLevel(cfg.LogLevel),
	})
	defer func() { _ = logging.Close() }()

	if err := run(cfg); err != nil {
		logging.Error("Service stopped with error", "error", err)
		_ = logging.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	source, cleanup, err := newCatalogSource(startCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer cleanup()

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	sched := scheduler.NewScheduler(dataContainer, source, cfg.RefreshInterval())
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(
		dataContainer,
		validation.NewQueryValidator(cfg.MaxMedicineNameLength),
		search.NewOrchestrator(search.WithWorkers(cfg.SearchWorkers)),
		health.NewHealthChecker(dataContainer, cfg.RefreshInterval()),
	)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-quit:
		logging.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// newCatalogSource builds the configured catalog source, wrapped in a Redis
// snapshot cache when REDIS_ADDR is set. The returned cleanup releases any
// connections opened here.
func newCatalogSource(ctx context.Context, cfg *config.Config) (interfaces.CatalogSource, func(), error) {
	var (
		source  interfaces.CatalogSource
		closers []func() error
	)

	switch cfg.CatalogSource {
	case config.SourceHTTP:
		source = catalog.NewHTTPSource(cfg.CatalogURL, &http.Client{Timeout: 30 * time.Second})
	case config.SourcePostgres:
		db, err := catalog.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, db.Close)
		source = catalog.NewPostgresSource(db)
	case config.SourceFile:
		source = catalog.NewFileSource(cfg.CatalogFile)
	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.CatalogSource)
	}

	if cfg.RedisAddr != "" {
		client, err := catalog.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// The service still works without the snapshot fallback
			logging.Warn("Redis unavailable, catalog snapshot cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			closers = append(closers, client.Close)
			source = catalog.NewCachedSource(source, catalog.NewRedisSnapshotCache(client, ""))
		}
	}

	logging.Info("Catalog source configured", "source", source.Name())

	cleanup := func() {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil {
				logging.Warn("Failed to close catalog connection", "error", err)
			}
		}
	}
	return source, cleanup, nil
}
