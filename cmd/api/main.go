package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/garagehub/internal/adapters/http"
	natsadapter "github.com/samirrijal/garagehub/internal/adapters/nats"
	"github.com/samirrijal/garagehub/internal/adapters/osrm"
	"github.com/samirrijal/garagehub/internal/adapters/postgres"
	"github.com/samirrijal/garagehub/internal/adapters/valkey"
	"github.com/samirrijal/garagehub/internal/core/ports"
	"github.com/samirrijal/garagehub/internal/core/usecases"
	"github.com/samirrijal/garagehub/internal/pkg/config"
	"github.com/samirrijal/garagehub/internal/pkg/logging"
	"github.com/samirrijal/garagehub/internal/pkg/metrics"
	"github.com/samirrijal/garagehub/internal/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load("garagehub-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName, cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	deps := &http.Dependencies{
		DefaultRadiusKm: cfg.Search.DefaultRadiusKm,
		Version:         version,
		DB:              db,
	}

	// Cache
	var store ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, serving uncached", "error", err)
	} else {
		defer cache.Close()
		store = cache
		deps.Cache = cache
	}
	catalogCache := usecases.NewCatalogCache(store, cfg.Search.CacheTTLSeconds)

	// Catalogue updates from garagectl seed rotate the cache namespace.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, cache entries will only expire", "error", err)
	} else {
		defer sub.Close()
		deps.Events = sub
		if err := sub.SubscribeCatalogUpdates(ctx, catalogCache.ApplyUpdate); err != nil {
			slog.Warn("catalog subscription failed", "error", err)
		}
	}

	// Repos
	garageRepo := postgres.NewGarageRepo(db)
	serviceRepo := postgres.NewServiceRepo(db)

	// Use cases
	deps.Garages = usecases.NewGarageService(garageRepo, serviceRepo, catalogCache)
	deps.Catalog = usecases.NewCatalogService(serviceRepo, catalogCache)

	var planner ports.RoutePlanner
	if cfg.Routing.BaseURL != "" {
		planner = osrm.New(osrm.Config{
			BaseURL:           cfg.Routing.BaseURL,
			Profile:           cfg.Routing.Profile,
			Timeout:           cfg.Routing.Timeout(),
			RequestsPerSecond: cfg.Routing.RequestsPerSecond,
			MaxRetries:        cfg.Routing.MaxRetries,
			UserAgent:         "GarageHub-API/" + version,
		})
	}
	deps.Routes = usecases.NewRouteService(deps.Garages, planner, cfg.Routing.Timeout())

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		AppName:      "GarageHub API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
