package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/courtline/adapters/sportsgameodds"
	"github.com/XavierBriggs/courtline/adapters/theoddsapi"
	"github.com/XavierBriggs/courtline/adapters/therundown"
	"github.com/XavierBriggs/courtline/internal/config"
	"github.com/XavierBriggs/courtline/internal/history"
	"github.com/XavierBriggs/courtline/internal/injury"
	"github.com/XavierBriggs/courtline/internal/registry"
	"github.com/XavierBriggs/courtline/internal/resolver"
	"github.com/XavierBriggs/courtline/internal/server"
	"github.com/XavierBriggs/courtline/internal/service"
	"github.com/XavierBriggs/courtline/pkg/contracts"
	"github.com/XavierBriggs/courtline/pkg/models"
)

func main() {
	configPath := flag.String("config", "courtline.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Provider adapters, registered in fallback order
	adapterRegistry := registry.NewAdapterRegistry()

	if cfg.OddsAPIKey != "" {
		client := theoddsapi.NewClient(cfg.OddsAPIKey)
		client.SetDebug(cfg.Debug)
		mustRegister(adapterRegistry, client)
		fmt.Println("✓ Initialized The Odds API adapter")
	}
	if cfg.SportsGameOddsKey != "" {
		client := sportsgameodds.NewClient(cfg.SportsGameOddsKey)
		client.SetDebug(cfg.Debug)
		mustRegister(adapterRegistry, client)
		fmt.Println("✓ Initialized SportsGameOdds adapter")
	}
	if cfg.RundownKey != "" {
		client := therundown.NewClient(cfg.RundownKey)
		client.SetDebug(cfg.Debug)
		mustRegister(adapterRegistry, client)
		fmt.Println("✓ Initialized TheRundown adapter")
	}

	if adapterRegistry.Count() == 0 {
		fmt.Println("✗ No provider API keys configured; at least one is required")
		os.Exit(1)
	}

	// Line history persistence (optional)
	var hist *history.Writer
	if cfg.DatabaseDSN != "" {
		db, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			fmt.Printf("failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			fmt.Printf("failed to ping database: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✓ Connected to Postgres")

		hist = history.NewWriter(db)
		hist.Start(ctx)
		defer hist.Stop()
	}

	// Injury source, wrapped with the redis cache when configured
	var injuries contracts.InjurySource
	if cfg.SportsDataKey != "" {
		provider := injury.NewClient(cfg.SportsDataKey)
		provider.SetDebug(cfg.Debug)
		injuries = provider

		if cfg.RedisAddr != "" {
			redisClient := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
			})
			defer redisClient.Close()

			if err := redisClient.Ping(ctx).Err(); err != nil {
				fmt.Printf("failed to connect to Redis: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✓ Connected to Redis")

			injuries = injury.NewCachedSource(provider, redisClient, cfg.InjuryCacheTTL)
		}
		fmt.Println("✓ Initialized injury source")
	}

	res := resolver.New(models.BookmakerPreference(cfg.BookmakerPreference))

	svc := service.New(adapterRegistry, res, injuries, hist)
	svc.SetDebug(cfg.Debug)

	srv := server.New(svc)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		fmt.Printf("✓ Courtline listening on %s\n", cfg.Addr)
		fmt.Printf("  Providers: %v\n", svc.Providers())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("✗ Shutdown error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ Courtline stopped")
}

func mustRegister(r *registry.AdapterRegistry, adapter contracts.PropAdapter) {
	if err := r.Register(adapter); err != nil {
		fmt.Printf("failed to register %s adapter: %v\n", adapter.Provenance(), err)
		os.Exit(1)
	}
}
