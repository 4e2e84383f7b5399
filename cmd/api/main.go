package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trading-gateway/config"
	"trading-gateway/internal/adapter/feed"
	httpHandler "trading-gateway/internal/adapter/http/handler"
	memStorage "trading-gateway/internal/adapter/storage/memory"
	pgStorage "trading-gateway/internal/adapter/storage/postgres"
	redisStorage "trading-gateway/internal/adapter/storage/redis"
	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/internal/service"
	"trading-gateway/pkg/logger"

	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("rates_provider", cfg.Rates.Provider).
		Msg("Starting Trading Gateway")

	ctx := context.Background()

	// Asset registry from configured precisions
	registry := buildRegistry(cfg.Trading.PrecisionByAsset)

	// Price feed
	source, worker, err := buildFeed(cfg.Rates, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price feed")
	}
	if worker != nil {
		worker.Start(ctx)
		defer worker.Stop()
	}

	// Redis-backed stores, or in-process fallbacks when Redis is disabled
	var (
		quoteStore     ports.QuoteStore
		rateCache      ports.RateCache
		rateLimitStore *redisStorage.RateLimitStore
		healthCheckers []ports.HealthChecker
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		quoteStore = redisStorage.NewQuoteStore(rdb)
		rateCache = redisStorage.NewRateCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		memStore := memStorage.NewQuoteStore()
		go sweepLoop(ctx, memStore, cfg.Trading.QuoteTTL)
		quoteStore = memStore
		log.Info().Msg("Redis disabled, using in-process quote store")
	}

	// Optional PostgreSQL transaction archive
	var archive ports.TransactionArchive
	if cfg.Database.Enabled {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		log.Info().Msg("PostgreSQL connected")

		archive = pgStorage.NewTransactionArchive(pool)
		healthCheckers = append(healthCheckers, pgStorage.NewHealthCheck(pool))
	}

	// Balance ledger is always in-process
	ledger := memStorage.NewLedger()

	// Core services
	rateSvc := service.NewRateService(source, rateCache, registry, cfg.Rates.Timeout, cfg.Rates.CacheTTL, log)
	quoteSvc := service.NewQuoteService(
		rateSvc,
		quoteStore,
		registry,
		cfg.Trading.FeeRateBps,
		cfg.Trading.QuoteTTL,
		cfg.Trading.DefaultSlippageBps,
		log,
	)
	tradeSvc := service.NewTradeService(
		quoteSvc,
		quoteStore,
		rateSvc,
		ledger,
		archive,
		registry,
		cfg.Trading.QuoteAsset,
		log,
	)
	commandSvc := service.NewCommandService(quoteSvc, tradeSvc, rateSvc, cfg.Trading.QuoteAsset, log)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		QuoteSvc:       quoteSvc,
		TradeSvc:       tradeSvc,
		RateSvc:        rateSvc,
		CommandSvc:     commandSvc,
		QuoteAsset:     cfg.Trading.QuoteAsset,
		RateLimitStore: rateLimitStore,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// buildRegistry converts the configured precision map into an asset
// registry, falling back to the built-in listing when none is configured.
func buildRegistry(precisions map[string]int32) *domain.AssetRegistry {
	if len(precisions) == 0 {
		return domain.DefaultAssetRegistry()
	}
	assets := make([]domain.Asset, 0, len(precisions))
	for code, decimals := range precisions {
		assets = append(assets, domain.Asset{
			Code:     domain.NormalizeAssetCode(code),
			Decimals: decimals,
		})
	}
	return domain.NewAssetRegistry(assets)
}

// feedWorker is the lifecycle shared by the background feed refreshers.
type feedWorker interface {
	Start(ctx context.Context)
	Stop()
}

// buildFeed constructs the rate source for the configured provider. The
// http and websocket providers return a worker that must be started and
// stopped by the caller; the static provider returns a nil worker. Both
// refreshing providers seed their table from the configured static
// prices so quoting works before the first update lands.
func buildFeed(cfg config.RatesConfig, log zerolog.Logger) (ports.RateSource, feedWorker, error) {
	switch cfg.Provider {
	case "http":
		table, err := feed.NewStaticRateSourceFromConfig(cfg.StaticPrices)
		if err != nil {
			return nil, nil, err
		}
		client := &http.Client{Timeout: cfg.Timeout}
		source := feed.NewHTTPRateSource(cfg.URL, client)
		return table, feed.NewHTTPPollWorker(source, table, cfg.PollInterval, log), nil
	case "websocket":
		table, err := feed.NewStaticRateSourceFromConfig(cfg.StaticPrices)
		if err != nil {
			return nil, nil, err
		}
		return table, feed.NewWSFeedWorker(cfg.URL, table, log), nil
	case "static":
		table, err := feed.NewStaticRateSourceFromConfig(cfg.StaticPrices)
		if err != nil {
			return nil, nil, err
		}
		return table, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown rates provider %q", cfg.Provider)
	}
}

// sweepLoop periodically reclaims expired quotes from the in-process
// store. Redis handles this through key TTLs; the memory store needs a
// janitor.
func sweepLoop(ctx context.Context, store *memStorage.QuoteStore, quoteTTL time.Duration) {
	interval := quoteTTL
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Sweep()
		}
	}
}
