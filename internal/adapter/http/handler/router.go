package handler

import (
	"trading-gateway/internal/adapter/http/middleware"
	redisStore "trading-gateway/internal/adapter/storage/redis"
	"trading-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	QuoteSvc       ports.QuoteService
	TradeSvc       ports.TradeService
	RateSvc        ports.RateService
	CommandSvc     ports.CommandService
	QuoteAsset     string
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies Redis and PostgreSQL when enabled)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	marketHandler := NewMarketHandler(deps.RateSvc, deps.QuoteAsset)
	market := v1.Group("/market")
	{
		market.GET("/rates", rl("market"), marketHandler.GetRates)
		market.GET("/ticker", rl("market"), marketHandler.GetTicker)
	}

	tradeHandler := NewTradeHandler(deps.QuoteSvc, deps.TradeSvc)
	trade := v1.Group("/trade")
	{
		trade.POST("/quote", rl("quote"), tradeHandler.GetQuote)
		trade.POST("/swap", rl("trade"), tradeHandler.ExecuteSwap)
		trade.POST("/buy", rl("trade"), tradeHandler.ExecuteBuy)
		trade.POST("/sell", rl("trade"), tradeHandler.ExecuteSell)
	}

	walletHandler := NewWalletHandler(deps.TradeSvc)
	wallet := v1.Group("/wallet")
	{
		wallet.GET("/:address/balance", rl("wallet"), walletHandler.GetBalance)
		wallet.GET("/:address/history", rl("wallet"), walletHandler.GetHistory)
		wallet.POST("/fund", rl("wallet_fund"), walletHandler.Fund)
	}

	commandHandler := NewCommandHandler(deps.CommandSvc)
	v1.POST("/command", rl("command"), commandHandler.Execute)

	return r
}
