package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Rates    RatesConfig    `mapstructure:"rates"`
	Trading  TradingConfig  `mapstructure:"trading"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig configures the optional transaction archive. When
// Enabled is false the gateway keeps history in memory only.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// RedisConfig configures the quote store, rate cache, and rate limiter.
// When Enabled is false all three fall back to in-process alternatives.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// RatesConfig selects and tunes the price feed.
type RatesConfig struct {
	Provider     string            `mapstructure:"provider"` // static, http, websocket
	URL          string            `mapstructure:"url"`
	Timeout      time.Duration     `mapstructure:"timeout"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	CacheTTL     time.Duration     `mapstructure:"cache_ttl"`
	StaticPrices map[string]string `mapstructure:"static_prices"`
}

// TradingConfig centralizes the fee schedule and precision settings that
// the quote engine and swap executor share.
type TradingConfig struct {
	FeeRateBps         int64            `mapstructure:"fee_rate_bps"`
	QuoteTTL           time.Duration    `mapstructure:"quote_ttl"`
	QuoteAsset         string           `mapstructure:"quote_asset"`
	DefaultSlippageBps int64            `mapstructure:"default_slippage_bps"`
	PrecisionByAsset   map[string]int32 `mapstructure:"precision_by_asset"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: TGW_ (Trading Gateway).
// Nested keys use underscore: TGW_SERVER_PORT, TGW_TRADING_FEE_RATE_BPS, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "trading_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rates.provider", "static")
	v.SetDefault("rates.url", "")
	v.SetDefault("rates.timeout", "3s")
	v.SetDefault("rates.poll_interval", "5s")
	v.SetDefault("rates.cache_ttl", "5m")
	v.SetDefault("rates.static_prices", map[string]string{
		"SOL":  "103.42",
		"USDC": "1",
		"USDT": "1.0004",
	})
	v.SetDefault("trading.fee_rate_bps", 30)
	v.SetDefault("trading.quote_ttl", "30s")
	v.SetDefault("trading.quote_asset", "USDC")
	v.SetDefault("trading.default_slippage_bps", 50)
	v.SetDefault("trading.precision_by_asset", map[string]int32{
		"SOL":  6,
		"USDC": 6,
		"USDT": 6,
	})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: TGW_TRADING_QUOTE_ASSET -> trading.quote_asset
	v.SetEnvPrefix("TGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
