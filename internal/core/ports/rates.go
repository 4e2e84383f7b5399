package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateSource supplies current reference prices per asset, denominated in
// the ledger's pricing unit (USD). Implementations may be a static table,
// a polled HTTP feed, or a streaming feed; callers must assume a call can
// fail or time out.
type RateSource interface {
	// Price returns the reference price of asset. Unknown assets fail
	// with an UnknownAsset error.
	Price(ctx context.Context, asset string) (decimal.Decimal, error)
	// Snapshot returns the full asset -> price table.
	Snapshot(ctx context.Context) (map[string]decimal.Decimal, error)
}

// RateService is the rate source the trading side consumes: a RateSource
// hardened with timeouts and last-known-good fallback, plus pair-rate
// derivation.
type RateService interface {
	RateSource
	// Rate returns the fromAsset -> toAsset exchange rate, rounded to
	// RatePrecision. Same-asset pairs are rate 1.
	Rate(ctx context.Context, fromAsset, toAsset string) (decimal.Decimal, error)
}

// RateCache holds last-known-good prices so quoting degrades to a bounded
// staleness window instead of failing outright when the feed is down.
type RateCache interface {
	// Get returns the cached price and whether one was present.
	Get(ctx context.Context, asset string) (decimal.Decimal, bool, error)
	// Set stores a price for ttl.
	Set(ctx context.Context, asset string, price decimal.Decimal, ttl time.Duration) error
}
