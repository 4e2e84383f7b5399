package feed

import (
	"context"
	"fmt"
	"sync"

	"trading-gateway/internal/core/domain"
	"trading-gateway/pkg/apperror"

	"github.com/shopspring/decimal"
)

// StaticRateSource serves prices from an in-memory table. It is the
// default provider (standing in for an external market-data feed) and
// also acts as the live table behind the HTTP and WebSocket feeds,
// which push updates into it.
type StaticRateSource struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
}

// NewStaticRateSource creates a rate source over a fixed price table.
func NewStaticRateSource(prices map[string]decimal.Decimal) *StaticRateSource {
	table := make(map[string]decimal.Decimal, len(prices))
	for code, p := range prices {
		table[domain.NormalizeAssetCode(code)] = p
	}
	return &StaticRateSource{prices: table}
}

// NewStaticRateSourceFromConfig parses a code -> decimal-string table.
func NewStaticRateSourceFromConfig(prices map[string]string) (*StaticRateSource, error) {
	table := make(map[string]decimal.Decimal, len(prices))
	for code, raw := range prices {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing static price for %s: %w", code, err)
		}
		if p.Sign() <= 0 {
			return nil, fmt.Errorf("static price for %s must be positive, got %s", code, raw)
		}
		table[domain.NormalizeAssetCode(code)] = p
	}
	return &StaticRateSource{prices: table}, nil
}

// Price implements ports.RateSource.
func (s *StaticRateSource) Price(_ context.Context, asset string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[domain.NormalizeAssetCode(asset)]
	if !ok {
		return decimal.Zero, apperror.ErrUnknownAsset(asset)
	}
	return p, nil
}

// Snapshot implements ports.RateSource.
func (s *StaticRateSource) Snapshot(_ context.Context) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]decimal.Decimal, len(s.prices))
	for code, p := range s.prices {
		out[code] = p
	}
	return out, nil
}

// SetPrice updates a single asset's price. Non-positive prices are
// ignored so a bad tick cannot poison the table.
func (s *StaticRateSource) SetPrice(asset string, price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[domain.NormalizeAssetCode(asset)] = price
}
