package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// RateServiceImpl decorates a ports.RateSource with a per-call timeout
// and a last-known-good fallback. A healthy feed refreshes both an
// in-process table and the shared cache; when the feed fails, quoting
// degrades to the freshest fallback instead of erroring outright.
// Unknown-asset errors pass through untouched: a missing listing is a
// caller mistake, not feed degradation.
type RateServiceImpl struct {
	source   ports.RateSource
	cache    ports.RateCache // optional
	registry *domain.AssetRegistry
	timeout  time.Duration
	cacheTTL time.Duration
	log      zerolog.Logger

	mu       sync.RWMutex
	lastGood map[string]decimal.Decimal
}

// NewRateService creates a RateServiceImpl. cache may be nil.
func NewRateService(
	source ports.RateSource,
	cache ports.RateCache,
	registry *domain.AssetRegistry,
	timeout time.Duration,
	cacheTTL time.Duration,
	log zerolog.Logger,
) *RateServiceImpl {
	return &RateServiceImpl{
		source:   source,
		cache:    cache,
		registry: registry,
		timeout:  timeout,
		cacheTTL: cacheTTL,
		log:      log,
		lastGood: make(map[string]decimal.Decimal),
	}
}

// Price implements ports.RateSource.
func (s *RateServiceImpl) Price(ctx context.Context, asset string) (decimal.Decimal, error) {
	code := domain.NormalizeAssetCode(asset)
	if _, ok := s.registry.Lookup(code); !ok {
		return decimal.Zero, apperror.ErrUnknownAsset(asset)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	price, err := s.source.Price(callCtx, code)
	if err == nil {
		s.remember(ctx, code, price)
		return price, nil
	}
	if isUnknownAsset(err) {
		return decimal.Zero, err
	}

	s.log.Warn().Err(err).Str("asset", code).Msg("price feed failed, trying last known good")
	return s.fallback(ctx, code, err)
}

// Snapshot implements ports.RateSource. It returns feed prices for all
// listed assets, falling back per asset where the feed came up short.
func (s *RateServiceImpl) Snapshot(ctx context.Context) (map[string]decimal.Decimal, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	table, err := s.source.Snapshot(callCtx)
	if err != nil {
		s.log.Warn().Err(err).Msg("price feed snapshot failed, trying last known good")
		table = nil
	}

	out := make(map[string]decimal.Decimal)
	var lastErr error
	for _, code := range s.registry.Codes() {
		if price, ok := table[code]; ok {
			s.remember(ctx, code, price)
			out[code] = price
			continue
		}
		price, fbErr := s.fallback(ctx, code, err)
		if fbErr != nil {
			lastErr = fbErr
			continue
		}
		out[code] = price
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

// Rate returns the fromAsset -> toAsset exchange rate, rounded to
// RatePrecision. Same-asset pairs are rate 1.
func (s *RateServiceImpl) Rate(ctx context.Context, fromAsset, toAsset string) (decimal.Decimal, error) {
	from := domain.NormalizeAssetCode(fromAsset)
	to := domain.NormalizeAssetCode(toAsset)

	if from == to {
		if _, ok := s.registry.Lookup(from); !ok {
			return decimal.Zero, apperror.ErrUnknownAsset(fromAsset)
		}
		return decimal.NewFromInt(1), nil
	}

	fromPrice, err := s.Price(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toPrice, err := s.Price(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}

	return domain.RoundRate(fromPrice.DivRound(toPrice, domain.RatePrecision+2)), nil
}

func (s *RateServiceImpl) remember(ctx context.Context, code string, price decimal.Decimal) {
	s.mu.Lock()
	s.lastGood[code] = price
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Set(ctx, code, price, s.cacheTTL); err != nil {
			s.log.Warn().Err(err).Str("asset", code).Msg("rate cache write failed")
		}
	}
}

// fallback resolves a price from the in-process table, then the shared
// cache. When both miss the feed error surfaces as RateUnavailable.
func (s *RateServiceImpl) fallback(ctx context.Context, code string, cause error) (decimal.Decimal, error) {
	s.mu.RLock()
	price, ok := s.lastGood[code]
	s.mu.RUnlock()
	if ok {
		return price, nil
	}

	if s.cache != nil {
		price, found, err := s.cache.Get(ctx, code)
		if err != nil {
			s.log.Warn().Err(err).Str("asset", code).Msg("rate cache read failed")
		} else if found {
			return price, nil
		}
	}

	return decimal.Zero, apperror.ErrRateUnavailable(cause)
}

func isUnknownAsset(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == "AST_001"
}
