package service

import (
	"context"
	"fmt"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const feeBpsDenominator = 10_000

// QuoteServiceImpl implements ports.QuoteService. A quote is a pure
// computation over the current rate, the fee schedule, and the caller's
// slippage tolerance; issuing one mutates nothing but the quote store.
type QuoteServiceImpl struct {
	rates           ports.RateService
	store           ports.QuoteStore
	registry        *domain.AssetRegistry
	feeRateBps      int64
	quoteTTL        time.Duration
	defaultSlippage decimal.Decimal // fraction
	log             zerolog.Logger
	now             func() time.Time
}

// NewQuoteService creates a QuoteServiceImpl. defaultSlippageBps applies
// when a request leaves SlippageTolerance unset.
func NewQuoteService(
	rates ports.RateService,
	store ports.QuoteStore,
	registry *domain.AssetRegistry,
	feeRateBps int64,
	quoteTTL time.Duration,
	defaultSlippageBps int64,
	log zerolog.Logger,
) *QuoteServiceImpl {
	return &QuoteServiceImpl{
		rates:           rates,
		store:           store,
		registry:        registry,
		feeRateBps:      feeRateBps,
		quoteTTL:        quoteTTL,
		defaultSlippage: decimal.New(defaultSlippageBps, -4),
		log:             log,
		now:             time.Now,
	}
}

// GetQuote validates the request, prices it, and stores the resulting
// quote for its validity window.
func (s *QuoteServiceImpl) GetQuote(ctx context.Context, req ports.QuoteRequest) (*domain.Quote, error) {
	fromAsset, ok := s.registry.Lookup(req.FromAsset)
	if !ok {
		return nil, apperror.ErrUnknownAsset(req.FromAsset)
	}
	toAsset, ok := s.registry.Lookup(req.ToAsset)
	if !ok {
		return nil, apperror.ErrUnknownAsset(req.ToAsset)
	}
	if req.Amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	slippage := s.defaultSlippage
	if req.SlippageTolerance != nil {
		slippage = *req.SlippageTolerance
	}
	if slippage.IsNegative() || slippage.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, apperror.ErrInvalidSlippage()
	}

	rate, err := s.rates.Rate(ctx, fromAsset.Code, toAsset.Code)
	if err != nil {
		return nil, err
	}

	fromAmount := fromAsset.RoundAmount(req.Amount)
	toAmount := toAsset.RoundAmount(fromAmount.Mul(rate))
	fee := fromAsset.RoundAmount(fromAmount.Mul(decimal.New(s.feeRateBps, -4)))
	minimumReceived := toAsset.RoundAmount(toAmount.Mul(decimal.NewFromInt(1).Sub(slippage)))

	issuedAt := s.now().UTC()
	quote := &domain.Quote{
		ID:                uuid.New(),
		FromAsset:         fromAsset.Code,
		ToAsset:           toAsset.Code,
		FromAmount:        fromAmount,
		ToAmount:          toAmount,
		MinimumReceived:   minimumReceived,
		Rate:              rate,
		FeeRateBps:        s.feeRateBps,
		Fee:               fee,
		SlippageTolerance: slippage,
		IssuedAt:          issuedAt,
		ExpiresAt:         issuedAt.Add(s.quoteTTL),
	}

	if err := s.store.Save(ctx, quote, s.quoteTTL); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("saving quote: %w", err))
	}

	s.log.Debug().
		Str("quote_id", quote.ID.String()).
		Str("pair", fromAsset.Code+"/"+toAsset.Code).
		Str("rate", rate.String()).
		Msg("quote issued")

	return quote, nil
}
