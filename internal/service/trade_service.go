package service

import (
	"context"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TradeServiceImpl implements ports.TradeService. It owns swap
// execution: expiry check, the atomic ledger move, and best-effort
// archival. Buy and sell are swaps with one leg pinned to the
// configured quote asset.
type TradeServiceImpl struct {
	quotes     ports.QuoteService
	quoteStore ports.QuoteStore
	rates      ports.RateService
	ledger     ports.BalanceLedger
	archive    ports.TransactionArchive // optional
	registry   *domain.AssetRegistry
	quoteAsset string
	log        zerolog.Logger
	now        func() time.Time
}

// NewTradeService creates a TradeServiceImpl. archive may be nil.
func NewTradeService(
	quotes ports.QuoteService,
	quoteStore ports.QuoteStore,
	rates ports.RateService,
	ledger ports.BalanceLedger,
	archive ports.TransactionArchive,
	registry *domain.AssetRegistry,
	quoteAsset string,
	log zerolog.Logger,
) *TradeServiceImpl {
	return &TradeServiceImpl{
		quotes:     quotes,
		quoteStore: quoteStore,
		rates:      rates,
		ledger:     ledger,
		archive:    archive,
		registry:   registry,
		quoteAsset: domain.NormalizeAssetCode(quoteAsset),
		log:        log,
		now:        time.Now,
	}
}

// ExecuteSwap settles a quote against the wallet's balances.
func (s *TradeServiceImpl) ExecuteSwap(ctx context.Context, walletAddress string, quote *domain.Quote) (*domain.Transaction, error) {
	return s.execute(ctx, walletAddress, quote, domain.TransactionTypeSwap)
}

// ExecuteSwapByID looks up a previously issued quote and settles it.
func (s *TradeServiceImpl) ExecuteSwapByID(ctx context.Context, walletAddress string, quoteID uuid.UUID) (*domain.Transaction, error) {
	quote, err := s.quoteStore.Get(ctx, quoteID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if quote == nil {
		return nil, apperror.ErrQuoteNotFound()
	}
	return s.execute(ctx, walletAddress, quote, domain.TransactionTypeSwap)
}

// ExecuteBuy acquires amount of asset, spending the quote asset.
func (s *TradeServiceImpl) ExecuteBuy(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error) {
	quoteAsset, ok := s.registry.Lookup(s.quoteAsset)
	if !ok {
		return nil, apperror.ErrUnknownAsset(s.quoteAsset)
	}
	if _, ok := s.registry.Lookup(asset); !ok {
		return nil, apperror.ErrUnknownAsset(asset)
	}
	if amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	// Price the requested amount in the quote asset, then swap that
	// much into the target.
	rate, err := s.rates.Rate(ctx, asset, s.quoteAsset)
	if err != nil {
		return nil, err
	}
	cost := quoteAsset.RoundAmount(amount.Mul(rate))
	if cost.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	quote, err := s.quotes.GetQuote(ctx, ports.QuoteRequest{
		FromAsset: s.quoteAsset,
		ToAsset:   asset,
		Amount:    cost,
	})
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, walletAddress, quote, domain.TransactionTypeBuy)
}

// ExecuteSell liquidates amount of asset into the quote asset.
func (s *TradeServiceImpl) ExecuteSell(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error) {
	quote, err := s.quotes.GetQuote(ctx, ports.QuoteRequest{
		FromAsset: asset,
		ToAsset:   s.quoteAsset,
		Amount:    amount,
	})
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, walletAddress, quote, domain.TransactionTypeSell)
}

// Fund credits amount of asset to the wallet out of thin air. Demo
// deployments use it to seed balances.
func (s *TradeServiceImpl) Fund(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error) {
	assetInfo, ok := s.registry.Lookup(asset)
	if !ok {
		return nil, apperror.ErrUnknownAsset(asset)
	}
	amount = assetInfo.RoundAmount(amount)
	if amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletAddress: walletAddress,
		Type:          domain.TransactionTypeFund,
		ToAsset:       assetInfo.Code,
		ToAmount:      amount,
		Status:        domain.TransactionStatusConfirmed,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.ledger.Credit(ctx, walletAddress, assetInfo.Code, amount, txn); err != nil {
		return nil, err
	}
	s.archiveTxn(ctx, txn)

	s.log.Info().
		Str("wallet", walletAddress).
		Str("asset", assetInfo.Code).
		Str("amount", amount.String()).
		Msg("wallet funded")

	return txn, nil
}

// Balances returns the wallet's current holdings.
func (s *TradeServiceImpl) Balances(ctx context.Context, walletAddress string) (map[string]decimal.Decimal, error) {
	return s.ledger.Balances(ctx, walletAddress)
}

// History returns the wallet's transactions, newest first.
func (s *TradeServiceImpl) History(ctx context.Context, walletAddress string) ([]domain.Transaction, error) {
	return s.ledger.History(ctx, walletAddress)
}

// execute is the single settlement path: expiry check, atomic ledger
// move, then best-effort archival.
func (s *TradeServiceImpl) execute(ctx context.Context, walletAddress string, quote *domain.Quote, txnType domain.TransactionType) (*domain.Transaction, error) {
	if quote.Expired(s.now()) {
		return nil, apperror.ErrQuoteExpired()
	}

	quoteID := quote.ID
	txn := &domain.Transaction{
		ID:            uuid.New(),
		WalletAddress: walletAddress,
		Type:          txnType,
		FromAsset:     quote.FromAsset,
		FromAmount:    quote.FromAmount,
		ToAsset:       quote.ToAsset,
		ToAmount:      quote.ToAmount,
		Rate:          quote.Rate,
		Fee:           quote.Fee,
		QuoteID:       &quoteID,
		Status:        domain.TransactionStatusConfirmed,
		CreatedAt:     s.now().UTC(),
	}

	err := s.ledger.DebitCredit(ctx, walletAddress,
		quote.FromAsset, quote.FromAmount,
		quote.ToAsset, quote.ToAmount, txn)
	if err != nil {
		return nil, err
	}
	s.archiveTxn(ctx, txn)

	s.log.Info().
		Str("wallet", walletAddress).
		Str("type", string(txnType)).
		Str("pair", quote.FromAsset+"/"+quote.ToAsset).
		Str("from_amount", quote.FromAmount.String()).
		Str("to_amount", quote.ToAmount.String()).
		Msg("trade executed")

	return txn, nil
}

// archiveTxn mirrors the record to the external archive. Failures are
// logged, never propagated; the ledger already holds the truth.
func (s *TradeServiceImpl) archiveTxn(ctx context.Context, txn *domain.Transaction) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Append(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txn.ID.String()).Msg("transaction archival failed")
	}
}
