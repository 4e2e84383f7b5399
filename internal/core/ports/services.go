package ports

import (
	"context"

	"trading-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// QuoteRequest holds validated input for quote computation.
type QuoteRequest struct {
	FromAsset string
	ToAsset   string
	Amount    decimal.Decimal
	// SlippageTolerance is a fraction in [0, 1). nil means the caller
	// left it unset and the configured default applies; an explicit 0
	// is honored as zero tolerance.
	SlippageTolerance *decimal.Decimal
}

// QuoteService is the quote engine: a pure computation over the rate
// source and its inputs. It owns no persistent state.
type QuoteService interface {
	GetQuote(ctx context.Context, req QuoteRequest) (*domain.Quote, error)
}

// TradeService is the swap executor plus the wallet-facing read side.
// Buy and sell are swaps with one leg fixed to the configured quote
// asset.
type TradeService interface {
	ExecuteSwap(ctx context.Context, walletAddress string, quote *domain.Quote) (*domain.Transaction, error)
	ExecuteSwapByID(ctx context.Context, walletAddress string, quoteID uuid.UUID) (*domain.Transaction, error)
	ExecuteBuy(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error)
	ExecuteSell(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error)
	Fund(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error)
	Balances(ctx context.Context, walletAddress string) (map[string]decimal.Decimal, error)
	History(ctx context.Context, walletAddress string) ([]domain.Transaction, error)
}

// CommandService parses free-form text into a Command and dispatches it
// against the trading services. Dispatch never propagates an error past
// its boundary; failures surface inside the CommandResult.
type CommandService interface {
	Interpret(rawText string) domain.Command
	Dispatch(ctx context.Context, walletAddress string, cmd domain.Command) domain.CommandResult
}
