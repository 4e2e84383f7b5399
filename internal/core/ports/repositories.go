package ports

import (
	"context"
	"time"

	"trading-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceLedger owns all wallet balances and transaction history. It is
// the only component that mutates balances. One instance per process,
// injected into services; there is no implicit global state.
type BalanceLedger interface {
	// Balances returns a snapshot copy of a wallet's holdings. Unknown
	// wallets yield an empty map.
	Balances(ctx context.Context, walletAddress string) (map[string]decimal.Decimal, error)
	// Credit adds amount of asset to the wallet and appends txn to its
	// history in the same critical section.
	Credit(ctx context.Context, walletAddress, asset string, amount decimal.Decimal, txn *domain.Transaction) error
	// DebitCredit atomically debits debitAmount of debitAsset and credits
	// creditAmount of creditAsset on the same wallet, then appends txn.
	// It fails with InsufficientBalance if the debit would drive the
	// balance below zero; no partial mutation is visible to other callers.
	DebitCredit(ctx context.Context, walletAddress string,
		debitAsset string, debitAmount decimal.Decimal,
		creditAsset string, creditAmount decimal.Decimal,
		txn *domain.Transaction) error
	// History returns the wallet's transactions, newest first.
	History(ctx context.Context, walletAddress string) ([]domain.Transaction, error)
}

// QuoteStore holds issued quotes until they expire so a swap can execute
// a previously issued quote by ID.
type QuoteStore interface {
	// Save stores the quote for ttl. Quotes are never overwritten in
	// place; IDs are unique per issuance.
	Save(ctx context.Context, quote *domain.Quote, ttl time.Duration) error
	// Get returns the stored quote, or nil if absent or already evicted.
	Get(ctx context.Context, id uuid.UUID) (*domain.Quote, error)
}

// TransactionArchive is an optional append-only record of executed
// trades kept outside the process (Postgres). Archival is best-effort
// and never fails a trade.
type TransactionArchive interface {
	Append(ctx context.Context, txn *domain.Transaction) error
	ListByWallet(ctx context.Context, walletAddress string, limit int) ([]domain.Transaction, error)
}
