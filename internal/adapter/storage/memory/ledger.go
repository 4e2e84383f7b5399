// Package memory provides the in-process Balance Ledger. Durability is
// out of scope; the ledger's job is correct concurrent balance
// accounting within a single process.
package memory

import (
	"context"
	"sync"

	"trading-gateway/internal/core/domain"
	"trading-gateway/pkg/apperror"

	"github.com/shopspring/decimal"
)

// Ledger implements ports.BalanceLedger. Balances and history live in a
// per-wallet entry guarded by its own mutex, so mutations on one wallet
// never block another and a debit/credit pair is atomic per wallet.
type Ledger struct {
	mu      sync.RWMutex
	wallets map[string]*walletEntry
}

type walletEntry struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	history  []domain.Transaction // newest first
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{wallets: make(map[string]*walletEntry)}
}

// entry returns the wallet's entry, creating it on first use.
func (l *Ledger) entry(walletAddress string) *walletEntry {
	l.mu.RLock()
	e, ok := l.wallets[walletAddress]
	l.mu.RUnlock()
	if ok {
		return e
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok = l.wallets[walletAddress]; ok {
		return e
	}
	e = &walletEntry{balances: make(map[string]decimal.Decimal)}
	l.wallets[walletAddress] = e
	return e
}

// Balances returns a snapshot copy of a wallet's holdings.
func (l *Ledger) Balances(_ context.Context, walletAddress string) (map[string]decimal.Decimal, error) {
	e := l.entry(walletAddress)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string]decimal.Decimal, len(e.balances))
	for asset, amount := range e.balances {
		out[asset] = amount
	}
	return out, nil
}

// Credit adds amount of asset to the wallet and appends txn.
func (l *Ledger) Credit(_ context.Context, walletAddress, asset string, amount decimal.Decimal, txn *domain.Transaction) error {
	if amount.Sign() <= 0 {
		return apperror.ErrInvalidAmount()
	}
	asset = domain.NormalizeAssetCode(asset)

	e := l.entry(walletAddress)
	e.mu.Lock()
	defer e.mu.Unlock()

	e.balances[asset] = e.balances[asset].Add(amount)
	if txn != nil {
		e.prepend(*txn)
	}
	return nil
}

// DebitCredit atomically debits one asset and credits another on the
// same wallet, then appends txn. Fails with InsufficientBalance before
// any mutation if the debit would drive the balance below zero.
func (l *Ledger) DebitCredit(_ context.Context, walletAddress string,
	debitAsset string, debitAmount decimal.Decimal,
	creditAsset string, creditAmount decimal.Decimal,
	txn *domain.Transaction) error {

	debitAsset = domain.NormalizeAssetCode(debitAsset)
	creditAsset = domain.NormalizeAssetCode(creditAsset)

	e := l.entry(walletAddress)
	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.balances[debitAsset]
	if current.LessThan(debitAmount) {
		return apperror.ErrInsufficientBalance(debitAsset)
	}

	e.balances[debitAsset] = current.Sub(debitAmount)
	e.balances[creditAsset] = e.balances[creditAsset].Add(creditAmount)
	if txn != nil {
		e.prepend(*txn)
	}
	return nil
}

// History returns the wallet's transactions, newest first.
func (l *Ledger) History(_ context.Context, walletAddress string) ([]domain.Transaction, error) {
	e := l.entry(walletAddress)
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Transaction, len(e.history))
	copy(out, e.history)
	return out, nil
}

func (e *walletEntry) prepend(txn domain.Transaction) {
	e.history = append(e.history, domain.Transaction{})
	copy(e.history[1:], e.history)
	e.history[0] = txn
}
