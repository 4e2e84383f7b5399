package domain

import (
	"github.com/shopspring/decimal"
)

// Wallet is an opaque balance-holding identity keyed by an external
// address string. Issuance and verification of addresses are out of
// scope; the ledger treats the address as the sole credential.
type Wallet struct {
	Address  string                     `json:"address"`
	Balances map[string]decimal.Decimal `json:"balances"`
}

// Balance returns the wallet's holding of asset, zero if absent.
func (w *Wallet) Balance(asset string) decimal.Decimal {
	if w.Balances == nil {
		return decimal.Zero
	}
	if v, ok := w.Balances[NormalizeAssetCode(asset)]; ok {
		return v
	}
	return decimal.Zero
}
