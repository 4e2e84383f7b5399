package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAssetRegistry_Lookup(t *testing.T) {
	r := DefaultAssetRegistry()

	tests := []struct {
		name string
		code string
		want bool
	}{
		{"known upper", "SOL", true},
		{"known lower", "usdc", true},
		{"known padded", "  usdt ", true},
		{"unknown", "DOGE", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := r.Lookup(tt.code)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestAsset_RoundAmount_HalfEven(t *testing.T) {
	a := Asset{Code: "USDC", Decimals: 2}

	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1"},     // rounds to even: 1.00
		{"1.015", "1.02"},  // rounds to even: 1.02
		{"1.2349", "1.23"}, // plain round down
		{"1.2351", "1.24"}, // plain round up
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := a.RoundAmount(decimal.RequireFromString(tt.in))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestQuote_Expired(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q := &Quote{IssuedAt: issued, ExpiresAt: issued.Add(30 * time.Second)}

	assert.False(t, q.Expired(issued))
	assert.False(t, q.Expired(issued.Add(30*time.Second))) // boundary is inclusive
	assert.True(t, q.Expired(issued.Add(31*time.Second)))
}

func TestQuote_TTL(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	q := &Quote{IssuedAt: issued, ExpiresAt: issued.Add(30 * time.Second)}

	assert.Equal(t, 20*time.Second, q.TTL(issued.Add(10*time.Second)))
	assert.Equal(t, time.Duration(0), q.TTL(issued.Add(time.Minute)))
}

func TestWallet_Balance(t *testing.T) {
	w := &Wallet{
		Address: "wallet-1",
		Balances: map[string]decimal.Decimal{
			"SOL": decimal.RequireFromString("12.45"),
		},
	}

	assert.True(t, decimal.RequireFromString("12.45").Equal(w.Balance("sol")))
	assert.True(t, decimal.Zero.Equal(w.Balance("USDC")))

	empty := &Wallet{Address: "wallet-2"}
	assert.True(t, decimal.Zero.Equal(empty.Balance("SOL")))
}
