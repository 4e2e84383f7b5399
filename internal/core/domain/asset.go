package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of fraction digits kept on exchange rates.
// Rates carry more precision than amounts so that converting and then
// rounding stays within one minimal unit of the exact product.
const RatePrecision int32 = 12

// Asset is a tradable asset and its amount precision.
type Asset struct {
	Code     string `json:"code"`
	Decimals int32  `json:"decimals"`
}

// RoundAmount rounds an amount to the asset's precision using banker's
// rounding (half to even), so repeated conversions do not drift upward.
func (a Asset) RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.RoundBank(a.Decimals)
}

// RoundRate rounds an exchange rate to RatePrecision.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.RoundBank(RatePrecision)
}

// NormalizeAssetCode canonicalizes user-supplied asset codes: trimmed
// and upper-cased. All lookups and ledger keys use the normalized form.
func NormalizeAssetCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// AssetRegistry is the closed set of assets the gateway trades. Asset
// listing is static per process; there is no runtime mutation.
type AssetRegistry struct {
	assets map[string]Asset
}

// NewAssetRegistry builds a registry from the given assets.
func NewAssetRegistry(assets []Asset) *AssetRegistry {
	m := make(map[string]Asset, len(assets))
	for _, a := range assets {
		a.Code = NormalizeAssetCode(a.Code)
		m[a.Code] = a
	}
	return &AssetRegistry{assets: m}
}

// DefaultAssetRegistry returns the stock listing: SOL, USDC, USDT, all
// carried at six fraction digits.
func DefaultAssetRegistry() *AssetRegistry {
	return NewAssetRegistry([]Asset{
		{Code: "SOL", Decimals: 6},
		{Code: "USDC", Decimals: 6},
		{Code: "USDT", Decimals: 6},
	})
}

// Lookup resolves a (case-insensitive) asset code.
func (r *AssetRegistry) Lookup(code string) (Asset, bool) {
	a, ok := r.assets[NormalizeAssetCode(code)]
	return a, ok
}

// Codes returns all listed asset codes.
func (r *AssetRegistry) Codes() []string {
	codes := make([]string, 0, len(r.assets))
	for code := range r.assets {
		codes = append(codes, code)
	}
	return codes
}
