package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is a priced offer to convert FromAmount of FromAsset into
// ToAmount of ToAsset, valid until ExpiresAt. Quotes are immutable
// after issuance; a re-quote is a new quote with a new ID.
type Quote struct {
	ID                uuid.UUID       `json:"id"`
	FromAsset         string          `json:"from_asset"`
	ToAsset           string          `json:"to_asset"`
	FromAmount        decimal.Decimal `json:"from_amount"`
	ToAmount          decimal.Decimal `json:"to_amount"`
	MinimumReceived   decimal.Decimal `json:"minimum_received"`
	Rate              decimal.Decimal `json:"rate"`
	FeeRateBps        int64           `json:"fee_rate_bps"`
	Fee               decimal.Decimal `json:"fee"`
	SlippageTolerance decimal.Decimal `json:"slippage_tolerance"`
	IssuedAt          time.Time       `json:"issued_at"`
	ExpiresAt         time.Time       `json:"expires_at"`
}

// Expired reports whether the quote is no longer executable at now.
// The expiry instant itself is still valid.
func (q *Quote) Expired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// TTL returns the remaining validity at now, floored at zero.
func (q *Quote) TTL(now time.Time) time.Duration {
	ttl := q.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}
