package handler

import (
	"time"

	"trading-gateway/internal/adapter/http/dto"
	"trading-gateway/internal/core/domain"

	"github.com/shopspring/decimal"
)

func toQuoteResponse(q *domain.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		ID:              q.ID.String(),
		FromAsset:       q.FromAsset,
		ToAsset:         q.ToAsset,
		FromAmount:      q.FromAmount.String(),
		ToAmount:        q.ToAmount.String(),
		MinimumReceived: q.MinimumReceived.String(),
		Rate:            q.Rate.String(),
		Fee:             q.Fee.String(),
		FeeRateBps:      q.FeeRateBps,
		Slippage:        q.SlippageTolerance.Mul(decimal.NewFromInt(100)).String() + "%",
		IssuedAt:        q.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt:       q.ExpiresAt.UTC().Format(time.RFC3339),
		ExpiresIn:       int64(q.TTL(time.Now()).Seconds()),
	}
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            t.ID.String(),
		WalletAddress: t.WalletAddress,
		Type:          string(t.Type),
		FromAsset:     t.FromAsset,
		ToAsset:       t.ToAsset,
		ToAmount:      t.ToAmount.String(),
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if !t.FromAmount.IsZero() {
		resp.FromAmount = t.FromAmount.String()
	}
	if !t.Rate.IsZero() {
		resp.Rate = t.Rate.String()
	}
	if !t.Fee.IsZero() {
		resp.Fee = t.Fee.String()
	}
	if t.QuoteID != nil {
		s := t.QuoteID.String()
		resp.QuoteID = &s
	}
	return resp
}

func toBalancesMap(balances map[string]decimal.Decimal) map[string]string {
	out := make(map[string]string, len(balances))
	for asset, amount := range balances {
		out[asset] = amount.String()
	}
	return out
}
