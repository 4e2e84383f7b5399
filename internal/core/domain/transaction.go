package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of trade that moved balances.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
	TransactionTypeSwap TransactionType = "SWAP"
	TransactionTypeFund TransactionType = "FUND"
)

// TransactionStatus represents the lifecycle state of a transaction.
type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// Transaction is an immutable record of a completed trade. It is created
// by the swap executor and only ever appended to a wallet's history,
// newest first.
type Transaction struct {
	ID            uuid.UUID         `json:"id"`
	WalletAddress string            `json:"wallet_address"`
	Type          TransactionType   `json:"type"`
	FromAsset     string            `json:"from_asset,omitempty"`
	FromAmount    decimal.Decimal   `json:"from_amount"`
	ToAsset       string            `json:"to_asset"`
	ToAmount      decimal.Decimal   `json:"to_amount"`
	Rate          decimal.Decimal   `json:"rate"`
	Fee           decimal.Decimal   `json:"fee"`
	QuoteID       *uuid.UUID        `json:"quote_id,omitempty"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}
