package postgres

import (
	"context"
	"fmt"

	"trading-gateway/internal/core/domain"
)

// TransactionArchive implements ports.TransactionArchive. It is an
// append-only mirror of the in-memory ledger's history; the ledger
// remains the source of truth for balances.
type TransactionArchive struct {
	pool Pool
}

// NewTransactionArchive creates a new TransactionArchive.
func NewTransactionArchive(pool Pool) *TransactionArchive {
	return &TransactionArchive{pool: pool}
}

// Append inserts an executed trade.
func (a *TransactionArchive) Append(ctx context.Context, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, wallet_address, transaction_type, from_asset, from_amount,
		to_asset, to_amount, rate, fee, quote_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := a.pool.Exec(ctx, query,
		t.ID, t.WalletAddress, t.Type, t.FromAsset, t.FromAmount,
		t.ToAsset, t.ToAmount, t.Rate, t.Fee, t.QuoteID,
		t.Status, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByWallet fetches a wallet's trades, newest first. limit <= 0
// means no limit.
func (a *TransactionArchive) ListByWallet(ctx context.Context, walletAddress string, limit int) ([]domain.Transaction, error) {
	query := `SELECT id, wallet_address, transaction_type, from_asset, from_amount,
		to_asset, to_amount, rate, fee, quote_id, status, created_at
		FROM transactions WHERE wallet_address = $1 ORDER BY created_at DESC`
	args := []any{walletAddress}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := a.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.WalletAddress, &t.Type, &t.FromAsset, &t.FromAmount,
			&t.ToAsset, &t.ToAmount, &t.Rate, &t.Fee, &t.QuoteID,
			&t.Status, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
