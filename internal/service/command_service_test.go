package service

import (
	"context"
	"testing"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/internal/core/ports/mocks"
	"trading-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type commandTestDeps struct {
	svc    *CommandServiceImpl
	quotes *mocks.MockQuoteService
	trades *mocks.MockTradeService
	rates  *mocks.MockRateService
	ctrl   *gomock.Controller
}

func setupCommandService(t *testing.T) *commandTestDeps {
	ctrl := gomock.NewController(t)
	d := &commandTestDeps{
		quotes: mocks.NewMockQuoteService(ctrl),
		trades: mocks.NewMockTradeService(ctrl),
		rates:  mocks.NewMockRateService(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewCommandService(d.quotes, d.trades, d.rates, "USDC", zerolog.Nop())
	return d
}

func TestCommandService_Interpret(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	tests := []struct {
		name    string
		input   string
		kind    domain.CommandKind
		amount  string
		asset   string
		toAsset string
	}{
		{"buy simple", "buy 1 SOL", domain.CommandBuy, "1", "SOL", ""},
		{"buy lowercase decimal", "buy 0.5 sol", domain.CommandBuy, "0.5", "SOL", ""},
		{"buy padded", "  Buy 2 USDT.  ", domain.CommandBuy, "2", "USDT", ""},
		{"sell", "sell 3 sol", domain.CommandSell, "3", "SOL", ""},
		{"swap to", "swap 2 SOL to USDC", domain.CommandSwap, "2", "SOL", "USDC"},
		{"swap for", "swap 10 usdc for sol", domain.CommandSwap, "10", "USDC", "SOL"},
		{"swap into", "swap 1.25 usdt into usdc", domain.CommandSwap, "1.25", "USDT", "USDC"},
		{"price of", "price of SOL", domain.CommandPrice, "", "SOL", ""},
		{"whats the price", "what's the price of sol?", domain.CommandPrice, "", "SOL", ""},
		{"ticker form", "sol price", domain.CommandPrice, "", "SOL", ""},
		{"balance", "balance", domain.CommandBalance, "", "", ""},
		{"show my balances", "show my balances", domain.CommandBalance, "", "", ""},
		{"whats my balance", "what's my balance?", domain.CommandBalance, "", "", ""},
		{"history", "history", domain.CommandHistory, "", "", ""},
		{"transactions", "show my transactions", domain.CommandHistory, "", "", ""},
		{"recent activity", "recent activity", domain.CommandHistory, "", "", ""},
		{"help", "help", domain.CommandHelp, "", "", ""},
		{"what can you do", "what can you do?", domain.CommandHelp, "", "", ""},
		{"gibberish", "make me rich", domain.CommandUnknown, "", "", ""},
		{"missing amount", "buy SOL", domain.CommandUnknown, "", "", ""},
		{"empty", "", domain.CommandUnknown, "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := d.svc.Interpret(tt.input)
			assert.Equal(t, tt.kind, cmd.Kind)
			if tt.amount != "" {
				assert.True(t, decimal.RequireFromString(tt.amount).Equal(cmd.Amount))
			}
			assert.Equal(t, tt.asset, cmd.Asset)
			assert.Equal(t, tt.toAsset, cmd.ToAsset)
			assert.Equal(t, tt.input, cmd.RawInput)
		})
	}
}

// A message that parses as a swap must not be claimed by the shorter
// buy/sell forms.
func TestCommandService_Interpret_SwapWinsOverBuy(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	cmd := d.svc.Interpret("swap 2 SOL for USDC")
	assert.Equal(t, domain.CommandSwap, cmd.Kind)
	assert.Equal(t, "SOL", cmd.Asset)
	assert.Equal(t, "USDC", cmd.ToAsset)
}

func TestCommandService_Dispatch_Buy(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txn := &domain.Transaction{
		ID:         uuid.New(),
		Type:       domain.TransactionTypeBuy,
		FromAsset:  "USDC",
		FromAmount: decimal.RequireFromString("103.42"),
		ToAsset:    "SOL",
		ToAmount:   decimal.NewFromInt(1),
	}
	d.trades.EXPECT().ExecuteBuy(ctx, "wallet-1", "SOL", decimal.NewFromInt(1)).Return(txn, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{
		Kind:   domain.CommandBuy,
		Amount: decimal.NewFromInt(1),
		Asset:  "SOL",
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Bought 1 SOL for 103.42 USDC", result.Message)
	assert.Equal(t, txn, result.Data)
}

func TestCommandService_Dispatch_Sell(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txn := &domain.Transaction{
		Type:       domain.TransactionTypeSell,
		FromAsset:  "SOL",
		FromAmount: decimal.NewFromInt(1),
		ToAsset:    "USDC",
		ToAmount:   decimal.RequireFromString("103.42"),
	}
	d.trades.EXPECT().ExecuteSell(ctx, "wallet-1", "SOL", decimal.NewFromInt(1)).Return(txn, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{
		Kind:   domain.CommandSell,
		Amount: decimal.NewFromInt(1),
		Asset:  "SOL",
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Sold 1 SOL for 103.42 USDC", result.Message)
}

func TestCommandService_Dispatch_Swap(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	now := time.Now().UTC()
	quote := &domain.Quote{
		ID:         uuid.New(),
		FromAsset:  "SOL",
		ToAsset:    "USDC",
		FromAmount: decimal.NewFromInt(2),
		ToAmount:   decimal.RequireFromString("206.84"),
		IssuedAt:   now,
		ExpiresAt:  now.Add(30 * time.Second),
	}
	txn := &domain.Transaction{
		Type:       domain.TransactionTypeSwap,
		FromAsset:  "SOL",
		FromAmount: quote.FromAmount,
		ToAsset:    "USDC",
		ToAmount:   quote.ToAmount,
	}
	d.quotes.EXPECT().
		GetQuote(ctx, ports.QuoteRequest{FromAsset: "SOL", ToAsset: "USDC", Amount: decimal.NewFromInt(2)}).
		Return(quote, nil)
	d.trades.EXPECT().ExecuteSwap(ctx, "wallet-1", quote).Return(txn, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{
		Kind:    domain.CommandSwap,
		Amount:  decimal.NewFromInt(2),
		Asset:   "SOL",
		ToAsset: "USDC",
	})
	assert.True(t, result.Success)
	assert.Equal(t, "Swapped 2 SOL for 206.84 USDC", result.Message)
}

func TestCommandService_Dispatch_Price(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.rates.EXPECT().Rate(ctx, "SOL", "USDC").Return(decimal.RequireFromString("103.42"), nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{Kind: domain.CommandPrice, Asset: "SOL"})
	assert.True(t, result.Success)
	assert.Equal(t, "1 SOL = 103.42 USDC", result.Message)
}

func TestCommandService_Dispatch_Balance(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.trades.EXPECT().Balances(ctx, "wallet-1").Return(map[string]decimal.Decimal{
		"USDC": decimal.NewFromInt(500),
		"SOL":  decimal.RequireFromString("1.5"),
	}, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{Kind: domain.CommandBalance})
	assert.True(t, result.Success)
	assert.Equal(t, "Your balances: 1.5 SOL, 500 USDC", result.Message)
}

func TestCommandService_Dispatch_BalanceEmpty(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.trades.EXPECT().Balances(ctx, "wallet-1").Return(map[string]decimal.Decimal{}, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{Kind: domain.CommandBalance})
	assert.True(t, result.Success)
	assert.Equal(t, "Your wallet is empty", result.Message)
}

func TestCommandService_Dispatch_HistoryTruncated(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	history := make([]domain.Transaction, 8)
	for i := range history {
		history[i] = domain.Transaction{ID: uuid.New()}
	}
	d.trades.EXPECT().History(ctx, "wallet-1").Return(history, nil)

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{Kind: domain.CommandHistory})
	assert.True(t, result.Success)
	shown, ok := result.Data.([]domain.Transaction)
	require.True(t, ok)
	assert.Len(t, shown, historyDisplayLimit)
	assert.Equal(t, history[0].ID, shown[0].ID)
}

func TestCommandService_Dispatch_TradeFailureSurfacesInResult(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.trades.EXPECT().
		ExecuteBuy(ctx, "wallet-1", "SOL", decimal.NewFromInt(1)).
		Return(nil, apperror.ErrInsufficientBalance("USDC"))

	result := d.svc.Dispatch(ctx, "wallet-1", domain.Command{
		Kind:   domain.CommandBuy,
		Amount: decimal.NewFromInt(1),
		Asset:  "SOL",
	})
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient USDC balance", result.Message)
}

func TestCommandService_Dispatch_Unknown(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	result := d.svc.Dispatch(context.Background(), "wallet-1", domain.Command{Kind: domain.CommandUnknown})
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestCommandService_Dispatch_Help(t *testing.T) {
	d := setupCommandService(t)
	defer d.ctrl.Finish()

	result := d.svc.Dispatch(context.Background(), "wallet-1", domain.Command{Kind: domain.CommandHelp})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "buy 1 SOL")
}
