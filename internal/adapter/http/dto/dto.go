package dto

// QuoteRequest is the request body for quote issuance.
type QuoteRequest struct {
	FromAsset string `json:"from_asset" binding:"required,asset"`
	ToAsset   string `json:"to_asset" binding:"required,asset"`
	Amount    string `json:"amount" binding:"required"`
	// Slippage is a percentage: 0.5 means 0.5%.
	Slippage *string `json:"slippage,omitempty"`
}

// SwapRequest is the request body for swap execution. Either QuoteID
// references a previously issued quote, or the quote fields are given
// inline for a quote-and-execute in one call.
type SwapRequest struct {
	WalletAddress string  `json:"wallet_address" binding:"required,wallet_addr"`
	QuoteID       *string `json:"quote_id,omitempty"`
	FromAsset     string  `json:"from_asset,omitempty" binding:"omitempty,asset"`
	ToAsset       string  `json:"to_asset,omitempty" binding:"omitempty,asset"`
	Amount        string  `json:"amount,omitempty"`
	Slippage      *string `json:"slippage,omitempty"`
}

// TradeRequest is the request body for buy and sell.
type TradeRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,wallet_addr"`
	Asset         string `json:"asset" binding:"required,asset"`
	Amount        string `json:"amount" binding:"required"`
}

// FundRequest is the request body for wallet funding.
type FundRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,wallet_addr"`
	Asset         string `json:"asset" binding:"required,asset"`
	Amount        string `json:"amount" binding:"required"`
}

// CommandRequest is the request body for free-form text commands.
type CommandRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,wallet_addr"`
	Text          string `json:"text" binding:"required,max=280"`
}

// QuoteResponse is the response body for an issued quote.
type QuoteResponse struct {
	ID              string `json:"id"`
	FromAsset       string `json:"from_asset"`
	ToAsset         string `json:"to_asset"`
	FromAmount      string `json:"from_amount"`
	ToAmount        string `json:"to_amount"`
	MinimumReceived string `json:"minimum_received"`
	Rate            string `json:"rate"`
	Fee             string `json:"fee"`
	FeeRateBps      int64  `json:"fee_rate_bps"`
	Slippage        string `json:"slippage"`
	IssuedAt        string `json:"issued_at"`
	ExpiresAt       string `json:"expires_at"`
	ExpiresIn       int64  `json:"expires_in"` // seconds
}

// TransactionResponse is the response body for executed trades.
type TransactionResponse struct {
	ID            string  `json:"id"`
	WalletAddress string  `json:"wallet_address"`
	Type          string  `json:"type"`
	FromAsset     string  `json:"from_asset,omitempty"`
	FromAmount    string  `json:"from_amount,omitempty"`
	ToAsset       string  `json:"to_asset"`
	ToAmount      string  `json:"to_amount"`
	Rate          string  `json:"rate,omitempty"`
	Fee           string  `json:"fee,omitempty"`
	QuoteID       *string `json:"quote_id,omitempty"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}

// BalanceResponse is the response for a wallet balance query.
type BalanceResponse struct {
	WalletAddress string            `json:"wallet_address"`
	Balances      map[string]string `json:"balances"`
}

// HistoryResponse wraps a wallet's transaction history.
type HistoryResponse struct {
	WalletAddress string                `json:"wallet_address"`
	Items         []TransactionResponse `json:"items"`
	Total         int                   `json:"total"`
}

// RatesResponse is the response for the full price table.
type RatesResponse struct {
	QuoteAsset string            `json:"quote_asset"`
	Prices     map[string]string `json:"prices"`
}

// TickerResponse is the response for a single pair rate.
type TickerResponse struct {
	FromAsset string `json:"from_asset"`
	ToAsset   string `json:"to_asset"`
	Rate      string `json:"rate"`
}

// CommandResponse is the response for an interpreted command.
type CommandResponse struct {
	Success bool        `json:"success"`
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
