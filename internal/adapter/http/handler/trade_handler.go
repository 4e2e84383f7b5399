package handler

import (
	"context"

	"trading-gateway/internal/adapter/http/dto"
	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"
	"trading-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeHandler handles quote and trade endpoints.
type TradeHandler struct {
	quoteSvc ports.QuoteService
	tradeSvc ports.TradeService
}

// NewTradeHandler creates a new TradeHandler.
func NewTradeHandler(quoteSvc ports.QuoteService, tradeSvc ports.TradeService) *TradeHandler {
	return &TradeHandler{quoteSvc: quoteSvc, tradeSvc: tradeSvc}
}

// GetQuote handles POST /api/v1/trade/quote.
func (h *TradeHandler) GetQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	quoteReq, err := buildQuoteRequest(req.FromAsset, req.ToAsset, req.Amount, req.Slippage)
	if err != nil {
		response.Error(c, err)
		return
	}

	quote, err := h.quoteSvc.GetQuote(c.Request.Context(), quoteReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toQuoteResponse(quote))
}

// ExecuteSwap handles POST /api/v1/trade/swap. The body either names a
// previously issued quote by ID or carries the quote fields inline.
func (h *TradeHandler) ExecuteSwap(c *gin.Context) {
	var req dto.SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if req.QuoteID != nil {
		quoteID, err := uuid.Parse(*req.QuoteID)
		if err != nil {
			response.Error(c, apperror.Validation("quote_id must be a valid UUID"))
			return
		}
		txn, err := h.tradeSvc.ExecuteSwapByID(c.Request.Context(), req.WalletAddress, quoteID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, toTransactionResponse(txn))
		return
	}

	if req.FromAsset == "" || req.ToAsset == "" || req.Amount == "" {
		response.Error(c, apperror.Validation("either quote_id or from_asset, to_asset, and amount are required"))
		return
	}

	quoteReq, err := buildQuoteRequest(req.FromAsset, req.ToAsset, req.Amount, req.Slippage)
	if err != nil {
		response.Error(c, err)
		return
	}
	quote, err := h.quoteSvc.GetQuote(c.Request.Context(), quoteReq)
	if err != nil {
		response.Error(c, err)
		return
	}
	txn, err := h.tradeSvc.ExecuteSwap(c.Request.Context(), req.WalletAddress, quote)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// ExecuteBuy handles POST /api/v1/trade/buy.
func (h *TradeHandler) ExecuteBuy(c *gin.Context) {
	h.executeTrade(c, h.tradeSvc.ExecuteBuy)
}

// ExecuteSell handles POST /api/v1/trade/sell.
func (h *TradeHandler) ExecuteSell(c *gin.Context) {
	h.executeTrade(c, h.tradeSvc.ExecuteSell)
}

func (h *TradeHandler) executeTrade(c *gin.Context, exec func(ctx context.Context, walletAddress, asset string, amount decimal.Decimal) (*domain.Transaction, error)) {
	var req dto.TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := exec(c.Request.Context(), req.WalletAddress, req.Asset, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}

// parseAmount parses a positive decimal amount string.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("amount must be a decimal number")
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, apperror.ErrInvalidAmount()
	}
	return amount, nil
}

// buildQuoteRequest assembles a service-level quote request from wire
// fields. Slippage arrives as a percentage string (0.5 means 0.5%) and
// is carried internally as a fraction.
func buildQuoteRequest(fromAsset, toAsset, rawAmount string, rawSlippage *string) (ports.QuoteRequest, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return ports.QuoteRequest{}, err
	}

	req := ports.QuoteRequest{
		FromAsset: fromAsset,
		ToAsset:   toAsset,
		Amount:    amount,
	}
	if rawSlippage != nil {
		percent, err := decimal.NewFromString(*rawSlippage)
		if err != nil {
			return ports.QuoteRequest{}, apperror.ErrInvalidSlippage()
		}
		fraction := percent.Div(decimal.NewFromInt(100))
		req.SlippageTolerance = &fraction
	}
	return req, nil
}
