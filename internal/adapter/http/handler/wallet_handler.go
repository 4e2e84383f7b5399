package handler

import (
	"trading-gateway/internal/adapter/http/dto"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"
	"trading-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet-facing endpoints.
type WalletHandler struct {
	tradeSvc ports.TradeService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(tradeSvc ports.TradeService) *WalletHandler {
	return &WalletHandler{tradeSvc: tradeSvc}
}

// GetBalance handles GET /api/v1/wallet/:address/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	address := c.Param("address")

	balances, err := h.tradeSvc.Balances(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		WalletAddress: address,
		Balances:      toBalancesMap(balances),
	})
}

// GetHistory handles GET /api/v1/wallet/:address/history.
func (h *WalletHandler) GetHistory(c *gin.Context) {
	address := c.Param("address")

	history, err := h.tradeSvc.History(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(history))
	for i := range history {
		items = append(items, toTransactionResponse(&history[i]))
	}

	response.OK(c, dto.HistoryResponse{
		WalletAddress: address,
		Items:         items,
		Total:         len(items),
	})
}

// Fund handles POST /api/v1/wallet/fund.
func (h *WalletHandler) Fund(c *gin.Context) {
	var req dto.FundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	txn, err := h.tradeSvc.Fund(c.Request.Context(), req.WalletAddress, req.Asset, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toTransactionResponse(txn))
}
