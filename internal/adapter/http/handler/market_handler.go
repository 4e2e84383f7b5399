package handler

import (
	"trading-gateway/internal/adapter/http/dto"
	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports"
	"trading-gateway/pkg/apperror"
	"trading-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// MarketHandler handles market-data endpoints.
type MarketHandler struct {
	rateSvc    ports.RateService
	quoteAsset string
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(rateSvc ports.RateService, quoteAsset string) *MarketHandler {
	return &MarketHandler{rateSvc: rateSvc, quoteAsset: quoteAsset}
}

// GetRates handles GET /api/v1/market/rates.
func (h *MarketHandler) GetRates(c *gin.Context) {
	snapshot, err := h.rateSvc.Snapshot(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	prices := make(map[string]string, len(snapshot))
	for asset, price := range snapshot {
		prices[asset] = price.String()
	}

	response.OK(c, dto.RatesResponse{
		QuoteAsset: h.quoteAsset,
		Prices:     prices,
	})
}

// GetTicker handles GET /api/v1/market/ticker?from=SOL&to=USDC.
// The to parameter defaults to the configured quote asset.
func (h *MarketHandler) GetTicker(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		response.Error(c, apperror.Validation("from query parameter is required"))
		return
	}
	to := c.DefaultQuery("to", h.quoteAsset)

	rate, err := h.rateSvc.Rate(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TickerResponse{
		FromAsset: domain.NormalizeAssetCode(from),
		ToAsset:   domain.NormalizeAssetCode(to),
		Rate:      rate.String(),
	})
}
