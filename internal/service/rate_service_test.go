package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"trading-gateway/internal/core/domain"
	"trading-gateway/internal/core/ports/mocks"
	"trading-gateway/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type rateTestDeps struct {
	svc    *RateServiceImpl
	source *mocks.MockRateSource
	cache  *mocks.MockRateCache
	ctrl   *gomock.Controller
}

func setupRateService(t *testing.T) *rateTestDeps {
	ctrl := gomock.NewController(t)
	d := &rateTestDeps{
		source: mocks.NewMockRateSource(ctrl),
		cache:  mocks.NewMockRateCache(ctrl),
		ctrl:   ctrl,
	}
	d.svc = NewRateService(
		d.source, d.cache, domain.DefaultAssetRegistry(),
		3*time.Second, 5*time.Minute, zerolog.Nop(),
	)
	return d
}

func TestRateService_Price_Success(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	price := decimal.RequireFromString("103.42")
	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(price, nil)
	d.cache.EXPECT().Set(gomock.Any(), "SOL", price, 5*time.Minute).Return(nil)

	got, err := d.svc.Price(context.Background(), "sol")
	require.NoError(t, err)
	assert.True(t, price.Equal(got))
}

func TestRateService_Price_UnknownAssetFailsFast(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	// No source expectation: unlisted assets never reach the feed.
	_, err := d.svc.Price(context.Background(), "DOGE")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AST_001", appErr.Code)
}

func TestRateService_Price_FallsBackToLastKnownGood(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	price := decimal.RequireFromString("103.42")
	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(price, nil)
	d.cache.EXPECT().Set(gomock.Any(), "SOL", price, 5*time.Minute).Return(nil)
	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(decimal.Zero, errors.New("feed down"))

	ctx := context.Background()
	_, err := d.svc.Price(ctx, "SOL")
	require.NoError(t, err)

	got, err := d.svc.Price(ctx, "SOL")
	require.NoError(t, err)
	assert.True(t, price.Equal(got), "second call should serve the remembered price")
}

func TestRateService_Price_FallsBackToCache(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	cached := decimal.RequireFromString("101.99")
	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(decimal.Zero, errors.New("feed down"))
	d.cache.EXPECT().Get(gomock.Any(), "SOL").Return(cached, true, nil)

	got, err := d.svc.Price(context.Background(), "SOL")
	require.NoError(t, err)
	assert.True(t, cached.Equal(got))
}

func TestRateService_Price_UnavailableWhenNoFallback(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(decimal.Zero, errors.New("feed down"))
	d.cache.EXPECT().Get(gomock.Any(), "SOL").Return(decimal.Zero, false, nil)

	_, err := d.svc.Price(context.Background(), "SOL")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRD_004", appErr.Code)
}

func TestRateService_Rate_SameAssetIsOne(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	rate, err := d.svc.Rate(context.Background(), "sol", "SOL")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(rate))
}

func TestRateService_Rate_SameUnknownAssetFails(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Rate(context.Background(), "DOGE", "DOGE")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AST_001", appErr.Code)
}

func TestRateService_Rate_DerivesFromPrices(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	solPrice := decimal.RequireFromString("103.42")
	usdcPrice := decimal.NewFromInt(1)
	d.source.EXPECT().Price(gomock.Any(), "USDC").Return(usdcPrice, nil)
	d.cache.EXPECT().Set(gomock.Any(), "USDC", usdcPrice, 5*time.Minute).Return(nil)
	d.source.EXPECT().Price(gomock.Any(), "SOL").Return(solPrice, nil)
	d.cache.EXPECT().Set(gomock.Any(), "SOL", solPrice, 5*time.Minute).Return(nil)

	rate, err := d.svc.Rate(context.Background(), "USDC", "SOL")
	require.NoError(t, err)
	// 1 / 103.42 at 12 fraction digits
	assert.Equal(t, "0.009669309611", rate.String())
}

func TestRateService_Snapshot_MixesFeedAndFallback(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	table := map[string]decimal.Decimal{
		"SOL":  decimal.RequireFromString("103.42"),
		"USDC": decimal.NewFromInt(1),
	}
	d.source.EXPECT().Snapshot(gomock.Any()).Return(table, nil)
	d.cache.EXPECT().Set(gomock.Any(), "SOL", table["SOL"], 5*time.Minute).Return(nil)
	d.cache.EXPECT().Set(gomock.Any(), "USDC", table["USDC"], 5*time.Minute).Return(nil)
	// USDT missing from the feed, served from cache.
	d.cache.EXPECT().Get(gomock.Any(), "USDT").Return(decimal.RequireFromString("1.0004"), true, nil)

	got, err := d.svc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1.0004", got["USDT"].String())
}

func TestRateService_Snapshot_AllUnavailable(t *testing.T) {
	d := setupRateService(t)
	defer d.ctrl.Finish()

	d.source.EXPECT().Snapshot(gomock.Any()).Return(nil, errors.New("feed down"))
	d.cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(decimal.Zero, false, nil).Times(3)

	_, err := d.svc.Snapshot(context.Background())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "TRD_004", appErr.Code)
}
