package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("TRD_001", "Quote has expired", http.StatusConflict),
			expected: "[TRD_001] Quote has expired",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("TRD_004", "Price feed unavailable", http.StatusServiceUnavailable, fmt.Errorf("dial timeout")),
			expected: "[TRD_004] Price feed unavailable: dial timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("AST_002", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"UnknownAsset", ErrUnknownAsset("DOGE"), "AST_001", 400},
		{"InvalidAmount", ErrInvalidAmount(), "AST_002", 400},
		{"InvalidSlippage", ErrInvalidSlippage(), "AST_003", 400},
		{"CommandNotRecognized", ErrCommandNotRecognized(), "CMD_001", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestTradingErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"QuoteExpired", ErrQuoteExpired(), "TRD_001", 409},
		{"InsufficientBalance", ErrInsufficientBalance("SOL"), "TRD_002", 409},
		{"QuoteNotFound", ErrQuoteNotFound(), "TRD_003", 404},
		{"RateUnavailable", ErrRateUnavailable(nil), "TRD_004", 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestUnknownAssetMentionsCode(t *testing.T) {
	err := ErrUnknownAsset("BONK")
	assert.Contains(t, err.Message, "BONK")
}

func TestInsufficientBalanceMentionsAsset(t *testing.T) {
	err := ErrInsufficientBalance("USDC")
	assert.Contains(t, err.Message, "USDC")
}

func TestRateLimitError(t *testing.T) {
	err := ErrRateLimitExceeded()
	assert.Equal(t, "RATE_001", err.Code)
	assert.Equal(t, 429, err.HTTPStatus)
}

func TestInternalError(t *testing.T) {
	inner := fmt.Errorf("pg: connection closed")
	err := InternalError(inner)
	assert.Equal(t, "SYS_001", err.Code)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.True(t, errors.Is(err, inner))
}
