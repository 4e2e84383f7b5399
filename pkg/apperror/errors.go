package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Asset & Quote Input (AST) ----

func ErrUnknownAsset(code string) *AppError {
	return New("AST_001", fmt.Sprintf("Unknown asset %q", code), http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("AST_002", "Amount must be greater than zero", http.StatusBadRequest)
}

func ErrInvalidSlippage() *AppError {
	return New("AST_003", "Slippage tolerance must be in [0, 1)", http.StatusBadRequest)
}

// ---- Trading State (TRD) ----

func ErrQuoteExpired() *AppError {
	return New("TRD_001", "Quote has expired", http.StatusConflict)
}

func ErrInsufficientBalance(asset string) *AppError {
	return New("TRD_002", fmt.Sprintf("Insufficient %s balance", asset), http.StatusConflict)
}

func ErrQuoteNotFound() *AppError {
	return New("TRD_003", "Quote not found", http.StatusNotFound)
}

func ErrRateUnavailable(err error) *AppError {
	return Wrap("TRD_004", "Price feed unavailable", http.StatusServiceUnavailable, err)
}

// ---- Command Interpreter (CMD) ----

func ErrCommandNotRecognized() *AppError {
	return New("CMD_001", "Command not recognized", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a request validation error.
func Validation(message string) *AppError {
	return New("AST_000", message, http.StatusBadRequest)
}
