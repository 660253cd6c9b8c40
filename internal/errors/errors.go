// Package errors provides custom error types for the budget tracker.
// Every reconciler and service error should be an AppError so callers get a
// stable code to branch on and handlers can render a consistent response.
package errors

import (
	"errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so that
// errors.Is(err, ErrBudgetNotFound) holds for wrapped and re-messaged copies.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Access errors.
var (
	ErrUnauthorized         = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrConfirmationRequired = &AppError{Code: "CONFIRMATION_REQUIRED", Message: "This operation is destructive and must be confirmed", StatusCode: http.StatusPreconditionRequired}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Budget errors.
var (
	ErrBudgetNotFound    = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrNoActiveBudget    = &AppError{Code: "NO_ACTIVE_BUDGET", Message: "No budget is active", StatusCode: http.StatusConflict}
	ErrEmptyBudgetName   = &AppError{Code: "EMPTY_BUDGET_NAME", Message: "Budget name is required", StatusCode: http.StatusBadRequest}
	ErrNoCategories      = &AppError{Code: "NO_CATEGORIES", Message: "A budget needs at least one named category", StatusCode: http.StatusBadRequest}
	ErrInvalidYear       = &AppError{Code: "INVALID_YEAR", Message: "Budget year must be a four-digit year", StatusCode: http.StatusBadRequest}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "Category names must be unique within a budget", StatusCode: http.StatusConflict}
)

// Category and expense errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInUse    = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing expenses", StatusCode: http.StatusConflict}
	ErrExpenseNotFound  = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount    = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive number", StatusCode: http.StatusBadRequest}
	ErrInvalidDate      = &AppError{Code: "INVALID_DATE", Message: "Date must be an ISO-8601 date", StatusCode: http.StatusBadRequest}
)

// Asset, holding and liability errors.
var (
	ErrAssetNotFound      = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrHoldingNotFound    = &AppError{Code: "HOLDING_NOT_FOUND", Message: "Holding not found", StatusCode: http.StatusNotFound}
	ErrLiabilityNotFound  = &AppError{Code: "LIABILITY_NOT_FOUND", Message: "Liability not found", StatusCode: http.StatusNotFound}
	ErrAssetShapeMismatch = &AppError{Code: "ASSET_SHAPE_MISMATCH", Message: "Asset does not carry holdings", StatusCode: http.StatusConflict}
	ErrInvalidAssetType   = &AppError{Code: "INVALID_ASSET_TYPE", Message: "Unsupported asset type", StatusCode: http.StatusBadRequest}
	ErrInvalidShares      = &AppError{Code: "INVALID_SHARES", Message: "Shares must be greater than zero", StatusCode: http.StatusBadRequest}
)

// Import errors.
var (
	ErrInvalidImport = &AppError{Code: "INVALID_IMPORT", Message: "Import file is not a valid budget tracker export", StatusCode: http.StatusBadRequest}
)

// External collaborator errors.
var (
	ErrParserUnavailable  = &AppError{Code: "PARSER_UNAVAILABLE", Message: "Failed to parse CSV. The AI model might be unavailable or the file format was unclear.", StatusCode: http.StatusBadGateway}
	ErrAdvisorUnavailable = &AppError{Code: "ADVISOR_UNAVAILABLE", Message: "The AI assistant is currently unavailable. Please try again later.", StatusCode: http.StatusBadGateway}
	ErrQuotesUnavailable  = &AppError{Code: "QUOTES_UNAVAILABLE", Message: "Could not fetch price data", StatusCode: http.StatusBadGateway}
	ErrNoTickers          = &AppError{Code: "NO_TICKERS", Message: "No holdings with ticker symbols found to refresh", StatusCode: http.StatusBadRequest}
	ErrNotConfigured      = &AppError{Code: "NOT_CONFIGURED", Message: "This feature is not configured", StatusCode: http.StatusServiceUnavailable}
)
