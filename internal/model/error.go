package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidInput          = "INVALID_INPUT"
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeInsufficientStock     = "INSUFFICIENT_STOCK"
	ErrCodePriceMismatch         = "PRICE_MISMATCH"
	ErrCodePaymentAmountMismatch = "PAYMENT_AMOUNT_MISMATCH"
	ErrCodeConflict              = "CONFLICT"
	ErrCodeStorageFailure        = "STORAGE_FAILURE"
	ErrCodeStockRestoreFailure   = "STOCK_RESTORE_FAILURE"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// DomainError is a typed business error. Code identifies the failure kind so
// callers can branch on it without string matching; the remaining fields
// carry expected-vs-received context for debuggability.
type DomainError struct {
	Code      string
	Message   string
	ProductID string
	Expected  float64
	Received  float64
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInvalidInput creates an InvalidInput error with the given message.
func NewInvalidInput(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message)
}

// NewNotFound creates a NotFound error naming the missing resource.
func NewNotFound(resource, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, id),
	}
}

// NewInsufficientStock creates an InsufficientStock error naming the product
// and the available versus requested quantities.
func NewInsufficientStock(productID string, available, requested int) *DomainError {
	return &DomainError{
		Code:      ErrCodeInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for product %q: %d available, %d requested", productID, available, requested),
		ProductID: productID,
		Expected:  float64(requested),
		Received:  float64(available),
	}
}

// NewPriceMismatch creates a PriceMismatch error carrying the catalog price
// (expected) and the client-submitted price (received).
func NewPriceMismatch(productID string, catalogPrice, clientPrice float64) *DomainError {
	return &DomainError{
		Code:      ErrCodePriceMismatch,
		Message:   fmt.Sprintf("price mismatch for product %q: catalog price %.2f, submitted price %.2f", productID, catalogPrice, clientPrice),
		ProductID: productID,
		Expected:  catalogPrice,
		Received:  clientPrice,
	}
}

// NewPaymentAmountMismatch creates a PaymentAmountMismatch error carrying the
// server-computed total (expected) and the submitted payment amount (received).
func NewPaymentAmountMismatch(computedTotal, submittedAmount float64) *DomainError {
	return &DomainError{
		Code:     ErrCodePaymentAmountMismatch,
		Message:  fmt.Sprintf("payment amount mismatch: order total %.2f, payment amount %.2f", computedTotal, submittedAmount),
		Expected: computedTotal,
		Received: submittedAmount,
	}
}

// NewConflict creates a Conflict error with the given message.
func NewConflict(message string) *DomainError {
	return NewDomainError(ErrCodeConflict, message)
}

// NewStorageFailure creates a StorageFailure error for persistence errors
// that abort an otherwise valid operation.
func NewStorageFailure(message string) *DomainError {
	return NewDomainError(ErrCodeStorageFailure, message)
}

// NewStockRestoreFailure creates a StockRestoreFailure error. A failed
// re-increment during compensation is a data-integrity incident and must be
// surfaced distinctly from a normal validation failure.
func NewStockRestoreFailure(productID string, quantity int) *DomainError {
	return &DomainError{
		Code:      ErrCodeStockRestoreFailure,
		Message:   fmt.Sprintf("failed to restore %d units of product %q after aborted order", quantity, productID),
		ProductID: productID,
	}
}

// AsDomainError unwraps err to a DomainError if one is present in its chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// IsCode reports whether err carries a DomainError with the given code.
func IsCode(err error, code string) bool {
	de, ok := AsDomainError(err)
	return ok && de.Code == code
}
