package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is allows errors.Is to match two DomainErrors by code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Common domain errors
var (
	ErrNotFound          = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists     = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput      = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidAmount     = NewDomainError("INVALID_AMOUNT", "Amount is not a valid decimal value")
	ErrInvalidStatus     = NewDomainError("INVALID_STATUS", "Status is not valid for this document type")
	ErrInsufficientStock = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrStockUpdateFailed = NewDomainError("STOCK_UPDATE_FAILED", "One or more stock adjustments failed")
	ErrAlreadyConverted  = NewDomainError("ALREADY_CONVERTED", "Quote has already been converted to an invoice")
	ErrAlreadyPaid       = NewDomainError("ALREADY_PAID", "Invoice is already marked as paid")
	ErrInvalidState      = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrStorage           = NewDomainError("STORAGE_ERROR", "Underlying storage operation failed")
)

// WrapStorageError wraps a low-level persistence failure so callers can treat
// it uniformly. Domain errors pass through unchanged.
func WrapStorageError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*DomainError); ok {
		return err
	}
	return NewDomainErrorf("STORAGE_ERROR", "storage operation failed: %v", err)
}
