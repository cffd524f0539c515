package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes verbatim;
// the transport layer only maps them to HTTP statuses.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"

	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeInvalidAmount      = "INVALID_AMOUNT"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidName        = "INVALID_NAME"
	ErrCodeInvalidClient      = "INVALID_CLIENT"
	ErrCodeInvalidContactType = "INVALID_CONTACT_TYPE"

	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeAlreadyConverted  = "ALREADY_CONVERTED"
	ErrCodeAlreadyPaid       = "ALREADY_PAID"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeStockUpdateFailed = "STOCK_UPDATE_FAILED"

	ErrCodeStorage = "STORAGE_ERROR"
	ErrCodeMail    = "MAIL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,

	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeInvalidAmount:      http.StatusBadRequest,
	ErrCodeInvalidQuantity:    http.StatusBadRequest,
	ErrCodeInvalidName:        http.StatusBadRequest,
	ErrCodeInvalidClient:      http.StatusBadRequest,
	ErrCodeInvalidContactType: http.StatusBadRequest,

	ErrCodeInvalidStatus:     http.StatusUnprocessableEntity,
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeAlreadyConverted:  http.StatusConflict,
	ErrCodeAlreadyPaid:       http.StatusConflict,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeStockUpdateFailed: http.StatusUnprocessableEntity,

	ErrCodeStorage: http.StatusInternalServerError,
	ErrCodeMail:    http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to 500
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
