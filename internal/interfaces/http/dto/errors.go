package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry the same codes, so
// the mapping below is the single place that decides HTTP status semantics.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeValidationFailed is used when a payload fails semantic validation
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	// ErrCodeInvalidScope is used when the caller's scope does not resolve
	ErrCodeInvalidScope = "INVALID_SCOPE"
	// ErrCodeInvalidCode is used when a record code has an invalid format
	ErrCodeInvalidCode = "INVALID_CODE"
	// ErrCodeDuplicateCode is used when a code is already taken within a scope
	ErrCodeDuplicateCode = "DUPLICATE_CODE"
	// ErrCodeCodeAllocationExhausted is used when auto code generation gives up
	ErrCodeCodeAllocationExhausted = "CODE_ALLOCATION_EXHAUSTED"
	// ErrCodeExclusiveRequired is used when an operation would leave a scope
	// without its single flagged record
	ErrCodeExclusiveRequired = "EXCLUSIVE_REQUIRED"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeTransactionFailed is used when a mutation transaction aborts for
	// a non-domain reason
	ErrCodeTransactionFailed = "TRANSACTION_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,

	// Input and scope errors -> 400 Bad Request
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidScope: http.StatusBadRequest,
	ErrCodeInvalidCode:  http.StatusBadRequest,

	// Semantic validation -> 422 Unprocessable Entity
	ErrCodeValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,

	// Conflicts -> 409 Conflict
	ErrCodeDuplicateCode:       http.StatusConflict,
	ErrCodeExclusiveRequired:   http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Infrastructure failures -> 500 Internal Server Error
	ErrCodeCodeAllocationExhausted: http.StatusInternalServerError,
	ErrCodeTransactionFailed:       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
