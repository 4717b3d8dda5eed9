package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrValidationFailed        = NewDomainError("VALIDATION_FAILED", "Payload is missing required fields or malformed")
	ErrInvalidScope            = NewDomainError("INVALID_SCOPE", "Scope does not resolve to an existing record")
	ErrDuplicateCode           = NewDomainError("DUPLICATE_CODE", "Code is already used within this scope")
	ErrCodeAllocationExhausted = NewDomainError("CODE_ALLOCATION_EXHAUSTED", "Could not allocate a unique code within the attempt limit")
	ErrExclusiveRequired       = NewDomainError("EXCLUSIVE_REQUIRED", "A non-empty scope must keep exactly one flagged record")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// TransactionError wraps a persistence failure that caused a rollback.
// The original error stays reachable through Unwrap for errors.Is checks.
type TransactionError struct {
	DomainError
	cause error
}

// NewTransactionError wraps err as a TRANSACTION_FAILED domain error
func NewTransactionError(err error) *TransactionError {
	return &TransactionError{
		DomainError: DomainError{Code: "TRANSACTION_FAILED", Message: err.Error()},
		cause:       err,
	}
}

// Unwrap returns the underlying persistence error
func (e *TransactionError) Unwrap() error {
	return e.cause
}
