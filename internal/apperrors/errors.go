package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Ledger invariant violations. Each one names the specific accounting rule
// that was broken so callers can act on it instead of seeing a generic failure.
var (
	// ErrTenantMismatch indicates a cross-entity reference whose tenant differs from the parent's.
	ErrTenantMismatch = errors.New("entity belongs to a different tenant")

	// ErrInvalidReference indicates a reference to an entity that does not exist or is not usable.
	ErrInvalidReference = errors.New("invalid entity reference")

	// ErrAccountInUse indicates an account that cannot be deactivated because journal lines reference it.
	ErrAccountInUse = errors.New("account is referenced by journal lines")

	// ErrEmptyEntry indicates an attempt to post a journal entry with no lines.
	ErrEmptyEntry = errors.New("journal entry has no lines")

	// ErrUnbalancedEntry indicates that local debit and credit totals differ.
	ErrUnbalancedEntry = errors.New("journal entry debits and credits do not balance")

	// ErrPeriodClosed indicates a posting attempt into a closed accounting period.
	ErrPeriodClosed = errors.New("accounting period is closed")

	// ErrAlreadyPostedDifferentPayload indicates a re-post of an entry whose
	// financially material content changed since it was first posted.
	ErrAlreadyPostedDifferentPayload = errors.New("entry already posted with a different payload")

	// ErrInvalidTransition indicates a status change outside the allowed edge table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrImmutableEntry indicates an attempted mutation of a posted journal entry.
	ErrImmutableEntry = errors.New("posted journal entry is immutable")

	// ErrExceedsOutstanding indicates a payment application larger than the document's outstanding amount.
	ErrExceedsOutstanding = errors.New("applied amount exceeds document outstanding")

	// ErrExceedsTransactionCapacity indicates applications summing past the bank transaction's amount.
	ErrExceedsTransactionCapacity = errors.New("applied amounts exceed bank transaction amount")

	// ErrAlreadyFullyDepreciated indicates a depreciation run against an asset with zero book value.
	ErrAlreadyFullyDepreciated = errors.New("asset is already fully depreciated")
)

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
