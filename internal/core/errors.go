package core

import "errors"

// Validation failures for the Expense aggregate. Each invariant gets its own
// sentinel so callers can report the specific violated rule.
var (
	ErrAmountNegative   = errors.New("amount cannot be negative")
	ErrAmountZero       = errors.New("amount cannot be zero")
	ErrAmountTooLarge   = errors.New("amount cannot exceed 100000")
	ErrCategoryRequired = errors.New("category is required")
	ErrUserIDRequired   = errors.New("user id is required")
)

// Validation failures for the Budget aggregate.
var (
	ErrMaxAmountInvalid = errors.New("max amount must be greater than 0")
	ErrMonthInvalid     = errors.New("month must be between 1 and 12")
	ErrYearInvalid      = errors.New("year must be 2000 or later")
)

// IsValidationError reports whether err is one of the domain validation
// sentinels, as opposed to a repository or infrastructure fault.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrAmountNegative, ErrAmountZero, ErrAmountTooLarge,
		ErrCategoryRequired, ErrUserIDRequired,
		ErrMaxAmountInvalid, ErrMonthInvalid, ErrYearInvalid,
		ErrInvalidAmount,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
