package domain

import "errors"

// Line-level amount validation errors.
var (
	ErrNegativeAmount  = errors.New("debit and credit amounts must be >= 0")
	ErrBothSidesSet    = errors.New("journal line cannot have both debit and credit > 0")
	ErrNoAmount        = errors.New("journal line requires a non-zero debit or credit")
	ErrRateMustBeOne   = errors.New("fx rate must be 1 or absent for the functional currency")
	ErrRateNotPositive = errors.New("fx rate must be > 0 when currency differs from functional")
)
