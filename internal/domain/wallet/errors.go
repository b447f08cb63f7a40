package wallet

import "errors"

var (
	ErrInsufficientBalance = errors.New("payout exceeds wallet balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
