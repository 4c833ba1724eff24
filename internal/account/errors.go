package account

import "errors"

var (
	// ErrInvalidAmount is returned for a deposit or withdrawal amount that is
	// zero or negative, and for a negative opening balance.
	ErrInvalidAmount = errors.New("amount must be greater than 0")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrBalanceLimit is returned when a deposit would push the balance past
	// the largest representable amount.
	ErrBalanceLimit = errors.New("deposit exceeds maximum balance")
)
