package domain

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrDepositNotFound     = errors.New("deposit_not_found")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidOwner        = errors.New("invalid_owner")
)
