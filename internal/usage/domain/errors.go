package domain

import "errors"

var (
	ErrEmptyImport        = errors.New("empty_usage_import")
	ErrInvalidBillingType = errors.New("invalid_billing_type")
)
