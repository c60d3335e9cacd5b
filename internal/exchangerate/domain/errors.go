package domain

import "errors"

var (
	ErrRateNotFound    = errors.New("rate_not_found")
	ErrInvalidDateRule = errors.New("invalid_date_rule")
	ErrInvalidRateType = errors.New("invalid_rate_type")
	ErrSourceDisabled  = errors.New("rate_source_disabled")
)
