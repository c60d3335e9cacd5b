package domain

import "errors"

var (
	ErrNoUsageData        = errors.New("no_usage_data")
	ErrBatchNotFound      = errors.New("batch_not_found")
	ErrRecordNotFound     = errors.New("slip_record_not_found")
	ErrConfirmedImmutable = errors.New("slip_confirmed_immutable")
	ErrBatchUnconfirmed   = errors.New("batch_not_confirmed")
	ErrPartnerMissing     = errors.New("partner_code_missing")
	ErrInvalidSlipType    = errors.New("invalid_slip_type")
)
