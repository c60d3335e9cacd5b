package domain

import "errors"

var (
	ErrPartnerNotFound = errors.New("partner_not_found")
	ErrPartnerExists   = errors.New("partner_exists")
)
