package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("billing_profile_not_found")
	ErrProfileExists   = errors.New("billing_profile_exists")
)
