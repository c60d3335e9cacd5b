package domain

import "errors"

var (
	ErrPeriodNotFound = errors.New("pro_rata_period_not_found")
	ErrPeriodExists   = errors.New("pro_rata_period_exists")
)
