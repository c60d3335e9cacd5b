package domain

import "errors"

var (
	ErrRuleNotFound       = errors.New("split_rule_not_found")
	ErrPercentageOverflow = errors.New("split_percentage_overflow")
	ErrNoAllocations      = errors.New("split_rule_needs_allocations")
)
