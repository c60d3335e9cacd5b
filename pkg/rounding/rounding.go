package rounding

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Rule selects how presentation amounts are rounded.
type Rule string

const (
	// RuleFloor truncates toward zero.
	RuleFloor Rule = "floor"
	// RuleCeiling rounds toward positive infinity.
	RuleCeiling Rule = "ceiling"
	// RuleHalfUp rounds half away from zero.
	RuleHalfUp Rule = "round_half_up"
)

// Parse validates a rule string.
func Parse(raw string) (Rule, error) {
	switch Rule(raw) {
	case RuleFloor, RuleCeiling, RuleHalfUp:
		return Rule(raw), nil
	default:
		return "", fmt.Errorf("unknown rounding rule %q", raw)
	}
}

// Apply rounds amount to the given number of decimal places under the rule.
// Unknown rules fall back to half-up. Applying the same rule twice is a no-op.
func Apply(amount decimal.Decimal, rule Rule, places int32) decimal.Decimal {
	switch rule {
	case RuleFloor:
		return truncate(amount, places)
	case RuleCeiling:
		return ceiling(amount, places)
	default:
		return amount.Round(places)
	}
}

func truncate(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Truncate(places)
}

func ceiling(amount decimal.Decimal, places int32) decimal.Decimal {
	truncated := amount.Truncate(places)
	if truncated.Equal(amount) || amount.IsNegative() {
		// Truncating a negative already lands on the next value up.
		return truncated
	}
	return truncated.Add(decimal.New(1, -places))
}
