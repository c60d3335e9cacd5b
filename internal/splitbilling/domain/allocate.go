package domain

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/pkg/rounding"
)

var oneHundred = decimal.NewFromInt(100)

// Allocate computes each allocation's share of sourceAmount in
// (priority, id) order. Percentage shares are rounded half-up to two
// places; every share is capped at the running remainder, and the
// unallocated remainder is reported, never re-emitted as a share.
func Allocate(allocations []SplitBillingAllocation, sourceAmount decimal.Decimal) SplitResult {
	ordered := make([]SplitBillingAllocation, len(allocations))
	copy(ordered, allocations)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	result := SplitResult{Remainder: sourceAmount}
	for _, alloc := range ordered {
		if !result.Remainder.IsPositive() {
			break
		}

		var share decimal.Decimal
		switch alloc.SplitType {
		case SplitTypePercentage:
			share = rounding.Apply(sourceAmount.Mul(alloc.SplitValue).Div(oneHundred), rounding.RuleHalfUp, 2)
		case SplitTypeFixedAmount:
			share = alloc.SplitValue
		default:
			continue
		}

		if share.GreaterThan(result.Remainder) {
			share = result.Remainder
		}
		if !share.IsPositive() {
			continue
		}

		result.Allocations = append(result.Allocations, AllocationAmount{
			AllocationID:    alloc.ID,
			TargetCompanyID: alloc.TargetCompanyID,
			SplitType:       alloc.SplitType,
			Amount:          share,
		})
		result.Remainder = result.Remainder.Sub(share)
	}
	return result
}

// ValidatePercentages rejects allocation sets whose percentage shares
// sum above 100.
func ValidatePercentages(allocations []AllocationInput) error {
	total := decimal.Zero
	for _, alloc := range allocations {
		if alloc.SplitType == SplitTypePercentage {
			total = total.Add(alloc.SplitValue)
		}
	}
	if total.GreaterThan(oneHundred) {
		return ErrPercentageOverflow
	}
	return nil
}
