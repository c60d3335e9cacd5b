package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func alloc(id int64, st SplitType, value string, priority int) SplitBillingAllocation {
	return SplitBillingAllocation{
		ID:         snowflake.ID(id),
		SplitType:  st,
		SplitValue: dec(value),
		Priority:   priority,
	}
}

func TestAllocateSixtyForty(t *testing.T) {
	result := Allocate([]SplitBillingAllocation{
		alloc(1, SplitTypePercentage, "60", 1),
		alloc(2, SplitTypePercentage, "40", 2),
	}, dec("1000.00"))

	require.Len(t, result.Allocations, 2)
	assert.True(t, result.Allocations[0].Amount.Equal(dec("600.00")))
	assert.True(t, result.Allocations[1].Amount.Equal(dec("400.00")))
	assert.True(t, result.Remainder.IsZero())
}

func TestAllocateOrderAndCaps(t *testing.T) {
	// Lower priority goes first regardless of slice order; a fixed
	// share larger than the remainder is capped.
	result := Allocate([]SplitBillingAllocation{
		alloc(9, SplitTypeFixedAmount, "800", 2),
		alloc(3, SplitTypePercentage, "50", 1),
	}, dec("1000.00"))

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, snowflake.ID(3), result.Allocations[0].AllocationID)
	assert.True(t, result.Allocations[0].Amount.Equal(dec("500.00")))
	assert.True(t, result.Allocations[1].Amount.Equal(dec("500.00")))
	assert.True(t, result.Remainder.IsZero())
}

func TestAllocateTiePriorityOrdersByID(t *testing.T) {
	result := Allocate([]SplitBillingAllocation{
		alloc(7, SplitTypePercentage, "30", 1),
		alloc(4, SplitTypePercentage, "30", 1),
	}, dec("100.00"))

	require.Len(t, result.Allocations, 2)
	assert.Equal(t, snowflake.ID(4), result.Allocations[0].AllocationID)
	assert.Equal(t, snowflake.ID(7), result.Allocations[1].AllocationID)
}

func TestAllocateRemainderReported(t *testing.T) {
	result := Allocate([]SplitBillingAllocation{
		alloc(1, SplitTypePercentage, "30", 1),
	}, dec("1000.00"))

	require.Len(t, result.Allocations, 1)
	assert.True(t, result.Allocations[0].Amount.Equal(dec("300.00")))
	assert.True(t, result.Remainder.Equal(dec("700.00")))
}

func TestAllocatePercentageRounding(t *testing.T) {
	// 33.335% of 100.00 is 33.335, rounded half-up to 33.34.
	result := Allocate([]SplitBillingAllocation{
		alloc(1, SplitTypePercentage, "33.335", 1),
	}, dec("100.00"))

	require.Len(t, result.Allocations, 1)
	assert.True(t, result.Allocations[0].Amount.Equal(dec("33.34")))
}

func TestAllocateStopsAtZeroRemainder(t *testing.T) {
	result := Allocate([]SplitBillingAllocation{
		alloc(1, SplitTypeFixedAmount, "1000", 1),
		alloc(2, SplitTypePercentage, "50", 2),
	}, dec("1000.00"))

	require.Len(t, result.Allocations, 1)
	assert.True(t, result.Remainder.IsZero())
}

func TestValidatePercentages(t *testing.T) {
	err := ValidatePercentages([]AllocationInput{
		{SplitType: SplitTypePercentage, SplitValue: dec("60")},
		{SplitType: SplitTypePercentage, SplitValue: dec("40")},
		{SplitType: SplitTypeFixedAmount, SplitValue: dec("500")},
	})
	assert.NoError(t, err)

	err = ValidatePercentages([]AllocationInput{
		{SplitType: SplitTypePercentage, SplitValue: dec("60")},
		{SplitType: SplitTypePercentage, SplitValue: dec("40.01")},
	})
	assert.ErrorIs(t, err, ErrPercentageOverflow)
}
