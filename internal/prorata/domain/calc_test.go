package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCalcRatio(t *testing.T) {
	calc, err := CalcRatio("202501", 15, 31)
	require.NoError(t, err)
	assert.Equal(t, 31, calc.TotalDays)
	assert.Equal(t, 17, calc.ActiveDays)
	assert.Equal(t, "0.548387", calc.Ratio.StringFixed(6))

	// Days outside the month clamp to its bounds.
	calc, err = CalcRatio("202502", 1, 31)
	require.NoError(t, err)
	assert.Equal(t, 28, calc.EndDay)
	assert.True(t, calc.Ratio.Equal(decimal.NewFromInt(1)))

	// Inverted window yields zero active days.
	calc, err = CalcRatio("202501", 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, calc.ActiveDays)
	assert.True(t, calc.Ratio.IsZero())
}

func TestAutoCalc(t *testing.T) {
	t.Run("mid-month start", func(t *testing.T) {
		calc, err := AutoCalc(datePtr(2025, 1, 15), nil, "202501")
		require.NoError(t, err)
		require.NotNil(t, calc)
		assert.Equal(t, 15, calc.StartDay)
		assert.Equal(t, 17, calc.ActiveDays)
		assert.Equal(t, "0.548387", calc.Ratio.StringFixed(6))
		assert.Equal(t, ReasonPartialMonth, calc.Reason)
	})

	t.Run("contract not started", func(t *testing.T) {
		calc, err := AutoCalc(datePtr(2025, 3, 1), nil, "202501")
		require.NoError(t, err)
		require.NotNil(t, calc)
		assert.True(t, calc.Ratio.IsZero())
		assert.Equal(t, ReasonContractNotStarted, calc.Reason)
	})

	t.Run("contract ended", func(t *testing.T) {
		calc, err := AutoCalc(nil, datePtr(2024, 12, 31), "202501")
		require.NoError(t, err)
		require.NotNil(t, calc)
		assert.True(t, calc.Ratio.IsZero())
		assert.Equal(t, ReasonContractEnded, calc.Reason)
	})

	t.Run("mid-month end", func(t *testing.T) {
		calc, err := AutoCalc(nil, datePtr(2025, 1, 10), "202501")
		require.NoError(t, err)
		require.NotNil(t, calc)
		assert.Equal(t, 10, calc.EndDay)
		assert.Equal(t, 10, calc.ActiveDays)
	})

	t.Run("full month needs no pro-rata", func(t *testing.T) {
		calc, err := AutoCalc(datePtr(2024, 6, 1), datePtr(2026, 1, 1), "202501")
		require.NoError(t, err)
		assert.Nil(t, calc)
	})

	t.Run("no dates at all", func(t *testing.T) {
		calc, err := AutoCalc(nil, nil, "202501")
		require.NoError(t, err)
		assert.Nil(t, calc)
	})
}
