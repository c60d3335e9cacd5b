package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/cloudslip/internal/billingcycle"
)

const ratioPlaces = 6

// CalcRatio derives the ratio for an explicit day window inside the
// cycle month. Out-of-range days are clamped to the month.
func CalcRatio(cycle string, startDay, endDay int) (Calculation, error) {
	totalDays, err := billingcycle.DaysIn(cycle)
	if err != nil {
		return Calculation{}, err
	}

	startDay = clampDay(startDay, totalDays)
	endDay = clampDay(endDay, totalDays)

	activeDays := 0
	if startDay <= endDay {
		activeDays = endDay - startDay + 1
	}

	return Calculation{
		StartDay:   startDay,
		EndDay:     endDay,
		TotalDays:  totalDays,
		ActiveDays: activeDays,
		Ratio:      ratio(activeDays, totalDays),
		Reason:     ReasonPartialMonth,
	}, nil
}

// AutoCalc derives the ratio from the contract's start and end dates
// clipped to the cycle month. A nil result means the whole month is
// billable and no pro-rata applies.
func AutoCalc(contractStart, contractEnd *time.Time, cycle string) (*Calculation, error) {
	totalDays, err := billingcycle.DaysIn(cycle)
	if err != nil {
		return nil, err
	}
	cycleStart, err := billingcycle.FirstDay(cycle)
	if err != nil {
		return nil, err
	}
	cycleEnd, err := billingcycle.LastDay(cycle)
	if err != nil {
		return nil, err
	}

	startDay := 1
	endDay := totalDays

	if contractStart != nil {
		if contractStart.After(cycleEnd) {
			return &Calculation{TotalDays: totalDays, Ratio: decimal.Zero, Reason: ReasonContractNotStarted}, nil
		}
		if contractStart.After(cycleStart) {
			startDay = contractStart.Day()
		}
	}

	if contractEnd != nil {
		if contractEnd.Before(cycleStart) {
			return &Calculation{TotalDays: totalDays, Ratio: decimal.Zero, Reason: ReasonContractEnded}, nil
		}
		if contractEnd.Before(cycleEnd) {
			endDay = contractEnd.Day()
		}
	}

	if startDay == 1 && endDay == totalDays {
		return nil, nil
	}

	activeDays := endDay - startDay + 1
	return &Calculation{
		StartDay:   startDay,
		EndDay:     endDay,
		TotalDays:  totalDays,
		ActiveDays: activeDays,
		Ratio:      ratio(activeDays, totalDays),
		Reason:     ReasonPartialMonth,
	}, nil
}

func ratio(activeDays, totalDays int) decimal.Decimal {
	if totalDays <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(activeDays)).
		DivRound(decimal.NewFromInt(int64(totalDays)), ratioPlaces)
}

func clampDay(day, totalDays int) int {
	if day < 1 {
		return 1
	}
	if day > totalDays {
		return totalDays
	}
	return day
}
