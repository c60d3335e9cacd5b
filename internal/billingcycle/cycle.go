package billingcycle

import (
	"fmt"
	"time"
)

// A billing cycle is a calendar month written as YYYYMM.

func Parse(cycle string) (int, time.Month, error) {
	if len(cycle) != 6 {
		return 0, 0, fmt.Errorf("invalid billing cycle %q", cycle)
	}
	var year, month int
	if _, err := fmt.Sscanf(cycle, "%4d%2d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid billing cycle %q", cycle)
	}
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("invalid billing cycle %q", cycle)
	}
	return year, time.Month(month), nil
}

func Valid(cycle string) bool {
	_, _, err := Parse(cycle)
	return err == nil
}

// FirstDay returns midnight UTC on the first day of the cycle month.
func FirstDay(cycle string) (time.Time, error) {
	year, month, err := Parse(cycle)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), nil
}

// LastDay returns midnight UTC on the last day of the cycle month.
func LastDay(cycle string) (time.Time, error) {
	first, err := FirstDay(cycle)
	if err != nil {
		return time.Time{}, err
	}
	return first.AddDate(0, 1, -1), nil
}

// DaysIn returns the number of days in the cycle month.
func DaysIn(cycle string) (int, error) {
	last, err := LastDay(cycle)
	if err != nil {
		return 0, err
	}
	return last.Day(), nil
}

// Of returns the cycle string for the month containing t.
func Of(t time.Time) string {
	return t.UTC().Format("200601")
}
