package domain

import "time"

// AppliesTo reports whether the charge lands in the billing month
// starting at cycleStart (cycleEnd is the first day of the next month).
//
// recurring: active from start_date (inclusive) until end_date; an
// end_date before the cycle start stops it.
// one_time: applied only in the month containing start_date; a one-time
// charge without a start date is never auto-applied.
// period: applied to every month overlapping [start_date, end_date),
// including the partial first and last months.
func (c AdditionalCharge) AppliesTo(cycleStart, cycleEnd time.Time) bool {
	switch c.RecurrenceType {
	case RecurrenceRecurring:
		if c.StartDate != nil && c.StartDate.After(cycleStart) {
			return false
		}
		if c.EndDate != nil && c.EndDate.Before(cycleStart) {
			return false
		}
		return true

	case RecurrenceOneTime:
		if c.StartDate == nil {
			return false
		}
		return !c.StartDate.Before(cycleStart) && c.StartDate.Before(cycleEnd)

	case RecurrencePeriod:
		if c.StartDate == nil || c.EndDate == nil {
			return false
		}
		if !c.StartDate.After(cycleStart) && !cycleEnd.After(*c.EndDate) {
			return true
		}
		if !c.StartDate.After(cycleStart) && cycleStart.Before(*c.EndDate) {
			return true
		}
		if !c.StartDate.Before(cycleStart) && c.StartDate.Before(cycleEnd) {
			return true
		}
		return false
	}
	return false
}
