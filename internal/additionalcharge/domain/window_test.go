package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func window(y int, m time.Month) (time.Time, time.Time) {
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func TestRecurringWindow(t *testing.T) {
	jan, janEnd := window(2025, time.January)
	feb, febEnd := window(2025, time.February)

	charge := AdditionalCharge{
		RecurrenceType: RecurrenceRecurring,
		StartDate:      day(2025, time.February, 1),
	}
	assert.False(t, charge.AppliesTo(jan, janEnd))
	assert.True(t, charge.AppliesTo(feb, febEnd))

	// Ended before the cycle start no longer applies.
	charge.EndDate = day(2025, time.January, 31)
	assert.False(t, charge.AppliesTo(feb, febEnd))

	// No dates at all means always on.
	open := AdditionalCharge{RecurrenceType: RecurrenceRecurring}
	assert.True(t, open.AppliesTo(jan, janEnd))
}

func TestOneTimeWindow(t *testing.T) {
	jan, janEnd := window(2025, time.January)
	feb, febEnd := window(2025, time.February)

	charge := AdditionalCharge{
		RecurrenceType: RecurrenceOneTime,
		StartDate:      day(2025, time.January, 15),
	}
	assert.True(t, charge.AppliesTo(jan, janEnd))
	assert.False(t, charge.AppliesTo(feb, febEnd))

	// Missing start date is never auto-applied.
	undated := AdditionalCharge{RecurrenceType: RecurrenceOneTime}
	assert.False(t, undated.AppliesTo(jan, janEnd))
}

func TestPeriodWindow(t *testing.T) {
	charge := AdditionalCharge{
		RecurrenceType: RecurrencePeriod,
		StartDate:      day(2025, time.January, 15),
		EndDate:        day(2025, time.March, 10),
	}

	jan, janEnd := window(2025, time.January)
	feb, febEnd := window(2025, time.February)
	mar, marEnd := window(2025, time.March)
	apr, aprEnd := window(2025, time.April)

	assert.True(t, charge.AppliesTo(jan, janEnd), "partial first month")
	assert.True(t, charge.AppliesTo(feb, febEnd), "fully covered month")
	assert.True(t, charge.AppliesTo(mar, marEnd), "partial last month")
	assert.False(t, charge.AppliesTo(apr, aprEnd))

	// Period without both bounds is never applied.
	halfOpen := AdditionalCharge{RecurrenceType: RecurrencePeriod, StartDate: day(2025, time.January, 1)}
	assert.False(t, halfOpen.AppliesTo(jan, janEnd))
}
