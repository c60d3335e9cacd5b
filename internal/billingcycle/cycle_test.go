package billingcycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	year, month, err := Parse("202501")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.January, month)

	for _, bad := range []string{"", "2025", "202513", "20250", "abcdef", "199901"} {
		_, _, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestBounds(t *testing.T) {
	first, err := FirstDay("202502")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), first)

	last, err := LastDay("202502")
	require.NoError(t, err)
	assert.Equal(t, 28, last.Day())

	days, err := DaysIn("202501")
	require.NoError(t, err)
	assert.Equal(t, 31, days)
}

func TestOf(t *testing.T) {
	assert.Equal(t, "202501", Of(time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC)))
}
