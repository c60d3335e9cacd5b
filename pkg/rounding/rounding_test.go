package rounding

import (
	"testing"

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

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rule   Rule
		places int32
		want   string
	}{
		{"floor drops fraction", "135000.99", RuleFloor, 0, "135000"},
		{"floor keeps exact value", "135000", RuleFloor, 0, "135000"},
		{"floor truncates toward zero for negatives", "-10.7", RuleFloor, 0, "-10"},
		{"ceiling rounds up", "100.01", RuleCeiling, 0, "101"},
		{"ceiling exact value unchanged", "100.00", RuleCeiling, 0, "100"},
		{"ceiling truncates negatives toward zero", "-10.1", RuleCeiling, 0, "-10"},
		{"ceiling keeps negative credit at ceiling", "-33750.4", RuleCeiling, 0, "-33750"},
		{"ceiling exact negative unchanged", "-10", RuleCeiling, 0, "-10"},
		{"half up rounds .5 up", "10.5", RuleHalfUp, 0, "11"},
		{"half up rounds .4 down", "10.4", RuleHalfUp, 0, "10"},
		{"two decimal places", "600.005", RuleHalfUp, 2, "600.01"},
		{"usd conversion floor", "135000.5", RuleFloor, 0, "135000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(dec(tt.amount), tt.rule, tt.places)
			assert.True(t, got.Equal(dec(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	for _, rule := range []Rule{RuleFloor, RuleCeiling, RuleHalfUp} {
		once := Apply(dec("1234.567"), rule, 0)
		twice := Apply(once, rule, 0)
		assert.True(t, once.Equal(twice), "rule %s", rule)
	}
}

func TestParse(t *testing.T) {
	rule, err := Parse("floor")
	require.NoError(t, err)
	assert.Equal(t, RuleFloor, rule)

	_, err = Parse("banker")
	assert.Error(t, err)
}
