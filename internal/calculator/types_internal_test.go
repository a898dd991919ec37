package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStepRoundingIsExact(t *testing.T) {
	tests := []struct {
		name string
		fn   func(x, step decimal.Decimal) decimal.Decimal
		x    string
		step string
		want string
	}{
		{"floor just under a multiple of 3", floorToStep, "29.99999999999999999", "3", "27"},
		{"ceil just under a multiple of 3", ceilToStep, "29.99999999999999999", "3", "30"},
		{"floor just over a multiple of 3", floorToStep, "30.00000000000000001", "3", "30"},
		{"ceil just over a multiple of 3", ceilToStep, "30.00000000000000001", "3", "33"},
		{"floor exact multiple", floorToStep, "30", "3", "30"},
		{"ceil exact multiple", ceilToStep, "30", "3", "30"},
		{"floor negative", floorToStep, "-0.5", "5", "-5"},
		{"ceil negative", ceilToStep, "-0.5", "5", "0"},
		{"round half away from zero", roundToStep, "7.5", "5", "10"},
		{"round just under half", roundToStep, "2.4999999999999999999", "5", "0"},
		{"round to step 1", roundToStep, "489.04", "1", "489"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(decimal.RequireFromString(tt.x), decimal.RequireFromString(tt.step))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
