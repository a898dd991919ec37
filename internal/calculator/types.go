package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// AmericanToDecimal converts American odds to decimal odds
func AmericanToDecimal(american int) decimal.Decimal {
	if american == 0 {
		return decimal.Zero
	}
	if american > 0 {
		return decimal.NewFromInt(int64(american)).Div(hundred).Add(one)
	}
	return hundred.Div(decimal.NewFromInt(int64(-american))).Add(one)
}

// QuoteOdds returns the decimal odds of a quote, falling back to its American price
func QuoteOdds(q models.Quote) decimal.Decimal {
	if q.Odds.IsPositive() {
		return q.Odds
	}
	if q.American != nil {
		return AmericanToDecimal(*q.American)
	}
	return decimal.Zero
}

// validOdds reports whether odds return more than the stake
func validOdds(odds decimal.Decimal) bool {
	return odds.GreaterThan(one)
}

// impliedProbability calculates implied probability from decimal odds
func impliedProbability(odds decimal.Decimal) decimal.Decimal {
	return one.Div(odds)
}

// inverseSum is the combined implied probability of a two-way pairing
func inverseSum(oddsLeft, oddsRight decimal.Decimal) decimal.Decimal {
	return impliedProbability(oddsLeft).Add(impliedProbability(oddsRight))
}

// BreakevenOdds is the minimum opposite price that guarantees profit against odds x: 1/(1-1/x)
func BreakevenOdds(x decimal.Decimal) decimal.Decimal {
	if !validOdds(x) {
		return decimal.Zero
	}
	return one.Div(one.Sub(impliedProbability(x)))
}

// roundToStep rounds x to the nearest multiple of step (halves away from zero)
func roundToStep(x, step decimal.Decimal) decimal.Decimal {
	return x.DivRound(step, 0).Mul(step)
}

// floorToStep and ceilToStep use the exact integer quotient; the remainder carries the sign of x
func floorToStep(x, step decimal.Decimal) decimal.Decimal {
	q, r := x.QuoRem(step, 0)
	if r.IsNegative() {
		q = q.Sub(one)
	}
	return q.Mul(step)
}

func ceilToStep(x, step decimal.Decimal) decimal.Decimal {
	q, r := x.QuoRem(step, 0)
	if r.IsPositive() {
		q = q.Add(one)
	}
	return q.Mul(step)
}
