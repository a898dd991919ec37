package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// CappedTotal finds the step-aligned split with the best guaranteed profit whose total
// does not exceed maxTotal. Candidate totals run from the largest step multiple under the
// cap downwards; each is split for equal payouts, rounded, then repaired to sum to the
// total. Allocations that would lose money are never returned.
func (o Optimizer) CappedTotal(oddsLeft, oddsRight, maxTotal, step decimal.Decimal) *models.StakePlan {
	if !validOdds(oddsLeft) || !validOdds(oddsRight) || !step.IsPositive() || !maxTotal.IsPositive() {
		return ZeroPlan()
	}

	start := floorToStep(maxTotal, step)
	if start.LessThan(step) {
		return ZeroPlan()
	}

	stop := step
	if o.CappedSpan.IsPositive() {
		stop = decimal.Max(stop, start.Sub(o.CappedSpan))
	}

	sum := inverseSum(oddsLeft, oddsRight)

	var best *Candidate
	for total := start; total.GreaterThanOrEqual(stop); total = total.Sub(step) {
		c := splitTotal(oddsLeft, oddsRight, sum, total, step)
		if c.Profit.IsNegative() {
			continue
		}
		if best == nil || rankCapped(c, *best) > 0 {
			best = &c
		}
	}

	if best == nil {
		return ZeroPlan()
	}
	return best.Plan()
}

// rankCapped breaks score ties in favour of the larger total
func rankCapped(a, b Candidate) int {
	if c := compare(a, b); c != 0 {
		return c
	}
	return a.Total.Cmp(b.Total)
}

// splitTotal rounds the equal-payout split of total to step multiples and repairs the
// sum one step at a time, always touching the leg that keeps the guaranteed payout highest.
func splitTotal(oddsLeft, oddsRight, sum, total, step decimal.Decimal) Candidate {
	payout := total.Div(sum)
	stakeLeft := roundToStep(payout.Div(oddsLeft), step)
	stakeRight := roundToStep(payout.Div(oddsRight), step)

	minPayout := func(l, r decimal.Decimal) decimal.Decimal {
		return decimal.Min(l.Mul(oddsLeft), r.Mul(oddsRight))
	}

shave:
	for stakeLeft.Add(stakeRight).GreaterThan(total) {
		canLeft := stakeLeft.GreaterThanOrEqual(step)
		canRight := stakeRight.GreaterThanOrEqual(step)
		switch {
		case canLeft && canRight:
			if minPayout(stakeLeft.Sub(step), stakeRight).GreaterThanOrEqual(minPayout(stakeLeft, stakeRight.Sub(step))) {
				stakeLeft = stakeLeft.Sub(step)
			} else {
				stakeRight = stakeRight.Sub(step)
			}
		case canLeft:
			stakeLeft = stakeLeft.Sub(step)
		case canRight:
			stakeRight = stakeRight.Sub(step)
		default:
			break shave
		}
	}

	for stakeLeft.Add(stakeRight).LessThan(total) {
		if minPayout(stakeLeft.Add(step), stakeRight).GreaterThanOrEqual(minPayout(stakeLeft, stakeRight.Add(step))) {
			stakeLeft = stakeLeft.Add(step)
		} else {
			stakeRight = stakeRight.Add(step)
		}
	}

	return Score(oddsLeft, oddsRight, stakeLeft, stakeRight)
}
