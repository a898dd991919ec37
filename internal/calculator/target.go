package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// TargetWindow searches step-aligned stake pairs whose guaranteed profit lands in
// [targetProfit, targetProfit+profitWindow]. Among those it prefers the highest realised
// ROI, then the profit closest to the target, then the smallest total, then the pair seen
// first (ascending left stake). Returns nil when the odds carry no edge or nothing lands
// in the window.
func (o Optimizer) TargetWindow(oddsLeft, oddsRight, targetProfit, profitWindow, step, maxTotalCap decimal.Decimal) *models.StakePlan {
	if !validOdds(oddsLeft) || !validOdds(oddsRight) || !step.IsPositive() {
		return nil
	}
	if !targetProfit.IsPositive() || profitWindow.IsNegative() || !maxTotalCap.IsPositive() {
		return nil
	}

	theo := one.Div(inverseSum(oddsLeft, oddsRight)).Sub(one)
	if !theo.IsPositive() {
		return nil
	}

	upper := targetProfit.Add(profitWindow)
	padBelow := step.Mul(decimal.NewFromInt(int64(o.TargetPadBelow)))
	padAbove := step.Mul(decimal.NewFromInt(int64(o.TargetPadAbove)))
	minTotal := decimal.Max(step.Mul(decimal.NewFromInt(2)), floorToStep(targetProfit.Div(theo), step).Sub(padBelow))
	maxTotal := decimal.Min(maxTotalCap, ceilToStep(upper.Div(theo), step).Add(padAbove))

	// profit >= target needs both legs to clear it:
	//   stakeRight <= stakeLeft*(oddsLeft-1) - target
	//   stakeRight >= (stakeLeft + target) / (oddsRight-1)
	netLeft := oddsLeft.Sub(one)
	netRight := oddsRight.Sub(one)

	var (
		best     *Candidate
		bestROI  decimal.Decimal
		bestDist decimal.Decimal
	)
	for stakeLeft := step; stakeLeft.LessThanOrEqual(maxTotal.Sub(step)); stakeLeft = stakeLeft.Add(step) {
		lo := decimal.Max(step, minTotal.Sub(stakeLeft), ceilToStep(stakeLeft.Add(targetProfit).Div(netRight), step))
		hi := decimal.Min(maxTotal.Sub(stakeLeft), floorToStep(stakeLeft.Mul(netLeft).Sub(targetProfit), step))
		if lo.GreaterThan(hi) {
			continue
		}

		// Along a row ROI strictly rises with stakeRight until the payouts cross at pivot and
		// strictly falls after it, so only the largest stake under the window on the rising
		// side and the smallest on the falling side can win the row. Their neighbours cover
		// rounding at the window edge.
		pivot := stakeLeft.Mul(oddsLeft).Div(oddsRight)
		rising := floorToStep(decimal.Min(hi, pivot, stakeLeft.Add(upper).Div(netRight)), step)
		falling := ceilToStep(decimal.Max(lo, pivot, stakeLeft.Mul(netLeft).Sub(upper)), step)

		for _, stakeRight := range []decimal.Decimal{rising.Sub(step), rising, falling, falling.Add(step)} {
			if stakeRight.LessThan(lo) || stakeRight.GreaterThan(hi) {
				continue
			}

			c := Score(oddsLeft, oddsRight, stakeLeft, stakeRight)
			if c.Profit.LessThan(targetProfit) || c.Profit.GreaterThan(upper) {
				continue
			}

			roi := c.Profit.Div(c.Total)
			dist := c.Profit.Sub(targetProfit).Abs()
			if best == nil || targetBetter(roi, dist, c.Total, bestROI, bestDist, best.Total) {
				best, bestROI, bestDist = &c, roi, dist
			}
		}
	}

	if best == nil {
		return nil
	}
	return best.Plan()
}

func targetBetter(roi, dist, total, bestROI, bestDist, bestTotal decimal.Decimal) bool {
	if c := roi.Cmp(bestROI); c != 0 {
		return c > 0
	}
	if c := dist.Cmp(bestDist); c != 0 {
		return c < 0
	}
	return total.LessThan(bestTotal)
}
