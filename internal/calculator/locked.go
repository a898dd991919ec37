package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

const (
	minLockedRadius = 3
	maxLockedRadius = 6
)

// LockedLeg keeps lockedStake on the fixed leg exactly as given and solves the other leg:
// the equal-payout stake is rounded to a step multiple and its neighbours within the
// configured radius are scored. Only the other leg is ever adjusted, so the plan may show
// a loss when the odds carry no edge.
func (o Optimizer) LockedLeg(oddsFixed, oddsOther, lockedStake, step decimal.Decimal, lockedSide models.Side) *models.StakePlan {
	if !validOdds(oddsFixed) || !validOdds(oddsOther) || !step.IsPositive() || !lockedStake.IsPositive() {
		return ZeroPlan()
	}

	target := lockedStake.Mul(oddsFixed).Div(oddsOther)
	base := roundToStep(target, step)
	radius := o.lockedRadius()

	var (
		best     *Candidate
		bestDist decimal.Decimal
	)
	for k := -radius; k <= radius; k++ {
		other := base.Add(step.Mul(decimal.NewFromInt(int64(k))))
		if other.IsNegative() {
			continue
		}

		var c Candidate
		if lockedSide == models.SideRight {
			c = Score(oddsOther, oddsFixed, other, lockedStake)
		} else {
			c = Score(oddsFixed, oddsOther, lockedStake, other)
		}
		dist := other.Sub(target).Abs()

		if best == nil {
			best, bestDist = &c, dist
			continue
		}
		switch compare(c, *best) {
		case 1:
			best, bestDist = &c, dist
		case 0:
			if dist.LessThan(bestDist) {
				best, bestDist = &c, dist
			}
		}
	}

	return best.Plan()
}

func (o Optimizer) lockedRadius() int {
	switch {
	case o.LockedRadius <= 0:
		return maxLockedRadius
	case o.LockedRadius < minLockedRadius:
		return minLockedRadius
	case o.LockedRadius > maxLockedRadius:
		return maxLockedRadius
	}
	return o.LockedRadius
}
