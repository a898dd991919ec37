package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// Candidate is a scored stake allocation
type Candidate struct {
	StakeLeft   decimal.Decimal
	StakeRight  decimal.Decimal
	PayoutLeft  decimal.Decimal
	PayoutRight decimal.Decimal
	Total       decimal.Decimal
	MinPayout   decimal.Decimal
	Profit      decimal.Decimal
	Diff        decimal.Decimal // |PayoutLeft - PayoutRight|
}

// Score evaluates a stake allocation: payouts, total outlay, guaranteed (minimum)
// payout, guaranteed profit and payout imbalance.
func Score(oddsLeft, oddsRight, stakeLeft, stakeRight decimal.Decimal) Candidate {
	payoutLeft := stakeLeft.Mul(oddsLeft)
	payoutRight := stakeRight.Mul(oddsRight)
	total := stakeLeft.Add(stakeRight)
	minPayout := decimal.Min(payoutLeft, payoutRight)

	return Candidate{
		StakeLeft:   stakeLeft,
		StakeRight:  stakeRight,
		PayoutLeft:  payoutLeft,
		PayoutRight: payoutRight,
		Total:       total,
		MinPayout:   minPayout,
		Profit:      minPayout.Sub(total),
		Diff:        payoutLeft.Sub(payoutRight).Abs(),
	}
}

// compare ranks a against b: higher profit first, then the more balanced payouts.
// Returns 1 when a ranks higher, -1 when lower, 0 on a tie.
func compare(a, b Candidate) int {
	if c := a.Profit.Cmp(b.Profit); c != 0 {
		return c
	}
	return b.Diff.Cmp(a.Diff)
}

// ROIPercent is profit over total outlay in percent, 0 for an empty allocation
func (c Candidate) ROIPercent() decimal.Decimal {
	if !c.Total.IsPositive() {
		return decimal.Zero
	}
	return c.Profit.Div(c.Total).Mul(hundred)
}

// Plan converts the candidate into its wire form
func (c Candidate) Plan() *models.StakePlan {
	return &models.StakePlan{
		StakeLeft:   c.StakeLeft,
		StakeRight:  c.StakeRight,
		PayoutLeft:  c.PayoutLeft,
		PayoutRight: c.PayoutRight,
		TotalStake:  c.Total,
		MinPayout:   c.MinPayout,
		Profit:      c.Profit,
		ROIPercent:  c.ROIPercent(),
	}
}

// ZeroPlan is the degenerate allocation returned for invalid or infeasible input
func ZeroPlan() *models.StakePlan {
	return Score(decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero).Plan()
}
