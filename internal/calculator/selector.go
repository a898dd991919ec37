package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// TieBreak decides between pairings with identical ROI
type TieBreak string

const (
	// TieBreakFirstSeen keeps the earliest pairing in left-major iteration order.
	// The result then depends on the order the quotes were supplied in.
	TieBreakFirstSeen TieBreak = "first_seen"
	// TieBreakBookmaker prefers the alphabetically smaller normalized left, then right, bookmaker
	TieBreakBookmaker TieBreak = "bookmaker"
)

// Selector picks the most profitable pairing across two quote lists
type Selector struct {
	TieBreak TieBreak
}

// Select evaluates every left × right pairing and returns the one with the highest ROI,
// or nil when no pairing has a combined implied probability below 1.
func (s Selector) Select(left, right []models.Quote) *models.Opportunity {
	var best *models.Opportunity

	for _, l := range left {
		oddsLeft := QuoteOdds(l)
		if !validOdds(oddsLeft) {
			continue
		}
		for _, r := range right {
			oddsRight := QuoteOdds(r)
			if !validOdds(oddsRight) {
				continue
			}

			sum := inverseSum(oddsLeft, oddsRight)
			if sum.GreaterThanOrEqual(one) {
				continue
			}

			roi := one.Div(sum).Sub(one)
			if best != nil && !s.better(roi, l, r, best) {
				continue
			}

			l.Odds, l.Side = oddsLeft, models.SideLeft
			r.Odds, r.Side = oddsRight, models.SideRight
			best = &models.Opportunity{
				Left:                  l,
				Right:                 r,
				ImpliedProbabilitySum: sum,
				MarketPercentage:      sum.Mul(hundred),
				ROI:                   roi,
			}
		}
	}

	return best
}

func (s Selector) better(roi decimal.Decimal, l, r models.Quote, best *models.Opportunity) bool {
	switch roi.Cmp(best.ROI) {
	case 1:
		return true
	case -1:
		return false
	}

	if s.TieBreak != TieBreakBookmaker {
		return false
	}

	ln, bl := NormalizeBookmaker(l.Bookmaker), NormalizeBookmaker(best.Left.Bookmaker)
	if ln != bl {
		return ln < bl
	}
	return NormalizeBookmaker(r.Bookmaker) < NormalizeBookmaker(best.Right.Bookmaker)
}

// Select runs the first-seen selector over two quote lists
func Select(left, right []models.Quote) *models.Opportunity {
	return Selector{TieBreak: TieBreakFirstSeen}.Select(left, right)
}

// SelectBestPair filters the market with the given policy and selects its best pairing
func SelectBestPair(market models.Market, policy FilterPolicy) *models.Opportunity {
	left, right := Filter(market, policy)
	return Select(left, right)
}
