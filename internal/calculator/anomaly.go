package calculator

import (
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// AnomalyRule flags a side's best price as a probable data-entry glitch when it comes
// from a flagged bookmaker and the rest of the table does not corroborate it.
//
// The best quote on a side is excluded when its bookmaker is flagged and either
//   - the table lists at most MaxAgencies distinct bookmakers, or
//   - it is the only bookmaker on its side profitable against the opposite best price,
//     while at least MinOppositeShare of the opposite side's bookmakers are profitable
//     against it.
//
// The thresholds and the flagged list come from configuration.
type AnomalyRule struct {
	FlaggedBookmakers []string
	MaxAgencies       int
	MinOppositeShare  decimal.Decimal
}

// DefaultAnomalyRule returns the thresholds with no flagged bookmakers
func DefaultAnomalyRule() AnomalyRule {
	return AnomalyRule{
		MaxAgencies:      2,
		MinOppositeShare: decimal.NewFromFloat(0.5),
	}
}

// Enabled reports whether any bookmaker is flagged
func (r AnomalyRule) Enabled() bool {
	return len(r.FlaggedBookmakers) > 0
}

func (r AnomalyRule) flagged(bookmaker string) bool {
	name := NormalizeBookmaker(bookmaker)
	for _, f := range r.FlaggedBookmakers {
		if NormalizeBookmaker(f) == name {
			return true
		}
	}
	return false
}

// Excluded returns the index of the quote to drop on each side, or -1 to keep the side intact.
// Both sides are judged against the same, unmodified table.
func (r AnomalyRule) Excluded(left, right []models.Quote, agencyCount int) (int, int) {
	if !r.Enabled() {
		return -1, -1
	}
	return r.suspect(left, right, agencyCount), r.suspect(right, left, agencyCount)
}

func (r AnomalyRule) suspect(side, opposite []models.Quote, agencyCount int) int {
	bi := bestQuote(side)
	if bi < 0 {
		return -1
	}
	best := side[bi]
	if !r.flagged(best.Bookmaker) {
		return -1
	}

	// Thin table: nothing to corroborate the price
	if agencyCount <= r.MaxAgencies {
		return bi
	}

	oi := bestQuote(opposite)
	if oi < 0 {
		return -1
	}

	// The flagged bookmaker must be the only one on its side beating the opposite best
	need := BreakevenOdds(QuoteOdds(opposite[oi]))
	bestOdds := QuoteOdds(best)
	if bestOdds.LessThan(need) {
		return -1
	}
	name := NormalizeBookmaker(best.Bookmaker)
	for _, q := range side {
		if NormalizeBookmaker(q.Bookmaker) != name && QuoteOdds(q).GreaterThanOrEqual(need) {
			return -1
		}
	}

	// ...while the opposite side broadly profits against it
	counterNeed := BreakevenOdds(bestOdds)
	all := make(map[string]struct{})
	profitable := make(map[string]struct{})
	for _, q := range opposite {
		n := NormalizeBookmaker(q.Bookmaker)
		all[n] = struct{}{}
		if QuoteOdds(q).GreaterThanOrEqual(counterNeed) {
			profitable[n] = struct{}{}
		}
	}

	share := r.MinOppositeShare.Mul(decimal.NewFromInt(int64(len(all))))
	if decimal.NewFromInt(int64(len(profitable))).GreaterThanOrEqual(share) {
		return bi
	}
	return -1
}

// bestQuote returns the index of the highest usable price, first seen on ties
func bestQuote(quotes []models.Quote) int {
	bi := -1
	var best decimal.Decimal
	for i, q := range quotes {
		odds := QuoteOdds(q)
		if !validOdds(odds) {
			continue
		}
		if bi < 0 || odds.GreaterThan(best) {
			bi, best = i, odds
		}
	}
	return bi
}
