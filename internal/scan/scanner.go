// Package scan evaluates a whole odds board: every market is filtered, its best pair
// selected and an example stake plan attached, then the survivors are ranked by ROI.
package scan

import (
	"context"
	"slices"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ExampleStakes configures the target-window plan attached to each ranked opportunity
type ExampleStakes struct {
	Enabled      bool
	TargetProfit decimal.Decimal
	ProfitWindow decimal.Decimal
	Step         decimal.Decimal
	MaxTotalCap  decimal.Decimal
}

// DefaultExampleStakes mirrors the promotional post defaults: $20 target, $10 window, $5 steps
func DefaultExampleStakes() ExampleStakes {
	return ExampleStakes{
		Enabled:      true,
		TargetProfit: decimal.NewFromInt(20),
		ProfitWindow: decimal.NewFromInt(10),
		Step:         decimal.NewFromInt(5),
		MaxTotalCap:  decimal.NewFromInt(5000),
	}
}

// Scanner ranks arbitrage opportunities across many markets
type Scanner struct {
	Policy    calculator.FilterPolicy
	Selector  calculator.Selector
	Optimizer calculator.Optimizer
	Example   ExampleStakes

	// Workers bounds concurrent market evaluations; <= 0 means one
	Workers int
	// MinROIPct drops opportunities below this ROI, in percent
	MinROIPct decimal.Decimal
	// Bookmakers, when set, keeps only opportunities whose both legs use a listed bookmaker
	Bookmakers []string
}

// Scan evaluates markets concurrently and returns the qualifying opportunities ranked by
// ROI, highest first. Equal ROIs keep input order. Only context cancellation is an error.
func (s Scanner) Scan(ctx context.Context, markets []models.Market) ([]models.RankedOpportunity, error) {
	results := make([]*models.RankedOpportunity, len(markets))

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, market := range markets {
		i, market := i, market
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = s.evaluate(market)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]models.RankedOpportunity, 0, len(results))
	for _, r := range results {
		if r != nil {
			ranked = append(ranked, *r)
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.RankedOpportunity) int {
		return b.Opportunity.ROI.Cmp(a.Opportunity.ROI)
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked, nil
}

func (s Scanner) evaluate(market models.Market) *models.RankedOpportunity {
	left, right := calculator.Filter(market, s.Policy)
	opp := s.Selector.Select(left, right)
	if opp == nil {
		return nil
	}

	roiPct := opp.ROI.Mul(decimal.NewFromInt(100))
	if roiPct.LessThan(s.MinROIPct) {
		return nil
	}
	if !s.allowed(opp.Left.Bookmaker) || !s.allowed(opp.Right.Bookmaker) {
		return nil
	}

	ranked := &models.RankedOpportunity{
		MarketID:    market.ID,
		Sport:       market.Sport,
		Game:        market.Game,
		Market:      market.Market,
		Start:       market.Start,
		Opportunity: *opp,
		ROIPercent:  roiPct.StringFixed(2),
	}

	if s.Example.Enabled {
		ranked.ExampleStakes = s.Optimizer.TargetWindow(
			opp.Left.Odds, opp.Right.Odds,
			s.Example.TargetProfit, s.Example.ProfitWindow,
			s.Example.Step, s.Example.MaxTotalCap,
		)
	}

	return ranked
}

func (s Scanner) allowed(bookmaker string) bool {
	if len(s.Bookmakers) == 0 {
		return true
	}
	name := calculator.NormalizeBookmaker(bookmaker)
	for _, b := range s.Bookmakers {
		if calculator.NormalizeBookmaker(b) == name {
			return true
		}
	}
	return false
}
