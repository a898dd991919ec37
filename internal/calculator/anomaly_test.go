package calculator_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
)

func flaggedRule() calculator.AnomalyRule {
	rule := calculator.DefaultAnomalyRule()
	rule.FlaggedBookmakers = []string{"BetRight"}
	return rule
}

func TestAnomalyRuleExcluded(t *testing.T) {
	tests := []struct {
		name      string
		rule      calculator.AnomalyRule
		left      []models.Quote
		right     []models.Quote
		agencies  int
		wantLeft  int
		wantRight int
	}{
		{
			name:      "thin table",
			rule:      flaggedRule(),
			left:      []models.Quote{quote("BetRight (AU)", "2.30")},
			right:     []models.Quote{quote("TAB", "1.90")},
			agencies:  2,
			wantLeft:  0,
			wantRight: -1,
		},
		{
			name:      "rule disabled without flagged bookmakers",
			rule:      calculator.DefaultAnomalyRule(),
			left:      []models.Quote{quote("BetRight", "2.30")},
			right:     []models.Quote{quote("TAB", "1.90")},
			agencies:  2,
			wantLeft:  -1,
			wantRight: -1,
		},
		{
			name: "lone profitable price against a broadly profitable side",
			rule: flaggedRule(),
			left: []models.Quote{
				quote("Sportsbet", "1.80"),
				quote("BetRight", "2.40"),
				quote("Neds", "1.85"),
			},
			right: []models.Quote{
				quote("TAB", "1.95"),
				quote("Unibet", "1.90"),
				quote("Ladbrokes", "1.70"),
			},
			agencies:  6,
			wantLeft:  1,
			wantRight: -1,
		},
		{
			name: "corroborated by another bookmaker",
			rule: flaggedRule(),
			left: []models.Quote{
				quote("Sportsbet", "1.80"),
				quote("BetRight", "2.40"),
				quote("Neds", "2.10"),
			},
			right: []models.Quote{
				quote("TAB", "1.95"),
				quote("Unibet", "1.90"),
				quote("Ladbrokes", "1.70"),
			},
			agencies:  6,
			wantLeft:  -1,
			wantRight: -1,
		},
		{
			name: "opposite side mostly unprofitable",
			rule: flaggedRule(),
			left: []models.Quote{
				quote("Sportsbet", "1.80"),
				quote("BetRight", "2.06"),
			},
			right: []models.Quote{
				quote("TAB", "1.95"),
				quote("Unibet", "1.60"),
				quote("Ladbrokes", "1.55"),
				quote("Bet365", "1.50"),
			},
			agencies:  6,
			wantLeft:  -1,
			wantRight: -1,
		},
		{
			name:      "flagged bookmaker is not the best price",
			rule:      flaggedRule(),
			left:      []models.Quote{quote("BetRight", "1.80"), quote("Sportsbet", "2.20")},
			right:     []models.Quote{quote("TAB", "1.95")},
			agencies:  2,
			wantLeft:  -1,
			wantRight: -1,
		},
		{
			name:      "flagged on the right side",
			rule:      flaggedRule(),
			left:      []models.Quote{quote("TAB", "1.90")},
			right:     []models.Quote{quote("BetRight", "2.30")},
			agencies:  2,
			wantLeft:  -1,
			wantRight: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotLeft, gotRight := tt.rule.Excluded(tt.left, tt.right, tt.agencies)
			if gotLeft != tt.wantLeft || gotRight != tt.wantRight {
				t.Errorf("Excluded() = (%d, %d), want (%d, %d)", gotLeft, gotRight, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestFilterAppliesAnomalyRule(t *testing.T) {
	policy := calculator.DefaultFilterPolicy()
	policy.Anomaly = flaggedRule()

	market := models.Market{
		Start: "Sun 17 Aug 16:40",
		LeftQuotes: []models.Quote{
			quote("Sportsbet", "1.80"),
			quote("BetRight", "2.40"),
			quote("Neds", "1.85"),
		},
		RightQuotes: []models.Quote{
			quote("TAB", "1.95"),
			quote("Unibet", "1.90"),
			quote("Ladbrokes", "1.70"),
		},
	}

	left, _ := calculator.Filter(market, policy)
	for _, q := range left {
		if q.Bookmaker == "BetRight" {
			t.Fatalf("suspicious BetRight price survived: %+v", left)
		}
	}
	if len(left) != 2 {
		t.Errorf("len(left) = %d, want 2 (rest of table kept)", len(left))
	}

	if opp := calculator.SelectBestPair(market, policy); opp != nil {
		t.Errorf("expected no opportunity once the glitch is removed, got %+v", opp)
	}
	if opp := calculator.SelectBestPair(market, calculator.DefaultFilterPolicy()); opp == nil || opp.Left.Bookmaker != "BetRight" {
		t.Errorf("without the rule BetRight/TAB should be selected, got %+v", opp)
	}
}

func TestFilterUsesMarketAgencyCount(t *testing.T) {
	policy := calculator.DefaultFilterPolicy()
	policy.Anomaly = flaggedRule()

	market := models.Market{
		AgencyCount: 2,
		LeftQuotes: []models.Quote{
			quote("Sportsbet", "1.80"),
			quote("BetRight", "2.06"),
		},
		RightQuotes: []models.Quote{
			quote("TAB", "1.95"),
			quote("Unibet", "1.60"),
		},
	}

	left, _ := calculator.Filter(market, policy)
	if len(left) != 1 || left[0].Bookmaker != "Sportsbet" {
		t.Errorf("left = %+v, want only Sportsbet", left)
	}
}
