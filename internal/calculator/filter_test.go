package calculator_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func quote(bookmaker, odds string) models.Quote {
	return models.Quote{Bookmaker: bookmaker, Odds: d(odds)}
}

func TestNormalizeBookmaker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sportsbet", "sportsbet"},
		{"Sportsbet (AU)", "sportsbet"},
		{"Bet 365 - Live", "bet365"},
		{"TAB(NSW)-fixed", "tab"},
		{"  Points Bet  ", "pointsbet"},
		{"Bétfair", "betfair"},
		{"BOOKMAKER", "bookmaker"},
		{"(hidden)", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := calculator.NormalizeBookmaker(tt.in); got != tt.want {
				t.Errorf("NormalizeBookmaker(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInPlay(t *testing.T) {
	policy := calculator.DefaultFilterPolicy()

	tests := []struct {
		start string
		want  bool
	}{
		{"Sun 17 Aug 16:40", false},
		{"2025-08-17 16:40", false},
		{"", false},
		{"In-Play", true},
		{"in play", true},
		{"LIVE", true},
		{"Started", true},
		{"Underway", true},
		{"Starts in 5m", true},
		{"5m 30s", true},
		{"12m", true},
		{"< 1 min", true},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			if got := policy.InPlay(tt.start); got != tt.want {
				t.Errorf("InPlay(%q) = %v, want %v", tt.start, got, tt.want)
			}
		})
	}
}

func TestFilterDropsPlaceholdersAndMalformedQuotes(t *testing.T) {
	american := 110
	market := models.Market{
		Start: "Sun 17 Aug 16:40",
		LeftQuotes: []models.Quote{
			quote("Bookmaker", "5.00"),
			quote("Sportsbet", "2.10"),
			quote("Neds", "1.00"),
			quote("", "2.50"),
		},
		RightQuotes: []models.Quote{
			quote("TAB", "2.05"),
			{Bookmaker: "PointsBet", American: &american},
		},
	}

	left, right := calculator.Filter(market, calculator.DefaultFilterPolicy())

	if len(left) != 1 || left[0].Bookmaker != "Sportsbet" {
		t.Fatalf("left = %+v, want only Sportsbet", left)
	}
	if left[0].Side != models.SideLeft {
		t.Errorf("left side = %q, want %q", left[0].Side, models.SideLeft)
	}

	if len(right) != 2 {
		t.Fatalf("right = %+v, want 2 quotes", right)
	}
	if !right[1].Odds.Equal(d("2.10")) {
		t.Errorf("american +110 converted to %s, want 2.1", right[1].Odds)
	}
}

func TestFilterDropsInPlayMarket(t *testing.T) {
	market := models.Market{
		Start:       "In Play",
		LeftQuotes:  []models.Quote{quote("Sportsbet", "2.10")},
		RightQuotes: []models.Quote{quote("TAB", "2.05")},
	}

	left, right := calculator.Filter(market, calculator.DefaultFilterPolicy())
	if len(left) != 0 || len(right) != 0 {
		t.Errorf("in-play market kept quotes: left=%v right=%v", left, right)
	}
}

func TestNewFilterPolicyRejectsBadPattern(t *testing.T) {
	if _, err := calculator.NewFilterPolicy(nil, []string{"("}, calculator.DefaultAnomalyRule()); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		american int
		want     string
	}{
		{110, "2.1"},
		{-200, "1.5"},
		{100, "2"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := calculator.AmericanToDecimal(tt.american); !got.Equal(d(tt.want)) {
			t.Errorf("AmericanToDecimal(%d) = %s, want %s", tt.american, got, tt.want)
		}
	}
}

func TestBreakevenOdds(t *testing.T) {
	// Against evens the breakeven is evens
	if got := calculator.BreakevenOdds(d("2")); !got.Equal(d("2")) {
		t.Errorf("BreakevenOdds(2) = %s, want 2", got)
	}
	if got := calculator.BreakevenOdds(d("1")); !got.IsZero() {
		t.Errorf("BreakevenOdds(1) = %s, want 0", got)
	}
}
