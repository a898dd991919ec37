package models

import "github.com/shopspring/decimal"

// Side identifies one of the two mutually exclusive outcomes of a market
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Quote is a single bookmaker price on one side of a market
type Quote struct {
	Bookmaker string          `json:"bookmaker"`
	Side      Side            `json:"side"`
	Odds      decimal.Decimal `json:"odds"`               // Decimal odds
	American  *int            `json:"american,omitempty"` // Optional, used when odds is absent
}

// Market is a two-way odds table as supplied by the data source
type Market struct {
	ID          string  `json:"id"`
	Sport       string  `json:"sport"`
	Game        string  `json:"game"`
	Market      string  `json:"market"`
	LeftLabel   string  `json:"left_label"`
	RightLabel  string  `json:"right_label"`
	Start       string  `json:"start"`        // Free-text event time, e.g. "Sun 17 Aug 16:40" or "Started"
	AgencyCount int     `json:"agency_count"` // 0 = derive from quotes
	LeftQuotes  []Quote `json:"left_quotes"`
	RightQuotes []Quote `json:"right_quotes"`
}

// Opportunity is the most profitable legal pairing found in a market
type Opportunity struct {
	Left                  Quote           `json:"left"`
	Right                 Quote           `json:"right"`
	ImpliedProbabilitySum decimal.Decimal `json:"implied_probability_sum"`
	MarketPercentage      decimal.Decimal `json:"market_percentage"`
	ROI                   decimal.Decimal `json:"roi"` // Fraction, 0.025 = 2.5%
}

// StakePlan is a concrete stake allocation across both legs
type StakePlan struct {
	StakeLeft   decimal.Decimal `json:"stake_left"`
	StakeRight  decimal.Decimal `json:"stake_right"`
	PayoutLeft  decimal.Decimal `json:"payout_left"`
	PayoutRight decimal.Decimal `json:"payout_right"`
	TotalStake  decimal.Decimal `json:"total_stake"`
	MinPayout   decimal.Decimal `json:"min_payout"`
	Profit      decimal.Decimal `json:"profit"`
	ROIPercent  decimal.Decimal `json:"roi_pct"`
}

// BestPairRequest is the request body for best-pair selection
type BestPairRequest struct {
	Market Market `json:"market"`
}

// BestPairResponse carries the selected opportunity, or null when none exists
type BestPairResponse struct {
	Opportunity   *Opportunity `json:"opportunity"`
	FilteredLeft  []Quote      `json:"filtered_left"`
	FilteredRight []Quote      `json:"filtered_right"`
}

// StakeRequest is the request body for stake optimization in any mode
type StakeRequest struct {
	Mode         string          `json:"mode"` // capped, locked, target
	OddsLeft     decimal.Decimal `json:"odds_left"`
	OddsRight    decimal.Decimal `json:"odds_right"`
	Step         decimal.Decimal `json:"step"`
	MaxTotal     decimal.Decimal `json:"max_total"`     // capped
	LockedSide   Side            `json:"locked_side"`   // locked
	LockedStake  decimal.Decimal `json:"locked_stake"`  // locked
	TargetProfit decimal.Decimal `json:"target_profit"` // target
	ProfitWindow *decimal.Decimal `json:"profit_window,omitempty"` // target; nil = service default, 0 = exact target
	MaxTotalCap  decimal.Decimal `json:"max_total_cap"` // target
}

// StakeResponse carries the plan, or null when the mode found no feasible allocation
type StakeResponse struct {
	Mode string     `json:"mode"`
	Plan *StakePlan `json:"plan"`
}

// ScanRequest is the request body for a board scan
type ScanRequest struct {
	Markets    []Market         `json:"markets"`
	MinROIPct  *decimal.Decimal `json:"min_roi_pct,omitempty"`
	Bookmakers []string         `json:"bookmakers,omitempty"`
}

// RankedOpportunity is one row of a board scan
type RankedOpportunity struct {
	Rank          int         `json:"rank"`
	MarketID      string      `json:"market_id"`
	Sport         string      `json:"sport"`
	Game          string      `json:"game"`
	Market        string      `json:"market"`
	Start         string      `json:"start"`
	Opportunity   Opportunity `json:"opportunity"`
	ROIPercent    string      `json:"roi_pct"`
	ExampleStakes *StakePlan  `json:"example_stakes,omitempty"`
}

// ScanResponse is the ranked output of a board scan
type ScanResponse struct {
	Items []RankedOpportunity `json:"items"`
	Total int                 `json:"total"`
}
