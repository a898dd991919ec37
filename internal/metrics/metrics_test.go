package metrics_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestRecordStakePlan(t *testing.T) {
	m := metrics.NewCalculatorMetrics()

	m.RecordStakePlan("capped", &models.StakePlan{
		TotalStake: decimal.NewFromInt(990),
		Profit:     decimal.NewFromInt(35),
	})
	m.RecordStakePlan("capped", &models.StakePlan{})
	m.RecordStakePlan("target", nil)

	tests := []struct {
		mode    string
		outcome string
		want    float64
	}{
		{"capped", "planned", 1},
		{"capped", "infeasible", 1},
		{"target", "infeasible", 1},
		{"locked", "planned", 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(m.StakePlansTotal.WithLabelValues(tt.mode, tt.outcome))
		if got != tt.want {
			t.Errorf("stake_plans_total{%s,%s} = %v, want %v", tt.mode, tt.outcome, got, tt.want)
		}
	}
}

func TestRecordSelection(t *testing.T) {
	m := metrics.NewCalculatorMetrics()

	m.RecordSelection(nil)
	m.RecordSelection(&models.Opportunity{ROI: decimal.RequireFromString("0.037")})
	m.RecordSelection(&models.Opportunity{ROI: decimal.RequireFromString("0.012")})

	if got := testutil.ToFloat64(m.SelectionsTotal.WithLabelValues("found")); got != 2 {
		t.Errorf("found = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SelectionsTotal.WithLabelValues("none")); got != 1 {
		t.Errorf("none = %v, want 1", got)
	}
}

func TestRecordRequestUnmatchedRoute(t *testing.T) {
	m := metrics.NewCalculatorMetrics()

	m.RecordRequest("", 404, time.Millisecond)
	m.RecordRequest("/health", 200, time.Millisecond)

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("unmatched", "404")); got != 1 {
		t.Errorf("unmatched = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(m.RequestsTotal); n != 2 {
		t.Errorf("series = %d, want 2", n)
	}
}
