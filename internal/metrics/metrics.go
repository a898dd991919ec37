// Package metrics provides Prometheus metrics for the arb calculator.
package metrics

import (
	"strconv"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculatorMetrics collects request, selection and stake-plan metrics.
type CalculatorMetrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	SelectionsTotal *prometheus.CounterVec
	OpportunityROI  prometheus.Histogram

	StakePlansTotal *prometheus.CounterVec
	PlanProfit      *prometheus.HistogramVec

	ScanMarkets       prometheus.Histogram
	ScanOpportunities prometheus.Histogram
}

// NewCalculatorMetrics creates a collector backed by its own registry.
func NewCalculatorMetrics() *CalculatorMetrics {
	cm := &CalculatorMetrics{
		registry: prometheus.NewRegistry(),

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arb_calculator_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arb_calculator_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"route"},
		),

		SelectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arb_calculator_selections_total",
				Help: "Best-pair selections by outcome",
			},
			[]string{"outcome"},
		),
		OpportunityROI: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arb_calculator_opportunity_roi_pct",
				Help:    "ROI of selected opportunities in percent",
				Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 8, 13, 20},
			},
		),

		StakePlansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arb_calculator_stake_plans_total",
				Help: "Stake plans by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		PlanProfit: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arb_calculator_plan_profit",
				Help:    "Guaranteed profit of computed stake plans",
				Buckets: []float64{-50, -10, 0, 5, 10, 20, 30, 50, 100, 250},
			},
			[]string{"mode"},
		),

		ScanMarkets: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arb_calculator_scan_markets",
				Help:    "Markets submitted per board scan",
				Buckets: prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		ScanOpportunities: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arb_calculator_scan_opportunities",
				Help:    "Ranked opportunities returned per board scan",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
	}

	cm.registry.MustRegister(
		cm.RequestsTotal,
		cm.RequestDuration,
		cm.SelectionsTotal,
		cm.OpportunityROI,
		cm.StakePlansTotal,
		cm.PlanProfit,
		cm.ScanMarkets,
		cm.ScanOpportunities,
	)

	return cm
}

// Registry returns the registry to expose over /metrics.
func (cm *CalculatorMetrics) Registry() *prometheus.Registry {
	return cm.registry
}

// RecordRequest records a served HTTP request.
func (cm *CalculatorMetrics) RecordRequest(route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	cm.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	cm.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordSelection records the outcome of a best-pair selection.
func (cm *CalculatorMetrics) RecordSelection(opp *models.Opportunity) {
	if opp == nil {
		cm.SelectionsTotal.WithLabelValues("none").Inc()
		return
	}
	cm.SelectionsTotal.WithLabelValues("found").Inc()
	cm.OpportunityROI.Observe(opp.ROI.Mul(hundred).InexactFloat64())
}

// RecordStakePlan records a stake plan; a nil or empty plan counts as infeasible.
func (cm *CalculatorMetrics) RecordStakePlan(mode string, plan *models.StakePlan) {
	if plan == nil || !plan.TotalStake.IsPositive() {
		cm.StakePlansTotal.WithLabelValues(mode, "infeasible").Inc()
		return
	}
	cm.StakePlansTotal.WithLabelValues(mode, "planned").Inc()
	cm.PlanProfit.WithLabelValues(mode).Observe(plan.Profit.InexactFloat64())
}

// RecordScan records the size of a board scan and its result.
func (cm *CalculatorMetrics) RecordScan(markets, opportunities int) {
	cm.ScanMarkets.Observe(float64(markets))
	cm.ScanOpportunities.Observe(float64(opportunities))
}
