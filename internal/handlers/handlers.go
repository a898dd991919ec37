package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/config"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/metrics"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/scan"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 4 << 20

// Handler contains dependencies for HTTP handlers
type Handler struct {
	cfg       *config.Config
	policy    calculator.FilterPolicy
	selector  calculator.Selector
	optimizer calculator.Optimizer
	scanner   scan.Scanner
	metrics   *metrics.CalculatorMetrics
	logger    *slog.Logger
}

// NewHandler builds the engine components from configuration
func NewHandler(cfg *config.Config, m *metrics.CalculatorMetrics, logger *slog.Logger) (*Handler, error) {
	policy, err := cfg.FilterPolicy()
	if err != nil {
		return nil, err
	}

	return &Handler{
		cfg:       cfg,
		policy:    policy,
		selector:  cfg.Selector(),
		optimizer: cfg.StakeOptimizer(),
		scanner:   cfg.Scanner(policy),
		metrics:   m,
		logger:    logger,
	}, nil
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "arb-calculator",
	})
}

// SelectBestPair filters a market and returns its most profitable pairing
func (h *Handler) SelectBestPair(w http.ResponseWriter, r *http.Request) {
	var req models.BestPairRequest
	if !h.decode(w, r, &req) {
		return
	}

	left, right := calculator.Filter(req.Market, h.policy)
	opp := h.selector.Select(left, right)
	h.metrics.RecordSelection(opp)

	if opp != nil {
		h.logger.DebugContext(r.Context(), "best pair selected",
			slog.String("market_id", req.Market.ID),
			slog.String("left", opp.Left.Bookmaker),
			slog.String("right", opp.Right.Bookmaker),
			slog.String("roi", opp.ROI.StringFixed(6)),
		)
	}

	respondJSON(w, http.StatusOK, models.BestPairResponse{
		Opportunity:   opp,
		FilteredLeft:  nonNil(left),
		FilteredRight: nonNil(right),
	})
}

// CalculateStakes computes a stake plan in the requested mode
func (h *Handler) CalculateStakes(w http.ResponseWriter, r *http.Request) {
	var req models.StakeRequest
	if !h.decode(w, r, &req) {
		return
	}

	// Use defaults if not provided
	if req.Step.IsZero() {
		req.Step = decimal.NewFromInt(h.cfg.Optimizer.DefaultStep)
	}
	if !h.cfg.StepAllowed(req.Step) {
		h.reject(w, r, fmt.Sprintf("step %s is not allowed (allowed: %v)", req.Step, h.cfg.Optimizer.AllowedSteps))
		return
	}

	// Caller-supplied bounds never widen a search past the configured cap
	limit := decimal.NewFromFloat(h.cfg.Optimizer.MaxTotalCap)

	switch calculator.Mode(req.Mode) {
	case calculator.ModeCapped:
		if h.cfg.Optimizer.CappedSpan == 0 && req.MaxTotal.GreaterThan(limit) {
			h.reject(w, r, fmt.Sprintf("max_total %s exceeds the limit %s", req.MaxTotal, limit))
			return
		}
	case calculator.ModeLocked:
		if req.LockedSide != models.SideLeft && req.LockedSide != models.SideRight {
			h.reject(w, r, fmt.Sprintf("locked_side must be %q or %q", models.SideLeft, models.SideRight))
			return
		}
	case calculator.ModeTarget:
		if req.TargetProfit.IsZero() {
			req.TargetProfit = decimal.NewFromFloat(h.cfg.Optimizer.TargetProfit)
		}
		if req.ProfitWindow == nil {
			window := decimal.NewFromFloat(h.cfg.Optimizer.ProfitWindow)
			req.ProfitWindow = &window
		}
		if req.MaxTotalCap.IsZero() {
			req.MaxTotalCap = limit
		}
		if req.MaxTotalCap.GreaterThan(limit) {
			h.reject(w, r, fmt.Sprintf("max_total_cap %s exceeds the limit %s", req.MaxTotalCap, limit))
			return
		}
	}

	plan, err := h.optimizer.Optimize(req)
	if err != nil {
		if errors.Is(err, calculator.ErrUnknownMode) {
			h.reject(w, r, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("calculation error: %v", err))
		return
	}

	h.metrics.RecordStakePlan(req.Mode, plan)
	if plan != nil {
		h.logger.DebugContext(r.Context(), "stake plan computed",
			slog.String("mode", req.Mode),
			slog.String("total", plan.TotalStake.String()),
			slog.String("profit", plan.Profit.String()),
		)
	}

	respondJSON(w, http.StatusOK, models.StakeResponse{
		Mode: req.Mode,
		Plan: plan,
	})
}

// ScanBoard ranks the opportunities across a batch of markets
func (h *Handler) ScanBoard(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if !h.decode(w, r, &req) {
		return
	}

	scanner := h.scanner
	if req.MinROIPct != nil {
		scanner.MinROIPct = *req.MinROIPct
	}
	if len(req.Bookmakers) > 0 {
		scanner.Bookmakers = req.Bookmakers
	}

	items, err := scanner.Scan(r.Context(), req.Markets)
	if err != nil {
		h.logger.WarnContext(r.Context(), "scan aborted", slog.String("error", err.Error()))
		respondError(w, http.StatusServiceUnavailable, fmt.Sprintf("scan aborted: %v", err))
		return
	}

	h.metrics.RecordScan(len(req.Markets), len(items))
	h.logger.DebugContext(r.Context(), "board scanned",
		slog.Int("markets", len(req.Markets)),
		slog.Int("opportunities", len(items)),
	)

	respondJSON(w, http.StatusOK, models.ScanResponse{
		Items: nonNil(items),
		Total: len(items),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.reject(w, r, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, message string) {
	h.logger.WarnContext(r.Context(), "request rejected",
		slog.String("path", r.URL.Path),
		slog.String("reason", message),
	)
	respondError(w, http.StatusBadRequest, message)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
