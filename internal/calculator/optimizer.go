package calculator

import (
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/pkg/models"
	"github.com/shopspring/decimal"
)

// Mode selects a stake optimization strategy
type Mode string

const (
	ModeCapped Mode = "capped"
	ModeLocked Mode = "locked"
	ModeTarget Mode = "target"
)

// ErrUnknownMode is returned when a request names no known strategy
var ErrUnknownMode = errors.New("unknown stake mode")

// Optimizer holds the search bounds shared by the stake strategies. The zero value
// is not useful; start from DefaultOptimizer.
type Optimizer struct {
	// CappedSpan is how far below the cap the capped search descends; zero scans down to one step
	CappedSpan decimal.Decimal
	// LockedRadius is the number of steps either side of the rounded target tried in locked mode
	LockedRadius int
	// TargetPadBelow and TargetPadAbove widen the target-window total band, in steps
	TargetPadBelow int
	TargetPadAbove int
}

// DefaultOptimizer returns the standard search bounds
func DefaultOptimizer() Optimizer {
	return Optimizer{
		CappedSpan:     decimal.NewFromInt(200),
		LockedRadius:   6,
		TargetPadBelow: 20,
		TargetPadAbove: 40,
	}
}

// StakeStrategy computes a plan for one mode. A nil plan means no feasible allocation.
type StakeStrategy interface {
	Plan(req models.StakeRequest) *models.StakePlan
}

type cappedStrategy struct{ o Optimizer }

func (s cappedStrategy) Plan(req models.StakeRequest) *models.StakePlan {
	return s.o.CappedTotal(req.OddsLeft, req.OddsRight, req.MaxTotal, req.Step)
}

type lockedStrategy struct{ o Optimizer }

func (s lockedStrategy) Plan(req models.StakeRequest) *models.StakePlan {
	if req.LockedSide == models.SideRight {
		return s.o.LockedLeg(req.OddsRight, req.OddsLeft, req.LockedStake, req.Step, models.SideRight)
	}
	return s.o.LockedLeg(req.OddsLeft, req.OddsRight, req.LockedStake, req.Step, models.SideLeft)
}

type targetStrategy struct{ o Optimizer }

func (s targetStrategy) Plan(req models.StakeRequest) *models.StakePlan {
	window := decimal.Zero
	if req.ProfitWindow != nil {
		window = *req.ProfitWindow
	}
	return s.o.TargetWindow(req.OddsLeft, req.OddsRight, req.TargetProfit, window, req.Step, req.MaxTotalCap)
}

// Strategy returns the strategy registered for mode
func (o Optimizer) Strategy(mode Mode) (StakeStrategy, error) {
	switch mode {
	case ModeCapped:
		return cappedStrategy{o}, nil
	case ModeLocked:
		return lockedStrategy{o}, nil
	case ModeTarget:
		return targetStrategy{o}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Optimize dispatches the request to its mode's strategy
func (o Optimizer) Optimize(req models.StakeRequest) (*models.StakePlan, error) {
	strategy, err := o.Strategy(Mode(req.Mode))
	if err != nil {
		return nil, err
	}
	return strategy.Plan(req), nil
}

// OptimizeCappedTotal runs the capped-total search with default bounds
func OptimizeCappedTotal(oddsLeft, oddsRight, maxTotal, step decimal.Decimal) *models.StakePlan {
	return DefaultOptimizer().CappedTotal(oddsLeft, oddsRight, maxTotal, step)
}

// OptimizeLockedLeg runs the locked-leg search with default bounds
func OptimizeLockedLeg(oddsFixed, oddsOther, lockedStake, step decimal.Decimal, lockedSide models.Side) *models.StakePlan {
	return DefaultOptimizer().LockedLeg(oddsFixed, oddsOther, lockedStake, step, lockedSide)
}

// OptimizeTargetWindow runs the target-profit-window search with default bounds
func OptimizeTargetWindow(oddsLeft, oddsRight, targetProfit, profitWindow, step, maxTotalCap decimal.Decimal) *models.StakePlan {
	return DefaultOptimizer().TargetWindow(oddsLeft, oddsRight, targetProfit, profitWindow, step, maxTotalCap)
}
