package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/arb-calculator/internal/scan"
	"github.com/shopspring/decimal"
)

// Config holds service configuration
type Config struct {
	LogLevel  string          `toml:"log_level"`
	Server    ServerConfig    `toml:"server"`
	Filter    FilterConfig    `toml:"filter"`
	Optimizer OptimizerConfig `toml:"optimizer"`
	Scan      ScanConfig      `toml:"scan"`
}

// duration wraps time.Duration so TOML strings like "30s" decode
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// ServerConfig holds HTTP server parameters
type ServerConfig struct {
	Port           int      `toml:"port"`
	ReadTimeout    duration `toml:"read_timeout"`
	WriteTimeout   duration `toml:"write_timeout"`
	RequestTimeout duration `toml:"request_timeout"`
	CORSOrigins    []string `toml:"cors_origins"`
}

// FilterConfig holds the quote filter and selector policy
type FilterConfig struct {
	PlaceholderTokens []string `toml:"placeholder_tokens"`
	InPlayPatterns    []string `toml:"in_play_patterns"`
	FlaggedBookmakers []string `toml:"flagged_bookmakers"`
	MaxAgencies       int      `toml:"max_agencies"`
	MinOppositeShare  float64  `toml:"min_opposite_share"`
	TieBreak          string   `toml:"tie_break"`
}

// OptimizerConfig holds stake search bounds and request defaults
type OptimizerConfig struct {
	AllowedSteps   []int64 `toml:"allowed_steps"`
	DefaultStep    int64   `toml:"default_step"`
	CappedSpan     int64   `toml:"capped_span"`
	LockedRadius   int     `toml:"locked_radius"`
	TargetPadBelow int     `toml:"target_pad_below"`
	TargetPadAbove int     `toml:"target_pad_above"`
	MaxTotalCap    float64 `toml:"max_total_cap"`
	TargetProfit   float64 `toml:"target_profit"`
	ProfitWindow   float64 `toml:"profit_window"`
}

// ScanConfig holds board scan parameters
type ScanConfig struct {
	Workers          int      `toml:"workers"`
	MinROIPct        float64  `toml:"min_roi_pct"`
	NotifyBookmakers []string `toml:"notify_bookmakers"`
	ExampleStakes    bool     `toml:"example_stakes"`
	ExampleStep      int64    `toml:"example_step"`
}

// Defaults returns a Config populated with the built-in values
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:           8085,
			ReadTimeout:    duration{10 * time.Second},
			WriteTimeout:   duration{10 * time.Second},
			RequestTimeout: duration{30 * time.Second},
			CORSOrigins:    []string{"http://localhost:3000", "http://localhost:3001"},
		},
		Filter: FilterConfig{
			PlaceholderTokens: append([]string(nil), calculator.DefaultPlaceholderTokens...),
			InPlayPatterns:    append([]string(nil), calculator.DefaultInPlayPatterns...),
			MaxAgencies:       2,
			MinOppositeShare:  0.5,
			TieBreak:          string(calculator.TieBreakFirstSeen),
		},
		Optimizer: OptimizerConfig{
			AllowedSteps:   []int64{1, 5, 10},
			DefaultStep:    10,
			CappedSpan:     200,
			LockedRadius:   6,
			TargetPadBelow: 20,
			TargetPadAbove: 40,
			MaxTotalCap:    5000,
			TargetProfit:   20,
			ProfitWindow:   10,
		},
		Scan: ScanConfig{
			Workers:       4,
			MinROIPct:     0,
			ExampleStakes: true,
			ExampleStep:   5,
		},
	}
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every configuration problem at once
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RequestTimeout.Duration <= 0 {
		errs = append(errs, "server: request_timeout must be positive")
	}

	for _, p := range c.Filter.InPlayPatterns {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Sprintf("filter: in_play_patterns: %v", err))
		}
	}
	if c.Filter.MaxAgencies < 0 {
		errs = append(errs, "filter: max_agencies must not be negative")
	}
	if c.Filter.MinOppositeShare < 0 || c.Filter.MinOppositeShare > 1 {
		errs = append(errs, fmt.Sprintf("filter: min_opposite_share must be within [0, 1], got %g", c.Filter.MinOppositeShare))
	}
	switch calculator.TieBreak(c.Filter.TieBreak) {
	case calculator.TieBreakFirstSeen, calculator.TieBreakBookmaker:
	default:
		errs = append(errs, fmt.Sprintf("filter: unknown tie_break %q (valid: first_seen, bookmaker)", c.Filter.TieBreak))
	}

	if len(c.Optimizer.AllowedSteps) == 0 {
		errs = append(errs, "optimizer: allowed_steps must not be empty")
	}
	for _, s := range c.Optimizer.AllowedSteps {
		if s <= 0 {
			errs = append(errs, fmt.Sprintf("optimizer: allowed step %d must be positive", s))
		}
	}
	if !c.StepAllowed(decimal.NewFromInt(c.Optimizer.DefaultStep)) {
		errs = append(errs, fmt.Sprintf("optimizer: default_step %d is not in allowed_steps", c.Optimizer.DefaultStep))
	}
	if c.Optimizer.CappedSpan < 0 {
		errs = append(errs, "optimizer: capped_span must not be negative (0 scans the full range)")
	}
	if c.Optimizer.LockedRadius < 3 || c.Optimizer.LockedRadius > 6 {
		errs = append(errs, fmt.Sprintf("optimizer: locked_radius must be 3-6, got %d", c.Optimizer.LockedRadius))
	}
	if c.Optimizer.TargetPadBelow < 0 || c.Optimizer.TargetPadAbove < 0 {
		errs = append(errs, "optimizer: target pads must not be negative")
	}
	if c.Optimizer.MaxTotalCap <= 0 {
		errs = append(errs, "optimizer: max_total_cap must be positive")
	}
	if c.Optimizer.TargetProfit <= 0 {
		errs = append(errs, "optimizer: target_profit must be positive")
	}
	if c.Optimizer.ProfitWindow < 0 {
		errs = append(errs, "optimizer: profit_window must not be negative")
	}

	if c.Scan.Workers <= 0 {
		errs = append(errs, "scan: workers must be positive")
	}
	if c.Scan.ExampleStakes && c.Scan.ExampleStep <= 0 {
		errs = append(errs, "scan: example_step must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// StepAllowed reports whether step is one of the configured rounding steps
func (c *Config) StepAllowed(step decimal.Decimal) bool {
	for _, s := range c.Optimizer.AllowedSteps {
		if step.Equal(decimal.NewFromInt(s)) {
			return true
		}
	}
	return false
}

// FilterPolicy builds the quote filter policy
func (c *Config) FilterPolicy() (calculator.FilterPolicy, error) {
	anomaly := calculator.AnomalyRule{
		FlaggedBookmakers: c.Filter.FlaggedBookmakers,
		MaxAgencies:       c.Filter.MaxAgencies,
		MinOppositeShare:  decimal.NewFromFloat(c.Filter.MinOppositeShare),
	}
	policy, err := calculator.NewFilterPolicy(c.Filter.PlaceholderTokens, c.Filter.InPlayPatterns, anomaly)
	if err != nil {
		return calculator.FilterPolicy{}, fmt.Errorf("building filter policy: %w", err)
	}
	return policy, nil
}

// Selector builds the best-pair selector
func (c *Config) Selector() calculator.Selector {
	return calculator.Selector{TieBreak: calculator.TieBreak(c.Filter.TieBreak)}
}

// StakeOptimizer builds the stake optimizer
func (c *Config) StakeOptimizer() calculator.Optimizer {
	return calculator.Optimizer{
		CappedSpan:     decimal.NewFromInt(c.Optimizer.CappedSpan),
		LockedRadius:   c.Optimizer.LockedRadius,
		TargetPadBelow: c.Optimizer.TargetPadBelow,
		TargetPadAbove: c.Optimizer.TargetPadAbove,
	}
}

// Scanner builds the board scanner around an already-built filter policy
func (c *Config) Scanner(policy calculator.FilterPolicy) scan.Scanner {
	return scan.Scanner{
		Policy:    policy,
		Selector:  c.Selector(),
		Optimizer: c.StakeOptimizer(),
		Example: scan.ExampleStakes{
			Enabled:      c.Scan.ExampleStakes,
			TargetProfit: decimal.NewFromFloat(c.Optimizer.TargetProfit),
			ProfitWindow: decimal.NewFromFloat(c.Optimizer.ProfitWindow),
			Step:         decimal.NewFromInt(c.Scan.ExampleStep),
			MaxTotalCap:  decimal.NewFromFloat(c.Optimizer.MaxTotalCap),
		},
		Workers:    c.Scan.Workers,
		MinROIPct:  decimal.NewFromFloat(c.Scan.MinROIPct),
		Bookmakers: c.Scan.NotifyBookmakers,
	}
}
