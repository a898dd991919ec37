package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges an optional TOML file over Defaults(), then a .env file, then ARB_*
// environment variables. An empty path or a missing file leaves the defaults in place.
// The result is not validated; call Validate afterwards.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.LogLevel, "ARB_LOG_LEVEL")

	setInt(&cfg.Server.Port, "ARB_SERVICE_PORT")
	setDuration(&cfg.Server.ReadTimeout, "ARB_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "ARB_WRITE_TIMEOUT")
	setDuration(&cfg.Server.RequestTimeout, "ARB_REQUEST_TIMEOUT")
	setStringSlice(&cfg.Server.CORSOrigins, "ARB_CORS_ORIGINS")

	setStringSlice(&cfg.Filter.PlaceholderTokens, "ARB_PLACEHOLDER_TOKENS")
	setStringSlice(&cfg.Filter.FlaggedBookmakers, "ARB_FLAGGED_BOOKMAKERS")
	setInt(&cfg.Filter.MaxAgencies, "ARB_ANOMALY_MAX_AGENCIES")
	setFloat64(&cfg.Filter.MinOppositeShare, "ARB_ANOMALY_MIN_OPPOSITE_SHARE")
	setStr(&cfg.Filter.TieBreak, "ARB_TIE_BREAK")

	setInt64Slice(&cfg.Optimizer.AllowedSteps, "ARB_ALLOWED_STEPS")
	setInt64(&cfg.Optimizer.DefaultStep, "ARB_DEFAULT_STEP")
	setInt64(&cfg.Optimizer.CappedSpan, "ARB_CAPPED_SPAN")
	setInt(&cfg.Optimizer.LockedRadius, "ARB_LOCKED_RADIUS")
	setFloat64(&cfg.Optimizer.MaxTotalCap, "ARB_MAX_TOTAL_CAP")
	setFloat64(&cfg.Optimizer.TargetProfit, "ARB_TARGET_PROFIT")
	setFloat64(&cfg.Optimizer.ProfitWindow, "ARB_PROFIT_WINDOW")

	setInt(&cfg.Scan.Workers, "ARB_SCAN_WORKERS")
	setFloat64(&cfg.Scan.MinROIPct, "ARB_ROI_THRESHOLD_PCT")
	setStringSlice(&cfg.Scan.NotifyBookmakers, "ARB_NOTIFY_BOOKMAKERS")
	setBool(&cfg.Scan.ExampleStakes, "ARB_EXAMPLE_STAKES")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

func setInt64Slice(dst *[]int64, key string) {
	var raw []string
	setStringSlice(&raw, key)
	if len(raw) == 0 {
		return
	}
	out := make([]int64, 0, len(raw))
	for _, r := range raw {
		n, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			return
		}
		out = append(out, n)
	}
	*dst = out
}
