// Package config loads run settings from an optional .env file and the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yumyai/ppp-onestep/logger"
)

// Policy decides what happens when the external tool fails or the report has no blocks.
type Policy string

const (
	PolicyStrict  Policy = "strict"
	PolicyLenient Policy = "lenient"
)

const (
	EnvPepstats    = "PPP_PEPSTATS"
	EnvPolicy      = "PPP_POLICY"
	EnvLogLevel    = "PPP_LOG_LEVEL"
	EnvToolTimeout = "PPP_TOOL_TIMEOUT"

	DefaultPepstats = "pepstats"
	DefaultLogLevel = "info"
)

type Config struct {
	Pepstats    string
	Policy      Policy
	LogLevel    string
	ToolTimeout time.Duration
}

// ParsePolicy accepts "strict" or "lenient", case-insensitively. Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PolicyStrict):
		return PolicyStrict, nil
	case string(PolicyLenient):
		return PolicyLenient, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want strict or lenient)", s)
	}
}

// Load reads envFiles, then the process environment. Without envFiles a
// missing ./.env is fine; a file that was asked for by name must load.
// A missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {

	// Try load env
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		logger.Debug("No .env found, using local environment")
	}

	cfg := &Config{
		Pepstats: os.Getenv(EnvPepstats),
		LogLevel: os.Getenv(EnvLogLevel),
	}

	if cfg.Pepstats == "" {
		cfg.Pepstats = DefaultPepstats
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	policy, err := ParsePolicy(os.Getenv(EnvPolicy))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvPolicy, err)
	}
	cfg.Policy = policy

	if raw := os.Getenv(EnvToolTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvToolTimeout, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("%s: negative duration %s", EnvToolTimeout, raw)
		}
		cfg.ToolTimeout = d
	}

	logger.Debug("Loaded config",
		zap.String("pepstats", cfg.Pepstats),
		zap.String("policy", string(cfg.Policy)),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("tool_timeout", cfg.ToolTimeout),
	)

	return cfg, nil
}
