// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/normalize"
	"github.com/okian/wodboard/internal/domain/scoring"
)

// EventConfig describes one scored event and where its results live.
type EventConfig struct {
	// ID is the event identifier used in URLs and the workouts file, e.g. "1".
	ID string `koanf:"id"`

	// Source is a file path or http(s) URL of the event's result CSV.
	Source string `koanf:"source"`

	// Policy is one of time, count or mixed.
	Policy string `koanf:"policy"`

	// TiebreakCap, when set (M:SS), replaces a missing tiebreak for
	// count scores in this event.
	TiebreakCap string `koanf:"tiebreak_cap"`
}

// Rules converts the event's policy and cap into comparator rules.
func (e EventConfig) Rules() (scoring.Rules, error) {
	policy, err := scoring.ParsePolicy(e.Policy)
	if err != nil {
		return scoring.Rules{}, fmt.Errorf("%w: event %s: %v", ErrInvalidConfig, e.ID, err)
	}
	rules := scoring.Rules{Policy: policy}
	if capRaw := strings.TrimSpace(e.TiebreakCap); capRaw != "" {
		secs, ok := normalize.ParseClock(capRaw)
		if !ok {
			return scoring.Rules{}, fmt.Errorf("%w: event %s: tiebreak_cap %q is not M:SS", ErrInvalidConfig, e.ID, capRaw)
		}
		rules.TiebreakCap = secs
		rules.HasTiebreakCap = true
	}
	return rules, nil
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Categories lists the accepted competitor categories.
	Categories []string `koanf:"categories"`

	// Events lists the competition's events in display order.
	Events []EventConfig `koanf:"events"`

	// WorkoutsSource is a file path or URL of the workout descriptions CSV.
	WorkoutsSource string `koanf:"workouts_source"`

	// FetchWorkers sets the number of concurrent source fetchers.
	FetchWorkers int `koanf:"fetch_workers"`

	// FetchTimeoutMS bounds a single source fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchBreakerFailures trips a remote host's circuit breaker after this
	// many consecutive failed fetches; 0 disables breaking.
	FetchBreakerFailures int `koanf:"fetch_breaker_failures"`

	// FetchBreakerCooldownS keeps a tripped breaker open before probing again.
	FetchBreakerCooldownS int `koanf:"fetch_breaker_cooldown_s"`

	// RefreshIntervalS sets the background recompute period; 0 disables it.
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	// RefreshSchedule is a cron expression ("*/5 * * * *", "@every 30s").
	// When set it replaces RefreshIntervalS.
	RefreshSchedule string `koanf:"refresh_schedule"`

	// RefreshRateLimit caps POST /refresh, in limiter format ("6-M").
	RefreshRateLimit string `koanf:"refresh_rate_limit"`

	// AllowedOrigins lists CORS origins for browser front-ends.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":9080",
		Categories:            []string{"men", "women"},
		FetchWorkers:          4,
		FetchTimeoutMS:        5000,
		FetchBreakerFailures:  3,
		FetchBreakerCooldownS: 30,
		RefreshIntervalS:      60,
		RefreshRateLimit:      "6-M",
		AllowedOrigins:        []string{"*"},
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// FetchBreakerCooldown returns FetchBreakerCooldownS as a duration.
func (c *Config) FetchBreakerCooldown() time.Duration {
	return time.Duration(c.FetchBreakerCooldownS) * time.Second
}

// RefreshInterval returns RefreshIntervalS as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: at least one category is required", ErrInvalidConfig)
	}
	categories := make(map[model.Category]struct{}, len(c.Categories))
	for _, raw := range c.Categories {
		cat := model.NormalizeCategory(raw)
		if cat == "" {
			return fmt.Errorf("%w: category names must not be empty", ErrInvalidConfig)
		}
		if _, dup := categories[cat]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidConfig, raw)
		}
		categories[cat] = struct{}{}
	}
	if c.FetchWorkers < 0 || c.FetchTimeoutMS < 0 || c.RefreshIntervalS < 0 {
		return fmt.Errorf("%w: fetch_workers, fetch_timeout_ms and refresh_interval_s must not be negative", ErrInvalidConfig)
	}
	if c.FetchBreakerFailures < 0 || c.FetchBreakerCooldownS < 0 {
		return fmt.Errorf("%w: fetch breaker settings must not be negative", ErrInvalidConfig)
	}
	if expr := strings.TrimSpace(c.RefreshSchedule); expr != "" {
		if _, err := cron.ParseStandard(expr); err != nil {
			return fmt.Errorf("%w: refresh_schedule %q: %v", ErrInvalidConfig, expr, err)
		}
	}
	seen := make(map[string]struct{}, len(c.Events))
	for i, ev := range c.Events {
		if strings.TrimSpace(ev.ID) == "" {
			return fmt.Errorf("%w: events[%d]: id must not be empty", ErrInvalidConfig, i)
		}
		if _, dup := seen[ev.ID]; dup {
			return fmt.Errorf("%w: duplicate event id %q", ErrInvalidConfig, ev.ID)
		}
		seen[ev.ID] = struct{}{}
		if strings.TrimSpace(ev.Source) == "" {
			return fmt.Errorf("%w: event %s: source must not be empty", ErrInvalidConfig, ev.ID)
		}
		if _, err := ev.Rules(); err != nil {
			return err
		}
	}
	return nil
}
