package service

import (
	"strings"
	"time"

	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies every service setting found in cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		WithEvents(cfg.Events)(s)
		WithCategories(cfg.Categories)(s)
		WithWorkoutsSource(cfg.WorkoutsSource)(s)
		WithWorkerCount(cfg.FetchWorkers)(s)
		WithFetchTimeout(cfg.FetchTimeout())(s)
		WithBreaker(cfg.FetchBreakerFailures, cfg.FetchBreakerCooldown())(s)
		WithRefreshInterval(cfg.RefreshInterval())(s)
		WithRefreshSchedule(cfg.RefreshSchedule)(s)
	}
}

// WithEvents sets the scored events in display order.
func WithEvents(events []config.EventConfig) Option {
	return func(s *Service) {
		s.events = append([]config.EventConfig(nil), events...)
	}
}

// WithCategories sets the accepted competitor categories.
func WithCategories(categories []string) Option {
	return func(s *Service) {
		if len(categories) > 0 {
			s.categories = append([]string(nil), categories...)
		}
	}
}

// WithWorkoutsSource sets the location of the workouts file.
func WithWorkoutsSource(location string) Option {
	return func(s *Service) {
		s.workoutsSource = location
	}
}

// WithWorkerCount sets the number of concurrent source fetchers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithFetchTimeout bounds a single source fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithRefreshInterval enables periodic recomputation; zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithBreaker sets the per-host circuit breaker of remote sources; zero
// failures disables it.
func WithBreaker(failures int, cooldown time.Duration) Option {
	return func(s *Service) {
		if failures >= 0 {
			s.breakerFailures = uint32(failures)
		}
		if cooldown > 0 {
			s.breakerCooldown = cooldown
		}
	}
}

// WithRefreshSchedule sets a cron expression for background refreshes. It
// takes precedence over WithRefreshInterval.
func WithRefreshSchedule(expr string) Option {
	return func(s *Service) {
		s.refreshSchedule = strings.TrimSpace(expr)
	}
}

// WithLoader replaces the source loader, mainly for tests.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
