package source

import (
	"net/http"
	"time"

	"github.com/okian/wodboard/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithTimeout bounds a single fetch, both file and HTTP.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithMaxBodyBytes caps the size of a single source. Larger sources fail
// with ErrParse.
func WithMaxBodyBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBody = n
		}
	}
}

// WithHTTPClient replaces the client used for http(s) locations.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithBreaker trips a per-host circuit breaker after failures consecutive
// failed HTTP fetches and keeps it open for cooldown. Zero failures disables it.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(l *Loader) {
		l.breakerFailures = failures
		if cooldown > 0 {
			l.breakerCooldown = cooldown
		}
	}
}
