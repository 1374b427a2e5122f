package source

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/okian/wodboard/pkg/logger"
	"github.com/okian/wodboard/pkg/metrics"
)

const (
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 30 * time.Second
)

// breakers keeps one circuit breaker per remote host, so a results site that is
// down is skipped until its cooldown passes instead of costing a full timeout on
// every refresh.
type breakers struct {
	mu       sync.Mutex
	byHost   map[string]*gobreaker.CircuitBreaker
	failures uint32
	cooldown time.Duration
	logger   logger.Logger
}

func newBreakers(failures uint32, cooldown time.Duration, log logger.Logger) *breakers {
	return &breakers{
		byHost:   make(map[string]*gobreaker.CircuitBreaker),
		failures: failures,
		cooldown: cooldown,
		logger:   log,
	}
}

// execute runs fn under the breaker of location's host. With failures set to
// zero breaking is disabled.
func (b *breakers) execute(location string, fn func() (interface{}, error)) (interface{}, error) {
	if b == nil || b.failures == 0 {
		return fn()
	}
	return b.get(hostOf(location)).Execute(fn)
}

func (b *breakers) get(host string) *gobreaker.CircuitBreaker {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cb, ok := b.byHost[host]; ok {
		return cb
	}
	failures := b.failures
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        host,
		MaxRequests: 1,
		Timeout:     b.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A refresh cancelled by shutdown says nothing about the host.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn(context.Background(), "source circuit breaker state changed",
				logger.String("host", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			if to == gobreaker.StateOpen {
				metrics.RecordErrorByComponent("source", "circuit_open")
			}
		},
	})
	b.byHost[host] = cb
	return cb
}

func hostOf(location string) string {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return location
	}
	return strings.ToLower(u.Host)
}
