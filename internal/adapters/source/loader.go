// Package source loads competition CSV files from local paths or HTTP(S) URLs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/pkg/logger"
)

const (
	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 8 << 20
)

// Loader fetches and parses source files.
type Loader struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
	logger  logger.Logger

	breakerFailures uint32
	breakerCooldown time.Duration
	breakers        *breakers
}

// NewLoader creates a Loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:          &http.Client{},
		timeout:         defaultTimeout,
		maxBody:         maxBodyBytes,
		breakerFailures: defaultBreakerFailures,
		breakerCooldown: defaultBreakerCooldown,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("source")
	}
	l.breakers = newBreakers(l.breakerFailures, l.breakerCooldown, l.logger)
	return l
}

// Rows fetches an event result file and parses it into raw rows.
func (l *Loader) Rows(ctx context.Context, location string) ([]model.RawRow, error) {
	var rows []model.RawRow
	err := l.fetch(ctx, location, func(r io.Reader) error {
		var err error
		rows, err = ParseRows(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	l.logger.Debug(ctx, "loaded result rows", logger.String("location", location), logger.Int("rows", len(rows)))
	return rows, nil
}

// Workouts fetches and parses the workouts file.
func (l *Loader) Workouts(ctx context.Context, location string) ([]model.Workout, error) {
	var workouts []model.Workout
	err := l.fetch(ctx, location, func(r io.Reader) error {
		var err error
		workouts, err = ParseWorkouts(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

// fetch opens location under the loader timeout and hands the body to parse
// before the deadline is released.
func (l *Loader) fetch(ctx context.Context, location string, parse func(io.Reader) error) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	body, err := l.open(ctx, location)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	capped := &cappedReader{r: body, limit: l.maxBody}
	err = parse(capped)
	if capped.exceeded {
		return fmt.Errorf("%w: %s: larger than %d bytes", ErrParse, location, l.maxBody)
	}
	return err
}

// cappedReader fails the read that would go past limit instead of
// truncating, so a partial last row never reaches the parser.
type cappedReader struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded bool
}

var errBodyTooLarge = errors.New("source body too large")

func (c *cappedReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, errBodyTooLarge
	}
	if room := c.limit + 1 - c.read; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.limit {
		c.exceeded = true
		return 0, errBodyTooLarge
	}
	return n, err
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: empty location", ErrFetch)
	}
	if !isRemote(location) {
		f, err := os.Open(strings.TrimPrefix(location, "file://"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, location, err)
	}
	body, err := l.breakers.execute(location, func() (interface{}, error) {
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return resp.Body, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, location, err)
	}
	return body.(io.ReadCloser), nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
