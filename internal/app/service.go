// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	workerpool "github.com/okian/wodboard/internal/adapters/mq/worker"
	repository "github.com/okian/wodboard/internal/adapters/repository"
	"github.com/okian/wodboard/internal/adapters/source"
	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/internal/domain/model"
	"github.com/okian/wodboard/internal/domain/normalize"
	"github.com/okian/wodboard/internal/domain/ranking"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/okian/wodboard/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// Refresh outcomes, also used as metric labels.
const (
	OutcomeOK      = "ok"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"
)

// Loader reads event results and workout descriptions from a location.
type Loader interface {
	Rows(ctx context.Context, location string) ([]model.RawRow, error)
	Workouts(ctx context.Context, location string) ([]model.Workout, error)
}

// Service implements the API dependencies for the leaderboard system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.SnapshotStore
	loader     Loader
	pool       *workerpool.Pool
	normalizer *normalize.Normalizer

	// Configuration
	events          []config.EventConfig
	categories      []string
	workoutsSource  string
	workerCount     int
	fetchTimeout    time.Duration
	breakerFailures uint32
	breakerCooldown time.Duration
	refreshInterval time.Duration
	refreshSchedule string

	// State
	started      bool
	stopCh       chan struct{}
	wg           sync.WaitGroup
	refreshMu    sync.Mutex
	workouts     []model.Workout
	lastReport   types.RefreshReport
	lastRefresh  time.Time
	refreshCount int

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		categories:      []string{"men", "women"},
		workerCount:     4,
		fetchTimeout:    5 * time.Second,
		breakerFailures: 3,
		breakerCooldown: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.store = repository.NewSnapshotStore(repository.WithCategories(s.categories...))
	return s
}

// Start builds the components, runs a first refresh and, when a schedule or an
// interval is configured, keeps refreshing in the background until ctx ends or Stop is called.
// A failed first refresh is logged, not returned: events may come online later.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.started {
		s.mu.Unlock()
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	for _, ev := range s.events {
		if _, err := ev.Rules(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
		}
	}

	var schedule cron.Schedule
	if s.refreshSchedule != "" {
		sched, err := cron.ParseStandard(s.refreshSchedule)
		if err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, s.refreshSchedule, err)
		}
		schedule = sched
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	if s.loader == nil {
		s.loader = source.NewLoader(
			source.WithTimeout(s.fetchTimeout),
			source.WithBreaker(s.breakerFailures, s.breakerCooldown),
			source.WithLogger(s.logger.Named("source")),
		)
	}
	s.normalizer = normalize.New(
		normalize.WithCategories(s.categories),
		normalize.WithLogger(s.logger.Named("normalize")),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.loader, workerpool.WithPoolLogger(s.logger.Named("worker-pool")))
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.started = true
	s.mu.Unlock()

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed", logger.Error(err))
	}

	switch {
	case schedule != nil:
		c := cron.New()
		c.Schedule(schedule, cron.FuncJob(func() { s.scheduledRefresh(ctx) }))
		c.Start()
		s.wg.Add(1)
		go s.cronLoop(ctx, stopCh, c)
	case s.refreshInterval > 0:
		s.wg.Add(1)
		go s.refreshLoop(ctx, stopCh)
	}

	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("events", len(s.events)),
		logger.Strings("categories", s.categories),
		logger.Int("workers", s.workerCount),
		logger.String("refreshInterval", s.refreshInterval.String()),
		logger.String("refreshSchedule", s.refreshSchedule),
	)
	return nil
}

// refreshLoop recomputes the boards on every tick.
func (s *Service) refreshLoop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.scheduledRefresh(ctx)
		}
	}
}

// cronLoop keeps the cron scheduler running until ctx ends or Stop is called,
// then waits for a running refresh to finish.
func (s *Service) cronLoop(ctx context.Context, stopCh <-chan struct{}, c *cron.Cron) {
	defer s.wg.Done()
	select {
	case <-ctx.Done():
	case <-stopCh:
	}
	<-c.Stop().Done()
}

func (s *Service) scheduledRefresh(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrRefreshInProgress) && !errors.Is(err, ErrNotStarted) {
		s.logger.Warn(ctx, "scheduled refresh failed", logger.Error(err))
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.logger.Info(context.Background(), "stopping leaderboard service...")

	close(s.stopCh)
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Refresh fetches every event source, recomputes all boards and publishes them.
// Events whose source fails are left out. When every event fails the previous
// boards stay in place and ErrNoEventData is returned.
func (s *Service) Refresh(ctx context.Context) (types.RefreshReport, error) {
	if !s.refreshMu.TryLock() {
		return types.RefreshReport{}, ErrRefreshInProgress
	}
	defer s.refreshMu.Unlock()

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return types.RefreshReport{}, ErrNotStarted
	}

	start := time.Now()
	report := types.RefreshReport{Events: make([]types.EventStatus, 0, len(s.events))}

	jobs := make([]workerpool.Job, 0, len(s.events))
	for _, ev := range s.events {
		jobs = append(jobs, workerpool.Job{EventID: ev.ID, Location: ev.Source})
	}
	results := s.pool.Run(ctx, jobs)

	inputs := make([]ranking.EventInput, 0, len(s.events))
	available := 0
	for i, ev := range s.events {
		res := results[i]
		rules, _ := ev.Rules() // checked in Start
		status := types.EventStatus{EventID: ev.ID, Available: res.Err == nil, Rows: len(res.Rows)}
		if res.Err != nil {
			status.Error = res.Err.Error()
		} else {
			available++
		}
		report.Events = append(report.Events, status)
		inputs = append(inputs, ranking.EventInput{ID: ev.ID, Rules: rules, Rows: res.Rows, Available: res.Err == nil})
	}

	s.loadWorkouts(ctx)

	finish := func(outcome string, err error) (types.RefreshReport, error) {
		report.Outcome = outcome
		report.DurationMs = time.Since(start).Milliseconds()
		metrics.RecordRefresh(outcome, float64(report.DurationMs), time.Now().Unix())
		if err != nil {
			metrics.RecordErrorByComponent("service", "refresh")
		}
		s.mu.Lock()
		s.lastReport = report
		s.refreshCount++
		if err == nil {
			s.lastRefresh = time.Now()
		}
		s.mu.Unlock()
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return finish(OutcomeFailed, fmt.Errorf("refresh: %w", err))
	}
	if len(s.events) > 0 && available == 0 {
		return finish(OutcomeFailed, ErrNoEventData)
	}

	categories := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, model.NormalizeCategory(c))
	}
	boards := ranking.Compute(ctx, s.normalizer, categories, inputs)
	if err := s.store.Save(ctx, boards...); err != nil {
		return finish(OutcomeFailed, fmt.Errorf("refresh: %w", err))
	}
	if len(boards) > 0 {
		report.SnapshotID = boards[0].SnapshotID
		report.Rejected = len(boards[0].Rejected)
	}

	outcome := OutcomeOK
	if available < len(s.events) {
		outcome = OutcomePartial
	}
	s.logger.Info(ctx, "leaderboards refreshed",
		logger.String("snapshot", report.SnapshotID),
		logger.String("outcome", outcome),
		logger.Int("available", available),
		logger.Int("events", len(s.events)),
		logger.Int("rejected", report.Rejected),
	)
	return finish(outcome, nil)
}

// loadWorkouts refreshes the workout descriptions, keeping the old ones on failure.
func (s *Service) loadWorkouts(ctx context.Context) {
	if s.workoutsSource == "" {
		return
	}
	ws, err := s.loader.Workouts(ctx, s.workoutsSource)
	if err != nil {
		metrics.RecordErrorByComponent("service", "workouts")
		s.logger.Warn(ctx, "workouts unavailable", logger.String("location", s.workoutsSource), logger.Error(err))
		return
	}
	s.mu.Lock()
	s.workouts = ws
	s.mu.Unlock()
}

// Leaderboard returns the ranked board of a category. A positive limit keeps
// only the first limit standings; ties straddling the cut are not extended.
func (s *Service) Leaderboard(ctx context.Context, category string, limit int) (types.Leaderboard, error) {
	b, err := s.store.Board(ctx, model.NormalizeCategory(category))
	if err != nil {
		return types.Leaderboard{}, err
	}
	if limit > 0 && limit < len(b.Standings) {
		b.Standings = b.Standings[:limit]
	}
	return types.NewLeaderboard(b), nil
}

// Rank returns one competitor's standing.
func (s *Service) Rank(ctx context.Context, category, name string) (types.Standing, error) {
	st, err := s.store.Rank(ctx, model.NormalizeCategory(category), name)
	if err != nil {
		return types.Standing{}, err
	}
	return types.NewStanding(st), nil
}

// EventResults returns the ranked table of one event in one category.
func (s *Service) EventResults(ctx context.Context, eventID, category string) (types.EventResults, error) {
	b, err := s.store.Board(ctx, model.NormalizeCategory(category))
	if err != nil {
		return types.EventResults{}, err
	}
	table, ok := b.Tables[eventID]
	if !ok {
		return types.EventResults{}, fmt.Errorf("%w: event %q", repository.ErrNotFound, eventID)
	}
	return types.NewEventResults(b.Category, table), nil
}

// Workouts returns the workout descriptions of the last successful load.
func (s *Service) Workouts(_ context.Context) []types.Workout {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.NewWorkouts(s.workouts)
}

// LastReport returns the report of the most recent refresh.
func (s *Service) LastReport() types.RefreshReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"events":      len(s.events),
		"categories":  s.categories,
		"refreshes":   s.refreshCount,
		"competitors": s.store.Count(ctx),
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.UTC().Format(time.RFC3339)
	}
	if s.lastReport.Outcome != "" {
		stats["lastOutcome"] = s.lastReport.Outcome
		unavailable := make([]string, 0)
		for _, ev := range s.lastReport.Events {
			if !ev.Available {
				unavailable = append(unavailable, ev.EventID)
			}
		}
		stats["unavailableEvents"] = unavailable
	}
	return stats
}
