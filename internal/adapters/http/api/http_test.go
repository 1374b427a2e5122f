package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/wodboard/internal/adapters/http/api"
	"github.com/okian/wodboard/internal/adapters/repository"
	service "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/domain/types"
	"github.com/okian/wodboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type mockDependencies struct {
	board      types.Leaderboard
	lastLimit  int
	refreshErr error
	refreshes  int
}

func (m *mockDependencies) Leaderboard(_ context.Context, category string, limit int) (types.Leaderboard, error) {
	m.lastLimit = limit
	if category != m.board.Category {
		return types.Leaderboard{}, fmt.Errorf("%w: %q", repository.ErrUnknownCategory, category)
	}
	return m.board, nil
}

func (m *mockDependencies) Rank(_ context.Context, category, name string) (types.Standing, error) {
	for _, st := range m.board.Standings {
		if st.Name == name && category == m.board.Category {
			return st, nil
		}
	}
	return types.Standing{}, fmt.Errorf("%w: %q", repository.ErrNotFound, name)
}

func (m *mockDependencies) EventResults(_ context.Context, eventID, category string) (types.EventResults, error) {
	if eventID != "1" || category != m.board.Category {
		return types.EventResults{}, repository.ErrNotFound
	}
	return types.EventResults{EventID: "1", Category: category, NextRank: 2, Results: []types.EventResult{{Name: "Amy"}}}, nil
}

func (m *mockDependencies) Workouts(_ context.Context) []types.Workout {
	return []types.Workout{{EventID: "1", Description: "AMRAP 12"}}
}

func (m *mockDependencies) Refresh(_ context.Context) (types.RefreshReport, error) {
	m.refreshes++
	if errors.Is(m.refreshErr, service.ErrRefreshInProgress) || errors.Is(m.refreshErr, service.ErrNotStarted) {
		return types.RefreshReport{}, m.refreshErr
	}
	if m.refreshErr != nil {
		return types.RefreshReport{Outcome: "failed"}, m.refreshErr
	}
	return types.RefreshReport{Outcome: "ok", SnapshotID: "snap"}, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newDeps() *mockDependencies {
	return &mockDependencies{board: types.Leaderboard{
		Category: "men",
		Events:   []string{"1"},
		Standings: []types.Standing{
			{Rank: 1, Name: "Amy", Category: "men", Points: 1},
			{Rank: 2, Name: "Bob", Category: "men", Points: 2},
		},
	}}
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := newDeps()
		server, err := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}},
			api.WithRefreshRateLimit("2-M"),
		)
		So(err, ShouldBeNil)
		h := server.Router(context.Background())

		Convey("Then health responds with ok", func() {
			w := do(h, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("Then metrics are exposed", func() {
			_ = do(h, http.MethodGet, "/healthz")
			w := do(h, http.MethodGet, "/metrics")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "wodboard_leaderboard_http_requests_total")
		})

		Convey("Then stats are served", func() {
			w := do(h, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then a leaderboard is served", func() {
			w := do(h, http.MethodGet, "/leaderboard/men")
			So(w.Code, ShouldEqual, http.StatusOK)

			var lb types.Leaderboard
			So(json.Unmarshal(w.Body.Bytes(), &lb), ShouldBeNil)
			So(len(lb.Standings), ShouldEqual, 2)
			So(deps.lastLimit, ShouldEqual, 0)
		})

		Convey("Then a limit is passed through and validated", func() {
			So(do(h, http.MethodGet, "/leaderboard/men?limit=1").Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 1)
			So(do(h, http.MethodGet, "/leaderboard/men?limit=0").Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodGet, "/leaderboard/men?limit=abc").Code, ShouldEqual, http.StatusBadRequest)

			w := do(h, http.MethodGet, "/leaderboard/men?limit=5000")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "limit_exceeded")
		})

		Convey("Then unknown categories are 404", func() {
			w := do(h, http.MethodGet, "/leaderboard/kids")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "not_found")
		})

		Convey("Then a competitor can be looked up", func() {
			w := do(h, http.MethodGet, "/leaderboard/men/Bob")
			So(w.Code, ShouldEqual, http.StatusOK)
			var st types.Standing
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st.Rank, ShouldEqual, 2)

			So(do(h, http.MethodGet, "/leaderboard/men/Nobody").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then names with spaces are unescaped", func() {
			deps.board.Standings = append(deps.board.Standings, types.Standing{Rank: 3, Name: "Jo Smith", Category: "men"})
			So(do(h, http.MethodGet, "/leaderboard/men/Jo%20Smith").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then event tables and workouts are served", func() {
			So(do(h, http.MethodGet, "/events/1/men").Code, ShouldEqual, http.StatusOK)
			So(do(h, http.MethodGet, "/events/9/men").Code, ShouldEqual, http.StatusNotFound)

			w := do(h, http.MethodGet, "/workouts")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "AMRAP 12")
		})

		Convey("Then unknown routes are 404 and wrong methods 405", func() {
			So(do(h, http.MethodGet, "/unknown").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/refresh").Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("Then refresh is rate limited", func() {
			So(do(h, http.MethodPost, "/refresh").Code, ShouldEqual, http.StatusOK)
			w := do(h, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("X-RateLimit-Remaining"), ShouldEqual, "0")

			w = do(h, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(w.Body.String(), ShouldContainSubstring, "rate_limited")
			So(deps.refreshes, ShouldEqual, 2)
		})

		Convey("Then a failed refresh answers 503 with its report", func() {
			deps.refreshErr = errors.New("no event data available")
			w := do(h, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, `"outcome":"failed"`)
		})

		Convey("Then an overlapping refresh answers 409", func() {
			deps.refreshErr = service.ErrRefreshInProgress
			w := do(h, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusConflict)
			So(w.Body.String(), ShouldContainSubstring, "refresh_in_progress")
		})

		Convey("Then a refresh before start answers 503", func() {
			deps.refreshErr = service.ErrNotStarted
			w := do(h, http.MethodPost, "/refresh")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, "unavailable")
		})

		Convey("Then CORS headers are set for browser origins", func() {
			req := httptest.NewRequest(http.MethodGet, "/leaderboard/men", nil)
			req.Header.Set("Origin", "https://example.org")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldNotBeEmpty)
		})
	})

	Convey("Given a malformed rate limit", t, func() {
		_, err := api.NewServer(newDeps(), &mockStatsProvider{}, api.WithRefreshRateLimit("lots"))

		Convey("Then the server is not built", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given operation errors", t, func() {
		cause := errors.New("boom")

		Convey("Then kinds and causes are both visible", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then Wrap keeps the cause and ignores nil", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			err := api.Wrap("api.op", repository.ErrNotFound)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(strings.HasPrefix(err.Error(), "api.op: "), ShouldBeTrue)
		})

		Convey("Then NewKind has no cause", func() {
			err := api.NewKind("api.op", api.ErrRateLimited)
			So(errors.Is(err, api.ErrRateLimited), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: rate limited")
		})
	})
}
