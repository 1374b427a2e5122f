package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	app "github.com/okian/wodboard/internal/app"
	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a config with one local event", t, func() {
		dir := t.TempDir()
		event := writeFile(t, dir, "event1.csv", "category,name,division,score,tiebreak\nmen,Amy,rx,5:00,\nmen,Bob,rx,4:30,\n")

		cfg := config.New()
		cfg.RefreshIntervalS = 0
		cfg.RefreshRateLimit = "1-M"
		cfg.Events = []config.EventConfig{{ID: "1", Source: event, Policy: "time"}}
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		svc := app.New(app.WithConfig(cfg), app.WithLogger(logger.Get()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When the HTTP server is built", func() {
			srv, err := newHTTPServer(ctx, cfg, svc, logger.Get())
			convey.So(err, convey.ShouldBeNil)
			convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)

			convey.Convey("Then the leaderboard is served", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaderboard/men", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"name":"Bob"`)
			})

			convey.Convey("Then the configured refresh limit applies", func() {
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				w = httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/refresh", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusTooManyRequests)
			})
		})

		convey.Convey("When the rate limit is malformed", func() {
			cfg.RefreshRateLimit = "often"
			_, err := newHTTPServer(ctx, cfg, svc, logger.Get())

			convey.Convey("Then the server is not built", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then it returns once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
