package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/wodboard/internal/config"
	"github.com/okian/wodboard/internal/domain/scoring"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Categories, convey.ShouldResemble, []string{"men", "women"})
			convey.So(cfg.FetchWorkers, convey.ShouldEqual, 4)
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.RefreshRateLimit, convey.ShouldEqual, "6-M")
			convey.So(cfg.FetchBreakerFailures, convey.ShouldEqual, 3)
			convey.So(cfg.FetchBreakerCooldown(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.RefreshSchedule, convey.ShouldBeEmpty)
			convey.So(cfg.Events, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestEventConfig_Rules(t *testing.T) {
	convey.Convey("Given event configs", t, func() {
		convey.Convey("When the policy is mixed with a time cap", func() {
			rules, err := config.EventConfig{ID: "2", Policy: "mixed", TiebreakCap: "12:00"}.Rules()

			convey.Convey("Then the cap is converted to seconds", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rules.Policy, convey.ShouldEqual, scoring.PolicyMixed)
				convey.So(rules.HasTiebreakCap, convey.ShouldBeTrue)
				convey.So(rules.TiebreakCap, convey.ShouldEqual, 720)
			})
		})

		convey.Convey("When the policy is unknown", func() {
			_, err := config.EventConfig{ID: "3", Policy: "fastest"}.Rules()

			convey.Convey("Then it is an invalid config", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the cap is not a clock", func() {
			_, err := config.EventConfig{ID: "4", Policy: "count", TiebreakCap: "twelve"}.Rules()

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "tiebreak_cap")
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with bad events", t, func() {
		convey.Convey("Then duplicate ids are rejected", func() {
			cfg := config.New()
			cfg.Events = []config.EventConfig{
				{ID: "1", Source: "a.csv", Policy: "time"},
				{ID: "1", Source: "b.csv", Policy: "count"},
			}
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "duplicate")
		})

		convey.Convey("Then a missing source is rejected", func() {
			cfg := config.New()
			cfg.Events = []config.EventConfig{{ID: "1", Policy: "time"}}
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("Then cron schedules are checked", func() {
			cfg := config.New()
			cfg.RefreshSchedule = "@every 30s"
			convey.So(cfg.Validate(), convey.ShouldBeNil)

			cfg.RefreshSchedule = "*/5 * * * *"
			convey.So(cfg.Validate(), convey.ShouldBeNil)

			cfg.RefreshSchedule = "every tuesday"
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "refresh_schedule")
		})

		convey.Convey("Then negative breaker settings are rejected", func() {
			cfg := config.New()
			cfg.FetchBreakerFailures = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Then categories equal after case folding are rejected", func() {
			cfg := config.New()
			cfg.Categories = []string{"men", "Men"}
			err := cfg.Validate()
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "duplicate category")

			cfg.Categories = []string{"men", " "}
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Then empty categories are rejected", func() {
			cfg := config.New()
			cfg.Categories = nil
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
