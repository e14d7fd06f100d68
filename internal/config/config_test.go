package config_test

import (
	"errors"
	"testing"

	"github.com/okian/talentscope/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.TrendEpsilon, convey.ShouldEqual, 0.3)
			convey.So(cfg.TrendWindow, convey.ShouldEqual, 1)
			convey.So(cfg.MaxCandidateLimit, convey.ShouldEqual, 100)
			convey.So(cfg.SeedFile, convey.ShouldBeEmpty)
			convey.So(cfg.Metrics.Enabled, convey.ShouldBeTrue)
			convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "talentscope")
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range fields", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":       func(c *config.Config) { c.Addr = " " },
			"negative epsilon": func(c *config.Config) { c.TrendEpsilon = -0.1 },
			"zero window":      func(c *config.Config) { c.TrendWindow = 0 },
			"zero limit":       func(c *config.Config) { c.MaxCandidateLimit = 0 },
			"unknown format":   func(c *config.Config) { c.LogFormat = "xml" },
			"zero refresh":     func(c *config.Config) { c.Metrics.RefreshInterval = 0 },
			"empty namespace":  func(c *config.Config) { c.Metrics.Namespace = "" },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+name+" should be rejected as invalid config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then a zero epsilon should be accepted", func() {
			cfg := config.New()
			cfg.TrendEpsilon = 0
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
