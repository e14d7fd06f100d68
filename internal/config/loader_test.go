package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/talentscope/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	config.EnvConfigFile,
	"TALENTSCOPE_ADDR",
	"TALENTSCOPE_LOG_LEVEL",
	"TALENTSCOPE_LOG_FORMAT",
	"TALENTSCOPE_SEED_FILE",
	"TALENTSCOPE_TREND_EPSILON",
	"TALENTSCOPE_TREND_WINDOW",
	"TALENTSCOPE_MAX_CANDIDATE_LIMIT",
	"TALENTSCOPE_METRICS_ENABLED",
	"TALENTSCOPE_METRICS_NAMESPACE",
	"TALENTSCOPE_METRICS_REFRESH_INTERVAL",
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("TALENTSCOPE_ADDR", ":8080")
			_ = os.Setenv("TALENTSCOPE_TREND_EPSILON", "0.5")
			_ = os.Setenv("TALENTSCOPE_TREND_WINDOW", "3")
			_ = os.Setenv("TALENTSCOPE_MAX_CANDIDATE_LIMIT", "25")
			_ = os.Setenv("TALENTSCOPE_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.TrendEpsilon, convey.ShouldEqual, 0.5)
				convey.So(cfg.TrendWindow, convey.ShouldEqual, 3)
				convey.So(cfg.MaxCandidateLimit, convey.ShouldEqual, 25)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
log_level: debug
seed_file: /data/seed.yaml
trend_epsilon: 0.25
trend_window: 2
metrics:
  namespace: scouting
  prefix: ts
  latency_buckets: [1, 5, 25]
  labels:
    region: north
`)
			_ = os.Setenv(config.EnvConfigFile, tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SeedFile, convey.ShouldEqual, "/data/seed.yaml")
				convey.So(cfg.TrendEpsilon, convey.ShouldEqual, 0.25)
				convey.So(cfg.TrendWindow, convey.ShouldEqual, 2)
				convey.So(cfg.MaxCandidateLimit, convey.ShouldEqual, 100)
			})

			convey.Convey("And the nested metrics section should be decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "scouting")
				convey.So(cfg.Metrics.Subsystem, convey.ShouldEqual, "evaluations")
				convey.So(cfg.Metrics.Prefix, convey.ShouldEqual, "ts")
				convey.So(cfg.Metrics.LatencyBuckets, convey.ShouldResemble, []float64{1, 5, 25})
				convey.So(cfg.Metrics.Labels, convey.ShouldResemble, map[string]string{"region": "north"})
				convey.So(cfg.Metrics.Enabled, convey.ShouldBeTrue)
			})

			convey.Convey("And env vars should take precedence over the file", func() {
				_ = os.Setenv("TALENTSCOPE_ADDR", ":7070")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.TrendWindow, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When metrics settings come from the environment", func() {
			_ = os.Setenv("TALENTSCOPE_METRICS_ENABLED", "false")
			_ = os.Setenv("TALENTSCOPE_METRICS_NAMESPACE", "scouting")
			_ = os.Setenv("TALENTSCOPE_METRICS_REFRESH_INTERVAL", "250ms")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they should map onto the metrics section", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Metrics.Enabled, convey.ShouldBeFalse)
				convey.So(cfg.Metrics.Namespace, convey.ShouldEqual, "scouting")
				convey.So(cfg.Metrics.RefreshInterval, convey.ShouldEqual, 250*time.Millisecond)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv(config.EnvConfigFile, "/nonexistent/talentscope.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should report a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file is malformed", func() {
			tmpFile := createTempConfigFile(t, "addr: [unclosed\n")
			_ = os.Setenv(config.EnvConfigFile, tmpFile)

			_, err := config.Load(ctx)

			convey.Convey("Then it should report a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a loaded value is out of range", func() {
			_ = os.Setenv("TALENTSCOPE_TREND_WINDOW", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then validation should reject it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "talentscope-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
