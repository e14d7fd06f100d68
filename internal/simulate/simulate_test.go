package simulate

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/okian/talentscope/internal/adapters/http/api"
	"github.com/okian/talentscope/internal/adapters/seed"
	service "github.com/okian/talentscope/internal/app"
	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func startServer(opts ...service.Option) (*httptest.Server, func()) {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded generator", t, func() {
		cfg := (&Config{Players: 6, EvaluationsPerPlayer: 5, Seed: 42}).withDefaults()
		rng := rand.New(rand.NewPCG(cfg.Seed, 1))
		players := generate(cfg, rng)

		Convey("Then every generated evaluation should be valid", func() {
			So(len(players), ShouldEqual, 6)
			for _, p := range players {
				So(len(p.Evaluations), ShouldEqual, 5)
				for _, e := range p.Evaluations {
					_, err := e.toModel()
					So(err, ShouldBeNil)
					So(e.PlayerID, ShouldEqual, p.ID)
				}
			}
		})

		Convey("Then dates should advance per player", func() {
			evals := players[0].Evaluations
			So(evals[0].EvaluationDate, ShouldEqual, "2024-01-01")
			So(evals[1].EvaluationDate, ShouldEqual, "2024-01-15")
		})

		Convey("Then the shuffled submission order should keep every record", func() {
			So(len(shuffled(players, rng)), ShouldEqual, 30)
		})
	})
}

func TestGenerateReproducible(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		cfg := (&Config{Players: 3, EvaluationsPerPlayer: 2, Seed: 99}).withDefaults()
		first := generate(cfg, rand.New(rand.NewPCG(cfg.Seed, 1)))
		second := generate(cfg, rand.New(rand.NewPCG(cfg.Seed, 1)))

		Convey("Then player and evaluation ids should match", func() {
			So(second, ShouldResemble, first)
			So(first[0].ID, ShouldStartWith, "sim-")
			So(first[0].Evaluations[0].ID, ShouldNotEqual, first[0].Evaluations[1].ID)
		})

		Convey("Then a different seed should produce different ids", func() {
			other := generate(cfg, rand.New(rand.NewPCG(cfg.Seed+1, 1)))
			So(other[0].ID, ShouldNotEqual, first[0].ID)
		})
	})
}

func TestCompareHistory(t *testing.T) {
	Convey("Given a locally built history", t, func() {
		cfg := (&Config{Players: 1, EvaluationsPerPlayer: 3, Seed: 7}).withDefaults()
		p := generate(cfg, rand.New(rand.NewPCG(cfg.Seed, 1)))[0]

		var evals []model.UnifiedEvaluation
		for _, e := range p.Evaluations {
			m, err := e.toModel()
			So(err, ShouldBeNil)
			evals = append(evals, m)
		}
		want, err := history.Build(p.ID, evals, nil)
		So(err, ShouldBeNil)
		served, err := types.NewHistory(p.ID, want)
		So(err, ShouldBeNil)

		Convey("Then an identical served history should match", func() {
			So(compareHistory(p.ID, want, &served), ShouldBeEmpty)
		})

		Convey("Then a reordered served history should be reported", func() {
			served.Evaluations[0], served.Evaluations[1] = served.Evaluations[1], served.Evaluations[0]
			So(compareHistory(p.ID, want, &served), ShouldNotBeEmpty)
		})

		Convey("Then a missing served history should be reported", func() {
			So(compareHistory(p.ID, want, nil), ShouldHaveLength, 1)
		})

		Convey("Then a differing trend should be reported", func() {
			other := "sideways"
			served.Trend = &other
			So(compareHistory(p.ID, want, &served), ShouldHaveLength, 1)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running server", t, func() {
		srv, stop := startServer(service.WithTrendWindow(2))
		defer stop()

		Convey("When a simulation runs against it", func() {
			out := filepath.Join(t.TempDir(), "sim", "dataset.yaml")
			stats, err := Run(context.Background(), &Config{
				BaseURL:              srv.URL,
				Players:              5,
				EvaluationsPerPlayer: 4,
				Workers:              3,
				Seed:                 99,
				OutputFile:           out,
			})

			Convey("Then every history should match the local computation", func() {
				So(err, ShouldBeNil)
				So(stats.EvaluationsAccepted, ShouldEqual, 20)
				So(stats.PlayersVerified, ShouldEqual, 5)
				So(stats.Mismatches, ShouldBeEmpty)
			})

			Convey("Then the saved dataset should load back", func() {
				ds, err := seed.Load(context.Background(), out)
				So(err, ShouldBeNil)
				So(len(ds.Evaluations), ShouldEqual, 20)
			})
		})
	})

	Convey("Given an unreachable server", t, func() {
		srv, stop := startServer()
		url := srv.URL
		stop()

		Convey("Then the run should fail the health check", func() {
			_, err := Run(context.Background(), &Config{BaseURL: url, Players: 1, EvaluationsPerPlayer: 1})
			So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
		})
	})
}
