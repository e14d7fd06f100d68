package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/talentscope/internal/adapters/http/api"
	service "github.com/okian/talentscope/internal/app"
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

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

type failingCandidates struct {
	err error
}

func (f failingCandidates) Candidates(context.Context, int) ([]types.CandidateEntry, error) {
	return nil, f.err
}

func newTestServer(svc *service.Service, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(svc, svc, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func evaluationBody(id, playerID, date string, v int) map[string]any {
	return map[string]any{
		"id":              id,
		"player_id":       playerID,
		"evaluator_name":  "Coach Lee",
		"evaluation_date": date,
		"source":          "match",
		"scores":          model.UniformScores(v),
	}
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func TestServer_Evaluations(t *testing.T) {
	Convey("Given a server backed by a started service", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newTestServer(svc)

		Convey("When a valid evaluation is posted", func() {
			w := do(mux, http.MethodPost, "/evaluations", evaluationBody("e1", "p1", "2024-01-10", 7))

			Convey("Then it should be created with derived scores", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				got := decode[types.Evaluation](w)
				So(got.ID, ShouldEqual, "e1")
				So(got.EvaluationDate, ShouldEqual, "2024-01-10")
				So(got.OverallScore, ShouldEqual, 7.0)
				So(got.Grade.String(), ShouldEqual, "B")
			})

			Convey("Then it should be readable by id", func() {
				r := do(mux, http.MethodGet, "/evaluations/e1", nil)
				So(r.Code, ShouldEqual, http.StatusOK)
				So(decode[types.Evaluation](r).PlayerID, ShouldEqual, "p1")
			})

			Convey("Then posting the same id again should conflict", func() {
				r := do(mux, http.MethodPost, "/evaluations", evaluationBody("e1", "p1", "2024-01-11", 8))
				So(r.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When an evaluation has an out-of-range score", func() {
			body := evaluationBody("e2", "p1", "2024-01-10", 7)
			scores := model.UniformScores(7)
			scores.Physical["speed"] = 11
			body["scores"] = scores
			w := do(mux, http.MethodPost, "/evaluations", body)

			Convey("Then it should be rejected as a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is malformed or incomplete", func() {
			So(do(mux, http.MethodPost, "/evaluations", "{not json").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/evaluations", `{"unknown":1}`).Code, ShouldEqual, http.StatusBadRequest)

			noSource := evaluationBody("e3", "p1", "2024-01-10", 7)
			delete(noSource, "source")
			So(do(mux, http.MethodPost, "/evaluations", noSource).Code, ShouldEqual, http.StatusBadRequest)

			badDate := evaluationBody("e4", "p1", "10/01/2024", 7)
			So(do(mux, http.MethodPost, "/evaluations", badDate).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an unknown evaluation is requested", func() {
			w := do(mux, http.MethodGet, "/evaluations/missing", nil)

			Convey("Then it should return not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_Players(t *testing.T) {
	Convey("Given a player with three evaluations", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newTestServer(svc)

		for _, b := range []map[string]any{
			evaluationBody("e1", "p1", "2024-01-10", 6),
			evaluationBody("e3", "p1", "2024-03-10", 8),
			evaluationBody("e2", "p1", "2024-02-10", 7),
		} {
			So(do(mux, http.MethodPost, "/evaluations", b).Code, ShouldEqual, http.StatusCreated)
		}

		Convey("Then history should be ordered most recent first", func() {
			w := do(mux, http.MethodGet, "/players/p1/history", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			h := decode[types.History](w)
			So(h.TotalEvaluations, ShouldEqual, 3)
			So(h.Evaluations[0].ID, ShouldEqual, "e3")
			So(h.Evaluations[2].ID, ShouldEqual, "e1")
			So(h.LatestEvaluation.ID, ShouldEqual, "e3")
			So(*h.Trend, ShouldEqual, "improving")
		})

		Convey("Then latest, trend and radar should reflect the newest record", func() {
			latest := do(mux, http.MethodGet, "/players/p1/latest", nil)
			So(latest.Code, ShouldEqual, http.StatusOK)
			So(decode[types.Evaluation](latest).ID, ShouldEqual, "e3")

			tr := decode[types.Trend](do(mux, http.MethodGet, "/players/p1/trend", nil))
			So(*tr.Trend, ShouldEqual, "improving")
			So(*tr.Delta, ShouldAlmostEqual, 1.0)
			So(tr.Evaluations, ShouldEqual, 3)

			radar := decode[types.Radar](do(mux, http.MethodGet, "/players/p1/radar", nil))
			So(radar.EvaluationID, ShouldEqual, "e3")
			So(radar.Chart.Technical, ShouldEqual, 4)
		})

		Convey("Then an unknown player should yield null bodies", func() {
			for _, path := range []string{"/players/nobody/history", "/players/nobody/latest", "/players/nobody/radar"} {
				w := do(mux, http.MethodGet, path, nil)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "null")
			}

			tr := decode[types.Trend](do(mux, http.MethodGet, "/players/nobody/trend", nil))
			So(tr.Trend, ShouldBeNil)
			So(tr.Evaluations, ShouldEqual, 0)

			sh := do(mux, http.MethodGet, "/players/nobody/scouting-history", nil)
			So(strings.TrimSpace(sh.Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestServer_Candidates(t *testing.T) {
	Convey("Given three players", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newTestServer(svc, api.WithMaxCandidateLimit(5))

		So(do(mux, http.MethodPost, "/evaluations", evaluationBody("a1", "alice", "2024-01-10", 9)).Code, ShouldEqual, http.StatusCreated)
		So(do(mux, http.MethodPost, "/evaluations", evaluationBody("b1", "bob", "2024-01-10", 9)).Code, ShouldEqual, http.StatusCreated)
		So(do(mux, http.MethodPost, "/evaluations", evaluationBody("c1", "carol", "2024-01-10", 5)).Code, ShouldEqual, http.StatusCreated)

		Convey("When candidates are requested without a limit", func() {
			w := do(mux, http.MethodGet, "/candidates", nil)

			Convey("Then ties should share a rank", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decode[[]types.CandidateEntry](w)
				So(len(got), ShouldEqual, 3)
				So(got[0].PlayerID, ShouldEqual, "alice")
				So(got[1].Rank, ShouldEqual, 1)
				So(got[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When the maximum is below the default limit", func() {
			capped := newTestServer(svc, api.WithMaxCandidateLimit(2))
			w := do(capped, http.MethodGet, "/candidates", nil)

			Convey("Then the default should shrink to the maximum", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(len(decode[[]types.CandidateEntry](w)), ShouldEqual, 2)
				So(do(capped, http.MethodGet, "/candidates?limit=3", nil).Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When a limit is given", func() {
			So(len(decode[[]types.CandidateEntry](do(mux, http.MethodGet, "/candidates?limit=2", nil))), ShouldEqual, 2)
			So(do(mux, http.MethodGet, "/candidates?limit=0", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/candidates?limit=abc", nil).Code, ShouldEqual, http.StatusBadRequest)

			w := do(mux, http.MethodGet, "/candidates?limit=6", nil)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[map[string]string](w)["code"], ShouldEqual, "limit_exceeded")
		})
	})
}

func TestServer_Reports(t *testing.T) {
	Convey("Given a planned scouting report", t, func() {
		svc := service.New()
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()
		mux := newTestServer(svc)

		w := do(mux, http.MethodPost, "/reports", map[string]any{
			"id": "r1", "player_id": "p1", "scout_name": "Ana", "visit_date": "2024-04-02",
		})
		So(w.Code, ShouldEqual, http.StatusCreated)
		So(decode[types.Report](w).Status, ShouldEqual, model.ReportPlanned)

		Convey("Then its evaluation should be null before completion", func() {
			r := do(mux, http.MethodGet, "/reports/r1/evaluation", nil)
			So(r.Code, ShouldEqual, http.StatusOK)
			So(strings.TrimSpace(r.Body.String()), ShouldEqual, "null")
		})

		Convey("When the visit is completed", func() {
			r := do(mux, http.MethodPost, "/reports/r1/complete", map[string]any{
				"id": "s1", "scores": model.UniformScores(8),
			})
			So(r.Code, ShouldEqual, http.StatusOK)

			var got struct {
				Report     types.Report     `json:"report"`
				Evaluation types.Evaluation `json:"evaluation"`
			}
			So(json.Unmarshal(r.Body.Bytes(), &got), ShouldBeNil)

			Convey("Then the report should link a scouting evaluation", func() {
				So(got.Report.Status, ShouldEqual, model.ReportCompleted)
				So(got.Report.EvaluationID, ShouldEqual, "s1")
				So(got.Evaluation.Source, ShouldEqual, model.SourceScouting)
				So(got.Evaluation.EvaluationDate, ShouldEqual, "2024-04-02")
				So(got.Evaluation.EvaluatorName, ShouldEqual, "Ana")

				linked := do(mux, http.MethodGet, "/reports/r1/evaluation", nil)
				So(decode[types.Evaluation](linked).ID, ShouldEqual, "s1")

				hist := decode[[]types.Evaluation](do(mux, http.MethodGet, "/players/p1/scouting-history", nil))
				So(len(hist), ShouldEqual, 1)
			})

			Convey("Then completing it again should conflict", func() {
				again := do(mux, http.MethodPost, "/reports/r1/complete", map[string]any{"scores": model.UniformScores(8)})
				So(again.Code, ShouldEqual, http.StatusConflict)
			})
		})

		Convey("When completion names another player", func() {
			r := do(mux, http.MethodPost, "/reports/r1/complete", map[string]any{
				"player_id": "p2", "scores": model.UniformScores(8),
			})
			So(r.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When reports are malformed or unknown", func() {
			So(do(mux, http.MethodPost, "/reports", map[string]any{"player_id": "p1", "visit_date": "2024-04-02", "status": "completed"}).Code,
				ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/reports", map[string]any{"player_id": "p1", "visit_date": "2024-04-02", "status": "lost"}).Code,
				ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/reports", map[string]any{"player_id": "p1"}).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodPost, "/reports/nope/complete", map[string]any{"scores": model.UniformScores(8)}).Code,
				ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/reports/nope/evaluation", nil).Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestServer_NotStarted(t *testing.T) {
	Convey("Given a server backed by a service that was never started", t, func() {
		svc := service.New()
		mux := newTestServer(svc)

		Convey("Then queries should be unavailable", func() {
			So(do(mux, http.MethodGet, "/players/p1/history", nil).Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodPost, "/evaluations", evaluationBody("e1", "p1", "2024-01-10", 7)).Code,
				ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestCandidateHandler_InternalError(t *testing.T) {
	Convey("Given a candidate source that fails", t, func() {
		h := api.NewCandidateHandler(failingCandidates{err: errors.New("boom")}, 100, logger.Get())
		req := httptest.NewRequest(http.MethodGet, "/candidates", nil)
		w := httptest.NewRecorder()

		h.HandleGetCandidates(w, req)

		Convey("Then it should respond with an internal error", func() {
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode[map[string]string](w)["code"], ShouldEqual, "internal_error")
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling a health request", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			handler.HandleHealth(w, req)

			Convey("Then it should serve the metrics exposition", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		provider := &mockStatsProvider{stats: map[string]interface{}{"evaluations": 3, "started": true}}
		handler := api.NewStatsHandler(provider)

		Convey("When handling a stats request", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			w := httptest.NewRecorder()
			handler.HandleStats(w, req)

			Convey("Then it should return the provider's stats as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				got := decode[map[string]interface{}](w)
				So(got["evaluations"], ShouldEqual, 3.0)
				So(got["started"], ShouldEqual, true)
			})
		})
	})
}
