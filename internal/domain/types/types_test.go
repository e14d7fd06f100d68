package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/talentscope/internal/domain/history"
	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
	"github.com/okian/talentscope/internal/domain/trend"
	types "github.com/okian/talentscope/internal/domain/types"
	"github.com/okian/talentscope/internal/evaltest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluationView(t *testing.T) {
	Convey("Given a stored evaluation", t, func() {
		e := evaltest.Evaluation("e1", "p1", "2024-03-01", model.SourceScouting,
			evaltest.Scores(8.0, 8.0, 8.0, 8.0, 8.0))

		Convey("When building its view", func() {
			v, err := types.NewEvaluation(e)

			Convey("Then derived scores should be included", func() {
				So(err, ShouldBeNil)
				So(v.EvaluationDate, ShouldEqual, "2024-03-01")
				So(v.OverallScore, ShouldEqual, 8.0)
				So(v.Grade, ShouldEqual, scoring.GradeA)
				So(v.CategoryAverages.Technical, ShouldEqual, 8.0)
			})

			Convey("And the grade should encode as its letter", func() {
				b, err := json.Marshal(v)
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"grade":"A"`)
				So(string(b), ShouldContainSubstring, `"source":"scouting"`)
			})
		})
	})
}

func TestHistoryView(t *testing.T) {
	Convey("Given a player without evaluations", t, func() {
		Convey("When building the history view", func() {
			v, err := types.NewHistory("ghost", nil)
			b, _ := json.Marshal(v)

			Convey("Then latest and trend should be null", func() {
				So(err, ShouldBeNil)
				So(v.TotalEvaluations, ShouldEqual, 0)
				So(string(b), ShouldContainSubstring, `"latest_evaluation":null`)
				So(string(b), ShouldContainSubstring, `"trend":null`)
				So(string(b), ShouldContainSubstring, `"evaluations":[]`)
			})
		})
	})

	Convey("Given a player with one evaluation", t, func() {
		h, _ := history.Build("p1", []model.UnifiedEvaluation{evaltest.Uniform("e1", "p1", "2024-01-01", 6)}, nil)

		Convey("When building the history view", func() {
			v, err := types.NewHistory("p1", h)

			Convey("Then the trend should be null and latest set", func() {
				So(err, ShouldBeNil)
				So(v.Trend, ShouldBeNil)
				So(v.LatestEvaluation.ID, ShouldEqual, "e1")
			})
		})
	})

	Convey("Given a player with an improving history", t, func() {
		h, _ := history.Build("p1", []model.UnifiedEvaluation{
			evaltest.Uniform("e1", "p1", "2024-01-01", 6),
			evaltest.Uniform("e2", "p1", "2024-02-01", 8),
		}, nil)

		Convey("When building the history view", func() {
			v, _ := types.NewHistory("p1", h)

			Convey("Then the trend should be set", func() {
				So(*v.Trend, ShouldEqual, "improving")
				So(v.Evaluations[0].ID, ShouldEqual, "e2")
			})
		})
	})
}

func TestTrendValue(t *testing.T) {
	Convey("Given trend directions", t, func() {
		Convey("Then only defined directions should produce a value", func() {
			So(types.TrendValue(trend.Undefined), ShouldBeNil)
			So(*types.TrendValue(trend.Stable), ShouldEqual, "stable")
			So(*types.TrendValue(trend.Declining), ShouldEqual, "declining")
		})
	})
}

func TestRadarAndReportViews(t *testing.T) {
	Convey("Given an evaluation", t, func() {
		e := evaltest.Evaluation("e1", "p1", "2024-03-01", model.SourceMatch,
			evaltest.Scores(8.0, 9.0, 2.0, 5.0, 10.0))

		Convey("When building its radar view", func() {
			r, err := types.NewRadar(e)

			Convey("Then it should carry the five-point chart", func() {
				So(err, ShouldBeNil)
				So(r.Scale, ShouldEqual, types.RadarScale)
				So(r.EvaluationID, ShouldEqual, "e1")
				So(r.Chart.Technical, ShouldEqual, 4)
				So(r.Chart.Tactical, ShouldEqual, 5)
			})
		})
	})

	Convey("Given a completed scouting report", t, func() {
		visit, _ := model.ParseDate("2024-04-02")
		r := types.NewReport(model.ScoutingReport{
			ID: "r1", PlayerID: "p1", VisitDate: visit,
			Status: model.ReportCompleted, EvaluationID: "e1",
		})

		Convey("Then the view should format the visit date", func() {
			So(r.VisitDate, ShouldEqual, "2024-04-02")
			So(r.Status, ShouldEqual, model.ReportCompleted)
			So(r.EvaluationID, ShouldEqual, "e1")
		})
	})
}
