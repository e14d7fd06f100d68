package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/internal/domain/scoring"
	"github.com/okian/talentscope/internal/domain/types"
)

// printStyles holds the styles used in table output.
type printStyles struct {
	header lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	border lipgloss.Style
	grades map[scoring.Grade]lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1),
		title:  lipgloss.NewStyle().Bold(true),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		border: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		grades: map[scoring.Grade]lipgloss.Style{
			scoring.GradeS: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			scoring.GradeA: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			scoring.GradeB: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			scoring.GradeC: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
			scoring.GradeD: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

func (s printStyles) grade(g scoring.Grade) string {
	if st, ok := s.grades[g]; ok {
		return st.Render(g.String())
	}
	return g.String()
}

func (s printStyles) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// writeStructured encodes v as yaml or json.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func trendLabel(t *string) string {
	if t == nil {
		return "-"
	}
	return *t
}

// playerReport is the structured output of evalctl report. History is nil
// for a player without evaluations.
type playerReport struct {
	PlayerID string         `json:"player_id" yaml:"player_id"`
	History  *types.History `json:"history" yaml:"history"`
	Radar    *types.Radar   `json:"radar" yaml:"radar"`
}

func renderReport(w io.Writer, r playerReport) error {
	s := newPrintStyles()
	h := r.History

	fmt.Fprintln(w, s.title.Render("Player "+r.PlayerID))
	if h == nil {
		fmt.Fprintln(w, s.dim.Render("no evaluations"))
		return nil
	}
	fmt.Fprintf(w, "Evaluations: %d  Trend: %s  Latest: %s\n",
		h.TotalEvaluations, trendLabel(h.Trend), h.LatestEvaluation.EvaluationDate)

	t := s.newTable("Date", "ID", "Source", "Technical", "Tactical", "Physical", "Mental", "Social", "Overall", "Grade")
	for _, e := range h.Evaluations {
		row := []string{e.EvaluationDate, e.ID, string(e.Source)}
		for _, c := range model.Categories {
			row = append(row, formatScore(e.CategoryAverages.Get(c)))
		}
		row = append(row, formatScore(e.OverallScore), s.grade(e.Grade))
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())

	if r.Radar != nil {
		fmt.Fprintln(w, s.title.Render("Radar (five-point scale)"))
		rt := s.newTable("Category", "Level")
		for _, c := range model.Categories {
			rt.Row(string(c), strconv.Itoa(r.Radar.Chart.Get(c)))
		}
		fmt.Fprintln(w, rt.Render())
	}
	return nil
}

func renderCandidates(w io.Writer, entries []types.CandidateEntry) error {
	s := newPrintStyles()
	if len(entries) == 0 {
		fmt.Fprintln(w, s.dim.Render("no candidates"))
		return nil
	}
	t := s.newTable("Rank", "Player", "Overall", "Grade", "Trend", "Evaluations", "Latest")
	for _, e := range entries {
		t.Row(
			strconv.Itoa(e.Rank),
			e.PlayerID,
			formatScore(e.LatestOverall),
			s.grade(e.Grade),
			trendLabel(e.Trend),
			strconv.Itoa(e.Evaluations),
			e.LatestDate,
		)
	}
	fmt.Fprintln(w, t.Render())
	return nil
}
