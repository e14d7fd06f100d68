// Package seed loads evaluation datasets from YAML files.
//
// A dataset holds two lists, evaluations and reports. Each record is checked
// against the embedded CUE schema before it is converted to a domain value,
// and every error names the list and index of the offending record.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/talentscope/internal/domain/model"
	"github.com/okian/talentscope/pkg/metrics"
)

// Dataset is the decoded content of a dataset file, in file order.
type Dataset struct {
	Evaluations []model.UnifiedEvaluation
	Reports     []model.ScoutingReport
}

type evaluationRecord struct {
	ID             string                        `koanf:"id"`
	PlayerID       string                        `koanf:"player_id"`
	EvaluatorName  string                        `koanf:"evaluator_name"`
	EvaluatorRole  string                        `koanf:"evaluator_role"`
	EvaluationDate string                        `koanf:"evaluation_date"`
	Source         string                        `koanf:"source"`
	Comments       string                        `koanf:"comments"`
	RelatedEvent   string                        `koanf:"related_event"`
	Scores         model.UnifiedEvaluationScores `koanf:"scores"`
}

type reportRecord struct {
	ID           string `koanf:"id"`
	PlayerID     string `koanf:"player_id"`
	ScoutName    string `koanf:"scout_name"`
	VisitDate    string `koanf:"visit_date"`
	Status       string `koanf:"status"`
	EvaluationID string `koanf:"evaluation_id"`
}

// Load reads and validates the dataset at path.
func Load(_ context.Context, path string) (*Dataset, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, path, err)
	}

	sch, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}

	ds := &Dataset{}
	byID := make(map[string]model.UnifiedEvaluation)
	for i, item := range k.Slices("evaluations") {
		e, err := decodeEvaluation(sch, item)
		if err != nil {
			return nil, fmt.Errorf("evaluations[%d]: %w", i, err)
		}
		if _, dup := byID[e.ID]; dup {
			return nil, fmt.Errorf("evaluations[%d]: %w: duplicate id %q", i, ErrInvalidRecord, e.ID)
		}
		byID[e.ID] = e
		ds.Evaluations = append(ds.Evaluations, e)
	}

	reportIDs := make(map[string]struct{})
	linked := make(map[string]string)
	for i, item := range k.Slices("reports") {
		r, err := decodeReport(sch, item, byID)
		if err != nil {
			return nil, fmt.Errorf("reports[%d]: %w", i, err)
		}
		if _, dup := reportIDs[r.ID]; dup {
			return nil, fmt.Errorf("reports[%d]: %w: duplicate id %q", i, ErrInvalidRecord, r.ID)
		}
		if r.EvaluationID != "" {
			if owner, taken := linked[r.EvaluationID]; taken {
				return nil, fmt.Errorf("reports[%d]: %w: evaluation %q already linked to report %q",
					i, ErrInvalidRecord, r.EvaluationID, owner)
			}
			linked[r.EvaluationID] = r.ID
		}
		reportIDs[r.ID] = struct{}{}
		ds.Reports = append(ds.Reports, r)
	}

	metrics.RecordSeedRecordsLoaded("evaluations", len(ds.Evaluations))
	metrics.RecordSeedRecordsLoaded("reports", len(ds.Reports))
	return ds, nil
}

// normalizeDate rewrites an unquoted YAML date, which the parser yields as a
// time.Time, back into its calendar-date text.
func normalizeDate(item *koanf.Koanf, key string) error {
	t, ok := item.Get(key).(time.Time)
	if !ok {
		return nil
	}
	if err := item.Set(key, t.UTC().Format(model.DateLayout)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecord, key, err)
	}
	return nil
}

func decodeEvaluation(sch *schema, item *koanf.Koanf) (model.UnifiedEvaluation, error) {
	if err := normalizeDate(item, "evaluation_date"); err != nil {
		return model.UnifiedEvaluation{}, err
	}
	if err := sch.check(defEvaluation, item.Raw()); err != nil {
		return model.UnifiedEvaluation{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	var rec evaluationRecord
	if err := item.UnmarshalWithConf("", &rec, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return model.UnifiedEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	date, err := model.ParseDate(rec.EvaluationDate)
	if err != nil {
		return model.UnifiedEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	source, err := model.ParseSource(rec.Source)
	if err != nil {
		return model.UnifiedEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	e, err := model.NewUnifiedEvaluation(model.EvaluationInput{
		ID:             rec.ID,
		PlayerID:       rec.PlayerID,
		EvaluatorName:  rec.EvaluatorName,
		EvaluatorRole:  rec.EvaluatorRole,
		EvaluationDate: date,
		Source:         source,
		Scores:         rec.Scores,
		Comments:       rec.Comments,
		RelatedEvent:   rec.RelatedEvent,
	})
	if err != nil {
		return model.UnifiedEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return e, nil
}

func decodeReport(sch *schema, item *koanf.Koanf, evaluations map[string]model.UnifiedEvaluation) (model.ScoutingReport, error) {
	if err := normalizeDate(item, "visit_date"); err != nil {
		return model.ScoutingReport{}, err
	}
	if err := sch.check(defReport, item.Raw()); err != nil {
		return model.ScoutingReport{}, fmt.Errorf("%w: %w", ErrSchema, err)
	}

	var rec reportRecord
	if err := item.UnmarshalWithConf("", &rec, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return model.ScoutingReport{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	visit, err := model.ParseDate(rec.VisitDate)
	if err != nil {
		return model.ScoutingReport{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	status, err := model.ParseReportStatus(rec.Status)
	if err != nil {
		return model.ScoutingReport{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	r := model.ScoutingReport{
		ID:        rec.ID,
		PlayerID:  rec.PlayerID,
		ScoutName: rec.ScoutName,
		VisitDate: visit,
		Status:    status,
	}
	if status != model.ReportCompleted {
		return r, nil
	}

	e, ok := evaluations[rec.EvaluationID]
	switch {
	case rec.EvaluationID == "":
		return model.ScoutingReport{}, fmt.Errorf("%w: completed report %q has no evaluation_id", ErrInvalidRecord, rec.ID)
	case !ok:
		return model.ScoutingReport{}, fmt.Errorf("%w: report %q references unknown evaluation %q", ErrInvalidRecord, rec.ID, rec.EvaluationID)
	case e.PlayerID != rec.PlayerID:
		return model.ScoutingReport{}, fmt.Errorf("%w: report %q and evaluation %q belong to different players", ErrInvalidRecord, rec.ID, rec.EvaluationID)
	}
	r.EvaluationID = rec.EvaluationID
	return r, nil
}
