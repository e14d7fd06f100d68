package scoring

import (
	"errors"
	"fmt"

	"github.com/okian/talentscope/internal/domain/model"
)

// ErrInvalidCategory matches every *InvalidCategoryError.
var ErrInvalidCategory = model.ErrInvalidCategory

// InvalidCategoryError reports a category whose sub-metric count is not the
// fixed arity. It is structural data corruption and is never recovered locally.
type InvalidCategoryError struct {
	Category model.Category // empty when averaging a bare score set
	Count    int
}

func (e *InvalidCategoryError) Error() string {
	if e.Category == "" {
		return fmt.Sprintf("invalid category: %d sub-metrics, want %d", e.Count, model.SubMetricsPerCategory)
	}
	return fmt.Sprintf("invalid category %s: %d sub-metrics, want %d", e.Category, e.Count, model.SubMetricsPerCategory)
}

// Unwrap lets errors.Is(err, ErrInvalidCategory) match.
func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

func withCategory(err error, c model.Category) error {
	var ice *InvalidCategoryError
	if errors.As(err, &ice) {
		return &InvalidCategoryError{Category: c, Count: ice.Count}
	}
	return err
}
