// ABOUTME: Per-category fan-out of the consistency classifier and trend detector.
// ABOUTME: Every category is reported; filtering sparse ones is left to callers.
package analytics

import (
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// CategoryReport is the classifier and trend output for one category.
type CategoryReport struct {
	Category    models.Category `json:"category" yaml:"category"`
	Consistency Consistency     `json:"consistency" yaml:"consistency"`
	Trend       TrendResult     `json:"trend" yaml:"trend"`
}

// Categories classifies every category over the period window and detects each trend
// over the four month window. Results follow models.AllCategories order.
func Categories(workouts []models.WorkoutRecord, catalog Catalog, period Period, today time.Time) ([]CategoryReport, error) {
	window, err := PeriodWindow(period, today)
	if err != nil {
		return nil, err
	}

	reports := make([]CategoryReport, 0, len(models.AllCategories))
	for _, c := range models.AllCategories {
		sel := ForCategory(c)
		reports = append(reports, CategoryReport{
			Category:    c,
			Consistency: Classify(workouts, catalog, sel, window, today),
			Trend:       Trend(workouts, catalog, sel, today),
		})
	}
	return reports, nil
}
