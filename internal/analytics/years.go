// ABOUTME: Year-over-year comparison of consistency for one selection.
// ABOUTME: Current year is truncated to today, the previous year is taken whole.
package analytics

import (
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// YearComparison diffs this year's consistency against last year's.
type YearComparison struct {
	CurrentYear    int                `json:"current_year" yaml:"current_year"`
	LastYear       int                `json:"last_year" yaml:"last_year"`
	Current        ConsistencySummary `json:"current" yaml:"current"`
	Last           ConsistencySummary `json:"last" yaml:"last"`
	WorkoutChange  int                `json:"workout_change" yaml:"workout_change"`
	RestDaysChange float64            `json:"rest_days_change" yaml:"rest_days_change"`
	IsImproved     bool               `json:"is_improved" yaml:"is_improved"`
}

// CompareYears runs the classifier over the current year up to today and over the full
// previous year. A positive RestDaysChange means rest got shorter.
func CompareYears(workouts []models.WorkoutRecord, catalog Catalog, sel Selector, today time.Time) YearComparison {
	year := CalendarDay(today).Year()

	current := Classify(workouts, catalog, sel, YearWindow(year).Truncate(today), today).Summary
	last := Classify(workouts, catalog, sel, YearWindow(year-1), today).Summary

	workoutChange := current.QualifyingWorkoutCount - last.QualifyingWorkoutCount
	restDaysChange := last.MedianGap - current.MedianGap

	return YearComparison{
		CurrentYear:    year,
		LastYear:       year - 1,
		Current:        current,
		Last:           last,
		WorkoutChange:  workoutChange,
		RestDaysChange: restDaysChange,
		IsImproved:     workoutChange > 0 || (workoutChange == 0 && restDaysChange > 0),
	}
}
