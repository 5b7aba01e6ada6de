// ABOUTME: Tests for the year-over-year comparison.
// ABOUTME: The current year is truncated at today.
package analytics

import (
	"testing"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

func TestCompareYearsNoWorkoutsThisYear(t *testing.T) {
	f := newFixture()
	workouts := daysOf(2024, time.May, f.pushup.ID, 1, 3, 5, 7, 9)

	got := CompareYears(workouts, f.catalog, ForExercise(f.pushup.ID), today)

	if got.CurrentYear != 2025 || got.LastYear != 2024 {
		t.Errorf("years = %d/%d, want 2025/2024", got.CurrentYear, got.LastYear)
	}
	if got.WorkoutChange != -5 {
		t.Errorf("WorkoutChange = %d, want -5", got.WorkoutChange)
	}
	if got.IsImproved {
		t.Error("IsImproved = true, want false")
	}
}

func TestCompareYearsEqualCountShorterRest(t *testing.T) {
	f := newFixture()
	workouts := append(
		daysOf(2024, time.May, f.pushup.ID, 1, 5, 9),
		daysOf(2025, time.May, f.pushup.ID, 1, 3, 5)...,
	)

	got := CompareYears(workouts, f.catalog, ForExercise(f.pushup.ID), today)

	if got.WorkoutChange != 0 {
		t.Errorf("WorkoutChange = %d, want 0", got.WorkoutChange)
	}
	if got.RestDaysChange != 2 {
		t.Errorf("RestDaysChange = %v, want 2", got.RestDaysChange)
	}
	if !got.IsImproved {
		t.Error("IsImproved = false, want true")
	}
}

func TestCompareYearsIgnoresFutureDays(t *testing.T) {
	f := newFixture()
	workouts := []models.WorkoutRecord{
		repsOn(at(2025, time.June, 1), f.pushup.ID, 10),
		repsOn(at(2025, time.June, 18), f.pushup.ID, 10),
		repsOn(at(2025, time.August, 1), f.pushup.ID, 10),
	}

	got := CompareYears(workouts, f.catalog, ForExercise(f.pushup.ID), today)
	if got.Current.QualifyingWorkoutCount != 2 {
		t.Errorf("Current.QualifyingWorkoutCount = %d, want 2", got.Current.QualifyingWorkoutCount)
	}
	if !got.IsImproved {
		t.Error("IsImproved = false, want true")
	}
}
