// ABOUTME: Training frequency and day streaks over the workout log.
// ABOUTME: Frequency reports an explicit undefined state instead of dividing by zero.
package analytics

import (
	"math"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// maxStreakScan caps the backward day walk of CurrentStreak.
const maxStreakScan = 365

// Frequency is the trained-day ratio of a period up to today.
type Frequency struct {
	Period      Period `json:"period" yaml:"period"`
	Window      Window `json:"window" yaml:"window"`
	TrainedDays int    `json:"trained_days" yaml:"trained_days"`
	ElapsedDays int    `json:"elapsed_days" yaml:"elapsed_days"`
}

// Percentage returns round(100 * trained / elapsed), or ok=false when no day has elapsed.
func (f Frequency) Percentage() (int, bool) {
	if f.ElapsedDays <= 0 {
		return 0, false
	}
	p := int(math.Round(100 * float64(f.TrainedDays) / float64(f.ElapsedDays)))
	return min(max(p, 0), 100), true
}

// TrainingFrequency counts distinct trained days in the period window containing today,
// over the days of the window that have elapsed up to and including today.
func TrainingFrequency(workouts []models.WorkoutRecord, period Period, today time.Time) (Frequency, error) {
	window, err := PeriodWindow(period, today)
	if err != nil {
		return Frequency{}, err
	}

	elapsed := window.Truncate(today)
	trained := 0
	for day := range trainedDays(workouts, today) {
		if elapsed.Contains(day) {
			trained++
		}
	}

	return Frequency{
		Period:      period,
		Window:      window,
		TrainedDays: trained,
		ElapsedDays: elapsed.Days(),
	}, nil
}

// Streaks bundles the current and longest day streaks.
type Streaks struct {
	Current int `json:"current" yaml:"current"`
	Longest int `json:"longest" yaml:"longest"`
}

// ComputeStreaks returns both streaks for the log.
func ComputeStreaks(workouts []models.WorkoutRecord, today time.Time) Streaks {
	return Streaks{
		Current: CurrentStreak(workouts, today),
		Longest: LongestStreak(workouts, today),
	}
}

// CurrentStreak counts consecutive trained days ending today, or ending yesterday
// when nothing is logged today yet. The walk stops after maxStreakScan days.
func CurrentStreak(workouts []models.WorkoutRecord, today time.Time) int {
	days := trainedDays(workouts, today)

	day := CalendarDay(today)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for range maxStreakScan {
		if _, ok := days[day]; !ok {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// LongestStreak returns the longest run of consecutive trained days in the log.
// today only stands in for records without a usable timestamp.
func LongestStreak(workouts []models.WorkoutRecord, today time.Time) int {
	days := sortedDays(trainedDays(workouts, today))
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if DaysBetween(days[i], days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
