// ABOUTME: Per-set-position maxima and averages for an exercise.
// ABOUTME: Samples live in one arena slice indexed by (exercise, position).
package analytics

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/models"
)

// DefaultTargetPeriod is the window used for suggested targets.
const DefaultTargetPeriod = PeriodThreeMonths

// SetPositionRecord is the best value reached at a set position.
type SetPositionRecord struct {
	Position   int       `json:"position" yaml:"position"`
	MaxValue   float64   `json:"max_value" yaml:"max_value"`
	AchievedOn time.Time `json:"achieved_on" yaml:"achieved_on"`
}

// AveragePositionRecord is the mean value at a set position.
type AveragePositionRecord struct {
	Position    int     `json:"position" yaml:"position"`
	Average     float64 `json:"average" yaml:"average"`
	SampleCount int     `json:"sample_count" yaml:"sample_count"`
}

// PositionTargets holds the sparse max and average series for one exercise.
type PositionTargets struct {
	ExerciseID uuid.UUID               `json:"exercise_id" yaml:"exercise_id"`
	Window     Window                  `json:"window" yaml:"window"`
	Max        []SetPositionRecord     `json:"max" yaml:"max"`
	Average    []AveragePositionRecord `json:"average" yaml:"average"`
}

type positionKey struct {
	exerciseID uuid.UUID
	position   int
}

type positionSample struct {
	value float64
	day   time.Time
}

// PositionIndex maps every logged set to its 1-based position among the sets of the
// same exercise within its workout, counted in logged order.
type PositionIndex struct {
	samples []positionSample
	slots   map[positionKey][]int // indices into samples, chronological
	deepest map[uuid.UUID]int
}

// NewPositionIndex scans the log once, oldest workout first.
func NewPositionIndex(workouts []models.WorkoutRecord, catalog Catalog, today time.Time) *PositionIndex {
	idx := &PositionIndex{
		slots:   make(map[positionKey][]int),
		deepest: make(map[uuid.UUID]int),
	}

	for _, dw := range chronological(workouts, today) {
		counts := make(map[uuid.UUID]int)
		for _, set := range dw.workout.Sets {
			counts[set.ExerciseID]++
			key := positionKey{exerciseID: set.ExerciseID, position: counts[set.ExerciseID]}

			idx.samples = append(idx.samples, positionSample{
				value: setValue(set, catalog),
				day:   dw.day,
			})
			idx.slots[key] = append(idx.slots[key], len(idx.samples)-1)
			idx.deepest[set.ExerciseID] = max(idx.deepest[set.ExerciseID], key.position)
		}
	}

	return idx
}

// setValue is reps, or seconds for timed exercises.
func setValue(set models.SetRecord, catalog Catalog) float64 {
	if catalog != nil {
		if def, ok := catalog.Lookup(set.ExerciseID); ok && def.IsTimed() {
			return set.Seconds()
		}
	}
	return float64(max(set.Reps, 0))
}

// DeepestPosition returns the largest position ever logged for the exercise.
func (x *PositionIndex) DeepestPosition(exerciseID uuid.UUID) int {
	return x.deepest[exerciseID]
}

// Max returns the highest value at the position inside the window and the day it was
// first reached. Ties keep the earliest day.
func (x *PositionIndex) Max(exerciseID uuid.UUID, position int, window Window) (SetPositionRecord, bool) {
	var rec SetPositionRecord
	found := false
	for _, i := range x.slots[positionKey{exerciseID: exerciseID, position: position}] {
		s := x.samples[i]
		if !window.Contains(s.day) {
			continue
		}
		if !found || s.value > rec.MaxValue {
			rec = SetPositionRecord{Position: position, MaxValue: s.value, AchievedOn: s.day}
			found = true
		}
	}
	return rec, found
}

// Average returns the mean value at the position inside the window, rounded to 2 decimals.
func (x *PositionIndex) Average(exerciseID uuid.UUID, position int, window Window) (AveragePositionRecord, bool) {
	var sum float64
	n := 0
	for _, i := range x.slots[positionKey{exerciseID: exerciseID, position: position}] {
		s := x.samples[i]
		if !window.Contains(s.day) {
			continue
		}
		sum += s.value
		n++
	}
	if n == 0 {
		return AveragePositionRecord{}, false
	}
	return AveragePositionRecord{
		Position:    position,
		Average:     math.Round(sum/float64(n)*100) / 100,
		SampleCount: n,
	}, true
}

// Targets builds both series for positions 1 through DeepestPosition, skipping positions
// with no sample inside the window.
func (x *PositionIndex) Targets(exerciseID uuid.UUID, window Window) PositionTargets {
	t := PositionTargets{
		ExerciseID: exerciseID,
		Window:     window,
		Max:        []SetPositionRecord{},
		Average:    []AveragePositionRecord{},
	}
	for p := 1; p <= x.DeepestPosition(exerciseID); p++ {
		if rec, ok := x.Max(exerciseID, p, window); ok {
			t.Max = append(t.Max, rec)
		}
		if avg, ok := x.Average(exerciseID, p, window); ok {
			t.Average = append(t.Average, avg)
		}
	}
	return t
}

// MaxForPosition is a one-shot form of PositionIndex.Max.
func MaxForPosition(workouts []models.WorkoutRecord, catalog Catalog, exerciseID uuid.UUID, position int, window Window, today time.Time) (SetPositionRecord, bool) {
	return NewPositionIndex(workouts, catalog, today).Max(exerciseID, position, window)
}

// AverageForPosition is a one-shot form of PositionIndex.Average.
func AverageForPosition(workouts []models.WorkoutRecord, catalog Catalog, exerciseID uuid.UUID, position int, window Window, today time.Time) (AveragePositionRecord, bool) {
	return NewPositionIndex(workouts, catalog, today).Average(exerciseID, position, window)
}

// TargetsForPeriod builds the target series for the period window containing today.
func TargetsForPeriod(workouts []models.WorkoutRecord, catalog Catalog, exerciseID uuid.UUID, period Period, today time.Time) (PositionTargets, error) {
	window, err := PeriodWindow(period, today)
	if err != nil {
		return PositionTargets{}, err
	}
	return NewPositionIndex(workouts, catalog, today).Targets(exerciseID, window), nil
}
