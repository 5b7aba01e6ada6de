// ABOUTME: Engine inputs: exercise catalog, selectors, and the dated view of workouts.
// ABOUTME: Nothing here mutates the caller's workout slice.
package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/models"
)

// Catalog looks up exercise definitions by ID.
type Catalog interface {
	Lookup(id uuid.UUID) (models.ExerciseDefinition, bool)
}

// MapCatalog is an in-memory Catalog.
type MapCatalog map[uuid.UUID]models.ExerciseDefinition

// NewMapCatalog indexes a list of exercises by ID.
func NewMapCatalog(exercises []*models.ExerciseDefinition) MapCatalog {
	c := make(MapCatalog, len(exercises))
	for _, e := range exercises {
		if e != nil {
			c[e.ID] = *e
		}
	}
	return c
}

// Lookup implements Catalog.
func (c MapCatalog) Lookup(id uuid.UUID) (models.ExerciseDefinition, bool) {
	e, ok := c[id]
	return e, ok
}

// Snapshot is an immutable view of the log handed to the engine.
type Snapshot struct {
	Version  uint64
	Workouts []models.WorkoutRecord
	Catalog  Catalog
}

// Selector picks the qualifying workouts: those with at least one set of an exercise
// or of any exercise in a category.
type Selector struct {
	ExerciseID uuid.UUID       `json:"exercise_id,omitempty" yaml:"exercise_id,omitempty"`
	Category   models.Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// ForExercise selects workouts containing the exercise.
func ForExercise(id uuid.UUID) Selector {
	return Selector{ExerciseID: id}
}

// ForCategory selects workouts containing any exercise of the category.
func ForCategory(c models.Category) Selector {
	return Selector{Category: c}
}

// String returns a stable key, used for cache keys and logs.
func (s Selector) String() string {
	if s.ExerciseID != uuid.Nil {
		return "exercise:" + s.ExerciseID.String()
	}
	return "category:" + string(s.Category)
}

func (s Selector) matchesSet(set models.SetRecord, catalog Catalog) bool {
	if s.ExerciseID != uuid.Nil {
		return set.ExerciseID == s.ExerciseID
	}
	if s.Category == "" || catalog == nil {
		return false
	}
	def, ok := catalog.Lookup(set.ExerciseID)
	return ok && def.Category == s.Category
}

// Qualifies reports whether the workout has at least one matching set.
func (s Selector) Qualifies(w *models.WorkoutRecord, catalog Catalog) bool {
	for _, set := range w.Sets {
		if s.matchesSet(set, catalog) {
			return true
		}
	}
	return false
}

// datedWorkout pairs a workout with the calendar day it counts towards.
type datedWorkout struct {
	workout *models.WorkoutRecord
	at      time.Time
	day     time.Time
}

// workoutTime returns the record's timestamp, or today for records with no usable date.
func workoutTime(w *models.WorkoutRecord, today time.Time) time.Time {
	if w.PerformedAt.IsZero() {
		return today
	}
	return w.PerformedAt
}

// chronological returns the workouts ordered by timestamp, keeping input order on ties.
func chronological(workouts []models.WorkoutRecord, today time.Time) []datedWorkout {
	dated := make([]datedWorkout, len(workouts))
	for i := range workouts {
		at := workoutTime(&workouts[i], today)
		dated[i] = datedWorkout{workout: &workouts[i], at: at, day: CalendarDay(at)}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].at.Before(dated[j].at)
	})
	return dated
}

// trainedDays returns the set of calendar days with at least one workout.
func trainedDays(workouts []models.WorkoutRecord, today time.Time) map[time.Time]struct{} {
	days := make(map[time.Time]struct{}, len(workouts))
	for i := range workouts {
		days[CalendarDay(workoutTime(&workouts[i], today))] = struct{}{}
	}
	return days
}

// sortedDays returns the distinct days of a day set in ascending order.
func sortedDays(days map[time.Time]struct{}) []time.Time {
	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
