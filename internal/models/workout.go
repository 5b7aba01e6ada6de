// ABOUTME: WorkoutRecord and SetRecord models for the workout log.
// ABOUTME: A workout holds its sets in the order they were logged.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutRecord represents one training session.
type WorkoutRecord struct {
	ID          uuid.UUID   `json:"id" yaml:"id"`
	PerformedAt time.Time   `json:"performed_at" yaml:"performed_at"`
	Sets        []SetRecord `json:"sets" yaml:"sets"` // Logged order; set position depends on it
	Note        *string     `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// NewWorkout creates a new WorkoutRecord with generated UUID and current timestamp.
func NewWorkout() *WorkoutRecord {
	now := time.Now()
	return &WorkoutRecord{
		ID:          uuid.New(),
		PerformedAt: now,
		CreatedAt:   now,
	}
}

// WithPerformedAt sets a custom workout timestamp.
func (w *WorkoutRecord) WithPerformedAt(t time.Time) *WorkoutRecord {
	w.PerformedAt = t
	return w
}

// WithNote sets a free-text note on the workout.
func (w *WorkoutRecord) WithNote(note string) *WorkoutRecord {
	w.Note = &note
	return w
}

// AddSet appends a set to the workout.
func (w *WorkoutRecord) AddSet(s SetRecord) *WorkoutRecord {
	w.Sets = append(w.Sets, s)
	return w
}

// HasExercise reports whether any set in the workout references the exercise.
func (w *WorkoutRecord) HasExercise(exerciseID uuid.UUID) bool {
	for _, s := range w.Sets {
		if s.ExerciseID == exerciseID {
			return true
		}
	}
	return false
}

// SetRecord is a single logged set.
type SetRecord struct {
	ID              uuid.UUID  `json:"id" yaml:"id"`
	ExerciseID      uuid.UUID  `json:"exercise_id" yaml:"exercise_id"`
	Reps            int        `json:"reps" yaml:"reps"`
	DurationSeconds *float64   `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"` // Only for timed exercises
	CompletedAt     *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewRepSet creates a set counted in repetitions.
func NewRepSet(exerciseID uuid.UUID, reps int) SetRecord {
	if reps < 0 {
		reps = 0
	}
	return SetRecord{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
		Reps:       reps,
	}
}

// NewTimedSet creates a set measured in seconds.
func NewTimedSet(exerciseID uuid.UUID, seconds float64) SetRecord {
	s := SetRecord{
		ID:         uuid.New(),
		ExerciseID: exerciseID,
	}
	return s.WithDuration(seconds)
}

// WithDuration sets the duration in seconds. Negative values clamp to 0.
func (s SetRecord) WithDuration(seconds float64) SetRecord {
	if seconds < 0 {
		seconds = 0
	}
	s.DurationSeconds = &seconds
	return s
}

// WithCompletedAt sets the completion timestamp.
func (s SetRecord) WithCompletedAt(t time.Time) SetRecord {
	s.CompletedAt = &t
	return s
}

// Seconds returns the set duration, or 0 when none was recorded.
func (s SetRecord) Seconds() float64 {
	if s.DurationSeconds == nil || *s.DurationSeconds < 0 {
		return 0
	}
	return *s.DurationSeconds
}
