// ABOUTME: Tests for WorkoutRecord and SetRecord models.
// ABOUTME: Validates constructors, builder methods, and duration clamping.
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewWorkout(t *testing.T) {
	w := NewWorkout()

	if w.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if w.PerformedAt.IsZero() {
		t.Error("expected PerformedAt to be set")
	}
	if len(w.Sets) != 0 {
		t.Errorf("len(Sets) = %d, want 0", len(w.Sets))
	}
}

func TestWorkoutBuilders(t *testing.T) {
	at := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	ex := uuid.New()
	w := NewWorkout().
		WithPerformedAt(at).
		WithNote("leg day").
		AddSet(NewRepSet(ex, 10)).
		AddSet(NewRepSet(ex, 8))

	if !w.PerformedAt.Equal(at) {
		t.Errorf("PerformedAt = %v, want %v", w.PerformedAt, at)
	}
	if w.Note == nil || *w.Note != "leg day" {
		t.Error("expected Note to be leg day")
	}
	if len(w.Sets) != 2 || w.Sets[1].Reps != 8 {
		t.Errorf("Sets = %+v, want two sets in logged order", w.Sets)
	}
	if !w.HasExercise(ex) {
		t.Error("expected HasExercise to be true")
	}
	if w.HasExercise(uuid.New()) {
		t.Error("expected HasExercise to be false for unknown exercise")
	}
}

func TestNewRepSetClampsNegative(t *testing.T) {
	s := NewRepSet(uuid.New(), -3)
	if s.Reps != 0 {
		t.Errorf("Reps = %d, want 0", s.Reps)
	}
}

func TestTimedSet(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{"positive", 45.5, 45.5},
		{"zero", 0, 0},
		{"negative clamps", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTimedSet(uuid.New(), tt.seconds)
			if got := s.Seconds(); got != tt.want {
				t.Errorf("Seconds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSecondsWithoutDuration(t *testing.T) {
	s := NewRepSet(uuid.New(), 5)
	if got := s.Seconds(); got != 0 {
		t.Errorf("Seconds() = %v, want 0", got)
	}
}
