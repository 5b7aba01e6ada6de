// ABOUTME: Log mutations routed through the report service.
// ABOUTME: Each successful mutation drops every memoized report.
package report

import (
	"fmt"

	"github.com/harperreed/workoutlog/internal/models"
)

// AddExercise creates a catalog entry.
func (s *Service) AddExercise(name string, category models.Category, kind models.ExerciseKind) (*models.ExerciseDefinition, error) {
	e := models.NewExercise(name, category)
	if kind != "" {
		e.WithKind(kind)
	}
	if err := s.repo.CreateExercise(e); err != nil {
		return nil, err
	}
	s.mutated("add_exercise")
	return e, nil
}

// DeleteExercise removes an unused catalog entry.
func (s *Service) DeleteExercise(ref string) error {
	e, err := s.ResolveExercise(ref)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteExercise(e.ID.String()); err != nil {
		return err
	}
	s.mutated("delete_exercise")
	return nil
}

// LogWorkout stores a workout with its sets.
func (s *Service) LogWorkout(w *models.WorkoutRecord) error {
	if err := s.repo.CreateWorkout(w); err != nil {
		return err
	}
	s.mutated("log_workout")
	return nil
}

// AddSet appends a set to the workout identified by ref.
func (s *Service) AddSet(ref string, set models.SetRecord) (*models.WorkoutRecord, error) {
	w, err := s.repo.GetWorkout(ref)
	if err != nil {
		return nil, fmt.Errorf("add set: %w", err)
	}
	if err := s.repo.AddSet(w.ID, set); err != nil {
		return nil, err
	}
	s.mutated("add_set")
	return s.repo.GetWorkout(w.ID.String())
}

// DeleteWorkout removes a workout and its sets.
func (s *Service) DeleteWorkout(ref string) error {
	if err := s.repo.DeleteWorkout(ref); err != nil {
		return err
	}
	s.mutated("delete_workout")
	return nil
}

func (s *Service) mutated(op string) {
	if s.metrics != nil {
		s.metrics.CounterMutations.WithLabelValues(op).Inc()
	}
	s.cache.Invalidate()
	s.logger.WithField("op", op).Debug("log mutated")
}
