// ABOUTME: Repository interface for the workout log and exercise catalog.
// ABOUTME: Implemented by the SQLite and Badger backends.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
)

// ErrExerciseInUse is returned when deleting an exercise that logged sets still reference.
var ErrExerciseInUse = errors.New("exercise in use")

// ErrUnknownExercise is returned when a set references an exercise missing from the catalog.
var ErrUnknownExercise = errors.New("unknown exercise")

// Repository defines the storage interface for the workout log.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Exercise catalog operations
	CreateExercise(e *models.ExerciseDefinition) error
	GetExercise(idOrPrefix string) (*models.ExerciseDefinition, error)
	GetExerciseByName(name string) (*models.ExerciseDefinition, error)
	ListExercises() ([]*models.ExerciseDefinition, error)
	DeleteExercise(idOrPrefix string) error

	// Workout operations
	CreateWorkout(w *models.WorkoutRecord) error
	GetWorkout(idOrPrefix string) (*models.WorkoutRecord, error)
	ListWorkouts(limit int) ([]*models.WorkoutRecord, error)
	AddSet(workoutID uuid.UUID, s models.SetRecord) error
	DeleteWorkout(idOrPrefix string) error

	// Version increases with every mutation.
	Version() (uint64, error)
	// Snapshot returns every workout and the catalog as one consistent view.
	Snapshot() (*analytics.Snapshot, error)

	// Lifecycle
	Close() error
}

// isFullID reports whether s looks like a complete UUID rather than a prefix.
func isFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// pickMatch turns a list of prefix matches into a single ID or the usual errors.
func pickMatch(idOrPrefix string, matches []string) (string, error) {
	if len(matches) == 0 {
		return "", fmt.Errorf("not found: %s", idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

// validateExercise rejects definitions the engine could not classify.
func validateExercise(e *models.ExerciseDefinition) error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("exercise name is required")
	}
	if !models.IsValidCategory(string(e.Category)) {
		return fmt.Errorf("invalid category: %s", e.Category)
	}
	if !models.IsValidKind(string(e.Kind)) {
		return fmt.Errorf("invalid kind: %s", e.Kind)
	}
	return nil
}

// buildSnapshot assembles the engine input from loaded rows.
func buildSnapshot(version uint64, exercises []*models.ExerciseDefinition, workouts []*models.WorkoutRecord) *analytics.Snapshot {
	records := make([]models.WorkoutRecord, 0, len(workouts))
	for _, w := range workouts {
		records = append(records, *w)
	}
	return &analytics.Snapshot{
		Version:  version,
		Workouts: records,
		Catalog:  analytics.NewMapCatalog(exercises),
	}
}
