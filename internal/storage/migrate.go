// ABOUTME: Data migration between workout log storage backends.
// ABOUTME: Copies exercises, then workouts with their sets, from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Exercises int
	Workouts  int
	Sets      int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	exercises, err := src.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("list source exercises: %w", err)
	}

	for _, e := range exercises {
		if err := dst.CreateExercise(e); err != nil {
			return nil, fmt.Errorf("create exercise %s: %w", e.ID, err)
		}
		summary.Exercises++
	}

	workouts, err := src.ListWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("list source workouts: %w", err)
	}

	// Oldest first so the destination assigns versions in log order.
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		if err := dst.CreateWorkout(w); err != nil {
			return nil, fmt.Errorf("create workout %s: %w", w.ID, err)
		}
		summary.Workouts++
		summary.Sets += len(w.Sets)
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
