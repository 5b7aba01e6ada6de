// ABOUTME: Export and import of the whole workout log.
// ABOUTME: Supports JSON and YAML, and works over any Repository backend.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportFormatVersion is bumped when the export layout changes.
const ExportFormatVersion = "1.0"

// ExportData represents the full export format for the workout log.
type ExportData struct {
	Version    string                       `json:"version" yaml:"version"`
	ExportedAt time.Time                    `json:"exported_at" yaml:"exported_at"`
	Tool       string                       `json:"tool" yaml:"tool"`
	Exercises  []*models.ExerciseDefinition `json:"exercises" yaml:"exercises"`
	Workouts   []*models.WorkoutRecord      `json:"workouts" yaml:"workouts"`
}

// GetAllData retrieves every exercise and workout for export.
func GetAllData(repo Repository) (*ExportData, error) {
	exercises, err := repo.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}

	workouts, err := repo.ListWorkouts(0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	return &ExportData{
		Version:    ExportFormatVersion,
		ExportedAt: time.Now().UTC(),
		Tool:       "workoutlog",
		Exercises:  exercises,
		Workouts:   workouts,
	}, nil
}

// ImportData creates every exercise, then every workout with its sets.
func ImportData(repo Repository, data *ExportData) error {
	for _, e := range data.Exercises {
		if err := repo.CreateExercise(e); err != nil {
			return fmt.Errorf("import exercise: %w", err)
		}
	}

	for _, w := range data.Workouts {
		if err := repo.CreateWorkout(w); err != nil {
			return fmt.Errorf("import workout: %w", err)
		}
	}

	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := GetAllData(repo)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(repo, &data)
}

// ImportYAML imports data from YAML bytes.
func ImportYAML(repo Repository, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return ImportData(repo, &data)
}
