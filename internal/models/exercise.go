// ABOUTME: ExerciseDefinition model plus Category and ExerciseKind enums.
// ABOUTME: The catalog entry every logged set points at.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups exercises by the body area they train.
type Category string

const (
	CategoryChest     Category = "chest"
	CategoryBack      Category = "back"
	CategoryShoulders Category = "shoulders"
	CategoryArms      Category = "arms"
	CategoryLegs      Category = "legs"
	CategoryCore      Category = "core"
	CategoryCardio    Category = "cardio"
	CategoryFullBody  Category = "full_body"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryChest, CategoryBack, CategoryShoulders, CategoryArms,
	CategoryLegs, CategoryCore, CategoryCardio, CategoryFullBody,
}

// IsValidCategory checks if a string is a valid category.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// ExerciseKind tells whether sets of an exercise are counted in reps or timed.
type ExerciseKind string

const (
	KindReps ExerciseKind = "reps"
	KindTime ExerciseKind = "time"
)

// IsValidKind checks if a string is a valid exercise kind.
func IsValidKind(s string) bool {
	return s == string(KindReps) || s == string(KindTime)
}

// ExerciseDefinition is a catalog entry, e.g. Push-up (chest, reps) or Plank (core, time).
type ExerciseDefinition struct {
	ID        uuid.UUID    `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Category  Category     `json:"category" yaml:"category"`
	Kind      ExerciseKind `json:"kind" yaml:"kind"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
}

// NewExercise creates a new ExerciseDefinition with generated UUID.
// Kind defaults to reps.
func NewExercise(name string, category Category) *ExerciseDefinition {
	return &ExerciseDefinition{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Kind:      KindReps,
		CreatedAt: time.Now(),
	}
}

// WithKind sets the exercise kind.
func (e *ExerciseDefinition) WithKind(kind ExerciseKind) *ExerciseDefinition {
	e.Kind = kind
	return e
}

// IsTimed reports whether sets of this exercise are measured in seconds.
func (e *ExerciseDefinition) IsTimed() bool {
	return e.Kind == KindTime
}
