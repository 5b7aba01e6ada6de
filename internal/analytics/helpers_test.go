// ABOUTME: Shared fixtures for analytics tests.
// ABOUTME: Builds dated workouts and a small catalog.
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/models"
)

// today is a Wednesday.
var today = time.Date(2025, time.June, 18, 12, 0, 0, 0, time.UTC)

func at(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 9, 30, 0, 0, time.UTC)
}

type fixture struct {
	pushup  *models.ExerciseDefinition
	squat   *models.ExerciseDefinition
	plank   *models.ExerciseDefinition
	catalog MapCatalog
}

func newFixture() fixture {
	pushup := models.NewExercise("Push-up", models.CategoryChest)
	squat := models.NewExercise("Squat", models.CategoryLegs)
	plank := models.NewExercise("Plank", models.CategoryCore).WithKind(models.KindTime)
	return fixture{
		pushup:  pushup,
		squat:   squat,
		plank:   plank,
		catalog: NewMapCatalog([]*models.ExerciseDefinition{pushup, squat, plank}),
	}
}

func workoutOn(t time.Time, sets ...models.SetRecord) models.WorkoutRecord {
	w := models.NewWorkout().WithPerformedAt(t)
	for _, s := range sets {
		w.AddSet(s)
	}
	return *w
}

func repsOn(t time.Time, ex uuid.UUID, reps ...int) models.WorkoutRecord {
	sets := make([]models.SetRecord, len(reps))
	for i, r := range reps {
		sets[i] = models.NewRepSet(ex, r)
	}
	return workoutOn(t, sets...)
}

func daysOf(year int, month time.Month, ex uuid.UUID, days ...int) []models.WorkoutRecord {
	out := make([]models.WorkoutRecord, len(days))
	for i, d := range days {
		out[i] = repsOn(at(year, month, d), ex, 10)
	}
	return out
}
