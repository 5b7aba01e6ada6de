// ABOUTME: Workout and set CRUD operations for SQLite storage.
// ABOUTME: Sets keep an explicit ordinal so logged order survives round trips.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/models"
)

const workoutColumns = `id, performed_at, note, created_at`

// CreateWorkout stores a new workout together with its sets.
func (d *DB) CreateWorkout(w *models.WorkoutRecord) error {
	return d.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO workouts (id, performed_at, note, created_at)
			VALUES (?, ?, ?, ?)
		`,
			w.ID.String(),
			encodeTime(w.PerformedAt),
			w.Note,
			encodeTime(w.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create workout: %w", err)
		}

		for i, s := range w.Sets {
			if err := insertSet(tx, w.ID, i+1, s); err != nil {
				return fmt.Errorf("create workout: %w", err)
			}
		}
		return nil
	})
}

// GetWorkout retrieves a workout with its sets by ID or ID prefix.
func (d *DB) GetWorkout(idOrPrefix string) (*models.WorkoutRecord, error) {
	id, err := d.resolveID("workouts", idOrPrefix)
	if err != nil {
		return nil, err
	}

	w, err := d.scanWorkout(d.db.QueryRow(`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", idOrPrefix)
	}
	if err != nil {
		return nil, err
	}

	sets, err := d.loadSets(d.db, `WHERE workout_id = ?`, id)
	if err != nil {
		return nil, err
	}
	w.Sets = sets[w.ID]
	return w, nil
}

// ListWorkouts retrieves workouts with their sets, most recent first.
// A limit of 0 returns every workout.
func (d *DB) ListWorkouts(limit int) ([]*models.WorkoutRecord, error) {
	return d.listWorkouts(d.db, limit)
}

func (d *DB) listWorkouts(q querier, limit int) ([]*models.WorkoutRecord, error) {
	query := `SELECT ` + workoutColumns + ` FROM workouts ORDER BY performed_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.WorkoutRecord
	for rows.Next() {
		w, err := d.scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if len(workouts) == 0 {
		return workouts, nil
	}

	var sets map[uuid.UUID][]models.SetRecord
	if limit > 0 {
		sets, err = d.loadSets(q, `WHERE workout_id IN (SELECT id FROM workouts ORDER BY performed_at DESC LIMIT ?)`, limit)
	} else {
		sets, err = d.loadSets(q, ``)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range workouts {
		w.Sets = sets[w.ID]
	}
	return workouts, nil
}

// AddSet appends a set to the workout at the next position.
func (d *DB) AddSet(workoutID uuid.UUID, s models.SetRecord) error {
	return d.withTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM workouts WHERE id = ?`, workoutID.String()).Scan(&exists); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("add set: not found: %s", workoutID)
		}

		var next int
		if err := tx.QueryRow(`SELECT COALESCE(MAX(ordinal), 0) + 1 FROM sets WHERE workout_id = ?`, workoutID.String()).Scan(&next); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		if err := insertSet(tx, workoutID, next, s); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		return nil
	})
}

// DeleteWorkout removes a workout and all its sets (cascade delete).
func (d *DB) DeleteWorkout(idOrPrefix string) error {
	id, err := d.resolveID("workouts", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}

	return d.withTx(func(tx *sql.Tx) error {
		// CASCADE is enabled, so deleting the workout deletes its sets
		result, err := tx.Exec("DELETE FROM workouts WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("not found: %s", idOrPrefix)
		}
		return nil
	})
}

func insertSet(tx *sql.Tx, workoutID uuid.UUID, ordinal int, s models.SetRecord) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	var known int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM exercises WHERE id = ?`, s.ExerciseID.String()).Scan(&known); err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	if known == 0 {
		return fmt.Errorf("insert set: %w: %s", ErrUnknownExercise, s.ExerciseID)
	}
	var completedAt *string
	if s.CompletedAt != nil {
		v := encodeTime(*s.CompletedAt)
		completedAt = &v
	}

	_, err := tx.Exec(`
		INSERT INTO sets (id, workout_id, exercise_id, ordinal, reps, duration_seconds, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		s.ID.String(),
		workoutID.String(),
		s.ExerciseID.String(),
		ordinal,
		max(s.Reps, 0),
		s.DurationSeconds,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	return nil
}

// loadSets reads sets matching where, grouped by workout and ordered by ordinal.
func (d *DB) loadSets(q querier, where string, args ...any) (map[uuid.UUID][]models.SetRecord, error) {
	rows, err := q.Query(`
		SELECT id, workout_id, exercise_id, reps, duration_seconds, completed_at
		FROM sets `+where+`
		ORDER BY workout_id, ordinal
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("load sets: %w", err)
	}
	defer rows.Close()

	sets := make(map[uuid.UUID][]models.SetRecord)
	for rows.Next() {
		var s models.SetRecord
		var idStr, workoutIDStr, exerciseIDStr string
		var duration sql.NullFloat64
		var completedAt sql.NullString

		if err := rows.Scan(&idStr, &workoutIDStr, &exerciseIDStr, &s.Reps, &duration, &completedAt); err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}

		s.ID, _ = uuid.Parse(idStr)
		s.ExerciseID, _ = uuid.Parse(exerciseIDStr)
		if duration.Valid {
			s = s.WithDuration(duration.Float64)
		}
		if completedAt.Valid {
			s = s.WithCompletedAt(decodeTime(d.logger, completedAt.String, "sets", idStr, "completed_at"))
		}

		workoutID, _ := uuid.Parse(workoutIDStr)
		sets[workoutID] = append(sets[workoutID], s)
	}
	return sets, rows.Err()
}

func (d *DB) scanWorkout(row rowScanner) (*models.WorkoutRecord, error) {
	var w models.WorkoutRecord
	var idStr, performedAt, createdAt string
	var note sql.NullString

	if err := row.Scan(&idStr, &performedAt, &note, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	w.ID, _ = uuid.Parse(idStr)
	w.PerformedAt = decodeTime(d.logger, performedAt, "workouts", idStr, "performed_at")
	w.CreatedAt = decodeTime(d.logger, createdAt, "workouts", idStr, "created_at")
	if note.Valid {
		w.Note = &note.String
	}
	return &w, nil
}
