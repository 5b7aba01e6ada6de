// ABOUTME: Exercise catalog CRUD operations for SQLite storage.
// ABOUTME: Names are unique case-insensitively; referenced exercises cannot be deleted.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/models"
)

const exerciseColumns = `id, name, category, kind, created_at`

// CreateExercise stores a new exercise definition.
func (d *DB) CreateExercise(e *models.ExerciseDefinition) error {
	if err := validateExercise(e); err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	return d.withTx(func(tx *sql.Tx) error {
		var taken int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM exercises WHERE name = ? COLLATE NOCASE`, e.Name).Scan(&taken); err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}
		if taken > 0 {
			return fmt.Errorf("create exercise: name already exists: %s", e.Name)
		}

		_, err := tx.Exec(`
			INSERT INTO exercises (id, name, category, kind, created_at)
			VALUES (?, ?, ?, ?, ?)
		`,
			e.ID.String(),
			e.Name,
			string(e.Category),
			string(e.Kind),
			encodeTime(e.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}
		return nil
	})
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (d *DB) GetExercise(idOrPrefix string) (*models.ExerciseDefinition, error) {
	id, err := d.resolveID("exercises", idOrPrefix)
	if err != nil {
		return nil, err
	}
	return d.scanExercise(d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE id = ?`, id), idOrPrefix)
}

// GetExerciseByName retrieves an exercise by name, ignoring case.
func (d *DB) GetExerciseByName(name string) (*models.ExerciseDefinition, error) {
	row := d.db.QueryRow(`SELECT `+exerciseColumns+` FROM exercises WHERE name = ? COLLATE NOCASE`, name)
	return d.scanExercise(row, name)
}

// ListExercises returns the catalog sorted by category then name.
func (d *DB) ListExercises() ([]*models.ExerciseDefinition, error) {
	return d.listExercises(d.db)
}

func (d *DB) listExercises(q querier) ([]*models.ExerciseDefinition, error) {
	rows, err := q.Query(`SELECT ` + exerciseColumns + ` FROM exercises ORDER BY category, name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []*models.ExerciseDefinition
	for rows.Next() {
		e, err := d.scanExerciseRow(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// DeleteExercise removes an exercise that no set references.
func (d *DB) DeleteExercise(idOrPrefix string) error {
	id, err := d.resolveID("exercises", idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}

	return d.withTx(func(tx *sql.Tx) error {
		var used int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM sets WHERE exercise_id = ?`, id).Scan(&used); err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		if used > 0 {
			return fmt.Errorf("delete exercise %s: %w by %d sets", idOrPrefix, ErrExerciseInUse, used)
		}

		result, err := tx.Exec(`DELETE FROM exercises WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("not found: %s", idOrPrefix)
		}
		return nil
	})
}

// resolveID finds the full ID in table from a prefix.
func (d *DB) resolveID(table, idOrPrefix string) (string, error) {
	if isFullID(idOrPrefix) {
		return idOrPrefix, nil
	}

	// table is always a package constant, never user input.
	rows, err := d.db.Query(`SELECT id FROM `+table+` WHERE id LIKE ? || '%'`, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", table, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan %s ID: %w", table, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", table, err)
	}

	return pickMatch(idOrPrefix, matches)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (d *DB) scanExercise(row *sql.Row, key string) (*models.ExerciseDefinition, error) {
	e, err := d.scanExerciseRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("not found: %s", key)
	}
	return e, err
}

func (d *DB) scanExerciseRow(row rowScanner) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	var idStr, category, kind, createdAt string

	if err := row.Scan(&idStr, &e.Name, &category, &kind, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan exercise: %w", err)
	}

	e.ID, _ = uuid.Parse(idStr)
	e.Category = models.Category(category)
	e.Kind = models.ExerciseKind(kind)
	e.CreatedAt = decodeTime(d.logger, createdAt, "exercises", idStr, "created_at")
	return &e, nil
}
