// ABOUTME: Log version bookkeeping and snapshot loading for SQLite storage.
// ABOUTME: Every mutation bumps the version inside its own transaction.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/harperreed/workoutlog/internal/analytics"
)

// bumpVersion increments the log version within tx.
func bumpVersion(tx *sql.Tx) error {
	if _, err := tx.Exec(`UPDATE log_meta SET value = value + 1 WHERE key = 'version'`); err != nil {
		return fmt.Errorf("bump version: %w", err)
	}
	return nil
}

// Version returns the current log version.
func (d *DB) Version() (uint64, error) {
	return readLogVersion(d.db)
}

func readLogVersion(q querier) (uint64, error) {
	var v int64
	if err := q.QueryRow(`SELECT value FROM log_meta WHERE key = 'version'`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return uint64(v), nil
}

// Snapshot loads the version, every exercise and every workout with its sets in one
// read transaction.
func (d *DB) Snapshot() (*analytics.Snapshot, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	version, err := readLogVersion(tx)
	if err != nil {
		return nil, err
	}

	exercises, err := d.listExercises(tx)
	if err != nil {
		return nil, fmt.Errorf("snapshot exercises: %w", err)
	}

	workouts, err := d.listWorkouts(tx, 0)
	if err != nil {
		return nil, fmt.Errorf("snapshot workouts: %w", err)
	}

	return buildSnapshot(version, exercises, workouts), nil
}

// withTx runs fn in a transaction and bumps the version when fn succeeds.
func (d *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := bumpVersion(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
