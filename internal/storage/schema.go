// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for exercises, workouts, their ordered sets, and the log version.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'reps',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		performed_at TEXT NOT NULL,
		note TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sets (
		id TEXT PRIMARY KEY,
		workout_id TEXT NOT NULL,
		exercise_id TEXT NOT NULL,
		ordinal INTEGER NOT NULL,
		reps INTEGER NOT NULL DEFAULT 0,
		duration_seconds REAL,
		completed_at TEXT,
		FOREIGN KEY (workout_id) REFERENCES workouts(id) ON DELETE CASCADE,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id),
		UNIQUE (workout_id, ordinal)
	);

	CREATE TABLE IF NOT EXISTS log_meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);

	INSERT OR IGNORE INTO log_meta (key, value) VALUES ('version', 0);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_exercises_name ON exercises(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_workouts_performed ON workouts(performed_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sets_workout ON sets(workout_id, ordinal);
	CREATE INDEX IF NOT EXISTS idx_sets_exercise ON sets(exercise_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
