// ABOUTME: Badger key-value backend for the workout log.
// ABOUTME: Records are JSON values under exercise:, workout: and meta: key prefixes.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	exercisePrefix     = "exercise:"
	exerciseNamePrefix = "exercise_name:"
	workoutPrefix      = "workout:"
	versionKey         = "meta:version"
)

// KVStore implements Repository on top of Badger.
type KVStore struct {
	db     *badger.DB
	logger logrus.FieldLogger
}

// Compile-time check that KVStore implements Repository.
var _ Repository = (*KVStore)(nil)

// OpenKV opens or creates a Badger store in dir.
func OpenKV(dir string) (*KVStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return openKV(badger.DefaultOptions(dir))
}

// OpenKVInMemory opens a Badger store that lives only in memory.
func OpenKVInMemory() (*KVStore, error) {
	return openKV(badger.DefaultOptions("").WithInMemory(true))
}

func openKV(opts badger.Options) (*KVStore, error) {
	logger := logrus.StandardLogger().WithField("component", "badger")
	db, err := badger.Open(opts.WithLogger(badgerLogger{logger}))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &KVStore{db: db, logger: logrus.StandardLogger()}, nil
}

// badgerLogger demotes Badger's chatty info output to debug.
type badgerLogger struct {
	logrus.FieldLogger
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.FieldLogger.Debugf(format, args...)
}

// SetLogger replaces the logger used for store warnings.
func (s *KVStore) SetLogger(l logrus.FieldLogger) {
	s.logger = l
}

// Close closes the Badger database.
func (s *KVStore) Close() error {
	return s.db.Close()
}

// CreateExercise stores a new exercise definition.
func (s *KVStore) CreateExercise(e *models.ExerciseDefinition) error {
	if err := validateExercise(e); err != nil {
		return fmt.Errorf("create exercise: %w", err)
	}

	return s.update(func(txn *badger.Txn) error {
		nameKey := []byte(exerciseNamePrefix + strings.ToLower(e.Name))
		if _, err := txn.Get(nameKey); err == nil {
			return fmt.Errorf("create exercise: name already exists: %s", e.Name)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("create exercise: %w", err)
		}
		if _, err := txn.Get([]byte(exercisePrefix + e.ID.String())); err == nil {
			return fmt.Errorf("create exercise: duplicate id: %s", e.ID)
		}

		if err := setJSON(txn, exercisePrefix+e.ID.String(), e); err != nil {
			return fmt.Errorf("create exercise: %w", err)
		}
		return txn.Set(nameKey, []byte(e.ID.String()))
	})
}

// GetExercise retrieves an exercise by ID or ID prefix.
func (s *KVStore) GetExercise(idOrPrefix string) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := resolveKV(txn, exercisePrefix, idOrPrefix)
		if err != nil {
			return err
		}
		return getJSON(txn, exercisePrefix+id, idOrPrefix, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetExerciseByName retrieves an exercise by name, ignoring case.
func (s *KVStore) GetExerciseByName(name string) (*models.ExerciseDefinition, error) {
	var e models.ExerciseDefinition
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(exerciseNamePrefix + strings.ToLower(name)))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("not found: %s", name)
		}
		if err != nil {
			return fmt.Errorf("get exercise by name: %w", err)
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("get exercise by name: %w", err)
		}
		return getJSON(txn, exercisePrefix+string(id), name, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListExercises returns the catalog sorted by category then name.
func (s *KVStore) ListExercises() ([]*models.ExerciseDefinition, error) {
	var exercises []*models.ExerciseDefinition
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		exercises, err = scanPrefix[models.ExerciseDefinition](txn, exercisePrefix)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].Category != exercises[j].Category {
			return exercises[i].Category < exercises[j].Category
		}
		return strings.ToLower(exercises[i].Name) < strings.ToLower(exercises[j].Name)
	})
	return exercises, nil
}

// DeleteExercise removes an exercise that no set references.
func (s *KVStore) DeleteExercise(idOrPrefix string) error {
	return s.update(func(txn *badger.Txn) error {
		id, err := resolveKV(txn, exercisePrefix, idOrPrefix)
		if err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		var e models.ExerciseDefinition
		if err := getJSON(txn, exercisePrefix+id, idOrPrefix, &e); err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}

		workouts, err := scanPrefix[kvWorkout](txn, workoutPrefix)
		if err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		used := 0
		for _, w := range workouts {
			for _, set := range w.Sets {
				if set.ExerciseID == e.ID {
					used++
				}
			}
		}
		if used > 0 {
			return fmt.Errorf("delete exercise %s: %w by %d sets", idOrPrefix, ErrExerciseInUse, used)
		}

		if err := txn.Delete([]byte(exercisePrefix + id)); err != nil {
			return fmt.Errorf("delete exercise: %w", err)
		}
		return txn.Delete([]byte(exerciseNamePrefix + strings.ToLower(e.Name)))
	})
}

// CreateWorkout stores a new workout with its sets.
func (s *KVStore) CreateWorkout(w *models.WorkoutRecord) error {
	return s.update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(workoutPrefix + w.ID.String())); err == nil {
			return fmt.Errorf("create workout: duplicate id: %s", w.ID)
		}
		stored := *w
		stored.Sets = make([]models.SetRecord, len(w.Sets))
		for i, set := range w.Sets {
			if set.ID == uuid.Nil {
				set.ID = uuid.New()
			}
			if set.Reps < 0 {
				set.Reps = 0
			}
			if err := requireExercise(txn, set.ExerciseID); err != nil {
				return fmt.Errorf("create workout: %w", err)
			}
			stored.Sets[i] = set
		}
		if err := setJSON(txn, workoutPrefix+w.ID.String(), toKVWorkout(&stored)); err != nil {
			return fmt.Errorf("create workout: %w", err)
		}
		return nil
	})
}

// GetWorkout retrieves a workout with its sets by ID or ID prefix.
func (s *KVStore) GetWorkout(idOrPrefix string) (*models.WorkoutRecord, error) {
	var kw kvWorkout
	err := s.db.View(func(txn *badger.Txn) error {
		id, err := resolveKV(txn, workoutPrefix, idOrPrefix)
		if err != nil {
			return err
		}
		return getJSON(txn, workoutPrefix+id, idOrPrefix, &kw)
	})
	if err != nil {
		return nil, err
	}
	w := s.decodeWorkout(&kw)
	s.checkTimestamp(w)
	return w, nil
}

// ListWorkouts retrieves workouts with their sets, most recent first.
// A limit of 0 returns every workout.
func (s *KVStore) ListWorkouts(limit int) ([]*models.WorkoutRecord, error) {
	var stored []*kvWorkout
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		stored, err = scanPrefix[kvWorkout](txn, workoutPrefix)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	workouts := s.decodeWorkouts(stored)
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].PerformedAt.After(workouts[j].PerformedAt)
	})
	if limit > 0 && len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

// AddSet appends a set to the workout at the next position.
func (s *KVStore) AddSet(workoutID uuid.UUID, set models.SetRecord) error {
	return s.update(func(txn *badger.Txn) error {
		var kw kvWorkout
		if err := getJSON(txn, workoutPrefix+workoutID.String(), workoutID.String(), &kw); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		if err := requireExercise(txn, set.ExerciseID); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		if set.ID == uuid.Nil {
			set.ID = uuid.New()
		}
		if set.Reps < 0 {
			set.Reps = 0
		}
		kw.Sets = append(kw.Sets, toKVSet(set))
		if err := setJSON(txn, workoutPrefix+workoutID.String(), &kw); err != nil {
			return fmt.Errorf("add set: %w", err)
		}
		return nil
	})
}

// DeleteWorkout removes a workout and its sets.
func (s *KVStore) DeleteWorkout(idOrPrefix string) error {
	return s.update(func(txn *badger.Txn) error {
		id, err := resolveKV(txn, workoutPrefix, idOrPrefix)
		if err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		if _, err := txn.Get([]byte(workoutPrefix + id)); err != nil {
			return fmt.Errorf("delete workout: not found: %s", idOrPrefix)
		}
		if err := txn.Delete([]byte(workoutPrefix + id)); err != nil {
			return fmt.Errorf("delete workout: %w", err)
		}
		return nil
	})
}

// Version returns the current log version.
func (s *KVStore) Version() (uint64, error) {
	var v uint64
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		v, err = readVersion(txn)
		return err
	})
	return v, err
}

// Snapshot loads every exercise and workout in one read transaction.
func (s *KVStore) Snapshot() (*analytics.Snapshot, error) {
	var (
		version   uint64
		exercises []*models.ExerciseDefinition
		stored    []*kvWorkout
	)
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if version, err = readVersion(txn); err != nil {
			return err
		}
		if exercises, err = scanPrefix[models.ExerciseDefinition](txn, exercisePrefix); err != nil {
			return fmt.Errorf("snapshot exercises: %w", err)
		}
		if stored, err = scanPrefix[kvWorkout](txn, workoutPrefix); err != nil {
			return fmt.Errorf("snapshot workouts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buildSnapshot(version, exercises, s.decodeWorkouts(stored)), nil
}

// kvWorkout is the stored form of a workout. Timestamps are kept as raw text so one
// unreadable date degrades to a fallback instead of failing the whole scan.
type kvWorkout struct {
	ID          uuid.UUID `json:"id"`
	PerformedAt kvTime    `json:"performed_at"`
	Sets        []kvSet   `json:"sets"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   kvTime    `json:"created_at"`
}

type kvSet struct {
	ID              uuid.UUID `json:"id"`
	ExerciseID      uuid.UUID `json:"exercise_id"`
	Reps            int       `json:"reps"`
	DurationSeconds *float64  `json:"duration_seconds,omitempty"`
	CompletedAt     *kvTime   `json:"completed_at,omitempty"`
}

// kvTime accepts any JSON value and keeps its text for ParseTimestamp.
type kvTime string

func (t *kvTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		s = string(b)
	}
	*t = kvTime(s)
	return nil
}

func toKVWorkout(w *models.WorkoutRecord) *kvWorkout {
	kw := &kvWorkout{
		ID:          w.ID,
		PerformedAt: kvTime(encodeTime(w.PerformedAt)),
		Sets:        make([]kvSet, 0, len(w.Sets)),
		Note:        w.Note,
		CreatedAt:   kvTime(encodeTime(w.CreatedAt)),
	}
	for _, set := range w.Sets {
		kw.Sets = append(kw.Sets, toKVSet(set))
	}
	return kw
}

func toKVSet(set models.SetRecord) kvSet {
	ks := kvSet{
		ID:              set.ID,
		ExerciseID:      set.ExerciseID,
		Reps:            set.Reps,
		DurationSeconds: set.DurationSeconds,
	}
	if set.CompletedAt != nil {
		t := kvTime(encodeTime(*set.CompletedAt))
		ks.CompletedAt = &t
	}
	return ks
}

func (s *KVStore) decodeWorkout(kw *kvWorkout) *models.WorkoutRecord {
	id := kw.ID.String()
	w := &models.WorkoutRecord{
		ID:          kw.ID,
		PerformedAt: decodeTime(s.logger, string(kw.PerformedAt), "workout", id, "performed_at"),
		Sets:        make([]models.SetRecord, 0, len(kw.Sets)),
		Note:        kw.Note,
		CreatedAt:   decodeTime(s.logger, string(kw.CreatedAt), "workout", id, "created_at"),
	}
	for _, ks := range kw.Sets {
		set := models.SetRecord{
			ID:              ks.ID,
			ExerciseID:      ks.ExerciseID,
			Reps:            ks.Reps,
			DurationSeconds: ks.DurationSeconds,
		}
		if ks.CompletedAt != nil {
			t := decodeTime(s.logger, string(*ks.CompletedAt), "set", ks.ID.String(), "completed_at")
			set.CompletedAt = &t
		}
		w.Sets = append(w.Sets, set)
	}
	return w
}

func (s *KVStore) decodeWorkouts(stored []*kvWorkout) []*models.WorkoutRecord {
	workouts := make([]*models.WorkoutRecord, 0, len(stored))
	for _, kw := range stored {
		w := s.decodeWorkout(kw)
		s.checkTimestamp(w)
		workouts = append(workouts, w)
	}
	return workouts
}

// requireExercise fails when id is not in the catalog.
func requireExercise(txn *badger.Txn, id uuid.UUID) error {
	_, err := txn.Get([]byte(exercisePrefix + id.String()))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownExercise, id)
	}
	if err != nil {
		return fmt.Errorf("get exercise %s: %w", id, err)
	}
	return nil
}

// checkTimestamp logs records that were stored without a usable date. The engine places
// them on the current day.
func (s *KVStore) checkTimestamp(w *models.WorkoutRecord) {
	if w.PerformedAt.IsZero() {
		s.logger.WithField("id", w.ID.String()).Warn("workout has no timestamp, counting it as today")
	}
}

// update runs fn in a read-write transaction and bumps the version when fn succeeds.
func (s *KVStore) update(fn func(txn *badger.Txn) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := fn(txn); err != nil {
			return err
		}
		v, err := readVersion(txn)
		if err != nil {
			return err
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, v+1)
		if err := txn.Set([]byte(versionKey), buf); err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
		return nil
	})
}

func readVersion(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(versionKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	var v uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("read version: corrupt value of %d bytes", len(val))
		}
		v = binary.BigEndian.Uint64(val)
		return nil
	})
	return v, err
}

// resolveKV finds the full ID under prefix from an ID prefix.
func resolveKV(txn *badger.Txn, prefix, idOrPrefix string) (string, error) {
	if isFullID(idOrPrefix) {
		return idOrPrefix, nil
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := []byte(prefix + strings.ToLower(idOrPrefix))
	var matches []string
	for it.Seek(seek); it.ValidForPrefix(seek); it.Next() {
		matches = append(matches, strings.TrimPrefix(string(it.Item().Key()), prefix))
	}
	return pickMatch(idOrPrefix, matches)
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

func getJSON(txn *badger.Txn, key, display string, dst any) error {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("not found: %s", display)
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, dst); err != nil {
			return fmt.Errorf("unmarshal %s: %w", key, err)
		}
		return nil
	})
}

func scanPrefix[T any](txn *badger.Txn, prefix string) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		v := new(T)
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
		if err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", item.Key(), err)
		}
		out = append(out, v)
	}
	return out, nil
}
