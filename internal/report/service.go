// ABOUTME: Report service tying storage, the memo cache, and the analytics engine together.
// ABOUTME: Reads are memoized per log version; mutations invalidate the cache.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/memo"
	"github.com/harperreed/workoutlog/internal/metrics"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/sirupsen/logrus"
)

// Service answers analytics queries over a Repository.
type Service struct {
	repo    storage.Repository
	cache   *memo.Cache
	now     func() time.Time
	logger  logrus.FieldLogger
	metrics *metrics.Manager
}

// Options configures a Service. Every field is optional.
type Options struct {
	Cache   *memo.Cache
	Now     func() time.Time
	Logger  logrus.FieldLogger
	Metrics *metrics.Manager
}

// NewService creates a Service over repo.
func NewService(repo storage.Repository, opts Options) *Service {
	s := &Service{
		repo:    repo,
		cache:   opts.Cache,
		now:     opts.Now,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

// Today returns the current instant in UTC.
func (s *Service) Today() time.Time {
	return s.now().UTC()
}

// compute memoizes fn under the current log version, the operation, today's date and params.
func compute[T any](s *Service, op string, fn func(snap *analytics.Snapshot, today time.Time) (T, error), params ...any) (T, error) {
	var zero T
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.HistReportDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		}
	}()

	version, err := s.repo.Version()
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	today := s.Today()
	keyParams := append([]any{today.Format(time.DateOnly)}, params...)
	key := memo.Key(version, op, keyParams...)

	return memo.Remember(s.cache, key, func() (T, error) {
		snap, err := s.repo.Snapshot()
		if err != nil {
			return zero, fmt.Errorf("%s: %w", op, err)
		}
		s.logger.WithFields(logrus.Fields{"op": op, "version": snap.Version}).Debug("computing report")
		return fn(snap, today)
	})
}

// Streaks returns the current and longest day streaks.
func (s *Service) Streaks() (analytics.Streaks, error) {
	return compute(s, "streaks", func(snap *analytics.Snapshot, today time.Time) (analytics.Streaks, error) {
		return analytics.ComputeStreaks(snap.Workouts, today), nil
	})
}

// Frequency returns the trained-day ratio of the period containing today.
func (s *Service) Frequency(period analytics.Period) (analytics.Frequency, error) {
	if err := period.Validate(); err != nil {
		return analytics.Frequency{}, err
	}
	return compute(s, "frequency", func(snap *analytics.Snapshot, today time.Time) (analytics.Frequency, error) {
		return analytics.TrainingFrequency(snap.Workouts, period, today)
	}, period)
}

// Consistency classifies rest gaps for the selection over the period containing today.
func (s *Service) Consistency(sel analytics.Selector, period analytics.Period) (analytics.Consistency, error) {
	if err := period.Validate(); err != nil {
		return analytics.Consistency{}, err
	}
	return compute(s, "consistency", func(snap *analytics.Snapshot, today time.Time) (analytics.Consistency, error) {
		return analytics.ClassifyPeriod(snap.Workouts, snap.Catalog, sel, period, today)
	}, sel, period)
}

// Trend detects the rest-gap trend of the selection over the last four months.
func (s *Service) Trend(sel analytics.Selector) (analytics.TrendResult, error) {
	return compute(s, "trend", func(snap *analytics.Snapshot, today time.Time) (analytics.TrendResult, error) {
		return analytics.Trend(snap.Workouts, snap.Catalog, sel, today), nil
	}, sel)
}

// CompareYears compares this year's consistency with last year's.
func (s *Service) CompareYears(sel analytics.Selector) (analytics.YearComparison, error) {
	return compute(s, "compare_years", func(snap *analytics.Snapshot, today time.Time) (analytics.YearComparison, error) {
		return analytics.CompareYears(snap.Workouts, snap.Catalog, sel, today), nil
	}, sel)
}

// Categories classifies every category over the period containing today.
func (s *Service) Categories(period analytics.Period) ([]analytics.CategoryReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return compute(s, "categories", func(snap *analytics.Snapshot, today time.Time) ([]analytics.CategoryReport, error) {
		return analytics.Categories(snap.Workouts, snap.Catalog, period, today)
	}, period)
}

// Targets returns per-position max and average series for an exercise.
func (s *Service) Targets(exerciseID uuid.UUID, period analytics.Period) (analytics.PositionTargets, error) {
	if err := period.Validate(); err != nil {
		return analytics.PositionTargets{}, err
	}
	return compute(s, "targets", func(snap *analytics.Snapshot, today time.Time) (analytics.PositionTargets, error) {
		return analytics.TargetsForPeriod(snap.Workouts, snap.Catalog, exerciseID, period, today)
	}, exerciseID, period)
}

// ResolveExercise finds an exercise by name, falling back to ID or ID prefix.
func (s *Service) ResolveExercise(ref string) (*models.ExerciseDefinition, error) {
	ref = strings.TrimSpace(ref)
	if e, err := s.repo.GetExerciseByName(ref); err == nil {
		return e, nil
	}
	e, err := s.repo.GetExercise(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve exercise %q: %w", ref, err)
	}
	return e, nil
}

// ListExercises returns the catalog.
func (s *Service) ListExercises() ([]*models.ExerciseDefinition, error) {
	return s.repo.ListExercises()
}

// ListWorkouts returns workouts, most recent first.
func (s *Service) ListWorkouts(limit int) ([]*models.WorkoutRecord, error) {
	return s.repo.ListWorkouts(limit)
}

// GetWorkout returns a workout by ID or ID prefix.
func (s *Service) GetWorkout(ref string) (*models.WorkoutRecord, error) {
	return s.repo.GetWorkout(ref)
}
