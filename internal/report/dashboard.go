// ABOUTME: Full dashboard built concurrently from one snapshot.
// ABOUTME: Renders to JSON or YAML for export.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

const dashboardConcurrency = 4

// ErrUnknownFormat is returned by Render for formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown format")

// ExerciseReport is the per-exercise section of a dashboard.
type ExerciseReport struct {
	Exercise    models.ExerciseDefinition `json:"exercise" yaml:"exercise"`
	Consistency analytics.Consistency     `json:"consistency" yaml:"consistency"`
	Trend       analytics.TrendResult     `json:"trend" yaml:"trend"`
	Years       analytics.YearComparison  `json:"years" yaml:"years"`
	Targets     analytics.PositionTargets `json:"targets" yaml:"targets"`
}

// Dashboard gathers every analytics result for one period.
type Dashboard struct {
	GeneratedOn      time.Time                  `json:"generated_on" yaml:"generated_on"`
	Version          uint64                     `json:"version" yaml:"version"`
	Period           analytics.Period           `json:"period" yaml:"period"`
	Streaks          analytics.Streaks          `json:"streaks" yaml:"streaks"`
	Frequency        analytics.Frequency        `json:"frequency" yaml:"frequency"`
	FrequencyPercent *int                       `json:"frequency_percent" yaml:"frequency_percent"`
	Categories       []analytics.CategoryReport `json:"categories" yaml:"categories"`
	Exercises        []ExerciseReport           `json:"exercises" yaml:"exercises"`
}

// Dashboard computes streaks, frequency, categories and every exercise section concurrently
// over a single snapshot.
func (s *Service) Dashboard(ctx context.Context, period analytics.Period) (*Dashboard, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	return compute(s, "dashboard", func(snap *analytics.Snapshot, today time.Time) (*Dashboard, error) {
		return buildDashboard(ctx, snap, period, today)
	}, period)
}

func buildDashboard(ctx context.Context, snap *analytics.Snapshot, period analytics.Period, today time.Time) (*Dashboard, error) {
	exercises := catalogExercises(snap)
	d := &Dashboard{
		GeneratedOn: analytics.CalendarDay(today),
		Version:     snap.Version,
		Period:      period,
		Exercises:   make([]ExerciseReport, len(exercises)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)

	g.Go(func() error {
		d.Streaks = analytics.ComputeStreaks(snap.Workouts, today)
		return ctx.Err()
	})
	g.Go(func() error {
		f, err := analytics.TrainingFrequency(snap.Workouts, period, today)
		if err != nil {
			return fmt.Errorf("frequency: %w", err)
		}
		d.Frequency = f
		if p, ok := f.Percentage(); ok {
			d.FrequencyPercent = &p
		}
		return nil
	})
	g.Go(func() error {
		c, err := analytics.Categories(snap.Workouts, snap.Catalog, period, today)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		d.Categories = c
		return nil
	})

	positions := analytics.NewPositionIndex(snap.Workouts, snap.Catalog, today)
	targetWindow, err := analytics.PeriodWindow(analytics.DefaultTargetPeriod, today)
	if err != nil {
		return nil, err
	}

	for i, e := range exercises {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sel := analytics.ForExercise(e.ID)
			c, err := analytics.ClassifyPeriod(snap.Workouts, snap.Catalog, sel, period, today)
			if err != nil {
				return fmt.Errorf("consistency %s: %w", e.Name, err)
			}
			d.Exercises[i] = ExerciseReport{
				Exercise:    e,
				Consistency: c,
				Trend:       analytics.Trend(snap.Workouts, snap.Catalog, sel, today),
				Years:       analytics.CompareYears(snap.Workouts, snap.Catalog, sel, today),
				Targets:     positions.Targets(e.ID, targetWindow),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}
	return d, nil
}

// catalogExercises lists the snapshot catalog in name order.
func catalogExercises(snap *analytics.Snapshot) []models.ExerciseDefinition {
	mc, ok := snap.Catalog.(analytics.MapCatalog)
	if !ok {
		return nil
	}
	out := make([]models.ExerciseDefinition, 0, len(mc))
	for _, e := range mc {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Render encodes v as json or yaml.
func Render(v any, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("render yaml: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}
