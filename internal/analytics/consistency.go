// ABOUTME: Rest-interval extraction and consistency classification.
// ABOUTME: Gaps are computed between deduplicated qualifying calendar days.
package analytics

import (
	"sort"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// Pattern labels how regular the training gaps are.
type Pattern string

const (
	PatternStable    Pattern = "Stable"
	PatternVariable  Pattern = "Variable"
	PatternIrregular Pattern = "Irregular"
)

const (
	stableIQR   = 2
	variableIQR = 7
)

// RestInterval is the gap ending at ReferenceDate, the later day of the pair.
type RestInterval struct {
	ReferenceDate time.Time `json:"reference_date" yaml:"reference_date"`
	GapDays       int       `json:"gap_days" yaml:"gap_days"`
}

// ConsistencySummary describes the gap distribution of a selection.
type ConsistencySummary struct {
	MedianGap              float64     `json:"median_gap" yaml:"median_gap"`
	MinGap                 int         `json:"min_gap" yaml:"min_gap"`
	MaxGap                 int         `json:"max_gap" yaml:"max_gap"`
	QualifyingWorkoutCount int         `json:"qualifying_workout_count" yaml:"qualifying_workout_count"`
	Pattern                Pattern     `json:"pattern" yaml:"pattern"`
	GapHistogram           map[int]int `json:"gap_histogram" yaml:"gap_histogram"`
}

// Consistency is the classifier output: the summary plus the gaps it was built from.
type Consistency struct {
	Selector  Selector           `json:"selector" yaml:"selector"`
	Window    Window             `json:"window" yaml:"window"`
	Summary   ConsistencySummary `json:"summary" yaml:"summary"`
	Intervals []RestInterval     `json:"intervals" yaml:"intervals"`
}

// RestIntervals returns the gaps between consecutive qualifying days inside the window,
// in date order, and the number of qualifying workouts.
func RestIntervals(workouts []models.WorkoutRecord, catalog Catalog, sel Selector, window Window, today time.Time) ([]RestInterval, int) {
	days := make(map[time.Time]struct{})
	count := 0
	for i := range workouts {
		w := &workouts[i]
		day := CalendarDay(workoutTime(w, today))
		if !window.Contains(day) || !sel.Qualifies(w, catalog) {
			continue
		}
		days[day] = struct{}{}
		count++
	}

	ordered := sortedDays(days)
	intervals := make([]RestInterval, 0, max(len(ordered)-1, 0))
	for i := 1; i < len(ordered); i++ {
		intervals = append(intervals, RestInterval{
			ReferenceDate: ordered[i],
			GapDays:       DaysBetween(ordered[i], ordered[i-1]),
		})
	}
	return intervals, count
}

// Summarize computes median, extrema, histogram and pattern of the gaps.
func Summarize(intervals []RestInterval, qualifyingCount int) ConsistencySummary {
	summary := ConsistencySummary{
		QualifyingWorkoutCount: qualifyingCount,
		Pattern:                PatternStable,
		GapHistogram:           make(map[int]int),
	}
	if len(intervals) == 0 {
		return summary
	}

	gaps := gapValues(intervals)
	sorted := append([]int(nil), gaps...)
	sort.Ints(sorted)

	summary.MedianGap = median(sorted)
	summary.MinGap = sorted[0]
	summary.MaxGap = sorted[len(sorted)-1]
	for _, g := range gaps {
		summary.GapHistogram[g]++
	}
	summary.Pattern = ClassifyPattern(gaps)
	return summary
}

// ClassifyPattern applies the interquartile-range rule: IQR <= 2 is Stable, IQR <= 7 is
// Variable, anything wider is Irregular. Fewer than 2 gaps is Stable.
// Quartiles are taken by index, sorted[floor(n*0.25)] and sorted[floor(n*0.75)], not interpolated.
func ClassifyPattern(gaps []int) Pattern {
	n := len(gaps)
	if n < 2 {
		return PatternStable
	}

	sorted := append([]int(nil), gaps...)
	sort.Ints(sorted)
	q1 := sorted[n/4]
	q3 := sorted[n*3/4]

	switch iqr := q3 - q1; {
	case iqr <= stableIQR:
		return PatternStable
	case iqr <= variableIQR:
		return PatternVariable
	default:
		return PatternIrregular
	}
}

// Classify runs the classifier over an explicit window.
func Classify(workouts []models.WorkoutRecord, catalog Catalog, sel Selector, window Window, today time.Time) Consistency {
	intervals, count := RestIntervals(workouts, catalog, sel, window, today)
	return Consistency{
		Selector:  sel,
		Window:    window,
		Summary:   Summarize(intervals, count),
		Intervals: intervals,
	}
}

// ClassifyPeriod runs the classifier over the period window containing today.
func ClassifyPeriod(workouts []models.WorkoutRecord, catalog Catalog, sel Selector, period Period, today time.Time) (Consistency, error) {
	window, err := PeriodWindow(period, today)
	if err != nil {
		return Consistency{}, err
	}
	return Classify(workouts, catalog, sel, window, today), nil
}

func gapValues(intervals []RestInterval) []int {
	gaps := make([]int, len(intervals))
	for i, iv := range intervals {
		gaps[i] = iv.GapDays
	}
	return gaps
}

// median expects sorted input and averages the two middle values on even counts.
func median(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}
