// ABOUTME: Trend detection comparing the median gap of two halves of the rest intervals.
// ABOUTME: Trends are only computed over the rolling four month window.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

// Direction is the outcome of trend detection.
type Direction string

const (
	DirectionImproving    Direction = "improving"
	DirectionDeclining    Direction = "declining"
	DirectionStable       Direction = "stable"
	DirectionInsufficient Direction = "insufficient"
)

// TrendPeriod is the only window trends are defined over.
const TrendPeriod = PeriodFourMonths

const (
	minTrendGaps   = 4
	minHalfGaps    = 2
	trendThreshold = 10
)

// TrendResult compares recent rest gaps with past ones. A positive PercentageChange
// means gaps shrank.
type TrendResult struct {
	Direction        Direction `json:"direction" yaml:"direction"`
	PercentageChange int       `json:"percentage_change" yaml:"percentage_change"`
	RecentMedian     float64   `json:"recent_median" yaml:"recent_median"`
	PastMedian       float64   `json:"past_median" yaml:"past_median"`
}

// DetectTrend splits the date-ordered gaps at floor(n/2) into past and recent halves and
// compares their medians.
func DetectTrend(intervals []RestInterval) TrendResult {
	insufficient := TrendResult{Direction: DirectionInsufficient}
	if len(intervals) < minTrendGaps {
		return insufficient
	}

	ordered := append([]RestInterval(nil), intervals...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ReferenceDate.Before(ordered[j].ReferenceDate)
	})

	mid := len(ordered) / 2
	past, recent := ordered[:mid], ordered[mid:]
	if len(past) < minHalfGaps || len(recent) < minHalfGaps {
		return insufficient
	}

	pastMedian := sortedMedian(gapValues(past))
	recentMedian := sortedMedian(gapValues(recent))

	result := TrendResult{
		Direction:    DirectionStable,
		RecentMedian: recentMedian,
		PastMedian:   pastMedian,
	}
	if pastMedian == 0 {
		return result
	}

	result.PercentageChange = int(math.Round(100 * (pastMedian - recentMedian) / pastMedian))
	switch {
	case result.PercentageChange > trendThreshold:
		result.Direction = DirectionImproving
	case result.PercentageChange < -trendThreshold:
		result.Direction = DirectionDeclining
	}
	return result
}

// Trend classifies the four month window ending today and detects the trend of its gaps.
func Trend(workouts []models.WorkoutRecord, catalog Catalog, sel Selector, today time.Time) TrendResult {
	window, _ := PeriodWindow(TrendPeriod, today)
	intervals, _ := RestIntervals(workouts, catalog, sel, window, today)
	return DetectTrend(intervals)
}

func sortedMedian(values []int) float64 {
	sort.Ints(values)
	return median(values)
}
