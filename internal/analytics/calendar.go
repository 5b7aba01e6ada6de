// ABOUTME: Calendar-day identity, day counting, and period windows.
// ABOUTME: Every day boundary in the engine is a UTC calendar day.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrUnknownPeriod is returned when a caller passes a period the engine does not know.
var ErrUnknownPeriod = errors.New("unknown period")

// Period names a window over the workout log.
type Period string

const (
	PeriodWeekly      Period = "weekly"
	PeriodMonthly     Period = "monthly"
	PeriodYearly      Period = "yearly"
	PeriodThreeMonths Period = "3months"
	PeriodFourMonths  Period = "4months"
)

// AllPeriods lists every supported period.
var AllPeriods = []Period{PeriodWeekly, PeriodMonthly, PeriodYearly, PeriodThreeMonths, PeriodFourMonths}

// ParsePeriod validates a user supplied period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}

// Validate returns ErrUnknownPeriod for anything outside AllPeriods.
func (p Period) Validate() error {
	for _, known := range AllPeriods {
		if p == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPeriod, string(p))
}

// rollingMonths returns N for the rolling periods and 0 otherwise.
func (p Period) rollingMonths() int {
	switch p {
	case PeriodThreeMonths:
		return 3
	case PeriodFourMonths:
		return 4
	default:
		return 0
	}
}

// Window is a half-open range of UTC calendar days [Start, End).
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether the calendar day of t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	d := CalendarDay(t)
	return !d.Before(w.Start) && d.Before(w.End)
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	if !w.End.After(w.Start) {
		return 0
	}
	return DaysBetween(w.End, w.Start)
}

// Truncate clips the window so it ends no later than the day after today.
func (w Window) Truncate(today time.Time) Window {
	limit := CalendarDay(today).AddDate(0, 0, 1)
	if w.End.After(limit) {
		w.End = limit
	}
	if w.End.Before(w.Start) {
		w.End = w.Start
	}
	return w
}

// CalendarDay strips the time of day, returning midnight UTC of t's UTC date.
func CalendarDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns ceil(|a - b| / 24h).
func DaysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(24*time.Hour)))
}

// PeriodWindow returns the window of the period that contains ref.
// Weekly windows run Monday to Sunday. Rolling windows span ref minus N months up to and including ref.
func PeriodWindow(p Period, ref time.Time) (Window, error) {
	day := CalendarDay(ref)

	switch p {
	case PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Window{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PeriodMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return Window{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case PeriodYearly:
		return YearWindow(day.Year()), nil
	case PeriodThreeMonths, PeriodFourMonths:
		return Window{
			Start: day.AddDate(0, -p.rollingMonths(), 0),
			End:   day.AddDate(0, 0, 1),
		}, nil
	default:
		return Window{}, p.Validate()
	}
}

// YearWindow returns the full calendar year.
func YearWindow(year int) Window {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(1, 0, 0)}
}

// TimestampSource tags how a ParsedTime was obtained.
type TimestampSource int

const (
	TimestampParsed TimestampSource = iota
	TimestampFallback
)

// ParsedTime is the result of ParseTimestamp.
type ParsedTime struct {
	Time   time.Time
	Source TimestampSource
}

// IsFallback reports whether the raw value could not be parsed.
func (p ParsedTime) IsFallback() bool {
	return p.Source == TimestampFallback
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses raw in any supported layout. Unparseable input yields now,
// tagged TimestampFallback, so one bad record moves to today instead of failing a computation.
func ParseTimestamp(raw string, now time.Time) ParsedTime {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return ParsedTime{Time: t, Source: TimestampParsed}
			}
		}
	}
	return ParsedTime{Time: now, Source: TimestampFallback}
}
