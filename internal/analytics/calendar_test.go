// ABOUTME: Tests for calendar-day identity, windows, and timestamp parsing.
// ABOUTME: Covers the UTC day policy and the unknown period contract error.
package analytics

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarDayUsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 02:00 in Tokyo on the 5th is 17:00 UTC on the 4th.
	ts := time.Date(2025, time.March, 5, 2, 0, 0, 0, tokyo)

	got := CalendarDay(ts)
	want := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("CalendarDay(%v) = %v, want %v", ts, got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", base, base, 0},
		{"one day", base.AddDate(0, 0, 1), base, 1},
		{"reversed order", base, base.AddDate(0, 0, 3), 3},
		{"partial day rounds up", base.Add(25 * time.Hour), base, 2},
		{"one hour", base.Add(time.Hour), base, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPeriodWindow(t *testing.T) {
	d := func(m time.Month, day int) time.Time {
		return time.Date(2025, m, day, 0, 0, 0, 0, time.UTC)
	}
	tests := []struct {
		name   string
		period Period
		ref    time.Time
		want   Window
	}{
		{"weekly midweek", PeriodWeekly, today, Window{d(time.June, 16), d(time.June, 23)}},
		{"weekly on sunday", PeriodWeekly, d(time.June, 22), Window{d(time.June, 16), d(time.June, 23)}},
		{"weekly on monday", PeriodWeekly, d(time.June, 16), Window{d(time.June, 16), d(time.June, 23)}},
		{"monthly", PeriodMonthly, today, Window{d(time.June, 1), d(time.July, 1)}},
		{"yearly", PeriodYearly, today, Window{d(time.January, 1), time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)}},
		{"three months", PeriodThreeMonths, today, Window{d(time.March, 18), d(time.June, 19)}},
		{"four months", PeriodFourMonths, today, Window{d(time.February, 18), d(time.June, 19)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodWindow(tt.period, tt.ref)
			if err != nil {
				t.Fatalf("PeriodWindow() error = %v", err)
			}
			if !got.Start.Equal(tt.want.Start) || !got.End.Equal(tt.want.End) {
				t.Errorf("PeriodWindow() = [%v, %v), want [%v, %v)", got.Start, got.End, tt.want.Start, tt.want.End)
			}
		})
	}
}

func TestUnknownPeriodIsContractError(t *testing.T) {
	if _, err := PeriodWindow(Period("fortnightly"), today); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("PeriodWindow(fortnightly) error = %v, want ErrUnknownPeriod", err)
	}
	if _, err := ParsePeriod("daily"); !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("ParsePeriod(daily) error = %v, want ErrUnknownPeriod", err)
	}

	p, err := ParsePeriod(" Monthly ")
	if err != nil || p != PeriodMonthly {
		t.Errorf("ParsePeriod(Monthly) = %q, %v, want monthly", p, err)
	}
}

func TestWindowContainsAndDays(t *testing.T) {
	w, _ := PeriodWindow(PeriodWeekly, today)

	if w.Days() != 7 {
		t.Errorf("Days() = %d, want 7", w.Days())
	}
	if !w.Contains(time.Date(2025, time.June, 22, 23, 59, 0, 0, time.UTC)) {
		t.Error("expected sunday night to be inside the week")
	}
	if w.Contains(time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected next monday to be outside the week")
	}
	if got := w.Truncate(today).Days(); got != 3 {
		t.Errorf("Truncate(today).Days() = %d, want 3", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	now := time.Date(2025, time.June, 18, 7, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		input        string
		wantFallback bool
		want         time.Time
	}{
		{"RFC3339", "2025-01-31T08:30:00Z", false, time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC)},
		{"date and time with space", "2025-01-31 08:30", false, time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC)},
		{"date and time with T", "2025-01-31T08:30", false, time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC)},
		{"date only", "2025-01-31", false, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)},
		{"garbage", "not a date", true, now},
		{"wrong order", "31-01-2025", true, now},
		{"empty", "", true, now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.input, now)
			if got.IsFallback() != tt.wantFallback {
				t.Errorf("IsFallback() = %v, want %v", got.IsFallback(), tt.wantFallback)
			}
			if !got.Time.Equal(tt.want) {
				t.Errorf("Time = %v, want %v", got.Time, tt.want)
			}
		})
	}
}
