// ABOUTME: Shared parsing and formatting helpers for CLI commands.
// ABOUTME: Timestamps, period flags, selectors, and column padding.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
)

const dateLayout = "2006-01-02"

// parseTime accepts any timestamp layout the log stores, rejecting the rest.
func parseTime(s string) (time.Time, error) {
	parsed := analytics.ParseTimestamp(s, time.Time{})
	if parsed.IsFallback() {
		return time.Time{}, fmt.Errorf("unrecognized time format")
	}
	return parsed.Time, nil
}

// parsePeriodFlag maps an empty flag to fallback.
func parsePeriodFlag(raw string, fallback analytics.Period) (analytics.Period, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	p, err := analytics.ParsePeriod(raw)
	if err != nil {
		return "", fmt.Errorf("%w (use weekly, monthly, yearly, 3months or 4months)", err)
	}
	return p, nil
}

// resolveSelector builds a selector from an optional exercise argument or a category flag.
func resolveSelector(args []string, category string) (analytics.Selector, string, error) {
	if len(args) > 0 {
		e, err := svc.ResolveExercise(args[0])
		if err != nil {
			return analytics.Selector{}, "", fmt.Errorf("exercise not found: %s", args[0])
		}
		return analytics.ForExercise(e.ID), e.Name, nil
	}

	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return analytics.Selector{}, "", errors.New("give an exercise or --category")
	}
	if !models.IsValidCategory(category) {
		return analytics.Selector{}, "", fmt.Errorf("unknown category: %s", category)
	}
	return analytics.ForCategory(models.Category(category)), category, nil
}

func formatGap(median float64) string {
	if median == float64(int(median)) {
		return fmt.Sprintf("%d", int(median))
	}
	return fmt.Sprintf("%.1f", median)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
