// ABOUTME: CLI commands for rest-gap consistency, trends, and year comparison.
// ABOUTME: Each takes an exercise argument or a --category flag.
package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/spf13/cobra"
)

var (
	selectorCategory  string
	consistencyPeriod string
)

var consistencyCmd = &cobra.Command{
	Use:   "consistency [exercise]",
	Short: "Show rest gaps and consistency pattern",
	Long: `Show the days of rest between workouts that include an exercise or any
exercise of a category, and classify the pattern:

  Stable      gaps barely vary
  Variable    gaps vary by up to a week
  Irregular   gaps vary by more than a week

Examples:
  workoutlog consistency Push-up
  workoutlog consistency --category legs --period 3months`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, label, err := resolveSelector(args, selectorCategory)
		if err != nil {
			return err
		}
		period, err := parsePeriodFlag(consistencyPeriod, analytics.PeriodMonthly)
		if err != nil {
			return err
		}

		c, err := svc.Consistency(sel, period)
		if err != nil {
			return fmt.Errorf("failed to compute consistency: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", color.New(color.Bold).Sprint(label), period)
		printSummary(out, c.Summary)
		printHistogram(out, c.Summary.GapHistogram)
		return nil
	},
}

var trendCmd = &cobra.Command{
	Use:   "trend [exercise]",
	Short: "Show whether rest gaps are shrinking or growing",
	Long: `Compare the median rest gap of the earlier half of the last four months with
the later half. Shrinking gaps mean improving consistency.

At least four gaps are needed for a trend.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, label, err := resolveSelector(args, selectorCategory)
		if err != nil {
			return err
		}

		tr, err := svc.Trend(sel)
		if err != nil {
			return fmt.Errorf("failed to compute trend: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", color.New(color.Bold).Sprint(label), describeTrend(tr))
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [exercise]",
	Short: "Compare this year's consistency with last year's",
	Long: `Compare workout count and median rest gap of this year so far with all of
last year. More workouts, or as many with shorter rest, counts as improved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, label, err := resolveSelector(args, selectorCategory)
		if err != nil {
			return err
		}

		y, err := svc.CompareYears(sel)
		if err != nil {
			return fmt.Errorf("failed to compare years: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", color.New(color.Bold).Sprint(label))
		fmt.Fprintf(out, "  %d: %d workouts, median rest %s days\n",
			y.LastYear, y.Last.QualifyingWorkoutCount, formatGap(y.Last.MedianGap))
		fmt.Fprintf(out, "  %d: %d workouts, median rest %s days\n",
			y.CurrentYear, y.Current.QualifyingWorkoutCount, formatGap(y.Current.MedianGap))

		if y.IsImproved {
			color.New(color.FgGreen).Fprintf(out, "  ↑ improved (%+d workouts, %+.1f rest days)\n", y.WorkoutChange, y.RestDaysChange)
		} else {
			color.New(color.FgYellow).Fprintf(out, "  ↓ not improved (%+d workouts, %+.1f rest days)\n", y.WorkoutChange, y.RestDaysChange)
		}
		return nil
	},
}

func printSummary(out io.Writer, s analytics.ConsistencySummary) {
	if s.QualifyingWorkoutCount < 2 {
		fmt.Fprintf(out, "  %d workouts, not enough for rest gaps\n", s.QualifyingWorkoutCount)
		return
	}
	fmt.Fprintf(out, "  %d workouts, median rest %s days (min %d, max %d)\n",
		s.QualifyingWorkoutCount, formatGap(s.MedianGap), s.MinGap, s.MaxGap)
	fmt.Fprintf(out, "  pattern: %s\n", patternColor(s.Pattern).Sprint(s.Pattern))
}

func printHistogram(out io.Writer, histogram map[int]int) {
	gaps := make([]int, 0, len(histogram))
	for g := range histogram {
		gaps = append(gaps, g)
	}
	sort.Ints(gaps)

	faint := color.New(color.Faint)
	for _, g := range gaps {
		fmt.Fprintf(out, "  %s %s %d\n",
			faint.Sprintf("%3dd", g),
			padRight(repeatBar(histogram[g]), 20),
			histogram[g])
	}
}

func repeatBar(n int) string {
	bar := ""
	for i := 0; i < n && i < 20; i++ {
		bar += "█"
	}
	return bar
}

func patternColor(p analytics.Pattern) *color.Color {
	switch p {
	case analytics.PatternStable:
		return color.New(color.FgGreen)
	case analytics.PatternVariable:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func describeTrend(tr analytics.TrendResult) string {
	switch tr.Direction {
	case analytics.DirectionImproving:
		return color.New(color.FgGreen).Sprintf("improving (%d%% shorter rest, %s → %s days)",
			tr.PercentageChange, formatGap(tr.PastMedian), formatGap(tr.RecentMedian))
	case analytics.DirectionDeclining:
		return color.New(color.FgRed).Sprintf("declining (%d%% longer rest, %s → %s days)",
			-tr.PercentageChange, formatGap(tr.PastMedian), formatGap(tr.RecentMedian))
	case analytics.DirectionStable:
		return fmt.Sprintf("stable (%s → %s days)", formatGap(tr.PastMedian), formatGap(tr.RecentMedian))
	default:
		return color.New(color.Faint).Sprint("not enough data")
	}
}

func init() {
	for _, c := range []*cobra.Command{consistencyCmd, trendCmd, compareCmd} {
		c.Flags().StringVarP(&selectorCategory, "category", "c", "", "use every exercise of a category")
		rootCmd.AddCommand(c)
	}
	consistencyCmd.Flags().StringVarP(&consistencyPeriod, "period", "p", "monthly", "weekly, monthly, yearly, 3months or 4months")
}
