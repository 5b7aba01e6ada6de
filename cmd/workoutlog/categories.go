// ABOUTME: CLI command for per-category consistency and trend.
// ABOUTME: Hides categories with fewer than two workouts unless --all is set.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/spf13/cobra"
)

var (
	categoriesPeriod string
	categoriesAll    bool
)

// minCategoryWorkouts is the fewest workouts a category needs to be shown by default.
const minCategoryWorkouts = 2

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cat"},
	Short:   "Show consistency and trend for every category",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := parsePeriodFlag(categoriesPeriod, analytics.PeriodMonthly)
		if err != nil {
			return err
		}

		reports, err := svc.Categories(period)
		if err != nil {
			return fmt.Errorf("failed to compute categories: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		shown := 0
		for _, r := range reports {
			s := r.Consistency.Summary
			if !categoriesAll && s.QualifyingWorkoutCount < minCategoryWorkouts {
				continue
			}

			pattern := faint.Sprint("-")
			if s.QualifyingWorkoutCount >= 2 {
				pattern = patternColor(s.Pattern).Sprint(s.Pattern)
			}
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				padRight(string(r.Category), 10),
				padRight(fmt.Sprintf("%d workouts", s.QualifyingWorkoutCount), 12),
				padRight(fmt.Sprintf("median %s", formatGap(s.MedianGap)), 10),
				padRight(pattern, 10),
				describeTrend(r.Trend))
			shown++
		}

		if shown == 0 {
			fmt.Fprintf(out, "No category has %d or more workouts in the %s period.\n", minCategoryWorkouts, period)
		}
		return nil
	},
}

func init() {
	categoriesCmd.Flags().StringVarP(&categoriesPeriod, "period", "p", "monthly", "weekly, monthly, yearly, 3months or 4months")
	categoriesCmd.Flags().BoolVarP(&categoriesAll, "all", "a", false, "show categories with fewer than 2 workouts")
	rootCmd.AddCommand(categoriesCmd)
}
