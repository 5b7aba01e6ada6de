// ABOUTME: CLI commands for training streaks and frequency.
// ABOUTME: Counts consecutive training days and the share of days trained.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/spf13/cobra"
)

var frequencyPeriod string

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show current and longest training streaks",
	Long: `Show the current and longest runs of consecutive calendar days with a workout.

Today does not break a streak: if you have not trained yet today, the
current streak counts back from yesterday.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := svc.Streaks()
		if err != nil {
			return fmt.Errorf("failed to compute streaks: %w", err)
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		fmt.Fprintf(out, "Current streak: %s\n", bold.Sprint(dayCount(s.Current)))
		fmt.Fprintf(out, "Longest streak: %s\n", bold.Sprint(dayCount(s.Longest)))
		return nil
	},
}

var frequencyCmd = &cobra.Command{
	Use:     "frequency",
	Aliases: []string{"freq"},
	Short:   "Show the share of days trained in the current period",
	Long: `Show the percentage of elapsed days in the current period with at least one
workout. Future days of the period are not counted.

PERIODS:

  weekly    Monday to Sunday
  monthly   calendar month (default)
  yearly    calendar year
  3months   rolling three months
  4months   rolling four months`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := parsePeriodFlag(frequencyPeriod, analytics.PeriodMonthly)
		if err != nil {
			return err
		}

		f, err := svc.Frequency(period)
		if err != nil {
			return fmt.Errorf("failed to compute frequency: %w", err)
		}

		out := cmd.OutOrStdout()
		p, ok := f.Percentage()
		if !ok {
			fmt.Fprintf(out, "No elapsed days in %s period.\n", period)
			return nil
		}
		fmt.Fprintf(out, "%s: %s (%d of %d days)\n",
			period,
			color.New(color.Bold).Sprintf("%d%%", p),
			f.TrainedDays, f.ElapsedDays)
		return nil
	},
}

func dayCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func init() {
	frequencyCmd.Flags().StringVarP(&frequencyPeriod, "period", "p", "monthly", "weekly, monthly, yearly, 3months or 4months")

	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(frequencyCmd)
}
