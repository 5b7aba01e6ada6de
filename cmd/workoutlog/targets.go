// ABOUTME: CLI command for set-position targets.
// ABOUTME: Shows the best and average value of each set position for an exercise.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/spf13/cobra"
)

var targetsWindow string

var targetsCmd = &cobra.Command{
	Use:   "targets <exercise>",
	Short: "Show best and average value per set position",
	Long: `Show, for each set position, the best and the average value you reached in
the window. Use them as targets: beat the average, chase the best.

Positions count only sets of this exercise, so in Push-up, Squat, Push-up the
second push-up set is position 2.

Examples:
  workoutlog targets Push-up
  workoutlog targets Plank --window 4months`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := svc.ResolveExercise(args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}
		period, err := parsePeriodFlag(targetsWindow, analytics.DefaultTargetPeriod)
		if err != nil {
			return err
		}

		targets, err := svc.Targets(e.ID, period)
		if err != nil {
			return fmt.Errorf("failed to compute targets: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(targets.Max) == 0 {
			fmt.Fprintf(out, "No %s sets in the %s window.\n", e.Name, period)
			return nil
		}

		unit := "reps"
		if e.IsTimed() {
			unit = "s"
		}

		averages := make(map[int]analytics.AveragePositionRecord, len(targets.Average))
		for _, a := range targets.Average {
			averages[a.Position] = a
		}

		faint := color.New(color.Faint)
		fmt.Fprintf(out, "%s (%s)\n", color.New(color.Bold).Sprint(e.Name), period)
		for _, m := range targets.Max {
			a := averages[m.Position]
			fmt.Fprintf(out, "  set %d  best %s %s  avg %.2f %s\n",
				m.Position,
				padRight(fmt.Sprintf("%g %s", m.MaxValue, unit), 10),
				faint.Sprint(m.AchievedOn.Format(dateLayout)),
				a.Average, unit)
		}
		return nil
	},
}

func init() {
	targetsCmd.Flags().StringVarP(&targetsWindow, "window", "w", string(analytics.DefaultTargetPeriod), "weekly, monthly, yearly, 3months or 4months")
	rootCmd.AddCommand(targetsCmd)
}
