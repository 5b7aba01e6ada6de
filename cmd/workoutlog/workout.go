// ABOUTME: CLI commands for logging workouts.
// ABOUTME: Supports add, set, list, show, and delete subcommands.
package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutAt    string
	workoutNote  string
	workoutLimit int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Log and inspect workouts",
	Long: `A workout is a timestamped session holding sets in the order you did them.
The order matters: set position analytics compare your first set with other
first sets, your second with other second sets, and so on.

SET FORMAT:

  <exercise>:<value>   value is reps, or seconds for timed exercises
                       a trailing "s" on seconds is accepted (Plank:60s)

WORKFLOW:

  1. Log a workout:     workoutlog workout add Push-up:20 Push-up:15 Plank:60
  2. Forgot a set?      workoutlog workout set abc123 Push-up 12
  3. View it:           workoutlog workout show abc123`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add [exercise:value ...]",
	Short: "Log a workout",
	Long: `Log a workout with its sets in order.

Examples:
  workoutlog workout add Push-up:20 Push-up:15 Squat:30
  workoutlog workout add Plank:60s --at "2025-06-17 07:30"
  workoutlog workout add "Wall sit:45" --note "legs were tired"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := models.NewWorkout()

		if workoutAt != "" {
			t, err := parseTime(workoutAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", workoutAt)
			}
			w.WithPerformedAt(t)
		}
		if workoutNote != "" {
			w.WithNote(workoutNote)
		}

		for _, arg := range args {
			name, value, err := splitSetArg(arg)
			if err != nil {
				return err
			}
			set, err := buildSet(name, value)
			if err != nil {
				return err
			}
			w.AddSet(set)
		}

		if err := svc.LogWorkout(w); err != nil {
			return fmt.Errorf("failed to log workout: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Logged workout with %d sets\n", len(w.Sets))
		fmt.Fprintf(out, "  ID: %s\n", w.ID.String()[:8])
		return nil
	},
}

var workoutSetCmd = &cobra.Command{
	Use:   "set <workout-id> <exercise> <value>",
	Short: "Append a set to a workout",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := buildSet(args[1], args[2])
		if err != nil {
			return err
		}

		w, err := svc.AddSet(args[0], set)
		if err != nil {
			return fmt.Errorf("failed to add set: %w", err)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Added set %d to workout %s\n",
			len(w.Sets), w.ID.String()[:8])
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts, err := svc.ListWorkouts(workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(workouts) == 0 {
			fmt.Fprintln(out, "No workouts found.")
			return nil
		}

		names := exerciseNames()
		faint := color.New(color.Faint)
		for _, w := range workouts {
			note := ""
			if w.Note != nil && *w.Note != "" {
				note = faint.Sprintf(" (%s)", truncate(*w.Note, 30))
			}
			fmt.Fprintf(out, "%s %s %s%s\n",
				faint.Sprint(w.ID.String()[:8]),
				faint.Sprint(w.PerformedAt.Format("2006-01-02 15:04")),
				padRight(summarizeSets(w, names), 40),
				note)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.GetWorkout(args[0])
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Workout: %s\n", w.ID.String()[:8])
		fmt.Fprintf(out, "Performed: %s\n", w.PerformedAt.Format("2006-01-02 15:04"))
		if w.Note != nil {
			fmt.Fprintf(out, "Note: %s\n", *w.Note)
		}

		if len(w.Sets) > 0 {
			fmt.Fprintln(out, "\nSets:")
			printSets(out, w, exerciseNames())
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout and all of its sets by ID or ID prefix.

This permanently deletes the workout. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := svc.GetWorkout(args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		if err := svc.DeleteWorkout(w.ID.String()); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted workout %s (%d sets)\n",
			w.ID.String()[:8], len(w.Sets))
		return nil
	},
}

// splitSetArg splits "name:value" on the last colon.
func splitSetArg(arg string) (string, string, error) {
	i := strings.LastIndex(arg, ":")
	if i <= 0 || i == len(arg)-1 {
		return "", "", fmt.Errorf("invalid set %q (use exercise:value)", arg)
	}
	return arg[:i], arg[i+1:], nil
}

// buildSet resolves the exercise and reads value as reps or seconds to match its kind.
func buildSet(name, value string) (models.SetRecord, error) {
	e, err := svc.ResolveExercise(name)
	if err != nil {
		return models.SetRecord{}, fmt.Errorf("exercise not found: %s", name)
	}

	if e.IsTimed() {
		seconds, err := strconv.ParseFloat(strings.TrimSuffix(value, "s"), 64)
		if err != nil {
			return models.SetRecord{}, fmt.Errorf("invalid seconds for %s: %s", e.Name, value)
		}
		return models.NewTimedSet(e.ID, seconds), nil
	}

	reps, err := strconv.Atoi(value)
	if err != nil {
		return models.SetRecord{}, fmt.Errorf("invalid reps for %s: %s", e.Name, value)
	}
	return models.NewRepSet(e.ID, reps), nil
}

// exerciseNames maps exercise IDs to names for display. Lookup failures show IDs instead.
func exerciseNames() map[string]*models.ExerciseDefinition {
	names := map[string]*models.ExerciseDefinition{}
	exercises, err := svc.ListExercises()
	if err != nil {
		return names
	}
	for _, e := range exercises {
		names[e.ID.String()] = e
	}
	return names
}

func setLabel(s models.SetRecord, names map[string]*models.ExerciseDefinition) (string, string) {
	e, ok := names[s.ExerciseID.String()]
	if !ok {
		return s.ExerciseID.String()[:8], strconv.Itoa(s.Reps)
	}
	if e.IsTimed() {
		return e.Name, fmt.Sprintf("%gs", s.Seconds())
	}
	return e.Name, strconv.Itoa(s.Reps)
}

// summarizeSets renders "Push-up 20/15, Plank 60s", grouping consecutive sets of one exercise.
func summarizeSets(w *models.WorkoutRecord, names map[string]*models.ExerciseDefinition) string {
	if len(w.Sets) == 0 {
		return "(no sets)"
	}

	var parts []string
	var current string
	var values []string
	flush := func() {
		if current != "" {
			parts = append(parts, current+" "+strings.Join(values, "/"))
		}
	}
	for _, s := range w.Sets {
		name, value := setLabel(s, names)
		if name != current {
			flush()
			current, values = name, nil
		}
		values = append(values, value)
	}
	flush()
	return strings.Join(parts, ", ")
}

func printSets(out io.Writer, w *models.WorkoutRecord, names map[string]*models.ExerciseDefinition) {
	positions := map[string]int{}
	for i, s := range w.Sets {
		name, value := setLabel(s, names)
		positions[name]++
		fmt.Fprintf(out, "  %2d. %s %s %s\n",
			i+1, padRight(name, 20), padRight(value, 6),
			color.New(color.Faint).Sprintf("set %d", positions[name]))
	}
}

func init() {
	workoutAddCmd.Flags().StringVar(&workoutAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	workoutAddCmd.Flags().StringVarP(&workoutNote, "note", "n", "", "workout note")

	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutSetCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
