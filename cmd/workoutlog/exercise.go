// ABOUTME: CLI commands for managing the exercise catalog.
// ABOUTME: Supports add, list, and delete subcommands.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/spf13/cobra"
)

var (
	exerciseCategory     string
	exerciseKind         string
	exerciseListCategory string
)

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex", "e"},
	Short:   "Manage the exercise catalog",
	Long: `Every logged set points at a catalog exercise.

CATEGORIES:

  chest, back, shoulders, arms, legs, core, cardio, full_body

KINDS:

  reps   sets are counted in repetitions (default)
  time   sets are measured in seconds (planks, wall sits, hangs)

Names are unique ignoring case, so "push-up" and "Push-up" are the same exercise.`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an exercise",
	Long: `Add an exercise to the catalog.

Examples:
  workoutlog exercise add Push-up -c chest
  workoutlog exercise add "Wall sit" -c legs -k time`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := models.Category(strings.ToLower(exerciseCategory))
		kind := models.ExerciseKind(strings.ToLower(exerciseKind))

		e, err := svc.AddExercise(args[0], category, kind)
		if err != nil {
			return fmt.Errorf("failed to add exercise: %w", err)
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", e.Name)
		fmt.Fprintf(out, "  %s %s %s\n",
			color.New(color.Faint).Sprint(e.ID.String()[:8]),
			e.Category, e.Kind)

		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := strings.ToLower(exerciseListCategory)
		if filter != "" && !models.IsValidCategory(filter) {
			return fmt.Errorf("unknown category: %s", exerciseListCategory)
		}

		exercises, err := svc.ListExercises()
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		shown := 0
		for _, e := range exercises {
			if filter != "" && string(e.Category) != filter {
				continue
			}
			fmt.Fprintf(out, "%s %s %s %s\n",
				faint.Sprint(e.ID.String()[:8]),
				padRight(e.Name, 20),
				padRight(string(e.Category), 10),
				e.Kind)
			shown++
		}

		if shown == 0 {
			fmt.Fprintln(out, "No exercises found.")
		}
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <name-or-id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete an unused exercise",
	Long: `Delete an exercise by name, ID, or ID prefix.

Exercises that still have logged sets cannot be deleted; delete those
workouts first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := svc.ResolveExercise(args[0])
		if err != nil {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		if err := svc.DeleteExercise(e.ID.String()); err != nil {
			return fmt.Errorf("failed to delete exercise: %w", err)
		}

		color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "✗ Deleted %s\n", e.Name)
		return nil
	},
}

func init() {
	exerciseAddCmd.Flags().StringVarP(&exerciseCategory, "category", "c", "", "exercise category (required)")
	exerciseAddCmd.Flags().StringVarP(&exerciseKind, "kind", "k", string(models.KindReps), "reps or time")
	_ = exerciseAddCmd.MarkFlagRequired("category")

	exerciseListCmd.Flags().StringVarP(&exerciseListCategory, "category", "c", "", "filter by category")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
