// ABOUTME: CLI command for moving the workout log between storage backends.
// ABOUTME: Copies SQLite data to Badger or back, optionally switching the config.
package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/config"
	"github.com/harperreed/workoutlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateSwitch bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy the workout log to another storage backend",
	Long: `Copy every exercise and workout from the current backend to another one in
the same data directory.

IMPORTANT:

  - The destination must be empty (duplicates cause errors)
  - Run with --dry-run first to see what would be migrated
  - Use --switch to make the destination the configured backend

USAGE:

  workoutlog migrate --to badger --dry-run   # Preview
  workoutlog migrate --to badger --switch    # Copy and switch

LOCATIONS:

  sqlite   <data dir>/workoutlog.db
  badger   <data dir>/badger/`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		target := strings.ToLower(migrateTo)
		if target == cfg.GetBackend() {
			return fmt.Errorf("already using %s backend", target)
		}

		dstCfg := *cfg
		dstCfg.Backend = target

		switch target {
		case config.BackendBadger:
			dir := filepath.Join(cfg.GetDataDir(), "badger")
			nonEmpty, err := storage.IsDirNonEmpty(dir)
			if err != nil {
				return err
			}
			if nonEmpty {
				return fmt.Errorf("destination %s is not empty", dir)
			}
		case config.BackendSQLite:
		default:
			return fmt.Errorf("unknown backend: %s (use sqlite or badger)", migrateTo)
		}

		data, err := storage.GetAllData(repo)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}
		sets := 0
		for _, w := range data.Workouts {
			sets += len(w.Sets)
		}

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintf(out, "Would migrate %d exercises, %d workouts, %d sets to %s\n",
				len(data.Exercises), len(data.Workouts), sets, target)
			return nil
		}

		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { _ = dst.Close() }()

		if target == config.BackendSQLite {
			existing, err := dst.ListExercises()
			if err != nil {
				return fmt.Errorf("failed to read destination: %w", err)
			}
			if len(existing) > 0 {
				return fmt.Errorf("destination sqlite database is not empty")
			}
		}

		summary, err := storage.MigrateData(repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Migrated %d exercises, %d workouts, %d sets to %s\n",
			summary.Exercises, summary.Workouts, summary.Sets, target)

		if migrateSwitch {
			persisted, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			persisted.Backend = target
			if err := persisted.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(out, "  Backend switched to %s\n", target)
		}

		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite or badger")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateSwitch, "switch", false, "use the destination backend from now on")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
