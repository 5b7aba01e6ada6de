// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/workoutlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants to log workouts and read your training analytics
through a standardized protocol. The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "workoutlog": {
        "command": "workoutlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_exercise          Add an exercise to the catalog
  list_exercises        List catalog exercises
  log_workout           Log a workout with its sets
  add_set               Append a set to a workout
  list_workouts         List recent workouts
  get_workout           Get a workout with all its sets
  delete_workout        Delete a workout
  get_streaks           Current and longest streak
  get_frequency         Share of days trained in a period
  get_consistency       Rest gaps and pattern
  get_trend             Rest gap trend over four months
  compare_years         This year against last year
  get_categories        Every category at once
  get_position_targets  Best and average per set position

AVAILABLE RESOURCES:

  workoutlog://dashboard   Full analytics dashboard for the current month
  workoutlog://recent      Recent workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
