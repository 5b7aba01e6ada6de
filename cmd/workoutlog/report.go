// ABOUTME: CLI command for the full analytics dashboard.
// ABOUTME: Renders every report as JSON or YAML to stdout or a file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportOutput string
	reportPeriod string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the full analytics dashboard",
	Long: `Compute streaks, frequency, every category, and every exercise's consistency,
trend, year comparison and set targets in one pass.

Examples:
  workoutlog report                          # JSON to stdout
  workoutlog report --format yaml -o out.yml # YAML to a file
  workoutlog report --period yearly`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := parsePeriodFlag(reportPeriod, analytics.PeriodMonthly)
		if err != nil {
			return err
		}

		d, err := svc.Dashboard(cmd.Context(), period)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}

		data, err := report.Render(d, reportFormat)
		if errors.Is(err, report.ErrUnknownFormat) {
			return fmt.Errorf("unknown format: %s (use json or yaml)", reportFormat)
		}
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		if reportOutput != "" {
			if err := os.WriteFile(reportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", reportOutput)
			return nil
		}

		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "json", "json or yaml")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file (default: stdout)")
	reportCmd.Flags().StringVarP(&reportPeriod, "period", "p", "monthly", "weekly, monthly, yearly, 3months or 4months")
	rootCmd.AddCommand(reportCmd)
}
