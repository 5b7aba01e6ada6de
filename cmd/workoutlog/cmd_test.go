// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against temp XDG directories with a fixed clock.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/harperreed/workoutlog/internal/report"
)

var fixedNow = time.Date(2025, time.June, 18, 18, 0, 0, 0, time.UTC)

// setupTestCLI points XDG data and config dirs at a temp directory and fixes the clock.
func setupTestCLI(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))

	nowFunc = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		if err := closeService(); err != nil {
			t.Errorf("closeService failed: %v", err)
		}
		nowFunc = time.Now
	})

	return tmpDir
}

// resetFlags restores every flag variable to its default between executions.
func resetFlags() {
	flagBackend, flagDataDir, flagLogLevel = "", "", ""
	exerciseCategory, exerciseKind, exerciseListCategory = "", string(models.KindReps), ""
	workoutAt, workoutNote, workoutLimit = "", "", 20
	frequencyPeriod = "monthly"
	selectorCategory, consistencyPeriod = "", "monthly"
	categoriesPeriod, categoriesAll = "monthly", false
	targetsWindow = string(analytics.DefaultTargetPeriod)
	reportFormat, reportOutput, reportPeriod = "json", "", "monthly"
	exportOutput = ""
	migrateTo, migrateDryRun, migrateSwitch = "", false, false
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	if err != nil {
		t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// seedCatalog adds Push-up (chest, reps), Squat (legs, reps) and Plank (core, time).
func seedCatalog(t *testing.T) {
	t.Helper()
	mustRun(t, "exercise", "add", "Push-up", "-c", "chest")
	mustRun(t, "exercise", "add", "Squat", "-c", "legs")
	mustRun(t, "exercise", "add", "Plank", "-c", "core", "-k", "time")
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "date and time with space", input: "2025-01-31 08:30"},
		{name: "date and time with T", input: "2025-01-31T08:30"},
		{name: "date only", input: "2025-01-31"},
		{name: "RFC3339", input: "2025-01-31T08:30:00Z"},
		{name: "RFC3339 with offset", input: "2025-01-31T08:30:00+05:00"},
		{name: "invalid format", input: "31-01-2025", wantErr: true},
		{name: "invalid random string", input: "not a date", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTime(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTime(%q) expected error, got nil", tt.input)
				}
				return
			}
			if err != nil {
				t.Errorf("parseTime(%q) unexpected error: %v", tt.input, err)
				return
			}
			if result.IsZero() {
				t.Errorf("parseTime(%q) returned zero time", tt.input)
			}
		})
	}
}

func TestSplitSetArg(t *testing.T) {
	tests := []struct {
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{input: "Push-up:20", wantName: "Push-up", wantValue: "20"},
		{input: "Plank:60s", wantName: "Plank", wantValue: "60s"},
		{input: "Wall sit:45", wantName: "Wall sit", wantValue: "45"},
		{input: "a:b:3", wantName: "a:b", wantValue: "3"},
		{input: "Push-up", wantErr: true},
		{input: ":20", wantErr: true},
		{input: "Push-up:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, value, err := splitSetArg(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("splitSetArg(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("splitSetArg(%q) unexpected error: %v", tt.input, err)
			}
			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("splitSetArg(%q) = %q, %q", tt.input, name, value)
			}
		})
	}
}

func TestTruncateAndPadRight(t *testing.T) {
	if got := truncate("hello world this is long", 10); got != "hello w..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight = %q", got)
	}
	if got := formatGap(3); got != "3" {
		t.Errorf("formatGap(3) = %q", got)
	}
	if got := formatGap(2.5); got != "2.5" {
		t.Errorf("formatGap(2.5) = %q", got)
	}
}

func TestRootCmd(t *testing.T) {
	if rootCmd.Use != "workoutlog" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "workoutlog")
	}

	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{
		"exercise", "workout", "streak", "frequency", "consistency", "trend",
		"compare", "categories", "targets", "report", "export", "import", "migrate", "mcp",
	} {
		if !names[want] {
			t.Errorf("Expected %s command", want)
		}
	}
}

func TestWorkoutCmdSubcommands(t *testing.T) {
	cmdNames := make(map[string]bool)
	for _, cmd := range workoutCmd.Commands() {
		cmdNames[cmd.Name()] = true
	}
	for _, expected := range []string{"add", "delete", "list", "set", "show"} {
		if !cmdNames[expected] {
			t.Errorf("Expected workout subcommand %q", expected)
		}
	}

	limitFlag := workoutListCmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("Expected --limit flag on workout list command")
	}
	if limitFlag.DefValue != "20" {
		t.Errorf("Expected default limit 20, got %s", limitFlag.DefValue)
	}
}

func TestExerciseAddAndList(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)

	out := mustRun(t, "exercise", "list")
	for _, name := range []string{"Push-up", "Squat", "Plank"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in list, got:\n%s", name, out)
		}
	}

	out = mustRun(t, "exercise", "list", "-c", "core")
	if !strings.Contains(out, "Plank") || strings.Contains(out, "Squat") {
		t.Errorf("Expected only Plank for core, got:\n%s", out)
	}

	if _, err := runCmd(t, "exercise", "add", "PUSH-UP", "-c", "chest"); err == nil {
		t.Error("Expected duplicate name error")
	}
	if _, err := runCmd(t, "exercise", "add", "Curl", "-c", "biceps"); err == nil {
		t.Error("Expected invalid category error")
	}
	if _, err := runCmd(t, "exercise", "list", "-c", "biceps"); err == nil {
		t.Error("Expected unknown category error")
	}
}

func TestExerciseDelete(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	mustRun(t, "workout", "add", "Push-up:20", "--at", "2025-06-17")

	if _, err := runCmd(t, "exercise", "delete", "Push-up"); err == nil {
		t.Error("Expected error deleting an exercise with logged sets")
	}

	out := mustRun(t, "exercise", "rm", "squat")
	if !strings.Contains(out, "Deleted Squat") {
		t.Errorf("Unexpected output: %s", out)
	}

	if _, err := runCmd(t, "exercise", "delete", "Squat"); err == nil {
		t.Error("Expected not found after delete")
	}
}

func TestWorkoutAddShowList(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)

	out := mustRun(t, "workout", "add", "Push-up:20", "Push-up:15", "Plank:60s",
		"--at", "2025-06-17 07:30", "--note", "morning")
	if !strings.Contains(out, "Logged workout with 3 sets") {
		t.Fatalf("Unexpected output: %s", out)
	}
	id := strings.TrimSpace(out[strings.Index(out, "ID:")+3:])

	out = mustRun(t, "workout", "show", id)
	for _, want := range []string{"Performed: 2025-06-17 07:30", "Note: morning", "Push-up", "60s", "set 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in show output:\n%s", want, out)
		}
	}

	out = mustRun(t, "workout", "list")
	if !strings.Contains(out, "Push-up 20/15, Plank 60s") {
		t.Errorf("Expected grouped set summary, got:\n%s", out)
	}
}

func TestWorkoutAddErrors(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)

	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{name: "bad set format", args: []string{"workout", "add", "Push-up"}, errSubstr: "invalid set"},
		{name: "unknown exercise", args: []string{"workout", "add", "Burpee:10"}, errSubstr: "exercise not found"},
		{name: "non-numeric reps", args: []string{"workout", "add", "Push-up:ten"}, errSubstr: "invalid reps"},
		{name: "non-numeric seconds", args: []string{"workout", "add", "Plank:long"}, errSubstr: "invalid seconds"},
		{name: "bad timestamp", args: []string{"workout", "add", "Push-up:10", "--at", "yesterday"}, errSubstr: "invalid timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Expected error containing %q, got %v", tt.errSubstr, err)
			}
		})
	}

	out := mustRun(t, "workout", "list")
	if !strings.Contains(out, "No workouts found.") {
		t.Errorf("Expected no workouts after failed adds, got:\n%s", out)
	}
}

func TestWorkoutSetAndDelete(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)

	out := mustRun(t, "workout", "add", "Push-up:20", "--at", "2025-06-17")
	id := strings.TrimSpace(out[strings.Index(out, "ID:")+3:])

	out = mustRun(t, "workout", "set", id, "Push-up", "12")
	if !strings.Contains(out, "Added set 2") {
		t.Errorf("Unexpected output: %s", out)
	}

	out = mustRun(t, "workout", "delete", id)
	if !strings.Contains(out, "(2 sets)") {
		t.Errorf("Unexpected output: %s", out)
	}

	if _, err := runCmd(t, "workout", "show", id); err == nil {
		t.Error("Expected error showing a deleted workout")
	}
	if _, err := runCmd(t, "workout", "delete", id); err == nil {
		t.Error("Expected error deleting twice")
	}
}

func TestStreakAndFrequency(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	for _, d := range []string{"2025-06-15", "2025-06-16", "2025-06-17"} {
		mustRun(t, "workout", "add", "Push-up:10", "--at", d)
	}

	out := mustRun(t, "streak")
	if !strings.Contains(out, "Current streak: 3 days") || !strings.Contains(out, "Longest streak: 3 days") {
		t.Errorf("Unexpected streak output:\n%s", out)
	}

	out = mustRun(t, "frequency")
	if !strings.Contains(out, "monthly: 17% (3 of 18 days)") {
		t.Errorf("Unexpected frequency output:\n%s", out)
	}

	out = mustRun(t, "frequency", "-p", "weekly")
	if !strings.Contains(out, "weekly: 67% (2 of 3 days)") {
		t.Errorf("Unexpected weekly frequency output:\n%s", out)
	}

	if _, err := runCmd(t, "frequency", "-p", "daily"); err == nil {
		t.Error("Expected unknown period error")
	}
}

// seedHistory logs Push-up on June 1, 4, 10 and 11 and one Plank on June 12.
func seedHistory(t *testing.T) {
	t.Helper()
	for _, d := range []string{"2025-06-01", "2025-06-04", "2025-06-10", "2025-06-11"} {
		mustRun(t, "workout", "add", "Push-up:10", "--at", d)
	}
	mustRun(t, "workout", "add", "Plank:30", "--at", "2025-06-12")
}

func TestConsistencyTrendCompare(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	seedHistory(t)

	out := mustRun(t, "consistency", "Push-up")
	for _, want := range []string{"4 workouts, median rest 3 days (min 1, max 6)", "pattern: Variable"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in consistency output:\n%s", want, out)
		}
	}

	out = mustRun(t, "consistency", "--category", "core")
	if !strings.Contains(out, "1 workouts, not enough for rest gaps") {
		t.Errorf("Unexpected category consistency output:\n%s", out)
	}

	out = mustRun(t, "trend", "Push-up")
	if !strings.Contains(out, "not enough data") {
		t.Errorf("Unexpected trend output:\n%s", out)
	}

	out = mustRun(t, "compare", "-c", "chest")
	if !strings.Contains(out, "2025: 4 workouts") || !strings.Contains(out, "↑ improved (+4 workouts") {
		t.Errorf("Unexpected compare output:\n%s", out)
	}

	if _, err := runCmd(t, "trend"); err == nil {
		t.Error("Expected error without exercise or category")
	}
}

func TestCategories(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	seedHistory(t)

	out := mustRun(t, "categories")
	if !strings.Contains(out, "chest") || strings.Contains(out, "core") {
		t.Errorf("Expected only chest by default, got:\n%s", out)
	}

	out = mustRun(t, "categories", "--all")
	for _, c := range models.AllCategories {
		if !strings.Contains(out, string(c)) {
			t.Errorf("Expected %s with --all, got:\n%s", c, out)
		}
	}
}

func TestTargets(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	mustRun(t, "workout", "add", "Push-up:20", "Squat:30", "Push-up:15", "--at", "2025-06-10")
	mustRun(t, "workout", "add", "Push-up:24", "Push-up:13", "--at", "2025-06-12")

	out := mustRun(t, "targets", "Push-up")
	for _, want := range []string{"set 1  best 24 reps", "2025-06-12", "avg 22.00 reps", "set 2  best 15 reps", "avg 14.00 reps"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in targets output:\n%s", want, out)
		}
	}

	out = mustRun(t, "targets", "Plank")
	if !strings.Contains(out, "No Plank sets") {
		t.Errorf("Unexpected output for unused exercise:\n%s", out)
	}
}

func TestReport(t *testing.T) {
	tmpDir := setupTestCLI(t)
	seedCatalog(t)
	seedHistory(t)

	out := mustRun(t, "report")
	var d report.Dashboard
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("Report is not JSON: %v\n%s", err, out)
	}
	if d.Streaks.Longest != 3 || d.Streaks.Current != 0 {
		t.Errorf("Unexpected streaks %+v", d.Streaks)
	}
	if len(d.Exercises) != 3 {
		t.Errorf("Expected 3 exercise sections, got %d", len(d.Exercises))
	}

	path := filepath.Join(tmpDir, "report.yaml")
	mustRun(t, "report", "--format", "yaml", "-o", path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report: %v", err)
	}
	if !strings.Contains(string(data), "streaks:") {
		t.Errorf("Expected YAML report, got:\n%s", data)
	}

	if _, err := runCmd(t, "report", "--format", "xml"); err == nil {
		t.Error("Expected unknown format error")
	}
}

func TestExportImport(t *testing.T) {
	tmpDir := setupTestCLI(t)
	seedCatalog(t)
	mustRun(t, "workout", "add", "Push-up:20", "Plank:45", "--at", "2025-06-17")

	backup := filepath.Join(tmpDir, "backup.yaml")
	mustRun(t, "export", "yaml", "-o", backup)

	out := mustRun(t, "export", "json")
	if !strings.Contains(out, `"tool": "workoutlog"`) {
		t.Errorf("Unexpected JSON export:\n%s", out)
	}

	if _, err := runCmd(t, "export", "csv"); err == nil {
		t.Error("Expected unknown format error")
	}

	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "restored"))
	mustRun(t, "import", backup)

	out = mustRun(t, "workout", "list")
	if !strings.Contains(out, "Push-up 20, Plank 45s") {
		t.Errorf("Expected imported workout, got:\n%s", out)
	}

	if _, err := runCmd(t, "import", filepath.Join(tmpDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestMigrateToBadger(t *testing.T) {
	setupTestCLI(t)
	seedCatalog(t)
	mustRun(t, "workout", "add", "Push-up:20", "Push-up:18", "--at", "2025-06-17")

	if _, err := runCmd(t, "migrate", "--to", "sqlite"); err == nil {
		t.Error("Expected error migrating to the current backend")
	}

	out := mustRun(t, "migrate", "--to", "badger", "--dry-run")
	if !strings.Contains(out, "Would migrate 3 exercises, 1 workouts, 2 sets to badger") {
		t.Errorf("Unexpected dry run output:\n%s", out)
	}

	out = mustRun(t, "migrate", "--to", "badger", "--switch")
	if !strings.Contains(out, "Migrated 3 exercises, 1 workouts, 2 sets") {
		t.Errorf("Unexpected migrate output:\n%s", out)
	}

	out = mustRun(t, "workout", "list")
	if !strings.Contains(out, "Push-up 20/18") {
		t.Errorf("Expected migrated workout from badger, got:\n%s", out)
	}

	out = mustRun(t, "streak", "--backend", "badger")
	if !strings.Contains(out, "Current streak: 1 day") {
		t.Errorf("Unexpected streak from badger:\n%s", out)
	}
}
