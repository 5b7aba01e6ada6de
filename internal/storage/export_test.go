// ABOUTME: Tests for export, import, and backend migration.
// ABOUTME: Round trips the log between backends and formats.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/workoutlog/internal/models"
)

func seedLog(t *testing.T, repo Repository) {
	t.Helper()
	pushup := mustCreateExercise(t, repo, "Push-up", models.CategoryChest)
	plank := models.NewExercise("Plank", models.CategoryCore).WithKind(models.KindTime)
	if err := repo.CreateExercise(plank); err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}

	base := time.Date(2025, 5, 1, 7, 0, 0, 0, time.UTC)
	for i := range 3 {
		w := models.NewWorkout().WithPerformedAt(base.AddDate(0, 0, 2*i))
		w.AddSet(models.NewRepSet(pushup.ID, 10+i))
		w.AddSet(models.NewTimedSet(plank.ID, 45))
		w.AddSet(models.NewRepSet(pushup.ID, 8))
		if err := repo.CreateWorkout(w); err != nil {
			t.Fatalf("CreateWorkout failed: %v", err)
		}
	}
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedLog(t, db)

	raw, err := ExportJSON(db)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if data.Version != ExportFormatVersion || data.Tool != "workoutlog" {
		t.Errorf("header = %s/%s", data.Version, data.Tool)
	}
	if len(data.Exercises) != 2 || len(data.Workouts) != 3 {
		t.Errorf("exported %d exercises and %d workouts, want 2 and 3", len(data.Exercises), len(data.Workouts))
	}
	if len(data.Workouts[0].Sets) != 3 {
		t.Errorf("exported workout has %d sets, want 3", len(data.Workouts[0].Sets))
	}
}

func TestExportYAML(t *testing.T) {
	kv := setupTestKV(t)
	seedLog(t, kv)

	raw, err := ExportYAML(kv)
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}
	out := string(raw)
	for _, want := range []string{"tool: workoutlog", "name: Push-up", "kind: time", "duration_seconds: 45"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML export missing %q", want)
		}
	}

	dst := setupTestDB(t)
	if err := ImportYAML(dst, raw); err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}
	workouts, err := dst.ListWorkouts(0)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(workouts) != 3 {
		t.Errorf("imported %d workouts, want 3", len(workouts))
	}
}

func TestImportJSONIntoOtherBackend(t *testing.T) {
	src := setupTestDB(t)
	seedLog(t, src)
	raw, err := ExportJSON(src)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	dst := setupTestKV(t)
	if err := ImportJSON(dst, raw); err != nil {
		t.Fatalf("ImportJSON failed: %v", err)
	}

	want, _ := src.ListWorkouts(0)
	got, err := dst.ListWorkouts(0)
	if err != nil {
		t.Fatalf("ListWorkouts failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("imported %d workouts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || len(got[i].Sets) != len(want[i].Sets) {
			t.Errorf("workout %d = %v with %d sets, want %v with %d", i, got[i].ID, len(got[i].Sets), want[i].ID, len(want[i].Sets))
		}
	}

	if err := ImportJSON(dst, []byte("{not json")); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	seedLog(t, src)
	dst := setupTestKV(t)

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Exercises != 2 || summary.Workouts != 3 || summary.Sets != 9 {
		t.Errorf("summary = %+v, want 2 exercises, 3 workouts, 9 sets", summary)
	}

	srcSnap, _ := src.Snapshot()
	dstSnap, err := dst.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(dstSnap.Workouts) != len(srcSnap.Workouts) {
		t.Errorf("migrated snapshot has %d workouts, want %d", len(dstSnap.Workouts), len(srcSnap.Workouts))
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(setupTestKV(t), setupTestDB(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if *summary != (MigrateSummary{}) {
		t.Errorf("summary = %+v, want zero", summary)
	}
}

func TestIsDirNonEmpty(t *testing.T) {
	dir := t.TempDir()

	if got, err := IsDirNonEmpty(filepath.Join(dir, "missing")); err != nil || got {
		t.Errorf("missing dir = %v, %v; want false, nil", got, err)
	}
	if got, err := IsDirNonEmpty(dir); err != nil || got {
		t.Errorf("empty dir = %v, %v; want false, nil", got, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if got, err := IsDirNonEmpty(dir); err != nil || !got {
		t.Errorf("non-empty dir = %v, %v; want true, nil", got, err)
	}
}
