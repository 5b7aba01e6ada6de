// ABOUTME: MCP tool implementations for the workout log.
// ABOUTME: Provides catalog and workout CRUD plus every analytics query.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/harperreed/workoutlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	// catalog
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add an exercise to the catalog with its category and kind (reps or time)",
	}, s.handleAddExercise)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List catalog exercises, optionally filtered by category",
	}, s.handleListExercises)

	// log
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_workout",
		Description: "Log a workout with its sets in the order they were performed",
	}, s.handleLogWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_set",
		Description: "Append a set to an existing workout",
	}, s.handleAddSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List recent workouts with their sets",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout with all its sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout and its sets",
	}, s.handleDeleteWorkout)

	// analytics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_streaks",
		Description: "Current and longest streak of consecutive training days",
	}, s.handleGetStreaks)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_frequency",
		Description: "Percentage of elapsed days with a workout in the current period",
	}, s.handleGetFrequency)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_consistency",
		Description: "Rest-gap statistics and consistency pattern for an exercise or category",
	}, s.handleGetConsistency)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_trend",
		Description: "Whether rest gaps are shrinking or growing over the last four months",
	}, s.handleGetTrend)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compare_years",
		Description: "Compare this year's consistency with last year's",
	}, s.handleCompareYears)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_categories",
		Description: "Consistency and trend for every exercise category",
	}, s.handleGetCategories)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_position_targets",
		Description: "Best and average value per set position for an exercise, as targets",
	}, s.handleGetPositionTargets)
}

// Tool input/output types

type addExerciseInput struct {
	Name     string `json:"name" jsonschema:"Exercise name, unique ignoring case"`
	Category string `json:"category" jsonschema:"One of chest, back, shoulders, arms, legs, core, cardio, full_body"`
	Kind     string `json:"kind,omitempty" jsonschema:"reps (default) or time"`
}

type exerciseOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

type listExercisesInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category"`
}

type setInput struct {
	Exercise string  `json:"exercise" jsonschema:"Exercise name or ID prefix"`
	Reps     int     `json:"reps,omitempty" jsonschema:"Repetitions, for reps exercises"`
	Seconds  float64 `json:"seconds,omitempty" jsonschema:"Duration in seconds, for timed exercises"`
}

type logWorkoutInput struct {
	PerformedAt string     `json:"performed_at,omitempty" jsonschema:"Timestamp (ISO 8601 or YYYY-MM-DD), defaults to now"`
	Note        string     `json:"note,omitempty" jsonschema:"Free-text note"`
	Sets        []setInput `json:"sets,omitempty" jsonschema:"Sets in the order they were performed"`
}

type addSetInput struct {
	WorkoutID string  `json:"workout_id" jsonschema:"Workout ID or prefix"`
	Exercise  string  `json:"exercise" jsonschema:"Exercise name or ID prefix"`
	Reps      int     `json:"reps,omitempty" jsonschema:"Repetitions, for reps exercises"`
	Seconds   float64 `json:"seconds,omitempty" jsonschema:"Duration in seconds, for timed exercises"`
}

type workoutOutput struct {
	ID       string `json:"id"`
	SetCount int    `json:"set_count"`
	Message  string `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type getWorkoutInput struct {
	ID string `json:"id" jsonschema:"Workout ID or prefix"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type emptyInput struct{}

type periodInput struct {
	Period string `json:"period,omitempty" jsonschema:"weekly, monthly (default), yearly, 3months or 4months"`
}

type selectorInput struct {
	Exercise string `json:"exercise,omitempty" jsonschema:"Exercise name or ID prefix"`
	Category string `json:"category,omitempty" jsonschema:"Category, used when no exercise is given"`
}

type consistencyInput struct {
	Exercise string `json:"exercise,omitempty" jsonschema:"Exercise name or ID prefix"`
	Category string `json:"category,omitempty" jsonschema:"Category, used when no exercise is given"`
	Period string `json:"period,omitempty" jsonschema:"weekly, monthly (default), yearly, 3months or 4months"`
}

type categoriesInput struct {
	Period        string `json:"period,omitempty" jsonschema:"weekly, monthly (default), yearly, 3months or 4months"`
	IncludeSparse bool   `json:"include_sparse,omitempty" jsonschema:"Include categories with fewer than 2 workouts"`
}

type targetsInput struct {
	Exercise string `json:"exercise" jsonschema:"Exercise name or ID prefix"`
	Period   string `json:"period,omitempty" jsonschema:"Window for targets, 3months by default"`
}

// Catalog handlers

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, exerciseOutput, error) {
	category := models.Category(strings.ToLower(strings.TrimSpace(input.Category)))
	kind := models.ExerciseKind(strings.ToLower(strings.TrimSpace(input.Kind)))

	e, err := s.svc.AddExercise(input.Name, category, kind)
	if err != nil {
		return nil, exerciseOutput{}, fmt.Errorf("failed to add exercise: %w", err)
	}

	return nil, exerciseOutput{
		ID:       e.ID.String()[:8],
		Name:     e.Name,
		Category: string(e.Category),
		Kind:     string(e.Kind),
		Message:  fmt.Sprintf("Added %s (%s, %s) (ID: %s)", e.Name, e.Category, e.Kind, e.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, any, error) {
	exercises, err := s.svc.ListExercises()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	filtered := make([]*models.ExerciseDefinition, 0, len(exercises))
	for _, e := range exercises {
		if input.Category == "" || strings.EqualFold(string(e.Category), input.Category) {
			filtered = append(filtered, e)
		}
	}

	if len(filtered) == 0 {
		return nil, map[string]any{"message": "No exercises found."}, nil
	}
	return nil, map[string]any{"exercises": filtered}, nil
}

// Log handlers

func (s *Server) handleLogWorkout(ctx context.Context, req *mcp.CallToolRequest, input logWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	w := models.NewWorkout()
	if input.PerformedAt != "" {
		parsed := analytics.ParseTimestamp(input.PerformedAt, s.svc.Today())
		if parsed.IsFallback() {
			return nil, workoutOutput{}, fmt.Errorf("invalid performed_at: %s", input.PerformedAt)
		}
		w.WithPerformedAt(parsed.Time)
	}
	if input.Note != "" {
		w.WithNote(input.Note)
	}

	for _, in := range input.Sets {
		set, err := s.buildSet(in.Exercise, in.Reps, in.Seconds)
		if err != nil {
			return nil, workoutOutput{}, err
		}
		w.AddSet(set)
	}

	if err := s.svc.LogWorkout(w); err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to log workout: %w", err)
	}

	return nil, workoutOutput{
		ID:       w.ID.String()[:8],
		SetCount: len(w.Sets),
		Message:  fmt.Sprintf("Logged workout with %d sets (ID: %s)", len(w.Sets), w.ID.String()[:8]),
	}, nil
}

func (s *Server) handleAddSet(ctx context.Context, req *mcp.CallToolRequest, input addSetInput) (*mcp.CallToolResult, workoutOutput, error) {
	set, err := s.buildSet(input.Exercise, input.Reps, input.Seconds)
	if err != nil {
		return nil, workoutOutput{}, err
	}

	w, err := s.svc.AddSet(input.WorkoutID, set)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to add set: %w", err)
	}

	return nil, workoutOutput{
		ID:       w.ID.String()[:8],
		SetCount: len(w.Sets),
		Message:  fmt.Sprintf("Added set %d to workout %s", len(w.Sets), w.ID.String()[:8]),
	}, nil
}

// buildSet resolves the exercise and builds a reps or timed set to match its kind.
func (s *Server) buildSet(exercise string, reps int, seconds float64) (models.SetRecord, error) {
	e, err := s.svc.ResolveExercise(exercise)
	if err != nil {
		return models.SetRecord{}, fmt.Errorf("exercise not found: %s", exercise)
	}
	if e.IsTimed() {
		return models.NewTimedSet(e.ID, seconds), nil
	}
	return models.NewRepSet(e.ID, reps), nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	workouts, err := s.svc.ListWorkouts(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	if len(workouts) == 0 {
		return nil, map[string]any{"message": "No workouts found."}, nil
	}
	return nil, map[string]any{"workouts": workouts}, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, any, error) {
	w, err := s.svc.GetWorkout(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, w, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input getWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.svc.DeleteWorkout(input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s", input.ID),
	}, nil
}

// Analytics handlers

func (s *Server) handleGetStreaks(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	streaks, err := s.svc.Streaks()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute streaks: %w", err)
	}
	return nil, streaks, nil
}

func (s *Server) handleGetFrequency(ctx context.Context, req *mcp.CallToolRequest, input periodInput) (*mcp.CallToolResult, any, error) {
	period, err := parsePeriod(input.Period, analytics.PeriodMonthly)
	if err != nil {
		return nil, nil, err
	}

	f, err := s.svc.Frequency(period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute frequency: %w", err)
	}

	out := map[string]any{
		"period":       f.Period,
		"window":       f.Window,
		"trained_days": f.TrainedDays,
		"elapsed_days": f.ElapsedDays,
	}
	if p, ok := f.Percentage(); ok {
		out["percentage"] = p
	}
	return nil, out, nil
}

func (s *Server) handleGetConsistency(ctx context.Context, req *mcp.CallToolRequest, input consistencyInput) (*mcp.CallToolResult, any, error) {
	sel, err := s.resolveSelector(selectorInput{Exercise: input.Exercise, Category: input.Category})
	if err != nil {
		return nil, nil, err
	}
	period, err := parsePeriod(input.Period, analytics.PeriodMonthly)
	if err != nil {
		return nil, nil, err
	}

	c, err := s.svc.Consistency(sel, period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute consistency: %w", err)
	}
	return nil, c, nil
}

func (s *Server) handleGetTrend(ctx context.Context, req *mcp.CallToolRequest, input selectorInput) (*mcp.CallToolResult, any, error) {
	sel, err := s.resolveSelector(input)
	if err != nil {
		return nil, nil, err
	}

	tr, err := s.svc.Trend(sel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute trend: %w", err)
	}
	return nil, tr, nil
}

func (s *Server) handleCompareYears(ctx context.Context, req *mcp.CallToolRequest, input selectorInput) (*mcp.CallToolResult, any, error) {
	sel, err := s.resolveSelector(input)
	if err != nil {
		return nil, nil, err
	}

	y, err := s.svc.CompareYears(sel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compare years: %w", err)
	}
	return nil, y, nil
}

func (s *Server) handleGetCategories(ctx context.Context, req *mcp.CallToolRequest, input categoriesInput) (*mcp.CallToolResult, any, error) {
	period, err := parsePeriod(input.Period, analytics.PeriodMonthly)
	if err != nil {
		return nil, nil, err
	}

	reports, err := s.svc.Categories(period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute categories: %w", err)
	}

	if !input.IncludeSparse {
		reports = denseCategories(reports)
	}
	return nil, map[string]any{"period": period, "categories": reports}, nil
}

func (s *Server) handleGetPositionTargets(ctx context.Context, req *mcp.CallToolRequest, input targetsInput) (*mcp.CallToolResult, any, error) {
	e, err := s.svc.ResolveExercise(input.Exercise)
	if err != nil {
		return nil, nil, fmt.Errorf("exercise not found: %s", input.Exercise)
	}
	period, err := parsePeriod(input.Period, analytics.DefaultTargetPeriod)
	if err != nil {
		return nil, nil, err
	}

	targets, err := s.svc.Targets(e.ID, period)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute targets: %w", err)
	}
	return nil, targets, nil
}

// Helpers

func parsePeriod(raw string, fallback analytics.Period) (analytics.Period, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return analytics.ParsePeriod(raw)
}

func (s *Server) resolveSelector(input selectorInput) (analytics.Selector, error) {
	if input.Exercise != "" {
		e, err := s.svc.ResolveExercise(input.Exercise)
		if err != nil {
			return analytics.Selector{}, fmt.Errorf("exercise not found: %s", input.Exercise)
		}
		return analytics.ForExercise(e.ID), nil
	}

	category := strings.ToLower(strings.TrimSpace(input.Category))
	if category == "" {
		return analytics.Selector{}, errors.New("exercise or category is required")
	}
	if !models.IsValidCategory(category) {
		return analytics.Selector{}, fmt.Errorf("unknown category: %s", input.Category)
	}
	return analytics.ForCategory(models.Category(category)), nil
}

// denseCategories drops categories with fewer than 2 qualifying workouts.
func denseCategories(reports []analytics.CategoryReport) []analytics.CategoryReport {
	out := make([]analytics.CategoryReport, 0, len(reports))
	for _, r := range reports {
		if r.Consistency.Summary.QualifyingWorkoutCount >= 2 {
			out = append(out, r)
		}
	}
	return out
}
