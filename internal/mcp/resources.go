// ABOUTME: MCP resource implementations for the workout log.
// ABOUTME: Provides workoutlog://dashboard and workoutlog://recent.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/workoutlog/internal/analytics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	dashboardURI = "workoutlog://dashboard"
	recentURI    = "workoutlog://recent"
)

func (s *Server) registerResources() {
	// workoutlog://dashboard - Every analytics result for the current month
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         dashboardURI,
		Name:        "Training Dashboard",
		Description: "Streaks, frequency, categories and per-exercise consistency for the current month",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)

	// workoutlog://recent - Last 10 workouts
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentURI,
		Name:        "Recent Workouts",
		Description: "Last 10 workouts with their sets",
		MIMEType:    "application/json",
	}, s.handleRecentResource)
}

// Resource handlers

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	d, err := s.svc.Dashboard(ctx, analytics.PeriodMonthly)
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return jsonResource(dashboardURI, d)
}

func (s *Server) handleRecentResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts, err := s.svc.ListWorkouts(10)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	exercises, err := s.svc.ListExercises()
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	return jsonResource(recentURI, map[string]any{
		"workouts":  workouts,
		"exercises": exercises,
		"counts": map[string]int{
			"workouts":  len(workouts),
			"exercises": len(exercises),
		},
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
