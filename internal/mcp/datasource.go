package mcp

import (
	"context"
	"time"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/storage"
	"github.com/google/uuid"
)

// History abstracts the workout history store for MCP tools so they can run
// against the local database or a future remote client.
type History interface {
	QueryWorkoutSessions(ctx context.Context, start, end time.Time, exerciseFilter string) ([]models.WorkoutSessionRow, error)
	GetWorkoutSession(ctx context.Context, workoutID uuid.UUID) (*storage.WorkoutDetail, error)
	GetExerciseTotals(ctx context.Context, start, end time.Time) ([]storage.ExerciseTotals, error)
}

// Sessions abstracts the live engine state the stats tools read.
type Sessions interface {
	SessionStats(sessionID string) analysis.Stats
	ActiveSessions() []string
}

// Compile-time checks.
var (
	_ History  = (*storage.DB)(nil)
	_ Sessions = (*analysis.Engine)(nil)
)
