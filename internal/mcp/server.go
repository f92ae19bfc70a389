// Package mcp exposes session stats, workout history and the exercise
// catalog as MCP tools and resources.
package mcp

import (
	"log/slog"

	"github.com/claude/repcoach/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
// hist may be nil when no database is configured; history tools then
// return a clean error result.
func New(sessions Sessions, hist History, lib *library.Library, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCoach exercise analysis server. Query live session rep counts, stored workout history, and the exercise catalog."),
	)

	h := &handlers{sessions: sessions, hist: hist, lib: lib, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSessionStats, Handler: h.getSessionStats},
		server.ServerTool{Tool: toolListActiveSessions, Handler: h.listActiveSessions},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkoutDetail, Handler: h.getWorkoutDetail},
		server.ServerTool{Tool: toolGetExerciseTotals, Handler: h.getExerciseTotals},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolGetExercise, Handler: h.getExercise},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	sessions Sessions
	hist     History
	lib      *library.Library
	log      *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"repcoach://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All supported exercises with instructions, target muscles, difficulty and required landmarks"),
	mcp.WithMIMEType("application/json"),
)
