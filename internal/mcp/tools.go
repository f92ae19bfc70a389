package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetSessionStats = mcp.NewTool("get_session_stats",
	mcp.WithDescription("Get the current rep count and movement phase for a live analysis session. Unknown sessions return rep_count 0 and phase 'ready'."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
)

var toolListActiveSessions = mcp.NewTool("list_active_sessions",
	mcp.WithDescription("List the IDs of analysis sessions currently holding state."),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("Query completed workout sessions. Returns rep totals, form accuracy, calories and timing per workout."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (e.g. 'push_ups', 'squats')")),
)

var toolGetWorkoutDetail = mcp.NewTool("get_workout_detail",
	mcp.WithDescription("Get one stored workout with its per-rep events (rep number, frame index, accuracy)."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolGetExerciseTotals = mcp.NewTool("get_exercise_totals",
	mcp.WithDescription("Aggregate stored workouts per exercise: session count, total reps and average accuracy over a time range."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the supported exercises with their metadata. Optionally filter by category or difficulty."),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. 'strength', 'core')")),
	mcp.WithString("difficulty", mcp.Description("Filter by difficulty level (e.g. 'beginner', 'intermediate')")),
)

var toolGetExercise = mcp.NewTool("get_exercise",
	mcp.WithDescription("Get one exercise's metadata: instructions, target muscles, equipment and the landmarks the analyzer needs."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Exercise name (e.g. 'push_ups')")),
)

// --- Tool handlers ---

const noHistoryMsg = "workout history not configured"

func (h *handlers) getSessionStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(h.sessions.SessionStats(sessionID))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listActiveSessions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"sessions": h.sessions.ActiveSessions(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.hist == nil {
		return mcp.NewToolResultError(noHistoryMsg), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.hist.QueryWorkoutSessions(ctx, start, end, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.hist == nil {
		return mcp.NewToolResultError(noHistoryMsg), nil
	}

	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}

	detail, err := h.hist.GetWorkoutSession(ctx, workoutID)
	if err != nil {
		h.log.Error("mcp get_workout_detail", "error", err)
		return mcp.NewToolResultError("workout not found: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(detail)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseTotals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.hist == nil {
		return mcp.NewToolResultError(noHistoryMsg), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	totals, err := h.hist.GetExerciseTotals(ctx, start, end)
	if err != nil {
		h.log.Error("mcp get_exercise_totals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(totals)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var payload any
	switch {
	case req.GetString("category", "") != "":
		payload = h.lib.ByCategory(req.GetString("category", ""))
	case req.GetString("difficulty", "") != "":
		payload = h.lib.ByDifficulty(req.GetString("difficulty", ""))
	default:
		payload = h.lib.All()
	}

	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExercise(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}

	ex, ok := h.lib.Get(name)
	if !ok {
		return mcp.NewToolResultError("unknown exercise: " + name), nil
	}

	result, err := mcp.NewToolResultJSON(ex)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
