package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/repcoach/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertWorkoutSession inserts a completed session with its rep events in a
// single transaction. Returns the stored row; duplicates on
// (session_key, completed_at) are skipped and reported via inserted=false.
func (db *DB) InsertWorkoutSession(ctx context.Context, result models.WorkoutResult) (models.WorkoutSessionRow, bool, error) {
	row := models.WorkoutSessionRow{
		ID:              uuid.New(),
		SessionKey:      result.SessionKey,
		Exercise:        result.Exercise,
		TotalReps:       result.TotalReps,
		CorrectReps:     result.CorrectReps,
		AvgAccuracy:     result.AvgAccuracy,
		FramesProcessed: result.FramesProcessed,
		Calories:        result.Calories,
		Source:          sourceOrDefault(result),
		StartedAt:       result.StartedAt,
		CompletedAt:     result.CompletedAt,
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return models.WorkoutSessionRow{}, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`INSERT INTO workout_sessions (id, session_key, exercise, total_reps, correct_reps,
		 avg_accuracy, frames_processed, calories, source, started_at, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		 ON CONFLICT (session_key, completed_at) DO NOTHING`,
		row.ID, row.SessionKey, row.Exercise, row.TotalReps, row.CorrectReps,
		row.AvgAccuracy, row.FramesProcessed, row.Calories, row.Source,
		row.StartedAt, row.CompletedAt)
	if err != nil {
		return models.WorkoutSessionRow{}, false, fmt.Errorf("inserting workout session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.WorkoutSessionRow{}, false, nil
	}

	if err := insertRepEvents(ctx, tx, row.ID, result.RepEvents); err != nil {
		return models.WorkoutSessionRow{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return models.WorkoutSessionRow{}, false, fmt.Errorf("committing workout session: %w", err)
	}
	return row, true, nil
}

func sourceOrDefault(result models.WorkoutResult) string {
	if strings.HasPrefix(result.SessionKey, "replay:") {
		return "replay"
	}
	return "live"
}

func insertRepEvents(ctx context.Context, tx pgx.Tx, workoutID uuid.UUID, events []models.RepEventRow) error {
	if len(events) == 0 {
		return nil
	}

	query := `INSERT INTO rep_events (workout_id, rep_number, frame_index, accuracy) VALUES `
	args := make([]any, 0, len(events)*4)
	valueStrings := make([]string, 0, len(events))

	for i, ev := range events {
		base := i * 4
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		args = append(args, workoutID, ev.RepNumber, ev.FrameIndex, ev.Accuracy)
	}

	query += strings.Join(valueStrings, ",")

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting rep events: %w", err)
	}
	return nil
}

// QueryWorkoutSessions retrieves completed sessions in a time range, newest
// first. An empty exercise filter matches everything.
func (db *DB) QueryWorkoutSessions(ctx context.Context, start, end time.Time, exerciseFilter string) ([]models.WorkoutSessionRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_key, exercise, total_reps, correct_reps, avg_accuracy,
		 frames_processed, calories, source, started_at, completed_at
		 FROM workout_sessions
		 WHERE completed_at >= $1 AND completed_at < $2
		   AND ($3 = '' OR exercise = $3)
		 ORDER BY completed_at DESC`,
		start, end, strings.ToLower(exerciseFilter))
	if err != nil {
		return nil, fmt.Errorf("querying workout sessions: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutSessionRow
	for rows.Next() {
		var w models.WorkoutSessionRow
		if err := rows.Scan(&w.ID, &w.SessionKey, &w.Exercise, &w.TotalReps, &w.CorrectReps,
			&w.AvgAccuracy, &w.FramesProcessed, &w.Calories, &w.Source,
			&w.StartedAt, &w.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning workout session: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// WorkoutDetail is a workout session with its rep events.
type WorkoutDetail struct {
	models.WorkoutSessionRow
	RepEvents []models.RepEventRow `json:"rep_events"`
}

// GetWorkoutSession retrieves a single session by id with its rep events.
func (db *DB) GetWorkoutSession(ctx context.Context, workoutID uuid.UUID) (*WorkoutDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, session_key, exercise, total_reps, correct_reps, avg_accuracy,
		 frames_processed, calories, source, started_at, completed_at
		 FROM workout_sessions WHERE id = $1`,
		workoutID)

	var w models.WorkoutSessionRow
	err := row.Scan(&w.ID, &w.SessionKey, &w.Exercise, &w.TotalReps, &w.CorrectReps,
		&w.AvgAccuracy, &w.FramesProcessed, &w.Calories, &w.Source,
		&w.StartedAt, &w.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("querying workout session: %w", err)
	}

	detail := &WorkoutDetail{WorkoutSessionRow: w}

	evRows, err := db.Pool.Query(ctx,
		`SELECT workout_id, rep_number, frame_index, accuracy
		 FROM rep_events WHERE workout_id = $1 ORDER BY rep_number ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying rep events: %w", err)
	}
	defer evRows.Close()

	for evRows.Next() {
		var ev models.RepEventRow
		if err := evRows.Scan(&ev.WorkoutID, &ev.RepNumber, &ev.FrameIndex, &ev.Accuracy); err != nil {
			return nil, fmt.Errorf("scanning rep event: %w", err)
		}
		detail.RepEvents = append(detail.RepEvents, ev)
	}

	return detail, evRows.Err()
}

// ExerciseTotals summarizes all stored sessions for one exercise.
type ExerciseTotals struct {
	Exercise    string  `json:"exercise"`
	Sessions    int     `json:"sessions"`
	TotalReps   int     `json:"total_reps"`
	AvgAccuracy float64 `json:"avg_accuracy"`
}

// GetExerciseTotals aggregates stored sessions per exercise in a time range.
func (db *DB) GetExerciseTotals(ctx context.Context, start, end time.Time) ([]ExerciseTotals, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, COUNT(*), COALESCE(SUM(total_reps), 0), COALESCE(AVG(avg_accuracy), 0)
		 FROM workout_sessions
		 WHERE completed_at >= $1 AND completed_at < $2
		 GROUP BY exercise
		 ORDER BY exercise`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying exercise totals: %w", err)
	}
	defer rows.Close()

	var result []ExerciseTotals
	for rows.Next() {
		var t ExerciseTotals
		if err := rows.Scan(&t.Exercise, &t.Sessions, &t.TotalReps, &t.AvgAccuracy); err != nil {
			return nil, fmt.Errorf("scanning exercise totals: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
