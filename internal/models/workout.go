// Package models holds the row and value types shared between the storage
// layer, the HTTP API and the replay pipeline.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutSessionRow is one completed analysis session persisted to the
// workout_sessions table.
type WorkoutSessionRow struct {
	ID              uuid.UUID `json:"id"`
	SessionKey      string    `json:"session_key"`
	Exercise        string    `json:"exercise"`
	TotalReps       int       `json:"total_reps"`
	CorrectReps     int       `json:"correct_reps"`
	AvgAccuracy     float64   `json:"avg_accuracy"`
	FramesProcessed int       `json:"frames_processed"`
	Calories        float64   `json:"calories"`
	Source          string    `json:"source"` // "live" or "replay"
	StartedAt       time.Time `json:"started_at"`
	CompletedAt     time.Time `json:"completed_at"`
}

// RepEventRow is one counted repetition within a workout session.
type RepEventRow struct {
	WorkoutID  uuid.UUID `json:"workout_id"`
	RepNumber  int       `json:"rep_number"`
	FrameIndex int       `json:"frame_index"`
	Accuracy   float64   `json:"accuracy"`
}

// TimelineEntry is a periodic sample of the analysis output, kept for
// post-workout review.
type TimelineEntry struct {
	FrameIndex int      `json:"frame_index"`
	RepCount   int      `json:"rep_count"`
	Phase      string   `json:"phase"`
	Accuracy   float64  `json:"accuracy"`
	Feedback   []string `json:"feedback,omitempty"`
}

// WorkoutResult is the aggregate a replay or completed live session
// produces before persistence.
type WorkoutResult struct {
	SessionKey      string          `json:"session_key"`
	Exercise        string          `json:"exercise"`
	TotalReps       int             `json:"total_reps"`
	CorrectReps     int             `json:"correct_reps"`
	AvgAccuracy     float64         `json:"avg_accuracy"`
	FramesProcessed int             `json:"frames_processed"`
	Calories        float64         `json:"calories"`
	FeedbackSummary map[string]int  `json:"feedback_summary,omitempty"`
	Timeline        []TimelineEntry `json:"timeline,omitempty"`
	RepEvents       []RepEventRow   `json:"rep_events,omitempty"`
	StartedAt       time.Time       `json:"started_at"`
	CompletedAt     time.Time       `json:"completed_at"`
}
