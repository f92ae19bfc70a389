// Package workout accumulates per-frame analysis results into the workout
// summary that gets persisted when a session completes. Both the live HTTP
// path and the recording replay path feed an Aggregator.
package workout

import (
	"time"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/models"
)

const (
	// correctRepThreshold is the frame accuracy above which a counted rep
	// is considered performed with good form.
	correctRepThreshold = 0.7

	// timelineInterval samples every Nth frame into the review timeline.
	timelineInterval = 15

	// assumedFPS converts frame counts to seconds for duration-based
	// estimates when the recording carries no timestamps.
	assumedFPS = 30.0
)

// caloriesPerRep is a rough per-exercise calorie estimate. Planks are
// isometric and burn per second of hold instead.
var caloriesPerRep = map[string]float64{
	"push_ups":    0.5,
	"squats":      0.8,
	"bicep_curls": 0.3,
	"lunges":      0.7,
}

const plankCaloriesPerSecond = 0.1

// Aggregator folds a stream of frame results into a WorkoutResult.
// One Aggregator serves one session; it is not safe for concurrent use,
// matching the per-session frame-ordering contract of the engine.
type Aggregator struct {
	sessionKey string
	exercise   string
	startedAt  time.Time

	frames      int
	accuracySum float64
	correctReps int
	repEvents   []models.RepEventRow
	feedback    map[string]int
	timeline    []models.TimelineEntry
}

// NewAggregator starts an empty aggregate for a session.
func NewAggregator(sessionKey, exercise string, startedAt time.Time) *Aggregator {
	return &Aggregator{
		sessionKey: sessionKey,
		exercise:   exercise,
		startedAt:  startedAt,
		feedback:   make(map[string]int),
	}
}

// Observe folds one frame result into the aggregate. Nil results
// (no detection) are counted as processed frames but contribute nothing.
func (a *Aggregator) Observe(res *analysis.Result) {
	a.frames++
	if res == nil {
		return
	}

	a.accuracySum += res.AccuracyScore
	for _, msg := range res.FormFeedback {
		a.feedback[msg]++
	}

	if res.RepCounted {
		a.repEvents = append(a.repEvents, models.RepEventRow{
			RepNumber:  res.RepCount,
			FrameIndex: res.FrameIndex,
			Accuracy:   res.AccuracyScore,
		})
		if res.AccuracyScore > correctRepThreshold {
			a.correctReps++
		}
	}

	if a.frames%timelineInterval == 1 {
		a.timeline = append(a.timeline, models.TimelineEntry{
			FrameIndex: res.FrameIndex,
			RepCount:   res.RepCount,
			Phase:      res.Phase,
			Accuracy:   res.AccuracyScore,
			Feedback:   res.FormFeedback,
		})
	}
}

// Frames returns the number of frames observed so far.
func (a *Aggregator) Frames() int {
	return a.frames
}

// Result finalizes the aggregate as of completedAt.
func (a *Aggregator) Result(completedAt time.Time) models.WorkoutResult {
	totalReps := len(a.repEvents)

	avg := 0.0
	if a.frames > 0 {
		avg = a.accuracySum / float64(a.frames)
	}

	return models.WorkoutResult{
		SessionKey:      a.sessionKey,
		Exercise:        a.exercise,
		TotalReps:       totalReps,
		CorrectReps:     a.correctReps,
		AvgAccuracy:     avg,
		FramesProcessed: a.frames,
		Calories:        a.calories(totalReps),
		FeedbackSummary: a.feedback,
		Timeline:        a.timeline,
		RepEvents:       a.repEvents,
		StartedAt:       a.startedAt,
		CompletedAt:     completedAt,
	}
}

func (a *Aggregator) calories(totalReps int) float64 {
	if a.exercise == "planks" {
		return plankCaloriesPerSecond * float64(a.frames) / assumedFPS
	}
	perRep, ok := caloriesPerRep[a.exercise]
	if !ok {
		perRep = 0.5
	}
	return perRep * float64(totalReps)
}
