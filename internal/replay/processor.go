package replay

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/repcoach/internal/analysis"
	"github.com/claude/repcoach/internal/models"
	"github.com/claude/repcoach/internal/workout"
)

// Processor feeds a recording through the analysis engine frame by frame.
type Processor struct {
	engine *analysis.Engine
	log    *slog.Logger
}

// NewProcessor creates a processor around an engine.
func NewProcessor(engine *analysis.Engine, log *slog.Logger) *Processor {
	return &Processor{engine: engine, log: log}
}

// Run replays a recording for one exercise under the given session key and
// returns the workout summary. The session is reset before and after, so a
// key can be reused across recordings.
func (p *Processor) Run(r io.Reader, exercise, sessionKey string) (models.WorkoutResult, error) {
	p.engine.ResetSession(sessionKey)
	defer p.engine.ResetSession(sessionKey)

	agg := workout.NewAggregator(sessionKey, exercise, time.Now())
	reader := NewReader(r)

	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.WorkoutResult{}, fmt.Errorf("reading recording: %w", err)
		}
		agg.Observe(p.engine.ProcessFrame(rec.Landmarks, exercise, sessionKey))
	}

	result := agg.Result(time.Now())
	p.log.Info("replay finished",
		"session", sessionKey,
		"exercise", exercise,
		"frames", result.FramesProcessed,
		"reps", result.TotalReps,
	)
	return result, nil
}
