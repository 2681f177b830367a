package evaluation

import (
	"context"
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-eval/logging"
)

// Line is one reference melody to evaluate, together with whatever the
// transcriber needs to reproduce it (typically a recording)
type Line struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Reference Melody    `json:"reference"`
	Samples   []float64 `json:"-"`
}

// Transcriber turns a line's audio into a note sequence using the given
// settings. Pitch tracking and note segmentation live behind this interface.
type Transcriber interface {
	Transcribe(ctx context.Context, line Line, params TrialParams) (Melody, error)
}

// TranscriberFunc adapts a function to Transcriber
type TranscriberFunc func(ctx context.Context, line Line, params TrialParams) (Melody, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, line Line, params TrialParams) (Melody, error) {
	return f(ctx, line, params)
}

// Runner sweeps every parameter setting over every line and feeds the scores
// into an Aggregator
type Runner struct {
	scorer *Scorer
	trials []TrialParams
	logger logging.Logger
}

// NewRunner creates a runner for the given parameter grid
func NewRunner(trials []TrialParams, logger logging.Logger) *Runner {
	logger = logging.OrGlobal(logger)
	return &Runner{
		scorer: NewScorer(logger),
		trials: trials,
		logger: logger.WithFields(logging.Fields{"component": "runner"}),
	}
}

// Run evaluates lines in order. A failed transcription is logged and skipped;
// a line whose every trial failed is reported as empty and the run continues.
// Cancelling ctx stops the run between trials; the interrupted line is aborted
// so its partial trials do not count towards the summary.
func (r *Runner) Run(ctx context.Context, agg *Aggregator, lines []Line, transcriber Transcriber) error {
	if len(r.trials) == 0 {
		return errors.New("runner has no trial parameters")
	}

	for _, line := range lines {
		if err := r.runLine(ctx, agg, line, transcriber); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runLine(ctx context.Context, agg *Aggregator, line Line, transcriber Transcriber) error {
	if err := line.Reference.Validate(); err != nil {
		return fmt.Errorf("line %q reference: %w", line.Name, err)
	}
	if err := agg.BeginLine(line.Name, line.Category); err != nil {
		return err
	}

	logger := r.logger.WithContext(ctx).WithFields(logging.Fields{"line": line.Name})

	for _, params := range r.trials {
		if err := ctx.Err(); err != nil {
			agg.AbortLine()
			return err
		}

		hypothesis, err := transcriber.Transcribe(ctx, line, params)
		if err != nil {
			logger.Error(err, "transcription failed", logging.Fields{"params": params.String()})
			continue
		}

		result, err := r.scorer.Score(line.Reference, hypothesis)
		if err != nil {
			logger.Error(err, "invalid transcription", logging.Fields{"params": params.String()})
			continue
		}

		if _, err := agg.Add(result, params, hypothesis); err != nil {
			return err
		}
	}

	if _, err := agg.EndLine(); err != nil {
		if errors.Is(err, ErrEmptyLine) {
			logger.Warn("no usable transcription for line")
			return nil
		}
		return err
	}
	return nil
}
