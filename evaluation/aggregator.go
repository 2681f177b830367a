package evaluation

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/RyanBlaney/sonido-eval/algorithms/common"
	"github.com/RyanBlaney/sonido-eval/logging"
)

var (
	// ErrNoOpenLine is returned when trials are recorded outside BeginLine/EndLine
	ErrNoOpenLine = errors.New("no evaluation line open")

	// ErrLineOpen is returned by BeginLine while another line is still open
	ErrLineOpen = errors.New("evaluation line already open")

	// ErrEmptyLine is returned by EndLine when the line recorded no trials
	ErrEmptyLine = errors.New("evaluation line has no trials")
)

// TrialParams identifies the analysis settings a transcription was produced with
type TrialParams struct {
	Method         string `json:"method"`
	WindowSize     int    `json:"window_size"`
	OverlapPercent int    `json:"overlap_percent"`
}

func (p TrialParams) String() string {
	return fmt.Sprintf("%s window=%d overlap=%d%%", p.Method, p.WindowSize, p.OverlapPercent)
}

// Trial is one scored transcription
type Trial struct {
	ID         uuid.UUID   `json:"id"`
	Line       string      `json:"line"`
	Category   string      `json:"category"`
	Params     TrialParams `json:"params"`
	Result     ScoreResult `json:"result"`
	Hypothesis Melody      `json:"hypothesis,omitempty"`
}

// LineSummary reports the best trial of a closed line
type LineSummary struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Trials     int     `json:"trials"`
	Best       Trial   `json:"best"` // highest note recognition rate, first on ties
	BestFScore float64 `json:"best_f_score"`
}

// CategoryMean is the mean note recognition rate of one category
type CategoryMean struct {
	Category            string  `json:"category"`
	Trials              int     `json:"trials"`
	MeanRecognitionRate float64 `json:"mean_recognition_rate"`
}

// Summary is a snapshot of the aggregated batch. Means over no values are 0.
type Summary struct {
	Trials                  int            `json:"trials"`
	MeanRecognitionRate     float64        `json:"mean_recognition_rate"`
	MeanFScore              float64        `json:"mean_f_score"`
	MeanBestRecognitionRate float64        `json:"mean_best_recognition_rate"`
	Categories              []CategoryMean `json:"categories"`
	Lines                   []LineSummary  `json:"lines"`
}

type lineState struct {
	name     string
	category string
	trials   []Trial
	rates    []float64
	fScores  []float64

	// batch state at BeginLine, restored by AbortLine
	batchTrials     int
	categoryTrials  int
	categoryIsFresh bool
}

// Aggregator accumulates trial scores for one evaluation batch.
// Trials are grouped into lines (all parameter settings tried on one
// reference melody) and into categories such as the instrument played.
// Methods are safe for concurrent use.
type Aggregator struct {
	mu sync.Mutex

	recognitionRates []float64
	fScores          []float64
	bestRates        []float64
	lines            []LineSummary

	// insertion order for stable reports
	categories    []string
	categoryRates map[string][]float64

	line   *lineState
	logger logging.Logger
}

// NewAggregator creates an empty aggregator; a nil logger uses the global logger
func NewAggregator(logger logging.Logger) *Aggregator {
	a := &Aggregator{
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{"component": "aggregator"}),
	}
	a.resetLocked()
	return a
}

// BeginLine opens a line for the reference melody name in category
func (a *Aggregator) BeginLine(name, category string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.line != nil {
		return fmt.Errorf("%w: %q", ErrLineOpen, a.line.name)
	}
	_, known := a.categoryRates[category]
	a.line = &lineState{
		name:            name,
		category:        category,
		batchTrials:     len(a.recognitionRates),
		categoryTrials:  len(a.categoryRates[category]),
		categoryIsFresh: !known,
	}
	a.logger.Debug("line opened", logging.Fields{"line": name, "category": category})
	return nil
}

// Add records a scored trial in the open line, the batch totals and the
// line's category
func (a *Aggregator) Add(result ScoreResult, params TrialParams, hypothesis Melody) (Trial, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.line == nil {
		return Trial{}, ErrNoOpenLine
	}

	trial := Trial{
		ID:         uuid.New(),
		Line:       a.line.name,
		Category:   a.line.category,
		Params:     params,
		Result:     result,
		Hypothesis: hypothesis.Clone(),
	}
	rate := result.NoteRecognitionRate()

	a.recognitionRates = append(a.recognitionRates, rate)
	a.fScores = append(a.fScores, result.FScorePercent)

	if _, ok := a.categoryRates[trial.Category]; !ok {
		a.categories = append(a.categories, trial.Category)
	}
	a.categoryRates[trial.Category] = append(a.categoryRates[trial.Category], rate)

	a.line.trials = append(a.line.trials, trial)
	a.line.rates = append(a.line.rates, rate)
	a.line.fScores = append(a.line.fScores, result.FScorePercent)

	a.logger.Info("trial recorded", logging.Fields{
		"line":             trial.Line,
		"params":           params.String(),
		"recognition_rate": rate,
		"f_score":          result.FScorePercent,
		"recall":           result.Recall,
		"precision":        result.Precision,
	})

	return trial, nil
}

// BestOfLine returns the open line's trial with the highest note recognition
// rate, the first one on ties
func (a *Aggregator) BestOfLine() (Trial, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.line == nil || len(a.line.trials) == 0 {
		return Trial{}, false
	}
	idx, _ := common.ArgMax(a.line.rates)
	return a.line.trials[idx], true
}

// EndLine closes the open line. A line without trials is closed and discarded
// with ErrEmptyLine.
func (a *Aggregator) EndLine() (LineSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	line := a.line
	if line == nil {
		return LineSummary{}, ErrNoOpenLine
	}
	a.line = nil

	if len(line.trials) == 0 {
		return LineSummary{}, fmt.Errorf("%w: %q", ErrEmptyLine, line.name)
	}

	bestIdx, bestRate := common.ArgMax(line.rates)
	_, bestF := common.ArgMax(line.fScores)

	summary := LineSummary{
		Name:       line.name,
		Category:   line.category,
		Trials:     len(line.trials),
		Best:       line.trials[bestIdx],
		BestFScore: bestF,
	}
	a.bestRates = append(a.bestRates, bestRate)
	a.lines = append(a.lines, summary)

	a.logger.Info("line closed", logging.Fields{
		"line":                  summary.Name,
		"trials":                summary.Trials,
		"best_recognition_rate": bestRate,
		"best_params":           summary.Best.Params.String(),
		"best_f_score":          bestF,
	})

	return summary, nil
}

// AbortLine discards the open line together with every trial recorded in it,
// leaving the batch as it was before BeginLine. It reports whether a line was open.
func (a *Aggregator) AbortLine() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	line := a.line
	if line == nil {
		return false
	}
	a.line = nil

	a.recognitionRates = a.recognitionRates[:line.batchTrials]
	a.fScores = a.fScores[:line.batchTrials]
	if line.categoryIsFresh {
		delete(a.categoryRates, line.category)
		if i := slices.Index(a.categories, line.category); i >= 0 {
			a.categories = slices.Delete(a.categories, i, i+1)
		}
	} else {
		a.categoryRates[line.category] = a.categoryRates[line.category][:line.categoryTrials]
	}

	a.logger.Info("line aborted", logging.Fields{
		"line":   line.name,
		"trials": len(line.trials),
	})
	return true
}

// Summary returns the running statistics of the batch
func (a *Aggregator) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	categories := make([]CategoryMean, 0, len(a.categories))
	for _, c := range a.categories {
		rates := a.categoryRates[c]
		categories = append(categories, CategoryMean{
			Category:            c,
			Trials:              len(rates),
			MeanRecognitionRate: common.Mean(rates),
		})
	}

	return Summary{
		Trials:                  len(a.recognitionRates),
		MeanRecognitionRate:     common.Mean(a.recognitionRates),
		MeanFScore:              common.Mean(a.fScores),
		MeanBestRecognitionRate: common.Mean(a.bestRates),
		Categories:              categories,
		Lines:                   slices.Clone(a.lines),
	}
}

// Reset clears all state, including an open line, for a new batch
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *Aggregator) resetLocked() {
	a.recognitionRates = nil
	a.fScores = nil
	a.bestRates = nil
	a.lines = nil
	a.categories = nil
	a.categoryRates = make(map[string][]float64)
	a.line = nil
}
