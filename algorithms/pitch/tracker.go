package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"

	"github.com/RyanBlaney/sonido-eval/algorithms/common"
	"github.com/RyanBlaney/sonido-eval/logging"
)

// DefaultMinLevelDB gates windows quieter than this RMS level (dBFS)
const DefaultMinLevelDB = -70.0

// TrackerConfig configures a Tracker
type TrackerConfig struct {
	Estimator EstimatorParams `json:"estimator"`

	// OverlapPercent is the share of each window repeated in the next, [0,100)
	OverlapPercent int `json:"overlap_percent"`

	// MinLevelDB skips estimation for quieter windows; -Inf disables the gate
	MinLevelDB float64 `json:"min_level_db"`

	Logger logging.Logger `json:"-"`
}

// DefaultTrackerConfig returns a YIN tracker configuration without overlap
func DefaultTrackerConfig(sampleRate float64) TrackerConfig {
	return TrackerConfig{
		Estimator:      DefaultEstimatorParams(sampleRate, DefaultWindowSize),
		OverlapPercent: 0,
		MinLevelDB:     DefaultMinLevelDB,
	}
}

// HopSize returns the distance between window starts for a window size and overlap
func HopSize(windowSize, overlapPercent int) int {
	return windowSize - windowSize*overlapPercent/100
}

// Frame is the estimate for one window of a tracked stream
type Frame struct {
	Index    int      `json:"index"`
	Time     float64  `json:"time"` // window start, seconds
	LevelDB  float64  `json:"level_db"`
	Estimate Estimate `json:"estimate"`
}

// Tracker runs an Estimator over consecutive, possibly overlapping windows
// of a mono sample stream. It is sequential; use one Tracker per stream.
type Tracker struct {
	estimator  Estimator
	window     *common.SlidingWindow
	minLevelDB float64
	frames     int
	logger     logging.Logger
}

// NewTracker builds the configured estimator and a tracker around it
func NewTracker(cfg TrackerConfig) (*Tracker, error) {
	if cfg.Estimator.Logger == nil {
		cfg.Estimator.Logger = cfg.Logger
	}
	est, err := NewEstimator(cfg.Estimator)
	if err != nil {
		return nil, err
	}
	return NewTrackerWithEstimator(est, cfg.OverlapPercent, cfg.MinLevelDB, cfg.Logger)
}

// NewTrackerWithEstimator wraps an existing estimator
func NewTrackerWithEstimator(est Estimator, overlapPercent int, minLevelDB float64, logger logging.Logger) (*Tracker, error) {
	if est == nil {
		return nil, fmt.Errorf("%w: nil estimator", ErrInvalidConfig)
	}
	if overlapPercent < 0 || overlapPercent >= 100 {
		return nil, fmt.Errorf("%w: overlap must be in [0,100), got %d", ErrInvalidConfig, overlapPercent)
	}
	if math.IsNaN(minLevelDB) || minLevelDB > 0 {
		return nil, fmt.Errorf("%w: min level must be at most 0 dBFS, got %v", ErrInvalidConfig, minLevelDB)
	}

	window, err := common.NewSlidingWindow(est.WindowSize(), HopSize(est.WindowSize(), overlapPercent))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &Tracker{
		estimator:  est,
		window:     window,
		minLevelDB: minLevelDB,
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{
			"component": "tracker",
			"method":    est.Method().String(),
		}),
	}, nil
}

// Estimator returns the wrapped estimator
func (t *Tracker) Estimator() Estimator {
	return t.estimator
}

// Hop returns the number of samples between window starts
func (t *Tracker) Hop() int {
	return t.window.HopSize()
}

// Process feeds samples into the tracker and returns a Frame for every window
// completed by them. A trailing partial window is kept for the next call.
func (t *Tracker) Process(samples []float64) ([]Frame, error) {
	var frames []Frame
	sampleRate := t.estimator.SampleRate()
	hop := t.window.HopSize()

	err := t.window.Push(samples, func(window []float64) error {
		frame := Frame{
			Index:    t.frames,
			Time:     float64(t.frames*hop) / sampleRate,
			LevelDB:  common.LevelDB(window),
			Estimate: Unvoiced,
		}
		t.frames++

		if frame.LevelDB >= t.minLevelDB {
			est, err := t.estimator.Estimate(window)
			if err != nil {
				return err
			}
			frame.Estimate = est
		}

		frames = append(frames, frame)
		return nil
	})
	if err != nil {
		return frames, err
	}

	t.logger.Debug("processed samples", logging.Fields{
		"samples": len(samples),
		"frames":  len(frames),
	})

	return frames, nil
}

// Track processes a whole buffer. Interleaved multi-channel data is averaged
// to mono; the buffer's sample rate must match the estimator's.
func (t *Tracker) Track(buf *audio.FloatBuffer) ([]Frame, error) {
	if buf == nil || buf.Format == nil {
		return nil, errors.New("audio buffer has no format")
	}
	if float64(buf.Format.SampleRate) != t.estimator.SampleRate() {
		return nil, fmt.Errorf("buffer sample rate %d does not match estimator rate %v",
			buf.Format.SampleRate, t.estimator.SampleRate())
	}

	channels := buf.Format.NumChannels
	if channels <= 1 {
		return t.Process(buf.Data)
	}
	if len(buf.Data)%channels != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d channels", len(buf.Data), channels)
	}

	mono := make([]float64, len(buf.Data)/channels)
	for i := range mono {
		sum := 0.0
		for _, s := range buf.Data[i*channels : (i+1)*channels] {
			sum += s
		}
		mono[i] = sum / float64(channels)
	}
	return t.Process(mono)
}

// Reset drops buffered samples and restarts frame numbering
func (t *Tracker) Reset() {
	t.window.Reset()
	t.frames = 0
}
