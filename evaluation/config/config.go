package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RyanBlaney/sonido-eval/algorithms/pitch"
	"github.com/RyanBlaney/sonido-eval/evaluation"
	"github.com/RyanBlaney/sonido-eval/logging"
)

// ErrInvalid is wrapped by every validation failure in this package
var ErrInvalid = errors.New("invalid configuration")

// EstimatorConfig configures pitch tracking of one recording
type EstimatorConfig struct {
	Method     pitch.Method `json:"method"` // "yin" or "mpm"
	SampleRate float64      `json:"sample_rate"`
	WindowSize int          `json:"window_size"`

	// Threshold is the YIN threshold or the MPM cutoff, depending on Method
	Threshold float64 `json:"threshold"`

	MinLevelDB     float64 `json:"min_level_db"`
	OverlapPercent int     `json:"overlap_percent"`
}

// SweepConfig is the parameter grid tried on every evaluation line
type SweepConfig struct {
	Methods         []pitch.Method `json:"methods"`
	WindowSizes     []int          `json:"window_sizes"`
	OverlapPercents []int          `json:"overlap_percents"`
}

// Config is the top level file read by Load
type Config struct {
	LogLevel  string          `json:"log_level"`
	Estimator EstimatorConfig `json:"estimator"`
	Sweep     SweepConfig     `json:"sweep"`
}

// DefaultEstimatorConfig returns YIN at 44.1 kHz with 1024 sample windows
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		Method:         pitch.MethodYIN,
		SampleRate:     44100,
		WindowSize:     pitch.DefaultWindowSize,
		Threshold:      pitch.DefaultYinThreshold,
		MinLevelDB:     pitch.DefaultMinLevelDB,
		OverlapPercent: 0,
	}
}

// DefaultSweepConfig returns the grid used for the recorder and voice batches
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Methods:         []pitch.Method{pitch.MethodYIN},
		WindowSizes:     []int{512, 1024, 2048},
		OverlapPercents: []int{0, 10, 25, 50, 75},
	}
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Estimator: DefaultEstimatorConfig(),
		Sweep:     DefaultSweepConfig(),
	}
}

// Validate checks ranges without building an estimator
func (c EstimatorConfig) Validate() error {
	if c.Method != pitch.MethodYIN && c.Method != pitch.MethodMPM {
		return fmt.Errorf("%w: unknown method %s", ErrInvalid, c.Method)
	}
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: sample_rate must be positive, got %v", ErrInvalid, c.SampleRate)
	}
	if c.WindowSize < 2 {
		return fmt.Errorf("%w: window_size must be at least 2, got %d", ErrInvalid, c.WindowSize)
	}
	if !(c.Threshold > 0 && c.Threshold < 1) {
		return fmt.Errorf("%w: threshold must be in (0,1), got %v", ErrInvalid, c.Threshold)
	}
	if math.IsNaN(c.MinLevelDB) || c.MinLevelDB > 0 {
		return fmt.Errorf("%w: min_level_db must be at most 0, got %v", ErrInvalid, c.MinLevelDB)
	}
	if c.OverlapPercent < 0 || c.OverlapPercent >= 100 {
		return fmt.Errorf("%w: overlap_percent must be in [0,100), got %d", ErrInvalid, c.OverlapPercent)
	}
	return nil
}

// TrackerConfig converts to the tracker's construction parameters
func (c EstimatorConfig) TrackerConfig(logger logging.Logger) pitch.TrackerConfig {
	params := pitch.DefaultEstimatorParams(c.SampleRate, c.WindowSize)
	params.Method = c.Method
	params.Logger = logger
	if c.Method == pitch.MethodMPM {
		params.Cutoff = c.Threshold
	} else {
		params.Threshold = c.Threshold
	}

	return pitch.TrackerConfig{
		Estimator:      params,
		OverlapPercent: c.OverlapPercent,
		MinLevelDB:     c.MinLevelDB,
		Logger:         logger,
	}
}

// WithTrial returns a copy using the method, window size and overlap of p.
// The threshold falls back to the method's default when the method changes.
func (c EstimatorConfig) WithTrial(p evaluation.TrialParams) (EstimatorConfig, error) {
	method, err := pitch.ParseMethod(p.Method)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if method != c.Method {
		c.Threshold = pitch.DefaultYinThreshold
		if method == pitch.MethodMPM {
			c.Threshold = pitch.DefaultMPMCutoff
		}
	}
	c.Method = method
	c.WindowSize = p.WindowSize
	c.OverlapPercent = p.OverlapPercent
	return c, c.Validate()
}

func (s SweepConfig) Validate() error {
	if len(s.Methods) == 0 || len(s.WindowSizes) == 0 || len(s.OverlapPercents) == 0 {
		return fmt.Errorf("%w: sweep needs at least one method, window size and overlap", ErrInvalid)
	}
	for _, w := range s.WindowSizes {
		if w < 2 {
			return fmt.Errorf("%w: sweep window size %d", ErrInvalid, w)
		}
	}
	for _, o := range s.OverlapPercents {
		if o < 0 || o >= 100 {
			return fmt.Errorf("%w: sweep overlap %d%%", ErrInvalid, o)
		}
	}
	return nil
}

// Trials enumerates the grid, methods outermost and overlaps innermost
func (s SweepConfig) Trials() []evaluation.TrialParams {
	trials := make([]evaluation.TrialParams, 0, len(s.Methods)*len(s.WindowSizes)*len(s.OverlapPercents))
	for _, m := range s.Methods {
		for _, w := range s.WindowSizes {
			for _, o := range s.OverlapPercents {
				trials = append(trials, evaluation.TrialParams{
					Method:         m.String(),
					WindowSize:     w,
					OverlapPercent: o,
				})
			}
		}
	}
	return trials
}

func (c *Config) Validate() error {
	if err := c.Estimator.Validate(); err != nil {
		return fmt.Errorf("estimator: %w", err)
	}
	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	return nil
}

// Load decodes a JSON configuration over the defaults, so a file only
// needs the fields it changes. Unknown fields are rejected.
func Load(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
