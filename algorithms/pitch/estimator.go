package pitch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RyanBlaney/sonido-eval/logging"
)

var (
	// ErrInvalidConfig is returned when an estimator cannot be built from its parameters
	ErrInvalidConfig = errors.New("invalid estimator configuration")

	// ErrWindowSize is returned when a window's length differs from the configured size
	ErrWindowSize = errors.New("window size mismatch")
)

// NoPitch is the frequency reported when no periodicity was found
const NoPitch = -1.0

// Estimate is the result of analysing one window. Frequency is NoPitch with
// zero Confidence when nothing was detected, otherwise strictly positive.
type Estimate struct {
	Frequency  float64 `json:"frequency_hz"`
	Confidence float64 `json:"confidence"` // 0-1
}

// Unvoiced is the no-pitch estimate
var Unvoiced = Estimate{Frequency: NoPitch, Confidence: 0}

// Voiced reports whether a pitch was detected. Only voiced estimates may be
// passed on to the unit conversions.
func (e Estimate) Voiced() bool {
	return e.Frequency > 0
}

// Pitch returns the estimate as a Pitch, and false when unvoiced
func (e Estimate) Pitch() (Pitch, bool) {
	if !e.Voiced() {
		return Pitch{}, false
	}
	p, err := FromHertz(e.Frequency)
	return p, err == nil
}

// Method selects a fundamental frequency estimation algorithm
type Method int

const (
	// MethodYIN is the cumulative mean normalized difference estimator
	MethodYIN Method = iota
	// MethodMPM is the McLeod pitch method (normalized square difference)
	MethodMPM
)

func (m Method) String() string {
	switch m {
	case MethodYIN:
		return "yin"
	case MethodMPM:
		return "mpm"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod maps a method name ("yin", "mpm") to a Method
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "yin":
		return MethodYIN, nil
	case "mpm", "mcleod":
		return MethodMPM, nil
	default:
		return 0, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, name)
	}
}

// MarshalText lets Method appear by name in JSON configuration
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a method name
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Estimator produces one Estimate per window of WindowSize samples.
//
// Implementations keep a working buffer that is reused between calls, so an
// Estimator must not be called concurrently. Use one instance per stream.
type Estimator interface {
	Estimate(window []float64) (Estimate, error)
	Method() Method
	SampleRate() float64
	WindowSize() int
}

// EstimatorParams contains construction parameters for every estimator
type EstimatorParams struct {
	Method     Method  `json:"method"`
	SampleRate float64 `json:"sample_rate"`
	WindowSize int     `json:"window_size"`

	// YIN: upper bound on the normalized difference of an accepted period, (0,1)
	Threshold float64 `json:"threshold"`

	// MPM: fraction of the highest NSDF key maximum a period must reach, (0,1)
	Cutoff float64 `json:"cutoff"`

	Logger logging.Logger `json:"-"`
}

// DefaultEstimatorParams returns YIN parameters for the given stream
func DefaultEstimatorParams(sampleRate float64, windowSize int) EstimatorParams {
	return EstimatorParams{
		Method:     MethodYIN,
		SampleRate: sampleRate,
		WindowSize: windowSize,
		Threshold:  DefaultYinThreshold,
		Cutoff:     DefaultMPMCutoff,
	}
}

// NewEstimator builds the estimator selected by params.Method
func NewEstimator(params EstimatorParams) (Estimator, error) {
	var (
		est Estimator
		err error
	)

	switch params.Method {
	case MethodYIN:
		est, err = NewYin(params.SampleRate, params.WindowSize, params.Threshold)
	case MethodMPM:
		est, err = NewMPM(params.SampleRate, params.WindowSize, params.Cutoff)
	default:
		return nil, fmt.Errorf("%w: unsupported method %s", ErrInvalidConfig, params.Method)
	}
	if err != nil {
		return nil, err
	}

	logging.OrGlobal(params.Logger).Debug("pitch estimator created", logging.Fields{
		"method":      params.Method.String(),
		"sample_rate": params.SampleRate,
		"window_size": params.WindowSize,
	})

	return est, nil
}

func validateStream(sampleRate float64, windowSize int) error {
	if !(sampleRate > 0) {
		return fmt.Errorf("%w: sample rate must be positive, got %v", ErrInvalidConfig, sampleRate)
	}
	if windowSize < 2 {
		return fmt.Errorf("%w: window size must be at least 2, got %d", ErrInvalidConfig, windowSize)
	}
	return nil
}

func validateUnitInterval(name string, v float64) error {
	if !(v > 0 && v < 1) {
		return fmt.Errorf("%w: %s must be in (0,1), got %v", ErrInvalidConfig, name, v)
	}
	return nil
}

func checkWindow(window []float64, want int) error {
	if len(window) != want {
		return fmt.Errorf("%w: got %d samples, estimator expects %d", ErrWindowSize, len(window), want)
	}
	return nil
}
