package pitch

import (
	"github.com/RyanBlaney/sonido-eval/algorithms/common"
	"github.com/RyanBlaney/sonido-eval/algorithms/spectral"
)

const (
	// DefaultMPMCutoff selects the first key maximum within 3% of the highest one
	DefaultMPMCutoff = 0.97

	// mpmSmallCutoff discards key maxima too weak to be a period
	mpmSmallCutoff = 0.5

	// mpmLowerPitchCutoff rejects estimates below this frequency (Hz)
	mpmLowerPitchCutoff = 80.0
)

// MPM implements the McLeod pitch method
//
// References:
// - McLeod, P., Wyvill, G. (2005). "A smarter way to find pitch"
//
// The normalized square difference function n(tau) = 2r(tau)/m(tau) is built
// from an FFT autocorrelation, so a window costs O(W log W) rather than the
// O(W²) of the direct difference function.
type MPM struct {
	sampleRate float64
	windowSize int
	cutoff     float64

	autocorr *spectral.Autocorrelation

	// reused across calls
	nsdf         []float64
	maxPositions []int
	periods      []float64
	amplitudes   []float64
}

// NewMPM creates a McLeod estimator for windows of windowSize samples
func NewMPM(sampleRate float64, windowSize int, cutoff float64) (*MPM, error) {
	if err := validateStream(sampleRate, windowSize); err != nil {
		return nil, err
	}
	if err := validateUnitInterval("mpm cutoff", cutoff); err != nil {
		return nil, err
	}

	return &MPM{
		sampleRate: sampleRate,
		windowSize: windowSize,
		cutoff:     cutoff,
		autocorr:   spectral.NewAutocorrelation(windowSize),
		nsdf:       make([]float64, windowSize),
	}, nil
}

func (m *MPM) Method() Method { return MethodMPM }

func (m *MPM) SampleRate() float64 { return m.sampleRate }

func (m *MPM) WindowSize() int { return m.windowSize }

// Estimate returns the fundamental frequency of window, or Unvoiced
func (m *MPM) Estimate(window []float64) (Estimate, error) {
	if err := checkWindow(window, m.windowSize); err != nil {
		return Unvoiced, err
	}

	m.normalizedSquareDifference(window)
	m.peakPicking()

	m.periods = m.periods[:0]
	m.amplitudes = m.amplitudes[:0]
	highest := 0.0

	for _, tau := range m.maxPositions {
		if m.nsdf[tau] <= mpmSmallCutoff {
			continue
		}
		offset, amplitude := common.ParabolicVertex(m.nsdf[tau-1], m.nsdf[tau], m.nsdf[tau+1])
		m.periods = append(m.periods, float64(tau)+offset)
		m.amplitudes = append(m.amplitudes, amplitude)
		highest = max(highest, amplitude)
	}

	if len(m.periods) == 0 {
		return Unvoiced, nil
	}

	threshold := m.cutoff * highest
	chosen := 0
	for i, amplitude := range m.amplitudes {
		if amplitude >= threshold {
			chosen = i
			break
		}
	}

	frequency := m.sampleRate / m.periods[chosen]
	if frequency < mpmLowerPitchCutoff {
		return Unvoiced, nil
	}

	return Estimate{
		Frequency:  frequency,
		Confidence: common.Clamp(m.amplitudes[chosen], 0, 1),
	}, nil
}

// normalizedSquareDifference fills nsdf with 2r(tau) / sum_j (x[j]² + x[j+tau]²)
func (m *MPM) normalizedSquareDifference(window []float64) {
	r := m.autocorr.Compute(window)
	n := len(window)

	energy := 2 * r[0]
	for tau := range n {
		if tau > 0 {
			energy -= window[tau-1]*window[tau-1] + window[n-tau]*window[n-tau]
		}
		if energy > 0 {
			m.nsdf[tau] = 2 * r[tau] / energy
		} else {
			m.nsdf[tau] = 0
		}
	}
}

// peakPicking records the highest maximum between each pair of positive
// going and negative going zero crossings, skipping the lobe around lag 0
func (m *MPM) peakPicking() {
	m.maxPositions = m.maxPositions[:0]
	n := len(m.nsdf)
	pos := 0
	current := 0

	for pos < (n-1)/3 && m.nsdf[pos] > 0 {
		pos++
	}
	for pos < n-1 && m.nsdf[pos] <= 0 {
		pos++
	}
	if pos == 0 {
		pos = 1
	}

	for pos < n-1 {
		if m.nsdf[pos] > m.nsdf[pos-1] && m.nsdf[pos] >= m.nsdf[pos+1] {
			if current == 0 || m.nsdf[pos] > m.nsdf[current] {
				current = pos
			}
		}
		pos++
		if pos < n-1 && m.nsdf[pos] <= 0 {
			if current > 0 {
				m.maxPositions = append(m.maxPositions, current)
				current = 0
			}
			for pos < n-1 && m.nsdf[pos] <= 0 {
				pos++
			}
		}
	}
	if current > 0 {
		m.maxPositions = append(m.maxPositions, current)
	}
}
