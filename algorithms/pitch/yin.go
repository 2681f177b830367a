package pitch

const (
	// DefaultYinThreshold is the proportion of aperiodic power tolerated in an accepted period
	DefaultYinThreshold = 0.20

	// DefaultWindowSize is the default analysis window in samples
	DefaultWindowSize = 1024
)

// Yin implements the YIN fundamental frequency estimator
//
// References:
// - de Cheveigné, A., Kawahara, H. (2002). "YIN, a fundamental frequency estimator for speech and music"
// - Brossier, P. (2006). "Automatic annotation of musical audio for interactive applications" (aubio)
//
// Steps 2 to 5 of the paper are implemented: difference function, cumulative
// mean normalization, absolute threshold and parabolic interpolation.
//
// The difference function is O(W²/4) for a window of W samples and dominates
// the cost; for live input one call must finish within the hop duration.
type Yin struct {
	sampleRate float64
	windowSize int
	threshold  float64

	// half the window; reused across calls
	buffer []float64
}

// NewYin creates a YIN estimator for windows of windowSize samples
func NewYin(sampleRate float64, windowSize int, threshold float64) (*Yin, error) {
	if err := validateStream(sampleRate, windowSize); err != nil {
		return nil, err
	}
	if err := validateUnitInterval("yin threshold", threshold); err != nil {
		return nil, err
	}

	return &Yin{
		sampleRate: sampleRate,
		windowSize: windowSize,
		threshold:  threshold,
		buffer:     make([]float64, windowSize/2),
	}, nil
}

func (y *Yin) Method() Method { return MethodYIN }

func (y *Yin) SampleRate() float64 { return y.sampleRate }

func (y *Yin) WindowSize() int { return y.windowSize }

// Threshold returns the absolute threshold used in step 4
func (y *Yin) Threshold() float64 { return y.threshold }

// Estimate returns the fundamental frequency of window, or Unvoiced
func (y *Yin) Estimate(window []float64) (Estimate, error) {
	if err := checkWindow(window, y.windowSize); err != nil {
		return Unvoiced, err
	}

	y.difference(window)
	y.cumulativeMeanNormalizedDifference()

	tau := y.absoluteThreshold()
	if tau < 0 {
		return Unvoiced, nil
	}

	confidence := 1 - y.buffer[tau]
	period := y.parabolicInterpolation(tau)

	return Estimate{
		Frequency:  y.sampleRate / period,
		Confidence: confidence,
	}, nil
}

// difference computes d(tau) = sum_j (x[j] - x[j+tau])² over the first half of the window
func (y *Yin) difference(window []float64) {
	n := len(y.buffer)
	y.buffer[0] = 0
	for tau := 1; tau < n; tau++ {
		sum := 0.0
		for j := range n {
			delta := window[j] - window[j+tau]
			sum += delta * delta
		}
		y.buffer[tau] = sum
	}
}

// cumulativeMeanNormalizedDifference replaces d(tau) by d(tau) * tau / sum_{1..tau} d
func (y *Yin) cumulativeMeanNormalizedDifference() {
	y.buffer[0] = 1
	runningSum := 0.0
	for tau := 1; tau < len(y.buffer); tau++ {
		runningSum += y.buffer[tau]
		if runningSum == 0 {
			// silent so far: no dip
			y.buffer[tau] = 1
			continue
		}
		y.buffer[tau] *= float64(tau) / runningSum
	}
}

// absoluteThreshold returns the first tau below the threshold, advanced to the
// bottom of its dip, or -1
func (y *Yin) absoluteThreshold() int {
	n := len(y.buffer)
	// values at 0 and 1 are 1 by construction
	for tau := 2; tau < n; tau++ {
		if y.buffer[tau] < y.threshold {
			for tau+1 < n && y.buffer[tau+1] < y.buffer[tau] {
				tau++
			}
			return tau
		}
	}
	return -1
}

// parabolicInterpolation refines tau using its neighbours. At the buffer edges
// the lower of the two available points is taken instead.
func (y *Yin) parabolicInterpolation(tau int) float64 {
	x0, x2 := tau-1, tau+1
	if tau < 1 {
		x0 = tau
	}
	if x2 >= len(y.buffer) {
		x2 = tau
	}

	switch {
	case x0 == tau && x2 == tau:
		return float64(tau)
	case x0 == tau:
		if y.buffer[tau] <= y.buffer[x2] {
			return float64(tau)
		}
		return float64(x2)
	case x2 == tau:
		if y.buffer[tau] <= y.buffer[x0] {
			return float64(tau)
		}
		return float64(x0)
	}

	s0, s1, s2 := y.buffer[x0], y.buffer[tau], y.buffer[x2]
	denom := 2 * (2*s1 - s2 - s0)
	if denom == 0 {
		return float64(tau)
	}
	return float64(tau) + (s2-s0)/denom
}
