package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic numeric helpers shared by the estimators and the evaluation code, using gonum

// SilenceDB is reported as the level of an all-zero signal
const SilenceDB = -math.MaxFloat64

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// ArgMax returns the index and value of the largest element.
// Ties resolve to the first occurrence. Returns -1 for an empty slice.
func ArgMax(data []float64) (int, float64) {
	if len(data) == 0 {
		return -1, math.NaN()
	}
	idx := floats.MaxIdx(data)
	return idx, data[idx]
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Sqrt(floats.Dot(data, data) / float64(len(data)))
}

// LevelDB returns the RMS level of data in dB relative to full scale (1.0)
func LevelDB(data []float64) float64 {
	rms := RMS(data)
	if rms == 0 {
		return SilenceDB
	}
	return 20 * math.Log10(rms)
}

// ParabolicVertex fits a parabola through (-1,y0), (0,y1), (1,y2) and returns
// the vertex offset from the middle point and the value at the vertex.
// A degenerate (flat or collinear) triple yields offset 0 and y1.
func ParabolicVertex(y0, y1, y2 float64) (offset, value float64) {
	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return 0, y1
	}
	offset = (y0 - y2) / (2 * denom)
	value = y1 - 0.25*(y0-y2)*offset
	return offset, value
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NextPowerOfTwo finds the next power of 2 >= n
func NextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}
