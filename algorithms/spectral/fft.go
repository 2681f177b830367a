package spectral

import (
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-eval/algorithms/common"
)

// Autocorrelation computes r(tau) = sum_j x[j]*x[j+tau] for tau in [0, len(x))
// through the power spectrum (Wiener-Khinchin). The signal is zero padded to at
// least twice its length so the circular correlation equals the linear one.
type Autocorrelation struct {
	padded []float64
	power  []complex128
	result []float64
}

// NewAutocorrelation creates a calculator with buffers sized for windows of size samples
func NewAutocorrelation(size int) *Autocorrelation {
	n := common.NextPowerOfTwo(2 * size)
	return &Autocorrelation{
		padded: make([]float64, n),
		power:  make([]complex128, n),
		result: make([]float64, size),
	}
}

// Compute returns the autocorrelation of x. The returned slice is owned by the
// calculator and overwritten by the next call.
func (a *Autocorrelation) Compute(x []float64) []float64 {
	if len(x) == 0 {
		return a.result[:0]
	}
	if n := common.NextPowerOfTwo(2 * len(x)); n != len(a.padded) {
		a.padded = make([]float64, n)
		a.power = make([]complex128, n)
	}
	if len(a.result) != len(x) {
		a.result = make([]float64, len(x))
	}

	clear(a.padded)
	copy(a.padded, x)

	// mjibson/go-dsp handles all sizes; powers of two take the radix-2 path
	spectrum := fft.FFTReal(a.padded)
	for i, c := range spectrum {
		re, im := real(c), imag(c)
		a.power[i] = complex(re*re+im*im, 0)
	}

	inverse := fft.IFFT(a.power)
	for i := range a.result {
		a.result[i] = real(inverse[i])
	}
	return a.result
}
