package pitch

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, sampleRate float64, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
	}
	return out
}

func TestYinDetectsSineFrequency(t *testing.T) {
	const sampleRate = 44100.0

	tests := []struct {
		freq       float64
		windowSize int
	}{
		{110, 2048},
		{220, 2048},
		{440, 1024},
		{440, 2048},
		{987.77, 1024},
	}

	for _, tt := range tests {
		yin, err := NewYin(sampleRate, tt.windowSize, DefaultYinThreshold)
		require.NoError(t, err)

		est, err := yin.Estimate(sine(tt.freq, sampleRate, tt.windowSize, 0.8))
		require.NoError(t, err)

		assert.True(t, est.Voiced(), "%v Hz", tt.freq)
		assert.InEpsilon(t, tt.freq, est.Frequency, 0.02, "%v Hz in %d samples", tt.freq, tt.windowSize)
		assert.Greater(t, est.Confidence, 0.5)
		assert.LessOrEqual(t, est.Confidence, 1.0)
	}
}

func TestYinSilenceIsUnvoiced(t *testing.T) {
	yin, err := NewYin(44100, 1024, DefaultYinThreshold)
	require.NoError(t, err)

	est, err := yin.Estimate(make([]float64, 1024))
	require.NoError(t, err)
	assert.Equal(t, Unvoiced, est)
	assert.False(t, est.Voiced())

	_, ok := est.Pitch()
	assert.False(t, ok)
}

func TestYinReusesBufferBetweenCalls(t *testing.T) {
	yin, err := NewYin(44100, 2048, DefaultYinThreshold)
	require.NoError(t, err)

	a4 := sine(440, 44100, 2048, 0.5)
	first, err := yin.Estimate(a4)
	require.NoError(t, err)

	_, err = yin.Estimate(sine(196, 44100, 2048, 0.5))
	require.NoError(t, err)

	again, err := yin.Estimate(a4)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestYinRejectsWrongWindowLength(t *testing.T) {
	yin, err := NewYin(44100, 1024, DefaultYinThreshold)
	require.NoError(t, err)

	_, err = yin.Estimate(make([]float64, 512))
	assert.ErrorIs(t, err, ErrWindowSize)
}

func TestYinConfigurationErrors(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		windowSize int
		threshold  float64
	}{
		{"window too short", 44100, 1, 0.2},
		{"zero window", 44100, 0, 0.2},
		{"zero threshold", 44100, 1024, 0},
		{"threshold one", 44100, 1024, 1},
		{"negative threshold", 44100, 1024, -0.1},
		{"zero sample rate", 0, 1024, 0.2},
		{"NaN sample rate", math.NaN(), 1024, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYin(tt.sampleRate, tt.windowSize, tt.threshold)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestYinTinyWindowFindsNothing(t *testing.T) {
	yin, err := NewYin(8000, 4, DefaultYinThreshold)
	require.NoError(t, err)

	est, err := yin.Estimate([]float64{1, -1, 1, -1})
	require.NoError(t, err)
	assert.Equal(t, Unvoiced, est)
}

func TestNewEstimatorSelectsByMethod(t *testing.T) {
	params := DefaultEstimatorParams(44100, 2048)

	est, err := NewEstimator(params)
	require.NoError(t, err)
	assert.Equal(t, MethodYIN, est.Method())
	assert.IsType(t, &Yin{}, est)

	params.Method = MethodMPM
	est, err = NewEstimator(params)
	require.NoError(t, err)
	assert.Equal(t, MethodMPM, est.Method())
	assert.Equal(t, 2048, est.WindowSize())
	assert.Equal(t, 44100.0, est.SampleRate())

	params.Method = Method(9)
	_, err = NewEstimator(params)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" YIN ")
	require.NoError(t, err)
	assert.Equal(t, MethodYIN, m)

	var decoded Method
	require.NoError(t, decoded.UnmarshalText([]byte("mpm")))
	assert.Equal(t, MethodMPM, decoded)

	text, err := MethodMPM.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mpm", string(text))

	_, err = ParseMethod("autocorrelation")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func BenchmarkYin2048(b *testing.B) {
	yin, err := NewYin(44100, 2048, DefaultYinThreshold)
	require.NoError(b, err)
	window := sine(440, 44100, 2048, 0.5)

	b.ResetTimer()
	for range b.N {
		_, _ = yin.Estimate(window)
	}
}
