package common

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgMaxPrefersFirstOnTies(t *testing.T) {
	idx, v := ArgMax([]float64{70, 92.5, 80, 92.5})
	assert.Equal(t, 1, idx)
	assert.Equal(t, 92.5, v)

	idx, v = ArgMax(nil)
	assert.Equal(t, -1, idx)
	assert.True(t, math.IsNaN(v))
}

func TestMeanAndLevels(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)

	assert.InDelta(t, 1.0, RMS([]float64{1, -1, 1, -1}), 1e-12)
	assert.InDelta(t, -6.0206, LevelDB([]float64{0.5, -0.5}), 1e-4)
	assert.Equal(t, SilenceDB, LevelDB(make([]float64, 8)))
}

func TestParabolicVertex(t *testing.T) {
	// y = (x - 0.25)^2 sampled at -1, 0, 1
	f := func(x float64) float64 { return (x - 0.25) * (x - 0.25) }
	offset, value := ParabolicVertex(f(-1), f(0), f(1))
	assert.InDelta(t, 0.25, offset, 1e-12)
	assert.InDelta(t, 0.0, value, 1e-12)

	offset, value = ParabolicVertex(1, 1, 1)
	assert.Equal(t, 0.0, offset)
	assert.Equal(t, 1.0, value)
}

func TestSlidingWindowOverlap(t *testing.T) {
	sw, err := NewSlidingWindow(4, 2)
	require.NoError(t, err)

	var frames [][]float64
	collect := func(frame []float64) error {
		frames = append(frames, append([]float64(nil), frame...))
		return nil
	}

	require.NoError(t, sw.Push([]float64{1, 2, 3}, collect))
	require.NoError(t, sw.Push([]float64{4, 5, 6, 7}, collect))

	assert.Equal(t, [][]float64{{1, 2, 3, 4}, {3, 4, 5, 6}}, frames)

	sw.Reset()
	frames = nil
	require.NoError(t, sw.Push([]float64{9, 9, 9, 9}, collect))
	assert.Equal(t, [][]float64{{9, 9, 9, 9}}, frames)
}

func TestSlidingWindowStopsOnEmitError(t *testing.T) {
	sw, err := NewSlidingWindow(2, 2)
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = sw.Push([]float64{1, 2, 3, 4}, func([]float64) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestSlidingWindowValidation(t *testing.T) {
	_, err := NewSlidingWindow(0, 1)
	assert.Error(t, err)
	_, err = NewSlidingWindow(4, 5)
	assert.Error(t, err)
	_, err = NewSlidingWindow(4, 0)
	assert.Error(t, err)
}
