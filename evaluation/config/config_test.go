package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-eval/algorithms/pitch"
	"github.com/RyanBlaney/sonido-eval/evaluation"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Sweep.Trials(), 15)
}

func TestTrialsOrder(t *testing.T) {
	s := SweepConfig{
		Methods:         []pitch.Method{pitch.MethodYIN, pitch.MethodMPM},
		WindowSizes:     []int{512, 1024},
		OverlapPercents: []int{0, 50},
	}

	trials := s.Trials()
	require.Len(t, trials, 8)
	assert.Equal(t, evaluation.TrialParams{Method: "yin", WindowSize: 512, OverlapPercent: 0}, trials[0])
	assert.Equal(t, evaluation.TrialParams{Method: "yin", WindowSize: 512, OverlapPercent: 50}, trials[1])
	assert.Equal(t, evaluation.TrialParams{Method: "yin", WindowSize: 1024, OverlapPercent: 0}, trials[2])
	assert.Equal(t, evaluation.TrialParams{Method: "mpm", WindowSize: 1024, OverlapPercent: 50}, trials[7])
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(`{
		"log_level": "debug",
		"estimator": {"method": "mpm", "threshold": 0.9, "sample_rate": 22050},
		"sweep": {"window_sizes": [2048]}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, pitch.MethodMPM, cfg.Estimator.Method)
	assert.Equal(t, 22050.0, cfg.Estimator.SampleRate)
	assert.Equal(t, pitch.DefaultWindowSize, cfg.Estimator.WindowSize)
	assert.Equal(t, []int{2048}, cfg.Sweep.WindowSizes)
	assert.Equal(t, []int{0, 10, 25, 50, 75}, cfg.Sweep.OverlapPercents)
}

func TestLoadEmptyInputGivesDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"unknown field", `{"estimator": {"hop": 3}}`},
		{"unknown method", `{"estimator": {"method": "zcr"}}`},
		{"threshold", `{"estimator": {"threshold": 1.5}}`},
		{"overlap", `{"estimator": {"overlap_percent": 100}}`},
		{"positive level", `{"estimator": {"min_level_db": 3}}`},
		{"empty sweep", `{"sweep": {"methods": []}}`},
		{"sweep window", `{"sweep": {"window_sizes": [1]}}`},
		{"syntax", `{"estimator":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.json))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestTrackerConfigBuildsTracker(t *testing.T) {
	cfg := DefaultEstimatorConfig()
	cfg.OverlapPercent = 50

	tracker, err := pitch.NewTracker(cfg.TrackerConfig(nil))
	require.NoError(t, err)
	assert.Equal(t, pitch.MethodYIN, tracker.Estimator().Method())
	assert.Equal(t, 512, tracker.Hop())

	mpm, err := cfg.WithTrial(evaluation.TrialParams{Method: "mpm", WindowSize: 2048, OverlapPercent: 25})
	require.NoError(t, err)
	assert.Equal(t, pitch.DefaultMPMCutoff, mpm.Threshold)

	tc := mpm.TrackerConfig(nil)
	assert.Equal(t, pitch.DefaultMPMCutoff, tc.Estimator.Cutoff)
	assert.Equal(t, pitch.DefaultYinThreshold, tc.Estimator.Threshold)

	tracker, err = pitch.NewTracker(tc)
	require.NoError(t, err)
	assert.Equal(t, 1536, tracker.Hop())

	_, err = cfg.WithTrial(evaluation.TrialParams{Method: "zcr", WindowSize: 1024})
	assert.ErrorIs(t, err, ErrInvalid)
}
