package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-eval/logging"
)

// worked example: one quarter note split into two wrong eighths
var (
	exampleReference  = MustMelody(60, 2, 62, 2, 64, 2, 62, 2, 60, 4, 0, 4)
	exampleHypothesis = MustMelody(60, 2, 62, 2, 64, 1, 52, 1, 62, 2, 60, 4, 0, 4)
)

func TestScoreWorkedExample(t *testing.T) {
	r := Score(exampleReference, exampleHypothesis)

	assert := assert.New(t)
	assert.Equal(6, r.ReferenceCount)
	assert.Equal(7, r.HypothesisCount)
	assert.Equal(5, r.HitsRef)
	assert.Equal(5, r.HitsHyp)
	assert.InDelta(5.0/6.0, r.Recall, 1e-9)
	assert.InDelta(5.0/7.0, r.Precision, 1e-9)
	assert.InDelta(76.923, r.FScorePercent, 1e-3)
	assert.InDelta(22.619, r.NoteErrorPercent, 1e-3)
	assert.InDelta(77.381, r.NoteRecognitionRate(), 1e-3)
}

func TestScoreIdentity(t *testing.T) {
	for _, m := range []Melody{
		MustMelody(60, 1),
		exampleReference,
		MustMelody(60, 2, 60, 2, 60, 2, 0, 1, 60, 2),
	} {
		r := Score(m, m.Clone())

		assert.Equal(t, len(m), r.HitsRef)
		assert.Equal(t, len(m), r.HitsHyp)
		assert.Equal(t, 1.0, r.Recall)
		assert.Equal(t, 1.0, r.Precision)
		assert.InDelta(t, 100.0, r.FScorePercent, 1e-9)
		assert.Equal(t, 0.0, r.NoteErrorPercent)
	}
}

func TestScoreLeavesInputsUntouchedAndIsRepeatable(t *testing.T) {
	ref := exampleReference.Clone()
	hyp := exampleHypothesis.Clone()

	first := Score(ref, hyp)
	second := Score(ref, hyp)

	assert.Equal(t, first, second)
	assert.Equal(t, exampleReference, ref)
	assert.Equal(t, exampleHypothesis, hyp)
}

func TestGreedyPassesConsumeMatches(t *testing.T) {
	ref := MustMelody(60, 2, 60, 2, 62, 1)
	hyp := MustMelody(60, 2, 62, 1, 62, 1)

	// each hypothesis note can satisfy at most one reference note
	assert.Equal(t, 2, CountReferenceHits(ref, hyp))
	assert.Equal(t, 2, CountHypothesisHits(ref, hyp))

	// duration matters as much as tone
	assert.Equal(t, 0, CountReferenceHits(MustMelody(60, 2), MustMelody(60, 4)))
}

func TestScoreDegenerateInputs(t *testing.T) {
	tests := []struct {
		name      string
		ref, hyp  Melody
		recall    float64
		precision float64
		fScore    float64
		noteError float64
	}{
		{"both empty", Melody{}, Melody{}, 1, 1, 100, 0},
		{"empty hypothesis", MustMelody(60, 2, 62, 2), Melody{}, 0, 1, 0, 50},
		{"empty reference", Melody{}, MustMelody(60, 2), 1, 0, 0, 50},
		{"no overlap", MustMelody(60, 2), MustMelody(61, 2), 0, 0, 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Score(tt.ref, tt.hyp)
			assert.Equal(t, tt.recall, r.Recall)
			assert.Equal(t, tt.precision, r.Precision)
			assert.InDelta(t, tt.fScore, r.FScorePercent, 1e-9)
			assert.InDelta(t, tt.noteError, r.NoteErrorPercent, 1e-9)
		})
	}
}

func TestScorerValidates(t *testing.T) {
	s := NewScorer(&logging.NoOpLogger{})

	r, err := s.Score(exampleReference, exampleHypothesis)
	require.NoError(t, err)
	assert.Equal(t, Score(exampleReference, exampleHypothesis), r)

	_, err = s.Score(Melody{{Tone: 60, Duration: 0}}, exampleHypothesis)
	assert.ErrorIs(t, err, ErrInvalidNote)

	_, err = s.Score(exampleReference, Melody{{Tone: -3, Duration: 1}})
	assert.ErrorIs(t, err, ErrInvalidNote)
}
