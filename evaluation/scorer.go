package evaluation

import (
	"slices"

	"github.com/RyanBlaney/sonido-eval/logging"
)

// ScoreResult holds the accuracy of one transcription against its reference
type ScoreResult struct {
	ReferenceCount  int `json:"reference_count"`
	HypothesisCount int `json:"hypothesis_count"`

	// HitsRef counts reference notes found in the hypothesis,
	// HitsHyp hypothesis notes found in the reference. The two greedy
	// passes are independent and may disagree.
	HitsRef int `json:"hits_ref"`
	HitsHyp int `json:"hits_hyp"`

	Recall           float64 `json:"recall"`    // 0-1
	Precision        float64 `json:"precision"` // 0-1
	FScorePercent    float64 `json:"f_score_percent"`
	NoteErrorPercent float64 `json:"note_error_percent"`
}

// NoteRecognitionRate is 100 minus the note error
func (r ScoreResult) NoteRecognitionRate() float64 {
	return 100 - r.NoteErrorPercent
}

// CountReferenceHits walks the reference in order and, for each note, consumes
// the first identical (tone and duration) note still unconsumed in a private
// copy of the hypothesis.
func CountReferenceHits(reference, hypothesis Melody) int {
	return greedyHits(reference, hypothesis)
}

// CountHypothesisHits is CountReferenceHits with the roles swapped, starting
// again from unconsumed copies of both melodies.
func CountHypothesisHits(reference, hypothesis Melody) int {
	return greedyHits(hypothesis, reference)
}

// greedyHits matches each outer note against the first equal note left in a
// working copy of inner. A matched inner note is removed so it cannot match twice.
func greedyHits(outer, inner Melody) int {
	remaining := slices.Clone(inner)
	hits := 0
	for _, note := range outer {
		if j := slices.Index(remaining, note); j >= 0 {
			remaining = slices.Delete(remaining, j, j+1)
			hits++
		}
	}
	return hits
}

// Score compares hypothesis against reference. Neither input is modified.
//
// With a = HitsHyp, b = |hypothesis| - HitsHyp and c = |reference| - HitsRef:
//
//	recall    = a / (a + c)
//	precision = a / (a + b)
//	F         = 200 * recall * precision / (recall + precision)
//	noteError = 50 * ((|ref| - HitsRef)/|ref| + (|hyp| - HitsHyp)/|hyp|)
//
// Empty inputs: a ratio with a zero denominator is 1, F is 0 when recall and
// precision are both 0, and a note error term with a zero count contributes 0.
func Score(reference, hypothesis Melody) ScoreResult {
	refCount, hypCount := len(reference), len(hypothesis)
	hitsRef := CountReferenceHits(reference, hypothesis)
	hitsHyp := CountHypothesisHits(reference, hypothesis)

	a := float64(hitsHyp)
	b := float64(hypCount - hitsHyp)
	c := float64(refCount - hitsRef)

	recall := ratioOrOne(a, a+c)
	precision := ratioOrOne(a, a+b)

	fScore := 0.0
	if recall+precision > 0 {
		fScore = 200 * recall * precision / (recall + precision)
	}

	noteError := 50 * (missRate(refCount, hitsRef) + missRate(hypCount, hitsHyp))

	return ScoreResult{
		ReferenceCount:   refCount,
		HypothesisCount:  hypCount,
		HitsRef:          hitsRef,
		HitsHyp:          hitsHyp,
		Recall:           recall,
		Precision:        precision,
		FScorePercent:    fScore,
		NoteErrorPercent: noteError,
	}
}

func ratioOrOne(num, denom float64) float64 {
	if denom == 0 {
		return 1
	}
	return num / denom
}

func missRate(count, hits int) float64 {
	if count == 0 {
		return 0
	}
	return float64(count-hits) / float64(count)
}

// Scorer validates melodies before scoring and logs each result.
// It holds no per-call state and is safe for concurrent use.
type Scorer struct {
	logger logging.Logger
}

// NewScorer creates a scorer; a nil logger uses the global logger
func NewScorer(logger logging.Logger) *Scorer {
	return &Scorer{
		logger: logging.OrGlobal(logger).WithFields(logging.Fields{"component": "scorer"}),
	}
}

// Score validates both melodies and scores hypothesis against reference
func (s *Scorer) Score(reference, hypothesis Melody) (ScoreResult, error) {
	if err := reference.Validate(); err != nil {
		return ScoreResult{}, err
	}
	if err := hypothesis.Validate(); err != nil {
		return ScoreResult{}, err
	}

	result := Score(reference, hypothesis)

	s.logger.Debug("transcription scored", logging.Fields{
		"hits_ref":   result.HitsRef,
		"hits_hyp":   result.HitsHyp,
		"recall":     result.Recall,
		"precision":  result.Precision,
		"f_score":    result.FScorePercent,
		"note_error": result.NoteErrorPercent,
	})

	return result, nil
}
