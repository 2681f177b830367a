package evaluation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMelody(t *testing.T) {
	m, err := ParseMelody(" 60, 2,62,2 , 0,4")
	require.NoError(t, err)

	assert.Equal(t, Melody{{60, 2}, {62, 2}, {Rest, 4}}, m)
	assert.True(t, m[2].IsRest())
	assert.Equal(t, 8, m.TotalDuration())
	assert.Equal(t, "60,2,62,2,0,4", m.String())

	empty, err := ParseMelody("  ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseMelodyErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"60,2,62", ErrMalformedMelody},
		{"60,x", ErrMalformedMelody},
		{"60,0", ErrInvalidNote},
		{"-1,2", ErrInvalidNote},
	}

	for _, tt := range tests {
		_, err := ParseMelody(tt.in)
		assert.ErrorIs(t, err, tt.want, tt.in)
	}
}

func TestMelodyJSON(t *testing.T) {
	type doc struct {
		Reference Melody `json:"reference"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"reference":"64,1,0,3"}`), &d))
	assert.Equal(t, MustMelody(64, 1, 0, 3), d.Reference)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"reference":"64,1,0,3"}`, string(out))
}

func TestCloneIsIndependent(t *testing.T) {
	m := MustMelody(60, 2)
	c := m.Clone()
	c[0].Tone = 61

	assert.Equal(t, 60, m[0].Tone)
	assert.Panics(t, func() { MustMelody(60) })
}
