package evaluation

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrInvalidNote is returned for a negative tone or a non-positive duration
	ErrInvalidNote = errors.New("invalid note event")

	// ErrMalformedMelody is returned when an encoded melody cannot be decoded
	ErrMalformedMelody = errors.New("malformed melody")
)

// Rest is the tone of a silent note event
const Rest = 0

// NoteEvent is one transcribed or reference note. Tone is a MIDI-like key,
// Rest for silence; Duration is in quantized ticks (e.g. sixteenth notes).
type NoteEvent struct {
	Tone     int `json:"tone"`
	Duration int `json:"duration"`
}

// IsRest reports whether the event is a rest
func (n NoteEvent) IsRest() bool {
	return n.Tone == Rest
}

// Validate checks tone >= 0 and duration > 0
func (n NoteEvent) Validate() error {
	if n.Tone < 0 {
		return fmt.Errorf("%w: negative tone %d", ErrInvalidNote, n.Tone)
	}
	if n.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidNote, n.Duration)
	}
	return nil
}

func (n NoteEvent) String() string {
	return fmt.Sprintf("(%d,%d)", n.Tone, n.Duration)
}

// Melody is an ordered sequence of note events
type Melody []NoteEvent

// NewMelody builds a melody from flat tone, duration pairs
func NewMelody(pairs ...int) (Melody, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: %d values do not form tone/duration pairs", ErrMalformedMelody, len(pairs))
	}

	m := make(Melody, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m = append(m, NoteEvent{Tone: pairs[i], Duration: pairs[i+1]})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustMelody is NewMelody for literals known to be valid; it panics otherwise
func MustMelody(pairs ...int) Melody {
	m, err := NewMelody(pairs...)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMelody decodes the stored reference format: comma separated
// tone,duration pairs such as "60,2,62,2,0,4". Whitespace is ignored.
func ParseMelody(s string) (Melody, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Melody{}, nil
	}

	fields := strings.Split(s, ",")
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrMalformedMelody, i, err)
		}
		values[i] = v
	}
	return NewMelody(values...)
}

// Validate checks every event
func (m Melody) Validate() error {
	for i, n := range m {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("note %d: %w", i, err)
		}
	}
	return nil
}

// Clone returns an independent copy
func (m Melody) Clone() Melody {
	return slices.Clone(m)
}

// TotalDuration sums the durations of all events, rests included
func (m Melody) TotalDuration() int {
	total := 0
	for _, n := range m {
		total += n.Duration
	}
	return total
}

// String encodes the melody in the format read by ParseMelody
func (m Melody) String() string {
	var b strings.Builder
	for i, n := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n.Tone))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(n.Duration))
	}
	return b.String()
}

// MarshalText encodes the melody for JSON
func (m Melody) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a melody from its text form
func (m *Melody) UnmarshalText(text []byte) error {
	parsed, err := ParseMelody(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
