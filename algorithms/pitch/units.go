package pitch

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidUnit is returned for unknown unit tags and for RelativeCents used as a source unit
	ErrInvalidUnit = errors.New("invalid pitch unit")

	// ErrInvalidFrequency is returned when a non-positive or non-finite frequency reaches a conversion
	ErrInvalidFrequency = errors.New("invalid frequency")
)

// Unit identifies a pitch representation
type Unit int

const (
	Hertz Unit = iota
	AbsoluteCents
	// RelativeCents is the position within the octave, [0, 1200). It carries
	// no octave information so it can only be a conversion target.
	RelativeCents
	// MidiKey is the equal-tempered key, truncated toward zero
	MidiKey
	// MidiCent is the fractional MIDI key
	MidiCent
)

const (
	// ReferenceFrequency is the tuning of A4
	ReferenceFrequency = 440.0
	// ReferenceMidiKey is the MIDI key of A4
	ReferenceMidiKey = 69

	centsPerSemitone = 100.0
	centsPerOctave   = 1200.0
	keysPerOctave    = 12

	keySnap = 1e-9
)

// midiZeroFrequency is the frequency of MIDI key 0 (C-1), the zero of the absolute cent scale
var midiZeroFrequency = ReferenceFrequency * math.Exp2(-ReferenceMidiKey/12.0)

func (u Unit) String() string {
	switch u {
	case Hertz:
		return "hertz"
	case AbsoluteCents:
		return "absolute_cents"
	case RelativeCents:
		return "relative_cents"
	case MidiKey:
		return "midi_key"
	case MidiCent:
		return "midi_cent"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ParseUnit maps a unit name as produced by String back to a Unit
func ParseUnit(name string) (Unit, error) {
	switch name {
	case "hertz", "hz":
		return Hertz, nil
	case "absolute_cents", "cents":
		return AbsoluteCents, nil
	case "relative_cents":
		return RelativeCents, nil
	case "midi_key", "midi":
		return MidiKey, nil
	case "midi_cent":
		return MidiCent, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, name)
	}
}

// ToUnit converts a frequency in Hz to the requested unit.
// Callers must reject hz <= 0 first; the logarithmic units are undefined there.
func ToUnit(hz float64, unit Unit) (float64, error) {
	switch unit {
	case Hertz:
		return hz, nil
	case AbsoluteCents:
		return hertzToAbsoluteCents(hz), nil
	case RelativeCents:
		return hertzToRelativeCents(hz), nil
	case MidiKey:
		return truncateKey(hertzToMidiCent(hz)), nil
	case MidiCent:
		return hertzToMidiCent(hz), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
	}
}

// truncateKey truncates a fractional MIDI key toward zero. Values within
// keySnap of an integer snap to it first so that exact equal-tempered
// frequencies do not fall to the key below through rounding error in Log2.
func truncateKey(midiCent float64) float64 {
	if nearest := math.Round(midiCent); math.Abs(midiCent-nearest) < keySnap {
		return nearest
	}
	return math.Trunc(midiCent)
}

// FromUnit converts a value in the given unit to Hz. MidiKey values are
// truncated to an integer key first. RelativeCents always fails, as does a
// Hertz value that is not positive and finite.
func FromUnit(unit Unit, value float64) (float64, error) {
	switch unit {
	case Hertz:
		if err := validFrequency(value); err != nil {
			return 0, err
		}
		return value, nil
	case AbsoluteCents:
		return midiZeroFrequency * math.Exp2(value/centsPerOctave), nil
	case RelativeCents:
		return 0, fmt.Errorf("%w: relative cents have no octave, cannot derive a frequency", ErrInvalidUnit)
	case MidiKey:
		return midiCentToHertz(math.Trunc(value)), nil
	case MidiCent:
		return midiCentToHertz(value), nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidUnit, unit)
	}
}

func hertzToMidiCent(hz float64) float64 {
	return ReferenceMidiKey + keysPerOctave*math.Log2(hz/ReferenceFrequency)
}

func midiCentToHertz(midiCent float64) float64 {
	return ReferenceFrequency * math.Exp2((midiCent-ReferenceMidiKey)/keysPerOctave)
}

func hertzToAbsoluteCents(hz float64) float64 {
	return centsPerOctave * math.Log2(hz/midiZeroFrequency)
}

func hertzToRelativeCents(hz float64) float64 {
	cents := math.Mod(hertzToAbsoluteCents(hz), centsPerOctave)
	if cents < 0 {
		cents += centsPerOctave
	}
	return cents
}

// sharp spelling only
var noteNames = [keysPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func validFrequency(hz float64) error {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, hz)
	}
	return nil
}

// midiKeyOf returns the truncated MIDI key of a valid frequency
func midiKeyOf(hz float64) (int, error) {
	if err := validFrequency(hz); err != nil {
		return 0, err
	}
	key := truncateKey(hertzToMidiCent(hz))
	if key > math.MaxInt32 || key < math.MinInt32 {
		return 0, fmt.Errorf("%w: MIDI key %v out of range", ErrInvalidFrequency, key)
	}
	return int(key), nil
}

// OctaveIndex returns the octave of hz: keys 0-11 are octave -1, 60-71 octave 4.
// Integer division truncates toward zero, matching the truncated key.
func OctaveIndex(hz float64) (int, error) {
	key, err := midiKeyOf(hz)
	if err != nil {
		return 0, err
	}
	return key/keysPerOctave - 1, nil
}

// NoteName returns the sharp-spelled note name with octave, e.g. "A4" or "C#3"
func NoteName(hz float64) (string, error) {
	key, err := midiKeyOf(hz)
	if err != nil {
		return "", err
	}
	return noteNameOfKey(key), nil
}

func noteNameOfKey(key int) string {
	index := key % keysPerOctave
	if index < 0 {
		index += keysPerOctave
	}
	return fmt.Sprintf("%s%d", noteNames[index], key/keysPerOctave-1)
}

// IsWesternMusicalPitch reports whether hz lies less than 15 cents above an
// equal-tempered semitone (A4 = 440 Hz).
func IsWesternMusicalPitch(hz float64) (bool, error) {
	if err := validFrequency(hz); err != nil {
		return false, err
	}
	midiCent := hertzToMidiCent(hz)
	return math.Abs(midiCent-truncateKey(midiCent)) < 0.15, nil
}
