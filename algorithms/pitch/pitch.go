package pitch

import (
	"math"
	"strconv"
)

// Pitch is an immutable frequency that can be read back in any Unit.
// New and FromHertz only produce pitches with a positive, finite frequency;
// the zero value is invalid and its naming helpers return ErrInvalidFrequency.
type Pitch struct {
	hz float64
}

// New creates a Pitch from a value in the given unit. RelativeCents is
// rejected because it does not identify an octave.
func New(unit Unit, value float64) (Pitch, error) {
	hz, err := FromUnit(unit, value)
	if err != nil {
		return Pitch{}, err
	}
	return FromHertz(hz)
}

// FromHertz creates a Pitch from a frequency in Hz
func FromHertz(hz float64) (Pitch, error) {
	if err := validFrequency(hz); err != nil {
		return Pitch{}, err
	}
	return Pitch{hz: hz}, nil
}

// Hertz returns the frequency in Hz
func (p Pitch) Hertz() float64 {
	return p.hz
}

// In returns the pitch expressed in unit
func (p Pitch) In(unit Unit) (float64, error) {
	return ToUnit(p.hz, unit)
}

// OctaveIndex returns the octave the pitch falls into, based on its MIDI key
func (p Pitch) OctaveIndex() (int, error) {
	return OctaveIndex(p.hz)
}

// NoteName returns a name like "C3", "A4" or "A#3"
func (p Pitch) NoteName() (string, error) {
	return NoteName(p.hz)
}

// IsWesternMusicalPitch reports whether the pitch is less than 15 cents removed
// from its equal-tempered key
func (p Pitch) IsWesternMusicalPitch() (bool, error) {
	return IsWesternMusicalPitch(p.hz)
}

// IdealFrequency returns the equal-tempered frequency of the pitch's MIDI key
func (p Pitch) IdealFrequency() (float64, error) {
	key, err := midiKeyOf(p.hz)
	if err != nil {
		return 0, err
	}
	return midiCentToHertz(float64(key)), nil
}

// CentsOffset returns how far the pitch sits above its MIDI key, in cents
func (p Pitch) CentsOffset() (float64, error) {
	key, err := midiKeyOf(p.hz)
	if err != nil {
		return 0, err
	}
	return (hertzToMidiCent(p.hz) - float64(key)) * centsPerSemitone, nil
}

// NoteBounds returns the half-open range [low, high) of frequencies that share
// the pitch's note name
func (p Pitch) NoteBounds() (low, high float64, err error) {
	key, err := midiKeyOf(p.hz)
	if err != nil {
		return 0, 0, err
	}
	// keys truncate toward zero, so below C-1 the band sits under the key
	// and key 0 spans two semitones
	lowKey, highKey := key, key+1
	switch {
	case key < 0:
		lowKey, highKey = key-1, key
	case key == 0:
		lowKey = -1
	}
	return midiCentToHertz(float64(lowKey)), midiCentToHertz(float64(highKey)), nil
}

// Transpose returns the pitch shifted by the given number of semitones
func (p Pitch) Transpose(semitones int) Pitch {
	return Pitch{hz: p.hz * math.Exp2(float64(semitones)/keysPerOctave)}
}

func (p Pitch) String() string {
	return strconv.FormatFloat(p.hz, 'f', -1, 64)
}
