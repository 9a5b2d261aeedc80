package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ReferencePitchHz is the tuning of A4 (MIDI note 69).
const ReferencePitchHz = 440.0

// ErrInvalidNote is returned for note names that cannot be parsed.
var ErrInvalidNote = errors.New("invalid note name")

var pitchClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseNote converts scientific pitch notation ("C4", "F#3", "Bb-1") to a
// MIDI note number, where C4 is 60.
func ParseNote(name string) (int, error) {
	s := strings.TrimSpace(name)
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	class, ok := pitchClasses[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	rest := s[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			class++
		} else {
			class--
		}
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, name)
	}

	return (octave+1)*12 + class, nil
}

// MIDIToFreq converts a MIDI note number to Hz in 12-tone equal temperament.
func MIDIToFreq(note float64) float64 {
	return ReferencePitchHz * math.Pow(2, (note-69)/12)
}

// NoteToFreq parses a note name and returns its frequency in Hz.
func NoteToFreq(name string) (float64, error) {
	note, err := ParseNote(name)
	if err != nil {
		return 0, err
	}

	return MIDIToFreq(float64(note)), nil
}
