// Package theory translates chord names into pitch data. Everything in
// here is pure and safe to call concurrently.
package theory

import (
	"math"
)

// PitchClass is one of the 12 pitch classes, C = 0. Sharps and flats
// alias to the same class.
type PitchClass int

type ChordQuality int

const (
	QualityMajor ChordQuality = iota
	QualityMinor
	QualityDominant7
	QualityMajor7
	QualityMinor7
	QualityDiminished
	QualityDiminished7
	QualityHalfDiminished7
	QualityAugmented
	QualitySus2
	QualitySus4
	QualitySixth
	QualityNinth
	QualityAdd9
	QualityThirteenth
	QualityMinorMajor7
	QualityMinor6
	QualityMinor9
	QualityMinorAdd9
	QualityMajor9
	QualityDominant7Sus4
)

// intervalStacks maps each quality to its ordered semitone offsets from
// the root. Root first, ascending.
var intervalStacks = map[ChordQuality][]int{
	QualityMajor:           {0, 4, 7},
	QualityMinor:           {0, 3, 7},
	QualityDominant7:       {0, 4, 7, 10},
	QualityMajor7:          {0, 4, 7, 11},
	QualityMinor7:          {0, 3, 7, 10},
	QualityDiminished:      {0, 3, 6},
	QualityDiminished7:     {0, 3, 6, 9},
	QualityHalfDiminished7: {0, 3, 6, 10},
	QualityAugmented:       {0, 4, 8},
	QualitySus2:            {0, 2, 7},
	QualitySus4:            {0, 5, 7},
	QualitySixth:           {0, 4, 7, 9},
	QualityNinth:           {0, 4, 7, 10, 14},
	QualityAdd9:            {0, 4, 7, 14},
	QualityThirteenth:      {0, 4, 7, 10, 14, 21},
	QualityMinorMajor7:     {0, 3, 7, 11},
	QualityMinor6:          {0, 3, 7, 9},
	QualityMinor9:          {0, 3, 7, 10, 14},
	QualityMinorAdd9:       {0, 3, 7, 14},
	QualityMajor9:          {0, 4, 7, 11, 14},
	QualityDominant7Sus4:   {0, 5, 7, 10},
}

// qualityFromSuffix maps the text after the root to a quality. This is
// the one place chord-name spelling is interpreted.
var qualityFromSuffix = map[string]ChordQuality{
	"":      QualityMajor,
	"maj":   QualityMajor,
	"m":     QualityMinor,
	"min":   QualityMinor,
	"7":     QualityDominant7,
	"maj7":  QualityMajor7,
	"m7":    QualityMinor7,
	"min7":  QualityMinor7,
	"dim":   QualityDiminished,
	"dim7":  QualityDiminished7,
	"m7b5":  QualityHalfDiminished7,
	"aug":   QualityAugmented,
	"sus2":  QualitySus2,
	"sus4":  QualitySus4,
	"6":     QualitySixth,
	"9":     QualityNinth,
	"add9":  QualityAdd9,
	"13":    QualityThirteenth,
	"mmaj7": QualityMinorMajor7,
	"m6":    QualityMinor6,
	"m9":    QualityMinor9,
	"madd9": QualityMinorAdd9,
	"maj9":  QualityMajor9,
	"7sus4": QualityDominant7Sus4,
}

var suffixFromQuality = func() map[ChordQuality]string {
	res := make(map[ChordQuality]string)
	for suffix, q := range qualityFromSuffix {
		// prefer the canonical spelling over aliases
		switch suffix {
		case "maj", "min", "min7":
			continue
		}
		res[q] = suffix
	}
	return res
}()

var naturalPitchClass = map[byte]PitchClass{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func NoteName(pc PitchClass) string {
	return noteNames[((int(pc)%12)+12)%12]
}

// parseRoot splits a chord name into its root pitch class and the
// remaining quality text.
func parseRoot(name string) (PitchClass, string, bool) {
	if len(name) == 0 {
		return 0, "", false
	}
	pc, ok := naturalPitchClass[name[0]]
	if !ok {
		return 0, "", false
	}
	rest := name[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case '#':
			pc = (pc + 1) % 12
			rest = rest[1:]
		case 'b':
			pc = (pc + 11) % 12
			rest = rest[1:]
		}
	}
	return pc, rest, true
}

// Parse splits a chord name into root and quality. Unparseable input
// resolves to C major; this is a recoverable decision, never an error.
func Parse(name string) (PitchClass, ChordQuality) {
	pc, rest, ok := parseRoot(name)
	if !ok {
		return 0, QualityMajor
	}
	quality, ok := qualityFromSuffix[rest]
	if !ok {
		return pc, QualityMajor
	}
	return pc, quality
}

// Intervals returns the interval stack for a quality. Always non-empty.
func Intervals(q ChordQuality) []int {
	stack, ok := intervalStacks[q]
	if !ok {
		return intervalStacks[QualityMajor]
	}
	return stack
}

// ToMidiNotes converts a chord name to MIDI note numbers at the given
// octave, root first in stack order. A name whose root cannot be parsed
// falls back to a middle-C major triad.
func ToMidiNotes(name string, octave int) []int {
	pc, rest, ok := parseRoot(name)

	base := 60
	quality := QualityMajor
	if ok {
		base = int(pc) + 12*octave
		if q, known := qualityFromSuffix[rest]; known {
			quality = q
		}
	}

	stack := Intervals(quality)
	notes := make([]int, 0, len(stack))
	for _, interval := range stack {
		notes = append(notes, base+interval)
	}
	return notes
}

// ToFrequency is the standard equal-tempered conversion, A4 = 440 Hz.
func ToFrequency(midiNote int) float64 {
	return 440.0 * math.Pow(2.0, float64(midiNote-69)/12.0)
}
