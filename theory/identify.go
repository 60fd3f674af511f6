package theory

import "sort"

// identifyOrder fixes which quality wins when stacks could be checked in
// map order. Triads first, then sevenths, then extensions.
var identifyOrder = []ChordQuality{
	QualityMajor, QualityMinor, QualityDiminished, QualityAugmented,
	QualitySus2, QualitySus4,
	QualityDominant7, QualityMajor7, QualityMinor7, QualityDiminished7,
	QualityHalfDiminished7, QualityMinorMajor7, QualityDominant7Sus4,
	QualitySixth, QualityMinor6,
	QualityNinth, QualityAdd9, QualityMinorAdd9, QualityMajor9,
	QualityMinor9, QualityThirteenth,
}

// Identify names the chord formed by a set of MIDI notes, taking the
// lowest note as the root. Returns false when the intervals match no
// known quality.
func Identify(notes []int) (string, bool) {
	if len(notes) == 0 {
		return "", false
	}

	sorted := make([]int, len(notes))
	copy(sorted, notes)
	sort.Ints(sorted)

	root := sorted[0]
	intervals := make([]int, len(sorted))
	for i, n := range sorted {
		intervals[i] = n - root
	}

	for _, q := range identifyOrder {
		stack := intervalStacks[q]
		if len(stack) != len(intervals) {
			continue
		}
		match := true
		for i := range stack {
			if stack[i] != intervals[i] {
				match = false
				break
			}
		}
		if match {
			return NoteName(PitchClass(root%12)) + suffixFromQuality[q], true
		}
	}
	return "", false
}
