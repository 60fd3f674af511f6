// Package midifile serializes progressions into standard format-0 MIDI
// files. It writes the bytes by hand and needs no live audio context.
package midifile

import (
	"bytes"
	"encoding/binary"
	"os"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/theory"
)

const wholeNoteTicks = 4 * constants.TicksPerQuarter

// EncodeVarLen encodes a value as a MIDI variable-length quantity:
// 7 bits per byte, continuation bit on all but the last byte,
// most-significant byte first.
func EncodeVarLen(value uint32) []byte {
	res := []byte{byte(value & 0x7F)}
	value >>= 7
	for value > 0 {
		res = append([]byte{byte(value&0x7F) | 0x80}, res...)
		value >>= 7
	}
	return res
}

func writeHeaderChunk(buf *bytes.Buffer) {
	buf.WriteString("MThd")
	binary.Write(buf, binary.BigEndian, uint32(6))
	binary.Write(buf, binary.BigEndian, uint16(0)) // format 0
	binary.Write(buf, binary.BigEndian, uint16(1)) // one track
	binary.Write(buf, binary.BigEndian, uint16(constants.TicksPerQuarter))
}

func writeTempoEvent(buf *bytes.Buffer, bpm int) {
	if bpm <= 0 {
		bpm = constants.DefaultTempoBPM
	}
	usPerQuarter := uint32(60_000_000 / bpm)
	buf.Write(EncodeVarLen(0))
	buf.Write([]byte{0xFF, 0x51, 0x03})
	buf.Write([]byte{
		byte(usPerQuarter >> 16),
		byte(usPerQuarter >> 8),
		byte(usPerQuarter),
	})
}

func clampNote(n int) byte {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return byte(n)
}

// writeChordEvents emits simultaneous note-ons for every pitch of the
// chord, then note-offs one whole note later.
func writeChordEvents(buf *bytes.Buffer, chordName string, octave int) {
	notes := theory.ToMidiNotes(chordName, octave)

	for _, n := range notes {
		buf.Write(EncodeVarLen(0))
		buf.Write([]byte{0x90, clampNote(n), constants.NoteVelocity})
	}
	for i, n := range notes {
		if i == 0 {
			buf.Write(EncodeVarLen(wholeNoteTicks))
		} else {
			buf.Write(EncodeVarLen(0))
		}
		buf.Write([]byte{0x80, clampNote(n), 0x00})
	}
}

// BuildFile produces the complete file: 14-byte header chunk, then one
// track chunk holding the tempo event, every chord at one whole note
// apiece, and the end-of-track event. An empty chord list yields a
// minimal valid file.
func BuildFile(chords []string, octave int, bpm int) []byte {
	track := new(bytes.Buffer)
	writeTempoEvent(track, bpm)
	for _, chord := range chords {
		writeChordEvents(track, chord, octave)
	}
	// end of track
	track.Write(EncodeVarLen(0))
	track.Write([]byte{0xFF, 0x2F, 0x00})

	out := new(bytes.Buffer)
	writeHeaderChunk(out)
	out.WriteString("MTrk")
	binary.Write(out, binary.BigEndian, uint32(track.Len()))
	out.Write(track.Bytes())
	return out.Bytes()
}

// WriteFile serializes a progression straight to disk.
func WriteFile(path string, chords []string, octave int, bpm int) error {
	return os.WriteFile(path, BuildFile(chords, octave, bpm), 0644)
}
