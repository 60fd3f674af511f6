// Package audio drives real-time audition of progressions through a
// small oscillator synth.
package audio

import (
	"math"

	"github.com/bufyyy/chordai/util"
)

type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSaw
)

var waveformNames = map[string]Waveform{
	"sine":     WaveSine,
	"triangle": WaveTriangle,
	"square":   WaveSquare,
	"saw":      WaveSaw,
}

func WaveformByName(name string) (Waveform, bool) {
	w, ok := waveformNames[name]
	return w, ok
}

// Oscillator generates one waveform at a fixed frequency.
type Oscillator struct {
	Wave       Waveform
	Phase      float64
	Frequency  float64
	SampleRate float64
}

// Sample generates the next sample value (-1.0 to 1.0).
func (o *Oscillator) Sample() float64 {
	if o.Frequency <= 0 {
		return 0
	}

	o.Phase += o.Frequency / o.SampleRate
	if o.Phase >= 1.0 {
		o.Phase -= 1.0
	}

	switch o.Wave {
	case WaveTriangle:
		if o.Phase < 0.5 {
			return 4.0*o.Phase - 1.0
		}
		return 3.0 - 4.0*o.Phase
	case WaveSquare:
		if o.Phase < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveSaw:
		return 2.0*o.Phase - 1.0
	default:
		return math.Sin(2 * math.Pi * o.Phase)
	}
}

// voice sounds one chord: an oscillator per pitch under a linear
// attack/release envelope measured in samples.
type voice struct {
	oscs    []*Oscillator
	age     int
	length  int
	attack  int
	release int
}

func newVoice(freqs []float64, wave Waveform, sampleRate int, length int) *voice {
	v := voice{
		length:  length,
		attack:  util.Min(sampleRate*5/1000, length/2),
		release: util.Min(sampleRate*50/1000, length/2),
	}
	for _, f := range freqs {
		v.oscs = append(v.oscs, &Oscillator{
			Wave:       wave,
			Frequency:  f,
			SampleRate: float64(sampleRate),
		})
	}
	return &v
}

func (v *voice) done() bool {
	return v.age >= v.length
}

func (v *voice) sample() float64 {
	if v.done() || len(v.oscs) == 0 {
		return 0
	}

	env := 1.0
	if v.attack > 0 && v.age < v.attack {
		env = float64(v.age) / float64(v.attack)
	} else if remaining := v.length - v.age; v.release > 0 && remaining < v.release {
		env = float64(remaining) / float64(v.release)
	}
	v.age++

	var sum float64
	for _, o := range v.oscs {
		sum += o.Sample()
	}
	return env * sum / math.Sqrt(float64(len(v.oscs)))
}
