package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/theory"
	"github.com/bufyyy/chordai/util"
)

type State int

const (
	StateIdle State = iota
	StateInitializing
	StateReady
	StatePlaying
)

var (
	// ErrEmptyProgression means playback was requested with no chords.
	ErrEmptyProgression = errors.New("progression is empty")

	// ErrPlaybackInit means the audio device could not be started.
	ErrPlaybackInit = errors.New("audio playback init failed")

	// ErrNotInitialized means scheduled playback was requested before
	// Initialize opened the device.
	ErrNotInitialized = errors.New("engine not initialized")
)

// Callbacks observe scheduled playback. They run on the render
// goroutine; do not call back into the Engine from them.
type Callbacks struct {
	OnChord    func(index int)
	OnComplete func()
}

// session is the transient playback state. It is owned exclusively by
// the Engine and advanced only by its render step; at most one session
// is active at a time.
type session struct {
	freqs           [][]float64
	index           int
	loop            bool
	samplesPerChord int
	counter         int
}

// Engine schedules one chord per measure against a transport clock and
// renders it through the oscillator synth.
type Engine struct {
	mu         sync.Mutex
	state      State
	sampleRate int
	wave       Waveform
	gain       float64
	octave     int
	loop       bool
	callbacks  Callbacks
	voices     []*voice
	sess       *session
	disposed   bool

	otoCtx    *oto.Context
	otoPlayer *oto.Player
}

func NewEngine(cb Callbacks) *Engine {
	return &Engine{
		state:      StateIdle,
		sampleRate: 44100,
		wave:       WaveSine,
		gain:       1.0,
		octave:     constants.DefaultOctave,
		callbacks:  cb,
	}
}

// Initialize opens the audio device. One-time and idempotent; it blocks
// until the device reports ready.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return fmt.Errorf("%w: engine disposed", ErrPlaybackInit)
	}
	if e.state != StateIdle {
		e.mu.Unlock()
		return nil
	}
	e.state = StateInitializing
	e.mu.Unlock()

	op := &oto.NewContextOptions{
		SampleRate:   e.sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrPlaybackInit, err)
	}
	<-ready

	e.mu.Lock()
	e.otoCtx = ctx
	e.otoPlayer = ctx.NewPlayer(&engineStream{e: e})
	e.otoPlayer.SetBufferSize(e.sampleRate / 10)
	e.otoPlayer.Play()
	e.state = StateReady
	e.mu.Unlock()
	return nil
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// PlayChord triggers an immediate one-shot sound. It does not touch any
// running session.
func (e *Engine) PlayChord(chordName string, duration time.Duration, octave int) {
	freqs := chordFrequencies(chordName, octave)

	e.mu.Lock()
	defer e.mu.Unlock()
	length := int(duration.Seconds() * float64(e.sampleRate))
	if length <= 0 {
		length = e.sampleRate / 2
	}
	e.voices = append(e.voices, newVoice(freqs, e.wave, e.sampleRate, length))
}

// PlayProgression stops any running session and schedules one chord per
// measure at the given tempo. The engine must be initialized first.
func (e *Engine) PlayProgression(chords []string, tempoBpm float64, loop bool) error {
	if len(chords) == 0 {
		return ErrEmptyProgression
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateReady && e.state != StatePlaying {
		return ErrNotInitialized
	}

	freqs := make([][]float64, len(chords))
	for i, chord := range chords {
		freqs[i] = chordFrequencies(chord, e.octave)
	}

	e.stopLocked()
	e.sess = &session{
		freqs:           freqs,
		loop:            loop || e.loop,
		samplesPerChord: samplesPerMeasure(e.sampleRate, tempoBpm),
	}
	e.state = StatePlaying
	return nil
}

// Stop cancels all pending scheduled events. Safe to call repeatedly or
// when nothing is playing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.sess = nil
	e.voices = nil
	if e.state == StatePlaying {
		e.state = StateReady
	}
}

func (e *Engine) SetTempo(bpm float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess != nil {
		e.sess.samplesPerChord = samplesPerMeasure(e.sampleRate, bpm)
		e.sess.counter = util.Min(e.sess.counter, e.sess.samplesPerChord)
	}
}

// SetVolume takes decibels relative to full scale, e.g. -6 for half
// power.
func (e *Engine) SetVolume(db float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gain = math.Pow(10, db/20)
}

// SetInstrument switches the synth waveform. Allowed while playing;
// already-sounding voices keep their waveform.
func (e *Engine) SetInstrument(w Waveform) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wave = w
}

func (e *Engine) SetOctave(octave int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.octave = octave
}

func (e *Engine) ToggleLoop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = !e.loop
	if e.sess != nil {
		e.sess.loop = e.loop
	}
	return e.loop
}

// Dispose stops playback and releases the audio device. The engine is
// unusable afterwards.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	if e.otoPlayer != nil {
		e.otoPlayer.Close()
		e.otoPlayer = nil
	}
	e.state = StateIdle
	e.disposed = true
}

// renderInto advances the transport clock sample by sample and mixes
// all sounding voices.
func (e *Engine) renderInto(buf []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range buf {
		if e.sess != nil {
			if e.sess.counter <= 0 {
				e.stepLocked()
			}
			if e.sess != nil {
				e.sess.counter--
			}
		}

		var sample float64
		alive := e.voices[:0]
		for _, v := range e.voices {
			sample += v.sample()
			if !v.done() {
				alive = append(alive, v)
			}
		}
		e.voices = alive

		buf[i] = clip(sample * e.gain)
	}
}

// stepLocked fires the next scheduled chord, or finishes the session
// when a non-looping run is past its last chord.
func (e *Engine) stepLocked() {
	s := e.sess
	if s.index >= len(s.freqs) {
		if s.loop {
			s.index = 0
		} else {
			e.stopLocked()
			if e.callbacks.OnComplete != nil {
				e.callbacks.OnComplete()
			}
			return
		}
	}

	sustain := s.samplesPerChord * 9 / 10
	e.voices = append(e.voices, newVoice(s.freqs[s.index], e.wave, e.sampleRate, sustain))
	if e.callbacks.OnChord != nil {
		e.callbacks.OnChord(s.index)
	}
	s.index++
	s.counter = s.samplesPerChord
}

func chordFrequencies(chordName string, octave int) []float64 {
	notes := theory.ToMidiNotes(chordName, octave)
	freqs := make([]float64, len(notes))
	for i, n := range notes {
		freqs[i] = theory.ToFrequency(n)
	}
	return freqs
}

// one chord per 4/4 measure
func samplesPerMeasure(sampleRate int, bpm float64) int {
	if bpm <= 0 {
		bpm = constants.DefaultTempoBPM
	}
	return int(float64(sampleRate) * 60.0 / bpm * 4.0)
}

func clip(s float64) float64 {
	if s > 1.0 {
		return 1.0
	}
	if s < -1.0 {
		return -1.0
	}
	return s
}

// engineStream adapts the engine to the device's pull model.
type engineStream struct {
	e   *Engine
	buf []float64
}

func (s *engineStream) Read(buf []byte) (int, error) {
	samples := len(buf) / 2
	if samples > len(s.buf) {
		s.buf = make([]float64, samples)
	}

	s.e.renderInto(s.buf[:samples])

	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(s.buf[i]*32767)))
	}
	return samples * 2, nil
}
