package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// render drives the transport without a real audio device, the way the
// device callback would.
func render(e *Engine, samples int) {
	buf := make([]float64, 512)
	for samples > 0 {
		n := len(buf)
		if samples < n {
			n = samples
		}
		e.renderInto(buf[:n])
		samples -= n
	}
}

// newReadyEngine stands in for a successful Initialize so transport
// tests run without an audio device.
func newReadyEngine(cb Callbacks) *Engine {
	e := NewEngine(cb)
	e.state = StateReady
	return e
}

// fast tempo keeps the rendered sample counts small
const testBpm = 6000.0

func TestPlayProgressionRejectsEmptyInput(t *testing.T) {
	e := newReadyEngine(Callbacks{})
	err := e.PlayProgression(nil, 120, false)
	assert.ErrorIs(t, err, ErrEmptyProgression)
}

func TestPlayProgressionRequiresInitializedEngine(t *testing.T) {
	e := NewEngine(Callbacks{})
	err := e.PlayProgression([]string{"C", "F"}, 120, false)

	assert := assert.New(t)
	assert.ErrorIs(err, ErrNotInitialized)
	assert.Equal(StateIdle, e.State())

	e.Stop()
	assert.Equal(StateIdle, e.State())
}

func TestStopIsIdempotent(t *testing.T) {
	e := NewEngine(Callbacks{})
	e.Stop()
	e.Stop()
	assert.Equal(t, StateIdle, e.State())
}

func TestChordObserverFiresInOrder(t *testing.T) {
	var indices []int
	completed := false
	e := newReadyEngine(Callbacks{
		OnChord:    func(i int) { indices = append(indices, i) },
		OnComplete: func() { completed = true },
	})

	err := e.PlayProgression([]string{"C", "F", "G"}, testBpm, false)
	assert.NoError(t, err)
	assert.Equal(t, StatePlaying, e.State())

	perChord := samplesPerMeasure(e.sampleRate, testBpm)
	render(e, perChord*4)

	assert := assert.New(t)
	assert.Equal([]int{0, 1, 2}, indices)
	assert.True(completed)
	assert.Nil(e.sess)
}

func TestLoopingSessionWrapsIndices(t *testing.T) {
	var indices []int
	e := newReadyEngine(Callbacks{
		OnChord: func(i int) { indices = append(indices, i) },
	})

	err := e.PlayProgression([]string{"C", "F"}, testBpm, true)
	assert.NoError(t, err)

	perChord := samplesPerMeasure(e.sampleRate, testBpm)
	render(e, perChord*5)

	assert.Equal(t, []int{0, 1, 0, 1, 0}, indices)
	assert.Equal(t, StatePlaying, e.State())

	e.Stop()
	assert.Equal(t, StateReady, e.State())
	e.Stop()
	assert.Equal(t, StateReady, e.State())
}

func TestPlayProgressionReplacesRunningSession(t *testing.T) {
	var indices []int
	e := newReadyEngine(Callbacks{
		OnChord: func(i int) { indices = append(indices, i) },
	})

	assert := assert.New(t)
	assert.NoError(e.PlayProgression([]string{"C", "F", "G", "Am"}, testBpm, false))
	perChord := samplesPerMeasure(e.sampleRate, testBpm)
	render(e, perChord)

	assert.NoError(e.PlayProgression([]string{"Dm", "G"}, testBpm, false))
	render(e, perChord*3)

	// the first session got through index 0 before being replaced
	assert.Equal([]int{0, 0, 1}, indices)
}

func TestPlayChordDoesNotTouchSession(t *testing.T) {
	e := newReadyEngine(Callbacks{})
	assert := assert.New(t)
	assert.NoError(e.PlayProgression([]string{"C", "F"}, testBpm, true))

	e.PlayChord("G7", 100*time.Millisecond, 4)
	assert.Equal(StatePlaying, e.State())
	assert.NotNil(e.sess)
}

func TestRenderProducesBoundedSamples(t *testing.T) {
	e := newReadyEngine(Callbacks{})
	e.SetVolume(0)
	assert.NoError(t, e.PlayProgression([]string{"C"}, testBpm, true))

	buf := make([]float64, 2048)
	e.renderInto(buf)

	var nonZero bool
	for _, s := range buf {
		if s < -1.0 || s > 1.0 {
			t.Fatalf("sample %v out of range", s)
		}
		if s != 0 {
			nonZero = true
		}
	}
	assert.True(t, nonZero)
}

func TestSetVolumeConvertsDecibels(t *testing.T) {
	e := NewEngine(Callbacks{})
	e.SetVolume(-6)
	assert.InDelta(t, 0.501, e.gain, 0.001)
	e.SetVolume(0)
	assert.InDelta(t, 1.0, e.gain, 1e-9)
}

func TestToggleLoopFlipsSessionFlag(t *testing.T) {
	e := newReadyEngine(Callbacks{})
	assert := assert.New(t)
	assert.NoError(e.PlayProgression([]string{"C", "F"}, testBpm, false))

	assert.True(e.ToggleLoop())
	assert.True(e.sess.loop)
	assert.False(e.ToggleLoop())
	assert.False(e.sess.loop)
}

func TestSetTempoRetimesRunningSession(t *testing.T) {
	e := newReadyEngine(Callbacks{})
	assert := assert.New(t)
	assert.NoError(e.PlayProgression([]string{"C", "F"}, 120, false))
	before := e.sess.samplesPerChord

	e.SetTempo(240)
	assert.Equal(before/2, e.sess.samplesPerChord)
	assert.LessOrEqual(e.sess.counter, e.sess.samplesPerChord)
}

func TestDisposeMakesEngineUnusable(t *testing.T) {
	e := NewEngine(Callbacks{})
	e.Dispose()
	assert := assert.New(t)
	assert.Equal(StateIdle, e.State())
	assert.ErrorIs(e.Initialize(), ErrPlaybackInit)
}
