package generate

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/model"
	"github.com/bufyyy/chordai/theory"
	"github.com/bufyyy/chordai/util"
	"github.com/bufyyy/chordai/vocab"
)

// Params are the user-selected knobs for one generation run.
type Params struct {
	Genre       string
	Mood        string
	Key         string
	ScaleType   string
	Length      int
	Temperature float64
	Octave      int
	Seed        []string
}

// Generator drives next-token prediction over a Backend. Safe for
// concurrent use: runs are serialized, so one progression's backend
// state and rng draws never interleave with another's.
type Generator struct {
	vocab   *vocab.Vocabulary
	backend Backend

	mu  sync.Mutex
	rng *rand.Rand
}

func New(v *vocab.Vocabulary, backend Backend) *Generator {
	return NewWithRand(v, backend, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewWithRand(v *vocab.Vocabulary, backend Backend, rng *rand.Rand) *Generator {
	return &Generator{vocab: v, backend: backend, rng: rng}
}

// Next runs a single inference step: encode, predict, suppress the
// previous chord, temperature-sample. done reports that the backend
// emitted a terminator (END, PAD or UNK).
func (g *Generator) Next(history []string, genre, mood, key, scaleType string, temperature float64) (chord string, done bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next(history, genre, mood, key, scaleType, temperature)
}

func (g *Generator) next(history []string, genre, mood, key, scaleType string, temperature float64) (chord string, done bool, err error) {
	in := g.vocab.BuildModelInput(history, genre, mood, key, scaleType)
	in.Temperature = temperature

	probs, err := g.backend.Predict(in)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(probs) != g.vocab.ChordCount() {
		return "", false, fmt.Errorf("%w: backend returned %v probabilities, want %v",
			ErrGenerationFailed, len(probs), g.vocab.ChordCount())
	}

	dist := make([]float64, len(probs))
	for i, p := range probs {
		if p < 0 {
			return "", false, fmt.Errorf("%w: negative probability at id %v", ErrGenerationFailed, i)
		}
		dist[i] = p
	}

	if len(history) > 0 {
		lastId := g.vocab.EncodeToken(vocab.NamespaceChord, history[len(history)-1])
		if !g.vocab.IsControl(lastId) {
			suppressRepeat(dist, lastId)
		}
	}

	id := sampleWithTemperature(dist, temperature, g.rng)
	switch id {
	case g.vocab.EndId(), g.vocab.PadId(), g.vocab.UnkId():
		return "", true, nil
	}

	name := g.vocab.DecodeId(vocab.NamespaceChord, id)
	if g.vocab.IsControl(id) {
		// a structural token that is not a terminator never reaches
		// callers; substitute the tonic triad
		pc, _ := theory.Parse(key)
		name = theory.NoteName(pc)
	}
	return name, false, nil
}

// Progression generates up to p.Length chords, feeding each accepted
// chord back as history. A terminator truncates early; whatever exists
// is returned. Backend errors return the partial progression alongside
// ErrGenerationFailed. The whole run holds the generator lock so a
// stateful backend sees one uninterrupted position sequence.
func (g *Generator) Progression(p Params) (model.Progression, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	length := util.Clamp(p.Length, 1, g.vocab.ContextLength())

	history := make([]string, 0, length)
	history = append(history, p.Seed...)
	if len(history) > length {
		history = history[:length]
	}

	for len(history) < length {
		chord, done, err := g.next(history, p.Genre, p.Mood, p.Key, p.ScaleType, p.Temperature)
		if err != nil {
			return g.finish(p, history), err
		}
		if done {
			break
		}
		history = append(history, chord)
	}
	return g.finish(p, history), nil
}

// Variation keeps the first two chords of an existing progression as a
// seed and regenerates the remainder, typically at a higher temperature.
func (g *Generator) Variation(existing model.Progression, temperature float64) (model.Progression, error) {
	seed := existing.Chords
	if len(seed) > 2 {
		seed = seed[:2]
	}
	return g.Progression(Params{
		Genre:       existing.Genre,
		Mood:        existing.Mood,
		Key:         existing.Key,
		ScaleType:   existing.ScaleType,
		Length:      len(existing.Chords),
		Temperature: temperature,
		Octave:      existing.Octave,
		Seed:        seed,
	})
}

func (g *Generator) finish(p Params, chords []string) model.Progression {
	octave := p.Octave
	if octave == 0 {
		octave = constants.DefaultOctave
	}
	return model.Progression{
		Id:        uuid.New().String(),
		Chords:    chords,
		Genre:     p.Genre,
		Mood:      p.Mood,
		Key:       p.Key,
		ScaleType: p.ScaleType,
		Octave:    octave,
		CreatedAt: time.Now(),
	}
}
