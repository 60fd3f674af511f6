package generate

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufyyy/chordai/theory"
	"github.com/bufyyy/chordai/vocab"
)

func loadTestVocab(t *testing.T) *vocab.Vocabulary {
	t.Helper()
	v, err := vocab.Load("../dataset")
	if err != nil {
		t.Fatalf("could not load dataset vocabulary: %v", err)
	}
	return v
}

func TestTransposeNumeral(t *testing.T) {
	cases := []struct {
		numeral string
		key     string
		scale   string
		want    string
	}{
		{"I", "C", "major", "C"},
		{"V", "C", "major", "G"},
		{"vi", "C", "major", "Am"},
		{"IV", "C", "major", "F"},
		{"bVII", "C", "major", "A#"},
		{"ii7", "C", "major", "Dm7"},
		{"Imaj7", "C", "major", "Cmaj7"},
		{"V7", "G", "major", "D7"},
		{"I", "F#", "major", "F#"},
		{"i", "A", "minor", "Am"},
		{"VII", "A", "minor", "G"},
		{"VI", "A", "minor", "F"},
		{"iv", "A", "minor", "Dm"},
	}
	for _, c := range cases {
		keyPc, _ := theory.Parse(c.key)
		got := transposeNumeral(c.numeral, keyPc, c.scale)
		assert.Equal(t, c.want, got, "numeral %v in %v %v", c.numeral, c.key, c.scale)
	}
}

func TestPatternBackendLowTemperatureFollowsAxisProgression(t *testing.T) {
	v := loadTestVocab(t)
	rng := rand.New(rand.NewSource(1))
	g := NewWithRand(v, NewPatternBackend(v, rng), rng)

	prog, err := g.Progression(Params{
		Genre: "pop", Mood: "uplifting", Key: "C", ScaleType: "major",
		Length: 4, Temperature: 0.1,
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"C", "G", "Am", "F"}, prog.Chords)
}

func TestPatternBackendTransposesToRequestedKey(t *testing.T) {
	v := loadTestVocab(t)
	rng := rand.New(rand.NewSource(1))
	g := NewWithRand(v, NewPatternBackend(v, rng), rng)

	prog, err := g.Progression(Params{
		Genre: "pop", Mood: "uplifting", Key: "G", ScaleType: "major",
		Length: 4, Temperature: 0.1,
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"G", "D", "Em", "C"}, prog.Chords)
}

func TestConcurrentProgressionsKeepTheirOwnTemplate(t *testing.T) {
	v := loadTestVocab(t)
	rng := rand.New(rand.NewSource(7))
	g := NewWithRand(v, NewPatternBackend(v, rng), rng)

	// one shared generator, the way the HTTP server holds it
	want := map[string][]string{
		"C": {"C", "G", "Am", "F"},
		"G": {"G", "D", "Em", "C"},
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		key := "C"
		if i%2 == 1 {
			key = "G"
		}
		wg.Add(1)
		go func(key string) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				prog, err := g.Progression(Params{
					Genre: "pop", Mood: "uplifting", Key: key, ScaleType: "major",
					Length: 4, Temperature: 0.1,
				})
				assert.NoError(t, err)
				assert.Equal(t, want[key], prog.Chords)
			}
		}(key)
	}
	wg.Wait()
}

func TestPatternBackendDistributionIsValid(t *testing.T) {
	v := loadTestVocab(t)
	b := NewPatternBackend(v, rand.New(rand.NewSource(2)))

	in := v.BuildModelInput(nil, "jazz", "smooth", "C", "major")
	in.Temperature = 0.2
	probs, err := b.Predict(in)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(v.ChordCount(), len(probs))

	var sum float64
	for _, p := range probs {
		assert.GreaterOrEqual(p, 0.0)
		sum += p
	}
	assert.InDelta(1.0, sum, 1e-9)
}

func TestPatternBackendUnknownGenreFallsBackToPop(t *testing.T) {
	got := templatesFor("vaporwave", "major")
	assert.Equal(t, patternLibrary["pop"]["major"], got)
}

func TestPatternBackendCyclesTemplateBeyondItsLength(t *testing.T) {
	v := loadTestVocab(t)
	rng := rand.New(rand.NewSource(1))
	g := NewWithRand(v, NewPatternBackend(v, rng), rng)

	prog, err := g.Progression(Params{
		Genre: "jazz", Mood: "smooth", Key: "C", ScaleType: "major",
		Length: 6, Temperature: 0.1,
	})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(6, len(prog.Chords))
	// ii-V-I wraps around
	assert.Equal([]string{"Dm7", "G7", "Cmaj7", "Dm7", "G7", "Cmaj7"}, prog.Chords)
}
