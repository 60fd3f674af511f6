package generate

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/bufyyy/chordai/model"
	"github.com/bufyyy/chordai/theory"
	"github.com/bufyyy/chordai/util"
	"github.com/bufyyy/chordai/vocab"
)

type patternTemplate struct {
	numerals []string
	mood     string
}

// patternLibrary holds hand-authored Roman-numeral progressions keyed by
// genre and scale type, most common first. Sources are the classic
// progressions of each genre (axis, 50s, 12-bar blues, ii-V-I, ...).
var patternLibrary = map[string]map[string][]patternTemplate{
	"pop": {
		"major": {
			{[]string{"I", "V", "vi", "IV"}, "uplifting"},
			{[]string{"I", "vi", "IV", "V"}, "nostalgic"},
			{[]string{"vi", "IV", "I", "V"}, "melancholic"},
			{[]string{"I", "IV", "V", "I"}, "happy"},
			{[]string{"I", "iii", "IV", "V"}, "bright"},
		},
	},
	"rock": {
		"major": {
			{[]string{"I", "IV", "V"}, "energetic"},
			{[]string{"I", "bVII", "IV"}, "powerful"},
			{[]string{"I", "bVII", "bVI", "bVII"}, "dark"},
		},
		"minor": {
			{[]string{"i", "VII", "VI", "V"}, "dramatic"},
		},
	},
	"blues": {
		"major": {
			{[]string{"I7", "I7", "I7", "I7", "IV7", "IV7", "I7", "I7", "V7", "IV7", "I7", "V7"}, "gritty"},
			{[]string{"I7", "IV7", "I7", "V7"}, "groovy"},
			{[]string{"I7", "IV7", "I7", "I7"}, "simple"},
		},
	},
	"jazz": {
		"major": {
			{[]string{"ii7", "V7", "Imaj7"}, "smooth"},
			{[]string{"Imaj7", "vi7", "ii7", "V7"}, "sophisticated"},
			{[]string{"Imaj7", "VI7", "ii7", "V7"}, "soulful"},
			{[]string{"ii7", "V7", "I7", "IVmaj7"}, "groovy"},
		},
	},
	"classical": {
		"minor": {
			{[]string{"i", "VI", "VII", "i"}, "dramatic"},
			{[]string{"i", "iv", "V", "i"}, "tense"},
			{[]string{"i", "III", "VII", "VI"}, "epic"},
			{[]string{"i", "v", "VI", "III"}, "mysterious"},
		},
	},
	"rnb": {
		"major": {
			{[]string{"Imaj7", "IVmaj7", "ii7", "V7"}, "smooth"},
			{[]string{"vi7", "ii7", "V7", "Imaj7"}, "soulful"},
		},
	},
	"edm": {
		"minor": {
			{[]string{"i", "VII", "VI", "V"}, "driving"},
		},
		"major": {
			{[]string{"I", "vi", "V", "IV"}, "euphoric"},
		},
	},
	"progressive": {
		"major": {
			{[]string{"I", "V", "vi", "iii", "IV", "I", "IV", "V"}, "epic"},
		},
	},
}

var degreeOffsets = map[string][]int{
	"major": {0, 2, 4, 5, 7, 9, 11},
	"minor": {0, 2, 3, 5, 7, 8, 10},
}

var numeralDegrees = []struct {
	numeral string
	degree  int
}{
	{"VII", 7}, {"VI", 6}, {"IV", 4}, {"V", 5}, {"III", 3}, {"II", 2}, {"I", 1},
}

// transposeNumeral turns one Roman numeral into a concrete chord name in
// the given key. Lowercase numerals are minor; a leading b lowers the
// degree by a semitone.
func transposeNumeral(numeral string, keyPc theory.PitchClass, scaleType string) string {
	flat := 0
	rest := numeral
	if strings.HasPrefix(rest, "b") {
		flat = -1
		rest = rest[1:]
	}

	degree := 1
	minor := false
	for _, nd := range numeralDegrees {
		if strings.HasPrefix(strings.ToUpper(rest), nd.numeral) {
			degree = nd.degree
			minor = strings.HasPrefix(rest, strings.ToLower(nd.numeral))
			rest = rest[len(nd.numeral):]
			break
		}
	}

	offsets, ok := degreeOffsets[scaleType]
	if !ok {
		offsets = degreeOffsets["major"]
	}
	pc := (int(keyPc) + offsets[degree-1] + flat + 12) % 12

	suffix := rest
	if minor {
		if suffix == "" {
			suffix = "m"
		} else {
			suffix = "m" + suffix
		}
	}
	return theory.NoteName(theory.PitchClass(pc)) + suffix
}

// PatternBackend is the deterministic fallback used when no trained
// model is reachable. It satisfies the same contract as the model path.
type PatternBackend struct {
	vocab *vocab.Vocabulary
	rng   *rand.Rand

	mu         sync.Mutex
	current    []string
	lastPos    int
	lastParams [4]int
}

func NewPatternBackend(v *vocab.Vocabulary, rng *rand.Rand) *PatternBackend {
	return &PatternBackend{vocab: v, rng: rng, lastPos: -1}
}

func templatesFor(genre, scaleType string) []patternTemplate {
	byScale, ok := patternLibrary[genre]
	if !ok {
		byScale = patternLibrary["pop"]
	}
	if ts, ok := byScale[scaleType]; ok {
		return ts
	}
	for _, scale := range util.GetKeys(byScale) {
		return byScale[scale]
	}
	return patternLibrary["pop"]["major"]
}

// selectTemplate picks a template, temperature-gated: low temperature
// takes the most common one, high temperature any of them, in between
// one of the first two. Templates matching the requested mood are
// preferred when any exist.
func (b *PatternBackend) selectTemplate(genre, mood, scaleType string, temperature float64) []string {
	candidates := templatesFor(genre, scaleType)

	var matching []patternTemplate
	for _, t := range candidates {
		if t.mood == mood {
			matching = append(matching, t)
		}
	}
	if len(matching) > 0 {
		candidates = matching
	}

	switch {
	case temperature <= 0.5:
		return candidates[0].numerals
	case temperature >= 1.5:
		return candidates[b.rng.Intn(len(candidates))].numerals
	default:
		n := util.Min(2, len(candidates))
		return candidates[b.rng.Intn(n)].numerals
	}
}

func (b *PatternBackend) chordId(name string) int {
	id := b.vocab.EncodeToken(vocab.NamespaceChord, name)
	if !b.vocab.IsControl(id) {
		return id
	}
	// quality not in the vocabulary, retry with the bare triad
	pc, quality := theory.Parse(name)
	triad := theory.NoteName(pc)
	if theory.Intervals(quality)[1] == 3 {
		triad += "m"
	}
	return b.vocab.EncodeToken(vocab.NamespaceChord, triad)
}

func (b *PatternBackend) Predict(in model.ModelInput) ([]float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	histLen := in.Position
	params := [4]int{in.GenreId, in.MoodId, in.KeyId, in.ScaleTypeId}

	// A rewound position or changed parameters mean a new progression
	// started, so the template is rolled again.
	if b.current == nil || histLen <= b.lastPos || params != b.lastParams {
		genre := b.vocab.DecodeId(vocab.NamespaceGenre, in.GenreId)
		mood := b.vocab.DecodeId(vocab.NamespaceMood, in.MoodId)
		key := b.vocab.DecodeId(vocab.NamespaceKey, in.KeyId)
		scaleType := b.vocab.DecodeId(vocab.NamespaceScaleType, in.ScaleTypeId)

		keyPc, _ := theory.Parse(key)
		numerals := b.selectTemplate(genre, mood, scaleType, in.Temperature)
		b.current = make([]string, len(numerals))
		for i, numeral := range numerals {
			b.current[i] = transposeNumeral(numeral, keyPc, scaleType)
		}
		b.lastParams = params
	}
	b.lastPos = histLen

	name := b.current[histLen%len(b.current)]
	probs := make([]float64, b.vocab.ChordCount())
	probs[b.chordId(name)] = 1
	return probs, nil
}
