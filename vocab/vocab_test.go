package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bufyyy/chordai/constants"
)

func loadTestVocab(t *testing.T) *Vocabulary {
	t.Helper()
	v, err := Load("../dataset")
	if err != nil {
		t.Fatalf("could not load dataset vocabulary: %v", err)
	}
	return v
}

func TestLoadValidatesControlTokens(t *testing.T) {
	v := loadTestVocab(t)

	assert := assert.New(t)
	assert.Equal(0, v.PadId())
	assert.Equal(1, v.StartId())
	assert.Equal(2, v.EndId())
	assert.Equal(3, v.UnkId())
	assert.True(v.IsControl(v.StartId()))
	assert.False(v.IsControl(v.EncodeToken(NamespaceChord, "C")))
}

func TestLoadRejectsMalformedVocab(t *testing.T) {
	_, err := Load("testdata/bad")
	assert.Error(t, err)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadRejectsMissingDir(t *testing.T) {
	_, err := Load("testdata/does-not-exist")
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoaderResolvesOnce(t *testing.T) {
	l := NewLoader("../dataset")
	v1, err1 := l.Vocabulary()
	v2, err2 := l.Vocabulary()

	assert := assert.New(t)
	assert.NoError(err1)
	assert.NoError(err2)
	assert.Same(v1, v2)
}

func TestEncodeDecodeRoundTripsEveryToken(t *testing.T) {
	v := loadTestVocab(t)

	namespaces := []Namespace{NamespaceChord, NamespaceGenre, NamespaceMood, NamespaceKey, NamespaceScaleType}
	for _, ns := range namespaces {
		for _, token := range v.Tokens(ns) {
			id := v.EncodeToken(ns, token)
			if got := v.DecodeId(ns, id); got != token {
				t.Errorf("namespace %v: %q -> %v -> %q", ns, token, id, got)
			}
		}
	}
}

func TestEncodeUnknownTokenNeverFails(t *testing.T) {
	v := loadTestVocab(t)

	assert := assert.New(t)
	assert.Equal(v.UnkId(), v.EncodeToken(NamespaceChord, "Zsuper13"))
	assert.Equal(0, v.EncodeToken(NamespaceGenre, "vaporwave"))
	assert.Equal(UnkToken, v.DecodeId(NamespaceChord, 99999))
	assert.Equal(UnkToken, v.DecodeId(NamespaceChord, -1))
}

func TestBuildModelInputFixedShape(t *testing.T) {
	v := loadTestVocab(t)

	histories := [][]string{
		nil,
		{"C"},
		{"C", "G", "Am", "F"},
		{"C", "G", "Am", "F", "C", "G", "Am", "F", "C", "G", "Am", "F", "C", "G"},
	}
	for _, history := range histories {
		in := v.BuildModelInput(history, "pop", "uplifting", "C", "major")
		if len(in.ChordIds) != constants.MaxSequenceLength {
			t.Fatalf("history length %v: input has %v ids", len(history), len(in.ChordIds))
		}
		if in.Position < 0 || in.Position >= constants.MaxSequenceLength {
			t.Fatalf("history length %v: position %v out of range", len(history), in.Position)
		}
	}
}

func TestBuildModelInputLayout(t *testing.T) {
	v := loadTestVocab(t)
	in := v.BuildModelInput([]string{"C", "G"}, "pop", "uplifting", "C", "major")

	assert := assert.New(t)
	assert.Equal(v.StartId(), in.ChordIds[0])
	assert.Equal(v.EncodeToken(NamespaceChord, "C"), in.ChordIds[1])
	assert.Equal(v.EncodeToken(NamespaceChord, "G"), in.ChordIds[2])
	assert.Equal(2, in.Position)
	for i := 3; i < len(in.ChordIds); i++ {
		assert.Equal(v.PadId(), in.ChordIds[i])
	}
}

func TestBuildModelInputKeepsMostRecentHistory(t *testing.T) {
	long := []string{"C", "G", "Am", "F", "C", "G", "Am", "F", "C", "G", "Am", "F", "Dm", "E"}
	v := loadTestVocab(t)
	in := v.BuildModelInput(long, "pop", "uplifting", "C", "major")

	assert := assert.New(t)
	assert.Equal(constants.MaxSequenceLength-1, in.Position)
	assert.Equal(v.EncodeToken(NamespaceChord, "E"), in.ChordIds[in.Position])
	assert.Equal(v.EncodeToken(NamespaceChord, "Dm"), in.ChordIds[in.Position-1])
}
