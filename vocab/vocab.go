// Package vocab owns the token<->id tables for all namespaces and builds
// the fixed-shape numeric input the prediction backend expects.
package vocab

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/model"
	"github.com/bufyyy/chordai/util"
)

type Namespace string

const (
	NamespaceChord     Namespace = "chord"
	NamespaceGenre     Namespace = "genre"
	NamespaceMood      Namespace = "mood"
	NamespaceKey       Namespace = "key"
	NamespaceScaleType Namespace = "scale_type"
)

// Control tokens of the chord namespace, spelled as the training
// pipeline wrote them into chord_vocab.json.
const (
	PadToken   = "<PAD>"
	StartToken = "<START>"
	EndToken   = "<END>"
	UnkToken   = "<UNK>"
)

// LoadError means the vocabulary source was missing or malformed.
// Generation cannot proceed without a vocabulary.
type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("vocabulary load failed for %v: %v", e.Path, e.Reason)
}

type chordVocabFile struct {
	VocabSize     int               `json:"vocab_size"`
	ChordToId     map[string]int    `json:"chord_to_id"`
	IdToChord     map[string]string `json:"id_to_chord"`
	SpecialTokens map[string]string `json:"special_tokens"`
}

type metadataVocabFile struct {
	GenreVocab     map[string]int `json:"genre_vocab"`
	MoodVocab      map[string]int `json:"mood_vocab"`
	KeyVocab       map[string]int `json:"key_vocab"`
	ScaleTypeVocab map[string]int `json:"scale_type_vocab"`
}

type table struct {
	toId      map[string]int
	toToken   map[int]string
	defaultId int
	unknown   string
}

// Vocabulary is immutable once built and safe to share across consumers.
type Vocabulary struct {
	tables     map[Namespace]*table
	contextLen int
	padId      int
	startId    int
	endId      int
	unkId      int
}

func newTable(toId map[string]int, defaultId int, unknown string) (*table, error) {
	if len(toId) == 0 {
		return nil, fmt.Errorf("empty namespace")
	}
	t := table{
		toId:      toId,
		toToken:   make(map[int]string, len(toId)),
		defaultId: defaultId,
		unknown:   unknown,
	}
	for token, id := range toId {
		if existing, ok := t.toToken[id]; ok {
			return nil, fmt.Errorf("id %v maps to both %q and %q", id, existing, token)
		}
		t.toToken[id] = token
	}
	return &t, nil
}

// FromTables builds a Vocabulary from raw token->id maps. The chord map
// must contain all four control tokens.
func FromTables(chords, genres, moods, keys, scales map[string]int) (*Vocabulary, error) {
	for _, ctl := range []string{PadToken, StartToken, EndToken, UnkToken} {
		if _, ok := chords[ctl]; !ok {
			return nil, fmt.Errorf("chord namespace missing control token %v", ctl)
		}
	}

	v := Vocabulary{
		tables:     make(map[Namespace]*table),
		contextLen: constants.MaxSequenceLength,
		padId:      chords[PadToken],
		startId:    chords[StartToken],
		endId:      chords[EndToken],
		unkId:      chords[UnkToken],
	}

	raw := map[Namespace]map[string]int{
		NamespaceChord:     chords,
		NamespaceGenre:     genres,
		NamespaceMood:      moods,
		NamespaceKey:       keys,
		NamespaceScaleType: scales,
	}
	for ns, m := range raw {
		defaultId := 0
		unknown := UnkToken
		if ns == NamespaceChord {
			defaultId = v.unkId
		}
		t, err := newTable(m, defaultId, unknown)
		if err != nil {
			return nil, fmt.Errorf("namespace %v: %w", ns, err)
		}
		v.tables[ns] = t
	}
	return &v, nil
}

// Load reads chord_vocab.json and metadata_vocab.json from dir.
func Load(dir string) (*Vocabulary, error) {
	chordPath := filepath.Join(dir, "chord_vocab.json")
	var cf chordVocabFile
	if err := util.ReadJSON(chordPath, &cf); err != nil {
		return nil, &LoadError{Path: chordPath, Reason: err.Error()}
	}
	if cf.VocabSize != 0 && cf.VocabSize != len(cf.ChordToId) {
		reason := fmt.Sprintf("vocab_size %v does not match %v chords", cf.VocabSize, len(cf.ChordToId))
		return nil, &LoadError{Path: chordPath, Reason: reason}
	}

	metaPath := filepath.Join(dir, "metadata_vocab.json")
	var mf metadataVocabFile
	if err := util.ReadJSON(metaPath, &mf); err != nil {
		return nil, &LoadError{Path: metaPath, Reason: err.Error()}
	}

	v, err := FromTables(cf.ChordToId, mf.GenreVocab, mf.MoodVocab, mf.KeyVocab, mf.ScaleTypeVocab)
	if err != nil {
		return nil, &LoadError{Path: dir, Reason: err.Error()}
	}
	return v, nil
}

// Loader resolves the vocabulary exactly once; all callers share the
// same result without re-reading the source.
type Loader struct {
	dir  string
	once sync.Once
	v    *Vocabulary
	err  error
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

func (l *Loader) Vocabulary() (*Vocabulary, error) {
	l.once.Do(func() {
		l.v, l.err = Load(l.dir)
	})
	return l.v, l.err
}

// EncodeToken maps a token to its id, or the namespace default for
// unmapped tokens. It never fails.
func (v *Vocabulary) EncodeToken(ns Namespace, token string) int {
	t, ok := v.tables[ns]
	if !ok {
		return 0
	}
	if id, ok := t.toId[token]; ok {
		return id
	}
	return t.defaultId
}

// DecodeId is the inverse; out-of-range ids decode to the unknown
// sentinel token.
func (v *Vocabulary) DecodeId(ns Namespace, id int) string {
	t, ok := v.tables[ns]
	if !ok {
		return UnkToken
	}
	if token, ok := t.toToken[id]; ok {
		return token
	}
	return t.unknown
}

func (v *Vocabulary) ChordCount() int {
	return len(v.tables[NamespaceChord].toId)
}

func (v *Vocabulary) ContextLength() int { return v.contextLen }
func (v *Vocabulary) PadId() int         { return v.padId }
func (v *Vocabulary) StartId() int       { return v.startId }
func (v *Vocabulary) EndId() int         { return v.endId }
func (v *Vocabulary) UnkId() int         { return v.unkId }

// IsControl reports whether a chord-namespace id is one of the four
// structural tokens rather than a playable chord.
func (v *Vocabulary) IsControl(id int) bool {
	return id == v.padId || id == v.startId || id == v.endId || id == v.unkId
}

// Tokens returns every token of a namespace in id order, skipping the
// chord control tokens.
func (v *Vocabulary) Tokens(ns Namespace) []string {
	t, ok := v.tables[ns]
	if !ok {
		return nil
	}
	var res []string
	for _, id := range util.GetKeys(t.toToken) {
		if ns == NamespaceChord && v.IsControl(id) {
			continue
		}
		res = append(res, t.toToken[id])
	}
	return res
}

// BuildModelInput encodes the generation state into the fixed-shape
// input: START followed by the history chord ids, padded with PAD up to
// the context length. Histories longer than the context keep their most
// recent chords. Position is the index of the last filled slot.
func (v *Vocabulary) BuildModelInput(history []string, genre, mood, key, scaleType string) model.ModelInput {
	seq := make([]int, 0, len(history)+1)
	seq = append(seq, v.startId)
	for _, chord := range history {
		seq = append(seq, v.EncodeToken(NamespaceChord, chord))
	}
	if len(seq) > v.contextLen {
		seq = seq[len(seq)-v.contextLen:]
	}

	pos := len(seq) - 1
	ids := make([]int, v.contextLen)
	for i := range ids {
		if i < len(seq) {
			ids[i] = seq[i]
		} else {
			ids[i] = v.padId
		}
	}

	return model.ModelInput{
		ChordIds:    ids,
		Position:    pos,
		GenreId:     v.EncodeToken(NamespaceGenre, genre),
		MoodId:      v.EncodeToken(NamespaceMood, mood),
		KeyId:       v.EncodeToken(NamespaceKey, key),
		ScaleTypeId: v.EncodeToken(NamespaceScaleType, scaleType),
	}
}
