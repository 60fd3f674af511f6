package cmd

import (
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/assets"
	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/generate"
	"github.com/bufyyy/chordai/vocab"
)

var rootCmd = &cobra.Command{
	Use:   "chordai",
	Short: "AI chord progression generator",
	Long:  `Generates chord progressions from genre/mood/key parameters, plays them back and exports them to MIDI.`,
}

func Execute() {
	godotenv.Load()
	cobra.CheckErr(rootCmd.Execute())
}

// vocabLoader is created lazily: the vocab dir comes from the
// environment, which is only settled once Execute has loaded .env.
var vocabLoader *vocab.Loader

// loadVocabulary resolves the vocabulary dir, pulling it from the asset
// bucket first when it is not on disk. Repeated calls share one Loader
// so the tables are read once per process.
func loadVocabulary() (*vocab.Vocabulary, error) {
	dir := constants.GetVocabDir()
	if !assets.HasVocab(dir) {
		if bucket := constants.GetAssetBucket(); bucket != "" {
			if err := assets.FetchVocab(bucket, dir); err != nil {
				return nil, err
			}
		}
	}
	if vocabLoader == nil {
		vocabLoader = vocab.NewLoader(dir)
	}
	return vocabLoader.Vocabulary()
}

// newGenerator wires the backend: the model endpoint when configured,
// otherwise the pattern fallback.
func newGenerator(v *vocab.Vocabulary) *generate.Generator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if url := constants.GetModelURL(); url != "" {
		return generate.NewWithRand(v, generate.NewHTTPBackend(url), rng)
	}
	return generate.NewWithRand(v, generate.NewPatternBackend(v, rng), rng)
}
