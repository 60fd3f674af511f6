package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/generate"
)

var (
	genGenre       string
	genMood        string
	genKey         string
	genScale       string
	genLength      int
	genTemperature float64
	genSeed        []string
	genVariation   bool
)

func init() {
	generateCmd.Flags().StringVar(&genGenre, "genre", "pop", "genre label")
	generateCmd.Flags().StringVar(&genMood, "mood", "uplifting", "mood label")
	generateCmd.Flags().StringVar(&genKey, "key", "C", "key root")
	generateCmd.Flags().StringVar(&genScale, "scale", "major", "scale type (major/minor)")
	generateCmd.Flags().IntVar(&genLength, "length", 4, "number of chords")
	generateCmd.Flags().Float64Var(&genTemperature, "temperature", 1.0, "sampling temperature")
	generateCmd.Flags().StringSliceVar(&genSeed, "seed", nil, "seed chords")
	generateCmd.Flags().BoolVar(&genVariation, "variation", false, "regenerate from the first two generated chords at a higher temperature")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates a chord progression",
	Long:  `Generates a chord progression`,
	Run: func(cmd *cobra.Command, args []string) {
		v, err := loadVocabulary()
		cobra.CheckErr(err)

		g := newGenerator(v)
		prog, err := g.Progression(generate.Params{
			Genre:       genGenre,
			Mood:        genMood,
			Key:         genKey,
			ScaleType:   genScale,
			Length:      genLength,
			Temperature: genTemperature,
			Seed:        genSeed,
		})
		if errors.Is(err, generate.ErrGenerationFailed) {
			// keep whatever was produced before the failing step
			fmt.Printf("Generation stopped early: %v\n", err)
			err = nil
		}
		cobra.CheckErr(err)

		if genVariation {
			prog, err = g.Variation(prog, genTemperature*1.3)
			cobra.CheckErr(err)
		}

		fmt.Printf("%v | %v %v %v %v\n", prog.Id, prog.Genre, prog.Mood, prog.Key, prog.ScaleType)
		fmt.Println(strings.Join(prog.Chords, " - "))
	},
}
