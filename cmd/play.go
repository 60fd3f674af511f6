package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/audio"
	"github.com/bufyyy/chordai/constants"
)

var (
	playTempo      float64
	playLoop       bool
	playInstrument string
	playVolume     float64
	playOctave     int
)

func init() {
	playCmd.Flags().Float64Var(&playTempo, "tempo", constants.DefaultTempoBPM, "tempo in BPM")
	playCmd.Flags().BoolVar(&playLoop, "loop", false, "loop until interrupted")
	playCmd.Flags().StringVar(&playInstrument, "instrument", "sine", "waveform: sine, triangle, square, saw")
	playCmd.Flags().Float64Var(&playVolume, "volume", 0, "volume in dB relative to full scale")
	playCmd.Flags().IntVar(&playOctave, "octave", constants.DefaultOctave, "voicing octave")
	rootCmd.AddCommand(playCmd)
}

var playCmd = &cobra.Command{
	Use:   "play [chords...]",
	Short: "Plays chords through the synth",
	Long:  `Plays chords through the synth`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		done := make(chan struct{})
		engine := audio.NewEngine(audio.Callbacks{
			OnChord: func(index int) {
				fmt.Printf("♪ %v\n", args[index])
			},
			OnComplete: func() {
				close(done)
			},
		})
		cobra.CheckErr(engine.Initialize())
		defer engine.Dispose()

		if w, ok := audio.WaveformByName(playInstrument); ok {
			engine.SetInstrument(w)
		}
		engine.SetVolume(playVolume)
		engine.SetOctave(playOctave)
		cobra.CheckErr(engine.PlayProgression(args, playTempo, playLoop))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		select {
		case <-done:
		case <-interrupt:
			engine.Stop()
		}
	},
}
