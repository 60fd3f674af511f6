package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/midifile"
)

var (
	exportOut    string
	exportOctave int
	exportTempo  int
)

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "progression.mid", "output file")
	exportCmd.Flags().IntVar(&exportOctave, "octave", constants.DefaultOctave, "voicing octave")
	exportCmd.Flags().IntVar(&exportTempo, "tempo", constants.DefaultTempoBPM, "tempo in BPM")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [chords...]",
	Short: "Exports chords to a MIDI file",
	Long:  `Exports chords to a MIDI file`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := midifile.WriteFile(exportOut, args, exportOctave, exportTempo)
		cobra.CheckErr(err)
		fmt.Printf("Wrote %v chords to %v\n", len(args), exportOut)
	},
}
