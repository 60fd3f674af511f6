package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/midifile"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Inspects an exported MIDI file",
	Long:  `Inspects an exported MIDI file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	s, err := midifile.ReadFile(path)
	cobra.CheckErr(err)

	fmt.Printf("format: %v, tracks: %v, time: %v\n", s.Format(), len(s.Tracks), s.TimeFormat)
	for i, track := range s.Tracks {
		var noteOns int
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			var channel, key, velocity uint8
			if evt.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				noteOns++
			}
		}
		fmt.Printf("track %v: %v events, %v note-ons, %v ticks\n", i, len(track), noteOns, absTicks)
	}
}
