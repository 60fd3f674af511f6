package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver

	"github.com/bufyyy/chordai/audio"
	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/theory"
)

func init() {
	rootCmd.AddCommand(jamCmd)
}

var jamCmd = &cobra.Command{
	Use:   "jam",
	Short: "Names and plays chords from a live MIDI input",
	Long:  `Names and plays chords from a live MIDI input`,
	Run: func(cmd *cobra.Command, args []string) {
		jam()
	},
}

func jam() {
	defer midi.CloseDriver()
	in, err := midi.InPort(0)
	if err != nil {
		fmt.Println("no MIDI input port found")
		return
	}

	engine := audio.NewEngine(audio.Callbacks{})
	cobra.CheckErr(engine.Initialize())
	defer engine.Dispose()

	var mu sync.Mutex
	held := make(map[uint8]bool)

	// wait for the hand to settle before naming the chord
	debounced := debounce.New(50 * time.Millisecond)
	announce := func() {
		mu.Lock()
		notes := make([]int, 0, len(held))
		for note := range held {
			notes = append(notes, int(note))
		}
		mu.Unlock()

		if len(notes) < 3 {
			return
		}
		name, ok := theory.Identify(notes)
		if !ok {
			return
		}
		fmt.Printf("♪ %v\n", name)
		engine.PlayChord(name, time.Second, constants.DefaultOctave)
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			mu.Lock()
			held[key] = true
			mu.Unlock()
			debounced(announce)
		case msg.GetNoteEnd(&ch, &key):
			mu.Lock()
			delete(held, key)
			mu.Unlock()
			debounced(announce)
		}
	})
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		return
	}
	defer stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
}
