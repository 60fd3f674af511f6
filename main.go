package main

import "github.com/bufyyy/chordai/cmd"

func main() {
	cmd.Execute()
}
