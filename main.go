package main

import (
	"chip8/cmd"

	"github.com/faiface/pixel/pixelgl"
)

// pixelgl claims the main OS thread, so the whole program runs inside its
// Run callback, including the terminal frontend.
func main() {
	pixelgl.Run(runEmulator)
}

func runEmulator() {
	cmd.Execute()
}
