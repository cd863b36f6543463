// Package shell is the host loop that drives a Machine: poll input, step
// the CPU a fixed number of cycles, tick the timers, gate the beeper and
// render a frame, all on one goroutine at a fixed frame rate.
package shell

import (
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"

	"chip8/emu/cpu"
	"chip8/emu/display"
	"chip8/emu/keypad"
)

// Frontend is a display and input device pair. Poll feeds the keypad and
// returns the user's requested change to the cycles-per-frame budget;
// Render shows a frame snapshot.
type Frontend interface {
	Poll(keys *keypad.Keypad) (speedDelta int)
	Render(frame display.Frame)
	Closed() bool
	Close()
}

// Beeper is the audio collaborator, switched by the sound timer. A nil
// Beeper in Run means muted.
type Beeper interface {
	SetActive(on bool)
}

// Bounds for the user adjustable execution speed.
const (
	minCyclesPerFrame = 2
	maxCyclesPerFrame = 50
)

const (
	defaultRefreshRate    = 60
	defaultCyclesPerFrame = 10
)

type Config struct {
	RefreshRate    int // frames, and timer ticks, per second
	CyclesPerFrame int // instructions executed per frame
}

// Run drives the machine until the frontend closes or the interpreter
// faults. The interpreter itself never sleeps; all pacing happens here.
// Timers tick once per frame regardless of CPU progress, so they keep
// counting down while a program waits on a key.
func Run(m *cpu.Machine, fe Frontend, bp Beeper, logger *log.Logger, cfg Config) error {
	defer fe.Close()

	refresh := cfg.RefreshRate
	if refresh <= 0 {
		refresh = defaultRefreshRate
	}
	cycles := cfg.CyclesPerFrame
	if cycles <= 0 {
		cycles = defaultCyclesPerFrame
	}

	tick := time.NewTicker(time.Second / time.Duration(refresh))
	defer tick.Stop()

	for !fe.Closed() {
		<-tick.C

		if delta := fe.Poll(m.Keypad()); delta != 0 {
			cycles = clamp(cycles+delta, minCyclesPerFrame, maxCyclesPerFrame)
			logger.Debug("speed changed", log.Int("cycles_per_frame", cycles))
		}

		for i := 0; i < cycles; i++ {
			if err := m.Step(); err != nil {
				return fmt.Errorf("emulation stopped: %w", err)
			}
		}

		m.TickTimers()
		if bp != nil {
			bp.SetActive(m.SoundActive())
		}
		fe.Render(m.Frame())
	}
	return nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
