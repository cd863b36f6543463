// Package cpu implements the CHIP-8 machine model and its fetch-decode-
// execute loop. One Machine owns all of the machine state; the host drives
// it with Step and TickTimers and supplies key state through the keypad.
//
// Memory map:
//
//	0x000 - 0x1FF  reserved interpreter area, holds the font at 0x050
//	0x200 - 0xFFF  program ROM and work RAM
package cpu

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"

	"chip8/emu/display"
	"chip8/emu/keypad"
)

const (
	memorySize = 4096
	romStart   = 0x200
	maxROMSize = memorySize - romStart

	fontOffset = 0x050
	glyphSize  = 5

	stackDepth = 16
)

// FontSet is the built in 4x5 hexadecimal digit sprites. It is copied into
// the reserved interpreter area at machine creation and on Reset.
var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// RandSource yields the random bytes consumed by the RND instruction. It is
// a separate dependency so tests and reproducible runs can fix the
// sequence.
type RandSource interface {
	Byte() uint8
}

type mathRand struct {
	r *rand.Rand
}

func (m mathRand) Byte() uint8 {
	return uint8(m.r.Intn(256))
}

// SeededRand returns a RandSource backed by math/rand. A zero seed uses the
// wall clock.
func SeededRand(seed int64) RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return mathRand{r: rand.New(rand.NewSource(seed))}
}

// Options configures a new Machine. The zero value is usable: a clock
// seeded RandSource and no tracing.
type Options struct {
	// Rand overrides the source used by the RND instruction.
	Rand RandSource

	// Trace, when set, logs every executed instruction at debug level.
	Trace *log.Logger
}

// Machine is the complete CHIP-8 machine state: memory, the register file,
// the call stack, both timers and the display and keypad collaborators.
// Nothing in a Machine is shared with another instance, so independent
// machines can run side by side.
type Machine struct {
	memory [memorySize]uint8
	v      [16]uint8
	i      uint16
	pc     uint16

	stack [stackDepth]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	display *display.Buffer
	keypad  *keypad.Keypad
	rand    RandSource
	trace   *log.Logger
}

// New returns a Machine with the font loaded and the program counter at
// the conventional program start. A nil opts selects the defaults.
func New(opts *Options) *Machine {
	m := &Machine{
		pc:      romStart,
		display: display.New(),
		keypad:  keypad.New(),
		rand:    SeededRand(0),
	}
	if opts != nil {
		if opts.Rand != nil {
			m.rand = opts.Rand
		}
		m.trace = opts.Trace
	}
	copy(m.memory[fontOffset:], FontSet[:])
	return m
}

// Load resets the machine and copies a ROM image into memory at 0x200.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > maxROMSize {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrROMTooLarge, len(rom), maxROMSize)
	}
	m.Reset()
	copy(m.memory[romStart:], rom)
	return nil
}

// Reset returns the machine to its power-on state. The loaded ROM is
// discarded; the font survives.
func (m *Machine) Reset() {
	m.memory = [memorySize]uint8{}
	copy(m.memory[fontOffset:], FontSet[:])
	m.v = [16]uint8{}
	m.i = 0
	m.pc = romStart
	m.stack = [stackDepth]uint16{}
	m.sp = 0
	m.delayTimer = 0
	m.soundTimer = 0
	m.display.Clear()
	m.keypad.Reset()
}

// TickTimers decrements the delay and sound timers once, stopping at zero.
// The host calls this at a fixed wall-clock rate (canonically 60Hz),
// independent of how often it calls Step.
func (m *Machine) TickTimers() {
	if m.delayTimer > 0 {
		m.delayTimer--
	}
	if m.soundTimer > 0 {
		m.soundTimer--
	}
}

// SoundActive reports whether the sound timer is running, which is the
// signal for the host to play a tone.
func (m *Machine) SoundActive() bool {
	return m.soundTimer > 0
}

// Keypad exposes the key state for the host to mutate from its input
// events.
func (m *Machine) Keypad() *keypad.Keypad {
	return m.keypad
}

// Frame returns a snapshot of the display for rendering.
func (m *Machine) Frame() display.Frame {
	return m.display.Frame()
}

// PC returns the current program counter.
func (m *Machine) PC() uint16 {
	return m.pc
}

// memRange returns the n bytes of memory starting at the index register,
// used by the sprite draw, BCD and register window instructions.
func (m *Machine) memRange(n uint16) ([]uint8, error) {
	end := uint32(m.i) + uint32(n)
	if end > memorySize {
		return nil, fmt.Errorf("%w: I=0x%04X+%d", ErrOutOfBoundsFetch, m.i, n)
	}
	return m.memory[m.i:end], nil
}
