package cpu

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestNewMachineDefaults(t *testing.T) {
	m := New(nil)

	assert.Equal(t, uint16(romStart), m.PC())
	assert.Equal(t, uint8(0), m.sp)
	assert.False(t, m.SoundActive())

	// font sprites sit in the reserved interpreter area
	assert.Equal(t, FontSet[0], m.memory[fontOffset])
	assert.Equal(t, FontSet[79], m.memory[fontOffset+79])
}

func TestLoadCopiesROM(t *testing.T) {
	m := New(nil)

	rom := []byte{0x60, 0x05, 0x12, 0x00}
	assert.NoError(t, m.Load(rom))

	assert.Equal(t, uint8(0x60), m.memory[romStart])
	assert.Equal(t, uint8(0x00), m.memory[romStart+3])
}

func TestLoadSizeLimit(t *testing.T) {
	m := New(nil)

	assert.NoError(t, m.Load(make([]byte, maxROMSize)))

	err := m.Load(make([]byte, maxROMSize+1))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestLoadStartsAFreshRun(t *testing.T) {
	m := newTestMachine(t, 0x6005, 0x2206)
	stepN(t, m, 2)
	m.delayTimer = 7
	m.Keypad().Press(0x3)

	assert.NoError(t, m.Load([]byte{0x00, 0xE0}))

	assert.Equal(t, uint16(romStart), m.PC())
	assert.Equal(t, uint8(0), m.sp)
	assert.Equal(t, uint8(0), m.v[0])
	assert.Equal(t, uint8(0), m.delayTimer)
	assert.False(t, m.Keypad().IsDown(0x3))
	assert.Equal(t, FontSet[0], m.memory[fontOffset])
}

func TestTickTimersStopsAtZero(t *testing.T) {
	m := New(nil)
	m.delayTimer = 2
	m.soundTimer = 1

	for i := 0; i < 3; i++ {
		m.TickTimers()
	}

	assert.Equal(t, uint8(0), m.delayTimer)
	assert.Equal(t, uint8(0), m.soundTimer)
}

func TestSeededRandIsDeterministic(t *testing.T) {
	a := SeededRand(42)
	b := SeededRand(42)

	for i := 0; i < 16; i++ {
		assert.Equal(t, a.Byte(), b.Byte())
	}
}

func TestIndependentMachines(t *testing.T) {
	a := newTestMachine(t, 0x6005)
	b := newTestMachine(t, 0x60FF)

	stepN(t, a, 1)
	stepN(t, b, 1)

	assert.Equal(t, uint8(0x05), a.v[0])
	assert.Equal(t, uint8(0xFF), b.v[0])
}
