// Package keypad models the 16 key hexadecimal keypad of the CHIP-8. The
// host translates platform key events into Press/Release/Set calls; the
// interpreter only ever reads the state.
package keypad

// NumKeys is the number of keys on the hex pad, labelled 0x0 through 0xF.
const NumKeys = 16

type Keypad struct {
	down [NumKeys]bool
}

func New() *Keypad {
	return &Keypad{}
}

// Press marks key as held. Keys outside 0x0-0xF are ignored.
func (k *Keypad) Press(key uint8) {
	k.Set(key, true)
}

// Release marks key as up.
func (k *Keypad) Release(key uint8) {
	k.Set(key, false)
}

// Set records the level state of a single key.
func (k *Keypad) Set(key uint8, held bool) {
	if key < NumKeys {
		k.down[key] = held
	}
}

// IsDown reports whether key is currently held. This backs the SKP and
// SKNP instructions.
func (k *Keypad) IsDown(key uint8) bool {
	return key < NumKeys && k.down[key]
}

// FirstDown returns the lowest numbered held key. The wait-for-key
// instruction polls this every step until ok is true.
func (k *Keypad) FirstDown() (key uint8, ok bool) {
	for i := uint8(0); i < NumKeys; i++ {
		if k.down[i] {
			return i, true
		}
	}
	return 0, false
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.down = [NumKeys]bool{}
}
