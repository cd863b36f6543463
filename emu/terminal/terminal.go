// Package terminal is the termbox frontend: it renders the display buffer
// into the controlling terminal, one cell per pixel, and reads the hex pad
// from termbox key events.
package terminal

import (
	"time"

	"github.com/nsf/termbox-go"

	"chip8/emu/display"
	"chip8/emu/keypad"
)

// keyRepeatDuration is how long a key reads as held after its press event.
// Terminals deliver key presses but no release events, so releases are
// synthesised on a timer.
const keyRepeatDuration = time.Second / 5

// keyMap uses the same 1234/qwer/asdf/zxcv layout as the windowed frontend.
var keyMap = map[rune]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type Terminal struct {
	events  chan termbox.Event
	pressed [keypad.NumKeys]time.Time
	closed  bool
}

// New takes over the terminal. Close must be called to restore it.
func New() (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, err
	}
	termbox.SetInputMode(termbox.InputEsc)

	t := &Terminal{events: make(chan termbox.Event, 16)}
	go func() {
		for {
			t.events <- termbox.PollEvent()
		}
	}()
	return t, nil
}

// Poll drains pending key events into the keypad and returns the requested
// cycles-per-frame change. Escape quits.
func (t *Terminal) Poll(keys *keypad.Keypad) int {
	delta := 0
	for {
		select {
		case ev := <-t.events:
			if ev.Type != termbox.EventKey {
				continue
			}
			switch {
			case ev.Key == termbox.KeyEsc:
				t.closed = true
			case ev.Ch == '=':
				delta += 2
			case ev.Ch == '-':
				delta -= 2
			default:
				if key, ok := keyMap[ev.Ch]; ok {
					t.pressed[key] = time.Now()
				}
			}
		default:
			now := time.Now()
			for key, at := range t.pressed {
				keys.Set(uint8(key), now.Sub(at) < keyRepeatDuration)
			}
			return delta
		}
	}
}

// Render repaints the terminal from a frame snapshot.
func (t *Terminal) Render(frame display.Frame) {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if frame[y][x] {
				termbox.SetCell(x, y, ' ', termbox.ColorWhite, termbox.ColorWhite)
			}
		}
	}
	termbox.Flush()
}

// Closed reports whether the user asked to quit.
func (t *Terminal) Closed() bool {
	return t.closed
}

// Close restores the terminal.
func (t *Terminal) Close() {
	termbox.Close()
}
