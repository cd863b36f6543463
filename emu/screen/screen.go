// Package screen is the windowed frontend: it renders the display buffer
// into a pixelgl window and translates the host keyboard to the hex pad.
// It must run on the main OS thread, inside pixelgl.Run.
package screen

import (
	"fmt"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"chip8/emu/display"
	"chip8/emu/keypad"
)

// keyMap lays the hex pad onto the left of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
var keyMap = map[uint8]pixelgl.Button{
	0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
	0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
	0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
	0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
}

type Window struct {
	win   *pixelgl.Window
	im    *imdraw.IMDraw
	scale float64
}

// New opens the emulator window, scaled up from the 64x32 grid.
func New(title string, scale float64) (*Window, error) {
	cfg := pixelgl.WindowConfig{
		Title:  title,
		Bounds: pixel.R(0, 0, display.Width*scale, display.Height*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening window: %w", err)
	}
	return &Window{
		win:   win,
		im:    imdraw.New(nil),
		scale: scale,
	}, nil
}

// Poll copies the keyboard level state to the keypad and returns the
// cycles-per-frame change requested with the = and - keys. Escape closes
// the window.
func (w *Window) Poll(keys *keypad.Keypad) int {
	for key, button := range keyMap {
		keys.Set(key, w.win.Pressed(button))
	}

	if w.win.JustPressed(pixelgl.KeyEscape) {
		w.win.SetClosed(true)
	}

	delta := 0
	if w.win.JustPressed(pixelgl.KeyEqual) {
		delta += 2
	}
	if w.win.JustPressed(pixelgl.KeyMinus) {
		delta -= 2
	}
	return delta
}

// Render draws a frame snapshot, one filled rectangle per lit pixel.
func (w *Window) Render(frame display.Frame) {
	w.win.Clear(colornames.Black)
	w.im.Clear()
	w.im.Color = colornames.White
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			if !frame[y][x] {
				continue
			}
			// pixel's origin is bottom left, the CHIP-8's is top left
			fx := float64(x) * w.scale
			fy := float64(display.Height-1-y) * w.scale
			w.im.Push(pixel.V(fx, fy), pixel.V(fx+w.scale, fy+w.scale))
			w.im.Rectangle(0)
		}
	}
	w.im.Draw(w.win)
	w.win.Update()
}

// Closed reports whether the user has closed the window.
func (w *Window) Closed() bool {
	return w.win.Closed()
}

// Close implements the frontend contract; pixelgl windows are reclaimed
// when the process exits.
func (w *Window) Close() {}
