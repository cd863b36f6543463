package display

// Width and Height are the dimensions of the CHIP-8 pixel grid.
const (
	Width  = 64
	Height = 32
)

// Frame is a value snapshot of the pixel grid. Handing copies to the
// renderer means the interpreter can keep mutating the live buffer while a
// frame is being drawn.
type Frame [Height][Width]bool

// Buffer is the 64x32 monochrome framebuffer. Every write goes through
// Blit; pixels are never set directly.
type Buffer struct {
	pixels Frame
}

func New() *Buffer {
	return &Buffer{}
}

// Clear unsets every pixel. This is the CLS instruction.
func (b *Buffer) Clear() {
	b.pixels = Frame{}
}

// Blit XORs an 8 pixel wide sprite onto the buffer at (x, y), one byte per
// row with the most significant bit leftmost. Drawn pixels wrap around both
// edges of the grid. Reports whether any lit pixel was flipped off, which
// is the collision flag the DRW instruction stores in VF.
func (b *Buffer) Blit(x, y uint8, sprite []byte) bool {
	collision := false
	for row, line := range sprite {
		py := (int(y) + row) % Height
		for col := 0; col < 8; col++ {
			if line&(0x80>>col) == 0 {
				continue
			}
			px := (int(x) + col) % Width
			if b.pixels[py][px] {
				collision = true
			}
			b.pixels[py][px] = !b.pixels[py][px]
		}
	}
	return collision
}

// Pixel reports the state of a single pixel. Coordinates wrap like Blit's.
func (b *Buffer) Pixel(x, y int) bool {
	return b.pixels[y%Height][x%Width]
}

// Frame returns a copy of the current pixel state.
func (b *Buffer) Frame() Frame {
	return b.pixels
}
