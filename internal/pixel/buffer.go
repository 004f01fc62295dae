package pixel

import "fmt"

// Buffer is a two-dimensional array of colors stored in a single
// contiguous row-major slice (index = y*width + x).
type Buffer struct {
	dim  Dimensions
	data []Color
}

// NewBuffer allocates a buffer of dim.Count() pixels, all black.
func NewBuffer(dim Dimensions) *Buffer {
	return &Buffer{
		dim:  dim,
		data: make([]Color, dim.Count()),
	}
}

// Dimensions returns the buffer's extent.
func (b *Buffer) Dimensions() Dimensions {
	return b.dim
}

// Data returns the underlying pixel slice in row-major order.
func (b *Buffer) Data() []Color {
	return b.data
}

func (b *Buffer) index(pos Position) int {
	if !b.dim.Contains(pos) {
		panic(fmt.Sprintf("pixel: position (%d, %d) out of bounds for %dx%d buffer",
			pos.X, pos.Y, b.dim.Width, b.dim.Height))
	}
	return pos.Y*b.dim.Width + pos.X
}

// At returns the color at pos. pos.X and pos.Y must be less than the
// buffer width and height; the fill pass guarantees this by clipping its
// neighbor window so offsets never exceed the current position.
func (b *Buffer) At(pos Position) Color {
	return b.data[b.index(pos)]
}

// Set stores color at pos. Same precondition as At.
func (b *Buffer) Set(pos Position, c Color) {
	b.data[b.index(pos)] = c
}
