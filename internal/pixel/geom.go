package pixel

// Position is a pixel coordinate within an image. The origin (0, 0) is the
// top-left seed pixel.
type Position struct {
	X int
	Y int
}

// Origin is position (0, 0).
var Origin = Position{}

// Add returns the component-wise sum of p and other.
func (p Position) Add(other Position) Position {
	return Position{p.X + other.X, p.Y + other.Y}
}

// Sub returns the component-wise difference of p and other.
func (p Position) Sub(other Position) Position {
	return Position{p.X - other.X, p.Y - other.Y}
}

// Dimensions is the extent of an image in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Square returns dimensions with equal width and height.
func Square(side int) Dimensions {
	return Dimensions{Width: side, Height: side}
}

// Count is the total number of pixels in the image.
func (d Dimensions) Count() int {
	return d.Width * d.Height
}

// Min takes the smaller of each dimension.
func (d Dimensions) Min(other Dimensions) Dimensions {
	return Dimensions{
		Width:  min(d.Width, other.Width),
		Height: min(d.Height, other.Height),
	}
}

// Contains reports whether pos is a valid coordinate for an image of these
// dimensions.
func (d Dimensions) Contains(pos Position) bool {
	return pos.X >= 0 && pos.X < d.Width && pos.Y >= 0 && pos.Y < d.Height
}

// ForEach calls f for every position in row-major order: y from 0 to
// height-1, and for each y, x from 0 to width-1. The fill pass depends on
// exactly this order.
func (d Dimensions) ForEach(f func(Position)) {
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			f(Position{X: x, Y: y})
		}
	}
}
