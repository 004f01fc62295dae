// Package pixel provides the color and geometry primitives the generator
// works with: normalized RGB colors, integer positions and dimensions, and
// the flat row-major pixel buffer.
package pixel

import "math"

// Color is the color of a single pixel. Each component is normalized to
// [0, 1]; the generator keeps that range as an invariant, arithmetic
// helpers themselves do not clamp.
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// Black is the zero color. New buffers are filled with it.
var Black = Color{}

// Add returns the component-wise sum of c and other.
func (c Color) Add(other Color) Color {
	return Color{c.Red + other.Red, c.Green + other.Green, c.Blue + other.Blue}
}

// Sub returns the component-wise difference of c and other.
func (c Color) Sub(other Color) Color {
	return Color{c.Red - other.Red, c.Green - other.Green, c.Blue - other.Blue}
}

// Scale multiplies every component by n.
func (c Color) Scale(n float64) Color {
	return Color{c.Red * n, c.Green * n, c.Blue * n}
}

// Div divides every component by n.
func (c Color) Div(n float64) Color {
	return Color{c.Red / n, c.Green / n, c.Blue / n}
}

// Pow raises every component to the power n. Used for gamma correction.
func (c Color) Pow(n float64) Color {
	return Color{
		Red:   math.Pow(c.Red, n),
		Green: math.Pow(c.Green, n),
		Blue:  math.Pow(c.Blue, n),
	}
}

// Clamp limits every component to [min, max].
func (c Color) Clamp(min, max float64) Color {
	clamp := func(v float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}
	return Color{clamp(c.Red), clamp(c.Green), clamp(c.Blue)}
}

// InRange reports whether every component lies in [0, 1].
func (c Color) InRange() bool {
	ok := func(v float64) bool { return v >= 0 && v <= 1 }
	return ok(c.Red) && ok(c.Green) && ok(c.Blue)
}
