// Package generate implements the diffusion fill that grows an image
// outward from a single seed pixel. Each pixel's color is a distance-
// weighted average of its already-filled neighbors plus bounded random
// jitter, followed by a gamma pass and bitmap encoding.
package generate

import (
	"io"
	"math"
	randv2 "math/rand/v2"

	"github.com/taylordotfish/plumage/internal/bmp"
	"github.com/taylordotfish/plumage/internal/params"
	"github.com/taylordotfish/plumage/internal/pixel"
)

// Generator owns the pixel buffer and the deterministic random sequence
// for one generation run. Create it with New and consume it with
// Generate; the same resolved parameters always reproduce byte-identical
// output.
type Generator struct {
	spread        params.Spread
	distancePower float64
	randomPower   float64
	randomMax     float64
	gamma         float64
	startColor    pixel.Color
	data          *pixel.Buffer
	rng           *randv2.Rand
}

// New creates a generator from a resolved parameter set. The buffer is
// allocated black with the start color preset at the origin.
func New(p params.Params) *Generator {
	data := pixel.NewBuffer(p.Dimensions)
	data.Set(pixel.Origin, p.StartColor)
	return &Generator{
		spread:        p.Spread,
		distancePower: p.DistancePower,
		randomPower:   p.RandomPower,
		randomMax:     p.RandomMax,
		gamma:         p.Gamma,
		startColor:    p.StartColor,
		data:          data,
		rng:           randv2.New(randv2.NewChaCha8(p.Seed)),
	}
}

// averageNeighbor computes the distance-weighted average color of the
// already-filled pixels around pos. The candidate window is the spread's
// bounding box clipped so no offset exceeds pos in either axis; raster
// order then guarantees every candidate was filled in an earlier
// iteration, so reads never observe an unfilled pixel.
func (g *Generator) averageNeighbor(pos pixel.Position) pixel.Color {
	var weightSum float64
	var colorSum pixel.Color

	bounds := g.spread.Bounds()
	bounds = bounds.Min(pixel.Dimensions{Width: pos.X + 1, Height: pos.Y + 1})
	bounds.ForEach(func(delta pixel.Position) {
		// The zero offset is the pixel being filled; skip it.
		if delta == pixel.Origin {
			return
		}

		dist := math.Sqrt(float64(delta.X*delta.X + delta.Y*delta.Y))
		if g.spread.Shape == params.ShapeQuarterCircle && dist > float64(g.spread.Size) {
			return
		}

		neighbor := g.data.At(pos.Sub(delta))
		weight := math.Pow(dist, g.distancePower)
		colorSum = colorSum.Add(neighbor.Scale(weight))
		weightSum += weight
	})

	// Unreachable with a validated spread (size >= 1 always accepts the
	// distance-1 neighbors); keeps the division total regardless.
	if weightSum == 0 {
		return g.startColor
	}
	return colorSum.Div(weightSum)
}

// randomNear draws a jittered color close to c. Each channel makes exactly
// two draws, magnitude then sign, in red, green, blue order; the fixed
// draw order is part of the reproducibility contract.
func (g *Generator) randomNear(c pixel.Color) pixel.Color {
	component := func() float64 {
		magnitude := math.Pow(g.rng.Float64(), g.randomPower) * g.randomMax
		if g.rng.Uint64()&1 == 0 {
			return -magnitude
		}
		return magnitude
	}
	delta := pixel.Color{
		Red:   component(),
		Green: component(),
		Blue:  component(),
	}
	return c.Add(delta).Clamp(0, 1)
}

// fillPos derives and stores the color for a single pixel.
func (g *Generator) fillPos(pos pixel.Position) {
	g.data.Set(pos, g.randomNear(g.averageNeighbor(pos)))
}

// fill visits every pixel in strict row-major order, skipping the preset
// origin. The order is load-bearing twice over: it makes every clipped
// neighbor a previously-filled pixel, and it fixes the total order of
// random draws.
func (g *Generator) fill() {
	g.data.Dimensions().ForEach(func(pos pixel.Position) {
		if pos == pixel.Origin {
			return
		}
		g.fillPos(pos)
	})
}

// applyGamma raises every channel of every pixel to the gamma exponent.
// Runs after fill completes; pixels are independent here.
func (g *Generator) applyGamma() {
	data := g.data.Data()
	for i, c := range data {
		data[i] = c.Pow(g.gamma)
	}
}

// Generate runs the fill and gamma passes, then streams the encoded
// bitmap to w. Sink errors are returned unchanged; the computation itself
// cannot fail. The generator is consumed: the buffer is released once
// encoding completes.
func (g *Generator) Generate(w io.Writer) error {
	g.fill()
	g.applyGamma()

	data := g.data
	g.data = nil
	return bmp.Encode(w, data)
}
