package generate

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taylordotfish/plumage/internal/bmp"
	"github.com/taylordotfish/plumage/internal/params"
	"github.com/taylordotfish/plumage/internal/pixel"
)

func testParams(width, height int) params.Params {
	var seed params.Seed
	for i := range seed {
		seed[i] = byte(i * 7)
	}
	return params.Params{
		Dimensions:    pixel.Dimensions{Width: width, Height: height},
		Spread:        params.Spread{Shape: params.ShapeSquare, Size: 2},
		DistancePower: params.DefaultDistancePower,
		RandomPower:   params.DefaultRandomPower,
		RandomMax:     params.DefaultRandomMax,
		Gamma:         params.DefaultGamma,
		StartColor:    pixel.Color{Red: 0.25, Green: 0.5, Blue: 0.75},
		Seed:          seed,
	}
}

// channelByte mirrors the encoder's channel conversion for expectations.
func channelByte(c float64) byte {
	return byte(math.Round(c * 255))
}

func TestGenerate_Deterministic(t *testing.T) {
	p := testParams(24, 16)

	var first, second bytes.Buffer
	if err := New(p).Generate(&first); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	if err := New(p).Generate(&second); err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("identical params and seed should produce byte-identical output")
	}
}

func TestGenerate_SeedChangesOutput(t *testing.T) {
	p := testParams(24, 16)

	var first bytes.Buffer
	if err := New(p).Generate(&first); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	p.Seed[0] ^= 0xff
	var second bytes.Buffer
	if err := New(p).Generate(&second); err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	if bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("different seeds should produce different pixel data")
	}
}

func TestFill_SeedPixelPreserved(t *testing.T) {
	p := testParams(8, 8)
	g := New(p)

	if got := g.data.At(pixel.Origin); got != p.StartColor {
		t.Fatalf("origin = %+v before fill, want start color %+v", got, p.StartColor)
	}

	g.fill()
	if got := g.data.At(pixel.Origin); got != p.StartColor {
		t.Errorf("origin = %+v after fill, want start color %+v (fill must skip the seed)", got, p.StartColor)
	}
}

func TestFill_ChannelBounds(t *testing.T) {
	spreads := []params.Spread{
		{Shape: params.ShapeSquare, Size: 1},
		{Shape: params.ShapeSquare, Size: 3},
		{Shape: params.ShapeQuarterCircle, Size: 2},
		{Shape: params.ShapeQuarterCircle, Size: 5},
	}

	for _, spread := range spreads {
		p := testParams(20, 12)
		p.Spread = spread
		p.RandomMax = 0.3 // exaggerate jitter to stress the clamp

		g := New(p)
		g.fill()
		for i, c := range g.data.Data() {
			if !c.InRange() {
				t.Fatalf("spread %s: pixel %d out of range after fill: %+v", spread, i, c)
			}
		}

		g.applyGamma()
		for i, c := range g.data.Data() {
			if !c.InRange() {
				t.Fatalf("spread %s: pixel %d out of range after gamma: %+v", spread, i, c)
			}
		}
	}
}

func TestApplyGamma(t *testing.T) {
	p := testParams(4, 4)
	p.Gamma = 2

	g := New(p)
	g.fill()

	before := make([]pixel.Color, len(g.data.Data()))
	copy(before, g.data.Data())

	g.applyGamma()
	for i, c := range g.data.Data() {
		want := before[i].Pow(2)
		if c != want {
			t.Fatalf("pixel %d = %+v after gamma, want %+v", i, c, want)
		}
	}
}

// A 1x1 image is just the start color, gamma-corrected: 3 BGR bytes plus
// one byte of row padding.
func TestGenerate_SinglePixel(t *testing.T) {
	p := testParams(1, 1)

	var out bytes.Buffer
	if err := New(p).Generate(&out); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	data := out.Bytes()
	if len(data) != bmp.PixelDataOffset+4 {
		t.Fatalf("output is %d bytes, want %d", len(data), bmp.PixelDataOffset+4)
	}

	corrected := p.StartColor.Pow(p.Gamma)
	want := []byte{
		channelByte(corrected.Blue),
		channelByte(corrected.Green),
		channelByte(corrected.Red),
		0, // row padding
	}
	if !bytes.Equal(data[bmp.PixelDataOffset:], want) {
		t.Errorf("pixel data = %v, want %v", data[bmp.PixelDataOffset:], want)
	}
}

// With jitter disabled and a 2x1 image, pixel (1, 0) has exactly one
// neighbor at distance 1, so it equals the start color exactly.
func TestGenerate_ZeroJitterCopiesNeighbor(t *testing.T) {
	p := testParams(2, 1)
	p.Spread = params.Spread{Shape: params.ShapeSquare, Size: 1}
	p.RandomMax = 0

	g := New(p)
	g.fill()
	if got := g.data.At(pixel.Position{X: 1, Y: 0}); got != p.StartColor {
		t.Fatalf("pixel (1, 0) = %+v after fill, want start color %+v", got, p.StartColor)
	}

	g.applyGamma()
	want := p.StartColor.Pow(p.Gamma)
	if got := g.data.At(pixel.Position{X: 1, Y: 0}); got != want {
		t.Errorf("pixel (1, 0) = %+v after gamma, want %+v", got, want)
	}
}

// Output must not depend on the kind of sink: an in-memory buffer and a
// file receive the same bytes.
func TestGenerate_SinkIndependent(t *testing.T) {
	p := testParams(16, 10)

	var mem bytes.Buffer
	if err := New(p).Generate(&mem); err != nil {
		t.Fatalf("in-memory generation failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := New(p).Generate(f); err != nil {
		t.Fatalf("file generation failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	fromFile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mem.Bytes(), fromFile) {
		t.Error("buffer and file sinks received different bytes")
	}
}

// Changing only gamma changes pixel bytes but leaves the header alone:
// the file size depends only on the dimensions.
func TestGenerate_GammaChangesOnlyPixels(t *testing.T) {
	p := testParams(16, 10)

	var first bytes.Buffer
	if err := New(p).Generate(&first); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}

	p.Gamma = 2.5
	var second bytes.Buffer
	if err := New(p).Generate(&second); err != nil {
		t.Fatalf("second generation failed: %v", err)
	}

	a, b := first.Bytes(), second.Bytes()
	if !bytes.Equal(a[:bmp.PixelDataOffset], b[:bmp.PixelDataOffset]) {
		t.Error("headers should be identical for identical dimensions")
	}
	if bytes.Equal(a[bmp.PixelDataOffset:], b[bmp.PixelDataOffset:]) {
		t.Error("different gamma should change the pixel data")
	}
}

func TestGenerate_PropagatesSinkError(t *testing.T) {
	p := testParams(4, 4)
	werr := os.ErrClosed
	if err := New(p).Generate(&failWriter{err: werr}); err != werr {
		t.Errorf("Generate returned %v, want the sink error unchanged", err)
	}
}

type failWriter struct{ err error }

func (w *failWriter) Write([]byte) (int, error) { return 0, w.err }

// The quarter-circle spread must reject offsets beyond its radius by
// Euclidean distance; for radius 1 only the two axis-adjacent neighbors
// remain, never the diagonal.
func TestAverageNeighbor_QuarterCircleCut(t *testing.T) {
	p := testParams(2, 2)
	p.Spread = params.Spread{Shape: params.ShapeQuarterCircle, Size: 1}
	p.RandomMax = 0
	p.Gamma = 1

	g := New(p)
	// Hand-fill the first three pixels in raster order with known colors.
	g.data.Set(pixel.Position{X: 1, Y: 0}, pixel.Color{Red: 1})
	g.data.Set(pixel.Position{X: 0, Y: 1}, pixel.Color{Green: 1})

	// (1, 1) sees (0, 1) and (1, 0) at distance 1 with equal weight; the
	// diagonal (0, 0) is at sqrt(2) > 1 and must be excluded.
	got := g.averageNeighbor(pixel.Position{X: 1, Y: 1})
	want := pixel.Color{Red: 0.5, Green: 0.5}
	if math.Abs(got.Red-want.Red) > 1e-12 ||
		math.Abs(got.Green-want.Green) > 1e-12 ||
		math.Abs(got.Blue-want.Blue) > 1e-12 {
		t.Errorf("averageNeighbor(1, 1) = %+v, want %+v", got, want)
	}
}

func TestAverageNeighbor_SquareIncludesDiagonal(t *testing.T) {
	p := testParams(2, 2)
	p.Spread = params.Spread{Shape: params.ShapeSquare, Size: 1}
	p.StartColor = pixel.Color{Blue: 1}

	g := New(p)
	g.data.Set(pixel.Position{X: 1, Y: 0}, pixel.Color{Red: 1})
	g.data.Set(pixel.Position{X: 0, Y: 1}, pixel.Color{Green: 1})

	// All three filled neighbors contribute; the diagonal start pixel
	// carries weight sqrt(2)^distancePower.
	diag := math.Pow(math.Sqrt2, p.DistancePower)
	weightSum := 2 + diag
	got := g.averageNeighbor(pixel.Position{X: 1, Y: 1})
	want := pixel.Color{
		Red:   1 / weightSum,
		Green: 1 / weightSum,
		Blue:  diag / weightSum,
	}
	if math.Abs(got.Red-want.Red) > 1e-12 ||
		math.Abs(got.Green-want.Green) > 1e-12 ||
		math.Abs(got.Blue-want.Blue) > 1e-12 {
		t.Errorf("averageNeighbor(1, 1) = %+v, want %+v", got, want)
	}
}
