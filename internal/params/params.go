// Package params defines the generation parameters, their defaults, and
// the parameter file format. A Params value handed to the generator is
// always fully resolved: every field set, every constraint checked.
package params

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/taylordotfish/plumage/internal/pixel"
)

// SeedSize is the length of the generator seed in bytes.
const SeedSize = 32

// Seed is the raw key for the deterministic random sequence. Identical
// seeds (with identical parameters) reproduce byte-identical images.
type Seed [SeedSize]byte

// String returns the seed as 64 lowercase hex characters.
func (s Seed) String() string {
	return hex.EncodeToString(s[:])
}

// ParseSeed parses a 64-character hex string into a Seed.
func ParseSeed(s string) (Seed, error) {
	var seed Seed
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return seed, fmt.Errorf("invalid seed: %w", err)
	}
	if len(raw) != SeedSize {
		return seed, fmt.Errorf("invalid seed: got %d bytes, want %d", len(raw), SeedSize)
	}
	copy(seed[:], raw)
	return seed, nil
}

// Shape selects the form of the neighbor window considered when averaging
// the already-filled pixels around a position.
type Shape string

const (
	// ShapeSquare is a square window of a given half-width.
	ShapeSquare Shape = "square"
	// ShapeQuarterCircle is a quarter-circle window of a given radius;
	// diagonal reach is cut by Euclidean distance.
	ShapeQuarterCircle Shape = "quarter-circle"
)

// ParseShape parses a shape name.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case ShapeSquare:
		return ShapeSquare, nil
	case ShapeQuarterCircle:
		return ShapeQuarterCircle, nil
	default:
		return "", fmt.Errorf("invalid spread shape: %q (valid: square, quarter-circle)", s)
	}
}

// Spread is the shape and size of the neighbor window.
type Spread struct {
	Shape Shape
	Size  int
}

// Bounds is the bounding box (in whole pixels) that holds the spread
// shape, including the zero offset.
func (s Spread) Bounds() pixel.Dimensions {
	return pixel.Square(s.Size + 1)
}

// String returns the spread as "shape:size", e.g. "square:5".
func (s Spread) String() string {
	return fmt.Sprintf("%s:%d", s.Shape, s.Size)
}

// ParseSpread parses a "shape:size" string, e.g. "quarter-circle:4".
func ParseSpread(s string) (Spread, error) {
	name, sizeStr, ok := strings.Cut(s, ":")
	if !ok {
		return Spread{}, fmt.Errorf("invalid spread: %q (want shape:size, e.g. square:5)", s)
	}
	shape, err := ParseShape(name)
	if err != nil {
		return Spread{}, err
	}
	var size int
	if _, err := fmt.Sscanf(strings.TrimSpace(sizeStr), "%d", &size); err != nil {
		return Spread{}, fmt.Errorf("invalid spread size: %q", sizeStr)
	}
	return Spread{Shape: shape, Size: size}, nil
}

// Params is a fully resolved generation configuration. Construct one with
// Config.Resolve; the zero value is not valid.
type Params struct {
	Dimensions    pixel.Dimensions
	Spread        Spread
	DistancePower float64
	RandomPower   float64
	RandomMax     float64
	Gamma         float64
	StartColor    pixel.Color
	Seed          Seed
}

// Defaults, matching the reference parameter set.
const (
	DefaultWidth         = 3840
	DefaultHeight        = 2160
	DefaultSpreadSize    = 5
	DefaultDistancePower = -1.75
	DefaultRandomPower   = 3.5
	DefaultRandomMax     = 0.05
	DefaultGamma         = 0.75
)

// DefaultSpread is a square window of half-width 5.
var DefaultSpread = Spread{Shape: ShapeSquare, Size: DefaultSpreadSize}

// Validate checks the constraints the generator relies on. A valid Params
// makes the generation pipeline total: no division by zero in the
// neighbor average, and every stored channel provably in [0, 1].
func (p Params) Validate() error {
	if p.Dimensions.Width <= 0 || p.Dimensions.Height <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%d",
			p.Dimensions.Width, p.Dimensions.Height)
	}
	if p.Spread.Shape != ShapeSquare && p.Spread.Shape != ShapeQuarterCircle {
		return fmt.Errorf("invalid spread shape: %q", p.Spread.Shape)
	}
	// Size >= 1 guarantees at least one accepted neighbor for every
	// non-seed pixel, so the weighted average never degenerates to 0/0.
	if p.Spread.Size < 1 {
		return fmt.Errorf("spread size must be at least 1, got %d", p.Spread.Size)
	}
	if p.RandomMax < 0 {
		return fmt.Errorf("random max must be >= 0, got %v", p.RandomMax)
	}
	if p.Gamma <= 0 {
		return fmt.Errorf("gamma must be > 0, got %v", p.Gamma)
	}
	if !p.StartColor.InRange() {
		return fmt.Errorf("start color components must be in [0, 1], got %+v", p.StartColor)
	}
	return nil
}

// randomFloat draws a uniform value in [0, 1) from an entropy source.
func randomFloat(entropy io.Reader) (float64, error) {
	var raw [8]byte
	if _, err := io.ReadFull(entropy, raw[:]); err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}
	var v uint64
	for _, b := range raw {
		v = v<<8 | uint64(b)
	}
	return float64(v>>11) / (1 << 53), nil
}

// RandomColor draws a color with uniform [0, 1) components from an
// entropy source. Used for the default start color.
func RandomColor(entropy io.Reader) (pixel.Color, error) {
	var c pixel.Color
	var err error
	if c.Red, err = randomFloat(entropy); err != nil {
		return c, err
	}
	if c.Green, err = randomFloat(entropy); err != nil {
		return c, err
	}
	if c.Blue, err = randomFloat(entropy); err != nil {
		return c, err
	}
	return c, nil
}

// RandomSeed draws a fresh seed from an entropy source.
func RandomSeed(entropy io.Reader) (Seed, error) {
	var seed Seed
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return seed, fmt.Errorf("read entropy: %w", err)
	}
	return seed, nil
}
