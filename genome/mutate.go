// seehuhn.de/go/polyevo - approximate images with evolved polygons
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package genome

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrLimits is returned for inconsistent mutation or creation parameters.
var ErrLimits = errors.New("genome: invalid limits")

// Limits bounds the colour alpha and the depth of generated polygons.
type Limits struct {
	MinZ, MaxZ         float64
	MinAlpha, MaxAlpha uint8
}

// DefaultLimits allows the full alpha range and depths in [0, 1023].
var DefaultLimits = Limits{
	MinZ:     0,
	MaxZ:     1023,
	MinAlpha: 0,
	MaxAlpha: 255,
}

// Validate checks that the lower bounds do not exceed the upper bounds.
func (l Limits) Validate() error {
	if math.IsNaN(l.MinZ) || math.IsNaN(l.MaxZ) || l.MinZ > l.MaxZ {
		return fmt.Errorf("%w: z range [%g, %g]", ErrLimits, l.MinZ, l.MaxZ)
	}
	if l.MinAlpha > l.MaxAlpha {
		return fmt.Errorf("%w: alpha range [%d, %d]", ErrLimits, l.MinAlpha, l.MaxAlpha)
	}
	return nil
}

// Mutation describes the noise added by [Chromosome.Clone].
type Mutation struct {
	// SigmaVertex is the standard deviation of the noise added to each
	// vertex coordinate.
	SigmaVertex float64

	// SigmaColor is the standard deviation of the noise added to each
	// colour channel, including alpha.
	SigmaColor float64

	// SigmaZ is the standard deviation of the noise added to each depth.
	SigmaZ float64

	// Limits restricts alpha and depth after the noise is applied.
	Limits
}

// Validate checks the mutation parameters.
func (m Mutation) Validate() error {
	for _, s := range []struct {
		name  string
		value float64
	}{
		{"vertex", m.SigmaVertex},
		{"color", m.SigmaColor},
		{"z", m.SigmaZ},
	} {
		if !(s.value >= 0) || math.IsInf(s.value, 1) {
			return fmt.Errorf("%w: %s sigma %g", ErrLimits, s.name, s.value)
		}
	}
	return m.Limits.Validate()
}

// RandomOptions controls [CreateRandom].
type RandomOptions struct {
	// Color, if set, is shared by all polygons.  Otherwise every polygon
	// gets its own random colour.
	Color *color.NRGBA

	// Z, if set, is shared by all polygons.  Otherwise every polygon gets
	// its own random depth.
	Z *float64

	// Limits gives the range of random alpha and depth values.
	Limits
}

// CanvasRect returns the rectangle of a width×height canvas, enlarged on
// every side by margin times the corresponding canvas size.
func CanvasRect(width, height int, margin float64) rect.Rect {
	dx := margin * float64(width)
	dy := margin * float64(height)
	return rect.Rect{
		LLx: -dx,
		LLy: -dy,
		URx: float64(width) + dx,
		URy: float64(height) + dy,
	}
}

// CreateRandom creates a chromosome with n polygons of k vertices each.
// The vertex coordinates are uniformly distributed in r.
func CreateRandom(rng *rand.Rand, n, k int, r rect.Rect, opts RandomOptions) (*Chromosome, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one polygon, got %d", ErrShape, n)
	}
	if k < MinVertices {
		return nil, fmt.Errorf("%w: polygons have %d vertices, need at least %d",
			ErrShape, k, MinVertices)
	}
	if err := opts.Limits.Validate(); err != nil {
		return nil, err
	}

	ux := distuv.Uniform{Min: r.LLx, Max: r.URx, Src: rng}
	uy := distuv.Uniform{Min: r.LLy, Max: r.URy, Src: rng}
	c := &Chromosome{
		numVertices: k,
		vertices:    make([]vec.Vec2, n*k),
	}
	for i := range c.vertices {
		c.vertices[i] = vec.Vec2{X: ux.Rand(), Y: uy.Rand()}
	}

	if opts.Color != nil {
		c.colors = []color.NRGBA{*opts.Color}
	} else {
		alphaRange := int(opts.MaxAlpha) - int(opts.MinAlpha) + 1
		c.colors = make([]color.NRGBA, n)
		for i := range c.colors {
			c.colors[i] = color.NRGBA{
				R: uint8(rng.IntN(256)),
				G: uint8(rng.IntN(256)),
				B: uint8(rng.IntN(256)),
				A: opts.MinAlpha + uint8(rng.IntN(alphaRange)),
			}
		}
	}

	if opts.Z != nil {
		c.z = []float64{*opts.Z}
	} else {
		uz := distuv.Uniform{Min: opts.MinZ, Max: opts.MaxZ, Src: rng}
		c.z = make([]float64, n)
		for i := range c.z {
			c.z[i] = uz.Rand()
		}
	}

	return c, nil
}

// Clone returns a copy of c with gaussian noise added to all genes.
//
// Every vertex coordinate, colour channel and depth receives independent
// zero-mean noise with the standard deviations given in m.  A standard
// deviation of zero copies the attribute unchanged.  Afterwards the
// colour channels are clamped to [0, 255] (alpha to [MinAlpha, MaxAlpha])
// and rounded, and the depths are clamped to [MinZ, MaxZ].  Vertices are
// not clamped.
//
// The clone always has one colour and one depth per polygon.  A shared
// colour or depth is first copied to every polygon, and each copy then
// receives its own noise.
//
// The receiver is not modified.
func (c *Chromosome) Clone(rng *rand.Rand, m Mutation) (*Chromosome, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	n := c.Len()
	res := &Chromosome{
		numVertices: c.numVertices,
		vertices:    make([]vec.Vec2, len(c.vertices)),
		colors:      make([]color.NRGBA, n),
		z:           make([]float64, n),
	}

	vertexNoise := newNoise(rng, m.SigmaVertex)
	for i, v := range c.vertices {
		res.vertices[i] = vec.Vec2{X: vertexNoise(v.X), Y: vertexNoise(v.Y)}
	}

	colorNoise := newNoise(rng, m.SigmaColor)
	for i := range res.colors {
		col := c.colors[min(i, len(c.colors)-1)]
		res.colors[i] = color.NRGBA{
			R: toChannel(colorNoise(float64(col.R)), 0, 255),
			G: toChannel(colorNoise(float64(col.G)), 0, 255),
			B: toChannel(colorNoise(float64(col.B)), 0, 255),
			A: toChannel(colorNoise(float64(col.A)), m.MinAlpha, m.MaxAlpha),
		}
	}

	zNoise := newNoise(rng, m.SigmaZ)
	for i := range res.z {
		z := c.z[min(i, len(c.z)-1)]
		res.z[i] = min(max(zNoise(z), m.MinZ), m.MaxZ)
	}

	return res, nil
}

// newNoise returns a function which adds gaussian noise with the given
// standard deviation to its argument.
func newNoise(rng *rand.Rand, sigma float64) func(float64) float64 {
	if sigma == 0 {
		return func(x float64) float64 { return x }
	}
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: rng}
	return func(x float64) float64 {
		return x + dist.Rand()
	}
}

// toChannel clamps x to [lo, hi] and rounds it to the nearest integer.
func toChannel(x float64, lo, hi uint8) uint8 {
	x = min(max(x, float64(lo)), float64(hi))
	return uint8(math.Round(x))
}
