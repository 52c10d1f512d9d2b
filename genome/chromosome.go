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

// Package genome implements the polygon chromosomes which are evolved to
// approximate a target image.
//
// A chromosome is a list of polygons with a common number of vertices.
// Each polygon has a fill colour and a depth value z.  Colour and depth
// can either be shared by all polygons of a chromosome or be stored per
// polygon; which variant is used is fixed when the chromosome is created.
//
// Chromosomes are immutable.  Mutation is done by [Chromosome.Clone],
// which returns a perturbed copy.
package genome

import (
	"errors"
	"fmt"
	"image/color"
	"iter"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ErrShape is returned when the gene arrays passed to [New] are not
// consistent with each other.
var ErrShape = errors.New("genome: invalid chromosome shape")

// MinVertices is the smallest number of vertices a polygon can have.
const MinVertices = 3

// Polygon is the renderer-facing view of one gene.
type Polygon struct {
	// Points are the vertices of the polygon.  The slice is shared with
	// the chromosome and must not be modified.
	Points []vec.Vec2

	// Color is the fill colour, with straight (non-premultiplied) alpha.
	Color color.NRGBA

	// Z is the depth of the polygon.  Polygons with smaller Z are painted
	// first.
	Z float64
}

// Chromosome is an immutable list of polygons.
type Chromosome struct {
	numVertices int

	// vertices holds all polygon vertices, numVertices per polygon
	vertices []vec.Vec2

	// colors has either one entry (shared) or one entry per polygon
	colors []color.NRGBA

	// z has either one entry (shared) or one entry per polygon
	z []float64
}

// New creates a chromosome from explicit gene values.
//
// All polygons must have the same number of vertices, and at least
// MinVertices.  The colors slice must have length 1, in which case all
// polygons share this colour, or one entry per polygon.  The same rule
// applies to z.  The arguments are copied.
func New(vertices [][]vec.Vec2, colors []color.NRGBA, z []float64) (*Chromosome, error) {
	n := len(vertices)
	if n == 0 {
		return nil, fmt.Errorf("%w: no polygons", ErrShape)
	}
	k := len(vertices[0])
	if k < MinVertices {
		return nil, fmt.Errorf("%w: polygons have %d vertices, need at least %d",
			ErrShape, k, MinVertices)
	}
	for i, poly := range vertices {
		if len(poly) != k {
			return nil, fmt.Errorf("%w: polygon %d has %d vertices, want %d",
				ErrShape, i, len(poly), k)
		}
	}
	if len(colors) != 1 && len(colors) != n {
		return nil, fmt.Errorf("%w: got %d colours, want 1 or %d",
			ErrShape, len(colors), n)
	}
	if len(z) != 1 && len(z) != n {
		return nil, fmt.Errorf("%w: got %d z values, want 1 or %d",
			ErrShape, len(z), n)
	}

	c := &Chromosome{
		numVertices: k,
		vertices:    make([]vec.Vec2, 0, n*k),
		colors:      append([]color.NRGBA(nil), colors...),
		z:           append([]float64(nil), z...),
	}
	for _, poly := range vertices {
		c.vertices = append(c.vertices, poly...)
	}
	return c, nil
}

// Len returns the number of polygons.
func (c *Chromosome) Len() int {
	return len(c.vertices) / c.numVertices
}

// NumVertices returns the number of vertices per polygon.
func (c *Chromosome) NumVertices() int {
	return c.numVertices
}

// SharedColor reports whether all polygons use the same colour.
func (c *Chromosome) SharedColor() bool {
	return len(c.colors) == 1
}

// SharedZ reports whether all polygons use the same depth.
func (c *Chromosome) SharedZ() bool {
	return len(c.z) == 1
}

// Polygon returns polygon i.
func (c *Chromosome) Polygon(i int) Polygon {
	k := c.numVertices
	p := Polygon{
		Points: c.vertices[i*k : (i+1)*k : (i+1)*k],
		Color:  c.colors[0],
		Z:      c.z[0],
	}
	if len(c.colors) > 1 {
		p.Color = c.colors[i]
	}
	if len(c.z) > 1 {
		p.Z = c.z[i]
	}
	return p
}

// Polygons iterates over the polygons in chromosome order.
// The sequence can be iterated any number of times.
func (c *Chromosome) Polygons() iter.Seq[Polygon] {
	return func(yield func(Polygon) bool) {
		n := c.Len()
		for i := range n {
			if !yield(c.Polygon(i)) {
				return
			}
		}
	}
}

// Bounds returns the smallest rectangle containing all vertices.
func (c *Chromosome) Bounds() rect.Rect {
	r := rect.Rect{
		LLx: math.Inf(1), LLy: math.Inf(1),
		URx: math.Inf(-1), URy: math.Inf(-1),
	}
	for _, v := range c.vertices {
		r.LLx = min(r.LLx, v.X)
		r.LLy = min(r.LLy, v.Y)
		r.URx = max(r.URx, v.X)
		r.URy = max(r.URy, v.Y)
	}
	return r
}

// String returns a short description of the chromosome.
func (c *Chromosome) String() string {
	colors, z := "individual", "individual"
	if c.SharedColor() {
		colors = "shared"
	}
	if c.SharedZ() {
		z = "shared"
	}
	return fmt.Sprintf("Chromosome(%d polygons, %d vertices, %s colours, %s z)",
		c.Len(), c.numVertices, colors, z)
}
