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

// Package render draws polygon chromosomes into raster buffers.
//
// The [Rasteriser] computes anti-aliased pixel coverage for a path, and
// the [Renderer] uses it to composite the polygons of a chromosome, in
// order of increasing depth, onto an opaque background.
package render

import (
	"cmp"
	"errors"
	"fmt"
	"image/color"
	"iter"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/raster"
)

// ErrSizeMismatch is returned by [Renderer.RenderInto] if the destination
// buffer does not have the size of the renderer.
var ErrSizeMismatch = errors.New("render: buffer size mismatch")

// DefaultBackground is the canvas colour used by [NewRenderer].
var DefaultBackground = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

// Drawable is implemented by everything which can be rendered.
// Both [genome.Chromosome] and [genome.Set] implement this interface.
type Drawable interface {
	Polygons() iter.Seq[genome.Polygon]
}

// Renderer draws polygons into buffers of a fixed size.
//
// A Renderer keeps scratch buffers between calls and must not be used by
// more than one goroutine at a time.
type Renderer struct {
	// Background is the colour of the empty canvas.  The alpha channel
	// is ignored, the canvas is always opaque.
	Background color.NRGBA

	// Rule is the fill rule for self-intersecting polygons.
	Rule FillRule

	// Antialias enables fractional pixel coverage.  If false, a pixel is
	// painted if and only if at least half of it is covered.
	Antialias bool

	// Transform maps polygon coordinates to pixel coordinates.
	Transform matrix.Matrix

	width, height int

	ras   *Rasteriser
	polys []genome.Polygon
	path  path.Data

	// state used by blend
	dst  *raster.Buffer
	col  color.NRGBA
	emit EmitFunc
}

// NewRenderer returns a renderer for width×height buffers, using the
// default background, the even-odd fill rule, anti-aliasing and the
// identity transform.
func NewRenderer(width, height int) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", raster.ErrDimensions, width, height)
	}
	r := &Renderer{
		Background: DefaultBackground,
		Rule:       EvenOdd,
		Antialias:  true,
		Transform:  matrix.Identity,
		width:      width,
		height:     height,
		ras:        NewRasteriser(rect.Rect{URx: float64(width), URy: float64(height)}),
	}
	r.emit = r.blend
	return r, nil
}

// Width returns the width of the rendered images in pixels.
func (r *Renderer) Width() int { return r.width }

// Height returns the height of the rendered images in pixels.
func (r *Renderer) Height() int { return r.height }

// Render draws d into a new buffer.
func (r *Renderer) Render(d Drawable) *raster.Buffer {
	dst := &raster.Buffer{
		Width:  r.width,
		Height: r.height,
		Pix:    make([]byte, r.width*r.height*raster.BytesPerPixel),
	}
	r.draw(dst, d)
	return dst
}

// RenderInto draws d into dst, overwriting all previous content.
func (r *Renderer) RenderInto(dst *raster.Buffer, d Drawable) error {
	if dst == nil || dst.Width != r.width || dst.Height != r.height ||
		len(dst.Pix) != r.width*r.height*raster.BytesPerPixel {
		var w, h int
		if dst != nil {
			w, h = dst.Width, dst.Height
		}
		return fmt.Errorf("%w: buffer is %dx%d, renderer is %dx%d",
			ErrSizeMismatch, w, h, r.width, r.height)
	}
	r.draw(dst, d)
	return nil
}

func (r *Renderer) draw(dst *raster.Buffer, d Drawable) {
	bg := r.Background
	dst.Fill(color.RGBA{R: bg.R, G: bg.G, B: bg.B, A: 255})

	r.polys = r.polys[:0]
	for p := range d.Polygons() {
		if p.Color.A == 0 || len(p.Points) < genome.MinVertices {
			continue
		}
		r.polys = append(r.polys, p)
	}
	slices.SortStableFunc(r.polys, func(a, b genome.Polygon) int {
		return cmp.Compare(a.Z, b.Z)
	})

	clip := rect.Rect{URx: float64(r.width), URy: float64(r.height)}
	r.dst = dst
	for _, p := range r.polys {
		r.setPath(p)
		r.col = p.Color
		r.ras.Reset(clip)
		r.ras.CTM = r.Transform
		r.ras.Fill(&r.path, r.Rule, r.emit)
	}
	r.dst = nil
	clear(r.polys)
}

// setPath stores the closed outline of p in r.path.
func (r *Renderer) setPath(p genome.Polygon) {
	r.path.Cmds = append(r.path.Cmds[:0], path.CmdMoveTo)
	r.path.Coords = append(r.path.Coords[:0], p.Points...)
	for range len(p.Points) - 1 {
		r.path.Cmds = append(r.path.Cmds, path.CmdLineTo)
	}
	r.path.Cmds = append(r.path.Cmds, path.CmdClose)
}

// blend composites the current colour over one row of the destination.
func (r *Renderer) blend(y, xMin int, coverage []float32) {
	alpha := float32(r.col.A) / 255
	src := [3]float32{float32(r.col.R), float32(r.col.G), float32(r.col.B)}

	pix := r.dst.Pix[r.dst.PixOffset(xMin, y):]
	for i, c := range coverage {
		if !r.Antialias {
			if c < 0.5 {
				continue
			}
			c = 1
		}
		a := c * alpha
		if a <= 0 {
			continue
		}
		px := pix[i*raster.BytesPerPixel : i*raster.BytesPerPixel+3]
		for k, v := range src {
			px[k] = uint8(v*a + float32(px[k])*(1-a) + 0.5)
		}
	}
}
