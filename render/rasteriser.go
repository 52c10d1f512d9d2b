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

package render

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how the inside of a self-intersecting path is found.
type FillRule int

const (
	// EvenOdd fills a point if a ray from it crosses the outline an odd
	// number of times.
	EvenOdd FillRule = iota

	// NonZero fills a point if the winding number of the outline around it
	// is not zero.
	NonZero
)

func (rule FillRule) String() string {
	switch rule {
	case EvenOdd:
		return "evenodd"
	case NonZero:
		return "nonzero"
	default:
		return "invalid"
	}
}

// EmitFunc receives the coverage of one scanline segment.  Coverage values
// are in [0, 1], coverage[i] belongs to pixel (xMin+i, y).  The slice is
// only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// segment is a non-horizontal line in device coordinates.
type segment struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // inverse slope
}

func (s *segment) top() float64    { return min(s.y0, s.y1) }
func (s *segment) bottom() float64 { return max(s.y0, s.y1) }

// xAt returns the x coordinate of the segment's supporting line at height y.
func (s *segment) xAt(y float64) float64 {
	return s.x0 + s.dxdy*(y-s.y0)
}

// Rasteriser computes anti-aliased pixel coverage for polygonal paths.
//
// A Rasteriser is meant to be reused.  Its scratch buffers grow as needed
// and are kept between calls, so that filling a path does not allocate
// once the buffers have reached their working size.
type Rasteriser struct {
	// CTM maps path coordinates to device pixels.  The matrix must be
	// invertible.
	CTM matrix.Matrix

	// Clip is the device rectangle which receives output.  The corners
	// must have integer coordinates.
	Clip rect.Rect

	// areaLimit is the largest bounding box area, in pixels, which is
	// filled using the dense method.  Larger paths use the scanline
	// method.
	areaLimit int

	segs []segment

	// device space bounding box of segs
	devXMin, devXMax float64
	devYMin, devYMax float64

	cover     []float32 // signed vertical extent per pixel, later coverage
	area      []float32 // cover weighted by distance to the right pixel edge
	active    []int     // indices into segs
	rowLo     []int     // per row: leftmost pixel touched by a segment
	rowHi     []int     // per row: rightmost pixel touched by a segment
	crossings []float64 // y values where a segment enters a new pixel column
}

// NewRasteriser returns a Rasteriser with the identity CTM and the given
// clip rectangle.
func NewRasteriser(clip rect.Rect) *Rasteriser {
	return &Rasteriser{
		CTM:       matrix.Identity,
		Clip:      clip,
		areaLimit: denseAreaLimit,
	}
}

// Reset restores the CTM and sets a new clip rectangle.  The scratch
// buffers are kept.
func (r *Rasteriser) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	if r.areaLimit == 0 {
		r.areaLimit = denseAreaLimit
	}
	r.segs = r.segs[:0]
	r.active = r.active[:0]
	r.crossings = r.crossings[:0]
}

// Fill rasterises p using the given fill rule and reports the coverage
// row by row via emit.  Rows are reported at most once, in increasing
// order.  Pixels outside the clip rectangle are never reported.
//
// Only straight segments are supported.  Curve commands are replaced by
// a straight line to the curve's end point.
func (r *Rasteriser) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	if !r.buildSegments(p) {
		return
	}

	clipXMin, clipXMax := int(r.Clip.LLx), int(r.Clip.URx)
	clipYMin, clipYMax := int(r.Clip.LLy), int(r.Clip.URy)
	xMin := floorClamp(r.devXMin, clipXMin, clipXMax)
	xMax := floorClamp(r.devXMax+1, clipXMin, clipXMax)
	yMin := floorClamp(r.devYMin, clipYMin, clipYMax)
	yMax := floorClamp(r.devYMax+1, clipYMin, clipYMax)
	if xMin >= xMax || yMin >= yMax {
		return
	}

	if (xMax-xMin)*(yMax-yMin) <= r.areaLimit {
		r.fillDense(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.fillScanlines(xMin, xMax, yMin, yMax, rule, emit)
	}
}

// buildSegments converts p into device space segments.  The return value
// is false if no segment contributes to the coverage.
func (r *Rasteriser) buildSegments(p *path.Data) bool {
	r.segs = r.segs[:0]

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addSegment(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.addSegment(cur, p.Coords[k+1])
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.addSegment(cur, p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			r.addSegment(cur, start)
			cur = start
		}
	}
	return len(r.segs) > 0
}

func (r *Rasteriser) addSegment(from, to vec.Vec2) {
	m := r.CTM
	x0 := m[0]*from.X + m[2]*from.Y + m[4]
	y0 := m[1]*from.X + m[3]*from.Y + m[5]
	x1 := m[0]*to.X + m[2]*to.Y + m[4]
	y1 := m[1]*to.X + m[3]*to.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < minSegmentHeight {
		return
	}

	if len(r.segs) == 0 {
		r.devXMin, r.devXMax = min(x0, x1), max(x0, x1)
		r.devYMin, r.devYMax = min(y0, y1), max(y0, y1)
	} else {
		r.devXMin = min(r.devXMin, x0, x1)
		r.devXMax = max(r.devXMax, x0, x1)
		r.devYMin = min(r.devYMin, y0, y1)
		r.devYMax = max(r.devYMax, y0, y1)
	}
	r.segs = append(r.segs, segment{
		x0: x0, y0: y0,
		x1: x1, y1: y1,
		dxdy: (x1 - x0) / dy,
	})
}

// The coverage of a scanline is found from two per-pixel accumulators.
// For every piece of a segment inside pixel column x, cover[x] receives
// the signed height of the piece (positive when the segment points down)
// and area[x] receives the same height multiplied by the fraction of the
// pixel to the right of the piece.  Walking the row from left to right,
// the signed coverage of pixel x is area[x] plus the sum of cover[j] for
// all j < x.  Pieces left of the row window are added to its first pixel.

// accumulate adds the part of s inside scanline y to cover and area,
// which represent the pixel columns [xMin, xMax).
func (r *Rasteriser) accumulate(s *segment, y int, cover, area []float32, xMin, xMax int) {
	yTop := max(float64(y), s.top())
	yBot := min(float64(y+1), s.bottom())
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if s.y1 < s.y0 {
		sign = -1
	}

	xa, xb := s.xAt(yTop), s.xAt(yBot)
	colA := floorClamp(min(xa, xb), xMin-1, xMax)
	colB := floorClamp(max(xa, xb), xMin-1, xMax)

	switch {
	case colB < xMin:
		h := sign * float32(yBot-yTop)
		cover[0] += h
		area[0] += h
		return
	case colA >= xMax:
		return
	case colA == colB:
		addPiece(s, yTop, yBot, sign, cover, area, xMin, xMax)
		return
	}

	// split the piece where it crosses vertical pixel boundaries
	dydx := 1 / s.dxdy
	r.crossings = append(r.crossings[:0], yTop, yBot)
	for x := colA + 1; x <= colB; x++ {
		yx := s.y0 + dydx*(float64(x)-s.x0)
		if yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)
	for i := 1; i < len(r.crossings); i++ {
		if r.crossings[i] > r.crossings[i-1] {
			addPiece(s, r.crossings[i-1], r.crossings[i], sign, cover, area, xMin, xMax)
		}
	}
}

// addPiece adds the part of s between heights y0 < y1, which must lie
// within a single pixel column.
func addPiece(s *segment, y0, y1 float64, sign float32, cover, area []float32, xMin, xMax int) {
	h := sign * float32(y1-y0)
	xMid := s.xAt((y0 + y1) / 2)
	col := floorClamp(xMid, xMin-1, xMax)
	switch {
	case col < xMin:
		cover[0] += h
		area[0] += h
	case col < xMax:
		i := col - xMin
		cover[i] += h
		area[i] += h * float32(1-(xMid-float64(col)))
	}
}

// column returns the pixel column of s at the middle of scanline y,
// clamped to [xMin, xMax).  The second return value is false if s does
// not intersect the scanline.
func (s *segment) column(y, xMin, xMax int) (int, bool) {
	yTop := max(float64(y), s.top())
	yBot := min(float64(y+1), s.bottom())
	if yBot <= yTop {
		return 0, false
	}
	return floorClamp(s.xAt((yTop+yBot)/2), xMin, xMax-1), true
}

// floorClamp rounds x down and clamps the result to [lo, hi].  The
// clamping happens before the conversion to int, so that coordinates far
// outside the int range give lo or hi.
func floorClamp(x float64, lo, hi int) int {
	return int(min(max(math.Floor(x), float64(lo)), float64(hi)))
}

// resolve turns the accumulated values of one row into coverage.  The
// result is stored in cover.
func resolve(cover, area []float32, rule FillRule) {
	var acc float32
	for i := range cover {
		w := acc + area[i]
		acc += cover[i]
		if w < 0 {
			w = -w
		}
		if rule == NonZero {
			cover[i] = min(w, 1)
		} else {
			w -= 2 * float32(int(w/2))
			if w > 1 {
				w = 2 - w
			}
			cover[i] = w
		}
	}
}

// nonZeroSpan returns the shortest sub-slice of coverage containing all
// non-zero values, and its offset.  It returns nil if all values are zero.
func nonZeroSpan(coverage []float32) ([]float32, int) {
	lo := 0
	for lo < len(coverage) && coverage[lo] == 0 {
		lo++
	}
	if lo == len(coverage) {
		return nil, 0
	}
	hi := len(coverage)
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

// fillDense accumulates all segments into a buffer covering the whole
// bounding box, and then resolves the rows one by one.
func (r *Rasteriser) fillDense(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	h := yMax - yMin

	r.cover = slices.Grow(r.cover[:0], w*h)[:w*h]
	r.area = slices.Grow(r.area[:0], w*h)[:w*h]
	clear(r.cover)
	clear(r.area)
	r.rowLo = slices.Grow(r.rowLo[:0], h)[:h]
	r.rowHi = slices.Grow(r.rowHi[:0], h)[:h]
	for i := range h {
		r.rowLo[i] = xMax
		r.rowHi[i] = xMin - 1
	}

	for i := range r.segs {
		s := &r.segs[i]
		from := floorClamp(s.top(), yMin, yMax)
		to := floorClamp(s.bottom()+1, yMin, yMax)
		for y := from; y < to; y++ {
			row := y - yMin
			off := row * w
			r.accumulate(s, y, r.cover[off:off+w], r.area[off:off+w], xMin, xMax)
			if x, ok := s.column(y, xMin, xMax); ok {
				r.rowLo[row] = min(r.rowLo[row], x)
				r.rowHi[row] = max(r.rowHi[row], x)
			}
		}
	}

	for row := range h {
		if r.rowHi[row] < r.rowLo[row] {
			continue
		}
		off := row * w
		line := r.cover[off : off+w]
		resolve(line, r.area[off:off+w], rule)
		if span, i := nonZeroSpan(line); span != nil {
			emit(yMin+row, xMin+i, span)
		}
	}
}

// fillScanlines processes one row at a time, keeping a list of the
// segments which intersect the current row.
func (r *Rasteriser) fillScanlines(xMin, xMax, yMin, yMax int, rule FillRule, emit EmitFunc) {
	w := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], w)[:w]
	r.area = slices.Grow(r.area[:0], w)[:w]

	slices.SortFunc(r.segs, func(a, b segment) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.segs) && r.segs[next].top() < yf+1 {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			s := &r.segs[r.active[i]]
			if s.bottom() <= yf {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			r.accumulate(s, y, r.cover, r.area, xMin, xMax)
			if _, ok := s.column(y, xMin, xMax); ok {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		resolve(r.cover, r.area, rule)
		if span, i := nonZeroSpan(r.cover); span != nil {
			emit(y, xMin+i, span)
		}
	}
}

const (
	// denseAreaLimit is the largest bounding box area, in pixels, for
	// which Fill uses a two-dimensional accumulation buffer.
	// TODO: measure the crossover point with BenchmarkFillShapes.
	denseAreaLimit = 65536

	// minSegmentHeight is the smallest vertical extent of a segment which
	// contributes to the coverage.
	minSegmentHeight = 1e-10
)
