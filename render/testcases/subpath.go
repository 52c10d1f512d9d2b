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

package testcases

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
)

// subpathCases hold several polygons in one path, the way a shared-colour
// chromosome could be drawn in a single fill.
var subpathCases = []TestCase{
	{
		Name:   "two_triangles",
		Path:   triangles([][2]float64{{16, 32}, {48, 32}}, 12),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "overlapping_rect_nonzero",
		Path:   overlapping(10, 10, 40, 40, 24, 24, 54, 54),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "overlapping_rect_evenodd",
		Path:   overlapping(10, 10, 40, 40, 24, 24, 54, 54),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "three_rings",
		Path:   rings(32+32, 32+32, 20, 10),
		Width:  128,
		Height: 128,
		Rule:   EvenOdd,
	},
	{
		Name:   "many_small_triangles",
		Path:   triangleField(8, 8, 5, 14),
		Width:  128,
		Height: 128,
		Rule:   NonZero,
	},
}

// precisionCases place the same shape at subpixel offsets and far from
// the origin.
var precisionCases = func() []TestCase {
	var res []TestCase
	for _, offset := range []float64{0, 0.25, 0.5, 0.75} {
		res = append(res, TestCase{
			Name:   fmt.Sprintf("subpixel_offset_%02d", int(offset*100)),
			Path:   rectangle(20+offset, 20+offset, 44+offset, 44+offset),
			Width:  64,
			Height: 64,
			Rule:   NonZero,
		})
	}
	res = append(res,
		TestCase{
			Name:   "large_offset",
			Path:   rectangle(10022, 10022, 10042, 10042),
			Width:  64,
			Height: 64,
			Rule:   NonZero,
			CTM:    matrix.Matrix{1, 0, 0, 1, -10000, -10000},
		},
		TestCase{
			Name:   "tiny_far_away",
			Path:   rectangle(1e5+31, 1e5+31, 1e5+33, 1e5+33),
			Width:  64,
			Height: 64,
			Rule:   EvenOdd,
			CTM:    matrix.Matrix{1, 0, 0, 1, -1e5, -1e5},
		},
		TestCase{
			Name:   "low_bits",
			Path:   rectangle(22.123456789012345, 22.123456789012345, 42.123456789012346, 42.123456789012346),
			Width:  64,
			Height: 64,
			Rule:   NonZero,
		},
	)
	return res
}()

func triangles(centres [][2]float64, size float64) *path.Data {
	p := &path.Data{}
	for _, c := range centres {
		p = polygon(p, pt(c[0], c[1]-size), pt(c[0]+size, c[1]+size), pt(c[0]-size, c[1]+size))
	}
	return p
}

func overlapping(x1a, y1a, x2a, y2a, x1b, y1b, x2b, y2b float64) *path.Data {
	p := polygon(&path.Data{}, pt(x1a, y1a), pt(x2a, y1a), pt(x2a, y2a), pt(x1a, y2a))
	return polygon(p, pt(x1b, y1b), pt(x2b, y1b), pt(x2b, y2b), pt(x1b, y2b))
}

// rings builds three square rings around (cx, cy).  Inner and outer
// squares have the same orientation.
func rings(cx, cy, outer, inner float64) *path.Data {
	p := &path.Data{}
	for _, c := range [][2]float64{{cx - 30, cy - 30}, {cx + 30, cy - 30}, {cx, cy + 30}} {
		for _, r := range []float64{outer, inner} {
			p = polygon(p,
				pt(c[0]-r, c[1]-r), pt(c[0]+r, c[1]-r),
				pt(c[0]+r, c[1]+r), pt(c[0]-r, c[1]+r))
		}
	}
	return p
}

func triangleField(rows, cols int, size, spacing float64) *path.Data {
	var centres [][2]float64
	for row := range rows {
		for col := range cols {
			centres = append(centres, [2]float64{10 + float64(col)*spacing, 10 + float64(row)*spacing})
		}
	}
	return triangles(centres, size)
}
