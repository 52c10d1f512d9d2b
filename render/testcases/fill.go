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
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

var fillCases = []TestCase{
	{
		Name:   "triangle_evenodd",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "triangle_nonzero",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "triangle_clockwise",
		Path:   triangle(10, 50, 54, 50, 32, 10),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "star_evenodd",
		Path:   star(32, 32, 25),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "star_nonzero",
		Path:   star(32, 32, 25),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 54, 54),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "rectangle_fractional",
		Path:   rectangle(10.3, 10.7, 53.2, 40.5),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "sliver",
		Path:   triangle(2, 30, 62, 31, 62, 32.5),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "bowtie_evenodd",
		Path:   polygon(&path.Data{}, pt(8, 8), pt(56, 56), pt(56, 8), pt(8, 56)),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "quadrilateral",
		Path:   polygon(&path.Data{}, pt(5, 20), pt(40, 3), pt(60, 45), pt(22, 60)),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "partly_outside",
		Path:   triangle(-30, -10, 50, 20, 10, 90),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "hole_evenodd",
		Path:   concentricSquares(32, 32, 24, 12, false),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
	{
		Name:   "hole_nonzero",
		Path:   concentricSquares(32, 32, 24, 12, true),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "same_direction_nonzero",
		Path:   concentricSquares(32, 32, 24, 12, false),
		Width:  64,
		Height: 64,
		Rule:   NonZero,
	},
	{
		Name:   "many_vertices",
		Path:   regularPolygon(32, 32, 28, 50),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
	},
}

var transformCases = []TestCase{
	{
		Name:   "scale_2x",
		Path:   triangle(0, 0, 20, 5, 8, 25),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
		CTM:    matrix.Scale(2, 2).Translate(6, 4),
	},
	{
		Name:   "scale_half",
		Path:   rectangle(0, 0, 80, 80),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
		CTM:    matrix.Scale(0.5, 0.5).Translate(12, 12),
	},
	{
		Name:   "scale_nonuniform",
		Path:   star(0, 0, 12),
		Width:  96,
		Height: 48,
		Rule:   NonZero,
		CTM:    matrix.Scale(3, 1.5).Translate(48, 24),
	},
	{
		Name:   "rotate_30deg",
		Path:   rectangle(-15, -10, 15, 10),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
		CTM:    matrix.RotateDeg(30).Translate(32, 32),
	},
	{
		Name:   "shear",
		Path:   rectangle(-15, -15, 15, 15),
		Width:  64,
		Height: 64,
		Rule:   EvenOdd,
		CTM:    matrix.Matrix{1, 0, 0.5, 1, 0, 0}.Translate(32, 32),
	},
}

func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return polygon(&path.Data{}, pt(x1, y1), pt(x2, y2), pt(x3, y3))
}

func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return polygon(&path.Data{}, pt(x1, y1), pt(x2, y1), pt(x2, y2), pt(x1, y2))
}

// star builds a self-intersecting five-pointed star.
func star(cx, cy, r float64) *path.Data {
	pts := make([]vec.Vec2, 5)
	for i := range pts {
		// visit every second corner of a pentagon
		angle := float64(2*i%5)*2*math.Pi/5 - math.Pi/2
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return polygon(&path.Data{}, pts...)
}

// regularPolygon builds a convex polygon with n corners.
func regularPolygon(cx, cy, r float64, n int) *path.Data {
	pts := make([]vec.Vec2, n)
	for i := range pts {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pts[i] = pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
	}
	return polygon(&path.Data{}, pts...)
}

// concentricSquares builds two squares around (cx, cy).  If reverse is
// set, the inner square has the opposite orientation.
func concentricSquares(cx, cy, outer, inner float64, reverse bool) *path.Data {
	p := polygon(&path.Data{},
		pt(cx-outer, cy-outer), pt(cx+outer, cy-outer),
		pt(cx+outer, cy+outer), pt(cx-outer, cy+outer))
	in := []vec.Vec2{
		pt(cx-inner, cy-inner), pt(cx+inner, cy-inner),
		pt(cx+inner, cy+inner), pt(cx-inner, cy+inner),
	}
	if reverse {
		in[1], in[3] = in[3], in[1]
	}
	return polygon(p, in...)
}
