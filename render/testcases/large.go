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

import "seehuhn.de/go/geom/path"

// largeCases have bounding boxes above the dense buffer limit of the
// rasteriser, so that the scanline method is used by default.
var largeCases = []TestCase{
	{
		Name:   "large_rectangle",
		Path:   rectangle(50, 50, 462, 462),
		Width:  512,
		Height: 512,
		Rule:   EvenOdd,
	},
	{
		Name:   "large_hole_evenodd",
		Path:   concentricSquares(256, 256, 200, 100, false),
		Width:  512,
		Height: 512,
		Rule:   EvenOdd,
	},
	{
		Name:   "large_diamond",
		Path:   polygon(&path.Data{}, pt(256, 76), pt(436, 256), pt(256, 436), pt(76, 256)),
		Width:  512,
		Height: 512,
		Rule:   NonZero,
	},
	{
		Name:   "large_grid",
		Path:   triangleGrid(8, 8, 512, 512, 4),
		Width:  512,
		Height: 512,
		Rule:   EvenOdd,
	},
	{
		Name:   "large_clipped",
		Path:   triangle(-300, 100, 800, 50, 200, 700),
		Width:  512,
		Height: 512,
		Rule:   EvenOdd,
	},
}

// triangleGrid builds a rows×cols grid of triangles covering a
// width×height canvas.
func triangleGrid(rows, cols, width, height int, gap float64) *path.Data {
	cellW := float64(width) / float64(cols)
	cellH := float64(height) / float64(rows)

	p := &path.Data{}
	for row := range rows {
		for col := range cols {
			x1 := float64(col)*cellW + gap
			y1 := float64(row)*cellH + gap
			x2 := float64(col+1)*cellW - gap
			y2 := float64(row+1)*cellH - gap
			p = polygon(p, pt(x1, y1), pt(x2, y1), pt((x1+x2)/2, y2))
		}
	}
	return p
}
