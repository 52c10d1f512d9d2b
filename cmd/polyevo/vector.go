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

package main

import (
	"cmp"
	"image/color"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	pdfcolor "seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/polyevo"
	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/render"
)

// writePDF draws the current gene set as vector graphics.  One PDF unit
// corresponds to one target pixel, multiplied by scale.
func writePDF(name string, e *polyevo.Engine, scale float64) error {
	conf := e.Config()
	w := float64(e.Target().Width) * scale
	h := float64(e.Target().Height) * scale
	return drawPDF(name, e.Genes(), w, h, scale, conf.Background, conf.FillRule())
}

func drawPDF(name string, d render.Drawable, w, h, scale float64, bg color.NRGBA, rule render.FillRule) error {
	paper := &pdf.Rectangle{URx: w, URy: h}
	page, err := document.CreateSinglePage(name, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(rgb(bg))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// PDF has the origin in the bottom left corner
	page.Transform(matrix.Matrix{scale, 0, 0, -scale, 0, h})

	for _, p := range paintOrder(d) {
		page.SetFillColor(rgb(p.Color))
		page.SetFillAlpha(float64(p.Color.A) / 255)
		page.MoveTo(p.Points[0].X, p.Points[0].Y)
		for _, v := range p.Points[1:] {
			page.LineTo(v.X, v.Y)
		}
		page.ClosePath()
		if rule == render.EvenOdd {
			page.FillEvenOdd()
		} else {
			page.Fill()
		}
	}

	return page.Close()
}

// paintOrder returns the visible polygons of d, sorted by increasing
// depth.  Polygons with equal depth keep their order.
func paintOrder(d render.Drawable) []genome.Polygon {
	var polys []genome.Polygon
	for p := range d.Polygons() {
		if p.Color.A == 0 || len(p.Points) < genome.MinVertices {
			continue
		}
		polys = append(polys, p)
	}
	slices.SortStableFunc(polys, func(a, b genome.Polygon) int {
		return cmp.Compare(a.Z, b.Z)
	})
	return polys
}

func rgb(c color.NRGBA) pdfcolor.Color {
	return pdfcolor.DeviceRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
