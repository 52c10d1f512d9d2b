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

// Package fitness compares rendered candidates with a target image.
//
// The score of a candidate is the sum of the absolute per-channel
// differences of the red, green and blue channels, divided by the largest
// value this sum can take.  Scores lie in [0, 1]; lower is better.
package fitness

import (
	"errors"
	"fmt"

	"seehuhn.de/go/polyevo/raster"
)

// ErrSizeMismatch is returned when two buffers of different size are
// compared.
var ErrSizeMismatch = errors.New("fitness: buffer sizes differ")

// PixelAbsDiff returns a new buffer holding |a-b| in the red, green and
// blue channels.  The alpha channel of the result is always 255, so that
// the difference can be displayed as an opaque image.
func PixelAbsDiff(a, b *raster.Buffer) (*raster.Buffer, error) {
	if err := a.Check(); err != nil {
		return nil, err
	}
	if err := b.Check(); err != nil {
		return nil, err
	}
	if !a.SameSize(b) {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d",
			ErrSizeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	diff := &raster.Buffer{
		Width:  a.Width,
		Height: a.Height,
		Pix:    make([]byte, len(a.Pix)),
	}
	absDiffPix(diff.Pix, a.Pix, b.Pix)
	return diff, nil
}

// absDiffPix writes the opaque RGB difference of a and b to dst.
// All three slices must have the same length, a multiple of 4.
func absDiffPix(dst, a, b []byte) {
	for i := 0; i < len(dst); i += raster.BytesPerPixel {
		d := dst[i : i+4 : i+4]
		p := a[i : i+4 : i+4]
		q := b[i : i+4 : i+4]
		d[raster.R] = absDiff(p[raster.R], q[raster.R])
		d[raster.G] = absDiff(p[raster.G], q[raster.G])
		d[raster.B] = absDiff(p[raster.B], q[raster.B])
		d[raster.A] = 255
	}
}

func absDiff(x, y byte) byte {
	d := int(x) - int(y)
	if d < 0 {
		d = -d
	}
	return byte(d)
}

// Score returns the sum of the red, green and blue channel values of all
// pixels in diff.  A trailing partial pixel is ignored.
func Score(diff *raster.Buffer) uint64 {
	var total uint64
	pix := diff.Pix
	for i := 0; i+raster.BytesPerPixel <= len(pix); i += raster.BytesPerPixel {
		total += uint64(pix[i+raster.R]) + uint64(pix[i+raster.G]) + uint64(pix[i+raster.B])
	}
	return total
}

// MaxScore returns the largest value Score can return for buffers of the
// same size as buf, namely width*height*3*255.
func MaxScore(buf *raster.Buffer) uint64 {
	return uint64(buf.Width) * uint64(buf.Height) * 3 * 255
}

// NormalizedScore returns Score(PixelAbsDiff(target, candidate)) divided by
// MaxScore(target).  The result is 0 if the two images agree in all colour
// channels and 1 if they disagree maximally.
func NormalizedScore(candidate, target *raster.Buffer) (float64, error) {
	diff, err := PixelAbsDiff(target, candidate)
	if err != nil {
		return 0, err
	}
	return float64(Score(diff)) / float64(MaxScore(target)), nil
}
