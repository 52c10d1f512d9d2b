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

// Package raster implements the fixed-format pixel buffer shared by the
// renderer, the fitness evaluator and the evolution engine.
//
// A Buffer stores width×height pixels in row-major order with four 8-bit
// channels per pixel, in the order R, G, B, A.  This is the memory layout
// of [image.RGBA], so a Buffer can be viewed as an image without copying.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
)

// BytesPerPixel is the number of bytes used to store one pixel.
const BytesPerPixel = 4

// Channel offsets within a pixel.
const (
	R = 0
	G = 1
	B = 2
	A = 3
)

// Validation errors.
var (
	// ErrDimensions is returned for buffers with a zero or negative size.
	ErrDimensions = errors.New("raster: invalid dimensions")

	// ErrPixelDepth is returned for source images which do not use
	// 32 bits per pixel.
	ErrPixelDepth = errors.New("raster: unsupported pixel depth")

	// ErrBufferSize is returned if a pixel slice does not match the
	// buffer dimensions.
	ErrBufferSize = errors.New("raster: pixel data size mismatch")
)

// Buffer is a width×height RGBA pixel grid with 8 bits per channel.
//
// Buffers are never shared implicitly: all constructors copy their input
// and all operations which produce a buffer return a new one.  The only
// exception is [Buffer.RGBA], which returns a borrowed view.
type Buffer struct {
	// Width and Height give the size of the buffer in pixels.
	Width, Height int

	// Pix holds the pixel data, row by row, with stride 4*Width.
	Pix []byte
}

// New allocates a buffer of the given size.  All channels are zero.
func New(width, height int) (*Buffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}, nil
}

// FromPix creates a buffer from raw pixel data in R, G, B, A order.
// The data is copied.  bitsPerPixel must be 32.
func FromPix(width, height, bitsPerPixel int, pix []byte) (*Buffer, error) {
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if bitsPerPixel != 8*BytesPerPixel {
		return nil, fmt.Errorf("%w: got %d bits per pixel, want %d",
			ErrPixelDepth, bitsPerPixel, 8*BytesPerPixel)
	}
	want := width * height * BytesPerPixel
	if len(pix) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d",
			ErrBufferSize, len(pix), want, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    bytes.Clone(pix),
	}, nil
}

// FromImage copies a 32-bit image into a new buffer.
//
// Only *image.RGBA and *image.NRGBA are accepted.  The channel bytes are
// copied verbatim, so the alpha convention of the source is kept.  Images
// with any other pixel format result in ErrPixelDepth; callers which want
// to use such images need to convert them first.
func FromImage(img image.Image) (*Buffer, error) {
	var pix []byte
	var stride int
	var rect image.Rectangle
	switch img := img.(type) {
	case *image.RGBA:
		pix, stride, rect = img.Pix, img.Stride, img.Rect
	case *image.NRGBA:
		pix, stride, rect = img.Pix, img.Stride, img.Rect
	default:
		return nil, fmt.Errorf("%w: %T is not a 32 bits per pixel image",
			ErrPixelDepth, img)
	}

	width, height := rect.Dx(), rect.Dy()
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}

	buf := &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
	rowLen := width * BytesPerPixel
	for y := range height {
		src := pix[y*stride : y*stride+rowLen]
		copy(buf.Pix[y*rowLen:(y+1)*rowLen], src)
	}
	return buf, nil
}

func checkDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrDimensions, width, height)
	}
	return nil
}

// Check verifies that b is non-nil, has positive dimensions and that
// len(b.Pix) equals Width*Height*BytesPerPixel.
func (b *Buffer) Check() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrDimensions)
	}
	if err := checkDimensions(b.Width, b.Height); err != nil {
		return err
	}
	if want := b.Width * b.Height * BytesPerPixel; len(b.Pix) != want {
		return fmt.Errorf("%w: %dx%d buffer has %d bytes, want %d",
			ErrBufferSize, b.Width, b.Height, len(b.Pix), want)
	}
	return nil
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return b.Width * BytesPerPixel
}

// Bounds returns the rectangle (0, 0)-(Width, Height).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// SameSize reports whether both buffers have the same width and height.
func (b *Buffer) SameSize(other *Buffer) bool {
	return b.Width == other.Width && b.Height == other.Height
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.Stride() + x*BytesPerPixel
}

// At returns the channel values of pixel (x, y).
func (b *Buffer) At(x, y int) color.RGBA {
	i := b.PixOffset(x, y)
	p := b.Pix[i : i+BytesPerPixel : i+BytesPerPixel]
	return color.RGBA{R: p[R], G: p[G], B: p[B], A: p[A]}
}

// Set stores the channel values of pixel (x, y).
func (b *Buffer) Set(x, y int, c color.RGBA) {
	i := b.PixOffset(x, y)
	p := b.Pix[i : i+BytesPerPixel : i+BytesPerPixel]
	p[R], p[G], p[B], p[A] = c.R, c.G, c.B, c.A
}

// Fill sets every pixel of the buffer to c.
func (b *Buffer) Fill(c color.RGBA) {
	if len(b.Pix) == 0 {
		return
	}
	px := [BytesPerPixel]byte{c.R, c.G, c.B, c.A}
	copy(b.Pix, px[:])
	// double the initialised prefix until the buffer is full
	for n := BytesPerPixel; n < len(b.Pix); n *= 2 {
		copy(b.Pix[n:], b.Pix[:n])
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    bytes.Clone(b.Pix),
	}
}

// Equal reports whether both buffers have the same size and content.
func (b *Buffer) Equal(other *Buffer) bool {
	return b.SameSize(other) && bytes.Equal(b.Pix, other.Pix)
}

// RGBA returns an image which shares its pixel memory with b.
//
// The returned image is a borrowed view: writes to it change the buffer,
// and it must not be used after the owner of b has released or replaced
// the buffer.  Use [Buffer.Clone] first if an independent image is needed.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride(),
		Rect:   b.Bounds(),
	}
}

// NRGBA returns a copy of the buffer as a non-premultiplied image.
// The channel bytes are copied verbatim.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    bytes.Clone(b.Pix),
		Stride: b.Stride(),
		Rect:   b.Bounds(),
	}
}

// String returns a short description of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("raster.Buffer(%dx%d)", b.Width, b.Height)
}
