package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewDimensions(t *testing.T) {
	cases := []struct {
		w, h int
		ok   bool
	}{
		{1, 1, true},
		{3, 2, true},
		{0, 5, false},
		{5, 0, false},
		{-1, 4, false},
	}
	for _, c := range cases {
		buf, err := New(c.w, c.h)
		if c.ok {
			if err != nil {
				t.Errorf("New(%d, %d): unexpected error %v", c.w, c.h, err)
				continue
			}
			if len(buf.Pix) != c.w*c.h*4 {
				t.Errorf("New(%d, %d): len(Pix) = %d", c.w, c.h, len(buf.Pix))
			}
		} else if !errors.Is(err, ErrDimensions) {
			t.Errorf("New(%d, %d): got %v, want ErrDimensions", c.w, c.h, err)
		}
	}
}

func TestFromPix(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}

	buf, err := FromPix(2, 1, 32, pix)
	if err != nil {
		t.Fatal(err)
	}
	pix[0] = 99
	if buf.Pix[0] != 1 {
		t.Error("FromPix did not copy the pixel data")
	}

	if _, err := FromPix(2, 1, 24, pix[:6]); !errors.Is(err, ErrPixelDepth) {
		t.Errorf("24 bit data: got %v, want ErrPixelDepth", err)
	}
	if _, err := FromPix(2, 2, 32, pix); !errors.Is(err, ErrBufferSize) {
		t.Errorf("short data: got %v, want ErrBufferSize", err)
	}
}

func TestCheck(t *testing.T) {
	good, _ := New(3, 2)
	cases := []struct {
		buf  *Buffer
		want error
	}{
		{good, nil},
		{nil, ErrDimensions},
		{&Buffer{}, ErrDimensions},
		{&Buffer{Width: 3, Height: 2, Pix: make([]byte, 20)}, ErrBufferSize},
		{&Buffer{Width: 3, Height: 2, Pix: make([]byte, 25)}, ErrBufferSize},
	}
	for i, c := range cases {
		err := c.buf.Check()
		if c.want == nil && err != nil || c.want != nil && !errors.Is(err, c.want) {
			t.Errorf("%d: got %v, want %v", i, err, c.want)
		}
	}
}

func TestFromImage(t *testing.T) {
	// sub-image with a non-zero origin and a stride larger than the row
	full := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	full.SetNRGBA(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	sub := full.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	buf, err := FromImage(sub)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", buf.Width, buf.Height)
	}
	if got := buf.At(1, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("At(1, 0) = %v", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	if _, err := FromImage(gray); !errors.Is(err, ErrPixelDepth) {
		t.Errorf("gray image: got %v, want ErrPixelDepth", err)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 0, 3))
	if _, err := FromImage(empty); !errors.Is(err, ErrDimensions) {
		t.Errorf("empty image: got %v, want ErrDimensions", err)
	}
}

func TestFill(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 1}, {5, 7}} {
		buf, _ := New(size[0], size[1])
		c := color.RGBA{R: 1, G: 2, B: 3, A: 4}
		buf.Fill(c)
		for y := range buf.Height {
			for x := range buf.Width {
				if got := buf.At(x, y); got != c {
					t.Fatalf("%dx%d: At(%d, %d) = %v", size[0], size[1], x, y, got)
				}
			}
		}
	}
}

func TestCloneAndView(t *testing.T) {
	buf, _ := New(2, 2)
	buf.Set(1, 1, color.RGBA{R: 255, A: 255})

	cpy := buf.Clone()
	if !cpy.Equal(buf) {
		t.Fatal("clone differs from original")
	}
	cpy.Pix[0] = 7
	if buf.Pix[0] == 7 {
		t.Error("clone shares memory with original")
	}

	view := buf.RGBA()
	view.SetRGBA(0, 0, color.RGBA{G: 9})
	if buf.At(0, 0).G != 9 {
		t.Error("RGBA view does not share memory")
	}

	img := buf.NRGBA()
	img.Pix[0] = 42
	if buf.Pix[0] == 42 {
		t.Error("NRGBA shares memory with the buffer")
	}
}
