package render

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/raster"
)

func square(x0, y0, x1, y1 float64) []vec.Vec2 {
	return []vec.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func chromosome(t *testing.T, vertices [][]vec.Vec2, colors []color.NRGBA, z []float64) *genome.Chromosome {
	t.Helper()
	c, err := genome.New(vertices, colors, z)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newRenderer(t *testing.T, w, h int) *Renderer {
	t.Helper()
	r, err := NewRenderer(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func checkAll(t *testing.T, buf *raster.Buffer, want color.RGBA) {
	t.Helper()
	for y := range buf.Height {
		for x := range buf.Width {
			if got := buf.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNewRendererInvalid(t *testing.T) {
	for _, size := range [][2]int{{0, 1}, {1, 0}, {-3, 4}} {
		if _, err := NewRenderer(size[0], size[1]); !errors.Is(err, raster.ErrDimensions) {
			t.Errorf("%dx%d: got %v, want ErrDimensions", size[0], size[1], err)
		}
	}
}

func TestBackground(t *testing.T) {
	r := newRenderer(t, 7, 5)
	buf := r.Render(genome.Set{})
	checkAll(t, buf, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	r.Background = color.NRGBA{R: 1, G: 2, B: 3, A: 10}
	buf = r.Render(genome.Set{})
	checkAll(t, buf, color.RGBA{R: 1, G: 2, B: 3, A: 255})
}

func TestOpaqueCover(t *testing.T) {
	r := newRenderer(t, 6, 4)
	c := chromosome(t,
		[][]vec.Vec2{square(-1, -1, 7, 5)},
		[]color.NRGBA{{R: 255, A: 255}},
		[]float64{0})
	checkAll(t, r.Render(c), color.RGBA{R: 255, A: 255})
}

func TestDepthOrder(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	full := square(-1, -1, 5, 5)

	cases := []struct {
		name   string
		colors []color.NRGBA
		z      []float64
		want   color.RGBA
	}{
		{"red on top", []color.NRGBA{red, blue}, []float64{2, 1}, color.RGBA{R: 255, A: 255}},
		{"blue on top", []color.NRGBA{red, blue}, []float64{1, 2}, color.RGBA{B: 255, A: 255}},
		{"tie keeps order", []color.NRGBA{red, blue}, []float64{3, 3}, color.RGBA{B: 255, A: 255}},
		{"tie keeps order reversed", []color.NRGBA{blue, red}, []float64{3}, color.RGBA{R: 255, A: 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRenderer(t, 4, 4)
			c := chromosome(t, [][]vec.Vec2{full, full}, tc.colors, tc.z)
			checkAll(t, r.Render(c), tc.want)
		})
	}
}

func TestDepthOrderAcrossSet(t *testing.T) {
	full := square(-1, -1, 5, 5)
	a := chromosome(t, [][]vec.Vec2{full}, []color.NRGBA{{G: 255, A: 255}}, []float64{10})
	b := chromosome(t, [][]vec.Vec2{full}, []color.NRGBA{{R: 255, A: 255}}, []float64{5})

	r := newRenderer(t, 4, 4)
	checkAll(t, r.Render(genome.Set{a, b}), color.RGBA{G: 255, A: 255})
	checkAll(t, r.Render(genome.Set{b, a}), color.RGBA{G: 255, A: 255})
}

func TestAlphaBlend(t *testing.T) {
	r := newRenderer(t, 3, 3)
	r.Background = color.NRGBA{A: 255}
	c := chromosome(t,
		[][]vec.Vec2{square(-1, -1, 4, 4)},
		[]color.NRGBA{{R: 255, G: 255, B: 255, A: 128}},
		[]float64{0})
	checkAll(t, r.Render(c), color.RGBA{R: 128, G: 128, B: 128, A: 255})

	// two layers of 50% white over black
	c = chromosome(t,
		[][]vec.Vec2{square(-1, -1, 4, 4), square(-1, -1, 4, 4)},
		[]color.NRGBA{{R: 255, G: 255, B: 255, A: 128}},
		[]float64{0})
	buf := r.Render(c)
	got := buf.At(1, 1)
	if got.R < 190 || got.R > 192 || got.A != 255 {
		t.Errorf("pixel = %v, want about 191 and opaque", got)
	}
}

func TestTransparentPolygonIgnored(t *testing.T) {
	r := newRenderer(t, 4, 4)
	c := chromosome(t,
		[][]vec.Vec2{square(-1, -1, 5, 5)},
		[]color.NRGBA{{R: 255, G: 0, B: 0, A: 0}},
		[]float64{0})
	checkAll(t, r.Render(c), color.RGBA{R: 128, G: 128, B: 128, A: 255})
}

func TestClipping(t *testing.T) {
	r := newRenderer(t, 10, 10)
	outside := chromosome(t,
		[][]vec.Vec2{square(20, 20, 30, 30), square(-50, -50, -10, 5)},
		[]color.NRGBA{{R: 255, A: 255}},
		[]float64{0})
	checkAll(t, r.Render(outside), color.RGBA{R: 128, G: 128, B: 128, A: 255})

	partly := chromosome(t,
		[][]vec.Vec2{square(5, 5, 1000, 1000)},
		[]color.NRGBA{{R: 255, A: 255}},
		[]float64{0})
	buf := r.Render(partly)
	for y := range 10 {
		for x := range 10 {
			want := color.RGBA{R: 128, G: 128, B: 128, A: 255}
			if x >= 5 && y >= 5 {
				want = color.RGBA{R: 255, A: 255}
			}
			if got := buf.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestAntialias(t *testing.T) {
	// a triangle with many partially covered pixels
	c := chromosome(t,
		[][]vec.Vec2{{{X: 0.3, Y: 0.2}, {X: 15.7, Y: 3.1}, {X: 4.4, Y: 15.9}}},
		[]color.NRGBA{{R: 255, G: 255, B: 255, A: 255}},
		[]float64{0})

	r := newRenderer(t, 16, 16)
	r.Background = color.NRGBA{A: 255}
	smooth := r.Render(c)

	r.Antialias = false
	hard := r.Render(c)

	partial := 0
	for y := range 16 {
		for x := range 16 {
			if v := smooth.At(x, y).R; v != 0 && v != 255 {
				partial++
			}
			if v := hard.At(x, y).R; v != 0 && v != 255 {
				t.Fatalf("pixel (%d, %d) = %d without anti-aliasing", x, y, v)
			}
		}
	}
	if partial == 0 {
		t.Error("no partially covered pixels with anti-aliasing")
	}
}

func TestFillRuleSelfIntersecting(t *testing.T) {
	// the second pass around the square doubles the winding number
	loop := []vec.Vec2{
		{X: -1, Y: -1}, {X: 5, Y: -1}, {X: 5, Y: 5}, {X: -1, Y: 5},
		{X: -1, Y: -1}, {X: 5, Y: -1}, {X: 5, Y: 5}, {X: -1, Y: 5},
	}
	c := chromosome(t, [][]vec.Vec2{loop}, []color.NRGBA{{R: 255, A: 255}}, []float64{0})

	r := newRenderer(t, 4, 4)
	checkAll(t, r.Render(c), color.RGBA{R: 128, G: 128, B: 128, A: 255})

	r.Rule = NonZero
	checkAll(t, r.Render(c), color.RGBA{R: 255, A: 255})
}

func TestTransform(t *testing.T) {
	c := chromosome(t,
		[][]vec.Vec2{square(1, 1, 3, 3)},
		[]color.NRGBA{{G: 255, A: 255}},
		[]float64{0})

	r := newRenderer(t, 8, 8)
	r.Transform = matrix.Scale(2, 2)
	buf := r.Render(c)
	for y := range 8 {
		for x := range 8 {
			want := color.RGBA{R: 128, G: 128, B: 128, A: 255}
			if x >= 2 && x < 6 && y >= 2 && y < 6 {
				want = color.RGBA{G: 255, A: 255}
			}
			if got := buf.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestRenderInto(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c, err := genome.CreateRandom(rng, 20, 3, genome.CanvasRect(12, 9, 0.25),
		genome.RandomOptions{Limits: genome.DefaultLimits})
	if err != nil {
		t.Fatal(err)
	}

	r := newRenderer(t, 12, 9)
	want := r.Render(c)

	dst, _ := raster.New(12, 9)
	dst.Fill(color.RGBA{R: 7, A: 3})
	if err := r.RenderInto(dst, c); err != nil {
		t.Fatal(err)
	}
	if !dst.Equal(want) {
		t.Error("RenderInto and Render disagree")
	}

	// rendering is deterministic
	if !r.Render(c).Equal(want) {
		t.Error("second rendering differs")
	}

	for i := raster.A; i < len(dst.Pix); i += raster.BytesPerPixel {
		if dst.Pix[i] != 255 {
			t.Fatalf("alpha byte %d is %d, want 255", i, dst.Pix[i])
		}
	}

	wrong, _ := raster.New(9, 12)
	if err := r.RenderInto(wrong, c); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("got %v, want ErrSizeMismatch", err)
	}
	if err := r.RenderInto(nil, c); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("nil buffer: got %v, want ErrSizeMismatch", err)
	}
}
