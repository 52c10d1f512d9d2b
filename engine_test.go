package polyevo

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/raster"
)

// testTarget returns a small image with a red square on a blue
// background.
func testTarget(t testing.TB, w, h int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	buf.Fill(color.RGBA{B: 200, A: 255})
	for y := h / 4; y < 3*h/4; y++ {
		for x := w / 4; x < 3*w/4; x++ {
			buf.Set(x, y, color.RGBA{R: 220, G: 30, A: 255})
		}
	}
	return buf
}

func testConfig() *Config {
	conf := NewConfig()
	conf.NumPolygons = 10
	conf.Seed = 42
	return conf
}

type recorder struct {
	gens     []int
	accepted int
	scores   []float64
}

func (r *recorder) Generation(gen int, accepted bool, score float64) {
	r.gens = append(r.gens, gen)
	if accepted {
		r.accepted++
	}
	r.scores = append(r.scores, score)
}

func TestNewFailsFast(t *testing.T) {
	if _, err := New(nil, nil); !errors.Is(err, raster.ErrDimensions) {
		t.Errorf("nil target: got %v, want ErrDimensions", err)
	}
	if _, err := New(&raster.Buffer{}, nil); !errors.Is(err, raster.ErrDimensions) {
		t.Errorf("empty target: got %v, want ErrDimensions", err)
	}
	bad := &raster.Buffer{Width: 2, Height: 2, Pix: make([]byte, 12)}
	if _, err := New(bad, nil); !errors.Is(err, raster.ErrBufferSize) {
		t.Errorf("short buffer: got %v, want ErrBufferSize", err)
	}

	conf := testConfig()
	conf.NumVertices = 2
	if _, err := New(testTarget(t, 8, 8), conf); !errors.Is(err, ErrConfig) {
		t.Errorf("bad config: got %v, want ErrConfig", err)
	}

	if _, err := New(testTarget(t, 8, 8), testConfig(), WithGenes(genome.Set{nil})); !errors.Is(err, ErrConfig) {
		t.Errorf("nil chromosome: got %v, want ErrConfig", err)
	}
}

func TestInitialState(t *testing.T) {
	target := testTarget(t, 16, 12)
	e, err := New(target, testConfig())
	if err != nil {
		t.Fatal(err)
	}

	if e.Generation() != 0 || e.Improvements() != 0 || e.Accepted() {
		t.Error("fresh engine has non-zero counters")
	}
	if e.MaxScore() != 16*12*3*255 {
		t.Errorf("MaxScore = %d", e.MaxScore())
	}
	if s := e.Score(); s <= 0 || s > 1 {
		t.Errorf("initial score %g outside (0, 1]", s)
	}
	if n := e.Genes().Len(); n != 10 {
		t.Errorf("initial gene set has %d polygons, want 10", n)
	}

	// the engine keeps its own copy of the target
	target.Fill(color.RGBA{})
	if e.Target().Equal(target) {
		t.Error("engine target changed together with the caller's buffer")
	}

	img := e.Image()
	img.Fill(color.RGBA{})
	if e.Image().Equal(img) {
		t.Error("Image returned the engine's buffer")
	}
}

func TestScoreNeverIncreases(t *testing.T) {
	rec := &recorder{}
	e, err := New(testTarget(t, 16, 16), testConfig(), WithObserver(rec))
	if err != nil {
		t.Fatal(err)
	}

	prev := e.Score()
	accepted := 0
	for i := range 200 {
		if err := e.NextGeneration(); err != nil {
			t.Fatal(err)
		}
		if e.Generation() != i+1 {
			t.Fatalf("Generation = %d, want %d", e.Generation(), i+1)
		}
		score := e.Score()
		if score > prev {
			t.Fatalf("generation %d: score increased from %g to %g", i+1, prev, score)
		}
		if e.Accepted() {
			accepted++
			if score >= prev {
				t.Fatalf("generation %d: accepted without improvement", i+1)
			}
		} else if score != prev {
			t.Fatalf("generation %d: rejected but score changed", i+1)
		}
		prev = score
	}

	if accepted == 0 {
		t.Error("no generation was accepted")
	}
	if e.Improvements() != accepted {
		t.Errorf("Improvements = %d, want %d", e.Improvements(), accepted)
	}
	if len(rec.gens) != 200 || rec.gens[199] != 200 || rec.accepted != accepted {
		t.Errorf("observer saw %d generations with %d accepted", len(rec.gens), rec.accepted)
	}
}

func TestStateIsConsistent(t *testing.T) {
	e, err := New(testTarget(t, 10, 10), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Run(50, nil); err != nil {
		t.Fatal(err)
	}

	s := e.State()
	r, err := e.newRenderer(10, 10, matrix.Identity)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Render(s.Genes).Equal(s.Image) {
		t.Error("image does not match the genes")
	}
	score, diff, err := e.eval.Evaluate(s.Image)
	if err != nil {
		t.Fatal(err)
	}
	if score != s.Score || !diff.Equal(s.Diff) {
		t.Error("score or diff do not match the image")
	}
}

func TestReproducible(t *testing.T) {
	for _, candidates := range []int{1, 4} {
		conf := testConfig()
		conf.Candidates = candidates
		conf.Workers = 3

		var scores [2][]float64
		for k := range scores {
			e, err := New(testTarget(t, 12, 12), conf)
			if err != nil {
				t.Fatal(err)
			}
			err = e.Run(30, func(e *Engine) error {
				scores[k] = append(scores[k], e.Score())
				return nil
			})
			if err != nil {
				t.Fatal(err)
			}
		}
		for i := range scores[0] {
			if scores[0][i] != scores[1][i] {
				t.Fatalf("candidates=%d: runs differ at generation %d", candidates, i+1)
			}
		}
	}
}

func TestBatchProposals(t *testing.T) {
	conf := testConfig()
	conf.Candidates = 6
	conf.Workers = 0

	single := testConfig()

	eBatch, err := New(testTarget(t, 16, 16), conf)
	if err != nil {
		t.Fatal(err)
	}
	eSingle, err := New(testTarget(t, 16, 16), single)
	if err != nil {
		t.Fatal(err)
	}
	if eBatch.Score() != eSingle.Score() {
		t.Fatal("same seed gives different initial states")
	}

	prev := eBatch.Score()
	for range 40 {
		if err := eBatch.NextGeneration(); err != nil {
			t.Fatal(err)
		}
		if eBatch.Score() > prev {
			t.Fatal("score increased in batch mode")
		}
		prev = eBatch.Score()
	}
	if eBatch.Generation() != 40 {
		t.Errorf("Generation = %d, want 40", eBatch.Generation())
	}
	if eBatch.Improvements() == 0 {
		t.Error("batch mode never improved")
	}
}

func TestZeroSigmaNeverAccepts(t *testing.T) {
	conf := testConfig()
	conf.SigmaVertex = 0
	conf.SigmaColor = 0
	conf.SigmaZ = 0
	e, err := New(testTarget(t, 8, 8), conf)
	if err != nil {
		t.Fatal(err)
	}
	start := e.Score()
	if err := e.Run(10, nil); err != nil {
		t.Fatal(err)
	}
	if e.Improvements() != 0 || e.Score() != start {
		t.Error("identical clones must be rejected")
	}
}

func TestWithGenes(t *testing.T) {
	target := testTarget(t, 8, 8)

	// one opaque polygon covering the canvas in the target's background
	c, err := genome.New(
		[][]vec.Vec2{{{X: -1, Y: -1}, {X: 9, Y: -1}, {X: 9, Y: 9}, {X: -1, Y: 9}}},
		[]color.NRGBA{{B: 200, A: 255}},
		[]float64{0},
	)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New(target, testConfig(), WithGenes(genome.Set{c}))
	if err != nil {
		t.Fatal(err)
	}
	// only the red square differs
	want := float64(16*(220+30+200)) / float64(8*8*3*255)
	if e.Score() != want {
		t.Errorf("score = %g, want %g", e.Score(), want)
	}
	if e.Genes().Len() != 1 {
		t.Errorf("gene set has %d polygons, want 1", e.Genes().Len())
	}
}

func TestRunStops(t *testing.T) {
	e, err := New(testTarget(t, 8, 8), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	stop := errors.New("stop")
	err = e.Run(100, func(e *Engine) error {
		if e.Generation() == 7 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Errorf("got %v, want stop", err)
	}
	if e.Generation() != 7 {
		t.Errorf("Generation = %d, want 7", e.Generation())
	}
}

func TestPreview(t *testing.T) {
	e, err := New(testTarget(t, 10, 6), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	img, err := e.Preview(2.5)
	if err != nil {
		t.Fatal(err)
	}
	if img.Width != 25 || img.Height != 15 {
		t.Errorf("preview is %dx%d, want 25x15", img.Width, img.Height)
	}
	if _, err := e.Preview(0); !errors.Is(err, ErrConfig) {
		t.Errorf("zero scale: got %v, want ErrConfig", err)
	}
}

func TestRandomSeed(t *testing.T) {
	conf := testConfig()
	conf.Seed = 0
	e, err := New(testTarget(t, 4, 4), conf)
	if err != nil {
		t.Fatal(err)
	}
	if e.Seed() == 0 {
		t.Error("no seed was chosen")
	}

	// the reported seed repeats the run
	conf.Seed = e.Seed()
	e2, err := New(testTarget(t, 4, 4), conf)
	if err != nil {
		t.Fatal(err)
	}
	if e.Score() != e2.Score() {
		t.Error("run could not be repeated from the reported seed")
	}
}

func BenchmarkNextGeneration(b *testing.B) {
	for _, candidates := range []int{1, 8} {
		b.Run(fmt.Sprintf("candidates=%d", candidates), func(b *testing.B) {
			conf := NewConfig()
			conf.Seed = 1
			conf.Candidates = candidates
			e, err := New(testTarget(b, 64, 64), conf)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for b.Loop() {
				if err := e.NextGeneration(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
