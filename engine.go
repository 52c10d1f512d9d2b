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

package polyevo

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/polyevo/fitness"
	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/raster"
	"seehuhn.de/go/polyevo/render"
)

// State is a scored individual: a gene set together with its rendering,
// its difference image and its score.  A State is never modified after
// creation.
type State struct {
	Genes genome.Set
	Image *raster.Buffer
	Diff  *raster.Buffer
	Score float64
}

// Observer is notified after every generation.
type Observer interface {
	Generation(gen int, accepted bool, score float64)
}

// Option configures an [Engine].
type Option func(*Engine)

// WithLogger sets the logger used by the engine.  By default nothing is
// logged.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithObserver registers an observer.  The option can be given more than
// once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithGenes sets the initial gene set, instead of a random one.
func WithGenes(genes genome.Set) Option {
	return func(e *Engine) {
		e.initial = slices.Clone(genes)
	}
}

// Engine evolves a polygon gene set towards a target image by hill
// climbing.
//
// An Engine must not be used concurrently from more than one goroutine.
type Engine struct {
	conf     Config
	seed     uint64
	rng      *rand.Rand
	eval     *fitness.Evaluator
	renderer *render.Renderer

	// free holds one renderer per worker when proposals are evaluated
	// concurrently.
	free    chan *render.Renderer
	workers int

	log       *slog.Logger
	observers []Observer
	initial   genome.Set

	cur          *State
	generation   int
	accepted     bool
	improvements int
}

// New creates an engine for the given target image.  If conf is nil, the
// default configuration is used.  The target is copied.
//
// The initial gene set is rendered and scored before New returns.
func New(target *raster.Buffer, conf *Config, opts ...Option) (*Engine, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	eval, err := fitness.NewEvaluator(target)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		conf: *conf,
		eval: eval,
		log:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.seed = conf.Seed
	if e.seed == 0 {
		e.seed = rand.Uint64() | 1
	}
	e.rng = rand.New(rand.NewPCG(e.seed, seedStream))

	e.renderer, err = e.newRenderer(eval.Width(), eval.Height(), matrix.Identity)
	if err != nil {
		return nil, err
	}
	if conf.Candidates > 1 {
		e.workers = conf.Workers
		if e.workers == 0 {
			e.workers = runtime.GOMAXPROCS(0)
		}
		e.workers = min(e.workers, conf.Candidates)
		e.free = make(chan *render.Renderer, e.workers)
		e.free <- e.renderer
		for range e.workers - 1 {
			r, err := e.newRenderer(eval.Width(), eval.Height(), matrix.Identity)
			if err != nil {
				return nil, err
			}
			e.free <- r
		}
	}

	genes := e.initial
	for i, c := range genes {
		if c == nil {
			return nil, fmt.Errorf("%w: chromosome %d of the initial genes is nil", ErrConfig, i)
		}
	}
	if len(genes) == 0 {
		c, err := genome.CreateRandom(e.rng, conf.NumPolygons, conf.NumVertices,
			genome.CanvasRect(eval.Width(), eval.Height(), conf.Margin),
			genome.RandomOptions{Limits: conf.Limits()})
		if err != nil {
			return nil, err
		}
		genes = genome.Set{c}
	}
	e.initial = nil

	e.cur, err = e.evaluate(e.renderer, genes)
	if err != nil {
		return nil, err
	}

	e.log.Info("engine created",
		"width", eval.Width(),
		"height", eval.Height(),
		"polygons", genes.Len(),
		"candidates", conf.Candidates,
		"workers", max(e.workers, 1),
		"seed", e.seed,
		"score", e.cur.Score)
	return e, nil
}

// seedStream is the second PCG seed word.
const seedStream = 0x9e3779b97f4a7c15

func (e *Engine) newRenderer(width, height int, m matrix.Matrix) (*render.Renderer, error) {
	r, err := render.NewRenderer(width, height)
	if err != nil {
		return nil, err
	}
	r.Background = e.conf.Background
	r.Antialias = e.conf.Antialias
	r.Rule = e.conf.FillRule()
	r.Transform = m
	return r, nil
}

// evaluate renders and scores a gene set.
func (e *Engine) evaluate(r *render.Renderer, genes genome.Set) (*State, error) {
	img := r.Render(genes)
	score, diff, err := e.eval.Evaluate(img)
	if err != nil {
		return nil, err
	}
	return &State{Genes: genes, Image: img, Diff: diff, Score: score}, nil
}

// propose clones the current gene set using rng, and evaluates the clone.
func (e *Engine) propose(r *render.Renderer, rng *rand.Rand) (*State, error) {
	genes, err := e.cur.Genes.Clone(rng, e.conf.Mutation())
	if err != nil {
		return nil, err
	}
	return e.evaluate(r, genes)
}

// NextGeneration runs one generation.  A mutated copy of the current gene
// set is rendered and scored, and replaces the current state if its score
// is strictly lower.  If more than one candidate is configured, the
// candidates are evaluated concurrently and only the best one competes
// with the current state.
//
// Errors are not recoverable; the engine should not be used after an
// error.
func (e *Engine) NextGeneration() error {
	var best *State
	var err error
	if e.conf.Candidates == 1 {
		best, err = e.propose(e.renderer, e.rng)
	} else {
		best, err = e.proposeBatch()
	}
	if err != nil {
		return fmt.Errorf("generation %d: %w", e.generation+1, err)
	}

	e.accepted = best.Score < e.cur.Score
	if e.accepted {
		e.cur = best
		e.improvements++
	}
	e.generation++

	e.log.Debug("generation",
		"generation", e.generation,
		"accepted", e.accepted,
		"score", e.cur.Score)
	for _, o := range e.observers {
		o.Generation(e.generation, e.accepted, e.cur.Score)
	}
	return nil
}

// proposeBatch evaluates conf.Candidates proposals and returns the one
// with the lowest score.  Ties are resolved in favour of the lower index.
func (e *Engine) proposeBatch() (*State, error) {
	n := e.conf.Candidates

	// all randomness is drawn before the first goroutine starts
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = e.rng.Uint64()
	}

	results := make([]*State, n)
	p := pool.New().WithErrors().WithMaxGoroutines(e.workers)
	for i := range n {
		p.Go(func() error {
			r := <-e.free
			defer func() { e.free <- r }()

			rng := rand.New(rand.NewPCG(seeds[i], seedStream))
			s, err := e.propose(r, rng)
			if err != nil {
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			results[i] = s
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	best := results[0]
	for _, s := range results[1:] {
		if s.Score < best.Score {
			best = s
		}
	}
	return best, nil
}

// Run calls NextGeneration n times.  If after is not nil, it is called
// after every generation, and a non-nil return value stops the run.
func (e *Engine) Run(n int, after func(*Engine) error) error {
	for range n {
		if err := e.NextGeneration(); err != nil {
			return err
		}
		if after != nil {
			if err := after(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Preview renders the current gene set scaled by the given factor.
func (e *Engine) Preview(scale float64) (*raster.Buffer, error) {
	if !(scale > 0) {
		return nil, fmt.Errorf("%w: preview scale %g", ErrConfig, scale)
	}
	w := int(float64(e.eval.Width())*scale + 0.5)
	h := int(float64(e.eval.Height())*scale + 0.5)
	r, err := e.newRenderer(w, h, matrix.Scale(scale, scale))
	if err != nil {
		return nil, err
	}
	return r.Render(e.cur.Genes), nil
}

// Score returns the current normalised score.
func (e *Engine) Score() float64 { return e.cur.Score }

// Image returns a copy of the rendering of the current gene set.
func (e *Engine) Image() *raster.Buffer { return e.cur.Image.Clone() }

// Diff returns a copy of the difference image of the current gene set.
func (e *Engine) Diff() *raster.Buffer { return e.cur.Diff.Clone() }

// Genes returns the current gene set.
func (e *Engine) Genes() genome.Set { return slices.Clone(e.cur.Genes) }

// State returns the current individual.  The buffers are copies.
func (e *Engine) State() State {
	return State{
		Genes: e.Genes(),
		Image: e.Image(),
		Diff:  e.Diff(),
		Score: e.cur.Score,
	}
}

// Generation returns the number of completed generations.
func (e *Engine) Generation() int { return e.generation }

// Accepted reports whether the last generation replaced the current state.
func (e *Engine) Accepted() bool { return e.accepted }

// Improvements returns the number of accepted generations.
func (e *Engine) Improvements() int { return e.improvements }

// MaxScore returns the largest possible raw score for the target.
func (e *Engine) MaxScore() uint64 { return e.eval.MaxScore() }

// Target returns a copy of the target image.
func (e *Engine) Target() *raster.Buffer { return e.eval.Target() }

// Config returns a copy of the configuration.
func (e *Engine) Config() Config { return e.conf }

// Seed returns the seed of the random number generator.  This is
// useful to repeat a run which was started with a random seed.
func (e *Engine) Seed() uint64 { return e.seed }
