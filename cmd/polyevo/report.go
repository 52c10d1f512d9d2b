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
	"fmt"
	"path/filepath"
	"time"

	"github.com/gosuri/uitable"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"seehuhn.de/go/polyevo"
)

// history records the initial score at generation 0 and the score after
// every improvement.
type history struct {
	gens   []int
	scores []float64
	last   int
}

// start discards all records and stores the score of the initial state.
func (h *history) start(score float64) {
	h.gens = append(h.gens[:0], 0)
	h.scores = append(h.scores[:0], score)
	h.last = 0
}

// Generation implements [polyevo.Observer].
func (h *history) Generation(gen int, accepted bool, score float64) {
	h.last = gen
	if accepted {
		h.gens = append(h.gens, gen)
		h.scores = append(h.scores, score)
	}
}

// intervals returns the number of generations between consecutive
// records, starting from generation 0.
func (h *history) intervals() []float64 {
	if len(h.gens) < 2 {
		return nil
	}
	res := make([]float64, len(h.gens)-1)
	for i := range res {
		res[i] = float64(h.gens[i+1] - h.gens[i])
	}
	return res
}

// plot draws the score over the generations and stores the plot as a PNG
// file.
func (h *history) plot(fileName, title string) error {
	p := plot.New()
	p.Title.Text = filepath.Base(title)
	p.X.Label.Text = "generation"
	p.Y.Label.Text = "score"

	// a step function, extended to the last generation
	pts := make(plotter.XYs, 0, 2*len(h.gens)+1)
	for i, gen := range h.gens {
		if i > 0 {
			pts = append(pts, plotter.XY{X: float64(gen), Y: h.scores[i-1]})
		}
		pts = append(pts, plotter.XY{X: float64(gen), Y: h.scores[i]})
	}
	if n := len(h.scores); n > 0 && h.last > h.gens[n-1] {
		pts = append(pts, plotter.XY{X: float64(h.last), Y: h.scores[n-1]})
	}
	if len(pts) == 0 {
		return nil
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line, plotter.NewGrid())
	return p.Save(6*vg.Inch, 4*vg.Inch, fileName)
}

func summary(e *polyevo.Engine, h *history, dir string, elapsed time.Duration) *uitable.Table {
	t := uitable.New()
	t.MaxColWidth = 60
	t.Wrap = true

	t.AddRow("output:", dir)
	t.AddRow("size:", fmt.Sprintf("%dx%d", e.Target().Width, e.Target().Height))
	t.AddRow("seed:", e.Seed())
	t.AddRow("generations:", e.Generation())
	t.AddRow("improvements:", e.Improvements())
	t.AddRow("polygons:", e.Genes().Len())
	t.AddRow("score:", fmt.Sprintf("%.6f", e.Score()))
	t.AddRow("difference:", fmt.Sprintf("%.0f / %d", e.Score()*float64(e.MaxScore()), e.MaxScore()))
	if gaps := h.intervals(); len(gaps) > 1 {
		mean, std := stat.MeanStdDev(gaps, nil)
		t.AddRow("generations per improvement:", fmt.Sprintf("%.1f ± %.1f", mean, std))
	}
	if elapsed > 0 && e.Generation() > 0 {
		rate := float64(e.Generation()) / elapsed.Seconds()
		t.AddRow("time:", fmt.Sprintf("%s (%.0f generations/s)", elapsed.Round(time.Millisecond), rate))
	}
	return t
}
