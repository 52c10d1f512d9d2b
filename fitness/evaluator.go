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

package fitness

import (
	"fmt"

	"seehuhn.de/go/polyevo/raster"
)

// Evaluator scores candidates against a fixed target image.
//
// The evaluator keeps its own copy of the target and never modifies it,
// so an Evaluator can be used from several goroutines at once.
type Evaluator struct {
	target   *raster.Buffer
	maxScore uint64
}

// NewEvaluator returns an evaluator for the given target.
func NewEvaluator(target *raster.Buffer) (*Evaluator, error) {
	if err := target.Check(); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	return &Evaluator{
		target:   target.Clone(),
		maxScore: MaxScore(target),
	}, nil
}

// Width returns the width of the target image.
func (e *Evaluator) Width() int { return e.target.Width }

// Height returns the height of the target image.
func (e *Evaluator) Height() int { return e.target.Height }

// MaxScore returns the cached maximal score for the target size.
func (e *Evaluator) MaxScore() uint64 { return e.maxScore }

// Target returns a copy of the target image.
func (e *Evaluator) Target() *raster.Buffer { return e.target.Clone() }

// Evaluate compares the candidate with the target.  It returns the
// normalised score together with the difference image.
func (e *Evaluator) Evaluate(candidate *raster.Buffer) (float64, *raster.Buffer, error) {
	diff, err := PixelAbsDiff(e.target, candidate)
	if err != nil {
		return 0, nil, err
	}
	score := float64(Score(diff)) / float64(e.maxScore)
	return score, diff, nil
}
