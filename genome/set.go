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

package genome

import (
	"iter"
	"math/rand/v2"
)

// Set is the collection of chromosomes making up one candidate image.
// Like a Chromosome, a Set is treated as immutable.
type Set []*Chromosome

// Len returns the total number of polygons in the set.
func (s Set) Len() int {
	n := 0
	for _, c := range s {
		n += c.Len()
	}
	return n
}

// Clone mutates every chromosome of the set, see [Chromosome.Clone].
func (s Set) Clone(rng *rand.Rand, m Mutation) (Set, error) {
	res := make(Set, len(s))
	for i, c := range s {
		clone, err := c.Clone(rng, m)
		if err != nil {
			return nil, err
		}
		res[i] = clone
	}
	return res, nil
}

// Polygons iterates over the polygons of all chromosomes, in set order.
func (s Set) Polygons() iter.Seq[Polygon] {
	return func(yield func(Polygon) bool) {
		for _, c := range s {
			for p := range c.Polygons() {
				if !yield(p) {
					return
				}
			}
		}
	}
}
