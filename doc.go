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

// Package polyevo approximates an image by a set of semi-transparent
// polygons.
//
// An [Engine] holds a single individual: a polygon gene set together with
// its rendering and its score.  Each call to [Engine.NextGeneration]
// clones the gene set with gaussian noise, renders the clone, and keeps
// it if its score is strictly lower than the current one.  The score is
// the sum of absolute RGB differences to the target image, divided by
// its maximal possible value, so that 0 means a perfect match.
//
// The sub-packages raster, genome, render and fitness provide pixel
// buffers, polygon chromosomes, drawing and scoring, respectively.
package polyevo
