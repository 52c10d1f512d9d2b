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
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"seehuhn.de/go/polyevo/genome"
	"seehuhn.de/go/polyevo/render"
)

// ErrConfig is returned for invalid configuration values.
var ErrConfig = errors.New("polyevo: invalid configuration")

// Config holds the tunable parameters of an [Engine].
type Config struct {
	// NumPolygons is the number of polygons in a random initial gene set.
	NumPolygons int `json:"num_polygons"`

	// NumVertices is the number of vertices per polygon.
	NumVertices int `json:"num_vertices"`

	// Margin enlarges the rectangle used for random vertices beyond the
	// canvas, relative to the canvas size on each side.
	Margin float64 `json:"margin"`

	SigmaVertex float64 `json:"sigma_vertex"`
	SigmaColor  float64 `json:"sigma_color"`
	SigmaZ      float64 `json:"sigma_z"`

	MinZ     float64 `json:"min_z"`
	MaxZ     float64 `json:"max_z"`
	MinAlpha uint8   `json:"min_alpha"`
	MaxAlpha uint8   `json:"max_alpha"`

	// Candidates is the number of proposals evaluated per generation.
	Candidates int `json:"candidates"`

	// Workers bounds the number of goroutines used to evaluate proposals.
	// Zero means GOMAXPROCS.
	Workers int `json:"workers"`

	// Seed initialises the random number generator.  Zero means a random
	// seed.
	Seed uint64 `json:"seed"`

	Background color.NRGBA `json:"background"`
	Antialias  bool        `json:"antialias"`
	EvenOdd    bool        `json:"even_odd"`
}

// NewConfig returns the default configuration.
func NewConfig() *Config {
	return &Config{
		NumPolygons: 100,
		NumVertices: 3,
		Margin:      0.25,
		SigmaVertex: 5,
		SigmaColor:  5,
		SigmaZ:      1,
		MinZ:        genome.DefaultLimits.MinZ,
		MaxZ:        genome.DefaultLimits.MaxZ,
		MinAlpha:    genome.DefaultLimits.MinAlpha,
		MaxAlpha:    genome.DefaultLimits.MaxAlpha,
		Candidates:  1,
		Background:  render.DefaultBackground,
		Antialias:   true,
		EvenOdd:     true,
	}
}

// LoadConfig reads a JSON configuration.  Fields missing from the input
// keep their default values, unknown fields are an error.
func LoadConfig(r io.Reader) (*Config, error) {
	conf := NewConfig()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(conf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Save writes the configuration as indented JSON.
func (c *Config) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Validate checks that all values are in range.
func (c *Config) Validate() error {
	if c.NumPolygons < 1 {
		return fmt.Errorf("%w: num_polygons is %d, need at least 1",
			ErrConfig, c.NumPolygons)
	}
	if c.NumVertices < genome.MinVertices {
		return fmt.Errorf("%w: num_vertices is %d, need at least %d",
			ErrConfig, c.NumVertices, genome.MinVertices)
	}
	if !(c.Margin >= 0) || math.IsInf(c.Margin, 1) {
		return fmt.Errorf("%w: margin %g", ErrConfig, c.Margin)
	}
	if err := c.Mutation().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if c.Candidates < 1 {
		return fmt.Errorf("%w: candidates is %d, need at least 1",
			ErrConfig, c.Candidates)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers is %d", ErrConfig, c.Workers)
	}
	return nil
}

// Limits returns the alpha and depth bounds.
func (c *Config) Limits() genome.Limits {
	return genome.Limits{
		MinZ:     c.MinZ,
		MaxZ:     c.MaxZ,
		MinAlpha: c.MinAlpha,
		MaxAlpha: c.MaxAlpha,
	}
}

// Mutation returns the noise parameters used to clone gene sets.
func (c *Config) Mutation() genome.Mutation {
	return genome.Mutation{
		SigmaVertex: c.SigmaVertex,
		SigmaColor:  c.SigmaColor,
		SigmaZ:      c.SigmaZ,
		Limits:      c.Limits(),
	}
}

// FillRule returns the fill rule selected by EvenOdd.
func (c *Config) FillRule() render.FillRule {
	if c.EvenOdd {
		return render.EvenOdd
	}
	return render.NonZero
}
