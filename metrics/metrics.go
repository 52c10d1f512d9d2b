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

// Package metrics exports the progress of an evolution run to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "polyevo"

// Collector records engine progress.  It implements the observer
// interface of the polyevo package.
type Collector struct {
	generations  prometheus.Counter
	improvements prometheus.Counter
	score        prometheus.Gauge
	generation   prometheus.Gauge
	steps        prometheus.Histogram

	lastImprovement int
}

// New creates the collectors for one run and registers them with reg.
// All metrics carry the label run="runID".
func New(reg prometheus.Registerer, runID string) (*Collector, error) {
	labels := prometheus.Labels{"run": runID}
	c := &Collector{
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "generations_total",
			Help:        "Number of completed generations.",
			ConstLabels: labels,
		}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "improvements_total",
			Help:        "Number of generations which replaced the current gene set.",
			ConstLabels: labels,
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "score",
			Help:        "Normalised score of the current gene set, 0 is a perfect match.",
			ConstLabels: labels,
		}),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "generation",
			Help:        "Index of the last completed generation.",
			ConstLabels: labels,
		}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "generations_between_improvements",
			Help:        "Number of generations needed for each improvement.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 16),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.generations, c.improvements, c.score, c.generation, c.steps,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Generation records the outcome of one generation.
func (c *Collector) Generation(gen int, accepted bool, score float64) {
	c.generations.Inc()
	c.generation.Set(float64(gen))
	c.score.Set(score)
	if accepted {
		c.improvements.Inc()
		c.steps.Observe(float64(gen - c.lastImprovement))
		c.lastImprovement = gen
	}
}
