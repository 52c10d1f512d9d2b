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

// Polyevo approximates an image by a set of semi-transparent polygons.
//
// Usage:
//
//	polyevo [flags] target.png
//
// Every run writes into a new directory below -out, named after a random
// run identifier.  The directory receives the configuration used, the
// target image, snapshots of the current individual and its difference
// image, a scaled rendering of the final individual as PNG and as PDF
// and, if requested, a plot of the score over the generations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"seehuhn.de/go/polyevo"
	"seehuhn.de/go/polyevo/metrics"
)

type options struct {
	config      string
	generations int
	every       int
	out         string
	maxSize     int
	scale       float64
	seed        uint64
	candidates  int
	metrics     string
	plot        bool
	logLevel    string
}

func main() {
	opt := &options{}
	flag.StringVar(&opt.config, "config", "", "read the configuration from this JSON `file`")
	flag.IntVar(&opt.generations, "generations", 100000, "number of generations to run")
	flag.IntVar(&opt.every, "every", 100, "write snapshots every `n` generations")
	flag.StringVar(&opt.out, "out", "output", "output `directory`")
	flag.IntVar(&opt.maxSize, "max-size", 256, "scale the target down so that neither side exceeds `n` pixels (0 keeps the size)")
	flag.Float64Var(&opt.scale, "scale", 1, "scale factor for the final rendering")
	flag.Uint64Var(&opt.seed, "seed", 0, "random seed, overrides the configuration")
	flag.IntVar(&opt.candidates, "candidates", 0, "candidates per generation, overrides the configuration")
	flag.StringVar(&opt.metrics, "metrics", "", "serve Prometheus metrics on this `address`")
	flag.BoolVar(&opt.plot, "plot", true, "plot the score history")
	flag.StringVar(&opt.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] target-image\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opt.logLevel)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, logger, opt, flag.Arg(0))
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, opt *options, targetName string) error {
	conf, err := loadConfig(opt.config)
	if err != nil {
		return err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			conf.Seed = opt.seed
		case "candidates":
			conf.Candidates = opt.candidates
		}
	})

	target, err := loadTarget(targetName, opt.maxSize)
	if err != nil {
		return err
	}
	logger.Info("target loaded", "file", targetName, "width", target.Width, "height", target.Height)

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	runID := id.String()
	dir := filepath.Join(opt.out, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	logger = logger.With("run", runID)

	reg := prometheus.NewRegistry()
	if opt.metrics != "" {
		srv := &http.Server{
			Addr:              opt.metrics,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			err := srv.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "address", opt.metrics)
	}
	collector, err := metrics.New(reg, runID)
	if err != nil {
		return err
	}

	hist := &history{}
	e, err := polyevo.New(target, conf,
		polyevo.WithLogger(logger),
		polyevo.WithObserver(collector),
		polyevo.WithObserver(hist))
	if err != nil {
		return err
	}
	hist.start(e.Score())

	// store the configuration with the seed which was actually used
	used := e.Config()
	used.Seed = e.Seed()
	if err := writeConfig(filepath.Join(dir, "engine.config.json"), &used); err != nil {
		return err
	}
	if err := savePNG(logger, filepath.Join(dir, "engine.target.png"), e.Target()); err != nil {
		return err
	}

	snap := &snapshotter{dir: dir, log: logger, last: -1}
	if err := snap.save(e); err != nil {
		return err
	}
	start := time.Now()
	err = e.Run(opt.generations, func(e *polyevo.Engine) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opt.every > 0 && e.Generation()%opt.every == 0 {
			return snap.save(e)
		}
		return nil
	})
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted", "generation", e.Generation())
	} else if err != nil {
		return err
	}
	elapsed := time.Since(start)

	if err := snap.save(e); err != nil {
		return err
	}
	final, err := e.Preview(opt.scale)
	if err != nil {
		return err
	}
	if err := savePNG(logger, filepath.Join(dir, "engine.final.png"), final); err != nil {
		return err
	}
	pdfName := filepath.Join(dir, "engine.final.pdf")
	if err := writePDF(pdfName, e, opt.scale); err != nil {
		return err
	}
	logger.Debug("saved", "file", pdfName)
	if opt.plot {
		plotName := filepath.Join(dir, "engine.score.png")
		if err := hist.plot(plotName, targetName); err != nil {
			return err
		}
		logger.Info("saved", "file", plotName)
	}

	fmt.Println(summary(e, hist, dir, elapsed))
	return nil
}

func loadConfig(name string) (*polyevo.Config, error) {
	if name == "" {
		return polyevo.NewConfig(), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	conf, err := polyevo.LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return conf, nil
}

func writeConfig(name string, conf *polyevo.Config) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := conf.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
