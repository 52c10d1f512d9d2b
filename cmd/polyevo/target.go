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
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	// image formats accepted for the target
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/polyevo"
	"seehuhn.de/go/polyevo/raster"
)

// loadTarget reads an image file and converts it to a buffer.
func loadTarget(name string, maxSize int) (*raster.Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	buf, err := toBuffer(img, maxSize)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", name, format, err)
	}
	return buf, nil
}

// toBuffer converts img to RGBA, scaling it down if either side is
// larger than maxSize.  The aspect ratio is kept.  A maxSize of zero or
// less disables scaling.
func toBuffer(img image.Image, maxSize int) (*raster.Buffer, error) {
	src := img.Bounds()
	w, h := fitSize(src.Dx(), src.Dy(), maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Rect, img, src.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Rect, img, src, draw.Src, nil)
	}
	return raster.FromImage(dst)
}

func fitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, (h*maxSize+w/2)/w)
	}
	return max(1, (w*maxSize+h/2)/h), maxSize
}

func savePNG(logger *slog.Logger, name string, buf *raster.Buffer) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, buf.RGBA()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Debug("saved", "file", name)
	return nil
}

// snapshotter writes the current individual and its difference image.
// Nothing is written if the engine has not improved since the last
// snapshot.
type snapshotter struct {
	dir  string
	log  *slog.Logger
	last int
}

func (s *snapshotter) save(e *polyevo.Engine) error {
	if e.Improvements() == s.last {
		return nil
	}
	s.last = e.Improvements()

	st := e.State()
	suffix := snapshotSuffix(e.Generation(), st.Score)
	err := savePNG(s.log, filepath.Join(s.dir, "engine.individual."+suffix), st.Image)
	if err != nil {
		return err
	}
	err = savePNG(s.log, filepath.Join(s.dir, "engine.fitness."+suffix), st.Diff)
	if err != nil {
		return err
	}
	s.log.Info("snapshot", "generation", e.Generation(), "score", st.Score)
	return nil
}

func snapshotSuffix(gen int, score float64) string {
	return fmt.Sprintf("gen_%05d.score_%08.6f.png", gen, score)
}
