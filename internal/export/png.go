/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"screenflow/internal/board"
)

// PNGOptions controls PNG export behavior.
// - Scale: canvas units to pixels; 1 keeps the board's native size
// - IncludeHeaders: draw feature header labels above each section
// - Styles control colors and stroke widths; reasonable defaults are applied if zero values.
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	IncludeHeaders bool
	Scale          float64
	CardStroke     Stroke
	CardFill       Color
	HeaderColor    Color
}

// ExportCanvasPNG writes a raster overview of the layout to outPath.
// Card and header labels use a fixed bitmap face, so very long names are
// clipped at the card edge rather than wrapped.
func ExportCanvasPNG(l *board.Layout, canvasName, outPath string, opt PNGOptions) error {
	frame, err := contentFrame(l, opt.IncludeHeaders)
	if err != nil {
		return err
	}

	cardStroke := defaultCardStroke(opt.CardStroke)
	cardFill := defaultCardFill(opt.CardFill)
	headerCol := defaultHeaderColor(opt.HeaderColor)
	scale := opt.Scale
	if scale <= 0 {
		scale = 1
	}

	px := func(v float64) int { return int(math.Round(v * scale)) }
	tx := func(x float64) int { return px(x - frame.X) }
	ty := func(y float64) int { return px(y - frame.Y) }

	img := image.NewRGBA(image.Rect(0, 0, px(frame.W), px(frame.H)))
	// Background white
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	cs := toRGBA(cardStroke.Color)
	cf := toRGBA(cardFill)
	hc := toRGBA(headerCol)

	for _, sec := range l.Sections {
		if opt.IncludeHeaders {
			drawLabel(img, tx(sec.Header.Pos.X), ty(sec.Header.Pos.Y), headerLabel(sec.Header), hc)
		}
		for _, c := range sec.Cards {
			r := c.Bounds()
			x0, y0 := tx(r.X), ty(r.Y)
			x1, y1 := tx(r.X+r.W)-1, ty(r.Y+r.H)-1
			fillRect(img, x0, y0, x1, y1, cf)
			strokeRect(img, x0, y0, x1, y1, cs)
			drawLabel(img, x0+8, y1-8, clipLabel(c.PageName, int(r.W*scale)-16), color.RGBA{0, 0, 0, 255})
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close png: %w", err)
	}
	return nil
}

func toRGBA(c Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// drawLabel renders s with the 7x13 bitmap face, baseline at (x, y).
func drawLabel(img *image.RGBA, x, y int, s string, col color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// clipLabel truncates s so it fits in width pixels of the 7x13 face.
func clipLabel(s string, width int) string {
	max := width / 7
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	// top and bottom
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	// left and right
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}
