/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"screenflow/internal/board"
)

// SVGOptions controls SVG export behavior.
// - Scale defines the pixel size of the width/height attributes; the
//   coordinate system stays in canvas units via the viewBox.
// - IncludeHeaders draws a feature header line above each section.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	IncludeHeaders bool
	Scale          float64
	CardStroke     Stroke
	CardFill       Color
	HeaderColor    Color
}

// ExportCanvasSVG writes a single-file SVG overview of the layout to
// outPath. Relative paths are created relative to the current directory.
func ExportCanvasSVG(l *board.Layout, canvasName, outPath string, opt SVGOptions) error {
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
	pxW := int(math.Round(frame.W * scale))
	pxH := int(math.Round(frame.H * scale))

	var buf bytes.Buffer
	var werr error
	wf := func(format string, args ...any) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(&buf, format, args...)
	}

	wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"%g %g %g %g\">\n",
		pxW, pxH, frame.X, frame.Y, frame.W, frame.H)
	// Background white
	wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", frame.X, frame.Y, frame.W, frame.H)
	if canvasName != "" {
		wf("  <title>%s</title>\n", escText(canvasName))
	}

	cs := svgColor(cardStroke.Color)
	cf := svgColor(cardFill)
	hc := svgColor(headerCol)

	for _, sec := range l.Sections {
		if opt.IncludeHeaders {
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"18\" font-weight=\"bold\" fill=\"%s\">%s</text>\n",
				sec.Header.Pos.X, sec.Header.Pos.Y, hc, escText(headerLabel(sec.Header)))
		}
		for _, c := range sec.Cards {
			r := c.Bounds()
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"8\" ry=\"8\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				r.X, r.Y, r.W, r.H, cf, cs, cardStroke.Width)
			// Label centered under the top edge of the card
			wf("  <text x=\"%g\" y=\"%g\" font-family=\"Helvetica, Arial, sans-serif\" font-size=\"13\" text-anchor=\"middle\" fill=\"#000\">%s</text>\n",
				r.X+r.W/2, r.Y+r.H-10, escText(c.PageName))
		}
	}

	wf("</svg>\n")

	if werr != nil {
		return fmt.Errorf("build svg: %w", werr)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func svgColor(c Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
