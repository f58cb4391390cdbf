/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders a canvas layout to shareable documents: cards as
// labelled rectangles in canvas coordinates, grouped under their feature
// headers, as SVG, PNG, or PDF.
package export

import (
	"fmt"

	"screenflow/internal/board"
	"screenflow/internal/vector"
)

// Color is an sRGB color with alpha.
type Color struct {
	R, G, B, A uint8
}

// Stroke combines a color with a line width in canvas units.
type Stroke struct {
	Color Color
	Width float64
}

// framePadding is the whitespace kept around the content bounds.
const framePadding = 40.0

func defaultCardStroke(s Stroke) Stroke {
	if s.Width == 0 {
		return Stroke{Color: Color{R: 60, G: 60, B: 60, A: 255}, Width: 1}
	}
	return s
}

func defaultCardFill(c Color) Color {
	if c.A == 0 && c.R == 0 && c.G == 0 && c.B == 0 {
		return Color{R: 245, G: 245, B: 245, A: 255}
	}
	return c
}

func defaultHeaderColor(c Color) Color {
	if c.A == 0 && c.R == 0 && c.G == 0 && c.B == 0 {
		return Color{R: 30, G: 30, B: 30, A: 255}
	}
	return c
}

// contentFrame returns the drawing frame for a layout: the content bounds
// extended upward for section headers and padded on all sides.
func contentFrame(l *board.Layout, includeHeaders bool) (vector.Rect, error) {
	if l == nil || l.Empty {
		return vector.Rect{}, fmt.Errorf("layout is empty")
	}
	b := l.ContentBounds()
	if b.Empty() {
		return vector.Rect{}, fmt.Errorf("layout has no content")
	}
	top := b.Y
	if includeHeaders {
		top -= board.HeaderOffset
	}
	return vector.R(
		b.X-framePadding,
		top-framePadding,
		b.W+2*framePadding,
		b.Y-top+b.H+2*framePadding,
	), nil
}

func headerLabel(h board.Header) string {
	return fmt.Sprintf("%s [%s] (%d)", h.Name, h.Platform, h.ScreenCount)
}
