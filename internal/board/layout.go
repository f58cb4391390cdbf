/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"math"

	"screenflow/internal/domain"
	"screenflow/internal/vector"
)

// Grid layout constants. Cards without a saved position fall back to a
// deterministic grid: x = GridStartX + col*(CardWidth+GridGapX),
// y = currentY + row*(CardHeight+GridGapY).
const (
	GridStartX     = 50.0
	GridGapX       = 40.0
	GridGapY       = 40.0
	SectionSpacing = 80.0 // room for the next section header below a feature's rows

	// LayoutStartY leaves space above the first feature's rows for its
	// header, which renders HeaderOffset above the row.
	LayoutStartY = 100.0
	HeaderOffset = 60.0

	gridMinColumns = 3
	gridMaxColumns = 4
)

// GridColumns returns the column count for n cards: ceil(sqrt(n)) clamped
// to [3,4].
func GridColumns(n int) int {
	if n <= 0 {
		return gridMinColumns
	}
	c := int(math.Ceil(math.Sqrt(float64(n))))
	if c < gridMinColumns {
		return gridMinColumns
	}
	if c > gridMaxColumns {
		return gridMaxColumns
	}
	return c
}

// Header is a feature section header rendered above the feature's cards.
type Header struct {
	FeatureID   string
	Name        string
	Platform    string // badge text: "mobile" or "web"
	ScreenCount int
	Pos         domain.Position
}

// Section groups one feature's header with its visible cards.
type Section struct {
	Header Header
	Cards  []Card
}

// Layout is the computed card arrangement for one canvas render pass.
type Layout struct {
	Sections []Section
	// Empty is set when filtering yields zero visible cards; the UI shows
	// an empty-canvas affordance instead of an error.
	Empty bool
}

// BuildLayout arranges the visible pages of every feature for the given
// canvas. In show-all mode every page is visible; in curated mode only
// pages whose composite key exists in the canvas position map. Cards take
// their saved position when present, otherwise the grid fallback.
func BuildLayout(features []domain.Feature, canvas domain.Canvas) Layout {
	showAll := canvas.ShowsAllScreens()
	var out Layout
	currentY := LayoutStartY

	for _, f := range features {
		var visible []domain.Page
		for _, p := range f.Pages {
			if showAll {
				visible = append(visible, p)
				continue
			}
			if _, ok := canvas.FeaturePositions[domain.CompositeKey(f.FeatureID, p.PageID)]; ok {
				visible = append(visible, p)
			}
		}
		if len(visible) == 0 {
			continue
		}

		sec := Section{Header: Header{
			FeatureID:   f.FeatureID,
			Name:        f.FeatureName,
			Platform:    f.Platform,
			ScreenCount: len(visible),
			Pos:         domain.Position{X: GridStartX, Y: currentY - HeaderOffset},
		}}

		columns := GridColumns(len(visible))
		rows := (len(visible) + columns - 1) / columns
		for i, p := range visible {
			card := Card{
				FeatureID: f.FeatureID,
				PageID:    p.PageID,
				PageName:  p.PageName,
				Height:    CardHeight,
			}
			if pos, ok := canvas.FeaturePositions[card.Key()]; ok {
				card.Pos = pos
				card.Saved = true
			} else {
				col := i % columns
				row := i / columns
				card.Pos = domain.Position{
					X: GridStartX + float64(col)*(CardWidth+GridGapX),
					Y: currentY + float64(row)*(CardHeight+GridGapY),
				}
			}
			sec.Cards = append(sec.Cards, card)
		}
		out.Sections = append(out.Sections, sec)
		currentY += float64(rows)*(CardHeight+GridGapY) + SectionSpacing
	}

	if len(out.Sections) == 0 {
		out.Empty = true
	}
	return out
}

// Cards returns pointers to every card in render order. The pointers alias
// the layout's storage so drag updates mutate the rendered arrangement.
func (l *Layout) Cards() []*Card {
	var out []*Card
	for si := range l.Sections {
		for ci := range l.Sections[si].Cards {
			out = append(out, &l.Sections[si].Cards[ci])
		}
	}
	return out
}

// Find returns the card with the composite key, or nil.
func (l *Layout) Find(key string) *Card {
	for _, c := range l.Cards() {
		if c.Key() == key {
			return c
		}
	}
	return nil
}

// ContentBounds is the bounding box of all rendered cards, used by
// fit-to-screen. An empty layout yields a zero-size rect.
func (l *Layout) ContentBounds() vector.Rect {
	var rects []vector.Rect
	for _, c := range l.Cards() {
		rects = append(rects, c.Bounds())
	}
	return vector.BoundsOf(rects)
}

// Positions collects the current position of every card, keyed by
// composite key, in the shape the persistence service stores.
func (l *Layout) Positions() map[string]domain.Position {
	out := make(map[string]domain.Position)
	for _, c := range l.Cards() {
		out[c.Key()] = c.Pos
	}
	return out
}
