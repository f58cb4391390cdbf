/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package board is the screen-flow canvas engine: cards laid out on a
// pannable, zoomable 2D surface, with named per-project layouts persisted
// through an injected gateway. All state lives on an explicit Engine
// instance and every entry point runs on the UI thread; the package keeps
// no global mutable state.
package board

import (
	"screenflow/internal/domain"
	"screenflow/internal/vector"
)

// Card geometry. Width is fixed; height is the card's natural height and
// defaults to CardHeight until the UI measures the rendered thumbnail.
const (
	CardWidth  = 280.0
	CardHeight = 220.0
)

// Card is a positioned screen on the canvas. It is a plain data object;
// the renderer draws from it rather than querying a document.
type Card struct {
	FeatureID string
	PageID    string
	PageName  string
	Pos       domain.Position // canvas-space, top-left origin
	Height    float64         // natural height, CardHeight if unmeasured
	Saved     bool            // true when Pos came from the canvas position map
}

// Key returns the card's composite key within a canvas position map.
func (c Card) Key() string { return domain.CompositeKey(c.FeatureID, c.PageID) }

// Bounds returns the card's canvas-space rectangle.
func (c Card) Bounds() vector.Rect {
	h := c.Height
	if h <= 0 {
		h = CardHeight
	}
	return vector.R(c.Pos.X, c.Pos.Y, CardWidth, h)
}
