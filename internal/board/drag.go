/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"screenflow/internal/domain"
	"screenflow/internal/vector"
)

// DragThreshold is the screen-space movement (pixels) past which a pointer
// interaction becomes a drag and the subsequent click is suppressed.
const DragThreshold = 5.0

// DragOutcome reports how a pointer-down/up interaction resolved.
type DragOutcome int

const (
	// OutcomeClick: movement stayed under the threshold.
	OutcomeClick DragOutcome = iota
	// OutcomeDragged: a card was repositioned; positions need saving.
	OutcomeDragged
	// OutcomePanned: the background (or hand tool) panned the viewport.
	OutcomePanned
	// OutcomeNone: no interaction was in progress.
	OutcomeNone
)

// Drag disambiguates clicks from drags and converts pointer movement into
// card repositioning or viewport panning. One instance per engine; only one
// interaction can be active at a time on the UI thread.
type Drag struct {
	viewport *vector.Viewport

	active  bool
	panning bool
	isDrag  bool

	startScreen vector.Pt
	lastScreen  vector.Pt
	// canvas-space offset between the pointer and the card origin, so the
	// card does not jump to the pointer on the first move
	grabOffset vector.Pt
	card       *Card

	// snap anchors are the bounds of the other cards, captured at drag
	// start; nil disables snapping
	anchors []vector.Anchor
	// Guides holds the smart-guide lines from the latest move, for the
	// renderer to draw. Empty outside an active card drag.
	Guides []vector.GuideLine
}

// NewDrag creates the controller bound to a viewport.
func NewDrag(v *vector.Viewport) *Drag { return &Drag{viewport: v} }

// Active reports whether a pointer interaction is in progress.
func (d *Drag) Active() bool { return d.active }

// Dragging reports whether the active interaction crossed the threshold.
func (d *Drag) Dragging() bool { return d.active && d.isDrag }

// StartCard begins a pointer interaction over a card body. Anchors are the
// bounds of the other visible cards, used for smart-guide snapping.
func (d *Drag) StartCard(screen vector.Pt, card *Card, anchors []vector.Anchor) {
	canvasPt := d.viewport.ScreenToCanvas(screen)
	d.active = true
	d.panning = false
	d.isDrag = false
	d.startScreen = screen
	d.lastScreen = screen
	d.card = card
	d.grabOffset = vector.Pt{X: canvasPt.X - card.Pos.X, Y: canvasPt.Y - card.Pos.Y}
	d.anchors = anchors
	d.Guides = nil
}

// StartPan begins a background (or hand-tool) pan.
func (d *Drag) StartPan(screen vector.Pt) {
	d.active = true
	d.panning = true
	d.isDrag = false
	d.startScreen = screen
	d.lastScreen = screen
	d.card = nil
	d.Guides = nil
}

// Move updates the interaction with a new pointer position. Card drags move
// the card origin to (pointer - grab offset) in canvas space, then snap
// against the anchors; pans shift the viewport by the screen delta.
func (d *Drag) Move(screen vector.Pt) {
	if !d.active {
		return
	}
	if !d.isDrag && vector.Dist(screen, d.startScreen) >= DragThreshold {
		d.isDrag = true
	}
	if !d.isDrag {
		return
	}
	if d.panning {
		d.viewport.Pan(screen.X-d.lastScreen.X, screen.Y-d.lastScreen.Y)
		d.lastScreen = screen
		return
	}
	canvasPt := d.viewport.ScreenToCanvas(screen)
	d.card.Pos = domain.Position{X: canvasPt.X - d.grabOffset.X, Y: canvasPt.Y - d.grabOffset.Y}
	if len(d.anchors) > 0 {
		snapped, guides := vector.ComputeSmartGuides(d.card.Bounds(), d.anchors, vector.SnapOptions{
			Threshold:   8,
			SnapToEdges: true,
		})
		d.card.Pos = domain.Position{X: snapped.X, Y: snapped.Y}
		d.Guides = guides
	}
	d.lastScreen = screen
}

// End finishes the interaction and reports how it resolved. After a card
// drag the caller persists the canvas positions; after a click it runs the
// selection/preview logic.
func (d *Drag) End(screen vector.Pt) (DragOutcome, *Card) {
	if !d.active {
		return OutcomeNone, nil
	}
	d.Move(screen)
	card := d.card
	wasDrag, wasPan := d.isDrag, d.panning
	d.active = false
	d.isDrag = false
	d.card = nil
	d.anchors = nil
	d.Guides = nil
	switch {
	case wasPan && wasDrag:
		return OutcomePanned, nil
	case wasPan:
		return OutcomeClick, nil // background click: deselect
	case wasDrag:
		return OutcomeDragged, card
	default:
		return OutcomeClick, card
	}
}
