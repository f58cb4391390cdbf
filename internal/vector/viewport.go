/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Viewport owns the zoom/pan state and the screen-to-canvas mapping:
//
//	canvas = (screen - pan) / zoom
//
// Zoom is clamped to [MinZoom, MaxZoom] before any pan adjustment. The state
// is transient and never persisted; each session starts at the defaults.

import "time"

const (
	MinZoom     = 0.2
	MaxZoom     = 1.5
	DefaultZoom = 0.7

	// ZoomStep is the discrete toolbar increment, WheelStep the per-tick
	// wheel increment.
	ZoomStep  = 0.1
	WheelStep = 0.03

	// FitPadding is the margin kept around content by FitToContent;
	// MaxFitScale caps how far fit may zoom in.
	FitPadding  = 60.0
	MaxFitScale = 1.2

	stepZoomDuration = 300 * time.Millisecond
	fitPanDuration   = 350 * time.Millisecond

	// HomePanX/Y is the reset pan applied when there is nothing to fit.
	HomePanX = 50.0
	HomePanY = 50.0
)

// Viewport is the engine's single source of truth for the canvas transform.
type Viewport struct {
	Zoom       float64
	PanX, PanY float64

	// OnChange, when set, is invoked after every zoom or pan mutation; the
	// UI uses it to redraw and refresh the zoom-percentage readout.
	OnChange func()
}

// NewViewport returns a viewport at the session defaults.
func NewViewport() *Viewport {
	return &Viewport{Zoom: DefaultZoom, PanX: HomePanX, PanY: HomePanY}
}

func (v *Viewport) changed() {
	if v.OnChange != nil {
		v.OnChange()
	}
}

// ScreenToCanvas maps a screen-space point into canvas space.
func (v *Viewport) ScreenToCanvas(p Pt) Pt {
	return Pt{X: (p.X - v.PanX) / v.Zoom, Y: (p.Y - v.PanY) / v.Zoom}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v *Viewport) CanvasToScreen(p Pt) Pt {
	return Pt{X: p.X*v.Zoom + v.PanX, Y: p.Y*v.Zoom + v.PanY}
}

// Pan shifts the viewport by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
	v.changed()
}

// SetPan sets the pan absolutely.
func (v *Viewport) SetPan(x, y float64) {
	v.PanX, v.PanY = x, y
	v.changed()
}

// SetZoomAtPoint sets zoom (clamped) while keeping the canvas point under
// the given screen anchor fixed: pan' = anchor - (anchor - pan) * (z'/z).
func (v *Viewport) SetZoomAtPoint(newZoom float64, anchor Pt) {
	newZoom = Clamp(newZoom, MinZoom, MaxZoom)
	if newZoom == v.Zoom {
		return
	}
	ratio := newZoom / v.Zoom
	v.PanX = anchor.X - (anchor.X-v.PanX)*ratio
	v.PanY = anchor.Y - (anchor.Y-v.PanY)*ratio
	v.Zoom = newZoom
	v.changed()
}

// ZoomWheel applies one continuous wheel tick (delta in ticks, sign gives
// direction), anchored at the pointer. Applied instantly.
func (v *Viewport) ZoomWheel(delta float64, pointer Pt) {
	v.SetZoomAtPoint(v.Zoom+delta*WheelStep, pointer)
}

// ZoomStepAnimated applies a discrete ±ZoomStep change eased over 300 ms,
// anchored at the given point (typically the viewport center). A second
// step while one is animating supersedes it. With a nil animator the change
// applies instantly.
func (v *Viewport) ZoomStepAnimated(direction int, anchor Pt, anim *Animator) {
	target := Clamp(v.Zoom+float64(direction)*ZoomStep, MinZoom, MaxZoom)
	if anim == nil {
		v.SetZoomAtPoint(target, anchor)
		return
	}
	from := v.Zoom
	anim.Start(AnimZoom, stepZoomDuration, EaseOutCubic, func(p float64) {
		v.SetZoomAtPoint(from+(target-from)*p, anchor)
	}, nil)
}

// FitToContent computes the zoom and pan that shows bounds inside a
// viewport of the given size with FitPadding margin, content top-padded and
// horizontally centered. The pan glides over 350 ms when an animator is
// supplied. Empty bounds reset to the session defaults.
func (v *Viewport) FitToContent(bounds Rect, viewport Size, anim *Animator) {
	if bounds.Empty() {
		v.Zoom = DefaultZoom
		v.animatePan(HomePanX, HomePanY, anim)
		return
	}
	scale := MaxFitScale
	if s := (viewport.W - 2*FitPadding) / bounds.W; s < scale {
		scale = s
	}
	if s := (viewport.H - 2*FitPadding) / bounds.H; s < scale {
		scale = s
	}
	scale = Clamp(scale, MinZoom, MaxZoom)
	v.Zoom = scale
	panX := (viewport.W-bounds.W*scale)/2 - bounds.X*scale
	panY := FitPadding - bounds.Y*scale
	v.animatePan(panX, panY, anim)
}

func (v *Viewport) animatePan(x, y float64, anim *Animator) {
	if anim == nil {
		v.SetPan(x, y)
		return
	}
	fromX, fromY := v.PanX, v.PanY
	anim.Start(AnimPan, fitPanDuration, EaseOutCubic, func(p float64) {
		v.SetPan(fromX+(x-fromX)*p, fromY+(y-fromY)*p)
	}, nil)
}

// ZoomPercent returns the readout value shown next to the zoom controls.
func (v *Viewport) ZoomPercent() int { return int(FloatRound(v.Zoom*100, 0)) }
