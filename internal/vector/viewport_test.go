/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
	"time"
)

func TestZoomClampOverSteps(t *testing.T) {
	v := NewViewport()
	center := Pt{600, 400}
	for i := 0; i < 10; i++ {
		v.ZoomStepAnimated(+1, center, nil)
	}
	if v.Zoom != MaxZoom {
		t.Fatalf("zoom after ten +0.1 steps: got %v want %v", v.Zoom, MaxZoom)
	}
	for i := 0; i < 20; i++ {
		v.ZoomStepAnimated(-1, center, nil)
	}
	if v.Zoom != MinZoom {
		t.Fatalf("zoom floor: got %v want %v", v.Zoom, MinZoom)
	}
}

func TestWheelZoomStaysInRange(t *testing.T) {
	v := NewViewport()
	p := Pt{100, 100}
	for i := 0; i < 500; i++ {
		v.ZoomWheel(+1, p)
	}
	if v.Zoom > MaxZoom {
		t.Fatalf("wheel zoom escaped clamp: %v", v.Zoom)
	}
	for i := 0; i < 1000; i++ {
		v.ZoomWheel(-1, p)
	}
	if v.Zoom < MinZoom {
		t.Fatalf("wheel zoom under floor: %v", v.Zoom)
	}
}

func TestZoomAnchorInvariant(t *testing.T) {
	v := NewViewport()
	v.PanX, v.PanY = 123, -45
	anchor := Pt{400, 300}
	before := v.ScreenToCanvas(anchor)
	v.SetZoomAtPoint(1.3, anchor)
	after := v.ScreenToCanvas(anchor)
	if math.Abs(before.X-after.X) > 1e-9 || math.Abs(before.Y-after.Y) > 1e-9 {
		t.Fatalf("anchor moved: before=%+v after=%+v", before, after)
	}
	if v.Zoom != 1.3 {
		t.Fatalf("zoom not applied: %v", v.Zoom)
	}
}

func TestScreenCanvasRoundTrip(t *testing.T) {
	v := &Viewport{Zoom: 0.85, PanX: -30, PanY: 210}
	p := Pt{512.5, 77.25}
	q := v.CanvasToScreen(v.ScreenToCanvas(p))
	if math.Abs(q.X-p.X) > 1e-9 || math.Abs(q.Y-p.Y) > 1e-9 {
		t.Fatalf("round trip drift: %+v vs %+v", q, p)
	}
}

func TestFitToContentScale(t *testing.T) {
	v := NewViewport()
	v.FitToContent(R(0, 0, 1000, 600), Size{W: 1200, H: 800}, nil)
	// min((1200-120)/1000, (800-120)/600, 1.2) = min(1.08, 1.1333, 1.2)
	if math.Abs(v.Zoom-1.08) > 1e-9 {
		t.Fatalf("fit scale: got %v want 1.08", v.Zoom)
	}
	// content horizontally centered: pan = (1200 - 1000*1.08)/2
	if math.Abs(v.PanX-60) > 1e-9 {
		t.Fatalf("fit panX: got %v want 60", v.PanX)
	}
	if math.Abs(v.PanY-FitPadding) > 1e-9 {
		t.Fatalf("fit panY: got %v want %v", v.PanY, FitPadding)
	}
}

func TestFitToContentEmptyResets(t *testing.T) {
	v := &Viewport{Zoom: 1.4, PanX: -500, PanY: 900}
	v.FitToContent(Rect{}, Size{W: 1200, H: 800}, nil)
	if v.Zoom != DefaultZoom || v.PanX != HomePanX || v.PanY != HomePanY {
		t.Fatalf("empty fit did not reset: %+v", v)
	}
}

func TestFitRespectsMaxFitScale(t *testing.T) {
	v := NewViewport()
	v.FitToContent(R(0, 0, 100, 100), Size{W: 2000, H: 2000}, nil)
	if v.Zoom != MaxFitScale {
		t.Fatalf("small content should cap at %v, got %v", MaxFitScale, v.Zoom)
	}
}

func TestOnChangeFiresForZoomAndPan(t *testing.T) {
	v := NewViewport()
	n := 0
	v.OnChange = func() { n++ }
	v.SetZoomAtPoint(1.0, Pt{0, 0})
	v.Pan(10, 10)
	v.SetPan(0, 0)
	if n != 3 {
		t.Fatalf("expected 3 change callbacks, got %d", n)
	}
}

func TestAnimatedStepSupersedes(t *testing.T) {
	now := time.Unix(0, 0)
	anim := NewAnimator(func() time.Time { return now })
	v := NewViewport()
	center := Pt{0, 0}

	v.ZoomStepAnimated(+1, center, anim)
	now = now.Add(150 * time.Millisecond)
	anim.Step()
	mid := v.Zoom
	if mid <= DefaultZoom || mid >= DefaultZoom+ZoomStep {
		t.Fatalf("expected eased midpoint, got %v", mid)
	}

	// Starting a second step cancels the first; only one task runs.
	v.ZoomStepAnimated(+1, center, anim)
	now = now.Add(time.Second)
	if anim.Step() {
		t.Fatalf("animation should have completed")
	}
	want := Clamp(mid+ZoomStep, MinZoom, MaxZoom)
	if math.Abs(v.Zoom-want) > 1e-9 {
		t.Fatalf("superseding step target: got %v want %v", v.Zoom, want)
	}
}
