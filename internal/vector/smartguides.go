/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Smart guides and snapping helpers for card dragging. A moving card rect is
// compared against the other cards on the canvas; when an edge or center
// comes within the threshold the card snaps and a guide line is produced
// for visual feedback. UI-agnostic and deterministic for unit testing.

import "math"

// SnapOptions controls which guide candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum canvas-space distance at which snapping
	// occurs. Typical UI values are 6-8 pixels at zoom 1.
	Threshold float64
	// Snap to edges (left, right, top, bottom)
	SnapToEdges bool
	// Snap to centers (cx, cy)
	SnapToCenters bool
}

// Anchor is a static reference rect, usually another card's bounds.
// Weight biases selection when distances tie (higher = preferred).
type Anchor struct {
	Rect   Rect
	Weight float64
}

// GuideLine describes a visual guide generated during a snap alignment.
// Orientation is "vertical" or "horizontal"; Kind is "edge" or "center".
// Position is the x (vertical) or y (horizontal) coordinate; From/To are
// the guide extents for rendering. Values are rounded to 3 decimals for
// deterministic output.
type GuideLine struct {
	Orientation string
	Kind        string
	Position    float64
	From        Pt
	To          Pt
}

// ComputeSmartGuides computes snapping adjustments for a moving card rect
// against the other cards. It returns the snapped rectangle and any guide
// lines to render. Snapping happens independently in X and Y.
func ComputeSmartGuides(moving Rect, anchors []Anchor, opts SnapOptions) (Rect, []GuideLine) {
	if opts.Threshold <= 0 {
		opts.Threshold = 6
	}
	var guides []GuideLine

	// Horizontal (X) snapping candidates: left, centerX, right.
	bestDX, bestDXDist, bestDXGuide := 0.0, math.Inf(1), GuideLine{}
	// Vertical (Y) snapping: top, centerY, bottom.
	bestDY, bestDYDist, bestDYGuide := 0.0, math.Inf(1), GuideLine{}

	mxL, mxR := moving.X, moving.X+moving.W
	mxT, mxB := moving.Y, moving.Y+moving.H
	mxCX, mxCY := moving.X+moving.W/2, moving.Y+moving.H/2

	for _, a := range anchors {
		axL, axR, axT, axB := a.Rect.X, a.Rect.X+a.Rect.W, a.Rect.Y, a.Rect.Y+a.Rect.H
		axCX, axCY := a.Rect.X+a.Rect.W/2, a.Rect.Y+a.Rect.H/2

		if opts.SnapToEdges {
			for _, cand := range []struct{ delta, guideX float64 }{
				{mxL - axL, axL}, // left-to-left
				{mxR - axR, axR}, // right-to-right
				{mxL - axR, axR}, // abutting
				{mxR - axL, axL},
			} {
				consider(&bestDX, &bestDXDist, &bestDXGuide, cand.delta, opts.Threshold, a.Weight,
					guideForVertical(cand.guideX, moving, a.Rect, "edge"))
			}
			for _, cand := range []struct{ delta, guideY float64 }{
				{mxT - axT, axT},
				{mxB - axB, axB},
				{mxT - axB, axB},
				{mxB - axT, axT},
			} {
				consider(&bestDY, &bestDYDist, &bestDYGuide, cand.delta, opts.Threshold, a.Weight,
					guideForHorizontal(cand.guideY, moving, a.Rect, "edge"))
			}
		}
		if opts.SnapToCenters {
			consider(&bestDX, &bestDXDist, &bestDXGuide, mxCX-axCX, opts.Threshold, a.Weight,
				guideForVertical(axCX, moving, a.Rect, "center"))
			consider(&bestDY, &bestDYDist, &bestDYGuide, mxCY-axCY, opts.Threshold, a.Weight,
				guideForHorizontal(axCY, moving, a.Rect, "center"))
		}
	}

	snapped := moving
	if bestDXDist <= opts.Threshold {
		snapped.X = FloatRound(moving.X-bestDX, 3)
		guides = append(guides, bestDXGuide)
	}
	if bestDYDist <= opts.Threshold {
		snapped.Y = FloatRound(moving.Y-bestDY, 3)
		guides = append(guides, bestDYGuide)
	}
	return snapped, guides
}

func consider(bestDelta *float64, bestDist *float64, bestGuide *GuideLine, delta, threshold, weight float64, g GuideLine) {
	dist := math.Abs(delta)
	if dist > threshold {
		return
	}
	score := dist / math.Max(1, weight)
	if score < *bestDist {
		*bestDist = dist
		*bestDelta = delta
		*bestGuide = g
	}
}

func guideForVertical(x float64, a Rect, b Rect, kind string) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	x = FloatRound(x, 3)
	return GuideLine{
		Orientation: "vertical",
		Kind:        kind,
		Position:    x,
		From:        Pt{x, minY},
		To:          Pt{x, maxY},
	}
}

func guideForHorizontal(y float64, a Rect, b Rect, kind string) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	y = FloatRound(y, 3)
	return GuideLine{
		Orientation: "horizontal",
		Kind:        kind,
		Position:    y,
		From:        Pt{minX, y},
		To:          Pt{maxX, y},
	}
}
