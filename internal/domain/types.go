/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for the screen-flow canvas engine:
// design features with their pages and reusable common elements, plus the
// named canvas layouts that arrange screen cards spatially. The shapes
// mirror what the design-feature and canvas persistence services return.

// Platform identifies the target form factor of a feature's screens.
const (
	PlatformMobile = "mobile"
	PlatformWeb    = "web"
)

// Common-element positions, in composition order.
const (
	PosFixedTop    = "fixed-top"
	PosTop         = "top"
	PosLeft        = "left"
	PosRight       = "right"
	PosBottom      = "bottom"
	PosFixedBottom = "fixed-bottom"
)

// PositionOrder is the canonical bucket order used by the composition engine.
var PositionOrder = []string{PosFixedTop, PosTop, PosLeft, PosRight, PosBottom, PosFixedBottom}

// Feature is a logical app area owned by the design-feature service. The
// engine treats it as read-only except for immutable replacement after an
// AI edit/generate response.
type Feature struct {
	FeatureID      string          `json:"feature_id"`
	FeatureName    string          `json:"feature_name"`
	Platform       string          `json:"platform"` // "mobile" or "web"
	CSSStyle       string          `json:"css_style,omitempty"`
	CommonElements []CommonElement `json:"common_elements,omitempty"`
	Pages          []Page          `json:"pages"`
	EntryPageID    string          `json:"entry_page_id,omitempty"`
}

// Page belongs to exactly one Feature; PageID is unique within the feature.
type Page struct {
	PageID      string `json:"page_id"`
	PageName    string `json:"page_name"`
	PageType    string `json:"page_type,omitempty"`
	HTMLContent string `json:"html_content"`
	IsEntry     bool   `json:"is_entry,omitempty"`
}

// CommonElement is a reusable markup fragment (header, footer, sidebar)
// attached to multiple pages by rule.
type CommonElement struct {
	ElementID   string   `json:"element_id"`
	Position    string   `json:"position"` // one of PositionOrder
	HTMLContent string   `json:"html_content"`
	AppliesTo   []string `json:"applies_to,omitempty"` // page ids or the literal "all"
	ExcludeFrom []string `json:"exclude_from,omitempty"`
}

// AppliesToPage reports whether the element should be composed into the
// given page: applies_to contains "all" or the page id, and the page id is
// not excluded.
func (e CommonElement) AppliesToPage(pageID string) bool {
	for _, ex := range e.ExcludeFrom {
		if ex == pageID {
			return false
		}
	}
	for _, a := range e.AppliesTo {
		if a == "all" || a == pageID {
			return true
		}
	}
	return false
}

// Position is a canvas-space card position, top-left origin.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Canvas is a named, independently persisted spatial arrangement of screen
// cards for one project. FeaturePositions maps composite keys ("fid_pid")
// to card positions.
type Canvas struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	IsDefault        bool                `json:"is_default"`
	FeaturePositions map[string]Position `json:"feature_positions"`
}

// ShowsAllScreens reports whether the canvas renders the full inventory of
// pages (default canvases and brand-new canvases with no saved positions)
// rather than the curated subset the user placed explicitly.
func (c Canvas) ShowsAllScreens() bool {
	return c.IsDefault || len(c.FeaturePositions) == 0
}

// Clone returns a deep copy of the canvas. The engine hands copies to
// mutation paths so late async responses never alias live state.
func (c Canvas) Clone() Canvas {
	out := c
	out.FeaturePositions = make(map[string]Position, len(c.FeaturePositions))
	for k, v := range c.FeaturePositions {
		out.FeaturePositions[k] = v
	}
	return out
}

// CompositeKey builds the unique identifier of a screen's position entry
// within a canvas.
func CompositeKey(featureID, pageID string) string {
	return featureID + "_" + pageID
}

// FindPage returns the page with the given id, or nil.
func (f *Feature) FindPage(pageID string) *Page {
	for i := range f.Pages {
		if f.Pages[i].PageID == pageID {
			return &f.Pages[i]
		}
	}
	return nil
}

// PageIndex returns the index of pageID within f.Pages, or -1.
func (f *Feature) PageIndex(pageID string) int {
	for i := range f.Pages {
		if f.Pages[i].PageID == pageID {
			return i
		}
	}
	return -1
}

// WithPageHTML returns a copy of the feature with the page's html (and
// optionally the feature stylesheet) replaced. The receiver is not mutated;
// composition stays a pure function of the snapshots it is handed.
func (f Feature) WithPageHTML(pageID, html, css string) Feature {
	out := f
	out.Pages = make([]Page, len(f.Pages))
	copy(out.Pages, f.Pages)
	for i := range out.Pages {
		if out.Pages[i].PageID == pageID {
			out.Pages[i].HTMLContent = html
		}
	}
	if css != "" {
		out.CSSStyle = css
	}
	return out
}

// ElementIndex returns the index of elementID within f.CommonElements, or -1.
func (f *Feature) ElementIndex(elementID string) int {
	for i := range f.CommonElements {
		if f.CommonElements[i].ElementID == elementID {
			return i
		}
	}
	return -1
}

// WithElementHTML returns a copy of the feature with the common element's
// markup (and optionally the feature stylesheet) replaced. Pages are left
// untouched; element edits reach them through composition.
func (f Feature) WithElementHTML(elementID, html, css string) Feature {
	out := f
	out.CommonElements = make([]CommonElement, len(f.CommonElements))
	copy(out.CommonElements, f.CommonElements)
	for i := range out.CommonElements {
		if out.CommonElements[i].ElementID == elementID {
			out.CommonElements[i].HTMLContent = html
		}
	}
	if css != "" {
		out.CSSStyle = css
	}
	return out
}

// WithPageAdded returns a copy of the feature with the page appended.
func (f Feature) WithPageAdded(p Page) Feature {
	out := f
	out.Pages = make([]Page, 0, len(f.Pages)+1)
	out.Pages = append(out.Pages, f.Pages...)
	out.Pages = append(out.Pages, p)
	return out
}

// WithPagesRemoved returns a copy of the feature without the given pages.
func (f Feature) WithPagesRemoved(pageIDs []string) Feature {
	drop := make(map[string]bool, len(pageIDs))
	for _, id := range pageIDs {
		drop[id] = true
	}
	out := f
	out.Pages = make([]Page, 0, len(f.Pages))
	for _, p := range f.Pages {
		if !drop[p.PageID] {
			out.Pages = append(out.Pages, p)
		}
	}
	return out
}
