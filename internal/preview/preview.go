/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package preview drives the full-screen preview modal: one feature's pages
// navigated in order, each recomposed on demand so AI edits show up without
// reopening.
package preview

import (
	"fmt"

	"screenflow/internal/compose"
	"screenflow/internal/domain"
)

// Controller holds the modal's navigation state. It does not render; the
// shell asks for Document() whenever the state changes.
type Controller struct {
	feature domain.Feature
	index   int
	open    bool
}

// Open starts a preview on the page with the given id. An unknown page id
// falls back to the first page.
func (c *Controller) Open(f domain.Feature, pageID string) {
	c.feature = f
	c.index = 0
	if i := f.PageIndex(pageID); i >= 0 {
		c.index = i
	}
	c.open = len(f.Pages) > 0
}

// Close dismisses the modal.
func (c *Controller) Close() { c.open = false }

// IsOpen reports whether the modal is showing.
func (c *Controller) IsOpen() bool { return c.open }

// Refresh swaps in an updated feature snapshot (after an AI edit) while
// keeping the current page when it still exists.
func (c *Controller) Refresh(f domain.Feature) {
	if !c.open {
		return
	}
	pageID := c.feature.Pages[c.index].PageID
	c.feature = f
	c.index = 0
	if i := f.PageIndex(pageID); i >= 0 {
		c.index = i
	}
	if len(f.Pages) == 0 {
		c.open = false
	}
}

// Next advances one page; at the last page it stays put.
func (c *Controller) Next() { c.step(1) }

// Prev goes back one page; at the first page it stays put.
func (c *Controller) Prev() { c.step(-1) }

func (c *Controller) step(delta int) {
	if !c.open {
		return
	}
	i := c.index + delta
	if i < 0 {
		i = 0
	}
	if max := len(c.feature.Pages) - 1; i > max {
		i = max
	}
	c.index = i
}

// CanPrev reports whether a previous page exists.
func (c *Controller) CanPrev() bool { return c.open && c.index > 0 }

// CanNext reports whether a next page exists.
func (c *Controller) CanNext() bool { return c.open && c.index < len(c.feature.Pages)-1 }

// Page returns the current page.
func (c *Controller) Page() domain.Page {
	if !c.open {
		return domain.Page{}
	}
	return c.feature.Pages[c.index]
}

// Counter returns the "i / n" position readout.
func (c *Controller) Counter() string {
	if !c.open {
		return ""
	}
	return fmt.Sprintf("%d / %d", c.index+1, len(c.feature.Pages))
}

// Title returns the modal header: page name with the feature for context.
func (c *Controller) Title() string {
	if !c.open {
		return ""
	}
	return fmt.Sprintf("%s · %s", c.feature.FeatureName, c.feature.Pages[c.index].PageName)
}

// Document composes the current page as a standalone full-fidelity
// document. Composition runs per call, so edits applied to the feature
// snapshot passed to Refresh are always reflected.
func (c *Controller) Document() string {
	if !c.open {
		return ""
	}
	return compose.Document(c.feature, c.feature.Pages[c.index], compose.ModeFull)
}
