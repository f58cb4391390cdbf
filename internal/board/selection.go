/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

// Tool is the active canvas tool. Only ToolSelect and ToolHand change how
// pointer events are interpreted by the engine; the remaining tools are UI
// affordances whose behavior lives in the shell.
type Tool int

const (
	ToolSelect Tool = iota // default
	ToolAddScreen
	ToolDelete
	ToolAnnotate
	ToolText
	ToolArrow
	ToolHand
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolAddScreen:
		return "add-screen"
	case ToolDelete:
		return "delete"
	case ToolAnnotate:
		return "annotate"
	case ToolText:
		return "text"
	case ToolArrow:
		return "arrow"
	case ToolHand:
		return "hand"
	default:
		return "unknown"
	}
}

// ToolForKey maps a keyboard shortcut to a tool; ok is false for keys that
// are not tool shortcuts. "w" activates the load-external-url affordance,
// which the shell surfaces through the add-screen tool.
func ToolForKey(key string) (Tool, bool) {
	switch key {
	case "v":
		return ToolSelect, true
	case "a":
		return ToolAddScreen, true
	case "w":
		return ToolAddScreen, true
	case "h":
		return ToolHand, true
	default:
		return ToolSelect, false
	}
}

// ClickAction is the outcome of a plain click on a card.
type ClickAction int

const (
	// ClickOpensPreview: no selection existed, open the preview modal.
	ClickOpensPreview ClickAction = iota
	// ClickToggledSelection: a selection existed (or a modifier was held),
	// so the click toggled the card instead.
	ClickToggledSelection
)

// Selection tracks the multi-selected cards (by composite key) and the
// active tool. Transient state: cleared on canvas switch.
type Selection struct {
	tool Tool
	keys map[string]bool
}

// NewSelection starts in select mode with nothing selected.
func NewSelection() *Selection {
	return &Selection{tool: ToolSelect, keys: make(map[string]bool)}
}

// Tool returns the active tool.
func (s *Selection) Tool() Tool { return s.tool }

// SetTool activates a tool (toolbar button or keyboard shortcut).
func (s *Selection) SetTool(t Tool) { s.tool = t }

// Has reports whether the card key is selected.
func (s *Selection) Has(key string) bool { return s.keys[key] }

// Len returns the number of selected cards.
func (s *Selection) Len() int { return len(s.keys) }

// Keys returns the selected composite keys in unspecified order.
func (s *Selection) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	return out
}

// Toggle flips a card in or out of the selection.
func (s *Selection) Toggle(key string) {
	if s.keys[key] {
		delete(s.keys, key)
	} else {
		s.keys[key] = true
	}
}

// Clear empties the selection (canvas switch or explicit deselect).
func (s *Selection) Clear() {
	if len(s.keys) > 0 {
		s.keys = make(map[string]bool)
	}
}

// Click resolves a card click. Shift/ctrl/cmd-click always toggles
// (additive). A plain click toggles when a selection is already active and
// opens the preview otherwise.
func (s *Selection) Click(key string, additive bool) ClickAction {
	if additive || len(s.keys) > 0 {
		s.Toggle(key)
		return ClickToggledSelection
	}
	return ClickOpensPreview
}
