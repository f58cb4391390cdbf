/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Shapes exchanged with the AI edit/generate service. The engine only
// applies the results; how markup is produced is the service's concern.

// ChatRequest asks the design-chat service to edit a page.
type ChatRequest struct {
	FeatureID string `json:"feature_id"`
	PageID    string `json:"page_id"`
	Message   string `json:"message"`
}

// Edit targets reported by the design-chat service.
const (
	EditTargetPage    = "page"
	EditTargetElement = "element"
)

// ChatResult is the design-chat response. UpdatedHTML replaces the page's
// markup (or the named common element's when EditTarget is "element");
// UpdatedCSS, when present, replaces the feature stylesheet.
type ChatResult struct {
	Success          bool   `json:"success"`
	UpdatedHTML      string `json:"updated_html,omitempty"`
	UpdatedCSS       string `json:"updated_css,omitempty"`
	EditTarget       string `json:"edit_target,omitempty"`
	ElementID        string `json:"element_id,omitempty"`
	ChangeSummary    string `json:"change_summary,omitempty"`
	AssistantMessage string `json:"assistant_message,omitempty"`
	Error            string `json:"error,omitempty"`
}
