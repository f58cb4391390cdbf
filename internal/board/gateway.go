/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"context"

	"screenflow/internal/domain"
)

// Gateway is the request/response boundary the engine persists and loads
// through. backend.Client is the production implementation; tests inject
// fakes. Every mutating call carries the anti-forgery token; that is the
// transport adapter's concern, not the engine's.
type Gateway interface {
	ListCanvases(ctx context.Context, projectID string) ([]domain.Canvas, error)
	CreateCanvas(ctx context.Context, projectID, name string, positions map[string]domain.Position, isDefault bool) (domain.Canvas, error)
	DeleteCanvas(ctx context.Context, projectID, canvasID string) error
	SavePositions(ctx context.Context, projectID, canvasID string, positions map[string]domain.Position) error

	DesignFeatures(ctx context.Context, projectID string) ([]domain.Feature, error)
	DeleteScreens(ctx context.Context, projectID, featureID string, pageIDs []string) error
	GenerateScreen(ctx context.Context, projectID, featureID, description string) (domain.Page, error)
	DesignChat(ctx context.Context, projectID string, req domain.ChatRequest) (domain.ChatResult, error)
	LoadExternalURL(ctx context.Context, projectID, rawURL, canvasID string) error

	ConversationCanvas(ctx context.Context, conversationID string) (string, error)
	LinkConversationCanvas(ctx context.Context, conversationID, canvasID string) error
}

// Notifier surfaces user-visible outcomes. The engine never silently drops
// a failure: every caught error path produces a toast.
type Notifier interface {
	Toast(level, message string)
}

// Toast levels.
const (
	ToastInfo  = "info"
	ToastError = "error"
)

// NopNotifier discards notifications (headless tests, exports).
type NopNotifier struct{}

func (NopNotifier) Toast(string, string) {}
