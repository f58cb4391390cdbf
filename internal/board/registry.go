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
	"fmt"
	"log/slog"

	"screenflow/internal/domain"
	applog "screenflow/internal/log"
)

// DefaultCanvasName is used when a project has no canvas yet.
const DefaultCanvasName = "Canvas 1"

// Registry owns the named layouts of one project: which canvases exist,
// which is active, and the persistence of their position maps. Exactly one
// canvas should be default; the registry enforces that on creation but the
// server does not guarantee it globally.
type Registry struct {
	gw        Gateway
	projectID string
	log       *slog.Logger

	canvases []domain.Canvas
	activeID string

	// conversationID, when set, is kept linked to the active canvas so
	// reopening the conversation restores its last-used layout.
	conversationID string

	// generation is the monotonic request token: bumped on every canvas
	// context change so late responses for an older context are discarded.
	generation uint64
}

// NewRegistry creates a registry talking to the gateway for one project.
func NewRegistry(gw Gateway, projectID string) *Registry {
	return &Registry{gw: gw, projectID: projectID, log: applog.WithComponent("registry")}
}

// Generation returns the current request token. Async callers capture it
// before a fetch and pass it to the apply step; see Stale.
func (r *Registry) Generation() uint64 { return r.generation }

// Stale reports whether a captured token no longer matches the current
// canvas context.
func (r *Registry) Stale(token uint64) bool { return token != r.generation }

// Load fetches the project's canvases. A project with none gets a single
// default canvas named "Canvas 1" with an empty position map. The active
// canvas becomes the default one (or the first, when no default exists);
// with a conversation attached, its last-used canvas wins when it still
// exists.
func (r *Registry) Load(ctx context.Context) error {
	token := r.generation
	canvases, err := r.gw.ListCanvases(ctx, r.projectID)
	if err != nil {
		return fmt.Errorf("list canvases: %w", err)
	}
	if r.Stale(token) {
		r.log.Debug("discarding stale canvas list", slog.Uint64("token", token))
		return nil
	}
	if len(canvases) == 0 {
		created, err := r.gw.CreateCanvas(ctx, r.projectID, DefaultCanvasName, map[string]domain.Position{}, true)
		if err != nil {
			return fmt.Errorf("create default canvas: %w", err)
		}
		canvases = []domain.Canvas{created}
		r.log.Info("auto-created default canvas", slog.String("id", created.ID))
	}
	r.canvases = canvases
	r.activeID = ""
	for _, c := range canvases {
		if c.IsDefault {
			r.activeID = c.ID
			break
		}
	}
	if r.activeID == "" {
		r.activeID = canvases[0].ID
	}
	if r.conversationID != "" {
		if id, err := r.gw.ConversationCanvas(ctx, r.conversationID); err != nil {
			// Fall back to the default canvas; the link is best effort.
			r.log.Warn("conversation canvas lookup failed", slog.Any("err", err))
		} else if id != "" {
			for _, c := range canvases {
				if c.ID == id {
					r.activeID = id
					break
				}
			}
		}
	}
	r.generation++
	return nil
}

// Seed installs canvases without talking to the gateway, for opening from
// a cached snapshot while the backend is unreachable. Activation follows
// the same default-or-first rule as Load.
func (r *Registry) Seed(canvases []domain.Canvas) {
	r.canvases = canvases
	r.activeID = ""
	for _, c := range canvases {
		if c.IsDefault {
			r.activeID = c.ID
			break
		}
	}
	if r.activeID == "" && len(canvases) > 0 {
		r.activeID = canvases[0].ID
	}
	r.generation++
}

// Canvases returns the known canvases in server order.
func (r *Registry) Canvases() []domain.Canvas { return r.canvases }

// Len returns the number of canvases.
func (r *Registry) Len() int { return len(r.canvases) }

// Active returns a deep copy of the active canvas. Callers mutate through
// SetPosition/RemovePositions/SavePositions; the copy keeps late async
// appliers from aliasing the live position map.
func (r *Registry) Active() (domain.Canvas, bool) {
	for _, c := range r.canvases {
		if c.ID == r.activeID {
			return c.Clone(), true
		}
	}
	return domain.Canvas{}, false
}

// ActiveID returns the active canvas id ("" before Load).
func (r *Registry) ActiveID() string { return r.activeID }

// SwitchTo activates a canvas and re-links the conversation, if one is
// attached. The caller clears selection and re-renders.
func (r *Registry) SwitchTo(ctx context.Context, canvasID string) error {
	found := false
	for _, c := range r.canvases {
		if c.ID == canvasID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown canvas %q", canvasID)
	}
	r.activeID = canvasID
	r.generation++
	if r.conversationID != "" {
		if err := r.gw.LinkConversationCanvas(ctx, r.conversationID, canvasID); err != nil {
			// The switch itself succeeded; the link retries on next switch.
			r.log.Warn("conversation link failed", slog.Any("err", err))
		}
	}
	return nil
}

// Create adds a canvas and switches to it. When isDefault is set, the
// previous default is cleared locally so exactly one canvas stays default.
func (r *Registry) Create(ctx context.Context, name string, isDefault bool) (domain.Canvas, error) {
	created, err := r.gw.CreateCanvas(ctx, r.projectID, name, map[string]domain.Position{}, isDefault)
	if err != nil {
		return domain.Canvas{}, fmt.Errorf("create canvas: %w", err)
	}
	if isDefault {
		for i := range r.canvases {
			r.canvases[i].IsDefault = false
		}
	}
	r.canvases = append(r.canvases, created)
	r.activeID = created.ID
	r.generation++
	return created, nil
}

// Delete removes a canvas. Deleting the only remaining canvas is refused
// client-side with ErrLastCanvas before any request is made. When the
// active canvas is deleted, the default (or first remaining) takes over.
func (r *Registry) Delete(ctx context.Context, canvasID string) error {
	if len(r.canvases) <= 1 {
		return ErrLastCanvas
	}
	if err := r.gw.DeleteCanvas(ctx, r.projectID, canvasID); err != nil {
		return fmt.Errorf("delete canvas: %w", err)
	}
	keep := r.canvases[:0]
	for _, c := range r.canvases {
		if c.ID != canvasID {
			keep = append(keep, c)
		}
	}
	r.canvases = keep
	if r.activeID == canvasID {
		r.activeID = keep[0].ID
		for _, c := range keep {
			if c.IsDefault {
				r.activeID = c.ID
				break
			}
		}
		r.generation++
	}
	return nil
}

// SavePositions overwrites the active canvas's position map locally and
// persists it. A failed save keeps the in-memory positions; the next drag
// or explicit save retries. Concurrent saves are last-write-wins; the
// registry sends them in completion order and does not re-order.
func (r *Registry) SavePositions(ctx context.Context, positions map[string]domain.Position) error {
	i := r.activeIndex()
	if i < 0 {
		return ErrNoActiveCanvas
	}
	snapshot := make(map[string]domain.Position, len(positions))
	for k, v := range positions {
		snapshot[k] = v
	}
	r.canvases[i].FeaturePositions = snapshot
	if err := r.gw.SavePositions(ctx, r.projectID, r.activeID, snapshot); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}

// SetPosition updates a single entry in the active canvas's position map
// locally (drag completion, add-screen picker). Persist with SavePositions.
func (r *Registry) SetPosition(key string, pos domain.Position) error {
	i := r.activeIndex()
	if i < 0 {
		return ErrNoActiveCanvas
	}
	if r.canvases[i].FeaturePositions == nil {
		r.canvases[i].FeaturePositions = make(map[string]domain.Position)
	}
	r.canvases[i].FeaturePositions[key] = pos
	return nil
}

// RemovePositions drops entries from the active canvas's position map
// (remove-screen, delete-screens).
func (r *Registry) RemovePositions(keys []string) error {
	i := r.activeIndex()
	if i < 0 {
		return ErrNoActiveCanvas
	}
	for _, k := range keys {
		delete(r.canvases[i].FeaturePositions, k)
	}
	return nil
}

// AttachConversation links a chat conversation to the registry so canvas
// switches update the conversation's design_canvas_id.
func (r *Registry) AttachConversation(conversationID string) {
	r.conversationID = conversationID
}

func (r *Registry) activeIndex() int {
	for i, c := range r.canvases {
		if c.ID == r.activeID {
			return i
		}
	}
	return -1
}
