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
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"screenflow/internal/domain"
	applog "screenflow/internal/log"
	"screenflow/internal/undo"
	"screenflow/internal/vector"
)

// Modifiers carries the pointer-event modifier keys the engine cares about.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Meta  bool
}

// Additive reports whether the modifier combination forces selection toggling.
func (m Modifiers) Additive() bool { return m.Shift || m.Ctrl || m.Meta }

// Deps are the injected collaborators of an Engine. Gateway is required;
// nil Notifier and Clock fall back to no-ops and the wall clock.
type Deps struct {
	Gateway        Gateway
	Notifier       Notifier
	ProjectID      string
	ConversationID string
	Clock          func() time.Time
}

// Engine is the explicit instance owning all canvas state: viewport,
// registry, selection, feature store and the computed layout. All methods
// must be called from the UI thread; network calls take a context and may
// be dispatched from worker goroutines by the shell, which then marshals
// the apply step back.
type Engine struct {
	deps     Deps
	log      *slog.Logger
	Viewport *vector.Viewport
	Animator *vector.Animator
	Registry *Registry
	Select   *Selection
	Drag     *Drag
	Features *FeatureStore
	History  *undo.Manager

	layout Layout

	// OnRender is invoked whenever the layout was rebuilt; OnOpenPreview
	// when a card click should open the preview modal.
	OnRender      func()
	OnOpenPreview func(featureID, pageID string)
}

// NewEngine constructs an engine with injected dependencies. It performs
// no I/O; call Bootstrap to load data.
func NewEngine(deps Deps) *Engine {
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	e := &Engine{
		deps:     deps,
		log:      applog.WithComponent("engine"),
		Viewport: vector.NewViewport(),
		Animator: vector.NewAnimator(deps.Clock),
		Registry: NewRegistry(deps.Gateway, deps.ProjectID),
		Select:   NewSelection(),
		Drag:     nil,
		Features: NewFeatureStore(nil),
		History:  undo.NewManager(undo.Config{}),
	}
	e.Drag = NewDrag(e.Viewport)
	if deps.ConversationID != "" {
		e.Registry.AttachConversation(deps.ConversationID)
	}
	return e
}

// Bootstrap loads canvases and the feature dataset, then renders the
// active canvas. Errors surface as toasts; a failed bootstrap leaves the
// engine usable for retry.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if err := e.Registry.Load(ctx); err != nil {
		e.deps.Notifier.Toast(ToastError, "Could not load canvases")
		return err
	}
	features, err := e.deps.Gateway.DesignFeatures(ctx, e.deps.ProjectID)
	if err != nil {
		e.deps.Notifier.Toast(ToastError, "Could not load design features")
		return err
	}
	e.Features.Replace(features)
	e.Render()
	return nil
}

// SeedFromSnapshot loads a cached board state instead of the network, so
// a project still opens read-mostly while the backend is down. Position
// saves against the unreachable backend will fail until connectivity is
// back; a later successful Bootstrap replaces the seeded state.
func (e *Engine) SeedFromSnapshot(canvases []domain.Canvas, features []domain.Feature) {
	e.Registry.Seed(canvases)
	e.Features.Replace(features)
	e.Select.Clear()
	e.Render()
	e.deps.Notifier.Toast(ToastInfo, "Opened from local cache (offline)")
}

// Layout returns the current card arrangement.
func (e *Engine) Layout() *Layout { return &e.layout }

// Render rebuilds the layout for the active canvas and notifies the shell.
// The shell calls FitToScreen afterwards, once card heights are measured.
func (e *Engine) Render() {
	canvas, ok := e.Registry.Active()
	if !ok {
		e.layout = Layout{Empty: true}
	} else {
		e.layout = BuildLayout(e.Features.All(), canvas)
	}
	if e.OnRender != nil {
		e.OnRender()
	}
}

// FitToScreen fits the rendered content into the given viewport size.
func (e *Engine) FitToScreen(viewport vector.Size) {
	e.Viewport.FitToContent(e.layout.ContentBounds(), viewport, e.Animator)
}

// SwitchCanvas activates another canvas: selection clears, layout
// rebuilds. Late responses for the previous canvas are discarded by the
// registry's request token.
func (e *Engine) SwitchCanvas(ctx context.Context, canvasID string) error {
	if err := e.Registry.SwitchTo(ctx, canvasID); err != nil {
		e.deps.Notifier.Toast(ToastError, "Could not switch canvas")
		return err
	}
	e.Select.Clear()
	e.Render()
	return nil
}

// CreateCanvas adds a canvas and switches to it.
func (e *Engine) CreateCanvas(ctx context.Context, name string, isDefault bool) error {
	if _, err := e.Registry.Create(ctx, name, isDefault); err != nil {
		e.deps.Notifier.Toast(ToastError, "Could not create canvas")
		return err
	}
	e.Select.Clear()
	e.Render()
	return nil
}

// DeleteCanvas removes a canvas, refusing to delete the last one.
func (e *Engine) DeleteCanvas(ctx context.Context, canvasID string) error {
	err := e.Registry.Delete(ctx, canvasID)
	switch {
	case err == ErrLastCanvas:
		e.deps.Notifier.Toast(ToastError, "A project needs at least one canvas")
		return err
	case err != nil:
		e.deps.Notifier.Toast(ToastError, "Could not delete canvas")
		return err
	}
	e.History.ClearCanvas(canvasID)
	e.Select.Clear()
	e.Render()
	return nil
}

// --- pointer interaction -------------------------------------------------

// cardAt returns the topmost card whose bounds contain the canvas point.
// Later cards render on top, so iterate back to front.
func (e *Engine) cardAt(canvasPt vector.Pt) *Card {
	cards := e.layout.Cards()
	for i := len(cards) - 1; i >= 0; i-- {
		if cards[i].Bounds().Contains(canvasPt) {
			return cards[i]
		}
	}
	return nil
}

// PointerDown begins an interaction at a screen point. Over a card body it
// arms a potential drag (unless the hand tool is active); over the
// background it starts a pan.
func (e *Engine) PointerDown(screen vector.Pt) {
	canvasPt := e.Viewport.ScreenToCanvas(screen)
	card := e.cardAt(canvasPt)
	if card == nil || e.Select.Tool() == ToolHand {
		e.Drag.StartPan(screen)
		return
	}
	var anchors []vector.Anchor
	for _, c := range e.layout.Cards() {
		if c != card {
			anchors = append(anchors, vector.Anchor{Rect: c.Bounds(), Weight: 1})
		}
	}
	e.Drag.StartCard(screen, card, anchors)
}

// PointerMove updates the active interaction.
func (e *Engine) PointerMove(screen vector.Pt) {
	e.Drag.Move(screen)
	if e.Drag.Dragging() && e.OnRender != nil {
		e.OnRender()
	}
}

// PointerUp finishes the interaction. A drag persists all card positions
// of the active canvas; a sub-threshold click resolves through the
// selection rules (open preview or toggle).
func (e *Engine) PointerUp(ctx context.Context, screen vector.Pt, mods Modifiers) {
	outcome, card := e.Drag.End(screen)
	switch outcome {
	case OutcomeDragged:
		e.pushHistory()
		key := card.Key()
		if err := e.Registry.SetPosition(key, card.Pos); err != nil {
			e.deps.Notifier.Toast(ToastError, "No active canvas to save to")
			return
		}
		if err := e.Registry.SavePositions(ctx, e.layout.Positions()); err != nil {
			// In-memory position stays; next drag or explicit save retries.
			e.log.Warn("position save failed", slog.Any("err", err))
			e.deps.Notifier.Toast(ToastError, "Saving screen positions failed")
		}
	case OutcomeClick:
		if card == nil {
			e.Select.Clear()
			if e.OnRender != nil {
				e.OnRender()
			}
			return
		}
		switch e.Select.Click(card.Key(), mods.Additive()) {
		case ClickOpensPreview:
			if e.OnOpenPreview != nil {
				e.OnOpenPreview(card.FeatureID, card.PageID)
			}
		case ClickToggledSelection:
			if e.OnRender != nil {
				e.OnRender()
			}
		}
	}
}

// --- zooming -------------------------------------------------------------

// ZoomStep applies a toolbar ± step anchored at the viewport center.
func (e *Engine) ZoomStep(direction int, viewport vector.Size) {
	e.Viewport.ZoomStepAnimated(direction, vector.Pt{X: viewport.W / 2, Y: viewport.H / 2}, e.Animator)
}

// ZoomWheel applies a wheel tick anchored at the pointer.
func (e *Engine) ZoomWheel(delta float64, pointer vector.Pt) {
	e.Viewport.ZoomWheel(delta, pointer)
}

// --- history -------------------------------------------------------------

func (e *Engine) pushHistory() {
	canvas, ok := e.Registry.Active()
	if !ok {
		return
	}
	blob, err := json.Marshal(canvas.FeaturePositions)
	if err != nil {
		return
	}
	e.History.PushSnapshot(undo.Snapshot{CanvasID: canvas.ID, Blob: blob, TS: e.deps.Clock()})
}

// Undo restores the previous position map of the active canvas and
// persists it.
func (e *Engine) Undo(ctx context.Context) bool {
	canvas, ok := e.Registry.Active()
	if !ok {
		return false
	}
	snap, ok := e.History.Undo(canvas.ID)
	if !ok {
		return false
	}
	var positions map[string]domain.Position
	if err := json.Unmarshal(snap.Blob, &positions); err != nil {
		return false
	}
	if err := e.Registry.SavePositions(ctx, positions); err != nil {
		e.deps.Notifier.Toast(ToastError, "Saving screen positions failed")
	}
	e.Render()
	return true
}

// Redo reapplies a position map undone on the active canvas.
func (e *Engine) Redo(ctx context.Context) bool {
	canvas, ok := e.Registry.Active()
	if !ok {
		return false
	}
	snap, ok := e.History.Redo(canvas.ID)
	if !ok {
		return false
	}
	var positions map[string]domain.Position
	if err := json.Unmarshal(snap.Blob, &positions); err != nil {
		return false
	}
	if err := e.Registry.SavePositions(ctx, positions); err != nil {
		e.deps.Notifier.Toast(ToastError, "Saving screen positions failed")
	}
	e.Render()
	return true
}

// --- screens -------------------------------------------------------------

// AddScreenToCanvas places a page on the active canvas at the given
// position (the add-screen picker) and persists.
func (e *Engine) AddScreenToCanvas(ctx context.Context, featureID, pageID string, pos domain.Position) error {
	f, ok := e.Features.Get(featureID)
	if !ok || f.FindPage(pageID) == nil {
		e.deps.Notifier.Toast(ToastError, "Screen no longer exists")
		return ErrMissingContext
	}
	e.pushHistory()
	key := domain.CompositeKey(featureID, pageID)
	if err := e.Registry.SetPosition(key, pos); err != nil {
		e.deps.Notifier.Toast(ToastError, "No active canvas")
		return err
	}
	canvas, _ := e.Registry.Active()
	if err := e.Registry.SavePositions(ctx, canvas.FeaturePositions); err != nil {
		e.deps.Notifier.Toast(ToastError, "Saving screen positions failed")
		return err
	}
	e.Render()
	return nil
}

// RemoveScreenFromCanvas removes a card from the active canvas layout
// (curated canvases only; the page itself is untouched).
func (e *Engine) RemoveScreenFromCanvas(ctx context.Context, featureID, pageID string) error {
	e.pushHistory()
	key := domain.CompositeKey(featureID, pageID)
	if err := e.Registry.RemovePositions([]string{key}); err != nil {
		return err
	}
	e.Select.Clear()
	canvas, _ := e.Registry.Active()
	if err := e.Registry.SavePositions(ctx, canvas.FeaturePositions); err != nil {
		e.deps.Notifier.Toast(ToastError, "Saving screen positions failed")
		return err
	}
	e.Render()
	return nil
}

// DeleteScreens permanently deletes pages from a feature after the shell
// confirmed the action (the confirmation prompt names each screen). The
// pages leave the feature store and every canvas position map entry for
// them on the active canvas.
func (e *Engine) DeleteScreens(ctx context.Context, featureID string, pageIDs []string) error {
	if e.deps.ProjectID == "" || featureID == "" || len(pageIDs) == 0 {
		e.deps.Notifier.Toast(ToastError, "Nothing to delete")
		return ErrMissingContext
	}
	if err := e.deps.Gateway.DeleteScreens(ctx, e.deps.ProjectID, featureID, pageIDs); err != nil {
		e.deps.Notifier.Toast(ToastError, "Deleting screens failed")
		return err
	}
	if err := e.Features.RemovePages(featureID, pageIDs); err != nil {
		return err
	}
	keys := make([]string, 0, len(pageIDs))
	for _, id := range pageIDs {
		keys = append(keys, domain.CompositeKey(featureID, id))
	}
	_ = e.Registry.RemovePositions(keys)
	e.Select.Clear()
	e.Render()
	e.deps.Notifier.Toast(ToastInfo, "Screens deleted")
	return nil
}

// --- AI edit / generate --------------------------------------------------

// EditPage sends a design-chat instruction for a page and applies the
// returned markup as an immutable feature update.
func (e *Engine) EditPage(ctx context.Context, featureID, pageID, message string) (domain.ChatResult, error) {
	if e.deps.ProjectID == "" || featureID == "" || pageID == "" {
		e.deps.Notifier.Toast(ToastError, "No screen selected for editing")
		return domain.ChatResult{}, ErrMissingContext
	}
	res, err := e.deps.Gateway.DesignChat(ctx, e.deps.ProjectID, domain.ChatRequest{
		FeatureID: featureID, PageID: pageID, Message: message,
	})
	if err != nil {
		e.deps.Notifier.Toast(ToastError, "Edit request failed")
		return domain.ChatResult{}, err
	}
	if !res.Success {
		e.deps.Notifier.Toast(ToastError, "Edit failed: "+res.Error)
		return res, nil
	}
	if res.UpdatedHTML != "" {
		switch res.EditTarget {
		case domain.EditTargetElement:
			if err := e.Features.ApplyElementEdit(featureID, res.ElementID, res.UpdatedHTML, res.UpdatedCSS); err != nil {
				return res, err
			}
		default:
			if err := e.Features.ApplyEdit(featureID, pageID, res.UpdatedHTML, res.UpdatedCSS); err != nil {
				return res, err
			}
		}
		e.Render()
	}
	return res, nil
}

// GenerateScreen asks the generate service for a new page and appends it
// to the feature.
func (e *Engine) GenerateScreen(ctx context.Context, featureID, description string) error {
	if e.deps.ProjectID == "" || featureID == "" {
		e.deps.Notifier.Toast(ToastError, "No feature selected for generation")
		return ErrMissingContext
	}
	page, err := e.deps.Gateway.GenerateScreen(ctx, e.deps.ProjectID, featureID, description)
	if err != nil {
		e.deps.Notifier.Toast(ToastError, "Screen generation failed")
		return err
	}
	if err := e.Features.AddPage(featureID, page); err != nil {
		return err
	}
	e.Render()
	e.deps.Notifier.Toast(ToastInfo, "Screen generated")
	return nil
}

// LoadExternalURL asks the backend to import an external page onto the
// active canvas. The URL is validated client-side first.
func (e *Engine) LoadExternalURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		e.deps.Notifier.Toast(ToastError, "That does not look like a valid URL")
		return ErrInvalidURL
	}
	canvasID := e.Registry.ActiveID()
	if canvasID == "" {
		e.deps.Notifier.Toast(ToastError, "No active canvas")
		return ErrNoActiveCanvas
	}
	if err := e.deps.Gateway.LoadExternalURL(ctx, e.deps.ProjectID, u.String(), canvasID); err != nil {
		e.deps.Notifier.Toast(ToastError, "Loading the URL failed")
		return err
	}
	e.deps.Notifier.Toast(ToastInfo, "External page queued")
	return nil
}

// KeyPressed handles global keyboard shortcuts. Delete/Backspace returns
// the selected keys so the shell can run its confirmation prompt; other
// keys switch tools.
func (e *Engine) KeyPressed(key string) (deleteRequested []string) {
	switch key {
	case "Delete", "Backspace":
		if e.Select.Len() > 0 {
			return e.Select.Keys()
		}
		return nil
	default:
		if tool, ok := ToolForKey(key); ok {
			e.Select.SetTool(tool)
		}
		return nil
	}
}
