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
	"errors"
	"testing"

	"screenflow/internal/domain"
)

func TestLoadPrefersDefaultCanvas(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{
		{ID: "c1", Name: "Flows"},
		{ID: "c2", Name: "Main", IsDefault: true},
		{ID: "c3", Name: "Archive"},
	}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.ActiveID() != "c2" {
		t.Fatalf("active = %q, want the default c2", r.ActiveID())
	}
}

func TestLoadFallsBackToFirstCanvas(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{
		{ID: "c1", Name: "Flows"},
		{ID: "c2", Name: "Archive"},
	}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.ActiveID() != "c1" {
		t.Fatalf("active = %q, want c1", r.ActiveID())
	}
}

func TestLoadErrorKeepsRegistryEmpty(t *testing.T) {
	gw := &fakeGateway{failList: errors.New("boom")}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err == nil {
		t.Fatal("Load swallowed the list error")
	}
	if r.Len() != 0 || r.ActiveID() != "" {
		t.Fatalf("registry not empty after failed load: len=%d active=%q", r.Len(), r.ActiveID())
	}
}

func TestCreateDefaultClearsPreviousDefault(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{{ID: "c1", Name: "Main", IsDefault: true}}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	created, err := r.Create(context.Background(), "New default", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ActiveID() != created.ID {
		t.Fatalf("active = %q, want the created canvas", r.ActiveID())
	}
	defaults := 0
	for _, c := range r.Canvases() {
		if c.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("defaults = %d, want exactly 1", defaults)
	}
}

func TestSwitchBumpsGenerationAndDiscardsStale(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{
		{ID: "c1", IsDefault: true}, {ID: "c2"},
	}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	token := r.Generation()
	if r.Stale(token) {
		t.Fatal("fresh token reported stale")
	}
	if err := r.SwitchTo(context.Background(), "c2"); err != nil {
		t.Fatalf("SwitchTo: %v", err)
	}
	if !r.Stale(token) {
		t.Fatal("token from before the switch should be stale")
	}
}

func TestDeleteActiveCanvasPicksSurvivor(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{
		{ID: "c1", IsDefault: true}, {ID: "c2"}, {ID: "c3"},
	}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := r.Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if r.Len() != 2 || r.ActiveID() != "c2" {
		t.Fatalf("after delete: len=%d active=%q", r.Len(), r.ActiveID())
	}
}

func TestDeleteKeepsCanvasOnNetworkFailure(t *testing.T) {
	gw := &fakeGateway{
		canvases:   []domain.Canvas{{ID: "c1", IsDefault: true}, {ID: "c2"}},
		failDelete: errors.New("503"),
	}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := r.Delete(context.Background(), "c2"); err == nil {
		t.Fatal("Delete swallowed the network error")
	}
	if r.Len() != 2 {
		t.Fatalf("canvas dropped locally despite failed delete: len=%d", r.Len())
	}
}

func TestSavePositionsKeepsMemoryOnFailure(t *testing.T) {
	gw := &fakeGateway{
		canvases: []domain.Canvas{{ID: "c1", IsDefault: true}},
		failSave: errors.New("timeout"),
	}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	positions := map[string]domain.Position{"F_p": {X: 1, Y: 2}}
	if err := r.SavePositions(context.Background(), positions); err == nil {
		t.Fatal("SavePositions swallowed the error")
	}
	active, _ := r.Active()
	if active.FeaturePositions["F_p"] != (domain.Position{X: 1, Y: 2}) {
		t.Fatal("in-memory positions lost after failed save")
	}
}

func TestSavePositionsSnapshotsTheMap(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{{ID: "c1", IsDefault: true}}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	positions := map[string]domain.Position{"F_p": {X: 1, Y: 2}}
	if err := r.SavePositions(context.Background(), positions); err != nil {
		t.Fatalf("SavePositions: %v", err)
	}
	positions["F_p"] = domain.Position{X: 99, Y: 99} // caller mutates after the fact
	active, _ := r.Active()
	if active.FeaturePositions["F_p"] != (domain.Position{X: 1, Y: 2}) {
		t.Fatal("registry aliases the caller's map instead of snapshotting")
	}
}

func TestLoadRestoresConversationCanvas(t *testing.T) {
	gw := &fakeGateway{
		canvases: []domain.Canvas{
			{ID: "c1", Name: "Main", IsDefault: true},
			{ID: "c2", Name: "Checkout flow"},
		},
		conversationCanvas: "c2",
	}
	r := NewRegistry(gw, "p")
	r.AttachConversation("conv-1")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.ActiveID() != "c2" {
		t.Fatalf("active = %q, want the conversation's canvas c2", r.ActiveID())
	}
}

func TestLoadIgnoresUnknownConversationCanvas(t *testing.T) {
	gw := &fakeGateway{
		canvases: []domain.Canvas{
			{ID: "c1", Name: "Main", IsDefault: true},
		},
		conversationCanvas: "gone",
	}
	r := NewRegistry(gw, "p")
	r.AttachConversation("conv-1")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.ActiveID() != "c1" {
		t.Fatalf("active = %q, want the default c1", r.ActiveID())
	}
}

func TestActiveReturnsDefensiveCopy(t *testing.T) {
	gw := &fakeGateway{canvases: []domain.Canvas{
		{ID: "c1", Name: "Main", IsDefault: true,
			FeaturePositions: map[string]domain.Position{"F1_P1": {X: 10, Y: 20}}},
	}}
	r := NewRegistry(gw, "p")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	cv, ok := r.Active()
	if !ok {
		t.Fatal("no active canvas")
	}
	cv.FeaturePositions["F1_P1"] = domain.Position{X: 999, Y: 999}
	cv.FeaturePositions["rogue"] = domain.Position{}

	again, _ := r.Active()
	if got := again.FeaturePositions["F1_P1"]; got.X != 10 || got.Y != 20 {
		t.Fatalf("registry position mutated through the copy: %+v", got)
	}
	if _, leaked := again.FeaturePositions["rogue"]; leaked {
		t.Fatal("entry added through the copy reached the registry")
	}
}
