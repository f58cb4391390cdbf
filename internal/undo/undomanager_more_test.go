/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestClearCanvasAndStats(t *testing.T) {
	m := NewManager(Config{MaxBytes: 1024, MaxPerCanvas: 10, MinInterval: time.Millisecond})
	cv := "c7"
	m.PushSnapshot(Snapshot{CanvasID: cv, Blob: []byte("abcdef"), TS: time.Now()})
	tb, canvases, total := m.Stats()
	if tb == 0 || canvases != 1 || total != 1 {
		t.Fatalf("unexpected stats before clear: tb=%d canvases=%d total=%d", tb, canvases, total)
	}
	m.ClearCanvas(cv)
	tb2, canvases2, total2 := m.Stats()
	if tb2 != 0 || canvases2 != 0 || total2 != 0 {
		t.Fatalf("expected cleared stats to be zero, got tb=%d canvases=%d total=%d", tb2, canvases2, total2)
	}
}

func TestGlobalPruneAcrossCanvases(t *testing.T) {
	// Very small MaxBytes so pruning triggers across canvases
	m := NewManager(Config{MaxBytes: 8, MaxPerCanvas: 0, MinInterval: time.Millisecond})
	t0 := time.Now()
	// Canvas c1 older snapshot
	m.PushSnapshot(Snapshot{CanvasID: "c1", Blob: []byte("xxxx"), TS: t0})
	// Canvas c2 newer snapshot
	m.PushSnapshot(Snapshot{CanvasID: "c2", Blob: []byte("yyyy"), TS: t0.Add(time.Second)})

	// Add another snapshot to exceed cap and force prune of the oldest
	m.PushSnapshot(Snapshot{CanvasID: "c2", Blob: []byte("zzzz"), TS: t0.Add(2 * time.Second)})

	// After pruning, oldest (c1) should be removed
	_, canvases, total := m.Stats()
	if canvases == 0 || total == 0 {
		t.Fatalf("expected some snapshots to remain")
	}
	// Undo on c1 should now be empty
	if _, ok := m.Undo("c1"); ok {
		t.Fatalf("expected c1 to have been pruned")
	}
	// Undo on c2 should still work
	if _, ok := m.Undo("c2"); !ok {
		t.Fatalf("expected c2 to have snapshots")
	}
}
