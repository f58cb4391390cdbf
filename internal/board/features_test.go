/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"testing"

	"screenflow/internal/domain"
)

func TestResolveKey(t *testing.T) {
	s := NewFeatureStore([]domain.Feature{
		{FeatureID: "user_auth", Pages: []domain.Page{{PageID: "P1"}, {PageID: "sign_in"}}},
		{FeatureID: "F2", Pages: []domain.Page{{PageID: "P1"}}},
	})
	cases := []struct {
		name     string
		key      string
		fid, pid string
		ok       bool
	}{
		{"underscore in feature id", domain.CompositeKey("user_auth", "P1"), "user_auth", "P1", true},
		{"underscores in both ids", domain.CompositeKey("user_auth", "sign_in"), "user_auth", "sign_in", true},
		{"plain ids", domain.CompositeKey("F2", "P1"), "F2", "P1", true},
		{"unknown page", "F2_P9", "", "", false},
		{"unknown feature", "F9_P1", "", "", false},
		{"no separator", "F2", "", "", false},
	}
	for _, c := range cases {
		fid, pid, ok := s.ResolveKey(c.key)
		if ok != c.ok || fid != c.fid || pid != c.pid {
			t.Fatalf("%s: got (%q, %q, %v), want (%q, %q, %v)", c.name, fid, pid, ok, c.fid, c.pid, c.ok)
		}
	}
}

func TestApplyElementEditLeavesOriginalSnapshot(t *testing.T) {
	f := threePageFeature()
	f.CommonElements = []domain.CommonElement{{
		ElementID:   "el-1",
		Position:    domain.PosTop,
		HTMLContent: "<nav>old</nav>",
		AppliesTo:   []string{"all"},
	}}
	s := NewFeatureStore([]domain.Feature{f})
	before, _ := s.Get("F1")

	if err := s.ApplyElementEdit("F1", "el-1", "<nav>new</nav>", ""); err != nil {
		t.Fatalf("ApplyElementEdit: %v", err)
	}
	after, _ := s.Get("F1")
	if got := after.CommonElements[0].HTMLContent; got != "<nav>new</nav>" {
		t.Fatalf("element html = %q", got)
	}
	// The snapshot handed out before the edit is untouched.
	if got := before.CommonElements[0].HTMLContent; got != "<nav>old</nav>" {
		t.Fatalf("prior snapshot mutated: %q", got)
	}
}
