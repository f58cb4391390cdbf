/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import (
	"fmt"
	"strings"

	"screenflow/internal/domain"
)

// FeatureStore holds the feature/page dataset in insertion order. Updates
// after an AI edit or generate response replace whole Feature values; the
// stored snapshots are never mutated in place, which keeps composition a
// pure function of what the store hands out.
type FeatureStore struct {
	features []domain.Feature
	index    map[string]int // feature id -> slice position
}

// NewFeatureStore builds a store from the service payload, preserving order.
func NewFeatureStore(features []domain.Feature) *FeatureStore {
	s := &FeatureStore{index: make(map[string]int, len(features))}
	s.Replace(features)
	return s
}

// Replace swaps the full dataset, as after a design-features refetch.
func (s *FeatureStore) Replace(features []domain.Feature) {
	s.features = append(s.features[:0:0], features...)
	s.index = make(map[string]int, len(features))
	for i, f := range s.features {
		s.index[f.FeatureID] = i
	}
}

// All returns the features in insertion order. Callers must not mutate the
// returned values; use Update to install a replacement.
func (s *FeatureStore) All() []domain.Feature { return s.features }

// Len returns the number of features.
func (s *FeatureStore) Len() int { return len(s.features) }

// Get returns the feature snapshot for an id.
func (s *FeatureStore) Get(featureID string) (domain.Feature, bool) {
	i, ok := s.index[featureID]
	if !ok {
		return domain.Feature{}, false
	}
	return s.features[i], true
}

// ResolveKey maps a composite position key back to its feature and page by
// matching against the known dataset. Splitting the key on an underscore
// would mis-parse feature ids that themselves contain one, so resolution
// goes through the store.
func (s *FeatureStore) ResolveKey(key string) (featureID, pageID string, ok bool) {
	for _, f := range s.features {
		prefix := f.FeatureID + "_"
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if pid := key[len(prefix):]; f.PageIndex(pid) >= 0 {
			return f.FeatureID, pid, true
		}
	}
	return "", "", false
}

// Update installs a replacement snapshot for an existing feature.
func (s *FeatureStore) Update(f domain.Feature) error {
	i, ok := s.index[f.FeatureID]
	if !ok {
		return fmt.Errorf("unknown feature %q", f.FeatureID)
	}
	s.features[i] = f
	return nil
}

// ApplyEdit replaces a page's markup (and optionally the feature
// stylesheet) with the result of a design-chat edit.
func (s *FeatureStore) ApplyEdit(featureID, pageID, html, css string) error {
	f, ok := s.Get(featureID)
	if !ok {
		return fmt.Errorf("unknown feature %q", featureID)
	}
	if f.PageIndex(pageID) < 0 {
		return fmt.Errorf("unknown page %q in feature %q", pageID, featureID)
	}
	return s.Update(f.WithPageHTML(pageID, html, css))
}

// ApplyElementEdit replaces a common element's markup (and optionally the
// feature stylesheet) with the result of an element-targeted design-chat
// edit. The page the edit was requested from is not touched.
func (s *FeatureStore) ApplyElementEdit(featureID, elementID, html, css string) error {
	f, ok := s.Get(featureID)
	if !ok {
		return fmt.Errorf("unknown feature %q", featureID)
	}
	if f.ElementIndex(elementID) < 0 {
		return fmt.Errorf("unknown element %q in feature %q", elementID, featureID)
	}
	return s.Update(f.WithElementHTML(elementID, html, css))
}

// AddPage appends a newly generated page to a feature.
func (s *FeatureStore) AddPage(featureID string, p domain.Page) error {
	f, ok := s.Get(featureID)
	if !ok {
		return fmt.Errorf("unknown feature %q", featureID)
	}
	return s.Update(f.WithPageAdded(p))
}

// RemovePages drops pages from a feature after a delete-screens call.
func (s *FeatureStore) RemovePages(featureID string, pageIDs []string) error {
	f, ok := s.Get(featureID)
	if !ok {
		return fmt.Errorf("unknown feature %q", featureID)
	}
	return s.Update(f.WithPagesRemoved(pageIDs))
}
