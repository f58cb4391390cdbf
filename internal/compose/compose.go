/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compose merges a page's own markup with the feature's applicable
// common elements (headers, footers, sidebars) into a single renderable
// document. Composition is a pure function of the feature and page
// snapshots: identical inputs always produce identical markup.
package compose

import (
	"strings"

	"screenflow/internal/domain"
)

// Mode selects the embedding variant.
type Mode int

const (
	// ModeThumbnail injects body{margin:0;overflow:hidden} for card iframes.
	ModeThumbnail Mode = iota
	// ModeFull renders the page for the preview modal without overrides.
	ModeFull
)

// Compose produces the final markup body for a (feature, page) pair:
// fixed-top and top elements first, then the page content (wrapped in a
// flex row with left/right sidebars when any exist), then bottom and
// fixed-bottom elements. Bucket order is fixed; order within a bucket
// follows the feature's element array.
func Compose(f domain.Feature, p domain.Page) string {
	buckets := make(map[string][]domain.CommonElement, len(domain.PositionOrder))
	for _, el := range f.CommonElements {
		if el.AppliesToPage(p.PageID) {
			buckets[el.Position] = append(buckets[el.Position], el)
		}
	}

	var b strings.Builder
	writeBucket := func(pos string) {
		for _, el := range buckets[pos] {
			b.WriteString(el.HTMLContent)
			b.WriteString("\n")
		}
	}

	writeBucket(domain.PosFixedTop)
	writeBucket(domain.PosTop)

	if len(buckets[domain.PosLeft]) > 0 || len(buckets[domain.PosRight]) > 0 {
		b.WriteString(`<div class="sf-layout" style="display:flex;min-height:0">` + "\n")
		writeBucket(domain.PosLeft)
		b.WriteString(`<main class="sf-content" style="flex:1 1 auto">` + "\n")
		b.WriteString(p.HTMLContent)
		b.WriteString("\n</main>\n")
		writeBucket(domain.PosRight)
		b.WriteString("</div>\n")
	} else {
		b.WriteString(p.HTMLContent)
		b.WriteString("\n")
	}

	writeBucket(domain.PosBottom)
	writeBucket(domain.PosFixedBottom)

	return b.String()
}

// Document embeds the composed body in a minimal standalone HTML document
// with the feature stylesheet inlined, ready for an iframe or preview pane.
func Document(f domain.Feature, p domain.Page, mode Mode) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	b.WriteString("<style>\n")
	if mode == ModeThumbnail {
		b.WriteString("body { margin: 0; overflow: hidden; }\n")
	}
	if f.CSSStyle != "" {
		b.WriteString(f.CSSStyle)
		b.WriteString("\n")
	}
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(Compose(f, p))
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
