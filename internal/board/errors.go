/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package board

import "errors"

// Engine-side error taxonomy. These are raised client-side before any
// request is made; transport failures surface as backend.NetworkError. No
// error here is fatal to the session; every one maps to a toast and the
// user can retry the action.
var (
	// ErrLastCanvas: deleting the only remaining canvas is refused.
	ErrLastCanvas = errors.New("cannot delete the last canvas")

	// ErrMissingContext: an AI edit/generate was invoked without a
	// resolvable project/feature/page id.
	ErrMissingContext = errors.New("missing feature or page context")

	// ErrInvalidURL: malformed URL in the load-external-url flow.
	ErrInvalidURL = errors.New("invalid url")

	// ErrNoActiveCanvas: an operation needs an active canvas and none is
	// selected yet.
	ErrNoActiveCanvas = errors.New("no active canvas")
)
