/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Cancellable animation tasks for viewport motion. The engine is
// single-threaded and event-driven: the UI shell pumps Step from its frame
// callback, and tests pump it with a synthetic clock. Starting an animation
// of a class supersedes any in-flight animation of the same class.

import "time"

// AnimClass partitions animations so a new one only cancels its own kind.
type AnimClass int

const (
	AnimZoom AnimClass = iota
	AnimPan
)

// Ease is a progress-shaping function over [0,1].
type Ease func(t float64) float64

// EaseOutCubic is the easing used for all viewport motion.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

type animTask struct {
	start    time.Time
	duration time.Duration
	ease     Ease
	tick     func(progress float64)
	done     func()
}

// Animator runs at most one animation per class.
type Animator struct {
	now   func() time.Time
	tasks map[AnimClass]*animTask
}

// NewAnimator creates an animator; now may be nil for the wall clock.
func NewAnimator(now func() time.Time) *Animator {
	if now == nil {
		now = time.Now
	}
	return &Animator{now: now, tasks: make(map[AnimClass]*animTask)}
}

// Start schedules tick(progress) to be called by Step until the duration
// elapses, then done (if set). Any running animation of the same class is
// dropped without its done callback; the new animation owns the state.
func (a *Animator) Start(class AnimClass, d time.Duration, ease Ease, tick func(progress float64), done func()) {
	if ease == nil {
		ease = EaseOutCubic
	}
	if d <= 0 {
		tick(1)
		if done != nil {
			done()
		}
		delete(a.tasks, class)
		return
	}
	a.tasks[class] = &animTask{start: a.now(), duration: d, ease: ease, tick: tick, done: done}
}

// Cancel drops the running animation of a class, if any.
func (a *Animator) Cancel(class AnimClass) { delete(a.tasks, class) }

// Running reports whether an animation of the class is in flight.
func (a *Animator) Running(class AnimClass) bool { return a.tasks[class] != nil }

// Step advances all running animations to the current time. It returns true
// while any animation is still in flight so frame loops know to keep pumping.
func (a *Animator) Step() bool {
	now := a.now()
	for class, t := range a.tasks {
		elapsed := now.Sub(t.start)
		if elapsed >= t.duration {
			t.tick(1)
			delete(a.tasks, class)
			if t.done != nil {
				t.done()
			}
			continue
		}
		p := float64(elapsed) / float64(t.duration)
		t.tick(t.ease(p))
	}
	return len(a.tasks) > 0
}
