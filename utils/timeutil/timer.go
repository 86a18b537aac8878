// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package timeutil

import (
	"sync"
	"time"
)

// Timer wraps time.Timer with idempotent Start/Cancel semantics: calling
// Start or Cancel while already in that state is a no-op that reports
// failure by returning false.
type Timer struct {
	C <-chan time.Time

	d time.Duration
	c chan time.Time

	mu      sync.Mutex
	timer   *time.Timer
	running bool
}

// NewTimer creates a Timer which fires d after Start is called.
func NewTimer(d time.Duration) *Timer {
	c := make(chan time.Time, 1)
	return &Timer{C: c, c: c, d: d}
}

// Start starts the timer if it is not already running. Returns true if this
// call started the timer.
func (t *Timer) Start() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return false
	}
	t.running = true
	t.timer = time.AfterFunc(t.d, func() {
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
		select {
		case t.c <- time.Now():
		default:
		}
	})
	return true
}

// Cancel stops the timer if it is running. Returns true if this call
// prevented a pending fire.
func (t *Timer) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running || t.timer == nil {
		return false
	}
	stopped := t.timer.Stop()
	t.running = false
	return stopped
}
