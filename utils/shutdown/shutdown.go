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

// Package shutdown coordinates graceful process shutdown: cancelling a
// context and running registered cleanup hooks exactly once.
package shutdown

import (
	"context"
	"sync"
)

// Handler cancels a context and runs cleanup hooks on Shutdown.
type Handler struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	cleanups []func() error

	once sync.Once
}

// New creates a Handler deriving its context from parent.
func New(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	return &Handler{ctx: ctx, cancel: cancel}
}

// Context returns the handler's context, which is cancelled on Shutdown.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// AddCleanup registers f to run when Shutdown is called. Cleanups run in
// LIFO order, so the most recently registered resource is closed first.
func (h *Handler) AddCleanup(f func() error) {
	h.mu.Lock()
	h.cleanups = append(h.cleanups, f)
	h.mu.Unlock()
}

// Shutdown cancels the context and runs all registered cleanups in LIFO
// order. Safe to call more than once; only the first call has effect.
func (h *Handler) Shutdown() {
	h.once.Do(func() {
		h.cancel()

		h.mu.Lock()
		cleanups := h.cleanups
		h.mu.Unlock()

		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	})
}
