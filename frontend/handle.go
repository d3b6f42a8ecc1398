// Copyright 2026 The GoGPU Authors
// SPDX-License-Identifier: MIT

package frontend

import (
	"errors"
	"sync"
)

// ErrNotAcquired is returned by Release without a matching Acquire.
var ErrNotAcquired = errors.New("frontend: release without acquire")

// Handle shares one front end between builds. The first Acquire
// initializes it and the last Release shuts it down.
type Handle struct {
	fe   FrontEnd
	mu   sync.Mutex
	refs int
}

// NewHandle wraps fe.
func NewHandle(fe FrontEnd) *Handle {
	return &Handle{fe: fe}
}

// Acquire takes a reference, initializing the front end if it is the first.
func (h *Handle) Acquire() (FrontEnd, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs == 0 {
		if lc, ok := h.fe.(Lifecycle); ok {
			if err := lc.Init(); err != nil {
				return nil, err
			}
		}
	}
	h.refs++
	return h.fe, nil
}

// Release drops a reference, shutting the front end down with the last one.
func (h *Handle) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs == 0 {
		return ErrNotAcquired
	}
	h.refs--
	if h.refs > 0 {
		return nil
	}
	if lc, ok := h.fe.(Lifecycle); ok {
		return lc.Shutdown()
	}
	return nil
}

// Refs returns the number of outstanding references.
func (h *Handle) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}
