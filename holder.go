package zshmod

import (
	"sync"
	"sync/atomic"
)

// moduleHolder is the process-wide cell holding the one live module
// instance between a successful Setup and a completed Finish. The mutex
// is held for the full duration of each boundary call, serializing
// whatever threads the host invokes us from. The poison flag is
// monotonic: once a panic has been contained, it never resets for the
// life of the process.
type moduleHolder struct {
	mu       sync.Mutex
	mod      *Module
	poisoned atomic.Bool
}

var holder moduleHolder

// set installs the instance, replacing any previous one.
func (h *moduleHolder) set(m *Module) {
	h.mu.Lock()
	h.mod = m
	h.mu.Unlock()
}

// withModule runs fn with the installed instance under the lock. A call
// arriving before Setup completed, or after Finish, is a broken
// lifecycle contract and panics.
func (h *moduleHolder) withModule(fn func(*Module) int32) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.mod == nil {
		panic("zshmod: no module set")
	}
	return fn(h.mod)
}

// poison marks the module permanently unusable for teardown.
func (h *moduleHolder) poison() {
	h.poisoned.Store(true)
}

// clear drops the installed instance and runs its finish hook, if any.
// Once poisoned, teardown is suppressed and the instance stays in
// place. Clearing an empty holder is a no-op.
func (h *moduleHolder) clear() error {
	if h.poisoned.Load() {
		return nil
	}

	h.mu.Lock()
	m := h.mod
	h.mod = nil
	h.mu.Unlock()

	if m == nil || m.onFinish == nil {
		return nil
	}
	return m.onFinish()
}
