// Package daemon keeps a registry service running: it holds the active
// registry, rebuilds it when watched content changes, and runs scheduled
// link verification.
package daemon

import (
	"sync"

	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// Holder owns the currently active registry and swaps it atomically on
// rebuild. Readers always see either the previous or the new registry,
// never a partial one.
type Holder struct {
	mu      sync.RWMutex
	reg     *registry.Registry
	buildID string
}

// NewHolder creates a holder with an initial registry.
func NewHolder(reg *registry.Registry, buildID string) *Holder {
	return &Holder{reg: reg, buildID: buildID}
}

// Get returns the active registry and its build ID.
func (h *Holder) Get() (*registry.Registry, string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.reg, h.buildID
}

// Swap installs a new registry as the active one.
func (h *Holder) Swap(reg *registry.Registry, buildID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reg = reg
	h.buildID = buildID
}
