package hostsim

import (
	"unsafe"

	"github.com/dshills/zshmod/zsys"
)

// FeaturesArray implements zsys.Host. The session keeps the received
// tables for dispatch and marks every feature enabled the first time it
// sees them.
func (h *Host) FeaturesArray(mod zsys.ModuleHandle, f *zsys.Features) **byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feats = f
	h.ensureEnablesLocked(f)
	return zsys.NewArgv(f.Names()...)
}

// HandleFeatures implements zsys.Host. With *enables nil the current
// state vector is written out; otherwise the vector found there is
// applied across all features.
func (h *Host) HandleFeatures(mod zsys.ModuleHandle, f *zsys.Features, enables **int32) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feats = f
	h.ensureEnablesLocked(f)

	if enables == nil {
		return zsys.RetError
	}
	if *enables == nil {
		if len(h.enables) > 0 {
			states := make([]int32, len(h.enables))
			copy(states, h.enables)
			*enables = &states[0]
		}
		return zsys.RetOK
	}

	vec := unsafe.Slice(*enables, len(h.enables))
	copy(h.enables, vec)
	return zsys.RetOK
}

// SetFeatureEnables implements zsys.Host. A nil vector disables every
// feature, which is what the cleanup entry point asks for.
func (h *Host) SetFeatureEnables(mod zsys.ModuleHandle, f *zsys.Features, enables *int32) int32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feats = f
	h.ensureEnablesLocked(f)

	if enables == nil {
		for i := range h.enables {
			h.enables[i] = 0
		}
		return zsys.RetOK
	}

	vec := unsafe.Slice(enables, len(h.enables))
	copy(h.enables, vec)
	return zsys.RetOK
}

func (h *Host) ensureEnablesLocked(f *zsys.Features) {
	if len(h.enables) == f.Count() {
		return
	}
	h.enables = make([]int32, f.Count())
	for i := range h.enables {
		h.enables[i] = 1
	}
}
