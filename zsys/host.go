package zsys

import (
	"sync"

	"github.com/dshills/zshmod/zlog"
)

// Host is the set of services a loaded module obtains from the
// interpreter that hosts it. A real binding implements it over the
// interpreter's C API; hostsim implements it in Go memory.
type Host interface {
	zlog.Sink

	// ModuleName returns the host-registered name of the module the
	// handle refers to, in the host's NUL-terminated form.
	ModuleName(mod ModuleHandle) *byte

	// FeaturesArray encodes the module's feature tables into the
	// host-owned, class-prefixed string array the features entry point
	// hands back.
	FeaturesArray(mod ModuleHandle, f *Features) **byte

	// HandleFeatures reports or applies feature enable states. With
	// *enables nil the host writes the current state vector out;
	// otherwise it applies the vector it finds there.
	HandleFeatures(mod ModuleHandle, f *Features, enables **int32) int32

	// SetFeatureEnables applies one enable vector across all features.
	// A nil vector disables everything.
	SetFeatureEnables(mod ModuleHandle, f *Features, enables *int32) int32

	// OptionIsSet reports whether option letter opt was present on the
	// current builtin invocation.
	OptionIsSet(opts OptionsHandle, opt rune) bool
}

var (
	hostMu sync.RWMutex
	active Host
)

// Bind installs the process-wide host and routes diagnostics to it. The
// loading path calls it once before any entry point runs; binding nil
// detaches the host again.
func Bind(h Host) {
	hostMu.Lock()
	active = h
	hostMu.Unlock()
	zlog.Bind(h)
}

// Active returns the bound host. An entry point running with no host
// bound is a broken loading contract, so this panics.
func Active() Host {
	hostMu.RLock()
	defer hostMu.RUnlock()
	if active == nil {
		panic("zsys: no host bound")
	}
	return active
}
