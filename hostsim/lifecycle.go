package hostsim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/zshmod"
	"github.com/dshills/zshmod/zsys"
)

// Session errors.
var (
	// ErrModuleFault is returned when an entry point yields the
	// internal-fault sentinel; the module is poisoned and the process
	// should be restarted.
	ErrModuleFault = errors.New("module internal fault")

	// ErrLifecycleStep is returned when an entry point reports an
	// ordinary failure.
	ErrLifecycleStep = errors.New("lifecycle step failed")

	// ErrUnknownFeature is returned for a prefixed feature name the
	// module never declared.
	ErrUnknownFeature = errors.New("unknown feature")
)

// LoadModule binds the session as the process host and drives the load
// half of the protocol: Setup, Boot, Features, Enables. Any prior
// feature state is discarded, as it would be by a fresh zmodload.
func (h *Host) LoadModule() error {
	zsys.Bind(h)

	h.mu.Lock()
	h.feats = nil
	h.featNames = nil
	h.enables = nil
	h.mu.Unlock()

	mod := h.Handle()
	if code := zshmod.Setup(mod); code != zsys.RetOK {
		return h.stepErr("setup", code)
	}
	if code := zshmod.Boot(mod); code != zsys.RetOK {
		return h.stepErr("boot", code)
	}

	var arr **byte
	if code := zshmod.Features(mod, &arr); code != zsys.RetOK {
		return h.stepErr("features", code)
	}
	names := zsys.GoStrings(arr)
	h.mu.Lock()
	h.featNames = names
	h.mu.Unlock()

	var vec *int32
	if code := zshmod.Enables(mod, &vec); code != zsys.RetOK {
		return h.stepErr("enables", code)
	}

	h.mu.Lock()
	h.loaded = true
	h.mu.Unlock()
	return nil
}

// UnloadModule drives the unload half of the protocol: Cleanup, then
// Finish.
func (h *Host) UnloadModule() error {
	mod := h.Handle()
	if code := zshmod.Cleanup(mod); code != zsys.RetOK {
		return h.stepErr("cleanup", code)
	}
	if code := zshmod.Finish(mod); code != zsys.RetOK {
		return h.stepErr("finish", code)
	}

	h.mu.Lock()
	h.loaded = false
	h.mu.Unlock()
	return nil
}

// Dispatch runs a builtin the way the interpreter would: words are
// split into option letters and positional arguments against the
// builtin's declared flags, argument-count bounds are enforced, and
// only then is the patched function pointer invoked. Host-side
// rejections report through the sink and return 1 without reaching the
// module.
func (h *Host) Dispatch(name string, words ...string) int32 {
	h.mu.Lock()
	feats := h.feats
	h.mu.Unlock()

	if feats == nil {
		h.ReportNamed(name, "module not loaded")
		return zsys.RetError
	}
	bin := feats.Binary(name)
	if bin == nil || !h.binaryEnabled(name) {
		h.ReportNamed(name, "no such builtin")
		return zsys.RetError
	}
	if bin.Handler == nil {
		h.ReportNamed(name, "builtin has no handler pointer")
		return zsys.RetError
	}

	letters, args, err := splitWords(bin.Flags, words)
	if err != nil {
		h.ReportNamed(name, err.Error())
		return zsys.RetError
	}
	if len(args) < bin.MinArgs {
		h.ReportNamed(name, "not enough arguments")
		return zsys.RetError
	}
	if bin.MaxArgs >= 0 && len(args) > bin.MaxArgs {
		h.ReportNamed(name, "too many arguments")
		return zsys.RetError
	}

	code := bin.Handler(zsys.NewCString(name), zsys.NewArgv(args...), h.NewOptions(letters), 0)
	if code == zsys.RetFault {
		h.mu.Lock()
		h.faulted = true
		h.mu.Unlock()
	}
	return code
}

// SetFeatureState flips one feature's enable state by prefixed name,
// routing the full vector through the module's Enables entry point the
// way `zmodload -F` would.
func (h *Host) SetFeatureState(name string, enabled bool) error {
	h.mu.Lock()
	idx := -1
	for i, n := range h.featNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 || idx >= len(h.enables) {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownFeature, name)
	}
	states := make([]int32, len(h.enables))
	copy(states, h.enables)
	h.mu.Unlock()

	states[idx] = 0
	if enabled {
		states[idx] = 1
	}

	vec := &states[0]
	if code := zshmod.Enables(h.Handle(), &vec); code != zsys.RetOK {
		return h.stepErr("enables", code)
	}
	return nil
}

func (h *Host) binaryEnabled(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.feats == nil {
		return false
	}
	for i, b := range h.feats.Binaries {
		if b.Name == name {
			return i < len(h.enables) && h.enables[i] != 0
		}
	}
	return false
}

func (h *Host) stepErr(step string, code int32) error {
	if code == zsys.RetFault {
		h.mu.Lock()
		h.faulted = true
		h.mu.Unlock()
		return fmt.Errorf("%s: %w", step, ErrModuleFault)
	}
	return fmt.Errorf("%s: %w (code %d)", step, ErrLifecycleStep, code)
}

// splitWords separates leading option clusters from positional
// arguments. "--" ends option parsing; so does the first word that is
// not an option cluster. Letters outside flags are rejected.
func splitWords(flags string, words []string) (letters string, args []string, err error) {
	i := 0
	for ; i < len(words); i++ {
		w := words[i]
		if w == "--" {
			i++
			break
		}
		if len(w) < 2 || w[0] != '-' {
			break
		}
		for _, r := range w[1:] {
			if !strings.ContainsRune(flags, r) {
				return "", nil, fmt.Errorf("bad option: -%c", r)
			}
			if !strings.ContainsRune(letters, r) {
				letters += string(r)
			}
		}
	}
	return letters, append([]string{}, words[i:]...), nil
}
