package hostsim

import (
	"fmt"
	"io"
	"sync"
	"unsafe"

	"github.com/google/uuid"

	"github.com/dshills/zshmod/zsys"
)

// Host is one simulated interpreter session hosting one module.
type Host struct {
	mu sync.Mutex

	id   string
	name string
	rec  *moduleRecord

	feats     *zsys.Features
	featNames []string
	enables   []int32

	loaded  bool
	faulted bool

	logs []LogEntry
	echo io.Writer
}

// moduleRecord is the memory a module handle points at. Entry points
// that want the module's name dereference the handle, not the session.
type moduleRecord struct {
	name *byte
}

// optsRecord is the memory an options handle points at.
type optsRecord struct {
	set map[rune]bool
}

// LogEntry is one captured diagnostic.
type LogEntry struct {
	Name string
	Msg  string
}

func (e LogEntry) String() string {
	if e.Name == "" {
		return e.Msg
	}
	return e.Name + ": " + e.Msg
}

// New creates a session for a module registered under name.
func New(name string) *Host {
	return &Host{
		id:   uuid.New().String(),
		name: name,
		rec:  &moduleRecord{name: zsys.NewCString(name)},
	}
}

// ID returns the session identifier.
func (h *Host) ID() string { return h.id }

// Name returns the module name the session registered.
func (h *Host) Name() string { return h.name }

// Handle returns the opaque module handle the interpreter would pass to
// every entry point.
func (h *Host) Handle() zsys.ModuleHandle {
	return zsys.ModuleHandle(unsafe.Pointer(h.rec))
}

// Loaded reports whether the load half of the protocol has completed.
func (h *Host) Loaded() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loaded
}

// Faulted reports whether any call has returned the fault sentinel.
func (h *Host) Faulted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.faulted
}

// NewOptions builds an options handle with the given letters set.
func (h *Host) NewOptions(letters string) zsys.OptionsHandle {
	rec := &optsRecord{set: make(map[rune]bool, len(letters))}
	for _, r := range letters {
		rec.set[r] = true
	}
	return zsys.OptionsHandle(unsafe.Pointer(rec))
}

// ModuleName implements zsys.Host by dereferencing the handle.
func (h *Host) ModuleName(mod zsys.ModuleHandle) *byte {
	if mod == nil {
		return nil
	}
	rec := (*moduleRecord)(unsafe.Pointer(mod))
	return rec.name
}

// OptionIsSet implements zsys.Host.
func (h *Host) OptionIsSet(opts zsys.OptionsHandle, opt rune) bool {
	if opts == nil {
		return false
	}
	rec := (*optsRecord)(unsafe.Pointer(opts))
	return rec.set[opt]
}

// Report implements zlog.Sink.
func (h *Host) Report(msg string) {
	h.capture("", msg)
}

// ReportNamed implements zlog.Sink.
func (h *Host) ReportNamed(name, msg string) {
	h.capture(name, msg)
}

func (h *Host) capture(name, msg string) {
	h.mu.Lock()
	h.logs = append(h.logs, LogEntry{Name: name, Msg: msg})
	echo := h.echo
	h.mu.Unlock()

	if echo == nil {
		return
	}
	if name != "" {
		fmt.Fprintf(echo, "%s: %s\n", name, msg)
	} else {
		fmt.Fprintln(echo, msg)
	}
}

// Logs returns a copy of the diagnostics captured so far.
func (h *Host) Logs() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogEntry, len(h.logs))
	copy(out, h.logs)
	return out
}

// ResetLogs discards captured diagnostics.
func (h *Host) ResetLogs() {
	h.mu.Lock()
	h.logs = nil
	h.mu.Unlock()
}

// Echo mirrors future diagnostics to w in addition to capturing them.
func (h *Host) Echo(w io.Writer) {
	h.mu.Lock()
	h.echo = w
	h.mu.Unlock()
}

// FeatureNames returns the prefixed feature names received from the
// module during load, in table order.
func (h *Host) FeatureNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.featNames))
	copy(out, h.featNames)
	return out
}

// Enabled reports the enable state of a prefixed feature name.
func (h *Host) Enabled(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, n := range h.featNames {
		if n == name {
			return i < len(h.enables) && h.enables[i] != 0
		}
	}
	return false
}

var _ zsys.Host = (*Host)(nil)
