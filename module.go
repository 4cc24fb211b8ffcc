package zshmod

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/zshmod/zsys"
)

// Module is an assembled zsh module: the builtin dispatch table, the
// user-data slot threaded through every handler call, and the feature
// tables published to the host. Build one with a Builder; instances are
// immutable once built.
type Module struct {
	builtins map[string]Handler
	userData any
	features *zsys.Features
	onFinish func() error
}

// Builtins returns the registered builtin names, sorted.
func (m *Module) Builtins() []string {
	names := make([]string, 0, len(m.builtins))
	for name := range m.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UserData returns the author-supplied state slot.
func (m *Module) UserData() any { return m.userData }

// Features returns the module's feature tables.
func (m *Module) Features() *zsys.Features { return m.features }

// Invoke calls a builtin handler directly, bypassing the host boundary.
// It exists so module behavior can be unit-tested in-process; an
// unknown name is an ordinary error here, unlike the trampoline's fatal
// path.
func (m *Module) Invoke(name string, args []string, opts Opts) error {
	h, ok := m.builtins[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}
	return h(m.userData, name, args, opts)
}

// Builder assembles a Module. Registration problems are collected and
// reported together by Build.
type Builder struct {
	userData any
	names    []string
	handlers map[string]Handler
	bins     map[string]*zsys.Binary
	onFinish func() error
	errs     []error
}

// NewBuilder starts a module definition. data becomes the user-data
// slot handed to every handler call; nil is fine for stateless modules.
func NewBuilder(data any) *Builder {
	return &Builder{
		userData: data,
		handlers: make(map[string]Handler),
		bins:     make(map[string]*zsys.Binary),
	}
}

// Builtin registers a builtin command under name.
func (b *Builder) Builtin(name string, h Handler, opts ...BuiltinOption) *Builder {
	if name == "" {
		b.errs = append(b.errs, ErrEmptyBuiltinName)
		return b
	}
	if h == nil {
		b.errs = append(b.errs, fmt.Errorf("builtin %q: %w", name, ErrNilHandler))
		return b
	}
	if _, dup := b.handlers[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("builtin %q: %w", name, ErrDuplicateBuiltin))
		return b
	}

	bin := &zsys.Binary{Name: name, MaxArgs: -1}
	for _, opt := range opts {
		opt(bin)
	}

	b.names = append(b.names, name)
	b.handlers[name] = h
	b.bins[name] = bin
	return b
}

// OnFinish registers a teardown hook that runs when the host's finish
// call actually drops the instance. It never runs on a poisoned module
// and never runs twice; an error from it is logged and surfaces as
// ordinary finish failure.
func (b *Builder) OnFinish(fn func() error) *Builder {
	b.onFinish = fn
	return b
}

// Build validates the definition and produces the Module. The binary
// feature table preserves registration order.
func (b *Builder) Build() (*Module, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	feats := &zsys.Features{}
	for _, name := range b.names {
		feats.Binaries = append(feats.Binaries, b.bins[name])
	}

	handlers := make(map[string]Handler, len(b.handlers))
	for name, h := range b.handlers {
		handlers[name] = h
	}

	return &Module{
		builtins: handlers,
		userData: b.userData,
		features: feats,
		onFinish: b.onFinish,
	}, nil
}
