package zshmod

import (
	"fmt"
	"sync"

	"github.com/dshills/zshmod/zlog"
	"github.com/dshills/zshmod/zsys"
)

var (
	exportMu sync.Mutex
	exportFn func() (*Module, error)
)

// Export registers the constructor Setup runs to build the module
// instance. A process hosts exactly one module, so a second Export is a
// programming error and panics.
func Export(ctor func() (*Module, error)) {
	if ctor == nil {
		panic("zshmod: nil module constructor")
	}
	exportMu.Lock()
	defer exportMu.Unlock()
	if exportFn != nil {
		panic("zshmod: module constructor already exported")
	}
	exportFn = ctor
}

// exported returns the registered constructor. Running Setup without
// one is a broken loading contract.
func exported() func() (*Module, error) {
	exportMu.Lock()
	defer exportMu.Unlock()
	if exportFn == nil {
		panic("zshmod: no module constructor exported")
	}
	return exportFn
}

// moduleLabel resolves the host-registered module name for diagnostics.
func moduleLabel(mod zsys.ModuleHandle) func() string {
	return func() string {
		return zsys.GoString(zsys.Active().ModuleName(mod))
	}
}

// builtinLabel resolves the invoked builtin name for diagnostics.
func builtinLabel(name *byte) func() string {
	return func() string {
		return zsys.GoString(name)
	}
}

// Setup is the first lifecycle entry point. It runs the exported
// constructor; a constructor error is logged and reported as ordinary
// entry-point failure with nothing installed. On success every binary
// feature's host-visible function pointer is patched to the shared
// trampoline before the instance is installed.
func Setup(mod zsys.ModuleHandle) int32 {
	label := moduleLabel(mod)
	return contain(label, func() int32 {
		m, err := exported()()
		if err != nil {
			zlog.ErrorNamedf(label(), "failed to set up module: %v", err)
			return zsys.RetError
		}
		for _, bin := range m.features.Binaries {
			bin.Handler = builtinTrampoline
		}
		holder.set(m)
		return zsys.RetOK
	})
}

// Boot succeeds unconditionally. The protocol reserves this step for
// host-side wrapper registration; nothing is required of a module here.
func Boot(mod zsys.ModuleHandle) int32 {
	return contain(moduleLabel(mod), func() int32 {
		return zsys.RetOK
	})
}

// Features hands the host the encoded feature array for the installed
// instance.
func Features(mod zsys.ModuleHandle, out ***byte) int32 {
	return contain(moduleLabel(mod), func() int32 {
		return holder.withModule(func(m *Module) int32 {
			*out = zsys.Active().FeaturesArray(mod, m.features)
			return zsys.RetOK
		})
	})
}

// Enables reports or applies feature enable states for the installed
// instance, delegating the vector handling to the host.
func Enables(mod zsys.ModuleHandle, enables **int32) int32 {
	return contain(moduleLabel(mod), func() int32 {
		return holder.withModule(func(m *Module) int32 {
			return zsys.Active().HandleFeatures(mod, m.features, enables)
		})
	})
}

// Cleanup disables every feature ahead of unload. The instance stays
// installed; only Finish removes it.
func Cleanup(mod zsys.ModuleHandle) int32 {
	return contain(moduleLabel(mod), func() int32 {
		return holder.withModule(func(m *Module) int32 {
			return zsys.Active().SetFeatureEnables(mod, m.features, nil)
		})
	})
}

// Finish drops the installed instance and runs its teardown hook. It is
// idempotent, succeeds even when Setup never completed, and is a
// deliberate no-op once the module is poisoned.
func Finish(mod zsys.ModuleHandle) int32 {
	label := moduleLabel(mod)
	return contain(label, func() int32 {
		if err := holder.clear(); err != nil {
			zlog.ErrorNamedf(label(), "finish: %v", err)
			return zsys.RetError
		}
		return zsys.RetOK
	})
}

// builtinTrampoline is the one host-visible function behind every
// builtin. It marshals the argument vector and the invoked name,
// resolves the handler in the dispatch table, and translates the
// handler's result into the return-code vocabulary. A name missing from
// the table means feature registration and dispatch disagree, which is
// a fatal contract violation.
func builtinTrampoline(name *byte, argv **byte, opts zsys.OptionsHandle, _ int32) int32 {
	return contain(builtinLabel(name), func() int32 {
		args := zsys.GoStrings(argv)
		cmd := zsys.GoString(name)
		view := Opts{raw: opts}
		return holder.withModule(func(m *Module) int32 {
			h, ok := m.builtins[cmd]
			if !ok {
				panic(fmt.Sprintf("zshmod: no handler registered for builtin %q", cmd))
			}
			if err := h(m.userData, cmd, args, view); err != nil {
				zlog.ErrorNamed(cmd, err.Error())
				return zsys.RetError
			}
			return zsys.RetOK
		})
	})
}
