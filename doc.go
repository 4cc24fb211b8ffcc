// Package zshmod lets a Go shared library behave as a zsh loadable
// module.
//
// A module author writes a constructor that assembles a Module with
// NewBuilder and registers it once with Export. The package supplies the
// rest of the loading contract: the lifecycle entry points the
// interpreter calls (Setup, Boot, Features, Enables, Cleanup, Finish),
// the shared dispatch trampoline behind every builtin, marshalling of
// the host's NUL-terminated argument vectors, and a containment shield
// that converts any panic into the protocol's fault sentinel instead of
// letting it unwind into the interpreter's C frames.
//
//	func New() (*zshmod.Module, error) {
//		return zshmod.NewBuilder(nil).
//			Builtin("hello", hello, zshmod.WithMaxArgs(1)).
//			Build()
//	}
//
//	func init() { zshmod.Export(New) }
//
// One module instance exists per process. After Setup installs it, every
// entry point and builtin call is serialized through a single lock. A
// contained panic poisons the module permanently: the fault sentinel is
// returned, diagnostics are reported through the host's sink, and from
// then on Finish no longer tears the instance down, leaving the host to
// unload and restart the process rather than trust inconsistent state.
//
// Handler errors are ordinary failures: they are reported through the
// host's named sink and surface as exit status 1, and the module stays
// usable.
package zshmod
