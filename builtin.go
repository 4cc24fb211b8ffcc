package zshmod

import "github.com/dshills/zshmod/zsys"

// Handler implements one builtin command. data is the module's user-data
// slot, name the invoked command name, args the marshalled positional
// arguments, and opts the host-parsed option letters. A returned error
// is reported through the host's sink and surfaces as exit status 1.
type Handler func(data any, name string, args []string, opts Opts) error

// BuiltinOption configures one builtin registration.
type BuiltinOption func(*zsys.Binary)

// WithMinArgs sets the minimum number of positional arguments the host
// accepts before dispatching. The default is 0.
func WithMinArgs(n int) BuiltinOption {
	return func(b *zsys.Binary) { b.MinArgs = n }
}

// WithMaxArgs sets the maximum number of positional arguments the host
// accepts before dispatching. The default, -1, means unlimited.
func WithMaxArgs(n int) BuiltinOption {
	return func(b *zsys.Binary) { b.MaxArgs = n }
}

// WithFlags sets the option letters the host parses for the builtin.
// Letters outside this set are rejected host-side before the handler
// runs.
func WithFlags(flags string) BuiltinOption {
	return func(b *zsys.Binary) { b.Flags = flags }
}
