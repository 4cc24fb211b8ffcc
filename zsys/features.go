package zsys

// BuiltinCallback is the function the host invokes to run a builtin
// command: the invoked name, a NUL-terminated argument vector, the
// parsed-options handle, and a flags word the protocol reserves.
type BuiltinCallback func(name *byte, argv **byte, opts OptionsHandle, flags int32) int32

// Binary describes one builtin command offered to the host.
type Binary struct {
	// Name is the command name as typed at the prompt.
	Name string

	// MinArgs and MaxArgs bound the argument count the host accepts
	// before dispatching. A MaxArgs of -1 means unlimited.
	MinArgs int
	MaxArgs int

	// Flags lists the option letters the host parses for this command.
	Flags string

	// Handler is the host-visible function pointer. It is left nil at
	// registration; module setup patches it before the host ever sees
	// the table.
	Handler BuiltinCallback
}

// Condition describes a condition code offered to the host.
type Condition struct {
	Name string
}

// MathFunc describes a math function offered to the host.
type MathFunc struct {
	Name string
}

// Param describes a shell parameter offered to the host.
type Param struct {
	Name string
}

// Features is the full set of feature tables a module publishes. The
// host addresses features by class-prefixed name: "b:" for binaries,
// "c:" for conditions, "f:" for math functions, "p:" for parameters.
type Features struct {
	Binaries   []*Binary
	Conditions []*Condition
	MathFuncs  []*MathFunc
	Params     []*Param
}

// Names returns every feature name with its class prefix, binaries
// first, each class in registration order, matching the host's
// feature-array convention.
func (f *Features) Names() []string {
	names := make([]string, 0, f.Count())
	for _, b := range f.Binaries {
		names = append(names, "b:"+b.Name)
	}
	for _, c := range f.Conditions {
		names = append(names, "c:"+c.Name)
	}
	for _, m := range f.MathFuncs {
		names = append(names, "f:"+m.Name)
	}
	for _, p := range f.Params {
		names = append(names, "p:"+p.Name)
	}
	return names
}

// Count returns the total number of features across all classes.
func (f *Features) Count() int {
	return len(f.Binaries) + len(f.Conditions) + len(f.MathFuncs) + len(f.Params)
}

// Binary returns the binary feature registered under name, or nil.
func (f *Features) Binary(name string) *Binary {
	for _, b := range f.Binaries {
		if b.Name == name {
			return b
		}
	}
	return nil
}
