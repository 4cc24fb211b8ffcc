package zsys

import "unsafe"

// ModuleHandle is the opaque reference the interpreter passes to every
// lifecycle entry point. The memory behind it belongs to the host.
type ModuleHandle unsafe.Pointer

// OptionsHandle is the opaque reference to the host's parsed-options
// structure for a single builtin invocation. It is only valid for the
// duration of that call.
type OptionsHandle unsafe.Pointer

// Return codes for boundary functions.
const (
	// RetOK reports success.
	RetOK int32 = 0

	// RetError reports an ordinary, recoverable failure. The module
	// remains usable.
	RetError int32 = 1

	// RetFault is the reserved internal-fault sentinel: a panic was
	// contained at the boundary and the module is poisoned. Never used
	// for ordinary failures.
	RetFault int32 = 65
)
