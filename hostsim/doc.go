// Package hostsim is a zsh stand-in: it implements zsys.Host entirely
// in Go memory and drives a module through the loading protocol the way
// the real interpreter would. Module authors use it to test modules end
// to end without a running shell, and cmd/zmodhost builds its
// development loop on it.
//
// A session owns the host side of the boundary: the module handle and
// the record it points at, the C-layout buffers handed across, the
// feature enable states, and every diagnostic the module reports.
// Dispatch reproduces the interpreter's pre-handler work, parsing
// option letters against the builtin's declared set and enforcing
// argument-count bounds, before invoking the patched function pointer.
package hostsim
