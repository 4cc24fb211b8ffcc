// Package zsys models the C-level surface of zsh's module loading
// protocol: the opaque handles the interpreter passes into entry points,
// the return-code vocabulary, the feature tables a module publishes, and
// the marshalling between Go strings and the host's NUL-terminated form.
//
// The interpreter's struct layouts are deliberately not reproduced here.
// A binding that links against a real zsh implements the Host interface;
// everything above it, the zshmod package and module authors' code, stays
// independent of how the host lays out its memory. The hostsim package
// provides a pure-Go Host for tests and the development harness.
package zsys
