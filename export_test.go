package zshmod

// Hooks for the external test package. Compiled only into test
// binaries.

// ResetBoundary clears the exported constructor, the installed
// instance, and the poison flag so each test can run a lifecycle from
// scratch.
func ResetBoundary() {
	exportMu.Lock()
	exportFn = nil
	exportMu.Unlock()

	holder.mu.Lock()
	holder.mod = nil
	holder.mu.Unlock()
	holder.poisoned.Store(false)
}

// Poisoned reports the poison flag.
func Poisoned() bool {
	return holder.poisoned.Load()
}

// Installed returns the currently installed instance, or nil.
func Installed() *Module {
	holder.mu.Lock()
	defer holder.mu.Unlock()
	return holder.mod
}
