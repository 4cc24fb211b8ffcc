package zshmod

import "errors"

// Module assembly and dispatch errors.
var (
	// ErrFileNotFound is returned when a validated path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnknownBuiltin is returned by Invoke for a name with no handler.
	ErrUnknownBuiltin = errors.New("unknown builtin")

	// ErrDuplicateBuiltin is returned when a builtin name is registered twice.
	ErrDuplicateBuiltin = errors.New("builtin already registered")

	// ErrEmptyBuiltinName is returned when a builtin is registered without a name.
	ErrEmptyBuiltinName = errors.New("builtin name is empty")

	// ErrNilHandler is returned when a builtin is registered without a handler.
	ErrNilHandler = errors.New("builtin handler is nil")
)
