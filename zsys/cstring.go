package zsys

import (
	"fmt"
	"unicode/utf8"
	"unsafe"
)

// GoString decodes the NUL-terminated byte sequence at p into a Go
// string. The foreign memory is host-owned and valid only for the
// current call, so the bytes are always copied.
//
// A nil pointer or a byte sequence that is not valid UTF-8 is a broken
// host contract and panics; the boundary shield converts the unwind into
// the fault sentinel. The text is never lossily substituted.
func GoString(p *byte) string {
	if p == nil {
		panic("zsys: nil string pointer")
	}
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	b := unsafe.Slice(p, n)
	if !utf8.Valid(b) {
		panic(fmt.Sprintf("zsys: invalid UTF-8 in foreign string %q", b))
	}
	return string(b)
}

// GoStrings decodes an argv-style, NUL-terminated array of string
// pointers. A nil entry terminates the walk; nothing past it is read.
// The array pointer itself must not be nil. Order is preserved and the
// result is never nil.
func GoStrings(argv **byte) []string {
	if argv == nil {
		panic("zsys: nil argument vector")
	}
	out := []string{}
	for {
		p := *argv
		if p == nil {
			return out
		}
		out = append(out, GoString(p))
		argv = (**byte)(unsafe.Add(unsafe.Pointer(argv), unsafe.Sizeof(argv)))
	}
}

// NewCString copies s into a freshly allocated NUL-terminated buffer and
// returns a pointer to its first byte. The buffer stays reachable for as
// long as the pointer does.
func NewCString(s string) *byte {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return &buf[0]
}

// NewArgv builds a NUL-terminated pointer array over fresh copies of
// args, in the layout GoStrings expects.
func NewArgv(args ...string) **byte {
	vec := make([]*byte, len(args)+1)
	for i, a := range args {
		vec[i] = NewCString(a)
	}
	return &vec[0]
}
