package zshmod

import "github.com/dshills/zshmod/zsys"

// Opts is a borrowed view over the option letters the host parsed for
// one builtin invocation. It is only valid for the duration of the
// handler call. The zero value reports nothing set.
type Opts struct {
	raw zsys.OptionsHandle
}

// OptsFromRaw wraps a host options handle. Handlers normally receive
// their Opts from the dispatch trampoline; this is for hosts and tests
// that invoke handlers directly.
func OptsFromRaw(raw zsys.OptionsHandle) Opts {
	return Opts{raw: raw}
}

// IsSet reports whether option letter opt was given.
func (o Opts) IsSet(opt rune) bool {
	if o.raw == nil {
		return false
	}
	return zsys.Active().OptionIsSet(o.raw, opt)
}

// Raw returns the underlying host handle.
func (o Opts) Raw() zsys.OptionsHandle { return o.raw }
