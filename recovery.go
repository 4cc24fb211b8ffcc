package zshmod

import (
	"github.com/dshills/zshmod/zlog"
	"github.com/dshills/zshmod/zsys"
)

// sdkLabel tags diagnostics when the host cannot name the module.
const sdkLabel = "zshmod"

// contain is the shield wrapped around every host-visible function. A
// panic anywhere inside body permanently poisons the module and is
// converted into the fault sentinel; nothing unwinds past this frame
// into the host's stack. The label is resolved inside the shield as
// well, so a host that cannot even name the module does not cause a
// second unwind.
func contain(label func() string, body func() int32) (ret int32) {
	defer func() {
		if r := recover(); r != nil {
			holder.poison()
			zlog.ErrorNamedf(safeLabel(label), "Panic: %s", panicMessage(r))
			ret = zsys.RetFault
		}
	}()
	return body()
}

// safeLabel resolves label, falling back to the SDK name if resolution
// itself panics.
func safeLabel(label func() string) (name string) {
	name = sdkLabel
	defer func() { _ = recover() }()
	name = label()
	return name
}

// panicMessage extracts a readable message from a panic payload. Only
// string and error payloads carry text worth relaying.
func panicMessage(r any) string {
	switch v := r.(type) {
	case string:
		return v
	case error:
		return v.Error()
	default:
		return "no additional information"
	}
}
