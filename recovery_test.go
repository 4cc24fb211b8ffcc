package zshmod

import (
	"errors"
	"testing"

	"github.com/dshills/zshmod/zlog"
	"github.com/dshills/zshmod/zsys"
)

type recordSink struct {
	names []string
	msgs  []string
}

func (s *recordSink) Report(msg string) {
	s.names = append(s.names, "")
	s.msgs = append(s.msgs, msg)
}

func (s *recordSink) ReportNamed(name, msg string) {
	s.names = append(s.names, name)
	s.msgs = append(s.msgs, msg)
}

func containSink(t *testing.T) *recordSink {
	t.Helper()
	sink := &recordSink{}
	zlog.Bind(sink)
	t.Cleanup(func() {
		zlog.Bind(nil)
		holder.poisoned.Store(false)
	})
	return sink
}

func TestContainNormalReturn(t *testing.T) {
	containSink(t)

	got := contain(func() string { return "m" }, func() int32 { return 7 })
	if got != 7 {
		t.Errorf("contain = %d, want 7", got)
	}
	if holder.poisoned.Load() {
		t.Error("a normal return must not poison")
	}
}

func TestContainPanicString(t *testing.T) {
	sink := containSink(t)

	got := contain(func() string { return "m" }, func() int32 { panic("boom") })
	if got != zsys.RetFault {
		t.Errorf("contain = %d, want %d", got, zsys.RetFault)
	}
	if !holder.poisoned.Load() {
		t.Error("a contained panic must poison")
	}
	if len(sink.msgs) != 1 {
		t.Fatalf("logged %d messages, want 1", len(sink.msgs))
	}
	if sink.names[0] != "m" || sink.msgs[0] != "Panic: boom" {
		t.Errorf("logged %q: %q, want m: Panic: boom", sink.names[0], sink.msgs[0])
	}
}

func TestContainPanicError(t *testing.T) {
	sink := containSink(t)

	contain(func() string { return "m" }, func() int32 { panic(errors.New("bad state")) })
	if len(sink.msgs) != 1 || sink.msgs[0] != "Panic: bad state" {
		t.Errorf("logged %v, want [Panic: bad state]", sink.msgs)
	}
}

func TestContainPanicOpaquePayload(t *testing.T) {
	sink := containSink(t)

	contain(func() string { return "m" }, func() int32 { panic(42) })
	if len(sink.msgs) != 1 || sink.msgs[0] != "Panic: no additional information" {
		t.Errorf("logged %v, want [Panic: no additional information]", sink.msgs)
	}
}

func TestContainLabelPanicFallsBack(t *testing.T) {
	sink := containSink(t)

	got := contain(func() string { panic("no name") }, func() int32 { panic("boom") })
	if got != zsys.RetFault {
		t.Errorf("contain = %d, want %d", got, zsys.RetFault)
	}
	if len(sink.names) != 1 || sink.names[0] != sdkLabel {
		t.Errorf("logged under %v, want the %q fallback", sink.names, sdkLabel)
	}
}

func TestPanicMessage(t *testing.T) {
	tests := []struct {
		payload any
		want    string
	}{
		{"boom", "boom"},
		{errors.New("wrapped"), "wrapped"},
		{42, "no additional information"},
		{nil, "no additional information"},
		{struct{ x int }{1}, "no additional information"},
	}
	for _, tt := range tests {
		if got := panicMessage(tt.payload); got != tt.want {
			t.Errorf("panicMessage(%v) = %q, want %q", tt.payload, got, tt.want)
		}
	}
}
