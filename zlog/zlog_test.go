package zlog

import (
	"bytes"
	"strings"
	"testing"
)

type captureSink struct {
	names []string
	msgs  []string
}

func (c *captureSink) Report(msg string) {
	c.names = append(c.names, "")
	c.msgs = append(c.msgs, msg)
}

func (c *captureSink) ReportNamed(name, msg string) {
	c.names = append(c.names, name)
	c.msgs = append(c.msgs, msg)
}

func TestBoundSinkRouting(t *testing.T) {
	sink := &captureSink{}
	Bind(sink)
	defer Bind(nil)

	Error("plain")
	ErrorNamed("greet", "named")
	Errorf("value %d", 7)
	ErrorNamedf("greet", "value %d", 8)

	wantMsgs := []string{"plain", "named", "value 7", "value 8"}
	wantNames := []string{"", "greet", "", "greet"}
	if len(sink.msgs) != len(wantMsgs) {
		t.Fatalf("captured %d messages, want %d", len(sink.msgs), len(wantMsgs))
	}
	for i := range wantMsgs {
		if sink.msgs[i] != wantMsgs[i] {
			t.Errorf("msg %d = %q, want %q", i, sink.msgs[i], wantMsgs[i])
		}
		if sink.names[i] != wantNames[i] {
			t.Errorf("name %d = %q, want %q", i, sink.names[i], wantNames[i])
		}
	}
}

func TestWarningsPrefixThroughSink(t *testing.T) {
	sink := &captureSink{}
	Bind(sink)
	defer Bind(nil)

	Warn("low disk")
	WarnNamedf("greet", "slow by %dms", 40)

	if len(sink.msgs) != 2 {
		t.Fatalf("captured %d messages, want 2", len(sink.msgs))
	}
	if sink.msgs[0] != "warning: low disk" {
		t.Errorf("msg 0 = %q, want %q", sink.msgs[0], "warning: low disk")
	}
	if sink.msgs[1] != "warning: slow by 40ms" || sink.names[1] != "greet" {
		t.Errorf("msg 1 = %q (name %q), want warning prefix attributed to greet", sink.msgs[1], sink.names[1])
	}
}

func TestFallbackFormat(t *testing.T) {
	var buf bytes.Buffer
	prev := SetFallback(&buf)
	defer SetFallback(prev)
	Bind(nil)

	Error("boom")
	ErrorNamed("greet", "bad args")
	Warnf("careful with %s", "that")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("wrote %d lines, want 3: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "[ERROR] zshmod: boom") {
		t.Errorf("line 0 = %q, want ERROR boom", lines[0])
	}
	if !strings.Contains(lines[1], "[ERROR] zshmod: greet: bad args") {
		t.Errorf("line 1 = %q, want named form", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] zshmod: careful with that") {
		t.Errorf("line 2 = %q, want WARN line", lines[2])
	}
}

func TestSetFallbackReturnsPrevious(t *testing.T) {
	var a, b bytes.Buffer
	orig := SetFallback(&a)
	defer SetFallback(orig)

	if got := SetFallback(&b); got != &a {
		t.Errorf("SetFallback returned %v, want the first buffer", got)
	}
}
