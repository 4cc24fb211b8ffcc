package script

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dshills/zshmod"
	"github.com/dshills/zshmod/hostsim"
)

var exportOnce sync.Once

// exportTestModule installs the constructor shared by every runner
// test. A process hosts one constructor, so it is registered once and
// each host.load() builds a fresh instance from it.
func exportTestModule() {
	exportOnce.Do(func() {
		zshmod.Export(func() (*zshmod.Module, error) {
			return zshmod.NewBuilder(nil).
				Builtin("ping", func(any, string, []string, zshmod.Opts) error { return nil }).
				Builtin("fail", func(any, string, []string, zshmod.Opts) error {
					return errors.New("scripted failure")
				}).
				Build()
		})
	})
}

func newTestRunner(t *testing.T) (*Runner, *hostsim.Host, *bytes.Buffer) {
	t.Helper()
	exportTestModule()

	sim := hostsim.New("demo")
	buf := &bytes.Buffer{}
	r := New(sim, buf)
	t.Cleanup(func() { r.Close() })
	return r, sim, buf
}

func TestRunStringSession(t *testing.T) {
	r, sim, buf := newTestRunner(t)

	err := r.RunString(`
		local ok, err = host.load()
		if not ok then error(err) end
		print(host.name())
		print("code", host.dispatch("ping"))
		local ok2, err2 = host.unload()
		if not ok2 then error(err2) end
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}
	if !strings.Contains(buf.String(), "demo\n") {
		t.Errorf("output = %q, want the session name", buf.String())
	}
	if !strings.Contains(buf.String(), "code\t0") {
		t.Errorf("output = %q, want a zero dispatch code", buf.String())
	}
	if sim.Loaded() {
		t.Error("session still loaded after host.unload()")
	}
}

func TestDispatchErrorCodeAndLogs(t *testing.T) {
	r, _, buf := newTestRunner(t)

	err := r.RunString(`
		host.load()
		print("code", host.dispatch("fail"))
		for _, e in ipairs(host.logs()) do print("log", e.name, e.msg) end
		host.unload()
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "code\t1") {
		t.Errorf("output = %q, want dispatch code 1", out)
	}
	if !strings.Contains(out, "log\tfail\tscripted failure") {
		t.Errorf("output = %q, want the captured handler error", out)
	}
}

func TestFeatureTogglesFromLua(t *testing.T) {
	r, _, buf := newTestRunner(t)

	err := r.RunString(`
		host.load()
		for _, f in ipairs(host.features()) do print("feat", f) end
		print("before", host.enabled("b:ping"))
		host.disable("b:ping")
		print("after", host.enabled("b:ping"))
		print("code", host.dispatch("ping"))
		host.enable("b:ping")
		host.unload()
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"feat\tb:ping", "feat\tb:fail", "before\ttrue", "after\tfalse", "code\t1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output = %q, want %q", out, want)
		}
	}
}

func TestPrintRedirect(t *testing.T) {
	r, _, buf := newTestRunner(t)

	if err := r.RunString(`print("a", 1, true)`); err != nil {
		t.Fatalf("RunString error = %v", err)
	}
	if buf.String() != "a\t1\ttrue\n" {
		t.Errorf("output = %q, want tab-joined print", buf.String())
	}
}

func TestSandboxKeepsUnsafeLibsClosed(t *testing.T) {
	r, _, _ := newTestRunner(t)

	err := r.RunString(`
		if io ~= nil then error("io is open") end
		if os ~= nil then error("os is open") end
		if debug ~= nil then error("debug is open") end
	`)
	if err != nil {
		t.Fatalf("RunString error = %v", err)
	}
}

func TestScriptErrorSurfaces(t *testing.T) {
	r, _, _ := newTestRunner(t)

	err := r.RunString(`error("bang")`)
	if err == nil || !strings.Contains(err.Error(), "bang") {
		t.Errorf("RunString error = %v, want bang", err)
	}
}

func TestRunFile(t *testing.T) {
	r, _, buf := newTestRunner(t)

	path := filepath.Join(t.TempDir(), "session.lua")
	if err := os.WriteFile(path, []byte(`print("from file")`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := r.RunFile(path); err != nil {
		t.Fatalf("RunFile error = %v", err)
	}
	if !strings.Contains(buf.String(), "from file") {
		t.Errorf("output = %q, want the file's print", buf.String())
	}
}

func TestRunFileMissing(t *testing.T) {
	r, _, _ := newTestRunner(t)

	if err := r.RunFile(filepath.Join(t.TempDir(), "absent.lua")); err == nil {
		t.Error("RunFile succeeded on a missing file")
	}
}

func TestClosedRunner(t *testing.T) {
	r, _, _ := newTestRunner(t)

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := r.RunString(`print("x")`); !errors.Is(err, ErrRunnerClosed) {
		t.Errorf("RunString after close = %v, want ErrRunnerClosed", err)
	}
}
