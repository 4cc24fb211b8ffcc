// Package script runs Lua harness sessions against a simulated host.
// Scripts see a `host` table bound to one hostsim session, so a module
// can be loaded, exercised, and inspected from a few lines of Lua:
//
//	host.load()
//	host.dispatch("greet", "-u", "world")
//	for _, e in ipairs(host.logs()) do print(e.name, e.msg) end
//	host.unload()
package script

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/zshmod/hostsim"
)

// ErrRunnerClosed is returned when a closed runner is used.
var ErrRunnerClosed = errors.New("script runner is closed")

// Runner executes harness scripts in a sandboxed Lua state bound to one
// host session.
//
// gopher-lua states are not goroutine-safe; the mutex serializes runs,
// and each script executes on the caller's goroutine.
type Runner struct {
	mu     sync.Mutex
	L      *lua.LState
	host   *hostsim.Host
	out    io.Writer
	closed bool
}

// New creates a runner bound to sim. Script print output goes to out.
func New(sim *hostsim.Host, out io.Writer) *Runner {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively below
	})
	openSafeLibraries(L)

	r := &Runner{L: L, host: sim, out: out}
	r.register()
	return r
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Note: io, os, debug, and package stay closed. Harness scripts
	// talk to the world through the host table only.
}

// register installs the host table and redirects print to the runner's
// writer.
func (r *Runner) register() {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"load":      r.luaLoad,
		"unload":    r.luaUnload,
		"dispatch":  r.luaDispatch,
		"logs":      r.luaLogs,
		"clearlogs": r.luaClearLogs,
		"features":  r.luaFeatures,
		"enabled":   r.luaEnabled,
		"enable":    r.luaEnable,
		"disable":   r.luaDisable,
		"id":        r.luaID,
		"name":      r.luaName,
		"faulted":   r.luaFaulted,
	})
	r.L.SetGlobal("host", mod)
	r.L.SetGlobal("print", r.L.NewFunction(r.luaPrint))
}

// RunFile executes a script file. Lua panics surface as errors, never
// past this frame.
func (r *Runner) RunFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	return r.protect(func() error {
		return r.L.DoFile(path)
	})
}

// RunString executes a script from source text.
func (r *Runner) RunString(code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	return r.protect(func() error {
		return r.L.DoString(code)
	})
}

func (r *Runner) protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state. Further runs return ErrRunnerClosed.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.L.Close()
	r.closed = true
	return nil
}

func (r *Runner) luaLoad(L *lua.LState) int {
	return pushResult(L, r.host.LoadModule())
}

func (r *Runner) luaUnload(L *lua.LState) int {
	return pushResult(L, r.host.UnloadModule())
}

func (r *Runner) luaDispatch(L *lua.LState) int {
	name := L.CheckString(1)
	words := make([]string, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		words = append(words, L.CheckString(i))
	}
	L.Push(lua.LNumber(r.host.Dispatch(name, words...)))
	return 1
}

func (r *Runner) luaLogs(L *lua.LState) int {
	tbl := L.NewTable()
	for _, e := range r.host.Logs() {
		row := L.NewTable()
		L.SetField(row, "name", lua.LString(e.Name))
		L.SetField(row, "msg", lua.LString(e.Msg))
		tbl.Append(row)
	}
	L.Push(tbl)
	return 1
}

func (r *Runner) luaClearLogs(L *lua.LState) int {
	r.host.ResetLogs()
	return 0
}

func (r *Runner) luaFeatures(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range r.host.FeatureNames() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

func (r *Runner) luaEnabled(L *lua.LState) int {
	L.Push(lua.LBool(r.host.Enabled(L.CheckString(1))))
	return 1
}

func (r *Runner) luaEnable(L *lua.LState) int {
	return pushResult(L, r.host.SetFeatureState(L.CheckString(1), true))
}

func (r *Runner) luaDisable(L *lua.LState) int {
	return pushResult(L, r.host.SetFeatureState(L.CheckString(1), false))
}

func (r *Runner) luaID(L *lua.LState) int {
	L.Push(lua.LString(r.host.ID()))
	return 1
}

func (r *Runner) luaName(L *lua.LState) int {
	L.Push(lua.LString(r.host.Name()))
	return 1
}

func (r *Runner) luaFaulted(L *lua.LState) int {
	L.Push(lua.LBool(r.host.Faulted()))
	return 1
}

func (r *Runner) luaPrint(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}

// pushResult translates a Go error into Lua's (ok) or (nil, message)
// return convention.
func pushResult(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
