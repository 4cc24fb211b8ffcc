// Package main is the development harness for zshmod modules: it hosts
// a bundled example module in a simulated interpreter session, either
// interactively, from a Lua script, or in a watch loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/zshmod"
	"github.com/dshills/zshmod/examples/greet"
	"github.com/dshills/zshmod/examples/zkv"
	"github.com/dshills/zshmod/hostsim"
	"github.com/dshills/zshmod/internal/conf"
	"github.com/dshills/zshmod/internal/script"
	"github.com/dshills/zshmod/internal/watch"
	"github.com/dshills/zshmod/zsys"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, ok := parseFlags()
	if !ok {
		return 1
	}

	ctor, err := bundledCtor(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	zshmod.Export(ctor)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	switch {
	case cfg.Script != "" && cfg.Watch:
		return watchLoop(cfg, signals)
	case cfg.Script != "":
		return runScriptOnce(cfg, newSim(cfg))
	default:
		return repl(cfg, newSim(cfg), signals)
	}
}

// newSim builds a fresh interpreter session for the configured module.
func newSim(cfg conf.Config) *hostsim.Host {
	sim := hostsim.New(cfg.Module)
	if cfg.LogEcho {
		sim.Echo(os.Stderr)
	}
	return sim
}

func parseFlags() (conf.Config, bool) {
	var (
		cfgPath     = flag.String("config", conf.DefaultPath(), "path to config file")
		moduleName  = flag.String("module", "", "bundled module to host")
		scriptPath  = flag.String("script", "", "lua script to run instead of the prompt")
		watchMode   = flag.Bool("watch", false, "re-run the script when it changes")
		dataDir     = flag.String("data-dir", "", "directory for stateful modules")
		quiet       = flag.Bool("quiet", false, "do not mirror module diagnostics to stderr")
		listMods    = flag.Bool("list", false, "list bundled modules and exit")
		showVersion = flag.Bool("version", false, "show version information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "zmodhost - development host for zshmod modules\n\n")
		fmt.Fprintf(os.Stderr, "Usage: zmodhost [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  zmodhost                          Host the greet module interactively\n")
		fmt.Fprintf(os.Stderr, "  zmodhost -module zkv              Host the key-value module\n")
		fmt.Fprintf(os.Stderr, "  zmodhost -script demo.lua         Run a scripted session\n")
		fmt.Fprintf(os.Stderr, "  zmodhost -script demo.lua -watch  Re-run the script on change\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("zmodhost %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if *listMods {
		for _, name := range bundledNames() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	cfg, err := conf.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return conf.Config{}, false
	}

	// Flags override the file and environment.
	if *moduleName != "" {
		cfg.Module = *moduleName
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	if *watchMode {
		cfg.Watch = true
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *quiet {
		cfg.LogEcho = false
	}
	return cfg, true
}

// bundledCtor returns the constructor for the configured module.
func bundledCtor(cfg conf.Config) (func() (*zshmod.Module, error), error) {
	switch cfg.Module {
	case "greet":
		return greet.New, nil
	case "zkv":
		return func() (*zshmod.Module, error) {
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data dir: %w", err)
			}
			return zkv.NewAt(cfg.DataDir, os.Stdout)
		}, nil
	default:
		return nil, fmt.Errorf("unknown module %q (have: %s)", cfg.Module, strings.Join(bundledNames(), ", "))
	}
}

func bundledNames() []string {
	return []string{"greet", "zkv"}
}

// repl loads the module and dispatches lines typed at the prompt until
// :quit or EOF.
func repl(cfg conf.Config, sim *hostsim.Host, signals chan os.Signal) int {
	if err := sim.LoadModule(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading %q: %v\n", cfg.Module, err)
		return 1
	}

	var unloadOnce sync.Once
	unload := func() int {
		code := 0
		unloadOnce.Do(func() {
			if err := sim.UnloadModule(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: unloading %q: %v\n", cfg.Module, err)
				code = 1
			}
		})
		return code
	}
	defer unload()

	go func() {
		<-signals
		unload()
		os.Exit(130)
	}()

	fmt.Printf("zmodhost %s: hosting %q (session %s)\n", version, sim.Name(), sim.ID())
	fmt.Println(`dispatch builtins as "NAME ARGS...", or :features :logs :clear :enable :disable :quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("% ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == ":quit" || line == ":q":
			return unload()
		case line == ":features":
			for _, name := range sim.FeatureNames() {
				state := "on"
				if !sim.Enabled(name) {
					state = "off"
				}
				fmt.Printf("%s\t%s\n", name, state)
			}
		case line == ":logs":
			for _, e := range sim.Logs() {
				fmt.Println(e)
			}
		case line == ":clear":
			sim.ResetLogs()
		case strings.HasPrefix(line, ":enable "):
			setFeature(sim, strings.TrimPrefix(line, ":enable "), true)
		case strings.HasPrefix(line, ":disable "):
			setFeature(sim, strings.TrimPrefix(line, ":disable "), false)
		case strings.HasPrefix(line, ":"):
			fmt.Printf("unknown command %s\n", line)
		default:
			words := strings.Fields(line)
			code := sim.Dispatch(words[0], words[1:]...)
			if code != zsys.RetOK {
				fmt.Printf("(exit %d)\n", code)
			}
			if sim.Faulted() {
				fmt.Fprintln(os.Stderr, "module poisoned; restart zmodhost")
				return 1
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading input: %v\n", err)
		return 1
	}
	return unload()
}

func setFeature(sim *hostsim.Host, name string, enabled bool) {
	if err := sim.SetFeatureState(strings.TrimSpace(name), enabled); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

// runScriptOnce executes the configured script in a fresh Lua state.
// The script owns the lifecycle: it calls host.load and host.unload
// itself.
func runScriptOnce(cfg conf.Config, sim *hostsim.Host) int {
	r := script.New(sim, os.Stdout)
	defer r.Close()

	if err := r.RunFile(cfg.Script); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if sim.Faulted() {
		fmt.Fprintln(os.Stderr, "module poisoned during script run")
		return 1
	}
	return 0
}

// watchLoop re-runs the script in a fresh session after each debounced
// change, until interrupted. Module poison is per-process, so once a
// run faults there is nothing a new session can do and the loop exits.
func watchLoop(cfg conf.Config, signals chan os.Signal) int {
	w, err := watch.New(time.Duration(cfg.DebounceMS)*time.Millisecond, cfg.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer w.Close()

	sim := newSim(cfg)
	code := runScriptOnce(cfg, sim)
	if sim.Faulted() {
		return 1
	}
	fmt.Printf("---- %s: exit %d, watching (ctrl-c to quit)\n", cfg.Script, code)

	for {
		select {
		case <-signals:
			return 0
		case path := <-w.Events():
			fmt.Printf("---- %s changed\n", path)
			sim = newSim(cfg)
			code = runScriptOnce(cfg, sim)
			if sim.Faulted() {
				return 1
			}
			fmt.Printf("---- %s: exit %d\n", cfg.Script, code)
		case werr := <-w.Errors():
			fmt.Fprintf(os.Stderr, "Error: watching: %v\n", werr)
		}
	}
}
