// Package zlog routes module diagnostics to the host's named-error sink.
//
// While a module is loaded its diagnostics belong on the host side of the
// boundary, where the interpreter renders them alongside its own warnings.
// The loading path binds a Sink once; until then, and in tests, lines fall
// back to a local timestamped writer.
package zlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Sink receives diagnostics on the host side of the boundary.
type Sink interface {
	// Report emits an error diagnostic.
	Report(msg string)

	// ReportNamed emits an error diagnostic attributed to name.
	ReportNamed(name, msg string)
}

var (
	mu       sync.Mutex
	bound    Sink
	fallback io.Writer = os.Stderr
)

const (
	sevError = "ERROR"
	sevWarn  = "WARN"
)

// Bind routes diagnostics to s. Binding nil restores the fallback writer.
func Bind(s Sink) {
	mu.Lock()
	bound = s
	mu.Unlock()
}

// SetFallback redirects diagnostics emitted while no sink is bound and
// returns the previous writer.
func SetFallback(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := fallback
	fallback = w
	return prev
}

// Error reports an error diagnostic.
func Error(msg string) {
	emit(sevError, "", msg)
}

// Errorf reports a formatted error diagnostic.
func Errorf(format string, args ...any) {
	emit(sevError, "", fmt.Sprintf(format, args...))
}

// ErrorNamed reports an error diagnostic attributed to name.
func ErrorNamed(name, msg string) {
	emit(sevError, name, msg)
}

// ErrorNamedf reports a formatted error diagnostic attributed to name.
func ErrorNamedf(name, format string, args ...any) {
	emit(sevError, name, fmt.Sprintf(format, args...))
}

// Warn reports a warning diagnostic.
func Warn(msg string) {
	emit(sevWarn, "", msg)
}

// Warnf reports a formatted warning diagnostic.
func Warnf(format string, args ...any) {
	emit(sevWarn, "", fmt.Sprintf(format, args...))
}

// WarnNamed reports a warning diagnostic attributed to name.
func WarnNamed(name, msg string) {
	emit(sevWarn, name, msg)
}

// WarnNamedf reports a formatted warning diagnostic attributed to name.
func WarnNamedf(name, format string, args ...any) {
	emit(sevWarn, name, fmt.Sprintf(format, args...))
}

func emit(severity, name, msg string) {
	mu.Lock()
	s := bound
	w := fallback
	mu.Unlock()

	if s != nil {
		if severity == sevWarn {
			msg = "warning: " + msg
		}
		if name == "" {
			s.Report(msg)
		} else {
			s.ReportNamed(name, msg)
		}
		return
	}

	timestamp := time.Now().Format("2006-01-02T15:04:05.000")
	if name != "" {
		fmt.Fprintf(w, "%s [%s] zshmod: %s: %s\n", timestamp, severity, name, msg)
	} else {
		fmt.Fprintf(w, "%s [%s] zshmod: %s\n", timestamp, severity, msg)
	}
}
