// Package watch emits debounced change notifications for a fixed set of
// files, driving zmodhost's re-run loop.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches individual files and coalesces event bursts into one
// notification per quiet period. Parent directories are watched rather
// than the files themselves, so editors that replace a file on save
// still produce events.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	debounce time.Duration
	want     map[string]bool

	events  chan string
	errs    chan error
	closeCh chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// New watches the given files. Each must resolve to an absolute path;
// its parent directory must exist.
func New(debounce time.Duration, paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		want:     make(map[string]bool, len(paths)),
		events:   make(chan string, 16),
		errs:     make(chan error, 16),
		closeCh:  make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.want[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Events delivers the path of the latest change after the quiet period.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Errors delivers watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)

	for {
		select {
		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(ev.Name)
			if !w.want[name] {
				continue
			}
			pending = name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}

		case <-timerC:
			select {
			case w.events <- pending:
			default:
			}
			timer = nil
			timerC = nil
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}
