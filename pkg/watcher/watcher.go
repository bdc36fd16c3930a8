// Package watcher re-runs analysis when a watched snippet file changes.
package watcher

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

var watchLog = log.New(os.Stderr, "[lumina:watcher] ", log.Ltime)

// DefaultDebounceDelay batches the editor's save bursts (write + rename +
// chmod) into one analysis run.
const DefaultDebounceDelay = 500 * time.Millisecond

// ChangeHandler is invoked once per debounced change of the watched file.
type ChangeHandler interface {
	OnChange(path string)
}

// ChangeHandlerFunc adapts a function to ChangeHandler.
type ChangeHandlerFunc func(path string)

func (f ChangeHandlerFunc) OnChange(path string) {
	f(path)
}

// Watcher observes one snippet file. The parent directory is watched rather
// than the file itself because editors commonly save via rename, which
// drops an inode-level watch.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	path     string
	debounce time.Duration
	handlers []ChangeHandler
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu           sync.Mutex
	dirty        bool
	debounceOnce sync.Once
}

// New creates a watcher for the given file. debounce <= 0 selects the
// default delay.
func New(path string, debounce time.Duration, handlers ...ChangeHandler) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch target: %w", err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounceDelay
	}
	return &Watcher{
		fsnotify: fsWatcher,
		path:     abs,
		debounce: debounce,
		handlers: handlers,
		stop:     make(chan struct{}),
	}, nil
}

// AddHandler registers an additional change handler.
func (w *Watcher) AddHandler(h ChangeHandler) {
	w.handlers = append(w.handlers, h)
}

// Start begins watching. It returns once the watch is installed; events are
// processed on a background goroutine until Stop.
func (w *Watcher) Start() error {
	if err := w.fsnotify.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.processEvents()
	watchLog.Printf("watching %s (debounce: %v)", w.path, w.debounce)
	return nil
}

// Stop shuts the watcher down and waits for in-flight handlers.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stop) })
	w.wg.Wait()
	return w.fsnotify.Close()
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.queueChange()
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			watchLog.Printf("error: %v", err)
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	base := filepath.Base(abs)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return abs == w.path
}

func (w *Watcher) queueChange() {
	w.mu.Lock()
	w.dirty = true
	w.debounceOnce.Do(func() {
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			select {
			case <-time.After(w.debounce):
				w.flushPending()
			case <-w.stop:
			}
		}()
	})
	w.mu.Unlock()
}

func (w *Watcher) flushPending() {
	w.mu.Lock()
	dirty := w.dirty
	w.dirty = false
	w.debounceOnce = sync.Once{}
	w.mu.Unlock()

	if !dirty {
		return
	}
	for _, h := range w.handlers {
		h.OnChange(w.path)
	}
}
