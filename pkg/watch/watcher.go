// Package watch notifies the UI when workspace files change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes a workspace root recursively and coalesces bursts
// of filesystem events into single change notifications.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	// debounce holds the quiet period before a change fires
	debounce time.Duration

	// mu serializes notify against the shutdown close of changed.
	mu      sync.Mutex
	closed  bool
	changed chan struct{}
}

// skipDir names directories never watched.
func skipDir(name string) bool {
	return name == ".git" || name == ".cl"
}

// New creates a watcher for the given workspace root.
func New(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		root:     root,
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
		debounce: 200 * time.Millisecond,
		changed:  make(chan struct{}, 1),
	}, nil
}

// Changes returns the channel that receives one signal per coalesced
// batch of filesystem changes. The channel is closed once Stop ends
// the event loop, so receivers should check the second return value.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changed
}

// Start registers every directory under the root and begins the event
// loop.
func (w *Watcher) Start() error {
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		// Best effort per directory
		_ = w.watcher.Add(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch workspace: %w", err)
	}

	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down.
func (w *Watcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

// watchLoop processes filesystem events. A pending timer fires once
// the event stream has been quiet for the debounce window, so one
// re-crawl covers an entire burst of writes.
func (w *Watcher) watchLoop() {
	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
		// A debounce timer may still be mid-fire; notify checks the
		// closed flag under the same lock.
		w.mu.Lock()
		w.closed = true
		close(w.changed)
		w.mu.Unlock()
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if skipDir(filepath.Base(filepath.Dir(event.Name))) || skipDir(filepath.Base(event.Name)) {
				continue
			}

			// New directories need their own watch registration.
			if event.Op&fsnotify.Create != 0 {
				_ = w.watcher.Add(event.Name)
			}

			if pending == nil {
				pending = time.AfterFunc(w.debounce, w.notify)
			} else {
				pending.Reset(w.debounce)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Errors do not stop the watcher
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
