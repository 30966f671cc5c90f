package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/NTPCPHARMACY/HRPC/pkg/core"
)

const (
	debounceDelay   = 50 * time.Millisecond
	selfWriteWindow = 500 * time.Millisecond
)

// Watch emits events for snapshot files changed by other processes.
// pattern is a doublestar glob matched against keys (e.g. "hrpc_*"); an empty
// pattern matches every key. The channel is closed once ctx is done.
func (b *Backend) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(b.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", b.Path, err)
	}

	events := make(chan core.Event, 16)
	deb := newDebouncer(debounceDelay)
	b.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer b.setWatcherActive(false)
		defer watcher.Close()
		defer deb.stopAndWait()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if e, ok := b.toEvent(ev, pattern); ok {
					deb.add(e.Key, func() {
						select {
						case events <- e:
						case <-ctx.Done():
						}
					})
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				b.config.Logger.Error("fsnotify error", "error", werr)
				if b.config.ErrorHandler != nil {
					b.config.ErrorHandler(werr)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		b.config.Logger.Error("watcher panic", "error", err)
		if b.config.ErrorHandler != nil {
			b.config.ErrorHandler(fmt.Errorf("watcher panic: %w", err))
		}
	}))

	return events, nil
}

// toEvent filters and maps a filesystem event.
func (b *Backend) toEvent(ev fsnotify.Event, pattern string) (core.Event, bool) {
	key, ok := b.keyOf(filepath.Base(ev.Name))
	if !ok {
		return core.Event{}, false
	}
	if match, _ := doublestar.Match(pattern, key); !match {
		return core.Event{}, false
	}
	if b.wroteRecently(key, selfWriteWindow) {
		return core.Event{}, false
	}

	var t core.EventType
	switch {
	case ev.Has(fsnotify.Create):
		t = core.EventCreate
	case ev.Has(fsnotify.Write):
		t = core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.Event{}, false
	}
	return core.Event{Type: t, Key: key, Timestamp: time.Now().Unix()}, true
}

func (b *Backend) setWatcherActive(active bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.watcherActive = active
}

// debouncer collapses bursts of events per key into the last one.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok && t.Stop() {
		d.wg.Done()
	}
	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
}

// stopAndWait cancels pending timers and waits for running callbacks.
func (d *debouncer) stopAndWait() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
