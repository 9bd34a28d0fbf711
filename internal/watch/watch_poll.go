package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PollingWatcher is a timestamp-based watcher portable across OSes. It is
// used where fsnotify cannot be initialised.
type PollingWatcher struct {
	mu       sync.Mutex
	roots    map[string]bool
	snapshot map[string]time.Time

	evCh chan Event
	erCh chan error
	stop context.CancelFunc
	done chan struct{}
}

// NewPollingWatcher starts polling every interval
func NewPollingWatcher(interval time.Duration) *PollingWatcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &PollingWatcher{
		roots:    make(map[string]bool),
		snapshot: make(map[string]time.Time),
		evCh:     make(chan Event, 64),
		erCh:     make(chan error, 1),
		stop:     cancel,
		done:     make(chan struct{}),
	}
	go w.poll(ctx, interval)
	return w
}

func (w *PollingWatcher) Events() <-chan Event { return w.evCh }
func (w *PollingWatcher) Errors() <-chan error { return w.erCh }

// Add watches a file, or every file directly inside a directory. The
// current state is recorded so only later changes are reported.
func (w *PollingWatcher) Add(name string) error {
	files, err := scan(name)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.roots[name] = true
	for p, mod := range files {
		w.snapshot[p] = mod
	}
	return nil
}

func (w *PollingWatcher) Remove(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.roots, name)
	return nil
}

func (w *PollingWatcher) Close() error {
	w.stop()
	<-w.done
	return nil
}

func (w *PollingWatcher) poll(ctx context.Context, interval time.Duration) {
	defer close(w.done)
	defer close(w.evCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, ev := range w.diff() {
				select {
				case w.evCh <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// diff rescans every root and returns the changes since the last scan
func (w *PollingWatcher) diff() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	current := make(map[string]time.Time)
	for root := range w.roots {
		files, err := scan(root)
		if err != nil {
			if !os.IsNotExist(err) {
				select {
				case w.erCh <- err:
				default:
				}
			}
			continue
		}
		for p, mod := range files {
			current[p] = mod
		}
	}

	var events []Event
	for p, mod := range current {
		prev, seen := w.snapshot[p]
		switch {
		case !seen:
			events = append(events, Event{Path: p, Op: OpCreate, Time: now})
		case !mod.Equal(prev):
			events = append(events, Event{Path: p, Op: OpWrite, Time: now})
		}
	}
	for p := range w.snapshot {
		if _, ok := current[p]; !ok {
			events = append(events, Event{Path: p, Op: OpRemove, Time: now})
		}
	}
	w.snapshot = current
	return events
}

func scan(name string) (map[string]time.Time, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	files := make(map[string]time.Time)
	if !info.IsDir() {
		files[name] = info.ModTime()
		return files, nil
	}
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		files[filepath.Join(name, e.Name())] = fi.ModTime()
	}
	return files, nil
}

// New returns an fsnotify watcher, falling back to polling at interval
// when the platform has no native notifications.
func New(interval time.Duration) Watcher {
	if fw, err := NewFSWatcher(); err == nil {
		return fw
	}
	return NewPollingWatcher(interval)
}
