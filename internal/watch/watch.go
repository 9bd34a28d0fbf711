// Package watch reports changes to source files so a program can be rerun
// whenever it is saved.
package watch

import (
	"context"
	"path/filepath"
	"time"
)

// Op indicates a change operation in the filesystem.
type Op uint32

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event describes a filesystem change event.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Watcher provides a platform-independent file watching API.
type Watcher interface {
	Events() <-chan Event
	Errors() <-chan error
	Add(name string) error
	Remove(name string) error
	Close() error
}

// DefaultDebounce collapses the bursts of events editors produce on save
const DefaultDebounce = 100 * time.Millisecond

// Runner calls OnChange after a watched file changes. Events arriving
// within Debounce of each other trigger a single call.
type Runner struct {
	Watcher  Watcher
	Debounce time.Duration
	OnChange func(path string)
	OnError  func(err error)
}

// Run watches file until ctx is cancelled or the watcher shuts down. The
// file's directory is watched rather than the file itself, so editors
// that save by renaming a temporary file over the original are seen too.
func (r *Runner) Run(ctx context.Context, file string) error {
	target, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := r.Watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	debounce := r.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case ev, ok := <-r.Watcher.Events():
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false
			if r.OnChange != nil {
				r.OnChange(file)
			}
		case err, ok := <-r.Watcher.Errors():
			if !ok {
				return nil
			}
			if r.OnError != nil {
				r.OnError(err)
			}
		}
	}
}

func relevant(ev Event, target string) bool {
	if ev.Op&(OpCreate|OpWrite|OpRename) == 0 {
		return false
	}
	p, err := filepath.Abs(ev.Path)
	if err != nil {
		return false
	}
	return p == target
}
