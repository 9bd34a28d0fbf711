package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

type fakeWatcher struct {
	events chan Event
	errs   chan error
	added  []string
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan Event, 16), errs: make(chan error, 1)}
}

func (f *fakeWatcher) Events() <-chan Event     { return f.events }
func (f *fakeWatcher) Errors() <-chan error     { return f.errs }
func (f *fakeWatcher) Remove(name string) error { return nil }

func (f *fakeWatcher) Add(name string) error {
	f.added = append(f.added, name)
	return nil
}

func (f *fakeWatcher) Close() error {
	close(f.events)
	return nil
}

func TestRunnerDebouncesAndFilters(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.drc")
	fw := newFakeWatcher()

	var calls int32
	changed := make(chan string, 4)
	r := &Runner{
		Watcher:  fw,
		Debounce: 50 * time.Millisecond,
		OnChange: func(p string) {
			atomic.AddInt32(&calls, 1)
			changed <- p
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, file) }()

	fw.events <- Event{Path: filepath.Join(dir, "other.drc"), Op: OpWrite}
	fw.events <- Event{Path: file, Op: OpChmod}
	fw.events <- Event{Path: file, Op: OpWrite}
	fw.events <- Event{Path: file, Op: OpWrite}
	fw.events <- Event{Path: file, Op: OpCreate}

	select {
	case p := <-changed:
		if p != file {
			t.Errorf("OnChange(%q), want %q", p, file)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("OnChange called %d times, want 1", n)
	}
	if len(fw.added) != 1 || fw.added[0] != dir {
		t.Errorf("watched %v, want the file's directory", fw.added)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v", err)
	}
}

func TestRunnerReportsErrors(t *testing.T) {
	fw := newFakeWatcher()
	got := make(chan error, 1)
	r := &Runner{Watcher: fw, OnError: func(err error) { got <- err }}

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), "x.drc") }()

	fw.errs <- errors.New("boom")
	select {
	case err := <-got:
		if err.Error() != "boom" {
			t.Errorf("error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for error")
	}

	fw.Close()
	if err := <-done; err != nil {
		t.Errorf("Run after close = %v", err)
	}
}

func TestPollingWatcher(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "w.drc")
	if err := os.WriteFile(p, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewPollingWatcher(20 * time.Millisecond)
	defer w.Close()
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(p, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Events():
		if ev.Path != p || ev.Op != OpWrite {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for polling event")
	}

	created := filepath.Join(dir, "new.drc")
	if err := os.WriteFile(created, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case ev := <-w.Events():
		if ev.Path != created || ev.Op != OpCreate {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for create event")
	}
}

func TestPollingWatcherMissingPath(t *testing.T) {
	w := NewPollingWatcher(time.Second)
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("Add of a missing path should fail")
	}
}

func TestFSNotifyWatcher(t *testing.T) {
	fw, err := NewFSWatcher()
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()
	dir := t.TempDir()
	if err := fw.Add(dir); err != nil {
		t.Fatal(err)
	}
	go func() {
		_ = os.WriteFile(filepath.Join(dir, "f.drc"), []byte("x"), 0o644)
	}()
	select {
	case ev := <-fw.Events():
		if ev.Path == "" {
			t.Fatal("empty path")
		}
		if ev.Op&(OpCreate|OpWrite) == 0 {
			t.Errorf("unexpected op %v", ev.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsnotify event")
	}
}
