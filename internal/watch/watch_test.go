package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"asreval/internal/logging"
	"asreval/internal/watch"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitFor(t *testing.T, calls <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func startWatcher(t *testing.T, opts watch.Options) (<-chan struct{}, *atomic.Int32, func() error) {
	t.Helper()

	calls := make(chan struct{}, 16)
	var count atomic.Int32
	opts.OnChange = func(context.Context) error {
		count.Add(1)
		calls <- struct{}{}
		return nil
	}
	opts.Logger = logging.NewNop()

	w, err := watch.New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	var (
		once    sync.Once
		runErr  error
		stopped bool
	)
	stop := func() error {
		once.Do(func() {
			cancel()
			select {
			case runErr = <-done:
				stopped = true
			case <-time.After(5 * time.Second):
			}
		})
		if !stopped {
			t.Error("watcher did not stop")
		}
		return runErr
	}
	t.Cleanup(func() { _ = stop() })
	return calls, &count, stop
}

func TestWatcherRescoresOnChange(t *testing.T) {
	for _, pollOnly := range []bool{false, true} {
		name := "fsnotify"
		if pollOnly {
			name = "polling"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "predictions.txt")
			writeFile(t, path, "first\n")

			calls, count, stop := startWatcher(t, watch.Options{
				Path:         path,
				LockDir:      filepath.Join(dir, "locks"),
				Debounce:     20 * time.Millisecond,
				PollInterval: 20 * time.Millisecond,
				PollOnly:     pollOnly,
			})
			waitFor(t, calls, "initial score")

			// Modification times on some filesystems have coarse resolution.
			time.Sleep(50 * time.Millisecond)
			writeFile(t, path, "second\n")
			waitFor(t, calls, "rescore after write")

			if err := stop(); err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if got := count.Load(); got != 2 {
				t.Fatalf("expected 2 scoring runs, got %d", got)
			}
		})
	}
}

func TestWatcherRescoresWhenPollIsFasterThanDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.txt")
	writeFile(t, path, "first\n")

	calls, count, stop := startWatcher(t, watch.Options{
		Path:         path,
		LockDir:      filepath.Join(dir, "locks"),
		Debounce:     250 * time.Millisecond,
		PollInterval: 100 * time.Millisecond,
	})
	waitFor(t, calls, "initial score")

	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "second\n")
	waitFor(t, calls, "rescore while poll ticks keep arriving")

	if err := stop(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := count.Load(); got != 2 {
		t.Fatalf("expected 2 scoring runs, got %d", got)
	}
}

func TestWatcherSkipsUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.txt")
	writeFile(t, path, "same\n")

	calls, count, stop := startWatcher(t, watch.Options{
		Path:         path,
		LockDir:      filepath.Join(dir, "locks"),
		Debounce:     10 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})
	waitFor(t, calls, "initial score")

	writeFile(t, path, "same\n")
	time.Sleep(200 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := count.Load(); got != 1 {
		t.Fatalf("expected rewrite with identical content to be skipped, got %d runs", got)
	}
}

func TestWatcherWaitsForMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.txt")

	calls, _, _ := startWatcher(t, watch.Options{
		Path:         path,
		LockDir:      filepath.Join(dir, "locks"),
		Debounce:     10 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
	})

	select {
	case <-calls:
		t.Fatal("handler ran before the file existed")
	case <-time.After(100 * time.Millisecond):
	}

	writeFile(t, path, "created\n")
	waitFor(t, calls, "score after create")
}

func TestWatcherRejectsSecondInstance(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.txt")
	lockDir := filepath.Join(dir, "locks")

	w, err := watch.New(watch.Options{
		Path:     path,
		LockDir:  lockDir,
		OnChange: func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	held := flock.New(w.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("failed to take lock in test: %v", err)
	}
	defer held.Unlock()

	err = w.Run(context.Background())
	if !errors.Is(err, watch.ErrAlreadyWatching) {
		t.Fatalf("expected ErrAlreadyWatching, got %v", err)
	}
}

func TestWatcherSurvivesHandlerErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "predictions.txt")
	writeFile(t, path, "v1\n")

	calls := make(chan struct{}, 4)
	w, err := watch.New(watch.Options{
		Path:         path,
		LockDir:      filepath.Join(dir, "locks"),
		Debounce:     10 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		PollOnly:     true,
		Logger:       logging.NewNop(),
		OnChange: func(context.Context) error {
			calls <- struct{}{}
			return errors.New("length mismatch")
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	waitFor(t, calls, "first failing run")
	time.Sleep(50 * time.Millisecond)
	writeFile(t, path, "v2\n")
	waitFor(t, calls, "second run after failure")
}

func TestNewValidatesOptions(t *testing.T) {
	handler := func(context.Context) error { return nil }
	tests := []struct {
		name string
		opts watch.Options
	}{
		{"missing path", watch.Options{LockDir: t.TempDir(), OnChange: handler}},
		{"missing lock dir", watch.Options{Path: "p.txt", OnChange: handler}},
		{"missing handler", watch.Options{Path: "p.txt", LockDir: t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := watch.New(tt.opts); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLockPathIsStablePerFile(t *testing.T) {
	lockDir := t.TempDir()
	handler := func(context.Context) error { return nil }

	a, err := watch.New(watch.Options{Path: "/data/a.txt", LockDir: lockDir, OnChange: handler})
	if err != nil {
		t.Fatal(err)
	}
	again, err := watch.New(watch.Options{Path: "/data/a.txt", LockDir: lockDir, OnChange: handler})
	if err != nil {
		t.Fatal(err)
	}
	b, err := watch.New(watch.Options{Path: "/data/b.txt", LockDir: lockDir, OnChange: handler})
	if err != nil {
		t.Fatal(err)
	}
	if a.LockPath() != again.LockPath() {
		t.Fatalf("lock path differs for same file: %s vs %s", a.LockPath(), again.LockPath())
	}
	if a.LockPath() == b.LockPath() {
		t.Fatal("distinct files share a lock path")
	}
}
