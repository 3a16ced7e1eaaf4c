package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"asreval/internal/fileutil"
	"asreval/internal/logging"
)

const (
	defaultDebounce     = 250 * time.Millisecond
	defaultPollInterval = time.Second
)

// ErrAlreadyWatching reports that another process holds the watcher lock for
// the same predictions file.
var ErrAlreadyWatching = errors.New("another watcher is already running for this file")

// ChangeFunc runs after the watched file settles with new content.
type ChangeFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	Path     string
	LockDir  string
	OnChange ChangeFunc
	Logger   *slog.Logger

	Debounce     time.Duration
	PollInterval time.Duration
	// PollOnly skips fsnotify, for network filesystems without inotify.
	PollOnly bool
}

// Watcher invokes OnChange each time the watched file's content changes.
type Watcher struct {
	path         string
	lockPath     string
	lock         *flock.Flock
	onChange     ChangeFunc
	logger       *slog.Logger
	debounce     time.Duration
	pollInterval time.Duration
	pollOnly     bool

	lastHash string
	lastMod  time.Time
}

// New validates opts and prepares a watcher. The lock is taken by Run.
func New(opts Options) (*Watcher, error) {
	if opts.Path == "" {
		return nil, errors.New("watch: path is required")
	}
	if opts.LockDir == "" {
		return nil, errors.New("watch: lock directory is required")
	}
	if opts.OnChange == nil {
		return nil, errors.New("watch: change handler is required")
	}
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", opts.Path, err)
	}
	if err := os.MkdirAll(opts.LockDir, 0o755); err != nil {
		return nil, fmt.Errorf("watch: create lock directory: %w", err)
	}

	lockPath := filepath.Join(opts.LockDir, fileutil.HashString(path)[:16]+".lock")
	w := &Watcher{
		path:         path,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
		onChange:     opts.OnChange,
		logger:       logging.NewComponentLogger(opts.Logger, "watch"),
		debounce:     opts.Debounce,
		pollInterval: opts.PollInterval,
		pollOnly:     opts.PollOnly,
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.pollInterval <= 0 {
		w.pollInterval = defaultPollInterval
	}
	return w, nil
}

// LockPath returns the flock file guarding this watcher.
func (w *Watcher) LockPath() string { return w.lockPath }

// Run blocks until ctx is cancelled. The file is scored once at start when it
// exists, then again after every settled change. Handler errors are logged
// and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlreadyWatching, w.lockPath)
	}
	defer func() {
		if err := w.lock.Unlock(); err != nil {
			w.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	w.logger.Info("watching predictions", logging.String("path", w.path), logging.String("lock", w.lockPath))
	w.fire(ctx)

	if w.pollOnly {
		return w.poll(ctx)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.WarnWithContext(w.logger, "fsnotify unavailable, falling back to polling", "watch_fallback",
			logging.Error(err),
			logging.String(logging.FieldImpact, "changes are detected on the poll interval"))
		return w.poll(ctx)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		logging.WarnWithContext(w.logger, "cannot watch predictions directory, falling back to polling", "watch_fallback",
			logging.Error(err),
			logging.String(logging.FieldImpact, "changes are detected on the poll interval"))
		return w.poll(ctx)
	}

	pollTicker := time.NewTicker(w.pollInterval)
	defer pollTicker.Stop()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				w.logger.Info("fsnotify watcher closed, switching to polling")
				return w.poll(ctx)
			}
			if filepath.Clean(event.Name) == w.path && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				settle = time.After(w.debounce)
			}

		case <-settle:
			settle = nil
			w.fire(ctx)

		case <-pollTicker.C:
			// The tick only arms an idle debounce. lastMod is not updated
			// until fire runs, so re-arming here would postpone it forever
			// whenever the poll interval is shorter than the debounce.
			if settle == nil && w.modifiedSinceLastRun() {
				settle = time.After(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				w.logger.Info("fsnotify error channel closed, switching to polling")
				return w.poll(ctx)
			}
			w.logger.Warn("file watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if w.modifiedSinceLastRun() {
				w.fire(ctx)
			}
		}
	}
}

func (w *Watcher) modifiedSinceLastRun() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	return !info.ModTime().Equal(w.lastMod)
}

// fire runs the handler when the file exists and its content hash differs
// from the last handled version.
func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	info, err := os.Stat(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("stat predictions failed", logging.Error(err))
		}
		return
	}
	w.lastMod = info.ModTime()

	hash, err := fileutil.HashFile(w.path)
	if err != nil {
		w.logger.Warn("hash predictions failed", logging.Error(err))
		return
	}
	if hash == w.lastHash {
		w.logger.Debug("predictions unchanged, skipping rescore")
		return
	}
	w.lastHash = hash

	if err := w.onChange(ctx); err != nil {
		logging.WarnWithContext(w.logger, "rescore failed", "rescore_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the predictions file; the watcher retries on the next change"),
			logging.String(logging.FieldImpact, "previous results remain current"))
	}
}
