package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 150 * time.Millisecond

// fileWatcher signals on C whenever one file is written or replaced.
// The parent directory is watched so that rename-on-save is seen.
type fileWatcher struct {
	C <-chan struct{}

	w      *fsnotify.Watcher
	target string
	c      chan struct{}
	done   chan struct{}
	once   sync.Once
	logger *log.Logger
}

func newFileWatcher(path string, logger *log.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	c := make(chan struct{}, 1)
	return &fileWatcher{C: c, w: w, target: abs, c: c, done: make(chan struct{}), logger: logger}, nil
}

// run forwards debounced change events until ctx is done or the watcher is
// closed.
func (fw *fileWatcher) run(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.target || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, fw.notify)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", "err", err)
		}
	}
}

func (fw *fileWatcher) notify() {
	select {
	case fw.c <- struct{}{}:
	default:
	}
}

// Done is closed by Close. C itself is never closed.
func (fw *fileWatcher) Done() <-chan struct{} { return fw.done }

// Close stops watching. It is safe to call more than once.
func (fw *fileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// watchFile calls fn every time path changes until ctx is done. Errors from
// fn are logged and watching continues.
func watchFile(ctx context.Context, path string, logger *log.Logger, fn func() error) error {
	fw, err := newFileWatcher(path, logger)
	if err != nil {
		return err
	}
	defer fw.Close()
	go fw.run(ctx)

	printInfo("Watching %s (ctrl+c to stop)", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fw.C:
			logger.Debug("input changed", "path", path)
			if err := fn(); err != nil {
				logger.Error("recompute failed", "err", err)
			}
		}
	}
}
