package collide

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay lets an editor finish writing before the file is reread.
const settleDelay = 100 * time.Millisecond

// Watcher reruns a handler whenever one of its program files is written.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	files   map[string]bool
	settle  time.Duration
}

// NewWatcher starts watching the directories holding paths. Events for
// other files in those directories are ignored.
func NewWatcher(logger *zap.Logger, paths []string) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{watcher: fw, logger: logger, files: make(map[string]bool, len(paths)), settle: settleDelay}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return w, nil
}

// Run blocks until ctx is done, calling handle with the path of every
// watched file that is written or recreated.
func (w *Watcher) Run(ctx context.Context, handle func(ctx context.Context, path string)) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			name, ok := w.match(event)
			if !ok {
				continue
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.settle):
			}
			for _, changed := range w.drain(name) {
				w.logger.Debug("program changed", zap.String("file", changed))
				handle(ctx, changed)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

// match returns the absolute path of a write or create event on a
// watched file.
func (w *Watcher) match(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.files[name] {
		return "", false
	}
	return name, true
}

// drain folds the events queued while first settled, so a save that
// arrives as several writes runs the handler once per file.
func (w *Watcher) drain(first string) []string {
	changed := []string{first}
	seen := map[string]bool{first: true}
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return changed
			}
			if name, ok := w.match(event); ok && !seen[name] {
				seen[name] = true
				changed = append(changed, name)
			}
		default:
			return changed
		}
	}
}
