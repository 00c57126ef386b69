package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	errs "github.com/matzehuels/floorgraph/pkg/errors"
)

// Watcher reports changes to one file. It watches the parent directory so
// that editors which save by renaming a temporary file are seen too.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
}

// NewWatcher starts watching path. Bursts of events closer together than
// debounce are reported once.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "watch %s", path)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, err, "create file watcher")
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, errs.Wrap(errs.ErrCodeIO, err, "watch %s", filepath.Dir(abs))
	}
	return &Watcher{fs: fw, path: abs, debounce: debounce}, nil
}

// Run calls onChange after each settled change until ctx is cancelled. It
// closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fs.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return errs.Wrap(errs.ErrCodeIO, err, "watch %s", w.path)
		}
	}
}
