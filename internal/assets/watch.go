package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange after files in the base dir change on disk, at most
// once per debounce window. It only makes sense for an OS-backed resolver.
// The watcher stops when ctx is done.
func (r *Resolver) Watch(ctx context.Context, debounce time.Duration, onChange func(name string), onError func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Add(r.baseDir); err != nil {
		w.Close()
		return fmt.Errorf("watching %s: %w", r.baseDir, err)
	}

	go func() {
		defer w.Close()
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				name := ev.Name
				timer = time.AfterFunc(debounce, func() { onChange(name) })
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()
	return nil
}
