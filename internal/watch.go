package internal

import (
	"context"
	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"log"
	"path/filepath"
	"time"
)

// WatchRetries is how many times a failed reload is retried after a change, as editors may still be writing the file.
const WatchRetries = 5

// Watch calls onChange every time one of the files at paths is written, created or replaced, until ctx is done.
// Failed calls are retried with an exponential backoff and then logged: a broken scene must not stop the watch.
// Directories are watched instead of files so that editors replacing the file on save keep being followed.
func Watch(ctx context.Context, paths []string, onChange func() error) error {
	files := map[string]bool{}
	dirSet := map[string]bool{}
	var dirs []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		if dir := filepath.Dir(abs); !dirSet[dir] {
			dirSet[dir] = true
			dirs = append(dirs, dir)
		}
	}
	watcher, err := newFsWatcher(dirs)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || !files[abs] {
				continue
			}
			log.Println("[Voxelized2D] Change detected:", event)
			if err := retry(ctx, onChange); err != nil {
				log.Println("[Voxelized2D] Reload failed:", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Println("[Voxelized2D] Watch error:", err)
		}
	}
}

func retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, WatchRetries), ctx))
}
