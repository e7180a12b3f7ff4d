package graphfile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events a single save produces.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the graph at path whenever it changes on disk and passes
// each successfully decoded document to onChange. It blocks until ctx is
// done. onChange runs on the watcher goroutine.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file by rename are still seen.
func Watch(ctx context.Context, path string, onChange func(*Graph)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("creating file watcher failed").Wrap(err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.New("resolving graph path failed").
			WithTag("path", path).
			Wrap(err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.New("watching graph dir failed").
			WithTag("path", path).
			Wrap(err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logs.Warn(errors.New("file watcher error").
				WithTag("path", path).
				Wrap(err))

		case <-timer.C:
			g, err := Load(abs)
			if err != nil {
				logs.Warn(err)
				continue
			}
			logs.WithTag("path", path).
				WithTag("nodes", g.NodeCount()).
				Debug("graph reloaded")
			onChange(g)
		}
	}
}
