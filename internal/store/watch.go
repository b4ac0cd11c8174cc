package store

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch signals whenever the token file changes on disk, which is how a
// login or logout in a sibling process reaches this one. Each signal has
// already dropped the memory cache. The channel closes when ctx is done.
func (s *TokenStore) Watch(ctx context.Context) (<-chan struct{}, error) {
	if s.path == "" {
		return watchNoop(ctx), nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: the file may be replaced rather than rewritten.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		s.forward(ctx, watcher.Events, watcher.Errors, out)
	}()
	return out, nil
}

// forward turns file events for the token file into change signals and
// closes out when ctx is done or either source closes.
func (s *TokenStore) forward(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, out chan<- struct{}) {
	defer close(out)
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			s.Refresh()
			select {
			case out <- struct{}{}:
			default:
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			s.logger.Warn("token file watch error", "path", s.path, "error", err)
		}
	}
}
