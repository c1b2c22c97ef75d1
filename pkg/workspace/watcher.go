package workspace

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// ChangeFunc is called with the path of a localization file that changed on disk.
type ChangeFunc func(ctx context.Context, path string)

// Watcher watches the directories of open manifests for changes to their
// localization file. Directories are reference counted so two manifests in
// one directory keep it watched until both are closed.
type Watcher struct {
	mu       sync.Mutex
	fs       *fsnotify.Watcher
	fileName string
	dirs     map[string]int
	onChange ChangeFunc
	done     chan struct{}
}

func NewWatcher(ctx context.Context, fileName string, onChange ChangeFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		fs:       fsw,
		fileName: fileName,
		dirs:     make(map[string]int),
		onChange: onChange,
		done:     make(chan struct{}),
	}

	go w.loop(ctx)

	return w, nil
}

func (me *Watcher) loop(ctx context.Context) {
	defer close(me.done)

	logger := zerolog.Ctx(ctx)

	for {
		select {
		case ev, ok := <-me.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != me.fileName {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("localization file changed on disk")
			me.onChange(ctx, ev.Name)
		case err, ok := <-me.fs.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("file watcher error")
		case <-ctx.Done():
			return
		}
	}
}

// Add starts watching dir, or bumps its count when it is already watched.
func (me *Watcher) Add(dir string) error {
	me.mu.Lock()
	defer me.mu.Unlock()

	dir = filepath.Clean(dir)
	if me.dirs[dir] > 0 {
		me.dirs[dir]++
		return nil
	}

	if err := me.fs.Add(dir); err != nil {
		return errors.Errorf("watching %s: %w", dir, err)
	}
	me.dirs[dir] = 1
	return nil
}

// Remove drops one reference to dir and stops watching it at zero.
func (me *Watcher) Remove(dir string) error {
	me.mu.Lock()
	defer me.mu.Unlock()

	dir = filepath.Clean(dir)
	count, ok := me.dirs[dir]
	if !ok {
		return nil
	}
	if count > 1 {
		me.dirs[dir] = count - 1
		return nil
	}

	delete(me.dirs, dir)
	if err := me.fs.Remove(dir); err != nil {
		return errors.Errorf("unwatching %s: %w", dir, err)
	}
	return nil
}

// Watched returns how many manifests keep dir watched.
func (me *Watcher) Watched(dir string) int {
	me.mu.Lock()
	defer me.mu.Unlock()
	return me.dirs[filepath.Clean(dir)]
}

// Close stops every watch and waits for the event loop to end.
func (me *Watcher) Close() error {
	me.mu.Lock()
	var err error
	for dir := range me.dirs {
		if rerr := me.fs.Remove(dir); rerr != nil {
			err = multierr.Append(err, errors.Errorf("unwatching %s: %w", dir, rerr))
		}
		delete(me.dirs, dir)
	}
	me.mu.Unlock()

	err = multierr.Append(err, me.fs.Close())
	<-me.done
	return err
}
