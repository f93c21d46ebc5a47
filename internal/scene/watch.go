package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/logger"
)

// reloadDelay coalesces the burst of events editors produce on save.
const reloadDelay = 100 * time.Millisecond

// Watcher reloads a scene file whenever it changes on disk and publishes
// each successfully validated scene on Updates. Invalid edits are logged and
// skipped so the previous scene stays active.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan *Scene
	log     *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch starts watching path. The watcher stops when ctx is canceled or
// Close is called.
func Watch(ctx context.Context, path string) (*Watcher, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: editors often replace the file by rename,
	// which drops a watch placed on the file itself.
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fw,
		updates: make(chan *Scene, 1),
		log:     logger.Named("scene"),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run(ctx)
	return w, nil
}

// Updates delivers reloaded scenes. Only the most recent pending scene is kept.
func (w *Watcher) Updates() <-chan *Scene {
	return w.updates
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	timer := time.NewTimer(reloadDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	s, err := Load(w.path)
	if err != nil {
		w.log.Warn("scene reload failed, keeping previous scene", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Info("scene reloaded", zap.String("path", w.path), zap.Int("bodies", s.System.Len()))

	// Replace any scene the frame loop has not picked up yet
	select {
	case <-w.updates:
	default:
	}
	w.updates <- s
}
