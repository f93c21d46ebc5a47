package viewer

import (
	"context"
	"errors"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/scene"
)

// openSceneDialog shows a native file dialog off the main thread. The chosen
// path is queued and loaded by the frame loop, which owns all GL state.
func (v *Viewer) openSceneDialog() {
	if v.dialogOpen {
		return
	}
	v.dialogOpen = true

	go func() {
		filename, err := dialog.File().
			Filter("Scene files", "yaml", "yml", "toml").
			Filter("All Files", "*").
			Title("Open Scene").
			Load()

		if err != nil && !errors.Is(err, dialog.ErrCancelled) {
			v.log.Warn("file dialog error", zap.Error(err))
		}
		// Empty path reports a cancel so the loop can accept a new request
		v.pendingPath <- filename
	}()
}

// openPending loads a scene picked in the dialog, if any.
func (v *Viewer) openPending(ctx context.Context) {
	select {
	case path := <-v.pendingPath:
		v.dialogOpen = false
		if path == "" {
			return
		}
		sc, err := scene.Load(path)
		if err != nil {
			v.log.Warn("opening scene failed, keeping current scene", zap.String("path", path), zap.Error(err))
			return
		}
		v.config.Scene.Path = path
		v.swapScene(sc)
		v.restartWatcher(ctx)
	default:
	}
}

// restartWatcher points hot reload at the current scene path.
func (v *Viewer) restartWatcher(ctx context.Context) {
	if !v.config.Scene.Watch || v.config.Scene.Path == "" {
		return
	}
	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing scene watcher", zap.Error(err))
		}
		v.watcher = nil
	}
	w, err := scene.Watch(ctx, v.config.Scene.Path)
	if err != nil {
		v.log.Warn("scene hot reload disabled", zap.Error(err))
		return
	}
	v.watcher = w
	v.log.Info("watching scene", zap.String("path", v.config.Scene.Path))
}
