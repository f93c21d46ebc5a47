// Package viewer implements the main frame loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/debug"
	"github.com/Faultbox/orrery/internal/engine/geometry"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/renderer"
	"github.com/Faultbox/orrery/internal/engine/window"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/internal/scene"
)

// Title is the window title.
const Title = "Orrery"

// Viewer owns the window, the GL renderer and the frame state.
type Viewer struct {
	config  *config.Config
	running bool

	window      *window.Window
	renderer    *renderer.Renderer
	input       *input.Input
	screenshots *debug.ScreenshotCapture
	watcher     *scene.Watcher

	state          *State
	drawList       []renderer.Body
	badTextures    map[string]bool
	wantScreenshot bool
	dialogOpen     bool
	pendingPath    chan string
	log            *zap.Logger
}

// LoadScene returns the scene named by cfg, or the built-in one.
func LoadScene(cfg *config.Config) (*scene.Scene, error) {
	if cfg.Scene.Path == "" {
		return scene.Default(), nil
	}
	return scene.Load(cfg.Scene.Path)
}

// New creates the window and renderer and prepares the first frame.
func New(ctx context.Context, cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		config:      cfg,
		badTextures: make(map[string]bool),
		pendingPath: make(chan string, 1),
		log:         logger.Named("viewer"),
	}

	sc, err := LoadScene(cfg)
	if err != nil {
		return nil, err
	}
	v.log.Info("scene loaded",
		zap.String("path", sc.Path),
		zap.Int("bodies", sc.System.Len()),
	)

	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer comes after the window, since the GL context must exist
	fbWidth, fbHeight := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      fbWidth,
		Height:     fbHeight,
		ClearColor: cfg.Graphics.ClearColor,
		Wireframe:  cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.state, err = NewState(cfg, sc)
	if err != nil {
		v.Close()
		return nil, err
	}
	v.state.Camera.SetViewport(fbWidth, fbHeight)

	if err := v.uploadMesh(); err != nil {
		v.Close()
		return nil, err
	}

	v.input = input.New()
	v.screenshots = debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "orrery", cfg.Debug.ScreenshotFormat)

	v.restartWatcher(ctx)

	v.log.Info("viewer initialized")
	return v, nil
}

func (v *Viewer) uploadMesh() error {
	res := v.state.Resolution()
	mesh, err := geometry.GenerateSphere(res)
	if err != nil {
		return err
	}
	if err := v.renderer.SetMesh(mesh); err != nil {
		return fmt.Errorf("uploading sphere: %w", err)
	}
	v.log.Debug("sphere generated", zap.Int("resolution", res))
	return nil
}

// texture resolves a texture path to a GL texture. Failures are logged
// once and the body is drawn with its flat colour.
func (v *Viewer) texture(path string) uint32 {
	if v.badTextures[path] {
		return 0
	}
	id, err := v.renderer.Texture(path)
	if err != nil {
		v.log.Warn("texture unavailable, using flat colour", zap.String("path", path), zap.Error(err))
		v.badTextures[path] = true
		return 0
	}
	return id
}

// Run runs the frame loop until the window closes, a quit key is pressed
// or ctx is canceled.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		if err := ctx.Err(); err != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		// 2. Pick up a reloaded or newly opened scene
		v.pollScene()
		v.openPending(ctx)

		// 3. Update
		if err := v.state.Step(ctx, dt); err != nil {
			if ctx.Err() != nil {
				break
			}
			return fmt.Errorf("update error: %w", err)
		}

		// 4. Render
		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		// 5. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Sugar.Debugf("fps=%d dt=%.2fms t=%.2fs", frameCount, float64(dt.Microseconds())/1000, v.state.Clock.Seconds())
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventQuit:
		v.running = false
	case input.EventWindowResize:
		fbWidth, fbHeight := v.window.DrawableSize()
		v.renderer.Resize(fbWidth, fbHeight)
		v.state.Camera.SetViewport(fbWidth, fbHeight)
	case input.EventAction:
		v.log.Debug("action", zap.Stringer("action", event.Action))
		switch v.state.Apply(event.Action) {
		case CommandQuit:
			v.running = false
		case CommandWireframe:
			v.renderer.SetWireframe(true)
		case CommandFill:
			v.renderer.SetWireframe(false)
		case CommandScreenshot:
			v.wantScreenshot = true
		case CommandOpenScene:
			v.openSceneDialog()
		}
	}
}

func (v *Viewer) pollScene() {
	if v.watcher == nil {
		return
	}
	select {
	case sc := <-v.watcher.Updates():
		v.swapScene(sc)
	default:
	}
}

func (v *Viewer) swapScene(sc *scene.Scene) {
	if v.state.SwapScene(sc) {
		if err := v.uploadMesh(); err != nil {
			v.log.Error("regenerating sphere failed", zap.Error(err))
		}
	}
	clear(v.badTextures)
	v.log.Info("scene swapped", zap.String("path", sc.Path), zap.Int("bodies", sc.System.Len()))
}

func (v *Viewer) render() error {
	v.renderer.Begin()

	v.drawList = v.state.DrawList(v.drawList, v.texture)
	if err := v.renderer.Draw(v.state.Camera, v.state.LightPosition(), v.drawList); err != nil {
		return err
	}

	if v.wantScreenshot {
		v.wantScreenshot = false
		pixels, w, h := v.renderer.ReadPixels()
		path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
		if err != nil {
			v.log.Warn("screenshot failed", zap.Error(err))
		} else {
			v.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	return nil
}

// Close releases the watcher, renderer and window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.watcher != nil {
		if err := v.watcher.Close(); err != nil {
			v.log.Warn("closing scene watcher", zap.Error(err))
		}
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
