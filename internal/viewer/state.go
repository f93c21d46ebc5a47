package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/clock"
	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/renderer"
	"github.com/Faultbox/orrery/internal/scene"
	"github.com/Faultbox/orrery/pkg/math"
)

// Command is a side effect of an action that needs the GL layer.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandWireframe
	CommandFill
	CommandScreenshot
	CommandOpenScene
)

// State is everything the frame loop mutates that does not touch the GPU:
// the active scene, the camera, the simulation clock and the per-body
// transforms of the current frame.
type State struct {
	Scene  *scene.Scene
	Camera *camera.Camera
	Clock  *clock.Clock

	workers    int
	resolution int // configured default, used when the scene sets none
	transforms []math.Mat4
}

// NewState builds the frame state from config and the initial scene. The
// scene's camera override is applied on top of the configured camera.
func NewState(cfg *config.Config, sc *scene.Scene) (*State, error) {
	camCfg := cfg.Camera
	sc.Camera.ApplyTo(&camCfg)

	cam, err := camera.New(vec3(camCfg.Position), vec3(camCfg.Target), camCfg.FOV, camCfg.Near, camCfg.Far)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	if camCfg.MoveStep > 0 {
		cam.MoveStep = camCfg.MoveStep
	}
	cam.SetViewport(cfg.Graphics.Width, cfg.Graphics.Height)

	return &State{
		Scene:      sc,
		Camera:     cam,
		Clock:      clock.New(cfg.Simulation.TimeScale, cfg.Simulation.Paused),
		workers:    max(cfg.Simulation.Workers, 1),
		resolution: cfg.Simulation.SphereResolution,
	}, nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Resolution returns the sphere resolution the active scene needs.
func (s *State) Resolution() int {
	if s.Scene.Resolution > 0 {
		return s.Scene.Resolution
	}
	return s.resolution
}

// Step advances the clock by dt and recomputes every body transform.
func (s *State) Step(ctx context.Context, dt time.Duration) error {
	s.Clock.Advance(dt)
	t := s.Clock.Now()

	if s.workers > 1 {
		out, err := s.Scene.System.TransformsParallel(ctx, t, s.transforms, s.workers)
		if err != nil {
			return err
		}
		s.transforms = out
		return nil
	}
	s.transforms = s.Scene.System.Transforms(t, s.transforms)
	return nil
}

// Transforms returns the world transforms computed by the last Step.
func (s *State) Transforms() []math.Mat4 {
	return s.transforms
}

// LightPosition returns the world position of the first emissive body, or
// the origin when the scene has none.
func (s *State) LightPosition() math.Vec3 {
	for i, m := range s.Scene.Materials {
		if m.Emissive && i < len(s.transforms) {
			return s.transforms[i].Translation()
		}
	}
	return math.Vec3{}
}

// DrawList builds one draw call per body. texture maps a material's texture
// path to a GL texture, 0 meaning flat colour.
func (s *State) DrawList(dst []renderer.Body, texture func(path string) uint32) []renderer.Body {
	dst = dst[:0]
	for i, m := range s.Scene.Materials {
		if i >= len(s.transforms) {
			break
		}
		var tex uint32
		if m.Texture != "" {
			tex = texture(m.Texture)
		}
		dst = append(dst, renderer.Body{
			Model:    s.transforms[i],
			Color:    m.Color,
			Emissive: m.Emissive,
			Texture:  tex,
		})
	}
	return dst
}

// Apply performs the state part of an action and returns what is left for
// the GL layer to do.
func (s *State) Apply(a input.Action) Command {
	switch a {
	case input.ActionQuit:
		return CommandQuit
	case input.ActionWireframe:
		return CommandWireframe
	case input.ActionFill:
		return CommandFill
	case input.ActionScreenshot:
		return CommandScreenshot
	case input.ActionOpenScene:
		return CommandOpenScene
	case input.ActionCameraForward:
		s.Camera.Forward()
	case input.ActionCameraBack:
		s.Camera.Back()
	case input.ActionTogglePause:
		s.Clock.TogglePause()
	case input.ActionFaster:
		s.Clock.Faster()
	case input.ActionSlower:
		s.Clock.Slower()
	case input.ActionResetTime:
		s.Clock.Reset()
	}
	return CommandNone
}

// SwapScene replaces the active scene and reports whether the sphere mesh
// must be regenerated. The camera is kept so a reload does not jump the view.
func (s *State) SwapScene(sc *scene.Scene) bool {
	before := s.Resolution()
	s.Scene = sc
	s.transforms = s.transforms[:0]
	return s.Resolution() != before
}
