// Package camera provides the perspective camera the viewer renders through.
package camera

import (
	"errors"
	"fmt"

	"github.com/Faultbox/orrery/pkg/math"
)

// ErrInvalidCamera is returned when camera parameters cannot produce a projection.
var ErrInvalidCamera = errors.New("invalid camera")

// Camera is a look-at camera with a perspective projection.
// It is owned by the frame loop and passed explicitly to the renderer.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3

	FOV    float32 // vertical, degrees
	Aspect float32 // width / height
	Near   float32
	Far    float32

	// MoveStep is the distance Forward/Back moves the camera along Z.
	MoveStep float32
}

// New creates a camera looking from position at target with +Y up.
func New(position, target math.Vec3, fov, near, far float32) (*Camera, error) {
	c := &Camera{
		Position: position,
		Target:   target,
		Up:       math.Up,
		FOV:      fov,
		Aspect:   1,
		Near:     near,
		Far:      far,
		MoveStep: 0.1,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the projection parameters are usable.
func (c *Camera) Validate() error {
	if c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("%w: fov %g outside (0, 180)", ErrInvalidCamera, c.FOV)
	}
	if c.Aspect <= 0 || !math.IsFinite(c.Aspect) {
		return fmt.Errorf("%w: aspect %g", ErrInvalidCamera, c.Aspect)
	}
	if c.Near <= 0 || c.Near >= c.Far {
		return fmt.Errorf("%w: need 0 < near (%g) < far (%g)", ErrInvalidCamera, c.Near, c.Far)
	}
	if c.Position.Distance(c.Target) == 0 {
		return fmt.Errorf("%w: position equals target", ErrInvalidCamera)
	}
	return nil
}

// SetViewport updates the aspect ratio from a framebuffer size.
// Zero-sized viewports (minimized windows) are ignored.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(math.Radians(c.FOV), c.Aspect, c.Near, c.Far)
}

// MoveZ shifts the camera position along the world Z axis.
// The camera keeps looking at its target. Moves that would put the
// camera on top of the target are dropped.
func (c *Camera) MoveZ(dz float32) {
	next := c.Position
	next.Z += dz
	if next.Distance(c.Target) < 1e-4 {
		return
	}
	c.Position = next
}

// Forward moves the camera one step toward -Z.
func (c *Camera) Forward() { c.MoveZ(-c.MoveStep) }

// Back moves the camera one step toward +Z.
func (c *Camera) Back() { c.MoveZ(c.MoveStep) }
