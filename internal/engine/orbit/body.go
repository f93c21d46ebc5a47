// Package orbit computes the world transforms of celestial bodies at a given
// simulation time.
//
// Each transform is a pure function of the body parameters and the time:
//
//	World = ParentOrbit(t) * Orbit(t) * Spin(t) * Scale
//
// Bodies orbit in the XZ plane. A satellite inherits only the orbital
// translation of its parent chain, never the parent's spin or scale.
package orbit

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/orrery/pkg/math"
)

// Body holds the static parameters of one celestial body.
type Body struct {
	Name string

	// Orbit
	OrbitRadius float32 // distance from the parent (or origin); 0 disables orbiting
	OrbitSpeed  float32 // rad/s, negative reverses direction
	OrbitPhase  float32 // starting angle on the orbit, radians

	// Spin
	SpinSpeed float32 // rad/s about the tilted axis
	AxialTilt float32 // radians, leans the spin axis from +Y toward +X

	Scale float32 // uniform, > 0

	// Parent names the body this one orbits. Empty means the origin.
	Parent string
}

// OrbitOffset returns the body's displacement from its orbit center at time t.
func (b Body) OrbitOffset(t float32) math.Vec3 {
	if b.OrbitRadius == 0 {
		return math.Vec3{}
	}
	s, c := math32.Sincos(b.OrbitSpeed*t + b.OrbitPhase)
	return math.Vec3{X: b.OrbitRadius * c, Z: b.OrbitRadius * s}
}

// OrbitTranslation returns the translation placing the body on its orbit at time t.
func (b Body) OrbitTranslation(t float32) math.Mat4 {
	return math.TranslateVec3(b.OrbitOffset(t))
}

// SpinAxis returns the unit axis the body rotates about: world-up tilted
// about Z by the axial tilt.
func (b Body) SpinAxis() math.Vec3 {
	s, c := math32.Sincos(b.AxialTilt)
	return math.Vec3{X: s, Y: c}
}

// SelfRotation returns the body's spin at time t.
func (b Body) SelfRotation(t float32) math.Mat4 {
	return math.RotateAxis(b.SpinAxis(), b.SpinSpeed*t)
}

// ScaleMatrix returns the body's uniform scale.
func (b Body) ScaleMatrix() math.Mat4 {
	return math.UniformScale(b.Scale)
}

// LocalTransform returns Orbit(t) * Spin(t) * Scale, the transform of the
// body relative to its orbit center.
func (b Body) LocalTransform(t float32) math.Mat4 {
	return b.OrbitTranslation(t).Mul(b.SelfRotation(t)).Mul(b.ScaleMatrix())
}

// ComputeTransform returns the model-to-world transform of b at simulation
// time t, treating b as orbiting the origin. System.Transform adds the
// parent chain for satellites.
func ComputeTransform(b Body, t float32) math.Mat4 {
	return b.LocalTransform(t)
}
