package orbit

import (
	"context"
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/orrery/pkg/math"
)

const tol = 1e-4

func sunEarthMoon(t *testing.T) *System {
	t.Helper()
	s, err := NewSystem([]Body{
		{Name: "sun", Scale: 1},
		{Name: "earth", OrbitRadius: 10, OrbitSpeed: 0.5, SpinSpeed: 1, AxialTilt: math.Radians(23.5), Scale: 0.5},
		{Name: "moon", OrbitRadius: 2, OrbitSpeed: 2, SpinSpeed: 2, Scale: 0.25, Parent: "earth"},
	})
	require.NoError(t, err)
	return s
}

func TestComputeTransformPureScaleAtRest(t *testing.T) {
	b := Body{Name: "star", Scale: 2.5, AxialTilt: 0.4}

	got := ComputeTransform(b, 0)
	assert.True(t, got.ApproxEqual(math.UniformScale(2.5), 1e-6), "got %v", got)
}

func TestComputeTransformStaticBody(t *testing.T) {
	b := Body{Name: "star", Scale: 1}

	// Zero speeds keep the body fixed at every instant.
	for _, ts := range []float32{0, 1, 100, -7} {
		assert.True(t, ComputeTransform(b, ts).ApproxEqual(math.Identity(), 1e-6), "t=%v", ts)
	}
}

func TestOrbitScenario(t *testing.T) {
	b := Body{Name: "planet", OrbitRadius: 10, OrbitSpeed: 0.5, Scale: 1}

	p := ComputeTransform(b, 0).Translation()
	assert.InDelta(t, 10, p.X, tol)
	assert.InDelta(t, 0, p.Z, tol)

	// Orbit angle pi is reached at t = pi/omega.
	p = ComputeTransform(b, 2*gomath.Pi).Translation()
	assert.InDelta(t, -10, p.X, tol)
	assert.InDelta(t, 0, p.Z, tol)

	// A quarter turn later the planet sits on +Z.
	p = ComputeTransform(b, gomath.Pi).Translation()
	assert.InDelta(t, 0, p.X, tol)
	assert.InDelta(t, 10, p.Z, tol)
	assert.Zero(t, p.Y)
}

func TestOrbitNegativeSpeedReverses(t *testing.T) {
	fwd := Body{Name: "a", OrbitRadius: 5, OrbitSpeed: 1, Scale: 1}
	rev := Body{Name: "b", OrbitRadius: 5, OrbitSpeed: -1, Scale: 1}

	pf := fwd.OrbitOffset(0.5)
	pr := rev.OrbitOffset(0.5)
	assert.InDelta(t, pf.X, pr.X, tol)
	assert.InDelta(t, -pf.Z, pr.Z, tol)
}

func TestOrbitPhase(t *testing.T) {
	b := Body{Name: "a", OrbitRadius: 3, OrbitSpeed: 1, OrbitPhase: gomath.Pi / 2, Scale: 1}

	p := b.OrbitOffset(0)
	assert.InDelta(t, 0, p.X, tol)
	assert.InDelta(t, 3, p.Z, tol)
}

func TestOrbitPeriodic(t *testing.T) {
	tests := []struct {
		name  string
		speed float32
	}{
		{"slow", 0.5},
		{"fast", 3},
		{"retrograde", -1.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Body{Name: "p", OrbitRadius: 10, OrbitSpeed: tt.speed, SpinSpeed: 0.7, Scale: 1}
			period := 2 * gomath.Pi / gomath.Abs(float64(tt.speed))

			for _, ts := range []float32{0, 0.3, 1.7, 4} {
				a := ComputeTransform(b, ts).Translation()
				c := ComputeTransform(b, ts+float32(period)).Translation()
				assert.True(t, a.ApproxEqual(c, 1e-3), "t=%v: %v vs %v", ts, a, c)
			}
		})
	}
}

func TestOrbitRadiusPreserved(t *testing.T) {
	b := Body{Name: "p", OrbitRadius: 7, OrbitSpeed: 0.9, Scale: 1}
	for _, ts := range []float32{0, 0.5, 2, 11} {
		assert.InDelta(t, 7, b.OrbitOffset(ts).Length(), tol)
	}
}

func TestSpinAxisTilt(t *testing.T) {
	b := Body{Name: "p", AxialTilt: math.Radians(90), SpinSpeed: 1, Scale: 1}
	assert.True(t, b.SpinAxis().ApproxEqual(math.Vec3{X: 1}, 1e-6), "axis %v", b.SpinAxis())

	b.AxialTilt = 0
	assert.Equal(t, math.Up, b.SpinAxis())
}

// The spin axis is the one direction the self-rotation leaves unchanged.
func TestSelfRotationKeepsAxis(t *testing.T) {
	b := Body{Name: "p", AxialTilt: 0.41, SpinSpeed: 1.3, Scale: 1}
	axis := b.SpinAxis()
	for _, ts := range []float32{0.2, 1, 5} {
		got := b.SelfRotation(ts).TransformDirection(axis)
		assert.True(t, got.ApproxEqual(axis, 1e-5), "t=%v: %v", ts, got)
	}
}

func TestComputeTransformAgainstMathGL(t *testing.T) {
	b := Body{Name: "p", OrbitRadius: 4, OrbitSpeed: 0.8, OrbitPhase: 0.2, SpinSpeed: 1.7, AxialTilt: 0.3, Scale: 0.6}

	for _, ts := range []float32{0, 0.75, 3.2} {
		angle := float64(b.OrbitSpeed*ts + b.OrbitPhase)
		axis := mgl32.Vec3{float32(gomath.Sin(0.3)), float32(gomath.Cos(0.3)), 0}
		want := mgl32.Translate3D(4*float32(gomath.Cos(angle)), 0, 4*float32(gomath.Sin(angle))).
			Mul4(mgl32.HomogRotate3D(b.SpinSpeed*ts, axis)).
			Mul4(mgl32.Scale3D(0.6, 0.6, 0.6))

		got := ComputeTransform(b, ts)
		assert.True(t, got.ApproxEqual(math.Mat4(want), tol), "t=%v:\n got %v\nwant %v", ts, got, want)
	}
}

func TestSatelliteDecomposes(t *testing.T) {
	s := sunEarthMoon(t)
	earth, _ := s.Lookup("earth")
	moon, _ := s.Lookup("moon")

	for _, ts := range []float32{0, 0.4, 1.9, 12} {
		world := s.Transform(moon, ts).Translation()
		parentOrbit := s.Body(earth).OrbitTranslation(ts).Translation()
		local := s.Body(moon).OrbitOffset(ts)

		assert.True(t, world.Sub(parentOrbit).ApproxEqual(local, tol), "t=%v: %v - %v != %v", ts, world, parentOrbit, local)
		assert.True(t, world.ApproxEqual(s.Position(moon, ts), tol))
	}
}

func TestSatelliteIgnoresParentSpinAndScale(t *testing.T) {
	s := sunEarthMoon(t)
	moon, _ := s.Lookup("moon")
	body := s.Body(moon)

	const ts = 1.1
	got := s.Transform(moon, ts)
	want := math.TranslateVec3(s.OrbitCenter(moon, ts)).
		Mul(body.OrbitTranslation(ts)).
		Mul(body.SelfRotation(ts)).
		Mul(body.ScaleMatrix())
	assert.True(t, got.ApproxEqual(want, 1e-5))

	// The rotational part equals the moon's own spin and scale only.
	local := body.SelfRotation(ts).Mul(body.ScaleMatrix())
	for _, i := range []int{0, 1, 2, 4, 5, 6, 8, 9, 10} {
		assert.InDelta(t, local[i], got[i], 1e-6, "element %d", i)
	}
}

func TestDeepHierarchy(t *testing.T) {
	s, err := NewSystem([]Body{
		{Name: "station", OrbitRadius: 0.5, OrbitSpeed: 4, Scale: 0.1, Parent: "moon"},
		{Name: "moon", OrbitRadius: 2, OrbitSpeed: 2, Scale: 0.25, Parent: "earth"},
		{Name: "earth", OrbitRadius: 10, OrbitSpeed: 0.5, Scale: 0.5},
	})
	require.NoError(t, err)

	station, _ := s.Lookup("station")
	assert.Equal(t, 2, s.Depth(station))

	const ts = 0.8
	want := s.Body(2).OrbitOffset(ts).Add(s.Body(1).OrbitOffset(ts)).Add(s.Body(0).OrbitOffset(ts))
	assert.True(t, s.Position(station, ts).ApproxEqual(want, tol))
	assert.True(t, s.Transform(station, ts).Translation().ApproxEqual(want, tol))
}

func TestNewSystemValidation(t *testing.T) {
	nan := float32(gomath.NaN())
	tests := []struct {
		name   string
		bodies []Body
		want   error
	}{
		{"empty name", []Body{{Scale: 1}}, ErrInvalidBody},
		{"zero scale", []Body{{Name: "a"}}, ErrInvalidBody},
		{"negative radius", []Body{{Name: "a", Scale: 1, OrbitRadius: -1}}, ErrInvalidBody},
		{"nan speed", []Body{{Name: "a", Scale: 1, OrbitSpeed: nan}}, ErrInvalidBody},
		{"duplicate", []Body{{Name: "a", Scale: 1}, {Name: "a", Scale: 1}}, ErrInvalidBody},
		{"unknown parent", []Body{{Name: "a", Scale: 1, Parent: "b"}}, ErrUnknownParent},
		{"self parent", []Body{{Name: "a", Scale: 1, Parent: "a"}}, ErrCycle},
		{"two cycle", []Body{{Name: "a", Scale: 1, Parent: "b"}, {Name: "b", Scale: 1, Parent: "a"}}, ErrCycle},
		{"cycle behind", []Body{
			{Name: "x", Scale: 1, Parent: "a"},
			{Name: "a", Scale: 1, Parent: "b"},
			{Name: "b", Scale: 1, Parent: "a"},
		}, ErrCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSystem(tt.bodies)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewSystemCopiesInput(t *testing.T) {
	bodies := []Body{{Name: "a", Scale: 1}}
	s, err := NewSystem(bodies)
	require.NoError(t, err)

	bodies[0].Scale = 5
	assert.Equal(t, float32(1), s.Body(0).Scale)

	_, ok := s.Parent(0)
	assert.False(t, ok)
}

func TestTransformsReusesBuffer(t *testing.T) {
	s := sunEarthMoon(t)

	buf := make([]math.Mat4, 0, 8)
	out := s.Transforms(1.5, buf)
	require.Len(t, out, 3)
	assert.Same(t, &buf[:1][0], &out[0], "should reuse caller capacity")

	for i := range out {
		assert.Equal(t, s.Transform(i, 1.5), out[i])
	}
}

func TestTransformsParallelMatchesSequential(t *testing.T) {
	bodies := []Body{{Name: "sun", Scale: 1}}
	for i := 0; i < 40; i++ {
		bodies = append(bodies, Body{
			Name:        string(rune('A'+i%26)) + string(rune('a'+i/26)),
			OrbitRadius: float32(i + 1),
			OrbitSpeed:  0.1 * float32(i%7-3),
			SpinSpeed:   float32(i%5) * 0.3,
			AxialTilt:   float32(i) * 0.01,
			Scale:       0.2,
			Parent:      "sun",
		})
	}
	s, err := NewSystem(bodies)
	require.NoError(t, err)

	want := s.Transforms(3.3, nil)
	got, err := s.TransformsParallel(context.Background(), 3.3, nil, 4)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	single, err := s.TransformsParallel(context.Background(), 3.3, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, want, single)
}

func TestTransformsParallelCanceled(t *testing.T) {
	s := sunEarthMoon(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.TransformsParallel(ctx, 0, nil, 2)
	assert.ErrorIs(t, err, context.Canceled)
}
