package orbit

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/orrery/pkg/math"
)

// Validation errors returned by NewSystem.
var (
	ErrInvalidBody   = errors.New("invalid body")
	ErrUnknownParent = errors.New("unknown parent")
	ErrCycle         = errors.New("parent cycle")
)

const noParent = -1

// System is an immutable, validated, flat list of bodies. Parent names are
// resolved to indices once, at construction.
type System struct {
	bodies  []Body
	parents []int
	index   map[string]int
	depth   []int
}

// NewSystem validates bodies and returns a System holding a copy of them.
// Names must be unique, scales positive, radii non-negative, every number
// finite, every parent name known and the parent graph acyclic.
func NewSystem(bodies []Body) (*System, error) {
	s := &System{
		bodies:  make([]Body, len(bodies)),
		parents: make([]int, len(bodies)),
		index:   make(map[string]int, len(bodies)),
		depth:   make([]int, len(bodies)),
	}
	copy(s.bodies, bodies)

	for i, b := range s.bodies {
		if err := validateBody(b); err != nil {
			return nil, err
		}
		if _, dup := s.index[b.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidBody, b.Name)
		}
		s.index[b.Name] = i
	}

	for i, b := range s.bodies {
		s.parents[i] = noParent
		if b.Parent == "" {
			continue
		}
		p, ok := s.index[b.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: body %q orbits %q", ErrUnknownParent, b.Name, b.Parent)
		}
		s.parents[i] = p
	}

	for i := range s.bodies {
		d, err := s.chainDepth(i)
		if err != nil {
			return nil, err
		}
		s.depth[i] = d
	}

	return s, nil
}

func validateBody(b Body) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidBody)
	case !math.IsFinite(b.OrbitRadius) || !math.IsFinite(b.OrbitSpeed) || !math.IsFinite(b.OrbitPhase) ||
		!math.IsFinite(b.SpinSpeed) || !math.IsFinite(b.AxialTilt) || !math.IsFinite(b.Scale):
		return fmt.Errorf("%w: body %q has a non-finite parameter", ErrInvalidBody, b.Name)
	case b.OrbitRadius < 0:
		return fmt.Errorf("%w: body %q has negative orbit radius %g", ErrInvalidBody, b.Name, b.OrbitRadius)
	case b.Scale <= 0:
		return fmt.Errorf("%w: body %q has non-positive scale %g", ErrInvalidBody, b.Name, b.Scale)
	}
	return nil
}

// chainDepth walks the parent chain of body i. A chain longer than the
// number of bodies must revisit one of them.
func (s *System) chainDepth(i int) (int, error) {
	depth := 0
	for p := s.parents[i]; p != noParent; p = s.parents[p] {
		depth++
		if p == i || depth > len(s.bodies) {
			return 0, fmt.Errorf("%w: body %q", ErrCycle, s.bodies[i].Name)
		}
	}
	return depth, nil
}

// Len returns the number of bodies.
func (s *System) Len() int {
	return len(s.bodies)
}

// Body returns body i.
func (s *System) Body(i int) Body {
	return s.bodies[i]
}

// Bodies returns a copy of all bodies in order.
func (s *System) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Lookup returns the index of the named body.
func (s *System) Lookup(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Parent returns the index of the body i orbits, or false if it orbits the origin.
func (s *System) Parent(i int) (int, bool) {
	p := s.parents[i]
	return p, p != noParent
}

// Depth returns how many ancestors body i has (0 for bodies orbiting the origin).
func (s *System) Depth(i int) int {
	return s.depth[i]
}

// OrbitCenter returns the point body i orbits at time t: the sum of the
// orbit offsets of its ancestors.
func (s *System) OrbitCenter(i int, t float32) math.Vec3 {
	var c math.Vec3
	for p := s.parents[i]; p != noParent; p = s.parents[p] {
		c = c.Add(s.bodies[p].OrbitOffset(t))
	}
	return c
}

// Transform returns the model-to-world transform of body i at time t.
func (s *System) Transform(i int, t float32) math.Mat4 {
	local := ComputeTransform(s.bodies[i], t)
	if s.parents[i] == noParent {
		return local
	}
	return math.TranslateVec3(s.OrbitCenter(i, t)).Mul(local)
}

// Position returns the world-space center of body i at time t.
func (s *System) Position(i int, t float32) math.Vec3 {
	return s.OrbitCenter(i, t).Add(s.bodies[i].OrbitOffset(t))
}

// Transforms writes the transform of every body at time t into dst, growing
// it if needed, and returns the slice. dst[i] belongs to body i.
func (s *System) Transforms(t float32, dst []math.Mat4) []math.Mat4 {
	dst = grow(dst, len(s.bodies))
	for i := range s.bodies {
		dst[i] = s.Transform(i, t)
	}
	return dst
}

// TransformsParallel is Transforms evaluated by up to workers goroutines.
// Each goroutine writes only its own slot of dst.
func (s *System) TransformsParallel(ctx context.Context, t float32, dst []math.Mat4, workers int) ([]math.Mat4, error) {
	dst = grow(dst, len(s.bodies))
	if workers <= 1 {
		return s.Transforms(t, dst), nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range s.bodies {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst[i] = s.Transform(i, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dst, fmt.Errorf("computing transforms: %w", err)
	}
	return dst, nil
}

func grow(dst []math.Mat4, n int) []math.Mat4 {
	if cap(dst) < n {
		return make([]math.Mat4, n)
	}
	return dst[:n]
}
