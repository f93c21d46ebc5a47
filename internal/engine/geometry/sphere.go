package geometry

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/orrery/pkg/math"
)

// ErrInvalidResolution is returned for tessellation resolutions the generator cannot build.
var ErrInvalidResolution = errors.New("invalid sphere resolution")

// MaxResolution keeps the vertex count addressable by 32-bit indices.
const MaxResolution = 1 << 15

// GenerateSphere builds a unit sphere centered at the origin with Y up.
//
// The surface is sampled on a (resolution+1)x(resolution+1) latitude/longitude
// grid: lat=0 is the north pole, lat=resolution the south pole, and the seam
// column lon=resolution duplicates lon=0 so texture coordinates wrap cleanly.
// Each grid cell yields two counter-clockwise triangles (seen from outside).
// Cells touching a pole produce one zero-area triangle; it is kept so the
// index layout stays regular.
func GenerateSphere(resolution int) (*Mesh, error) {
	if resolution < 1 || resolution > MaxResolution {
		return nil, fmt.Errorf("%w: %d", ErrInvalidResolution, resolution)
	}

	n := resolution + 1
	res := float32(resolution)

	m := &Mesh{
		positions: make([]math.Vec3, 0, n*n),
		normals:   make([]math.Vec3, 0, n*n),
		texCoords: make([]math.Vec2, 0, n*n),
		indices:   make([]uint32, 0, resolution*resolution*6),
	}

	for lat := 0; lat <= resolution; lat++ {
		theta := math32.Pi/2 - float32(lat)*math32.Pi/res
		sinTheta, cosTheta := math32.Sincos(theta)

		for lon := 0; lon <= resolution; lon++ {
			phi := float32(lon) * 2 * math32.Pi / res
			sinPhi, cosPhi := math32.Sincos(phi)

			p := math.Vec3{
				X: cosTheta * cosPhi,
				Y: sinTheta,
				Z: cosTheta * sinPhi,
			}

			// On a unit sphere the outward normal is the position itself.
			m.positions = append(m.positions, p)
			m.normals = append(m.normals, p)
			m.texCoords = append(m.texCoords, math.Vec2{
				X: float32(lon) / res,
				Y: float32(lat) / res,
			})
		}
	}

	for lat := 0; lat < resolution; lat++ {
		for lon := 0; lon < resolution; lon++ {
			a := uint32(lat*n + lon) // (lat, lon)
			b := a + uint32(n)       // (lat+1, lon)
			c := a + 1               // (lat, lon+1)
			d := b + 1               // (lat+1, lon+1)

			m.indices = append(m.indices,
				a, c, b,
				b, c, d,
			)
		}
	}

	return m, nil
}
