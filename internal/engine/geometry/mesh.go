// Package geometry builds procedural meshes for the renderer.
package geometry

import (
	"slices"

	"github.com/Faultbox/orrery/pkg/math"
)

// Vertex is the interleaved GPU layout: position, normal, texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = 8 * 4

// Mesh is an immutable triangle mesh. Positions, normals and texture
// coordinates are index-aligned; Indices holds triangles as groups of three.
type Mesh struct {
	positions []math.Vec3
	normals   []math.Vec3
	texCoords []math.Vec2
	indices   []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.indices) / 3
}

// Positions returns a copy of the vertex positions.
func (m *Mesh) Positions() []math.Vec3 {
	return slices.Clone(m.positions)
}

// Normals returns a copy of the vertex normals.
func (m *Mesh) Normals() []math.Vec3 {
	return slices.Clone(m.normals)
}

// TexCoords returns a copy of the texture coordinates.
func (m *Mesh) TexCoords() []math.Vec2 {
	return slices.Clone(m.texCoords)
}

// Indices returns a copy of the triangle index list.
func (m *Mesh) Indices() []uint32 {
	return slices.Clone(m.indices)
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.indices[3*i], m.indices[3*i+1], m.indices[3*i+2]}
}

// Interleaved packs the vertex attributes into the layout uploaded to the GPU.
func (m *Mesh) Interleaved() []Vertex {
	out := make([]Vertex, len(m.positions))
	for i := range m.positions {
		out[i] = Vertex{
			Position: m.positions[i].Array(),
			Normal:   m.normals[i].Array(),
			TexCoord: m.texCoords[i].Array(),
		}
	}
	return out
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.positions) == 0 {
		return lo, hi
	}
	lo, hi = m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
