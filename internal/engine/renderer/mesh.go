package renderer

import (
	"errors"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/orrery/internal/engine/geometry"
)

// attribute describes one float vertex attribute inside geometry.Vertex.
type attribute struct {
	location   uint32
	components int32
	offset     uintptr
}

// vertexLayout matches the layout qualifiers in planet.vert.
var vertexLayout = []attribute{
	{location: 0, components: 3, offset: unsafe.Offsetof(geometry.Vertex{}.Position)},
	{location: 1, components: 3, offset: unsafe.Offsetof(geometry.Vertex{}.Normal)},
	{location: 2, components: 2, offset: unsafe.Offsetof(geometry.Vertex{}.TexCoord)},
}

// MeshBuffer holds a mesh uploaded to the GPU: one interleaved VBO and an IBO.
type MeshBuffer struct {
	vao, vbo, ibo uint32
	indexCount    int32
}

// UploadMesh copies m into GPU buffers.
func UploadMesh(m *geometry.Mesh) (*MeshBuffer, error) {
	vertices := m.Interleaved()
	indices := m.Indices()
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("renderer: empty mesh")
	}

	buf := &MeshBuffer{indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &buf.vao)
	gl.BindVertexArray(buf.vao)

	gl.GenBuffers(1, &buf.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*geometry.VertexStride, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	for _, a := range vertexLayout {
		gl.VertexAttribPointerWithOffset(a.location, a.components, gl.FLOAT, false, geometry.VertexStride, a.offset)
		gl.EnableVertexAttribArray(a.location)
	}

	gl.GenBuffers(1, &buf.ibo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ibo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// The element buffer binding is VAO state; unbind the VAO first
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)

	return buf, nil
}

// Bind makes the buffer's vertex array current.
func (b *MeshBuffer) Bind() {
	gl.BindVertexArray(b.vao)
}

// Unbind clears the current vertex array.
func (b *MeshBuffer) Unbind() {
	gl.BindVertexArray(0)
}

// Draw issues the indexed draw call. The buffer must be bound.
func (b *MeshBuffer) Draw() {
	gl.DrawElements(gl.TRIANGLES, b.indexCount, gl.UNSIGNED_INT, nil)
}

// Delete releases the GPU buffers.
func (b *MeshBuffer) Delete() {
	gl.DeleteBuffers(1, &b.ibo)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	*b = MeshBuffer{}
}
