// Package renderer draws scene bodies with OpenGL.
package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/orrery/internal/engine/camera"
	"github.com/Faultbox/orrery/internal/engine/geometry"
	"github.com/Faultbox/orrery/internal/engine/renderer/shaders"
	"github.com/Faultbox/orrery/internal/engine/shader"
	"github.com/Faultbox/orrery/internal/engine/texture"
	"github.com/Faultbox/orrery/internal/logger"
	"github.com/Faultbox/orrery/pkg/math"
)

// Uniform names used by the body program.
const (
	uniformModel       = "modelMatrix"
	uniformNormal      = "normalMatrix"
	uniformView        = "viewMat"
	uniformProjection  = "projMat"
	uniformCamPosition = "camPosition"
	uniformLight       = "lightPosition"
	uniformColor       = "objectColor"
	uniformIsSun       = "isSun"
	uniformHasTexture  = "hasTexture"
	uniformAlbedo      = "material.albedoTex"
)

// requiredUniforms must be active in the linked program.
var requiredUniforms = []string{
	uniformModel, uniformView, uniformProjection, uniformIsSun, uniformColor, uniformAlbedo,
}

// ErrNoMesh is returned by Draw before a mesh has been uploaded.
var ErrNoMesh = errors.New("renderer: no mesh uploaded")

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [3]float32
	Wireframe  bool
}

// Body is one draw call.
type Body struct {
	Model    math.Mat4
	Color    math.Vec3
	Emissive bool
	Texture  uint32 // 0 draws the flat colour
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config  Config
	program *shader.Program
	mesh    *MeshBuffer

	textures map[string]uint32
	log      *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:   cfg,
		textures: make(map[string]uint32),
		log:      logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.CULL_FACE)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1.0)

	program, err := shader.New(shaders.PlanetVertexShader, shaders.PlanetFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	if missing := program.Missing(requiredUniforms...); len(missing) > 0 {
		program.Delete()
		return nil, fmt.Errorf("shader program lacks uniforms %v", missing)
	}
	r.program = program
	r.log.Debug("shader program created", zap.Uint32("program", program.ID))

	r.SetWireframe(cfg.Wireframe)
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	if r.mesh != nil {
		r.mesh.Delete()
		r.mesh = nil
	}
	for path, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, path)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// SetMesh uploads the shared body mesh, replacing any previous one.
func (r *Renderer) SetMesh(m *geometry.Mesh) error {
	buf, err := UploadMesh(m)
	if err != nil {
		return err
	}
	if r.mesh != nil {
		r.mesh.Delete()
	}
	r.mesh = buf
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return nil
}

// Texture returns the GL texture for an image file, loading it on first use.
func (r *Renderer) Texture(path string) (uint32, error) {
	if id, ok := r.textures[path]; ok {
		return id, nil
	}
	img, err := texture.Load(path)
	if err != nil {
		return 0, err
	}
	id := uploadTexture(img)
	r.textures[path] = id
	r.log.Debug("texture loaded", zap.String("path", path), zap.Uint32("id", id))
	return id, nil
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

// SetWireframe switches between line and filled polygon mode.
func (r *Renderer) SetWireframe(on bool) {
	r.config.Wireframe = on
	if on {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
}

// Wireframe reports whether polygons are drawn as lines.
func (r *Renderer) Wireframe() bool {
	return r.config.Wireframe
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current viewport size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw renders every body with the shared mesh. lightPos is the world-space
// position of the light source, usually the sun.
func (r *Renderer) Draw(cam *camera.Camera, lightPos math.Vec3, bodies []Body) error {
	if r.mesh == nil {
		return ErrNoMesh
	}

	p := r.program
	p.Use()
	p.SetMat4(uniformView, cam.ViewMatrix())
	p.SetMat4(uniformProjection, cam.ProjectionMatrix())
	p.SetVec3(uniformCamPosition, cam.Position)
	p.SetVec3(uniformLight, lightPos)
	p.SetInt(uniformAlbedo, 0)

	gl.ActiveTexture(gl.TEXTURE0)
	r.mesh.Bind()
	for i := range bodies {
		b := &bodies[i]
		p.SetMat4(uniformModel, b.Model)
		p.SetMat4(uniformNormal, b.Model.NormalMatrix())
		p.SetVec3(uniformColor, b.Color)
		p.SetBool(uniformIsSun, b.Emissive)
		p.SetBool(uniformHasTexture, b.Texture != 0)
		gl.BindTexture(gl.TEXTURE_2D, b.Texture)
		r.mesh.Draw()
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	r.mesh.Unbind()
	return nil
}

// ReadPixels returns the framebuffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}
