// Package scene loads scene definitions: the bodies of a solar system, their
// materials and an optional camera override. Scenes are read from YAML or TOML
// files, or taken from the built-in sun/earth/moon default.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/orrery/internal/config"
	"github.com/Faultbox/orrery/internal/engine/orbit"
	"github.com/Faultbox/orrery/pkg/math"
)

// ErrUnsupportedFormat is returned for scene files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported scene format")

// Format identifies a scene file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// File is the on-disk layout of a scene.
type File struct {
	// Resolution overrides the configured sphere tessellation when > 0.
	Resolution int         `yaml:"resolution" toml:"resolution"`
	Camera     *CameraSpec `yaml:"camera" toml:"camera"`
	Bodies     []BodySpec  `yaml:"bodies" toml:"bodies"`
}

// CameraSpec overrides parts of the configured camera. Nil fields keep the
// configured value.
type CameraSpec struct {
	Position *[3]float32 `yaml:"position" toml:"position"`
	Target   *[3]float32 `yaml:"target" toml:"target"`
	FOV      *float32    `yaml:"fov" toml:"fov"`
	Near     *float32    `yaml:"near" toml:"near"`
	Far      *float32    `yaml:"far" toml:"far"`
}

// BodySpec describes one body. Angles are in degrees, speeds in rad/s.
type BodySpec struct {
	Name        string      `yaml:"name" toml:"name"`
	Parent      string      `yaml:"parent" toml:"parent"`
	OrbitRadius float32     `yaml:"orbit_radius" toml:"orbit_radius"`
	OrbitSpeed  float32     `yaml:"orbit_speed" toml:"orbit_speed"`
	OrbitPhase  float32     `yaml:"orbit_phase_deg" toml:"orbit_phase_deg"`
	SpinSpeed   float32     `yaml:"spin_speed" toml:"spin_speed"`
	AxialTilt   float32     `yaml:"axial_tilt_deg" toml:"axial_tilt_deg"`
	Scale       float32     `yaml:"scale" toml:"scale"` // 0 means 1
	Texture     string      `yaml:"texture" toml:"texture"`
	Color       *[3]float32 `yaml:"color" toml:"color"`
	Emissive    bool        `yaml:"emissive" toml:"emissive"`
}

// Material is how a body is drawn.
type Material struct {
	Texture  string // resolved path, empty for flat colour
	Color    math.Vec3
	Emissive bool
}

// Scene is a validated scene ready for the frame loop.
type Scene struct {
	Path       string // empty for the built-in scene
	Resolution int
	Camera     CameraSpec
	System     *orbit.System
	Materials  []Material // index-aligned with System bodies
}

var white = math.Vec3{X: 1, Y: 1, Z: 1}

// Load reads and validates a scene file. Relative texture paths are resolved
// against the file's directory.
func Load(path string) (*Scene, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	s, err := Build(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Decode parses scene data. Unknown keys are rejected so typos surface early.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return &f, nil
}

// Build validates f and converts it into a Scene. baseDir is prepended to
// relative texture paths.
func Build(f *File, baseDir string) (*Scene, error) {
	if len(f.Bodies) == 0 {
		return nil, fmt.Errorf("%w: scene has no bodies", orbit.ErrInvalidBody)
	}
	if f.Resolution < 0 {
		return nil, fmt.Errorf("resolution %d must not be negative", f.Resolution)
	}

	bodies := make([]orbit.Body, len(f.Bodies))
	materials := make([]Material, len(f.Bodies))
	for i, bs := range f.Bodies {
		bodies[i] = bs.body()
		materials[i] = bs.material(baseDir)
	}

	sys, err := orbit.NewSystem(bodies)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Resolution: f.Resolution,
		System:     sys,
		Materials:  materials,
	}
	if f.Camera != nil {
		s.Camera = *f.Camera
	}
	return s, nil
}

func (b BodySpec) body() orbit.Body {
	scale := b.Scale
	if scale == 0 {
		scale = 1
	}
	return orbit.Body{
		Name:        b.Name,
		Parent:      b.Parent,
		OrbitRadius: b.OrbitRadius,
		OrbitSpeed:  b.OrbitSpeed,
		OrbitPhase:  math.Radians(b.OrbitPhase),
		SpinSpeed:   b.SpinSpeed,
		AxialTilt:   math.Radians(b.AxialTilt),
		Scale:       scale,
	}
}

func (b BodySpec) material(baseDir string) Material {
	m := Material{Color: white, Emissive: b.Emissive}
	if b.Color != nil {
		m.Color = math.Vec3{X: b.Color[0], Y: b.Color[1], Z: b.Color[2]}
	}
	if b.Texture != "" {
		m.Texture = b.Texture
		if !filepath.IsAbs(m.Texture) && baseDir != "" {
			m.Texture = filepath.Join(baseDir, m.Texture)
		}
	}
	return m
}

// Default returns the built-in scene: an emissive sun, an earth on a
// radius-10 orbit and a moon circling the earth.
func Default() *Scene {
	yellow := [3]float32{1, 1, 0}
	f := &File{
		Bodies: []BodySpec{
			{Name: "sun", Scale: 1, Color: &yellow, Emissive: true},
			{
				Name:        "earth",
				OrbitRadius: 10,
				OrbitSpeed:  0.5,
				SpinSpeed:   1,
				AxialTilt:   23.5,
				Scale:       0.5,
				Texture:     "media/earth.jpg",
			},
			{
				Name:        "moon",
				Parent:      "earth",
				OrbitRadius: 2,
				OrbitSpeed:  2,
				SpinSpeed:   2,
				Scale:       0.25,
				Texture:     "media/moon.jpg",
			},
		},
	}
	s, err := Build(f, "")
	if err != nil {
		panic(fmt.Sprintf("scene: built-in default is invalid: %v", err))
	}
	return s
}

// ApplyTo copies the fields set in c onto cfg.
func (c CameraSpec) ApplyTo(cfg *config.CameraConfig) {
	if c.Position != nil {
		cfg.Position = *c.Position
	}
	if c.Target != nil {
		cfg.Target = *c.Target
	}
	if c.FOV != nil {
		cfg.FOV = *c.FOV
	}
	if c.Near != nil {
		cfg.Near = *c.Near
	}
	if c.Far != nil {
		cfg.Far = *c.Far
	}
}
