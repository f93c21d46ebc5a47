// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PlanetVertexShader is the vertex shader for body rendering.
//
//go:embed planet.vert
var PlanetVertexShader string

// PlanetFragmentShader is the fragment shader for body rendering.
//
//go:embed planet.frag
var PlanetFragmentShader string
