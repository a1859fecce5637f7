// Package globe implements a day/night Earth globe component: a UV sphere
// mesh and a shader material whose day and night textures are blended per
// pixel by a sun-direction vector derived from UTC time or a manual
// override, with city lights on the dark side and a Fresnel atmosphere rim.
//
// A Globe owns no rendering resources. It hands the host framework a mesh,
// shader source, and uniform values, and expects the host to call Advance
// once per frame. The render package in this repo is one such host; the
// viewer package wires another (ebiten).
package globe

import (
	"errors"

	"github.com/echoflaresat/earthglobe/vectors"
)

// Globe is one instance of the component. It is not safe for concurrent
// use: all mutation happens in Advance, which the host calls from its
// per-frame loop.
type Globe struct {
	opts     Options
	mesh     Mesh
	material *Material

	rotation float64 // accumulated mesh rotation about Y, radians
	sunDir   vectors.Vec3
}

// New validates opts, applies defaults and builds the mesh and material.
// The sun-direction uniform is resolved once so the globe is renderable
// before the first Advance.
func New(opts Options) (*Globe, error) {
	if opts.DayTexture == "" || opts.NightTexture == "" {
		return nil, errors.New("globe: day and night textures are required")
	}
	if opts.Size == 0 {
		opts.Size = DefaultSize
	}
	if opts.RotationSpeed == 0 {
		opts.RotationSpeed = DefaultRotationSpeed
	}
	if opts.Sun == nil {
		opts.Sun = RealTimeSun{}
	}

	g := &Globe{
		opts:     opts,
		mesh:     NewSphereMesh(opts.Size),
		material: newMaterial(opts),
	}
	g.resolveSun()
	return g, nil
}

// Advance is the per-frame update: it increments the rotation accumulator
// when auto-rotation is enabled (RotationSpeed is radians per frame, not
// per second), then recomputes the sun-direction uniform.
func (g *Globe) Advance() {
	if g.opts.AutoRotate {
		g.rotation += g.opts.RotationSpeed
	}
	g.resolveSun()
}

func (g *Globe) resolveSun() {
	g.sunDir = g.opts.Sun.direction(g.rotation)
	g.material.Uniforms.SunDirection = g.sunDir
}

// Rotation returns the accumulated mesh rotation in radians.
func (g *Globe) Rotation() float64 {
	return g.rotation
}

// SunDirection returns the current unit world-space sun vector.
func (g *Globe) SunDirection() vectors.Vec3 {
	return g.sunDir
}

// Mesh returns the sphere geometry for vertex-buffer upload by the host.
func (g *Globe) Mesh() Mesh {
	return g.mesh
}

// Material returns the shader material. The host reads Uniforms after each
// Advance.
func (g *Globe) Material() *Material {
	return g.material
}

// Options returns the configuration the globe was built with, with
// defaults applied.
func (g *Globe) Options() Options {
	return g.opts
}
