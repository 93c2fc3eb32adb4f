// Package scene orchestrates the two shadow passes: casters rendered into
// the depth map from the sun, then the overlay and solids drawn with the
// shadow test against it.
package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/urbancanopy/shadowcast/internal/caster"
	"github.com/urbancanopy/shadowcast/internal/engine/camera"
	"github.com/urbancanopy/shadowcast/internal/engine/lighting"
	"github.com/urbancanopy/shadowcast/internal/engine/scene/shaders"
	"github.com/urbancanopy/shadowcast/internal/engine/shader"
	"github.com/urbancanopy/shadowcast/internal/engine/shadow"
)

// maxShadowReachM caps how far the light frustum is padded for long evening
// shadows.
const maxShadowReachM = 500.0

// Config contains scene configuration options.
type Config struct {
	ShadowResolution int32
	ShadowOpacity    float32
	DrawSolids       bool
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return Config{
		ShadowResolution: shadow.DefaultResolution,
		ShadowOpacity:    0.45,
		DrawSolids:       true,
	}
}

// Stats summarizes one rendered frame.
type Stats struct {
	DrawCalls  int
	ShadowPass bool
	Trees      int
	Buildings  int
}

// Scene owns the shadow map, the depth program and the renderers. All
// methods must run on the render thread that owns the GL context.
type Scene struct {
	config Config

	shadowMap    *shadow.Map
	depthProgram uint32

	locDepthLightViewProj int32
	locDepthModel         int32

	solids *SolidRenderer
	ground *GroundRenderer

	light lighting.Directional
}

// New creates the scene and its GPU resources on the current context.
func New(cfg Config) (*Scene, error) {
	if cfg.ShadowOpacity <= 0 {
		cfg.ShadowOpacity = DefaultConfig().ShadowOpacity
	}
	s := &Scene{config: cfg}

	s.shadowMap = shadow.NewMap(cfg.ShadowResolution)
	if s.shadowMap == nil {
		return nil, fmt.Errorf("shadow map at %d: framebuffer incomplete", cfg.ShadowResolution)
	}

	program, err := shader.CompileProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("depth shader: %w", err)
	}
	s.depthProgram = program
	s.locDepthLightViewProj = shader.GetUniform(program, "uLightViewProj")
	s.locDepthModel = shader.GetUniform(program, "uModel")

	s.solids, err = NewSolidRenderer()
	if err != nil {
		s.Destroy()
		return nil, err
	}

	s.ground, err = NewGroundRenderer()
	if err != nil {
		s.Destroy()
		return nil, err
	}

	return s, nil
}

// SetSolids replaces the caster set. Must run on the render thread.
func (s *Scene) SetSolids(solids []caster.Solid) {
	s.solids.SetSolids(solids)
}

// SetLight updates the sun for subsequent frames.
func (s *Scene) SetLight(l lighting.Directional) {
	s.light = l
}

// SetShadowResolution swaps the shadow map for a new resolution, releasing
// the old target first. Must run on the render thread.
func (s *Scene) SetShadowResolution(resolution int32) error {
	if s.shadowMap != nil && s.shadowMap.Resolution == resolution {
		return nil
	}
	next := shadow.NewMap(resolution)
	if next == nil {
		return fmt.Errorf("shadow map at %d: framebuffer incomplete", resolution)
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
	}
	s.shadowMap = next
	return nil
}

// SetShadowOpacity adjusts how dark the ground overlay draws.
func (s *Scene) SetShadowOpacity(opacity float32) {
	if opacity > 0 {
		s.config.ShadowOpacity = opacity
	}
}

// SetDrawSolids toggles drawing the extruded solids themselves.
func (s *Scene) SetDrawSolids(draw bool) {
	s.config.DrawSolids = draw
}

// ShadowResolution returns the current shadow map resolution.
func (s *Scene) ShadowResolution() int32 {
	if s.shadowMap == nil {
		return 0
	}
	return s.shadowMap.Resolution
}

// Counts returns the uploaded tree and building solid counts.
func (s *Scene) Counts() (trees, buildings int) {
	return s.solids.Counts()
}

// Render draws both passes for the current camera. GL state touched during
// the frame is restored before returning, since the context is shared with
// the host.
func (s *Scene) Render(cam *camera.MapCamera) Stats {
	stats := Stats{}
	stats.Trees, stats.Buildings = s.solids.Counts()

	// Below the horizon there is nothing to cast; leave the map untouched.
	if s.light.BelowHorizon() || s.light.Intensity <= 0 {
		return stats
	}

	prev := captureGLState()
	defer prev.restore()

	halfW, halfD := cam.GroundHalfExtents()
	lightViewProj := shadow.FitViewport(
		s.light.Direction,
		cam.Center,
		halfW, halfD,
		s.solids.MaxTop(),
		s.shadowReach(),
	)

	// Caster depth pass.
	s.shadowMap.Bind()
	gl.UseProgram(s.depthProgram)
	gl.UniformMatrix4fv(s.locDepthLightViewProj, 1, false, lightViewProj.Ptr())
	stats.DrawCalls += s.solids.RenderDepth(s.locDepthModel)
	s.shadowMap.Unbind()
	stats.ShadowPass = true

	// Receiver pass over the host's framebuffer.
	viewProj := cam.ViewProjection()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.CULL_FACE)

	quadSize := 2 * (math32.Max(halfW, halfD) + s.shadowReach())
	s.ground.EnsureSize(quadSize)
	stats.DrawCalls += s.ground.Render(viewProj, lightViewProj, cam.Center, s.config.ShadowOpacity, s.shadowMap)

	if s.config.DrawSolids {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		stats.DrawCalls += s.solids.Render(viewProj, lightViewProj, s.light, true, s.shadowMap)
	}

	return stats
}

// shadowReach estimates the longest shadow the sun can throw from the
// tallest caster, capped for grazing light.
func (s *Scene) shadowReach() float32 {
	up := s.light.Direction.Y
	if up <= 0 {
		return maxShadowReachM
	}
	horiz := math32.Sqrt(1 - up*up)
	reach := s.solids.MaxTop() * horiz / up
	return math32.Min(reach, maxShadowReachM)
}

// Destroy releases all GPU resources. Must run on the render thread.
func (s *Scene) Destroy() {
	if s.solids != nil {
		s.solids.Destroy()
		s.solids = nil
	}
	if s.ground != nil {
		s.ground.Destroy()
		s.ground = nil
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
		s.shadowMap = nil
	}
	if s.depthProgram != 0 {
		gl.DeleteProgram(s.depthProgram)
		s.depthProgram = 0
	}
}
