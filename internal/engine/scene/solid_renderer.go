package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/urbancanopy/shadowcast/internal/caster"
	"github.com/urbancanopy/shadowcast/internal/engine/lighting"
	"github.com/urbancanopy/shadowcast/internal/engine/scene/shaders"
	"github.com/urbancanopy/shadowcast/internal/engine/shader"
	"github.com/urbancanopy/shadowcast/internal/engine/shadow"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// solidMesh is one uploaded caster solid.
type solidMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	model      vmath.Mat4
	color      [3]float32
	kind       caster.Kind
	castShadow bool
	top        float32 // world-space top of the solid
}

// SolidRenderer uploads caster solids and draws them in both passes.
type SolidRenderer struct {
	program uint32

	locMVP            int32
	locModel          int32
	locLightViewProj  int32
	locColor          int32
	locLightDir       int32
	locLightColor     int32
	locIntensity      int32
	locAmbient        int32
	locShadowsEnabled int32
	locShadowMap      int32

	solids    []*solidMesh
	treeCount int
	bldgCount int
	maxTop    float32
}

// NewSolidRenderer compiles the solid shader.
func NewSolidRenderer() (*SolidRenderer, error) {
	program, err := shader.CompileProgram(shaders.SolidVertexShader, shaders.SolidFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}

	sr := &SolidRenderer{program: program}
	sr.locMVP = shader.GetUniform(program, "uMVP")
	sr.locModel = shader.GetUniform(program, "uModel")
	sr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	sr.locColor = shader.GetUniform(program, "uColor")
	sr.locLightDir = shader.GetUniform(program, "uLightDir")
	sr.locLightColor = shader.GetUniform(program, "uLightColor")
	sr.locIntensity = shader.GetUniform(program, "uIntensity")
	sr.locAmbient = shader.GetUniform(program, "uAmbient")
	sr.locShadowsEnabled = shader.GetUniform(program, "uShadowsEnabled")
	sr.locShadowMap = shader.GetUniform(program, "uShadowMap")

	return sr, nil
}

// SetSolids replaces the uploaded set. The old buffers are deleted first, so
// this must run on the render thread.
func (sr *SolidRenderer) SetSolids(solids []caster.Solid) {
	sr.clear()

	for i := range solids {
		m := uploadSolid(&solids[i])
		if m == nil {
			continue
		}
		sr.solids = append(sr.solids, m)
		switch m.kind {
		case caster.KindTree:
			sr.treeCount++
		case caster.KindBuilding:
			sr.bldgCount++
		}
		if m.top > sr.maxTop {
			sr.maxTop = m.top
		}
	}
}

func uploadSolid(s *caster.Solid) *solidMesh {
	geo := s.Geometry
	if geo.VertexCount() == 0 || len(geo.Indices) == 0 {
		return nil
	}

	// Interleave position and normal per vertex.
	verts := make([]float32, 0, geo.VertexCount()*6)
	for i := 0; i < geo.VertexCount(); i++ {
		verts = append(verts,
			geo.Positions[i*3], geo.Positions[i*3+1], geo.Positions[i*3+2],
			geo.Normals[i*3], geo.Normals[i*3+1], geo.Normals[i*3+2],
		)
	}

	m := &solidMesh{
		model:      vmath.Translate(s.Position.X, s.Position.Y, s.Position.Z),
		color:      s.Color,
		kind:       s.Kind,
		castShadow: s.CastShadow,
		top:        s.Position.Y + s.Height,
		indexCount: int32(len(geo.Indices)),
	}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.STATIC_DRAW)

	stride := int32(6 * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(geo.Indices)*4, unsafe.Pointer(&geo.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return m
}

// Counts returns the uploaded tree and building solid counts.
func (sr *SolidRenderer) Counts() (trees, buildings int) {
	return sr.treeCount, sr.bldgCount
}

// MaxTop returns the highest caster top, which sizes the light frustum.
func (sr *SolidRenderer) MaxTop() float32 {
	return sr.maxTop
}

// RenderDepth draws every shadow-casting solid with the depth program bound
// by the caller.
func (sr *SolidRenderer) RenderDepth(locModel int32) int {
	draws := 0
	for _, m := range sr.solids {
		if !m.castShadow {
			continue
		}
		gl.UniformMatrix4fv(locModel, 1, false, m.model.Ptr())
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
		draws++
	}
	gl.BindVertexArray(0)
	return draws
}

// Render draws the solids lit and shadowed. Returns the draw call count.
func (sr *SolidRenderer) Render(viewProj, lightViewProj vmath.Mat4, light lighting.Directional, shadowsEnabled bool, shadowMap *shadow.Map) int {
	if len(sr.solids) == 0 {
		return 0
	}

	gl.UseProgram(sr.program)
	gl.UniformMatrix4fv(sr.locLightViewProj, 1, false, lightViewProj.Ptr())
	gl.Uniform3f(sr.locLightDir, light.Direction.X, light.Direction.Y, light.Direction.Z)
	gl.Uniform3f(sr.locLightColor, light.Color[0], light.Color[1], light.Color[2])
	gl.Uniform1f(sr.locIntensity, light.Intensity)
	gl.Uniform1f(sr.locAmbient, light.Ambient())

	if shadowsEnabled && shadowMap.IsValid() {
		gl.Uniform1i(sr.locShadowsEnabled, 1)
		shadowMap.BindTexture(gl.TEXTURE0)
		gl.Uniform1i(sr.locShadowMap, 0)
	} else {
		gl.Uniform1i(sr.locShadowsEnabled, 0)
	}

	draws := 0
	for _, m := range sr.solids {
		mvp := viewProj.Mul(m.model)
		gl.UniformMatrix4fv(sr.locMVP, 1, false, mvp.Ptr())
		gl.UniformMatrix4fv(sr.locModel, 1, false, m.model.Ptr())
		gl.Uniform3f(sr.locColor, m.color[0], m.color[1], m.color[2])
		gl.BindVertexArray(m.vao)
		gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
		draws++
	}
	gl.BindVertexArray(0)
	return draws
}

func (sr *SolidRenderer) clear() {
	for _, m := range sr.solids {
		if m.vao != 0 {
			gl.DeleteVertexArrays(1, &m.vao)
		}
		if m.vbo != 0 {
			gl.DeleteBuffers(1, &m.vbo)
		}
		if m.ebo != 0 {
			gl.DeleteBuffers(1, &m.ebo)
		}
	}
	sr.solids = nil
	sr.treeCount = 0
	sr.bldgCount = 0
	sr.maxTop = 0
}

// Destroy releases all GPU resources.
func (sr *SolidRenderer) Destroy() {
	sr.clear()
	if sr.program != 0 {
		gl.DeleteProgram(sr.program)
		sr.program = 0
	}
}
