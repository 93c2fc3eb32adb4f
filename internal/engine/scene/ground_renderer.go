package scene

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/urbancanopy/shadowcast/internal/engine/mesh"
	"github.com/urbancanopy/shadowcast/internal/engine/scene/shaders"
	"github.com/urbancanopy/shadowcast/internal/engine/shader"
	"github.com/urbancanopy/shadowcast/internal/engine/shadow"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

// GroundRenderer draws the shadow overlay: a ground quad that stays
// transparent where the sun reaches and darkens where casters block it.
type GroundRenderer struct {
	program uint32

	locMVP           int32
	locModel         int32
	locLightViewProj int32
	locOpacity       int32
	locShadowMap     int32

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	size       float32
}

// NewGroundRenderer compiles the overlay shader.
func NewGroundRenderer() (*GroundRenderer, error) {
	program, err := shader.CompileProgram(shaders.GroundVertexShader, shaders.GroundFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("ground shader: %w", err)
	}

	gr := &GroundRenderer{program: program}
	gr.locMVP = shader.GetUniform(program, "uMVP")
	gr.locModel = shader.GetUniform(program, "uModel")
	gr.locLightViewProj = shader.GetUniform(program, "uLightViewProj")
	gr.locOpacity = shader.GetUniform(program, "uShadowOpacity")
	gr.locShadowMap = shader.GetUniform(program, "uShadowMap")

	return gr, nil
}

// EnsureSize re-uploads the quad when the needed coverage grows. Runs on the
// render thread.
func (gr *GroundRenderer) EnsureSize(size float32) {
	if gr.vao != 0 && size <= gr.size {
		return
	}
	gr.destroyQuad()

	plane := mesh.GroundPlane(size)
	gr.size = size
	gr.indexCount = int32(len(plane.Indices))

	gl.GenVertexArrays(1, &gr.vao)
	gl.BindVertexArray(gr.vao)

	gl.GenBuffers(1, &gr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(plane.Positions)*4, unsafe.Pointer(&plane.Positions[0]), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)

	gl.GenBuffers(1, &gr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(plane.Indices)*4, unsafe.Pointer(&plane.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
}

// Render draws the overlay centered under the camera. Blending must already
// be enabled by the caller.
func (gr *GroundRenderer) Render(viewProj, lightViewProj vmath.Mat4, center vmath.Vec3, opacity float32, shadowMap *shadow.Map) int {
	if gr.vao == 0 || !shadowMap.IsValid() {
		return 0
	}

	model := vmath.Translate(center.X, 0, center.Z)
	mvp := viewProj.Mul(model)

	gl.UseProgram(gr.program)
	gl.UniformMatrix4fv(gr.locMVP, 1, false, mvp.Ptr())
	gl.UniformMatrix4fv(gr.locModel, 1, false, model.Ptr())
	gl.UniformMatrix4fv(gr.locLightViewProj, 1, false, lightViewProj.Ptr())
	gl.Uniform1f(gr.locOpacity, opacity)

	shadowMap.BindTexture(gl.TEXTURE0)
	gl.Uniform1i(gr.locShadowMap, 0)

	gl.BindVertexArray(gr.vao)
	gl.DrawElements(gl.TRIANGLES, gr.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	return 1
}

func (gr *GroundRenderer) destroyQuad() {
	if gr.vao != 0 {
		gl.DeleteVertexArrays(1, &gr.vao)
		gr.vao = 0
	}
	if gr.vbo != 0 {
		gl.DeleteBuffers(1, &gr.vbo)
		gr.vbo = 0
	}
	if gr.ebo != 0 {
		gl.DeleteBuffers(1, &gr.ebo)
		gr.ebo = 0
	}
}

// Destroy releases all GPU resources.
func (gr *GroundRenderer) Destroy() {
	gr.destroyQuad()
	if gr.program != 0 {
		gl.DeleteProgram(gr.program)
		gr.program = 0
	}
}
