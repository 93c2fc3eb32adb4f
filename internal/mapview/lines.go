package mapview

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/urbancanopy/shadowcast/internal/engine/shader"
	vmath "github.com/urbancanopy/shadowcast/pkg/math"
)

const lineVertexShader = `#version 410 core
layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
` + "\x00"

const lineFragmentShader = `#version 410 core
uniform vec4 uColor;

out vec4 fragColor;

void main() {
	fragColor = uColor;
}
` + "\x00"

// LineRenderer draws flat-colored line segments, used for the reference
// grid and caster wireframes.
type LineRenderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	count   int32

	locMVP   int32
	locColor int32
}

// NewLineRenderer compiles the line program and allocates buffers.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := shader.CompileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling line shader: %w", err)
	}

	r := &LineRenderer{
		program:  program,
		locMVP:   shader.MustGetUniform(program, "uMVP"),
		locColor: shader.MustGetUniform(program, "uColor"),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.GenBuffers(1, &r.vbo)

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// SetLines replaces the vertex data: pairs of [x y z] endpoints.
func (r *LineRenderer) SetLines(verts []float32) {
	r.count = int32(len(verts) / 3)
	if r.count == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, unsafe.Pointer(&verts[0]), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Render draws the current lines with the given transform and color.
func (r *LineRenderer) Render(viewProj vmath.Mat4, color [4]float32) {
	if r.count == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locMVP, 1, false, viewProj.Ptr())
	gl.Uniform4fv(r.locColor, 1, &color[0])

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.LINES, 0, r.count)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Destroy releases GL resources.
func (r *LineRenderer) Destroy() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}
