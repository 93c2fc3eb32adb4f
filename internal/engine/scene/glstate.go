package scene

import "github.com/go-gl/gl/v4.1-core/gl"

// glState snapshots the pieces of GL state the shadow passes touch. The
// render loop shares its context with the host map renderer, so everything
// changed during a frame must be put back.
type glState struct {
	program       int32
	vao           int32
	arrayBuffer   int32
	activeTexture int32
	texture2D     int32
	viewport      [4]int32

	blend     bool
	blendSrc  int32
	blendDst  int32
	depthTest bool
	depthMask bool
	cullFace  bool
	cullMode  int32
}

func captureGLState() glState {
	var s glState
	gl.GetIntegerv(gl.CURRENT_PROGRAM, &s.program)
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &s.vao)
	gl.GetIntegerv(gl.ARRAY_BUFFER_BINDING, &s.arrayBuffer)
	gl.GetIntegerv(gl.ACTIVE_TEXTURE, &s.activeTexture)
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &s.texture2D)
	gl.GetIntegerv(gl.VIEWPORT, &s.viewport[0])
	gl.GetIntegerv(gl.BLEND_SRC_ALPHA, &s.blendSrc)
	gl.GetIntegerv(gl.BLEND_DST_ALPHA, &s.blendDst)
	gl.GetIntegerv(gl.CULL_FACE_MODE, &s.cullMode)

	s.blend = gl.IsEnabled(gl.BLEND)
	s.depthTest = gl.IsEnabled(gl.DEPTH_TEST)
	s.cullFace = gl.IsEnabled(gl.CULL_FACE)

	var dm bool
	gl.GetBooleanv(gl.DEPTH_WRITEMASK, &dm)
	s.depthMask = dm

	return s
}

func (s glState) restore() {
	gl.UseProgram(uint32(s.program))
	gl.BindVertexArray(uint32(s.vao))
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(s.arrayBuffer))
	gl.ActiveTexture(uint32(s.activeTexture))
	gl.BindTexture(gl.TEXTURE_2D, uint32(s.texture2D))
	gl.Viewport(s.viewport[0], s.viewport[1], s.viewport[2], s.viewport[3])

	setCap(gl.BLEND, s.blend)
	setCap(gl.DEPTH_TEST, s.depthTest)
	setCap(gl.CULL_FACE, s.cullFace)
	gl.BlendFunc(uint32(s.blendSrc), uint32(s.blendDst))
	gl.CullFace(uint32(s.cullMode))
	gl.DepthMask(s.depthMask)
}

func setCap(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}
