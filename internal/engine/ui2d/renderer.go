// Package ui2d draws overlay primitives with OpenGL on top of the 3D scene.
package ui2d

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/appstate-demo/internal/engine/overlay"
	"github.com/Faultbox/appstate-demo/internal/engine/shader"
)

const (
	solidStride = 6 // pos(2) + color(4)
	textStride  = 8 // pos(2) + uv(2) + color(4)
)

// Renderer batches overlay rectangles and glyphs into two draw calls.
type Renderer struct {
	screenWidth  int
	screenHeight int

	solidShader *shader.Program
	textShader  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32

	atlas    *overlay.GlyphAtlas
	atlasTex uint32

	solidVertices []float32
	textVertices  []float32
}

// New creates the renderer. A GL context must be current.
func New(width, height int) (*Renderer, error) {
	r := &Renderer{
		screenWidth:   width,
		screenHeight:  height,
		atlas:         overlay.NewGlyphAtlas(),
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
	}

	var err error
	r.solidShader, err = shader.Compile(solidVertexSrc, solidFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	r.textShader, err = shader.Compile(textVertexSrc, textFragmentSrc)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	r.solidVAO, r.solidVBO = createBuffers(solidStride, []int32{2, 4})
	r.textVAO, r.textVBO = createBuffers(textStride, []int32{2, 2, 4})
	r.uploadAtlas()
	return r, nil
}

// createBuffers makes a VAO/VBO pair with consecutive float attributes of
// the given sizes.
func createBuffers(stride int32, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, n := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(n)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return vao, vbo
}

func (r *Renderer) uploadAtlas() {
	img := r.atlas.Image()
	gl.GenTextures(1, &r.atlasTex)
	gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8,
		int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0,
		gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Resize updates the screen dimensions.
func (r *Renderer) Resize(width, height int) {
	r.screenWidth = width
	r.screenHeight = height
}

// Draw renders prims in order over whatever is in the framebuffer.
// Consecutive primitives are batched; a rectangle following text starts a
// new batch so it covers that text.
func (r *Renderer) Draw(prims []overlay.Primitive) {
	if len(prims) == 0 {
		return
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	proj := mgl32.Ortho(0, float32(r.screenWidth), float32(r.screenHeight), 0, -1, 1)
	r.solidShader.Use()
	gl.UniformMatrix4fv(r.solidShader.Uniform("uProjection"), 1, false, &proj[0])
	r.textShader.Use()
	gl.UniformMatrix4fv(r.textShader.Uniform("uProjection"), 1, false, &proj[0])
	gl.Uniform1i(r.textShader.Uniform("uTexture"), 0)

	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
	for _, p := range prims {
		switch p.Kind {
		case overlay.PrimRect:
			if len(r.textVertices) > 0 {
				r.flushBatch()
			}
			r.addQuad(p.X, p.Y, p.W, p.H, p.Color)
		case overlay.PrimText:
			r.addText(p.X, p.Y, p.Text, p.Scale, p.Color)
		}
	}
	r.flushBatch()

	gl.UseProgram(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// flushBatch draws the pending rectangles, then the pending glyphs.
func (r *Renderer) flushBatch() {
	if len(r.solidVertices) > 0 {
		r.solidShader.Use()
		flush(r.solidVAO, r.solidVBO, r.solidVertices, solidStride)
		r.solidVertices = r.solidVertices[:0]
	}
	if len(r.textVertices) > 0 {
		r.textShader.Use()
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.atlasTex)
		flush(r.textVAO, r.textVBO, r.textVertices, textStride)
		gl.BindTexture(gl.TEXTURE_2D, 0)
		r.textVertices = r.textVertices[:0]
	}
}

func flush(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (r *Renderer) addQuad(x, y, w, h float32, c overlay.Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

func (r *Renderer) addText(x, y float32, text string, scale float32, c overlay.Color) {
	if scale <= 0 {
		scale = 1
	}
	cw, ch := r.atlas.CellSize()
	w, h := float32(cw)*scale, float32(ch)*scale

	for _, g := range text {
		u0, v0, u1, v1 := r.atlas.UV(g)
		r.textVertices = append(r.textVertices,
			x, y, u0, v0, c.R, c.G, c.B, c.A,
			x+w, y, u1, v0, c.R, c.G, c.B, c.A,
			x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
			x, y, u0, v0, c.R, c.G, c.B, c.A,
			x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
			x, y+h, u0, v1, c.R, c.G, c.B, c.A,
		)
		x += w
	}
}

// Close releases GL resources.
func (r *Renderer) Close() {
	if r.atlasTex != 0 {
		gl.DeleteTextures(1, &r.atlasTex)
		r.atlasTex = 0
	}
	for _, vao := range []*uint32{&r.solidVAO, &r.textVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
			*vao = 0
		}
	}
	for _, vbo := range []*uint32{&r.solidVBO, &r.textVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
			*vbo = 0
		}
	}
	if r.solidShader != nil {
		r.solidShader.Delete()
	}
	if r.textShader != nil {
		r.textShader.Delete()
	}
}

const solidVertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const solidFragmentSrc = `
#version 410 core

in vec4 vColor;
out vec4 FragColor;

void main() {
	FragColor = vColor;
}
`

const textVertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vTexCoord;
out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vTexCoord = aTexCoord;
	vColor = aColor;
}
`

// The atlas is a single red channel holding glyph coverage.
const textFragmentSrc = `
#version 410 core

uniform sampler2D uTexture;

in vec2 vTexCoord;
in vec4 vColor;
out vec4 FragColor;

void main() {
	float coverage = texture(uTexture, vTexCoord).r;
	FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
`
