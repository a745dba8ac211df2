// Package renderer draws the entities of a scene through a camera with
// OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/appstate-demo/internal/engine/scene"
	"github.com/Faultbox/appstate-demo/internal/engine/shader"
	"github.com/Faultbox/appstate-demo/internal/logger"
)

// PolygonMode mirrors the framework rasterization modes.
type PolygonMode int

const (
	Fill PolygonMode = iota
	Line
	Point
)

const vertexStride = 8 // pos(3) + normal(3) + uv(2)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// meshBuffers is the GPU copy of one scene mesh.
type meshBuffers struct {
	vao, vbo uint32
	count    int32
	used     bool
}

// Renderer draws scenes. It must be created after the GL context.
type Renderer struct {
	config  Config
	program *shader.Program
	meshes  map[*scene.Mesh]*meshBuffers
}

// New initializes OpenGL and compiles the scene shader.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.PointSize(2)

	program, err := shader.Compile(sceneVertexSrc, sceneFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene shader: %w", err)
	}

	r := &Renderer{
		config:  cfg,
		program: program,
		meshes:  make(map[*scene.Mesh]*meshBuffers),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for m, b := range r.meshes {
		b.release()
		delete(r.meshes, m)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// Resize sets the GL viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Clear clears colour and depth to c.
func (r *Renderer) Clear(c scene.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene draws every attached entity of the camera's scene. An enabled
// sky material becomes the clear colour.
func (r *Renderer) DrawScene(cam *scene.Camera, materials *scene.MaterialLibrary, background scene.Color, mode PolygonMode) {
	if cam == nil || cam.Destroyed() {
		r.Clear(background)
		return
	}
	s := cam.Scene()
	if sky, on := s.SkyBox(); on {
		if m, ok := materials.Get(sky); ok {
			background = m.Diffuse
		}
	}
	r.Clear(background)

	switch mode {
	case Line:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	case Point:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.POINT)
	default:
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	r.program.Use()
	viewProj := cam.ProjectionMatrix().Mul4(cam.ViewMatrix())
	ambient := s.AmbientLight()

	for _, b := range r.meshes {
		b.used = false
	}
	for _, e := range s.Entities() {
		if e.ParentNode() == nil {
			continue
		}
		mat, ok := materials.Get(e.MaterialName())
		if !ok {
			continue
		}
		b := r.buffers(e.Mesh())
		b.used = true

		model := e.WorldTransform()
		mvp := viewProj.Mul4(model)
		color := mat.Diffuse.Modulate(scene.Color{R: ambient.R, G: ambient.G, B: ambient.B, A: 1})

		gl.UniformMatrix4fv(r.program.Uniform("uMVP"), 1, false, &mvp[0])
		gl.UniformMatrix4fv(r.program.Uniform("uModel"), 1, false, &model[0])
		gl.Uniform4f(r.program.Uniform("uColor"), color.R, color.G, color.B, color.A)

		gl.BindVertexArray(b.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, b.count)
	}
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	// Meshes no entity drew this frame belong to destroyed scenes.
	for m, b := range r.meshes {
		if !b.used {
			b.release()
			delete(r.meshes, m)
		}
	}
}

func (r *Renderer) buffers(m *scene.Mesh) *meshBuffers {
	if b, ok := r.meshes[m]; ok {
		return b
	}

	verts := m.Vertices()
	data := make([]float32, 0, len(verts)*vertexStride)
	for _, v := range verts {
		data = append(data,
			v.Position.X(), v.Position.Y(), v.Position.Z(),
			v.Normal.X(), v.Normal.Y(), v.Normal.Z(),
			v.UV.X(), v.UV.Y(),
		)
	}

	b := &meshBuffers{count: int32(len(verts))}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, unsafe.Pointer(&data[0]), gl.STATIC_DRAW)

	stride := int32(vertexStride * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[m] = b
	logger.Debug("mesh uploaded", zap.String("mesh", m.Name), zap.Int32("vertices", b.count))
	return b
}

func (b *meshBuffers) release() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
}

// ReadPixels returns the last presented frame as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int, error) {
	w, h := r.config.Width, r.config.Height
	if w <= 0 || h <= 0 {
		return nil, 0, 0, fmt.Errorf("empty framebuffer %dx%d", w, h)
	}
	pixels := make([]byte, w*h*4)
	gl.ReadBuffer(gl.FRONT)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	gl.ReadBuffer(gl.BACK)
	return pixels, w, h, nil
}

// CheckError returns the pending GL error, if any.
func (r *Renderer) CheckError() error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Directional light used for a little depth on the planes. Ambient colour
// scales the result.
var lightDir = mgl32.Vec3{0.3, 1, 0.5}.Normalize()

const sceneVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uMVP;
uniform mat4 uModel;

out vec3 vNormal;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	vNormal = mat3(uModel) * aNormal;
}
`

var sceneFragmentSrc = fmt.Sprintf(`
#version 410 core

uniform vec4 uColor;

in vec3 vNormal;
out vec4 FragColor;

const vec3 lightDir = vec3(%f, %f, %f);

void main() {
	float diffuse = abs(dot(normalize(vNormal), lightDir));
	FragColor = vec4(uColor.rgb * (0.6 + 0.4 * diffuse), uColor.a);
}
`, lightDir.X(), lightDir.Y(), lightDir.Z())
