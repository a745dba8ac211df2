package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is the set of points p with Normal·p = Distance.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// PlaneDesc describes a flat, subdivided rectangle lying on a plane.
type PlaneDesc struct {
	Plane     Plane
	Width     float32
	Height    float32
	SegmentsX int
	SegmentsY int
	UTile     float32
	VTile     float32
	Up        mgl32.Vec3 // direction of the Height extent
}

// Mesh is a plane mesh in model space.
type Mesh struct {
	Name   string
	Desc   PlaneDesc
	Center mgl32.Vec3
	XAxis  mgl32.Vec3 // unit vector along Width
	YAxis  mgl32.Vec3 // unit vector along Height
	Normal mgl32.Vec3
}

// Vertex is a single mesh vertex.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
}

// Vertices returns the triangle list for the mesh, two triangles per segment.
func (m *Mesh) Vertices() []Vertex {
	segX, segY := m.Desc.SegmentsX, m.Desc.SegmentsY
	if segX < 1 {
		segX = 1
	}
	if segY < 1 {
		segY = 1
	}

	point := func(i, j int) Vertex {
		u := float32(i) / float32(segX)
		v := float32(j) / float32(segY)
		pos := m.Center.
			Add(m.XAxis.Mul((u - 0.5) * m.Desc.Width)).
			Add(m.YAxis.Mul((v - 0.5) * m.Desc.Height))
		return Vertex{
			Position: pos,
			Normal:   m.Normal,
			UV:       mgl32.Vec2{u * m.Desc.UTile, (1 - v) * m.Desc.VTile},
		}
	}

	out := make([]Vertex, 0, segX*segY*6)
	for j := 0; j < segY; j++ {
		for i := 0; i < segX; i++ {
			a, b := point(i, j), point(i+1, j)
			c, d := point(i+1, j+1), point(i, j+1)
			out = append(out, a, b, c, a, c, d)
		}
	}
	return out
}

// Contains reports whether the model-space point p, assumed to lie on the
// mesh plane, falls inside the rectangle.
func (m *Mesh) Contains(p mgl32.Vec3) bool {
	rel := p.Sub(m.Center)
	u := rel.Dot(m.XAxis)
	v := rel.Dot(m.YAxis)
	return u >= -m.Desc.Width/2 && u <= m.Desc.Width/2 &&
		v >= -m.Desc.Height/2 && v <= m.Desc.Height/2
}

// MeshRegistry holds meshes shared by every scene of a root.
type MeshRegistry struct {
	meshes map[string]*Mesh
}

// NewMeshRegistry creates an empty registry.
func NewMeshRegistry() *MeshRegistry {
	return &MeshRegistry{meshes: make(map[string]*Mesh)}
}

// CreatePlane builds and registers a plane mesh.
func (r *MeshRegistry) CreatePlane(name string, desc PlaneDesc) (*Mesh, error) {
	if _, exists := r.meshes[name]; exists {
		return nil, fmt.Errorf("mesh %q already exists", name)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("mesh %q: invalid size %gx%g", name, desc.Width, desc.Height)
	}

	normal := desc.Plane.Normal.Normalize()
	xAxis := desc.Up.Cross(normal)
	if xAxis.Len() < 1e-6 {
		return nil, fmt.Errorf("mesh %q: up vector is parallel to the plane normal", name)
	}
	xAxis = xAxis.Normalize()
	yAxis := normal.Cross(xAxis).Normalize()

	m := &Mesh{
		Name:   name,
		Desc:   desc,
		Center: normal.Mul(desc.Plane.Distance),
		XAxis:  xAxis,
		YAxis:  yAxis,
		Normal: normal,
	}
	r.meshes[name] = m
	return m, nil
}

// Get returns the named mesh.
func (r *MeshRegistry) Get(name string) (*Mesh, bool) {
	m, ok := r.meshes[name]
	return m, ok
}

// Remove unregisters the named mesh. Entities that already use it keep it.
func (r *MeshRegistry) Remove(name string) {
	delete(r.meshes, name)
}

// Names returns the registered mesh names, sorted.
func (r *MeshRegistry) Names() []string {
	names := make([]string, 0, len(r.meshes))
	for name := range r.meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
