// Package scene provides a small scene graph: a root that owns named scenes,
// shared plane meshes and materials, and per-scene nodes, entities, cameras
// and ray queries.
//
// The package holds no GPU state. The renderer package walks a scene through
// the viewport camera each frame.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShadowTechnique selects how a scene casts shadows.
type ShadowTechnique int

const (
	ShadowNone ShadowTechnique = iota
	ShadowStencilModulative
	ShadowStencilAdditive
)

// Root owns every scene plus the mesh registry and material library they share.
type Root struct {
	meshes    *MeshRegistry
	materials *MaterialLibrary
	scenes    map[string]*Scene
}

// NewRoot creates a root with the given material library.
// A nil library falls back to the built-in materials.
func NewRoot(materials *MaterialLibrary) *Root {
	if materials == nil {
		materials = DefaultMaterials()
	}
	return &Root{
		meshes:    NewMeshRegistry(),
		materials: materials,
		scenes:    make(map[string]*Scene),
	}
}

// Meshes returns the shared mesh registry.
func (r *Root) Meshes() *MeshRegistry {
	return r.meshes
}

// Materials returns the shared material library.
func (r *Root) Materials() *MaterialLibrary {
	return r.materials
}

// CreateScene creates an empty scene. Names are unique per root.
func (r *Root) CreateScene(name string) (*Scene, error) {
	if _, exists := r.scenes[name]; exists {
		return nil, fmt.Errorf("scene %q already exists", name)
	}
	s := &Scene{
		name:     name,
		root:     r,
		ambient:  Color{0.5, 0.5, 0.5, 1},
		nodes:    make(map[string]*Node),
		entities: make(map[string]*Entity),
		cameras:  make(map[string]*Camera),
		queries:  make(map[*RayQuery]struct{}),
	}
	s.rootNode = &Node{name: "root", scene: s, orientation: mgl32.QuatIdent()}
	r.scenes[name] = s
	return s, nil
}

// Scene returns the scene with the given name, or nil.
func (r *Root) Scene(name string) *Scene {
	return r.scenes[name]
}

// SceneCount returns the number of live scenes.
func (r *Root) SceneCount() int {
	return len(r.scenes)
}

// DestroyScene destroys s together with everything it created.
func (r *Root) DestroyScene(s *Scene) {
	if s == nil || r.scenes[s.name] != s {
		return
	}
	for _, c := range s.cameras {
		c.destroyed = true
	}
	for q := range s.queries {
		q.destroyed = true
	}
	s.cameras = map[string]*Camera{}
	s.queries = map[*RayQuery]struct{}{}
	s.nodes = map[string]*Node{}
	s.entities = map[string]*Entity{}
	s.order = nil
	s.destroyed = true
	delete(r.scenes, s.name)
}

// Scene is a named container of nodes, entities, cameras and queries.
type Scene struct {
	name      string
	root      *Root
	destroyed bool

	ambient   Color
	shadows   ShadowTechnique
	skyBox    string
	skyBoxOn  bool
	rootNode  *Node
	nodes     map[string]*Node
	entities  map[string]*Entity
	order     []*Entity // creation order, for deterministic rendering
	cameras   map[string]*Camera
	queries   map[*RayQuery]struct{}
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Destroyed reports whether the scene was destroyed through its root.
func (s *Scene) Destroyed() bool {
	return s.destroyed
}

// Root returns the owning root.
func (s *Scene) Root() *Root {
	return s.root
}

// SetAmbientLight sets the ambient light colour.
func (s *Scene) SetAmbientLight(c Color) {
	s.ambient = c
}

// AmbientLight returns the ambient light colour.
func (s *Scene) AmbientLight() Color {
	return s.ambient
}

// SetShadowTechnique records the shadow technique.
func (s *Scene) SetShadowTechnique(t ShadowTechnique) {
	s.shadows = t
}

// ShadowTechnique returns the configured shadow technique.
func (s *Scene) ShadowTechnique() ShadowTechnique {
	return s.shadows
}

// SetSkyBox enables or disables the sky using a material from the library.
func (s *Scene) SetSkyBox(enabled bool, material string) error {
	if enabled {
		if _, ok := s.root.materials.Get(material); !ok {
			return fmt.Errorf("sky box: unknown material %q", material)
		}
	}
	s.skyBoxOn = enabled
	s.skyBox = material
	return nil
}

// SkyBox returns the sky material and whether the sky is enabled.
func (s *Scene) SkyBox() (string, bool) {
	return s.skyBox, s.skyBoxOn
}

// RootNode returns the scene's root node.
func (s *Scene) RootNode() *Node {
	return s.rootNode
}

// CreateEntity creates an unattached entity showing the named mesh.
func (s *Scene) CreateEntity(name, mesh string) (*Entity, error) {
	if _, exists := s.entities[name]; exists {
		return nil, fmt.Errorf("entity %q already exists in scene %q", name, s.name)
	}
	m, ok := s.root.meshes.Get(mesh)
	if !ok {
		return nil, fmt.Errorf("entity %q: unknown mesh %q", name, mesh)
	}
	e := &Entity{
		name:        name,
		mesh:        m,
		material:    DefaultMaterialName,
		castShadows: true,
		queryFlags:  ^uint32(0),
		scene:       s,
	}
	s.entities[name] = e
	s.order = append(s.order, e)
	return e, nil
}

// Entity returns the named entity, or nil.
func (s *Scene) Entity(name string) *Entity {
	return s.entities[name]
}

// Entities returns all entities in creation order.
func (s *Scene) Entities() []*Entity {
	return s.order
}

// Node returns the named node, or nil.
func (s *Scene) Node(name string) *Node {
	return s.nodes[name]
}

// CreateCamera creates a camera in this scene.
func (s *Scene) CreateCamera(name string) (*Camera, error) {
	if _, exists := s.cameras[name]; exists {
		return nil, fmt.Errorf("camera %q already exists in scene %q", name, s.name)
	}
	c := newCamera(name, s)
	s.cameras[name] = c
	return c, nil
}

// Camera returns the named camera, or nil.
func (s *Scene) Camera(name string) *Camera {
	return s.cameras[name]
}

// CameraCount returns the number of live cameras.
func (s *Scene) CameraCount() int {
	return len(s.cameras)
}

// DestroyCamera removes c from the scene.
func (s *Scene) DestroyCamera(c *Camera) {
	if c == nil || s.cameras[c.name] != c {
		return
	}
	c.destroyed = true
	delete(s.cameras, c.name)
}

// CreateRayQuery creates a query that intersects entities whose query
// flags share a bit with mask.
func (s *Scene) CreateRayQuery(ray Ray, mask uint32) *RayQuery {
	q := &RayQuery{scene: s, ray: ray, mask: mask}
	s.queries[q] = struct{}{}
	return q
}

// QueryCount returns the number of live queries.
func (s *Scene) QueryCount() int {
	return len(s.queries)
}

// DestroyQuery removes q from the scene.
func (s *Scene) DestroyQuery(q *RayQuery) {
	if q == nil {
		return
	}
	if _, ok := s.queries[q]; !ok {
		return
	}
	q.destroyed = true
	delete(s.queries, q)
}
