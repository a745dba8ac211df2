package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Node positions attached entities and child nodes relative to its parent.
type Node struct {
	name        string
	scene       *Scene
	parent      *Node
	children    []*Node
	attached    []*Entity
	position    mgl32.Vec3
	orientation mgl32.Quat
}

// Name returns the node name.
func (n *Node) Name() string {
	return n.name
}

// CreateChildSceneNode creates a child node at position (parent space).
func (n *Node) CreateChildSceneNode(name string, position mgl32.Vec3) (*Node, error) {
	if _, exists := n.scene.nodes[name]; exists {
		return nil, fmt.Errorf("node %q already exists in scene %q", name, n.scene.name)
	}
	child := &Node{
		name:        name,
		scene:       n.scene,
		parent:      n,
		position:    position,
		orientation: mgl32.QuatIdent(),
	}
	n.children = append(n.children, child)
	n.scene.nodes[name] = child
	return child, nil
}

// Children returns the direct child nodes.
func (n *Node) Children() []*Node {
	return n.children
}

// AttachObject attaches e to this node.
func (n *Node) AttachObject(e *Entity) error {
	if e.node != nil {
		return fmt.Errorf("entity %q is already attached to node %q", e.name, e.node.name)
	}
	e.node = n
	n.attached = append(n.attached, e)
	return nil
}

// Attached returns the entities attached to this node.
func (n *Node) Attached() []*Entity {
	return n.attached
}

// Position returns the position relative to the parent.
func (n *Node) Position() mgl32.Vec3 {
	return n.position
}

// SetPosition sets the position relative to the parent.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
}

// Orientation returns the orientation relative to the parent.
func (n *Node) Orientation() mgl32.Quat {
	return n.orientation
}

// Pitch rotates the node around its local X axis.
func (n *Node) Pitch(degrees float32) {
	n.rotateLocal(degrees, mgl32.Vec3{1, 0, 0})
}

// Yaw rotates the node around its local Y axis.
func (n *Node) Yaw(degrees float32) {
	n.rotateLocal(degrees, mgl32.Vec3{0, 1, 0})
}

// Roll rotates the node around its local Z axis.
func (n *Node) Roll(degrees float32) {
	n.rotateLocal(degrees, mgl32.Vec3{0, 0, 1})
}

func (n *Node) rotateLocal(degrees float32, axis mgl32.Vec3) {
	q := mgl32.QuatRotate(mgl32.DegToRad(degrees), axis)
	n.orientation = n.orientation.Mul(q).Normalize()
}

// WorldTransform returns the node-to-world matrix.
func (n *Node) WorldTransform() mgl32.Mat4 {
	local := mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).Mul4(n.orientation.Mat4())
	if n.parent == nil {
		return local
	}
	return n.parent.WorldTransform().Mul4(local)
}

// Entity is an instance of a mesh with a material.
type Entity struct {
	name        string
	scene       *Scene
	mesh        *Mesh
	material    string
	castShadows bool
	queryFlags  uint32
	node        *Node
}

// Name returns the entity name.
func (e *Entity) Name() string {
	return e.name
}

// Mesh returns the mesh this entity shows.
func (e *Entity) Mesh() *Mesh {
	return e.mesh
}

// SetMaterialName assigns a material from the library.
func (e *Entity) SetMaterialName(name string) error {
	if _, ok := e.scene.root.materials.Get(name); !ok {
		return fmt.Errorf("entity %q: unknown material %q", e.name, name)
	}
	e.material = name
	return nil
}

// MaterialName returns the assigned material.
func (e *Entity) MaterialName() string {
	return e.material
}

// SetCastShadows toggles shadow casting.
func (e *Entity) SetCastShadows(cast bool) {
	e.castShadows = cast
}

// CastShadows reports whether the entity casts shadows.
func (e *Entity) CastShadows() bool {
	return e.castShadows
}

// SetQueryFlags sets the bits matched against ray query masks.
func (e *Entity) SetQueryFlags(flags uint32) {
	e.queryFlags = flags
}

// QueryFlags returns the query flag bits.
func (e *Entity) QueryFlags() uint32 {
	return e.queryFlags
}

// ParentNode returns the node the entity is attached to, or nil.
func (e *Entity) ParentNode() *Node {
	return e.node
}

// WorldTransform returns the entity-to-world matrix. Unattached entities
// are not part of the scene and report the identity.
func (e *Entity) WorldTransform() mgl32.Mat4 {
	if e.node == nil {
		return mgl32.Ident4()
	}
	return e.node.WorldTransform()
}
