package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

var (
	unitX = mgl32.Vec3{1, 0, 0}
	unitY = mgl32.Vec3{0, 1, 0}
)

// Camera is a free camera looking down its local -Z axis. Yaw always turns
// around the world Y axis so the horizon stays level.
type Camera struct {
	name      string
	scene     *Scene
	destroyed bool

	position    mgl32.Vec3
	orientation mgl32.Quat

	fovY   float32 // degrees
	near   float32
	far    float32
	aspect float32
}

func newCamera(name string, s *Scene) *Camera {
	return &Camera{
		name:        name,
		scene:       s,
		orientation: mgl32.QuatIdent(),
		fovY:        45,
		near:        1,
		far:         10000,
		aspect:      4.0 / 3.0,
	}
}

// Name returns the camera name.
func (c *Camera) Name() string {
	return c.name
}

// Scene returns the scene the camera belongs to.
func (c *Camera) Scene() *Scene {
	return c.scene
}

// Destroyed reports whether the camera was destroyed.
func (c *Camera) Destroyed() bool {
	return c.destroyed
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
}

// DerivedPosition returns the world-space position.
func (c *Camera) DerivedPosition() mgl32.Vec3 {
	return c.position
}

// DerivedOrientation returns the world-space orientation.
func (c *Camera) DerivedOrientation() mgl32.Quat {
	return c.orientation
}

// Direction returns the world-space view direction.
func (c *Camera) Direction() mgl32.Vec3 {
	return c.orientation.Rotate(mgl32.Vec3{0, 0, -1})
}

// LookAt turns the camera to face target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.SetDirection(target.Sub(c.position))
}

// SetDirection points the camera along dir, keeping Y as the up axis.
func (c *Camera) SetDirection(dir mgl32.Vec3) {
	if dir.Len() < 1e-6 {
		return
	}
	zAxis := dir.Normalize().Mul(-1)
	xAxis := unitY.Cross(zAxis)
	if xAxis.Len() < 1e-6 {
		xAxis = unitX
	}
	xAxis = xAxis.Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()
	c.orientation = mgl32.Mat4ToQuat(mgl32.Mat3FromCols(xAxis, yAxis, zAxis).Mat4()).Normalize()
}

// Yaw turns around the world Y axis.
func (c *Camera) Yaw(degrees float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(degrees), unitY)
	c.orientation = q.Mul(c.orientation).Normalize()
}

// Pitch tilts around the camera's local X axis.
func (c *Camera) Pitch(degrees float32) {
	q := mgl32.QuatRotate(mgl32.DegToRad(degrees), unitX)
	c.orientation = c.orientation.Mul(q).Normalize()
}

// MoveRelative translates by v expressed in camera space.
func (c *Camera) MoveRelative(v mgl32.Vec3) {
	c.position = c.position.Add(c.orientation.Rotate(v))
}

// SetNearClipDistance sets the near plane.
func (c *Camera) SetNearClipDistance(d float32) {
	c.near = d
}

// NearClipDistance returns the near plane.
func (c *Camera) NearClipDistance() float32 {
	return c.near
}

// SetFarClipDistance sets the far plane.
func (c *Camera) SetFarClipDistance(d float32) {
	c.far = d
}

// SetAspectRatio sets width/height of the projection.
func (c *Camera) SetAspectRatio(aspect float32) {
	if aspect > 0 {
		c.aspect = aspect
	}
}

// AspectRatio returns width/height of the projection.
func (c *Camera) AspectRatio() float32 {
	return c.aspect
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	p := c.position
	return c.orientation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fovY), c.aspect, c.near, c.far)
}

// CameraToViewportRay returns the world-space ray through the normalized
// viewport point (x, y), where (0, 0) is top-left and (1, 1) bottom-right.
func (c *Camera) CameraToViewportRay(x, y float32) Ray {
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()
	ndcX := 2*x - 1
	ndcY := 1 - 2*y

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	nearP := near.Vec3().Mul(1 / near.W())
	farP := far.Vec3().Mul(1 / far.W())

	return Ray{Origin: nearP, Direction: farP.Sub(nearP).Normalize()}
}
