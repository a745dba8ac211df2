package scene

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line in world space.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Point returns the point at distance t along the ray.
func (r Ray) Point(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit is one ray query result.
type Hit struct {
	Entity   *Entity
	Distance float32
	Point    mgl32.Vec3
}

// RayQuery intersects a ray with the attached entities of a scene.
type RayQuery struct {
	scene     *Scene
	ray       Ray
	mask      uint32
	destroyed bool
}

// SetRay replaces the query ray.
func (q *RayQuery) SetRay(r Ray) {
	q.ray = r
}

// SetQueryMask replaces the mask matched against entity query flags.
func (q *RayQuery) SetQueryMask(mask uint32) {
	q.mask = mask
}

// QueryMask returns the query mask.
func (q *RayQuery) QueryMask() uint32 {
	return q.mask
}

// Destroyed reports whether the query was destroyed.
func (q *RayQuery) Destroyed() bool {
	return q.destroyed
}

// Execute returns the hits sorted nearest first.
func (q *RayQuery) Execute() []Hit {
	if q.destroyed {
		return nil
	}

	var hits []Hit
	for _, e := range q.scene.order {
		if e.node == nil || e.queryFlags&q.mask == 0 {
			continue
		}
		if hit, ok := intersect(q.ray, e); ok {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// intersect tests the ray against the entity's plane mesh in model space.
func intersect(ray Ray, e *Entity) (Hit, bool) {
	world := e.WorldTransform()
	inv := world.Inv()

	origin := inv.Mul4x1(ray.Origin.Vec4(1)).Vec3()
	dir := inv.Mul4x1(ray.Direction.Vec4(0)).Vec3()

	m := e.mesh
	denom := m.Normal.Dot(dir)
	if denom > -1e-6 && denom < 1e-6 {
		return Hit{}, false
	}
	t := m.Normal.Dot(m.Center.Sub(origin)) / denom
	if t < 0 {
		return Hit{}, false
	}
	local := origin.Add(dir.Mul(t))
	if !m.Contains(local) {
		return Hit{}, false
	}

	point := world.Mul4x1(local.Vec4(1)).Vec3()
	return Hit{
		Entity:   e,
		Distance: point.Sub(ray.Origin).Len(),
		Point:    point,
	}, true
}
