package index

import (
	"github.com/achilleasa/minilight/scene"
	"github.com/achilleasa/minilight/types"
	"github.com/chewxy/math32"
)

// Hit describes the nearest intersection along a ray.
type Hit struct {
	// Index of the hit triangle in the list passed to Build.
	Triangle int

	// Distance along the ray in units of the direction vector length.
	Distance float32
}

// A child cell scheduled for traversal.
type childEntry struct {
	cell  int32
	tNear float32
}

// Find the nearest triangle hit by the ray. Rays starting outside the root
// bound never hit.
func (ix *Index) NearestHit(origin, dir types.Vec3) (Hit, bool) {
	return ix.NearestHitExcluding(origin, dir, -1)
}

// Find the nearest triangle hit by the ray ignoring the triangle with index
// skip. Secondary rays pass the triangle they leave from to avoid hitting it
// again at distance zero; a negative skip value ignores nothing.
func (ix *Index) NearestHitExcluding(origin, dir types.Vec3, skip int) (Hit, bool) {
	if !ix.cells[0].bound.Contains(origin) {
		return Hit{}, false
	}

	q := nearestQuery{
		ix:     ix,
		origin: origin,
		dir:    dir,
		skip:   int32(skip),
		best:   math32.Inf(1),
		hit:    noCell,
	}
	if skip < 0 || skip >= len(ix.tris) {
		q.skip = noCell
	}
	q.visit(0)

	if q.hit == noCell {
		return Hit{}, false
	}
	return Hit{Triangle: int(q.hit), Distance: q.best}, true
}

// Returns true if any triangle is hit at a distance in (Epsilon, maxDistance).
// Rays starting outside the root bound are never occluded.
func (ix *Index) IsOccluded(origin, dir types.Vec3, maxDistance float32) bool {
	if !(maxDistance > scene.Epsilon) || !ix.cells[0].bound.Contains(origin) {
		return false
	}

	q := occlusionQuery{
		ix:          ix,
		origin:      origin,
		dir:         dir,
		maxDistance: maxDistance,
	}
	return q.visit(0)
}

type nearestQuery struct {
	ix          *Index
	origin, dir types.Vec3
	skip        int32

	best float32
	hit  int32
}

func (q *nearestQuery) visit(cellIndex int32) {
	c := &q.ix.cells[cellIndex]

	if !c.branch {
		for _, item := range q.ix.items[c.first : c.first+c.count] {
			if item == q.skip {
				continue
			}
			if dist, hit := q.ix.tris[item].Intersect(q.origin, q.dir); hit && dist < q.best {
				q.best = dist
				q.hit = item
			}
		}
		return
	}

	var children [8]childEntry
	n := q.ix.orderChildren(c, q.origin, q.dir, q.best, &children)
	for k := 0; k < n; k++ {
		// Children are sorted by entry distance so nothing past the current
		// best hit can improve on it.
		if children[k].tNear > q.best {
			return
		}
		q.visit(children[k].cell)
	}
}

type occlusionQuery struct {
	ix          *Index
	origin, dir types.Vec3
	maxDistance float32
}

func (q *occlusionQuery) visit(cellIndex int32) bool {
	c := &q.ix.cells[cellIndex]

	if !c.branch {
		for _, item := range q.ix.items[c.first : c.first+c.count] {
			dist, hit := q.ix.tris[item].Intersect(q.origin, q.dir)
			if hit && dist > scene.Epsilon && dist < q.maxDistance {
				return true
			}
		}
		return false
	}

	var children [8]childEntry
	n := q.ix.orderChildren(c, q.origin, q.dir, q.maxDistance, &children)
	for k := 0; k < n; k++ {
		if q.visit(children[k].cell) {
			return true
		}
	}
	return false
}

// Collect the children of c intersected by the ray no further than limit,
// sorted by increasing entry distance. Returns the number of entries written.
func (ix *Index) orderChildren(c *cell, origin, dir types.Vec3, limit float32, out *[8]childEntry) int {
	n := 0
	for _, child := range c.children {
		if child == noCell {
			continue
		}

		tNear, tFar, ok := ix.cells[child].slab.Intersect(origin, dir)
		if !ok || tFar < 0 {
			continue
		}
		if tNear < 0 {
			tNear = 0
		}
		if tNear > limit {
			continue
		}

		// Insertion sort; ties keep octant order
		k := n
		for ; k > 0 && out[k-1].tNear > tNear; k-- {
			out[k] = out[k-1]
		}
		out[k] = childEntry{cell: child, tNear: tNear}
		n++
	}
	return n
}
