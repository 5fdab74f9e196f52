package scene

import (
	"math"

	"github.com/achilleasa/minilight/types"
)

// Bound is an axis-aligned box stored as min x,y,z followed by max x,y,z.
type Bound [6]float32

// Create a bound containing a single point.
func PointBound(p types.Vec3) Bound {
	return Bound{p[0], p[1], p[2], p[0], p[1], p[2]}
}

// Get the min corner.
func (b Bound) Min() types.Vec3 {
	return types.Vec3{b[0], b[1], b[2]}
}

// Get the max corner.
func (b Bound) Max() types.Vec3 {
	return types.Vec3{b[3], b[4], b[5]}
}

// Get the bound centre.
func (b Bound) Center() types.Vec3 {
	return types.Vec3{
		(b[0] + b[3]) * 0.5,
		(b[1] + b[4]) * 0.5,
		(b[2] + b[5]) * 0.5,
	}
}

// Get the per-axis extent.
func (b Bound) Size() types.Vec3 {
	return types.Vec3{b[3] - b[0], b[4] - b[1], b[5] - b[2]}
}

// Widen the bound so it also contains other. Each side only moves outwards.
func (b Bound) Union(other Bound) Bound {
	for j := 0; j < 6; j++ {
		if (b[j] > other[j]) != (j > 2) {
			b[j] = other[j]
		}
	}
	return b
}

// Make the bound cubical: every axis gets the largest extent, centred on the
// original centre of that axis.
func (b Bound) Cubical() Bound {
	var maxSize float32
	for i := 0; i < 3; i++ {
		if size := b[i+3] - b[i]; size > maxSize {
			maxSize = size
		}
	}

	half := maxSize * 0.5
	out := b
	for i := 0; i < 3; i++ {
		center := (b[i] + b[i+3]) * 0.5
		out[i] = center - half
		out[i+3] = center + half

		// Rounding must never shrink the bound
		if out[i] > b[i] {
			out[i] = b[i]
		}
		if out[i+3] < b[i+3] {
			out[i+3] = b[i+3]
		}
	}
	return out
}

// Get the bound of octant s (0..7). Bit i of s selects the upper half of axis i.
func (b Bound) Octant(s int) Bound {
	var sub Bound
	for j := 0; j < 6; j++ {
		m := j % 3
		upper := (s>>uint(m))&1 == 1
		if upper != (j > 2) {
			sub[j] = (b[m] + b[m+3]) * 0.5
		} else {
			sub[j] = b[j]
		}
	}
	return sub
}

// Returns true if b overlaps cell. The test is closed on the lower side of
// cell and open on its upper side.
func (b Bound) Overlaps(cell Bound) bool {
	return b[3] >= cell[0] && b[0] < cell[3] &&
		b[4] >= cell[1] && b[1] < cell[4] &&
		b[5] >= cell[2] && b[2] < cell[5]
}

// Returns true if other lies inside or on b.
func (b Bound) Encloses(other Bound) bool {
	return other[0] >= b[0] && other[3] <= b[3] &&
		other[1] >= b[1] && other[4] <= b[4] &&
		other[2] >= b[2] && other[5] <= b[5]
}

// Returns true if p lies inside or on the bound.
func (b Bound) Contains(p types.Vec3) bool {
	return p[0] >= b[0] && p[0] <= b[3] &&
		p[1] >= b[1] && p[1] <= b[4] &&
		p[2] >= b[2] && p[2] <= b[5]
}

// Grow the bound by d on every side.
func (b Bound) Pad(d float32) Bound {
	return Bound{b[0] - d, b[1] - d, b[2] - d, b[3] + d, b[4] + d, b[5] + d}
}

// Intersect a ray with the bound using the slab method and return the
// parametric entry and exit distances. The direction does not need to be
// normalized; axes where it is zero only test whether the origin lies
// within the slab.
func (b Bound) Intersect(origin, dir types.Vec3) (tNear, tFar float32, ok bool) {
	tNear = -math.MaxFloat32
	tFar = math.MaxFloat32

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < b[axis] || origin[axis] > b[axis+3] {
				return 0, 0, false
			}
			continue
		}

		invDir := 1.0 / dir[axis]
		t1 := (b[axis] - origin[axis]) * invDir
		t2 := (b[axis+3] - origin[axis]) * invDir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear = t1
		}
		if t2 < tFar {
			tFar = t2
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}

	return tNear, tFar, true
}
