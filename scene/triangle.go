package scene

import (
	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/types"
	"github.com/chewxy/math32"
)

const (
	// Relative padding and intersection threshold.
	Epsilon float32 = 1.0 / 1048576.0

	// Fixed padding. One mm seems reasonable at typical scene scale.
	Tolerance float32 = 1.0 / 1024.0
)

// A triangle primitive. Triangles are created once by the scene loader and
// are read-only afterwards, so they can be shared between goroutines and
// referenced from multiple index cells.
type Triangle struct {
	vertices [3]types.Vec3

	reflectivity types.Vec3
	emissivity   types.Vec3
}

// Create new triangle. The vertex order defines the winding and therefore the
// normal direction. Reflectivity is clamped to [0, 1] and emissivity to
// [0, MaxFloat32].
func NewTriangle(v0, v1, v2 types.Vec3, reflectivity, emissivity types.Vec3) Triangle {
	return Triangle{
		vertices:     [3]types.Vec3{v0, v1, v2},
		reflectivity: reflectivity.Clamp(types.Zero, types.One),
		emissivity:   emissivity.Clamp(types.Zero, types.MaxVec),
	}
}

func (t *Triangle) Vertices() [3]types.Vec3 {
	return t.vertices
}

func (t *Triangle) Reflectivity() types.Vec3 {
	return t.reflectivity
}

func (t *Triangle) Emissivity() types.Vec3 {
	return t.emissivity
}

// Returns true if the triangle emits light.
func (t *Triangle) IsEmissive() bool {
	return !t.emissivity.IsZero()
}

// Get the padded axis-aligned bound of the triangle.
func (t *Triangle) Bound() Bound {
	var b Bound
	for j := 0; j < 6; j++ {
		b[j] = t.vertices[2][j%3]
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < 6; j++ {
			m := j % 3
			c := t.vertices[i][m]

			// The proportional part keeps some padding for large coordinates
			// where the fixed part falls below float32 resolution.
			pad := math32.Abs(c)*Epsilon + Tolerance
			if j < 3 {
				if v := c - pad; v < b[j] {
					b[j] = v
				}
			} else {
				if v := c + pad; v > b[j] {
					b[j] = v
				}
			}
		}
	}

	return b
}

// Intersect a ray with the triangle using the Möller-Trumbore algorithm and
// return the distance along the ray, measured in units of the direction
// vector length. Rays parallel to the triangle plane and hits behind the
// origin are rejected.
func (t *Triangle) Intersect(origin, dir types.Vec3) (float32, bool) {
	edge1 := t.vertices[1].Sub(t.vertices[0])
	edge2 := t.vertices[2].Sub(t.vertices[0])

	pVec := dir.Cross(edge2)
	det := edge1.Dot(pVec)
	if det > -Epsilon && det < Epsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tVec := origin.Sub(t.vertices[0])
	u := tVec.Dot(pVec) * invDet
	if u < -Epsilon || u > 1+Epsilon {
		return 0, false
	}

	qVec := tVec.Cross(edge1)
	v := dir.Dot(qVec) * invDet
	if v < -Epsilon || u+v > 1+Epsilon {
		return 0, false
	}

	dist := edge2.Dot(qVec) * invDet
	if dist < 0 {
		return 0, false
	}
	return dist, true
}

// Pick a point on the triangle with uniform area density using two draws
// from rng.
func (t *Triangle) SamplePoint(rng *random.Mwc) types.Vec3 {
	sqrt1 := math32.Sqrt(rng.Float32())
	r2 := rng.Float32()

	a := 1.0 - sqrt1
	b := (1.0 - r2) * sqrt1

	return t.vertices[1].Sub(t.vertices[0]).Mul(a).
		Add(t.vertices[2].Sub(t.vertices[0]).Mul(b)).
		Add(t.vertices[0])
}

// Get the unit normal. Its orientation follows the vertex winding.
func (t *Triangle) Normal() types.Vec3 {
	return t.Tangent().Cross(t.vertices[2].Sub(t.vertices[1])).Normalize()
}

// Get the unit tangent along the first edge.
func (t *Triangle) Tangent() types.Vec3 {
	return t.vertices[1].Sub(t.vertices[0]).Normalize()
}

// Get the triangle area.
func (t *Triangle) Area() float32 {
	pa2 := t.vertices[1].Sub(t.vertices[0]).Cross(t.vertices[2].Sub(t.vertices[1]))
	return pa2.Len() * 0.5
}

// Get the triangle centroid.
func (t *Triangle) Centroid() types.Vec3 {
	return t.vertices[0].Add(t.vertices[1]).Add(t.vertices[2]).Mul(1.0 / 3.0)
}
