package scene

import (
	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/types"
)

// Fraction of generated triangles that emit light.
const emissiveRatio float32 = 1.0 / 16.0

// Generate n triangles scattered inside the box [min, max]. Each triangle
// fits in a cube with the given edge size centred at a uniformly distributed
// point, so all vertices stay inside the box. The output only depends on the
// generator state.
func RandomTriangles(rng *random.Mwc, n int, min, max types.Vec3, size float32) []Triangle {
	half := size * 0.5
	lo := min.Add(types.Vec3{half, half, half})
	hi := max.Sub(types.Vec3{half, half, half})
	for axis := 0; axis < 3; axis++ {
		if hi[axis] < lo[axis] {
			mid := (min[axis] + max[axis]) * 0.5
			lo[axis], hi[axis] = mid, mid
		}
	}

	tris := make([]Triangle, 0, n)
	for i := 0; i < n; i++ {
		center := types.Vec3{
			lo[0] + rng.Float32()*(hi[0]-lo[0]),
			lo[1] + rng.Float32()*(hi[1]-lo[1]),
			lo[2] + rng.Float32()*(hi[2]-lo[2]),
		}

		var vertices [3]types.Vec3
		for v := 0; v < 3; v++ {
			vertices[v] = center.Add(types.Vec3{
				(rng.Float32() - 0.5) * size,
				(rng.Float32() - 0.5) * size,
				(rng.Float32() - 0.5) * size,
			})
		}

		reflectivity := types.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
		var emissivity types.Vec3
		if rng.Float32() < emissiveRatio {
			emissivity = types.Vec3{10, 10, 10}
		}

		tris = append(tris, NewTriangle(vertices[0], vertices[1], vertices[2], reflectivity, emissivity))
	}

	return tris
}
