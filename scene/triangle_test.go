package scene

import (
	"math"
	"testing"

	"github.com/achilleasa/minilight/random"
	"github.com/achilleasa/minilight/types"
)

func unitTriangle() Triangle {
	return NewTriangle(
		types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0),
		types.XYZ(0.5, 0.5, 0.5), types.Zero,
	)
}

func approxEqual(a, b, tolerance float32) bool {
	return math.Abs(float64(a-b)) <= float64(tolerance)
}

func TestUnitTriangleIntersection(t *testing.T) {
	tri := unitTriangle()

	dist, hit := tri.Intersect(types.XYZ(0.2, 0.2, 1), types.XYZ(0, 0, -1))
	if !hit {
		t.Fatal("expected ray through (0.2, 0.2) to hit the triangle")
	}
	if dist != 1 {
		t.Fatalf("expected hit distance to be 1; got %f", dist)
	}

	if _, hit = tri.Intersect(types.XYZ(0.9, 0.9, 1), types.XYZ(0, 0, -1)); hit {
		t.Fatal("expected ray through (0.9, 0.9) to miss the triangle")
	}
}

func TestIntersectionEdgeCases(t *testing.T) {
	tri := unitTriangle()

	type spec struct {
		name   string
		origin types.Vec3
		dir    types.Vec3
		expHit bool
		expT   float32
	}
	specs := []spec{
		{"back face", types.XYZ(0.25, 0.25, -2), types.XYZ(0, 0, 1), true, 2},
		{"behind origin", types.XYZ(0.25, 0.25, -1), types.XYZ(0, 0, -1), false, 0},
		{"origin on surface", types.XYZ(0.25, 0.25, 0), types.XYZ(0, 0, -1), true, 0},
		{"parallel to plane", types.XYZ(-1, 0.2, 0), types.XYZ(1, 0, 0), false, 0},
		{"zero direction", types.XYZ(0.2, 0.2, 1), types.Zero, false, 0},
		{"unnormalized direction", types.XYZ(0.2, 0.2, 4), types.XYZ(0, 0, -2), true, 2},
		{"outside u", types.XYZ(-0.1, 0.5, 1), types.XYZ(0, 0, -1), false, 0},
		{"outside v", types.XYZ(0.5, -0.1, 1), types.XYZ(0, 0, -1), false, 0},
		{"on hypotenuse", types.XYZ(0.5, 0.5, 1), types.XYZ(0, 0, -1), true, 1},
	}

	for _, s := range specs {
		dist, hit := tri.Intersect(s.origin, s.dir)
		if hit != s.expHit {
			t.Fatalf("[%s] expected hit to be %t; got %t", s.name, s.expHit, hit)
		}
		if hit && !approxEqual(dist, s.expT, 1e-6) {
			t.Fatalf("[%s] expected distance %f; got %f", s.name, s.expT, dist)
		}
	}
}

func TestRaysAimedAtVertices(t *testing.T) {
	tris := []Triangle{
		unitTriangle(),
		NewTriangle(types.XYZ(1, 2, 3), types.XYZ(4, 1, 2), types.XYZ(2, 5, 1), types.One, types.Zero),
		NewTriangle(types.XYZ(-3, 0.5, 2), types.XYZ(-1, 2, -1), types.XYZ(0.5, -2, 0), types.One, types.Zero),
		NewTriangle(types.XYZ(10, 10, 10), types.XYZ(10.5, 10, 10), types.XYZ(10, 10.25, 10.75), types.One, types.Zero),
	}

	for triIndex, tri := range tris {
		n := tri.Normal()
		for vIndex, vertex := range tri.Vertices() {
			origin := vertex.Add(n)
			dist, hit := tri.Intersect(origin, n.Neg())
			if !hit {
				t.Fatalf("[tri %d] expected ray aimed at vertex %d to hit", triIndex, vIndex)
			}
			if !approxEqual(dist, 1, 1e-4) {
				t.Fatalf("[tri %d] expected ray aimed at vertex %d to hit at distance 1; got %f", triIndex, vIndex, dist)
			}
		}
	}
}

func TestDegenerateTriangle(t *testing.T) {
	tri := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(1, 1, 1), types.XYZ(2, 2, 2), types.One, types.Zero)

	if area := tri.Area(); area != 0 {
		t.Fatalf("expected zero area; got %f", area)
	}
	if n := tri.Normal(); !n.IsZero() {
		t.Fatalf("expected zero normal for collinear vertices; got %v", n)
	}
	if _, hit := tri.Intersect(types.XYZ(1, 0, 0), types.XYZ(-1, 1, 0)); hit {
		t.Fatal("expected degenerate triangle to reject the ray")
	}

	b := tri.Bound()
	for j := 0; j < 6; j++ {
		if math.IsNaN(float64(b[j])) || math.IsInf(float64(b[j]), 0) {
			t.Fatalf("expected finite bound; got %v", b)
		}
	}
}

func TestTriangleBound(t *testing.T) {
	tri := unitTriangle()
	b := tri.Bound()

	type spec struct {
		index int
		min   float32
		max   float32
	}
	specs := []spec{
		// min side: coordinate 0 is padded by the fixed tolerance only
		{0, -Tolerance - 1e-7, -Tolerance + 1e-7},
		{1, -Tolerance - 1e-7, -Tolerance + 1e-7},
		{2, -Tolerance - 1e-7, -Tolerance + 1e-7},
		// max side: coordinate 1 adds the proportional part too
		{3, 1 + Tolerance + Epsilon - 1e-6, 1 + Tolerance + Epsilon + 1e-6},
		{4, 1 + Tolerance + Epsilon - 1e-6, 1 + Tolerance + Epsilon + 1e-6},
		{5, Tolerance - 1e-7, Tolerance + 1e-7},
	}

	for _, s := range specs {
		if b[s.index] < s.min || b[s.index] > s.max {
			t.Fatalf("expected bound[%d] to be in [%g, %g]; got %g", s.index, s.min, s.max, b[s.index])
		}
	}

	// Large coordinates still get padding through the proportional term
	far := NewTriangle(types.XYZ(1e7, 0, 0), types.XYZ(1e7, 1, 0), types.XYZ(1e7, 0, 1), types.One, types.Zero)
	fb := far.Bound()
	if !(fb[0] < 1e7) || !(fb[3] > 1e7) {
		t.Fatalf("expected padding around x=1e7; got %v", fb)
	}
}

func TestTriangleAttributes(t *testing.T) {
	tri := unitTriangle()

	if area := tri.Area(); area != 0.5 {
		t.Fatalf("expected area 0.5; got %f", area)
	}
	if n := tri.Normal(); n != types.XYZ(0, 0, 1) {
		t.Fatalf("expected normal (0, 0, 1); got %v", n)
	}
	if tg := tri.Tangent(); tg != types.XYZ(1, 0, 0) {
		t.Fatalf("expected tangent (1, 0, 0); got %v", tg)
	}

	flipped := NewTriangle(types.XYZ(0, 0, 0), types.XYZ(0, 1, 0), types.XYZ(1, 0, 0), types.One, types.Zero)
	if n := flipped.Normal(); n != types.XYZ(0, 0, -1) {
		t.Fatalf("expected reversed winding to flip the normal; got %v", n)
	}
}

func TestMaterialClamping(t *testing.T) {
	tri := NewTriangle(
		types.XYZ(0, 0, 0), types.XYZ(1, 0, 0), types.XYZ(0, 1, 0),
		types.XYZ(2, -1, 0.5), types.XYZ(-1, 5, 1e30),
	)

	if exp := types.XYZ(1, 0, 0.5); tri.Reflectivity() != exp {
		t.Fatalf("expected reflectivity %v; got %v", exp, tri.Reflectivity())
	}
	if exp := types.XYZ(0, 5, 1e30); tri.Emissivity() != exp {
		t.Fatalf("expected emissivity %v; got %v", exp, tri.Emissivity())
	}
	if !tri.IsEmissive() {
		t.Fatal("expected triangle to be emissive")
	}
	if unit := unitTriangle(); unit.IsEmissive() {
		t.Fatal("expected triangle with zero emissivity not to be emissive")
	}
}

func TestSamplePoint(t *testing.T) {
	tri := NewTriangle(types.XYZ(1, 0, 0), types.XYZ(3, 0, 0), types.XYZ(1, 2, 0), types.One, types.Zero)
	rng := random.New(11)

	const samples = 20000
	var sum types.Vec3
	for i := 0; i < samples; i++ {
		p := tri.SamplePoint(rng)
		sum = sum.Add(p)

		// Inside test for the right triangle x >= 1, y >= 0, (x-1) + y <= 2
		if p[2] != 0 || p[0] < 1-1e-5 || p[1] < -1e-5 || (p[0]-1)+p[1] > 2+1e-5 {
			t.Fatalf("[sample %d] expected point inside the triangle; got %v", i, p)
		}
	}

	mean := sum.Mul(1.0 / samples)
	centroid := tri.Centroid()
	for axis := 0; axis < 2; axis++ {
		if !approxEqual(mean[axis], centroid[axis], 0.02) {
			t.Fatalf("expected sample mean %v to approach the centroid %v", mean, centroid)
		}
	}

	// Same seed, same points
	p1 := tri.SamplePoint(random.New(99))
	p2 := tri.SamplePoint(random.New(99))
	if p1 != p2 {
		t.Fatalf("expected identical samples for identical seeds; got %v and %v", p1, p2)
	}
}
