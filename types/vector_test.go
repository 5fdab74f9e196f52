package types

import (
	"errors"
	"math"
	"testing"
)

func TestVectorAlgebra(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, -5, 6)

	type spec struct {
		name string
		got  Vec3
		exp  Vec3
	}
	specs := []spec{
		{"add", a.Add(b), Vec3{5, -3, 9}},
		{"sub", a.Sub(b), Vec3{-3, 7, -3}},
		{"mulVec", a.MulVec(b), Vec3{4, -10, 18}},
		{"mul", a.Mul(2), Vec3{2, 4, 6}},
		{"div", XYZ(2, 4, 8).Div(2), Vec3{1, 2, 4}},
		{"div rounding", XYZ(3, 5, 6).Div(7), Vec3{float32(3) / 7, float32(5) / 7, float32(6) / 7}},
		{"neg", a.Neg(), Vec3{-1, -2, -3}},
		{"cross", XYZ(1, 0, 0).Cross(XYZ(0, 1, 0)), Vec3{0, 0, 1}},
		{"cross anticommutes", XYZ(0, 1, 0).Cross(XYZ(1, 0, 0)), Vec3{0, 0, -1}},
		{"min", MinVec3(a, b), Vec3{1, -5, 3}},
		{"max", MaxVec3(a, b), Vec3{4, 2, 6}},
	}

	for _, s := range specs {
		if s.got != s.exp {
			t.Fatalf("[%s] expected %v; got %v", s.name, s.exp, s.got)
		}
	}

	// Division rounds once per component, unlike multiplying by 1/s
	if q, r := XYZ(3, 0, 0).Div(7), XYZ(3, 0, 0).Mul(1.0/7); q[0] == r[0] {
		t.Fatalf("expected %v to differ from %v in the last place", q, r)
	}

	if dot := a.Dot(b); dot != 12 {
		t.Fatalf("expected dot product to be 12; got %f", dot)
	}
}

func TestNormalize(t *testing.T) {
	v := XYZ(3, 0, 4).Normalize()
	if math.Abs(float64(v.Len())-1) > 1e-6 {
		t.Fatalf("expected unit length; got %f", v.Len())
	}

	exp := Vec3{0.6, 0, 0.8}
	for i := 0; i < 3; i++ {
		if math.Abs(float64(v[i]-exp[i])) > 1e-6 {
			t.Fatalf("expected normalized vector %v; got %v", exp, v)
		}
	}

	z := Zero.Normalize()
	if z != Zero {
		t.Fatalf("expected zero vector to normalize to zero; got %v", z)
	}
	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(z[i])) || math.IsInf(float64(z[i]), 0) {
			t.Fatalf("expected finite components; got %v", z)
		}
	}
}

func TestClamp(t *testing.T) {
	type spec struct {
		in  Vec3
		exp Vec3
	}
	specs := []spec{
		{Vec3{-1, 0.5, 2}, Vec3{0, 0.5, 1}},
		{Vec3{0, 1, 0.25}, Vec3{0, 1, 0.25}},
		{Vec3{-0.1, -3, 7}, Vec3{0, 0, 1}},
	}

	for index, s := range specs {
		got := s.in.Clamp(Zero, One)
		if got != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}

	got := Vec3{-4, 1e38, 2}.Clamp(Zero, MaxVec)
	if exp := (Vec3{0, 1e38, 2}); got != exp {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestIsZero(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatal("expected zero vector to be zero")
	}
	if (Vec3{0, 0, 1e-30}).IsZero() {
		t.Fatal("expected vector with a tiny component not to be zero")
	}
	negZero := float32(math.Copysign(0, -1))
	if !(Vec3{negZero, 0, 0}).IsZero() {
		t.Fatal("expected negative zero to compare equal to zero")
	}
}

func TestIndexedAccess(t *testing.T) {
	v := XYZ(7, 8, 9)
	for i := 0; i < 3; i++ {
		c, err := v.At(i)
		if err != nil {
			t.Fatal(err)
		}
		if c != v[i] {
			t.Fatalf("expected component %d to be %f; got %f", i, v[i], c)
		}
	}

	for _, i := range []int{-1, 3, 100} {
		_, err := v.At(i)
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("expected index %d to fail with ErrIndexOutOfRange; got %v", i, err)
		}
	}
}
