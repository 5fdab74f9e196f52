package types

import (
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"golang.org/x/image/math/f32"
)

// ErrIndexOutOfRange is returned by Vec3.At for indices outside 0..2.
var ErrIndexOutOfRange = errors.New("types: vector index out of range")

type Vec3 f32.Vec3

var (
	// The zero vector.
	Zero = Vec3{0, 0, 0}

	// A vector with all components set to 1.
	One = Vec3{1, 1, 1}

	// The smallest and largest representable vectors.
	MinVec = Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	MaxVec = Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
)

// Define a 3 component vector.
func XYZ(x, y, z float32) Vec3 {
	return Vec3{x, y, z}
}

// Get the component at index i. Indices outside 0..2 are a caller error.
func (v Vec3) At(i int) (float32, error) {
	if i < 0 || i > 2 {
		return 0, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return v[i], nil
}

// Add a vector.
func (v Vec3) Add(v2 Vec3) Vec3 {
	return Vec3{v[0] + v2[0], v[1] + v2[1], v[2] + v2[2]}
}

// Subtract a vector.
func (v Vec3) Sub(v2 Vec3) Vec3 {
	return Vec3{v[0] - v2[0], v[1] - v2[1], v[2] - v2[2]}
}

// Multiply two vectors componentwise.
func (v Vec3) MulVec(v2 Vec3) Vec3 {
	return Vec3{v[0] * v2[0], v[1] * v2[1], v[2] * v2[2]}
}

// Multiply a 3 component vector with a scalar.
func (v Vec3) Mul(s float32) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Divide a 3 component vector by a scalar. A zero divisor yields the
// IEEE result (infinities or NaN).
func (v Vec3) Div(s float32) Vec3 {
	return Vec3{v[0] / s, v[1] / s, v[2] / s}
}

// Negate vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Get 3 component vector length.
func (v Vec3) Len() float32 {
	return math32.Sqrt(v.Dot(v))
}

// Normalize 3 component vector. The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1.0 / l)
}

// Calculate dot product of 2 vectors
func (v Vec3) Dot(v2 Vec3) float32 {
	return v[0]*v2[0] + v[1]*v2[1] + v[2]*v2[2]
}

// Calculate cross product of 2 vectors.
func (v Vec3) Cross(v2 Vec3) Vec3 {
	return Vec3{v[1]*v2[2] - v[2]*v2[1], v[2]*v2[0] - v[0]*v2[2], v[0]*v2[1] - v[1]*v2[0]}
}

// Clamp each component into the [min, max] range of the matching component.
func (v Vec3) Clamp(min, max Vec3) Vec3 {
	out := v
	for i := 0; i < 3; i++ {
		if out[i] < min[i] {
			out[i] = min[i]
		}
		if out[i] > max[i] {
			out[i] = max[i]
		}
	}
	return out
}

// Returns true if all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// Calc min component from two vectors
func MinVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] < out[0] {
		out[0] = v2[0]
	}
	if v2[1] < out[1] {
		out[1] = v2[1]
	}
	if v2[2] < out[2] {
		out[2] = v2[2]
	}
	return out
}

// Calc maxcomponent from two vectors
func MaxVec3(v1, v2 Vec3) Vec3 {
	out := v1
	if v2[0] > out[0] {
		out[0] = v2[0]
	}
	if v2[1] > out[1] {
		out[1] = v2[1]
	}
	if v2[2] > out[2] {
		out[2] = v2[2]
	}
	return out
}
