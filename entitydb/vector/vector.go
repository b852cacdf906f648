// Package vector provides the 3D vector scalar stored on entities.
package vector

import (
	"fmt"
	"math"
)

// DefaultTolerance is the absolute tolerance used by AlmostEqual.
const DefaultTolerance = 1e-4

// Vector is a position or direction in 3D space.
// It is compared as a single scalar value, never expanded as a collection.
type Vector [3]float64

func New(x, y, z float64) Vector {
	return Vector{x, y, z}
}

// Zero is the origin.
var Zero = Vector{}

func (v Vector) X() float64 { return v[0] }
func (v Vector) Y() float64 { return v[1] }
func (v Vector) Z() float64 { return v[2] }

// IsScalar marks Vector as a scalar for reflective readers.
func (Vector) IsScalar() {}

// Distance returns the Euclidean distance between v and other.
func (v Vector) Distance(other Vector) float64 {
	dx := v[0] - other[0]
	dy := v[1] - other[1]
	dz := v[2] - other[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Equal reports whether v and other are at distance ≈0 within tolerance.
func (v Vector) Equal(other Vector, tolerance float64) bool {
	return AlmostEqual(v.Distance(other), 0, tolerance)
}

func (v Vector) String() string {
	return fmt.Sprintf("<%g %g %g>", v[0], v[1], v[2])
}

// AlmostEqual reports whether a and b differ by no more than tolerance.
func AlmostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
