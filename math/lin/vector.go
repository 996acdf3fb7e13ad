package lin

import "math"

// Vec3 is a 3 element vector used for positions, velocities and
// accelerations. Methods return a new Vec3 rather than mutating the
// receiver: scene component arrays hold Vec3 by value, so there is no
// shared state for a mutating API to protect and a value result composes
// more naturally with struct literals.
type Vec3 struct {
	X, Y, Z float64
}

// Zero3 is the zero vector.
var Zero3 = Vec3{}

// Add returns v + a.
func (v Vec3) Add(a Vec3) Vec3 { return Vec3{v.X + a.X, v.Y + a.Y, v.Z + a.Z} }

// Sub returns v - a.
func (v Vec3) Sub(a Vec3) Vec3 { return Vec3{v.X - a.X, v.Y - a.Y, v.Z - a.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Neg returns -v.
func (v Vec3) Neg() Vec3 { return Vec3{-v.X, -v.Y, -v.Z} }

// Dot returns the dot product of v and a.
func (v Vec3) Dot(a Vec3) float64 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross returns the cross product of v and a.
func (v Vec3) Cross(a Vec3) Vec3 {
	return Vec3{
		v.Y*a.Z - v.Z*a.Y,
		v.Z*a.X - v.X*a.Z,
		v.X*a.Y - v.Y*a.X,
	}
}

// LenSqr returns the squared length of v.
func (v Vec3) LenSqr() float64 { return v.Dot(v) }

// Len returns the length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.LenSqr()) }

// Dist returns the distance between points v and a.
func (v Vec3) Dist(a Vec3) float64 { return v.Sub(a).Len() }

// Unit returns v scaled to length 1. The zero vector is returned unchanged.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Min returns the componentwise minimum of v and a.
func (v Vec3) Min(a Vec3) Vec3 {
	return Vec3{math.Min(v.X, a.X), math.Min(v.Y, a.Y), math.Min(v.Z, a.Z)}
}

// Max returns the componentwise maximum of v and a.
func (v Vec3) Max(a Vec3) Vec3 {
	return Vec3{math.Max(v.X, a.X), math.Max(v.Y, a.Y), math.Max(v.Z, a.Z)}
}

// Abs returns the componentwise absolute value of v.
func (v Vec3) Abs() Vec3 { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }

// Lerp returns the linear interpolation between v and a by ratio.
func (v Vec3) Lerp(a Vec3, ratio float64) Vec3 {
	return Vec3{Lerp(v.X, a.X, ratio), Lerp(v.Y, a.Y, ratio), Lerp(v.Z, a.Z, ratio)}
}

// Eq (==) reports whether v and a have identical components.
func (v Vec3) Eq(a Vec3) bool { return v.X == a.X && v.Y == a.Y && v.Z == a.Z }

// Aeq (~=) reports whether v and a are equal within Epsilon componentwise.
func (v Vec3) Aeq(a Vec3) bool { return Aeq(v.X, a.X) && Aeq(v.Y, a.Y) && Aeq(v.Z, a.Z) }

// AeqZ (~=) reports whether v is within Epsilon of the zero vector.
func (v Vec3) AeqZ() bool { return v.LenSqr() < Epsilon*Epsilon }
