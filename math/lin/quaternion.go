package lin

import "math"

// Quat is a unit length quaternion representing a 3D rotation.
// See http://3dgep.com/?p=1815 for a derivation of the operations below.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity is the identity rotation. It should never be mutated;
// Quat values are always copied, never aliased, so this is safe to share.
var QuatIdentity = Quat{0, 0, 0, 1}

// Mult returns the quaternion product q*r: applying rotation r followed by
// rotation q. Quaternion multiplication is not commutative.
func (q Quat) Mult(r Quat) Quat {
	return Quat{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Conjugate returns the conjugate of q, which is its inverse when q is
// unit length.
func (q Quat) Conjugate() Quat { return Quat{-q.X, -q.Y, -q.Z, q.W} }

// Dot returns the dot product of q and r.
func (q Quat) Dot(r Quat) float64 { return q.X*r.X + q.Y*r.Y + q.Z*r.Z + q.W*r.W }

// Len returns the length of q.
func (q Quat) Len() float64 { return math.Sqrt(q.Dot(q)) }

// Unit returns q normalized to length 1. The zero quaternion is returned
// unchanged.
func (q Quat) Unit() Quat {
	l := q.Len()
	if l == 0 {
		return q
	}
	inv := 1 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Eq (==) reports whether q and r have identical components.
func (q Quat) Eq(r Quat) bool { return q.X == r.X && q.Y == r.Y && q.Z == r.Z && q.W == r.W }

// Aeq (~=) reports whether q and r are equal within Epsilon componentwise.
func (q Quat) Aeq(r Quat) bool {
	return Aeq(q.X, r.X) && Aeq(q.Y, r.Y) && Aeq(q.Z, r.Z) && Aeq(q.W, r.W)
}

// QuatFromAxisAngle returns the rotation of angle radians about axis
// (ax,ay,az). The identity rotation is returned if the axis has zero length.
func QuatFromAxisAngle(ax, ay, az, angle float64) Quat {
	lenSqr := ax*ax + ay*ay + az*az
	if lenSqr == 0 {
		return QuatIdentity
	}
	s := math.Sin(angle*0.5) / math.Sqrt(lenSqr)
	return Quat{ax * s, ay * s, az * s, math.Cos(angle * 0.5)}
}

// Axis returns the axis and angle (radians) of rotation represented by q.
func (q Quat) Axis() (ax, ay, az, angle float64) {
	sinSqr := 1 - q.W*q.W
	if AeqZ(sinSqr) {
		return 1, 0, 0, 2 * math.Acos(Clamp(q.W, -1, 1))
	}
	sin := 1 / math.Sqrt(sinSqr)
	return q.X * sin, q.Y * sin, q.Z * sin, 2 * math.Acos(Clamp(q.W, -1, 1))
}

// Rotate returns v rotated by q.
func (q Quat) Rotate(v Vec3) Vec3 {
	// t = 2 * cross(q.xyz, v)
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// Nlerp returns the normalized linear interpolation between q and r.
// Cheaper than Slerp and adequate when the angle between q and r is small,
// which holds for the per-step spin increments used by the integrator.
func (q Quat) Nlerp(r Quat, ratio float64) Quat {
	d := q.Dot(r)
	s := r
	if d < 0 {
		// take the shorter path.
		s = Quat{-r.X, -r.Y, -r.Z, -r.W}
	}
	return Quat{
		Lerp(q.X, s.X, ratio),
		Lerp(q.Y, s.Y, ratio),
		Lerp(q.Z, s.Z, ratio),
		Lerp(q.W, s.W, ratio),
	}.Unit()
}

// Slerp returns the spherical linear interpolation between q and r by
// ratio in [0,1]. Falls back to Nlerp when q and r are nearly parallel,
// where the slerp formula is numerically unstable.
func (q Quat) Slerp(r Quat, ratio float64) Quat {
	cosHalfTheta := q.Dot(r)
	s := r
	if cosHalfTheta < 0 {
		s = Quat{-r.X, -r.Y, -r.Z, -r.W}
		cosHalfTheta = -cosHalfTheta
	}
	if cosHalfTheta > 1-1e-9 {
		return q.Nlerp(s, ratio)
	}
	halfTheta := math.Acos(cosHalfTheta)
	sinHalfTheta := math.Sqrt(1 - cosHalfTheta*cosHalfTheta)
	a := math.Sin((1-ratio)*halfTheta) / sinHalfTheta
	b := math.Sin(ratio*halfTheta) / sinHalfTheta
	return Quat{
		q.X*a + s.X*b,
		q.Y*a + s.Y*b,
		q.Z*a + s.Z*b,
		q.W*a + s.W*b,
	}.Unit()
}
