package game

import "math"

// vecEpsilon is the squared length below which a vector is treated as zero
const vecEpsilon = 1e-12

// Vec3 is a position, velocity or direction in world space
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Up is the reference axis used to build lateral (perpendicular) directions
var Up = Vec3{Z: 1}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared magnitude
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

// Len returns the magnitude
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// IsZero reports whether the vector is too short to have a direction
func (v Vec3) IsZero() bool {
	return v.LenSq() < vecEpsilon
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// when v has no direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l*l < vecEpsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// ClampLen renormalizes v to exactly max when it is longer than max.
func (v Vec3) ClampLen(max float64) Vec3 {
	if max <= 0 {
		return Vec3{}
	}
	if v.LenSq() > max*max {
		return v.Normalize().Scale(max)
	}
	return v
}

// Perpendicular returns a unit vector orthogonal to v, lying in the plane
// normal to Up where possible.
func (v Vec3) Perpendicular() Vec3 {
	p := v.Cross(Up)
	if p.IsZero() {
		// v is parallel to Up, use a horizontal axis instead
		p = v.Cross(Vec3{Y: 1})
	}
	return p.Normalize()
}

// Distance returns the distance between two points
func Distance(a, b Vec3) float64 {
	return a.Sub(b).Len()
}

// AngleBetween returns the unsigned angle in radians between two vectors.
// Zero-length vectors yield 0.
func AngleBetween(a, b Vec3) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	cos := a.Normalize().Dot(b.Normalize())
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// RotateToward turns unit vector from toward unit vector to by at most maxAngle radians.
func RotateToward(from, to Vec3, maxAngle float64) Vec3 {
	if from.IsZero() {
		return to.Normalize()
	}
	if to.IsZero() {
		return from.Normalize()
	}
	from = from.Normalize()
	to = to.Normalize()
	angle := AngleBetween(from, to)
	if angle <= maxAngle {
		return to
	}
	// Orthonormal axis in the from/to plane
	axis := to.Sub(from.Scale(from.Dot(to)))
	if axis.IsZero() {
		// Opposite directions, any perpendicular works
		axis = from.Perpendicular()
	}
	axis = axis.Normalize()
	return from.Scale(math.Cos(maxAngle)).Add(axis.Scale(math.Sin(maxAngle))).Normalize()
}

// PlanarDirection returns the unit vector at the given angle in the XY plane
func PlanarDirection(angle float64) Vec3 {
	return Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Clamp01 limits a value to [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
