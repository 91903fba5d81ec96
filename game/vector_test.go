package game

import (
	"math"
	"testing"
)

const vecTolerance = 1e-9

func TestClampLen(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		max      float64
		expected float64
	}{
		{name: "UnderLimit", v: Vec3{X: 3, Y: 4}, max: 10, expected: 5},
		{name: "OverLimit", v: Vec3{X: 30, Y: 40}, max: 10, expected: 10},
		{name: "ExactlyLimit", v: Vec3{X: 6, Y: 8}, max: 10, expected: 10},
		{name: "ZeroVector", v: Vec3{}, max: 10, expected: 0},
		{name: "NonPositiveMax", v: Vec3{X: 1}, max: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.ClampLen(tt.max).Len()
			if math.Abs(got-tt.expected) > vecTolerance {
				t.Errorf("ClampLen(%v, %v) length = %v, expected %v", tt.v, tt.max, got, tt.expected)
			}
		})
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if n := (Vec3{}).Normalize(); n != (Vec3{}) {
		t.Errorf("Normalize of zero vector = %v, expected zero", n)
	}
	n := Vec3{X: 0, Y: -7, Z: 0}.Normalize()
	if math.Abs(n.Len()-1) > vecTolerance || n.Y != -1 {
		t.Errorf("Normalize(0,-7,0) = %v, expected (0,-1,0)", n)
	}
}

func TestPerpendicular(t *testing.T) {
	inputs := []Vec3{
		{X: 1},
		{X: 1, Y: 1},
		{Z: 1}, // parallel to Up
		{X: -2, Y: 5, Z: 3},
	}
	for _, v := range inputs {
		p := v.Perpendicular()
		if math.Abs(p.Len()-1) > vecTolerance {
			t.Errorf("Perpendicular(%v) = %v is not unit length", v, p)
		}
		if math.Abs(p.Dot(v)) > vecTolerance {
			t.Errorf("Perpendicular(%v) = %v is not orthogonal (dot %v)", v, p, p.Dot(v))
		}
	}
}

func TestRotateToward(t *testing.T) {
	from := Vec3{X: 1}
	to := Vec3{Y: 1}

	// Large budget snaps straight to the target
	if got := RotateToward(from, to, math.Pi); Distance(got, to) > vecTolerance {
		t.Errorf("RotateToward with full budget = %v, expected %v", got, to)
	}

	// Limited budget turns by exactly the budget
	step := math.Pi / 8
	got := RotateToward(from, to, step)
	if angle := AngleBetween(from, got); math.Abs(angle-step) > 1e-6 {
		t.Errorf("RotateToward turned %v rad, expected %v", angle, step)
	}
	if math.Abs(got.Len()-1) > vecTolerance {
		t.Errorf("RotateToward result %v is not unit length", got)
	}

	// Opposite vectors still make progress
	got = RotateToward(from, Vec3{X: -1}, step)
	if angle := AngleBetween(from, got); math.Abs(angle-step) > 1e-6 {
		t.Errorf("RotateToward opposite turned %v rad, expected %v", angle, step)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, expected float64
	}{
		{0, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, expected %v", tt.in, got, tt.expected)
		}
	}
}
