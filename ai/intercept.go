package ai

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// degenerateEpsilon is the |a| below which the intercept quadratic is treated as linear
const degenerateEpsilon = 1e-9

// InterceptSolution contains the result of an intercept calculation
type InterceptSolution struct {
	Point     game.Vec3 // Where to aim
	Time      float64   // Seconds until the meeting, after clamping
	Predicted bool      // false when the solver fell back to the current target position
}

// SolveIntercept finds where a pursuer (or projectile) moving at closingSpeed
// from shooterPos can first meet a target moving at constant targetVel.
//
// It solves a*t² + b*t + c = 0 for the meeting time t, where
//
//	a = |targetVel|² - closingSpeed²
//	b = 2 * dot(targetVel, targetPos - shooterPos)
//	c = |targetPos - shooterPos|²
//
// A negative discriminant, a near-zero a, or a non-positive closing speed falls
// back to the target's current position. Otherwise the smaller non-negative root
// is used (the other root when the smaller is negative), clamped to [0, horizon].
func SolveIntercept(shooterPos, targetPos, targetVel game.Vec3, closingSpeed, horizon float64) InterceptSolution {
	fallback := InterceptSolution{Point: targetPos}

	if closingSpeed <= 0 || math.IsNaN(closingSpeed) {
		return fallback
	}

	// Relative position (target relative to shooter)
	rel := targetPos.Sub(shooterPos)

	a := targetVel.LenSq() - closingSpeed*closingSpeed
	b := 2.0 * targetVel.Dot(rel)
	c := rel.LenSq()

	// Equal speeds make the equation linear; aim at the current position instead
	if math.Abs(a) < degenerateEpsilon {
		return fallback
	}

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		// No real solution - target outruns the pursuer on every course
		return fallback
	}

	sqrtDiscriminant := math.Sqrt(discriminant)
	t1 := (-b - sqrtDiscriminant) / (2 * a)
	t2 := (-b + sqrtDiscriminant) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}

	t := t1
	if t < 0 {
		t = t2
	}

	// Clamp to the prediction horizon
	if t < 0 {
		t = 0
	}
	if horizon >= 0 && t > horizon {
		t = horizon
	}

	return InterceptSolution{
		Point:     targetPos.Add(targetVel.Scale(t)),
		Time:      t,
		Predicted: true,
	}
}

// InterceptPoint returns only the aim point using the default prediction horizon
func InterceptPoint(shooterPos, targetPos, targetVel game.Vec3, closingSpeed float64) game.Vec3 {
	return SolveIntercept(shooterPos, targetPos, targetVel, closingSpeed, InterceptHorizon).Point
}

// LeadDirection returns the unit firing direction for a projectile of the given
// speed, falling back to a direct shot when no lead is possible.
func LeadDirection(shooterPos, targetPos, targetVel game.Vec3, projectileSpeed float64) game.Vec3 {
	aim := InterceptPoint(shooterPos, targetPos, targetVel, projectileSpeed)
	dir := aim.Sub(shooterPos).Normalize()
	if dir.IsZero() {
		return targetPos.Sub(shooterPos).Normalize()
	}
	return dir
}
