package ai

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// Steering primitives shared by every archetype. Each one applies an
// acceleration (or impulse) and then clamps velocity to MaxSpeed.

// acceleration is the per-second velocity change available to the unit
func (s *EnemyShip) acceleration() float64 {
	return s.MaxSpeed() * AccelerationFactor
}

// accelerate pushes velocity along dir for dt seconds and clamps
func (s *EnemyShip) accelerate(dir game.Vec3, dt float64) {
	if dir.IsZero() {
		return
	}
	s.Velocity = s.Velocity.Add(dir.Normalize().Scale(s.acceleration() * dt)).ClampLen(s.MaxSpeed())
}

// impulse adds an instantaneous velocity change of the given magnitude and clamps
func (s *EnemyShip) impulse(dir game.Vec3, magnitude float64) {
	if dir.IsZero() {
		return
	}
	s.Velocity = s.Velocity.Add(dir.Normalize().Scale(magnitude)).ClampLen(s.MaxSpeed())
}

// brake decays velocity exponentially toward zero
func (s *EnemyShip) brake(dt float64) {
	s.Velocity = s.Velocity.Scale(math.Exp(-FormationFriction * dt))
}

// lateral returns a random side perpendicular to dir
func (s *EnemyShip) lateral(dir game.Vec3) game.Vec3 {
	side := dir.Perpendicular()
	if s.rng.Float64() < 0.5 {
		side = side.Scale(-1)
	}
	return side
}

// Idle occasionally drifts in a random direction
func (s *EnemyShip) Idle(dt float64) {
	if roll(s.rng, IdleNudgeChance) {
		s.impulse(randomDirection(s.rng), IdleNudgeFactor*s.Speed)
	}
}

// Pursue accelerates toward a point
func (s *EnemyShip) Pursue(target game.Vec3, dt float64) {
	s.accelerate(target.Sub(s.Position), dt)
}

// Retreat accelerates directly away from a point
func (s *EnemyShip) Retreat(threat game.Vec3, dt float64) {
	away := s.Position.Sub(threat)
	if away.IsZero() {
		// On top of the threat, back off along the reverse heading
		away = s.Heading.Scale(-1)
	}
	s.accelerate(away, dt)
}

// Orbit circles center at radius: a tangential push plus a radial correction
// proportional to the radius error.
func (s *EnemyShip) Orbit(center game.Vec3, radius, dt float64) {
	offset := s.Position.Sub(center)
	dist := offset.Len()
	radial := offset.Normalize()
	if radial.IsZero() {
		radial = s.Heading.Normalize()
	}

	tangent := radial.Cross(game.Up).Normalize()
	if tangent.IsZero() {
		tangent = radial.Perpendicular()
	}

	// Positive error (too far out) pulls inward
	correction := radial.Scale(-(dist - radius) * CircleCorrectionGain)
	s.accelerate(tangent.Add(correction), dt)
}

// AttackRun pursues and occasionally jukes sideways
func (s *EnemyShip) AttackRun(target game.Vec3, dt float64) {
	s.Pursue(target, dt)
	if roll(s.rng, JukeChance) {
		s.impulse(s.lateral(target.Sub(s.Position)), JukeFactor*s.Speed)
	}
}

// Evade retreats along a sinusoidal zig-zag perpendicular to the escape line
func (s *EnemyShip) Evade(threat game.Vec3, dt float64) {
	away := s.Position.Sub(threat).Normalize()
	if away.IsZero() {
		away = s.Heading.Scale(-1).Normalize()
	}
	zig := away.Perpendicular().Scale(math.Sin(s.clock*EvadeFrequency) * EvadeAmplitude)
	s.accelerate(away.Add(zig).Normalize(), dt)
}

// InterceptTarget accelerates toward the solved intercept point
func (s *EnemyShip) InterceptTarget(target *game.PlayerSnapshot, dt float64) {
	if target == nil {
		return
	}
	aim := InterceptPoint(s.Position, target.Position, target.Velocity, s.MaxSpeed())
	s.Pursue(aim, dt)
}

// FlyFormation steers to the assigned formation point and brakes on station
func (s *EnemyShip) FlyFormation(dt float64) {
	if !s.HasFormation {
		s.brake(dt)
		return
	}
	to := s.FormationTarget.Sub(s.Position)
	if to.Len() <= FormationArriveRadius {
		s.brake(dt)
		return
	}
	s.accelerate(to, dt)
}
