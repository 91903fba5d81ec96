package ai

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// StrikeAssignment places one interceptor in a coordinated strike
type StrikeAssignment struct {
	Index   int
	Size    int
	Members []*EnemyShip
}

// Interceptor is the very fast burst-fire striker. Its boost is a pair of
// deadlines against the ship clock, polled every tick.
type Interceptor struct {
	boostUntil   float64 // Boost active while clock < boostUntil
	boostReadyAt float64 // Next boost allowed once clock >= boostReadyAt
	runUntil     float64 // Hit-and-run deadline
	strike       *StrikeAssignment
	Boosts       int
	Bursts       int
}

func (ic *Interceptor) Kind() game.Archetype { return game.ArchetypeInterceptor }

// BoostActive reports whether the speed boost is running
func (ic *Interceptor) BoostActive(s *EnemyShip) bool {
	return s.clock < ic.boostUntil
}

// BoostAvailable reports whether the boost cooldown has elapsed
func (ic *Interceptor) BoostAvailable(s *EnemyShip) bool {
	return s.clock >= ic.boostReadyAt-timeEpsilon
}

// ActivateBoost starts a boost if available. The next boost becomes available
// BoostCooldown seconds after activation.
func (ic *Interceptor) ActivateBoost(s *EnemyShip) bool {
	if !ic.BoostAvailable(s) {
		return false
	}
	ic.boostUntil = s.clock + BoostDuration
	ic.boostReadyAt = s.clock + BoostCooldown
	ic.Boosts++
	logBoost(s)
	return true
}

// SpeedMultiplier doubles the velocity cap while boosted
func (ic *Interceptor) SpeedMultiplier(s *EnemyShip) float64 {
	if ic.BoostActive(s) {
		return BoostMultiplier
	}
	return 1
}

// Strike returns the current strike assignment, if any
func (ic *Interceptor) Strike() *StrikeAssignment {
	return ic.strike
}

// Assign puts the interceptor into a coordinated strike
func (ic *Interceptor) Assign(a *StrikeAssignment) {
	ic.strike = a
}

// Intercept pursues the solved intercept point, boosting when the target is
// inside the boost window and the boost is available.
func (ic *Interceptor) Intercept(s *EnemyShip, target *game.PlayerSnapshot, dt float64) {
	dist := game.Distance(s.Position, target.Position)
	if dist >= BoostMinDistance && dist <= BoostMaxDistance && ic.BoostAvailable(s) {
		ic.ActivateBoost(s)
	}
	s.InterceptTarget(target, dt)
}

func (ic *Interceptor) Steer(s *EnemyShip, dt float64, target *game.PlayerSnapshot) bool {
	if ic.strike != nil {
		ic.runStrike(s, dt, target)
		return true
	}

	switch s.State {
	case StatePursuing, StateIntercepting:
		ic.Intercept(s, target, dt)
		return true
	case StateAttacking:
		if s.clock < ic.runUntil {
			s.Retreat(target.Position, dt)
		} else {
			ic.spiral(s, target, dt)
		}
		return true
	}
	return false
}

// spiral closes in while circling; the tangential share shrinks with distance
func (ic *Interceptor) spiral(s *EnemyShip, target *game.PlayerSnapshot, dt float64) {
	toTarget := target.Position.Sub(s.Position)
	dist := toTarget.Len()
	radial := toTarget.Normalize()
	if radial.IsZero() {
		return
	}
	tangent := radial.Cross(game.Up).Normalize()
	if tangent.IsZero() {
		tangent = radial.Perpendicular()
	}
	weight := SpiralWeight * game.Clamp01(dist/s.AttackRange)
	s.accelerate(radial.Add(tangent.Scale(weight)), dt)
}

// StrikePoint is the attack position for member index of size around center
func StrikePoint(center game.Vec3, index, size int, radius float64) game.Vec3 {
	if size <= 0 {
		return center
	}
	angle := 2 * math.Pi * float64(index) / float64(size)
	return center.Add(game.PlanarDirection(angle).Scale(radius))
}

// runStrike moves to the assigned attack vector, reports readiness and fires
// once every active member has reported.
func (ic *Interceptor) runStrike(s *EnemyShip, dt float64, target *game.PlayerSnapshot) {
	point := StrikePoint(target.Position, ic.strike.Index, ic.strike.Size, s.AttackRange*StrikeRadiusFactor)
	if game.Distance(s.Position, point) > StrikePositionTolerance {
		s.Pursue(point, dt)
		return
	}

	// In position: hold and report
	s.brake(dt)
	s.broadcast(MsgStrikeReady, point, ic.strike.Index)
	if s.bus == nil || SquadReady(s.bus, MsgStrikeReady, ic.strike.Members, readinessWindow(s.bus)) {
		s.broadcast(MsgCoordinatedAttack, target.Position, ic.strike.Index)
		ic.burst(s, target)
		ic.strike = nil
	}
}

func (ic *Interceptor) Modify(s *EnemyShip, dt float64, target *game.PlayerSnapshot) {}

func (ic *Interceptor) CanAttack(s *EnemyShip) bool {
	return ic.strike == nil && cooldownReady(s) && s.clock >= ic.runUntil
}

func (ic *Interceptor) Attack(s *EnemyShip, target *game.PlayerSnapshot) {
	ic.burst(s, target)
	ic.runUntil = s.clock + InterceptorHitAndRunTime
}

// burst fires a fan of burst projectiles around the lead direction
func (ic *Interceptor) burst(s *EnemyShip, target *game.PlayerSnapshot) {
	dir := aimedShot(s, target, game.ProjectileBurst)
	for _, d := range spreadDirections(dir, InterceptorBurstCount, InterceptorBurstSpread) {
		s.fire(d, game.ProjectileBurst)
	}
	s.TimeSinceLastAttack = 0
	ic.Bursts++
}
