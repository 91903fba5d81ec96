package ai

import "github.com/lab1702/squadron-ai/game"

// Bomber is the slow, tanky heavy hitter. Its attack is a long windup during
// which it sits still and ignores the state controller.
type Bomber struct {
	charging        bool
	chargeElapsed   float64
	chargeTarget    game.PlayerSnapshot // Latest target kinematics seen while charging
	emergency       bool
	escortRequested bool
	HeavyShots      int
}

func (b *Bomber) Kind() game.Archetype { return game.ArchetypeBomber }

// Charging reports whether the windup is in progress
func (b *Bomber) Charging() bool { return b.charging }

// InEmergency reports whether the emergency retreat is active
func (b *Bomber) InEmergency() bool { return b.emergency }

// Locked freezes the state controller while charging or fleeing
func (b *Bomber) Locked() bool {
	return b.charging || b.emergency
}

// TriggerEmergencyRetreat starts the low-health retreat. The charge, if any,
// still completes first.
func (b *Bomber) TriggerEmergencyRetreat(s *EnemyShip) bool {
	if b.emergency {
		return false
	}
	b.emergency = true
	b.escortRequested = false
	s.setState(StateRetreating)
	logEmergency(s)
	return true
}

func (b *Bomber) Steer(s *EnemyShip, dt float64, target *game.PlayerSnapshot) bool {
	if b.charging {
		s.Velocity = game.Vec3{}
		return true
	}
	if b.emergency {
		b.emergencyRetreat(s, target, dt)
		return true
	}
	if s.HealthFraction() < BomberCoverHealthFraction &&
		(s.State == StateCircling || s.State == StateAttacking) {
		if ally := nearestAlly(s); ally != nil {
			s.Pursue(CoverPoint(ally.Position, target.Position), dt)
			return true
		}
	}
	return false
}

// CoverPoint is the spot behind ally as seen from threat
func CoverPoint(ally, threat game.Vec3) game.Vec3 {
	away := ally.Sub(threat).Normalize()
	if away.IsZero() {
		return ally
	}
	return ally.Add(away.Scale(BomberCoverOffset))
}

// emergencyRetreat flees the target while drifting toward the allies' centroid
func (b *Bomber) emergencyRetreat(s *EnemyShip, target *game.PlayerSnapshot, dt float64) {
	away := s.Position.Sub(target.Position).Normalize()
	if len(s.NearbyAllies) > 0 {
		toAllies := allyCentroid(s).Sub(s.Position).Normalize()
		away = away.Add(toAllies.Scale(EmergencyAllyWeight))
	}
	if away.IsZero() {
		away = s.Heading.Scale(-1)
	}
	s.accelerate(away, dt)
}

func (b *Bomber) Modify(s *EnemyShip, dt float64, target *game.PlayerSnapshot) {
	if b.charging {
		s.Velocity = game.Vec3{}
		b.chargeElapsed += dt
		b.chargeTarget = *target
		if b.chargeElapsed >= BomberChargeTime-timeEpsilon {
			b.release(s)
		}
		return
	}

	if b.emergency {
		if !b.escortRequested {
			s.broadcast(MsgRequestEscort, s.Position, nil)
			b.escortRequested = true
		}
		// Repaired bombers rejoin the fight
		if s.HealthFraction() > BomberCoverHealthFraction {
			b.emergency = false
		}
		return
	}

	// Coordinated bombardment: report readiness to nearby bombers
	if cooldownReady(s) && len(s.nearbyOfKind(game.ArchetypeBomber)) > 0 {
		s.broadcast(MsgBombardReady, s.Position, nil)
	}

	if s.State == StateCircling && cooldownReady(s) &&
		game.Distance(s.Position, target.Position) <= s.AttackRange {
		b.SuppressiveFire(s, target)
	}
}

// SuppressiveFire aims ahead of the target's predicted position
func (b *Bomber) SuppressiveFire(s *EnemyShip, target *game.PlayerSnapshot) {
	aim := target.Position.Add(target.Velocity.Scale(SuppressiveLeadTime))
	dir := rotateAboutUp(aim.Sub(s.Position).Normalize(), jitterRad(s.rng, maxJitterDeg))
	s.fire(dir, game.ProjectileSuppressive)
	s.TimeSinceLastAttack = 0
}

// CanAttack requires the cooldown and, with other bombers nearby, that every
// one of them reported ready.
func (b *Bomber) CanAttack(s *EnemyShip) bool {
	if b.charging || b.emergency || !cooldownReady(s) {
		return false
	}
	partners := s.nearbyOfKind(game.ArchetypeBomber)
	if len(partners) == 0 || s.bus == nil {
		return true
	}
	return SquadReady(s.bus, MsgBombardReady, partners, readinessWindow(s.bus))
}

// Attack starts the windup; the heavy shot fires when it completes
func (b *Bomber) Attack(s *EnemyShip, target *game.PlayerSnapshot) {
	if b.charging {
		return
	}
	b.charging = true
	b.chargeElapsed = 0
	b.chargeTarget = *target
	s.Velocity = game.Vec3{}
}

// release fires the heavy lead-predicted shot and kicks the bomber back
func (b *Bomber) release(s *EnemyShip) {
	t := b.chargeTarget
	dir := LeadDirection(s.Position, t.Position, t.Velocity, game.ProjectileSpeed[game.ProjectileHeavy])
	s.fire(dir, game.ProjectileHeavy)
	s.Velocity = dir.Scale(-BomberRecoil)
	s.TimeSinceLastAttack = 0
	b.charging = false
	b.chargeElapsed = 0
	b.HeavyShots++
}

// nearestAlly returns the closest nearby ally, or nil
func nearestAlly(s *EnemyShip) *EnemyShip {
	var nearest *EnemyShip
	minDist := MaxSearchDistance
	for _, a := range s.NearbyAllies {
		if !a.Active {
			continue
		}
		if d := game.Distance(s.Position, a.Position); d < minDist {
			minDist = d
			nearest = a
		}
	}
	return nearest
}

// allyCentroid returns the mean position of the nearby allies
func allyCentroid(s *EnemyShip) game.Vec3 {
	var sum game.Vec3
	n := 0
	for _, a := range s.NearbyAllies {
		if a.Active {
			sum = sum.Add(a.Position)
			n++
		}
	}
	if n == 0 {
		return s.Position
	}
	return sum.Scale(1 / float64(n))
}
