package ai

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// Scout is the fast, fragile spotter. It keeps the squad informed with
// TargetSighted reports, fires slowly and runs after every shot.
type Scout struct {
	lastSighting float64 // Ship clock at the last report
	runUntil     float64 // Hit-and-run deadline
	Sightings    int     // Reports published
}

func newScout() *Scout {
	return &Scout{lastSighting: math.Inf(-1)}
}

func (sc *Scout) Kind() game.Archetype { return game.ArchetypeScout }

// Running reports whether the scout is in the run phase of a hit-and-run
func (sc *Scout) Running(s *EnemyShip) bool {
	return s.clock < sc.runUntil
}

func (sc *Scout) Steer(s *EnemyShip, dt float64, target *game.PlayerSnapshot) bool {
	if sc.Running(s) {
		s.Retreat(target.Position, dt)
		return true
	}
	return false
}

func (sc *Scout) Modify(s *EnemyShip, dt float64, target *game.PlayerSnapshot) {
	dist := game.Distance(s.Position, target.Position)
	if dist <= s.DetectionRange && s.clock-sc.lastSighting >= ScoutSightingInterval-timeEpsilon {
		sc.reportSighting(s, target, dist)
	}

	// Damaged scouts jink unpredictably
	if s.HealthFraction() < ScoutDamagedFraction && roll(s.rng, ScoutJinkChance) {
		s.impulse(s.lateral(target.Position.Sub(s.Position)), ScoutJinkFactor*s.Speed)
	}
}

// reportSighting broadcasts the player's last known kinematics
func (sc *Scout) reportSighting(s *EnemyShip, target *game.PlayerSnapshot, dist float64) {
	confidence := game.Clamp01(1 - dist/s.DetectionRange)
	s.broadcast(MsgTargetSighted, target.Position, Sighting{
		Position:   target.Position,
		Velocity:   target.Velocity,
		Health:     target.Health,
		Confidence: confidence,
	})
	sc.lastSighting = s.clock
	sc.Sightings++
}

func (sc *Scout) CanAttack(s *EnemyShip) bool {
	return cooldownReady(s) && !sc.Running(s)
}

func (sc *Scout) Attack(s *EnemyShip, target *game.PlayerSnapshot) {
	s.fire(aimedShot(s, target, game.ProjectileLight), game.ProjectileLight)
	s.TimeSinceLastAttack = 0
	sc.runUntil = s.clock + ScoutHitAndRunTime
}
