package ai

import (
	"fmt"
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// Archetype is the per-type behavior table of a ship. Stats live in
// game.ArchetypeData; this interface carries the overrides.
type Archetype interface {
	Kind() game.Archetype

	// Steer may replace the generic state behavior for this tick.
	// Returns true when it did.
	Steer(s *EnemyShip, dt float64, target *game.PlayerSnapshot) bool

	// Modify runs after movement is decided: timers, broadcasts, extra impulses.
	Modify(s *EnemyShip, dt float64, target *game.PlayerSnapshot)

	// CanAttack is the cooldown/readiness predicate
	CanAttack(s *EnemyShip) bool

	// Attack requests projectile spawns and may apply recoil
	Attack(s *EnemyShip, target *game.PlayerSnapshot)
}

// controllerLock is implemented by archetypes that can freeze the state controller
type controllerLock interface {
	Locked() bool
}

// speedModifier is implemented by archetypes that scale the velocity cap
type speedModifier interface {
	SpeedMultiplier(s *EnemyShip) float64
}

// emergencyRetreater is implemented by archetypes with an externally triggered retreat
type emergencyRetreater interface {
	TriggerEmergencyRetreat(s *EnemyShip) bool
}

// newArchetype builds the behavior table for a kind
func newArchetype(kind game.Archetype) (Archetype, error) {
	switch kind {
	case game.ArchetypeScout:
		return newScout(), nil
	case game.ArchetypeInterceptor:
		return &Interceptor{}, nil
	case game.ArchetypeBomber:
		return &Bomber{}, nil
	case game.ArchetypeFighter:
		return &Fighter{}, nil
	}
	return nil, fmt.Errorf("%w: no behavior for archetype %d", game.ErrInvalidConfig, kind)
}

// aimedShot returns a lead-predicted firing direction with random jitter
func aimedShot(s *EnemyShip, target *game.PlayerSnapshot, kind game.ProjectileKind) game.Vec3 {
	dir := LeadDirection(s.Position, target.Position, target.Velocity, game.ProjectileSpeed[kind])
	return rotateAboutUp(dir, jitterRad(s.rng, maxJitterDeg))
}

// spreadDirections fans count directions around dir, spreadDeg apart
func spreadDirections(dir game.Vec3, count int, spreadDeg float64) []game.Vec3 {
	out := make([]game.Vec3, 0, count)
	mid := float64(count-1) / 2
	for i := 0; i < count; i++ {
		angle := (float64(i) - mid) * spreadDeg * math.Pi / 180
		out = append(out, rotateAboutUp(dir, angle))
	}
	return out
}
