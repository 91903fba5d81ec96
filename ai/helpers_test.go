package ai

import (
	"testing"

	"github.com/lab1702/squadron-ai/game"
)

// spawnRecorder captures projectile requests in order
type spawnRecorder struct {
	requests []game.ProjectileRequest
}

func (r *spawnRecorder) SpawnProjectile(req game.ProjectileRequest) {
	r.requests = append(r.requests, req)
}

func (r *spawnRecorder) count(kind game.ProjectileKind) int {
	n := 0
	for _, req := range r.requests {
		if req.Kind == kind {
			n++
		}
	}
	return n
}

// newTestShip creates a unit with neutral personality so rolls use base probabilities
func newTestShip(t *testing.T, kind game.Archetype, pos game.Vec3, bus *Bus, spawner ProjectileSpawner, rng Rand) *EnemyShip {
	t.Helper()
	neutral := game.NeutralPersonality
	s, err := NewEnemyShip(ShipConfig{
		Archetype:   kind,
		Position:    pos,
		Personality: &neutral,
		Bus:         bus,
		Spawner:     spawner,
		Rand:        rng,
	})
	if err != nil {
		t.Fatalf("NewEnemyShip(%s) failed: %v", kind, err)
	}
	return s
}

// playerAt returns a stationary player snapshot
func playerAt(x, y, z float64) *game.PlayerSnapshot {
	return &game.PlayerSnapshot{Position: game.Vec3{X: x, Y: y, Z: z}, Health: 100}
}
