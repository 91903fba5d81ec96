package sim

import (
	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/game"
)

// Projectile flight parameters. The session stands in for the host game's
// projectile system, so these only need to be plausible.
const (
	ProjectileLifetime  = 3.0  // Seconds before a projectile fizzles
	ProjectileHitRadius = 15.0 // Player hull radius for hit checks
)

// ProjectileDamage is the damage each kind deals on a hit
var ProjectileDamage = map[game.ProjectileKind]float64{
	game.ProjectileLight:       6,
	game.ProjectileBurst:       4,
	game.ProjectileHeavy:       35,
	game.ProjectileSuppressive: 10,
}

// Projectile is one shot in flight
type Projectile struct {
	ID       uuid.UUID           `json:"id"`
	Owner    string              `json:"owner"`
	Kind     game.ProjectileKind `json:"kind"`
	Position game.Vec3           `json:"position"`
	Velocity game.Vec3           `json:"velocity"`
	Fuse     float64             `json:"-"` // Remaining lifetime in seconds
}

func newProjectile(req game.ProjectileRequest) *Projectile {
	return &Projectile{
		ID:       uuid.New(),
		Owner:    req.Owner,
		Kind:     req.Kind,
		Position: req.Position,
		Velocity: req.Direction.Normalize().Scale(game.ProjectileSpeed[req.Kind]),
		Fuse:     ProjectileLifetime,
	}
}

// updateProjectiles moves every projectile, expires spent ones and checks
// for hits on the player. Uses in-place filtering to avoid reallocating the
// slice every tick. Returns the number of hits and the damage they dealt.
func updateProjectiles(projectiles []*Projectile, dt float64, player *game.PlayerSnapshot) ([]*Projectile, int, float64) {
	hits := 0
	damage := 0.0
	writeIdx := 0
	for _, p := range projectiles {
		// Move before burning the fuse so shots travel their full lifetime
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
		p.Fuse -= dt
		if p.Fuse <= 0 {
			continue
		}

		if player != nil && game.Distance(p.Position, player.Position) <= ProjectileHitRadius {
			hits++
			damage += ProjectileDamage[p.Kind]
			continue
		}

		projectiles[writeIdx] = p
		writeIdx++
	}
	// Clear the tail so removed projectiles can be collected
	for i := writeIdx; i < len(projectiles); i++ {
		projectiles[i] = nil
	}
	return projectiles[:writeIdx], hits, damage
}
