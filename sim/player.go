package sim

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// Scripted player path
const (
	PlayerMaxHealth    = 100.0
	PlayerBreathPeriod = 20.0 // Seconds for the orbit radius to swing in and out
)

// ScriptedPlayer is a stand-in target for demos: it circles a center point
// while its orbit radius swings between half and one and a half times the
// base radius, so the squad sees it come in and out of range. Destroyed
// players respawn at full health.
type ScriptedPlayer struct {
	Center       game.Vec3
	Radius       float64
	AngularSpeed float64 // Radians per second

	clock    float64
	health   float64
	deaths   int
	position game.Vec3
	velocity game.Vec3
}

// NewScriptedPlayer creates a player on its path at time zero
func NewScriptedPlayer(center game.Vec3, radius, angularSpeed float64) *ScriptedPlayer {
	p := &ScriptedPlayer{
		Center:       center,
		Radius:       radius,
		AngularSpeed: angularSpeed,
		health:       PlayerMaxHealth,
	}
	p.position = p.pathAt(0)
	return p
}

func (p *ScriptedPlayer) pathAt(t float64) game.Vec3 {
	r := p.Radius * (1 + 0.5*math.Sin(2*math.Pi*t/PlayerBreathPeriod))
	return p.Center.Add(game.PlanarDirection(p.AngularSpeed * t).Scale(r))
}

// Advance moves the player dt seconds along its path
func (p *ScriptedPlayer) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	p.clock += dt
	next := p.pathAt(p.clock)
	p.velocity = next.Sub(p.position).Scale(1 / dt)
	p.position = next
}

// Hit applies damage; at zero health the player respawns
func (p *ScriptedPlayer) Hit(damage float64) {
	p.health, _ = game.ApplyDamage(p.health, PlayerMaxHealth, damage)
	if p.health <= 0 {
		p.deaths++
		p.health = PlayerMaxHealth
	}
}

// Deaths returns how many times the player has been destroyed
func (p *ScriptedPlayer) Deaths() int {
	return p.deaths
}

// Snapshot returns the read-only view handed to the squad
func (p *ScriptedPlayer) Snapshot() *game.PlayerSnapshot {
	return &game.PlayerSnapshot{
		Position: p.position,
		Velocity: p.velocity,
		Health:   p.health,
	}
}
