package sim

import (
	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/game"
)

// Observer receives session events. Callbacks run on the stepping goroutine
// after the session lock is released, in the order the events happened.
type Observer interface {
	ShipTransitioned(ev TransitionEvent)
	ProjectileSpawned(ev ProjectileEvent)
	MessagePublished(msg ai.Message)
	TickCompleted(stats TickStats)
}

// BaseObserver implements Observer with no-ops, for embedding
type BaseObserver struct{}

func (BaseObserver) ShipTransitioned(TransitionEvent) {}
func (BaseObserver) ProjectileSpawned(ProjectileEvent) {}
func (BaseObserver) MessagePublished(ai.Message) {}
func (BaseObserver) TickCompleted(TickStats) {}

// TransitionEvent records one state change observed during a step
type TransitionEvent struct {
	Tick      uint64         `json:"tick"`
	Ship      uuid.UUID      `json:"ship"`
	Archetype game.Archetype `json:"archetype"`
	From      ai.State       `json:"from"`
	To        ai.State       `json:"to"`
	Position  game.Vec3      `json:"position"`
}

// ProjectileEvent records one spawn request
type ProjectileEvent struct {
	Tick    uint64                 `json:"tick"`
	Request game.ProjectileRequest `json:"request"`
}

// TickStats summarizes the squad after a step
type TickStats struct {
	Tick         uint64         `json:"tick"`
	Elapsed      float64        `json:"elapsed"`
	Active       int            `json:"active"`
	Destroyed    int            `json:"destroyed"`
	ByState      map[string]int `json:"byState"`
	ByArchetype  map[string]int `json:"byArchetype"`
	Projectiles  int            `json:"projectiles"` // In flight after the step
	Spawned      int            `json:"spawned"`     // Requested during the step
	Messages     int            `json:"messages"`    // Published during the step
	Transitions  int            `json:"transitions"`
	PlayerHits   int            `json:"playerHits"`
	PlayerDamage float64        `json:"playerDamage"`
	MeanHealth   float64        `json:"meanHealth"` // Fraction of max, over active ships
}
