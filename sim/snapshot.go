package sim

import (
	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/game"
)

// ShipView is a copy of one ship's observable state
type ShipView struct {
	ID             uuid.UUID `json:"id"`
	Archetype      string    `json:"archetype"`
	State          ai.State  `json:"state"`
	StateTimer     float64   `json:"stateTimer"`
	Position       game.Vec3 `json:"position"`
	Velocity       game.Vec3 `json:"velocity"`
	Heading        game.Vec3 `json:"heading"`
	Health         float64   `json:"health"`
	MaxHealth      float64   `json:"maxHealth"`
	Radius         float64   `json:"radius"`
	FormationIndex int       `json:"formationIndex"`
	Active         bool      `json:"active"`
	Boosting       bool      `json:"boosting,omitempty"`
	Charging       bool      `json:"charging,omitempty"`
	Emergency      bool      `json:"emergency,omitempty"`
}

// Snapshot is a consistent copy of the session taken under its lock
type Snapshot struct {
	Tick        uint64       `json:"tick"`
	Elapsed     float64      `json:"elapsed"`
	Ships       []ShipView   `json:"ships"`
	Projectiles []Projectile `json:"projectiles"`
	Messages    []ai.Message `json:"messages"` // Still retained on the bus
	PlayerHits  int          `json:"playerHits"`
}

func viewOf(s *ai.EnemyShip) ShipView {
	v := ShipView{
		ID:             s.ID,
		Archetype:      s.Archetype.String(),
		State:          s.State,
		StateTimer:     s.StateTimer,
		Position:       s.Position,
		Velocity:       s.Velocity,
		Heading:        s.Heading,
		Health:         s.Health,
		MaxHealth:      s.MaxHealth,
		Radius:         s.Radius,
		FormationIndex: s.FormationIndex,
		Active:         s.Active,
	}
	switch b := s.Behavior().(type) {
	case *ai.Interceptor:
		v.Boosting = b.BoostActive(s)
	case *ai.Bomber:
		v.Charging = b.Charging()
		v.Emergency = b.InEmergency()
	}
	return v
}

// Snapshot copies the session state for readers on other goroutines
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Tick:        s.tick,
		Elapsed:     s.elapsed,
		Ships:       make([]ShipView, 0, len(s.ships)),
		Projectiles: make([]Projectile, 0, len(s.projectiles)),
		Messages:    s.bus.All(0),
		PlayerHits:  s.playerHits,
	}
	for _, ship := range s.ships {
		snap.Ships = append(snap.Ships, viewOf(ship))
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, *p)
	}
	return snap
}
