package ai

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/game"
)

// ProjectileSpawner is the external projectile system ships fire into
type ProjectileSpawner interface {
	SpawnProjectile(req game.ProjectileRequest)
}

// ShipConfig describes a unit to create. Stats and Personality override the
// archetype table when set; Bus, Spawner and Rand are session collaborators.
type ShipConfig struct {
	ID          uuid.UUID // Generated when zero
	Archetype   game.Archetype
	Position    game.Vec3
	Stats       *game.ArchetypeStats
	Personality *game.Personality
	Bus         *Bus
	Spawner     ProjectileSpawner
	Rand        Rand
}

// EnemyShip is one autonomous enemy unit
type EnemyShip struct {
	ID        uuid.UUID      `json:"id"`
	Archetype game.Archetype `json:"archetype"`

	Position game.Vec3 `json:"position"`
	Velocity game.Vec3 `json:"velocity"`
	Heading  game.Vec3 `json:"heading"` // Unit facing vector

	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`

	Speed              float64 `json:"speed"`
	RotationSpeed      float64 `json:"-"`
	DetectionRange     float64 `json:"-"`
	AttackRange        float64 `json:"-"`
	RetreatDistance    float64 `json:"-"`
	Radius             float64 `json:"radius"`
	AttackCooldown     float64 `json:"-"`
	EngagementFraction float64 `json:"-"`

	State               State   `json:"state"`
	StateTimer          float64 `json:"stateTimer"`
	TimeSinceLastAttack float64 `json:"-"`

	// Formation fields are written by the squad coordinator
	FormationIndex  int       `json:"formationIndex"`
	FormationOffset game.Vec3 `json:"-"`
	FormationTarget game.Vec3 `json:"-"`
	HasFormation    bool      `json:"-"`

	Personality game.Personality `json:"-"`

	// NearbyAllies is rebuilt every tick from the host's ally list
	NearbyAllies []*EnemyShip `json:"-"`

	Active bool `json:"active"`

	clock    float64 // Accumulated simulated time
	behavior Archetype
	bus      *Bus
	spawner  ProjectileSpawner
	rng      Rand
}

// NewEnemyShip validates the configuration and creates an idle, active unit.
// Invalid stats are the only error class in the AI and are rejected here.
func NewEnemyShip(cfg ShipConfig) (*EnemyShip, error) {
	base, ok := game.ArchetypeData[cfg.Archetype]
	if !ok {
		return nil, fmt.Errorf("%w: unknown archetype %d", game.ErrInvalidConfig, cfg.Archetype)
	}
	stats := base
	if cfg.Stats != nil {
		stats = *cfg.Stats
	}
	if cfg.Personality != nil {
		stats.Personality = *cfg.Personality
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("creating %s: %w", base.Name, err)
	}

	behavior, err := newArchetype(cfg.Archetype)
	if err != nil {
		return nil, err
	}

	id := cfg.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	rng := cfg.Rand
	if rng == nil {
		rng = NewRand(int64(id.ID()))
	}

	s := &EnemyShip{
		ID:                 id,
		Archetype:          cfg.Archetype,
		Position:           cfg.Position,
		Heading:            game.Vec3{X: 1},
		Health:             stats.MaxHealth,
		MaxHealth:          stats.MaxHealth,
		Speed:              stats.Speed,
		RotationSpeed:      stats.RotationSpeed,
		DetectionRange:     stats.DetectionRange,
		AttackRange:        stats.AttackRange,
		RetreatDistance:    stats.RetreatDistance,
		Radius:             stats.Radius,
		AttackCooldown:     stats.AttackCooldown,
		EngagementFraction: stats.EngagementFraction,
		State:              StateIdle,
		// A fresh unit may fire as soon as it is in range
		TimeSinceLastAttack: stats.AttackCooldown,
		FormationIndex:      -1,
		Personality:         stats.Personality,
		Active:              true,
		behavior:            behavior,
		bus:                 cfg.Bus,
		spawner:             cfg.Spawner,
		rng:                 rng,
	}
	return s, nil
}

// Update advances the unit by one tick: transition rules, state behavior,
// archetype steering and modifiers, attack, clamp and integration.
// Inactive units and missing player snapshots make the tick a no-op.
func (s *EnemyShip) Update(dt float64, player *game.PlayerSnapshot, allies []*EnemyShip) {
	if !s.Active || player == nil || dt <= 0 {
		return
	}

	s.clock += dt
	s.StateTimer += dt
	s.TimeSinceLastAttack += dt
	s.NearbyAllies = s.collectAllies(allies)

	dist := game.Distance(s.Position, player.Position)

	if !s.controllerLocked() {
		decision := Decide(s.State, s.StateTimer, s.transitionInput(dist), s.rng)
		if decision.Changed {
			s.setState(decision.Next)
		} else if decision.VarietyRolled {
			s.StateTimer = 0
		}
	}

	if !s.behavior.Steer(s, dt, player) {
		s.applyStateBehavior(dt, player, dist)
	}
	s.behavior.Modify(s, dt, player)

	if s.State == StateAttacking && dist <= s.AttackRange && !s.controllerLocked() && s.CanAttack() {
		s.Attack(player)
	}

	s.Velocity = s.Velocity.ClampLen(s.MaxSpeed())
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	if !s.Velocity.IsZero() {
		s.Heading = game.RotateToward(s.Heading, s.Velocity, s.RotationSpeed*dt)
	}
}

// applyStateBehavior dispatches to the steering primitive for the current state
func (s *EnemyShip) applyStateBehavior(dt float64, player *game.PlayerSnapshot, dist float64) {
	switch s.State {
	case StateIdle:
		s.Idle(dt)
	case StatePursuing:
		s.Pursue(player.Position, dt)
	case StateRetreating:
		s.Retreat(player.Position, dt)
	case StateCircling:
		s.Orbit(player.Position, s.PreferredRange(), dt)
	case StateAttacking:
		s.AttackRun(player.Position, dt)
	case StateEvading:
		s.Evade(player.Position, dt)
	case StateIntercepting:
		s.InterceptTarget(player, dt)
	case StateFormationFlying:
		s.FlyFormation(dt)
	}
}

func (s *EnemyShip) transitionInput(dist float64) TransitionInput {
	return TransitionInput{
		Distance:        dist,
		AttackRange:     s.AttackRange,
		RetreatDistance: s.RetreatDistance,
		DetectionRange:  s.DetectionRange,
		Personality:     s.Personality,
	}
}

// setState switches state and resets the state timer
func (s *EnemyShip) setState(next State) {
	if next == s.State {
		return
	}
	from := s.State
	s.State = next
	s.StateTimer = 0
	logTransition(s, from, next)
	recordTransition(s.Archetype, from, next)
}

// enterState forces a state and always resets the timer, even when unchanged
func (s *EnemyShip) enterState(next State) {
	s.setState(next)
	s.StateTimer = 0
}

// collectAllies snapshots the other active units within NeighborRadius
func (s *EnemyShip) collectAllies(allies []*EnemyShip) []*EnemyShip {
	var nearby []*EnemyShip
	for _, a := range allies {
		if a == nil || a == s || !a.Active {
			continue
		}
		if game.Distance(s.Position, a.Position) <= NeighborRadius {
			nearby = append(nearby, a)
		}
	}
	return nearby
}

// nearbyOfKind returns the nearby allies of one archetype
func (s *EnemyShip) nearbyOfKind(kind game.Archetype) []*EnemyShip {
	var out []*EnemyShip
	for _, a := range s.NearbyAllies {
		if a.Active && a.Archetype == kind {
			out = append(out, a)
		}
	}
	return out
}

func (s *EnemyShip) controllerLocked() bool {
	if l, ok := s.behavior.(controllerLock); ok {
		return l.Locked()
	}
	return false
}

// MaxSpeed is the current velocity cap: the configured speed, scaled while an
// archetype modifier such as a boost is active.
func (s *EnemyShip) MaxSpeed() float64 {
	if m, ok := s.behavior.(speedModifier); ok {
		return s.Speed * m.SpeedMultiplier(s)
	}
	return s.Speed
}

// PreferredRange is the archetype's preferred engagement (orbit) distance
func (s *EnemyShip) PreferredRange() float64 {
	return s.AttackRange * s.EngagementFraction
}

// Now returns the unit's accumulated simulated time
func (s *EnemyShip) Now() float64 {
	return s.clock
}

// Behavior returns the archetype behavior driving this unit
func (s *EnemyShip) Behavior() Archetype {
	return s.behavior
}

// HealthFraction returns health as a fraction of max health
func (s *EnemyShip) HealthFraction() float64 {
	return s.Health / s.MaxHealth
}

// CanAttack reports whether the archetype's cooldown/readiness predicate passes
func (s *EnemyShip) CanAttack() bool {
	return s.Active && s.behavior.CanAttack(s)
}

// Attack performs the archetype attack against target. A nil target is a no-op.
func (s *EnemyShip) Attack(target *game.PlayerSnapshot) {
	if !s.Active || target == nil {
		return
	}
	logAttack(s)
	s.behavior.Attack(s, target)
}

// TakeDamage reduces health, keeping it in [0, MaxHealth]. At zero health the
// unit goes inactive immediately. Returns true if this call destroyed it.
func (s *EnemyShip) TakeDamage(amount float64) bool {
	if !s.Active {
		return false
	}
	s.Health, _ = game.ApplyDamage(s.Health, s.MaxHealth, amount)
	if s.Health <= 0 {
		s.deactivate()
		return true
	}
	return false
}

// Repair restores health up to MaxHealth
func (s *EnemyShip) Repair(amount float64) {
	if !s.Active {
		return
	}
	s.Health = game.ApplyRepair(s.Health, s.MaxHealth, amount)
}

// TriggerEmergencyRetreat starts the archetype's emergency retreat, if it has
// one. Returns true when a retreat was started by this call.
func (s *EnemyShip) TriggerEmergencyRetreat() bool {
	if !s.Active {
		return false
	}
	if r, ok := s.behavior.(emergencyRetreater); ok {
		return r.TriggerEmergencyRetreat(s)
	}
	return false
}

func (s *EnemyShip) deactivate() {
	s.Active = false
	s.Health = 0
	s.Velocity = game.Vec3{}
	s.NearbyAllies = nil
	logDestroyed(s)
}

// broadcast publishes on the bus. Inactive units stay silent.
func (s *EnemyShip) broadcast(kind MessageKind, pos game.Vec3, data any) {
	if !s.Active || s.bus == nil {
		return
	}
	s.bus.Broadcast(Message{
		Kind:      kind,
		Sender:    s.ID,
		Archetype: s.Archetype,
		Position:  pos,
		Data:      data,
	})
	recordMessage(s.Archetype, kind)
}

// fire requests one projectile along dir from the hull edge
func (s *EnemyShip) fire(dir game.Vec3, kind game.ProjectileKind) {
	if !s.Active || s.spawner == nil || dir.IsZero() {
		return
	}
	dir = dir.Normalize()
	s.spawner.SpawnProjectile(game.ProjectileRequest{
		Owner:     s.ID.String(),
		Position:  s.Position.Add(dir.Scale(s.Radius)),
		Direction: dir,
		Kind:      kind,
	})
	recordProjectile(s.Archetype, kind)
}

// cooldownReady is the shared attack cooldown check
func cooldownReady(s *EnemyShip) bool {
	return s.TimeSinceLastAttack >= s.AttackCooldown-timeEpsilon
}
