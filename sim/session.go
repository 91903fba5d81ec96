package sim

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/game"
	"github.com/rs/zerolog"
)

// ErrUnknownShip is returned when a ship ID is not in the session
var ErrUnknownShip = errors.New("unknown ship")

// Config holds the session tunables
type Config struct {
	Seed              int64  // Per-ship random sources derive from Seed + spawn index
	BusRetentionTicks uint64 // Ticks of bus history kept after each step
}

// DefaultConfig keeps the current and previous tick on the bus
var DefaultConfig = Config{Seed: 1, BusRetentionTicks: 2}

// Squad is the number of ships of each archetype to spawn
type Squad map[game.Archetype]int

// Session drives one enemy squad: it owns the bus and the unit pool, builds
// per-tick ally snapshots, collects projectile requests, applies bus
// retention and notifies observers. The ships themselves are single-threaded;
// the mutex lets observers such as the websocket hub read snapshots from
// other goroutines.
type Session struct {
	mu          sync.RWMutex
	cfg         Config
	log         zerolog.Logger
	bus         *ai.Bus
	ships       []*ai.EnemyShip
	spawned     int // Spawn index, never reused
	destroyed   int
	projectiles []*Projectile
	pending     []game.ProjectileRequest // Spawn requests from the current step
	grid        *SpatialGrid
	tick        uint64
	elapsed     float64
	lastSeq     uint64 // Highest bus sequence already reported
	playerHits  int
	observers   []Observer
}

// NewSession creates an empty session
func NewSession(cfg Config, log zerolog.Logger) *Session {
	if cfg.BusRetentionTicks == 0 {
		cfg.BusRetentionTicks = DefaultConfig.BusRetentionTicks
	}
	return &Session{
		cfg:  cfg,
		log:  log.With().Str("component", "sim").Logger(),
		bus:  ai.NewBus(),
		grid: NewSpatialGrid(ai.NeighborRadius),
	}
}

// AddObserver registers o for all subsequent events
func (s *Session) AddObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Bus returns the session's communication bus
func (s *Session) Bus() *ai.Bus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bus
}

// Spawn creates one ship of the given archetype at pos
func (s *Session) Spawn(kind game.Archetype, pos game.Vec3) (*ai.EnemyShip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(ai.ShipConfig{Archetype: kind, Position: pos})
}

// SpawnWith creates a ship from a full configuration. The session supplies
// the bus, projectile spawner and, unless cfg.Rand is set, the random source.
func (s *Session) SpawnWith(cfg ai.ShipConfig) (*ai.EnemyShip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnLocked(cfg)
}

func (s *Session) spawnLocked(cfg ai.ShipConfig) (*ai.EnemyShip, error) {
	cfg.Bus = s.bus
	cfg.Spawner = s
	if cfg.Rand == nil {
		cfg.Rand = ai.NewRand(s.cfg.Seed + int64(s.spawned))
	}
	ship, err := ai.NewEnemyShip(cfg)
	if err != nil {
		return nil, fmt.Errorf("spawning ship %d: %w", s.spawned, err)
	}
	s.spawned++
	s.ships = append(s.ships, ship)

	s.log.Debug().
		Str("ship", ship.ID.String()).
		Stringer("archetype", ship.Archetype).
		Msg("ship spawned")
	return ship, nil
}

// SpawnSquad spawns every archetype in squad in a ring of the given radius
// around center. Archetypes are spawned in a fixed order so seeded sessions
// replay exactly.
func (s *Session) SpawnSquad(squad Squad, center game.Vec3, radius float64) ([]*ai.EnemyShip, error) {
	total := 0
	for _, kind := range game.Archetypes {
		total += squad[kind]
	}
	if total == 0 {
		return nil, nil
	}

	var out []*ai.EnemyShip
	i := 0
	for _, kind := range game.Archetypes {
		for n := 0; n < squad[kind]; n++ {
			angle := 2 * math.Pi * float64(i) / float64(total)
			ship, err := s.Spawn(kind, center.Add(game.PlanarDirection(angle).Scale(radius)))
			if err != nil {
				return out, err
			}
			out = append(out, ship)
			i++
		}
	}
	return out, nil
}

// SpawnProjectile collects a spawn request. Ships call it from inside Step.
func (s *Session) SpawnProjectile(req game.ProjectileRequest) {
	s.pending = append(s.pending, req)
}

// Step advances the whole squad by dt against player and returns the tick
// summary. Observers are notified after the session lock is released.
func (s *Session) Step(dt float64, player *game.PlayerSnapshot) TickStats {
	s.mu.Lock()
	var (
		transitions []TransitionEvent
		spawns      []ProjectileEvent
		messages    []ai.Message
	)

	s.tick = s.bus.Advance()
	s.elapsed += dt
	s.grid.IndexShips(s.ships)

	for _, ship := range s.ships {
		if !ship.Active {
			continue
		}
		from := ship.State
		ship.Update(dt, player, s.grid.Nearby(ship.Position.X, ship.Position.Y))
		if ship.State != from {
			transitions = append(transitions, TransitionEvent{
				Tick:      s.tick,
				Ship:      ship.ID,
				Archetype: ship.Archetype,
				From:      from,
				To:        ship.State,
				Position:  ship.Position,
			})
		}
	}

	for _, req := range s.pending {
		spawns = append(spawns, ProjectileEvent{Tick: s.tick, Request: req})
		s.projectiles = append(s.projectiles, newProjectile(req))
	}
	s.pending = s.pending[:0]

	for _, m := range s.bus.All(0) {
		if m.Seq > s.lastSeq {
			messages = append(messages, m)
			s.lastSeq = m.Seq
		}
	}

	var (
		hits   int
		damage float64
	)
	s.projectiles, hits, damage = updateProjectiles(s.projectiles, dt, player)
	s.playerHits += hits

	if dropped := s.bus.Prune(s.cfg.BusRetentionTicks); dropped > 0 {
		s.log.Trace().Int("dropped", dropped).Uint64("tick", s.tick).Msg("bus pruned")
	}
	s.removeInactive()

	stats := s.statsLocked()
	stats.Spawned = len(spawns)
	stats.Messages = len(messages)
	stats.Transitions = len(transitions)
	stats.PlayerHits = hits
	stats.PlayerDamage = damage
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		for _, ev := range transitions {
			o.ShipTransitioned(ev)
		}
		for _, ev := range spawns {
			o.ProjectileSpawned(ev)
		}
		for _, m := range messages {
			o.MessagePublished(m)
		}
		o.TickCompleted(stats)
	}
	return stats
}

// removeInactive drops destroyed ships from the pool.
// Uses in-place filtering like the projectile update.
func (s *Session) removeInactive() {
	writeIdx := 0
	for _, ship := range s.ships {
		if !ship.Active {
			s.destroyed++
			continue
		}
		s.ships[writeIdx] = ship
		writeIdx++
	}
	for i := writeIdx; i < len(s.ships); i++ {
		s.ships[i] = nil
	}
	s.ships = s.ships[:writeIdx]
}

func (s *Session) statsLocked() TickStats {
	stats := TickStats{
		Tick:        s.tick,
		Elapsed:     s.elapsed,
		Destroyed:   s.destroyed,
		ByState:     make(map[string]int),
		ByArchetype: make(map[string]int),
		Projectiles: len(s.projectiles),
	}
	health := 0.0
	for _, ship := range s.ships {
		if !ship.Active {
			continue
		}
		stats.Active++
		stats.ByState[ship.State.String()]++
		stats.ByArchetype[ship.Archetype.String()]++
		health += ship.HealthFraction()
	}
	if stats.Active > 0 {
		stats.MeanHealth = health / float64(stats.Active)
	}
	return stats
}

// Stats returns the current squad summary without stepping
func (s *Session) Stats() TickStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statsLocked()
}

// Ships returns the active ships. The pointers are live; callers outside the
// stepping goroutine should use Snapshot instead.
func (s *Session) Ships() []*ai.EnemyShip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*ai.EnemyShip, len(s.ships))
	copy(out, s.ships)
	return out
}

func (s *Session) findLocked(id uuid.UUID) *ai.EnemyShip {
	for _, ship := range s.ships {
		if ship.ID == id {
			return ship
		}
	}
	return nil
}

// DamageShip applies damage to one ship. Ships that drop below the emergency
// threshold start their emergency retreat if their archetype has one.
// Returns true when the damage destroyed the ship.
func (s *Session) DamageShip(id uuid.UUID, amount float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship := s.findLocked(id)
	if ship == nil {
		return false, fmt.Errorf("damaging %s: %w", id, ErrUnknownShip)
	}
	if ship.TakeDamage(amount) {
		return true, nil
	}
	if ship.HealthFraction() < ai.EmergencyHealthFraction && ship.TriggerEmergencyRetreat() {
		s.log.Info().
			Str("ship", ship.ID.String()).
			Float64("health", ship.Health).
			Msg("emergency retreat triggered")
	}
	return false, nil
}

// RepairShip restores health on one ship
func (s *Session) RepairShip(id uuid.UUID, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship := s.findLocked(id)
	if ship == nil {
		return fmt.Errorf("repairing %s: %w", id, ErrUnknownShip)
	}
	ship.Repair(amount)
	return nil
}

// AssignFormation puts every active ship into formation around center
func (s *Session) AssignFormation(center game.Vec3) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(ai.AssignFormation(s.ships, center))
	s.log.Info().Int("ships", n).Interface("center", center).Msg("formation assigned")
	return n
}

// CoordinateStrike groups the active interceptors into one strike
func (s *Session) CoordinateStrike() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := ai.CoordinateStrike(s.ships)
	s.log.Info().Int("interceptors", n).Msg("coordinated strike ordered")
	return n
}

// Reset removes every ship and projectile and starts a fresh bus. The spawn
// index restarts too, so a reset session replays like a new one.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bus = ai.NewBus()
	s.ships = nil
	s.projectiles = nil
	s.pending = nil
	s.spawned = 0
	s.destroyed = 0
	s.tick = 0
	s.elapsed = 0
	s.lastSeq = 0
	s.playerHits = 0
	s.log.Info().Msg("session reset")
}
