package game

import (
	"math"
	"time"
)

// Simulation timing
const (
	FPS            = 10
	UpdateInterval = time.Millisecond * 100 // 10 FPS (10 ticks per second)
)

// Archetype identifies an enemy ship type
type Archetype int

const (
	ArchetypeScout Archetype = iota
	ArchetypeInterceptor
	ArchetypeBomber
	ArchetypeFighter
)

// String returns the archetype name used in logs and telemetry
func (a Archetype) String() string {
	if stats, ok := ArchetypeData[a]; ok {
		return stats.Name
	}
	return "unknown"
}

// Personality holds the tunable weights that bias generic behavior.
// Each weight lives in [0, 1]; 0.5 is neutral.
type Personality struct {
	Aggressiveness float64 `json:"aggressiveness" mapstructure:"aggressiveness"`
	Caution        float64 `json:"caution" mapstructure:"caution"`
	Teamwork       float64 `json:"teamwork" mapstructure:"teamwork"`
}

// NeutralPersonality leaves every threshold at its base value
var NeutralPersonality = Personality{Aggressiveness: 0.5, Caution: 0.5, Teamwork: 0.5}

// ArchetypeStats holds the base stats for each archetype.
// Distances are world units, speeds are units per second, times are seconds.
type ArchetypeStats struct {
	Name               string
	Speed              float64 // Velocity cap
	RotationSpeed      float64 // Heading turn rate in radians per second
	MaxHealth          float64
	DetectionRange     float64
	AttackRange        float64
	RetreatDistance    float64
	Radius             float64 // Collision radius
	AttackCooldown     float64
	EngagementFraction float64 // Preferred orbit distance as a fraction of AttackRange
	Personality        Personality
}

var ArchetypeData = map[Archetype]ArchetypeStats{
	ArchetypeScout: {
		Name:               "Scout",
		Speed:              150,
		RotationSpeed:      4.0,
		MaxHealth:          40,
		DetectionRange:     900,
		AttackRange:        300,
		RetreatDistance:    120,
		Radius:             8,
		AttackCooldown:     2.5,
		EngagementFraction: 0.9,
		Personality:        Personality{Aggressiveness: 0.3, Caution: 0.8, Teamwork: 0.7},
	},
	ArchetypeInterceptor: {
		Name:               "Interceptor",
		Speed:              200,
		RotationSpeed:      5.0,
		MaxHealth:          60,
		DetectionRange:     600,
		AttackRange:        250,
		RetreatDistance:    60,
		Radius:             10,
		AttackCooldown:     0.8,
		EngagementFraction: 0.6,
		Personality:        Personality{Aggressiveness: 0.8, Caution: 0.3, Teamwork: 0.6},
	},
	ArchetypeBomber: {
		Name:               "Bomber",
		Speed:              60,
		RotationSpeed:      1.2,
		MaxHealth:          220,
		DetectionRange:     700,
		AttackRange:        450,
		RetreatDistance:    150,
		Radius:             18,
		AttackCooldown:     4.0,
		EngagementFraction: 0.85,
		Personality:        Personality{Aggressiveness: 0.5, Caution: 0.5, Teamwork: 0.8},
	},
	ArchetypeFighter: {
		Name:               "Fighter",
		Speed:              120,
		RotationSpeed:      3.0,
		MaxHealth:          100,
		DetectionRange:     650,
		AttackRange:        280,
		RetreatDistance:    80,
		Radius:             12,
		AttackCooldown:     1.2,
		EngagementFraction: 0.7,
		Personality:        Personality{Aggressiveness: 0.6, Caution: 0.4, Teamwork: 0.9},
	},
}

// Archetypes lists every archetype in declaration order
var Archetypes = []Archetype{ArchetypeScout, ArchetypeInterceptor, ArchetypeBomber, ArchetypeFighter}

// ParseArchetype resolves an archetype by its display name
func ParseArchetype(name string) (Archetype, bool) {
	for _, a := range Archetypes {
		if ArchetypeData[a].Name == name {
			return a, true
		}
	}
	return 0, false
}

// PlayerSnapshot is the read-only view of the player for one tick
type PlayerSnapshot struct {
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Health   float64 `json:"health"`
}

// ProjectileKind identifies what the external projectile system should spawn
type ProjectileKind int

const (
	ProjectileLight ProjectileKind = iota
	ProjectileBurst
	ProjectileHeavy
	ProjectileSuppressive
)

// ProjectileSpeed is the muzzle speed per kind in units per second
var ProjectileSpeed = map[ProjectileKind]float64{
	ProjectileLight:       400,
	ProjectileBurst:       500,
	ProjectileHeavy:       250,
	ProjectileSuppressive: 350,
}

func (k ProjectileKind) String() string {
	switch k {
	case ProjectileLight:
		return "light"
	case ProjectileBurst:
		return "burst"
	case ProjectileHeavy:
		return "heavy"
	case ProjectileSuppressive:
		return "suppressive"
	}
	return "unknown"
}

// ProjectileRequest asks the external projectile system for one spawn
type ProjectileRequest struct {
	Owner     string         `json:"owner"`
	Position  Vec3           `json:"position"`
	Direction Vec3           `json:"direction"` // Unit vector
	Kind      ProjectileKind `json:"kind"`
}

// NormalizeAngle keeps angle between 0 and 2*PI
func NormalizeAngle(angle float64) float64 {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return 0
	}
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}
