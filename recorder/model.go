package recorder

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run is one recorded session
type Run struct {
	gorm.Model
	RunID     string    `json:"runID" gorm:"size:36;uniqueIndex"`
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"startedAt"`
}

// Transition is one state controller change
type Transition struct {
	ID        uint    `json:"id" gorm:"primarykey"`
	RunID     string  `json:"runID" gorm:"size:36;index"`
	Tick      uint64  `json:"tick" gorm:"index"`
	ShipID    string  `json:"shipID" gorm:"size:36;index"`
	Archetype string  `json:"archetype" gorm:"size:16"`
	FromState string  `json:"fromState" gorm:"size:16"`
	ToState   string  `json:"toState" gorm:"size:16"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
}

// ProjectileSpawn is one projectile request
type ProjectileSpawn struct {
	ID    uint    `json:"id" gorm:"primarykey"`
	RunID string  `json:"runID" gorm:"size:36;index"`
	Tick  uint64  `json:"tick" gorm:"index"`
	Owner string  `json:"owner" gorm:"size:36;index"`
	Kind  string  `json:"kind" gorm:"size:16"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	DirX  float64 `json:"dirX"`
	DirY  float64 `json:"dirY"`
	DirZ  float64 `json:"dirZ"`
}

// BusMessage is one inter-unit broadcast
type BusMessage struct {
	ID        uint    `json:"id" gorm:"primarykey"`
	RunID     string  `json:"runID" gorm:"size:36;index"`
	Tick      uint64  `json:"tick" gorm:"index"`
	Seq       uint64  `json:"seq"`
	Kind      string  `json:"kind" gorm:"size:32;index"`
	Sender    string  `json:"sender" gorm:"size:36"`
	Archetype string  `json:"archetype" gorm:"size:16"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	// Message data, stored as a JSON column
	Payload datatypes.JSONType[any] `json:"payload"`
}

// TickSummary is the squad summary after one step
type TickSummary struct {
	ID           uint    `json:"id" gorm:"primarykey"`
	RunID        string  `json:"runID" gorm:"size:36;index"`
	Tick         uint64  `json:"tick" gorm:"index"`
	Elapsed      float64 `json:"elapsed"`
	Active       int     `json:"active"`
	Destroyed    int     `json:"destroyed"`
	Projectiles  int     `json:"projectiles"`
	Spawned      int     `json:"spawned"`
	Messages     int     `json:"messages"`
	Transitions  int     `json:"transitions"`
	PlayerHits   int     `json:"playerHits"`
	PlayerDamage float64 `json:"playerDamage"`
	MeanHealth   float64 `json:"meanHealth"`
}

// Models lists every table the recorder migrates
var Models = []any{
	&Run{},
	&Transition{},
	&ProjectileSpawn{},
	&BusMessage{},
	&TickSummary{},
}
