package ai

import (
	"sync"

	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/game"
)

// MessageKind identifies what an inter-unit message announces
type MessageKind int

const (
	MsgTargetSighted MessageKind = iota
	MsgCoordinatedAttack
	MsgRequestEscort
	MsgBombardReady
	MsgStrikeReady
)

var messageKindNames = map[MessageKind]string{
	MsgTargetSighted:     "target_sighted",
	MsgCoordinatedAttack: "coordinated_attack",
	MsgRequestEscort:     "request_escort",
	MsgBombardReady:      "bombard_ready",
	MsgStrikeReady:       "strike_ready",
}

func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets snapshots carry the kind name
func (k MessageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Message is one inter-unit broadcast. Tick and Seq are stamped by the bus.
type Message struct {
	Kind      MessageKind    `json:"kind"`
	Sender    uuid.UUID      `json:"sender"`
	Archetype game.Archetype `json:"archetype"`
	Position  game.Vec3      `json:"position"`
	Data      any            `json:"data,omitempty"`
	Tick      uint64         `json:"tick"`
	Seq       uint64         `json:"seq"`
}

// Sighting is the payload of a TargetSighted message
type Sighting struct {
	Position   game.Vec3 `json:"position"`
	Velocity   game.Vec3 `json:"velocity"`
	Health     float64   `json:"health"`
	Confidence float64   `json:"confidence"` // 1 at point blank, 0 at the edge of detection
}

// Bus is the session-scoped broadcast channel shared by every unit.
// Broadcasts are fire-and-forget appends; readers poll. Appends are visible to
// every reader immediately, so a message sent during a tick is observable by
// units updated later in the same tick. Access is serialized so hosts may read
// from other goroutines.
type Bus struct {
	mu       sync.Mutex
	tick     uint64
	seq      uint64
	messages []Message
}

// NewBus creates an empty bus at tick 0
func NewBus() *Bus {
	return &Bus{}
}

// Broadcast appends msg, stamping the current tick and a global sequence number
func (b *Bus) Broadcast(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	msg.Tick = b.tick
	msg.Seq = b.seq
	b.messages = append(b.messages, msg)
}

// Tick returns the current bus tick
func (b *Bus) Tick() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tick
}

// Advance moves the bus to the next tick and returns it.
// Called by the scheduler once before each simulation step.
func (b *Bus) Advance() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tick++
	return b.tick
}

// Prune drops messages older than keepTicks ticks. keepTicks of 1 keeps only
// the current tick. Retention is the scheduler's policy, not the units'.
func (b *Bus) Prune(keepTicks uint64) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if keepTicks == 0 {
		dropped := len(b.messages)
		b.messages = b.messages[:0]
		return dropped
	}
	var oldest uint64
	if b.tick+1 > keepTicks {
		oldest = b.tick + 1 - keepTicks
	}

	kept := b.messages[:0]
	for _, m := range b.messages {
		if m.Tick >= oldest {
			kept = append(kept, m)
		}
	}
	dropped := len(b.messages) - len(kept)
	// Clear the tail so dropped payloads can be collected
	for i := len(kept); i < len(b.messages); i++ {
		b.messages[i] = Message{}
	}
	b.messages = kept
	return dropped
}

// Len returns the number of retained messages
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.messages)
}

// Messages returns a copy of retained messages of the given kind sent at or
// after sinceTick, in send order.
func (b *Bus) Messages(kind MessageKind, sinceTick uint64) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Message
	for _, m := range b.messages {
		if m.Kind == kind && m.Tick >= sinceTick {
			out = append(out, m)
		}
	}
	return out
}

// All returns a copy of every retained message sent at or after sinceTick
func (b *Bus) All(sinceTick uint64) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Message
	for _, m := range b.messages {
		if m.Tick >= sinceTick {
			out = append(out, m)
		}
	}
	return out
}

// Latest returns the most recent retained message of the given kind
func (b *Bus) Latest(kind MessageKind) (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := len(b.messages) - 1; i >= 0; i-- {
		if b.messages[i].Kind == kind {
			return b.messages[i], true
		}
	}
	return Message{}, false
}

// ReadySenders returns the set of senders that posted kind at or after sinceTick
func (b *Bus) ReadySenders(kind MessageKind, sinceTick uint64) map[uuid.UUID]bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	ready := make(map[uuid.UUID]bool)
	for _, m := range b.messages {
		if m.Kind == kind && m.Tick >= sinceTick {
			ready[m.Sender] = true
		}
	}
	return ready
}

// readinessWindow returns the oldest tick whose readiness still counts: the
// current or previous tick, so units updated early in a tick see squad-mates
// that reported during the previous one.
func readinessWindow(b *Bus) uint64 {
	t := b.Tick()
	if t == 0 {
		return 0
	}
	return t - 1
}
