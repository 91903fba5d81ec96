package ai

import "github.com/lab1702/squadron-ai/game"

// State is the controller state of one ship
type State int

const (
	StateIdle State = iota
	StatePursuing
	StateRetreating
	StateCircling
	StateAttacking
	StateFormationFlying
	StateIntercepting
	StateEvading
)

var stateNames = map[State]string{
	StateIdle:            "idle",
	StatePursuing:        "pursuing",
	StateRetreating:      "retreating",
	StateCircling:        "circling",
	StateAttacking:       "attacking",
	StateFormationFlying: "formation",
	StateIntercepting:    "intercepting",
	StateEvading:         "evading",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText lets snapshots and telemetry carry the state name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// varietySwaps maps the lateral swaps the variety roll may force
var varietySwaps = map[State]State{
	StatePursuing:   StateIntercepting,
	StateAttacking:  StateCircling,
	StateCircling:   StateAttacking,
	StateRetreating: StateEvading,
}

// TransitionInput is everything the transition rules look at besides the
// current state and its timer.
type TransitionInput struct {
	Distance        float64 // Distance to the player
	AttackRange     float64
	RetreatDistance float64
	DetectionRange  float64
	Personality     game.Personality
}

// Decision is the outcome of one transition evaluation
type Decision struct {
	Next          State
	Changed       bool // A transition occurred; the state timer resets
	VarietyRolled bool // The variety roll fired (timer resets even without a change)
}

// attackChance is the probability of Attacking (rather than Circling) on
// entering attack range. Neutral aggressiveness yields AttackProbability.
func attackChance(p game.Personality) float64 {
	return game.Clamp01(AttackProbability * (0.5 + p.Aggressiveness))
}

// varietyChance is the probability the variety roll forces a swap.
// Neutral caution yields VarietyProbability.
func varietyChance(p game.Personality) float64 {
	return game.Clamp01(VarietyProbability * (0.5 + p.Caution))
}

// Decide evaluates the transition rules in priority order and returns the
// resulting state. It is pure apart from drawing from rng.
func Decide(current State, stateTimer float64, in TransitionInput, rng Rand) Decision {
	keep := Decision{Next: current}

	// Rule 1: far away, close the gap
	if in.Distance > PursueRangeFactor*in.AttackRange &&
		current != StatePursuing && current != StateIntercepting {
		return Decision{Next: StatePursuing, Changed: true}
	}

	// Rule 2: too close, back off
	if in.Distance < in.RetreatDistance &&
		current != StateRetreating && current != StateEvading {
		return Decision{Next: StateRetreating, Changed: true}
	}

	// Rule 3: in range, engage
	if in.Distance <= in.AttackRange &&
		current != StateAttacking && current != StateCircling {
		if roll(rng, attackChance(in.Personality)) {
			return Decision{Next: StateAttacking, Changed: true}
		}
		return Decision{Next: StateCircling, Changed: true}
	}

	// Rule 4: variety roll, at most once per interval
	if stateTimer > VarietyInterval {
		keep.VarietyRolled = true
		if roll(rng, varietyChance(in.Personality)) {
			if swap, ok := varietySwaps[current]; ok {
				return Decision{Next: swap, Changed: true, VarietyRolled: true}
			}
		}
	}

	return keep
}
