package ai

import (
	"math"
	"testing"

	"github.com/lab1702/squadron-ai/game"
)

func TestInterceptorBoostsInsideWindow(t *testing.T) {
	s := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, NewBus(), nil, neverRand())
	ic := s.Behavior().(*Interceptor)

	ic.Intercept(s, playerAt(150, 0, 0), dt)

	if !ic.BoostActive(s) {
		t.Fatal("boost not activated at distance 150")
	}
	if s.MaxSpeed() != BoostMultiplier*s.Speed {
		t.Errorf("boosted cap %v, expected %v", s.MaxSpeed(), BoostMultiplier*s.Speed)
	}
}

func TestInterceptorBoostWindowEdges(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		boost    bool
	}{
		{"TooClose", 99, false},
		{"MinEdge", 100, true},
		{"Middle", 250, true},
		{"MaxEdge", 400, true},
		{"TooFar", 401, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, NewBus(), nil, neverRand())
			ic := s.Behavior().(*Interceptor)
			ic.Intercept(s, playerAt(tt.distance, 0, 0), dt)
			if ic.BoostActive(s) != tt.boost {
				t.Errorf("distance %v: boost %v, expected %v", tt.distance, ic.BoostActive(s), tt.boost)
			}
		})
	}
}

func TestInterceptorBoostTiming(t *testing.T) {
	s := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, NewBus(), nil, neverRand())
	ic := s.Behavior().(*Interceptor)

	if !ic.ActivateBoost(s) {
		t.Fatal("fresh interceptor could not boost")
	}

	s.clock = 1.4
	if !ic.BoostActive(s) {
		t.Error("boost expired before 1.5s")
	}
	s.clock = 1.5
	if ic.BoostActive(s) || s.MaxSpeed() != s.Speed {
		t.Error("boost still active at 1.5s")
	}

	s.clock = 5.9
	if ic.ActivateBoost(s) {
		t.Error("boost reactivated before cooldown elapsed")
	}
	s.clock = 6.0
	if !ic.ActivateBoost(s) {
		t.Error("boost unavailable after cooldown")
	}
	if ic.Boosts != 2 {
		t.Errorf("Boosts = %d, expected 2", ic.Boosts)
	}
}

// Far from the player the controller pursues, and the pursuit goes through
// the intercept maneuver
func TestInterceptorPursuitUsesIntercept(t *testing.T) {
	s := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, NewBus(), nil, neverRand())
	ic := s.Behavior().(*Interceptor)

	s.Update(dt, playerAt(380, 0, 0), nil)

	if s.State != StatePursuing {
		t.Fatalf("state %s, expected pursuing", s.State)
	}
	if !ic.BoostActive(s) {
		t.Error("pursuit inside boost window did not boost")
	}
}

func TestInterceptorBurst(t *testing.T) {
	spawner := &spawnRecorder{}
	s := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, NewBus(), spawner, &scriptedRand{values: []float64{0.5}})

	if !s.CanAttack() {
		t.Fatal("fresh interceptor cannot attack")
	}
	s.Attack(playerAt(200, 0, 0))

	if n := spawner.count(game.ProjectileBurst); n != InterceptorBurstCount {
		t.Fatalf("burst fired %d projectiles, expected %d", n, InterceptorBurstCount)
	}
	first, last := spawner.requests[0].Direction, spawner.requests[len(spawner.requests)-1].Direction
	spread := game.AngleBetween(first, last) * 180 / math.Pi
	want := InterceptorBurstSpread * float64(InterceptorBurstCount-1)
	if math.Abs(spread-want) > 1e-6 {
		t.Errorf("burst fan spans %v degrees, expected %v", spread, want)
	}
	if s.CanAttack() {
		t.Error("interceptor can attack again immediately")
	}

	// Hit-and-run: the interceptor breaks away before re-engaging
	s.State = StateAttacking
	if !s.Behavior().Steer(s, dt, playerAt(200, 0, 0)) || s.Velocity.X >= 0 {
		t.Errorf("interceptor not breaking away after burst: %v", s.Velocity)
	}
}

func TestCoordinatedStrikeWaitsForAllMembers(t *testing.T) {
	bus := NewBus()
	spawner := &spawnRecorder{}
	a := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{X: 200}, bus, spawner, neverRand())
	b := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{X: -1000}, bus, spawner, neverRand())
	units := []*EnemyShip{a, b}
	player := playerAt(0, 0, 0)

	if n := CoordinateStrike(units); n != 2 {
		t.Fatalf("CoordinateStrike = %d", n)
	}
	radius := a.AttackRange * StrikeRadiusFactor
	if p := StrikePoint(player.Position, 0, 2, radius); p != (game.Vec3{X: radius}) {
		t.Fatalf("strike point 0 = %v", p)
	}

	for i := 0; i < 5; i++ {
		bus.Advance()
		a.Update(dt, player, units)
		b.Update(dt, player, units)
	}
	if len(spawner.requests) != 0 {
		t.Fatalf("strike fired with a member out of position: %d shots", len(spawner.requests))
	}
	if len(bus.Messages(MsgStrikeReady, 0)) == 0 {
		t.Error("in-position member never reported ready")
	}

	// Put the second member on its attack vector
	b.Position = StrikePoint(player.Position, 1, 2, radius)
	b.Velocity = game.Vec3{}
	for i := 0; i < 2; i++ {
		bus.Advance()
		a.Update(dt, player, units)
		b.Update(dt, player, units)
	}

	if n := spawner.count(game.ProjectileBurst); n != 2*InterceptorBurstCount {
		t.Errorf("expected both members to fire a burst, got %d shots", n)
	}
	if len(bus.Messages(MsgCoordinatedAttack, 0)) != 2 {
		t.Errorf("expected 2 coordinated attack messages, got %d", len(bus.Messages(MsgCoordinatedAttack, 0)))
	}
	for _, u := range units {
		if u.Behavior().(*Interceptor).Strike() != nil {
			t.Error("strike assignment not cleared after firing")
		}
	}
}
