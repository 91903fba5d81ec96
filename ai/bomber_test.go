package ai

import (
	"math"
	"testing"

	"github.com/lab1702/squadron-ai/game"
)

func TestBomberChargeReleasesOneHeavyShot(t *testing.T) {
	spawner := &spawnRecorder{}
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, NewBus(), spawner, neverRand())
	b := s.Behavior().(*Bomber)
	player := playerAt(300, 0, 0)

	s.TimeSinceLastAttack = 5.0
	if !s.CanAttack() {
		t.Fatal("bomber with expired cooldown cannot attack")
	}

	s.Velocity = game.Vec3{Y: 30}
	s.Attack(player)
	if !b.Charging() || !s.Velocity.IsZero() {
		t.Fatalf("after Attack: charging %v velocity %v", b.Charging(), s.Velocity)
	}
	if s.CanAttack() {
		t.Error("bomber can attack again while charging")
	}

	// 1.9s of charge: nothing fires and the bomber sits still
	for i := 0; i < 19; i++ {
		s.Update(dt, player, nil)
		if !s.Velocity.IsZero() {
			t.Fatalf("bomber moved while charging: %v", s.Velocity)
		}
	}
	if n := spawner.count(game.ProjectileHeavy); n != 0 {
		t.Fatalf("%d heavy shots fired before charge completed", n)
	}
	if !b.Charging() {
		t.Fatal("charge ended early")
	}

	s.Update(dt, player, nil)
	if n := spawner.count(game.ProjectileHeavy); n != 1 {
		t.Fatalf("expected exactly 1 heavy shot after 2.0s, got %d", n)
	}
	if b.Charging() {
		t.Error("still charging after release")
	}
	if b.HeavyShots != 1 {
		t.Errorf("HeavyShots = %d", b.HeavyShots)
	}

	// Recoil pushes the bomber away from the target
	if s.Velocity.X >= 0 || math.Abs(s.Velocity.Len()-BomberRecoil) > 1e-6 {
		t.Errorf("recoil velocity %v, expected %v away from target", s.Velocity, BomberRecoil)
	}

	shot := spawner.requests[0]
	if shot.Owner != s.ID.String() || shot.Direction.X <= 0.99 {
		t.Errorf("unexpected heavy shot %+v", shot)
	}
}

func TestBomberChargeIgnoresStateController(t *testing.T) {
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, NewBus(), &spawnRecorder{}, alwaysRand())
	s.State = StateAttacking
	s.Attack(playerAt(300, 0, 0))

	// Player far away would normally force a pursuit
	for i := 0; i < 5; i++ {
		s.Update(dt, playerAt(5000, 0, 0), nil)
	}
	if s.State != StateAttacking {
		t.Errorf("state changed to %s during charge", s.State)
	}
}

func TestBomberSuppressiveFireWhileCircling(t *testing.T) {
	spawner := &spawnRecorder{}
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, NewBus(), spawner, neverRand())
	s.State = StateCircling

	s.Update(dt, playerAt(300, 0, 0), nil)

	if n := spawner.count(game.ProjectileSuppressive); n != 1 {
		t.Fatalf("expected 1 suppressive shot, got %d", n)
	}
	if s.TimeSinceLastAttack != 0 {
		t.Errorf("suppressive fire did not reset cooldown: %v", s.TimeSinceLastAttack)
	}

	s.Update(dt, playerAt(300, 0, 0), nil)
	if n := spawner.count(game.ProjectileSuppressive); n != 1 {
		t.Errorf("suppressive fire ignored cooldown: %d shots", n)
	}
}

func TestBomberSuppressiveFireLeadsTarget(t *testing.T) {
	spawner := &spawnRecorder{}
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, NewBus(), spawner, &scriptedRand{values: []float64{0.5}})
	target := &game.PlayerSnapshot{Position: game.Vec3{X: 300}, Velocity: game.Vec3{Y: 100}}

	s.Behavior().(*Bomber).SuppressiveFire(s, target)

	// Zero jitter with a 0.5 draw; aim point is one second ahead
	want := game.Vec3{X: 300, Y: 100}.Normalize()
	if got := spawner.requests[0].Direction; game.AngleBetween(got, want) > 1e-9 {
		t.Errorf("suppressive direction %v, expected %v", got, want)
	}
}

func TestBomberEmergencyRetreat(t *testing.T) {
	bus := NewBus()
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, &spawnRecorder{}, neverRand())
	b := s.Behavior().(*Bomber)
	player := playerAt(200, 0, 0)

	s.TakeDamage(s.MaxHealth * 0.8)
	if !s.TriggerEmergencyRetreat() {
		t.Fatal("emergency retreat did not start")
	}
	if s.TriggerEmergencyRetreat() {
		t.Error("emergency retreat started twice")
	}
	if s.State != StateRetreating || !b.InEmergency() {
		t.Fatalf("state %s emergency %v", s.State, b.InEmergency())
	}

	for i := 0; i < 10; i++ {
		bus.Advance()
		s.Update(dt, player, nil)
	}
	if n := len(bus.Messages(MsgRequestEscort, 0)); n != 1 {
		t.Errorf("expected one escort request, got %d", n)
	}
	if s.State != StateRetreating {
		t.Errorf("controller changed state to %s during emergency", s.State)
	}
	if s.Position.X >= 0 {
		t.Errorf("bomber did not flee: position %v", s.Position)
	}
	if s.CanAttack() {
		t.Error("bomber can attack during emergency retreat")
	}

	s.Repair(s.MaxHealth)
	s.Update(dt, player, nil)
	if b.InEmergency() {
		t.Error("repaired bomber still in emergency")
	}
}

func TestBomberSeeksCoverWhenDamaged(t *testing.T) {
	bus := NewBus()
	s := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, nil, neverRand())
	ally := newTestShip(t, game.ArchetypeFighter, game.Vec3{Y: 200}, bus, nil, neverRand())
	s.State = StateCircling
	s.TakeDamage(s.MaxHealth * 0.5)
	s.NearbyAllies = []*EnemyShip{ally}

	if !s.Behavior().Steer(s, dt, playerAt(0, -300, 0)) {
		t.Fatal("damaged bomber did not seek cover")
	}
	if s.Velocity.Y <= 0 {
		t.Errorf("bomber not heading toward cover behind ally: %v", s.Velocity)
	}

	cover := CoverPoint(game.Vec3{X: 100}, game.Vec3{})
	if cover != (game.Vec3{X: 100 + BomberCoverOffset}) {
		t.Errorf("CoverPoint = %v", cover)
	}
	if CoverPoint(game.Vec3{X: 5}, game.Vec3{X: 5}) != (game.Vec3{X: 5}) {
		t.Error("CoverPoint with coincident threat should return the ally position")
	}
}

func TestBombersWaitForSquadReadiness(t *testing.T) {
	bus := NewBus()
	bus.Advance()
	a := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, nil, neverRand())
	b := newTestShip(t, game.ArchetypeBomber, game.Vec3{X: 50}, bus, nil, neverRand())
	a.NearbyAllies = []*EnemyShip{b}
	b.NearbyAllies = []*EnemyShip{a}

	if a.CanAttack() {
		t.Fatal("bomber attacked before its partner reported ready")
	}

	b.broadcast(MsgBombardReady, b.Position, nil)
	if !a.CanAttack() {
		t.Error("bomber not ready after partner reported")
	}

	// Readiness from the previous tick still counts, older does not
	bus.Advance()
	if !a.CanAttack() {
		t.Error("previous-tick readiness ignored")
	}
	bus.Advance()
	if a.CanAttack() {
		t.Error("stale readiness accepted")
	}
}
