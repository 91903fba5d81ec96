package ai

import (
	"math"
	"testing"

	"github.com/lab1702/squadron-ai/game"
)

func TestAssignFormationGeometry(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5, 8} {
		var units []*EnemyShip
		for i := 0; i < n; i++ {
			units = append(units, newTestShip(t, game.ArchetypeFighter, game.Vec3{X: float64(i) * 30}, NewBus(), nil, neverRand()))
		}
		center := game.Vec3{X: 500, Y: -200, Z: 10}

		assignments := AssignFormation(units, center)
		if len(assignments) != n {
			t.Fatalf("n=%d: got %d assignments", n, len(assignments))
		}

		for i, a := range assignments {
			s := a.Ship
			if d := game.Distance(s.FormationTarget, center); math.Abs(d-FormationRadius) > 1e-9 {
				t.Errorf("n=%d slot %d: distance %v from center, expected %v", n, i, d, FormationRadius)
			}
			if s.FormationIndex != i || !s.HasFormation {
				t.Errorf("n=%d slot %d: index %d hasFormation %v", n, i, s.FormationIndex, s.HasFormation)
			}
			if s.State != StateFormationFlying || s.StateTimer != 0 {
				t.Errorf("n=%d slot %d: state %s timer %v", n, i, s.State, s.StateTimer)
			}
			if i > 0 {
				prev := assignments[i-1].Offset
				if gap := game.AngleBetween(prev, a.Offset); math.Abs(gap-2*math.Pi/float64(n)) > 1e-9 && n > 2 {
					t.Errorf("n=%d: slots %d and %d are %v rad apart", n, i-1, i, gap)
				}
			}
		}
	}
}

func TestAssignFormationOverwritesAndSkipsInactive(t *testing.T) {
	a := newTestShip(t, game.ArchetypeFighter, game.Vec3{}, NewBus(), nil, neverRand())
	b := newTestShip(t, game.ArchetypeScout, game.Vec3{}, NewBus(), nil, neverRand())
	dead := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, NewBus(), nil, neverRand())
	dead.TakeDamage(dead.MaxHealth)

	AssignFormation([]*EnemyShip{a, dead, b}, game.Vec3{})
	if dead.HasFormation || dead.FormationIndex != -1 {
		t.Error("inactive unit received a formation slot")
	}
	if b.FormationIndex != 1 {
		t.Errorf("second active unit index %d, expected 1", b.FormationIndex)
	}

	a.StateTimer = 4
	AssignFormation([]*EnemyShip{a}, game.Vec3{X: 1000})
	if a.FormationTarget != (game.Vec3{X: 1000 + FormationRadius}) {
		t.Errorf("reassignment target %v", a.FormationTarget)
	}
	if a.StateTimer != 0 {
		t.Errorf("reassignment left state timer at %v", a.StateTimer)
	}

	if AssignFormation([]*EnemyShip{dead}, game.Vec3{}) != nil {
		t.Error("formation of inactive units returned assignments")
	}
}

func TestCoordinateStrikeCountsActiveInterceptors(t *testing.T) {
	bus := NewBus()
	i1 := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, bus, nil, neverRand())
	i2 := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, bus, nil, neverRand())
	dead := newTestShip(t, game.ArchetypeInterceptor, game.Vec3{}, bus, nil, neverRand())
	dead.TakeDamage(dead.MaxHealth)
	f := newTestShip(t, game.ArchetypeFighter, game.Vec3{}, bus, nil, neverRand())

	if n := CoordinateStrike([]*EnemyShip{i1, f, dead, i2}); n != 2 {
		t.Fatalf("CoordinateStrike returned %d, expected 2", n)
	}
	strike := i2.Behavior().(*Interceptor).Strike()
	if strike == nil || strike.Index != 1 || strike.Size != 2 {
		t.Errorf("unexpected assignment %+v", strike)
	}
	if dead.Behavior().(*Interceptor).Strike() != nil {
		t.Error("inactive interceptor joined the strike")
	}
}

func TestSquadReady(t *testing.T) {
	bus := NewBus()
	a := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, nil, neverRand())
	b := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, nil, neverRand())
	members := []*EnemyShip{a, b}

	if SquadReady(bus, MsgBombardReady, nil, 0) {
		t.Error("empty squad reported ready")
	}

	a.broadcast(MsgBombardReady, a.Position, nil)
	if SquadReady(bus, MsgBombardReady, members, 0) {
		t.Error("squad ready before every member reported")
	}

	b.broadcast(MsgBombardReady, b.Position, nil)
	if !SquadReady(bus, MsgBombardReady, members, 0) {
		t.Error("squad not ready after every member reported")
	}

	// A destroyed member no longer holds the squad back
	c := newTestShip(t, game.ArchetypeBomber, game.Vec3{}, bus, nil, neverRand())
	c.TakeDamage(c.MaxHealth)
	if !SquadReady(bus, MsgBombardReady, append(members, c), 0) {
		t.Error("inactive member blocked readiness")
	}
	if SquadReady(bus, MsgBombardReady, []*EnemyShip{c}, 0) {
		t.Error("squad of only inactive members reported ready")
	}
}
