package ai

import (
	"math"

	"github.com/lab1702/squadron-ai/game"
)

// FormationAssignment is one unit's slot in a formation
type FormationAssignment struct {
	Ship   *EnemyShip
	Center game.Vec3
	Index  int
	Offset game.Vec3
}

// AssignFormation spaces the active units evenly on a circle of
// FormationRadius around center (angle 2π·i/N in the XY plane), writes the
// slot into each ship and switches it to FormationFlying. Calling it again
// overwrites previous slots without interpolation. Inactive units are skipped.
func AssignFormation(units []*EnemyShip, center game.Vec3) []FormationAssignment {
	var active []*EnemyShip
	for _, u := range units {
		if u != nil && u.Active {
			active = append(active, u)
		}
	}
	n := len(active)
	if n == 0 {
		return nil
	}

	assignments := make([]FormationAssignment, 0, n)
	for i, u := range active {
		angle := 2 * math.Pi * float64(i) / float64(n)
		offset := game.PlanarDirection(angle).Scale(FormationRadius)

		u.FormationIndex = i
		u.FormationOffset = offset
		u.FormationTarget = center.Add(offset)
		u.HasFormation = true
		u.enterState(StateFormationFlying)

		assignments = append(assignments, FormationAssignment{
			Ship:   u,
			Center: center,
			Index:  i,
			Offset: offset,
		})
	}
	return assignments
}

// CoordinateStrike groups the active interceptors among units into one
// synchronized strike. Each gets an attack vector by index. Returns the
// number of participants.
func CoordinateStrike(units []*EnemyShip) int {
	var members []*EnemyShip
	for _, u := range units {
		if u == nil || !u.Active {
			continue
		}
		if _, ok := u.behavior.(*Interceptor); ok {
			members = append(members, u)
		}
	}

	for i, m := range members {
		m.behavior.(*Interceptor).Assign(&StrikeAssignment{
			Index:   i,
			Size:    len(members),
			Members: members,
		})
	}
	return len(members)
}

// SquadReady reports whether every active member posted kind at or after
// sinceTick. A squad with no active members is never ready.
func SquadReady(bus *Bus, kind MessageKind, members []*EnemyShip, sinceTick uint64) bool {
	ready := bus.ReadySenders(kind, sinceTick)
	active := 0
	for _, m := range members {
		if m == nil || !m.Active {
			continue
		}
		active++
		if !ready[m.ID] {
			return false
		}
	}
	return active > 0
}
