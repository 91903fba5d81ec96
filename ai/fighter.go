package ai

import "github.com/lab1702/squadron-ai/game"

// Fighter is the balanced line unit. While the player is beyond detection
// range it keeps station on the formation slot the squad coordinator handed
// out, whatever state the controller picked; without a slot it hunts on scout
// reports, or lies in wait when nobody can see the player. It also answers
// escort requests.
type Fighter struct{}

func (f *Fighter) Kind() game.Archetype { return game.ArchetypeFighter }

func (f *Fighter) Steer(s *EnemyShip, dt float64, target *game.PlayerSnapshot) bool {
	dist := game.Distance(s.Position, target.Position)

	if dist > s.DetectionRange {
		// An assigned formation slot outranks everything while the player is unseen
		if s.HasFormation {
			s.FlyFormation(dt)
			return true
		}
		if sighting, ok := freshSighting(s.bus); ok {
			// Head for where the target is expected to be now
			s.Pursue(sighting.Position, dt)
			return true
		}
		// Nobody has eyes on the target: hold still and wait for it
		s.brake(dt)
		return true
	}

	if (s.State == StateIdle || s.State == StateCircling) && s.Personality.Teamwork >= 0.5 {
		if msg, ok := escortRequest(s); ok {
			s.Pursue(msg.Position, dt)
			return true
		}
	}
	return false
}

func (f *Fighter) Modify(s *EnemyShip, dt float64, target *game.PlayerSnapshot) {}

func (f *Fighter) CanAttack(s *EnemyShip) bool {
	return cooldownReady(s)
}

func (f *Fighter) Attack(s *EnemyShip, target *game.PlayerSnapshot) {
	s.fire(aimedShot(s, target, game.ProjectileLight), game.ProjectileLight)
	s.TimeSinceLastAttack = 0
}

// freshSighting returns the newest TargetSighted payload still within
// SightingFreshTicks of the current bus tick.
func freshSighting(bus *Bus) (Sighting, bool) {
	if bus == nil {
		return Sighting{}, false
	}
	msg, ok := bus.Latest(MsgTargetSighted)
	if !ok || bus.Tick() > msg.Tick+SightingFreshTicks {
		return Sighting{}, false
	}
	sighting, ok := msg.Data.(Sighting)
	return sighting, ok
}

// escortRequest returns the newest fresh escort request from another unit
func escortRequest(s *EnemyShip) (Message, bool) {
	if s.bus == nil {
		return Message{}, false
	}
	msg, ok := s.bus.Latest(MsgRequestEscort)
	if !ok || msg.Sender == s.ID || s.bus.Tick() > msg.Tick+SightingFreshTicks {
		return Message{}, false
	}
	return msg, true
}
