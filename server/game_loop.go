package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/sim"
)

// PlayerView is the scripted player as sent to observers
type PlayerView struct {
	game.PlayerSnapshot
	Deaths int `json:"deaths"`
}

// StateUpdate is the payload of every update message
type StateUpdate struct {
	sim.Snapshot
	Player PlayerView    `json:"player"`
	Stats  sim.TickStats `json:"stats"`
}

// SpawnSquad spawns the configured squad around the spawn center and puts it
// in formation when configured to.
func (s *Server) SpawnSquad() error {
	ships, err := s.session.SpawnSquad(s.opts.Squad, s.opts.SpawnCenter, s.opts.SpawnRadius)
	if err != nil {
		return err
	}
	if s.opts.FormationOnStart {
		s.session.AssignFormation(s.opts.SpawnCenter)
	}
	s.log.Info().Int("ships", len(ships)).Interface("center", s.opts.SpawnCenter).Msg("Squad spawned")
	return nil
}

// tickInterval is the wall time between steps
func (s *Server) tickInterval() time.Duration {
	return time.Second / time.Duration(s.opts.TickRate)
}

// gameLoop runs the simulation until Shutdown
func (s *Server) gameLoop() {
	ticker := time.NewTicker(s.tickInterval())
	defer ticker.Stop()

	dt := s.tickInterval().Seconds()
	for {
		select {
		case <-ticker.C:
			stats := s.step(dt)
			s.sendState(stats)
		case <-s.done:
			return
		}
	}
}

// step advances the player and the squad by dt and applies the squad's hits
// to the player.
func (s *Server) step(dt float64) sim.TickStats {
	s.player.Advance(dt)
	stats := s.session.Step(dt, s.player.Snapshot())
	if stats.PlayerDamage > 0 {
		s.player.Hit(stats.PlayerDamage)
	}

	s.mu.Lock()
	if deaths := s.player.Deaths(); deaths != s.playerDeaths {
		s.log.Info().Int("deaths", deaths).Uint64("tick", stats.Tick).Msg("Player destroyed")
		s.playerDeaths = deaths
	}
	s.mu.Unlock()
	return stats
}

// sendState broadcasts the current snapshot to every observer
func (s *Server) sendState(stats sim.TickStats) {
	s.mu.RLock()
	deaths := s.playerDeaths
	s.mu.RUnlock()

	update := StateUpdate{
		Snapshot: s.session.Snapshot(),
		Player: PlayerView{
			PlayerSnapshot: *s.player.Snapshot(),
			Deaths:         deaths,
		},
		Stats: stats,
	}

	select {
	case s.broadcast <- ServerMessage{Type: MsgTypeUpdate, Data: update}:
	case <-s.done:
	}
}

// squadStats is the body of the squad stats endpoint
type squadStats struct {
	sim.TickStats
	PlayerDeaths int `json:"playerDeaths"`
	Clients      int `json:"clients"`
}

// HandleSquadStats returns the current squad summary
func (s *Server) HandleSquadStats(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.mu.RLock()
	response := squadStats{
		TickStats:    s.session.Stats(),
		PlayerDeaths: s.playerDeaths,
		Clients:      len(s.clients),
	}
	s.mu.RUnlock()

	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.log.Error().Err(err).Msg("Encoding squad stats")
	}
}

// HandleHealth reports that the server is up
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
