package server

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/game"
)

// DamageData is the payload of damage and repair messages
type DamageData struct {
	Ship   string  `json:"ship"`
	Amount float64 `json:"amount"`
}

// SpawnData is the payload of a spawn message
type SpawnData struct {
	Archetype string     `json:"archetype"`
	Position  *game.Vec3 `json:"position,omitempty"` // Defaults to the spawn center
}

// FormationData is the payload of a formation message
type FormationData struct {
	Center *game.Vec3 `json:"center,omitempty"` // Defaults to the spawn center
}

func (c *Client) decodeShip(data json.RawMessage) (uuid.UUID, float64, bool) {
	var d DamageData
	if err := json.Unmarshal(data, &d); err != nil {
		c.sendError("invalid payload")
		return uuid.Nil, 0, false
	}
	id, err := uuid.Parse(d.Ship)
	if err != nil {
		c.sendError("invalid ship id")
		return uuid.Nil, 0, false
	}
	if d.Amount <= 0 {
		c.sendError("amount must be positive")
		return uuid.Nil, 0, false
	}
	return id, d.Amount, true
}

func (c *Client) handleDamage(data json.RawMessage) {
	id, amount, ok := c.decodeShip(data)
	if !ok {
		return
	}

	destroyed, err := c.server.session.DamageShip(id, amount)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if destroyed {
		c.server.log.Info().Str("ship", id.String()).Int("client", c.ID).Msg("Ship destroyed by observer")
		c.sendInfo(fmt.Sprintf("Ship %s destroyed", id))
		return
	}
	c.sendInfo(fmt.Sprintf("Ship %s took %.0f damage", id, amount))
}

func (c *Client) handleRepair(data json.RawMessage) {
	id, amount, ok := c.decodeShip(data)
	if !ok {
		return
	}

	if err := c.server.session.RepairShip(id, amount); err != nil {
		c.sendError(err.Error())
		return
	}
	c.sendInfo(fmt.Sprintf("Ship %s repaired %.0f", id, amount))
}

func (c *Client) handleSpawn(data json.RawMessage) {
	var d SpawnData
	if err := json.Unmarshal(data, &d); err != nil {
		c.sendError("invalid payload")
		return
	}
	kind, ok := game.ParseArchetype(d.Archetype)
	if !ok {
		c.sendError("unknown archetype: " + d.Archetype)
		return
	}
	pos := c.server.opts.SpawnCenter
	if d.Position != nil {
		pos = *d.Position
	}

	ship, err := c.server.session.Spawn(kind, pos)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.sendInfo(fmt.Sprintf("%s %s spawned", kind, ship.ID))
}

func (c *Client) handleFormation(data json.RawMessage) {
	var d FormationData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &d); err != nil {
			c.sendError("invalid payload")
			return
		}
	}
	center := c.server.opts.SpawnCenter
	if d.Center != nil {
		center = *d.Center
	}

	n := c.server.session.AssignFormation(center)
	c.sendInfo(fmt.Sprintf("%d ships in formation", n))
}

func (c *Client) handleStrike() {
	n := c.server.session.CoordinateStrike()
	if n == 0 {
		c.sendInfo("No interceptors available for a strike")
		return
	}
	c.sendInfo(fmt.Sprintf("%d interceptors ordered to strike", n))
}

func (c *Client) handleReset() {
	c.server.session.Reset()
	if err := c.server.SpawnSquad(); err != nil {
		c.sendError(err.Error())
		return
	}
	c.sendInfo("Squad reset")
}
