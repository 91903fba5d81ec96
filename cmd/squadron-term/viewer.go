package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/sim"
)

// Terminal cells are roughly twice as tall as they are wide
const cellAspect = 2.0

var archetypeGlyphs = map[string]rune{
	"Scout":       'S',
	"Interceptor": 'I',
	"Bomber":      'B',
	"Fighter":     'F',
}

var stateColors = map[ai.State]tcell.Color{
	ai.StateIdle:            tcell.ColorGray,
	ai.StatePursuing:        tcell.ColorYellow,
	ai.StateRetreating:      tcell.ColorBlue,
	ai.StateCircling:        tcell.ColorTeal,
	ai.StateAttacking:       tcell.ColorRed,
	ai.StateFormationFlying: tcell.ColorGreen,
	ai.StateIntercepting:    tcell.ColorOrange,
	ai.StateEvading:         tcell.ColorPurple,
}

// Viewer draws a top-down view of a session centered on the player's orbit
type Viewer struct {
	screen tcell.Screen
	center game.Vec3
	scale  float64 // World units per column
	paused bool
}

// NewViewer creates a viewer on an initialized screen
func NewViewer(screen tcell.Screen, center game.Vec3, scale float64) *Viewer {
	return &Viewer{screen: screen, center: center, scale: scale}
}

// project maps a world position to a screen cell. ok is false off screen.
func (v *Viewer) project(pos game.Vec3) (x, y int, ok bool) {
	w, h := v.screen.Size()
	dx := (pos.X - v.center.X) / v.scale
	dy := (pos.Y - v.center.Y) / (v.scale * cellAspect)
	x = w/2 + int(math.Round(dx))
	// World Y grows upward, screen rows grow downward
	y = h/2 - int(math.Round(dy))
	// Rows 0 and h-1 hold the status and help lines
	ok = x >= 0 && x < w && y >= 1 && y < h-1
	return x, y, ok
}

// Zoom multiplies the scale, keeping it within sane bounds
func (v *Viewer) Zoom(factor float64) {
	v.scale = math.Min(math.Max(v.scale*factor, 1), 500)
}

// TogglePause flips the paused flag and returns the new value
func (v *Viewer) TogglePause() bool {
	v.paused = !v.paused
	return v.paused
}

func (v *Viewer) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Draw renders one frame
func (v *Viewer) Draw(snap sim.Snapshot, player *game.PlayerSnapshot, deaths int) {
	v.screen.Clear()
	_, h := v.screen.Size()

	for _, p := range snap.Projectiles {
		if x, y, ok := v.project(p.Position); ok {
			v.screen.SetContent(x, y, '.', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite))
		}
	}

	for _, ship := range snap.Ships {
		x, y, ok := v.project(ship.Position)
		if !ok {
			continue
		}
		glyph, known := archetypeGlyphs[ship.Archetype]
		if !known {
			glyph = '?'
		}
		style := tcell.StyleDefault.Foreground(stateColors[ship.State])
		if ship.Boosting || ship.Charging {
			style = style.Bold(true)
		}
		if ship.Emergency {
			style = style.Reverse(true)
		}
		v.screen.SetContent(x, y, glyph, nil, style)
	}

	if player != nil {
		if x, y, ok := v.project(player.Position); ok {
			v.screen.SetContent(x, y, '@', nil, tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
		}
	}

	status := fmt.Sprintf("tick %d  ships %d  shots %d  hits %d", snap.Tick, len(snap.Ships), len(snap.Projectiles), snap.PlayerHits)
	if player != nil {
		status += fmt.Sprintf("  player %.0f hp  deaths %d", player.Health, deaths)
	}
	if v.paused {
		status += "  [paused]"
	}
	v.drawText(0, 0, status, tcell.StyleDefault.Foreground(tcell.ColorWhite))
	v.drawText(0, h-1, "q quit  f formation  s strike  r reset  p pause  +/- zoom", tcell.StyleDefault.Foreground(tcell.ColorGray))

	v.screen.Show()
}
