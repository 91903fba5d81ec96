package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/sim"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func cellAt(screen tcell.SimulationScreen, x, y int) (rune, tcell.Style) {
	r, _, style, _ := screen.GetContent(x, y)
	return r, style
}

func rowText(screen tcell.SimulationScreen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _ := cellAt(screen, x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestProject(t *testing.T) {
	v := NewViewer(newTestScreen(t), game.Vec3{}, 10)

	tests := []struct {
		name   string
		pos    game.Vec3
		wantX  int
		wantY  int
		wantOK bool
	}{
		{"center", game.Vec3{}, 40, 12, true},
		{"right", game.Vec3{X: 100}, 50, 12, true},
		{"up is a lower row", game.Vec3{Y: 100}, 40, 7, true},
		{"off the right edge", game.Vec3{X: 1000}, 140, 12, false},
		{"status row is reserved", game.Vec3{Y: 240}, 40, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := v.project(tt.pos)
			if x != tt.wantX || y != tt.wantY || ok != tt.wantOK {
				t.Errorf("project(%v) = (%d, %d, %v), expected (%d, %d, %v)",
					tt.pos, x, y, ok, tt.wantX, tt.wantY, tt.wantOK)
			}
		})
	}
}

func TestDrawShipsAndPlayer(t *testing.T) {
	screen := newTestScreen(t)
	v := NewViewer(screen, game.Vec3{}, 10)

	snap := sim.Snapshot{
		Tick: 7,
		Ships: []sim.ShipView{
			{Archetype: "Bomber", State: ai.StateAttacking, Position: game.Vec3{X: 100}},
			{Archetype: "Scout", State: ai.StateIdle, Position: game.Vec3{X: -100}},
		},
		Projectiles: []sim.Projectile{{Position: game.Vec3{X: 50}}},
	}
	player := &game.PlayerSnapshot{Health: 80}
	v.Draw(snap, player, 1)

	if r, style := cellAt(screen, 50, 12); r != 'B' {
		t.Errorf("Expected bomber glyph at (50,12), got %q", r)
	} else if fg, _, _ := style.Decompose(); fg != tcell.ColorRed {
		t.Errorf("Expected attacking ship in red, got %v", fg)
	}
	if r, _ := cellAt(screen, 30, 12); r != 'S' {
		t.Errorf("Expected scout glyph at (30,12), got %q", r)
	}
	if r, _ := cellAt(screen, 45, 12); r != '.' {
		t.Errorf("Expected projectile at (45,12), got %q", r)
	}
	if r, _ := cellAt(screen, 40, 12); r != '@' {
		t.Errorf("Expected player at center, got %q", r)
	}

	status := rowText(screen, 0)
	if !strings.HasPrefix(status, "tick 7  ships 2  shots 1") {
		t.Errorf("status line %q", status)
	}
	if !strings.Contains(status, "deaths 1") {
		t.Errorf("status line missing deaths: %q", status)
	}
}

func TestZoomAndPause(t *testing.T) {
	v := NewViewer(newTestScreen(t), game.Vec3{}, 10)

	v.Zoom(0.5)
	if v.scale != 5 {
		t.Errorf("scale = %v, expected 5", v.scale)
	}
	v.Zoom(0.01)
	if v.scale != 1 {
		t.Errorf("scale = %v, expected clamp to 1", v.scale)
	}

	if !v.TogglePause() || v.TogglePause() {
		t.Error("TogglePause should alternate")
	}
}
