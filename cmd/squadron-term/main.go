// Command squadron-term runs a squad session locally and draws it in the
// terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/config"
	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/logging"
	"github.com/lab1702/squadron-ai/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file")
	scale := flag.Float64("scale", 25, "World units per terminal column")
	flag.Parse()

	if err := run(*configPath, *scale); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, scale float64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The console belongs to the screen; logs only go to the file, if any
	log, closer, err := logging.Setup(cfg.LogLevel, io.Discard, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	ai.SetLogger(log)

	session := sim.NewSession(sim.Config{
		Seed:              cfg.Sim.Seed,
		BusRetentionTicks: uint64(cfg.Sim.BusRetentionTicks),
	}, log)
	player := sim.NewScriptedPlayer(game.Vec3{}, cfg.Player.Radius, cfg.Player.AngularSpeed)
	spawnCenter := game.Vec3{X: cfg.Squad.SpawnDistance}
	squad := cfg.Squad.Counts()

	spawn := func() error {
		if _, err := session.SpawnSquad(squad, spawnCenter, cfg.Squad.SpawnRadius); err != nil {
			return err
		}
		if cfg.Squad.FormationOnStart {
			session.AssignFormation(spawnCenter)
		}
		return nil
	}
	if err := spawn(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	viewer := NewViewer(screen, game.Vec3{}, scale)

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			eventChan <- screen.PollEvent()
		}
	}()

	interval := time.Second / time.Duration(cfg.Sim.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	dt := interval.Seconds()

	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				switch ev.Rune() {
				case 'q':
					return nil
				case 'f':
					session.AssignFormation(spawnCenter)
				case 's':
					session.CoordinateStrike()
				case 'r':
					session.Reset()
					if err := spawn(); err != nil {
						return err
					}
				case 'p':
					viewer.TogglePause()
				case '+', '=':
					viewer.Zoom(0.8)
				case '-':
					viewer.Zoom(1.25)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			if !viewer.paused {
				player.Advance(dt)
				stats := session.Step(dt, player.Snapshot())
				if stats.PlayerDamage > 0 {
					player.Hit(stats.PlayerDamage)
				}
			}
			viewer.Draw(session.Snapshot(), player.Snapshot(), player.Deaths())
		}
	}
}
