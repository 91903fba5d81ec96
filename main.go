package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/config"
	"github.com/lab1702/squadron-ai/game"
	"github.com/lab1702/squadron-ai/logging"
	"github.com/lab1702/squadron-ai/recorder"
	"github.com/lab1702/squadron-ai/server"
	"github.com/lab1702/squadron-ai/sim"
	"github.com/lab1702/squadron-ai/telemetry"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "Path to a config file (JSON or YAML)")
	port := flag.String("port", "", "Server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("Loading configuration")
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	log, closer, err := logging.Setup(cfg.LogLevel, os.Stdout, cfg.LogFile)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("Setting up logging")
	}
	defer closer.Close()
	ai.SetLogger(log)

	log.Info().Str("port", cfg.Server.Port).Int64("seed", cfg.Sim.Seed).Msg("Starting Squadron AI server")

	session := sim.NewSession(sim.Config{
		Seed:              cfg.Sim.Seed,
		BusRetentionTicks: uint64(cfg.Sim.BusRetentionTicks),
	}, log)

	// Recorder and InfluxDB failures are logged; the simulation runs without them
	if cfg.Recorder.Enabled {
		rec, err := openRecorder(cfg, log)
		if err != nil {
			log.Error().Err(err).Msg("Recorder disabled")
		} else {
			session.AddObserver(rec)
			defer rec.Close()
		}
	}
	if cfg.Influx.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		reporter, err := telemetry.Connect(ctx, cfg.Influx, map[string]string{
			"seed": strconv.FormatInt(cfg.Sim.Seed, 10),
		}, log)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("InfluxDB reporting disabled")
		} else {
			session.AddObserver(reporter)
			defer reporter.Close()
		}
	}

	player := sim.NewScriptedPlayer(game.Vec3{}, cfg.Player.Radius, cfg.Player.AngularSpeed)
	gameServer := server.NewServer(session, player, server.Options{
		TickRate:         cfg.Sim.TickRate,
		Squad:            cfg.Squad.Counts(),
		SpawnCenter:      game.Vec3{X: cfg.Squad.SpawnDistance},
		SpawnRadius:      cfg.Squad.SpawnRadius,
		FormationOnStart: cfg.Squad.FormationOnStart,
	}, log)
	if err := gameServer.SpawnSquad(); err != nil {
		log.Fatal().Err(err).Msg("Spawning squad")
	}
	go gameServer.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)
	mux.HandleFunc("/api/squad", gameServer.HandleSquadStats)
	mux.HandleFunc("/health", gameServer.HandleHealth)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Msgf("Server running at http://localhost:%s", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Stringer("signal", sig).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop the game loop first so observers see no more ticks
	gameServer.Shutdown()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

func openRecorder(cfg config.Config, log zerolog.Logger) (*recorder.Recorder, error) {
	db, err := recorder.Open(cfg.Recorder.Driver, cfg.Recorder.DSN)
	if err != nil {
		return nil, err
	}
	return recorder.New(db, cfg.Sim.Seed, log)
}
