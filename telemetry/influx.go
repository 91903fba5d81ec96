package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/lab1702/squadron-ai/config"
	"github.com/lab1702/squadron-ai/sim"
	"github.com/rs/zerolog"
)

// Measurement is the InfluxDB measurement squad stats are written to
const Measurement = "squad_stats"

// PointWriter is the part of the InfluxDB write API the reporter uses
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point)
}

// Reporter writes one point of squad statistics per tick. Writes are
// non-blocking; the client batches and flushes in the background.
type Reporter struct {
	sim.BaseObserver

	Writer PointWriter
	Tags   map[string]string
	Logger zerolog.Logger

	client influxdb2.Client
	api    influxdb2_api.WriteAPI
}

// NewReporter wraps an existing writer
func NewReporter(w PointWriter, tags map[string]string, log zerolog.Logger) *Reporter {
	return &Reporter{
		Writer: w,
		Tags:   tags,
		Logger: log.With().Str("component", "influx").Logger(),
	}
}

// Connect opens an InfluxDB client, checks it is reachable and returns a
// reporter writing to cfg.Bucket.
func Connect(ctx context.Context, cfg config.InfluxConfig, tags map[string]string, log zerolog.Logger) (*Reporter, error) {
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	running, err := client.Ping(ctx)
	if err != nil || !running {
		client.Close()
		if err == nil {
			err = fmt.Errorf("server at %s not ready", cfg.URL)
		}
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}

	api := client.WriteAPI(cfg.Org, cfg.Bucket)
	r := NewReporter(api, tags, log)
	r.client = client
	r.api = api

	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			r.Logger.Error().Err(writeErr).Str("bucket", cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}(api.Errors())

	r.Logger.Info().Str("url", cfg.URL).Str("bucket", cfg.Bucket).Msg("InfluxDB client initialized")
	return r, nil
}

// StatsPoint converts a tick summary into a point. State and archetype
// counts become state_<name> and archetype_<name> fields.
func StatsPoint(stats sim.TickStats, tags map[string]string, ts time.Time) *influxdb2_write.Point {
	fields := map[string]interface{}{
		"tick":          int64(stats.Tick),
		"elapsed":       stats.Elapsed,
		"active":        stats.Active,
		"destroyed":     stats.Destroyed,
		"projectiles":   stats.Projectiles,
		"spawned":       stats.Spawned,
		"messages":      stats.Messages,
		"transitions":   stats.Transitions,
		"player_hits":   stats.PlayerHits,
		"player_damage": stats.PlayerDamage,
		"mean_health":   stats.MeanHealth,
	}
	for state, n := range stats.ByState {
		fields["state_"+state] = n
	}
	for archetype, n := range stats.ByArchetype {
		fields["archetype_"+strings.ToLower(archetype)] = n
	}
	return influxdb2.NewPoint(Measurement, tags, fields, ts)
}

func (r *Reporter) TickCompleted(stats sim.TickStats) {
	if r.Writer == nil {
		return
	}
	r.Writer.WritePoint(StatsPoint(stats, r.Tags, time.Now()))
}

// Close flushes pending points and closes the client
func (r *Reporter) Close() {
	if r.api != nil {
		r.api.Flush()
	}
	if r.client != nil {
		r.client.Close()
	}
}
