package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/lab1702/squadron-ai/ai"
	"github.com/lab1702/squadron-ai/sim"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultFlushTicks is how many ticks of events are buffered between writes
const DefaultFlushTicks = 10

// Open connects to the telemetry database. driver is "sqlite" (dsn is a file
// path, or ":memory:") or "postgres" (dsn is a libpq connection string).
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unsupported recorder driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}
	return db, nil
}

// Recorder persists session events. It buffers rows and writes them in
// batches every FlushTicks ticks. Write failures are logged and never stop
// the simulation.
type Recorder struct {
	sim.BaseObserver

	DB         *gorm.DB
	RunID      string
	FlushTicks uint64
	Logger     zerolog.Logger

	mu          sync.Mutex
	transitions []Transition
	spawns      []ProjectileSpawn
	messages    []BusMessage
	ticks       []TickSummary
}

// New migrates the schema and registers a new run
func New(db *gorm.DB, seed int64, log zerolog.Logger) (*Recorder, error) {
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("migrating recorder schema: %w", err)
	}

	run := Run{RunID: uuid.NewString(), Seed: seed, StartedAt: time.Now().UTC()}
	if err := db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	r := &Recorder{
		DB:         db,
		RunID:      run.RunID,
		FlushTicks: DefaultFlushTicks,
		Logger:     log.With().Str("component", "recorder").Str("run", run.RunID).Logger(),
	}
	r.Logger.Info().Str("dialect", db.Dialector.Name()).Msg("recording session")
	return r, nil
}

func (r *Recorder) ShipTransitioned(ev sim.TransitionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, Transition{
		RunID:     r.RunID,
		Tick:      ev.Tick,
		ShipID:    ev.Ship.String(),
		Archetype: ev.Archetype.String(),
		FromState: ev.From.String(),
		ToState:   ev.To.String(),
		X:         ev.Position.X,
		Y:         ev.Position.Y,
		Z:         ev.Position.Z,
	})
}

func (r *Recorder) ProjectileSpawned(ev sim.ProjectileEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req := ev.Request
	r.spawns = append(r.spawns, ProjectileSpawn{
		RunID: r.RunID,
		Tick:  ev.Tick,
		Owner: req.Owner,
		Kind:  req.Kind.String(),
		X:     req.Position.X,
		Y:     req.Position.Y,
		Z:     req.Position.Z,
		DirX:  req.Direction.X,
		DirY:  req.Direction.Y,
		DirZ:  req.Direction.Z,
	})
}

func (r *Recorder) MessagePublished(msg ai.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, BusMessage{
		RunID:     r.RunID,
		Tick:      msg.Tick,
		Seq:       msg.Seq,
		Kind:      msg.Kind.String(),
		Sender:    msg.Sender.String(),
		Archetype: msg.Archetype.String(),
		X:         msg.Position.X,
		Y:         msg.Position.Y,
		Z:         msg.Position.Z,
		Payload:   datatypes.NewJSONType[any](msg.Data),
	})
}

func (r *Recorder) TickCompleted(stats sim.TickStats) {
	r.mu.Lock()
	r.ticks = append(r.ticks, TickSummary{
		RunID:        r.RunID,
		Tick:         stats.Tick,
		Elapsed:      stats.Elapsed,
		Active:       stats.Active,
		Destroyed:    stats.Destroyed,
		Projectiles:  stats.Projectiles,
		Spawned:      stats.Spawned,
		Messages:     stats.Messages,
		Transitions:  stats.Transitions,
		PlayerHits:   stats.PlayerHits,
		PlayerDamage: stats.PlayerDamage,
		MeanHealth:   stats.MeanHealth,
	})
	r.mu.Unlock()

	if r.FlushTicks > 0 && stats.Tick%r.FlushTicks == 0 {
		if err := r.Flush(); err != nil {
			r.Logger.Error().Err(err).Uint64("tick", stats.Tick).Msg("Failed to flush telemetry")
		}
	}
}

// Flush writes every buffered row. Buffers are cleared even on failure so a
// broken database cannot grow memory without bound.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	transitions, spawns, messages, ticks := r.transitions, r.spawns, r.messages, r.ticks
	r.transitions, r.spawns, r.messages, r.ticks = nil, nil, nil, nil
	r.mu.Unlock()

	var firstErr error
	write := func(table string, rows any, n int) {
		if n == 0 {
			return
		}
		if err := r.DB.CreateInBatches(rows, 500).Error; err != nil {
			r.Logger.Error().Err(err).Str("table", table).Int("rows", n).Msg("Failed to write rows")
			if firstErr == nil {
				firstErr = fmt.Errorf("writing %s: %w", table, err)
			}
			return
		}
		r.Logger.Trace().Str("table", table).Int("rows", n).Msg("Rows written")
	}
	write("transitions", &transitions, len(transitions))
	write("projectile_spawns", &spawns, len(spawns))
	write("bus_messages", &messages, len(messages))
	write("tick_summaries", &ticks, len(ticks))
	return firstErr
}

// Close flushes the remaining rows and closes the connection
func (r *Recorder) Close() error {
	flushErr := r.Flush()
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return err
	}
	return flushErr
}
