package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lab1702/squadron-ai/game"
	"github.com/spf13/viper"
)

// ErrInvalid is returned when a loaded configuration fails validation
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is prepended to environment overrides, e.g. SQUADRON_SIM_SEED
const EnvPrefix = "SQUADRON"

// Config is the typed view of every setting
type Config struct {
	LogLevel string         `json:"logLevel" mapstructure:"logLevel"`
	LogFile  string         `json:"logFile" mapstructure:"logFile"`
	Server   ServerConfig   `json:"server" mapstructure:"server"`
	Sim      SimConfig      `json:"sim" mapstructure:"sim"`
	Squad    SquadConfig    `json:"squad" mapstructure:"squad"`
	Player   PlayerConfig   `json:"player" mapstructure:"player"`
	Recorder RecorderConfig `json:"recorder" mapstructure:"recorder"`
	Influx   InfluxConfig   `json:"influx" mapstructure:"influx"`
}

// ServerConfig holds the HTTP host settings
type ServerConfig struct {
	Port string `json:"port" mapstructure:"port"`
}

// SimConfig holds the session driver settings
type SimConfig struct {
	TickRate          int   `json:"tickRate" mapstructure:"tickRate"` // Ticks per second
	Seed              int64 `json:"seed" mapstructure:"seed"`
	BusRetentionTicks int   `json:"busRetentionTicks" mapstructure:"busRetentionTicks"`
}

// SquadConfig is the squad spawned on start and on reset
type SquadConfig struct {
	Scouts           int     `json:"scouts" mapstructure:"scouts"`
	Interceptors     int     `json:"interceptors" mapstructure:"interceptors"`
	Bombers          int     `json:"bombers" mapstructure:"bombers"`
	Fighters         int     `json:"fighters" mapstructure:"fighters"`
	SpawnRadius      float64 `json:"spawnRadius" mapstructure:"spawnRadius"`
	SpawnDistance    float64 `json:"spawnDistance" mapstructure:"spawnDistance"` // From the player's orbit center
	FormationOnStart bool    `json:"formationOnStart" mapstructure:"formationOnStart"`
}

// Counts returns the number of ships to spawn per archetype
func (c SquadConfig) Counts() map[game.Archetype]int {
	return map[game.Archetype]int{
		game.ArchetypeScout:       c.Scouts,
		game.ArchetypeInterceptor: c.Interceptors,
		game.ArchetypeBomber:      c.Bombers,
		game.ArchetypeFighter:     c.Fighters,
	}
}

// PlayerConfig drives the scripted demo target
type PlayerConfig struct {
	Radius       float64 `json:"radius" mapstructure:"radius"`
	AngularSpeed float64 `json:"angularSpeed" mapstructure:"angularSpeed"`
}

// RecorderConfig selects the telemetry database
type RecorderConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"` // sqlite or postgres
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

// InfluxConfig holds the InfluxDB connection for per-tick squad stats
type InfluxConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Token   string `json:"token" mapstructure:"token"`
	Org     string `json:"org" mapstructure:"org"`
	Bucket  string `json:"bucket" mapstructure:"bucket"`
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")

	viper.SetDefault("server.port", "8080")

	viper.SetDefault("sim.tickRate", 10)
	viper.SetDefault("sim.seed", 1)
	viper.SetDefault("sim.busRetentionTicks", 2)

	viper.SetDefault("squad.scouts", 1)
	viper.SetDefault("squad.interceptors", 2)
	viper.SetDefault("squad.bombers", 1)
	viper.SetDefault("squad.fighters", 3)
	viper.SetDefault("squad.spawnRadius", 150.0)
	viper.SetDefault("squad.spawnDistance", 1500.0)
	viper.SetDefault("squad.formationOnStart", true)

	viper.SetDefault("player.radius", 400.0)
	viper.SetDefault("player.angularSpeed", 0.3)

	viper.SetDefault("recorder.enabled", false)
	viper.SetDefault("recorder.driver", "sqlite")
	viper.SetDefault("recorder.dsn", "squadron.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "squadron")
	viper.SetDefault("influx.bucket", "squad_stats")
}

// Load sets defaults, reads the optional config file at path (JSON or YAML,
// by extension) and applies SQUADRON_* environment overrides.
// An empty path skips the file.
func Load(path string) (Config, error) {
	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the rest of the program relies on
func (c Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("%w: sim.tickRate must be positive, got %d", ErrInvalid, c.Sim.TickRate)
	}
	if c.Sim.BusRetentionTicks < 1 {
		return fmt.Errorf("%w: sim.busRetentionTicks must be at least 1, got %d", ErrInvalid, c.Sim.BusRetentionTicks)
	}
	for name, n := range map[string]int{
		"squad.scouts":       c.Squad.Scouts,
		"squad.interceptors": c.Squad.Interceptors,
		"squad.bombers":      c.Squad.Bombers,
		"squad.fighters":     c.Squad.Fighters,
	} {
		if n < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, name, n)
		}
	}
	if c.Recorder.Enabled {
		switch c.Recorder.Driver {
		case "sqlite", "postgres":
		default:
			return fmt.Errorf("%w: recorder.driver must be sqlite or postgres, got %q", ErrInvalid, c.Recorder.Driver)
		}
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
