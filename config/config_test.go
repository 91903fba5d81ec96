package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lab1702/squadron-ai/game"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Sim.TickRate)
	assert.Equal(t, int64(1), cfg.Sim.Seed)
	assert.Equal(t, 2, cfg.Sim.BusRetentionTicks)
	assert.Equal(t, 1, cfg.Squad.Scouts)
	assert.Equal(t, 2, cfg.Squad.Interceptors)
	assert.Equal(t, 1, cfg.Squad.Bombers)
	assert.Equal(t, 3, cfg.Squad.Fighters)
	assert.True(t, cfg.Squad.FormationOnStart)
	assert.Equal(t, 400.0, cfg.Player.Radius)
	assert.False(t, cfg.Recorder.Enabled)
	assert.Equal(t, "sqlite", cfg.Recorder.Driver)
	assert.Equal(t, "squadron.db", cfg.Recorder.DSN)
	assert.False(t, cfg.Influx.Enabled)
	assert.Equal(t, "http://localhost:8086", cfg.Influx.URL)
	assert.Equal(t, "squad_stats", cfg.Influx.Bucket)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "squadron.json")
	cfgJSON := `{
		"logLevel": "debug",
		"sim": { "seed": 99, "tickRate": 20 },
		"squad": { "bombers": 4, "formationOnStart": false },
		"recorder": { "enabled": true, "driver": "postgres", "dsn": "host=db" }
	}`
	require.NoError(t, os.WriteFile(path, []byte(cfgJSON), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, int64(99), cfg.Sim.Seed)
	assert.Equal(t, 20, cfg.Sim.TickRate)
	assert.Equal(t, 4, cfg.Squad.Bombers)
	assert.False(t, cfg.Squad.FormationOnStart)
	assert.Equal(t, 3, cfg.Squad.Fighters, "unset keys keep their defaults")
	assert.Equal(t, "postgres", cfg.Recorder.Driver)
	assert.Equal(t, "host=db", cfg.Recorder.DSN)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "squadron.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\nsquad:\n  scouts: 0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Squad.Scouts)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SQUADRON_SIM_SEED", "1234")
	t.Setenv("SQUADRON_INFLUX_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), cfg.Sim.Seed)
	assert.True(t, cfg.Influx.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := Load("/nonexistent/path/squadron.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	t.Cleanup(viper.Reset)

	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"ZeroTickRate", func(c *Config) { c.Sim.TickRate = 0 }},
		{"NoBusRetention", func(c *Config) { c.Sim.BusRetentionTicks = 0 }},
		{"NegativeFighters", func(c *Config) { c.Squad.Fighters = -1 }},
		{"UnknownDriver", func(c *Config) { c.Recorder.Enabled = true; c.Recorder.Driver = "mysql" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	assert.NoError(t, base.Validate())
}

func TestSquadCounts(t *testing.T) {
	counts := SquadConfig{Scouts: 1, Interceptors: 2, Bombers: 0, Fighters: 4}.Counts()
	assert.Equal(t, 1, counts[game.ArchetypeScout])
	assert.Equal(t, 2, counts[game.ArchetypeInterceptor])
	assert.Equal(t, 0, counts[game.ArchetypeBomber])
	assert.Equal(t, 4, counts[game.ArchetypeFighter])
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 7)
	viper.Set("testBool", true)
	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 7, GetInt("testInt"))
	assert.True(t, GetBool("testBool"))
}
