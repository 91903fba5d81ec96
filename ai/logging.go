package ai

import "github.com/rs/zerolog"

// logger receives AI decision logs. Nop until a host calls SetLogger.
var logger = zerolog.Nop()

// SetLogger routes AI decision logs to l. Call before the first tick.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("component", "ai").Logger()
}

// logTransition logs a state change at debug level
func logTransition(s *EnemyShip, from, to State) {
	logger.Debug().
		Str("ship", s.ID.String()).
		Stringer("archetype", s.Archetype).
		Stringer("from", from).
		Stringer("to", to).
		Msg("state transition")
}

// logAttack logs an attack decision
func logAttack(s *EnemyShip) {
	logger.Debug().
		Str("ship", s.ID.String()).
		Stringer("archetype", s.Archetype).
		Float64("sinceLastAttack", s.TimeSinceLastAttack).
		Msg("attack")
}

func logBoost(s *EnemyShip) {
	logger.Debug().Str("ship", s.ID.String()).Float64("at", s.clock).Msg("boost activated")
}

func logEmergency(s *EnemyShip) {
	logger.Info().
		Str("ship", s.ID.String()).
		Float64("health", s.Health).
		Msg("emergency retreat")
}

func logDestroyed(s *EnemyShip) {
	logger.Info().
		Str("ship", s.ID.String()).
		Stringer("archetype", s.Archetype).
		Msg("ship destroyed")
}
