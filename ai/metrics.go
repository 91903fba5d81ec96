package ai

import (
	"context"
	"sync"

	"github.com/lab1702/squadron-ai/game"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/lab1702/squadron-ai/ai"

var (
	instrumentsOnce   sync.Once
	transitionCounter metric.Int64Counter
	projectileCounter metric.Int64Counter
	messageCounter    metric.Int64Counter
)

// instruments lazily creates the counters from the global meter provider
func instruments() {
	instrumentsOnce.Do(func() {
		m := otel.Meter(instrumentationName)
		transitionCounter = counter(m, "squadron.ai.transitions", "State controller transitions")
		projectileCounter = counter(m, "squadron.ai.projectiles", "Projectile spawn requests")
		messageCounter = counter(m, "squadron.ai.messages", "Bus broadcasts")
	})
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		logger.Warn().Err(err).Str("instrument", name).Msg("falling back to noop counter")
		return noop.Int64Counter{}
	}
	return c
}

func recordTransition(a game.Archetype, from, to State) {
	instruments()
	transitionCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("archetype", a.String()),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

func recordProjectile(a game.Archetype, kind game.ProjectileKind) {
	instruments()
	projectileCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("archetype", a.String()),
		attribute.String("kind", kind.String()),
	))
}

func recordMessage(a game.Archetype, kind MessageKind) {
	instruments()
	messageCounter.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("archetype", a.String()),
		attribute.String("kind", kind.String()),
	))
}
