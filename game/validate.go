package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a unit is created from unusable stats
var ErrInvalidConfig = errors.New("invalid archetype configuration")

// positive is false for zero, negatives, NaN and infinities
func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// nonNegative is false for negatives, NaN and infinities
func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

// Validate checks the stat block before a unit is created from it.
// Tick-time code assumes every check here has passed.
func (s ArchetypeStats) Validate() error {
	switch {
	case !positive(s.Speed):
		return fmt.Errorf("%w: %s speed must be positive, got %v", ErrInvalidConfig, s.Name, s.Speed)
	case !positive(s.MaxHealth):
		return fmt.Errorf("%w: %s max health must be positive, got %v", ErrInvalidConfig, s.Name, s.MaxHealth)
	case !positive(s.RotationSpeed):
		return fmt.Errorf("%w: %s rotation speed must be positive, got %v", ErrInvalidConfig, s.Name, s.RotationSpeed)
	case !positive(s.AttackRange):
		return fmt.Errorf("%w: %s attack range must be positive, got %v", ErrInvalidConfig, s.Name, s.AttackRange)
	case !positive(s.DetectionRange) || s.DetectionRange < s.AttackRange:
		return fmt.Errorf("%w: %s detection range %v must be finite and no shorter than attack range %v",
			ErrInvalidConfig, s.Name, s.DetectionRange, s.AttackRange)
	case !nonNegative(s.RetreatDistance) || s.RetreatDistance >= s.AttackRange:
		return fmt.Errorf("%w: %s retreat distance %v must be in [0, attack range %v)",
			ErrInvalidConfig, s.Name, s.RetreatDistance, s.AttackRange)
	case !nonNegative(s.Radius):
		return fmt.Errorf("%w: %s radius must not be negative, got %v", ErrInvalidConfig, s.Name, s.Radius)
	case !nonNegative(s.AttackCooldown):
		return fmt.Errorf("%w: %s attack cooldown must not be negative, got %v", ErrInvalidConfig, s.Name, s.AttackCooldown)
	case !(s.EngagementFraction > 0 && s.EngagementFraction <= 1):
		return fmt.Errorf("%w: %s engagement fraction %v must be in (0, 1]", ErrInvalidConfig, s.Name, s.EngagementFraction)
	}
	if err := s.Personality.Validate(); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	return nil
}

// Validate checks every weight lies in [0, 1]
func (p Personality) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"aggressiveness", p.Aggressiveness},
		{"caution", p.Caution},
		{"teamwork", p.Teamwork},
	}
	for _, w := range weights {
		// Written as a negated range check so NaN fails too
		if !(w.value >= 0 && w.value <= 1) {
			return fmt.Errorf("%w: personality %s %v outside [0, 1]", ErrInvalidConfig, w.name, w.value)
		}
	}
	return nil
}
