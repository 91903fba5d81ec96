package game

// ApplyDamage subtracts damage from health and keeps the result in [0, maxHealth].
// Returns the new health and the amount actually applied.
func ApplyDamage(health, maxHealth, damage float64) (float64, float64) {
	if damage <= 0 {
		return health, 0
	}

	remaining := health - damage
	if remaining < 0 {
		remaining = 0
	}
	if remaining > maxHealth {
		remaining = maxHealth
	}
	return remaining, health - remaining
}

// ApplyRepair adds health without exceeding maxHealth.
// Returns the new health.
func ApplyRepair(health, maxHealth, amount float64) float64 {
	if amount <= 0 {
		return health
	}
	health += amount
	if health > maxHealth {
		health = maxHealth
	}
	return health
}
