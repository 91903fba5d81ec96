package ai

import (
	"math"
	"math/rand"

	"github.com/lab1702/squadron-ai/game"
)

// maxJitterDeg is the maximum random angle deviation in degrees for single shots
const maxJitterDeg = 3.0

// Rand is the random source behind every roll, nudge and jitter.
// Each ship owns one so a seeded session replays exactly.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source suitable for one ship
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// roll reports whether a fixed-threshold roll with probability p succeeds.
// Float64 is in [0, 1), so p <= 0 never fires and p >= 1 always does.
func roll(r Rand, p float64) bool {
	return r.Float64() < p
}

// randomDirection returns a uniformly distributed unit vector
func randomDirection(r Rand) game.Vec3 {
	z := r.Float64()*2 - 1
	theta := r.Float64() * 2 * math.Pi
	ring := math.Sqrt(1 - z*z)
	return game.Vec3{X: ring * math.Cos(theta), Y: ring * math.Sin(theta), Z: z}
}

// jitterRad returns a random angle in radians within ±maxDeg
func jitterRad(r Rand, maxDeg float64) float64 {
	// Uniform value between -1 and 1, scaled by maxDeg
	deg := (r.Float64()*2 - 1) * maxDeg
	return deg * math.Pi / 180
}

// rotateAboutUp turns dir around the Up axis by angle radians
func rotateAboutUp(dir game.Vec3, angle float64) game.Vec3 {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return game.Vec3{
		X: dir.X*cos - dir.Y*sin,
		Y: dir.X*sin + dir.Y*cos,
		Z: dir.Z,
	}
}
