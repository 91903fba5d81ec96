package ai

// AI Constants for Enemy Ship Behavior
// These constants control the state controller, the steering primitives and the
// archetype maneuvers. Centralizing them keeps tuning in one place and lets tests
// reference the same thresholds the AI uses.

const (
	// Transition Rules
	PursueRangeFactor  = 1.5 // Pursue when farther than this multiple of attack range
	AttackProbability  = 0.6 // Base chance of Attacking (vs Circling) on entering attack range
	VarietyInterval    = 3.0 // Seconds in a state before a variety roll
	VarietyProbability = 0.3 // Base chance the variety roll forces a lateral swap

	// Steering
	AccelerationFactor   = 2.0  // Acceleration per second as a multiple of speed
	IdleNudgeChance      = 0.02 // Per-tick chance of a random idle nudge
	IdleNudgeFactor      = 0.3  // Idle nudge magnitude as a multiple of speed
	JukeChance           = 0.05 // Per-tick chance of a lateral juke while attacking
	JukeFactor           = 0.5  // Juke impulse as a multiple of speed
	CircleCorrectionGain = 0.02 // Radial correction per unit of orbit radius error
	EvadeFrequency       = 4.0  // Zig-zag angular frequency in radians per second
	EvadeAmplitude       = 0.8  // Zig-zag weight relative to the retreat direction

	// Formation
	FormationRadius       = 120.0 // Radius of the squad circle
	FormationArriveRadius = 10.0  // Inside this distance formation flyers brake instead of steering
	FormationFriction     = 3.0   // Exponential velocity decay rate per second when on station

	// Intercept
	InterceptHorizon = 3.0 // Maximum prediction time in seconds

	// Allies
	NeighborRadius = 500.0 // Allies within this range form the nearby-allies snapshot

	// Sentinel Values
	MaxSearchDistance = 999999.0 // Sentinel for "no target found" in nearest-object searches
)

// Scout tuning
const (
	ScoutSightingInterval = 1.0  // Seconds between TargetSighted broadcasts
	ScoutHitAndRunTime    = 1.2  // Seconds spent running after a shot
	ScoutJinkChance       = 0.08 // Per-tick evasive jink chance when damaged
	ScoutJinkFactor       = 0.6  // Jink impulse as a multiple of speed
	ScoutDamagedFraction  = 0.5  // Health fraction below which scouts start jinking
	SightingFreshTicks    = 30   // Bus ticks a sighting stays useful to other units
)

// Interceptor tuning
const (
	InterceptorBurstCount    = 3
	InterceptorBurstSpread   = 6.0 // Degrees between burst projectiles
	BoostDuration            = 1.5 // Seconds a boost lasts
	BoostCooldown            = 6.0 // Seconds from activation until the next boost
	BoostMultiplier          = 2.0 // Velocity cap multiplier while boosted
	BoostMinDistance         = 100.0
	BoostMaxDistance         = 400.0
	InterceptorHitAndRunTime = 0.8
	SpiralWeight             = 1.2  // Tangential weight at attack range during spiral approach
	StrikeRadiusFactor       = 0.8  // Strike point radius as a multiple of attack range
	StrikePositionTolerance  = 20.0 // Distance at which a striker counts as in position
)

// Bomber tuning
const (
	BomberChargeTime          = 2.0  // Seconds of uninterruptible windup
	BomberRecoil              = 40.0 // Velocity kick opposite the shot
	BomberCoverOffset         = 60.0 // Distance behind an ally to hide
	BomberCoverHealthFraction = 0.6  // Seek cover below this health fraction
	SuppressiveLeadTime       = 1.0  // Seconds of lead for suppressive fire
	EmergencyHealthFraction   = 0.25 // Hosts trigger emergency retreat below this fraction
	EmergencyAllyWeight       = 0.6  // Pull toward ally centroid during emergency retreat
)

// timeEpsilon absorbs float drift when summing fixed tick deltas
const timeEpsilon = 1e-9
