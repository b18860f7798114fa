package game

// Arena defaults. Width/height can be overridden via Config, everything else
// is fixed tuning shared by the bot brain, projectiles and the drone.
const (
	DefaultArenaWidth  = 1020.0
	DefaultArenaHeight = 600.0

	// Non-drone fighters keep this margin from the walls.
	WallMargin = 20.0

	// MaxDelta caps the per-step delta time. A backgrounded tab (or a GC
	// hitch) must not teleport everything across the arena.
	MaxDelta = 0.1
)

// Fighter tuning per role.
const (
	FighterRadius = 14.0
	FighterMaxHP  = 100

	CommanderSpeed = 230.0
	BotSpeed       = 170.0
	DroneSpeed     = 420.0

	FireCooldown = 0.45 // seconds between shots (commander and bots)

	DroneRadius = 10.0
	DroneMaxHP  = 40
)

// Bot steering weights. The four desires are summed, then the combined
// vector is re-normalized before speed is applied.
const (
	BotAnchorWeight     = 0.8
	BotWanderWeight     = 1.0
	BotSeparationWeight = 1.4
	BotDodgeWeight      = 2.2

	BotSeparationRadius = 70.0
	BotDodgeRadius      = 160.0

	// Midfield anchor sits this far from the center line, on the bot's side.
	BotAnchorOffset = 120.0

	// Wander targets are re-rolled every WanderMin..WanderMax seconds.
	BotWanderMin = 1.2
	BotWanderMax = 3.0

	// Firing: Bernoulli trial each frame with p = rate * dt, where the rate
	// ramps from 0 at max range up to BotFireRateMax at point blank.
	BotFireRange   = 520.0
	BotFireRateMax = 2.4 // trials per second at zero distance
)

// Projectile tuning.
const (
	ProjectileSpeed  = 500.0
	ProjectileRadius = 5.0
	ProjectileDamage = 25
	ProjectileTTL    = 2.6 // seconds

	// Margin outside the arena before an escaped projectile is discarded.
	ProjectileBoundsMargin = 50.0

	// Vertical homing: VY is blended toward the closing velocity at this
	// rate (fraction per second), capped so it never overshoots in a step.
	HomingRate     = 6.0
	HomingMaxSpeed = 260.0
)

// Effect lifetimes in seconds.
const (
	EffectHitTTL         = 0.35
	EffectSpawnTTL       = 0.6
	EffectKnockoutTTL    = 0.8
	EffectCelebrationTTL = 2.0
)
