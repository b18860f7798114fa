package game

import "math/rand"

// DroneConfig controls the drone deployment mechanic. Max < 0 means
// unlimited deploys; Manual banks ready charges for the player to spend
// instead of auto-spawning.
type DroneConfig struct {
	Enabled    bool
	Team       Team
	Max        int // < 0: unlimited
	Manual     bool
	FirstDelay float64 // seconds into the round before the first deploy
	Interval   float64 // spacing between subsequent deploys
	Jitter     float64 // uniform random addition to each delay
}

// Unlimited reports whether the deploy count is uncapped.
func (c DroneConfig) Unlimited() bool { return c.Max < 0 }

// droneSchedule holds the pending deploy times for the current round,
// measured on the round clock. Finite configurations precompute the whole
// schedule; unlimited ones keep a single rolling entry that is regenerated
// on each consumption.
type droneSchedule struct {
	times []float64
}

// newDroneSchedule builds the schedule for a fresh round.
func newDroneSchedule(cfg DroneConfig, rng *rand.Rand) *droneSchedule {
	s := &droneSchedule{}
	if !cfg.Enabled {
		return s
	}
	first := cfg.FirstDelay + rng.Float64()*cfg.Jitter
	if cfg.Unlimited() {
		s.times = []float64{first}
		return s
	}
	t := first
	for i := 0; i < cfg.Max; i++ {
		s.times = append(s.times, t)
		t += cfg.Interval + rng.Float64()*cfg.Jitter
	}
	return s
}

// due reports whether the next scheduled deploy time has elapsed.
func (s *droneSchedule) due(roundTime float64) bool {
	return len(s.times) > 0 && roundTime >= s.times[0]
}

// consume pops the next deploy time. In unlimited mode a replacement time
// strictly greater than the current round clock is appended, so the schedule
// always holds exactly one pending future deploy.
func (s *droneSchedule) consume(roundTime float64, cfg DroneConfig, rng *rand.Rand) {
	s.times = s.times[1:]
	if cfg.Unlimited() {
		next := roundTime + cfg.Interval + rng.Float64()*cfg.Jitter
		if next <= roundTime {
			next = roundTime + cfg.Interval
		}
		s.times = append(s.times, next)
	}
}

// pending returns the number of scheduled deploys still queued.
func (s *droneSchedule) pending() int { return len(s.times) }

// updateDrone moves a drone straight at the nearest living enemy and knocks
// that enemy out on contact. No cooldown, no damage roll. A drone with no
// living opponent idles in place.
func (e *Engine) updateDrone(d *Fighter, dt float64) {
	target := e.nearestEnemy(d)
	if target == nil {
		return
	}
	dx := target.X - d.X
	dy := target.Y - d.Y
	dist := d.distanceTo(target)
	if dist > 0 {
		d.X += dx / dist * d.Speed * dt
		d.Y += dy / dist * d.Speed * dt
	}
	if d.overlaps(target) {
		e.spawnEffect(EffectKnockout, target.X, target.Y, EffectKnockoutTTL, teamColors[target.Team])
		e.markDead(target, d.ID)
	}
}

// tickDroneSchedule consumes due deploy times: automated sides spawn a drone
// immediately, manual sides bank a ready charge for the deploy input. Spawned
// drones plus banked charges never exceed a finite Max.
func (e *Engine) tickDroneSchedule() {
	cfg := e.cfg.Drone
	if !cfg.Enabled {
		return
	}
	for e.sched.due(e.match.RoundTime) {
		e.sched.consume(e.match.RoundTime, cfg, e.rng)
		if cfg.Manual {
			if cfg.Unlimited() || e.dronesSpawned+e.droneReady < cfg.Max {
				e.droneReady++
			}
			continue
		}
		e.spawnDrone()
	}
}

// spawnDrone adds a drone for the deploying side at its back line.
func (e *Engine) spawnDrone() {
	cfg := e.cfg.Drone
	if !cfg.Unlimited() && e.dronesSpawned >= cfg.Max {
		return
	}
	x := WallMargin * 2
	if cfg.Team == TeamB {
		x = e.cfg.ArenaWidth - WallMargin*2
	}
	y := WallMargin + e.rng.Float64()*(e.cfg.ArenaHeight-2*WallMargin)
	e.nextID++
	d := newFighter(e.nextID, cfg.Team, RoleDrone, x, y, e.rng)
	e.fighters = append(e.fighters, d)
	e.dronesSpawned++
	e.spawnEffect(EffectSpawn, x, y, EffectSpawnTTL, teamColors[cfg.Team])
	e.eventLog.EmitSimple(EventTypeDroneDeploy, e.tickCount, d.ID, DroneDeployPayload{
		DroneID:  d.ID,
		Team:     cfg.Team.String(),
		Round:    e.match.Round,
		Deployed: e.dronesSpawned,
	})
}

// consumeDeployInput spends one banked ready charge, if any.
func (e *Engine) consumeDeployInput() {
	if e.droneReady == 0 || e.match.Phase != PhaseRunning {
		return
	}
	e.droneReady--
	e.spawnDrone()
}
