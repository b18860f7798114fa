package game

import "math"

// steerBot computes and applies one frame of scripted movement for a bot (or
// an auto-controlled commander). Four weighted desires are summed: advance
// toward the midfield anchor, seek the current wander target, separate from
// nearby allies, dodge incoming projectiles. The combined vector is
// re-normalized before speed is applied.
func (e *Engine) steerBot(f *Fighter, dt float64) {
	var dx, dy float64

	// Advance toward the midfield anchor on this team's side.
	ax, ay := e.anchorPoint(f.Team)
	dx, dy = accumulateToward(dx, dy, f.X, f.Y, ax, ay, BotAnchorWeight)

	// Wander target, re-rolled on a timer, always inside the team half.
	f.WanderTimer -= dt
	if f.WanderTimer <= 0 {
		e.rerollWander(f)
	}
	dx, dy = accumulateToward(dx, dy, f.X, f.Y, f.WanderX, f.WanderY, BotWanderWeight)

	// Separation: inverse-distance repulsion from living allies.
	for _, ally := range e.fighters {
		if ally == f || !ally.Alive || ally.Team != f.Team || ally.Role == RoleDrone {
			continue
		}
		ox := f.X - ally.X
		oy := f.Y - ally.Y
		dist := math.Sqrt(ox*ox + oy*oy)
		if dist <= 0 || dist >= BotSeparationRadius {
			continue
		}
		push := BotSeparationWeight * (1 - dist/BotSeparationRadius)
		dx += ox / dist * push
		dy += oy / dist * push
	}

	// Dodge projectiles that are heading toward us.
	if px, py, ok := e.dodgeVector(f); ok {
		dx += px * BotDodgeWeight
		dy += py * BotDodgeWeight
	}

	// Re-normalize, then apply speed.
	mag := math.Sqrt(dx*dx + dy*dy)
	if mag > 0 {
		f.X += dx / mag * f.Speed * dt
		f.Y += dy / mag * f.Speed * dt
	}
}

// anchorPoint is the midfield rally position for a team, offset from the
// center line onto its own side.
func (e *Engine) anchorPoint(team Team) (x, y float64) {
	if team == TeamA {
		return e.cfg.ArenaWidth/2 - BotAnchorOffset, e.cfg.ArenaHeight / 2
	}
	return e.cfg.ArenaWidth/2 + BotAnchorOffset, e.cfg.ArenaHeight / 2
}

// rerollWander picks a fresh wander target inside the fighter's half and
// resets the re-roll timer.
func (e *Engine) rerollWander(f *Fighter) {
	minX, maxX := f.halfBounds(e.cfg.ArenaWidth)
	f.WanderX = minX + e.rng.Float64()*(maxX-minX)
	f.WanderY = WallMargin + e.rng.Float64()*(e.cfg.ArenaHeight-2*WallMargin)
	f.WanderTimer = BotWanderMin + e.rng.Float64()*(BotWanderMax-BotWanderMin)
}

// dodgeVector scans for the nearest projectile on a collision heading and
// returns a unit deflection perpendicular to its velocity. The side is picked
// by the sign of the cross product; a dead-on shot is broken randomly.
func (e *Engine) dodgeVector(f *Fighter) (dx, dy float64, ok bool) {
	for _, p := range e.projectiles {
		if p.Team == f.Team {
			continue
		}
		ox := f.X - p.X
		oy := f.Y - p.Y
		if ox*ox+oy*oy > BotDodgeRadius*BotDodgeRadius {
			continue
		}
		// Heading toward us?
		if ox*p.VX+oy*p.VY <= 0 {
			continue
		}
		speed := math.Sqrt(p.VX*p.VX + p.VY*p.VY)
		if speed == 0 {
			continue
		}
		// Deflect perpendicular to the projectile's travel, away from its path.
		px := -p.VY / speed
		py := p.VX / speed
		cross := ox*p.VY - oy*p.VX
		if cross < 0 {
			px, py = -px, -py
		} else if cross == 0 && e.rng.Float64() < 0.5 {
			px, py = -px, -py
		}
		return px, py, true
	}
	return 0, 0, false
}

// botTryFire rolls the stochastic fire decision for a bot against the nearest
// living enemy: a Bernoulli trial with probability rate*dt, where the rate
// ramps up as range closes. Fires at most one projectile per frame.
func (e *Engine) botTryFire(f *Fighter, dt float64) {
	if f.FireCD > 0 {
		return
	}
	target := e.nearestEnemy(f)
	if target == nil {
		return
	}
	dist := f.distanceTo(target)
	if dist > BotFireRange {
		return
	}
	rate := BotFireRateMax * (1 - dist/BotFireRange)
	if e.rng.Float64() < rate*dt {
		e.fireProjectile(f, target)
	}
}

// nearestEnemy returns the closest living non-drone opponent, or nil.
func (e *Engine) nearestEnemy(f *Fighter) *Fighter {
	var closest *Fighter
	minDist := math.MaxFloat64
	for _, other := range e.fighters {
		if !other.Alive || other.Team == f.Team || other.Role == RoleDrone {
			continue
		}
		d := f.distanceTo(other)
		if d < minDist {
			minDist = d
			closest = other
		}
	}
	return closest
}

// accumulateToward adds a weighted unit vector from (x,y) toward (tx,ty).
func accumulateToward(dx, dy, x, y, tx, ty, weight float64) (float64, float64) {
	ox := tx - x
	oy := ty - y
	dist := math.Sqrt(ox*ox + oy*oy)
	if dist == 0 {
		return dx, dy
	}
	return dx + ox/dist*weight, dy + oy/dist*weight
}
