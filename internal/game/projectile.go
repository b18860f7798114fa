package game

import (
	"fmt"
	"math"
)

// Projectile is a shot in flight. It travels horizontally toward the enemy
// side and, when it carries a homing target, bends its vertical velocity
// toward that target's current height.
type Projectile struct {
	ID       string
	Team     Team // owner side; hits only the opposing team
	X, Y     float64
	VX, VY   float64
	TargetID string // homing target, empty for a straight shot
	Radius   float64
	Damage   int
	TTL      float64
}

// newProjectile creates a shot from owner aimed at target. The horizontal
// velocity is fixed toward the enemy side; homing handles the vertical.
func newProjectile(id uint64, owner *Fighter, target *Fighter) *Projectile {
	vx := ProjectileSpeed
	if owner.Team == TeamB {
		vx = -ProjectileSpeed
	}
	p := &Projectile{
		ID:     fmt.Sprintf("shot-%d", id),
		Team:   owner.Team,
		X:      owner.X,
		Y:      owner.Y,
		VX:     vx,
		Radius: ProjectileRadius,
		Damage: ProjectileDamage,
		TTL:    ProjectileTTL,
	}
	if target != nil {
		p.TargetID = target.ID
	}
	return p
}

// update advances the projectile by dt, homing on target when it is still
// alive. Returns false when the projectile expired or left the arena.
func (p *Projectile) update(dt float64, target *Fighter, arenaW, arenaH float64) bool {
	p.TTL -= dt
	if p.TTL <= 0 {
		return false
	}

	if target != nil && target.Alive {
		// Blend VY toward the velocity that closes on the target's current
		// height, bounded so a single step never overshoots the blend.
		want := math.Max(-HomingMaxSpeed, math.Min(HomingMaxSpeed, (target.Y-p.Y)*HomingRate))
		blend := HomingRate * dt
		if blend > 1 {
			blend = 1
		}
		p.VY += (want - p.VY) * blend
	}

	p.X += p.VX * dt
	p.Y += p.VY * dt

	if p.X < -ProjectileBoundsMargin || p.X > arenaW+ProjectileBoundsMargin ||
		p.Y < -ProjectileBoundsMargin || p.Y > arenaH+ProjectileBoundsMargin {
		return false
	}
	return true
}

// hits reports whether the projectile overlaps a living opposing fighter.
func (p *Projectile) hits(f *Fighter) bool {
	if !f.Alive || f.Team == p.Team {
		return false
	}
	dx := f.X - p.X
	dy := f.Y - p.Y
	r := f.Radius + p.Radius
	return dx*dx+dy*dy < r*r
}
