package game

import (
	"math"
	"testing"
)

func TestProjectileExitsBeforeExpiry(t *testing.T) {
	// A straight shot from the left edge crosses a default-width arena and is
	// discarded at the bounds margin well before its lifetime runs out.
	p := &Projectile{
		ID:     "shot-1",
		Team:   TeamA,
		X:      0,
		Y:      300,
		VX:     ProjectileSpeed,
		Radius: ProjectileRadius,
		TTL:    ProjectileTTL,
	}

	const dt = 1.0 / 60.0
	alive := true
	for i := 0; i < 1000 && alive; i++ {
		alive = p.update(dt, nil, DefaultArenaWidth, DefaultArenaHeight)
	}

	if alive {
		t.Fatal("projectile never removed")
	}
	if p.TTL <= 0 {
		t.Errorf("projectile expired (ttl=%f) instead of leaving the arena", p.TTL)
	}
	if p.X <= 980 {
		t.Errorf("projectile removed at x=%f, want past 980", p.X)
	}
}

func TestProjectileExpires(t *testing.T) {
	p := &Projectile{ID: "shot-2", Team: TeamA, X: 500, Y: 300, TTL: 0.05}
	if p.update(0.1, nil, DefaultArenaWidth, DefaultArenaHeight) {
		t.Error("expired projectile reported alive")
	}
}

func TestHomingBendsTowardTarget(t *testing.T) {
	target := &Fighter{ID: "bot-B-1", Team: TeamB, X: 800, Y: 100, Alive: true, Radius: FighterRadius}
	p := &Projectile{
		ID:   "shot-3",
		Team: TeamA,
		X:    100, Y: 400,
		VX:  ProjectileSpeed,
		TTL: ProjectileTTL,
	}

	p.update(1.0/60.0, target, DefaultArenaWidth, DefaultArenaHeight)

	if p.VY >= 0 {
		t.Errorf("VY = %f, want negative (target above)", p.VY)
	}
	if math.Abs(p.VY) > HomingMaxSpeed {
		t.Errorf("VY = %f exceeds homing cap %f", p.VY, HomingMaxSpeed)
	}
}

func TestHomingStopsWhenTargetDies(t *testing.T) {
	target := &Fighter{ID: "bot-B-1", Team: TeamB, X: 800, Y: 100, Alive: false}
	p := &Projectile{ID: "shot-4", Team: TeamA, X: 100, Y: 400, VX: ProjectileSpeed, TTL: ProjectileTTL}

	p.update(1.0/60.0, target, DefaultArenaWidth, DefaultArenaHeight)

	if p.VY != 0 {
		t.Errorf("VY = %f toward a dead target, want 0", p.VY)
	}
}

func TestHits(t *testing.T) {
	p := &Projectile{Team: TeamA, X: 100, Y: 100, Radius: ProjectileRadius}
	tests := []struct {
		name string
		f    *Fighter
		want bool
	}{
		{"opposing in range", &Fighter{Team: TeamB, X: 105, Y: 100, Radius: FighterRadius, Alive: true}, true},
		{"own team", &Fighter{Team: TeamA, X: 105, Y: 100, Radius: FighterRadius, Alive: true}, false},
		{"dead", &Fighter{Team: TeamB, X: 105, Y: 100, Radius: FighterRadius, Alive: false}, false},
		{"out of range", &Fighter{Team: TeamB, X: 400, Y: 100, Radius: FighterRadius, Alive: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.hits(tt.f); got != tt.want {
				t.Errorf("hits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewProjectileDirection(t *testing.T) {
	a := &Fighter{ID: "commander-A-1", Team: TeamA, X: 100, Y: 300}
	b := &Fighter{ID: "commander-B-2", Team: TeamB, X: 900, Y: 300}

	pa := newProjectile(1, a, b)
	if pa.VX <= 0 {
		t.Errorf("team A projectile VX = %f, want positive", pa.VX)
	}
	if pa.TargetID != b.ID {
		t.Errorf("targetID = %q, want %q", pa.TargetID, b.ID)
	}

	pb := newProjectile(2, b, nil)
	if pb.VX >= 0 {
		t.Errorf("team B projectile VX = %f, want negative", pb.VX)
	}
	if pb.TargetID != "" {
		t.Errorf("untargeted shot has targetID %q", pb.TargetID)
	}
}
