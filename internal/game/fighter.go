package game

import (
	"fmt"
	"math"
	"math/rand"
)

// Team identifies one of the two sides of the arena. TeamA defends the left
// half, TeamB the right half.
type Team uint8

const (
	TeamNone Team = iota
	TeamA
	TeamB
)

// String returns the short side label used in snapshots and the event log.
func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "none"
	}
}

// Opponent returns the other side.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamNone
	}
}

// Role selects the control strategy for a fighter.
type Role uint8

const (
	RoleCommander Role = iota // direct input when control mode is "player"
	RoleBot                   // scripted steering
	RoleDrone                 // chases and knocks out on contact
)

func (r Role) String() string {
	switch r {
	case RoleCommander:
		return "commander"
	case RoleBot:
		return "bot"
	case RoleDrone:
		return "drone"
	default:
		return "unknown"
	}
}

// Fighter is a single unit in the arena. Fighters are created at round start
// and marked dead (never removed) on elimination; the whole slice is
// discarded at round reset.
type Fighter struct {
	ID     string
	Team   Team
	Role   Role
	X, Y   float64
	Radius float64
	HP     int
	MaxHP  int
	Speed  float64
	Alive  bool

	// Fire control
	FireCD float64

	// Bot scratch state
	WanderX, WanderY float64
	WanderTimer      float64
	NoisePhase       float64
}

// newFighter creates a fighter of the given role at the given position.
func newFighter(id uint64, team Team, role Role, x, y float64, rng *rand.Rand) *Fighter {
	f := &Fighter{
		ID:         fmt.Sprintf("%s-%s-%d", role, team, id),
		Team:       team,
		Role:       role,
		X:          x,
		Y:          y,
		Radius:     FighterRadius,
		HP:         FighterMaxHP,
		MaxHP:      FighterMaxHP,
		Speed:      BotSpeed,
		Alive:      true,
		NoisePhase: rng.Float64() * math.Pi * 2,
	}
	switch role {
	case RoleCommander:
		f.Speed = CommanderSpeed
	case RoleDrone:
		f.Radius = DroneRadius
		f.HP = DroneMaxHP
		f.MaxHP = DroneMaxHP
		f.Speed = DroneSpeed
	}
	return f
}

// halfBounds returns the horizontal range this fighter is confined to.
// Drones roam the full arena; everyone else keeps to their team's half.
func (f *Fighter) halfBounds(arenaW float64) (minX, maxX float64) {
	if f.Role == RoleDrone {
		return WallMargin, arenaW - WallMargin
	}
	if f.Team == TeamA {
		return WallMargin, arenaW/2 - f.Radius
	}
	return arenaW/2 + f.Radius, arenaW - WallMargin
}

// clampToField clamps the fighter to the arena and, unless it is a drone, to
// its team's half.
func (f *Fighter) clampToField(arenaW, arenaH float64) {
	minX, maxX := f.halfBounds(arenaW)
	f.X = math.Max(minX, math.Min(maxX, f.X))
	f.Y = math.Max(WallMargin, math.Min(arenaH-WallMargin, f.Y))
}

// distanceTo returns the center distance to another fighter.
func (f *Fighter) distanceTo(other *Fighter) float64 {
	dx := other.X - f.X
	dy := other.Y - f.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// overlaps reports circle-circle overlap with another fighter.
func (f *Fighter) overlaps(other *Fighter) bool {
	dx := other.X - f.X
	dy := other.Y - f.Y
	r := f.Radius + other.Radius
	return dx*dx+dy*dy < r*r
}

// Obstacle is a static circular blocker. Entities overlapping one are pushed
// back outside its rim each frame.
type Obstacle struct {
	X, Y   float64
	Radius float64
}

// repel pushes the fighter out of the obstacle if they overlap.
func (o Obstacle) repel(f *Fighter) {
	dx := f.X - o.X
	dy := f.Y - o.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	minDist := o.Radius + f.Radius
	if dist >= minDist {
		return
	}
	if dist == 0 {
		// Dead center: push straight up, any direction works.
		f.Y = o.Y - minDist
		return
	}
	f.X = o.X + dx/dist*minDist
	f.Y = o.Y + dy/dist*minDist
}
