package game

import (
	"sync/atomic"
	"time"
)

// Limits caps per-frame entity counts. The engine drops work at the caps
// instead of growing without bound.
type Limits struct {
	MaxFighters    int
	MaxProjectiles int
	MaxEffects     int
}

// DefaultLimits provides production-safe defaults.
var DefaultLimits = Limits{
	MaxFighters:    64,
	MaxProjectiles: 128,
	MaxEffects:     48,
}

// FighterSnapshot is an immutable copy of fighter state. Value types only so
// the render/API side can never reach back into live state.
type FighterSnapshot struct {
	ID     string
	Team   string
	Role   string
	X, Y   float64
	HP     int
	MaxHP  int
	Alive  bool
	FireCD float64
}

// ProjectileSnapshot is an immutable copy of a shot in flight.
type ProjectileSnapshot struct {
	ID     string
	Team   string
	X, Y   float64
	VX, VY float64
}

// EffectSnapshot is an immutable cosmetic effect.
type EffectSnapshot struct {
	Kind  string
	X, Y  float64
	TTL   float64
	Color string
}

// TeamSnapshot aggregates one side's round standing.
type TeamSnapshot struct {
	Wins       int
	AliveCount int
	TotalHP    int
	MaxHP      int
	Casualties int // this round
}

// ArenaSnapshot is the complete immutable view published after every step.
type ArenaSnapshot struct {
	Sequence  uint64
	Timestamp time.Time
	Tick      uint64

	Phase       string
	Round       int
	MaxRounds   int
	WinsToClaim int
	Champion    string

	TeamA TeamSnapshot
	TeamB TeamSnapshot

	DroneReady     int
	DroneRemaining int // pending scheduled deploys; -1 when unlimited

	// Local player view: the commander of the configured player side.
	Player FighterSnapshot

	Fighters    []FighterSnapshot
	Projectiles []ProjectileSnapshot
	Effects     []EffectSnapshot
}

// SnapshotPool triple-buffers snapshots so the API layer reads the latest
// complete frame without taking the engine lock.
type SnapshotPool struct {
	snapshots [3]ArenaSnapshot
	writeIdx  uint32 // atomic
	readIdx   uint32 // atomic
	sequence  uint64 // atomic
}

// NewSnapshotPool pre-allocates the three buffers at the configured caps.
func NewSnapshotPool(limits Limits) *SnapshotPool {
	pool := &SnapshotPool{}
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = ArenaSnapshot{
			Fighters:    make([]FighterSnapshot, 0, limits.MaxFighters),
			Projectiles: make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
			Effects:     make([]EffectSnapshot, 0, limits.MaxEffects),
		}
	}
	return pool
}

// AcquireWrite returns the next write slot with slices reset but capacity
// preserved. Producer only, called from the engine step.
func (p *SnapshotPool) AcquireWrite() *ArenaSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]
	snap.Fighters = snap.Fighters[:0]
	snap.Projectiles = snap.Projectiles[:0]
	snap.Effects = snap.Effects[:0]
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()
	return snap
}

// PublishWrite makes the just-written snapshot visible to readers.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the latest published snapshot.
func (p *SnapshotPool) AcquireRead() *ArenaSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}
