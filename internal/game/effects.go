package game

import "fmt"

// EffectKind classifies a cosmetic effect. Effects have no gameplay impact;
// the presentation layer decides what each kind looks like.
type EffectKind uint8

const (
	EffectHit EffectKind = iota
	EffectSpawn
	EffectKnockout
	EffectCelebration
)

func (k EffectKind) String() string {
	switch k {
	case EffectHit:
		return "hit"
	case EffectSpawn:
		return "spawn"
	case EffectKnockout:
		return "knockout"
	case EffectCelebration:
		return "celebration"
	default:
		return "unknown"
	}
}

// Effect is a transient cosmetic marker at a position.
type Effect struct {
	ID    string
	Kind  EffectKind
	X, Y  float64
	TTL   float64
	Color string
}

var teamColors = map[Team]string{
	TeamA: "#e05d44",
	TeamB: "#4488dd",
}

// spawnEffect appends an effect, silently dropping it at the cap.
func (e *Engine) spawnEffect(kind EffectKind, x, y float64, ttl float64, color string) {
	if len(e.effects) >= e.cfg.Limits.MaxEffects {
		return
	}
	e.nextID++
	e.effects = append(e.effects, &Effect{
		ID:    fmt.Sprintf("fx-%d", e.nextID),
		Kind:  kind,
		X:     x,
		Y:     y,
		TTL:   ttl,
		Color: color,
	})
}

// updateEffects decays effect lifetimes with in-place compaction.
func (e *Engine) updateEffects(dt float64) {
	n := 0
	for _, fx := range e.effects {
		fx.TTL -= dt
		if fx.TTL > 0 {
			e.effects[n] = fx
			n++
		}
	}
	e.effects = e.effects[:n]
}
