package protocol

import "acorn-arena/internal/game"

// Wire mirrors of the engine snapshot types. Kept separate from the engine so
// the wire format carries both json and msgpack tags and can evolve without
// touching simulation code.

// Fighter is one unit on the field.
type Fighter struct {
	ID     string  `json:"id" msgpack:"id"`
	Team   string  `json:"team" msgpack:"team"`
	Role   string  `json:"role" msgpack:"role"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	HP     int     `json:"hp" msgpack:"hp"`
	MaxHP  int     `json:"maxHp" msgpack:"maxHp"`
	Alive  bool    `json:"alive" msgpack:"alive"`
	FireCD float64 `json:"fireCd" msgpack:"fireCd"`
}

// Projectile is a shot in flight.
type Projectile struct {
	ID   string  `json:"id" msgpack:"id"`
	Team string  `json:"team" msgpack:"team"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	VX   float64 `json:"vx" msgpack:"vx"`
	VY   float64 `json:"vy" msgpack:"vy"`
}

// Effect is a transient cosmetic marker.
type Effect struct {
	Kind  string  `json:"kind" msgpack:"kind"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	TTL   float64 `json:"ttl" msgpack:"ttl"`
	Color string  `json:"color" msgpack:"color"`
}

// TeamState aggregates one side's standing.
type TeamState struct {
	Wins       int `json:"wins" msgpack:"wins"`
	AliveCount int `json:"aliveCount" msgpack:"aliveCount"`
	TotalHP    int `json:"totalHp" msgpack:"totalHp"`
	MaxHP      int `json:"maxHp" msgpack:"maxHp"`
	Casualties int `json:"casualties" msgpack:"casualties"`
}

// Snapshot is the periodic full-state broadcast.
type Snapshot struct {
	Seq   uint64 `json:"seq" msgpack:"seq"`
	Tick  uint64 `json:"tick" msgpack:"tick"`
	Phase string `json:"phase" msgpack:"phase"`

	Round       int    `json:"round" msgpack:"round"`
	MaxRounds   int    `json:"maxRounds" msgpack:"maxRounds"`
	WinsToClaim int    `json:"winsToClaim" msgpack:"winsToClaim"`
	Champion    string `json:"champion,omitempty" msgpack:"champion,omitempty"`

	TeamA TeamState `json:"teamA" msgpack:"teamA"`
	TeamB TeamState `json:"teamB" msgpack:"teamB"`

	DroneReady     int `json:"droneReady" msgpack:"droneReady"`
	DroneRemaining int `json:"droneRemaining" msgpack:"droneRemaining"`

	Player Fighter `json:"player" msgpack:"player"`

	Fighters    []Fighter    `json:"fighters" msgpack:"fighters"`
	Projectiles []Projectile `json:"projectiles" msgpack:"projectiles"`
	Effects     []Effect     `json:"effects" msgpack:"effects"`
}

// Casualties mirrors the per-team loss tally.
type Casualties struct {
	A int `json:"a" msgpack:"a"`
	B int `json:"b" msgpack:"b"`
}

// MatchEvent is the discrete round/match transition notification.
type MatchEvent struct {
	Round     int        `json:"round" msgpack:"round"`
	Winner    string     `json:"winner" msgpack:"winner"`
	Reason    string     `json:"reason" msgpack:"reason"`
	WinsA     int        `json:"winsA" msgpack:"winsA"`
	WinsB     int        `json:"winsB" msgpack:"winsB"`
	MatchOver bool       `json:"matchOver" msgpack:"matchOver"`
	Champion  string     `json:"champion,omitempty" msgpack:"champion,omitempty"`
	RoundLost Casualties `json:"roundCasualties" msgpack:"roundCasualties"`
	TotalLost Casualties `json:"totalCasualties" msgpack:"totalCasualties"`
}

func wireFighter(f game.FighterSnapshot) Fighter {
	return Fighter{
		ID:     f.ID,
		Team:   f.Team,
		Role:   f.Role,
		X:      f.X,
		Y:      f.Y,
		HP:     f.HP,
		MaxHP:  f.MaxHP,
		Alive:  f.Alive,
		FireCD: f.FireCD,
	}
}

func wireTeam(t game.TeamSnapshot) TeamState {
	return TeamState{
		Wins:       t.Wins,
		AliveCount: t.AliveCount,
		TotalHP:    t.TotalHP,
		MaxHP:      t.MaxHP,
		Casualties: t.Casualties,
	}
}

// SnapshotFrom converts an engine snapshot to its wire form.
func SnapshotFrom(s *game.ArenaSnapshot) Snapshot {
	out := Snapshot{
		Seq:            s.Sequence,
		Tick:           s.Tick,
		Phase:          s.Phase,
		Round:          s.Round,
		MaxRounds:      s.MaxRounds,
		WinsToClaim:    s.WinsToClaim,
		Champion:       s.Champion,
		TeamA:          wireTeam(s.TeamA),
		TeamB:          wireTeam(s.TeamB),
		DroneReady:     s.DroneReady,
		DroneRemaining: s.DroneRemaining,
		Player:         wireFighter(s.Player),
		Fighters:       make([]Fighter, 0, len(s.Fighters)),
		Projectiles:    make([]Projectile, 0, len(s.Projectiles)),
		Effects:        make([]Effect, 0, len(s.Effects)),
	}
	for _, f := range s.Fighters {
		out.Fighters = append(out.Fighters, wireFighter(f))
	}
	for _, p := range s.Projectiles {
		out.Projectiles = append(out.Projectiles, Projectile{
			ID: p.ID, Team: p.Team, X: p.X, Y: p.Y, VX: p.VX, VY: p.VY,
		})
	}
	for _, fx := range s.Effects {
		out.Effects = append(out.Effects, Effect{
			Kind: fx.Kind, X: fx.X, Y: fx.Y, TTL: fx.TTL, Color: fx.Color,
		})
	}
	return out
}

// MatchEventFrom converts an engine match event to its wire form.
func MatchEventFrom(ev game.MatchEvent) MatchEvent {
	return MatchEvent{
		Round:     ev.Round,
		Winner:    ev.WinnerLabel,
		Reason:    string(ev.Reason),
		WinsA:     ev.WinsA,
		WinsB:     ev.WinsB,
		MatchOver: ev.MatchOver,
		Champion:  ev.ChampionLabel,
		RoundLost: Casualties{A: ev.RoundLost.TeamA, B: ev.RoundLost.TeamB},
		TotalLost: Casualties{A: ev.TotalLost.TeamA, B: ev.TotalLost.TeamB},
	}
}
