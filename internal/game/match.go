package game

// Phase is the lifecycle of a match.
type Phase uint8

const (
	PhaseRunning Phase = iota
	PhaseIntermission
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseIntermission:
		return "intermission"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// CasualtyTally counts eliminated fighters per team.
type CasualtyTally struct {
	TeamA int
	TeamB int
}

func (c *CasualtyTally) add(team Team) {
	switch team {
	case TeamA:
		c.TeamA++
	case TeamB:
		c.TeamB++
	}
}

// MatchState tracks round and match progression. Wins never exceed the
// threshold except at the instant the match concludes.
type MatchState struct {
	Round       int
	MaxRounds   int
	WinsToClaim int // maxRounds/2 + 1
	WinsA       int
	WinsB       int
	Phase       Phase
	RoundTime   float64 // seconds elapsed in the current round

	RoundCasualties CasualtyTally // reset at round start
	TotalCasualties CasualtyTally // cumulative across the match

	Champion Team // set when Phase == PhaseFinished; TeamNone on a draw
}

// newMatchState starts a match at round 1. maxRounds below 1 is clamped.
func newMatchState(maxRounds int) MatchState {
	if maxRounds < 1 {
		maxRounds = 1
	}
	return MatchState{
		Round:       1,
		MaxRounds:   maxRounds,
		WinsToClaim: maxRounds/2 + 1,
		Phase:       PhaseRunning,
	}
}

// wins returns the round-win count for a team.
func (m *MatchState) wins(team Team) int {
	switch team {
	case TeamA:
		return m.WinsA
	case TeamB:
		return m.WinsB
	default:
		return 0
	}
}

// recordRoundWin credits a round to the winner (no-op for a draw) and
// reports whether the match is now decided: a side reached the win threshold
// or the round cap was hit.
func (m *MatchState) recordRoundWin(winner Team) (matchOver bool) {
	switch winner {
	case TeamA:
		m.WinsA++
	case TeamB:
		m.WinsB++
	}
	return m.WinsA >= m.WinsToClaim || m.WinsB >= m.WinsToClaim || m.Round >= m.MaxRounds
}

// champion returns the side with more round wins, or TeamNone on a tie.
func (m *MatchState) champion() Team {
	switch {
	case m.WinsA > m.WinsB:
		return TeamA
	case m.WinsB > m.WinsA:
		return TeamB
	default:
		return TeamNone
	}
}

// MatchEventReason explains why a match event fired.
type MatchEventReason string

const (
	ReasonElimination MatchEventReason = "elimination" // one side wiped
	ReasonDoubleKO    MatchEventReason = "double_ko"   // both sides wiped
)

// MatchEvent is the discrete notification emitted on every round and match
// transition.
type MatchEvent struct {
	Round         int              `json:"round"`
	Winner        Team             `json:"-"`
	WinnerLabel   string           `json:"winner"`
	Reason        MatchEventReason `json:"reason"`
	WinsA         int              `json:"winsA"`
	WinsB         int              `json:"winsB"`
	MatchOver     bool             `json:"matchOver"`
	ChampionLabel string           `json:"champion,omitempty"`
	RoundLost     CasualtyTally    `json:"roundCasualties"`
	TotalLost     CasualtyTally    `json:"totalCasualties"`
}
