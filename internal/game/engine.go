package game

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// Config holds the engine construction parameters.
type Config struct {
	TickRate    int     // simulation steps per second
	ArenaWidth  float64 // defaults to DefaultArenaWidth
	ArenaHeight float64
	SquadSize   int // fighters per team including the commander, clamped >= 1

	MaxRounds    int     // clamped >= 1
	Intermission float64 // seconds between rounds

	PlayerTeam  Team // side assignment for the local player
	ControlMode ControlMode

	Drone     DroneConfig
	Obstacles []Obstacle
	Limits    Limits

	Seed int64 // 0 picks a time-based seed
}

// withDefaults clamps malformed values instead of rejecting them.
func (c Config) withDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = 60
	}
	if c.ArenaWidth <= 0 {
		c.ArenaWidth = DefaultArenaWidth
	}
	if c.ArenaHeight <= 0 {
		c.ArenaHeight = DefaultArenaHeight
	}
	if c.SquadSize < 1 {
		c.SquadSize = 4
	}
	if c.MaxRounds < 1 {
		c.MaxRounds = 1
	}
	if c.Intermission <= 0 {
		c.Intermission = 2.5
	}
	if c.PlayerTeam == TeamNone {
		c.PlayerTeam = TeamA
	}
	if c.Limits == (Limits{}) {
		c.Limits = DefaultLimits
	}
	if c.Drone.Team == TeamNone {
		c.Drone.Team = c.PlayerTeam.Opponent()
	}
	if c.Drone.Interval <= 0 {
		c.Drone.Interval = 9.0
	}
	if c.Drone.FirstDelay <= 0 {
		c.Drone.FirstDelay = 6.0
	}
	if c.Drone.Jitter < 0 {
		c.Drone.Jitter = 0
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// delayedAction is an entry in the engine's own scheduling queue. Actions
// from an older generation are discarded, never run; that is how a pending
// round restart dies with a reset or teardown.
type delayedAction struct {
	due float64 // engine clock
	gen uint64
	fn  func(*Engine)
}

// Engine is the arena simulation. All state mutation happens synchronously
// inside one step; the API layer reads triple-buffered snapshots.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	fighters    []*Fighter
	projectiles []*Projectile
	effects     []*Effect

	match         MatchState
	sched         *droneSchedule
	droneReady    int
	dronesSpawned int

	keys           keyState
	deployRequests int
	controlMode    ControlMode

	elapsed    float64 // engine clock, seconds
	tickCount  uint64
	generation uint64
	actions    []delayedAction

	nextID  uint64
	rng     *rand.Rand
	rngSeed int64

	snapshots *SnapshotPool
	eventLog  *EventLog

	onMatchEvent func(MatchEvent)
	onStep       func(time.Duration) // metrics hook, optional
}

// NewEngine creates an engine and sets up round 1. The loop does not run
// until Start is called; tests drive Step directly.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:         cfg,
		stopChan:    make(chan struct{}),
		controlMode: cfg.ControlMode,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		rngSeed:     cfg.Seed,
		snapshots:   NewSnapshotPool(cfg.Limits),
		eventLog:    NewEventLog(),
	}
	e.match = newMatchState(cfg.MaxRounds)
	e.startRound()
	e.produceSnapshot()
	return e
}

// Start launches the frame loop. Step time is measured wall-clock and
// clamped to MaxDelta, so a stalled host cannot destabilize the simulation.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.TickRate))

	go func() {
		last := time.Now()
		for {
			select {
			case now := <-e.ticker.C:
				dt := now.Sub(last).Seconds()
				last = now
				began := time.Now()
				e.Step(dt)
				if e.onStep != nil {
					e.onStep(time.Since(began))
				}
			case <-e.stopChan:
				return
			}
		}
	}()

	log.Printf("arena engine started at %d TPS (seed %d)", e.cfg.TickRate, e.cfg.Seed)
}

// Stop halts the frame loop and discards all pending delayed actions.
// Idempotent: safe to call when already stopped or never started.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.ticker != nil {
		e.ticker.Stop()
	}
	close(e.stopChan)

	// A restart scheduled before teardown must never fire.
	e.generation++
	e.actions = e.actions[:0]

	log.Println("arena engine stopped")
}

// Step advances the simulation by dt seconds. dt is clamped to MaxDelta.
func (e *Engine) Step(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.step(dt)
}

func (e *Engine) step(dt float64) {
	if dt <= 0 {
		return
	}
	if dt > MaxDelta {
		dt = MaxDelta
	}
	e.tickCount++
	e.elapsed += dt

	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "", TickPayload{
		RNGSeed:     e.rngSeed,
		Fighters:    len(e.fighters),
		DeltaTimeNs: int64(dt * 1e9),
	})
	// Advance the RNG seed deterministically so a logged seed reproduces
	// the remainder of the run.
	e.rngSeed = e.rng.Int63()
	e.rng.Seed(e.rngSeed)

	phaseBefore := e.match.Phase
	e.runDueActions()
	if phaseBefore != PhaseRunning && e.match.Phase == PhaseRunning {
		// A due action just started a fresh round. Present the untouched
		// spawn state for one frame; combat resumes next step.
		e.produceSnapshot()
		return
	}

	if e.match.Phase == PhaseRunning {
		e.match.RoundTime += dt
		in := e.keys.snapshot()

		e.tickDroneSchedule()
		for e.deployRequests > 0 {
			e.deployRequests--
			e.consumeDeployInput()
		}

		for _, f := range e.fighters {
			if !f.Alive {
				continue
			}
			if f.FireCD > 0 {
				f.FireCD -= dt
			}
			switch {
			case f.Role == RoleDrone:
				e.updateDrone(f, dt)
			case f.Role == RoleCommander && f.Team == e.cfg.PlayerTeam && e.controlMode == ControlPlayer:
				e.applyDirectInput(f, in, dt)
			default:
				e.steerBot(f, dt)
				e.botTryFire(f, dt)
			}
			for _, o := range e.cfg.Obstacles {
				o.repel(f)
			}
			f.clampToField(e.cfg.ArenaWidth, e.cfg.ArenaHeight)
		}

		e.updateProjectiles(dt)
		e.updateEffects(dt)
		e.checkRoundEnd()
	} else {
		e.updateEffects(dt)
	}

	e.produceSnapshot()
}

// applyDirectInput moves the local commander from the held-key snapshot and
// fires while the fire key is held and the cooldown has elapsed.
func (e *Engine) applyDirectInput(f *Fighter, in InputState, dt float64) {
	dx, dy := in.Direction()
	f.X += dx * f.Speed * dt
	f.Y += dy * f.Speed * dt
	if in.Fire && f.FireCD <= 0 {
		e.fireProjectile(f, e.nearestEnemy(f))
	}
}

// fireProjectile spawns a shot from owner homing on target (target may be
// nil for a straight shot). Respects the projectile cap and fire cooldown.
func (e *Engine) fireProjectile(owner *Fighter, target *Fighter) {
	if len(e.projectiles) >= e.cfg.Limits.MaxProjectiles {
		return
	}
	owner.FireCD = FireCooldown
	e.nextID++
	p := newProjectile(e.nextID, owner, target)
	e.projectiles = append(e.projectiles, p)
	e.eventLog.EmitSimple(EventTypeShot, e.tickCount, owner.ID, nil)
}

// updateProjectiles advances every shot, homing included, and resolves hits
// against the first living opposing fighter in slice order. Removal reasons:
// expiry, out of bounds, or a hit.
func (e *Engine) updateProjectiles(dt float64) {
	n := 0
	for _, p := range e.projectiles {
		if !p.update(dt, e.fighterByID(p.TargetID), e.cfg.ArenaWidth, e.cfg.ArenaHeight) {
			continue
		}
		hit := false
		for _, f := range e.fighters {
			if !p.hits(f) {
				continue
			}
			f.HP -= p.Damage
			if f.HP < 0 {
				f.HP = 0
			}
			e.spawnEffect(EffectHit, p.X, p.Y, EffectHitTTL, teamColors[p.Team])
			if f.HP == 0 {
				e.markDead(f, p.ID)
			}
			hit = true
			break
		}
		if hit {
			continue
		}
		e.projectiles[n] = p
		n++
	}
	e.projectiles = e.projectiles[:n]
}

// markDead is the single idempotent elimination path, shared by projectile
// hits and drone contact. A casualty is recorded at most once per fighter;
// drones do not count toward the tally or the round condition.
func (e *Engine) markDead(f *Fighter, killerID string) {
	if !f.Alive {
		return
	}
	f.Alive = false
	f.HP = 0
	if f.Role != RoleDrone {
		e.match.RoundCasualties.add(f.Team)
		e.match.TotalCasualties.add(f.Team)
	}
	e.eventLog.EmitSimple(EventTypeCasualty, e.tickCount, f.ID, CasualtyPayload{
		FighterID: f.ID,
		Team:      f.Team.String(),
		KillerID:  killerID,
		Round:     e.match.Round,
	})
}

// fighterByID returns the fighter with the given id, or nil. Linear scan:
// the arena holds dozens of entities at most.
func (e *Engine) fighterByID(id string) *Fighter {
	if id == "" {
		return nil
	}
	for _, f := range e.fighters {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// aliveCount counts living non-drone fighters on a team.
func (e *Engine) aliveCount(team Team) int {
	n := 0
	for _, f := range e.fighters {
		if f.Alive && f.Team == team && f.Role != RoleDrone {
			n++
		}
	}
	return n
}

// checkRoundEnd transitions out of the running phase when at least one side
// has no living fighters left.
func (e *Engine) checkRoundEnd() {
	aliveA := e.aliveCount(TeamA)
	aliveB := e.aliveCount(TeamB)
	if aliveA > 0 && aliveB > 0 {
		return
	}

	winner := TeamNone
	reason := ReasonDoubleKO
	switch {
	case aliveA > 0:
		winner = TeamA
		reason = ReasonElimination
	case aliveB > 0:
		winner = TeamB
		reason = ReasonElimination
	}
	e.endRound(winner, reason)
}

func (e *Engine) endRound(winner Team, reason MatchEventReason) {
	matchOver := e.match.recordRoundWin(winner)

	winnerLabel := "draw"
	if winner != TeamNone {
		winnerLabel = winner.String()
	}
	ev := MatchEvent{
		Round:       e.match.Round,
		Winner:      winner,
		WinnerLabel: winnerLabel,
		Reason:      reason,
		WinsA:       e.match.WinsA,
		WinsB:       e.match.WinsB,
		MatchOver:   matchOver,
		RoundLost:   e.match.RoundCasualties,
		TotalLost:   e.match.TotalCasualties,
	}

	e.eventLog.EmitSimple(EventTypeRoundEnd, e.tickCount, "", RoundPayload{
		Round:  e.match.Round,
		Winner: winnerLabel,
		WinsA:  e.match.WinsA,
		WinsB:  e.match.WinsB,
	})

	if matchOver {
		e.match.Phase = PhaseFinished
		e.match.Champion = e.match.champion()
		ev.ChampionLabel = "draw"
		if e.match.Champion != TeamNone {
			ev.ChampionLabel = e.match.Champion.String()
		}
		e.spawnEffect(EffectCelebration, e.cfg.ArenaWidth/2, e.cfg.ArenaHeight/2,
			EffectCelebrationTTL, teamColors[e.match.Champion])
		e.eventLog.EmitSimple(EventTypeMatchEnd, e.tickCount, "", RoundPayload{
			Round:  e.match.Round,
			Winner: ev.ChampionLabel,
			WinsA:  e.match.WinsA,
			WinsB:  e.match.WinsB,
		})
	} else {
		e.match.Phase = PhaseIntermission
		e.scheduleAfter(e.cfg.Intermission, func(e *Engine) {
			e.match.Round++
			e.startRound()
		})
	}

	if e.onMatchEvent != nil {
		go e.onMatchEvent(ev)
	}
}

// startRound rebuilds per-round state: fresh fighters at full hp, no
// projectiles or effects, a new drone schedule and zeroed counters. Win
// counts and the cumulative casualty tally survive.
func (e *Engine) startRound() {
	e.fighters = e.fighters[:0]
	e.projectiles = e.projectiles[:0]
	e.effects = e.effects[:0]
	e.droneReady = 0
	e.dronesSpawned = 0
	e.deployRequests = 0
	e.sched = newDroneSchedule(e.cfg.Drone, e.rng)
	e.match.RoundTime = 0
	e.match.RoundCasualties = CasualtyTally{}
	e.match.Phase = PhaseRunning

	e.spawnSquad(TeamA)
	e.spawnSquad(TeamB)

	e.eventLog.EmitSimple(EventTypeRoundStart, e.tickCount, "", RoundPayload{
		Round: e.match.Round,
		WinsA: e.match.WinsA,
		WinsB: e.match.WinsB,
	})
}

// spawnSquad places one commander and SquadSize-1 bots in a column on the
// team's side of the field.
func (e *Engine) spawnSquad(team Team) {
	baseX := e.cfg.ArenaWidth * 0.22
	if team == TeamB {
		baseX = e.cfg.ArenaWidth * 0.78
	}
	spacing := (e.cfg.ArenaHeight - 2*WallMargin) / float64(e.cfg.SquadSize+1)
	for i := 0; i < e.cfg.SquadSize; i++ {
		role := RoleBot
		if i == 0 {
			role = RoleCommander
		}
		y := WallMargin + spacing*float64(i+1)
		e.nextID++
		f := newFighter(e.nextID, team, role, baseX, y, e.rng)
		e.rerollWander(f)
		e.fighters = append(e.fighters, f)
		e.spawnEffect(EffectSpawn, f.X, f.Y, EffectSpawnTTL, teamColors[team])
	}
}

// scheduleAfter queues a delayed action on the engine clock, bound to the
// current generation.
func (e *Engine) scheduleAfter(delay float64, fn func(*Engine)) {
	e.actions = append(e.actions, delayedAction{
		due: e.elapsed + delay,
		gen: e.generation,
		fn:  fn,
	})
}

// runDueActions executes due actions from the current generation and drops
// stale ones.
func (e *Engine) runDueActions() {
	n := 0
	for _, a := range e.actions {
		if a.gen != e.generation {
			continue
		}
		if e.elapsed >= a.due {
			a.fn(e)
			continue
		}
		e.actions[n] = a
		n++
	}
	e.actions = e.actions[:n]
}

// Reset starts a whole new match: round 1, zeroed wins and casualty history.
// Any pending delayed action is invalidated.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.actions = e.actions[:0]
	e.match = newMatchState(e.cfg.MaxRounds)
	e.startRound()
	e.produceSnapshot()
}

// PressKey records a key-down input event. Deploy is edge-triggered: each
// press spends at most one banked drone charge.
func (e *Engine) PressKey(k Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if k == KeyDeploy {
		e.deployRequests++
		return
	}
	if k < keyCount {
		e.keys[k] = true
	}
}

// ReleaseKey records a key-up input event.
func (e *Engine) ReleaseKey(k Key) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if k < keyCount && k != KeyDeploy {
		e.keys[k] = false
	}
}

// SetControlMode switches the local commander between direct input and the
// bot strategy.
func (e *Engine) SetControlMode(mode ControlMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controlMode = mode
}

// ControlMode returns the current control mode.
func (e *Engine) ControlMode() ControlMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controlMode
}

// OnMatchEvent registers the callback invoked (on its own goroutine) for
// every round/match transition.
func (e *Engine) OnMatchEvent(fn func(MatchEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMatchEvent = fn
}

// SetStepHook registers a hook receiving the wall-clock duration of each
// step. Used for metrics; may be nil.
func (e *Engine) SetStepHook(fn func(time.Duration)) {
	e.onStep = fn
}

// Snapshot returns the latest published immutable snapshot.
func (e *Engine) Snapshot() *ArenaSnapshot {
	return e.snapshots.AcquireRead()
}

// produceSnapshot publishes the current state to the snapshot pool.
func (e *Engine) produceSnapshot() {
	snap := e.snapshots.AcquireWrite()
	snap.Tick = e.tickCount
	snap.Phase = e.match.Phase.String()
	snap.Round = e.match.Round
	snap.MaxRounds = e.match.MaxRounds
	snap.WinsToClaim = e.match.WinsToClaim
	snap.Champion = ""
	if e.match.Phase == PhaseFinished {
		snap.Champion = "draw"
		if e.match.Champion != TeamNone {
			snap.Champion = e.match.Champion.String()
		}
	}

	snap.TeamA = e.teamSnapshot(TeamA)
	snap.TeamB = e.teamSnapshot(TeamB)
	snap.DroneReady = e.droneReady
	if e.cfg.Drone.Unlimited() {
		snap.DroneRemaining = -1
	} else {
		snap.DroneRemaining = e.sched.pending()
	}

	snap.Player = FighterSnapshot{}
	for _, f := range e.fighters {
		if len(snap.Fighters) >= e.cfg.Limits.MaxFighters {
			break
		}
		fs := FighterSnapshot{
			ID:     f.ID,
			Team:   f.Team.String(),
			Role:   f.Role.String(),
			X:      f.X,
			Y:      f.Y,
			HP:     f.HP,
			MaxHP:  f.MaxHP,
			Alive:  f.Alive,
			FireCD: f.FireCD,
		}
		snap.Fighters = append(snap.Fighters, fs)
		if f.Role == RoleCommander && f.Team == e.cfg.PlayerTeam {
			snap.Player = fs
		}
	}
	for _, p := range e.projectiles {
		if len(snap.Projectiles) >= e.cfg.Limits.MaxProjectiles {
			break
		}
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			ID:   p.ID,
			Team: p.Team.String(),
			X:    p.X,
			Y:    p.Y,
			VX:   p.VX,
			VY:   p.VY,
		})
	}
	for _, fx := range e.effects {
		if len(snap.Effects) >= e.cfg.Limits.MaxEffects {
			break
		}
		snap.Effects = append(snap.Effects, EffectSnapshot{
			Kind:  fx.Kind.String(),
			X:     fx.X,
			Y:     fx.Y,
			TTL:   fx.TTL,
			Color: fx.Color,
		})
	}

	e.snapshots.PublishWrite()
}

// teamSnapshot aggregates a side's standing for the snapshot.
func (e *Engine) teamSnapshot(team Team) TeamSnapshot {
	ts := TeamSnapshot{Wins: e.match.wins(team)}
	switch team {
	case TeamA:
		ts.Casualties = e.match.RoundCasualties.TeamA
	case TeamB:
		ts.Casualties = e.match.RoundCasualties.TeamB
	}
	for _, f := range e.fighters {
		if f.Team != team || f.Role == RoleDrone {
			continue
		}
		ts.MaxHP += f.MaxHP
		ts.TotalHP += f.HP
		if f.Alive {
			ts.AliveCount++
		}
	}
	return ts
}

// StartEventLog begins appending simulation events to the given JSONL file.
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and closes the event log.
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns event log counters for monitoring.
func (e *Engine) EventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}

// Match returns a copy of the current match state.
func (e *Engine) Match() MatchState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.match
}

// Config returns the engine configuration after default clamping.
func (e *Engine) Config() Config {
	return e.cfg
}
