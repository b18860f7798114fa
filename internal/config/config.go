// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all arena and server settings.
//
// IMPORTANT: When changing defaults, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
	"strings"

	"acorn-arena/internal/game"
)

// ArenaConfig holds the playfield and simulation settings.
type ArenaConfig struct {
	Width     float64 // playfield width in world units
	Height    float64 // playfield height
	TickRate  int     // simulation steps per second
	Seed      int64   // 0 picks a time-based seed
	Obstacles []game.Obstacle
}

// DefaultArena returns the default arena configuration.
func DefaultArena() ArenaConfig {
	return ArenaConfig{
		Width:    game.DefaultArenaWidth,
		Height:   game.DefaultArenaHeight,
		TickRate: 60,
	}
}

// ArenaFromEnv returns arena configuration with environment overrides.
func ArenaFromEnv() ArenaConfig {
	cfg := DefaultArena()

	if w := getEnvFloat("ARENA_WIDTH", 0); w > 0 {
		cfg.Width = w
	}
	if h := getEnvFloat("ARENA_HEIGHT", 0); h > 0 {
		cfg.Height = h
	}
	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if s := getEnvInt("ARENA_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}
	if layout := os.Getenv("ARENA_OBSTACLES"); layout != "" {
		cfg.Obstacles = ParseObstacles(layout)
	}

	return cfg
}

// ParseObstacles parses a semicolon-separated obstacle layout of the form
// "x,y,radius;x,y,radius". Malformed entries are skipped.
func ParseObstacles(layout string) []game.Obstacle {
	var obstacles []game.Obstacle
	for _, entry := range strings.Split(layout, ";") {
		parts := strings.Split(strings.TrimSpace(entry), ",")
		if len(parts) != 3 {
			continue
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		r, errR := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if errX != nil || errY != nil || errR != nil || r <= 0 {
			continue
		}
		obstacles = append(obstacles, game.Obstacle{X: x, Y: y, Radius: r})
	}
	return obstacles
}

// MatchConfig holds round and squad settings.
type MatchConfig struct {
	SquadSize    int     // fighters per team including the commander
	MaxRounds    int     // rounds before the match is decided regardless of wins
	Intermission float64 // seconds between rounds
	PlayerTeam   string  // "A" or "B"
	ControlMode  string  // "auto" or "player"
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		SquadSize:    4,
		MaxRounds:    5,
		Intermission: 2.5,
		PlayerTeam:   "A",
		ControlMode:  "player",
	}
}

// MatchFromEnv returns match configuration with environment overrides.
// MaxRounds below 1 is clamped to 1.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if s := getEnvInt("SQUAD_SIZE", 0); s > 0 {
		cfg.SquadSize = s
	}
	if r := getEnvInt("MAX_ROUNDS", 0); r != 0 {
		cfg.MaxRounds = r
	}
	if cfg.MaxRounds < 1 {
		cfg.MaxRounds = 1
	}
	if i := getEnvFloat("INTERMISSION_SECONDS", 0); i > 0 {
		cfg.Intermission = i
	}
	if t := os.Getenv("PLAYER_TEAM"); t == "A" || t == "B" {
		cfg.PlayerTeam = t
	}
	if m := os.Getenv("CONTROL_MODE"); m == "auto" || m == "player" {
		cfg.ControlMode = m
	}

	return cfg
}

// DroneConfig holds the drone deployment settings. Max -1 means unlimited.
type DroneConfig struct {
	Enabled    bool
	Team       string // deploying side, "A" or "B"
	Max        int
	Manual     bool // bank charges for the deploy key instead of auto-spawning
	FirstDelay float64
	Interval   float64
	Jitter     float64
}

// DefaultDrone returns the default drone configuration: the opposing side
// auto-deploys a small number of drones per round.
func DefaultDrone() DroneConfig {
	return DroneConfig{
		Enabled:    true,
		Team:       "B",
		Max:        2,
		FirstDelay: 8.0,
		Interval:   10.0,
		Jitter:     3.0,
	}
}

// DroneFromEnv returns drone configuration with environment overrides.
func DroneFromEnv() DroneConfig {
	cfg := DefaultDrone()

	if os.Getenv("DRONE_ENABLED") == "false" {
		cfg.Enabled = false
	}
	if t := os.Getenv("DRONE_TEAM"); t == "A" || t == "B" {
		cfg.Team = t
	}
	if v := os.Getenv("DRONE_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Max = n
		}
	}
	if os.Getenv("DRONE_MANUAL") == "true" {
		cfg.Manual = true
	}
	if d := getEnvFloat("DRONE_FIRST_DELAY", 0); d > 0 {
		cfg.FirstDelay = d
	}
	if i := getEnvFloat("DRONE_INTERVAL", 0); i > 0 {
		cfg.Interval = i
	}
	if j := getEnvFloat("DRONE_JITTER", -1); j >= 0 {
		cfg.Jitter = j
	}

	return cfg
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	SnapshotHz   int      // websocket broadcast rate
	CORSOrigins  []string // extra allowed origins beyond localhost
	EventLogPath string   // empty disables the JSONL event log
	DebugEnabled bool
	DebugAddr    string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		SnapshotHz:   7,
		DebugEnabled: true,
		DebugAddr:    "127.0.0.1:6060",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if hz := getEnvInt("SNAPSHOT_HZ", 0); hz > 0 {
		cfg.SnapshotHz = hz
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}
	if os.Getenv("DEBUG_SERVER") == "false" {
		cfg.DebugEnabled = false
	}
	if addr := os.Getenv("DEBUG_ADDR"); addr != "" {
		cfg.DebugAddr = addr
	}

	return cfg
}

// LimitsFromEnv returns per-frame entity caps with environment overrides.
func LimitsFromEnv() game.Limits {
	limits := game.DefaultLimits

	if n := getEnvInt("MAX_FIGHTERS", 0); n > 0 {
		limits.MaxFighters = n
	}
	if n := getEnvInt("MAX_PROJECTILES", 0); n > 0 {
		limits.MaxProjectiles = n
	}
	if n := getEnvInt("MAX_EFFECTS", 0); n > 0 {
		limits.MaxEffects = n
	}

	return limits
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Arena  ArenaConfig
	Match  MatchConfig
	Drone  DroneConfig
	Server ServerConfig
	Limits game.Limits
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Arena:  ArenaFromEnv(),
		Match:  MatchFromEnv(),
		Drone:  DroneFromEnv(),
		Server: ServerFromEnv(),
		Limits: LimitsFromEnv(),
	}
}

// EngineConfig maps the app configuration onto the engine's construction
// parameters.
func (c AppConfig) EngineConfig() game.Config {
	return game.Config{
		TickRate:     c.Arena.TickRate,
		ArenaWidth:   c.Arena.Width,
		ArenaHeight:  c.Arena.Height,
		SquadSize:    c.Match.SquadSize,
		MaxRounds:    c.Match.MaxRounds,
		Intermission: c.Match.Intermission,
		PlayerTeam:   parseTeam(c.Match.PlayerTeam),
		ControlMode:  game.ParseControlMode(c.Match.ControlMode),
		Drone: game.DroneConfig{
			Enabled:    c.Drone.Enabled,
			Team:       parseTeam(c.Drone.Team),
			Max:        c.Drone.Max,
			Manual:     c.Drone.Manual,
			FirstDelay: c.Drone.FirstDelay,
			Interval:   c.Drone.Interval,
			Jitter:     c.Drone.Jitter,
		},
		Obstacles: c.Arena.Obstacles,
		Limits:    c.Limits,
		Seed:      c.Arena.Seed,
	}
}

func parseTeam(label string) game.Team {
	switch label {
	case "A":
		return game.TeamA
	case "B":
		return game.TeamB
	default:
		return game.TeamNone
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
