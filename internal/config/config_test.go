package config

import (
	"testing"

	"acorn-arena/internal/game"
)

func TestMatchFromEnvClampsRounds(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "-2")
	cfg := MatchFromEnv()
	if cfg.MaxRounds != 1 {
		t.Errorf("maxRounds = %d, want clamped to 1", cfg.MaxRounds)
	}

	t.Setenv("MAX_ROUNDS", "7")
	cfg = MatchFromEnv()
	if cfg.MaxRounds != 7 {
		t.Errorf("maxRounds = %d, want 7", cfg.MaxRounds)
	}
}

func TestMatchFromEnvRejectsBadTeam(t *testing.T) {
	t.Setenv("PLAYER_TEAM", "C")
	cfg := MatchFromEnv()
	if cfg.PlayerTeam != "A" {
		t.Errorf("playerTeam = %q, want default A", cfg.PlayerTeam)
	}
}

func TestDroneFromEnvUnlimited(t *testing.T) {
	t.Setenv("DRONE_MAX", "-1")
	t.Setenv("DRONE_MANUAL", "true")
	cfg := DroneFromEnv()
	if cfg.Max != -1 {
		t.Errorf("max = %d, want -1 (unlimited)", cfg.Max)
	}
	if !cfg.Manual {
		t.Error("manual mode not enabled")
	}
}

func TestDroneFromEnvDisable(t *testing.T) {
	t.Setenv("DRONE_ENABLED", "false")
	if DroneFromEnv().Enabled {
		t.Error("drone still enabled")
	}
}

func TestArenaFromEnvOverrides(t *testing.T) {
	t.Setenv("ARENA_WIDTH", "2000")
	t.Setenv("TICK_RATE", "30")
	cfg := ArenaFromEnv()
	if cfg.Width != 2000 || cfg.TickRate != 30 {
		t.Errorf("arena = %+v", cfg)
	}

	t.Setenv("ARENA_WIDTH", "not-a-number")
	if ArenaFromEnv().Width != game.DefaultArenaWidth {
		t.Error("malformed override did not fall back to the default")
	}
}

func TestParseObstacles(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   int
	}{
		{"two obstacles", "100,200,30;500,300,45", 2},
		{"skips malformed entry", "100,200,30;oops;500,300,45", 2},
		{"skips non-positive radius", "100,200,0;100,200,-5", 0},
		{"tolerates spaces", " 100, 200, 30 ; 500,300,45", 2},
		{"empty layout", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseObstacles(tt.layout)
			if len(got) != tt.want {
				t.Errorf("ParseObstacles(%q) = %d obstacles, want %d", tt.layout, len(got), tt.want)
			}
		})
	}

	obs := ParseObstacles("100,200,30")
	if len(obs) != 1 || obs[0].X != 100 || obs[0].Y != 200 || obs[0].Radius != 30 {
		t.Errorf("obstacle = %+v", obs)
	}
}

func TestEngineConfigMapping(t *testing.T) {
	app := AppConfig{
		Arena: ArenaConfig{Width: 800, Height: 500, TickRate: 30, Seed: 99},
		Match: MatchConfig{SquadSize: 3, MaxRounds: 3, Intermission: 1.5, PlayerTeam: "B", ControlMode: "player"},
		Drone: DroneConfig{Enabled: true, Team: "A", Max: -1, Manual: true, FirstDelay: 2, Interval: 4, Jitter: 1},
		Limits: game.Limits{MaxFighters: 10, MaxProjectiles: 20, MaxEffects: 5},
	}

	cfg := app.EngineConfig()
	if cfg.PlayerTeam != game.TeamB {
		t.Errorf("playerTeam = %v, want TeamB", cfg.PlayerTeam)
	}
	if cfg.ControlMode != game.ControlPlayer {
		t.Errorf("controlMode = %v, want player", cfg.ControlMode)
	}
	if cfg.Drone.Team != game.TeamA || !cfg.Drone.Unlimited() || !cfg.Drone.Manual {
		t.Errorf("drone = %+v", cfg.Drone)
	}
	if cfg.MaxRounds != 3 || cfg.SquadSize != 3 || cfg.Seed != 99 {
		t.Errorf("match mapping = %+v", cfg)
	}
	if cfg.Limits.MaxProjectiles != 20 {
		t.Errorf("limits = %+v", cfg.Limits)
	}
}

func TestServerFromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("SNAPSHOT_HZ", "10")
	t.Setenv("EVENT_LOG_PATH", "/tmp/arena-events.jsonl")
	cfg := ServerFromEnv()
	if cfg.Port != 8081 || cfg.SnapshotHz != 10 {
		t.Errorf("server = %+v", cfg)
	}
	if cfg.EventLogPath != "/tmp/arena-events.jsonl" {
		t.Errorf("eventLogPath = %q", cfg.EventLogPath)
	}

	t.Setenv("ALLOWED_ORIGINS", "https://arena.example.com, https://other.example.com")
	cfg = ServerFromEnv()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://arena.example.com" {
		t.Errorf("corsOrigins = %v", cfg.CORSOrigins)
	}
}
