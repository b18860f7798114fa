package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"acorn-arena/internal/game"
)

// mockEngine implements EngineInterface for handler tests without running
// the simulation loop.
type mockEngine struct {
	mu       sync.Mutex
	snap     game.ArenaSnapshot
	match    game.MatchState
	cfg      game.Config
	resets   int
	pressed  []game.Key
	released []game.Key
	mode     game.ControlMode
}

func newMockEngine() *mockEngine {
	return &mockEngine{
		snap: game.ArenaSnapshot{
			Sequence: 1,
			Tick:     100,
			Phase:    "running",
			Round:    1,
			Fighters: []game.FighterSnapshot{
				{ID: "commander-A-1", Team: "A", Role: "commander", HP: 100, MaxHP: 100, Alive: true},
			},
		},
		match: game.MatchState{Round: 1, MaxRounds: 5, WinsToClaim: 3, Phase: game.PhaseRunning},
		cfg:   game.Config{TickRate: 60, ArenaWidth: 1020, ArenaHeight: 600, PlayerTeam: game.TeamA},
	}
}

func (m *mockEngine) Snapshot() *game.ArenaSnapshot { return &m.snap }
func (m *mockEngine) Match() game.MatchState        { return m.match }
func (m *mockEngine) Config() game.Config           { return m.cfg }

func (m *mockEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
}

func (m *mockEngine) PressKey(k game.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pressed = append(m.pressed, k)
}

func (m *mockEngine) ReleaseKey(k game.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, k)
}

func (m *mockEngine) SetControlMode(mode game.ControlMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
}

func (m *mockEngine) ControlMode() game.ControlMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *mockEngine) EventLogStats() map[string]interface{} {
	return map[string]interface{}{"total": uint64(0)}
}

func newTestServer(t *testing.T, engine EngineInterface) *httptest.Server {
	t.Helper()
	router := NewRouter(RouterConfig{
		Engine:         engine,
		DisableLogging: true,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestGetState(t *testing.T) {
	ts := newTestServer(t, newMockEngine())

	resp, err := http.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var snap struct {
		Tick     uint64 `json:"tick"`
		Phase    string `json:"phase"`
		Fighters []struct {
			ID string `json:"id"`
		} `json:"fighters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Tick != 100 || snap.Phase != "running" {
		t.Errorf("snapshot = %+v", snap)
	}
	if len(snap.Fighters) != 1 || snap.Fighters[0].ID != "commander-A-1" {
		t.Errorf("fighters = %+v", snap.Fighters)
	}
}

func TestGetMatch(t *testing.T) {
	ts := newTestServer(t, newMockEngine())

	resp, err := http.Get(ts.URL + "/api/match")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["winsToClaim"].(float64) != 3 {
		t.Errorf("winsToClaim = %v", body["winsToClaim"])
	}
	if body["phase"].(string) != "running" {
		t.Errorf("phase = %v", body["phase"])
	}
}

func TestPostInput(t *testing.T) {
	engine := newMockEngine()
	ts := newTestServer(t, engine)

	resp := postJSON(t, ts.URL+"/api/input", map[string]interface{}{"key": "fire", "pressed": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(engine.pressed) != 1 || engine.pressed[0] != game.KeyFire {
		t.Errorf("pressed = %v", engine.pressed)
	}

	resp = postJSON(t, ts.URL+"/api/input", map[string]interface{}{"key": "fire", "pressed": false})
	resp.Body.Close()
	if len(engine.released) != 1 || engine.released[0] != game.KeyFire {
		t.Errorf("released = %v", engine.released)
	}

	resp = postJSON(t, ts.URL+"/api/input", map[string]interface{}{"key": "teleport", "pressed": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown key status = %d, want 400", resp.StatusCode)
	}
}

func TestPostControl(t *testing.T) {
	engine := newMockEngine()
	ts := newTestServer(t, engine)

	resp := postJSON(t, ts.URL+"/api/control", map[string]string{"mode": "player"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if engine.ControlMode() != game.ControlPlayer {
		t.Errorf("mode = %v, want player", engine.ControlMode())
	}

	resp = postJSON(t, ts.URL+"/api/control", map[string]string{"mode": "spectate"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad mode status = %d, want 400", resp.StatusCode)
	}
}

func TestPostDeploy(t *testing.T) {
	engine := newMockEngine()
	ts := newTestServer(t, engine)

	resp := postJSON(t, ts.URL+"/api/deploy", map[string]string{})
	resp.Body.Close()
	if len(engine.pressed) != 1 || engine.pressed[0] != game.KeyDeploy {
		t.Errorf("pressed = %v, want deploy", engine.pressed)
	}
}

func TestPostMatchReset(t *testing.T) {
	engine := newMockEngine()
	ts := newTestServer(t, engine)

	resp := postJSON(t, ts.URL+"/api/match/reset", map[string]string{})
	resp.Body.Close()
	if engine.resets != 1 {
		t.Errorf("resets = %d, want 1", engine.resets)
	}
}

func TestRateLimiting(t *testing.T) {
	router := NewRouter(RouterConfig{
		Engine:         newMockEngine(),
		DisableLogging: true,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             2,
		},
	})
	ts := httptest.NewServer(router)
	defer ts.Close()

	limited := false
	for i := 0; i < 10; i++ {
		resp, err := http.Get(ts.URL + "/healthz")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("burst of requests was never rate limited")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, newMockEngine())
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
