package api

import (
	"encoding/json"
	"net/http"

	"acorn-arena/internal/game"
	"acorn-arena/internal/protocol"
)

// Handler methods for routerHandlers.
// These are used by both the standalone router (for testing) and the full Server.

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	// Lock-free snapshot; never touches the engine mutex.
	snap := h.engine.Snapshot()
	writeJSON(w, protocol.SnapshotFrom(snap))
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	writeJSON(w, map[string]interface{}{
		"tick":        snap.Tick,
		"phase":       snap.Phase,
		"round":       snap.Round,
		"aliveA":      snap.TeamA.AliveCount,
		"aliveB":      snap.TeamB.AliveCount,
		"projectiles": len(snap.Projectiles),
		"eventLog":    h.engine.EventLogStats(),
	})
}

func (h *routerHandlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m := h.engine.Match()
	writeJSON(w, map[string]interface{}{
		"round":       m.Round,
		"maxRounds":   m.MaxRounds,
		"winsToClaim": m.WinsToClaim,
		"winsA":       m.WinsA,
		"winsB":       m.WinsB,
		"phase":       m.Phase.String(),
		"roundTime":   m.RoundTime,
		"champion":    m.Champion.String(),
		"casualties": map[string]int{
			"roundA": m.RoundCasualties.TeamA,
			"roundB": m.RoundCasualties.TeamB,
			"totalA": m.TotalCasualties.TeamA,
			"totalB": m.TotalCasualties.TeamB,
		},
	})
}

func (h *routerHandlers) handleMatchReset(w http.ResponseWriter, r *http.Request) {
	h.engine.Reset()
	RecordMatchReset()
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleControl(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Mode != "auto" && req.Mode != "player" {
		writeError(w, "Mode must be auto or player", http.StatusBadRequest)
		return
	}

	h.engine.SetControlMode(game.ParseControlMode(req.Mode))
	writeJSON(w, map[string]string{"mode": h.engine.ControlMode().String()})
}

func (h *routerHandlers) handleInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key     string `json:"key"`
		Pressed bool   `json:"pressed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	key, ok := game.ParseKey(req.Key)
	if !ok {
		writeError(w, "Unknown key", http.StatusBadRequest)
		return
	}

	if req.Pressed {
		h.engine.PressKey(key)
	} else {
		h.engine.ReleaseKey(key)
	}
	writeJSON(w, map[string]bool{"success": true})
}

func (h *routerHandlers) handleDeploy(w http.ResponseWriter, r *http.Request) {
	h.engine.PressKey(game.KeyDeploy)
	writeJSON(w, map[string]bool{"success": true})
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
