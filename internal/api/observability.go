package api

import (
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"acorn-arena/internal/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics with bounded cardinality (no per-fighter labels to prevent DoS)
var (
	// Simulation metrics
	stepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_step_duration_seconds",
		Help:    "Time spent in one simulation step",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	fightersAlive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arena_fighters_alive",
		Help: "Living fighters per team",
	}, []string{"team"}) // Bounded: "A", "B"

	projectilesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_projectiles_active",
		Help: "Projectiles currently in flight",
	})

	roundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_rounds_total",
		Help: "Rounds concluded, labeled by winner",
	}, []string{"winner"}) // Bounded: "A", "B", "draw"

	matchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_matches_total",
		Help: "Matches concluded",
	})

	matchResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arena_match_resets_total",
		Help: "Manual match resets",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"

	// WebSocket metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_messages_total",
		Help: "Total WebSocket frames broadcast",
	})
)

// ObservabilityConfig configures the debug server
type ObservabilityConfig struct {
	Enabled       bool
	ListenAddr    string // MUST be "127.0.0.1:6060" in production
	BasicAuthUser string // Optional basic auth
	BasicAuthPass string
}

// DefaultObservabilityConfig returns safe defaults
func DefaultObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		Enabled:    true,
		ListenAddr: "127.0.0.1:6060", // Localhost only - NEVER expose externally
	}
}

// StartDebugServer starts the internal observability server
// CRITICAL: This MUST bind to localhost only to prevent pprof-based DoS
func StartDebugServer(cfg ObservabilityConfig) error {
	if !cfg.Enabled {
		log.Println("debug server disabled")
		return nil
	}

	// SECURITY: Validate address is localhost
	if cfg.ListenAddr != "127.0.0.1:6060" && cfg.ListenAddr != "localhost:6060" {
		// Only allow external binding if explicitly enabled via env
		if os.Getenv("ALLOW_DEBUG_EXTERNAL") != "true" {
			log.Println("debug server forced to localhost for security")
			cfg.ListenAddr = "127.0.0.1:6060"
		}
	}

	mux := http.NewServeMux()

	// pprof endpoints for profiling
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Optional basic auth wrapper
	var handler http.Handler = mux
	if cfg.BasicAuthUser != "" {
		handler = basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass, mux)
	}

	go func() {
		log.Printf("debug server starting on %s", cfg.ListenAddr)
		if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
			log.Printf("debug server error: %v", err)
		}
	}()

	return nil
}

// basicAuthMiddleware adds basic authentication to the handler
func basicAuthMiddleware(user, pass string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="debug"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RecordStep records simulation step timing. Wired as the engine's step hook.
func RecordStep(duration time.Duration) {
	stepDuration.Observe(duration.Seconds())
}

// UpdateArenaGauges refreshes the per-snapshot gauges. Called from the
// broadcast loop, not the simulation, so gauge updates never slow a step.
func UpdateArenaGauges(snap *game.ArenaSnapshot) {
	fightersAlive.WithLabelValues("A").Set(float64(snap.TeamA.AliveCount))
	fightersAlive.WithLabelValues("B").Set(float64(snap.TeamB.AliveCount))
	projectilesActive.Set(float64(len(snap.Projectiles)))
}

// RecordMatchEvent counts a concluded round (and match, when it is over).
func RecordMatchEvent(ev game.MatchEvent) {
	roundsTotal.WithLabelValues(ev.WinnerLabel).Inc()
	if ev.MatchOver {
		matchesTotal.Inc()
	}
}

// RecordMatchReset counts a manual match reset.
func RecordMatchReset() {
	matchResets.Inc()
}

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "origin", "ws_total_limit", "ws_ip_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// UpdateWSConnections updates WebSocket connection count
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// IncrementWSMessages increments WebSocket message counter
func IncrementWSMessages() {
	wsMessagesTotal.Inc()
}
