package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"acorn-arena/internal/api"
	"acorn-arena/internal/config"
	"acorn-arena/internal/game"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file, fall back to the environment alone
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server

	log.Printf("arena: %.0fx%.0f at %d TPS, squads of %d, best of %d rounds",
		appConfig.Arena.Width, appConfig.Arena.Height, appConfig.Arena.TickRate,
		appConfig.Match.SquadSize, appConfig.Match.MaxRounds)
	if appConfig.Drone.Enabled {
		mode := "auto"
		if appConfig.Drone.Manual {
			mode = "manual"
		}
		count := strconv.Itoa(appConfig.Drone.Max)
		if appConfig.Drone.Max < 0 {
			count = "unlimited"
		}
		log.Printf("drones: team %s, %s per round, %s deploy", appConfig.Drone.Team, count, mode)
	}

	// Create the simulation engine
	engine := game.NewEngine(appConfig.EngineConfig())

	// Start event log
	if serverCfg.EventLogPath != "" {
		if err := engine.StartEventLog(serverCfg.EventLogPath); err != nil {
			log.Printf("event log disabled: %v", err)
		} else {
			log.Printf("event log: %s", serverCfg.EventLogPath)
		}
	}

	// Start debug server (pprof + metrics, localhost only)
	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.Enabled = serverCfg.DebugEnabled
	debugCfg.ListenAddr = serverCfg.DebugAddr
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("debug server disabled: %v", err)
	}

	// Extra origins apply to both CORS and the websocket origin check
	if len(serverCfg.CORSOrigins) > 0 {
		api.AllowedOrigins = append(api.AllowedOrigins, serverCfg.CORSOrigins...)
		log.Printf("extra allowed origins: %v", serverCfg.CORSOrigins)
	}

	// Step timing feeds the metrics histogram
	engine.SetStepHook(api.RecordStep)

	server := api.NewServer(engine, serverCfg.SnapshotHz)

	engine.Start()
	log.Println("engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down")
	server.Stop()
	engine.Stop()
	engine.StopEventLog()
}
