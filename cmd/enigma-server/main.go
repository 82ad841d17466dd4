// Package main is the entry point for the Enigma traffic server.
// It only handles dependency injection and server initialization.
// NO cipher logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/putra-as-kyuutora/enigma-server/internal/events"
	"github.com/putra-as-kyuutora/enigma-server/internal/infra/storage"
	"github.com/putra-as-kyuutora/enigma-server/internal/network"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/logger"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/metrics"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/optimization"
)

// SQLitePersisterAdapter translates in-memory traffic events to storage events.
type SQLitePersisterAdapter struct {
	repo *storage.SQLiteEventRepository
}

func (a *SQLitePersisterAdapter) Append(event events.TrafficEvent) error {
	payloadBytes, _ := json.Marshal(event.Payload)
	var payloadMap map[string]interface{}
	json.Unmarshal(payloadBytes, &payloadMap)

	storageEvent := storage.TrafficEvent{
		ID:        event.ID,
		SessionID: event.SessionID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		Payload:   payloadMap,
	}
	return a.repo.Append(context.Background(), storageEvent)
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "enigma.db", "SQLite database path")
	lowResource := flag.Bool("low-resource", false, "Use minimal resource settings")
	flag.Parse()

	log.Println("[ENIGMA-SERVER] Initializing Enigma traffic server...")

	appLogger := logger.NewLogger()

	tuning := optimization.DefaultConfig()
	if *lowResource {
		tuning = optimization.LowResourceConfig()
	}

	appLogger.Info("Initializing SQLite database '" + *dbPath + "'...")
	db, err := storage.InitSQLite(*dbPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	db.SetMaxOpenConns(tuning.DBMaxOpenConns)
	db.SetMaxIdleConns(tuning.DBMaxIdleConns)

	messageRepo := storage.NewSQLiteMessageRepository(db)
	snapshotRepo := storage.NewSQLiteSnapshotRepository(db)
	eventRepo := storage.NewSQLiteEventRepository(db)
	eventPersister := &SQLitePersisterAdapter{repo: eventRepo}

	appLogger.Info("Bootstrapping traffic EventLog...")
	eventLog := events.NewEventLog(eventPersister)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger, eventLog, messageRepo, snapshotRepo, tuning)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx)

	api := network.NewAPIBridge(eventLog, messageRepo, appLogger)
	replay := network.NewTrafficReplayHandler(eventLog, appLogger)

	// Setup API Routes
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, w, r, appLogger)
	})
	http.HandleFunc("/api/encipher", api.HandleEncipher)
	http.HandleFunc("/api/messages", api.HandleMessages)
	http.HandleFunc("/api/messages/export", api.HandleExport)
	http.HandleFunc("/api/config/default", api.HandleDefaultConfig)
	http.HandleFunc("/api/traffic/replay", replay.HandleReplay)
	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())

	go func() {
		log.Println("[ENIGMA-SERVER] HTTP API & WS Server listening on " + *addr)
		if err := http.ListenAndServe(*addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[ENIGMA-SERVER] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[ENIGMA-SERVER] Shutting down...")
}

// serveWs handles websocket requests from operator terminals. A "session"
// query parameter resumes a previous session's machine state.
func serveWs(hub *network.Hub, w http.ResponseWriter, r *http.Request, log *logger.Logger) {
	conn, err := network.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection")
		return
	}

	client := network.NewClient(hub, conn, r.URL.Query().Get("session"))
	client.Register()

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.WritePump()
	go client.ReadPump()
}
