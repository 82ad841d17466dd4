package network

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/putra-as-kyuutora/enigma-server/internal/events"
	"github.com/putra-as-kyuutora/enigma-server/internal/infra/storage"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/logger"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/optimization"
)

// Hub maintains the set of active operator sessions and broadcasts traffic
// events to them. Each session owns its own cipher machine; the hub never
// shares one machine across connections.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex

	logger    *logger.Logger
	eventLog  *events.EventLog
	messages  storage.MessageRepository
	snapshots storage.SnapshotRepository
	tuning    *optimization.Config
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger, eventLog *events.EventLog,
	messages storage.MessageRepository, snapshots storage.SnapshotRepository,
	tuning *optimization.Config) *Hub {

	if tuning == nil {
		tuning = optimization.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
		eventLog:   eventLog,
		messages:   messages,
		snapshots:  snapshots,
		tuning:     tuning,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Operator session connected: " + client.sessionID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("Operator session disconnected: " + client.sessionID)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes a traffic event and sends it to all connected
// sessions, so every operator sees the net's activity feed.
func (h *Hub) BroadcastEvent(event events.TrafficEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to serialize TrafficEvent for WebSocket broadcast: " + err.Error())
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine to poll the EventLog and push new
// events to the Hub. The Hub picks up traffic independently of whichever
// session produced it.
func (h *Hub) StartEventPoller(ctx context.Context) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessedEvent := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := h.eventLog.Replay()
				newEventsCount := len(allEvents) - lastProcessedEvent

				if newEventsCount > 0 {
					newEvents := allEvents[lastProcessedEvent:]
					for _, event := range newEvents {
						h.BroadcastEvent(event)
					}
					lastProcessedEvent = len(allEvents)
				}
			}
		}
	}()
}

// Upgrader is the websocket upgrader shared by serveWs handlers.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Operators connect from arbitrary origins
	},
}
