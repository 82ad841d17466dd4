// Package network - api.go
// REST bridge for one-shot enciphering and message history, for callers
// that do not hold a WebSocket session open.
package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/putra-as-kyuutora/enigma-server/internal/config"
	"github.com/putra-as-kyuutora/enigma-server/internal/events"
	"github.com/putra-as-kyuutora/enigma-server/internal/infra/storage"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/logger"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/metrics"
)

// APIBridge handles stateless HTTP interactions with the cipher service.
type APIBridge struct {
	eventLog *events.EventLog
	messages storage.MessageRepository
	logger   *logger.Logger
}

// NewAPIBridge creates a new HTTP API handler set.
func NewAPIBridge(el *events.EventLog, messages storage.MessageRepository, log *logger.Logger) *APIBridge {
	return &APIBridge{
		eventLog: el,
		messages: messages,
		logger:   log,
	}
}

// EncipherRequest is the payload for one-shot enciphering. Omitted settings
// fall back to the default machine.
type EncipherRequest struct {
	Text     string           `json:"text"`
	Settings *config.Settings `json:"settings,omitempty"`
}

// EncipherResponse carries the ciphertext and the machine's final rotor
// positions.
type EncipherResponse struct {
	Output    string `json:"output"`
	Positions string `json:"positions"`
	SessionID string `json:"session_id"`
}

// HandleEncipher is the endpoint for one-shot enciphering.
// POST /api/encipher
func (ab *APIBridge) HandleEncipher(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ab.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EncipherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ab.jsonError(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	settings := config.Default()
	if req.Settings != nil {
		settings = *req.Settings
	}

	m, err := settings.Build()
	if err != nil {
		// Configuration errors are the operator's to fix, not a server fault.
		ab.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := "api-" + uuid.NewString()
	initialPositions := m.Positions()

	start := time.Now()
	output := m.Encipher(req.Text)
	metrics.Get().RecordEncipher(countLetters(req.Text), time.Since(start))

	pairs := strings.Join(settings.PlugboardPairs, " ")
	if ab.messages != nil {
		msg := storage.Message{
			ID:               uuid.NewString(),
			SessionID:        sessionID,
			Timestamp:        time.Now(),
			Input:            req.Text,
			Output:           output,
			RingSettings:     settings.RingSettings,
			InitialPositions: initialPositions,
			PlugboardPairs:   pairs,
		}
		dbStart := time.Now()
		err := ab.messages.Append(r.Context(), msg)
		metrics.Get().RecordDBWrite(time.Since(dbStart), err)
		if err != nil {
			ab.logger.Error("Failed to persist API message record: " + err.Error())
		}
	}

	ab.eventLog.Append(events.TrafficEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeMessageEnciphered,
		SessionID: sessionID,
		Payload: events.MessagePayload{
			Input:            req.Text,
			Output:           output,
			RingSettings:     settings.RingSettings,
			InitialPositions: initialPositions,
			FinalPositions:   m.Positions(),
			PlugboardPairs:   pairs,
		},
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EncipherResponse{
		Output:    output,
		Positions: m.Positions(),
		SessionID: sessionID,
	})
}

// HandleMessages returns persisted message records.
// GET /api/messages?session=XXX&limit=N
func (ab *APIBridge) HandleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ab.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ab.messages == nil {
		ab.jsonError(w, "Persistence disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")

	var (
		msgs []storage.Message
		err  error
	)
	if sessionID != "" {
		msgs, err = ab.messages.GetBySession(r.Context(), sessionID)
	} else {
		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, perr := strconv.Atoi(l); perr == nil && parsed > 0 {
				limit = parsed
			}
		}
		msgs, err = ab.messages.GetRecent(r.Context(), limit)
	}
	if err != nil {
		ab.logger.Error("Failed to query messages: " + err.Error())
		ab.jsonError(w, "Query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"count":    len(msgs),
		"messages": msgs,
	})
}

// HandleExport streams message records in the plain-text save format.
// GET /api/messages/export?session=XXX
func (ab *APIBridge) HandleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ab.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ab.messages == nil {
		ab.jsonError(w, "Persistence disabled", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		ab.jsonError(w, "Missing session", http.StatusBadRequest)
		return
	}

	msgs, err := ab.messages.GetBySession(r.Context(), sessionID)
	if err != nil {
		ab.logger.Error("Failed to query messages for export: " + err.Error())
		ab.jsonError(w, "Query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, msg := range msgs {
		if err := storage.WriteMessageRecord(w, msg); err != nil {
			return
		}
	}
}

// HandleDefaultConfig returns the default machine settings.
// GET /api/config/default
func (ab *APIBridge) HandleDefaultConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ab.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(config.Default())
}

func (ab *APIBridge) jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
