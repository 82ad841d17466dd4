// Package network - replay.go
// JSON export of the traffic event log, so moderators can audit what each
// session did and when.
package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/putra-as-kyuutora/enigma-server/internal/events"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/logger"
)

// TrafficReplayHandler provides the traffic replay API.
type TrafficReplayHandler struct {
	eventLog *events.EventLog
	logger   *logger.Logger
}

// NewTrafficReplayHandler creates a new traffic replay handler.
func NewTrafficReplayHandler(el *events.EventLog, log *logger.Logger) *TrafficReplayHandler {
	return &TrafficReplayHandler{
		eventLog: el,
		logger:   log,
	}
}

// ReplayResponse is the API response for traffic replay.
type ReplayResponse struct {
	TotalEvents int                   `json:"total_events"`
	FilteredBy  string                `json:"filtered_by,omitempty"`
	GeneratedAt string                `json:"generated_at"`
	Events      []events.TrafficEvent `json:"events"`
}

// HandleReplay returns the recorded traffic, optionally filtered.
// GET /api/traffic/replay?session=XXX&type=MESSAGE_ENCIPHERED
func (th *TrafficReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		th.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	eventType := r.URL.Query().Get("type")

	all := th.eventLog.Replay()
	filtered := make([]events.TrafficEvent, 0, len(all))
	for _, e := range all {
		if sessionID != "" && e.SessionID != sessionID {
			continue
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		filtered = append(filtered, e)
	}

	filterDesc := ""
	if sessionID != "" {
		filterDesc = "session=" + sessionID
	}
	if eventType != "" {
		if filterDesc != "" {
			filterDesc += ","
		}
		filterDesc += "type=" + eventType
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReplayResponse{
		TotalEvents: len(filtered),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      filtered,
	})
}

func (th *TrafficReplayHandler) jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
