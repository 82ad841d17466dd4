// Package events provides the append-only traffic log for the cipher
// service. Every message enciphered, reset and reconfiguration lands here,
// so operator activity can be replayed or streamed to observers.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of a traffic event.
type EventType string

const (
	EventTypeSessionOpened     EventType = "SESSION_OPENED"
	EventTypeSessionClosed     EventType = "SESSION_CLOSED"
	EventTypeMessageEnciphered EventType = "MESSAGE_ENCIPHERED"
	EventTypePositionsReset    EventType = "POSITIONS_RESET"
	EventTypeConfigApplied     EventType = "CONFIG_APPLIED"
)

// MessagePayload records one enciphered message together with the machine
// state it was produced under.
type MessagePayload struct {
	Input            string `json:"input"`
	Output           string `json:"output"`
	RingSettings     string `json:"ring_settings"`
	InitialPositions string `json:"initial_positions"`
	FinalPositions   string `json:"final_positions"`
	PlugboardPairs   string `json:"plugboard_pairs"`
}

// TrafficEvent is an immutable record of one action against a machine.
type TrafficEvent struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Payload   interface{} `json:"payload"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event TrafficEvent) error
}

// EventLog is the in-memory append-only log, optionally written through to
// persistent storage.
type EventLog struct {
	mu        sync.RWMutex
	events    []TrafficEvent
	persister EventPersister
}

// NewEventLog creates an event log with an optional persister.
func NewEventLog(persister EventPersister) *EventLog {
	return &EventLog{
		events:    make([]TrafficEvent, 0),
		persister: persister,
	}
}

// Append adds an event to the log. Events are immutable once appended; the
// persister write happens off the caller's path.
func (el *EventLog) Append(event TrafficEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	el.mu.Unlock()

	if el.persister != nil {
		go func(e TrafficEvent) {
			_ = el.persister.Append(e)
		}(event)
	}
}

// GetBySession returns all events recorded for one operator session.
func (el *EventLog) GetBySession(sessionID string) []TrafficEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []TrafficEvent
	for _, e := range el.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns the full event history, for pollers that stream the log to
// connected observers.
func (el *EventLog) Replay() []TrafficEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return el.events
}

// Len returns the number of recorded events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
