// Package storage provides the persistence layer for the cipher service.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// Message is the persisted record of one enciphered message: timestamp, raw
// input, output, and the machine settings it was produced under. This is the
// same record the original simulator wrote to disk on "Save Message".
type Message struct {
	ID               string    `json:"id" db:"id"`
	SessionID        string    `json:"session_id" db:"session_id"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	Input            string    `json:"input" db:"input"`
	Output           string    `json:"output" db:"output"`
	RingSettings     string    `json:"ring_settings" db:"ring_settings"`
	InitialPositions string    `json:"initial_positions" db:"initial_positions"`
	PlugboardPairs   string    `json:"plugboard_pairs" db:"plugboard_pairs"`
}

// MessageRepository defines the interface for message persistence.
type MessageRepository interface {
	// Append adds a message record to the ledger.
	Append(ctx context.Context, msg Message) error

	// GetBySession retrieves all messages enciphered in one session.
	GetBySession(ctx context.Context, sessionID string) ([]Message, error)

	// GetRecent retrieves the most recent messages across all sessions.
	GetRecent(ctx context.Context, limit int) ([]Message, error)
}

// TrafficEvent mirrors the in-memory traffic event for persistence.
// The events package should NOT import this; the adapter in cmd translates.
type TrafficEvent struct {
	ID        string                 `json:"id" db:"id"`
	SessionID string                 `json:"session_id" db:"session_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for traffic event persistence.
type EventRepository interface {
	// Append adds an event to the immutable ledger.
	Append(ctx context.Context, event TrafficEvent) error

	// GetBySession retrieves all events for one session, oldest first.
	GetBySession(ctx context.Context, sessionID string) ([]TrafficEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, eventType string) ([]TrafficEvent, error)
}

// SessionSnapshot captures an operator session's machine state so a
// reconnecting operator resumes with the rotors where they left them.
type SessionSnapshot struct {
	SessionID      string    `json:"session_id" db:"session_id"`
	RotorPositions string    `json:"rotor_positions" db:"rotor_positions"`
	SettingsJSON   string    `json:"settings_json" db:"settings_json"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for session state snapshots.
type SnapshotRepository interface {
	// Upsert updates or inserts a session snapshot.
	Upsert(ctx context.Context, snapshot SessionSnapshot) error

	// GetBySessionID retrieves a specific session's snapshot.
	GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error)
}
