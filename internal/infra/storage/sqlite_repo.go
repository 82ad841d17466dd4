package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteMessageRepository implements MessageRepository for SQLite.
type SQLiteMessageRepository struct {
	db *sql.DB
}

func NewSQLiteMessageRepository(db *sql.DB) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{db: db}
}

func (r *SQLiteMessageRepository) Append(ctx context.Context, msg Message) error {
	query := `
		INSERT INTO messages (id, session_id, timestamp, input, output, ring_settings, initial_positions, plugboard_pairs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		msg.ID, msg.SessionID, msg.Timestamp, msg.Input, msg.Output,
		msg.RingSettings, msg.InitialPositions, msg.PlugboardPairs,
	)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (r *SQLiteMessageRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		err := rows.Scan(
			&m.ID, &m.SessionID, &m.Timestamp, &m.Input, &m.Output,
			&m.RingSettings, &m.InitialPositions, &m.PlugboardPairs,
		)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *SQLiteMessageRepository) GetBySession(ctx context.Context, sessionID string) ([]Message, error) {
	query := `SELECT id, session_id, timestamp, input, output, ring_settings, initial_positions, plugboard_pairs FROM messages WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteMessageRepository) GetRecent(ctx context.Context, limit int) ([]Message, error) {
	query := `SELECT id, session_id, timestamp, input, output, ring_settings, initial_positions, plugboard_pairs FROM messages ORDER BY timestamp DESC LIMIT ?`
	return r.getMany(ctx, query, limit)
}

// ---------------------------------------------------------
// SQLiteEventRepository
// ---------------------------------------------------------

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event TrafficEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, session_id, timestamp, event_type, payload)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.SessionID, event.Timestamp, event.EventType, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]TrafficEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TrafficEvent
	for rows.Next() {
		var e TrafficEvent
		var payloadStr string
		err := rows.Scan(&e.ID, &e.SessionID, &e.Timestamp, &e.EventType, &payloadStr)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetBySession(ctx context.Context, sessionID string) ([]TrafficEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, payload FROM events WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, eventType string) ([]TrafficEvent, error) {
	query := `SELECT id, session_id, timestamp, event_type, payload FROM events WHERE event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, eventType)
}

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

// SQLiteSnapshotRepository implements SnapshotRepository for SQLite.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) Upsert(ctx context.Context, snapshot SessionSnapshot) error {
	query := `
		INSERT INTO session_snapshots (session_id, rotor_positions, settings_json, last_updated)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			rotor_positions=excluded.rotor_positions,
			settings_json=excluded.settings_json,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.SessionID, snapshot.RotorPositions, snapshot.SettingsJSON, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetBySessionID(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	query := `SELECT session_id, rotor_positions, settings_json, last_updated FROM session_snapshots WHERE session_id = ?`
	var s SessionSnapshot
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&s.SessionID, &s.RotorPositions, &s.SettingsJSON, &s.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
