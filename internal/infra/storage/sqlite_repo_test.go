package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "enigma_test.db"))
	if err != nil {
		t.Fatalf("Failed to init test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMessage(id, sessionID string) Message {
	return Message{
		ID:               id,
		SessionID:        sessionID,
		Timestamp:        time.Now(),
		Input:            "ATTACK AT DAWN",
		Output:           "BQFLM GU RLPW",
		RingSettings:     "A A A",
		InitialPositions: "C F T",
		PlugboardPairs:   "AT BS",
	}
}

func TestMessageAppendAndGetBySession(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepository(db)
	ctx := context.Background()

	if err := repo.Append(ctx, sampleMessage("msg-1", "op-1")); err != nil {
		t.Fatalf("Failed to append message: %v", err)
	}
	if err := repo.Append(ctx, sampleMessage("msg-2", "op-2")); err != nil {
		t.Fatalf("Failed to append message: %v", err)
	}

	msgs, err := repo.GetBySession(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get messages: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message for op-1, got %d", len(msgs))
	}

	got := msgs[0]
	if got.ID != "msg-1" || got.Input != "ATTACK AT DAWN" || got.Output != "BQFLM GU RLPW" {
		t.Errorf("Message round trip lost data: %+v", got)
	}
	if got.InitialPositions != "C F T" || got.PlugboardPairs != "AT BS" {
		t.Errorf("Machine settings not preserved: %+v", got)
	}
}

func TestMessageGetRecentHonorsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepository(db)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		msg := sampleMessage("msg-"+string(rune('a'+i)), "op-1")
		msg.Timestamp = base.Add(time.Duration(i) * time.Second)
		if err := repo.Append(ctx, msg); err != nil {
			t.Fatalf("Failed to append message: %v", err)
		}
	}

	msgs, err := repo.GetRecent(ctx, 3)
	if err != nil {
		t.Fatalf("Failed to get recent messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "msg-e" {
		t.Errorf("Expected newest message first, got %s", msgs[0].ID)
	}
}

func TestEventAppendAndFilterByType(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteEventRepository(db)
	ctx := context.Background()

	enciphered := TrafficEvent{
		ID:        "evt-1",
		SessionID: "op-1",
		Timestamp: time.Now(),
		EventType: "MESSAGE_ENCIPHERED",
		Payload:   map[string]interface{}{"input": "AAAAA", "output": "BDZGO"},
	}
	reset := TrafficEvent{
		ID:        "evt-2",
		SessionID: "op-1",
		Timestamp: time.Now(),
		EventType: "POSITIONS_RESET",
		Payload:   map[string]interface{}{"positions": "A A A"},
	}

	if err := repo.Append(ctx, enciphered); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}
	if err := repo.Append(ctx, reset); err != nil {
		t.Fatalf("Failed to append event: %v", err)
	}

	events, err := repo.GetByEventType(ctx, "MESSAGE_ENCIPHERED")
	if err != nil {
		t.Fatalf("Failed to filter events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 MESSAGE_ENCIPHERED event, got %d", len(events))
	}
	if events[0].Payload["output"] != "BDZGO" {
		t.Errorf("Payload JSON round trip lost data: %+v", events[0].Payload)
	}

	bySession, err := repo.GetBySession(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get session events: %v", err)
	}
	if len(bySession) != 2 {
		t.Errorf("Expected 2 events for op-1, got %d", len(bySession))
	}
}

func TestSnapshotUpsertOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteSnapshotRepository(db)
	ctx := context.Background()

	first := SessionSnapshot{
		SessionID:      "op-1",
		RotorPositions: "A A B",
		SettingsJSON:   `{"ring_settings":"A A A"}`,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("Failed to upsert snapshot: %v", err)
	}

	second := first
	second.RotorPositions = "A A F"
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("Failed to upsert snapshot: %v", err)
	}

	got, err := repo.GetBySessionID(ctx, "op-1")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if got == nil {
		t.Fatalf("Expected a snapshot, got nil")
	}
	if got.RotorPositions != "A A F" {
		t.Errorf("Expected upsert to overwrite positions, got %q", got.RotorPositions)
	}
}

func TestSnapshotMissingSessionReturnsNil(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteSnapshotRepository(db)

	got, err := repo.GetBySessionID(context.Background(), "never-seen")
	if err != nil {
		t.Fatalf("Missing snapshot should not be an error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil snapshot for unknown session, got %+v", got)
	}
}

func TestWriteMessageRecordFormat(t *testing.T) {
	msg := sampleMessage("msg-1", "op-1")
	msg.Timestamp = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	var buf strings.Builder
	if err := WriteMessageRecord(&buf, msg); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"=== ENIGMA ENCRYPTED MESSAGE ===",
		"Date: 2026-03-14T09:30:00",
		"Input: ATTACK AT DAWN",
		"Output: BQFLM GU RLPW",
		"Ring Settings: A A A",
		"Initial Positions: C F T",
		"Plugboard Pairs: AT BS",
		"=== END MESSAGE ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Record missing line %q:\n%s", want, out)
		}
	}
}
