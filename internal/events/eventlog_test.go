package events

import (
	"sync"
	"testing"
	"time"
)

func newEvent(eventType EventType, sessionID string) TrafficEvent {
	return TrafficEvent{
		ID:        GenerateEventID(),
		Timestamp: time.Now(),
		Type:      eventType,
		SessionID: sessionID,
	}
}

func TestAppendAndReplayPreservesOrder(t *testing.T) {
	log := NewEventLog(nil)

	log.Append(newEvent(EventTypeSessionOpened, "op-1"))
	log.Append(newEvent(EventTypeMessageEnciphered, "op-1"))
	log.Append(newEvent(EventTypeSessionClosed, "op-1"))

	events := log.Replay()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].Type != EventTypeSessionOpened || events[2].Type != EventTypeSessionClosed {
		t.Errorf("Replay must preserve append order")
	}
}

func TestGetBySessionFilters(t *testing.T) {
	log := NewEventLog(nil)

	log.Append(newEvent(EventTypeMessageEnciphered, "op-1"))
	log.Append(newEvent(EventTypeMessageEnciphered, "op-2"))
	log.Append(newEvent(EventTypePositionsReset, "op-1"))

	got := log.GetBySession("op-1")
	if len(got) != 2 {
		t.Fatalf("Expected 2 events for op-1, got %d", len(got))
	}
	for _, e := range got {
		if e.SessionID != "op-1" {
			t.Errorf("Expected only op-1 events, got session %s", e.SessionID)
		}
	}
}

func TestLenTracksAppends(t *testing.T) {
	log := NewEventLog(nil)
	if log.Len() != 0 {
		t.Errorf("Expected empty log, got %d", log.Len())
	}

	for i := 0; i < 5; i++ {
		log.Append(newEvent(EventTypeConfigApplied, "op-1"))
	}
	if log.Len() != 5 {
		t.Errorf("Expected 5 events, got %d", log.Len())
	}
}

func TestGenerateEventIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("Duplicate event ID generated: %s", id)
		}
		seen[id] = true
	}
}

type capturingPersister struct {
	mu     sync.Mutex
	events []TrafficEvent
	done   chan struct{}
}

func (p *capturingPersister) Append(event TrafficEvent) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}

func TestAppendWritesThroughToPersister(t *testing.T) {
	persister := &capturingPersister{done: make(chan struct{}, 1)}
	log := NewEventLog(persister)

	event := newEvent(EventTypeMessageEnciphered, "op-1")
	log.Append(event)

	select {
	case <-persister.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Persister was never called")
	}

	persister.mu.Lock()
	defer persister.mu.Unlock()
	if len(persister.events) != 1 || persister.events[0].ID != event.ID {
		t.Errorf("Expected the appended event persisted, got %+v", persister.events)
	}
}

func TestConcurrentAppends(t *testing.T) {
	log := NewEventLog(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Append(newEvent(EventTypeMessageEnciphered, "op-1"))
			}
		}()
	}
	wg.Wait()

	if log.Len() != 1000 {
		t.Errorf("Expected 1000 events after concurrent appends, got %d", log.Len())
	}
}
