package network

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/putra-as-kyuutora/enigma-server/internal/config"
	"github.com/putra-as-kyuutora/enigma-server/internal/domain/machine"
	"github.com/putra-as-kyuutora/enigma-server/internal/events"
	"github.com/putra-as-kyuutora/enigma-server/internal/infra/storage"
	"github.com/putra-as-kyuutora/enigma-server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 8192
)

// OperatorAction represents an incoming command from an operator terminal.
type OperatorAction struct {
	Type    string          `json:"type"` // "KEY", "TEXT", "RESET", "CONFIGURE", "POSITIONS"
	Payload json.RawMessage `json:"payload"`
}

// OperatorResponse is the reply sent back to the issuing session only.
type OperatorResponse struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Output    string `json:"output,omitempty"`
	Positions string `json:"positions,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Client represents one operator session: a websocket connection plus its
// own cipher machine. Machine state never crosses sessions.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string

	machine  *machine.Machine
	settings config.Settings

	// Key rate limiting window
	windowStart time.Time
	keysInWin   int
}

// NewClient creates a client for a fresh or resumed session. An empty
// sessionID starts a new session with the default machine; a known one
// restores the saved settings and rotor positions from its snapshot.
func NewClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	c := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, hub.tuning.ClientSendBuffer),
		sessionID: sessionID,
		settings:  config.Default(),
	}
	if c.sessionID == "" {
		c.sessionID = uuid.NewString()
	}
	c.machine, _ = c.settings.Build() // defaults always validate

	c.restoreSnapshot()
	return c
}

// restoreSnapshot resumes a reconnecting operator's machine state.
func (c *Client) restoreSnapshot() {
	if c.hub.snapshots == nil {
		return
	}
	snap, err := c.hub.snapshots.GetBySessionID(context.Background(), c.sessionID)
	if err != nil || snap == nil {
		return
	}

	var saved config.Settings
	if err := json.Unmarshal([]byte(snap.SettingsJSON), &saved); err == nil {
		if m, err := saved.Build(); err == nil {
			c.settings = saved
			c.machine = m
		}
	}
	c.machine.ResetPositions(snap.RotorPositions)
	c.hub.logger.Info("Restored machine state for session " + c.sessionID)
}

// Register adds the client to the hub and records the session opening.
func (c *Client) Register() {
	c.hub.register <- c
	metrics.Get().RecordWSConnection(1)
	c.hub.eventLog.Append(events.TrafficEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeSessionOpened,
		SessionID: c.sessionID,
	})
}

// ReadPump pumps messages from the websocket connection to the machine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.eventLog.Append(events.TrafficEvent{
			ID:        events.GenerateEventID(),
			Timestamp: time.Now(),
			Type:      events.EventTypeSessionClosed,
			SessionID: c.sessionID,
		})
		metrics.Get().RecordWSConnection(-1)
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action OperatorAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse OperatorAction from WebSocket. err: " + err.Error())
			continue
		}

		c.handleOperatorAction(action)
	}
}

func (c *Client) handleOperatorAction(action OperatorAction) {
	switch action.Type {
	case "KEY":
		c.handleKey(action.Payload)
	case "TEXT":
		c.handleText(action.Payload)
	case "RESET":
		c.handleReset(action.Payload)
	case "CONFIGURE":
		c.handleConfigure(action.Payload)
	case "POSITIONS":
		c.reply(OperatorResponse{Type: "POSITIONS", Positions: c.machine.Positions()})
	default:
		c.hub.logger.Warn("Unknown OperatorAction type: " + action.Type)
	}
}

// allowKey applies the per-session keystroke rate limit.
func (c *Client) allowKey() bool {
	now := time.Now()
	if now.Sub(c.windowStart) >= time.Second {
		c.windowStart = now
		c.keysInWin = 0
	}
	c.keysInWin++
	return c.keysInWin <= c.hub.tuning.MaxKeysPerSecond
}

func (c *Client) handleKey(rawPayload []byte) {
	var parsed struct {
		Char string `json:"char"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil || parsed.Char == "" {
		c.reply(OperatorResponse{Type: "KEY", Error: "payload must carry a single character"})
		return
	}
	if !c.allowKey() {
		c.hub.logger.Warn("Key rate limit exceeded for session " + c.sessionID)
		return
	}

	start := time.Now()
	output := c.machine.Encipher(parsed.Char[:1])
	metrics.Get().RecordEncipher(countLetters(parsed.Char[:1]), time.Since(start))

	c.saveSnapshot()
	c.reply(OperatorResponse{Type: "KEY", Output: output, Positions: c.machine.Positions()})
}

func (c *Client) handleText(rawPayload []byte) {
	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.reply(OperatorResponse{Type: "TEXT", Error: "invalid payload"})
		return
	}
	if len(parsed.Text) > c.hub.tuning.MaxMessageLength {
		c.reply(OperatorResponse{Type: "TEXT", Error: "message too long"})
		return
	}

	initialPositions := c.machine.Positions()
	start := time.Now()
	output := c.machine.Encipher(parsed.Text)
	metrics.Get().RecordEncipher(countLetters(parsed.Text), time.Since(start))

	pairs := strings.Join(c.settings.PlugboardPairs, " ")

	// Persist the message record (timestamp, input, output, settings).
	if c.hub.messages != nil {
		msg := storage.Message{
			ID:               uuid.NewString(),
			SessionID:        c.sessionID,
			Timestamp:        time.Now(),
			Input:            parsed.Text,
			Output:           output,
			RingSettings:     c.settings.RingSettings,
			InitialPositions: initialPositions,
			PlugboardPairs:   pairs,
		}
		dbStart := time.Now()
		err := c.hub.messages.Append(context.Background(), msg)
		metrics.Get().RecordDBWrite(time.Since(dbStart), err)
		if err != nil {
			c.hub.logger.Error("Failed to persist message record: " + err.Error())
		}
	}

	c.hub.eventLog.Append(events.TrafficEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeMessageEnciphered,
		SessionID: c.sessionID,
		Payload: events.MessagePayload{
			Input:            parsed.Text,
			Output:           output,
			RingSettings:     c.settings.RingSettings,
			InitialPositions: initialPositions,
			FinalPositions:   c.machine.Positions(),
			PlugboardPairs:   pairs,
		},
	})
	c.hub.logger.Event("MESSAGE_ENCIPHERED", c.sessionID, "letters="+strconv.Itoa(countLetters(parsed.Text)))

	c.saveSnapshot()
	c.reply(OperatorResponse{Type: "TEXT", Output: output, Positions: c.machine.Positions()})
}

func (c *Client) handleReset(rawPayload []byte) {
	var parsed struct {
		Positions string `json:"positions"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.reply(OperatorResponse{Type: "RESET", Error: "invalid payload"})
		return
	}

	c.machine.ResetPositions(parsed.Positions)
	metrics.Get().RecordPositionReset()

	c.hub.eventLog.Append(events.TrafficEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypePositionsReset,
		SessionID: c.sessionID,
		Payload:   map[string]string{"positions": c.machine.Positions()},
	})

	c.saveSnapshot()
	c.reply(OperatorResponse{Type: "RESET", Positions: c.machine.Positions()})
}

func (c *Client) handleConfigure(rawPayload []byte) {
	var settings config.Settings
	if err := json.Unmarshal(rawPayload, &settings); err != nil {
		c.reply(OperatorResponse{Type: "CONFIGURE", Error: "invalid payload"})
		return
	}

	m, err := settings.Build()
	if err != nil {
		// Intake validation failed; the current machine stays untouched.
		c.reply(OperatorResponse{Type: "CONFIGURE", Error: err.Error()})
		return
	}

	c.settings = settings
	c.machine = m

	c.hub.eventLog.Append(events.TrafficEvent{
		ID:        events.GenerateEventID(),
		Timestamp: time.Now(),
		Type:      events.EventTypeConfigApplied,
		SessionID: c.sessionID,
		Payload:   settings,
	})

	c.saveSnapshot()
	c.reply(OperatorResponse{Type: "CONFIGURE", Positions: c.machine.Positions()})
}

// saveSnapshot persists the session's machine state for reconnects.
func (c *Client) saveSnapshot() {
	if c.hub.snapshots == nil {
		return
	}
	settingsJSON, err := json.Marshal(c.settings)
	if err != nil {
		return
	}
	snap := storage.SessionSnapshot{
		SessionID:      c.sessionID,
		RotorPositions: c.machine.Positions(),
		SettingsJSON:   string(settingsJSON),
	}
	dbStart := time.Now()
	err = c.hub.snapshots.Upsert(context.Background(), snap)
	metrics.Get().RecordDBWrite(time.Since(dbStart), err)
}

// reply marshals a response and queues it for this session only.
func (c *Client) reply(resp OperatorResponse) {
	resp.SessionID = c.sessionID
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// countLetters counts the ASCII letters in s; only letters step the rotors.
func countLetters(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			n++
		}
	}
	return n
}
