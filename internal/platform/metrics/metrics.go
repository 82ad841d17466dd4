// Package metrics provides observability for the cipher service.
// In-memory counters for load analysis; exposed as JSON and Prometheus text.
package metrics

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Collector gathers performance metrics.
type Collector struct {
	// Cipher metrics
	KeystrokesEnciphered int64
	MessagesEnciphered   int64
	EncipherLatencySum   int64 // nanoseconds
	EncipherLatencyMax   int64
	PositionResets       int64

	// WebSocket metrics
	WSConnectionsActive int64
	WSMessagesIn        int64
	WSMessagesOut       int64
	WSErrors            int64

	// Storage metrics
	DBWrites        int64
	DBWriteLatSum   int64
	DBWriteLatMax   int64
	DBWriteErrors   int64

	// System
	StartTime time.Time
	mu        sync.RWMutex
}

// Global collector instance
var collector = &Collector{
	StartTime: time.Now(),
}

// Get returns the global collector.
func Get() *Collector {
	return collector
}

// RecordEncipher records a completed encipher call.
func (c *Collector) RecordEncipher(letters int, latency time.Duration) {
	atomic.AddInt64(&c.MessagesEnciphered, 1)
	atomic.AddInt64(&c.KeystrokesEnciphered, int64(letters))
	atomic.AddInt64(&c.EncipherLatencySum, int64(latency))

	// Update max (non-atomic but acceptable for metrics)
	if int64(latency) > atomic.LoadInt64(&c.EncipherLatencyMax) {
		atomic.StoreInt64(&c.EncipherLatencyMax, int64(latency))
	}
}

// RecordPositionReset records a rotor position reset.
func (c *Collector) RecordPositionReset() {
	atomic.AddInt64(&c.PositionResets, 1)
}

// RecordDBWrite records a write to the database.
func (c *Collector) RecordDBWrite(latency time.Duration, err error) {
	atomic.AddInt64(&c.DBWrites, 1)
	atomic.AddInt64(&c.DBWriteLatSum, int64(latency))

	if int64(latency) > atomic.LoadInt64(&c.DBWriteLatMax) {
		atomic.StoreInt64(&c.DBWriteLatMax, int64(latency))
	}

	if err != nil {
		atomic.AddInt64(&c.DBWriteErrors, 1)
	}
}

// RecordWSConnection records WebSocket connection changes.
func (c *Collector) RecordWSConnection(delta int64) {
	atomic.AddInt64(&c.WSConnectionsActive, delta)
}

// RecordWSMessage records WebSocket messages.
func (c *Collector) RecordWSMessage(incoming bool) {
	if incoming {
		atomic.AddInt64(&c.WSMessagesIn, 1)
	} else {
		atomic.AddInt64(&c.WSMessagesOut, 1)
	}
}

// RecordWSError records a WebSocket error.
func (c *Collector) RecordWSError() {
	atomic.AddInt64(&c.WSErrors, 1)
}

// Snapshot returns current metrics as a map.
func (c *Collector) Snapshot() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	messages := atomic.LoadInt64(&c.MessagesEnciphered)
	dbWrites := atomic.LoadInt64(&c.DBWrites)

	// Calculate averages
	var encipherAvg, dbAvg float64
	if messages > 0 {
		encipherAvg = float64(atomic.LoadInt64(&c.EncipherLatencySum)) / float64(messages) / 1e6 // ms
	}
	if dbWrites > 0 {
		dbAvg = float64(atomic.LoadInt64(&c.DBWriteLatSum)) / float64(dbWrites) / 1e6
	}

	return map[string]interface{}{
		"uptime_seconds": time.Since(c.StartTime).Seconds(),

		"cipher": map[string]interface{}{
			"messages":             messages,
			"keystrokes":           atomic.LoadInt64(&c.KeystrokesEnciphered),
			"position_resets":      atomic.LoadInt64(&c.PositionResets),
			"avg_latency_ms":       encipherAvg,
			"max_latency_ms":       float64(atomic.LoadInt64(&c.EncipherLatencyMax)) / 1e6,
		},

		"storage": map[string]interface{}{
			"writes":           dbWrites,
			"avg_write_lat_ms": dbAvg,
			"max_write_lat_ms": float64(atomic.LoadInt64(&c.DBWriteLatMax)) / 1e6,
			"errors":           atomic.LoadInt64(&c.DBWriteErrors),
		},

		"websocket": map[string]interface{}{
			"active_connections": atomic.LoadInt64(&c.WSConnectionsActive),
			"messages_in":        atomic.LoadInt64(&c.WSMessagesIn),
			"messages_out":       atomic.LoadInt64(&c.WSMessagesOut),
			"errors":             atomic.LoadInt64(&c.WSErrors),
		},
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")

		snapshot := collector.Snapshot()
		json.NewEncoder(w).Encode(snapshot)
	}
}

// PrometheusHandler returns metrics in Prometheus format.
func PrometheusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		c := collector

		// Cipher metrics
		fmt.Fprintf(w, "# HELP enigma_messages_enciphered Total messages enciphered\n")
		fmt.Fprintf(w, "# TYPE enigma_messages_enciphered counter\n")
		fmt.Fprintf(w, "enigma_messages_enciphered %d\n\n", atomic.LoadInt64(&c.MessagesEnciphered))

		fmt.Fprintf(w, "# HELP enigma_keystrokes_enciphered Total letters pushed through the rotors\n")
		fmt.Fprintf(w, "# TYPE enigma_keystrokes_enciphered counter\n")
		fmt.Fprintf(w, "enigma_keystrokes_enciphered %d\n\n", atomic.LoadInt64(&c.KeystrokesEnciphered))

		fmt.Fprintf(w, "# HELP enigma_position_resets Total rotor position resets\n")
		fmt.Fprintf(w, "# TYPE enigma_position_resets counter\n")
		fmt.Fprintf(w, "enigma_position_resets %d\n\n", atomic.LoadInt64(&c.PositionResets))

		fmt.Fprintf(w, "# HELP enigma_encipher_latency_max_ms Maximum encipher latency\n")
		fmt.Fprintf(w, "# TYPE enigma_encipher_latency_max_ms gauge\n")
		fmt.Fprintf(w, "enigma_encipher_latency_max_ms %.2f\n\n", float64(atomic.LoadInt64(&c.EncipherLatencyMax))/1e6)

		// Storage metrics
		fmt.Fprintf(w, "# HELP enigma_db_writes Total database writes\n")
		fmt.Fprintf(w, "# TYPE enigma_db_writes counter\n")
		fmt.Fprintf(w, "enigma_db_writes %d\n\n", atomic.LoadInt64(&c.DBWrites))

		fmt.Fprintf(w, "# HELP enigma_db_write_errors Total database write errors\n")
		fmt.Fprintf(w, "# TYPE enigma_db_write_errors counter\n")
		fmt.Fprintf(w, "enigma_db_write_errors %d\n\n", atomic.LoadInt64(&c.DBWriteErrors))

		// WebSocket metrics
		fmt.Fprintf(w, "# HELP enigma_ws_connections Active WebSocket connections\n")
		fmt.Fprintf(w, "# TYPE enigma_ws_connections gauge\n")
		fmt.Fprintf(w, "enigma_ws_connections %d\n\n", atomic.LoadInt64(&c.WSConnectionsActive))

		fmt.Fprintf(w, "# HELP enigma_ws_messages_total Total WebSocket messages\n")
		fmt.Fprintf(w, "# TYPE enigma_ws_messages_total counter\n")
		fmt.Fprintf(w, "enigma_ws_messages_total{direction=\"in\"} %d\n", atomic.LoadInt64(&c.WSMessagesIn))
		fmt.Fprintf(w, "enigma_ws_messages_total{direction=\"out\"} %d\n", atomic.LoadInt64(&c.WSMessagesOut))
	}
}
