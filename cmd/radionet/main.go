// Package main - radionet
// Load generator for stress testing: simulates a radio net of concurrent
// operators hammering the WebSocket endpoint with keystrokes and messages.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Config for the radio net
type Config struct {
	ServerURL      string
	NumOperators   int
	ActionInterval time.Duration
	TestDuration   time.Duration
}

// Stats tracks performance metrics
type Stats struct {
	MessagesSent     int64
	MessagesReceived int64
	Errors           int64
	Latencies        []time.Duration
	mu               sync.Mutex
}

// Action types for simulation
var actionTypes = []string{
	"KEY",
	"TEXT",
	"RESET",
	"POSITIONS",
}

// Sample traffic an operator might push through the machine.
var sampleMessages = []string{
	"WEATHER REPORT FOLLOWS",
	"ATTACK AT DAWN 0600",
	"SUPPLY CONVOY DELAYED",
	"ALL QUIET ON THIS FREQUENCY",
	"REQUEST IMMEDIATE RESPONSE",
}

func main() {
	// Parse flags
	serverURL := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	numOperators := flag.Int("operators", 50, "Number of concurrent operators")
	interval := flag.Duration("interval", 100*time.Millisecond, "Action interval per operator")
	duration := flag.Duration("duration", 60*time.Second, "Test duration")
	flag.Parse()

	config := Config{
		ServerURL:      *serverURL,
		NumOperators:   *numOperators,
		ActionInterval: *interval,
		TestDuration:   *duration,
	}

	fmt.Println("=========================================")
	fmt.Println("RADIO NET - Stress Test Tool")
	fmt.Println("=========================================")
	fmt.Printf("Server: %s\n", config.ServerURL)
	fmt.Printf("Operators: %d\n", config.NumOperators)
	fmt.Printf("Interval: %v\n", config.ActionInterval)
	fmt.Printf("Duration: %v\n", config.TestDuration)
	fmt.Println("=========================================")

	// Setup graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), config.TestDuration)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupt received, stopping...")
		cancel()
	}()

	// Run the stress test
	stats := runStressTest(ctx, config)

	// Print results
	printResults(stats, config)
}

func runStressTest(ctx context.Context, config Config) *Stats {
	stats := &Stats{
		Latencies: make([]time.Duration, 0, 10000),
	}

	var wg sync.WaitGroup

	fmt.Println("\nStarting operators...")

	for i := 0; i < config.NumOperators; i++ {
		wg.Add(1)
		go func(operatorID int) {
			defer wg.Done()
			runOperator(ctx, operatorID, config, stats)
		}(i)

		// Stagger starts to avoid thundering herd
		time.Sleep(10 * time.Millisecond)
	}

	fmt.Printf("All %d operators started\n\n", config.NumOperators)

	// Progress updates
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sent := atomic.LoadInt64(&stats.MessagesSent)
				recv := atomic.LoadInt64(&stats.MessagesReceived)
				errs := atomic.LoadInt64(&stats.Errors)
				fmt.Printf("Progress: Sent=%d Recv=%d Errors=%d\n", sent, recv, errs)
			}
		}
	}()

	wg.Wait()
	return stats
}

func runOperator(ctx context.Context, operatorID int, config Config, stats *Stats) {
	u, err := url.Parse(config.ServerURL)
	if err != nil {
		log.Printf("Operator %d: URL parse error: %v", operatorID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}

	// Connect
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		log.Printf("Operator %d: Connection failed: %v", operatorID, err)
		atomic.AddInt64(&stats.Errors, 1)
		return
	}
	defer conn.Close()

	// Start receiver goroutine
	go func() {
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
			atomic.AddInt64(&stats.MessagesReceived, 1)
		}
	}()

	// Send actions at configured interval
	ticker := time.NewTicker(config.ActionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			action := generateRandomAction()
			start := time.Now()

			if err := conn.WriteJSON(action); err != nil {
				atomic.AddInt64(&stats.Errors, 1)
				return
			}

			latency := time.Since(start)
			atomic.AddInt64(&stats.MessagesSent, 1)

			stats.mu.Lock()
			stats.Latencies = append(stats.Latencies, latency)
			stats.mu.Unlock()
		}
	}
}

func generateRandomAction() map[string]interface{} {
	actionType := actionTypes[rand.Intn(len(actionTypes))]

	action := map[string]interface{}{
		"type": actionType,
	}

	switch actionType {
	case "KEY":
		action["payload"] = map[string]string{
			"char": string(rune('A' + rand.Intn(26))),
		}

	case "TEXT":
		action["payload"] = map[string]string{
			"text": sampleMessages[rand.Intn(len(sampleMessages))],
		}

	case "RESET":
		positions := fmt.Sprintf("%c %c %c",
			'A'+rand.Intn(26), 'A'+rand.Intn(26), 'A'+rand.Intn(26))
		action["payload"] = map[string]string{
			"positions": positions,
		}

	case "POSITIONS":
		action["payload"] = map[string]string{}
	}

	return action
}

func printResults(stats *Stats, config Config) {
	fmt.Println("\n=========================================")
	fmt.Println("STRESS TEST RESULTS")
	fmt.Println("=========================================")

	sent := atomic.LoadInt64(&stats.MessagesSent)
	recv := atomic.LoadInt64(&stats.MessagesReceived)
	errs := atomic.LoadInt64(&stats.Errors)

	fmt.Printf("Messages Sent:     %d\n", sent)
	fmt.Printf("Messages Received: %d\n", recv)
	fmt.Printf("Errors:            %d\n", errs)
	fmt.Printf("Error Rate:        %.2f%%\n", float64(errs)/float64(sent+1)*100)

	// Calculate throughput
	throughput := float64(sent) / config.TestDuration.Seconds()
	fmt.Printf("Throughput:        %.2f msg/sec\n", throughput)

	// Latency stats
	if len(stats.Latencies) > 0 {
		var total time.Duration
		var min, max time.Duration = stats.Latencies[0], stats.Latencies[0]

		for _, l := range stats.Latencies {
			total += l
			if l < min {
				min = l
			}
			if l > max {
				max = l
			}
		}

		avg := total / time.Duration(len(stats.Latencies))

		fmt.Printf("\nLatency:\n")
		fmt.Printf("  Min: %v\n", min)
		fmt.Printf("  Avg: %v\n", avg)
		fmt.Printf("  Max: %v\n", max)
	}

	// Verdict
	fmt.Println("\n-----------------------------------------")
	if errs == 0 {
		fmt.Println("TEST PASSED: System handled the load")
	} else if float64(errs)/float64(sent+1) < 0.05 {
		fmt.Println("TEST WARNING: Some errors detected")
	} else {
		fmt.Println("TEST FAILED: High error rate")
	}
	fmt.Println("=========================================")

	// Export results as JSON
	results := map[string]interface{}{
		"messages_sent":      sent,
		"messages_received":  recv,
		"errors":             errs,
		"throughput_per_sec": throughput,
		"config": map[string]interface{}{
			"operators": config.NumOperators,
			"interval":  config.ActionInterval.String(),
			"duration":  config.TestDuration.String(),
		},
	}

	jsonData, _ := json.MarshalIndent(results, "", "  ")
	os.WriteFile("stress_test_results.json", jsonData, 0644)
	fmt.Println("\nResults saved to stress_test_results.json")
}
