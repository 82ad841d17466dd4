// Package config is the configuration intake layer for the cipher machine.
// The engine itself silently normalizes malformed input; strict validation
// of operator-supplied settings happens here, before a machine is built.
package config

import (
	"fmt"
	"strings"

	"github.com/putra-as-kyuutora/enigma-server/internal/domain/machine"
)

// ConfigurationError reports operator input rejected at the intake boundary.
// It is deliberately distinct from any engine-internal fault: the engine has
// no fatal error paths under well-formed input.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// Settings carries a complete machine configuration. It is immutable in
// spirit: applying new settings means building a new machine.
type Settings struct {
	RotorWirings     []string `json:"rotor_wirings"`
	Notches          string   `json:"notches"` // one letter per rotor
	ReflectorWiring  string   `json:"reflector_wiring"`
	RingSettings     string   `json:"ring_settings"`     // e.g. "A A A"
	InitialPositions string   `json:"initial_positions"` // e.g. "A A A"
	PlugboardPairs   []string `json:"plugboard_pairs"`   // e.g. ["AT","BS"]
}

// Default returns the machine the original simulator boots with: rotors
// I/II/III, notches Q/E/V, reflector B, neutral rings and positions, an
// empty plugboard.
func Default() Settings {
	return Settings{
		RotorWirings: []string{
			"EKMFLGDQVZNTOWYHXUSPAIBRCJ",
			"AJDKSIRUXBLHWTMCQGZNPYFVOE",
			"BDFHJLCPRTXVZNYEIWGAKMUSQO",
		},
		Notches:          "QEV",
		ReflectorWiring:  "YRUHQSLDPXNGOKMIEBFZCWVJAT",
		RingSettings:     "A A A",
		InitialPositions: "A A A",
		PlugboardPairs:   []string{},
	}
}

// Validate rejects settings an operator could plausibly mistype: wrong token
// counts, non-letter tokens, malformed plugboard pairs. It returns a
// *ConfigurationError describing the first problem found.
func (s Settings) Validate() error {
	n := len(s.RotorWirings)
	if n == 0 {
		return &ConfigurationError{Field: "rotor_wirings", Reason: "at least one rotor is required"}
	}
	for i, wiring := range s.RotorWirings {
		if len(wiring) != 26 || !allLetters(wiring) {
			return &ConfigurationError{
				Field:  fmt.Sprintf("rotor_wirings[%d]", i),
				Reason: "wiring must be 26 letters",
			}
		}
	}

	if len(s.Notches) != n || !allLetters(s.Notches) {
		return &ConfigurationError{Field: "notches", Reason: fmt.Sprintf("exactly %d notch letters required", n)}
	}

	if len(s.ReflectorWiring) != 26 || !allLetters(s.ReflectorWiring) {
		return &ConfigurationError{Field: "reflector_wiring", Reason: "wiring must be 26 letters"}
	}

	if err := validateLetterList("ring_settings", s.RingSettings, n); err != nil {
		return err
	}
	if err := validateLetterList("initial_positions", s.InitialPositions, n); err != nil {
		return err
	}

	for _, pair := range s.PlugboardPairs {
		if len(pair) != 2 || !allLetters(pair) {
			return &ConfigurationError{
				Field:  "plugboard_pairs",
				Reason: fmt.Sprintf("pair %q must be exactly two letters (e.g. AT)", pair),
			}
		}
	}

	return nil
}

// Build validates the settings and constructs a fresh machine from them.
func (s Settings) Build() (*machine.Machine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	m := machine.New(s.RotorWirings, []byte(s.Notches), s.ReflectorWiring,
		s.RingSettings, s.InitialPositions, s.PlugboardPairs)
	return m, nil
}

// validateLetterList checks a space-separated list of single letters, one
// per rotor (the "A A A" format the original config dialog enforced).
func validateLetterList(field, value string, rotors int) error {
	parts := strings.Fields(value)
	if len(parts) != rotors {
		return &ConfigurationError{
			Field:  field,
			Reason: fmt.Sprintf("expected %d space-separated letters, got %d", rotors, len(parts)),
		}
	}
	for _, part := range parts {
		if len(part) != 1 || !allLetters(part) {
			return &ConfigurationError{
				Field:  field,
				Reason: fmt.Sprintf("token %q must be a single letter", part),
			}
		}
	}
	return nil
}

func allLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return len(s) > 0
}
