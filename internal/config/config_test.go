package config

import (
	"errors"
	"testing"
)

func TestDefaultSettingsValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default settings must validate, got %v", err)
	}
}

func TestDefaultSettingsBuildKnownAnswer(t *testing.T) {
	m, err := Default().Build()
	if err != nil {
		t.Fatalf("Expected default settings to build, got %v", err)
	}

	if got := m.Encipher("AAAAA"); got != "BDZGO" {
		t.Errorf("Default machine should produce BDZGO for AAAAA, got %s", got)
	}
}

func TestValidateRejectsShortWiring(t *testing.T) {
	s := Default()
	s.RotorWirings[1] = "ABC"

	var cfgErr *ConfigurationError
	err := s.Validate()
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "rotor_wirings[1]" {
		t.Errorf("Expected the offending rotor named, got field %q", cfgErr.Field)
	}
}

func TestValidateRejectsNotchCountMismatch(t *testing.T) {
	s := Default()
	s.Notches = "QE"

	var cfgErr *ConfigurationError
	if err := s.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "notches" {
		t.Errorf("Expected notches rejection, got %v", err)
	}
}

func TestValidateRejectsRingTokenCount(t *testing.T) {
	s := Default()
	s.RingSettings = "A A"

	var cfgErr *ConfigurationError
	if err := s.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "ring_settings" {
		t.Errorf("Expected ring_settings rejection, got %v", err)
	}
}

func TestValidateRejectsMultiLetterPositionToken(t *testing.T) {
	s := Default()
	s.InitialPositions = "A AB C"

	var cfgErr *ConfigurationError
	if err := s.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "initial_positions" {
		t.Errorf("Expected initial_positions rejection, got %v", err)
	}
}

func TestValidateRejectsMalformedPlugboardPair(t *testing.T) {
	cases := []string{"A", "ATX", "", "A1"}
	for _, pair := range cases {
		s := Default()
		s.PlugboardPairs = []string{pair}

		var cfgErr *ConfigurationError
		if err := s.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "plugboard_pairs" {
			t.Errorf("Expected pair %q rejected, got %v", pair, err)
		}
	}
}

func TestValidateRejectsEmptyRotorSet(t *testing.T) {
	s := Default()
	s.RotorWirings = nil

	if err := s.Validate(); err == nil {
		t.Errorf("Expected at least one rotor to be required")
	}
}

func TestBuildDoesNotBuildInvalidSettings(t *testing.T) {
	s := Default()
	s.ReflectorWiring = "NOTAWIRING"

	m, err := s.Build()
	if err == nil {
		t.Fatalf("Expected build failure for bad reflector wiring")
	}
	if m != nil {
		t.Errorf("Expected nil machine on validation failure")
	}
}

func TestBuildAppliesInitialPositions(t *testing.T) {
	s := Default()
	s.InitialPositions = "C F T"

	m, err := s.Build()
	if err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	if pos := m.Positions(); pos != "C F T" {
		t.Errorf("Expected initial positions applied, got %q", pos)
	}
}
