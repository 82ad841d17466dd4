package machine

import "testing"

func TestMiddleRotorCarriesWhenRightAtNotch(t *testing.T) {
	// Right rotor sitting at its notch: one keypress carries the middle
	// rotor while the right one advances as always.
	notches := []byte{'Q', 'E', 'Q'}
	m := New(testWirings, notches, reflectorBWiring, "A A A", "A D Q", nil)

	m.Encipher("X")
	if pos := m.Positions(); pos != "A E R" {
		t.Errorf("Expected carry to middle rotor: want 'A E R', got %q", pos)
	}
}

func TestDoubleStepAnomaly(t *testing.T) {
	// After the carry the middle rotor sits at its own notch. The next
	// keypress steps it AGAIN while carrying the left rotor.
	notches := []byte{'Q', 'E', 'Q'}
	m := New(testWirings, notches, reflectorBWiring, "A A A", "A D Q", nil)

	m.Encipher("X")
	m.Encipher("X")
	if pos := m.Positions(); pos != "B F S" {
		t.Errorf("Expected double step: want 'B F S', got %q", pos)
	}
}

func TestNoCarryWhenRightNotAtNotch(t *testing.T) {
	m := New(testWirings, testNotches, reflectorBWiring, "A A A", "A D T", nil)

	m.Encipher("X")
	if pos := m.Positions(); pos != "A D U" {
		t.Errorf("Expected only the rightmost rotor to step, got %q", pos)
	}
}

func TestStepFlagsComputedFromPreAdvanceSnapshot(t *testing.T) {
	// Four-rotor stack with two adjacent rotors at their notches at once.
	// A rotor can be flagged by more than one trigger, but all triggers
	// are read before any rotor moves, so each flagged rotor advances
	// exactly once.
	wirings := []string{
		"EKMFLGDQVZNTOWYHXUSPAIBRCJ",
		"AJDKSIRUXBLHWTMCQGZNPYFVOE",
		"BDFHJLCPRTXVZNYEIWGAKMUSQO",
		"EKMFLGDQVZNTOWYHXUSPAIBRCJ",
	}
	notches := []byte{'A', 'X', 'E', 'Q'}
	m := New(wirings, notches, reflectorBWiring, "A A A A", "A A E Q", nil)

	m.Encipher("X")
	if pos := m.Positions(); pos != "A B F R" {
		t.Errorf("Each flagged rotor must advance exactly once: want 'A B F R', got %q", pos)
	}
}

func TestStepHappensBeforeSubstitution(t *testing.T) {
	// The rotors move before the signal passes through: a machine started
	// at "A A A" produces the same first letter as one started at
	// "A A B" would only if stepping happened after. It must not.
	m1 := newTestMachine("A A A", nil)
	out1 := m1.Encipher("A")

	// Manually advance a second machine to the post-step state and run
	// the signal with a frozen equivalent: stepping from "A A A" lands on
	// "A A B", so the two ciphertext letters differ from a no-step run.
	m2 := newTestMachine("A A B", nil)
	out2 := m2.Encipher("A") // steps to "A A C" before substituting

	if out1 == out2 {
		t.Errorf("Stepping must precede substitution; identical outputs suggest it does not")
	}
}
